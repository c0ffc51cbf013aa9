// Package render turns chart scenes into files.
//
// # Overview
//
// The drawing model lives in [interact.Scene]; this package and its
// subpackages serialize it:
//
//   - Generic format conversion (SVG to PDF/PNG)
//   - Force-layout charts as SVG (in [svg] subpackage)
//   - Graphviz node-link diagrams ranked by generation (in [nodelink] subpackage)
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg).
//
//	doc := svg.RenderSVG(scene, svg.WithLegend())
//	pdf, err := render.ToPDF(doc)
//	png, err := render.ToPNG(doc, 2.0)  // 2x scale
//
// [interact.Scene]: github.com/matzehuels/familytree/pkg/interact#Scene
// [svg]: github.com/matzehuels/familytree/pkg/render/svg
// [nodelink]: github.com/matzehuels/familytree/pkg/render/nodelink
package render
