// Package nodelink renders a family tree as a Graphviz node-link diagram.
//
// # Overview
//
// This is the static counterpart to the force-simulated chart: Graphviz
// does the layout, and every generation level becomes one rank so that
// spouses share a row and children sit below their parents.
//
// # Usage
//
// Convert the tree to DOT, then render to SVG:
//
//	dot := nodelink.ToDOT(people, rels, gens.Levels, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output, use the render functions:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0)  // 2x scale
//
// # Edge styles
//
// Parent edges are arrows from parent to child. Spouse edges are dashed
// and undirected, sibling edges plain and undirected; neither constrains
// the ranking.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
