// Package svg writes a chart [interact.Scene] as a standalone SVG document.
//
// The document mirrors the interactive chart: a marker definition for
// parent arrows, then one group carrying the zoom transform with the link,
// node and interaction layers in that order. The legend, when enabled, is
// drawn outside the transform in screen space.
//
//	doc := svg.RenderSVG(scene, svg.WithLegend(), svg.WithFit(40))
//
// [interact.Scene]: github.com/matzehuels/familytree/pkg/interact#Scene
package svg

import (
	"bytes"
	"fmt"
	"html"

	"github.com/matzehuels/familytree/pkg/family"
	"github.com/matzehuels/familytree/pkg/interact"
	"github.com/matzehuels/familytree/pkg/layout"
)

const nodeCSS = `
    .node circle { transition: stroke-width 0.2s ease; }
    .node:hover circle { stroke-width: 3; }
    .label { font-family: sans-serif; font-size: 10px; font-weight: bold; }
    .legend { font-family: sans-serif; font-size: 11px; }
    .legend .hidden { opacity: 0.5; }`

type Option func(*renderer)

type renderer struct {
	legend     bool
	fit        bool
	pad        float64
	background bool
	title      string
}

func WithLegend() Option        { return func(r *renderer) { r.legend = true } }
func WithBackground() Option    { return func(r *renderer) { r.background = true } }
func WithTitle(s string) Option { return func(r *renderer) { r.title = s } }

// WithFit ignores the scene transform and scales the drawing so that every
// node fits the canvas with pad pixels of margin.
func WithFit(pad float64) Option {
	return func(r *renderer) { r.fit, r.pad = true, pad }
}

// RenderSVG serializes sc. An empty scene yields an empty canvas.
func RenderSVG(sc interact.Scene, opts ...Option) []byte {
	r := renderer{}
	for _, opt := range opts {
		opt(&r)
	}

	w, h := sc.Canvas.Width, sc.Canvas.Height
	tr := sc.Transform
	if tr.K == 0 {
		tr = interact.Identity
	}
	if r.fit && len(sc.Nodes) > 0 {
		// Labels hang below the disc, so the box grows by two radii.
		b := sc.Bounds().Pad(sc.Radius + r.pad)
		tr = interact.Fit(b, sc.Canvas, 0.01, 1)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n", w, h, w, h)
	if r.title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", escape(r.title))
	}
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", nodeCSS)
	renderDefs(&buf, sc.Palette)
	if r.background {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", sc.Palette.Background)
	}

	fmt.Fprintf(&buf, `  <g transform="%s">`+"\n", tr)
	renderLinks(&buf, sc.Edges)
	renderNodes(&buf, sc)
	renderInteraction(&buf, sc.Snap)
	buf.WriteString("  </g>\n")

	if r.legend && len(sc.Nodes) > 0 {
		renderLegend(&buf, sc)
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderDefs(buf *bytes.Buffer, pal interact.Palette) {
	buf.WriteString("  <defs>\n")
	fmt.Fprintf(buf, `    <marker id="arrowhead" viewBox="0 -5 10 10" refX="38" refY="0" markerWidth="5" markerHeight="5" orient="auto">`+
		`<path d="M0,-5L10,0L0,5" fill="%s"/></marker>`+"\n", pal.Link)
	buf.WriteString("  </defs>\n")
}

func renderLinks(buf *bytes.Buffer, edges []interact.SceneEdge) {
	buf.WriteString(`    <g class="links" fill="none">` + "\n")
	for _, e := range edges {
		fmt.Fprintf(buf, `      <path id="link-%s" class="link %s" d="%s" stroke="%s" stroke-width="%.1f"`,
			escape(e.ID), typeClass(e.Type), e.Path.D(), e.Stroke, e.Width)
		if e.Dash != "" {
			fmt.Fprintf(buf, ` stroke-dasharray="%s"`, e.Dash)
		}
		if e.Arrow {
			buf.WriteString(` marker-end="url(#arrowhead)"`)
		}
		buf.WriteString("/>\n")
	}
	buf.WriteString("    </g>\n")
}

func renderNodes(buf *bytes.Buffer, sc interact.Scene) {
	r := sc.Radius
	buf.WriteString(`    <g class="nodes">` + "\n")
	for _, n := range sc.Nodes {
		fmt.Fprintf(buf, `      <g id="node-%s" class="node" transform="translate(%.2f,%.2f)" data-level="%d">`+"\n",
			escape(n.ID), n.X, n.Y, n.Level)
		fmt.Fprintf(buf, `        <circle r="%.1f" fill="%s" stroke="%s" stroke-width="%.1f"/>`+"\n",
			r, n.Fill, n.Stroke, n.StrokeWidth)
		fmt.Fprintf(buf, `        <rect rx="4" ry="4" x="-40" y="%.1f" width="80" height="20" fill="%s"/>`+"\n",
			r+5, sc.Palette.LabelFill)
		fmt.Fprintf(buf, `        <text class="label" x="0" y="%.1f" text-anchor="middle" fill="%s">%s</text>`+"\n",
			r+18, sc.Palette.Text, escape(n.Label))
		buf.WriteString("      </g>\n")
	}
	buf.WriteString("    </g>\n")
}

func renderInteraction(buf *bytes.Buffer, snap *interact.SnapLine) {
	buf.WriteString(`    <g class="interaction">` + "\n")
	if snap != nil {
		fmt.Fprintf(buf, `      <line class="snap-line" x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="%.1f" stroke-dasharray="%s" stroke-linecap="round"/>`+"\n",
			snap.From.X, snap.From.Y, snap.To.X, snap.To.Y, snap.Stroke, snap.Width, snap.Dash)
	}
	buf.WriteString("    </g>\n")
}

func renderLegend(buf *bytes.Buffer, sc interact.Scene) {
	const (
		x, rowH = 16.0, 18.0
		boxW    = 150.0
	)
	rows := 2 + len(sc.Legend.Types)
	y := sc.Canvas.Height - 16 - float64(rows)*rowH - 8
	pal := sc.Palette

	fmt.Fprintf(buf, `  <g class="legend" transform="translate(%.1f,%.1f)">`+"\n", x, y)
	fmt.Fprintf(buf, `    <rect rx="8" width="%.0f" height="%.0f" fill="%s" fill-opacity="0.9"/>`+"\n",
		boxW, float64(rows)*rowH+8, pal.Background)

	swatch := func(row int, color, label string) {
		cy := 4 + float64(row)*rowH + rowH/2
		fmt.Fprintf(buf, `    <circle cx="14" cy="%.1f" r="6" fill="%s" stroke="%s"/>`+"\n", cy, color, pal.NodeStroke)
		fmt.Fprintf(buf, `    <text x="44" y="%.1f" fill="%s">%s</text>`+"\n", cy+4, pal.Text, label)
	}
	swatch(0, sc.Legend.Male, "Male")
	swatch(1, sc.Legend.Female, "Female")

	for i, e := range sc.Legend.Types {
		cy := 4 + float64(i+2)*rowH + rowH/2
		class := "entry"
		if !e.Visible {
			class += " hidden"
		}
		fmt.Fprintf(buf, `    <g class="%s" data-type="%s">`, class, e.Type)
		p := interact.Line(layout.Point{X: 6, Y: cy}, layout.Point{X: 36, Y: cy})
		if e.Curved {
			p = interact.Path{
				From: layout.Point{X: 6, Y: cy + 5}, C1: layout.Point{X: 21, Y: cy + 5},
				C2: layout.Point{X: 21, Y: cy - 5}, To: layout.Point{X: 36, Y: cy - 5}, Curved: true,
			}
		}
		fmt.Fprintf(buf, `<path d="%s" fill="none" stroke="%s" stroke-width="2"`, p.D(), e.Stroke)
		if e.Dash != "" {
			fmt.Fprintf(buf, ` stroke-dasharray="%s"`, e.Dash)
		}
		fmt.Fprintf(buf, `/><text x="44" y="%.1f" fill="%s">%s</text></g>`+"\n", cy+4, pal.Text, escape(e.Label))
	}
	buf.WriteString("  </g>\n")
}

func typeClass(t family.RelationshipType) string {
	switch t {
	case family.Spouse:
		return "spouse"
	case family.Sibling:
		return "sibling"
	default:
		return "parent"
	}
}

func escape(s string) string {
	return html.EscapeString(s)
}
