package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/familytree/pkg/family"
	"github.com/matzehuels/familytree/pkg/interact"
	"github.com/matzehuels/familytree/pkg/layout"
	"github.com/matzehuels/familytree/pkg/render"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Visible limits the drawn relationship types. Nil draws all.
	Visible family.TypeSet

	// Selected highlights one person.
	Selected string

	// Dark switches to the dark palette.
	Dark bool

	// Detailed adds the generation and life dates to each label.
	Detailed bool
}

// ToDOT converts people and relationships to Graphviz DOT. People on the
// same level share a rank. Relationships with unknown endpoints and
// self-loops are left out.
func ToDOT(people []family.Person, rels []family.Relationship, levels layout.Levels, opts Options) string {
	pal := interact.NewPalette(opts.Dark)
	visible := opts.Visible
	if visible == nil {
		visible = family.AllTypes()
	}

	idx := family.NewIndex(people, rels)
	seen := make(map[string]bool, len(people))
	ranks := make(map[int][]string)

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	fmt.Fprintf(&buf, "  node [shape=box, style=\"rounded,filled\", fontname=\"sans-serif\", fontsize=14, color=%q, fontcolor=\"#333333\", margin=\"0.2,0.1\"];\n", pal.NodeStroke)
	fmt.Fprintf(&buf, "  edge [color=%q, penwidth=2];\n", pal.Link)
	buf.WriteString("  ranksep=0.8;\n")
	buf.WriteString("  nodesep=0.4;\n")
	buf.WriteString("\n")

	for _, p := range people {
		if seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		lvl := levels[p.ID]
		ranks[lvl] = append(ranks[lvl], p.ID)
		fmt.Fprintf(&buf, "  %q [%s];\n", p.ID, strings.Join(fmtAttrs(p, lvl, pal, opts), ", "))
	}

	buf.WriteString("\n")
	lo, hi := levels.Span()
	for lvl := lo; lvl <= hi; lvl++ {
		ids := ranks[lvl]
		if len(ids) < 2 {
			continue
		}
		quoted := make([]string, len(ids))
		for i, id := range ids {
			quoted[i] = strconv.Quote(id)
		}
		fmt.Fprintf(&buf, "  { rank=same; %s; }\n", strings.Join(quoted, "; "))
	}

	buf.WriteString("\n")
	for _, r := range visible.Filter(rels) {
		if !idx.Known(r) {
			continue
		}
		switch r.Type {
		case family.Spouse:
			fmt.Fprintf(&buf, "  %q -> %q [dir=none, style=dashed, color=%q, constraint=false];\n", r.Source, r.Target, pal.Spouse)
		case family.Sibling:
			fmt.Fprintf(&buf, "  %q -> %q [dir=none, constraint=false];\n", r.Source, r.Target)
		default:
			fmt.Fprintf(&buf, "  %q -> %q;\n", r.Source, r.Target)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(p family.Person, level int, detailed bool) string {
	name := p.DisplayName()
	if name == "" {
		name = p.ID
	}
	if !detailed {
		return name
	}
	parts := []string{name, fmt.Sprintf("generation: %d", level)}
	if life := lifespan(p); life != "" {
		parts = append(parts, life)
	}
	return strings.Join(parts, "\n")
}

func lifespan(p family.Person) string {
	switch {
	case p.BirthDate != "" && p.DeathDate != "":
		return p.BirthDate + " – " + p.DeathDate
	case p.BirthDate != "":
		return "b. " + p.BirthDate
	case p.DeathDate != "":
		return "d. " + p.DeathDate
	}
	return ""
}

func fmtAttrs(p family.Person, level int, pal interact.Palette, opts Options) []string {
	fill := pal.Male
	if p.Gender == family.Female {
		fill = pal.Female
	}
	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(p, level, opts.Detailed))}
	if p.ID == opts.Selected && p.ID != "" {
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", pal.Selected), fmt.Sprintf("color=%q", pal.SelectedStroke), "penwidth=3")
	} else {
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", fill))
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(svg, scale)
}
