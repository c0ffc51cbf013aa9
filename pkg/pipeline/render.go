package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/familytree/pkg/family"
	"github.com/matzehuels/familytree/pkg/interact"
	pkgio "github.com/matzehuels/familytree/pkg/io"
	"github.com/matzehuels/familytree/pkg/layout"
	"github.com/matzehuels/familytree/pkg/render"
	"github.com/matzehuels/familytree/pkg/render/nodelink"
	"github.com/matzehuels/familytree/pkg/render/svg"
)

// RenderLayout produces every requested format from a settled layout.
// The tree supplies names and genders; positions come from l. opts must
// already be validated.
func RenderLayout(ctx context.Context, tree *family.Tree, l *pkgio.Layout, opts Options) (map[string][]byte, error) {
	a := artifactSet{ctx: ctx, tree: tree, layout: l, opts: opts}
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data, err = a.svg()
		case FormatPNG:
			if data, err = a.svg(); err == nil {
				data, err = render.ToPNG(data, opts.Scale)
			}
		case FormatPDF:
			if data, err = a.svg(); err == nil {
				data, err = render.ToPDF(data)
			}
		case FormatJSON:
			data, err = pkgio.MarshalLayout(l)
		case FormatDOT:
			data = []byte(a.dot())
		default:
			return nil, ValidateFormat(format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// artifactSet memoizes the SVG and DOT sources shared by several formats.
type artifactSet struct {
	ctx    context.Context
	tree   *family.Tree
	layout *pkgio.Layout
	opts   Options

	svgDoc []byte
	dotSrc string
}

func (a *artifactSet) svg() ([]byte, error) {
	if a.svgDoc != nil {
		return a.svgDoc, nil
	}
	if a.opts.Renderer == RendererGraphviz {
		doc, err := nodelink.RenderSVG(a.ctx, a.dot())
		if err != nil {
			return nil, err
		}
		a.svgDoc = doc
		return doc, nil
	}
	a.svgDoc = svg.RenderSVG(BuildScene(a.tree, a.layout, a.opts), svgOptions(a.tree, a.opts)...)
	return a.svgDoc, nil
}

func (a *artifactSet) dot() string {
	if a.dotSrc == "" {
		a.dotSrc = nodelink.ToDOT(a.tree.People, layoutEdges(a.layout), layoutLevels(a.layout), nodelink.Options{
			Visible:  visibleOf(a.layout),
			Selected: a.opts.Selected,
			Dark:     a.opts.Dark,
			Detailed: a.opts.Detailed,
		})
	}
	return a.dotSrc
}

// BuildScene composes the render model of a settled layout.
func BuildScene(tree *family.Tree, l *pkgio.Layout, opts Options) interact.Scene {
	radius := 0.0
	if opts.Config != nil {
		radius = opts.Config.Interaction.NodeRadius
	}
	return interact.ComposeScene(interact.SceneParams{
		People:    tree.People,
		Edges:     layoutEdges(l),
		Nodes:     layoutNodes(l),
		Levels:    layoutLevels(l),
		Visible:   visibleOf(l),
		Canvas:    layout.Canvas{Width: l.Width, Height: l.Height},
		Transform: interact.Identity,
		Radius:    radius,
		Style:     interact.Style{Selected: opts.Selected, Dark: opts.Dark},
	})
}

func svgOptions(tree *family.Tree, opts Options) []svg.Option {
	svgOpts := []svg.Option{svg.WithBackground()}
	if tree.Name != "" {
		svgOpts = append(svgOpts, svg.WithTitle(tree.Name))
	}
	if opts.Legend {
		svgOpts = append(svgOpts, svg.WithLegend())
	}
	if opts.Fit {
		svgOpts = append(svgOpts, svg.WithFit(DefaultFitPadding))
	}
	return svgOpts
}

func visibleOf(l *pkgio.Layout) family.TypeSet {
	return family.NewTypeSet(l.Visible...)
}
