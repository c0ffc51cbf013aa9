package cli

import (
	"context"
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/familytree/pkg/errors"
	"github.com/matzehuels/familytree/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string // output file (single format) or base path
	formats  string // comma-separated: svg, png, pdf, json, dot
	renderer string // force or graphviz
	selected string // person ID drawn as selected
	dark     bool
	legend   bool
	fit      bool
	detailed bool
	scale    float64
	refresh  bool
}

// renderCommand creates the render command for generating chart files.
func (c *CLI) renderCommand() *cobra.Command {
	var flags commonFlags
	opts := renderOpts{renderer: pipeline.RendererForce, legend: true, fit: true, scale: pipeline.DefaultScale}

	cmd := &cobra.Command{
		Use:   "render [tree.json]",
		Short: "Render a family tree to SVG, PNG, PDF, JSON or DOT",
		Long: `Render a family tree to SVG, PNG, PDF, JSON or DOT.

The force renderer draws the settled simulation. The graphviz renderer hands
the tree to Graphviz with one rank per generation. PNG and PDF output
require rsvg-convert (librsvg).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], &flags, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): svg (default), png, pdf, json, dot (comma-separated)")
	cmd.Flags().StringVarP(&opts.renderer, "renderer", "r", opts.renderer, "renderer: force (default), graphviz")
	cmd.Flags().StringVar(&opts.selected, "select", "", "person ID to highlight")
	cmd.Flags().BoolVar(&opts.dark, "dark", false, "dark theme")
	cmd.Flags().BoolVar(&opts.legend, "legend", opts.legend, "draw the legend")
	cmd.Flags().BoolVar(&opts.fit, "fit", opts.fit, "scale the chart to fit the canvas")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show generation and dates in labels (graphviz)")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG resolution factor")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute the layout even when cached")
	flags.register(cmd, true)

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, flags *commonFlags, ro *renderOpts) error {
	opts, err := flags.options()
	if err != nil {
		return err
	}
	opts.Formats = parseFormats(ro.formats)
	opts.Renderer = ro.renderer
	opts.Selected = ro.selected
	opts.Dark = ro.dark
	opts.Legend = ro.legend
	opts.Fit = ro.fit
	opts.Detailed = ro.detailed
	opts.Scale = ro.scale
	opts.Refresh = ro.refresh
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, flags)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	tree, err := runner.Load(ctx, input)
	if err != nil {
		return err
	}
	if opts.Selected != "" && !tree.Has(opts.Selected) {
		return errors.New(errors.ErrCodeUnknownPerson, "--select %q is not in %s", opts.Selected, input)
	}

	spinner := newSpinnerWithContext(ctx, "Rendering...")
	spinner.Start()
	result, err := runner.Execute(ctx, tree, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	base := basePath(ro.output, input)
	printSuccess("Rendered %s", input)
	for _, format := range opts.Formats {
		path := outputPath(base, format)
		if ro.output != "" && len(opts.Formats) == 1 {
			path = ro.output
		}
		if err := os.WriteFile(path, result.Artifacts[format], 0o644); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
		}
		printFile(path)
	}
	printStats(statLine{
		people:    len(result.Layout.Nodes),
		edges:     len(result.Layout.Edges),
		ticks:     result.Layout.Ticks,
		skipped:   result.Stats.Skipped,
		showCache: true,
		cached:    result.CacheInfo.LayoutHit,
	})
	if slices.Contains(opts.Formats, pipeline.FormatSVG) {
		printNewline()
		printNextStep("Explore", appName+" view "+input)
	}
	return nil
}
