package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	pkgio "github.com/matzehuels/familytree/pkg/io"
)

// layoutCommand creates the layout command for computing settled positions.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		flags  commonFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "layout [tree.json]",
		Short: "Compute settled positions for a family tree",
		Long: `Compute settled positions for a family tree.

The layout command resolves generations, places every person in its
generation band and runs the force simulation until it comes to rest. The
output is a layout.json file (same format as 'render -f json').

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], &flags, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	flags.register(cmd, true)

	return cmd
}

// runLayout loads the tree, settles the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, input string, flags *commonFlags, output string) error {
	opts, err := flags.options()
	if err != nil {
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

	prog := newProgress(loggerFromContext(ctx))
	spinner := newSpinnerWithContext(ctx, "Settling layout...")
	spinner.Start()

	l, cacheHit, err := runner.LayoutWithCacheInfo(ctx, tree, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Settled %d people in %d ticks", len(l.Nodes), l.Ticks))

	if ctx.Err() != nil {
		return ctx.Err()
	}

	path := output
	if path == "" {
		path = basePath("", input) + ".layout.json"
	}
	if err := pkgio.ExportLayout(l, path); err != nil {
		return fmt.Errorf("write output %s: %w", path, err)
	}

	printSuccess("Layout complete")
	printFile(path)
	printStats(statLine{people: len(l.Nodes), edges: len(l.Edges), ticks: l.Ticks, showCache: true, cached: cacheHit})
	if !l.Settled {
		printWarning("simulation stopped at the tick limit before coming to rest")
	}
	printNewline()
	printNextStep("Render", appName+" render "+input)

	return nil
}
