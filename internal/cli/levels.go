package cli

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/familytree/pkg/family"
	pkgio "github.com/matzehuels/familytree/pkg/io"
	"github.com/matzehuels/familytree/pkg/layout"
)

// levelsCommand creates the levels command for printing generations.
func (c *CLI) levelsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "levels [tree.json]",
		Short: "Print the generation of every person",
		Long: `Print the generation of every person.

Generations are resolved from parent and spouse relationships only: a child
sits one level below its deepest parent and spouses share the deeper of
their two levels. Sibling relationships and the visibility filter never
change levels.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLevels(cmd.Context(), cmd.OutOrStdout(), args[0])
		},
	}
}

func (c *CLI) runLevels(ctx context.Context, w io.Writer, input string) error {
	logger := loggerFromContext(ctx)

	tree, err := pkgio.ImportTree(input)
	if err != nil {
		return err
	}
	for _, issue := range tree.Validate() {
		logger.Debug("skipping malformed entry", "issue", issue.String())
	}

	gens := layout.ResolveGenerations(tree.People, tree.Relationships)
	fmt.Fprintln(w, levelsTable(tree.People, gens.Levels))

	if !gens.Converged {
		printWarning("levels did not converge after %d passes; the tree contains a parent cycle", gens.Passes)
	}
	lo, hi := gens.Levels.Span()
	if len(gens.Levels) == 0 {
		lo, hi = 0, -1
	}
	printStats(statLine{people: len(gens.Levels), generations: hi - lo + 1, skipped: gens.Skipped})
	return nil
}

// levelsTable renders people sorted by level, then input order.
func levelsTable(people []family.Person, levels layout.Levels) string {
	type row struct {
		order int
		p     family.Person
		level int
	}
	seen := make(map[string]bool, len(people))
	rows := make([]row, 0, len(people))
	for i, p := range people {
		if seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		rows = append(rows, row{order: i, p: p, level: levels[p.ID]})
	}
	slices.SortFunc(rows, func(a, b row) int {
		return cmp.Or(cmp.Compare(a.level, b.level), cmp.Compare(a.order, b.order))
	})

	cells := make([][]string, len(rows))
	for i, r := range rows {
		cells[i] = []string{strconv.Itoa(r.level), r.p.ID, r.p.DisplayName(), string(r.p.Gender)}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Gen", "ID", "Name", "Gender").
		Rows(cells...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 0:
				return StyleNumber
			case col == 1:
				return StyleDim
			}
			return StyleValue
		}).
		Render()
}
