package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/familytree/pkg/family"
	"github.com/matzehuels/familytree/pkg/interact"
	pkgio "github.com/matzehuels/familytree/pkg/io"
	"github.com/matzehuels/familytree/pkg/layout"
	"github.com/matzehuels/familytree/pkg/session"
)

// viewCommand creates the interactive viewer command.
func (c *CLI) viewCommand() *cobra.Command {
	var (
		flags commonFlags
		dark  bool
		save  bool
		fresh bool
	)

	cmd := &cobra.Command{
		Use:   "view [tree.json]",
		Short: "Explore a family tree interactively in the terminal",
		Long: `Explore a family tree interactively in the terminal.

The chart settles live. Drag a person with the mouse to move them; drop
them next to someone they are not yet related to and choose how the two
are connected. Click a person to select them, scroll to zoom, drag the
background to pan, and press 1-3 to toggle parent, spouse and sibling lines.

With --save, relationships created in the viewer are written back to the
input file on exit. Zoom, hidden types, theme and selection are remembered
per file; --fresh ignores the saved state. Explicit --hide and --dark flags
override it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			vo := viewFlags{
				dark:        dark,
				save:        save,
				fresh:       fresh,
				hideChanged: cmd.Flags().Changed("hide"),
				darkChanged: cmd.Flags().Changed("dark"),
			}
			return c.runView(cmd.Context(), args[0], &flags, vo)
		},
	}

	cmd.Flags().BoolVar(&dark, "dark", false, "start in dark mode")
	cmd.Flags().BoolVar(&save, "save", false, "write new relationships back to the input file")
	cmd.Flags().BoolVar(&fresh, "fresh", false, "ignore the saved view state")
	flags.register(cmd, false)

	return cmd
}

type viewFlags struct {
	dark, save, fresh        bool
	hideChanged, darkChanged bool
}

// runView hosts the tree in a bubbletea program until the user quits.
func (c *CLI) runView(ctx context.Context, input string, flags *commonFlags, vf viewFlags) error {
	logger := loggerFromContext(ctx)

	opts, err := flags.options()
	if err != nil {
		return err
	}
	tree, err := pkgio.ImportTree(input)
	if err != nil {
		return err
	}
	for _, issue := range tree.Validate() {
		logger.Debug("skipping entry", "issue", issue.String())
	}

	vo := viewerOptions{
		Visible: opts.Visible,
		Canvas:  layout.Canvas{Width: opts.Width, Height: opts.Height},
		Dark:    vf.dark,
	}

	store, err := session.NewFileStore("")
	if err != nil {
		logger.Debug("view state disabled", "err", err)
	}
	var sess *session.Session
	if store != nil && !vf.fresh {
		if sess, err = store.Get(ctx, session.IDFor(input)); err != nil {
			logger.Debug("ignoring saved view state", "err", err)
		}
	}
	if sess != nil {
		restoreSession(&vo, sess, tree, vf)
	} else {
		sess = session.New(input, session.DefaultTTL)
	}

	m := newViewer(ctx, tree, *opts.Config, vo)
	defer m.view.Close()

	prog := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	if _, err := prog.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("viewer: %w", err)
	}

	if store != nil {
		saveSession(sess, m)
		if err := store.Set(ctx, sess); err != nil {
			logger.Warn("could not save view state", "err", err)
		}
	}

	if !m.modified {
		return nil
	}
	if !vf.save {
		printWarning("new relationships were not saved (use --save)")
		return nil
	}
	if err := pkgio.ExportTree(tree, input); err != nil {
		return fmt.Errorf("save %s: %w", input, err)
	}
	printSuccess("Saved %d relationships", len(tree.Relationships))
	printFile(input)
	return nil
}

// restoreSession applies saved state to vo. Flags given on the command
// line win, and a selection naming a person no longer in the tree is
// dropped.
func restoreSession(vo *viewerOptions, sess *session.Session, tree *family.Tree, vf viewFlags) {
	if !vf.hideChanged {
		vo.Visible = sess.Visible()
	}
	if !vf.darkChanged {
		vo.Dark = sess.Dark
	}
	if v := sess.View; v != nil {
		vo.Transform = &interact.Transform{K: v.K, X: v.X, Y: v.Y}
	}
	if tree.Has(sess.Selected) {
		vo.Selected = sess.Selected
	}
}

// saveSession records the viewer state in sess.
func saveSession(sess *session.Session, m *viewer) {
	t := m.view.Transform()
	sess.View = &session.View{K: t.K, X: t.X, Y: t.Y}
	sess.SetVisible(m.visible)
	sess.Dark = m.dark
	sess.Selected = m.selected
	sess.Touch(session.DefaultTTL)
}
