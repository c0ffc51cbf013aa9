package pipeline

import (
	"github.com/matzehuels/familytree/pkg/family"
	"github.com/matzehuels/familytree/pkg/interact"
	pkgio "github.com/matzehuels/familytree/pkg/io"
	"github.com/matzehuels/familytree/pkg/layout"
	"github.com/matzehuels/familytree/pkg/sim"
)

// =============================================================================
// Layout Generation
// =============================================================================

// GenerateLayout settles the chart for tree: generation levels, initial
// placement, then the force simulation until alpha drops below alphaMin or
// opts.MaxTicks is reached. opts must already be validated.
//
// Malformed entries (dangling references, self-loops) are skipped; the
// returned count says how many relationships were ignored.
func GenerateLayout(tree *family.Tree, opts Options) (*pkgio.Layout, int) {
	cfg := *opts.Config
	v := interact.New(cfg, nil)
	v.Load(interact.Input{
		People:        tree.People,
		Relationships: tree.Relationships,
		Visible:       opts.visible(),
		Canvas:        layout.Canvas{Width: opts.Width, Height: opts.Height},
	})
	ticks := v.Settle(opts.MaxTicks)

	l := &pkgio.Layout{
		Name:            tree.Name,
		Width:           opts.Width,
		Height:          opts.Height,
		Visible:         opts.visible().Types(),
		Ticks:           ticks,
		Settled:         true,
		LevelsConverged: v.Generations().Converged,
		Nodes:           []pkgio.LayoutNode{},
		Edges:           []pkgio.LayoutEdge{},
	}
	if s := v.Simulation(); s != nil {
		l.Alpha = s.Alpha()
		l.Settled = !s.Running()
	}

	levels := v.Generations().Levels
	initial := v.Placement().Positions
	for _, n := range v.Nodes() {
		p, _ := v.Person(n.ID)
		start := initial[n.ID]
		l.Nodes = append(l.Nodes, pkgio.LayoutNode{
			ID:         n.ID,
			Name:       p.DisplayName(),
			Generation: levels[n.ID],
			X:          n.X,
			Y:          n.Y,
			InitialX:   start.X,
			InitialY:   start.Y,
		})
	}

	sc := v.Scene(interact.Style{})
	for _, e := range sc.Edges {
		l.Edges = append(l.Edges, pkgio.LayoutEdge{
			ID:     e.ID,
			Source: e.Source,
			Target: e.Target,
			Type:   e.Type,
			Path:   e.Path.D(),
		})
	}

	skipped := v.Generations().Skipped
	v.Close()
	return l, skipped
}

// layoutNodes converts settled positions back into simulation nodes for
// scene composition.
func layoutNodes(l *pkgio.Layout) []sim.Node {
	nodes := make([]sim.Node, len(l.Nodes))
	for i, n := range l.Nodes {
		nodes[i] = sim.Node{ID: n.ID, X: n.X, Y: n.Y, TargetX: n.InitialX, TargetY: n.InitialY}
	}
	return nodes
}

// layoutLevels returns the generation of every laid out person.
func layoutLevels(l *pkgio.Layout) layout.Levels {
	levels := make(layout.Levels, len(l.Nodes))
	for _, n := range l.Nodes {
		levels[n.ID] = n.Generation
	}
	return levels
}

// layoutEdges returns the drawn relationships.
func layoutEdges(l *pkgio.Layout) []family.Relationship {
	rels := make([]family.Relationship, len(l.Edges))
	for i, e := range l.Edges {
		rels[i] = family.Relationship{ID: e.ID, Source: e.Source, Target: e.Target, Type: e.Type}
	}
	return rels
}
