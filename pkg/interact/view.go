package interact

import (
	"time"

	"github.com/matzehuels/familytree/pkg/config"
	"github.com/matzehuels/familytree/pkg/family"
	"github.com/matzehuels/familytree/pkg/layout"
	"github.com/matzehuels/familytree/pkg/sim"
)

// Input is the data set supplied by the collaborator holding the tree.
type Input struct {
	People        []family.Person
	Relationships []family.Relationship
	Visible       family.TypeSet // nil shows every type
	Canvas        layout.Canvas
}

// View hosts one interactive chart: derived layout state, the running
// simulation, the drag gesture and the zoom transform. It is not safe for
// concurrent use; drive it from a single loop.
type View struct {
	cfg     config.Config
	handler Handler

	in        Input
	visible   family.TypeSet
	people    map[string]family.Person
	edges     []family.Relationship // visible relationships with known endpoints
	gens      layout.Generations
	placement layout.Placement
	sim       *sim.Simulation

	transform Transform
	drag      gesture
}

type gesture struct {
	state     DragState
	id        string
	origin    layout.Point // node position at start
	start     layout.Point // pointer at start
	pointer   layout.Point // pinned position
	moved     bool
	candidate string
}

// New returns an empty view. h may be nil.
func New(cfg config.Config, h Handler) *View {
	if h == nil {
		h = Handlers{}
	}
	return &View{cfg: cfg, handler: h, transform: Identity}
}

// Load replaces the data set. Any running simulation is stopped and all
// transient state (pins, proximity candidate, snap indicator) is discarded
// before levels, placement and the simulation are rebuilt from scratch.
// The zoom transform is kept.
func (v *View) Load(in Input) {
	v.Close()

	v.in = in
	v.visible = in.Visible
	if v.visible == nil {
		v.visible = family.AllTypes()
	}
	v.people = make(map[string]family.Person, len(in.People))
	for _, p := range in.People {
		if _, dup := v.people[p.ID]; !dup {
			v.people[p.ID] = p
		}
	}

	v.gens = layout.ResolveGenerations(in.People, in.Relationships)
	v.placement = layout.Place(in.People, in.Relationships, v.gens.Levels, in.Canvas, v.cfg.Layout)

	v.edges = v.edges[:0]
	var links []sim.Link
	for _, r := range v.visible.Filter(in.Relationships) {
		links = append(links, sim.NewLink(r, v.cfg.Simulation))
		if _, ok := v.people[r.Source]; !ok {
			continue
		}
		if _, ok := v.people[r.Target]; !ok || r.IsSelfLoop() {
			continue
		}
		v.edges = append(v.edges, r)
	}

	if len(v.people) == 0 {
		return
	}
	v.sim = sim.New(Nodes(in.People, v.placement), links, v.cfg.Simulation)
}

// Nodes builds simulation nodes from a placement, in people order. The
// placed position is both the start and the target of the position forces.
func Nodes(people []family.Person, pl layout.Placement) []sim.Node {
	nodes := make([]sim.Node, 0, len(pl.Positions))
	seen := make(map[string]bool, len(pl.Positions))
	for _, p := range people {
		pt, ok := pl.Positions[p.ID]
		if !ok || seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		nodes = append(nodes, sim.Node{ID: p.ID, X: pt.X, Y: pt.Y, TargetX: pt.X, TargetY: pt.Y})
	}
	return nodes
}

// Close stops the simulation and clears transient state.
func (v *View) Close() {
	if v.sim != nil {
		v.sim.Stop()
	}
	v.sim = nil
	v.drag = gesture{}
}

// Advance moves the simulation forward by dt and returns the ticks run.
func (v *View) Advance(dt time.Duration) int {
	if v.sim == nil {
		return 0
	}
	return v.sim.Advance(dt)
}

// Settle runs the simulation to rest, at most limit ticks.
func (v *View) Settle(limit int) int {
	if v.sim == nil {
		return 0
	}
	return v.sim.Settle(limit)
}

// Running reports whether the simulation still has energy.
func (v *View) Running() bool { return v.sim != nil && v.sim.Running() }

// Simulation returns the current simulation, nil for an empty data set.
func (v *View) Simulation() *sim.Simulation { return v.sim }

// Generations returns the resolved levels of the loaded data set.
func (v *View) Generations() layout.Generations { return v.gens }

// Placement returns the initial layout of the loaded data set.
func (v *View) Placement() layout.Placement { return v.placement }

// Visible returns the relationship types currently drawn.
func (v *View) Visible() family.TypeSet { return v.visible.Clone() }

// Edges returns the visible relationships with known, distinct endpoints.
func (v *View) Edges() []family.Relationship {
	return append([]family.Relationship(nil), v.edges...)
}

// Nodes returns the current node positions.
func (v *View) Nodes() []sim.Node {
	if v.sim == nil {
		return nil
	}
	return v.sim.Nodes()
}

// Person returns the loaded person with id.
func (v *View) Person(id string) (family.Person, bool) {
	p, ok := v.people[id]
	return p, ok
}

// =============================================================================
// Gestures
// =============================================================================

// Click selects the person under a direct click.
func (v *View) Click(id string) {
	if _, ok := v.people[id]; ok {
		v.handler.SelectPerson(id)
	}
}

// ToggleRelType reports a legend toggle. The view itself does not change:
// the collaborator owns the visibility set and re-supplies it through Load.
func (v *View) ToggleRelType(t family.RelationshipType) {
	if t.Valid() {
		v.handler.ToggleRelType(t)
	}
}

// NodeAt returns the node whose disc contains the world point p.
func (v *View) NodeAt(p layout.Point) (string, bool) {
	if v.sim == nil {
		return "", false
	}
	return hit(v.sim.Nodes(), p, v.cfg.Interaction.NodeRadius)
}

// DragStart grabs node id with the pointer at world point p. The node is
// pinned where it is and the simulation is reheated. It returns false when
// id is unknown or a gesture is already active.
func (v *View) DragStart(id string, p layout.Point) bool {
	if v.sim == nil || v.drag.state != Idle {
		return false
	}
	n, ok := v.sim.Node(id)
	if !ok {
		return false
	}
	origin := layout.Point{X: n.X, Y: n.Y}
	v.drag = gesture{state: Dragging, id: id, origin: origin, start: p, pointer: origin}
	v.sim.Pin(id, n.X, n.Y)
	v.sim.SetAlphaTarget(v.cfg.Simulation.DragAlphaTarget)
	v.sim.Restart()
	return true
}

// DragMove moves the pointer to world point p. The grabbed node follows and
// the proximity candidate is recomputed.
func (v *View) DragMove(p layout.Point) {
	if v.sim == nil || v.drag.state == Idle {
		return
	}
	g := &v.drag
	if p != g.start {
		g.moved = true
	}
	g.pointer = layout.Point{X: g.origin.X + p.X - g.start.X, Y: g.origin.Y + p.Y - g.start.Y}
	v.sim.Pin(g.id, g.pointer.X, g.pointer.Y)

	id, _, ok := Nearest(v.sim.Nodes(), g.id, g.pointer, v.cfg.Interaction.ProximityThreshold)
	if ok {
		g.candidate, g.state = id, ProximityArmed
	} else {
		g.candidate, g.state = "", Dragging
	}
}

// DragEnd releases the grabbed node. With an active candidate the
// ProximityDrop event fires with (dragged, candidate); a gesture that never
// moved counts as a click and selects the person.
func (v *View) DragEnd() {
	if v.sim == nil || v.drag.state == Idle {
		return
	}
	g := v.drag
	v.sim.Unpin(g.id)
	v.sim.SetAlphaTarget(0)

	switch {
	case g.candidate != "":
		v.handler.ProximityDrop(g.id, g.candidate)
	case !g.moved:
		v.handler.SelectPerson(g.id)
	}
	if v.drag == g {
		v.drag = gesture{}
	}
}

// CancelDrag releases the grabbed node without emitting any event.
func (v *View) CancelDrag() {
	if v.sim != nil && v.drag.state != Idle {
		v.sim.Unpin(v.drag.id)
		v.sim.SetAlphaTarget(0)
	}
	v.drag = gesture{}
}

// DragState returns the phase of the current gesture.
func (v *View) DragState() DragState { return v.drag.state }

// Dragged returns the ID of the grabbed node.
func (v *View) Dragged() (string, bool) {
	return v.drag.id, v.drag.state != Idle
}

// Candidate returns the current proximity candidate.
func (v *View) Candidate() (string, bool) {
	return v.drag.candidate, v.drag.candidate != ""
}

// =============================================================================
// Zoom and pan
// =============================================================================

// Transform returns the current zoom transform.
func (v *View) Transform() Transform { return v.transform }

// SetTransform replaces the zoom transform, clamping its scale.
func (v *View) SetTransform(t Transform) {
	t.K = clamp(t.K, v.cfg.Interaction.MinZoom, v.cfg.Interaction.MaxZoom)
	v.transform = t
}

// Zoom scales by factor around the screen point anchor.
func (v *View) Zoom(factor float64, anchor layout.Point) {
	v.transform = v.transform.ScaleBy(factor, anchor, v.cfg.Interaction.MinZoom, v.cfg.Interaction.MaxZoom)
}

// Pan translates by (dx, dy) screen pixels.
func (v *View) Pan(dx, dy float64) {
	v.transform = v.transform.Translate(dx, dy)
}

// Fit zooms so that all nodes are visible on the canvas.
func (v *View) Fit() {
	pts := make([]layout.Point, 0, v.lenNodes())
	for _, n := range v.Nodes() {
		pts = append(pts, layout.Point{X: n.X, Y: n.Y})
	}
	r := v.cfg.Interaction.NodeRadius
	b := BoundsOf(pts).Pad(2 * r)
	v.transform = Fit(b, v.in.Canvas, v.cfg.Interaction.MinZoom, v.cfg.Interaction.MaxZoom)
}

func (v *View) lenNodes() int {
	if v.sim == nil {
		return 0
	}
	return v.sim.Len()
}

// ScreenToWorld maps a screen point through the inverse transform.
func (v *View) ScreenToWorld(p layout.Point) layout.Point { return v.transform.Invert(p) }
