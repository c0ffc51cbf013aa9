package interact

import (
	"strconv"
	"strings"

	"github.com/matzehuels/familytree/pkg/family"
	"github.com/matzehuels/familytree/pkg/layout"
	"github.com/matzehuels/familytree/pkg/sim"
)

// =============================================================================
// Theme
// =============================================================================

// Palette holds the colors of one theme.
type Palette struct {
	Text       string
	Link       string
	Spouse     string
	NodeStroke string
	LabelFill  string

	Male           string
	Female         string
	Selected       string
	SelectedStroke string
	Candidate      string
	Background     string
}

// NewPalette returns the dark or light palette.
func NewPalette(dark bool) Palette {
	p := Palette{
		Text:           "#333333",
		Link:           "#64748b",
		Spouse:         "#ec4899",
		NodeStroke:     "#fff",
		LabelFill:      "rgba(255, 255, 255, 0.8)",
		Male:           "#bfdbfe",
		Female:         "#fbcfe8",
		Selected:       "#facc15",
		SelectedStroke: "#ea580c",
		Candidate:      "#22c55e",
		Background:     "#ffffff",
	}
	if dark {
		p.Text = "#e5e7eb"
		p.Link = "#94a3b8"
		p.NodeStroke = "#1f2937"
		p.LabelFill = "rgba(31, 41, 55, 0.8)"
		p.Background = "#111827"
	}
	return p
}

// Style carries the per-frame presentation inputs owned by the collaborator.
type Style struct {
	Selected string // selected person ID, empty for none
	Dark     bool
}

// =============================================================================
// Geometry
// =============================================================================

// Path is an edge outline: a straight segment, or a cubic Bézier when Curved.
type Path struct {
	From, To layout.Point
	C1, C2   layout.Point
	Curved   bool
}

// Line returns a straight path.
func Line(from, to layout.Point) Path {
	return Path{From: from, To: to, C1: from, C2: to}
}

// Drop returns the parent-to-child curve: it leaves the bottom of the
// parent's disc, bends at the vertical midpoint and enters the top of the
// child's disc.
func Drop(parent, child layout.Point, r float64) Path {
	midY := (parent.Y + child.Y) / 2
	return Path{
		From:   layout.Point{X: parent.X, Y: parent.Y + r},
		C1:     layout.Point{X: parent.X, Y: midY},
		C2:     layout.Point{X: child.X, Y: midY},
		To:     layout.Point{X: child.X, Y: child.Y - r},
		Curved: true,
	}
}

// D returns the SVG path data.
func (p Path) D() string {
	var b strings.Builder
	b.WriteString("M" + pt(p.From))
	if p.Curved {
		b.WriteString(" C" + pt(p.C1) + " " + pt(p.C2) + " " + pt(p.To))
	} else {
		b.WriteString(" L" + pt(p.To))
	}
	return b.String()
}

// At returns the point at parameter t in [0, 1].
func (p Path) At(t float64) layout.Point {
	if !p.Curved {
		return layout.Point{X: p.From.X + (p.To.X-p.From.X)*t, Y: p.From.Y + (p.To.Y-p.From.Y)*t}
	}
	u := 1 - t
	a, b, c, d := u*u*u, 3*u*u*t, 3*u*t*t, t*t*t
	return layout.Point{
		X: a*p.From.X + b*p.C1.X + c*p.C2.X + d*p.To.X,
		Y: a*p.From.Y + b*p.C1.Y + c*p.C2.Y + d*p.To.Y,
	}
}

func pt(p layout.Point) string { return num(p.X) + "," + num(p.Y) }

// num formats v with at most two decimals.
func num(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}

// =============================================================================
// Scene
// =============================================================================

// Edge stroke widths and dash patterns.
const (
	EdgeWidth   = 2.0
	SpouseDash  = "5,5"
	SnapWidth   = 3.0
	SnapDash    = "8,4"
	strokeWidth = 1.5
)

// Scene is everything needed to draw one frame, in world coordinates.
type Scene struct {
	Canvas    layout.Canvas
	Transform Transform
	Palette   Palette
	Dark      bool
	Radius    float64

	Edges  []SceneEdge // drawn first
	Nodes  []SceneNode // drawn in order, later on top
	Snap   *SnapLine   // drawn last, nil when no candidate
	Legend Legend
}

// SceneEdge is one visible relationship.
type SceneEdge struct {
	ID             string
	Type           family.RelationshipType
	Source, Target string
	Path           Path
	Stroke         string
	Width          float64
	Dash           string
	Arrow          bool
}

// SceneNode is one person disc with its label.
type SceneNode struct {
	ID     string
	Label  string
	Gender family.Gender
	Level  int
	X, Y   float64

	Fill        string
	Stroke      string
	StrokeWidth float64

	Selected  bool
	Candidate bool
	Pinned    bool
}

// SnapLine links the dragged node to the proximity candidate.
type SnapLine struct {
	From, To layout.Point
	Stroke   string
	Width    float64
	Dash     string
}

// Legend describes node colors and the relationship-type filter.
type Legend struct {
	Male, Female string
	Types        []LegendEntry
}

// LegendEntry is one toggleable relationship type.
type LegendEntry struct {
	Type    family.RelationshipType
	Label   string
	Visible bool
	Stroke  string
	Dash    string
	Curved  bool
}

// Bounds returns the world-space box around all node discs.
func (s Scene) Bounds() Bounds {
	pts := make([]layout.Point, len(s.Nodes))
	for i, n := range s.Nodes {
		pts[i] = layout.Point{X: n.X, Y: n.Y}
	}
	return BoundsOf(pts).Pad(s.Radius)
}

// Node returns the scene node with id.
func (s Scene) Node(id string) (SceneNode, bool) {
	for _, n := range s.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return SceneNode{}, false
}

// SceneParams are the inputs of [ComposeScene].
type SceneParams struct {
	People    []family.Person
	Edges     []family.Relationship // already filtered to visible types
	Nodes     []sim.Node
	Levels    layout.Levels
	Visible   family.TypeSet
	Canvas    layout.Canvas
	Transform Transform
	Radius    float64
	Style     Style

	// Candidate and Pointer describe an armed drag; Candidate is empty
	// otherwise.
	Candidate string
	Pointer   layout.Point
}

var legendLabels = map[family.RelationshipType]string{
	family.Parent:  "Parent → Child",
	family.Spouse:  "Spouses",
	family.Sibling: "Siblings",
}

// ComposeScene builds the frame for the given positions. Edges whose
// endpoints have no node are left out.
func ComposeScene(p SceneParams) Scene {
	pal := NewPalette(p.Style.Dark)
	visible := p.Visible
	if visible == nil {
		visible = family.AllTypes()
	}
	sc := Scene{
		Canvas:    p.Canvas,
		Transform: p.Transform,
		Palette:   pal,
		Dark:      p.Style.Dark,
		Radius:    p.Radius,
		Legend:    Legend{Male: pal.Male, Female: pal.Female},
	}

	people := make(map[string]family.Person, len(p.People))
	for _, person := range p.People {
		if _, dup := people[person.ID]; !dup {
			people[person.ID] = person
		}
	}
	at := make(map[string]layout.Point, len(p.Nodes))
	for _, n := range p.Nodes {
		at[n.ID] = layout.Point{X: n.X, Y: n.Y}
	}

	for _, r := range p.Edges {
		s, okS := at[r.Source]
		t, okT := at[r.Target]
		if !okS || !okT || r.IsSelfLoop() {
			continue
		}
		e := SceneEdge{ID: r.ID, Type: r.Type, Source: r.Source, Target: r.Target, Stroke: pal.Link, Width: EdgeWidth}
		switch r.Type {
		case family.Spouse:
			e.Path, e.Stroke, e.Dash = Line(s, t), pal.Spouse, SpouseDash
		case family.Parent:
			e.Path, e.Arrow = Drop(s, t, p.Radius), true
		default:
			e.Path = Line(s, t)
		}
		sc.Edges = append(sc.Edges, e)
	}

	for _, n := range p.Nodes {
		person := people[n.ID]
		sn := SceneNode{
			ID:          n.ID,
			Label:       person.DisplayName(),
			Gender:      person.Gender,
			Level:       p.Levels[n.ID],
			X:           n.X,
			Y:           n.Y,
			Fill:        pal.Male,
			Stroke:      pal.NodeStroke,
			StrokeWidth: strokeWidth,
			Selected:    n.ID == p.Style.Selected && n.ID != "",
			Candidate:   n.ID == p.Candidate && n.ID != "",
			Pinned:      n.Pinned,
		}
		if person.Gender == family.Female {
			sn.Fill = pal.Female
		}
		if sn.Selected {
			sn.Fill, sn.Stroke, sn.StrokeWidth = pal.Selected, pal.SelectedStroke, 3
		}
		if sn.Candidate {
			sn.StrokeWidth = 4
			if !sn.Selected {
				sn.Stroke = pal.Candidate
			}
		}
		sc.Nodes = append(sc.Nodes, sn)
	}

	if c, ok := at[p.Candidate]; ok && p.Candidate != "" {
		sc.Snap = &SnapLine{From: p.Pointer, To: c, Stroke: pal.Candidate, Width: SnapWidth, Dash: SnapDash}
	}

	for _, t := range family.RelationshipTypes {
		e := LegendEntry{Type: t, Label: legendLabels[t], Visible: visible.Has(t), Stroke: pal.Link}
		switch t {
		case family.Spouse:
			e.Stroke, e.Dash = pal.Spouse, SpouseDash
		case family.Parent:
			e.Curved = true
		}
		sc.Legend.Types = append(sc.Legend.Types, e)
	}
	return sc
}

// Scene composes the current frame.
func (v *View) Scene(style Style) Scene {
	p := SceneParams{
		People:    v.in.People,
		Edges:     v.edges,
		Nodes:     v.Nodes(),
		Levels:    v.gens.Levels,
		Visible:   v.visible,
		Canvas:    v.in.Canvas,
		Transform: v.transform,
		Radius:    v.cfg.Interaction.NodeRadius,
		Style:     style,
	}
	if v.drag.candidate != "" {
		p.Candidate, p.Pointer = v.drag.candidate, v.drag.pointer
	}
	return ComposeScene(p)
}
