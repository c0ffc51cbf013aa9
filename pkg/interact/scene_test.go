package interact

import (
	"math"
	"strings"
	"testing"

	"github.com/matzehuels/familytree/pkg/family"
	"github.com/matzehuels/familytree/pkg/layout"
	"github.com/matzehuels/familytree/pkg/sim"
)

func sceneFixture(style Style, candidate string) Scene {
	return ComposeScene(SceneParams{
		People: []family.Person{
			person("a", "Ann", family.Female),
			person("b", "Bob", family.Male),
			person("c", "Cat", family.Female),
		},
		Edges: []family.Relationship{
			{ID: "s", Source: "a", Target: "b", Type: family.Spouse},
			{ID: "p", Source: "a", Target: "c", Type: family.Parent},
			{ID: "x", Source: "b", Target: "c", Type: family.Sibling},
			{ID: "dangling", Source: "a", Target: "ghost", Type: family.Parent},
		},
		Nodes: []sim.Node{
			{ID: "a", X: 100, Y: 100},
			{ID: "b", X: 200, Y: 100},
			{ID: "c", X: 150, Y: 260},
		},
		Levels:    layout.Levels{"a": 0, "b": 0, "c": 1},
		Visible:   family.NewTypeSet(family.Parent, family.Spouse),
		Canvas:    layout.Canvas{Width: 400, Height: 400},
		Transform: Identity,
		Radius:    30,
		Style:     style,
		Candidate: candidate,
		Pointer:   layout.Point{X: 180, Y: 250},
	})
}

func TestComposeSceneEdges(t *testing.T) {
	sc := sceneFixture(Style{}, "")
	if len(sc.Edges) != 3 {
		t.Fatalf("edges = %d, want 3", len(sc.Edges))
	}
	byID := map[string]SceneEdge{}
	for _, e := range sc.Edges {
		byID[e.ID] = e
	}

	spouse := byID["s"]
	if spouse.Path.Curved || spouse.Dash != "5,5" || spouse.Stroke != "#ec4899" || spouse.Arrow {
		t.Errorf("spouse edge = %+v", spouse)
	}
	if got := spouse.Path.D(); got != "M100,100 L200,100" {
		t.Errorf("spouse path = %q", got)
	}

	parent := byID["p"]
	if !parent.Path.Curved || !parent.Arrow || parent.Dash != "" {
		t.Errorf("parent edge = %+v", parent)
	}
	if got, want := parent.Path.D(), "M100,130 C100,180 150,180 150,230"; got != want {
		t.Errorf("parent path = %q, want %q", got, want)
	}

	sibling := byID["x"]
	if sibling.Path.Curved || sibling.Dash != "" || sibling.Stroke != sc.Palette.Link {
		t.Errorf("sibling edge = %+v", sibling)
	}
}

func TestComposeSceneNodeStyles(t *testing.T) {
	sc := sceneFixture(Style{Selected: "a"}, "b")

	a, _ := sc.Node("a")
	if a.Fill != "#facc15" || a.Stroke != "#ea580c" || a.StrokeWidth != 3 {
		t.Errorf("selected node = %+v", a)
	}
	b, _ := sc.Node("b")
	if b.Fill != "#bfdbfe" || b.Stroke != "#22c55e" || b.StrokeWidth != 4 || !b.Candidate {
		t.Errorf("candidate node = %+v", b)
	}
	c, _ := sc.Node("c")
	if c.Fill != "#fbcfe8" || c.Stroke != "#fff" || c.StrokeWidth != 1.5 || c.Level != 1 {
		t.Errorf("plain node = %+v", c)
	}
	if c.Label != "Cat Lee" {
		t.Errorf("label = %q", c.Label)
	}

	if sc.Snap == nil {
		t.Fatal("missing snap line")
	}
	if sc.Snap.From != (layout.Point{X: 180, Y: 250}) || sc.Snap.To != (layout.Point{X: 200, Y: 100}) {
		t.Errorf("snap = %+v", sc.Snap)
	}
	if sc.Snap.Dash != "8,4" || sc.Snap.Width != 3 {
		t.Errorf("snap style = %+v", sc.Snap)
	}
}

func TestSelectedCandidateKeepsSelectedStroke(t *testing.T) {
	sc := sceneFixture(Style{Selected: "b"}, "b")
	b, _ := sc.Node("b")
	if b.Stroke != "#ea580c" || b.StrokeWidth != 4 {
		t.Errorf("node = %+v", b)
	}
}

func TestComposeSceneDarkPalette(t *testing.T) {
	light := sceneFixture(Style{}, "")
	dark := sceneFixture(Style{Dark: true}, "")
	if light.Palette.Text != "#333333" || dark.Palette.Text != "#e5e7eb" {
		t.Errorf("text colors = %s / %s", light.Palette.Text, dark.Palette.Text)
	}
	if dark.Palette.Link != "#94a3b8" || light.Palette.Link != "#64748b" {
		t.Errorf("link colors = %s / %s", light.Palette.Link, dark.Palette.Link)
	}
	c, _ := dark.Node("c")
	if c.Stroke != "#1f2937" {
		t.Errorf("dark stroke = %s", c.Stroke)
	}
}

func TestComposeSceneLegend(t *testing.T) {
	sc := sceneFixture(Style{}, "")
	if len(sc.Legend.Types) != len(family.RelationshipTypes) {
		t.Fatalf("legend entries = %d", len(sc.Legend.Types))
	}
	for _, e := range sc.Legend.Types {
		want := e.Type != family.Sibling
		if e.Visible != want {
			t.Errorf("legend %s visible = %v, want %v", e.Type, e.Visible, want)
		}
		if e.Label == "" {
			t.Errorf("legend %s has no label", e.Type)
		}
	}
	if sc.Snap != nil {
		t.Error("snap line without candidate")
	}
}

func TestPathAt(t *testing.T) {
	p := Drop(layout.Point{X: 0, Y: 0}, layout.Point{X: 100, Y: 200}, 30)
	if got := p.At(0); got != p.From {
		t.Errorf("At(0) = %+v", got)
	}
	if got := p.At(1); math.Abs(got.X-p.To.X) > 1e-9 || math.Abs(got.Y-p.To.Y) > 1e-9 {
		t.Errorf("At(1) = %+v, want %+v", got, p.To)
	}
	if mid := p.At(0.5); math.Abs(mid.X-50) > 1e-9 || math.Abs(mid.Y-100) > 1e-9 {
		t.Errorf("At(0.5) = %+v, want the vertical midpoint", mid)
	}
	l := Line(layout.Point{}, layout.Point{X: 10, Y: 20})
	if got := l.At(0.5); got != (layout.Point{X: 5, Y: 10}) {
		t.Errorf("line At(0.5) = %+v", got)
	}
}

func TestNum(t *testing.T) {
	tests := map[float64]string{0: "0", 120: "120", 0.5: "0.5", -0.001: "0", 33.333: "33.33", -12.5: "-12.5"}
	for in, want := range tests {
		if got := num(in); got != want {
			t.Errorf("num(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestTransform(t *testing.T) {
	tr := Transform{K: 2, X: 10, Y: -5}
	p := layout.Point{X: 3, Y: 4}
	s := tr.Apply(p)
	if s != (layout.Point{X: 16, Y: 3}) {
		t.Errorf("Apply = %+v", s)
	}
	if back := tr.Invert(s); back != p {
		t.Errorf("Invert(Apply(p)) = %+v", back)
	}

	anchor := layout.Point{X: 100, Y: 100}
	before := tr.Invert(anchor)
	zoomed := tr.ScaleBy(1.5, anchor, 0.1, 4)
	after := zoomed.Invert(anchor)
	if math.Abs(before.X-after.X) > 1e-9 || math.Abs(before.Y-after.Y) > 1e-9 {
		t.Errorf("anchor moved: %+v → %+v", before, after)
	}
	if zoomed.K != 3 {
		t.Errorf("K = %v, want 3", zoomed.K)
	}
	if !strings.HasPrefix(tr.String(), "translate(10,-5) scale(2)") {
		t.Errorf("String() = %q", tr.String())
	}
}

func TestFit(t *testing.T) {
	b := Bounds{Min: layout.Point{X: 0, Y: 0}, Max: layout.Point{X: 200, Y: 100}}
	tr := Fit(b, layout.Canvas{Width: 400, Height: 400}, 0.1, 4)
	if tr.K != 2 {
		t.Errorf("K = %v, want 2", tr.K)
	}
	center := tr.Apply(layout.Point{X: 100, Y: 50})
	if center != (layout.Point{X: 200, Y: 200}) {
		t.Errorf("center maps to %+v", center)
	}
	if got := Fit(Bounds{Min: layout.Point{X: 5, Y: 5}, Max: layout.Point{X: 5, Y: 5}}, layout.Canvas{Width: 400, Height: 400}, 0.1, 4); got.K != 4 {
		t.Errorf("single point K = %v, want max zoom", got.K)
	}
}
