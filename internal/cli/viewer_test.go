package cli

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/familytree/pkg/config"
	"github.com/matzehuels/familytree/pkg/family"
	"github.com/matzehuels/familytree/pkg/interact"
	"github.com/matzehuels/familytree/pkg/layout"
	"github.com/matzehuels/familytree/pkg/session"
	"github.com/matzehuels/familytree/pkg/sim"
)

func testViewer(t *testing.T) *viewer {
	t.Helper()
	m := newViewer(context.Background(), testTree(), config.Default(), viewerOptions{
		Canvas: layout.Canvas{Width: 1200, Height: 800},
	})
	t.Cleanup(m.view.Close)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return m
}

func key(s string) tea.KeyMsg {
	switch s {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// cellOf returns the terminal cell of a person, accounting for the header.
func cellOf(t *testing.T, m *viewer, id string) (int, int) {
	t.Helper()
	for _, n := range m.view.Nodes() {
		if n.ID == id {
			col, row := m.mapper().toCell(m.view.Transform().Apply(layout.Point{X: n.X, Y: n.Y}))
			return col, row + 1
		}
	}
	t.Fatalf("no node %q", id)
	return 0, 0
}

func TestViewerToggleRelType(t *testing.T) {
	m := testViewer(t)
	if len(m.view.Edges()) != 3 {
		t.Fatalf("edges = %d, want 3", len(m.view.Edges()))
	}

	m.Update(key("1"))
	if m.visible.Has(family.Parent) {
		t.Error("key 1 should hide parent relationships")
	}
	if got := len(m.view.Edges()); got != 1 {
		t.Errorf("edges after hiding parents = %d, want 1", got)
	}

	m.Update(key("1"))
	if !m.visible.Has(family.Parent) || len(m.view.Edges()) != 3 {
		t.Error("second toggle should restore parent relationships")
	}
}

func TestViewerKeys(t *testing.T) {
	m := testViewer(t)

	m.Update(key("d"))
	if !m.dark {
		t.Error("d should switch to dark mode")
	}

	k := m.view.Transform().K
	m.Update(key("+"))
	if got := m.view.Transform().K; got <= k && k < config.Default().Interaction.MaxZoom {
		t.Errorf("zoom in: K = %v, was %v", got, k)
	}

	x := m.view.Transform().X
	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	if m.view.Transform().X <= x {
		t.Error("left arrow should pan the chart right")
	}

	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should return tea.Quit")
	}
}

func TestViewerClickSelects(t *testing.T) {
	m := testViewer(t)
	col, row := cellOf(t, m, "ann")

	m.Update(tea.MouseMsg{X: col, Y: row, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if m.view.DragState() == interact.Idle {
		t.Fatal("press on a node should start a drag")
	}
	m.Update(tea.MouseMsg{X: col, Y: row, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})

	if m.selected != "ann" {
		t.Errorf("selected = %q, want ann", m.selected)
	}
	if !strings.Contains(m.status, "Ann Lee") {
		t.Errorf("status = %q", m.status)
	}

	m.Update(key("esc"))
	if m.selected != "" {
		t.Error("esc should clear the selection")
	}
}

func TestViewerBackgroundDragPans(t *testing.T) {
	m := testViewer(t)
	before := m.view.Transform()

	m.Update(tea.MouseMsg{X: 0, Y: 27, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m.Update(tea.MouseMsg{X: 10, Y: 27, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	m.Update(tea.MouseMsg{X: 10, Y: 27, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})

	if got := m.view.Transform(); got.X <= before.X || got.Y != before.Y {
		t.Errorf("transform = %+v, want a rightward pan from %+v", got, before)
	}
}

func TestViewerProximityDropPrompt(t *testing.T) {
	m := testViewer(t)

	m.onProximityDrop("dan", "cat")
	if m.prompt == nil {
		t.Fatal("unrelated drop should open the prompt")
	}
	if !strings.Contains(m.View(), "Connect Dan Roe to Cat Lee") {
		t.Error("status bar should show the prompt")
	}

	m.Update(key("s"))
	if m.prompt != nil {
		t.Error("answer should close the prompt")
	}
	if !m.modified || !m.tree.Connected("dan", "cat") {
		t.Error("spouse answer should add a relationship")
	}
	if got := len(m.view.Edges()); got != 4 {
		t.Errorf("edges after connect = %d, want 4", got)
	}
}

func TestViewerProximityDropRelated(t *testing.T) {
	m := testViewer(t)
	m.onProximityDrop("ann", "bob")
	if m.prompt != nil {
		t.Error("related pair should not prompt")
	}
	if !strings.Contains(m.status, "already related") {
		t.Errorf("status = %q", m.status)
	}
}

func TestViewerPromptCancel(t *testing.T) {
	m := testViewer(t)
	m.onProximityDrop("dan", "cat")
	m.Update(key("esc"))
	if m.prompt != nil || m.modified {
		t.Error("esc should dismiss the prompt without changes")
	}
}

func TestViewerTicksUntilSettled(t *testing.T) {
	m := testViewer(t)
	if cmd := m.Init(); cmd == nil {
		t.Fatal("a fresh simulation should schedule a tick")
	}

	now := time.Now()
	for i := 0; i < 5000 && m.ticking; i++ {
		now = now.Add(m.cfg.Simulation.TickInterval.Duration)
		m.Update(tickMsg(now))
	}
	if m.ticking || m.view.Running() {
		t.Error("ticking should stop once the simulation settles")
	}
}

func TestViewerView(t *testing.T) {
	m := testViewer(t)
	out := m.View()
	for _, want := range []string{"Lee family", "Ann Lee", "Parent → Child", "Spouses", "Siblings", "4 people"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if got := strings.Count(out, "\n") + 1; got != 30 {
		t.Errorf("view has %d lines, want 30", got)
	}
}

func TestRasterize(t *testing.T) {
	sc := interact.ComposeScene(interact.SceneParams{
		People: []family.Person{
			{ID: "a", FirstName: "Ann", Gender: family.Female},
			{ID: "b", FirstName: "Bob", Gender: family.Male},
		},
		Edges:     []family.Relationship{{ID: "r", Source: "a", Target: "b", Type: family.Sibling}},
		Nodes:     []sim.Node{{ID: "a", X: 10, Y: 50}, {ID: "b", X: 90, Y: 50}},
		Canvas:    layout.Canvas{Width: 100, Height: 100},
		Transform: interact.Identity,
		Radius:    5,
		Style:     interact.Style{Selected: "b"},
	})

	g := rasterize(sc, 20, 10)
	if r := g.at(2, 5); r != glyphNode {
		t.Errorf("cell(2,5) = %q, want node", r)
	}
	if r := g.at(18, 5); r != glyphSelected {
		t.Errorf("cell(18,5) = %q, want selected node", r)
	}
	if !strings.HasPrefix(string([]rune(strings.Split(g.plain(), "\n")[5])[4:]), "Ann") {
		t.Errorf("label missing:\n%s", g.plain())
	}
	if r := g.at(10, 5); r != glyphSibling {
		t.Errorf("cell(10,5) = %q, want sibling line", r)
	}
	if r := g.at(10, 0); r != ' ' {
		t.Errorf("cell(10,0) = %q, want blank", r)
	}
}

func TestCellMapper(t *testing.T) {
	m := cellMapper{canvas: layout.Canvas{Width: 200, Height: 100}, cols: 20, rows: 10}
	if col, row := m.toCell(layout.Point{X: 15, Y: 95}); col != 1 || row != 9 {
		t.Errorf("toCell = (%d, %d), want (1, 9)", col, row)
	}
	if p := m.toScreen(1, 9); p.X != 15 || p.Y != 95 {
		t.Errorf("toScreen = %+v, want (15, 95)", p)
	}
	if col, _ := (cellMapper{}).toCell(layout.Point{}); col != -1 {
		t.Error("empty mapper should map nowhere")
	}
}

func TestSessionRestoreAndSave(t *testing.T) {
	sess := session.New("tree.json", session.DefaultTTL)
	sess.View = &session.View{K: 2, X: 30, Y: -10}
	sess.Hidden = []family.RelationshipType{family.Sibling}
	sess.Dark = true
	sess.Selected = "ann"

	vo := viewerOptions{Canvas: layout.Canvas{Width: 1200, Height: 800}}
	restoreSession(&vo, sess, testTree(), viewFlags{})
	if vo.Visible.Has(family.Sibling) || !vo.Dark || vo.Selected != "ann" {
		t.Errorf("restored options = %+v", vo)
	}

	m := newViewer(context.Background(), testTree(), config.Default(), vo)
	defer m.view.Close()
	if got := m.view.Transform(); got != (interact.Transform{K: 2, X: 30, Y: -10}) {
		t.Errorf("transform = %+v", got)
	}

	m.Update(key("d"))
	m.Update(key("3"))
	saveSession(sess, m)
	if sess.Dark || len(sess.Hidden) != 0 {
		t.Errorf("saved session = %+v", sess)
	}
}

func TestSessionFlagsWin(t *testing.T) {
	sess := session.New("tree.json", session.DefaultTTL)
	sess.Hidden = []family.RelationshipType{family.Parent}
	sess.Dark = true
	sess.Selected = "ghost"

	vo := viewerOptions{Visible: family.AllTypes()}
	restoreSession(&vo, sess, testTree(), viewFlags{hideChanged: true, darkChanged: true})
	if !vo.Visible.Has(family.Parent) || vo.Dark {
		t.Errorf("explicit flags should win: %+v", vo)
	}
	if vo.Selected != "" {
		t.Error("unknown selection should be dropped")
	}
}
