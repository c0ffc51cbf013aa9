package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/familytree/pkg/config"
	"github.com/matzehuels/familytree/pkg/family"
	"github.com/matzehuels/familytree/pkg/interact"
	"github.com/matzehuels/familytree/pkg/layout"
	"github.com/matzehuels/familytree/pkg/observability"
)

// Rows taken by the header, legend and status bars around the chart.
const chromeRows = 3

// Zoom factor per wheel notch or +/- key, and pan step as a canvas fraction.
const (
	zoomStep = 1.1
	panStep  = 0.1
)

// tickMsg drives the simulation while it has energy or a node is held.
type tickMsg time.Time

// pendingDrop is a proximity drop waiting for the user to pick a kind.
type pendingDrop struct {
	from, to string
}

// viewer is the bubbletea model of the interactive chart. It owns the
// tree, the visibility set and the selection, and hosts an interact.View
// that owns positions, gestures and zoom.
type viewer struct {
	ctx    context.Context
	tree   *family.Tree
	cfg    config.Config
	canvas layout.Canvas
	view   *interact.View

	visible  family.TypeSet
	selected string
	dark     bool
	modified bool
	status   string
	prompt   *pendingDrop

	cols, rows int
	ticking    bool
	lastTick   time.Time

	panning bool
	panFrom layout.Point // screen px
}

type viewerOptions struct {
	Visible   family.TypeSet
	Canvas    layout.Canvas
	Dark      bool
	Selected  string
	Transform *interact.Transform // nil fits the chart
}

func newViewer(ctx context.Context, tree *family.Tree, cfg config.Config, opts viewerOptions) *viewer {
	m := &viewer{
		ctx:      ctx,
		tree:     tree,
		cfg:      cfg,
		canvas:   opts.Canvas,
		visible:  opts.Visible,
		dark:     opts.Dark,
		selected: opts.Selected,
	}
	if m.visible == nil {
		m.visible = family.AllTypes()
	}
	m.view = interact.New(cfg, interact.Handlers{
		OnSelectPerson:  m.onSelect,
		OnToggleRelType: m.onToggle,
		OnProximityDrop: m.onProximityDrop,
	})
	m.reload()
	if opts.Transform != nil {
		m.view.SetTransform(*opts.Transform)
	} else {
		m.view.Fit()
	}
	return m
}

// =============================================================================
// Event Handlers
// =============================================================================

func (m *viewer) onSelect(id string) {
	m.selected = id
	if p, ok := m.view.Person(id); ok {
		m.status = "Selected " + p.DisplayName()
	}
}

func (m *viewer) onToggle(t family.RelationshipType) {
	m.visible = m.visible.Toggle(t)
	observability.Interaction().OnToggle(m.ctx, string(t), m.visible.Has(t))
	m.reload()
}

func (m *viewer) onProximityDrop(from, to string) {
	ok := m.tree.CanConnect(from, to)
	observability.Interaction().OnProximityDrop(m.ctx, ok)
	if !ok {
		m.status = fmt.Sprintf("%s and %s are already related", m.name(from), m.name(to))
		return
	}
	m.prompt = &pendingDrop{from: from, to: to}
}

func (m *viewer) name(id string) string {
	if p, ok := m.tree.Person(id); ok && p.DisplayName() != "" {
		return p.DisplayName()
	}
	return id
}

// reload hands the current tree and visibility to the view, which rebuilds
// levels, placement and the simulation.
func (m *viewer) reload() {
	m.view.Load(interact.Input{
		People:        m.tree.People,
		Relationships: m.tree.Relationships,
		Visible:       m.visible,
		Canvas:        m.canvas,
	})
}

// connect answers the pending prompt.
func (m *viewer) connect(kind family.ConnectionKind) {
	d := m.prompt
	m.prompt = nil
	_, err := m.tree.Connect(d.from, d.to, kind)
	observability.Interaction().OnConnect(m.ctx, string(kind), err)
	if err != nil {
		m.status = "Connect failed: " + err.Error()
		return
	}
	m.modified = true
	m.status = fmt.Sprintf("Connected %s and %s (%s)", m.name(d.from), m.name(d.to), strings.ToLower(string(kind)))
	m.reload()
}

// =============================================================================
// tea.Model
// =============================================================================

func (m *viewer) Init() tea.Cmd {
	return m.startTicking()
}

func (m *viewer) tick() tea.Cmd {
	return tea.Tick(m.cfg.Simulation.TickInterval.Duration, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// startTicking schedules a tick unless one is already pending.
func (m *viewer) startTicking() tea.Cmd {
	if m.ticking || !m.active() {
		return nil
	}
	m.ticking = true
	m.lastTick = time.Time{}
	return m.tick()
}

func (m *viewer) active() bool {
	return m.view.Running() || m.view.DragState() != interact.Idle
}

func (m *viewer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.cols, m.rows = msg.Width, msg.Height
		return m, nil

	case tickMsg:
		now := time.Time(msg)
		dt := m.cfg.Simulation.TickInterval.Duration
		if !m.lastTick.IsZero() {
			dt = now.Sub(m.lastTick)
		}
		m.lastTick = now
		m.view.Advance(dt)
		if !m.active() {
			m.ticking = false
			return m, nil
		}
		return m, m.tick()

	case tea.KeyMsg:
		if m.prompt != nil {
			return m, m.handlePromptKey(msg)
		}
		return m, m.handleKey(msg)

	case tea.MouseMsg:
		return m, m.handleMouse(msg)
	}
	return m, nil
}

func (m *viewer) handlePromptKey(msg tea.KeyMsg) tea.Cmd {
	kinds := map[string]family.ConnectionKind{
		"p": family.ConnectParent,
		"c": family.ConnectChild,
		"s": family.ConnectSpouse,
		"b": family.ConnectSibling,
	}
	switch key := msg.String(); key {
	case "ctrl+c":
		return tea.Quit
	case "esc", "n":
		m.prompt = nil
		m.status = "Cancelled"
	default:
		if kind, ok := kinds[key]; ok {
			m.connect(kind)
			return m.startTicking()
		}
	}
	return nil
}

func (m *viewer) handleKey(msg tea.KeyMsg) tea.Cmd {
	stepX, stepY := m.canvas.Width*panStep, m.canvas.Height*panStep
	center := layout.Point{X: m.canvas.Width / 2, Y: m.canvas.Height / 2}

	switch msg.String() {
	case "q", "ctrl+c":
		return tea.Quit
	case "esc":
		if m.view.DragState() != interact.Idle {
			m.view.CancelDrag()
			m.status = "Drag cancelled"
		} else {
			m.selected = ""
		}
	case "1", "2", "3":
		i := int(msg.String()[0] - '1')
		m.view.ToggleRelType(family.RelationshipTypes[i])
		return m.startTicking()
	case "d":
		m.dark = !m.dark
	case "f":
		m.view.Fit()
	case "r":
		m.reload()
		m.status = "Reloaded"
		return m.startTicking()
	case "+", "=":
		m.view.Zoom(zoomStep, center)
	case "-":
		m.view.Zoom(1/zoomStep, center)
	case "left", "h":
		m.view.Pan(stepX, 0)
	case "right", "l":
		m.view.Pan(-stepX, 0)
	case "up", "k":
		m.view.Pan(0, stepY)
	case "down", "j":
		m.view.Pan(0, -stepY)
	}
	return nil
}

// chartRows returns the rows available to the chart.
func (m *viewer) chartRows() int { return max(m.rows-chromeRows, 1) }

func (m *viewer) mapper() cellMapper {
	return cellMapper{canvas: m.canvas, cols: m.cols, rows: m.chartRows()}
}

func (m *viewer) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if m.prompt != nil || m.cols == 0 {
		return nil
	}
	col, row := msg.X, msg.Y-1 // header bar
	screen := m.mapper().toScreen(col, row)
	world := m.view.ScreenToWorld(screen)

	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		m.view.Zoom(zoomStep, screen)
	case msg.Button == tea.MouseButtonWheelDown:
		m.view.Zoom(1/zoomStep, screen)

	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		id, ok := m.view.NodeAt(world)
		if !ok {
			id, ok = m.nodeAtCell(col, row)
		}
		if ok && m.view.DragStart(id, world) {
			return m.startTicking()
		}
		m.panning, m.panFrom = true, screen

	case msg.Action == tea.MouseActionMotion:
		if m.view.DragState() != interact.Idle {
			m.view.DragMove(world)
		} else if m.panning {
			m.view.Pan(screen.X-m.panFrom.X, screen.Y-m.panFrom.Y)
			m.panFrom = screen
		}

	case msg.Action == tea.MouseActionRelease:
		m.panning = false
		m.view.DragEnd()
	}
	return nil
}

// nodeAtCell returns a node drawn in the given cell. A cell spans many
// pixels, so a press on the glyph may miss the disc itself.
func (m *viewer) nodeAtCell(col, row int) (string, bool) {
	mp := m.mapper()
	t := m.view.Transform()
	for _, n := range m.view.Nodes() {
		c, r := mp.toCell(t.Apply(layout.Point{X: n.X, Y: n.Y}))
		if c == col && r == row {
			return n.ID, true
		}
	}
	return "", false
}

// =============================================================================
// View
// =============================================================================

var (
	styleKey    = lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
	styleHidden = lipgloss.NewStyle().Foreground(colorDim).Strikethrough(true)
	stylePrompt = lipgloss.NewStyle().Foreground(colorYellow).Bold(true)
)

func (m *viewer) View() string {
	if m.cols == 0 {
		return "Loading..."
	}
	sc := m.view.Scene(interact.Style{Selected: m.selected, Dark: m.dark})
	chart := rasterize(sc, m.cols, m.chartRows())
	return strings.Join([]string{m.header(), chart.render(), m.legend(sc.Legend), m.statusBar()}, "\n")
}

func (m *viewer) header() string {
	title := m.tree.Name
	if title == "" {
		title = appName
	}
	if m.modified {
		title += " *"
	}
	hints := "drag: move  wheel: zoom  1-3: toggle  f: fit  d: dark  r: reload  q: quit"
	return StyleTitle.Render(title) + "  " + StyleDim.Render(hints)
}

func (m *viewer) legend(l interact.Legend) string {
	parts := []string{
		lipgloss.NewStyle().Foreground(lipgloss.Color(l.Male)).Render(string(glyphNode)) + " male",
		lipgloss.NewStyle().Foreground(lipgloss.Color(l.Female)).Render(string(glyphNode)) + " female",
	}
	for i, e := range l.Types {
		label := e.Label
		if e.Visible {
			label = lipgloss.NewStyle().Foreground(lipgloss.Color(e.Stroke)).Render(label)
		} else {
			label = styleHidden.Render(label)
		}
		parts = append(parts, styleKey.Render(fmt.Sprintf("[%d]", i+1))+" "+label)
	}
	return strings.Join(parts, "  ")
}

func (m *viewer) statusBar() string {
	if d := m.prompt; d != nil {
		q := fmt.Sprintf("Connect %s to %s as: [p]arent [c]hild [s]pouse si[b]ling  (esc cancel)", m.name(d.from), m.name(d.to))
		return stylePrompt.Render(q)
	}
	state := "settled"
	if m.view.Running() {
		state = "simulating"
	}
	line := fmt.Sprintf("%d people  %s  zoom %.2fx", len(m.view.Nodes()), state, m.view.Transform().K)
	if m.status != "" {
		line += "  " + m.status
	}
	return StyleDim.Render(line)
}
