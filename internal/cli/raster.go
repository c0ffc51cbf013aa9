package cli

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/familytree/pkg/family"
	"github.com/matzehuels/familytree/pkg/interact"
	"github.com/matzehuels/familytree/pkg/layout"
)

// Glyphs drawn by the terminal viewer.
const (
	glyphNode      = '●'
	glyphSelected  = '◉'
	glyphCandidate = '◎'
	glyphParent    = '·'
	glyphSpouse    = '-'
	glyphSibling   = '~'
	glyphArrow     = '▾'
	glyphSnap      = '∙'
)

type cell struct {
	r     rune
	color string
}

// grid is a character raster of the chart area.
type grid struct {
	cols, rows int
	bg         string
	cells      []cell
}

func newGrid(cols, rows int, bg string) *grid {
	cols, rows = max(cols, 0), max(rows, 0)
	g := &grid{cols: cols, rows: rows, bg: bg, cells: make([]cell, cols*rows)}
	for i := range g.cells {
		g.cells[i].r = ' '
	}
	return g
}

func (g *grid) set(col, row int, r rune, color string) {
	if col < 0 || row < 0 || col >= g.cols || row >= g.rows {
		return
	}
	g.cells[row*g.cols+col] = cell{r: r, color: color}
}

func (g *grid) text(col, row int, s, color string) {
	for _, r := range s {
		g.set(col, row, r, color)
		col++
	}
}

// at returns the rune in a cell, or zero outside the grid.
func (g *grid) at(col, row int) rune {
	if col < 0 || row < 0 || col >= g.cols || row >= g.rows {
		return 0
	}
	return g.cells[row*g.cols+col].r
}

// plain returns the raster without colors.
func (g *grid) plain() string {
	lines := make([]string, g.rows)
	for row := range g.rows {
		var b strings.Builder
		for col := range g.cols {
			b.WriteRune(g.cells[row*g.cols+col].r)
		}
		lines[row] = b.String()
	}
	return strings.Join(lines, "\n")
}

// render returns the raster with each run of equally colored cells styled
// at once.
func (g *grid) render() string {
	base := lipgloss.NewStyle()
	if g.bg != "" {
		base = base.Background(lipgloss.Color(g.bg))
	}
	lines := make([]string, g.rows)
	for row := range g.rows {
		var b strings.Builder
		cells := g.cells[row*g.cols : (row+1)*g.cols]
		for start := 0; start < len(cells); {
			end := start
			var run strings.Builder
			for end < len(cells) && cells[end].color == cells[start].color {
				run.WriteRune(cells[end].r)
				end++
			}
			style := base
			if c := cells[start].color; c != "" {
				style = style.Foreground(lipgloss.Color(c))
			}
			b.WriteString(style.Render(run.String()))
			start = end
		}
		lines[row] = b.String()
	}
	return strings.Join(lines, "\n")
}

// =============================================================================
// Scene Rasterization
// =============================================================================

// cellMapper converts between screen pixels and grid cells.
type cellMapper struct {
	canvas     layout.Canvas
	cols, rows int
}

func (m cellMapper) valid() bool {
	return m.cols > 0 && m.rows > 0 && m.canvas.Width > 0 && m.canvas.Height > 0
}

// toCell returns the cell containing the screen point p.
func (m cellMapper) toCell(p layout.Point) (int, int) {
	if !m.valid() {
		return -1, -1
	}
	col := int(math.Floor(p.X * float64(m.cols) / m.canvas.Width))
	row := int(math.Floor(p.Y * float64(m.rows) / m.canvas.Height))
	return col, row
}

// toScreen returns the screen point at the center of a cell.
func (m cellMapper) toScreen(col, row int) layout.Point {
	if !m.valid() {
		return layout.Point{}
	}
	return layout.Point{
		X: (float64(col) + 0.5) * m.canvas.Width / float64(m.cols),
		Y: (float64(row) + 0.5) * m.canvas.Height / float64(m.rows),
	}
}

// scale returns the screen pixels covered by one cell.
func (m cellMapper) scale() (float64, float64) {
	if !m.valid() {
		return 0, 0
	}
	return m.canvas.Width / float64(m.cols), m.canvas.Height / float64(m.rows)
}

// rasterize draws sc onto a cols x rows grid: edges first, then the snap
// indicator, then nodes with their labels.
func rasterize(sc interact.Scene, cols, rows int) *grid {
	g := newGrid(cols, rows, sc.Palette.Background)
	m := cellMapper{canvas: sc.Canvas, cols: cols, rows: rows}
	if !m.valid() {
		return g
	}
	cellOf := func(world layout.Point) (int, int) {
		return m.toCell(sc.Transform.Apply(world))
	}

	for _, e := range sc.Edges {
		glyph := edgeGlyph(e.Type)
		n := samples(m, sc.Transform, e.Path.From, e.Path.To)
		for i := 0; i <= n; i++ {
			if e.Dash != "" && i%2 == 1 {
				continue
			}
			col, row := cellOf(e.Path.At(float64(i) / float64(n)))
			g.set(col, row, glyph, e.Stroke)
		}
		if e.Arrow {
			col, row := cellOf(e.Path.To)
			g.set(col, row, glyphArrow, e.Stroke)
		}
	}

	if s := sc.Snap; s != nil {
		n := samples(m, sc.Transform, s.From, s.To)
		for i := 0; i <= n; i++ {
			col, row := cellOf(layout.Point{
				X: s.From.X + (s.To.X-s.From.X)*float64(i)/float64(n),
				Y: s.From.Y + (s.To.Y-s.From.Y)*float64(i)/float64(n),
			})
			g.set(col, row, glyphSnap, s.Stroke)
		}
	}

	for _, nd := range sc.Nodes {
		col, row := cellOf(layout.Point{X: nd.X, Y: nd.Y})
		glyph, color := glyphNode, nd.Fill
		switch {
		case nd.Selected:
			glyph = glyphSelected
		case nd.Candidate:
			glyph, color = glyphCandidate, nd.Stroke
		}
		g.set(col, row, glyph, color)
		g.text(col+2, row, nd.Label, sc.Palette.Text)
	}
	return g
}

func edgeGlyph(t family.RelationshipType) rune {
	switch t {
	case family.Spouse:
		return glyphSpouse
	case family.Sibling:
		return glyphSibling
	}
	return glyphParent
}

// samples returns how many steps cover the segment from a to b at roughly
// two samples per cell.
func samples(m cellMapper, t interact.Transform, a, b layout.Point) int {
	sa, sb := t.Apply(a), t.Apply(b)
	cw, ch := m.scale()
	dx, dy := (sb.X-sa.X)/cw, (sb.Y-sa.Y)/ch
	return max(4, int(2*math.Hypot(dx, dy)))
}
