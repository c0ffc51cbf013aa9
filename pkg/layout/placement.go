package layout

import (
	"cmp"
	"maps"
	"slices"

	"github.com/matzehuels/familytree/pkg/config"
	"github.com/matzehuels/familytree/pkg/family"
)

// Point is a position in layout coordinates (canvas pixels, y grows downward).
type Point struct {
	X, Y float64
}

// Canvas is the pixel size of the drawing area, read once per data change.
type Canvas struct {
	Width, Height float64
}

// Bands maps generation levels to fixed vertical positions. The full span of
// levels is centered vertically on the canvas.
type Bands struct {
	MinLevel, MaxLevel int
	Gap                float64
	StartY             float64
}

// NewBands computes the bands for levels on canvas.
func NewBands(levels Levels, canvas Canvas, gap float64) Bands {
	lo, hi := levels.Span()
	return Bands{
		MinLevel: lo,
		MaxLevel: hi,
		Gap:      gap,
		StartY:   (canvas.Height - float64(hi-lo)*gap) / 2,
	}
}

// Y returns the band position of level.
func (b Bands) Y(level int) float64 {
	return b.StartY + float64(level-b.MinLevel)*b.Gap
}

// Placement is the initial position of every person, fed to the simulation
// as both the starting point and the target of the positioning forces.
type Placement struct {
	Bands     Bands
	Positions map[string]Point
	Rows      map[int][]string // left-to-right order per level
}

// Levels returns the levels that hold at least one person, ascending.
func (p Placement) Levels() []int {
	return slices.Sorted(maps.Keys(p.Rows))
}

// Place computes the initial layout.
//
// Levels are processed top to bottom. Within a level people are stably
// sorted by the x of their first already-placed parent: people with such a
// parent come first, ascending by that x, and everyone else keeps input
// order. The row is then walked left to right in slots of NodeSpacing,
// centered on the canvas midline. A person whose spouse was placed earlier
// in the pass goes immediately to the spouse's right instead, and the
// cursor continues after the pair.
//
// Relationships with unknown endpoints are ignored. Every person in people
// receives a finite position.
func Place(people []family.Person, rels []family.Relationship, levels Levels, canvas Canvas, cfg config.Layout) Placement {
	bands := NewBands(levels, canvas, cfg.GenerationGap)
	idx := family.NewIndex(people, rels)

	rows := make(map[int][]string)
	seen := make(map[string]struct{}, len(people))
	for _, p := range people {
		if _, dup := seen[p.ID]; dup {
			continue
		}
		seen[p.ID] = struct{}{}
		lvl := levels[p.ID]
		rows[lvl] = append(rows[lvl], p.ID)
	}

	pos := make(map[string]Point, len(seen))
	parentX := func(id string) (float64, bool) {
		for _, parent := range idx.Parents(id) {
			if pt, ok := pos[parent]; ok {
				return pt.X, true
			}
		}
		return 0, false
	}
	placedSpouse := func(id string) (Point, bool) {
		for _, s := range idx.Spouses(id) {
			if pt, ok := pos[s]; ok {
				return pt, true
			}
		}
		return Point{}, false
	}

	for lvl := bands.MinLevel; lvl <= bands.MaxLevel; lvl++ {
		row := rows[lvl]
		if len(row) == 0 {
			continue
		}

		keys := make(map[string]float64, len(row))
		has := make(map[string]bool, len(row))
		for _, id := range row {
			keys[id], has[id] = parentX(id)
		}
		slices.SortStableFunc(row, func(a, b string) int {
			switch {
			case has[a] && has[b]:
				return cmp.Compare(keys[a], keys[b])
			case has[a]:
				return -1
			case has[b]:
				return 1
			}
			return 0
		})

		y := bands.Y(lvl)
		cursor := canvas.Width/2 - float64(len(row))*cfg.NodeSpacing/2
		for _, id := range row {
			if spouse, ok := placedSpouse(id); ok {
				x := spouse.X + cfg.NodeSpacing
				pos[id] = Point{X: x, Y: y}
				cursor = x + cfg.NodeSpacing
				continue
			}
			pos[id] = Point{X: cursor, Y: y}
			cursor += cfg.NodeSpacing
		}
		rows[lvl] = row
	}

	return Placement{Bands: bands, Positions: pos, Rows: rows}
}
