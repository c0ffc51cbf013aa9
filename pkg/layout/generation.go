package layout

import (
	"github.com/matzehuels/familytree/pkg/family"
)

// Levels maps a person ID to its generation level. Level 0 is the top row.
type Levels map[string]int

// Span returns the lowest and highest level. An empty map yields (0, 0).
func (l Levels) Span() (lo, hi int) {
	first := true
	for _, v := range l {
		if first {
			lo, hi, first = v, v, false
			continue
		}
		lo, hi = min(lo, v), max(hi, v)
	}
	return lo, hi
}

// Generations is the result of [ResolveGenerations].
type Generations struct {
	Levels Levels

	// Passes is the number of relaxation passes performed. It never exceeds
	// twice the number of people.
	Passes int

	// Converged is true when the last pass changed nothing. False means the
	// iteration cap stopped a cyclic or contradictory input; the levels are
	// still defined but only approximate.
	Converged bool

	// Skipped counts relationships ignored because an endpoint is unknown or
	// both endpoints are the same person.
	Skipped int
}

// ResolveGenerations assigns a generation level to every person.
//
// Every person starts at level 0. Relationships are then relaxed in input
// order, pass after pass, until a pass changes nothing or 2×len(people)
// passes have run:
//   - Parent: a child at or above its parent moves to parent+1
//   - Spouse: both partners move to the deeper of their two levels
//
// Sibling relationships never affect levels, and neither does the
// visibility filter: callers pass the full relationship list.
//
// The pass cap guarantees termination for parent cycles (A→B→C→A) and
// spouse/parent contradictions. Isolated people stay at level 0.
func ResolveGenerations(people []family.Person, rels []family.Relationship) Generations {
	levels := make(Levels, len(people))
	for _, p := range people {
		levels[p.ID] = 0
	}

	usable := make([]family.Relationship, 0, len(rels))
	skipped := 0
	for _, r := range rels {
		_, okS := levels[r.Source]
		_, okT := levels[r.Target]
		if !okS || !okT || r.IsSelfLoop() {
			skipped++
			continue
		}
		if r.Type == family.Parent || r.Type == family.Spouse {
			usable = append(usable, r)
		}
	}

	g := Generations{Levels: levels, Skipped: skipped}
	if len(usable) == 0 {
		g.Converged = true
		return g
	}

	limit := 2 * len(people)
	for g.Passes < limit {
		g.Passes++
		if !relax(levels, usable) {
			g.Converged = true
			break
		}
	}
	return g
}

// relax runs one pass over rels and reports whether any level moved.
func relax(levels Levels, rels []family.Relationship) bool {
	changed := false
	for _, r := range rels {
		src, dst := levels[r.Source], levels[r.Target]
		switch r.Type {
		case family.Parent:
			if dst <= src {
				levels[r.Target] = src + 1
				changed = true
			}
		case family.Spouse:
			if src != dst {
				deeper := max(src, dst)
				levels[r.Source] = deeper
				levels[r.Target] = deeper
				changed = true
			}
		}
	}
	return changed
}
