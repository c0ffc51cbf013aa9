package sim

import (
	"math"
	"math/rand/v2"
)

// Force contributes velocity changes once per tick.
type Force interface {
	// Init is called once with the simulation's nodes before the first tick.
	Init(nodes []Node)
	// Apply reads st.Nodes and adds to st.DV. It must not modify st.Nodes.
	Apply(st *Step)
}

// Step is the per-tick state handed to each force.
type Step struct {
	Nodes []Node // positions and velocities at the start of the tick
	DV    []Vec  // accumulated velocity change, one per node
	Alpha float64

	rng *rand.Rand
}

// Jiggle returns a tiny random offset used to separate coincident nodes.
func (st *Step) Jiggle() float64 {
	return (st.rng.Float64() - 0.5) * 1e-6
}

// =============================================================================
// Link
// =============================================================================

// LinkForce pulls the endpoints of each link toward its distance. The
// correction is split by degree so that well-connected nodes move less.
type LinkForce struct {
	links   []Link
	edges   []edge
	skipped int
}

// Links returns a link force over links. Links whose endpoints are unknown
// or identical are skipped.
func Links(links []Link) *LinkForce {
	return &LinkForce{links: links}
}

func (f *LinkForce) Init(nodes []Node) {
	index := make(map[string]int, len(nodes))
	for i, n := range nodes {
		if _, dup := index[n.ID]; !dup {
			index[n.ID] = i
		}
	}

	f.edges = f.edges[:0]
	f.skipped = 0
	degree := make([]int, len(nodes))
	for _, l := range f.links {
		s, okS := index[l.Source]
		t, okT := index[l.Target]
		if !okS || !okT || s == t {
			f.skipped++
			continue
		}
		degree[s]++
		degree[t]++
		f.edges = append(f.edges, edge{s: s, t: t, distance: l.Distance, strength: l.Strength})
	}
	for i := range f.edges {
		e := &f.edges[i]
		e.bias = float64(degree[e.s]) / float64(degree[e.s]+degree[e.t])
	}
}

func (f *LinkForce) Apply(st *Step) {
	for _, e := range f.edges {
		s, t := st.Nodes[e.s], st.Nodes[e.t]
		x := t.X + t.VX - s.X - s.VX
		y := t.Y + t.VY - s.Y - s.VY
		if x == 0 {
			x = st.Jiggle()
		}
		if y == 0 {
			y = st.Jiggle()
		}
		l := math.Sqrt(x*x + y*y)
		l = (l - e.distance) / l * st.Alpha * e.strength
		x *= l
		y *= l
		st.DV[e.t].X -= x * e.bias
		st.DV[e.t].Y -= y * e.bias
		st.DV[e.s].X += x * (1 - e.bias)
		st.DV[e.s].Y += y * (1 - e.bias)
	}
}

// Skipped returns the number of links that could not be resolved.
func (f *LinkForce) Skipped() int { return f.skipped }

// Len returns the number of active links.
func (f *LinkForce) Len() int { return len(f.edges) }

// =============================================================================
// Many-body
// =============================================================================

// ManyBodyForce applies a pairwise inverse-distance force between all nodes.
// Negative strength repels. Distances below one are softened.
type ManyBodyForce struct {
	Strength float64
}

// ManyBody returns a many-body force with the given strength.
func ManyBody(strength float64) *ManyBodyForce {
	return &ManyBodyForce{Strength: strength}
}

func (f *ManyBodyForce) Init([]Node) {}

func (f *ManyBodyForce) Apply(st *Step) {
	w := f.Strength * st.Alpha
	for i, a := range st.Nodes {
		for j, b := range st.Nodes {
			if i == j {
				continue
			}
			x, y := b.X-a.X, b.Y-a.Y
			l := x*x + y*y
			if x == 0 {
				x = st.Jiggle()
				l += x * x
			}
			if y == 0 {
				y = st.Jiggle()
				l += y * y
			}
			if l < 1 {
				l = math.Sqrt(l)
			}
			st.DV[i].X += x * w / l
			st.DV[i].Y += y * w / l
		}
	}
}

// =============================================================================
// Collide
// =============================================================================

// CollideForce separates nodes whose discs overlap. It is not scaled by
// alpha, so overlap is resolved even when the layout has cooled.
type CollideForce struct {
	Radius     float64
	Iterations int
	Strength   float64

	own []Vec // velocity changes from earlier passes of the current tick
}

// Collide returns a collision force with equal radii for all nodes.
func Collide(radius float64, iterations int, strength float64) *CollideForce {
	return &CollideForce{Radius: radius, Iterations: iterations, Strength: strength}
}

func (f *CollideForce) Init(nodes []Node) {
	f.own = make([]Vec, len(nodes))
}

func (f *CollideForce) Apply(st *Step) {
	if len(f.own) != len(st.Nodes) {
		f.own = make([]Vec, len(st.Nodes))
	}
	clear(f.own)

	r := 2 * f.Radius
	rr := r * r
	// Equal radii split every correction evenly.
	const share = 0.5
	for range f.Iterations {
		for i := range st.Nodes {
			a := st.Nodes[i]
			xi := a.X + a.VX + f.own[i].X
			yi := a.Y + a.VY + f.own[i].Y
			for j := i + 1; j < len(st.Nodes); j++ {
				b := st.Nodes[j]
				x := xi - (b.X + b.VX + f.own[j].X)
				y := yi - (b.Y + b.VY + f.own[j].Y)
				l := x*x + y*y
				if l >= rr {
					continue
				}
				if x == 0 {
					x = st.Jiggle()
					l += x * x
				}
				if y == 0 {
					y = st.Jiggle()
					l += y * y
				}
				l = math.Sqrt(l)
				l = (r - l) / l * f.Strength
				x *= l
				y *= l
				f.own[i].X += x * share
				f.own[i].Y += y * share
				f.own[j].X -= x * share
				f.own[j].Y -= y * share
			}
		}
	}
	for i, v := range f.own {
		st.DV[i].X += v.X
		st.DV[i].Y += v.Y
	}
}

// =============================================================================
// Position
// =============================================================================

// PositionForce pulls one axis of every node toward its target.
type PositionForce struct {
	Strength float64
	vertical bool
}

// PositionX pulls x toward Node.TargetX.
func PositionX(strength float64) *PositionForce {
	return &PositionForce{Strength: strength}
}

// PositionY pulls y toward Node.TargetY.
func PositionY(strength float64) *PositionForce {
	return &PositionForce{Strength: strength, vertical: true}
}

func (f *PositionForce) Init([]Node) {}

func (f *PositionForce) Apply(st *Step) {
	k := f.Strength * st.Alpha
	for i, n := range st.Nodes {
		if f.vertical {
			st.DV[i].Y += (n.TargetY - n.Y) * k
		} else {
			st.DV[i].X += (n.TargetX - n.X) * k
		}
	}
}
