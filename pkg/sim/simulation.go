package sim

import (
	"math/rand/v2"
	"time"

	"github.com/matzehuels/familytree/pkg/config"
)

// Simulation owns a set of nodes and the forces acting on them.
type Simulation struct {
	nodes  []Node
	pins   []pin
	index  map[string]int
	forces []Force
	links  *LinkForce

	alpha         float64
	alphaTarget   float64
	alphaMin      float64
	alphaDecay    float64
	velocityDecay float64

	interval time.Duration
	maxSteps int
	pending  time.Duration
	running  bool
	ticks    int

	dv  []Vec
	rng *rand.Rand
}

// Option configures a Simulation.
type Option func(*Simulation)

// WithForces replaces the default force set.
func WithForces(forces ...Force) Option {
	return func(s *Simulation) {
		s.forces = forces
		s.links = nil
		for _, f := range forces {
			if lf, ok := f.(*LinkForce); ok {
				s.links = lf
			}
		}
	}
}

// WithAlpha sets the initial energy. The default is 1.
func WithAlpha(alpha float64) Option {
	return func(s *Simulation) { s.alpha = alpha }
}

// DefaultForces returns the force set configured by cfg.
func DefaultForces(links []Link, cfg config.Simulation) []Force {
	return []Force{
		Links(links),
		ManyBody(cfg.Charge),
		Collide(cfg.CollideRadius, cfg.CollideIterations, cfg.CollideStrength),
		PositionY(cfg.YStrength),
		PositionX(cfg.XStrength),
	}
}

// New creates a running simulation. The nodes are copied; node IDs must be
// unique, later duplicates are unreachable by ID.
func New(nodes []Node, links []Link, cfg config.Simulation, opts ...Option) *Simulation {
	s := &Simulation{
		nodes:         append([]Node(nil), nodes...),
		pins:          make([]pin, len(nodes)),
		index:         make(map[string]int, len(nodes)),
		alpha:         1,
		alphaMin:      cfg.AlphaMin,
		alphaDecay:    cfg.AlphaDecay,
		velocityDecay: cfg.VelocityDecay,
		interval:      cfg.TickInterval.Duration,
		maxSteps:      cfg.MaxStepsPerCall,
		dv:            make([]Vec, len(nodes)),
		rng:           rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)),
		running:       len(nodes) > 0,
	}
	WithForces(DefaultForces(links, cfg)...)(s)
	for _, opt := range opts {
		opt(s)
	}
	if s.interval <= 0 {
		s.interval = time.Second / 60
	}
	if s.maxSteps <= 0 {
		s.maxSteps = 1
	}

	for i := range s.nodes {
		n := &s.nodes[i]
		n.Pinned, n.FX, n.FY = false, 0, 0
		if _, dup := s.index[n.ID]; !dup {
			s.index[n.ID] = i
		}
	}
	for _, f := range s.forces {
		f.Init(s.nodes)
	}
	return s
}

// Tick advances the simulation by one step regardless of whether it is
// running. It returns the alpha used for the step.
func (s *Simulation) Tick() float64 {
	s.alpha += (s.alphaTarget - s.alpha) * s.alphaDecay
	s.ticks++
	if len(s.nodes) == 0 {
		return s.alpha
	}

	clear(s.dv)
	st := &Step{Nodes: s.nodes, DV: s.dv, Alpha: s.alpha, rng: s.rng}
	for _, f := range s.forces {
		f.Apply(st)
	}

	keep := 1 - s.velocityDecay
	for i := range s.nodes {
		n := &s.nodes[i]
		if p := s.pins[i]; p.set {
			n.X, n.Y = p.x, p.y
			n.VX, n.VY = 0, 0
			continue
		}
		n.VX = (n.VX + s.dv[i].X) * keep
		n.VY = (n.VY + s.dv[i].Y) * keep
		n.X += n.VX
		n.Y += n.VY
	}
	return s.alpha
}

// Advance runs as many ticks as fit into dt plus any remainder carried over
// from earlier calls, at most MaxStepsPerCall. A backlog beyond that bound is
// dropped. The simulation stops once alpha falls below AlphaMin. Advance
// returns the number of ticks run; a stopped or empty simulation runs none.
func (s *Simulation) Advance(dt time.Duration) int {
	if !s.running {
		s.pending = 0
		return 0
	}
	s.pending += dt
	steps := 0
	for s.pending >= s.interval && s.running {
		if steps == s.maxSteps {
			s.pending = 0
			break
		}
		s.pending -= s.interval
		s.Tick()
		steps++
		s.cool()
	}
	return steps
}

// Settle ticks until the simulation stops or limit ticks have run, and
// returns the number of ticks.
func (s *Simulation) Settle(limit int) int {
	steps := 0
	for s.running && steps < limit {
		s.Tick()
		steps++
		s.cool()
	}
	return steps
}

func (s *Simulation) cool() {
	if s.alpha < s.alphaMin {
		s.running = false
	}
}

// Restart resumes ticking without resetting alpha.
func (s *Simulation) Restart() {
	s.running = len(s.nodes) > 0
}

// Stop halts ticking. Positions are kept.
func (s *Simulation) Stop() {
	s.running = false
	s.pending = 0
}

// Running reports whether Advance will run ticks.
func (s *Simulation) Running() bool { return s.running }

// Alpha returns the current energy.
func (s *Simulation) Alpha() float64 { return s.alpha }

// SetAlpha sets the current energy.
func (s *Simulation) SetAlpha(alpha float64) { s.alpha = alpha }

// AlphaTarget returns the energy alpha decays toward.
func (s *Simulation) AlphaTarget() float64 { return s.alphaTarget }

// SetAlphaTarget sets the energy alpha decays toward. A target above
// AlphaMin keeps the simulation running.
func (s *Simulation) SetAlphaTarget(target float64) { s.alphaTarget = target }

// Ticks returns the number of ticks run so far.
func (s *Simulation) Ticks() int { return s.ticks }

// Len returns the number of nodes.
func (s *Simulation) Len() int { return len(s.nodes) }

// Skipped returns the number of links ignored because an endpoint is
// missing or both endpoints are the same node.
func (s *Simulation) Skipped() int {
	if s.links == nil {
		return 0
	}
	return s.links.Skipped()
}

// Links returns the number of active links.
func (s *Simulation) Links() int {
	if s.links == nil {
		return 0
	}
	return s.links.Len()
}

// Nodes returns a copy of all nodes in input order.
func (s *Simulation) Nodes() []Node {
	out := make([]Node, len(s.nodes))
	for i := range s.nodes {
		out[i] = s.node(i)
	}
	return out
}

// Node returns the node with id.
func (s *Simulation) Node(id string) (Node, bool) {
	i, ok := s.index[id]
	if !ok {
		return Node{}, false
	}
	return s.node(i), true
}

func (s *Simulation) node(i int) Node {
	n := s.nodes[i]
	if p := s.pins[i]; p.set {
		n.Pinned, n.FX, n.FY = true, p.x, p.y
	}
	return n
}

// Pin holds the node at (x, y) from the next tick on.
func (s *Simulation) Pin(id string, x, y float64) bool {
	i, ok := s.index[id]
	if !ok {
		return false
	}
	s.pins[i] = pin{set: true, x: x, y: y}
	return true
}

// Unpin releases the node so it relaxes freely again.
func (s *Simulation) Unpin(id string) bool {
	i, ok := s.index[id]
	if !ok {
		return false
	}
	s.pins[i] = pin{}
	return true
}

// Kinetic returns the sum of squared node speeds.
func (s *Simulation) Kinetic() float64 {
	var e float64
	for _, n := range s.nodes {
		e += n.VX*n.VX + n.VY*n.VY
	}
	return e
}
