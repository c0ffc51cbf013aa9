package sim

import (
	"github.com/matzehuels/familytree/pkg/config"
	"github.com/matzehuels/familytree/pkg/family"
)

// Vec is a 2D vector.
type Vec struct {
	X, Y float64
}

// Node is a layout node as seen by readers of the simulation.
type Node struct {
	ID string

	X, Y   float64
	VX, VY float64

	// TargetX and TargetY are the rest positions of the position forces.
	TargetX, TargetY float64

	// Pinned reports whether the node is held at (FX, FY).
	Pinned bool
	FX, FY float64
}

// Link connects two nodes by ID.
type Link struct {
	Source, Target string
	Type           family.RelationshipType
	Distance       float64
	Strength       float64
}

// NewLink builds a link for r with the distance and strength configured for
// its relationship type.
func NewLink(r family.Relationship, cfg config.Simulation) Link {
	p := LinkParams(r.Type, cfg)
	return Link{Source: r.Source, Target: r.Target, Type: r.Type, Distance: p.Distance, Strength: p.Strength}
}

// LinkParams returns the configured parameters for t.
func LinkParams(t family.RelationshipType, cfg config.Simulation) config.Link {
	switch t {
	case family.Spouse:
		return cfg.Spouse
	case family.Sibling:
		return cfg.Sibling
	default:
		return cfg.Parent
	}
}

type pin struct {
	set  bool
	x, y float64
}

// edge is a link resolved to node indices.
type edge struct {
	s, t     int
	distance float64
	strength float64
	bias     float64 // share of the correction taken by the target
}
