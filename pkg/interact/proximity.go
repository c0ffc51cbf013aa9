package interact

import (
	"math"

	"github.com/matzehuels/familytree/pkg/layout"
	"github.com/matzehuels/familytree/pkg/sim"
)

// Nearest returns the node closest to p among nodes strictly within
// threshold, skipping exclude. Ties go to the node that comes first.
func Nearest(nodes []sim.Node, exclude string, p layout.Point, threshold float64) (id string, d float64, ok bool) {
	best := threshold
	for _, n := range nodes {
		if n.ID == exclude {
			continue
		}
		dist := math.Hypot(n.X-p.X, n.Y-p.Y)
		if dist < best {
			id, best, ok = n.ID, dist, true
		}
	}
	if !ok {
		return "", 0, false
	}
	return id, best, true
}

// hit returns the topmost node whose disc contains p. Later nodes are drawn
// above earlier ones.
func hit(nodes []sim.Node, p layout.Point, radius float64) (string, bool) {
	for i := len(nodes) - 1; i >= 0; i-- {
		n := nodes[i]
		if math.Hypot(n.X-p.X, n.Y-p.Y) <= radius {
			return n.ID, true
		}
	}
	return "", false
}
