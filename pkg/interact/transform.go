package interact

import (
	"math"

	"github.com/matzehuels/familytree/pkg/layout"
)

// Transform maps world coordinates to screen coordinates:
// screen = world*K + (X, Y). It applies to the whole drawing and is
// independent of the simulation.
type Transform struct {
	K    float64 // scale
	X, Y float64 // translation in screen pixels
}

// Identity is the transform that leaves coordinates unchanged.
var Identity = Transform{K: 1}

// Apply maps a world point to the screen.
func (t Transform) Apply(p layout.Point) layout.Point {
	return layout.Point{X: p.X*t.K + t.X, Y: p.Y*t.K + t.Y}
}

// Invert maps a screen point back to the world.
func (t Transform) Invert(p layout.Point) layout.Point {
	return layout.Point{X: (p.X - t.X) / t.K, Y: (p.Y - t.Y) / t.K}
}

// Translate shifts the transform by (dx, dy) screen pixels.
func (t Transform) Translate(dx, dy float64) Transform {
	t.X += dx
	t.Y += dy
	return t
}

// ScaleBy multiplies the scale by factor, clamped to [lo, hi], keeping the
// world point under the screen anchor fixed.
func (t Transform) ScaleBy(factor float64, anchor layout.Point, lo, hi float64) Transform {
	k := clamp(t.K*factor, lo, hi)
	w := t.Invert(anchor)
	return Transform{K: k, X: anchor.X - w.X*k, Y: anchor.Y - w.Y*k}
}

// String renders the transform as an SVG transform attribute.
func (t Transform) String() string {
	return "translate(" + num(t.X) + "," + num(t.Y) + ") scale(" + num(t.K) + ")"
}

// Bounds is an axis-aligned rectangle in world coordinates.
type Bounds struct {
	Min, Max layout.Point
}

// Width returns the horizontal extent.
func (b Bounds) Width() float64 { return b.Max.X - b.Min.X }

// Height returns the vertical extent.
func (b Bounds) Height() float64 { return b.Max.Y - b.Min.Y }

// Empty reports whether b contains nothing.
func (b Bounds) Empty() bool { return b.Max.X < b.Min.X || b.Max.Y < b.Min.Y }

// Pad grows b by d on every side.
func (b Bounds) Pad(d float64) Bounds {
	return Bounds{
		Min: layout.Point{X: b.Min.X - d, Y: b.Min.Y - d},
		Max: layout.Point{X: b.Max.X + d, Y: b.Max.Y + d},
	}
}

// BoundsOf returns the bounding box of pts. No points yield an empty box.
func BoundsOf(pts []layout.Point) Bounds {
	b := Bounds{
		Min: layout.Point{X: math.Inf(1), Y: math.Inf(1)},
		Max: layout.Point{X: math.Inf(-1), Y: math.Inf(-1)},
	}
	for _, p := range pts {
		b.Min.X, b.Min.Y = min(b.Min.X, p.X), min(b.Min.Y, p.Y)
		b.Max.X, b.Max.Y = max(b.Max.X, p.X), max(b.Max.Y, p.Y)
	}
	return b
}

// Fit returns the transform that centers b in canvas at the largest scale
// within [lo, hi] that shows all of b.
func Fit(b Bounds, canvas layout.Canvas, lo, hi float64) Transform {
	if b.Empty() || canvas.Width <= 0 || canvas.Height <= 0 {
		return Identity
	}
	k := hi
	if w := b.Width(); w > 0 {
		k = min(k, canvas.Width/w)
	}
	if h := b.Height(); h > 0 {
		k = min(k, canvas.Height/h)
	}
	k = clamp(k, lo, hi)
	cx, cy := (b.Min.X+b.Max.X)/2, (b.Min.Y+b.Max.Y)/2
	return Transform{K: k, X: canvas.Width/2 - cx*k, Y: canvas.Height/2 - cy*k}
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(hi, v))
}
