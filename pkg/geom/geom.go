// Package geom provides the 2D primitives used by the selection engine:
// points, axis-aligned rectangles, and circles, together with the
// normalization and collision tests hit-testing is built on.
//
// All functions are pure and allocation-free. Coordinates are float64 and
// may live in either viewport (pixel) or graph (logical) space; the package
// is agnostic about which.
package geom

import "math"

// Point is a 2D point in either viewport or graph coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is an axis-aligned rectangle in canonical form: (X, Y) is the
// top-left corner and W, H are non-negative.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"width"`
	H float64 `json:"height"`
}

// Circle is a circle with center (X, Y) and radius R.
type Circle struct {
	X float64
	Y float64
	R float64
}

// RectFromPoints returns the canonical rectangle spanned by two arbitrary
// corner points. The result is identical for either argument order.
func RectFromPoints(p1, p2 Point) Rect {
	return Rect{
		X: math.Min(p1.X, p2.X),
		Y: math.Min(p1.Y, p2.Y),
		W: math.Abs(p2.X - p1.X),
		H: math.Abs(p2.Y - p1.Y),
	}
}

// Left returns the left edge X coordinate.
func (r Rect) Left() float64 { return r.X }

// Right returns the right edge X coordinate.
func (r Rect) Right() float64 { return r.X + r.W }

// Top returns the top edge Y coordinate.
func (r Rect) Top() float64 { return r.Y }

// Bottom returns the bottom edge Y coordinate.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// ContainsPoint reports whether p lies inside or on the boundary of r.
func (r Rect) ContainsPoint(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.W &&
		p.Y >= r.Y && p.Y <= r.Y+r.H
}

// ContainsCircle reports whether the circle lies entirely inside r,
// boundary contact included. This is the strict containment test used by
// the "select only complete" policy.
func (r Rect) ContainsCircle(c Circle) bool {
	return c.X-c.R >= r.Left() && c.X+c.R <= r.Right() &&
		c.Y-c.R >= r.Top() && c.Y+c.R <= r.Bottom()
}

// Expand returns r grown by m on all four sides. A negative m shrinks the
// rectangle; width and height are not clamped.
func (r Rect) Expand(m float64) Rect {
	return Rect{X: r.X - m, Y: r.Y - m, W: r.W + 2*m, H: r.H + 2*m}
}

// IsDegenerate reports whether both dimensions are below eps, i.e. the
// rectangle is effectively a click with no drag.
func (r Rect) IsDegenerate(eps float64) bool {
	return r.W < eps && r.H < eps
}

// IntersectsRect reports whether the circle's interior or boundary overlaps
// the rectangle's interior or boundary. Touching counts as a collision.
//
// The test clamps the circle center to the rectangle (closest-point) and
// compares the squared distance against R². With R == 0 it degrades to an
// inclusive point-in-rectangle test.
func (c Circle) IntersectsRect(r Rect) bool {
	cx := clamp(c.X, r.Left(), r.Right())
	cy := clamp(c.Y, r.Top(), r.Bottom())
	dx := c.X - cx
	dy := c.Y - cy
	return dx*dx+dy*dy <= c.R*c.R
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
