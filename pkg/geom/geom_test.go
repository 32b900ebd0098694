package geom

import (
	"math"
	"testing"
)

func TestRectFromPoints(t *testing.T) {
	tests := []struct {
		name   string
		p1, p2 Point
		want   Rect
	}{
		{
			name: "TopLeftToBottomRight",
			p1:   Point{0, 0},
			p2:   Point{10, 20},
			want: Rect{X: 0, Y: 0, W: 10, H: 20},
		},
		{
			name: "BottomRightToTopLeft",
			p1:   Point{10, 20},
			p2:   Point{0, 0},
			want: Rect{X: 0, Y: 0, W: 10, H: 20},
		},
		{
			name: "MixedQuadrants",
			p1:   Point{-5, 10},
			p2:   Point{5, -10},
			want: Rect{X: -5, Y: -10, W: 10, H: 20},
		},
		{
			name: "SamePoint",
			p1:   Point{3, 3},
			p2:   Point{3, 3},
			want: Rect{X: 3, Y: 3, W: 0, H: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RectFromPoints(tt.p1, tt.p2)
			if got != tt.want {
				t.Errorf("RectFromPoints(%v, %v) = %v, want %v", tt.p1, tt.p2, got, tt.want)
			}
		})
	}
}

// Swapping the corner points must never change the resulting rectangle.
func TestRectFromPointsCommutative(t *testing.T) {
	points := []Point{
		{0, 0}, {1, 2}, {-3, 7}, {100.5, -0.25}, {-1e6, 1e6},
	}
	for _, p1 := range points {
		for _, p2 := range points {
			a := RectFromPoints(p1, p2)
			b := RectFromPoints(p2, p1)
			if a != b {
				t.Errorf("RectFromPoints(%v,%v)=%v but RectFromPoints(%v,%v)=%v", p1, p2, a, p2, p1, b)
			}
			if a.W < 0 || a.H < 0 {
				t.Errorf("RectFromPoints(%v,%v) has negative dimensions: %v", p1, p2, a)
			}
		}
	}
}

func TestCircleIntersectsRect(t *testing.T) {
	rect := Rect{X: 0, Y: 0, W: 10, H: 10}

	tests := []struct {
		name   string
		circle Circle
		want   bool
	}{
		{"CenterInside", Circle{5, 5, 1}, true},
		{"CenterInsideZeroRadius", Circle{5, 5, 0}, true},
		{"FarOutside", Circle{100, 100, 5}, false},
		{"OverlapsCorner", Circle{12, 12, 3}, true},
		{"TouchesEdgeExactly", Circle{15, 5, 5}, true},
		{"JustBeyondEdge", Circle{15.01, 5, 5}, false},
		{"OverlapsLeftEdge", Circle{-2, 5, 3}, true},
		{"DiagonalNearMiss", Circle{13, 13, 4}, false},
		{"DiagonalHit", Circle{12, 12, 3.5}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.circle.IntersectsRect(rect); got != tt.want {
				t.Errorf("%v.IntersectsRect(%v) = %v, want %v", tt.circle, rect, got, tt.want)
			}
		})
	}
}

// With R == 0 the collision test must be exactly an inclusive
// point-in-rectangle test.
func TestZeroRadiusEquivalentToPointTest(t *testing.T) {
	rect := Rect{X: 2, Y: 3, W: 4, H: 5}
	points := []Point{
		{2, 3}, {6, 8}, {4, 5}, {1.999, 3}, {6.001, 8}, {2, 2.999}, {6, 8.001}, {0, 0},
	}
	for _, p := range points {
		c := Circle{X: p.X, Y: p.Y, R: 0}
		if got, want := c.IntersectsRect(rect), rect.ContainsPoint(p); got != want {
			t.Errorf("point %v: IntersectsRect=%v, ContainsPoint=%v", p, got, want)
		}
	}
}

func TestContainsCircle(t *testing.T) {
	rect := Rect{X: 0, Y: 0, W: 10, H: 10}

	tests := []struct {
		name   string
		circle Circle
		want   bool
	}{
		{"FullyInside", Circle{5, 5, 2}, true},
		{"TouchingAllEdges", Circle{5, 5, 5}, true},
		{"ExtendsBeyondRight", Circle{9, 5, 2}, false},
		{"CenterInsideButTooLarge", Circle{5, 5, 6}, false},
		{"CenterOutside", Circle{15, 5, 1}, false},
		{"ZeroRadiusOnBoundary", Circle{0, 0, 0}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rect.ContainsCircle(tt.circle); got != tt.want {
				t.Errorf("ContainsCircle(%v) = %v, want %v", tt.circle, got, tt.want)
			}
		})
	}
}

func TestExpand(t *testing.T) {
	r := Rect{X: 10, Y: 10, W: 20, H: 30}
	got := r.Expand(5)
	want := Rect{X: 5, Y: 5, W: 30, H: 40}
	if got != want {
		t.Errorf("Expand(5) = %v, want %v", got, want)
	}
}

func TestIsDegenerate(t *testing.T) {
	eps := 1e-9
	if !(Rect{W: 0, H: 0}).IsDegenerate(eps) {
		t.Error("zero rect should be degenerate")
	}
	if (Rect{W: 1, H: 0}).IsDegenerate(eps) {
		t.Error("rect with width should not be degenerate")
	}
	if (Rect{W: 0, H: 1}).IsDegenerate(eps) {
		t.Error("rect with height should not be degenerate")
	}
}

func TestRectEdges(t *testing.T) {
	r := Rect{X: 1, Y: 2, W: 3, H: 4}
	if r.Left() != 1 || r.Right() != 4 || r.Top() != 2 || r.Bottom() != 6 {
		t.Errorf("edges = %v/%v/%v/%v", r.Left(), r.Right(), r.Top(), r.Bottom())
	}
}

func TestIntersectsRectWithNaNCenter(t *testing.T) {
	rect := Rect{X: 0, Y: 0, W: 10, H: 10}
	c := Circle{X: math.NaN(), Y: 5, R: 100}
	if c.IntersectsRect(rect) {
		t.Error("NaN center must never intersect")
	}
}
