package model

import (
	"math"
	"testing"
)

func TestPointMoveRotate(t *testing.T) {
	p := Point{X: 1, Y: 0}
	moved := p.Move(2, 3)
	if moved.X != 3 || moved.Y != 3 {
		t.Errorf("Move() = %+v, want {3 3}", moved)
	}

	rotated := p.Rotate(math.Pi/2, Point{})
	if math.Abs(rotated.X) > 1e-9 || math.Abs(rotated.Y-1) > 1e-9 {
		t.Errorf("Rotate(pi/2) = %+v, want ~{0 1}", rotated)
	}
}

func TestPointDistance(t *testing.T) {
	if d := (Point{0, 0}).Distance(Point{3, 4}); math.Abs(d-5) > 1e-9 {
		t.Errorf("Distance() = %v, want 5", d)
	}
}

// TestNewBoundingBoxQuadrantTable reproduces the source's own quadrant test
// fixture exactly (spec §8's "BoundingBox quadrant table").
func TestNewBoundingBoxQuadrantTable(t *testing.T) {
	cases := []struct {
		points   [4]Point
		p1Q, p2Q int
	}{
		{[4]Point{{10, 10}, {12, 10}, {12, 12}, {10, 12}}, 2, 1},
		{[4]Point{{10, 12}, {12, 12}, {12, 10}, {10, 10}}, 3, 4},
		{[4]Point{{10, 10}, {14, 10}, {14, 12}, {10, 12}}, 2, 1},
		{[4]Point{{10, 10}, {12, 10}, {12, 14}, {10, 14}}, 2, 1},
	}
	for _, c := range cases {
		box := NewBoundingBox(c.points)
		if box.P1Quadrant() != c.p1Q || box.P2Quadrant() != c.p2Q {
			t.Errorf("NewBoundingBox(%v): P1Quadrant/P2Quadrant = %d/%d, want %d/%d",
				c.points, box.P1Quadrant(), box.P2Quadrant(), c.p1Q, c.p2Q)
		}
	}
}

// TestNewBoundingBoxUnrotatedRectangle exercises Center/Width/Height on the
// simple unrotated case (rotation = 0, so p1Quadrant is computed directly
// off the raw corners without any un-rotation).
func TestNewBoundingBoxUnrotatedRectangle(t *testing.T) {
	box := NewBoundingBox([4]Point{
		{X: 0, Y: 0},
		{X: 10, Y: 0},
		{X: 10, Y: 5},
		{X: 0, Y: 5},
	})

	if got := box.Center(); got.X != 5 || got.Y != 2.5 {
		t.Errorf("Center() = %+v, want {5 2.5}", got)
	}
	// p0=(0,0) is left of/above center(5,2.5) -> quadrant 2; p1=(10,0) is
	// right of/above center -> quadrant 1.
	if box.P1Quadrant() != 2 {
		t.Errorf("P1Quadrant() = %d, want 2", box.P1Quadrant())
	}
	if box.P2Quadrant() != 1 {
		t.Errorf("P2Quadrant() = %d, want 1", box.P2Quadrant())
	}
	if box.MirrorHorizontal() || box.MirrorVertical() {
		t.Errorf("MirrorHorizontal/MirrorVertical = %v/%v, want false/false for a quadrant-2 p1",
			box.MirrorHorizontal(), box.MirrorVertical())
	}
	if math.Abs(box.Width()-10) > 1e-9 || math.Abs(box.Height()-5) > 1e-9 {
		t.Errorf("Width/Height = %v/%v, want 10/5", box.Width(), box.Height())
	}
}

func TestColorString(t *testing.T) {
	c := Color{R: 0, G: 128, B: 255}
	if got, want := c.String(), "#0080ff"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
