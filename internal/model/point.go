// Package model holds the geometry and styling data model shared by the
// bmi, zbr and zoner4 parsers: points, bounding boxes, curves, fills, pens
// and the rest of the vocabulary a collector translates into drawing events.
package model

import "math"

// Point is a location in document space, in inches. Negative coordinates
// are valid: the origin is the page's top-left corner, not the content's.
type Point struct {
	X, Y float64
}

// Move returns the point translated by (dx, dy).
func (p Point) Move(dx, dy float64) Point {
	return Point{p.X + dx, p.Y + dy}
}

// Rotate returns p rotated by theta radians around center.
func (p Point) Rotate(theta float64, center Point) Point {
	sin, cos := math.Sincos(theta)
	dx := p.X - center.X
	dy := p.Y - center.Y
	return Point{
		X: center.X + dx*cos - dy*sin,
		Y: center.Y + dx*sin + dy*cos,
	}
}

// Distance returns the Euclidean distance between p and other.
func (p Point) Distance(other Point) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// normalizeAngle reduces theta into [0, 2*pi).
func normalizeAngle(theta float64) float64 {
	const twoPi = 2 * math.Pi
	theta = math.Mod(theta, twoPi)
	if theta < 0 {
		theta += twoPi
	}
	return theta
}

// quadrant classifies p relative to center using the source's own
// convention: x>cx,y<cy -> 1; x<cx,y<cy -> 2; x<cx,y>=cy -> 3; x>=cx,y>=cy -> 4.
func quadrant(p, center Point) int {
	switch {
	case p.X > center.X && p.Y < center.Y:
		return 1
	case p.X < center.X && p.Y < center.Y:
		return 2
	case p.X < center.X && p.Y >= center.Y:
		return 3
	default:
		return 4
	}
}

// BoundingBox is the 4-corner quadrilateral the Zoner-4 format uses to
// describe an object's placement, size and rotation. It is always built
// from exactly four points.
type BoundingBox struct {
	points                         [4]Point
	center                         Point
	rotation                       float64
	width, height                  float64
	p1Quadrant, p2Quadrant         int
	mirrorHorizontal, mirrorVertical bool
}

// NewBoundingBox builds a BoundingBox from exactly four points, reproducing
// the source's center/rotation/quadrant/mirror derivation exactly -
// including the quadrant-1/4 rotation adjustment, which is a known
// heuristic that only covers some corner orderings. Do not extend it.
func NewBoundingBox(points [4]Point) BoundingBox {
	p0, p1, p2, p3 := points[0], points[1], points[2], points[3]

	center := Point{
		X: (p0.X + p2.X) / 2,
		Y: (p0.Y + p2.Y) / 2,
	}

	rotation := normalizeAngle(math.Atan2(p1.Y-p0.Y, p1.X-p0.X))

	// Un-rotate p0/p1 (the original's originalPoints[0]/[1]) around the
	// center to classify their quadrant in axis-aligned space.
	unrotatedP0ForQuad := p0.Rotate(-rotation, center)
	unrotatedP1ForQuad := p1.Rotate(-rotation, center)
	p1Quad := quadrant(unrotatedP0ForQuad, center)
	p2Quad := quadrant(unrotatedP1ForQuad, center)

	if p1Quad == 1 || p1Quad == 4 {
		rotation = normalizeAngle(rotation - math.Pi)
	}

	var width, height float64
	unrotatedP0 := p0.Rotate(-rotation, center)
	unrotatedP1 := p1.Rotate(-rotation, center)
	unrotatedP3 := p3.Rotate(-rotation, center)
	if math.Abs(unrotatedP0.X-unrotatedP1.X) > math.Abs(unrotatedP0.X-unrotatedP3.X) {
		width = p0.Distance(p1)
		height = p0.Distance(p3)
	} else {
		width = p0.Distance(p3)
		height = p0.Distance(p1)
	}

	return BoundingBox{
		points:           points,
		center:           center,
		rotation:         rotation,
		width:            width,
		height:           height,
		p1Quadrant:       p1Quad,
		p2Quadrant:       p2Quad,
		mirrorHorizontal: p1Quad == 1 || p1Quad == 4,
		mirrorVertical:   p1Quad == 3 || p1Quad == 4,
	}
}

// Points returns the four corner points in the order the box was built from.
func (b BoundingBox) Points() [4]Point { return b.points }

// TopLeft returns the first corner point, used by drawing decoders as the
// object's nominal placement origin.
func (b BoundingBox) TopLeft() Point { return b.points[0] }

func (b BoundingBox) Center() Point           { return b.center }
func (b BoundingBox) Rotation() float64       { return b.rotation }
func (b BoundingBox) Width() float64          { return b.width }
func (b BoundingBox) Height() float64         { return b.height }
func (b BoundingBox) P1Quadrant() int         { return b.p1Quadrant }
func (b BoundingBox) P2Quadrant() int         { return b.p2Quadrant }
func (b BoundingBox) MirrorHorizontal() bool  { return b.mirrorHorizontal }
func (b BoundingBox) MirrorVertical() bool    { return b.mirrorVertical }

// CurveSectionType tags how many points a Curve section consumes.
type CurveSectionType int

const (
	SectionLine CurveSectionType = iota
	SectionBezier
)

// Curve is an ordered list of control points plus section tags describing
// how to connect them, and whether the curve is closed.
type Curve struct {
	Points       []Point
	SectionTypes []CurveSectionType
	Closed       bool
}
