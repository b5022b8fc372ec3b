package model

import "fmt"

// Color is an 8-bit RGB color.
type Color struct {
	R, G, B uint8
}

// String renders the color as "#rrggbb", lowercase, zero-padded.
func (c Color) String() string {
	return fmt.Sprintf("#%.2x%.2x%.2x", c.R, c.G, c.B)
}

// LineCapType is the terminal style of an open path stroke.
type LineCapType int

const (
	LineCapButt LineCapType = iota
	LineCapFlat
	LineCapRound
	LineCapPointed
)

// LineJoinType is the corner style where two path segments meet.
type LineJoinType int

const (
	LineJoinMiter LineJoinType = iota
	LineJoinRound
	LineJoinBevel
)

// GradientType enumerates the on-disk gradient kinds. Everything other
// than Linear is rendered by the collector as a radial gradient.
type GradientType int

const (
	GradientLinear GradientType = iota
	GradientRadial
	GradientConical
	GradientCross
	GradientRectangular
	GradientFlexible
)

// GradientStop is one color/offset pair along a gradient ramp.
type GradientStop struct {
	Color  Color
	Offset float64 // 0..1
}

// Gradient is a multi-stop color ramp with an angle and a unit-square center.
type Gradient struct {
	Type   GradientType
	Stops  []GradientStop
	Angle  float64
	Center Point
}

// NewGradient returns a Gradient with the default center (0.5, 0.5).
func NewGradient(t GradientType) Gradient {
	return Gradient{Type: t, Center: Point{X: 0.5, Y: 0.5}}
}

// Image is a decoded raster image: its width/height in inches and its
// already-encoded PNG bytes.
type Image struct {
	Width, Height float64
	Data          []byte // PNG-encoded
}

// ImageFill tiles or stretches an Image across a filled area.
type ImageFill struct {
	Image                  Image
	Tile                   bool
	TileWidth, TileHeight  float64
}

// Fill is the tagged union of the three ways a shape can be filled: Color,
// Gradient and ImageFill, the only types carrying the isFill marker method
// below. The zero value is not meaningful on its own and isFill exists
// solely to close the set.
type Fill interface {
	isFill()
}

func (Color) isFill()     {}
func (Gradient) isFill()  {}
func (ImageFill) isFill() {}

// Arrow is a reusable line-end marker built from its own curve family.
// Two Pens may legitimately share the same *Arrow.
type Arrow struct {
	Curves   []Curve
	LineEndX float64
}

// Pen describes a stroke: color, width, caps/joins, optional dashing and
// optional arrowheads.
type Pen struct {
	Color        Color
	Width        float64
	Cap          LineCapType
	Join         LineJoinType
	DashPattern  []float64
	DashDistance float64
	StartArrow   *Arrow
	EndArrow     *Arrow
	IsInvisible  bool
}

// NewInvisiblePen returns the invisible pen used as a no-op border and as
// the Zoner-4 default pen (id 0x1).
func NewInvisiblePen(c Color) Pen {
	return Pen{Color: c, IsInvisible: true}
}

// Transparency is a single color whose red channel encodes opacity.
type Transparency struct {
	Color Color
}

// Opacity returns 1 - red/255, i.e. a fully red transparency color is
// fully transparent.
func (t Transparency) Opacity() float64 {
	return 1.0 - float64(t.Color.R)/255.0
}

// Shadow is a drop shadow: offset, angle, opacity and color.
type Shadow struct {
	Offset  Point
	Angle   float64
	Opacity float64
	Color   Color
}

// NewShadow returns a Shadow with the default opacity of 1.0 (fully opaque).
func NewShadow() Shadow {
	return Shadow{Opacity: 1.0}
}

// Style is a bag of optional pen/fill/transparency/shadow, attached to a
// drawing object immediately before it is emitted.
type Style struct {
	Pen          *Pen
	Fill         Fill
	Transparency *Transparency
	Shadow       *Shadow
}
