package collector

import (
	"math"
	"sort"

	"github.com/elliotwutingfeng/asciiset"

	"github.com/zoner-draw/zmf/internal/model"
)

// Collector is the semantic event interface the format parsers drive:
// document/page/layer/group lifecycle, a "current style" setter, and one
// call per drawable object kind.
type Collector interface {
	StartDocument()
	EndDocument()
	StartPage(settings model.PageSettings)
	EndPage()
	StartLayer()
	EndLayer()
	StartGroup()
	EndGroup()

	SetStyle(style model.Style)

	CollectPath(curves []model.Curve)
	CollectEllipse(center model.Point, rx, ry, rotation float64)
	CollectArc(center model.Point, rx, ry, beginAngle, endAngle float64, closed bool, rotation float64)
	CollectPolygon(center model.Point, rx, ry float64, peaksCount int, peak model.Curve, rotation float64, mirrorHorizontal, mirrorVertical bool)
	CollectTextObject(text model.Text, topLeft model.Point, width, height float64, align model.VerticalAlignment, rotation float64)
	CollectTable(table model.Table)
	CollectImage(img model.Image, topLeft model.Point, width, height, rotation float64, mirrorHorizontal, mirrorVertical bool)
}

// whitespaceSet is the ASCII whitespace membership test used to split text
// into literal-space and insertSpace runs, mirroring the bit-set idiom the
// pack uses for cheap character-class membership checks instead of
// repeated unicode.IsSpace calls.
var whitespaceSet, _ = asciiset.MakeASCIISet(" \t")

// ZMFCollector is the default Collector: it drives a Sink through the
// document/page/layer lifecycle and owns no geometry of its own, only the
// lifecycle flags and the last style set via SetStyle.
type ZMFCollector struct {
	sink Sink

	documentStarted bool
	pageStarted     bool
	layerStarted    bool

	pageSettings model.PageSettings
	style        model.Style
}

// New builds a ZMFCollector driving sink.
func New(sink Sink) *ZMFCollector {
	return &ZMFCollector{sink: sink}
}

// Close ends any still-open document, layer and page, mirroring the
// source collector's destructor.
func (c *ZMFCollector) Close() {
	if c.documentStarted {
		c.EndDocument()
	}
}

func (c *ZMFCollector) StartDocument() {
	if c.documentStarted {
		return
	}
	c.documentStarted = true
	c.sink.StartDocument(PropertyList{})
}

func (c *ZMFCollector) EndDocument() {
	if !c.documentStarted {
		return
	}
	if c.pageStarted {
		c.EndPage()
	}
	c.documentStarted = false
	c.sink.EndDocument()
}

func (c *ZMFCollector) StartPage(settings model.PageSettings) {
	if c.pageStarted {
		return
	}
	c.pageStarted = true
	c.pageSettings = settings
	c.sink.StartPage(PropertyList{
		"svg:width":      settings.Width,
		"svg:height":     settings.Height,
		"draw:fill":      "solid",
		"draw:fill-color": settings.Color.String(),
	})
}

func (c *ZMFCollector) EndPage() {
	if !c.pageStarted {
		return
	}
	if c.layerStarted {
		c.EndLayer()
	}
	c.pageStarted = false
	c.sink.EndPage()
}

func (c *ZMFCollector) StartLayer() {
	if c.layerStarted {
		return
	}
	c.layerStarted = true
	c.sink.OpenLayer(PropertyList{})
}

func (c *ZMFCollector) EndLayer() {
	if !c.layerStarted {
		return
	}
	c.layerStarted = false
	c.sink.CloseLayer()
}

func (c *ZMFCollector) StartGroup() { c.sink.OpenGroup(PropertyList{}) }
func (c *ZMFCollector) EndGroup()   { c.sink.CloseGroup() }

func (c *ZMFCollector) SetStyle(style model.Style) { c.style = style }

func (c *ZMFCollector) pageX(x float64) float64 { return x - c.pageSettings.LeftOffset }
func (c *ZMFCollector) pageY(y float64) float64 { return y - c.pageSettings.TopOffset }

// writeStyle builds the stroke/fill/shadow property bag for the current
// style. noFill suppresses the fill entry even if the style has one -
// used to keep unclosed open paths from being filled by downstream
// renderers.
func (c *ZMFCollector) writeStyle(props PropertyList, noFill bool) {
	props["draw:stroke"] = "none"
	props["draw:fill"] = "none"
	if c.style.Pen != nil {
		writePen(props, *c.style.Pen, c.style.Transparency)
	}
	if c.style.Fill != nil && !noFill {
		writeFill(props, c.style.Fill, c.style.Transparency)
	}
	if c.style.Shadow != nil {
		writeShadow(props, *c.style.Shadow)
	}
}

func writePen(props PropertyList, pen model.Pen, transparency *model.Transparency) {
	props["svg:stroke-color"] = pen.Color.String()
	if !almostZero(pen.Width) {
		props["svg:stroke-width"] = pen.Width
	}
	if len(pen.DashPattern) > 0 {
		dots1 := pen.DashPattern[0]
		dots2 := dots1
		dist := pen.DashDistance
		if len(pen.DashPattern) >= 3 {
			dist = pen.DashPattern[1]
			dots2 = pen.DashPattern[2]
		}
		props["draw:stroke"] = "dash"
		props["draw:dots1"] = 1
		props["draw:dots1-length"] = dots1
		props["draw:dots2"] = 1
		props["draw:dots2-length"] = dots2
		props["draw:distance"] = dist
	} else {
		props["draw:stroke"] = "solid"
	}

	switch pen.Cap {
	case model.LineCapRound:
		props["svg:stroke-linecap"] = "round"
	case model.LineCapFlat:
		props["svg:stroke-linecap"] = "square"
	case model.LineCapPointed:
		props["svg:stroke-linecap"] = "square"
	default:
		props["svg:stroke-linecap"] = "butt"
	}

	// NOTE: the source's own switch falls into BEVEL by default, ahead of
	// the MITER/ROUND cases in source order. Reproduced exactly.
	switch pen.Join {
	case model.LineJoinMiter:
		props["svg:stroke-linejoin"] = "miter"
	case model.LineJoinRound:
		props["svg:stroke-linejoin"] = "round"
	default:
		props["svg:stroke-linejoin"] = "bevel"
	}

	if transparency != nil {
		props["svg:stroke-opacity"] = transparency.Opacity() * 100
	}
}

func writeFill(props PropertyList, fill model.Fill, transparency *model.Transparency) {
	switch f := fill.(type) {
	case model.Color:
		props["draw:fill"] = "solid"
		props["draw:fill-color"] = f.String()
		if transparency != nil {
			props["draw:opacity"] = transparency.Opacity() * 100
		}
	case model.Gradient:
		writeGradient(props, f, transparency)
	case model.ImageFill:
		writeImageFill(props, f, transparency)
	}
	props["svg:fill-rule"] = "evenodd"
}

func writeGradient(props PropertyList, g model.Gradient, transparency *model.Transparency) {
	if len(g.Stops) < 2 {
		return
	}
	stops := append([]model.GradientStop(nil), g.Stops...)
	if g.Type == model.GradientLinear {
		sort.Slice(stops, func(i, j int) bool { return stops[i].Offset < stops[j].Offset })
	} else {
		sort.Slice(stops, func(i, j int) bool { return stops[i].Offset > stops[j].Offset })
		for i := range stops {
			stops[i].Offset = 1 - stops[i].Offset
		}
	}

	var stopList []PropertyList
	for _, s := range stops {
		stopList = append(stopList, PropertyList{
			"svg:offset":      s.Offset * 100,
			"svg:stop-color":  s.Color.String(),
			"svg:stop-opacity": 100,
		})
	}

	if g.Type == model.GradientLinear {
		props["draw:style"] = "linear"
		props["draw:angle"] = radToDeg(g.Angle + math.Pi/2)
		props["svg:linearGradient"] = stopList
	} else {
		props["draw:style"] = "radial"
		props["draw:cx"] = g.Center.X * 100
		props["draw:cy"] = g.Center.Y * 100
		dist := math.Hypot(g.Center.X-0.5, g.Center.Y-0.5)
		props["draw:border"] = (0.25 - dist) * 100
		props["svg:radialGradient"] = stopList
	}
	if transparency != nil {
		props["draw:opacity"] = transparency.Opacity() * 100
	}
}

func writeImageFill(props PropertyList, f model.ImageFill, transparency *model.Transparency) {
	props["draw:fill"] = "bitmap"
	props["draw:fill-image"] = f.Image.Data
	props["draw:fill-image-mime-type"] = "image/png"
	if f.Tile {
		props["style:repeat"] = "repeat"
		props["draw:fill-image-width"] = f.TileWidth
		props["draw:fill-image-height"] = f.TileHeight
		props["draw:fill-image-ref-point"] = "top-left"
	} else {
		props["style:repeat"] = "stretch"
	}
	if transparency != nil {
		props["draw:opacity"] = transparency.Opacity() * 100
	}
}

func writeShadow(props PropertyList, s model.Shadow) {
	props["draw:shadow"] = "visible"
	props["draw:shadow-color"] = s.Color.String()
	props["draw:shadow-opacity"] = s.Opacity * 100
	props["draw:shadow-offset-x"] = s.Offset.X
	props["draw:shadow-offset-y"] = s.Offset.Y
}

func writeBorder(pen *model.Pen) string {
	if pen == nil || pen.IsInvisible {
		return ""
	}
	return formatBorder(pen.Width, pen.Color)
}

func almostZero(v float64) bool { return math.Abs(v) < 1e-6 }

func radToDeg(rad float64) float64 { return rad * 180 / math.Pi }
