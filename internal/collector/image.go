package collector

import "github.com/zoner-draw/zmf/internal/model"

// CollectImage emits a raster image. Mirror flags are always present in
// the property bag, even when false, matching the source.
func (c *ZMFCollector) CollectImage(img model.Image, topLeft model.Point, width, height, rotation float64, mirrorHorizontal, mirrorVertical bool) {
	props := PropertyList{}
	c.writeStyle(props, false)
	if c.style.Transparency != nil {
		props["draw:opacity"] = c.style.Transparency.Opacity() * 100
	}
	c.sink.SetStyle(props)

	imgProps := PropertyList{
		"svg:x":                 c.pageX(topLeft.X),
		"svg:y":                 c.pageY(topLeft.Y),
		"svg:width":             width,
		"svg:height":            height,
		"draw:mirror-vertical":  mirrorVertical,
		"draw:mirror-horizontal": mirrorHorizontal,
		"librevenge:mime-type":  "image/png",
		"office:binary-data":    img.Data,
	}
	if !almostZero(rotation) {
		imgProps["librevenge:rotate"] = radToDeg(rotation)
	}
	c.sink.DrawGraphicObject(imgProps)
}
