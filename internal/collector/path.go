package collector

import (
	"math"

	"github.com/zoner-draw/zmf/internal/model"
)

// calculateEllipsePoint is the shared polar-to-cartesian helper used by
// ellipses, arcs and polygon peak composition.
func calculateEllipsePoint(c model.Point, rx, ry, theta float64) model.Point {
	sin, cos := math.Sincos(theta)
	return model.Point{X: c.X + rx*cos, Y: c.Y + ry*sin}
}

// createPath builds the DrawPath action list from a set of curves, each
// component producing an M, zero or more L/C segments, and an optional Z.
func (c *ZMFCollector) createPath(curves []model.Curve) []PathAction {
	var actions []PathAction
	leftOffset, topOffset := c.pageSettings.LeftOffset, c.pageSettings.TopOffset

	for _, curve := range curves {
		if len(curve.Points) < 2 {
			continue
		}
		pi := 0
		first := curve.Points[0]
		actions = append(actions, PathAction{Action: "M", Points: []PropertyList{pointProps(first, leftOffset, topOffset)}})
		pi++

	sections:
		for _, section := range curve.SectionTypes {
			switch section {
			case model.SectionLine:
				if pi >= len(curve.Points) {
					break sections
				}
				actions = append(actions, PathAction{
					Action: "L",
					Points: []PropertyList{pointProps(curve.Points[pi], leftOffset, topOffset)},
				})
				pi++
			case model.SectionBezier:
				if pi+2 >= len(curve.Points) {
					break sections
				}
				actions = append(actions, PathAction{
					Action: "C",
					Points: []PropertyList{
						pointProps(curve.Points[pi], leftOffset, topOffset),
						pointProps(curve.Points[pi+1], leftOffset, topOffset),
						pointProps(curve.Points[pi+2], leftOffset, topOffset),
					},
				})
				pi += 3
			}
		}

		if curve.Closed {
			actions = append(actions, PathAction{Action: "Z"})
		}
	}
	return actions
}

func pointProps(p model.Point, leftOffset, topOffset float64) PropertyList {
	return PropertyList{"svg:x": p.X - leftOffset, "svg:y": p.Y - topOffset}
}

// CollectPath emits a solid/outline path. The fill is suppressed whenever
// none of the curves are closed, so open strokes are never filled.
func (c *ZMFCollector) CollectPath(curves []model.Curve) {
	noFill := true
	for _, curve := range curves {
		if curve.Closed {
			noFill = false
			break
		}
	}
	props := PropertyList{}
	c.writeStyle(props, noFill)
	c.sink.SetStyle(props)
	c.sink.DrawPath(c.createPath(curves))
}

// CollectEllipse emits a full ellipse. Its rotation is negated relative to
// every other rotated draw call - reproduced exactly, not unified.
func (c *ZMFCollector) CollectEllipse(center model.Point, rx, ry, rotation float64) {
	props := PropertyList{}
	c.writeStyle(props, false)
	c.sink.SetStyle(props)

	ellipseProps := PropertyList{
		"svg:cx": c.pageX(center.X),
		"svg:cy": c.pageY(center.Y),
		"svg:rx": rx,
		"svg:ry": ry,
	}
	if !almostZero(rotation) {
		ellipseProps["librevenge:rotate"] = -radToDeg(rotation)
	}
	c.sink.DrawGraphicObject(ellipseProps)
}

// CollectArc emits an arc, or a pie slice when closed.
func (c *ZMFCollector) CollectArc(center model.Point, rx, ry, beginAngle, endAngle float64, closed bool, rotation float64) {
	props := PropertyList{}
	c.writeStyle(props, !closed)
	c.sink.SetStyle(props)

	begin := calculateEllipsePoint(center, rx, ry, beginAngle)
	end := calculateEllipsePoint(center, rx, ry, endAngle)
	if !almostZero(rotation) {
		begin = begin.Rotate(rotation, center)
		end = end.Rotate(rotation, center)
	}

	diff := endAngle - beginAngle
	largeArc := (beginAngle < endAngle && math.Abs(diff) > math.Pi) ||
		(beginAngle > endAngle && math.Abs(diff) < math.Pi)

	actions := []PathAction{
		{Action: "M", Points: []PropertyList{pointProps(begin, c.pageSettings.LeftOffset, c.pageSettings.TopOffset)}},
		{Action: "A", Points: []PropertyList{{
			"svg:rx":                rx,
			"svg:ry":                ry,
			"librevenge:large-arc":  largeArc,
			"librevenge:sweep":      true,
			"svg:x":                 c.pageX(end.X),
			"svg:y":                 c.pageY(end.Y),
		}}},
	}
	if closed {
		actions = append(actions,
			PathAction{Action: "L", Points: []PropertyList{pointProps(center, c.pageSettings.LeftOffset, c.pageSettings.TopOffset)}},
			PathAction{Action: "Z"},
		)
	}
	c.sink.DrawPath(actions)
}

// CollectPolygon composes a regular polygon from one repeating "peak"
// curve, rotated and concatenated peaksCount times, then scaled,
// translated, reflected, optionally mirrored and finally rotated -
// reproducing the source's exact order of operations.
func (c *ZMFCollector) CollectPolygon(center model.Point, rx, ry float64, peaksCount int, peak model.Curve, rotation float64, mirrorHorizontal, mirrorVertical bool) {
	if len(peak.Points) < 2 {
		return
	}
	peakAngle := 2 * math.Pi / float64(peaksCount)

	// Map each unscaled peak point (x, y) onto a unit-circle "side":
	// calculateEllipsePoint((0,0), p.Y, p.Y, p.X*peakAngle) - the point's
	// own Y is used as both radii, X*peakAngle as the angle.
	side := make([]model.Point, len(peak.Points))
	for i, p := range peak.Points {
		side[i] = calculateEllipsePoint(model.Point{}, p.Y, p.Y, p.X*peakAngle)
	}

	var full []model.Point
	for i := 0; i < peaksCount; i++ {
		angle := float64(i) * peakAngle
		start := 0
		if i > 0 {
			start = 1
		}
		for _, p := range side[start:] {
			full = append(full, p.Rotate(angle, model.Point{}))
		}
	}

	for i, p := range full {
		p.X *= rx
		p.Y *= ry
		p = p.Move(center.X, center.Y)
		p.Y = -p.Y
		p = p.Move(0, 2*center.Y)
		if mirrorHorizontal {
			p.X = -p.X
			p = p.Move(2*center.X, 0)
		}
		if mirrorVertical {
			p.Y = -p.Y
			p = p.Move(0, 2*center.Y)
		}
		full[i] = p.Rotate(rotation, center)
	}

	var sectionTypes []model.CurveSectionType
	for i := 0; i < peaksCount; i++ {
		sectionTypes = append(sectionTypes, peak.SectionTypes...)
	}

	c.CollectPath([]model.Curve{{Points: full, SectionTypes: sectionTypes, Closed: true}})
}
