package zoner4

import (
	"github.com/zoner-draw/zmf/internal/model"
	"github.com/zoner-draw/zmf/internal/streamio"
)

// readRectangle reads a RECTANGLE object: a bounding box drawn as a closed
// four-point path.
func (p *Parser) readRectangle(h ObjectHeader) error {
	bbox, err := readBoundingBox(p.r)
	if err != nil {
		return err
	}
	style, err := p.readStyle(h)
	if err != nil {
		return err
	}
	p.collector.SetStyle(style)

	pts := bbox.Points()
	curve := model.Curve{
		Points:       pts[:],
		SectionTypes: []model.CurveSectionType{model.SectionLine, model.SectionLine, model.SectionLine},
		Closed:       true,
	}
	p.collector.CollectPath([]model.Curve{curve})
	return nil
}

// readEllipse reads an ELLIPSE object: a bounding box plus an optional
// arc flag. When the arc flag is set, a begin/end angle pair and a closed
// flag follow, and the object is emitted as an arc or pie slice instead
// of a full ellipse.
func (p *Parser) readEllipse(h ObjectHeader) error {
	bbox, err := readBoundingBox(p.r)
	if err != nil {
		return err
	}
	isArc, err := p.r.ReadU8()
	if err != nil {
		return err
	}

	var beginAngle, endAngle float64
	var closed bool
	if isArc != 0 {
		begin, err := p.r.ReadF32()
		if err != nil {
			return err
		}
		end, err := p.r.ReadF32()
		if err != nil {
			return err
		}
		closedFlag, err := p.r.ReadU8()
		if err != nil {
			return err
		}
		beginAngle, endAngle, closed = float64(begin), float64(end), closedFlag != 0
	}

	style, err := p.readStyle(h)
	if err != nil {
		return err
	}
	p.collector.SetStyle(style)

	center := bbox.Center()
	rx, ry := bbox.Width()/2, bbox.Height()/2
	if isArc != 0 {
		p.collector.CollectArc(center, rx, ry, beginAngle, endAngle, closed, bbox.Rotation())
	} else {
		p.collector.CollectEllipse(center, rx, ry, bbox.Rotation())
	}
	return nil
}

// readPolygon reads a POLYGON object: a bounding box, a peak count, and
// the single repeating peak curve the collector expands into the full
// regular polygon. A polygon whose peak count is outside [1, 99] is
// skipped without emitting anything.
func (p *Parser) readPolygon(h ObjectHeader) error {
	bbox, err := readBoundingBox(p.r)
	if err != nil {
		return err
	}
	peaksCount, err := p.r.ReadU32()
	if err != nil {
		return err
	}
	if peaksCount < 1 || peaksCount > 99 {
		return nil
	}
	peaks, err := readCurveComponents(p.r, readUnscaledPoint, p.log)
	if err != nil {
		return err
	}

	style, err := p.readStyle(h)
	if err != nil {
		return err
	}
	p.collector.SetStyle(style)

	var peak model.Curve
	if len(peaks) > 0 {
		peak = peaks[0]
	}
	center := bbox.Center()
	rx, ry := bbox.Width()/2, bbox.Height()/2
	p.collector.CollectPolygon(center, rx, ry, int(peaksCount), peak, bbox.Rotation(), bbox.MirrorHorizontal(), bbox.MirrorVertical())
	return nil
}

// readCurve reads a CURVE object: 52 unknown bytes, then a free-form
// curve-component list in document-space (already-scaled) points.
func (p *Parser) readCurve(h ObjectHeader) error {
	if err := p.r.Skip(52); err != nil {
		return err
	}
	curves, err := readCurveComponents(p.r, readPoint, p.log)
	if err != nil {
		return err
	}
	style, err := p.readStyle(h)
	if err != nil {
		return err
	}
	p.collector.SetStyle(style)
	p.collector.CollectPath(curves)
	return nil
}

// readImageObject reads an IMAGE object: a bounding box plus a reference
// (tag 5) to a previously-collected BITMAP image.
func (p *Parser) readImageObject(h ObjectHeader) error {
	bbox, err := readBoundingBox(p.r)
	if err != nil {
		return err
	}
	style, err := p.readStyle(h)
	if err != nil {
		return err
	}

	refs, err := readObjectRefs(p.r, h)
	if err != nil {
		return err
	}
	var img model.Image
	for _, ref := range refs {
		// Tag 5 carries the image reference; tags 1-4 are the shared
		// style tags already consumed by readStyle above.
		if ref.Tag == 5 {
			if found, ok := p.images[ref.ID]; ok {
				img = found
			}
		}
	}

	p.collector.SetStyle(style)
	p.collector.CollectImage(img, bbox.TopLeft(), bbox.Width(), bbox.Height(), bbox.Rotation(), bbox.MirrorHorizontal(), bbox.MirrorVertical())
	return nil
}

// readTextFrame reads a TEXT_FRAME object: a bounding box, a vertical
// alignment flag byte, and a reference (tag 6) to a previously-collected
// TEXT object.
func (p *Parser) readTextFrame(h ObjectHeader) error {
	bbox, err := readBoundingBox(p.r)
	if err != nil {
		return err
	}
	alignRaw, err := p.r.ReadU8()
	if err != nil {
		return err
	}

	refs, err := readObjectRefs(p.r, h)
	if err != nil {
		return err
	}
	var text model.Text
	for _, ref := range refs {
		if ref.Tag == 6 {
			if found, ok := p.texts[ref.ID]; ok {
				text = found
			}
		}
	}

	p.collector.CollectTextObject(text, bbox.TopLeft(), bbox.Width(), bbox.Height(), parseVerticalAlignment(alignRaw), bbox.Rotation())
	return nil
}

// parseVerticalAlignment maps bit 4 to Middle and bit 5 to Bottom; Middle
// is checked first, so it wins when both bits are set.
func parseVerticalAlignment(raw uint8) model.VerticalAlignment {
	switch {
	case raw&(1<<4) != 0:
		return model.AlignMiddle
	case raw&(1<<5) != 0:
		return model.AlignBottom
	default:
		return model.AlignTop
	}
}

// readTable reads a TABLE object: a bounding box, column widths, and then
// each row's height and cells (an optional fill color, four border-pen
// ids and a text id). Column and row counts outside [1, 100] are rejected.
func (p *Parser) readTable(h ObjectHeader) error {
	bbox, err := readBoundingBox(p.r)
	if err != nil {
		return err
	}

	columnCount, err := p.r.ReadU32()
	if err != nil {
		return err
	}
	if columnCount < 1 || columnCount > 100 {
		return streamio.NewGeneric("zoner4: table column count out of range")
	}
	columns := make([]model.Column, columnCount)
	for i := range columns {
		w, err := p.r.ReadF32()
		if err != nil {
			return err
		}
		columns[i] = model.Column{Width: float64(w)}
	}

	rowCount, err := p.r.ReadU32()
	if err != nil {
		return err
	}
	if rowCount < 1 || rowCount > 100 {
		return streamio.NewGeneric("zoner4: table row count out of range")
	}
	rows := make([]model.Row, rowCount)
	for i := range rows {
		height, err := p.r.ReadF32()
		if err != nil {
			return err
		}
		cells := make([]model.Cell, columnCount)
		for j := range cells {
			cell, err := p.readTableCell()
			if err != nil {
				return err
			}
			cells[j] = cell
		}
		rows[i] = model.Row{Cells: cells, Height: float64(height)}
	}

	p.collector.CollectTable(model.Table{
		Rows:         rows,
		Columns:      columns,
		Width:        bbox.Width(),
		Height:       bbox.Height(),
		TopLeftPoint: bbox.TopLeft(),
	})
	return nil
}

func (p *Parser) readTableCell() (model.Cell, error) {
	fillPresent, err := p.r.ReadU8()
	if err != nil {
		return model.Cell{}, err
	}
	var fill model.Fill
	if fillPresent != 0 {
		color, err := readColor(p.r)
		if err != nil {
			return model.Cell{}, err
		}
		fill = color
	}

	leftID, err := p.r.ReadU32()
	if err != nil {
		return model.Cell{}, err
	}
	rightID, err := p.r.ReadU32()
	if err != nil {
		return model.Cell{}, err
	}
	topID, err := p.r.ReadU32()
	if err != nil {
		return model.Cell{}, err
	}
	bottomID, err := p.r.ReadU32()
	if err != nil {
		return model.Cell{}, err
	}
	textID, err := p.r.ReadU32()
	if err != nil {
		return model.Cell{}, err
	}

	cell := model.Cell{Fill: fill}
	cell.LeftBorder = p.borderPen(leftID)
	cell.RightBorder = p.borderPen(rightID)
	cell.TopBorder = p.borderPen(topID)
	cell.BottomBorder = p.borderPen(bottomID)
	if text, ok := p.texts[textID]; ok {
		cell.Text = text
	}
	return cell, nil
}

func (p *Parser) borderPen(id uint32) *model.Pen {
	pen, ok := p.pens[id]
	if !ok {
		return nil
	}
	penCopy := pen
	return &penCopy
}
