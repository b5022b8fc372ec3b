package zoner4

import (
	"github.com/bits-and-blooms/bitset"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/zoner-draw/zmf/internal/bmi"
	"github.com/zoner-draw/zmf/internal/model"
	"github.com/zoner-draw/zmf/internal/streamio"
)

// readFill reads a FILL object: a one-byte kind tag followed by a
// kind-specific body, storing the result under the object's id.
func (p *Parser) readFill(h ObjectHeader) error {
	kind, err := p.r.ReadU8()
	if err != nil {
		return err
	}

	var fill model.Fill
	switch kind {
	case 0:
		color, err := readColor(p.r)
		if err != nil {
			return err
		}
		fill = color
	case 1:
		gradient, err := p.readGradientBody()
		if err != nil {
			return err
		}
		fill = gradient
	case 2:
		imageFill, err := p.readImageFillBody(h)
		if err != nil {
			return err
		}
		fill = imageFill
	default:
		return streamio.NewGeneric("zoner4: unknown fill kind")
	}

	if h.HasID {
		p.fills[h.ID] = fill
	}
	return nil
}

func (p *Parser) readGradientBody() (model.Gradient, error) {
	rawType, err := p.r.ReadU8()
	if err != nil {
		return model.Gradient{}, err
	}
	angle, err := p.r.ReadF32()
	if err != nil {
		return model.Gradient{}, err
	}
	cx, err := p.r.ReadF32()
	if err != nil {
		return model.Gradient{}, err
	}
	cy, err := p.r.ReadF32()
	if err != nil {
		return model.Gradient{}, err
	}
	stopCount, err := p.r.ReadU8()
	if err != nil {
		return model.Gradient{}, err
	}

	g := model.NewGradient(parseGradientType(rawType))
	g.Angle = float64(angle)
	g.Center = model.Point{X: float64(cx), Y: float64(cy)}
	g.Stops = make([]model.GradientStop, stopCount)
	for i := range g.Stops {
		offset, err := p.r.ReadF32()
		if err != nil {
			return model.Gradient{}, err
		}
		color, err := readColor(p.r)
		if err != nil {
			return model.Gradient{}, err
		}
		g.Stops[i] = model.GradientStop{Offset: float64(offset), Color: color}
	}
	return g, nil
}

func parseGradientType(raw uint8) model.GradientType {
	switch raw {
	case 2:
		return model.GradientLinear
	case 3:
		return model.GradientRadial
	case 4:
		return model.GradientConical
	case 5:
		return model.GradientCross
	case 6:
		return model.GradientRectangular
	default:
		return model.GradientFlexible
	}
}

// readImageFillBody reads 4 unknown bytes, a u32 tile flag and the u32
// tile width/height in micrometers, and resolves the referenced BITMAP
// object (tag 0) already collected into p.images.
func (p *Parser) readImageFillBody(h ObjectHeader) (model.ImageFill, error) {
	if err := p.r.Skip(4); err != nil {
		return model.ImageFill{}, err
	}
	tile, err := p.r.ReadU32()
	if err != nil {
		return model.ImageFill{}, err
	}
	tileWidth, err := p.r.ReadU32()
	if err != nil {
		return model.ImageFill{}, err
	}
	tileHeight, err := p.r.ReadU32()
	if err != nil {
		return model.ImageFill{}, err
	}

	refs, err := readObjectRefs(p.r, h)
	if err != nil {
		return model.ImageFill{}, err
	}
	var img model.Image
	for _, ref := range refs {
		if ref.Tag == 0 {
			if found, ok := p.images[ref.ID]; ok {
				img = found
			}
		}
	}

	return model.ImageFill{
		Image:      img,
		Tile:       tile != 0,
		TileWidth:  um2in(float64(tileWidth)),
		TileHeight: um2in(float64(tileHeight)),
	}, nil
}

// readTransparency reads a TRANSPARENCY object: 8 unknown bytes and a u32
// type; for type 1, 8 more unknown bytes and an RGB color whose red
// channel encodes opacity. Objects of any other type are not registered.
func (p *Parser) readTransparency(h ObjectHeader) error {
	if err := p.r.Skip(8); err != nil {
		return err
	}
	typ, err := p.r.ReadU32()
	if err != nil {
		return err
	}
	if typ != 1 {
		return nil
	}
	if err := p.r.Skip(8); err != nil {
		return err
	}
	color, err := readColor(p.r)
	if err != nil {
		return err
	}
	if h.HasID {
		p.transparencies[h.ID] = model.Transparency{Color: color}
	}
	return nil
}

// readPen reads a PEN object: color, width, cap/join, a bitset-encoded
// dash cycle, and start/end arrow references.
func (p *Parser) readPen(h ObjectHeader) error {
	color, err := readColor(p.r)
	if err != nil {
		return err
	}
	width, err := p.r.ReadF32()
	if err != nil {
		return err
	}
	capRaw, err := p.r.ReadU8()
	if err != nil {
		return err
	}
	joinRaw, err := p.r.ReadU8()
	if err != nil {
		return err
	}
	dashBits, err := p.r.ReadU16()
	if err != nil {
		return err
	}
	dashUnit, err := p.r.ReadF32()
	if err != nil {
		return err
	}
	invisible, err := p.r.ReadU8()
	if err != nil {
		return err
	}

	refs, err := readObjectRefs(p.r, h)
	if err != nil {
		return err
	}

	pen := model.Pen{
		Color:       color,
		Width:       float64(width),
		Cap:         parseLineCap(capRaw),
		Join:        parseLineJoin(joinRaw),
		DashPattern: dashRunsToPattern(dashBits, float64(dashUnit)),
		IsInvisible: invisible != 0,
	}
	if len(pen.DashPattern) >= 3 {
		pen.DashDistance = pen.DashPattern[1]
	}
	for _, ref := range refs {
		arrow, ok := p.arrows[ref.ID]
		if !ok {
			continue
		}
		switch ref.Tag {
		case 0:
			pen.StartArrow = arrow
		case 1:
			pen.EndArrow = arrow
		}
	}

	if h.HasID {
		p.pens[h.ID] = pen
	}
	return nil
}

func parseLineCap(raw uint8) model.LineCapType {
	switch raw {
	case 1:
		return model.LineCapFlat
	case 2:
		return model.LineCapRound
	case 3:
		return model.LineCapPointed
	default:
		return model.LineCapButt
	}
}

func parseLineJoin(raw uint8) model.LineJoinType {
	switch raw {
	case 0:
		return model.LineJoinMiter
	case 1:
		return model.LineJoinRound
	case 2:
		return model.LineJoinBevel
	default:
		return model.LineJoinMiter
	}
}

// dashRunsToPattern decodes a 16-bit on/off dash cycle into a run-length
// pattern, each run scaled by unit. A bitset.BitSet carries the mask so
// the run boundaries are found via Test rather than raw shifting.
func dashRunsToPattern(bits uint16, unit float64) []float64 {
	bs := bitset.New(16)
	for i := uint(0); i < 16; i++ {
		if bits&(1<<i) != 0 {
			bs.Set(i)
		}
	}
	if bs.None() {
		return nil
	}

	var pattern []float64
	runVal := bs.Test(0)
	runLen := uint(1)
	for i := uint(1); i < 16; i++ {
		if bs.Test(i) == runVal {
			runLen++
			continue
		}
		pattern = append(pattern, float64(runLen)*unit)
		runVal = bs.Test(i)
		runLen = 1
	}
	pattern = append(pattern, float64(runLen)*unit)
	return pattern
}

// readShadow reads a SHADOW object: offset, angle, opacity and color.
func (p *Parser) readShadow(h ObjectHeader) error {
	offsetX, err := p.r.ReadF32()
	if err != nil {
		return err
	}
	offsetY, err := p.r.ReadF32()
	if err != nil {
		return err
	}
	angle, err := p.r.ReadF32()
	if err != nil {
		return err
	}
	opacity, err := p.r.ReadF32()
	if err != nil {
		return err
	}
	color, err := readColor(p.r)
	if err != nil {
		return err
	}

	if h.HasID {
		p.shadows[h.ID] = model.Shadow{
			Offset:  model.Point{X: float64(offsetX), Y: float64(offsetY)},
			Angle:   float64(angle),
			Opacity: float64(opacity),
			Color:   color,
		}
	}
	return nil
}

// readArrow reads an ARROW object: 4 unknown bytes, the x-offset its line
// end is drawn back from, 12 unknown bytes, then its marker curve family
// (in the pen's own unscaled coordinate space).
func (p *Parser) readArrow(h ObjectHeader) error {
	if err := p.r.Skip(4); err != nil {
		return err
	}
	lineEndX, err := p.r.ReadF32()
	if err != nil {
		return err
	}
	if err := p.r.Skip(12); err != nil {
		return err
	}
	curves, err := readCurveComponents(p.r, readUnscaledPoint, p.log)
	if err != nil {
		return err
	}
	if h.HasID {
		p.arrows[h.ID] = &model.Arrow{Curves: curves, LineEndX: float64(lineEndX)}
	}
	return nil
}

var win1252Decoder = charmap.Windows1252.NewDecoder()

// readFont reads a FONT object: a Windows-1252 name, size, bold/italic
// flags, and fill/outline references.
func (p *Parser) readFont(h ObjectHeader) error {
	nameLen, err := p.r.ReadU16()
	if err != nil {
		return err
	}
	rawName, err := p.r.ReadN(int(nameLen))
	if err != nil {
		return err
	}
	name, err := win1252Decoder.String(string(rawName))
	if err != nil {
		name = string(rawName)
	}

	size, err := p.r.ReadF32()
	if err != nil {
		return err
	}
	bold, err := p.r.ReadU8()
	if err != nil {
		return err
	}
	italic, err := p.r.ReadU8()
	if err != nil {
		return err
	}

	refs, err := readObjectRefs(p.r, h)
	if err != nil {
		return err
	}

	font := model.Font{Name: name, Size: float64(size), IsBold: bold != 0, IsItalic: italic != 0}
	for _, ref := range refs {
		switch ref.Tag {
		case 1:
			if fill, ok := p.fills[ref.ID]; ok {
				font.Fill = fill
			}
		case 2:
			if pen, ok := p.pens[ref.ID]; ok {
				penCopy := pen
				font.Outline = &penCopy
			}
		}
	}

	if h.HasID {
		p.fonts[h.ID] = font
	}
	return nil
}

// readParagraphStyle reads a PARAGRAPH object: 4 unknown bytes, an
// alignment byte, 3 unknown bytes, line spacing, and a reference to its
// default font.
func (p *Parser) readParagraphStyle(h ObjectHeader) error {
	if err := p.r.Skip(4); err != nil {
		return err
	}
	alignRaw, err := p.r.ReadU8()
	if err != nil {
		return err
	}
	if err := p.r.Skip(3); err != nil {
		return err
	}
	lineSpacing, err := p.r.ReadF32()
	if err != nil {
		return err
	}

	refs, err := readObjectRefs(p.r, h)
	if err != nil {
		return err
	}

	style := model.NewParagraphStyle()
	style.LineSpacing = float64(lineSpacing)
	style.Alignment = parseAlignment(alignRaw)
	for _, ref := range refs {
		if ref.Tag == 1 {
			if font, ok := p.fonts[ref.ID]; ok {
				style.Font = font
			}
		}
	}

	if h.HasID {
		p.paragraphStyles[h.ID] = style
	}
	return nil
}

func parseAlignment(raw uint8) model.HorizontalAlignment {
	switch raw {
	case 1:
		return model.AlignRight
	case 2:
		return model.AlignBlock
	case 3:
		return model.AlignCenter
	case 4:
		return model.AlignFull
	default:
		return model.AlignLeft
	}
}

var utf16leDecoder = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()

// readText reads a TEXT object: a sequence of paragraphs, each a
// paragraph-style reference plus a sequence of font-referenced,
// UTF-16LE-encoded spans. A paragraph count of 0 or over 1000, or a span
// count over 1000, is rejected.
func (p *Parser) readText(h ObjectHeader) error {
	paragraphCount, err := p.r.ReadU32()
	if err != nil {
		return err
	}
	if paragraphCount == 0 || paragraphCount > 1000 {
		return streamio.NewGeneric("zoner4: text paragraph count out of range")
	}

	var text model.Text
	for i := uint32(0); i < paragraphCount; i++ {
		styleID, err := p.r.ReadU32()
		if err != nil {
			return err
		}
		spanCount, err := p.r.ReadU32()
		if err != nil {
			return err
		}
		if spanCount > 1000 {
			return streamio.NewGeneric("zoner4: text span count out of range")
		}

		paragraph := model.Paragraph{Style: model.NewParagraphStyle()}
		if style, ok := p.paragraphStyles[styleID]; ok {
			paragraph.Style = style
		}

		for j := uint32(0); j < spanCount; j++ {
			fontID, err := p.r.ReadU32()
			if err != nil {
				return err
			}
			length, err := p.r.ReadU16()
			if err != nil {
				return err
			}
			raw, err := p.r.ReadN(int(length) * 2)
			if err != nil {
				return err
			}
			decoded, err := utf16leDecoder.String(string(raw))
			if err != nil {
				return err
			}

			span := model.Span{Text: decoded, Length: int(length), Font: model.NewFont()}
			if font, ok := p.fonts[fontID]; ok {
				span.Font = font
			}
			paragraph.Spans = append(paragraph.Spans, span)
		}
		text.Paragraphs = append(text.Paragraphs, paragraph)
	}

	if h.HasID {
		p.texts[h.ID] = text
	}
	return nil
}

// readBitmap reads a BITMAP object: 4 unknown bytes and a u32 hasData
// flag. When the flag is set, an embedded BMI stream starts at the
// object's NextObjectOffset. Unlike every other object type, BITMAP does
// not trust its own declared size to find the next object - the BMI
// header's own END_OF_FILE offset does, so the layer loop skips its usual
// NextObjectOffset seek for this type.
func (p *Parser) readBitmap(h ObjectHeader) error {
	if err := p.r.Skip(4); err != nil {
		return err
	}
	hasData, err := p.r.ReadU32()
	if err != nil {
		return err
	}
	if err := p.r.Seek(h.NextObjectOffset); err != nil || hasData == 0 {
		return err
	}
	img, header, err := bmi.NewParser(p.r, p.log).ReadImage()
	if err != nil {
		return err
	}
	if img != nil && h.HasID {
		p.images[h.ID] = *img
	}
	return p.r.Seek(header.StartOffset + header.Size)
}
