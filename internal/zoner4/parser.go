package zoner4

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/zoner-draw/zmf/internal/collector"
	"github.com/zoner-draw/zmf/internal/model"
	"github.com/zoner-draw/zmf/internal/streamio"
)

// Options configures a Parser. The zero value is valid: it defaults to the
// package logger and a freshly generated trace id.
type Options struct {
	Logger logrus.FieldLogger
}

// Parser walks the Zoner-4 object chain, maintaining per-id dictionaries
// of styling objects and driving a collector.Collector as drawing objects
// are encountered.
type Parser struct {
	r         *streamio.Reader
	collector collector.Collector
	log       logrus.FieldLogger

	fills           map[uint32]model.Fill
	transparencies  map[uint32]model.Transparency
	pens            map[uint32]model.Pen
	shadows         map[uint32]model.Shadow
	arrows          map[uint32]*model.Arrow
	images          map[uint32]model.Image
	fonts           map[uint32]model.Font
	paragraphStyles map[uint32]model.ParagraphStyle
	texts           map[uint32]model.Text

	currentObjectHeader ObjectHeader
	pageSettings        model.PageSettings
	pageNumber          int
}

// NewParser builds a Parser over r driving collector c, pre-seeding the
// two Zoner-4 defaults: fill id 0x3 (solid black) and pen id 0x1
// (invisible white, used as a no-op border).
func NewParser(r *streamio.Reader, c collector.Collector, opts Options) *Parser {
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	traceID := uuid.New()
	log = log.WithField("parse_id", traceID.String())

	return &Parser{
		r:         r,
		collector: c,
		log:       log,

		fills:           map[uint32]model.Fill{0x3: model.Color{R: 0, G: 0, B: 0}},
		transparencies:  map[uint32]model.Transparency{},
		pens:            map[uint32]model.Pen{0x1: model.NewInvisiblePen(model.Color{R: 255, G: 255, B: 255})},
		shadows:         map[uint32]model.Shadow{},
		arrows:          map[uint32]*model.Arrow{},
		images:          map[uint32]model.Image{},
		fonts:           map[uint32]model.Font{},
		paragraphStyles: map[uint32]model.ParagraphStyle{},
		texts:           map[uint32]model.Text{},
	}
}

// Parse drives the whole document: file header, optional preview bitmap,
// document settings, then pages until end of stream.
func (p *Parser) Parse() (bool, error) {
	length := p.r.Length()

	header, err := Load(p.r)
	if err != nil {
		return false, err
	}

	p.collector.StartDocument()

	if header.StartBitmapOffset > 0 {
		if err := p.r.Seek(int64(header.StartBitmapOffset)); err != nil {
			return false, err
		}
		if err := p.readPreviewBitmap(); err != nil {
			return false, err
		}
	} else {
		if err := p.r.Seek(int64(header.StartContentOffset)); err != nil {
			return false, err
		}
	}

	if err := p.readDocumentSettings(length); err != nil {
		return false, err
	}

	for !p.r.IsEnd() {
		if err := p.readPage(length); err != nil {
			return false, err
		}
	}

	p.collector.EndDocument()
	return true, nil
}

// readPreviewBitmap skips the optional preview bitmap block entirely: a
// u16 unknown field, then a u32 size, then size-2-4 bytes of bitmap data.
func (p *Parser) readPreviewBitmap() error {
	if err := p.r.Skip(2); err != nil {
		return err
	}
	size, err := p.r.ReadU32()
	if err != nil {
		return err
	}
	return p.r.Skip(int64(size) - 2 - 4)
}

// readDocumentSettings reads the required first object: background color,
// page width/height (micrometers to inches) and left/top offsets.
func (p *Parser) readDocumentSettings(inputLength int64) error {
	header, err := readObjectHeader(p.r, inputLength)
	if err != nil {
		return err
	}
	if header.Type != ObjectDocumentSettings {
		return streamio.NewGeneric("zoner4: expected DOCUMENT_SETTINGS as first object")
	}

	if err := p.r.Skip(32); err != nil {
		return err
	}
	color, err := readColor(p.r)
	if err != nil {
		return err
	}
	if err := p.r.Skip(5); err != nil {
		return err
	}
	width, err := p.r.ReadU32()
	if err != nil {
		return err
	}
	height, err := p.r.ReadU32()
	if err != nil {
		return err
	}
	if err := p.r.Skip(68); err != nil {
		return err
	}
	left, err := p.r.ReadU32()
	if err != nil {
		return err
	}
	top, err := p.r.ReadU32()
	if err != nil {
		return err
	}

	p.pageSettings = model.PageSettings{
		Width:      um2in(float64(width)),
		Height:     um2in(float64(height)),
		LeftOffset: um2in(float64(left)),
		TopOffset:  um2in(float64(top)),
		Color:      color,
	}
	return p.r.Seek(header.NextObjectOffset)
}

// readPage skips leading COLOR_PALETTE objects, requires a PAGE_START, and
// - for the first ("master") page only - discards its entire body by
// skipping straight to the next PAGE_START. Every page after that is
// processed object by object until PAGE_END.
func (p *Parser) readPage(inputLength int64) error {
	var header ObjectHeader
	for {
		h, err := readObjectHeader(p.r, inputLength)
		if err != nil {
			return err
		}
		if h.Type == ObjectColorPalette {
			if err := p.r.Seek(h.NextObjectOffset); err != nil {
				return err
			}
			continue
		}
		if h.Type != ObjectPageStart {
			return streamio.NewGeneric("zoner4: expected PAGE_START")
		}
		header = h
		break
	}

	p.pageNumber++
	if p.pageNumber == 1 {
		// Master page: discard entirely by advancing until the next
		// PAGE_START, re-reading headers as we go.
		for {
			if err := p.r.Seek(header.NextObjectOffset); err != nil {
				return err
			}
			h, err := readObjectHeader(p.r, inputLength)
			if err != nil {
				return err
			}
			if h.Type == ObjectPageStart {
				header = h
				break
			}
		}
	}

	p.collector.StartPage(p.pageSettings)
	if err := p.r.Seek(header.NextObjectOffset); err != nil {
		return err
	}

	for {
		h, err := readObjectHeader(p.r, inputLength)
		if err != nil {
			return err
		}
		switch h.Type {
		case ObjectGuidelines:
			if err := p.r.Seek(h.NextObjectOffset); err != nil {
				return err
			}
		case ObjectPageEnd:
			p.collector.EndPage()
			if !p.r.IsEnd() {
				if err := p.r.Seek(h.NextObjectOffset); err != nil {
					return err
				}
			}
			return nil
		case ObjectLayerStart:
			if err := p.readLayer(h, inputLength); err != nil {
				return err
			}
		default:
			return streamio.NewGeneric("zoner4: unexpected object in page")
		}
	}
}

// readLayer dispatches each object inside a layer to its type-specific
// reader. Every object except BITMAP (which advances itself past its BMI
// payload) is followed by a seek to its NextObjectOffset.
func (p *Parser) readLayer(startHeader ObjectHeader, inputLength int64) error {
	if startHeader.Type != ObjectLayerStart {
		return streamio.NewGeneric("zoner4: expected LAYER_START")
	}
	p.collector.StartLayer()
	if err := p.r.Seek(startHeader.NextObjectOffset); err != nil {
		return err
	}

	for {
		h, err := readObjectHeader(p.r, inputLength)
		if err != nil {
			return err
		}
		p.currentObjectHeader = h

		switch h.Type {
		case ObjectLayerEnd:
			p.collector.EndLayer()
			return p.r.Seek(h.NextObjectOffset)
		case ObjectFill:
			err = p.readFill(h)
		case ObjectTransparency:
			err = p.readTransparency(h)
		case ObjectPen:
			err = p.readPen(h)
		case ObjectShadow:
			err = p.readShadow(h)
		case ObjectArrow:
			err = p.readArrow(h)
		case ObjectFont:
			err = p.readFont(h)
		case ObjectParagraph:
			err = p.readParagraphStyle(h)
		case ObjectText:
			err = p.readText(h)
		case ObjectBitmap:
			err = p.readBitmap(h)
		case ObjectRectangle:
			err = p.readRectangle(h)
		case ObjectEllipse:
			err = p.readEllipse(h)
		case ObjectPolygon:
			err = p.readPolygon(h)
		case ObjectCurve:
			err = p.readCurve(h)
		case ObjectImage:
			err = p.readImageObject(h)
		case ObjectTextFrame:
			err = p.readTextFrame(h)
		case ObjectTable:
			err = p.readTable(h)
		case ObjectGroupStart:
			p.collector.StartGroup()
		case ObjectGroupEnd:
			p.collector.EndGroup()
		default:
			// unknown object type: silently skipped below
		}
		if err != nil {
			return err
		}

		if h.Type != ObjectBitmap {
			if err := p.r.Seek(h.NextObjectOffset); err != nil {
				return err
			}
		}
	}
}

// readStyle reads the current object's reference list and resolves each
// tag into the corresponding style component: 1=fill, 2=pen, 3=shadow,
// 4=transparency.
func (p *Parser) readStyle(h ObjectHeader) (model.Style, error) {
	refs, err := readObjectRefs(p.r, h)
	if err != nil {
		return model.Style{}, err
	}
	var style model.Style
	for _, ref := range refs {
		switch ref.Tag {
		case 1:
			if fill, ok := p.fills[ref.ID]; ok {
				style.Fill = fill
			}
		case 2:
			if pen, ok := p.pens[ref.ID]; ok {
				penCopy := pen
				style.Pen = &penCopy
			}
		case 3:
			if shadow, ok := p.shadows[ref.ID]; ok {
				shadowCopy := shadow
				style.Shadow = &shadowCopy
			}
		case 4:
			if transparency, ok := p.transparencies[ref.ID]; ok {
				transparencyCopy := transparency
				style.Transparency = &transparencyCopy
			}
		}
	}
	return style, nil
}

// readColor reads three raw bytes as R, G, B - not skip-padded.
func readColor(r *streamio.Reader) (model.Color, error) {
	b, err := r.ReadN(3)
	if err != nil {
		return model.Color{}, err
	}
	return model.Color{R: b[0], G: b[1], B: b[2]}, nil
}
