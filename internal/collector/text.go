package collector

import (
	"strings"

	"github.com/zoner-draw/zmf/internal/model"
)

// CollectTextObject opens a text object at the given placement and alignment.
func (c *ZMFCollector) CollectTextObject(text model.Text, topLeft model.Point, width, height float64, align model.VerticalAlignment, rotation float64) {
	props := PropertyList{
		"svg:x":      c.pageX(topLeft.X),
		"svg:y":      c.pageY(topLeft.Y),
		"svg:width":  width,
		"svg:height": height,
	}
	switch align {
	case model.AlignMiddle:
		props["draw:textarea-vertical-align"] = "middle"
	case model.AlignBottom:
		props["draw:textarea-vertical-align"] = "bottom"
	default:
		props["draw:textarea-vertical-align"] = "top"
	}
	if !almostZero(rotation) {
		props["librevenge:rotate"] = radToDeg(rotation)
	}

	c.sink.StartTextObject(props)
	c.collectText(text)
	c.sink.EndTextObject()
}

// collectText opens one paragraph/span pair per element of text, splitting
// each span's characters on whitespace runs: the first space in a run is
// buffered as a literal character, every subsequent consecutive space
// becomes an explicit InsertSpace event. \r and \n are dropped entirely.
func (c *ZMFCollector) collectText(text model.Text) {
	for _, paragraph := range text.Paragraphs {
		pprops := PropertyList{
			"fo:line-height": paragraph.Style.LineSpacing * 100,
		}
		switch paragraph.Style.Alignment {
		case model.AlignRight:
			pprops["fo:text-align"] = "end"
		case model.AlignCenter:
			pprops["fo:text-align"] = "center"
		case model.AlignBlock, model.AlignFull:
			pprops["fo:text-align"] = "justify"
		default:
			pprops["fo:text-align"] = "left"
		}
		c.sink.OpenParagraph(pprops)

		for _, span := range paragraph.Spans {
			sprops := PropertyList{
				"style:font-name": span.Font.Name,
				"fo:font-size":    span.Font.Size,
			}
			if span.Font.IsBold {
				sprops["fo:font-weight"] = "bold"
			} else {
				sprops["fo:font-weight"] = "normal"
			}
			if span.Font.IsItalic {
				sprops["fo:font-style"] = "italic"
			} else {
				sprops["fo:font-style"] = "normal"
			}
			sprops["style:text-outline"] = span.Font.Outline != nil
			if col, ok := span.Font.Fill.(model.Color); ok {
				sprops["fo:color"] = col.String()
			}
			c.sink.OpenSpan(sprops)
			flushTextRuns(c.sink, span.Text)
			c.sink.CloseSpan()
		}
		c.sink.CloseParagraph()
	}
}

// flushTextRuns implements the whitespace-run splitting rule against the
// external sink directly, matching the source's wasSpace state machine.
func flushTextRuns(sink Sink, text string) {
	var buf strings.Builder
	wasSpace := false
	flush := func() {
		if buf.Len() > 0 {
			sink.InsertText(buf.String())
			buf.Reset()
		}
	}

	for _, ch := range text {
		switch {
		case ch == '\r' || ch == '\n':
			continue
		case ch < 0x80 && whitespaceSet.Contains(byte(ch)):
			if wasSpace {
				flush()
				sink.InsertSpace()
			} else {
				wasSpace = true
				buf.WriteRune(ch)
			}
		default:
			wasSpace = false
			buf.WriteRune(ch)
		}
	}
	flush()
}
