package model

// Font describes a span's typeface, size and styling.
type Font struct {
	Name     string
	Size     float64
	IsBold   bool
	IsItalic bool
	Fill     Fill // solid color in the common case
	Outline  *Pen
}

// NewFont returns the default font: Arial, 24pt, solid black fill.
func NewFont() Font {
	return Font{Name: "Arial", Size: 24.0, Fill: Color{}}
}

// HorizontalAlignment is a paragraph's horizontal text alignment.
type HorizontalAlignment int

const (
	AlignLeft HorizontalAlignment = iota
	AlignRight
	AlignBlock
	AlignCenter
	AlignFull
)

// VerticalAlignment is a text frame's vertical alignment within its box.
type VerticalAlignment int

const (
	AlignTop VerticalAlignment = iota
	AlignMiddle
	AlignBottom
)

// ParagraphStyle is the alignment, line spacing and default font shared by
// a paragraph's spans.
type ParagraphStyle struct {
	LineSpacing float64
	Alignment   HorizontalAlignment
	Font        Font
}

// NewParagraphStyle returns the default paragraph style: 1.2 line spacing,
// left-aligned, default font.
func NewParagraphStyle() ParagraphStyle {
	return ParagraphStyle{LineSpacing: 1.2, Alignment: AlignLeft, Font: NewFont()}
}

// Span is a run of text sharing one font.
type Span struct {
	Text   string
	Length int // UTF-16 code unit count, as encoded on disk
	Font   Font
}

// Paragraph is a list of spans sharing one style.
type Paragraph struct {
	Spans []Span
	Style ParagraphStyle
}

// Text is an ordered list of paragraphs.
type Text struct {
	Paragraphs []Paragraph
}
