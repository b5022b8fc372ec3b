package model

// PageSettings is the background color and geometry shared by every page
// in a document, read once from the DOCUMENT_SETTINGS object.
type PageSettings struct {
	Width, Height           float64
	LeftOffset, TopOffset   float64
	Color                   Color
}

// NewPageSettings returns page settings with a white background and zero
// size and offsets.
func NewPageSettings() PageSettings {
	return PageSettings{Color: Color{R: 255, G: 255, B: 255}}
}
