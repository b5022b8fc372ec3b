// Package collector is the only component that speaks the property-bag
// vocabulary of the external drawing sink. It translates the semantic
// events the format parsers emit (paths, ellipses, arcs, polygons, text,
// tables, images, group open/close) into Sink calls, tracking the
// document/page/layer lifecycle and the "currently set" style.
package collector

// PropertyList is an untyped property bag, following the librevenge-style
// vocabulary named in the external-interfaces contract (e.g. "svg:x",
// "draw:fill", "style:font-name"). Bit-exactness of keys/values is not
// required of callers beyond what they choose to act on.
type PropertyList map[string]any

// PathAction is one segment of a path built for DrawPath: a move, line,
// cubic-curve or close.
type PathAction struct {
	Action string // "M", "L", "C" or "Z"
	Points []PropertyList
}

// Sink is the externally supplied drawing-sink interface. It is not part
// of this package's contract - the caller provides an implementation and
// it is assumed correct; this interface only fixes the call vocabulary
// the collector uses to drive it.
type Sink interface {
	StartDocument(props PropertyList)
	EndDocument()

	StartPage(props PropertyList)
	EndPage()

	OpenLayer(props PropertyList)
	CloseLayer()

	OpenGroup(props PropertyList)
	CloseGroup()

	SetStyle(props PropertyList)
	DrawPath(path []PathAction)
	DrawGraphicObject(props PropertyList)

	StartTextObject(props PropertyList)
	EndTextObject()
	OpenParagraph(props PropertyList)
	CloseParagraph()
	OpenSpan(props PropertyList)
	CloseSpan()
	InsertText(text string)
	InsertSpace()

	StartTableObject(props PropertyList)
	EndTableObject()
	OpenTableRow(props PropertyList)
	CloseTableRow()
	OpenTableCell(props PropertyList)
	CloseTableCell()
}
