package model

// Cell is one grid cell of a Table: its text, optional fill, and up to
// four optional border pens.
type Cell struct {
	Text         Text
	Fill         Fill
	LeftBorder   *Pen
	RightBorder  *Pen
	TopBorder    *Pen
	BottomBorder *Pen
}

// Row is a list of cells sharing a height.
type Row struct {
	Cells  []Cell
	Height float64
}

// Column carries only a width; its cells live in the owning Table's Rows.
type Column struct {
	Width float64
}

// Table is a fixed grid of cells with per-row height and per-column width.
type Table struct {
	Rows         []Row
	Columns      []Column
	Width        float64
	Height       float64
	TopLeftPoint Point
}
