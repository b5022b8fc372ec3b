package collector

import (
	"fmt"

	"github.com/zoner-draw/zmf/internal/model"
)

func formatBorder(width float64, color model.Color) string {
	return fmt.Sprintf("%fin solid %s", width, color.String())
}

// CollectTable opens a table object, one row/cell at a time, with
// draw:textarea-vertical-align always set to middle regardless of the
// cell's own alignment - a quirk of the source reproduced here as-is.
func (c *ZMFCollector) CollectTable(table model.Table) {
	props := PropertyList{
		"svg:x":      c.pageX(table.TopLeftPoint.X),
		"svg:y":      c.pageY(table.TopLeftPoint.Y),
		"svg:width":  table.Width,
		"svg:height": table.Height,
	}
	var columns []PropertyList
	for _, col := range table.Columns {
		columns = append(columns, PropertyList{"style:column-width": col.Width})
	}
	props["librevenge:table-columns"] = columns

	c.sink.StartTableObject(props)
	for _, row := range table.Rows {
		c.sink.OpenTableRow(PropertyList{"style:row-height": row.Height})
		for _, cell := range row.Cells {
			cprops := PropertyList{
				"draw:textarea-vertical-align": "middle",
			}
			if col, ok := cell.Fill.(model.Color); ok {
				cprops["fo:background-color"] = col.String()
			}
			if b := writeBorder(cell.LeftBorder); b != "" {
				cprops["fo:border-left"] = b
			}
			if b := writeBorder(cell.RightBorder); b != "" {
				cprops["fo:border-right"] = b
			}
			if b := writeBorder(cell.TopBorder); b != "" {
				cprops["fo:border-top"] = b
			}
			if b := writeBorder(cell.BottomBorder); b != "" {
				cprops["fo:border-bottom"] = b
			}
			c.sink.OpenTableCell(cprops)
			c.collectText(cell.Text)
			c.sink.CloseTableCell()
		}
		c.sink.CloseTableRow()
	}
	c.sink.EndTableObject()
}
