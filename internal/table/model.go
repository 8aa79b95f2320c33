// Package table builds dimensioned tables from table fields and splits them
// into page sized fragments.
package table

import (
	"github.com/gompdf/gomlayout/internal/style"
	"github.com/gompdf/gomlayout/internal/template"
)

// Cell is one measured table cell. Lengths are in mm.
type Cell struct {
	Text   []string
	Width  float64
	Height float64
	Style  style.CellStyle
}

// Padding returns the cell padding.
func (c Cell) Padding() style.Spacing {
	return c.Style.Padding
}

// Row is a line of cells. Its height is the tallest cell.
type Row struct {
	Cells  []Cell
	Height float64
	// Index is the position in the authored body, -1 for header rows.
	Index int
}

// Column is a resolved table column.
type Column struct {
	Index int
	Width float64
}

// Table is a fully dimensioned table or a fragment of one.
type Table struct {
	Columns  []Column
	Head     []Row
	Body     []Row
	ShowHead bool
	Width    float64
}

// HeadHeight returns the summed height of the header rows.
func (t *Table) HeadHeight() float64 {
	return sumHeights(t.Head)
}

// BodyHeight returns the summed height of the body rows.
func (t *Table) BodyHeight() float64 {
	return sumHeights(t.Body)
}

// Height returns the rendered height: body plus header when shown.
func (t *Table) Height() float64 {
	h := t.BodyHeight()
	if t.ShowHead {
		h += t.HeadHeight()
	}
	return h
}

// Slice returns a table holding body rows [start, end) with the given header
// visibility. Columns and header rows are shared with t.
func (t *Table) Slice(r template.Range, showHead bool) *Table {
	return &Table{
		Columns:  t.Columns,
		Head:     t.Head,
		Body:     t.Body[r.Start:r.End],
		ShowHead: showHead,
		Width:    t.Width,
	}
}

func sumHeights(rows []Row) float64 {
	var h float64
	for _, r := range rows {
		h += r.Height
	}
	return h
}
