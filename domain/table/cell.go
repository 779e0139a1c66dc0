package table

import (
	"strconv"
	"strings"
)

// CellKind discriminates the Cell tagged union.
type CellKind int

const (
	CellEmpty CellKind = iota
	CellText
	CellNumber
)

// Cell is a single spreadsheet value. Cells are constructed once at the
// ingestion boundary; downstream code never re-interprets raw strings.
type Cell struct {
	Kind   CellKind
	Text   string
	Number float64
}

// EmptyCell returns the empty/missing cell.
func EmptyCell() Cell {
	return Cell{Kind: CellEmpty}
}

// TextCell creates a text cell. An empty string is a missing value.
func TextCell(s string) Cell {
	if s == "" {
		return Cell{Kind: CellEmpty}
	}
	return Cell{Kind: CellText, Text: s}
}

// NumberCell creates a numeric cell.
func NumberCell(n float64) Cell {
	return Cell{Kind: CellNumber, Number: n}
}

// IsEmpty reports whether the cell holds no value.
func (c Cell) IsEmpty() bool {
	return c.Kind == CellEmpty
}

// String returns the display form of the cell. Empty cells render as "".
func (c Cell) String() string {
	switch c.Kind {
	case CellNumber:
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	case CellText:
		return c.Text
	default:
		return ""
	}
}

// Float is the single numeric conversion shared by the filter, sort,
// aggregation and statistics engines. A text cell converts iff the trimmed
// string parses fully as a float; empty cells never convert.
func (c Cell) Float() (float64, bool) {
	switch c.Kind {
	case CellNumber:
		return c.Number, true
	case CellText:
		v, err := strconv.ParseFloat(strings.TrimSpace(c.Text), 64)
		if err != nil {
			return 0, false
		}
		return v, true
	default:
		return 0, false
	}
}
