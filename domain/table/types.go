package table

import "strings"

// Row is one record of a sheet. Ord is the load ordinal within the raw row
// set and is the row's identity for intersecting search results with
// filtered results. Rows are immutable once loaded.
type Row struct {
	Ord   int
	Cells map[string]Cell
}

// Cell returns the named cell, or the empty cell when the column is absent.
func (r Row) Cell(column string) Cell {
	return r.Cells[column]
}

// Sheet is one decoded table: an ordered column list plus its rows.
// Columns are taken from the header row in file order.
type Sheet struct {
	Name    string
	Columns []string
	Rows    []Row
}

// ColumnType tags a column as numeric or categorical. Tags are inferred once
// per raw-row-set load and reused by every engine; per-call re-inference
// would break filter and tie-break semantics.
type ColumnType int

const (
	Categorical ColumnType = iota
	Numeric
)

func (t ColumnType) String() string {
	if t == Numeric {
		return "numeric"
	}
	return "categorical"
}

// TextMode selects how a categorical filter compares values.
type TextMode string

const (
	MatchContains TextMode = "contains"
	MatchEquals   TextMode = "equals"
)

// FilterConfig is a per-column filter. For categorical columns Mode and Text
// are used; for numeric columns Min and Max bound the parsed value
// inclusively, either side optional.
type FilterConfig struct {
	Mode TextMode
	Text string
	Min  *float64
	Max  *float64
}

// Active reports whether the config participates in filtering for a column
// of the given type.
func (f FilterConfig) Active(t ColumnType) bool {
	if t == Numeric {
		return f.Min != nil || f.Max != nil
	}
	return strings.TrimSpace(f.Text) != ""
}

// SortSpec names the sort column and direction. An empty column means no
// sort is applied.
type SortSpec struct {
	Column     string
	Descending bool
}

// Scope records whether a derived computation ran over the filtered view or
// the full raw row set.
type Scope string

const (
	ScopeFiltered Scope = "filtered"
	ScopeGlobal   Scope = "global"
)
