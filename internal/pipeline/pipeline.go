// Package pipeline implements the derived-view computation: column type
// inference plus the filter -> search -> sort sequence that turns the raw
// row set into the rows currently presented. Every function is a pure
// transformation of its inputs; the session recomputes the whole view on
// each state change rather than patching it incrementally.
package pipeline

import (
	"gridlens/domain/table"
	"gridlens/internal"
	"gridlens/ports"
)

// ViewState is the user-controlled portion of the pipeline's input.
type ViewState struct {
	Filters map[string]table.FilterConfig
	Query   string
	Sort    table.SortSpec
}

// View computes the derived view from the raw rows and the current state.
// The order is fixed: filter, then search, then sort.
func View(raw []table.Row, state ViewState, types map[string]table.ColumnType, index ports.SearchIndex, logger *internal.Logger) []table.Row {
	rows := ApplyFilters(raw, state.Filters, types)
	rows = ApplySearch(rows, state.Query, index, logger)
	return Sort(rows, state.Sort, types)
}

// ClampPage bounds a 1-based page number to the pages the view actually has.
// An empty view still has page 1.
func ClampPage(page, rowCount, pageSize int) int {
	if page < 1 {
		return 1
	}
	max := PageCount(rowCount, pageSize)
	if page > max {
		return max
	}
	return page
}

// PageCount returns how many pages the view spans, never less than 1.
func PageCount(rowCount, pageSize int) int {
	if pageSize <= 0 {
		return 1
	}
	pages := (rowCount + pageSize - 1) / pageSize
	if pages < 1 {
		return 1
	}
	return pages
}

// Page slices one page out of the view. The page number is clamped first, so
// a stale page after a shrinking state change degrades to the last page.
func Page(view []table.Row, page, pageSize int) []table.Row {
	if pageSize <= 0 {
		return view
	}
	page = ClampPage(page, len(view), pageSize)
	start := (page - 1) * pageSize
	if start >= len(view) {
		return nil
	}
	end := start + pageSize
	if end > len(view) {
		end = len(view)
	}
	return view[start:end]
}
