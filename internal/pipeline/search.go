package pipeline

import (
	"strings"

	"gridlens/domain/table"
	"gridlens/internal"
	"gridlens/ports"
)

// ApplySearch narrows the filtered rows to the ones the fuzzy index matched,
// in the index's own relevance order. The index is built over the raw row
// set, so the final result is filter-AND-search rather than search-first.
//
// An empty (trimmed) query skips search entirely. An index failure is logged
// and the filtered rows pass through unchanged (fail open).
func ApplySearch(filtered []table.Row, query string, index ports.SearchIndex, logger *internal.Logger) []table.Row {
	if strings.TrimSpace(query) == "" || index == nil {
		return filtered
	}

	ords, err := index.Query(query)
	if err != nil {
		logger.Warn("search query failed, keeping filtered rows: %v", err)
		return filtered
	}

	byOrd := make(map[int]table.Row, len(filtered))
	for _, row := range filtered {
		byOrd[row.Ord] = row
	}

	out := make([]table.Row, 0, len(ords))
	for _, ord := range ords {
		if row, ok := byOrd[ord]; ok {
			out = append(out, row)
		}
	}
	return out
}
