package ports

import "gridlens/domain/table"

// SearchIndex is the external fuzzy-match collaborator. An index is built
// over one raw row set restricted to a column subset, and must be rebuilt
// whenever either changes; query-only changes re-query the same index.
type SearchIndex interface {
	// Build indexes the given rows over the included columns, replacing any
	// previous index contents.
	Build(rows []table.Row, columns []string)

	// Query returns the ordinals of matching rows in the collaborator's own
	// relevance order.
	Query(query string) ([]int, error)
}
