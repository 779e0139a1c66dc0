// Package search adapts the sahilm/fuzzy matcher as the pipeline's search
// collaborator. The index holds one concatenated haystack entry per raw row,
// restricted to the included columns, and is rebuilt wholesale whenever the
// raw rows or the column subset change.
package search

import (
	"strings"

	"github.com/sahilm/fuzzy"

	"gridlens/domain/table"
	"gridlens/ports"
)

// FuzzyIndex implements ports.SearchIndex.
type FuzzyIndex struct {
	haystack []string
	ords     []int
}

// NewFuzzyIndex returns an empty index; call Build before querying.
func NewFuzzyIndex() *FuzzyIndex {
	return &FuzzyIndex{}
}

var _ ports.SearchIndex = (*FuzzyIndex)(nil)

// Build replaces the index contents. Building over zero rows clears it.
func (f *FuzzyIndex) Build(rows []table.Row, columns []string) {
	f.haystack = make([]string, 0, len(rows))
	f.ords = make([]int, 0, len(rows))

	var sb strings.Builder
	for _, row := range rows {
		sb.Reset()
		for i, col := range columns {
			if i > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(row.Cell(col).String())
		}
		f.haystack = append(f.haystack, sb.String())
		f.ords = append(f.ords, row.Ord)
	}
}

// Query returns matching row ordinals, best score first.
func (f *FuzzyIndex) Query(query string) ([]int, error) {
	matches := fuzzy.Find(query, f.haystack)
	ords := make([]int, len(matches))
	for i, m := range matches {
		ords[i] = f.ords[m.Index]
	}
	return ords, nil
}
