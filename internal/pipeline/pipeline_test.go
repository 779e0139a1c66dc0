package pipeline

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"gridlens/domain/table"
	"gridlens/internal"
)

// fakeIndex is a scripted stand-in for the fuzzy collaborator.
type fakeIndex struct {
	ords    []int
	err     error
	queries int
	builds  int
}

func (f *fakeIndex) Build(rows []table.Row, columns []string) { f.builds++ }

func (f *fakeIndex) Query(query string) ([]int, error) {
	f.queries++
	return f.ords, f.err
}

func testLogger() *internal.Logger {
	return internal.NewLogger(internal.LogLevelError)
}

func TestApplySearchEmptyQuerySkipsIndex(t *testing.T) {
	rows := rowsFrom([]map[string]string{{"A": "x"}, {"A": "y"}})
	idx := &fakeIndex{ords: []int{1}}

	got := ApplySearch(rows, "   ", idx, testLogger())
	assert.Equal(t, rows, got)
	assert.Zero(t, idx.queries)
}

func TestApplySearchIntersectsInRelevanceOrder(t *testing.T) {
	rows := rowsFrom([]map[string]string{
		{"A": "one"},
		{"A": "two"},
		{"A": "three"},
	})
	// Relevance order: row 2 first, then row 0; ord 7 is not in the filtered
	// set and must be dropped.
	idx := &fakeIndex{ords: []int{2, 7, 0}}

	got := ApplySearch(rows, "o", idx, testLogger())
	assert.Equal(t, []int{2, 0}, []int{got[0].Ord, got[1].Ord})
}

func TestApplySearchFailsOpen(t *testing.T) {
	rows := rowsFrom([]map[string]string{{"A": "x"}, {"A": "y"}})
	idx := &fakeIndex{err: errors.New("index corrupted")}

	got := ApplySearch(rows, "x", idx, testLogger())
	assert.Equal(t, rows, got)
}

func TestViewComposesFilterSearchSort(t *testing.T) {
	rows := rowsFrom([]map[string]string{
		{"Client": "acme", "Amount": "30"},
		{"Client": "acme", "Amount": "10"},
		{"Client": "other", "Amount": "20"},
		{"Client": "acme", "Amount": "20"},
	})
	types := map[string]table.ColumnType{
		"Client": table.Categorical,
		"Amount": table.Numeric,
	}
	// Matches everything except row 3, in reverse ordinal order; the sort
	// stage reorders by Amount afterwards.
	idx := &fakeIndex{ords: []int{2, 1, 0}}

	state := ViewState{
		Filters: map[string]table.FilterConfig{
			"Client": {Mode: table.MatchEquals, Text: "acme"},
		},
		Query: "acme",
		Sort:  table.SortSpec{Column: "Amount"},
	}

	got := View(rows, state, types, idx, testLogger())
	assert.Equal(t, []int{1, 0}, []int{got[0].Ord, got[1].Ord})
}

func TestClampPage(t *testing.T) {
	assert.Equal(t, 1, ClampPage(0, 100, 10))
	assert.Equal(t, 1, ClampPage(-3, 100, 10))
	assert.Equal(t, 10, ClampPage(99, 100, 10))
	assert.Equal(t, 5, ClampPage(5, 100, 10))
	assert.Equal(t, 1, ClampPage(3, 0, 10))
	assert.Equal(t, 4, ClampPage(9, 31, 10))
}

func TestPage(t *testing.T) {
	rows := rowsFrom([]map[string]string{
		{"A": "1"}, {"A": "2"}, {"A": "3"}, {"A": "4"}, {"A": "5"},
	})

	first := Page(rows, 1, 2)
	assert.Equal(t, []int{0, 1}, []int{first[0].Ord, first[1].Ord})

	last := Page(rows, 3, 2)
	assert.Len(t, last, 1)
	assert.Equal(t, 4, last[0].Ord)

	// Out-of-range page clamps to the last page.
	clamped := Page(rows, 9, 2)
	assert.Equal(t, last, clamped)

	assert.Empty(t, Page(nil, 1, 2))
}
