package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridlens/domain/table"
)

func row(ord int, client, region string) table.Row {
	return table.Row{
		Ord: ord,
		Cells: map[string]table.Cell{
			"Client": table.TextCell(client),
			"Region": table.TextCell(region),
		},
	}
}

func TestFuzzyIndexQuery(t *testing.T) {
	idx := NewFuzzyIndex()
	idx.Build([]table.Row{
		row(0, "Acme Industries", "north"),
		row(1, "Widget Works", "south"),
		row(2, "Acorn Ltd", "east"),
	}, []string{"Client"})

	ords, err := idx.Query("acme")
	require.NoError(t, err)
	require.NotEmpty(t, ords)
	assert.Equal(t, 0, ords[0])
}

func TestFuzzyIndexRespectsColumnSubset(t *testing.T) {
	idx := NewFuzzyIndex()
	idx.Build([]table.Row{
		row(0, "Acme", "north"),
		row(1, "Widget", "acme-region"),
	}, []string{"Region"})

	ords, err := idx.Query("acme")
	require.NoError(t, err)
	require.Len(t, ords, 1)
	assert.Equal(t, 1, ords[0])
}

func TestFuzzyIndexRebuildReplaces(t *testing.T) {
	idx := NewFuzzyIndex()
	idx.Build([]table.Row{row(0, "Acme", "north")}, []string{"Client"})
	idx.Build(nil, []string{"Client"})

	ords, err := idx.Query("acme")
	require.NoError(t, err)
	assert.Empty(t, ords)
}

func TestFuzzyIndexNoMatch(t *testing.T) {
	idx := NewFuzzyIndex()
	idx.Build([]table.Row{row(0, "Acme", "north")}, []string{"Client"})

	ords, err := idx.Query("zzzzzz")
	require.NoError(t, err)
	assert.Empty(t, ords)
}
