package pipeline

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"gridlens/domain/table"
)

// Sort orders rows by the spec's column using the column's inferred type.
// The sort is stable: ties keep whatever order filtering and search
// produced. An empty or unknown column is a no-op and returns the input
// slice untouched; otherwise a sorted copy is returned.
func Sort(rows []table.Row, spec table.SortSpec, types map[string]table.ColumnType) []table.Row {
	if spec.Column == "" {
		return rows
	}
	colType, known := types[spec.Column]
	if !known {
		return rows
	}

	out := make([]table.Row, len(rows))
	copy(out, rows)

	if colType == table.Numeric {
		stableSortNumeric(out, spec)
	} else {
		stableSortText(out, spec)
	}
	return out
}

// stableSortNumeric orders by parsed value. Cells that fail to parse are
// missing and always sort after every valid number; only the order of valid
// comparisons flips with direction.
func stableSortNumeric(rows []table.Row, spec table.SortSpec) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, aok := rows[i].Cell(spec.Column).Float()
		b, bok := rows[j].Cell(spec.Column).Float()

		if !aok && !bok {
			return false
		}
		if !aok {
			return false
		}
		if !bok {
			return true
		}
		if spec.Descending {
			return a > b
		}
		return a < b
	})
}

func stableSortText(rows []table.Row, spec table.SortSpec) {
	c := collate.New(language.English)
	sort.SliceStable(rows, func(i, j int) bool {
		cmp := c.CompareString(rows[i].Cell(spec.Column).String(), rows[j].Cell(spec.Column).String())
		if spec.Descending {
			return cmp > 0
		}
		return cmp < 0
	})
}
