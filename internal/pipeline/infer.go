package pipeline

import (
	"gridlens/domain/table"
)

const (
	// inferSampleSize caps how many rows the type heuristic inspects.
	inferSampleSize = 200

	// numericRatio is the fraction of sampled values that must parse as
	// numbers for a column to be tagged numeric.
	numericRatio = 0.7
)

// Classify tags a single column as numeric or categorical from a sample of
// the first rows. The heuristic trades accuracy for a single cheap pass:
// a value counts as numeric when Cell.Float succeeds, and the column is
// numeric when more than 70% of the sample converts. An empty sample is
// categorical.
func Classify(rows []table.Row, column string) table.ColumnType {
	sample := rows
	if len(sample) > inferSampleSize {
		sample = sample[:inferSampleSize]
	}
	if len(sample) == 0 {
		return table.Categorical
	}

	numeric := 0
	for _, row := range sample {
		if _, ok := row.Cell(column).Float(); ok {
			numeric++
		}
	}

	if float64(numeric)/float64(len(sample)) > numericRatio {
		return table.Numeric
	}
	return table.Categorical
}

// InferTypes classifies every column of a freshly loaded row set. The result
// is cached by the session for the lifetime of that row set so that filter,
// sort and statistics all see the same tags.
func InferTypes(rows []table.Row, columns []string) map[string]table.ColumnType {
	types := make(map[string]table.ColumnType, len(columns))
	for _, col := range columns {
		types[col] = Classify(rows, col)
	}
	return types
}
