// Package colstats computes on-demand column summaries over a given row
// set, normally the derived view at the moment the user selects a column.
// Results are throwaway values, never kept in sync with later view changes.
package colstats

import (
	"sort"
	"strings"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	"gridlens/domain/table"
)

const topValueLimit = 5

// NumericStats summarizes a numeric column. Unparseable cells are dropped
// from the sample rather than treated as errors.
type NumericStats struct {
	Column string  `json:"column"`
	Count  int     `json:"count"`
	Sum    float64 `json:"sum"`
	Mean   float64 `json:"mean"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std_dev"`
}

// ValueCount is one distinct categorical value and its occurrence count.
type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// CategoricalStats summarizes a categorical column.
type CategoricalStats struct {
	Column    string       `json:"column"`
	Count     int          `json:"count"`
	Unique    int          `json:"unique"`
	TopValues []ValueCount `json:"top_values"`
}

// Result holds exactly one of the two summary shapes.
type Result struct {
	Numeric     *NumericStats     `json:"numeric,omitempty"`
	Categorical *CategoricalStats `json:"categorical,omitempty"`
}

// Compute summarizes one column of the given rows according to its inferred
// type. The second return is false when no summary exists: empty row set, no
// non-empty values, or a numeric column with zero parseable values.
func Compute(column string, rows []table.Row, types map[string]table.ColumnType) (Result, bool) {
	if len(rows) == 0 {
		return Result{}, false
	}

	if types[column] == table.Numeric {
		ns, ok := computeNumeric(column, rows)
		if !ok {
			return Result{}, false
		}
		return Result{Numeric: ns}, true
	}

	cs, ok := computeCategorical(column, rows)
	if !ok {
		return Result{}, false
	}
	return Result{Categorical: cs}, true
}

func computeNumeric(column string, rows []table.Row) (*NumericStats, bool) {
	values := make([]float64, 0, len(rows))
	for _, row := range rows {
		cell := row.Cell(column)
		if cell.IsEmpty() {
			continue
		}
		if v, ok := cell.Float(); ok {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return nil, false
	}

	data := stats.Float64Data(values)
	sum, _ := data.Sum()
	mean, _ := data.Mean()
	min, _ := data.Min()
	max, _ := data.Max()
	median, _ := data.Median()

	sd := 0.0
	if len(values) > 1 {
		sd = stat.StdDev(values, nil)
	}

	return &NumericStats{
		Column: column,
		Count:  len(values),
		Sum:    sum,
		Mean:   mean,
		Min:    min,
		Max:    max,
		Median: median,
		StdDev: sd,
	}, true
}

// computeCategorical counts trimmed non-empty values. Ties between equal
// counts keep first-seen order, which makes the top-value list deterministic
// for a given row order.
func computeCategorical(column string, rows []table.Row) (*CategoricalStats, bool) {
	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	order := 0
	total := 0

	for _, row := range rows {
		value := strings.TrimSpace(row.Cell(column).String())
		if value == "" {
			continue
		}
		if _, seen := counts[value]; !seen {
			firstSeen[value] = order
			order++
		}
		counts[value]++
		total++
	}
	if total == 0 {
		return nil, false
	}

	top := make([]ValueCount, 0, len(counts))
	for value, count := range counts {
		top = append(top, ValueCount{Value: value, Count: count})
	}
	sort.SliceStable(top, func(i, j int) bool {
		if top[i].Count != top[j].Count {
			return top[i].Count > top[j].Count
		}
		return firstSeen[top[i].Value] < firstSeen[top[j].Value]
	})
	if len(top) > topValueLimit {
		top = top[:topValueLimit]
	}

	return &CategoricalStats{
		Column:    column,
		Count:     total,
		Unique:    len(counts),
		TopValues: top,
	}, true
}
