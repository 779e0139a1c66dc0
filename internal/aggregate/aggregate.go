// Package aggregate computes ad-hoc entity rollups over a row set: the
// totals for every row where a named party appears in one of two role
// columns. Rollups are computed on demand and discarded; nothing is cached.
package aggregate

import (
	"strings"

	"gridlens/domain/table"
)

// RoleColumns names the columns an entity rollup reads: the two columns the
// entity may appear in, and the value/weight columns being totaled.
type RoleColumns struct {
	Recipient  string
	Originator string
	Amount     string
	Weight     string
}

// Rollup is the result of aggregating one entity over a row set. Scope is
// attached by the caller, which knows whether the rows were a filtered view
// or the full raw set.
type Rollup struct {
	Entity      string      `json:"entity"`
	TotalValue  float64     `json:"total_value"`
	TotalWeight float64     `json:"total_weight"`
	Rows        int         `json:"rows"`
	Scope       table.Scope `json:"scope"`
}

// Entity scans the rows once and totals the amount and weight columns for
// every row whose trimmed recipient or originator equals the trimmed entity
// name. A row matching both role columns still contributes once. Cells that
// fail to parse are silently left out of their total.
func Entity(name string, rows []table.Row, cols RoleColumns) Rollup {
	rollup := Rollup{Entity: name}
	target := strings.TrimSpace(name)

	for _, row := range rows {
		recipient := strings.TrimSpace(row.Cell(cols.Recipient).String())
		originator := strings.TrimSpace(row.Cell(cols.Originator).String())
		if recipient != target && originator != target {
			continue
		}

		rollup.Rows++
		if v, ok := row.Cell(cols.Amount).Float(); ok {
			rollup.TotalValue += v
		}
		if w, ok := row.Cell(cols.Weight).Float(); ok {
			rollup.TotalWeight += w
		}
	}
	return rollup
}
