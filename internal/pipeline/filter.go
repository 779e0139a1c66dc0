package pipeline

import (
	"strings"

	"gridlens/domain/table"
)

// ApplyFilters keeps the rows that satisfy every active per-column config
// (logical AND across columns). With no active config the input slice is
// returned unchanged, order preserved. The operation is idempotent.
func ApplyFilters(rows []table.Row, configs map[string]table.FilterConfig, types map[string]table.ColumnType) []table.Row {
	active := activeFilters(configs, types)
	if len(active) == 0 {
		return rows
	}

	out := make([]table.Row, 0, len(rows))
	for _, row := range rows {
		if rowPasses(row, active, types) {
			out = append(out, row)
		}
	}
	return out
}

func activeFilters(configs map[string]table.FilterConfig, types map[string]table.ColumnType) map[string]table.FilterConfig {
	active := make(map[string]table.FilterConfig, len(configs))
	for col, cfg := range configs {
		if cfg.Active(types[col]) {
			active[col] = cfg
		}
	}
	return active
}

func rowPasses(row table.Row, active map[string]table.FilterConfig, types map[string]table.ColumnType) bool {
	for col, cfg := range active {
		if types[col] == table.Numeric {
			if !numericMatch(row.Cell(col), cfg) {
				return false
			}
			continue
		}
		if !textMatch(row.Cell(col), cfg) {
			return false
		}
	}
	return true
}

// numericMatch applies inclusive bounds. A cell that does not parse is
// excluded outright regardless of which bounds are set (fail closed).
func numericMatch(cell table.Cell, cfg table.FilterConfig) bool {
	v, ok := cell.Float()
	if !ok {
		return false
	}
	if cfg.Min != nil && v < *cfg.Min {
		return false
	}
	if cfg.Max != nil && v > *cfg.Max {
		return false
	}
	return true
}

// textMatch compares case-insensitively after trimming both sides. A missing
// cell compares as the empty string.
func textMatch(cell table.Cell, cfg table.FilterConfig) bool {
	value := strings.ToLower(strings.TrimSpace(cell.String()))
	needle := strings.ToLower(strings.TrimSpace(cfg.Text))

	if cfg.Mode == table.MatchEquals {
		return value == needle
	}
	return strings.Contains(value, needle)
}
