// Package export renders row sets as delimited text. The encoding/csv
// writer already implements the required quoting: fields containing a
// comma, quote or newline are double-quoted with embedded quotes doubled.
package export

import (
	"encoding/csv"
	"io"

	"gridlens/domain/table"
	"gridlens/internal/errors"
)

// Write emits the header followed by one line per row. Columns absent from
// a row render as empty fields.
func Write(w io.Writer, header []string, rows []table.Row) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(header); err != nil {
		return errors.Wrap(err, "write csv header")
	}

	record := make([]string, len(header))
	for _, row := range rows {
		for i, col := range header {
			record[i] = row.Cell(col).String()
		}
		if err := cw.Write(record); err != nil {
			return errors.Wrap(err, "write csv row")
		}
	}

	cw.Flush()
	return errors.Wrap(cw.Error(), "flush csv")
}
