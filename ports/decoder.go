package ports

import "gridlens/domain/table"

// SheetDecoder turns a spreadsheet file into decoded sheets. Implementations
// own the file-format details; the session only sees sheets of rows.
type SheetDecoder interface {
	// Decode reads the file at path and returns every sheet it contains, in
	// workbook order. A failure is total: no partial sheet list is returned.
	Decode(path string) ([]table.Sheet, error)
}
