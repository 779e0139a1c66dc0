// Package spreadsheet decodes .xlsx and .csv files into table.Sheet values.
// Each xlsx worksheet becomes one sheet; a csv file becomes a single sheet
// named after the file. Column names come from the header row, in file
// order.
package spreadsheet

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"gridlens/domain/table"
	"gridlens/internal/errors"
	"gridlens/ports"
)

// DataReader handles reading Excel and CSV files.
type DataReader struct{}

// NewDataReader creates a decoder for both Excel and CSV files.
func NewDataReader() *DataReader {
	return &DataReader{}
}

var _ ports.SheetDecoder = (*DataReader)(nil)

// Decode reads every sheet of the file at path. Any failure is total: the
// caller gets either the full sheet list or an error, never a partial load.
func (r *DataReader) Decode(path string) ([]table.Sheet, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, errors.DecodeFailed(fmt.Sprintf("file not found: %s", path), err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return r.decodeCSV(path)
	case ".xlsx", ".xlsm":
		return r.decodeExcel(path)
	default:
		return nil, errors.DecodeFailed(fmt.Sprintf("unsupported file type: %s", filepath.Ext(path)), nil)
	}
}

func (r *DataReader) decodeExcel(path string) ([]table.Sheet, error) {
	startTime := time.Now()
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.DecodeFailed("failed to open Excel file", err)
	}
	defer f.Close()
	log.Printf("[SheetDecoder] Excel file opened in %.2fms", float64(time.Since(startTime).Nanoseconds())/1e6)

	var sheets []table.Sheet
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, errors.DecodeFailed(fmt.Sprintf("failed to read sheet %q", name), err)
		}
		sheets = append(sheets, buildSheet(name, rows))
		log.Printf("[SheetDecoder] sheet %q read (%d rows)", name, len(rows))
	}
	if len(sheets) == 0 {
		return nil, errors.DecodeFailed("workbook contains no sheets", nil)
	}
	return sheets, nil
}

func (r *DataReader) decodeCSV(path string) ([]table.Sheet, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.DecodeFailed("failed to open CSV file", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.DecodeFailed("failed to read CSV file", err)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	log.Printf("[SheetDecoder] CSV file read (%d rows)", len(records))
	return []table.Sheet{buildSheet(name, records)}, nil
}

// buildSheet converts raw string rows into a sheet. The first row is the
// header; its trimmed cells become the column set, in file order. Cells
// beyond the header width have no column name and are dropped.
func buildSheet(name string, raw [][]string) table.Sheet {
	sheet := table.Sheet{Name: name}
	if len(raw) == 0 {
		return sheet
	}

	for _, header := range raw[0] {
		sheet.Columns = append(sheet.Columns, strings.TrimSpace(header))
	}

	for i := 1; i < len(raw); i++ {
		cells := make(map[string]table.Cell, len(sheet.Columns))
		for j, value := range raw[i] {
			if j >= len(sheet.Columns) {
				break
			}
			cells[sheet.Columns[j]] = table.TextCell(strings.TrimSpace(value))
		}
		sheet.Rows = append(sheet.Rows, table.Row{Ord: i - 1, Cells: cells})
	}
	return sheet
}
