package ui

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"gridlens/domain/table"
	"gridlens/internal/aggregate"
	"gridlens/internal/errors"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeAppError maps AppError codes onto HTTP statuses.
func writeAppError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.CodeDecodeFailed, errors.CodeInvalidInput:
		status = http.StatusBadRequest
	case errors.CodeSheetNotFound, errors.CodeColumnNotFound, errors.CodeNoDataset:
		status = http.StatusNotFound
	case errors.CodeUnauthorized:
		status = http.StatusUnauthorized
	}
	writeError(w, status, err.Error())
}

func pathParam(r *http.Request, key string) string {
	value := chi.URLParam(r, key)
	if decoded, err := url.PathUnescape(value); err == nil {
		return decoded
	}
	return value
}

func (a *App) handleUnlock(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Passphrase string `json:"passphrase"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	a.mu.Lock()
	ok := a.session.Unlock(body.Passphrase)
	a.mu.Unlock()

	if !ok {
		writeError(w, http.StatusUnauthorized, "wrong passphrase")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"unlocked": true})
}

// handleUpload stages the uploaded spreadsheet to disk, loads it into the
// session and removes the staging file. A decode failure leaves the session
// empty, matching the full-rollback contract.
func (a *App) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, a.cfg.Upload.MaxFileSize)
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file upload")
		return
	}
	defer file.Close()

	staged := filepath.Join(a.cfg.Upload.Dir, uuid.NewString()+filepath.Ext(header.Filename))
	dst, err := os.Create(staged)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to stage upload")
		return
	}
	if _, err := io.Copy(dst, file); err != nil {
		dst.Close()
		os.Remove(staged)
		writeError(w, http.StatusInternalServerError, "failed to stage upload")
		return
	}
	dst.Close()
	defer os.Remove(staged)

	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.session.LoadFile(staged); err != nil {
		writeAppError(w, err)
		return
	}
	a.logger.Info("loaded %q (%d sheets)", header.Filename, len(a.session.SheetNames()))
	writeJSON(w, http.StatusOK, a.datasetSummary())
}

func (a *App) handleDataset(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.session.HasDataset() {
		writeAppError(w, errors.NoDataset())
		return
	}
	writeJSON(w, http.StatusOK, a.datasetSummary())
}

// datasetSummary must be called with the session lock held.
func (a *App) datasetSummary() map[string]interface{} {
	types := make(map[string]string, len(a.session.Types()))
	for col, t := range a.session.Types() {
		types[col] = t.String()
	}
	return map[string]interface{}{
		"sheets":       a.session.SheetNames(),
		"active_sheet": a.session.ActiveSheet(),
		"columns":      a.session.Columns(),
		"column_types": types,
		"row_count":    a.session.RowCount(),
	}
}

func (a *App) handleSheets(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	names := a.session.SheetNames()
	a.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string][]string{"sheets": names})
}

func (a *App) handleSelectSheet(w http.ResponseWriter, r *http.Request) {
	name := pathParam(r, "name")

	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.session.SelectSheet(name); err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a.datasetSummary())
}

type filterBody struct {
	Mode string   `json:"mode"`
	Text string   `json:"text"`
	Min  *float64 `json:"min"`
	Max  *float64 `json:"max"`
}

func (a *App) handleSetFilter(w http.ResponseWriter, r *http.Request) {
	column := pathParam(r, "column")

	var body filterBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	mode := table.MatchContains
	if body.Mode == string(table.MatchEquals) {
		mode = table.MatchEquals
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	err := a.session.SetFilter(column, table.FilterConfig{
		Mode: mode,
		Text: body.Text,
		Min:  body.Min,
		Max:  body.Max,
	})
	if err != nil {
		writeAppError(w, err)
		return
	}
	a.writeRows(w)
}

func (a *App) handleClearFilter(w http.ResponseWriter, r *http.Request) {
	column := pathParam(r, "column")

	a.mu.Lock()
	defer a.mu.Unlock()

	a.session.ClearFilter(column)
	a.writeRows(w)
}

func (a *App) handleSetQuery(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Query string `json:"query"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.session.SetQuery(body.Query)
	a.writeRows(w)
}

func (a *App) handleSetSearchColumns(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Columns []string `json:"columns"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.session.SetSearchColumns(body.Columns)
	a.writeRows(w)
}

func (a *App) handleSetSort(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Column     string `json:"column"`
		Descending bool   `json:"descending"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.session.SetSort(table.SortSpec{Column: body.Column, Descending: body.Descending})
	a.writeRows(w)
}

func (a *App) handleSetPage(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Page     int  `json:"page"`
		PageSize *int `json:"page_size"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if body.PageSize != nil {
		if err := a.session.SetPageSize(*body.PageSize); err != nil {
			writeAppError(w, err)
			return
		}
	}
	if body.Page != 0 {
		a.session.SetPage(body.Page)
	}
	a.writeRows(w)
}

func (a *App) handleSetRoles(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Recipient  string `json:"recipient"`
		Originator string `json:"originator"`
		Amount     string `json:"amount"`
		Weight     string `json:"weight"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.session.SetRoleColumns(aggregate.RoleColumns{
		Recipient:  body.Recipient,
		Originator: body.Originator,
		Amount:     body.Amount,
		Weight:     body.Weight,
	})
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (a *App) handleClearAll(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.session.ClearAll()
	a.writeRows(w)
}

func (a *App) handleRows(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.writeRows(w)
}

// writeRows responds with the current page of the derived view. Must be
// called with the session lock held.
func (a *App) writeRows(w http.ResponseWriter) {
	rows, info := a.session.PageRows()
	columns := a.session.Columns()

	records := make([]map[string]string, len(rows))
	for i, row := range rows {
		record := make(map[string]string, len(columns))
		for _, col := range columns {
			record[col] = row.Cell(col).String()
		}
		records[i] = record
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"rows": records,
		"page": info,
	})
}

func (a *App) handleStats(w http.ResponseWriter, r *http.Request) {
	column := pathParam(r, "column")

	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.session.SelectStats(column); err != nil {
		writeAppError(w, err)
		return
	}
	result, ok := a.session.Stats()
	if !ok {
		writeJSON(w, http.StatusOK, map[string]interface{}{"column": column, "empty": true})
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (a *App) handleAggregate(w http.ResponseWriter, r *http.Request) {
	entity := pathParam(r, "entity")

	a.mu.Lock()
	defer a.mu.Unlock()

	a.session.SelectAggregate(entity)
	rollup, _ := a.session.Aggregate()
	writeJSON(w, http.StatusOK, rollup)
}

func (a *App) handleExport(w http.ResponseWriter, r *http.Request) {
	scope := r.URL.Query().Get("scope")
	if scope == "" {
		scope = "view"
	}
	if scope != "view" && scope != "page" {
		writeError(w, http.StatusBadRequest, "scope must be view or page")
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="export.csv"`)

	var err error
	if scope == "page" {
		err = a.session.ExportPage(w)
	} else {
		err = a.session.ExportView(w)
	}
	if err != nil {
		a.logger.Error("export failed: %v", err)
	}
}
