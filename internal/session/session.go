// Package session holds the single in-process exploration state: the active
// dataset plus every user selection feeding the pipeline. All derived data
// (view, stats, rollups) is recomputed from this state on demand; nothing
// derived is stored. The session is not safe for concurrent use — the ui
// serializes access with one mutex, which preserves the single-control-
// thread model.
package session

import (
	"io"
	"strings"

	"github.com/google/uuid"

	"gridlens/domain/table"
	"gridlens/internal"
	"gridlens/internal/aggregate"
	"gridlens/internal/colstats"
	"gridlens/internal/errors"
	"gridlens/internal/export"
	"gridlens/internal/pipeline"
	"gridlens/ports"
)

const defaultPageSize = 50

// Options configures a new session.
type Options struct {
	PageSize   int
	Passphrase string
	Roles      aggregate.RoleColumns
}

// Session is the explicit state object passed to every pipeline operation.
type Session struct {
	id      uuid.UUID
	decoder ports.SheetDecoder
	index   ports.SearchIndex
	logger  *internal.Logger

	passphrase string
	unlocked   bool

	sheets      []table.Sheet
	activeSheet string
	columns     []string
	raw         []table.Row
	types       map[string]table.ColumnType

	filters       map[string]table.FilterConfig
	query         string
	searchColumns []string
	sort          table.SortSpec
	page          int
	pageSize      int

	statsColumn     string
	aggregateEntity string
	roles           aggregate.RoleColumns
}

// New creates an empty session.
func New(decoder ports.SheetDecoder, index ports.SearchIndex, logger *internal.Logger, opts Options) *Session {
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &Session{
		id:         uuid.New(),
		decoder:    decoder,
		index:      index,
		logger:     logger.With("session"),
		passphrase: opts.Passphrase,
		roles:      opts.Roles,
		filters:    make(map[string]table.FilterConfig),
		page:       1,
		pageSize:   pageSize,
	}
}

// ID returns the session identity.
func (s *Session) ID() uuid.UUID { return s.id }

// Unlock checks the passphrase gate. An empty configured passphrase leaves
// the session open. This is a convenience gate, not a security mechanism.
func (s *Session) Unlock(passphrase string) bool {
	if s.passphrase == "" || passphrase == s.passphrase {
		s.unlocked = true
	}
	return s.unlocked
}

// Unlocked reports whether the gate has been passed.
func (s *Session) Unlocked() bool {
	return s.passphrase == "" || s.unlocked
}

// LoadFile decodes a file and replaces the dataset wholesale. On decode
// failure the session rolls back to the empty state: no rows, no columns,
// no sheets.
func (s *Session) LoadFile(path string) error {
	sheets, err := s.decoder.Decode(path)
	if err != nil {
		s.resetDataset()
		s.logger.Warn("decode failed, session reset: %v", err)
		return errors.Wrap(err, "load file")
	}
	if len(sheets) == 0 {
		s.resetDataset()
		return errors.DecodeFailed("file contains no sheets", nil)
	}

	s.sheets = sheets
	return s.SelectSheet(sheets[0].Name)
}

// SelectSheet switches the active sheet. This is a hard reset: filters,
// query, sort, page and selected panels are all discarded, column types are
// re-inferred, and the search index is rebuilt over the new rows.
func (s *Session) SelectSheet(name string) error {
	for _, sheet := range s.sheets {
		if sheet.Name != name {
			continue
		}
		s.activeSheet = sheet.Name
		s.columns = sheet.Columns
		s.raw = sheet.Rows
		s.types = pipeline.InferTypes(sheet.Rows, sheet.Columns)
		s.searchColumns = append([]string(nil), sheet.Columns...)
		s.resetSelections()
		s.rebuildIndex()
		s.logger.Info("sheet %q selected (%d rows, %d columns)", name, len(s.raw), len(s.columns))
		return nil
	}
	return errors.SheetNotFound(name)
}

// ClearAll resets query, filters, sort, page and panels. Raw rows, column
// set and the search-column selection are untouched, so no index rebuild.
func (s *Session) ClearAll() {
	s.resetSelections()
}

func (s *Session) resetSelections() {
	s.filters = make(map[string]table.FilterConfig)
	s.query = ""
	s.sort = table.SortSpec{}
	s.page = 1
	s.statsColumn = ""
	s.aggregateEntity = ""
}

func (s *Session) resetDataset() {
	s.sheets = nil
	s.activeSheet = ""
	s.columns = nil
	s.raw = nil
	s.types = nil
	s.searchColumns = nil
	s.resetSelections()
	s.rebuildIndex()
}

// rebuildIndex reindexes the raw rows over the included columns. Only raw
// rows or search-column changes call this; query changes re-query only.
func (s *Session) rebuildIndex() {
	if s.index == nil {
		return
	}
	s.index.Build(s.raw, s.searchColumns)
}

// SetFilter sets or replaces the per-column filter config.
func (s *Session) SetFilter(column string, cfg table.FilterConfig) error {
	if _, ok := s.types[column]; !ok {
		return errors.ColumnNotFound(column)
	}
	s.filters[column] = cfg
	return nil
}

// ClearFilter removes one column's filter.
func (s *Session) ClearFilter(column string) {
	delete(s.filters, column)
}

// SetQuery updates the free-text query. The index is re-queried on the next
// view computation, never rebuilt.
func (s *Session) SetQuery(query string) {
	s.query = query
}

// SetSearchColumns restricts the fuzzy index to a column subset. Unknown
// names are dropped; an empty selection falls back to every column.
func (s *Session) SetSearchColumns(columns []string) {
	kept := make([]string, 0, len(columns))
	for _, col := range columns {
		if _, ok := s.types[col]; ok {
			kept = append(kept, col)
		}
	}
	if len(kept) == 0 {
		kept = append([]string(nil), s.columns...)
	}
	s.searchColumns = kept
	s.rebuildIndex()
}

// SetSort sets the sort spec. An empty column clears sorting.
func (s *Session) SetSort(spec table.SortSpec) {
	s.sort = spec
}

// SetPage moves to a page, clamped against the current view.
func (s *Session) SetPage(page int) {
	s.page = pipeline.ClampPage(page, len(s.View()), s.pageSize)
}

// SetPageSize changes the page size and re-clamps the current page.
func (s *Session) SetPageSize(size int) error {
	if size <= 0 {
		return errors.InvalidInput("page size must be positive")
	}
	s.pageSize = size
	s.page = pipeline.ClampPage(s.page, len(s.View()), s.pageSize)
	return nil
}

// SetRoleColumns configures which columns entity rollups read.
func (s *Session) SetRoleColumns(roles aggregate.RoleColumns) {
	s.roles = roles
}

// SelectStats marks a column for the statistics panel.
func (s *Session) SelectStats(column string) error {
	if _, ok := s.types[column]; !ok {
		return errors.ColumnNotFound(column)
	}
	s.statsColumn = column
	return nil
}

// SelectAggregate marks an entity for the rollup panel.
func (s *Session) SelectAggregate(entity string) {
	s.aggregateEntity = entity
}

// View recomputes the derived view: filter, then search, then sort. It is a
// pure function of the current state and is recomputed on every call.
func (s *Session) View() []table.Row {
	return pipeline.View(s.raw, s.viewState(), s.types, s.index, s.logger)
}

func (s *Session) viewState() pipeline.ViewState {
	return pipeline.ViewState{
		Filters: s.filters,
		Query:   s.query,
		Sort:    s.sort,
	}
}

// PageRows returns the current page of the view plus paging metadata. The
// page is clamped first, so shrinking views degrade to the last page.
func (s *Session) PageRows() ([]table.Row, PageInfo) {
	view := s.View()
	s.page = pipeline.ClampPage(s.page, len(view), s.pageSize)
	rows := pipeline.Page(view, s.page, s.pageSize)
	return rows, PageInfo{
		Page:      s.page,
		PageSize:  s.pageSize,
		PageCount: pipeline.PageCount(len(view), s.pageSize),
		Total:     len(view),
	}
}

// PageInfo describes the pagination of the current view.
type PageInfo struct {
	Page      int `json:"page"`
	PageSize  int `json:"page_size"`
	PageCount int `json:"page_count"`
	Total     int `json:"total"`
}

// Stats computes the selected column's summary over the current view.
func (s *Session) Stats() (colstats.Result, bool) {
	if s.statsColumn == "" {
		return colstats.Result{}, false
	}
	return colstats.Compute(s.statsColumn, s.View(), s.types)
}

// StatsFor computes a summary for an explicit column over the current view.
func (s *Session) StatsFor(column string) (colstats.Result, bool) {
	return colstats.Compute(column, s.View(), s.types)
}

// Aggregate rolls up the selected entity over the current view. The scope
// records whether that view differs from the raw rows: any active filter or
// a nonempty query makes it Filtered, otherwise Global.
func (s *Session) Aggregate() (aggregate.Rollup, bool) {
	if s.aggregateEntity == "" {
		return aggregate.Rollup{}, false
	}
	return s.AggregateFor(s.aggregateEntity), true
}

// AggregateFor rolls up an explicit entity over the current view.
func (s *Session) AggregateFor(entity string) aggregate.Rollup {
	rollup := aggregate.Entity(entity, s.View(), s.roles)
	rollup.Scope = s.scope()
	return rollup
}

func (s *Session) scope() table.Scope {
	if strings.TrimSpace(s.query) != "" {
		return table.ScopeFiltered
	}
	for col, cfg := range s.filters {
		if cfg.Active(s.types[col]) {
			return table.ScopeFiltered
		}
	}
	return table.ScopeGlobal
}

// ExportView writes the whole derived view as CSV.
func (s *Session) ExportView(w io.Writer) error {
	return export.Write(w, s.columns, s.View())
}

// ExportPage writes only the current page as CSV.
func (s *Session) ExportPage(w io.Writer) error {
	rows, _ := s.PageRows()
	return export.Write(w, s.columns, rows)
}

// SheetNames lists the decoded sheets in workbook order.
func (s *Session) SheetNames() []string {
	names := make([]string, len(s.sheets))
	for i, sheet := range s.sheets {
		names[i] = sheet.Name
	}
	return names
}

// ActiveSheet returns the selected sheet name, empty when nothing is loaded.
func (s *Session) ActiveSheet() string { return s.activeSheet }

// Columns returns the active sheet's column set, in file order.
func (s *Session) Columns() []string { return s.columns }

// Types returns the cached column type tags for the active sheet.
func (s *Session) Types() map[string]table.ColumnType { return s.types }

// RowCount returns the raw row count of the active sheet.
func (s *Session) RowCount() int { return len(s.raw) }

// HasDataset reports whether any sheet is loaded.
func (s *Session) HasDataset() bool { return len(s.sheets) > 0 }
