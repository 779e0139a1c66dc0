// Package ui exposes the exploration session over a small chi JSON API.
// One session lives behind one mutex: every request mutates or reads the
// session in a single critical section, preserving the synchronous
// recompute-per-action model.
package ui

import (
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"gridlens/adapters/search"
	"gridlens/adapters/spreadsheet"
	"gridlens/internal"
	"gridlens/internal/config"
	"gridlens/internal/session"
)

// App represents the UI application
type App struct {
	router  *chi.Mux
	logger  *internal.Logger
	cfg     *config.Config
	mu      sync.Mutex
	session *session.Session
}

// NewApp creates a new UI application
func NewApp(cfg *config.Config, logger *internal.Logger) *App {
	sess := session.New(
		spreadsheet.NewDataReader(),
		search.NewFuzzyIndex(),
		logger,
		session.Options{
			PageSize:   cfg.Session.PageSize,
			Passphrase: cfg.Session.Passphrase,
		},
	)

	app := &App{
		router:  chi.NewRouter(),
		logger:  logger.With("ui"),
		cfg:     cfg,
		session: sess,
	}

	app.setupMiddleware()
	app.setupRoutes()
	return app
}

// Handler returns the root HTTP handler.
func (a *App) Handler() http.Handler {
	return a.router
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	a.router.Get("/help", a.handleHelp)
	a.router.Post("/api/unlock", a.handleUnlock)

	a.router.Group(func(r chi.Router) {
		r.Use(a.accessGate)

		r.Post("/api/upload", a.handleUpload)
		r.Get("/api/dataset", a.handleDataset)
		r.Get("/api/sheets", a.handleSheets)
		r.Post("/api/sheets/{name}/select", a.handleSelectSheet)

		r.Post("/api/state/filters/{column}", a.handleSetFilter)
		r.Delete("/api/state/filters/{column}", a.handleClearFilter)
		r.Post("/api/state/query", a.handleSetQuery)
		r.Post("/api/state/search-columns", a.handleSetSearchColumns)
		r.Post("/api/state/sort", a.handleSetSort)
		r.Post("/api/state/page", a.handleSetPage)
		r.Post("/api/state/roles", a.handleSetRoles)
		r.Post("/api/state/clear", a.handleClearAll)

		r.Get("/api/rows", a.handleRows)
		r.Get("/api/stats/{column}", a.handleStats)
		r.Get("/api/aggregate/{entity}", a.handleAggregate)
		r.Get("/api/export", a.handleExport)
	})
}

// accessGate rejects requests until the session passphrase gate is passed.
// With no passphrase configured the gate is open.
func (a *App) accessGate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		a.mu.Lock()
		unlocked := a.session.Unlocked()
		a.mu.Unlock()

		if !unlocked {
			writeError(w, http.StatusUnauthorized, "session locked")
			return
		}
		next.ServeHTTP(w, r)
	})
}
