// Package weequery serves a browser workspace for running parameterized SQL
// query files against PostgreSQL, ODBC (InterSystems IRIS), MySQL, SQLite and
// SQL Server databases.
package weequery

import (
	"net/http"

	"github.com/dracory/api"
	"github.com/dracory/weequery/api/api_connect"
	"github.com/dracory/weequery/api/api_disconnect"
	"github.com/dracory/weequery/api/api_profile_delete"
	"github.com/dracory/weequery/api/api_profiles_list"
	"github.com/dracory/weequery/api/api_profiles_save"
	"github.com/dracory/weequery/api/api_queries_load"
	"github.com/dracory/weequery/api/api_queries_reload"
	"github.com/dracory/weequery/api/api_query_files"
	"github.com/dracory/weequery/api/api_query_run"
	"github.com/dracory/weequery/api/api_query_select"
	"github.com/dracory/weequery/api/api_result_export"
	"github.com/dracory/weequery/internal/profiles"
	"github.com/dracory/weequery/pages/page_home"
	"github.com/dracory/weequery/shared/constants"
	"github.com/dracory/weequery/shared/driver"
	"github.com/dracory/weequery/shared/types"
)

// App represents the main application instance
type App struct {
	config   types.Config
	profiles *profiles.Store
	drivers  *driver.Validator
}

// New creates a new App instance with the given configuration.
// The configuration should be loaded using LoadConfig() from config.go
func New(cfg types.Config, options ...Option) *App {
	for _, option := range options {
		option(&cfg)
	}
	cfg = withDefaults(cfg)

	return &App{
		config:   cfg,
		profiles: profiles.NewStore(cfg.ProfilesFile),
		drivers:  driver.NewValidator(driver.NewList(cfg.EnabledDrivers)),
	}
}

// Config returns the effective configuration.
func (g *App) Config() types.Config {
	return g.config
}

// Profiles returns the profile store backing the app.
func (g *App) Profiles() *profiles.Store {
	return g.profiles
}

// Handler returns an http.Handler that serves the workspace UI and API
func (g *App) Handler() http.Handler {
	return g.middleware(http.HandlerFunc(g.handleRequest))
}

// handleRequest routes requests to the appropriate handler
func (g *App) handleRequest(w http.ResponseWriter, r *http.Request) {
	action := r.URL.Query().Get("action")

	switch action {
	case constants.ActionHealthz:
		api.Respond(w, r, api.Success("ok"))

	// Connection
	case constants.ActionApiConnect:
		api_connect.New(g.config, g.profiles).ServeHTTP(w, r)
	case constants.ActionApiDisconnect:
		api_disconnect.New(g.config).ServeHTTP(w, r)

	// Profiles
	case constants.ActionApiProfilesList:
		api_profiles_list.New(g.config, g.profiles).ServeHTTP(w, r)
	case constants.ActionApiProfilesSave:
		api_profiles_save.New(g.config, g.profiles, g.drivers).ServeHTTP(w, r)
	case constants.ActionApiProfileDelete:
		api_profile_delete.New(g.config, g.profiles).ServeHTTP(w, r)

	// Queries
	case constants.ActionApiQueriesLoad:
		api_queries_load.New(g.config).ServeHTTP(w, r)
	case constants.ActionApiQueriesReload:
		api_queries_reload.New(g.config).ServeHTTP(w, r)
	case constants.ActionApiQueryFiles:
		api_query_files.New(g.config).ServeHTTP(w, r)
	case constants.ActionApiQuerySelect:
		api_query_select.New(g.config).ServeHTTP(w, r)
	case constants.ActionApiQueryRun:
		api_query_run.New(g.config).ServeHTTP(w, r)
	case constants.ActionApiResultExport:
		api_result_export.New(g.config).ServeHTTP(w, r)

	// Everything else renders the workspace
	default:
		page_home.New(g.config).ServeHTTP(w, r)
	}
}

// middleware applies common middleware to all handlers
func (g *App) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Add security headers
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "same-origin")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; script-src 'self' 'unsafe-inline' 'unsafe-eval' cdn.jsdelivr.net cdn.tailwindcss.com unpkg.com; style-src 'self' 'unsafe-inline' cdn.jsdelivr.net cdn.tailwindcss.com unpkg.com; img-src 'self' data:;")

		next.ServeHTTP(w, r)
	})
}
