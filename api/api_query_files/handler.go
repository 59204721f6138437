package api_query_files

import (
	"net/http"

	"github.com/dracory/api"
	"github.com/dracory/weequery/internal/queryfiles"
	"github.com/dracory/weequery/shared/types"
)

// Handler lists the query files available on the server
type Handler struct {
	cfg types.Config
}

// New creates a new query files handler
func New(cfg types.Config) *Handler {
	return &Handler{cfg: cfg}
}

// ServeHTTP lists files under the queries directory. Without a directory the
// list is empty and the page only offers uploads.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		api.Respond(w, r, api.Error("method not allowed"))
		return
	}

	if h.cfg.QueriesDir == "" {
		api.Respond(w, r, api.SuccessWithData("", map[string]any{
			"enabled": false,
			"files":   []queryfiles.File{},
		}))
		return
	}

	files, err := queryfiles.List(h.cfg.QueriesDir)
	if err != nil {
		api.Respond(w, r, api.Error(err.Error()))
		return
	}

	api.Respond(w, r, api.SuccessWithData("", map[string]any{
		"enabled": true,
		"files":   files,
	}))
}
