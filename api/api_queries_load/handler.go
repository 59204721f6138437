package api_queries_load

import (
	"net/http"
	"strings"

	"github.com/dracory/api"
	"github.com/dracory/weequery/internal/queryfiles"
	"github.com/dracory/weequery/shared/session"
	"github.com/dracory/weequery/shared/types"
)

// Handler loads a query file into the session workspace
type Handler struct {
	cfg types.Config
}

// New creates a new queries load handler
func New(cfg types.Config) *Handler {
	return &Handler{cfg: cfg}
}

// ServeHTTP splits an uploaded file, pasted text, or a file from the queries
// directory ("path") into statements and selects the first one.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		api.Respond(w, r, api.Error("queries_load must be POST"))
		return
	}

	s := session.EnsureSession(w, r, h.cfg.SecureCookies)
	if !s.VerifyCSRF(r, h.cfg.SessionSecret) {
		api.Respond(w, r, api.Error("invalid csrf token"))
		return
	}

	name, content, ok, err := queryfiles.FromRequest(r)
	if err != nil {
		api.Respond(w, r, api.Error(err.Error()))
		return
	}

	path := ""
	if !ok {
		path = strings.TrimSpace(r.FormValue("path"))
		if path == "" {
			api.Respond(w, r, api.Error("file, content or path is required"))
			return
		}
		content, err = queryfiles.Read(h.cfg.QueriesDir, path)
		if err != nil {
			api.Respond(w, r, api.Error(err.Error()))
			return
		}
		name = path
	}

	s.Lock()
	defer s.Unlock()

	s.Workspace.Load(name, path, content, KeepValues(r))
	if len(s.Workspace.Queries) == 0 {
		api.Respond(w, r, api.Error("no queries found in "+name))
		return
	}

	api.Respond(w, r, api.SuccessWithData("loaded", s.Workspace.Payload()))
}

// KeepValues reads the keep_values flag; values are kept unless it is "false".
func KeepValues(r *http.Request) bool {
	return !strings.EqualFold(strings.TrimSpace(r.FormValue("keep_values")), "false")
}
