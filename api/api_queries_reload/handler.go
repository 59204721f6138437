package api_queries_reload

import (
	"net/http"

	"github.com/dracory/api"
	"github.com/dracory/weequery/api/api_queries_load"
	"github.com/dracory/weequery/internal/queryfiles"
	"github.com/dracory/weequery/shared/session"
	"github.com/dracory/weequery/shared/types"
)

// Handler re-reads the current query file
type Handler struct {
	cfg types.Config
}

// New creates a new queries reload handler
func New(cfg types.Config) *Handler {
	return &Handler{cfg: cfg}
}

// ServeHTTP re-reads the file the workspace came from (or takes a re-uploaded
// copy) and re-splits it, keeping the selection and entered values.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		api.Respond(w, r, api.Error("queries_reload must be POST"))
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

	s.Lock()
	defer s.Unlock()

	path := s.Workspace.Path
	switch {
	case ok:
		path = ""
	case path != "":
		content, err = queryfiles.Read(h.cfg.QueriesDir, path)
		if err != nil {
			api.Respond(w, r, api.Error(err.Error()))
			return
		}
		name = path
	default:
		api.Respond(w, r, api.Error("nothing to reload: load a file first"))
		return
	}

	s.Workspace.Reload(name, path, content, api_queries_load.KeepValues(r))
	if len(s.Workspace.Queries) == 0 {
		api.Respond(w, r, api.Error("no queries found in "+name))
		return
	}

	api.Respond(w, r, api.SuccessWithData("reloaded", s.Workspace.Payload()))
}
