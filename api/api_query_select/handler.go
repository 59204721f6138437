package api_query_select

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/dracory/api"
	"github.com/dracory/weequery/api/api_queries_load"
	"github.com/dracory/weequery/shared/session"
	"github.com/dracory/weequery/shared/types"
)

// Handler changes the selected query
type Handler struct {
	cfg types.Config
}

// New creates a new query select handler
func New(cfg types.Config) *Handler {
	return &Handler{cfg: cfg}
}

// ServeHTTP selects the query at "index" and returns the regenerated parameter rows.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		api.Respond(w, r, api.Error("query_select must be POST"))
		return
	}

	s := session.EnsureSession(w, r, h.cfg.SecureCookies)
	if !s.VerifyCSRF(r, h.cfg.SessionSecret) {
		api.Respond(w, r, api.Error("invalid csrf token"))
		return
	}

	index, err := strconv.Atoi(strings.TrimSpace(r.FormValue("index")))
	if err != nil {
		api.Respond(w, r, api.Error("index must be a number"))
		return
	}

	s.Lock()
	defer s.Unlock()

	if err := s.Workspace.Select(index, api_queries_load.KeepValues(r)); err != nil {
		api.Respond(w, r, api.Error(err.Error()))
		return
	}

	api.Respond(w, r, api.SuccessWithData("selected", s.Workspace.Payload()))
}
