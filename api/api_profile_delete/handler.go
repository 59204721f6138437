package api_profile_delete

import (
	"net/http"
	"strings"

	"github.com/dracory/api"
	"github.com/dracory/weequery/shared/session"
	"github.com/dracory/weequery/shared/types"
)

// ProfileDeleter removes saved profiles.
type ProfileDeleter interface {
	Delete(name string) error
}

// Handler handles profile delete requests
type Handler struct {
	cfg   types.Config
	store ProfileDeleter
}

// New creates a new profile delete handler
func New(cfg types.Config, store ProfileDeleter) *Handler {
	return &Handler{cfg: cfg, store: store}
}

// ServeHTTP deletes the named profile
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		api.Respond(w, r, api.Error("profile_delete must be POST"))
		return
	}

	s := session.EnsureSession(w, r, h.cfg.SecureCookies)
	if !s.VerifyCSRF(r, h.cfg.SessionSecret) {
		api.Respond(w, r, api.Error("invalid csrf token"))
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		api.Respond(w, r, api.Error("name is required"))
		return
	}

	if err := h.store.Delete(name); err != nil {
		api.Respond(w, r, api.Error(err.Error()))
		return
	}

	api.Respond(w, r, api.Success("profile deleted"))
}
