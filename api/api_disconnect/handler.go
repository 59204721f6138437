package api_disconnect

import (
	"log/slog"
	"net/http"

	"github.com/dracory/api"
	"github.com/dracory/weequery/shared/session"
	"github.com/dracory/weequery/shared/types"
)

// Handler handles database disconnection requests
type Handler struct {
	cfg types.Config
}

// New creates a new disconnect handler
func New(cfg types.Config) *Handler {
	return &Handler{
		cfg: cfg,
	}
}

// ServeHTTP closes the session's active connection
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		api.Respond(w, r, api.Error("disconnect must be POST"))
		return
	}

	s := session.EnsureSession(w, r, h.cfg.SecureCookies)
	if !s.VerifyCSRF(r, h.cfg.SessionSecret) {
		api.Respond(w, r, api.Error("invalid csrf token"))
		return
	}

	s.Lock()
	defer s.Unlock()

	if err := s.Disconnect(); err != nil {
		slog.Warn("disconnect", slog.String("error", err.Error()))
		api.Respond(w, r, api.Error(err.Error()))
		return
	}

	api.Respond(w, r, api.Success("disconnected"))
}
