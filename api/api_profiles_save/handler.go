package api_profiles_save

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dracory/api"
	"github.com/dracory/weequery/internal/profiles"
	"github.com/dracory/weequery/shared/driver"
	"github.com/dracory/weequery/shared/session"
	"github.com/dracory/weequery/shared/types"
)

// ProfileStore defines the profile storage operations used here
type ProfileStore interface {
	Get(name string) (profiles.Profile, error)
	Save(profile profiles.Profile) error
}

// DriverValidator checks a database type is enabled
type DriverValidator interface {
	Validate(string) error
}

// ProfilesSave handles profile save requests
type ProfilesSave struct {
	cfg      types.Config
	store    ProfileStore
	validate DriverValidator
}

// New creates a new ProfilesSave handler
func New(cfg types.Config, store ProfileStore, validator DriverValidator) *ProfilesSave {
	return &ProfilesSave{
		cfg:      cfg,
		store:    store,
		validate: validator,
	}
}

// ServeHTTP saves the submitted connection fields under a profile name,
// replacing a profile with the same name. An empty password keeps the one
// already saved.
func (h *ProfilesSave) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		api.Respond(w, r, api.Error("profiles_save must be POST"))
		return
	}

	s := session.EnsureSession(w, r, h.cfg.SecureCookies)
	if !s.VerifyCSRF(r, h.cfg.SessionSecret) {
		api.Respond(w, r, api.Error("invalid csrf token"))
		return
	}

	if err := r.ParseForm(); err != nil {
		api.Respond(w, r, api.Error("failed to parse form"))
		return
	}

	p := profiles.Profile{
		Name:     strings.TrimSpace(r.Form.Get("name")),
		Type:     driver.Normalize(r.Form.Get("driver")),
		Host:     strings.TrimSpace(r.Form.Get("host")),
		Port:     strings.TrimSpace(r.Form.Get("port")),
		Database: strings.TrimSpace(r.Form.Get("database")),
		User:     strings.TrimSpace(r.Form.Get("username")),
		Password: r.Form.Get("password"),
		DSN:      strings.TrimSpace(r.Form.Get("dsn")),
	}

	if p.Name == "" || p.Type == "" {
		api.Respond(w, r, api.Error("name and driver are required"))
		return
	}

	if err := h.validate.Validate(p.Type); err != nil {
		api.Respond(w, r, api.Error(err.Error()))
		return
	}

	if p.Password == "" {
		existing, err := h.store.Get(p.Name)
		switch {
		case err == nil:
			p.Password = existing.Password
		case !errors.Is(err, profiles.ErrNotFound):
			api.Respond(w, r, api.Error(err.Error()))
			return
		}
	}

	if err := h.store.Save(p); err != nil {
		api.Respond(w, r, api.Error(err.Error()))
		return
	}

	api.Respond(w, r, api.SuccessWithData("profile saved", map[string]any{
		"name": p.Name,
	}))
}
