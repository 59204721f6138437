package api_profiles_list

import (
	"net/http"

	"github.com/dracory/api"
	"github.com/dracory/weequery/internal/profiles"
	"github.com/dracory/weequery/shared/driver"
	"github.com/dracory/weequery/shared/types"
)

// Profile is a saved connection profile as sent to the page. The password
// never leaves the server.
type Profile struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	TypeLabel   string `json:"type_label"`
	Host        string `json:"host,omitempty"`
	Port        string `json:"port,omitempty"`
	Database    string `json:"database,omitempty"`
	User        string `json:"user,omitempty"`
	HasPassword bool   `json:"has_password"`
	HasDSN      bool   `json:"has_dsn"`
}

// ProfileLister lists saved profiles.
type ProfileLister interface {
	List() ([]profiles.Profile, error)
}

// Handler handles the profiles list API requests
type Handler struct {
	config types.Config
	store  ProfileLister
}

// New creates a new profiles list handler
func New(config types.Config, store ProfileLister) *Handler {
	return &Handler{
		config: config,
		store:  store,
	}
}

// ServeHTTP handles the HTTP request
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		api.Respond(w, r, api.Error("method not allowed"))
		return
	}

	list, err := h.store.List()
	if err != nil {
		api.Respond(w, r, api.Error("failed to get profiles: "+err.Error()))
		return
	}

	api.Respond(w, r, api.SuccessWithData("", map[string]any{
		"profiles": ToPublic(list),
	}))
}

// ToPublic strips secrets from stored profiles.
func ToPublic(list []profiles.Profile) []Profile {
	out := make([]Profile, 0, len(list))
	for _, p := range list {
		out = append(out, Profile{
			Name:        p.Name,
			Type:        driver.Normalize(p.Type),
			TypeLabel:   driver.Label(p.Type),
			Host:        p.Host,
			Port:        p.Port,
			Database:    p.Database,
			User:        p.User,
			HasPassword: p.Password != "",
			HasDSN:      p.DSN != "",
		})
	}
	return out
}
