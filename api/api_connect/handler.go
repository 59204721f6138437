package api_connect

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dracory/api"
	"github.com/dracory/weequery/internal/database"
	"github.com/dracory/weequery/internal/profiles"
	"github.com/dracory/weequery/shared/driver"
	"github.com/dracory/weequery/shared/session"
	"github.com/dracory/weequery/shared/types"
)

// ProfileStore looks up saved profiles and stores the fields of a successful
// connection back into the profile it came from.
type ProfileStore interface {
	Get(name string) (profiles.Profile, error)
	Save(profile profiles.Profile) error
}

// apiConnectController handles database connection requests
type apiConnectController struct {
	cfg      types.Config
	profiles ProfileStore
}

// New creates a new connection handler
func New(cfg types.Config, store ProfileStore) *apiConnectController {
	return &apiConnectController{
		cfg:      cfg,
		profiles: store,
	}
}

// ConnectRequest represents a database connection request
type ConnectRequest struct {
	Profile  string `json:"profile"`
	Driver   string `json:"driver"`
	DSN      string `json:"dsn"`
	Host     string `json:"host"`
	Port     string `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
	Database string `json:"database"`
}

// ServeHTTP opens a connection and makes it the session's active connection,
// closing any previous one.
func (h *apiConnectController) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		api.Respond(w, r, api.Error("connect must be POST"))
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

	req := ConnectRequest{
		Profile:  strings.TrimSpace(r.Form.Get("profile")),
		Driver:   strings.TrimSpace(r.Form.Get("driver")),
		DSN:      strings.TrimSpace(r.Form.Get("dsn")),
		Host:     strings.TrimSpace(r.Form.Get("host")),
		Port:     strings.TrimSpace(r.Form.Get("port")),
		Username: strings.TrimSpace(r.Form.Get("username")),
		Password: r.Form.Get("password"),
		Database: strings.TrimSpace(r.Form.Get("database")),
	}

	params, err := h.params(req)
	if err != nil {
		api.Respond(w, r, api.Error(err.Error()))
		return
	}

	if err := driver.NewValidator(driver.NewList(h.cfg.EnabledDrivers)).Validate(params.Type); err != nil {
		api.Respond(w, r, api.Error("unsupported driver"))
		return
	}

	conn, err := database.Open(r.Context(), params)
	if err != nil {
		slog.Warn("connect failed", slog.String("driver", params.Type), slog.String("host", params.Host), slog.String("error", err.Error()))
		api.Respond(w, r, api.Error(err.Error()))
		return
	}
	if h.cfg.MaxRows > 0 {
		conn.MaxRows = h.cfg.MaxRows
	}

	active := &session.ActiveConnection{
		Profile:  req.Profile,
		Driver:   conn.Type,
		Label:    label(conn.Type, params),
		DB:       conn,
		LastUsed: time.Now(),
	}

	if req.Profile != "" {
		if err := h.profiles.Save(profileFrom(req.Profile, params)); err != nil {
			slog.Warn("saving profile", slog.String("profile", req.Profile), slog.String("error", err.Error()))
		}
	}

	s.Lock()
	err = s.Connect(active)
	s.Unlock()
	if err != nil {
		slog.Warn("closing previous connection", slog.String("error", err.Error()))
	}

	api.Respond(w, r, api.SuccessWithData("connected", active.Info()))
}

// params merges the named profile, if any, with the submitted fields. Non-empty
// fields win, so a profile can be connected without sending its password.
func (h *apiConnectController) params(req ConnectRequest) (database.Params, error) {
	p := database.Params{
		ODBCDriver:     h.cfg.ODBCDriver,
		ConnectTimeout: h.cfg.ConnectTimeout,
	}

	if req.Profile != "" {
		if h.profiles == nil {
			return p, errors.New("profiles are not available")
		}
		prof, err := h.profiles.Get(req.Profile)
		if err != nil {
			return p, err
		}
		p.Type = prof.Type
		p.Host = prof.Host
		p.Port = prof.Port
		p.Database = prof.Database
		p.User = prof.User
		p.Password = prof.Password
		p.DSN = prof.DSN
	}

	override := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	override(&p.Type, req.Driver)
	override(&p.Host, req.Host)
	override(&p.Port, req.Port)
	override(&p.Database, req.Database)
	override(&p.User, req.Username)
	override(&p.Password, req.Password)
	override(&p.DSN, req.DSN)

	p.Type = driver.Normalize(p.Type)
	return p, nil
}

func profileFrom(name string, p database.Params) profiles.Profile {
	return profiles.Profile{
		Name:     name,
		Type:     p.Type,
		Host:     p.Host,
		Port:     p.Port,
		Database: p.Database,
		User:     p.User,
		Password: p.Password,
		DSN:      p.DSN,
	}
}

func label(typ string, p database.Params) string {
	l := driver.Label(typ)
	if p.Host != "" {
		l += " " + p.Host
		if p.Port != "" {
			l += ":" + p.Port
		}
	}
	if p.Database != "" {
		l += " / " + p.Database
	}
	return l
}
