package session

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/dracory/weequery/internal/database"
)

const (
	// SessionCookieName is the name of the session cookie
	SessionCookieName = "wq_sid"
	// SessionIDLength is the length of the session ID in bytes
	SessionIDLength = 32
)

// Session is the state of one browser workspace. Handlers hold the embedded
// mutex for the whole operation so actions never interleave.
type Session struct {
	sync.Mutex

	ID         string
	CreatedAt  time.Time
	Conn       *ActiveConnection
	Workspace  Workspace
	LastResult *database.Result
}

// ActiveConnection holds the per-session open database connection.
type ActiveConnection struct {
	Profile  string
	Driver   string
	Label    string
	DB       *database.Connection
	LastUsed time.Time
}

// Info is the connection state sent to the page.
func (c *ActiveConnection) Info() map[string]any {
	info := map[string]any{
		"driver":    c.Driver,
		"label":     c.Label,
		"profile":   c.Profile,
		"last_used": c.LastUsed.Format(time.RFC3339),
	}
	if c.DB != nil {
		info["connected_at"] = c.DB.ConnectedAt.Format(time.RFC3339)
	}
	return info
}

var (
	sessionsMu sync.RWMutex
	sessions   = map[string]*Session{}
)

// newRandomID generates a new random ID for sessions
func newRandomID() string {
	b := make([]byte, SessionIDLength/2)
	if _, err := rand.Read(b); err != nil {
		panic(err) // This should never happen with crypto/rand
	}
	return hex.EncodeToString(b)
}

// EnsureSession returns the existing session from cookie or creates a new one.
func EnsureSession(w http.ResponseWriter, r *http.Request, secureCookies bool) *Session {
	if s := FromRequest(r); s != nil {
		return s
	}

	s := &Session{
		ID:        newRandomID(),
		CreatedAt: time.Now(),
	}
	Put(s)

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    s.ID,
		Path:     "/",
		HttpOnly: true,
		Secure:   secureCookies || r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})

	return s
}

// FromRequest returns the session named by the request cookie, or nil.
func FromRequest(r *http.Request) *Session {
	c, err := r.Cookie(SessionCookieName)
	if err != nil || c.Value == "" {
		return nil
	}
	s, _ := GetSession(c.Value)
	return s
}

// Put stores a session, replacing one with the same ID.
func Put(s *Session) {
	sessionsMu.Lock()
	defer sessionsMu.Unlock()
	sessions[s.ID] = s
}

// GetSession retrieves an existing session by ID
func GetSession(sessionID string) (*Session, bool) {
	sessionsMu.RLock()
	defer sessionsMu.RUnlock()
	session, exists := sessions[sessionID]
	return session, exists
}

// DeleteSession closes the session's connection and removes it
func DeleteSession(sessionID string) {
	sessionsMu.Lock()
	s, ok := sessions[sessionID]
	delete(sessions, sessionID)
	sessionsMu.Unlock()

	if ok {
		s.Lock()
		_ = s.Disconnect()
		s.Unlock()
	}
}

// CloseAll closes every open connection. Called on shutdown.
func CloseAll() error {
	sessionsMu.RLock()
	all := make([]*Session, 0, len(sessions))
	for _, s := range sessions {
		all = append(all, s)
	}
	sessionsMu.RUnlock()

	var errs []error
	for _, s := range all {
		s.Lock()
		errs = append(errs, s.Disconnect())
		s.Unlock()
	}
	return errors.Join(errs...)
}

// Connect replaces the active connection wholesale, closing the previous one.
// The caller holds the session lock.
func (s *Session) Connect(conn *ActiveConnection) error {
	prev := s.Conn
	s.Conn = conn
	s.LastResult = nil
	if prev != nil {
		return prev.DB.Close()
	}
	return nil
}

// Disconnect closes the active connection, if any. The caller holds the session lock.
func (s *Session) Disconnect() error {
	if s.Conn == nil {
		return nil
	}
	err := s.Conn.DB.Close()
	s.Conn = nil
	s.LastResult = nil
	return err
}

// Connected reports whether the session has an open connection.
func (s *Session) Connected() bool {
	return s.Conn != nil && s.Conn.DB != nil
}
