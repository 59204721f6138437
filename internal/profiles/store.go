// Package profiles persists named connection profiles in a JSON file.
//
// The file is an object mapping profile name to its connection fields. A legacy
// flat file holding the fields of a single unnamed profile is also accepted and
// read as a profile named "default".
package profiles

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/samber/lo"
)

// DefaultName names the profile read from a legacy single-profile file.
const DefaultName = "default"

var (
	// ErrNotFound is returned when no profile has the requested name.
	ErrNotFound = errors.New("profile not found")
	// ErrInvalid is returned when a profile misses its name or type.
	ErrInvalid = errors.New("profile name and type are required")
)

// Profile is a saved set of connection parameters.
type Profile struct {
	Name     string `json:"-"`
	Type     string `json:"type"`
	Host     string `json:"host"`
	Port     string `json:"port"`
	Database string `json:"database"`
	User     string `json:"user"`
	Password string `json:"password"`
	// DSN, when set, is used as is instead of the discrete fields.
	DSN string `json:"dsn,omitempty"`
}

// Store reads and writes profiles from a single JSON file.
type Store struct {
	mu   sync.Mutex
	path string
}

// NewStore returns a store for the file at path. The file is created on first save.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the file backing the store.
func (s *Store) Path() string {
	return s.path
}

// List returns all profiles sorted by name.
func (s *Store) List() ([]Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.read()
	if err != nil {
		return nil, err
	}

	names := lo.Keys(all)
	sort.Strings(names)

	out := make([]Profile, 0, len(names))
	for _, n := range names {
		out = append(out, all[n])
	}
	return out, nil
}

// Get returns the profile called name.
func (s *Store) Get(name string) (Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.read()
	if err != nil {
		return Profile{}, err
	}
	p, ok := all[name]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return p, nil
}

// Save inserts p or replaces the profile with the same name.
func (s *Store) Save(p Profile) error {
	p.Name = strings.TrimSpace(p.Name)
	p.Type = strings.TrimSpace(p.Type)
	if p.Name == "" || p.Type == "" {
		return ErrInvalid
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.read()
	if err != nil {
		return err
	}
	all[p.Name] = p
	return s.write(all)
}

// Delete removes the profile called name.
func (s *Store) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.read()
	if err != nil {
		return err
	}
	if _, ok := all[name]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	delete(all, name)
	return s.write(all)
}

func (s *Store) read() (map[string]Profile, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]Profile{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read profiles: %w", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return map[string]Profile{}, nil
	}
	return decode(data)
}

// decode accepts both the named mapping and the legacy flat object.
func decode(data []byte) (map[string]Profile, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse profiles: %w", err)
	}

	if isFlat(raw) {
		var legacy flatProfile
		if err := json.Unmarshal(data, &legacy); err != nil {
			return nil, fmt.Errorf("parse profiles: %w", err)
		}
		return map[string]Profile{DefaultName: legacy.profile()}, nil
	}

	out := make(map[string]Profile, len(raw))
	for name, msg := range raw {
		var p Profile
		if err := json.Unmarshal(msg, &p); err != nil {
			return nil, fmt.Errorf("parse profile %q: %w", name, err)
		}
		p.Name = name
		out[name] = p
	}
	return out, nil
}

// flatProfile is the single-connection file written by earlier releases:
// {"host","port","db","user","password"}, PostgreSQL only.
type flatProfile struct {
	Type     string `json:"type"`
	Host     string `json:"host"`
	Port     string `json:"port"`
	DB       string `json:"db"`
	Database string `json:"database"`
	User     string `json:"user"`
	Password string `json:"password"`
	DSN      string `json:"dsn"`
}

func (f flatProfile) profile() Profile {
	p := Profile{
		Name:     DefaultName,
		Type:     lo.CoalesceOrEmpty(f.Type, legacyType),
		Host:     f.Host,
		Port:     lo.CoalesceOrEmpty(f.Port, legacyPort),
		Database: lo.CoalesceOrEmpty(f.DB, f.Database),
		User:     f.User,
		Password: f.Password,
		DSN:      f.DSN,
	}
	return p
}

const (
	legacyType = "postgres"
	legacyPort = "5432"
)

// isFlat reports whether the top-level values are scalars, as in a file
// holding a single profile's fields.
func isFlat(raw map[string]json.RawMessage) bool {
	if len(raw) == 0 {
		return false
	}
	for _, v := range raw {
		t := strings.TrimSpace(string(v))
		if strings.HasPrefix(t, "{") {
			return false
		}
	}
	return true
}

func (s *Store) write(all map[string]Profile) error {
	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create profiles directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".profiles-*.json")
	if err != nil {
		return fmt.Errorf("write profiles: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("write profiles: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("write profiles: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write profiles: %w", err)
	}
	return os.Rename(tmp.Name(), s.path)
}
