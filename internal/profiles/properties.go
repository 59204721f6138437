package profiles

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/magiconair/properties"
)

// FromProperties reads a connection profile from a Java-style .properties file:
//
//	PROFILE_NAME=reporting   (optional, defaults to the file name)
//	DB_TYPE=postgres
//	DB_HOST=localhost
//	DB_PORT=5432
//	DB_NAME=app
//	USER=app
//	PASSWORD=secret
func FromProperties(path string) (Profile, error) {
	props, err := properties.LoadFile(path, properties.UTF8)
	if err != nil {
		return Profile{}, fmt.Errorf("load properties: %w", err)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	p := Profile{
		Name:     props.GetString("PROFILE_NAME", name),
		Type:     props.GetString("DB_TYPE", ""),
		Host:     props.GetString("DB_HOST", ""),
		Port:     props.GetString("DB_PORT", ""),
		Database: props.GetString("DB_NAME", ""),
		User:     props.GetString("USER", ""),
		Password: props.GetString("PASSWORD", ""),
		DSN:      props.GetString("DSN", ""),
	}
	if p.Type == "" {
		return Profile{}, fmt.Errorf("%s: DB_TYPE is required", path)
	}
	return p, nil
}

// ImportProperties reads the .properties file at path and saves it as a profile.
func (s *Store) ImportProperties(path string) (Profile, error) {
	p, err := FromProperties(path)
	if err != nil {
		return Profile{}, err
	}
	if err := s.Save(p); err != nil {
		return Profile{}, err
	}
	return p, nil
}
