// Package queryfiles reads query files from a directory on the server.
package queryfiles

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unicode/utf8"
)

var (
	// ErrNoDirectory is returned when no queries directory is configured.
	ErrNoDirectory = errors.New("no queries directory configured")
	// ErrOutsideDirectory is returned for paths escaping the queries directory.
	ErrOutsideDirectory = errors.New("path is outside the queries directory")
	// ErrNotUTF8 is returned for files that are not UTF-8 text.
	ErrNotUTF8 = errors.New("file is not valid UTF-8 text")
)

// Extensions are the file extensions listed as query files.
var Extensions = []string{".sql", ".txt"}

// File is a query file relative to the queries directory.
type File struct {
	Path    string    `json:"path"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
}

// List walks dir and returns the query files under it, sorted by path.
func List(dir string) ([]File, error) {
	if dir == "" {
		return nil, ErrNoDirectory
	}

	var out []File
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !hasExtension(d.Name()) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		out = append(out, File{Path: filepath.ToSlash(rel), Size: info.Size(), ModTime: info.ModTime()})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

// Read returns the content of the file at rel inside dir.
func Read(dir, rel string) (string, error) {
	path, err := Resolve(dir, rel)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return Decode(data)
}

// Resolve joins rel onto dir, refusing anything that leaves dir.
func Resolve(dir, rel string) (string, error) {
	if dir == "" {
		return "", ErrNoDirectory
	}
	rel = filepath.FromSlash(strings.TrimSpace(rel))
	if rel == "" || filepath.IsAbs(rel) {
		return "", fmt.Errorf("%w: %q", ErrOutsideDirectory, rel)
	}
	path := filepath.Join(dir, rel)
	back, err := filepath.Rel(dir, path)
	if err != nil || back == ".." || strings.HasPrefix(back, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", ErrOutsideDirectory, rel)
	}
	return path, nil
}

// Decode checks data is UTF-8 text and returns it as a string.
func Decode(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", ErrNotUTF8
	}
	return string(data), nil
}

func hasExtension(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}
