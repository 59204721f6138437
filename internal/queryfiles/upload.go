package queryfiles

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
)

// MaxUploadBytes bounds the size of an uploaded query file.
const MaxUploadBytes = 8 << 20

// ErrTooLarge is returned for uploads over MaxUploadBytes.
var ErrTooLarge = errors.New("query file is too large")

// FromRequest returns the query file posted in the "file" multipart field, or
// the text posted in the "content" field. ok is false when neither is present.
func FromRequest(r *http.Request) (name, content string, ok bool, err error) {
	if err := r.ParseMultipartForm(MaxUploadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return "", "", false, err
	}

	file, header, err := r.FormFile("file")
	switch {
	case err == nil:
		defer file.Close()
		data, err := io.ReadAll(io.LimitReader(file, MaxUploadBytes+1))
		if err != nil {
			return "", "", false, err
		}
		if len(data) > MaxUploadBytes {
			return "", "", false, ErrTooLarge
		}
		content, err := Decode(data)
		if err != nil {
			return "", "", false, err
		}
		return filepath.Base(header.Filename), content, true, nil

	case !errors.Is(err, http.ErrMissingFile) && !errors.Is(err, http.ErrNotMultipart):
		return "", "", false, err
	}

	if _, present := r.Form["content"]; present {
		name := r.FormValue("name")
		if name == "" {
			name = "pasted"
		}
		return name, r.FormValue("content"), true, nil
	}
	return "", "", false, nil
}
