package querytext

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrNotNumeric is returned when a value marked as a number parses as neither
// an integer nor a float.
var ErrNotNumeric = errors.New("value is not numeric")

// Kind is the type selected for a parameter in the form.
type Kind string

const (
	KindString Kind = "string"
	KindNumber Kind = "number"
)

// ParseKind maps a form value to a Kind. Anything unrecognised is a string.
func ParseKind(s string) Kind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "number", "numeric", "int", "float":
		return KindNumber
	default:
		return KindString
	}
}

// Param is the value entered for one placeholder number.
type Param struct {
	Value string `json:"value"`
	Kind  Kind   `json:"kind"`
}

// Coerce converts an entered value to the driver argument for its kind.
// Empty input is NULL regardless of kind. Numbers try an int64 first, then a
// float64.
func Coerce(value string, kind Kind) (any, error) {
	if value == "" {
		return nil, nil
	}
	if kind != KindNumber {
		return value, nil
	}

	s := strings.TrimSpace(value)
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i, nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrNotNumeric, value)
}
