package driver

import (
	"slices"

	"github.com/samber/lo"
)

// Registry defines the interface for driver registry operations
type Registry interface {
	IsEnabled(name string) bool
}

// List is a Registry over a fixed set of enabled type names.
type List []string

// NewList normalizes names, dropping empty and duplicate entries.
func NewList(names []string) List {
	out := lo.Uniq(lo.FilterMap(names, func(n string, _ int) (string, bool) {
		n = Normalize(n)
		return n, n != ""
	}))
	return List(out)
}

// IsEnabled returns true if the type is enabled.
func (l List) IsEnabled(name string) bool {
	return slices.Contains(l, Normalize(name))
}
