package weequery

import (
	"time"

	"github.com/dracory/weequery/internal/database"
	"github.com/dracory/weequery/shared/driver"
	"github.com/dracory/weequery/shared/types"
)

// Option adjusts the configuration passed to New.
type Option func(*types.Config)

// WithDrivers limits the enabled database types.
func WithDrivers(names ...string) Option {
	return func(c *types.Config) { c.EnabledDrivers = names }
}

// WithSafeMode turns the drop/alter/truncate guard on or off.
func WithSafeMode(on bool) Option {
	return func(c *types.Config) { c.SafeModeDefault = on }
}

// WithProfilesFile sets the saved profiles file.
func WithProfilesFile(path string) Option {
	return func(c *types.Config) { c.ProfilesFile = path }
}

// WithQueriesDir lets the page open query files from dir.
func WithQueriesDir(dir string) Option {
	return func(c *types.Config) { c.QueriesDir = dir }
}

// withDefaults fills unset fields.
func withDefaults(c types.Config) types.Config {
	if c.BasePath == "" {
		c.BasePath = "/"
	}
	if len(c.EnabledDrivers) == 0 {
		c.EnabledDrivers = driver.All
	}
	if c.ProfilesFile == "" {
		c.ProfilesFile = DefaultProfilesFile
	}
	if c.ODBCDriver == "" {
		c.ODBCDriver = database.DefaultODBCDriver
	}
	if c.MaxRows <= 0 {
		c.MaxRows = database.DefaultMaxRows
	}
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = 10 * time.Second
	}
	return c
}
