package weequery

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/dracory/env"
	"github.com/dracory/weequery/internal/database"
	"github.com/dracory/weequery/shared/types"
	"github.com/samber/lo"
)

const (
	// DefaultProfilesFile is used when PROFILES_FILE is not set.
	DefaultProfilesFile = "profiles.json"
	// DefaultSessionSecret keys CSRF tokens when SESSION_SECRET is not set.
	// It is public, so deployments must override it.
	DefaultSessionSecret = "dev-insecure-change-me"
)

// Flags holds command line values that are not part of types.Config.
type Flags struct {
	// Import is a .properties file to import as a profile before serving.
	Import string
}

// LoadConfig reads flags/env with sensible defaults.
// Flags take precedence over env.
func LoadConfig() (types.Config, Flags, error) {
	return loadConfig(flag.CommandLine, os.Args[1:])
}

func loadConfig(fs *flag.FlagSet, args []string) (types.Config, Flags, error) {
	var cfg types.Config
	var flags Flags

	// Optionally load from .env files (missing files are ignored inside the lib)
	env.Load(".env")

	cfg.HTTPPort = env.GetIntOrDefault("HTTP_PORT", 8080)
	cfg.BasePath = env.GetStringOrDefault("BASE_URL", "/")
	cfg.SessionSecret = env.GetStringOrDefault("SESSION_SECRET", DefaultSessionSecret)
	cfg.SafeModeDefault = env.GetBoolOrDefault("SAFE_MODE_DEFAULT", true)
	cfg.SecureCookies = env.GetBoolOrDefault("SECURE_COOKIES", false)
	cfg.EnabledDrivers = splitList(env.GetStringOrDefault("DRIVERS", ""))
	cfg.ProfilesFile = env.GetStringOrDefault("PROFILES_FILE", DefaultProfilesFile)
	cfg.QueriesDir = env.GetStringOrDefault("QUERIES_DIR", "")
	cfg.ODBCDriver = env.GetStringOrDefault("ODBC_DRIVER", database.DefaultODBCDriver)
	cfg.MaxRows = env.GetIntOrDefault("MAX_ROWS", database.DefaultMaxRows)
	cfg.ConnectTimeout = time.Duration(env.GetIntOrDefault("CONNECT_TIMEOUT", 10)) * time.Second

	// Flags
	port := fs.Int("port", cfg.HTTPPort, "HTTP port to listen on")
	base := fs.String("base", cfg.BasePath, "Base path to mount handler under (e.g. /query)")
	safe := fs.Bool("safe", cfg.SafeModeDefault, "Safe mode default (block drop, alter and truncate)")
	profilesFile := fs.String("profiles", cfg.ProfilesFile, "Connection profiles file")
	queries := fs.String("queries", cfg.QueriesDir, "Directory of .sql/.txt query files offered by the page")
	importFile := fs.String("import", "", "Import a .properties connection file as a profile")

	if err := fs.Parse(args); err != nil {
		return cfg, flags, err
	}

	cfg.HTTPPort = *port
	cfg.BasePath = *base
	cfg.SafeModeDefault = *safe
	cfg.ProfilesFile = *profilesFile
	cfg.QueriesDir = *queries
	flags.Import = *importFile

	if cfg.SessionSecret == "" {
		return cfg, flags, fmt.Errorf("SESSION_SECRET is required")
	}
	if cfg.SessionSecret == DefaultSessionSecret {
		slog.Warn("SESSION_SECRET is not set; CSRF tokens use the built-in development secret")
	}
	if cfg.MaxRows <= 0 {
		return cfg, flags, fmt.Errorf("MAX_ROWS must be positive, got %d", cfg.MaxRows)
	}
	return cfg, flags, nil
}

// splitList parses a comma separated list, dropping blanks.
func splitList(s string) []string {
	return lo.FilterMap(strings.Split(s, ","), func(item string, _ int) (string, bool) {
		item = strings.TrimSpace(item)
		return item, item != ""
	})
}
