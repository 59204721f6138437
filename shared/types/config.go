package types

import "time"

// Config contains the configuration for web handlers
type Config struct {
	// HTTPPort is the port the server listens on
	HTTPPort int
	// BasePath is the base URL path for the application
	BasePath string
	// EnabledDrivers is the list of enabled database types
	EnabledDrivers []string
	// SafeModeDefault blocks drop/alter/truncate statements
	SafeModeDefault bool
	// SessionSecret is the secret used for CSRF tokens
	SessionSecret string
	// SecureCookies marks cookies Secure regardless of the request scheme
	SecureCookies bool

	// ProfilesFile is the JSON file holding saved connection profiles
	ProfilesFile string
	// QueriesDir, when set, lets the page load query files from the server
	QueriesDir string
	// ODBCDriver is the DRIVER={...} name used for odbc connections
	ODBCDriver string
	// MaxRows caps the rows returned for one statement
	MaxRows int
	// ConnectTimeout bounds connect and ping
	ConnectTimeout time.Duration
}
