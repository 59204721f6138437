package driver

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dracory/weequery/shared/constants"
)

// All lists every supported database type, primary backends first.
var All = []string{
	constants.DriverPostgres,
	constants.DriverODBC,
	constants.DriverMySQL,
	constants.DriverSQLite,
	constants.DriverSQLServer,
}

// Validator provides functionality to validate database types
type Validator struct {
	drivers Registry
}

// NewValidator creates a new driver validator
func NewValidator(drivers Registry) *Validator {
	return &Validator{
		drivers: drivers,
	}
}

// Validate checks if a driver is valid and enabled
func (v *Validator) Validate(name string) error {
	if name == "" {
		return errors.New("database type is required")
	}
	if !v.drivers.IsEnabled(Normalize(name)) {
		return fmt.Errorf("database type not enabled: %s", name)
	}
	return nil
}

// Normalize maps common aliases to canonical type names.
func Normalize(d string) string {
	switch strings.ToLower(strings.TrimSpace(d)) {
	case "pg", "postgresql", "psycopg2":
		return constants.DriverPostgres
	case "pyodbc", "iris":
		return constants.DriverODBC
	case "mariadb":
		return constants.DriverMySQL
	case "sqlite3":
		return constants.DriverSQLite
	case "mssql":
		return constants.DriverSQLServer
	default:
		return strings.ToLower(strings.TrimSpace(d))
	}
}

// Label returns the name shown for a type in the connection form.
func Label(d string) string {
	switch Normalize(d) {
	case constants.DriverPostgres:
		return "PostgreSQL"
	case constants.DriverODBC:
		return "ODBC"
	case constants.DriverMySQL:
		return "MySQL"
	case constants.DriverSQLite:
		return "SQLite"
	case constants.DriverSQLServer:
		return "SQL Server"
	default:
		return d
	}
}
