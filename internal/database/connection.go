// Package database opens a session to one of the supported databases and runs
// single statements against it, each in its own transaction.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/alexbrainman/odbc"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/dracory/weequery/internal/querytext"
	"github.com/dracory/weequery/shared/constants"
	"github.com/dracory/weequery/shared/driver"
)

// DefaultMaxRows caps the rows collected from a single result set.
const DefaultMaxRows = 1000

const defaultConnectTimeout = 10 * time.Second

// ErrUnsupportedType is returned for a database type with no driver.
var ErrUnsupportedType = errors.New("unsupported database type")

// Connection is an open database session.
type Connection struct {
	Type        string
	Bind        querytext.BindStyle
	MaxRows     int
	ConnectedAt time.Time

	db  *sql.DB
	orm *gorm.DB // nil for odbc
}

// Open connects and pings the database described by p.
func Open(ctx context.Context, p Params) (*Connection, error) {
	typ := driver.Normalize(p.Type)
	if p.ConnectTimeout <= 0 {
		p.ConnectTimeout = defaultConnectTimeout
	}

	dsn := p.DSN
	if dsn == "" {
		var err error
		dsn, err = BuildDSN(p)
		if err != nil {
			return nil, err
		}
	}

	c := &Connection{
		Type:    typ,
		Bind:    BindStyleFor(typ),
		MaxRows: DefaultMaxRows,
	}

	if typ == constants.DriverODBC {
		db, err := sql.Open("odbc", dsn)
		if err != nil {
			return nil, err
		}
		c.db = db
	} else {
		dialector, err := dialectorFor(typ, dsn)
		if err != nil {
			return nil, err
		}
		orm, err := gorm.Open(dialector, &gorm.Config{
			Logger:                 logger.Default.LogMode(logger.Silent),
			SkipDefaultTransaction: true,
		})
		if err != nil {
			return nil, err
		}
		db, err := orm.DB()
		if err != nil {
			return nil, err
		}
		c.orm = orm
		c.db = db
	}

	if typ == constants.DriverSQLite {
		// every pooled connection to :memory: would see its own database
		c.db.SetMaxOpenConns(1)
	}

	pingCtx, cancel := context.WithTimeout(ctx, p.ConnectTimeout)
	defer cancel()
	if err := c.db.PingContext(pingCtx); err != nil {
		_ = c.db.Close()
		return nil, err
	}

	c.ConnectedAt = time.Now()
	return c, nil
}

func dialectorFor(typ, dsn string) (gorm.Dialector, error) {
	switch typ {
	case constants.DriverPostgres:
		return postgres.Open(dsn), nil
	case constants.DriverMySQL:
		return mysql.Open(dsn), nil
	case constants.DriverSQLite:
		return sqlite.Open(dsn), nil
	case constants.DriverSQLServer:
		return sqlserver.Open(dsn), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, typ)
	}
}

// BindStyleFor returns the positional marker style native to a database type.
func BindStyleFor(typ string) querytext.BindStyle {
	switch driver.Normalize(typ) {
	case constants.DriverPostgres:
		return querytext.BindDollar
	case constants.DriverSQLServer:
		return querytext.BindAtP
	default:
		return querytext.BindQuestion
	}
}

// Close releases the session.
func (c *Connection) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}
