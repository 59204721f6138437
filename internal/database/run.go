package database

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"strings"

	"gorm.io/gorm"
)

// ErrBlockedBySafeMode is returned for destructive DDL while safe mode is on.
var ErrBlockedBySafeMode = errors.New("blocked by safe mode: drop, alter and truncate are disabled")

// ErrNotConnected is returned when running without an open connection.
var ErrNotConnected = errors.New("not connected to database")

// execer is satisfied by *sql.Tx and gorm's transaction connection pool.
type execer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Run executes one statement with positional args inside a transaction. The
// transaction commits on success and rolls back on any error, which is returned
// as the driver reported it.
func (c *Connection) Run(ctx context.Context, query string, args []any) (*Result, error) {
	if c == nil || c.db == nil {
		return nil, ErrNotConnected
	}

	if c.orm != nil {
		var res *Result
		err := c.orm.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var err error
			res, err = c.runStatement(ctx, tx.Statement.ConnPool, query, args)
			return err
		})
		if err != nil {
			return nil, err
		}
		return res, nil
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	res, err := c.runStatement(ctx, tx, query, args)
	if err != nil {
		_ = tx.Rollback()
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Connection) runStatement(ctx context.Context, x execer, query string, args []any) (*Result, error) {
	if ReturnsRows(query) {
		rows, err := x.QueryContext(ctx, query, args...)
		if err != nil {
			return nil, err
		}
		defer rows.Close()
		return scanRows(rows, c.MaxRows)
	}

	r, err := x.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	affected, err := r.RowsAffected()
	if err != nil {
		affected = -1
	}
	return &Result{Committed: true, RowsAffected: affected}, nil
}

var (
	leadingComments = regexp.MustCompile(`^(\s*(--[^\n]*\n?|/\*(?s:.*?)\*/))*\s*`)
	returningClause = regexp.MustCompile(`(?i)\breturning\b|\boutput\s+inserted\.|\boutput\s+deleted\.`)
)

// ReturnsRows guesses whether a statement produces a result set from its
// leading keyword.
func ReturnsRows(query string) bool {
	q := leadingComments.ReplaceAllString(query, "")
	q = strings.TrimLeft(q, "( \t\r\n")

	head := strings.ToLower(firstWord(q))
	switch head {
	case "select", "with", "show", "pragma", "explain", "values", "table", "describe", "desc", "call", "exec", "execute":
		return true
	}
	return returningClause.MatchString(q)
}

func firstWord(s string) string {
	end := strings.IndexFunc(s, func(r rune) bool {
		return !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z')
	})
	if end < 0 {
		return s
	}
	return s[:end]
}

// CheckSafeMode refuses destructive DDL when safe is true. Every statement of
// a ";" separated batch is checked.
func CheckSafeMode(query string, safe bool) error {
	if !safe {
		return nil
	}
	for _, stmt := range statements(query) {
		q := strings.ToLower(leadingComments.ReplaceAllString(stmt, ""))
		switch firstWord(q) {
		case "drop", "alter", "truncate":
			return ErrBlockedBySafeMode
		}
	}
	return nil
}

// statements splits query on semicolons that are outside quotes and comments.
func statements(query string) []string {
	var out []string
	start := 0
	for i := 0; i < len(query); i++ {
		switch c := query[i]; {
		case c == '\'' || c == '"' || c == '`':
			end := strings.IndexByte(query[i+1:], c)
			if end < 0 {
				i = len(query)
			} else {
				i += end + 1
			}
		case c == '-' && strings.HasPrefix(query[i:], "--"):
			end := strings.IndexByte(query[i:], '\n')
			if end < 0 {
				i = len(query)
			} else {
				i += end
			}
		case c == '/' && strings.HasPrefix(query[i:], "/*"):
			end := strings.Index(query[i+2:], "*/")
			if end < 0 {
				i = len(query)
			} else {
				i += end + 3
			}
		case c == ';':
			out = append(out, query[start:i])
			start = i + 1
		}
	}
	if start < len(query) {
		out = append(out, query[start:])
	}
	return out
}
