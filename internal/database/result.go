package database

import (
	"database/sql"
	"encoding/base64"
	"time"
	"unicode/utf8"
)

// Result is either a grid of rows or the acknowledgement of a committed statement.
type Result struct {
	Columns      []string `json:"columns"`
	Rows         [][]any  `json:"rows"`
	Truncated    bool     `json:"truncated"`
	Committed    bool     `json:"committed"`
	RowsAffected int64    `json:"rows_affected"`
}

// HasRows reports whether the result carries a grid.
func (r *Result) HasRows() bool {
	return r != nil && len(r.Columns) > 0
}

// scanRows collects at most maxRows rows. A statement that yields no columns is
// reported as committed.
func scanRows(rows *sql.Rows, maxRows int) (*Result, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		return &Result{Committed: true, RowsAffected: -1}, rows.Err()
	}
	if maxRows <= 0 {
		maxRows = DefaultMaxRows
	}

	res := &Result{
		Columns: cols,
		Rows:    make([][]any, 0, 64),
	}

	for rows.Next() {
		if len(res.Rows) >= maxRows {
			res.Truncated = true
			break
		}

		raw := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		row := make([]any, len(cols))
		for i, v := range raw {
			row[i] = jsonSafe(v)
		}
		res.Rows = append(res.Rows, row)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// jsonSafe converts driver values that do not encode cleanly to JSON.
func jsonSafe(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case []byte:
		if utf8.Valid(x) {
			return string(x)
		}
		return map[string]any{
			"type":   "bytes",
			"base64": base64.StdEncoding.EncodeToString(x),
		}
	case time.Time:
		return x.Format(time.RFC3339Nano)
	default:
		return x
	}
}
