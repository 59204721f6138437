package database_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/dracory/weequery/internal/database"
	"github.com/dracory/weequery/internal/querytext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// openTestDB opens an in-memory SQLite database with a users table.
func openTestDB(t *testing.T) *database.Connection {
	t.Helper()

	conn, err := database.Open(context.Background(), database.Params{
		Type:     "sqlite",
		Database: ":memory:",
	})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	res, err := conn.Run(context.Background(), "CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT NOT NULL, score REAL)", nil)
	require.NoError(t, err)
	require.True(t, res.Committed)

	return conn
}

func TestRun_InsertAndSelect(t *testing.T) {
	conn := openTestDB(t)
	ctx := context.Background()

	q := "INSERT INTO users (id, name, score) VALUES ({0}, {1}, {2})"
	sqlText, args, err := querytext.Bind(q, conn.Bind, map[int]querytext.Param{
		0: {Value: "1", Kind: querytext.KindNumber},
		1: {Value: "alice", Kind: querytext.KindString},
		2: {Value: "4.5", Kind: querytext.KindNumber},
	})
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO users (id, name, score) VALUES (?, ?, ?)", sqlText)

	res, err := conn.Run(ctx, sqlText, args)
	require.NoError(t, err)
	assert.True(t, res.Committed)
	assert.Equal(t, int64(1), res.RowsAffected)

	res, err = conn.Run(ctx, "SELECT id, name, score FROM users WHERE id = ?", []any{int64(1)})
	require.NoError(t, err)
	assert.False(t, res.Committed)
	assert.Equal(t, []string{"id", "name", "score"}, res.Columns)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, []any{int64(1), "alice", 4.5}, res.Rows[0])
}

func TestRun_NullParameter(t *testing.T) {
	conn := openTestDB(t)
	ctx := context.Background()

	_, err := conn.Run(ctx, "INSERT INTO users (id, name, score) VALUES (?, ?, ?)", []any{int64(1), "bob", nil})
	require.NoError(t, err)

	res, err := conn.Run(ctx, "SELECT score FROM users", nil)
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	assert.Nil(t, res.Rows[0][0])
}

func TestRun_ErrorRollsBack(t *testing.T) {
	conn := openTestDB(t)
	ctx := context.Background()

	_, err := conn.Run(ctx, "INSERT INTO users (id, name) VALUES (1, 'a')", nil)
	require.NoError(t, err)

	_, err = conn.Run(ctx, "INSERT INTO users (id, name) VALUES (2, 'b'), (1, 'dup')", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "UNIQUE")

	res, err := conn.Run(ctx, "SELECT COUNT(*) AS n FROM users", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Rows[0][0])
}

func TestRun_SyntaxError(t *testing.T) {
	conn := openTestDB(t)

	_, err := conn.Run(context.Background(), "SELEC nothing", nil)
	assert.Error(t, err)

	// the connection is still usable
	_, err = conn.Run(context.Background(), "SELECT 1", nil)
	assert.NoError(t, err)
}

func TestRun_Truncated(t *testing.T) {
	conn := openTestDB(t)
	conn.MaxRows = 2
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		_, err := conn.Run(ctx, "INSERT INTO users (id, name) VALUES (?, ?)", []any{int64(i), "u"})
		require.NoError(t, err)
	}

	res, err := conn.Run(ctx, "SELECT id FROM users ORDER BY id", nil)
	require.NoError(t, err)
	assert.Len(t, res.Rows, 2)
	assert.True(t, res.Truncated)
}

func TestRun_NotConnected(t *testing.T) {
	var conn *database.Connection
	_, err := conn.Run(context.Background(), "SELECT 1", nil)
	assert.ErrorIs(t, err, database.ErrNotConnected)
}

func TestOpen_UnsupportedType(t *testing.T) {
	_, err := database.Open(context.Background(), database.Params{Type: "oracle", Database: "x"})
	assert.ErrorIs(t, err, database.ErrUnsupportedType)
}

func TestReturnsRows(t *testing.T) {
	tests := []struct {
		query string
		want  bool
	}{
		{"SELECT 1", true},
		{"  select * from t", true},
		{"-- header\n/* block\ncomment */\nSELECT 1", true},
		{"(SELECT 1) UNION (SELECT 2)", true},
		{"WITH x AS (SELECT 1) SELECT * FROM x", true},
		{"INSERT INTO t VALUES (1) RETURNING id", true},
		{"UPDATE t SET a = 1", false},
		{"insert into t values (1)", false},
		{"DELETE FROM t", false},
		{"CREATE TABLE returning_things (id int)", false},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, database.ReturnsRows(tt.query))
		})
	}
}

func TestCheckSafeMode(t *testing.T) {
	assert.ErrorIs(t, database.CheckSafeMode("DROP TABLE t", true), database.ErrBlockedBySafeMode)
	assert.ErrorIs(t, database.CheckSafeMode("-- x\n truncate t", true), database.ErrBlockedBySafeMode)
	assert.NoError(t, database.CheckSafeMode("DROP TABLE t", false))
	assert.NoError(t, database.CheckSafeMode("DELETE FROM t", true))
}

func TestCheckSafeMode_Batch(t *testing.T) {
	tests := []struct {
		query   string
		blocked bool
	}{
		{"UPDATE t SET a = 1; DROP TABLE t", true},
		{"UPDATE t SET a = 1;\n  /* next */ alter table t add b int;", true},
		{"INSERT INTO t VALUES ('a; drop table t')", false},
		{"SELECT 1 -- ; drop table t\n", false},
		{"SELECT 1; /* ; truncate t */ SELECT 2", false},
		{"UPDATE t SET a = 1; DELETE FROM t;", false},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			err := database.CheckSafeMode(tt.query, true)
			if tt.blocked {
				assert.ErrorIs(t, err, database.ErrBlockedBySafeMode)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestBindStyleFor(t *testing.T) {
	assert.Equal(t, querytext.BindDollar, database.BindStyleFor("postgres"))
	assert.Equal(t, querytext.BindDollar, database.BindStyleFor("postgresql"))
	assert.Equal(t, querytext.BindQuestion, database.BindStyleFor("odbc"))
	assert.Equal(t, querytext.BindQuestion, database.BindStyleFor("mysql"))
	assert.Equal(t, querytext.BindAtP, database.BindStyleFor("mssql"))
}

func TestBuildDSN(t *testing.T) {
	tests := []struct {
		name   string
		params database.Params
		want   string
	}{
		{
			name:   "postgres",
			params: database.Params{Type: "postgres", Host: "localhost", Port: "5432", User: "me", Password: "pw", Database: "app"},
			want:   "host=localhost port=5432 user=me password=pw dbname=app sslmode=disable",
		},
		{
			name:   "postgres quoting",
			params: database.Params{Type: "pg", Host: "h", Password: "a b'c", ConnectTimeout: 5 * time.Second},
			want:   `host=h password='a b\'c' connect_timeout=5 sslmode=disable`,
		},
		{
			name:   "odbc",
			params: database.Params{Type: "odbc", ODBCDriver: "IRIS", Host: "iris", Port: "1972", Database: "USER", User: "_SYSTEM", Password: "p;w"},
			want:   "DRIVER={IRIS};SERVER={iris};PORT={1972};DATABASE={USER};UID={_SYSTEM};PWD={p;w}",
		},
		{
			name:   "odbc default driver",
			params: database.Params{Type: "odbc", Host: "h"},
			want:   "DRIVER={" + database.DefaultODBCDriver + "};SERVER={h}",
		},
		{
			name:   "mysql",
			params: database.Params{Type: "mysql", Host: "db", Port: "3306", User: "u", Password: "p", Database: "app"},
			want:   "u:p@tcp(db:3306)/app?parseTime=true",
		},
		{
			name:   "sqlserver",
			params: database.Params{Type: "sqlserver", Host: "sql", Port: "1433", User: "sa", Password: "pw", Database: "master"},
			want:   "sqlserver://sa:pw@sql:1433?database=master",
		},
		{
			name:   "sqlite memory",
			params: database.Params{Type: "sqlite", Database: ":memory:"},
			want:   ":memory:",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := database.BuildDSN(tt.params)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildDSN_Unsupported(t *testing.T) {
	_, err := database.BuildDSN(database.Params{Type: "db2"})
	assert.ErrorIs(t, err, database.ErrUnsupportedType)
}

func TestWriteXLSX(t *testing.T) {
	res := &database.Result{
		Columns: []string{"id", "name"},
		Rows: [][]any{
			{int64(1), "alice"},
			{int64(2), nil},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, database.WriteXLSX(&buf, res))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(database.ExportSheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"id", "name"}, rows[0])
	assert.Equal(t, []string{"1", "alice"}, rows[1])
	assert.Equal(t, []string{"2"}, rows[2])
}

func TestWriteXLSX_NoRows(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, database.WriteXLSX(&buf, &database.Result{Committed: true}))
}
