package weequery

import (
	"bytes"
	"encoding/json"
	"flag"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dracory/weequery/shared/constants"
	"github.com/dracory/weequery/shared/session"
	"github.com/dracory/weequery/shared/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newTestApp(t *testing.T) *App {
	t.Helper()
	return New(types.Config{SessionSecret: testSecret},
		WithProfilesFile(filepath.Join(t.TempDir(), "profiles.json")),
		WithDrivers("sqlite"),
		WithSafeMode(true),
	)
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var response map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
	return response
}

func TestApp_Routes(t *testing.T) {
	h := newTestApp(t).Handler()

	tests := []struct {
		name string
		url  string
		json bool
	}{
		{name: "home page", url: "/?action=" + constants.ActionHome},
		{name: "unknown action renders home", url: "/?action=nonexistent"},
		{name: "no action", url: "/"},
		{name: "health", url: "/?action=" + constants.ActionHealthz, json: true},
		{name: "profiles", url: "/?action=" + constants.ActionApiProfilesList, json: true},
		{name: "query files", url: "/?action=" + constants.ActionApiQueryFiles, json: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tt.url, nil))

			assert.Equal(t, http.StatusOK, rr.Code)
			assert.Equal(t, "DENY", rr.Header().Get("X-Frame-Options"))
			if tt.json {
				assert.Equal(t, "success", decodeBody(t, rr)["status"])
				return
			}
			assert.Contains(t, rr.Header().Get("Content-Type"), "text/html")
			for _, c := range rr.Result().Cookies() {
				session.DeleteSession(c.Value)
			}
		})
	}
}

func TestApp_ConnectLoadRun(t *testing.T) {
	h := newTestApp(t).Handler()

	// the page hands out the session cookie and CSRF token
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	sess, ok := session.GetSession(cookies[0].Value)
	require.True(t, ok)
	t.Cleanup(func() { session.DeleteSession(sess.ID) })
	token := sess.CSRFToken(testSecret)

	post := func(action string, form url.Values) map[string]any {
		t.Helper()
		req := httptest.NewRequest(http.MethodPost, "/?action="+action, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set(constants.CSRFHeaderKey, token)
		req.AddCookie(cookies[0])
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return decodeBody(t, rr)
	}

	response := post(constants.ActionApiConnect, url.Values{"driver": {"sqlite"}, "dsn": {":memory:"}})
	require.Equal(t, "success", response["status"], response["message"])

	response = post(constants.ActionApiQueriesLoad, url.Values{"content": {
		"CREATE TABLE t (id INTEGER, label TEXT)\n--NEXT_QUERY\nINSERT INTO t VALUES ({0}, {1})\n--NEXT_QUERY\nSELECT label FROM t WHERE id = {0}",
	}})
	require.Equal(t, "success", response["status"], response["message"])

	require.Equal(t, "success", post(constants.ActionApiQueryRun, url.Values{"index": {"0"}})["status"])
	require.Equal(t, "success", post(constants.ActionApiQueryRun, url.Values{
		"index": {"1"}, "value_0": {"3"}, "kind_0": {"number"}, "value_1": {"three"},
	})["status"])

	response = post(constants.ActionApiQueryRun, url.Values{"index": {"2"}})
	require.Equal(t, "success", response["status"], response["message"])
	data := response["data"].(map[string]any)
	assert.Equal(t, []any{[]any{"three"}}, data["rows"])

	response = post(constants.ActionApiDisconnect, url.Values{})
	assert.Equal(t, "success", response["status"])
	assert.False(t, sess.Connected())
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DRIVERS", "postgres, odbc,,sqlite")
	t.Setenv("MAX_ROWS", "50")
	t.Setenv("CONNECT_TIMEOUT", "3")

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg, flags, err := loadConfig(fs, []string{"-base", "/q", "-safe=false", "-import", "iris.properties"})
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.HTTPPort)
	assert.Equal(t, "/q", cfg.BasePath)
	assert.False(t, cfg.SafeModeDefault)
	assert.Equal(t, []string{"postgres", "odbc", "sqlite"}, cfg.EnabledDrivers)
	assert.Equal(t, 50, cfg.MaxRows)
	assert.Equal(t, 3*time.Second, cfg.ConnectTimeout)
	assert.Equal(t, DefaultProfilesFile, cfg.ProfilesFile)
	assert.Equal(t, "iris.properties", flags.Import)
}

func TestLoadConfig_WarnsOnDefaultSecret(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	t.Setenv("SESSION_SECRET", "")
	cfg, _, err := loadConfig(flag.NewFlagSet("test", flag.ContinueOnError), nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultSessionSecret, cfg.SessionSecret)
	assert.Contains(t, buf.String(), "SESSION_SECRET is not set")

	buf.Reset()
	t.Setenv("SESSION_SECRET", "a-real-secret")
	cfg, _, err = loadConfig(flag.NewFlagSet("test", flag.ContinueOnError), nil)
	require.NoError(t, err)
	assert.Equal(t, "a-real-secret", cfg.SessionSecret)
	assert.NotContains(t, buf.String(), "SESSION_SECRET")
}

func TestLoadConfig_RejectsBadMaxRows(t *testing.T) {
	t.Setenv("MAX_ROWS", "0")
	_, _, err := loadConfig(flag.NewFlagSet("test", flag.ContinueOnError), nil)
	assert.Error(t, err)
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	var seenID string
	h := RequestLoggerWith(logger, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID = GetRequestID(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/?action=api_query_run", nil))

	require.NotEmpty(t, seenID)
	assert.Equal(t, seenID, rr.Header().Get("X-Request-Id"))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "http_request", line["msg"])
	assert.Equal(t, "api_query_run", line["action"])
	assert.Equal(t, float64(http.StatusTeapot), line["status"])
}
