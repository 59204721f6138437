package api_query_run

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dracory/api"
	"github.com/dracory/weequery/internal/database"
	"github.com/dracory/weequery/internal/queryfiles"
	"github.com/dracory/weequery/internal/querytext"
	"github.com/dracory/weequery/shared/constants"
	"github.com/dracory/weequery/shared/session"
	"github.com/dracory/weequery/shared/types"
)

// Handler runs the selected query with the entered parameter values
type Handler struct {
	cfg types.Config
}

// New creates a new query run handler
func New(cfg types.Config) *Handler {
	return &Handler{cfg: cfg}
}

// ServeHTTP binds the values posted as value_N / kind_N to the placeholders of
// the selected query (or the one at "index") and executes it in a transaction.
// A file loaded from the queries directory is re-read first, keeping the
// selection. Values are remembered even when execution fails.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		api.Respond(w, r, api.Error("query_run must be POST"))
		return
	}

	s := session.EnsureSession(w, r, h.cfg.SecureCookies)
	if !s.VerifyCSRF(r, h.cfg.SessionSecret) {
		api.Respond(w, r, api.Error("invalid csrf token"))
		return
	}

	if err := r.ParseForm(); err != nil {
		api.Respond(w, r, api.Error("failed to parse form"))
		return
	}

	s.Lock()
	defer s.Unlock()

	// files from the queries directory are re-read so edits apply on the next run
	if path := s.Workspace.Path; path != "" {
		content, err := queryfiles.Read(h.cfg.QueriesDir, path)
		if err != nil {
			api.Respond(w, r, api.Error(err.Error()))
			return
		}
		s.Workspace.Reload(s.Workspace.Source, path, content, true)
	}

	if idx := strings.TrimSpace(r.Form.Get("index")); idx != "" {
		n, err := strconv.Atoi(idx)
		if err != nil {
			api.Respond(w, r, api.Error("index must be a number"))
			return
		}
		if err := s.Workspace.Select(n, true); err != nil {
			api.Respond(w, r, api.Error(err.Error()))
			return
		}
	}

	query, err := s.Workspace.Current()
	if err != nil {
		api.Respond(w, r, api.Error(err.Error()))
		return
	}

	s.Workspace.Remember(FormValues(r, querytext.Numbers(query)))

	if !s.Connected() {
		api.Respond(w, r, api.Error(database.ErrNotConnected.Error()))
		return
	}

	if err := database.CheckSafeMode(query, h.cfg.SafeModeDefault); err != nil {
		api.Respond(w, r, api.Error(err.Error()))
		return
	}

	sqlText, args, err := querytext.Bind(query, s.Conn.DB.Bind, s.Workspace.Values)
	if err != nil {
		api.Respond(w, r, api.Error(err.Error()))
		return
	}

	start := time.Now()
	res, err := s.Conn.DB.Run(r.Context(), sqlText, args)
	s.Conn.LastUsed = time.Now()
	if err != nil {
		slog.Warn("query failed",
			slog.String("driver", s.Conn.Driver),
			slog.Int("query", s.Workspace.Selected),
			slog.String("error", err.Error()))
		api.Respond(w, r, api.Error(err.Error()))
		return
	}

	elapsed := time.Since(start).Milliseconds()

	if res.HasRows() {
		s.LastResult = res
		api.Respond(w, r, api.SuccessWithData("", map[string]any{
			"last_used":  s.Conn.LastUsed.Format(time.RFC3339),
			"kind":       "rows",
			"columns":    res.Columns,
			"rows":       res.Rows,
			"row_count":  len(res.Rows),
			"truncated":  res.Truncated,
			"elapsed_ms": elapsed,
		}))
		return
	}

	s.LastResult = nil
	api.Respond(w, r, api.SuccessWithData("Query executed and committed", map[string]any{
		"last_used":     s.Conn.LastUsed.Format(time.RFC3339),
		"kind":          "committed",
		"rows_affected": res.RowsAffected,
		"elapsed_ms":    elapsed,
	}))
}

// FormValues collects value_N and kind_N for each placeholder number. Numbers
// without a posted value are left out so remembered values still apply.
func FormValues(r *http.Request, numbers []int) map[int]querytext.Param {
	out := make(map[int]querytext.Param, len(numbers))
	for _, n := range numbers {
		key := strconv.Itoa(n)
		values, ok := r.Form[constants.ParamValuePrefix+key]
		if !ok || len(values) == 0 {
			continue
		}
		out[n] = querytext.Param{
			Value: values[0],
			Kind:  querytext.ParseKind(r.Form.Get(constants.ParamKindPrefix + key)),
		}
	}
	return out
}
