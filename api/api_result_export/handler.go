package api_result_export

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/dracory/api"
	"github.com/dracory/weequery/internal/database"
	"github.com/dracory/weequery/shared/session"
	"github.com/dracory/weequery/shared/types"
)

// ContentType is the media type of the exported workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Handler downloads the last result grid as an xlsx workbook
type Handler struct {
	cfg types.Config
}

// New creates a new result export handler
func New(cfg types.Config) *Handler {
	return &Handler{cfg: cfg}
}

// ServeHTTP writes the session's last result grid as a workbook attachment.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		api.Respond(w, r, api.Error("method not allowed"))
		return
	}

	s := session.FromRequest(r)
	if s == nil {
		api.Respond(w, r, api.Error("no result to export"))
		return
	}

	s.Lock()
	res := s.LastResult
	var buf bytes.Buffer
	var err error
	if res.HasRows() {
		err = database.WriteXLSX(&buf, res)
	}
	s.Unlock()

	if !res.HasRows() {
		api.Respond(w, r, api.Error("no result to export"))
		return
	}
	if err != nil {
		api.Respond(w, r, api.Error(err.Error()))
		return
	}

	name := fmt.Sprintf("result-%s.xlsx", time.Now().Format("20060102-150405"))
	w.Header().Set("Content-Type", ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
