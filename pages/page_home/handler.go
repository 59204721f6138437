package page_home

import (
	"embed"
	"encoding/json"
	"html/template"
	"net/http"

	"github.com/dracory/weequery/shared/driver"
	"github.com/dracory/weequery/shared/layout"
	"github.com/dracory/weequery/shared/session"
	"github.com/dracory/weequery/shared/types"
	"github.com/dracory/weequery/shared/urls"
	"github.com/gouniverse/cdn"
	hb "github.com/gouniverse/hb"
	"github.com/samber/lo"
)

// DefaultTitle is the page title
const DefaultTitle = "Query Workspace"

//go:embed view.html script.js styles.css
var embeddedFS embed.FS

// pageHomeController renders the query workspace
type pageHomeController struct {
	cfg types.Config
}

// New creates a new home page handler
func New(cfg types.Config) *pageHomeController {
	return &pageHomeController{cfg: cfg}
}

// DriverOption is one entry of the database type selector.
type DriverOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

func (h *pageHomeController) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s := session.EnsureSession(w, r, h.cfg.SecureCookies)

	html, err := h.Handle(s)
	if err != nil {
		http.Error(w, "Failed to render page: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(html))
}

// Handle renders the workspace for s. The current connection and loaded
// queries are embedded so a refresh restores the page.
func (h *pageHomeController) Handle(s *session.Session) (template.HTML, error) {
	pageCSS, err := asset("styles.css")
	if err != nil {
		return "", err
	}
	pageJS, err := asset("script.js")
	if err != nil {
		return "", err
	}
	pageHTML, err := asset("view.html")
	if err != nil {
		return "", err
	}

	appConfig, err := json.Marshal(h.appConfig(s))
	if err != nil {
		return "", err
	}

	extraHead := []hb.TagInterface{
		hb.Style(pageCSS),
	}

	extraBody := []hb.TagInterface{
		hb.ScriptURL(cdn.VueJs_3()),
		hb.ScriptURL(cdn.Sweetalert2_11()),
		hb.Script(`window.appConfig = ` + string(appConfig) + `;`),
		hb.Script(pageJS),
	}

	return layout.RenderWith(layout.Options{
		Title:           DefaultTitle,
		BasePath:        h.cfg.BasePath,
		SafeModeDefault: h.cfg.SafeModeDefault,
		MainHTML:        pageHTML,
		ExtraHead:       extraHead,
		ExtraBodyEnd:    extraBody,
	}), nil
}

func (h *pageHomeController) appConfig(s *session.Session) map[string]any {
	base := h.cfg.BasePath

	drivers := lo.Map(driver.NewList(h.cfg.EnabledDrivers), func(d string, _ int) DriverOption {
		return DriverOption{Value: d, Label: driver.Label(d)}
	})

	state := map[string]any{
		"connection": nil,
		"workspace":  nil,
	}
	csrf := ""
	if s != nil {
		csrf = s.CSRFToken(h.cfg.SessionSecret)

		s.Lock()
		if s.Connected() {
			state["connection"] = s.Conn.Info()
		}
		if len(s.Workspace.Queries) > 0 {
			state["workspace"] = s.Workspace.Payload()
		}
		s.Unlock()
	}

	return map[string]any{
		"urls": map[string]string{
			"connect":       urls.Connect(base),
			"disconnect":    urls.Disconnect(base),
			"profilesList":  urls.ProfilesList(base),
			"profilesSave":  urls.ProfilesSave(base),
			"profileDelete": urls.ProfileDelete(base),
			"queriesLoad":   urls.QueriesLoad(base),
			"queriesReload": urls.QueriesReload(base),
			"queryFiles":    urls.QueryFiles(base),
			"querySelect":   urls.QuerySelect(base),
			"queryRun":      urls.QueryRun(base),
			"resultExport":  urls.ResultExport(base),
		},
		"csrfToken":   csrf,
		"drivers":     drivers,
		"safeMode":    h.cfg.SafeModeDefault,
		"serverFiles": h.cfg.QueriesDir != "",
		"state":       state,
	}
}

func asset(name string) (string, error) {
	b, err := embeddedFS.ReadFile(name)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
