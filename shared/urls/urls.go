package urls

import (
	neturl "net/url"
	"sort"

	"github.com/dracory/weequery/shared/constants"
	"github.com/samber/lo"
)

const actionParam = "action"

// Home builds the workspace page URL.
func Home(basePath string, params ...map[string]string) string {
	return URL(basePath, constants.ActionHome, params...)
}

// Connect builds the connect endpoint URL.
func Connect(basePath string, params ...map[string]string) string {
	return URL(basePath, constants.ActionApiConnect, params...)
}

// Disconnect builds the disconnect endpoint URL.
func Disconnect(basePath string, params ...map[string]string) string {
	return URL(basePath, constants.ActionApiDisconnect, params...)
}

// ProfilesList builds the profiles list endpoint URL.
func ProfilesList(basePath string, params ...map[string]string) string {
	return URL(basePath, constants.ActionApiProfilesList, params...)
}

// ProfilesSave builds the profile save endpoint URL.
func ProfilesSave(basePath string, params ...map[string]string) string {
	return URL(basePath, constants.ActionApiProfilesSave, params...)
}

// ProfileDelete builds the profile delete endpoint URL.
func ProfileDelete(basePath string, params ...map[string]string) string {
	return URL(basePath, constants.ActionApiProfileDelete, params...)
}

// QueriesLoad builds the query file load endpoint URL.
func QueriesLoad(basePath string, params ...map[string]string) string {
	return URL(basePath, constants.ActionApiQueriesLoad, params...)
}

// QueriesReload builds the query file reload endpoint URL.
func QueriesReload(basePath string, params ...map[string]string) string {
	return URL(basePath, constants.ActionApiQueriesReload, params...)
}

// QueryFiles builds the server-side query file listing URL.
func QueryFiles(basePath string, params ...map[string]string) string {
	return URL(basePath, constants.ActionApiQueryFiles, params...)
}

// QuerySelect builds the query selection endpoint URL.
func QuerySelect(basePath string, params ...map[string]string) string {
	return URL(basePath, constants.ActionApiQuerySelect, params...)
}

// QueryRun builds the run endpoint URL.
func QueryRun(basePath string, params ...map[string]string) string {
	return URL(basePath, constants.ActionApiQueryRun, params...)
}

// ResultExport builds the xlsx export URL.
func ResultExport(basePath string, params ...map[string]string) string {
	return URL(basePath, constants.ActionApiResultExport, params...)
}

// URL is a convenience wrapper around Build.
func URL(basePath, action string, params ...map[string]string) string {
	return Build(basePath, action, params...)
}

// Build constructs a URL like: basePath?action=action&k=v...
// Keys are sorted for stable output. Values are URL-escaped.
func Build(basePath, action string, params ...map[string]string) string {
	p := lo.FirstOr(params, map[string]string{})

	if basePath == "" || basePath[0] != '/' {
		basePath = "/" + basePath
	}
	q := neturl.Values{}
	q.Set(actionParam, action)

	keys := lo.Filter(lo.Keys(p), func(k string, _ int) bool { return k != "" })
	sort.Strings(keys)
	for _, k := range keys {
		q.Set(k, p[k])
	}
	return basePath + "?" + q.Encode()
}
