package session

import (
	"fmt"

	"github.com/dracory/weequery/internal/querytext"
)

// Workspace is the loaded query file and the parameter values typed so far.
type Workspace struct {
	// Source is the file name shown in the page; Path is set when the file was
	// read from the queries directory and can be re-read from disk.
	Source   string
	Path     string
	Queries  []string
	Selected int
	// Values holds entered values by placeholder number, across queries.
	Values map[int]querytext.Param
}

// ParamField is one generated input row.
type ParamField struct {
	Number int            `json:"number"`
	Label  string         `json:"label"`
	Value  string         `json:"value"`
	Kind   querytext.Kind `json:"kind"`
}

// QueryItem is one entry of the query selector.
type QueryItem struct {
	Index   int    `json:"index"`
	Preview string `json:"preview"`
	Text    string `json:"text"`
}

// Load replaces the query set with the statements in content and selects the
// first one. Entered values survive when keepValues is true.
func (w *Workspace) Load(source, path, content string, keepValues bool) {
	w.Source = source
	w.Path = path
	w.Queries = querytext.Split(content)
	w.Selected = 0
	if !keepValues || w.Values == nil {
		w.Values = map[int]querytext.Param{}
	}
}

// Reload is Load for a new version of the same file: the selected query stays
// selected while it still exists.
func (w *Workspace) Reload(source, path, content string, keepValues bool) {
	selected := w.Selected
	w.Load(source, path, content, keepValues)
	if selected < len(w.Queries) {
		w.Selected = selected
	}
}

// Select makes index the current query. Without keepValues the inputs start empty.
func (w *Workspace) Select(index int, keepValues bool) error {
	if index < 0 || index >= len(w.Queries) {
		return fmt.Errorf("query index %d out of range (%d loaded)", index, len(w.Queries))
	}
	w.Selected = index
	if !keepValues || w.Values == nil {
		w.Values = map[int]querytext.Param{}
	}
	return nil
}

// Current returns the selected query text.
func (w *Workspace) Current() (string, error) {
	if len(w.Queries) == 0 {
		return "", fmt.Errorf("no queries loaded")
	}
	return w.Queries[w.Selected], nil
}

// Params returns one input row per distinct placeholder of the selected query,
// in ascending number order, filled from the remembered values.
func (w *Workspace) Params() []ParamField {
	q, err := w.Current()
	if err != nil {
		return []ParamField{}
	}

	numbers := querytext.Numbers(q)
	out := make([]ParamField, 0, len(numbers))
	for _, n := range numbers {
		p, ok := w.Values[n]
		if !ok {
			p = querytext.Param{Kind: querytext.KindString}
		}
		out = append(out, ParamField{
			Number: n,
			Label:  fmt.Sprintf("{%d}", n),
			Value:  p.Value,
			Kind:   p.Kind,
		})
	}
	return out
}

// Remember stores entered values so later selections and reloads can reuse them.
func (w *Workspace) Remember(values map[int]querytext.Param) {
	if w.Values == nil {
		w.Values = map[int]querytext.Param{}
	}
	for n, p := range values {
		w.Values[n] = p
	}
}

// Items lists the loaded queries for the selector.
func (w *Workspace) Items() []QueryItem {
	out := make([]QueryItem, len(w.Queries))
	for i, q := range w.Queries {
		out[i] = QueryItem{Index: i, Preview: querytext.Preview(q, 80), Text: q}
	}
	return out
}

// Payload is the JSON view of the workspace returned by the query endpoints.
func (w *Workspace) Payload() map[string]any {
	return map[string]any{
		"source":     w.Source,
		"reloadable": w.Path != "",
		"queries":    w.Items(),
		"selected":   w.Selected,
		"params":     w.Params(),
	}
}
