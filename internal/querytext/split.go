// Package querytext turns the raw text of a query file into executable statements:
// splitting the file, finding {N} placeholders, binding driver markers and coercing
// the values typed into the parameter form.
package querytext

import "strings"

// Delimiter separates statements inside a query file.
const Delimiter = "--NEXT_QUERY"

const bom = "\ufeff"

// Split splits file content on Delimiter and returns the trimmed, non-empty
// statements in file order.
func Split(content string) []string {
	content = strings.TrimPrefix(content, bom)

	parts := strings.Split(content, Delimiter)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// Preview returns the first line of a statement, shortened to max runes,
// for use as the label of the query selector.
func Preview(query string, max int) string {
	line := strings.TrimSpace(query)
	if i := strings.IndexAny(line, "\r\n"); i >= 0 {
		line = strings.TrimSpace(line[:i])
	}
	r := []rune(line)
	if max > 0 && len(r) > max {
		return string(r[:max]) + "…"
	}
	return line
}
