package querytext

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// ErrMissingValue is returned by Bind when a placeholder has no entered value.
var ErrMissingValue = errors.New("missing value for parameter")

// BindStyle selects the positional marker a driver understands.
type BindStyle int

const (
	// BindQuestion renders every placeholder as "?" (ODBC, MySQL, SQLite).
	BindQuestion BindStyle = iota
	// BindDollar renders $1, $2, ... by occurrence (PostgreSQL).
	BindDollar
	// BindAtP renders @p1, @p2, ... by occurrence (SQL Server).
	BindAtP
)

func (s BindStyle) marker(pos int) string {
	switch s {
	case BindDollar:
		return "$" + strconv.Itoa(pos)
	case BindAtP:
		return "@p" + strconv.Itoa(pos)
	default:
		return "?"
	}
}

var placeholderRe = regexp.MustCompile(`\{(\d+)\}`)

type token struct {
	start, end int
	number     int
}

// scan finds placeholder tokens in textual order. Digit runs too large for an
// int are left alone and stay part of the SQL text.
func scan(query string) []token {
	matches := placeholderRe.FindAllStringSubmatchIndex(query, -1)
	out := make([]token, 0, len(matches))
	for _, m := range matches {
		n, err := strconv.Atoi(query[m[2]:m[3]])
		if err != nil {
			continue
		}
		out = append(out, token{start: m[0], end: m[1], number: n})
	}
	return out
}

// Occurrences returns the number of every placeholder occurrence in textual
// order, repeats included. This is the order arguments are passed to the driver.
func Occurrences(query string) []int {
	tokens := scan(query)
	out := make([]int, len(tokens))
	for i, t := range tokens {
		out[i] = t.number
	}
	return out
}

// Numbers returns the distinct placeholder numbers in ascending order, which is
// the order parameter inputs are displayed in.
func Numbers(query string) []int {
	out := lo.Uniq(Occurrences(query))
	sort.Ints(out)
	return out
}

// Substitute replaces every placeholder with the driver marker for style.
// Text outside placeholders is kept verbatim.
func Substitute(query string, style BindStyle) string {
	tokens := scan(query)
	if len(tokens) == 0 {
		return query
	}

	var b strings.Builder
	b.Grow(len(query))
	last := 0
	for i, t := range tokens {
		b.WriteString(query[last:t.start])
		b.WriteString(style.marker(i + 1))
		last = t.end
	}
	b.WriteString(query[last:])
	return b.String()
}

// Bind substitutes the placeholders of query and builds the positional argument
// list from params, coercing each value per its kind.
func Bind(query string, style BindStyle, params map[int]Param) (string, []any, error) {
	occ := Occurrences(query)
	args := make([]any, 0, len(occ))
	for _, n := range occ {
		p, ok := params[n]
		if !ok {
			return "", nil, fmt.Errorf("%w {%d}", ErrMissingValue, n)
		}
		v, err := Coerce(p.Value, p.Kind)
		if err != nil {
			return "", nil, fmt.Errorf("parameter {%d}: %w", n, err)
		}
		args = append(args, v)
	}
	return Substitute(query, style), args, nil
}
