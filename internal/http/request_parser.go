// Request parameter parsing for the report endpoints: reference month,
// ranking size and category filters all arrive as query-string values.
package http

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"painel/internal/core"
)

const defaultTopN = 10

// ParseMonthParam reads the "month" parameter ("2006-01"). The second return
// reports whether the parameter was present at all.
func ParseMonthParam(query url.Values) (core.Month, bool, error) {
	v := strings.TrimSpace(query.Get("month"))
	if v == "" {
		return core.Month{}, false, nil
	}
	m, err := core.ParseMonth(v)
	if err != nil {
		return core.Month{}, true, err
	}
	return m, true, nil
}

// ParseTopNParam reads the "top" parameter. Absent defaults to 10; anything
// outside the allowed set {5, 10, 20, 50} is rejected.
func ParseTopNParam(query url.Values) (int, error) {
	v := strings.TrimSpace(query.Get("top"))
	if v == "" {
		return defaultTopN, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", core.ErrInvalidTopN, v)
	}
	if !core.ValidTopN(n) {
		return 0, fmt.Errorf("%w: %d", core.ErrInvalidTopN, n)
	}
	return n, nil
}

// ParseCategoriesParam reads the comma-separated "categories" parameter.
// Empty or absent means no filter (show all categories).
func ParseCategoriesParam(query url.Values) []string {
	v := strings.TrimSpace(query.Get("categories"))
	if v == "" {
		return nil
	}
	var out []string
	for _, c := range strings.Split(v, ",") {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}
