package http

import (
	"net/url"
	"strconv"
	"strings"
)

// QueryInt parses an optional integer query parameter, returning the default
// when the parameter is absent.
func QueryInt(q url.Values, key string, def int) (int, error) {
	raw := q.Get(key)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

// QueryCSV splits a comma-separated query parameter into trimmed, non-empty
// values. An absent parameter yields nil.
func QueryCSV(q url.Values, key string) []string {
	raw := q.Get(key)
	if raw == "" {
		return nil
	}

	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
