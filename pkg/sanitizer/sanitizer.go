package sanitizer

import (
	"regexp"
	"strings"
)

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

var (
	reKeepNameChars = regexp.MustCompile(`[^\p{L}\p{N} '\-]+`)
	reMultiSpace    = regexp.MustCompile(`\s+`)
)

func trimSpace(s string) string {
	return strings.TrimSpace(s)
}

func collapseSpaces(s string) string {
	return reMultiSpace.ReplaceAllString(s, " ")
}

// SanitizeGuestName strips everything that cannot appear in a person's
// name and normalizes whitespace. Case is preserved.
func SanitizeGuestName(input string) string {
	p := Pipeline{
		trimSpace,
		func(s string) string { return reKeepNameChars.ReplaceAllString(s, "") },
		collapseSpaces,
		trimSpace,
	}
	return p.Apply(input)
}

// SanitizeSlice applies a strategy to each value, dropping empties and
// duplicates while preserving order.
func SanitizeSlice(values []string, strategy Strategy) []string {
	seen := make(map[string]struct{})
	out := []string{}

	for _, v := range values {
		s := strategy(v)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}

	return out
}
