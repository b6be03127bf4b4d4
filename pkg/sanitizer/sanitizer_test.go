package sanitizer

import (
	"reflect"
	"testing"
)

func TestSanitizeGuestName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "trim spaces",
			input: "  Ada Lovelace  ",
			want:  "Ada Lovelace",
		},
		{
			name:  "multiple spaces between words",
			input: "Ada    Lovelace",
			want:  "Ada Lovelace",
		},
		{
			name:  "tabs and newlines",
			input: "Ada\t\nLovelace",
			want:  "Ada Lovelace",
		},
		{
			name:  "preserve apostrophes and hyphens",
			input: "Conan O'Brien-Smith",
			want:  "Conan O'Brien-Smith",
		},
		{
			name:  "strip symbols",
			input: "Ada <script>Lovelace</script>",
			want:  "Ada scriptLovelacescript",
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
		{
			name:  "only whitespace",
			input: "   \t\n  ",
			want:  "",
		},
		{
			name:  "accented characters preserved",
			input: " José García ",
			want:  "José García",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeGuestName(tt.input)
			if got != tt.want {
				t.Errorf("SanitizeGuestName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeSlice(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{
			name:  "dedupes after sanitizing",
			input: []string{" Ada Lovelace ", "Ada  Lovelace", "Grace Hopper"},
			want:  []string{"Ada Lovelace", "Grace Hopper"},
		},
		{
			name:  "drops empties",
			input: []string{"", "   ", "Ada"},
			want:  []string{"Ada"},
		},
		{
			name:  "empty input",
			input: []string{},
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeSlice(tt.input, SanitizeGuestName)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SanitizeSlice(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
