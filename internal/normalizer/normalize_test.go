package normalizer

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercase", "Sydney", "sydney"},
		{"diacritics", "München", "munchen"},
		{"curly_apostrophe", "O’Fallon", "o'fallon"},
		{"backtick_apostrophe", "O`Fallon", "o'fallon"},
		{"hyphen_to_space", "Cardiff-by-the-Sea", "cardiff by the sea"},
		{"underscore_to_space", "New_York", "new york"},
		{"dot_comma_to_space", "St. Louis, MO", "st louis mo"},
		{"whitespace_collapse", "  Sydney   NSW  ", "sydney nsw"},
		{"already_normalized_idempotent", "sydney nsw", "sydney nsw"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.in)
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"Sydney", "München", "O’Fallon", "St. Louis, MO"}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: once=%q twice=%q", in, once, twice)
		}
	}
}

func TestNormalizeAllDedups(t *testing.T) {
	got := NormalizeAll("Sydney", "SYDNEY", "  sydney  ", "Perth")
	if len(got) != 2 {
		t.Fatalf("NormalizeAll dedup: got %v, want 2 entries", got)
	}
}
