package sanitizer

import "testing"

func TestTrimAndNormalize(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "Dhanmondi", "Dhanmondi"},
		{"leading and trailing", "  Gulshan 2  ", "Gulshan 2"},
		{"collapse inner runs", "Home   Decoration    Service", "Home Decoration Service"},
		{"tabs and newlines", "Stage\t\nSetup", "Stage Setup"},
		{"empty", "", ""},
		{"only whitespace", "   \t ", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := TrimAndNormalize(tc.input); got != tc.want {
				t.Errorf("TrimAndNormalize(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestNormalizeCategoryLowercases(t *testing.T) {
	if got := NormalizeCategory("  Home Decoration "); got != "home decoration" {
		t.Errorf("expected lowercased category, got %q", got)
	}
}
