package format

import (
	"strconv"
	"testing"
)

// TestCompact_BelowThousand tests that small counters are rendered verbatim.
func TestCompact_BelowThousand(t *testing.T) {
	for n := int64(0); n < 1000; n++ {
		if got := Compact(n); got != strconv.FormatInt(n, 10) {
			t.Fatalf("expected %d to render as %q, got %q", n, strconv.FormatInt(n, 10), got)
		}
	}
}

// TestCompact_Thousands tests compact rendering of counters at or above 1000.
func TestCompact_Thousands(t *testing.T) {
	tests := []struct {
		name     string
		input    int64
		expected string
	}{
		{"exact thousand", 1000, "1k"},
		{"exact multiple", 2000, "2k"},
		{"large exact multiple", 120000, "120k"},
		{"half", 1500, "1.5k"},
		{"two and a half", 2500, "2.5k"},
		{"rounds down below half", 1249, "1.2k"},
		{"rounds half up", 1250, "1.3k"},
		{"rounds up", 1260, "1.3k"},
		{"just above thousand", 1001, "1.0k"},
		{"carries into next unit", 1960, "2.0k"},
		{"upper boundary", 999999, "1000.0k"},
		{"millions", 1234567, "1234.6k"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			got := Compact(tt.input)

			// Assert
			if got != tt.expected {
				t.Errorf("Compact(%d): expected %q, got %q", tt.input, tt.expected, got)
			}
		})
	}
}
