package extractor

import (
	"strings"
	"testing"
)

func TestIsReadableText(t *testing.T) {
	tests := []struct {
		name  string
		pages []string
		want  bool
	}{
		{
			name: "clean statement text",
			pages: []string{"FIRST COMMERCIAL BANK\nAccount Statement\n" +
				"01/03/2025 DEPOSIT FROM CUSTOMER 1,500.00 balance 1,500.00"},
			want: true,
		},
		{
			name:  "too short",
			pages: []string{"bank"},
			want:  false,
		},
		{
			name:  "identity-encoded garbage",
			pages: []string{strings.Repeat("Ã©ÂžÅŸ", 30)},
			want:  false,
		},
		{
			name:  "readable but not a statement",
			pages: []string{strings.Repeat("lorem ipsum dolor sit amet ", 10)},
			want:  false,
		},
		{
			name:  "empty",
			pages: nil,
			want:  false,
		},
	}
	for _, tt := range tests {
		if got := isReadableText(tt.pages); got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestTextQuality(t *testing.T) {
	if q := textQuality([]string{"plain ascii statement text 123.45"}); q < 0.99 {
		t.Errorf("clean text quality: got %f, want ~1.0", q)
	}
	if q := textQuality([]string{strings.Repeat("âœ†", 50)}); q > 0.4 {
		t.Errorf("garbage quality: got %f, want low", q)
	}
	if q := textQuality(nil); q != 0 {
		t.Errorf("empty quality: got %f, want 0", q)
	}
}

func TestExtractPages_NotAPDF(t *testing.T) {
	if _, err := ExtractPages("no-such-file.pdf"); err == nil {
		t.Error("expected error for missing file")
	}
}
