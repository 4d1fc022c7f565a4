package extractor

import (
	"testing"

	"github.com/ledgerline/statement-recon/internal/models"
)

func TestIsTransactionLine(t *testing.T) {
	tests := []struct {
		name string
		line models.RawLine
		want bool
	}{
		{
			name: "date and amount",
			line: models.RawLine{Text: "01/03/2025 CARD PURCHASE 25.99-", Tag: models.TagBody},
			want: true,
		},
		{
			name: "keyword and amount without date",
			line: models.RawLine{Text: "TRANSFER TO VENDOR 750.50- FEE-ELECTRONIC PAYMENT 8.90-", Tag: models.TagBody},
			want: true,
		},
		{
			name: "amount only",
			line: models.RawLine{Text: "SUNDRY 12.00", Tag: models.TagBody},
			want: false,
		},
		{
			name: "date only",
			line: models.RawLine{Text: "Statement date 01/03/2025", Tag: models.TagBody},
			want: false,
		},
		{
			name: "header tag",
			line: models.RawLine{Text: "01/03/2025 DEPOSIT 100.00", Tag: models.TagHeader},
			want: false,
		},
		{
			name: "footer tag",
			line: models.RawLine{Text: "Closing balance 705.60", Tag: models.TagFooter},
			want: false,
		},
	}
	for _, tt := range tests {
		if got := IsTransactionLine(tt.line); got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestHasDateToken(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"01/03/2025", true},
		{"1/3/25", true},
		{"15 Jan 2024", true},
		{"2025-03-01", true},
		{"no date here", false},
		{"1500.00", false},
	}
	for _, tt := range tests {
		if got := HasDateToken(tt.in); got != tt.want {
			t.Errorf("HasDateToken(%q): got %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestAmountTokens(t *testing.T) {
	tokens := AmountTokens("TRANSFER 750.50- FEE 8.90- balance 1,204.01")
	want := []string{"750.50-", "8.90-", "1,204.01"}
	if len(tokens) != len(want) {
		t.Fatalf("tokens: got %v, want %v", tokens, want)
	}
	for i := range want {
		if tokens[i] != want[i] {
			t.Errorf("token[%d]: got %q, want %q", i, tokens[i], want[i])
		}
	}
}

func TestExtractAccountNumber(t *testing.T) {
	tests := []struct {
		name  string
		pages []string
		want  string
	}{
		{
			name:  "labelled",
			pages: []string{"Account Number: 62001234567"},
			want:  "62001234567",
		},
		{
			name:  "label variant",
			pages: []string{"Account No. 1234567"},
			want:  "1234567",
		},
		{
			name:  "bare ten digit",
			pages: []string{"statement for 6200123456 March 2025"},
			want:  "6200123456",
		},
		{
			name:  "none",
			pages: []string{"no identifiers here"},
			want:  "",
		},
	}
	for _, tt := range tests {
		if got := ExtractAccountNumber(tt.pages); got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestExtractStatementPeriod(t *testing.T) {
	pages := []string{"FIRST COMMERCIAL BANK\nStatement period: 01/03/2025 to 31/03/2025\n..."}
	got := ExtractStatementPeriod(pages)
	want := "01/03/2025 to 31/03/2025"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	if got := ExtractStatementPeriod([]string{"no period line"}); got != "" {
		t.Errorf("pages without period: got %q, want empty", got)
	}
}
