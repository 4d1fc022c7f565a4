package extractor

import (
	"regexp"
	"strings"

	"github.com/ledgerline/statement-recon/internal/models"
)

// Token patterns common to bank statement layouts.
var (
	// DD/MM/YYYY or DD/MM/YY
	datePatternSlash = regexp.MustCompile(`\b(\d{1,2}/\d{1,2}/\d{2,4})\b`)
	// DD Mon YYYY (e.g. 15 Jan 2024)
	datePatternText = regexp.MustCompile(`(?i)\b(\d{1,2}\s+(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\s+\d{2,4})\b`)
	// YYYY-MM-DD
	datePatternISO = regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2})\b`)
	// Monetary token: 1,234.56 with optional trailing minus or parentheses
	amountPattern = regexp.MustCompile(`\(?[\d,]+\.\d{2}\)?-?`)

	accountNumberPattern = regexp.MustCompile(`(?i)account\s*(?:number|no\.?)?\s*[:#]?\s*(\d{7,12})`)
	bareAccountPattern   = regexp.MustCompile(`\b(\d{10})\b`)
)

// HasDateToken reports whether the line contains a recognizable date.
func HasDateToken(text string) bool {
	return datePatternSlash.MatchString(text) ||
		datePatternText.MatchString(text) ||
		datePatternISO.MatchString(text)
}

// HasAmountToken reports whether the line contains a monetary figure.
func HasAmountToken(text string) bool {
	return amountPattern.MatchString(text)
}

// AmountTokens returns every monetary token on the line in order.
func AmountTokens(text string) []string {
	return amountPattern.FindAllString(text, -1)
}

// transaction vocabulary that marks a movement line even when the line
// carries no date of its own.
var transactionKeywords = []string{
	"deposit", "transfer", "payment", "withdrawal", "debit", "credit",
	"fee", "charge", "purchase", "pos ", "atm ", "interest", "refund",
	"cheque", "salary",
}

func hasTransactionKeyword(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range transactionKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// IsTransactionLine is a structural classifier, not a parser: it needs an
// amount token plus either a date token or transaction vocabulary, and the
// line must not be a known header or footer. False positives are expected
// and filtered downstream by the parser strategies' CanParse checks.
func IsTransactionLine(line models.RawLine) bool {
	if line.Tag != models.TagBody {
		return false
	}
	if !HasAmountToken(line.Text) {
		return false
	}
	return HasDateToken(line.Text) || hasTransactionKeyword(line.Text)
}

// isColumnHeader detects transaction-table header rows. Requires the date
// column label plus at least one other column label, so description lines
// that merely mention a date are not caught.
func isColumnHeader(text string) bool {
	lower := strings.ToLower(text)
	if !strings.Contains(lower, "date") {
		return false
	}
	return strings.Contains(lower, "description") ||
		strings.Contains(lower, "details") ||
		strings.Contains(lower, "amount") ||
		strings.Contains(lower, "balance") ||
		strings.Contains(lower, "fees")
}

func isFooterLine(text string) bool {
	lower := strings.ToLower(text)
	footerKeywords := []string{
		"opening balance", "closing balance", "balance brought forward",
		"balance carried forward", "total debits", "total credits",
		"total paid in", "total paid out", "page ", "continued",
		"end of statement", "registered bank",
	}
	for _, kw := range footerKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// ExtractAccountNumber finds the statement's account number in the document
// text. Returns "" when none is found.
func ExtractAccountNumber(pages []string) string {
	text := strings.Join(pages, "\n")
	if m := accountNumberPattern.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	if m := bareAccountPattern.FindString(text); m != "" {
		return m
	}
	return ""
}

// ExtractStatementPeriod finds a "period" line carrying two dates and
// returns them joined as "from to to". Returns "" when no period line is
// found.
func ExtractStatementPeriod(pages []string) string {
	for _, page := range pages {
		for _, line := range strings.Split(page, "\n") {
			lower := strings.ToLower(line)
			if !strings.Contains(lower, "period") && !strings.Contains(lower, "statement from") {
				continue
			}
			for _, p := range []*regexp.Regexp{datePatternSlash, datePatternText, datePatternISO} {
				if dates := p.FindAllString(line, 2); len(dates) == 2 {
					return dates[0] + " to " + dates[1]
				}
			}
		}
	}
	return ""
}
