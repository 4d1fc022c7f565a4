package parser

import (
	"regexp"
	"strings"
)

var (
	leadingDatePattern = regexp.MustCompile(
		`(?i)^((?:\d{1,2}/\d{1,2}/\d{2,4})|(?:\d{4}-\d{2}-\d{2})|(?:\d{1,2}\s+(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*(?:\s+\d{2,4})?))\s+(.+)$`)

	amountToken = regexp.MustCompile(`\(?[\d,]+\.\d{2}\)?-?`)
)

// splitLeadingDate separates a leading date token from the rest of the
// line. When the line carries no leading date the token is empty and the
// whole line is returned as the remainder.
func splitLeadingDate(text string) (token, rest string) {
	if m := leadingDatePattern.FindStringSubmatch(strings.TrimSpace(text)); m != nil {
		return m[1], m[2]
	}
	return "", strings.TrimSpace(text)
}

// stripAmounts removes every monetary token from the text, leaving the
// description words.
func stripAmounts(text string) string {
	cleaned := amountToken.ReplaceAllString(text, "")
	return strings.Join(strings.Fields(cleaned), " ")
}

func containsWord(text string, words []string) bool {
	lower := strings.ToLower(text)
	for _, w := range words {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}
