// Package fiscal resolves ambiguous fiscal-period labels against a
// company's period calendar.
package fiscal

import (
	"regexp"
	"strings"
	"time"

	"github.com/ledgerline/statement-recon/internal/models"
)

// fyLabelPattern matches single-year labels like "FY2025".
var fyLabelPattern = regexp.MustCompile(`(?i)^FY\s*(\d{4})$`)

// MatchPeriod resolves a candidate period label against the company's
// periods using a three-tier fallback:
//
//  1. exact name match (case-insensitive);
//  2. date-range containment of the transaction date;
//  3. FY-label normalization: "FY2025" is treated as the period ending in
//     2025 (the business labels a March-2024 to Feb-2025 year that way).
//
// A nil result means no tier matched; the caller decides whether to skip
// or reject the row. Label formats not covered by these tiers are left
// unresolved rather than guessed at.
func MatchPeriod(label string, txDate time.Time, periods []models.FiscalPeriod) *models.FiscalPeriod {
	label = strings.TrimSpace(label)

	if label != "" {
		for i := range periods {
			if strings.EqualFold(periods[i].Name, label) {
				return &periods[i]
			}
		}
	}

	if !txDate.IsZero() {
		for i := range periods {
			if periods[i].Contains(txDate) {
				return &periods[i]
			}
		}
	}

	if m := fyLabelPattern.FindStringSubmatch(label); m != nil {
		endYear := m[1]
		for i := range periods {
			if matchesFiscalYear(&periods[i], endYear) {
				return &periods[i]
			}
		}
	}

	return nil
}

// matchesFiscalYear reports whether the period represents the fiscal year
// ending in endYear, either by its date range or by a spanning name such
// as "FY2024-2025".
func matchesFiscalYear(p *models.FiscalPeriod, endYear string) bool {
	if !p.EndDate.IsZero() && p.EndDate.Format("2006") == endYear {
		return true
	}
	name := strings.ToUpper(strings.ReplaceAll(p.Name, " ", ""))
	return strings.HasPrefix(name, "FY") && strings.HasSuffix(name, endYear)
}
