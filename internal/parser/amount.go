package parser

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerline/statement-recon/internal/models"
)

// ParseAmount converts a statement amount token to a signed decimal.
// Currency symbols and thousands separators are stripped; a trailing "-"
// or surrounding parentheses mark an outflow and yield a negative value,
// regardless of how the source formats it.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}
	if strings.HasSuffix(s, "-") {
		negative = true
		s = strings.TrimSuffix(s, "-")
	}
	if strings.HasPrefix(s, "-") {
		negative = true
		s = strings.TrimPrefix(s, "-")
	}

	for _, sym := range []string{"£", "$", "€", "R", ",", " ", " "} {
		s = strings.ReplaceAll(s, sym, "")
	}

	if s == "" {
		return decimal.Zero, fmt.Errorf("empty amount token")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse amount %q: %w", s, err)
	}
	if negative {
		d = d.Neg()
	}
	return d, nil
}

var dateLayouts = []string{
	"02/01/2006",
	"2/1/2006",
	"02/01/06",
	"2/1/06",
	"2 Jan 2006",
	"02 Jan 2006",
	"2 January 2006",
	"2 Jan 06",
	"2-Jan-2006",
	"2006-01-02",
}

// parseDateToken parses a date token from a statement line. Tokens the
// layouts cannot handle fall back to the statement date from the context,
// as do lines carrying no date at all.
func parseDateToken(token string, ctx *models.ParsingContext) time.Time {
	token = strings.TrimSpace(token)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, token); err == nil {
			return t
		}
	}
	return ctx.StatementDate
}
