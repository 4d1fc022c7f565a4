package models

import (
	"time"

	"github.com/google/uuid"
)

// FiscalPeriod is a company-defined accounting interval. Periods are not
// necessarily calendar-aligned (a "FY2024-2025" year may run March to
// February).
type FiscalPeriod struct {
	ID        uuid.UUID `json:"id"`
	CompanyID string    `json:"companyId"`
	Name      string    `json:"name"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
}

// Contains reports whether d falls inside the period, inclusive of both ends.
func (p *FiscalPeriod) Contains(d time.Time) bool {
	if d.Before(p.StartDate) {
		return false
	}
	// EndDate is the last day of the period; anything before the following
	// midnight still belongs to it.
	return d.Before(p.EndDate.AddDate(0, 0, 1))
}
