// Package reconcile compares two independently derived transaction sets
// and reports their disagreements.
package reconcile

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ledgerline/statement-recon/internal/models"
)

// DefaultTolerance is the monetary tolerance for total comparisons.
var DefaultTolerance = decimal.NewFromFloat(0.01)

// Engine matches statement-derived transactions against stored ones.
// Data mismatches are the expected output, never an error; the engine
// errors only on malformed input (nil sets), which is a contract
// violation.
type Engine struct {
	Tolerance decimal.Decimal
}

// NewEngine returns an engine with the default tolerance.
func NewEngine() *Engine {
	return &Engine{Tolerance: DefaultTolerance}
}

// Verify compares the two sets and always returns a complete report.
// Transactions match on date, amount, and roughly-normalized description.
// Unmatched statement-side rows become MissingTransactions (present on the
// statement, absent from the store); unmatched store-side rows become
// ExtraTransactions. IsValid is true only when both unmatched lists are
// empty and both totals agree within tolerance.
func (e *Engine) Verify(statement, stored []models.BankTransaction) (*models.DiscrepancyReport, error) {
	if statement == nil {
		return nil, &models.ErrContract{Op: "Verify", Reason: "nil statement transaction set"}
	}
	if stored == nil {
		return nil, &models.ErrContract{Op: "Verify", Reason: "nil stored transaction set"}
	}

	report := &models.DiscrepancyReport{
		Discrepancies:       []string{},
		MissingTransactions: []models.BankTransaction{},
		ExtraTransactions:   []models.BankTransaction{},
	}

	// Index stored rows by match key; matching consumes entries so
	// duplicates pair one-to-one.
	storedByKey := make(map[string][]int)
	for i := range stored {
		k := matchKey(&stored[i])
		storedByKey[k] = append(storedByKey[k], i)
	}

	matchedStored := make(map[int]bool)
	for i := range statement {
		k := matchKey(&statement[i])
		if idxs := storedByKey[k]; len(idxs) > 0 {
			matchedStored[idxs[0]] = true
			storedByKey[k] = idxs[1:]
		} else {
			report.MissingTransactions = append(report.MissingTransactions, statement[i])
		}
	}
	for i := range stored {
		if !matchedStored[i] {
			report.ExtraTransactions = append(report.ExtraTransactions, stored[i])
		}
	}

	stmtDebits, stmtCredits := totals(statement)
	storedDebits, storedCredits := totals(stored)

	report.TotalDebits = stmtDebits
	report.TotalCredits = stmtCredits
	report.FinalBalance = stmtCredits.Sub(stmtDebits)

	tolerance := e.Tolerance
	if tolerance.IsZero() {
		tolerance = DefaultTolerance
	}

	debitDiff := stmtDebits.Sub(storedDebits).Abs()
	creditDiff := stmtCredits.Sub(storedCredits).Abs()

	if debitDiff.GreaterThan(tolerance) {
		report.Discrepancies = append(report.Discrepancies, fmt.Sprintf(
			"debit totals differ by %s: statement has %s, stored has %s",
			debitDiff.StringFixed(2), stmtDebits.StringFixed(2), storedDebits.StringFixed(2)))
	}
	if creditDiff.GreaterThan(tolerance) {
		report.Discrepancies = append(report.Discrepancies, fmt.Sprintf(
			"credit totals differ by %s: statement has %s, stored has %s",
			creditDiff.StringFixed(2), stmtCredits.StringFixed(2), storedCredits.StringFixed(2)))
	}
	for _, t := range report.MissingTransactions {
		report.Discrepancies = append(report.Discrepancies, fmt.Sprintf(
			"missing from store: %s %s %s",
			t.TransactionDate.Format("2006-01-02"), t.SignedAmount().StringFixed(2), t.Details))
	}
	for _, t := range report.ExtraTransactions {
		report.Discrepancies = append(report.Discrepancies, fmt.Sprintf(
			"not on statement: %s %s %s",
			t.TransactionDate.Format("2006-01-02"), t.SignedAmount().StringFixed(2), t.Details))
	}

	report.IsValid = len(report.MissingTransactions) == 0 &&
		len(report.ExtraTransactions) == 0 &&
		debitDiff.LessThanOrEqual(tolerance) &&
		creditDiff.LessThanOrEqual(tolerance)

	return report, nil
}

func totals(txns []models.BankTransaction) (debits, credits decimal.Decimal) {
	for i := range txns {
		if txns[i].DebitAmount != nil {
			debits = debits.Add(*txns[i].DebitAmount)
		}
		if txns[i].CreditAmount != nil {
			credits = credits.Add(*txns[i].CreditAmount)
		}
	}
	return debits, credits
}

var nonAlnum = regexp.MustCompile(`[^A-Z0-9 ]+`)

// normalizeDescription reduces a description to its comparable core:
// uppercased, punctuation stripped, whitespace collapsed.
func normalizeDescription(s string) string {
	s = strings.ToUpper(s)
	s = nonAlnum.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

func matchKey(t *models.BankTransaction) string {
	return t.TransactionDate.Format("2006-01-02") + "|" +
		t.SignedAmount().StringFixed(2) + "|" +
		normalizeDescription(t.Details)
}
