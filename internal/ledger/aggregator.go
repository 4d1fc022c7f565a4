// Package ledger folds classified transactions into per-account totals and
// validates double-entry invariants.
package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ledgerline/statement-recon/internal/models"
)

// tolerance for the balanced check, two decimal places of currency.
var tolerance = decimal.NewFromFloat(0.01)

// Aggregate folds transactions into per-account debit/credit totals.
// Classification is assumed already assigned; unclassified rows land in
// the sentinel bucket, never an error. When accountFilter is non-empty,
// only that account's transactions are folded. The result is rebuilt on
// every call so it always reflects current data.
func Aggregate(txns []models.BankTransaction, accountFilter string) models.LedgerTotals {
	totals := make(models.LedgerTotals)
	for i := range txns {
		key := txns[i].AccountKey()
		if accountFilter != "" && key != accountFilter {
			continue
		}
		acc := totals[key]
		if txns[i].DebitAmount != nil {
			acc.DebitTotal = acc.DebitTotal.Add(*txns[i].DebitAmount)
		}
		if txns[i].CreditAmount != nil {
			acc.CreditTotal = acc.CreditTotal.Add(*txns[i].CreditAmount)
		}
		totals[key] = acc
	}
	return totals
}

// TrialBalance sums every account's debits and credits and checks the
// double-entry invariant. Addition over decimals is commutative, so the
// result does not depend on input order. An unbalanced book is surfaced
// as a warning, never an error: the report must still render the
// incorrect numbers so the discrepancy is visible to the accountant.
func TrialBalance(txns []models.BankTransaction) models.TrialBalance {
	var debits, credits decimal.Decimal
	for i := range txns {
		if txns[i].DebitAmount != nil {
			debits = debits.Add(*txns[i].DebitAmount)
		}
		if txns[i].CreditAmount != nil {
			credits = credits.Add(*txns[i].CreditAmount)
		}
	}

	tb := models.TrialBalance{
		TotalDebits:  debits.Round(2),
		TotalCredits: credits.Round(2),
	}
	diff := debits.Sub(credits).Abs()
	tb.Balanced = diff.LessThanOrEqual(tolerance)
	if !tb.Balanced {
		tb.Warning = fmt.Sprintf("trial balance out by %s: debits %s, credits %s",
			diff.StringFixed(2), tb.TotalDebits.StringFixed(2), tb.TotalCredits.StringFixed(2))
	}
	return tb
}
