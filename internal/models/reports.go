package models

import "github.com/shopspring/decimal"

// DiscrepancyReport is the result of comparing a statement-derived
// transaction set against the stored set for the same company and period.
// Built fresh per reconciliation run and returned to the caller; never
// persisted.
type DiscrepancyReport struct {
	IsValid             bool              `json:"isValid"`
	TotalDebits         decimal.Decimal   `json:"totalDebits"`
	TotalCredits        decimal.Decimal   `json:"totalCredits"`
	FinalBalance        decimal.Decimal   `json:"finalBalance"`
	Discrepancies       []string          `json:"discrepancies"`
	MissingTransactions []BankTransaction `json:"missingTransactions"`
	ExtraTransactions   []BankTransaction `json:"extraTransactions"`
}

// AccountTotals holds the debit and credit totals for one account bucket.
type AccountTotals struct {
	DebitTotal  decimal.Decimal `json:"debitTotal"`
	CreditTotal decimal.Decimal `json:"creditTotal"`
}

// LedgerTotals maps an account key to its accumulated totals. Rebuilt per
// report request; never cached across requests.
type LedgerTotals map[string]AccountTotals

// TrialBalance summarizes the double-entry check over a transaction set.
// An unbalanced result is reported, never thrown: the numbers still render
// so the discrepancy is visible to the accountant.
type TrialBalance struct {
	TotalDebits  decimal.Decimal `json:"totalDebits"`
	TotalCredits decimal.Decimal `json:"totalCredits"`
	Balanced     bool            `json:"balanced"`
	Warning      string          `json:"warning,omitempty"`
}
