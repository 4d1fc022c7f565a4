// Package ingest reads externally supplied transaction exports (CSV or
// XLSX) and resolves each row against the company's fiscal calendar.
package ingest

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerline/statement-recon/internal/fiscal"
	"github.com/ledgerline/statement-recon/internal/models"
)

// RowError records a rejected input row for diagnostics.
type RowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// Result is the outcome of ingesting one export file. Rejected rows are
// reported, not fatal: processing continues with the remaining rows.
type Result struct {
	Transactions []models.BankTransaction `json:"transactions"`
	Skipped      []RowError               `json:"skipped,omitempty"`
}

// column indexes resolved from the export's header row.
type columns struct {
	date, details, debit, credit, period, account int
}

func resolveColumns(header []string) (columns, error) {
	c := columns{date: -1, details: -1, debit: -1, credit: -1, period: -1, account: -1}
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "date", "transaction date":
			c.date = i
		case "description", "details":
			c.details = i
		case "debit", "debit amount":
			c.debit = i
		case "credit", "credit amount":
			c.credit = i
		case "period", "fiscal period":
			c.period = i
		case "account", "account code":
			c.account = i
		}
	}
	if c.date < 0 || c.details < 0 || (c.debit < 0 && c.credit < 0) {
		return c, fmt.Errorf("export header must name date, description and debit/credit columns, got %v", header)
	}
	return c, nil
}

var rowDateLayouts = []string{"2006-01-02", "02/01/2006", "2/1/2006", "2 Jan 2006", "02 Jan 2006"}

func parseRowDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range rowDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

func cell(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

// buildRow converts one export record into a BankTransaction, resolving
// its fiscal period through the three-tier matcher. An unresolved period
// rejects the row rather than guessing.
func buildRow(record []string, cols columns, rowNum int, companyID, sourceFile string, periods []models.FiscalPeriod) (models.BankTransaction, *RowError) {
	var zero models.BankTransaction

	date, err := parseRowDate(cell(record, cols.date))
	if err != nil {
		return zero, &RowError{Row: rowNum, Reason: err.Error()}
	}

	details := cell(record, cols.details)
	if details == "" {
		return zero, &RowError{Row: rowNum, Reason: "empty description"}
	}

	debitStr := cell(record, cols.debit)
	creditStr := cell(record, cols.credit)
	if (debitStr == "") == (creditStr == "") {
		return zero, &RowError{Row: rowNum, Reason: "exactly one of debit/credit must be set"}
	}

	var debit, credit *decimal.Decimal
	if debitStr != "" {
		d, err := parseMoney(debitStr)
		if err != nil {
			return zero, &RowError{Row: rowNum, Reason: "debit: " + err.Error()}
		}
		debit = &d
	} else {
		d, err := parseMoney(creditStr)
		if err != nil {
			return zero, &RowError{Row: rowNum, Reason: "credit: " + err.Error()}
		}
		credit = &d
	}

	period := fiscal.MatchPeriod(cell(record, cols.period), date, periods)
	if period == nil {
		return zero, &RowError{Row: rowNum, Reason: fmt.Sprintf(
			"unresolved fiscal period for label %q and date %s",
			cell(record, cols.period), date.Format("2006-01-02"))}
	}

	txn := models.BankTransaction{
		ID:                      uuid.New(),
		CompanyID:               companyID,
		FiscalPeriodID:          period.ID,
		TransactionDate:         date,
		Details:                 details,
		DebitAmount:             debit,
		CreditAmount:            credit,
		StatementPeriod:         period.Name,
		SourceFile:              sourceFile,
		ClassificationAccountID: cell(record, cols.account),
	}
	if err := txn.Validate(); err != nil {
		return zero, &RowError{Row: rowNum, Reason: err.Error()}
	}
	return txn, nil
}

// parseMoney parses an export amount cell: absolute two-decimal value,
// currency symbols and separators stripped.
func parseMoney(s string) (decimal.Decimal, error) {
	for _, sym := range []string{"£", "$", "€", "R", ",", " "} {
		s = strings.ReplaceAll(s, sym, "")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}
	if d.Sign() <= 0 {
		return decimal.Zero, fmt.Errorf("amount must be positive, got %s", d)
	}
	return d.Round(2), nil
}

func ingestRecords(records [][]string, companyID, sourceFile string, periods []models.FiscalPeriod) (Result, error) {
	res := Result{Transactions: []models.BankTransaction{}}
	if len(records) == 0 {
		return res, nil
	}

	cols, err := resolveColumns(records[0])
	if err != nil {
		return res, err
	}

	for i, record := range records[1:] {
		rowNum := i + 2 // 1-based, after the header row
		if len(record) == 0 {
			continue
		}
		txn, rowErr := buildRow(record, cols, rowNum, companyID, sourceFile, periods)
		if rowErr != nil {
			res.Skipped = append(res.Skipped, *rowErr)
			continue
		}
		res.Transactions = append(res.Transactions, txn)
	}
	return res, nil
}
