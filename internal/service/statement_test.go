package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ledgerline/statement-recon/internal/models"
	"github.com/ledgerline/statement-recon/internal/store"
)

const marchStatement = `FIRST COMMERCIAL BANK
Account Number: 1234567890
Statement period: 01/03/2025 to 31/03/2025

Date Description Amount Balance
01/03/2025 DEPOSIT FROM CUSTOMER 1,500.00 1,500.00
05/03/2025 TRANSFER TO VENDOR 750.50- FEE-ELECTRONIC PAYMENT 8.90-
10/03/2025 ## MONTHLY ACCOUNT FEE 35.00-
15/03/2025 SUNDRY ITEM 12.00
Closing balance 705.60`

func newTestService(t *testing.T) (*Statement, *store.Memory, uuid.UUID) {
	t.Helper()
	mem := store.NewMemory()
	period := models.FiscalPeriod{
		ID:        uuid.New(),
		CompanyID: "acme",
		Name:      "FY2024-2026",
		StartDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC),
	}
	mem.AddPeriod(period)
	svc := NewStatement(mem, mem, nil, nil, zap.NewNop())
	svc.SetPeriodRegistrar(mem)
	return svc, mem, period.ID
}

func TestImportPages_EndToEnd(t *testing.T) {
	ctx := context.Background()
	svc, _, periodID := newTestService(t)

	res, err := svc.ImportPages(ctx, []string{marchStatement}, "march.txt", "acme", periodID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.AccountNumber != "1234567890" {
		t.Errorf("account number: got %q, want 1234567890", res.AccountNumber)
	}
	if res.StatementPeriod != "01/03/2025 to 31/03/2025" {
		t.Errorf("statement period: got %q", res.StatementPeriod)
	}
	if res.Candidates != 4 {
		t.Errorf("candidates: got %d, want 4", res.Candidates)
	}
	if res.Parsed != 4 {
		t.Errorf("parsed: got %d, want 4", res.Parsed)
	}
	if res.Saved != 4 {
		t.Errorf("saved: got %d, want 4", res.Saved)
	}
	if len(res.Skipped) != 1 {
		t.Errorf("skipped: got %d, want 1", len(res.Skipped))
	}

	stored, err := svc.Transactions(ctx, "acme", periodID)
	if err != nil {
		t.Fatalf("Transactions: %v", err)
	}
	if len(stored) != 4 {
		t.Fatalf("stored rows: got %d, want 4", len(stored))
	}
}

func TestReconcile_RoundTrip(t *testing.T) {
	ctx := context.Background()
	svc, _, periodID := newTestService(t)

	res, err := svc.ImportPages(ctx, []string{marchStatement}, "march.txt", "acme", periodID)
	if err != nil {
		t.Fatalf("import: %v", err)
	}

	// The statement reconciled against its own materialized rows is clean.
	report, err := svc.Reconcile(ctx, res.Transactions, "acme", periodID)
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if !report.IsValid {
		t.Errorf("round trip not clean: %v", report.Discrepancies)
	}
	if !report.TotalDebits.Equal(decimal.RequireFromString("794.40")) {
		t.Errorf("debits: got %s, want 794.40", report.TotalDebits)
	}
	if !report.TotalCredits.Equal(decimal.RequireFromString("1500.00")) {
		t.Errorf("credits: got %s, want 1500.00", report.TotalCredits)
	}
}

func TestTrialBalanceReport(t *testing.T) {
	ctx := context.Background()
	svc, _, periodID := newTestService(t)

	if _, err := svc.ImportPages(ctx, []string{marchStatement}, "march.txt", "acme", periodID); err != nil {
		t.Fatalf("import: %v", err)
	}

	totals, tb, err := svc.TrialBalanceReport(ctx, "acme", periodID)
	if err != nil {
		t.Fatalf("trial balance: %v", err)
	}

	// Without a classifier every row lands in the unclassified bucket.
	if len(totals) != 1 {
		t.Fatalf("accounts: got %d, want 1", len(totals))
	}
	unclassified := totals[models.UnclassifiedAccount]
	if !unclassified.DebitTotal.Equal(decimal.RequireFromString("794.40")) {
		t.Errorf("debit total: got %s, want 794.40", unclassified.DebitTotal)
	}
	if !unclassified.CreditTotal.Equal(decimal.RequireFromString("1500.00")) {
		t.Errorf("credit total: got %s, want 1500.00", unclassified.CreditTotal)
	}

	// A single-sided bank book does not balance; the report says so
	// without erroring.
	if tb.Balanced {
		t.Error("single-sided book reported balanced")
	}
	if tb.Warning == "" {
		t.Error("no warning on unbalanced book")
	}
}

func TestImportCSVExport(t *testing.T) {
	ctx := context.Background()
	svc, _, periodID := newTestService(t)

	csv := `Date,Description,Debit,Credit
2025-03-05,TRANSFER TO VENDOR,750.50,
2025-03-01,DEPOSIT FROM CUSTOMER,,1500.00
`
	res, err := svc.ImportCSVExport(ctx, strings.NewReader(csv), "acme", "ledger.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Transactions) != 2 {
		t.Fatalf("accepted rows: got %d, want 2", len(res.Transactions))
	}

	stored, err := svc.Transactions(ctx, "acme", periodID)
	if err != nil {
		t.Fatalf("Transactions: %v", err)
	}
	if len(stored) != 2 {
		t.Errorf("stored rows: got %d, want 2", len(stored))
	}
}

func TestImportPages_EmptyDocument(t *testing.T) {
	ctx := context.Background()
	svc, _, periodID := newTestService(t)

	res, err := svc.ImportPages(ctx, nil, "empty.txt", "acme", periodID)
	if err != nil {
		t.Fatalf("an empty document is a valid outcome, got: %v", err)
	}
	if res.Parsed != 0 || res.Saved != 0 {
		t.Errorf("got parsed=%d saved=%d, want zeros", res.Parsed, res.Saved)
	}
}

func TestRegisterPeriod(t *testing.T) {
	svc, _, _ := newTestService(t)

	err := svc.RegisterPeriod(models.FiscalPeriod{
		ID:        uuid.New(),
		CompanyID: "acme",
		Name:      "FY2026-2027",
		StartDate: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2027, 2, 28, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("RegisterPeriod: %v", err)
	}

	periods, err := svc.Periods(context.Background(), "acme")
	if err != nil {
		t.Fatalf("Periods: %v", err)
	}
	if len(periods) != 2 {
		t.Errorf("periods: got %d, want 2", len(periods))
	}

	if err := svc.RegisterPeriod(models.FiscalPeriod{Name: "no company"}); err == nil {
		t.Error("expected validation error for period without company")
	}
}
