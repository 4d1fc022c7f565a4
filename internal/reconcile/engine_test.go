package reconcile

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerline/statement-recon/internal/models"
)

var testPeriod = uuid.New()

func debit(day int, details, amount string) models.BankTransaction {
	d := decimal.RequireFromString(amount)
	return models.BankTransaction{
		ID:              uuid.New(),
		CompanyID:       "acme",
		FiscalPeriodID:  testPeriod,
		TransactionDate: time.Date(2025, 3, day, 0, 0, 0, 0, time.UTC),
		Details:         details,
		DebitAmount:     &d,
	}
}

func credit(day int, details, amount string) models.BankTransaction {
	d := decimal.RequireFromString(amount)
	return models.BankTransaction{
		ID:              uuid.New(),
		CompanyID:       "acme",
		FiscalPeriodID:  testPeriod,
		TransactionDate: time.Date(2025, 3, day, 0, 0, 0, 0, time.UTC),
		Details:         details,
		CreditAmount:    &d,
	}
}

func TestVerify_IdenticalSets(t *testing.T) {
	set := []models.BankTransaction{
		credit(1, "DEPOSIT FROM CUSTOMER", "1500.00"),
		debit(5, "TRANSFER TO VENDOR", "750.50"),
		debit(5, "FEE-ELECTRONIC PAYMENT", "8.90"),
	}
	// IDs differ between the two sets; matching is by content, not identity.
	other := []models.BankTransaction{
		credit(1, "DEPOSIT FROM CUSTOMER", "1500.00"),
		debit(5, "TRANSFER TO VENDOR", "750.50"),
		debit(5, "FEE-ELECTRONIC PAYMENT", "8.90"),
	}

	report, err := NewEngine().Verify(set, other)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !report.IsValid {
		t.Errorf("identical sets: IsValid false, discrepancies: %v", report.Discrepancies)
	}
	if len(report.MissingTransactions) != 0 || len(report.ExtraTransactions) != 0 {
		t.Errorf("identical sets: missing %d, extra %d, want 0 and 0",
			len(report.MissingTransactions), len(report.ExtraTransactions))
	}
	if !report.TotalDebits.Equal(decimal.RequireFromString("759.40")) {
		t.Errorf("total debits: got %s, want 759.40", report.TotalDebits)
	}
	if !report.TotalCredits.Equal(decimal.RequireFromString("1500.00")) {
		t.Errorf("total credits: got %s, want 1500.00", report.TotalCredits)
	}
	if !report.FinalBalance.Equal(decimal.RequireFromString("740.60")) {
		t.Errorf("final balance: got %s, want 740.60", report.FinalBalance)
	}
}

func TestVerify_EmptyStatementAgainstStoredRows(t *testing.T) {
	stored := []models.BankTransaction{
		credit(1, "DEPOSIT FROM CUSTOMER", "1500.00"),
		debit(5, "TRANSFER TO VENDOR", "750.50"),
	}

	report, err := NewEngine().Verify([]models.BankTransaction{}, stored)
	if err != nil {
		t.Fatalf("a data mismatch must not be an error, got: %v", err)
	}
	if report.IsValid {
		t.Error("IsValid true, want false")
	}
	if len(report.ExtraTransactions) != 2 {
		t.Errorf("extra: got %d, want 2", len(report.ExtraTransactions))
	}
	if len(report.MissingTransactions) != 0 {
		t.Errorf("missing: got %d, want 0", len(report.MissingTransactions))
	}
	if len(report.Discrepancies) == 0 {
		t.Error("discrepancy list empty, want entries for every difference")
	}
}

func TestVerify_MissingAndExtra(t *testing.T) {
	statement := []models.BankTransaction{
		credit(1, "DEPOSIT FROM CUSTOMER", "1500.00"),
		debit(8, "CHEQUE 101", "200.00"),
	}
	stored := []models.BankTransaction{
		credit(1, "DEPOSIT FROM CUSTOMER", "1500.00"),
		debit(9, "RENT MARCH", "900.00"),
	}

	report, err := NewEngine().Verify(statement, stored)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.IsValid {
		t.Error("IsValid true, want false")
	}
	if len(report.MissingTransactions) != 1 || report.MissingTransactions[0].Details != "CHEQUE 101" {
		t.Errorf("missing: got %+v, want the cheque row", report.MissingTransactions)
	}
	if len(report.ExtraTransactions) != 1 || report.ExtraTransactions[0].Details != "RENT MARCH" {
		t.Errorf("extra: got %+v, want the rent row", report.ExtraTransactions)
	}
}

// Punctuation and case differences in descriptions do not break a match.
func TestVerify_NormalizedDescriptions(t *testing.T) {
	statement := []models.BankTransaction{debit(5, "Transfer to: Vendor, Ltd.", "750.50")}
	stored := []models.BankTransaction{debit(5, "TRANSFER TO VENDOR LTD", "750.50")}

	report, err := NewEngine().Verify(statement, stored)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !report.IsValid {
		t.Errorf("normalized match failed: %v", report.Discrepancies)
	}
}

// Duplicate rows pair one-to-one: two identical statement rows need two
// identical stored rows.
func TestVerify_DuplicatesPairOneToOne(t *testing.T) {
	statement := []models.BankTransaction{
		debit(5, "ATM WITHDRAWAL", "100.00"),
		debit(5, "ATM WITHDRAWAL", "100.00"),
	}
	stored := []models.BankTransaction{
		debit(5, "ATM WITHDRAWAL", "100.00"),
	}

	report, err := NewEngine().Verify(statement, stored)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.MissingTransactions) != 1 {
		t.Errorf("missing: got %d, want 1", len(report.MissingTransactions))
	}
	if len(report.ExtraTransactions) != 0 {
		t.Errorf("extra: got %d, want 0", len(report.ExtraTransactions))
	}
}

func TestVerify_ToleranceOnTotals(t *testing.T) {
	statement := []models.BankTransaction{debit(5, "TRANSFER TO VENDOR", "750.50")}
	stored := []models.BankTransaction{debit(5, "TRANSFER TO VENDOR", "750.50")}

	report, err := NewEngine().Verify(statement, stored)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !report.IsValid {
		t.Errorf("matching sets: IsValid false: %v", report.Discrepancies)
	}

	// Beyond tolerance the difference is reported.
	bigger := decimal.RequireFromString("760.50")
	stored[0].DebitAmount = &bigger
	stored[0].Details = "TRANSFER TO VENDOR" // same description, different amount
	report, err = NewEngine().Verify(statement, stored)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.IsValid {
		t.Error("IsValid true with a 10.00 debit difference")
	}
}

func TestVerify_NilSetsAreContractErrors(t *testing.T) {
	var contract *models.ErrContract

	_, err := NewEngine().Verify(nil, []models.BankTransaction{})
	if !errors.As(err, &contract) {
		t.Errorf("nil statement: got %v, want ErrContract", err)
	}
	_, err = NewEngine().Verify([]models.BankTransaction{}, nil)
	if !errors.As(err, &contract) {
		t.Errorf("nil stored: got %v, want ErrContract", err)
	}
}

func TestVerify_EmptyVsEmptyIsValid(t *testing.T) {
	report, err := NewEngine().Verify([]models.BankTransaction{}, []models.BankTransaction{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !report.IsValid {
		t.Error("two empty sets should reconcile clean")
	}
}
