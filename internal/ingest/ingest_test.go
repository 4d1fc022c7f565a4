package ingest

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/ledgerline/statement-recon/internal/models"
)

func testPeriods() []models.FiscalPeriod {
	return []models.FiscalPeriod{
		{
			ID:        uuid.New(),
			CompanyID: "acme",
			Name:      "FY2024-2025",
			StartDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC),
		},
	}
}

const exportCSV = `Date,Description,Debit,Credit,Period,Account
2024-06-15,RENT JUNE,900.00,,FY2025,facilities
2024-07-01,SALE INVOICE 100,,£1500.00,,sales
notadate,BROKEN ROW,5.00,,,
2024-08-01,NO AMOUNTS,,,,
2030-01-01,OUTSIDE EVERY PERIOD,5.00,,,
`

func TestReadCSV(t *testing.T) {
	periods := testPeriods()
	res, err := ReadCSV(strings.NewReader(exportCSV), "acme", "export.csv", periods)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(res.Transactions) != 2 {
		t.Fatalf("accepted rows: got %d, want 2", len(res.Transactions))
	}
	if len(res.Skipped) != 3 {
		t.Fatalf("rejected rows: got %d, want 3: %+v", len(res.Skipped), res.Skipped)
	}

	rent := res.Transactions[0]
	if rent.Details != "RENT JUNE" {
		t.Errorf("details: got %q", rent.Details)
	}
	if rent.DebitAmount == nil || !rent.DebitAmount.Equal(decimal.RequireFromString("900.00")) {
		t.Errorf("debit: got %+v, want 900.00", rent.DebitAmount)
	}
	if rent.FiscalPeriodID != periods[0].ID {
		t.Error("fiscal period not resolved to FY2024-2025")
	}
	if rent.ClassificationAccountID != "facilities" {
		t.Errorf("account: got %q, want facilities", rent.ClassificationAccountID)
	}

	sale := res.Transactions[1]
	if sale.CreditAmount == nil || !sale.CreditAmount.Equal(decimal.RequireFromString("1500.00")) {
		t.Errorf("credit: got %+v, want 1500.00", sale.CreditAmount)
	}

	// Rejected rows keep their 1-based row numbers.
	wantRows := []int{4, 5, 6}
	for i, w := range wantRows {
		if res.Skipped[i].Row != w {
			t.Errorf("skip[%d] row: got %d, want %d", i, res.Skipped[i].Row, w)
		}
	}
	if !strings.Contains(res.Skipped[2].Reason, "unresolved fiscal period") {
		t.Errorf("skip[2] reason: got %q", res.Skipped[2].Reason)
	}
}

func TestReadCSV_BadHeader(t *testing.T) {
	csv := "Foo,Bar\n1,2\n"
	if _, err := ReadCSV(strings.NewReader(csv), "acme", "x.csv", testPeriods()); err == nil {
		t.Error("expected header error")
	}
}

func TestReadCSV_EmptyFile(t *testing.T) {
	res, err := ReadCSV(strings.NewReader(""), "acme", "x.csv", testPeriods())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Transactions) != 0 {
		t.Errorf("rows from empty file: %d", len(res.Transactions))
	}
}

func TestReadXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"Date", "Description", "Debit", "Credit", "Period", "Account"},
		{"2024-06-15", "RENT JUNE", "900.00", "", "", "facilities"},
		{"2024-07-01", "SALE INVOICE 100", "", "1500.00", "", "sales"},
		{"notadate", "BROKEN ROW", "5.00", "", "", ""},
	}
	for i, r := range rows {
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+1), &r); err != nil {
			t.Fatalf("SetSheetRow: %v", err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer: %v", err)
	}

	res, err := ReadXLSX(bytes.NewReader(buf.Bytes()), "acme", "export.xlsx", testPeriods())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Transactions) != 2 {
		t.Fatalf("accepted rows: got %d, want 2: %+v", len(res.Transactions), res.Skipped)
	}
	if len(res.Skipped) != 1 {
		t.Errorf("rejected rows: got %d, want 1", len(res.Skipped))
	}
	if res.Transactions[0].Details != "RENT JUNE" {
		t.Errorf("details: got %q", res.Transactions[0].Details)
	}
	if res.Transactions[0].SourceFile != "export.xlsx" {
		t.Errorf("source file: got %q", res.Transactions[0].SourceFile)
	}
}

func TestResolveColumns_HeaderVariants(t *testing.T) {
	cols, err := resolveColumns([]string{"Transaction Date", "Details", "Debit Amount", "Credit Amount"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cols.date != 0 || cols.details != 1 || cols.debit != 2 || cols.credit != 3 {
		t.Errorf("columns: got %+v", cols)
	}
	if cols.period != -1 || cols.account != -1 {
		t.Errorf("optional columns should be absent: %+v", cols)
	}
}

func TestParseMoney(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "900.00", want: "900.00"},
		{in: "£1,500.00", want: "1500.00"},
		{in: "R 250.75", want: "250.75"},
		{in: "-5.00", wantErr: true},
		{in: "0", wantErr: true},
		{in: "abc", wantErr: true},
	}
	for _, tt := range tests {
		got, err := parseMoney(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseMoney(%q): expected error, got %s", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseMoney(%q): %v", tt.in, err)
			continue
		}
		if !got.Equal(decimal.RequireFromString(tt.want)) {
			t.Errorf("parseMoney(%q): got %s, want %s", tt.in, got, tt.want)
		}
	}
}
