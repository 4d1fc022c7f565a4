package ingest

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/ledgerline/statement-recon/internal/models"
)

// ReadXLSX ingests an XLSX transaction export. Only the first sheet is
// read; its first row is the header.
func ReadXLSX(r io.Reader, companyID, sourceFile string, periods []models.FiscalPeriod) (Result, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Result{}, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return Result{Transactions: []models.BankTransaction{}}, nil
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return Result{}, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return ingestRecords(rows, companyID, sourceFile, periods)
}
