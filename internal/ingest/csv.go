package ingest

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/ledgerline/statement-recon/internal/models"
)

// ReadCSV ingests a CSV transaction export. The first record is the
// header; rows with a wrong field count are rejected individually rather
// than failing the file.
func ReadCSV(r io.Reader, companyID, sourceFile string, periods []models.FiscalPeriod) (Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return Result{}, fmt.Errorf("read csv: %w", err)
	}
	return ingestRecords(records, companyID, sourceFile, periods)
}
