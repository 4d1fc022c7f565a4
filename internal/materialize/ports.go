// Package materialize converts parsed statement records into persisted
// bank transactions. External collaborators are consumed through narrow
// ports; the core issues no SQL directly.
package materialize

import (
	"context"

	"github.com/google/uuid"

	"github.com/ledgerline/statement-recon/internal/models"
)

// TransactionRepository is the persistence port for bank transactions.
type TransactionRepository interface {
	// SaveBatch persists all rows or none of them: a failure on any row
	// must leave the store without any row from the batch.
	SaveBatch(ctx context.Context, txns []models.BankTransaction) error
	FindByCompanyAndPeriod(ctx context.Context, companyID string, periodID uuid.UUID) ([]models.BankTransaction, error)
}

// PeriodCatalog lists a company's fiscal periods. Read-only input to the
// period matcher.
type PeriodCatalog interface {
	ListPeriods(ctx context.Context, companyID string) ([]models.FiscalPeriod, error)
}

// Classifier assigns a ledger account code to a transaction. An empty
// account ID is valid and lands the row in the unclassified bucket.
type Classifier interface {
	Classify(ctx context.Context, txn *models.BankTransaction) (accountID string, err error)
}
