package materialize

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ledgerline/statement-recon/internal/models"
)

// Materializer turns parsed transactions into persisted BankTransaction
// rows for a company and fiscal period. Persistence is all-or-nothing per
// document: a failure on any row rolls back the whole batch.
type Materializer struct {
	repo       TransactionRepository
	classifier Classifier
	logger     *zap.Logger
}

// NewMaterializer wires the repository port. classifier may be nil, in
// which case every row stays in the unclassified bucket.
func NewMaterializer(repo TransactionRepository, classifier Classifier, logger *zap.Logger) *Materializer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Materializer{repo: repo, classifier: classifier, logger: logger}
}

// Materialize maps parsed transactions to persisted rows and saves them in
// one atomic batch. CREDIT maps to the credit column; DEBIT and FEE map to
// the debit column. The running balance starts from the document's opening
// balance and accumulates signed amounts in document order.
func (m *Materializer) Materialize(ctx context.Context, parsed []models.ParsedTransaction, companyID string, periodID uuid.UUID) ([]models.BankTransaction, error) {
	if companyID == "" {
		return nil, &models.ErrContract{Op: "Materialize", Reason: "empty company id"}
	}

	rows := make([]models.BankTransaction, 0, len(parsed))
	balance := decimal.Zero
	if len(parsed) > 0 {
		balance = parsed[0].Context().OpeningBalance
	}

	for _, p := range parsed {
		amount := p.Amount().Round(2)
		row := models.BankTransaction{
			ID:              uuid.New(),
			CompanyID:       companyID,
			FiscalPeriodID:  periodID,
			TransactionDate: p.Date(),
			Details:         p.Description(),
			ServiceFee:      p.IsServiceFee(),
			AccountNumber:   p.Context().AccountNumber,
			StatementPeriod: p.Context().StatementPeriod,
			SourceFile:      p.Context().SourceFile,
		}

		switch p.Kind() {
		case models.KindCredit:
			row.CreditAmount = &amount
			balance = balance.Add(amount)
		default: // DEBIT and FEE both post to the debit column
			row.DebitAmount = &amount
			balance = balance.Sub(amount)
		}
		row.Balance = balance

		if m.classifier != nil {
			accountID, err := m.classifier.Classify(ctx, &row)
			if err != nil {
				m.logger.Warn("classification failed, leaving row unclassified",
					zap.String("details", row.Details), zap.Error(err))
			} else {
				row.ClassificationAccountID = accountID
			}
		}

		if err := row.Validate(); err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return rows, nil
	}

	if err := m.repo.SaveBatch(ctx, rows); err != nil {
		return nil, &models.ErrPersistence{Op: "materialize batch", Err: err}
	}

	m.logger.Info("materialized statement batch",
		zap.String("company_id", companyID),
		zap.String("period_id", periodID.String()),
		zap.Int("rows", len(rows)),
	)
	return rows, nil
}
