// Package service orchestrates the statement pipeline: extract, parse,
// materialize, reconcile, report.
package service

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ledgerline/statement-recon/internal/extractor"
	"github.com/ledgerline/statement-recon/internal/ingest"
	"github.com/ledgerline/statement-recon/internal/ledger"
	"github.com/ledgerline/statement-recon/internal/materialize"
	"github.com/ledgerline/statement-recon/internal/models"
	"github.com/ledgerline/statement-recon/internal/observability"
	"github.com/ledgerline/statement-recon/internal/parser"
	"github.com/ledgerline/statement-recon/internal/reconcile"
)

// ImportResult summarizes one document's trip through the pipeline.
type ImportResult struct {
	BatchID         uuid.UUID            `json:"batchId"`
	SourceFile      string               `json:"sourceFile"`
	AccountNumber   string               `json:"accountNumber,omitempty"`
	StatementPeriod string               `json:"statementPeriod,omitempty"`
	Candidates      int                  `json:"candidates"`
	Parsed          int                  `json:"parsed"`
	Saved           int                  `json:"saved"`
	Skipped         []parser.SkippedLine `json:"skipped,omitempty"`
	Duration        time.Duration        `json:"duration"`
	Transactions    []models.BankTransaction `json:"transactions,omitempty"`
}

// Statement wires the pipeline components behind one entry point. Safe to
// invoke concurrently for different documents; one document is processed
// start-to-finish by a single goroutine.
type Statement struct {
	repo      materialize.TransactionRepository
	catalog   materialize.PeriodCatalog
	pipeline  *parser.Pipeline
	mat       *materialize.Materializer
	engine    *reconcile.Engine
	metrics   *observability.Metrics
	logger    *zap.Logger
	registrar PeriodRegistrar
}

// NewStatement builds the service. classifier and metrics may be nil.
func NewStatement(repo materialize.TransactionRepository, catalog materialize.PeriodCatalog, classifier materialize.Classifier, metrics *observability.Metrics, logger *zap.Logger) *Statement {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Statement{
		repo:     repo,
		catalog:  catalog,
		pipeline: parser.NewPipeline(),
		mat:      materialize.NewMaterializer(repo, classifier, logger),
		engine:   reconcile.NewEngine(),
		metrics:  metrics,
		logger:   logger,
	}
}

// SetTolerance overrides the reconciliation tolerance.
func (s *Statement) SetTolerance(t decimal.Decimal) {
	s.engine.Tolerance = t
}

// ImportFile extracts a statement document from disk and imports it.
func (s *Statement) ImportFile(ctx context.Context, path, companyID string, periodID uuid.UUID) (*ImportResult, error) {
	pages, err := extractor.ExtractDocument(path)
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordDocument("extract_error")
		}
		return nil, err
	}
	return s.ImportPages(ctx, pages, path, companyID, periodID)
}

// ImportPages runs the parse-and-materialize pipeline over pre-extracted
// statement text. Zero transactions is a valid outcome, not a fault.
func (s *Statement) ImportPages(ctx context.Context, pages []string, sourceFile, companyID string, periodID uuid.UUID) (*ImportResult, error) {
	start := time.Now()

	pctx := &models.ParsingContext{
		AccountNumber:   extractor.ExtractAccountNumber(pages),
		StatementPeriod: extractor.ExtractStatementPeriod(pages),
		SourceFile:      sourceFile,
	}
	pctx.StatementDate = statementDateFromPeriod(pctx.StatementPeriod)

	sc := extractor.NewLineScanner(pages)
	parsed, err := s.pipeline.Run(sc, pctx)
	if err != nil {
		return nil, err
	}

	rows, err := s.mat.Materialize(ctx, parsed.Transactions, companyID, periodID)
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordDocument("failed")
		}
		s.logger.Error("statement import failed",
			zap.String("source", sourceFile), zap.Error(err))
		return nil, err
	}

	res := &ImportResult{
		BatchID:         uuid.New(),
		SourceFile:      sourceFile,
		AccountNumber:   pctx.AccountNumber,
		StatementPeriod: pctx.StatementPeriod,
		Candidates:      parsed.Candidates,
		Parsed:          len(parsed.Transactions),
		Saved:           len(rows),
		Skipped:         parsed.Skipped,
		Duration:        time.Since(start),
		Transactions:    rows,
	}

	if s.metrics != nil {
		s.metrics.RecordDocument("imported")
		s.metrics.RecordImportDuration(res.Duration)
		for _, t := range parsed.Transactions {
			s.metrics.RecordParsedLine(string(t.Kind()))
		}
		for range parsed.Skipped {
			s.metrics.RecordSkippedLine("unparsed")
		}
	}

	s.logger.Info("statement imported",
		zap.String("source", sourceFile),
		zap.String("company_id", companyID),
		zap.Int("candidates", res.Candidates),
		zap.Int("parsed", res.Parsed),
		zap.Int("skipped", len(res.Skipped)),
		zap.Duration("duration", res.Duration),
	)
	return res, nil
}

// ImportBatch imports several statement files with bounded concurrency.
// Documents are independent: one failed document does not roll back
// another's rows, and the first error aborts scheduling of the rest.
func (s *Statement) ImportBatch(ctx context.Context, paths []string, companyID string, periodID uuid.UUID, maxConcurrency int) ([]*ImportResult, error) {
	if maxConcurrency < 1 {
		maxConcurrency = 1
	}
	results := make([]*ImportResult, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrency)

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			res, err := s.ImportFile(gctx, path, companyID, periodID)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// ImportCSVExport ingests an externally supplied CSV export, resolving
// each row's fiscal period through the catalog, and persists the accepted
// rows atomically.
func (s *Statement) ImportCSVExport(ctx context.Context, r io.Reader, companyID, sourceFile string) (ingest.Result, error) {
	periods, err := s.catalog.ListPeriods(ctx, companyID)
	if err != nil {
		return ingest.Result{}, err
	}
	res, err := ingest.ReadCSV(r, companyID, sourceFile, periods)
	if err != nil {
		return res, err
	}
	return s.persistIngested(ctx, res, sourceFile)
}

// ImportXLSXExport ingests an XLSX export the same way.
func (s *Statement) ImportXLSXExport(ctx context.Context, r io.Reader, companyID, sourceFile string) (ingest.Result, error) {
	periods, err := s.catalog.ListPeriods(ctx, companyID)
	if err != nil {
		return ingest.Result{}, err
	}
	res, err := ingest.ReadXLSX(r, companyID, sourceFile, periods)
	if err != nil {
		return res, err
	}
	return s.persistIngested(ctx, res, sourceFile)
}

func (s *Statement) persistIngested(ctx context.Context, res ingest.Result, sourceFile string) (ingest.Result, error) {
	if len(res.Transactions) > 0 {
		if err := s.repo.SaveBatch(ctx, res.Transactions); err != nil {
			return ingest.Result{}, &models.ErrPersistence{Op: "ingest batch", Err: err}
		}
	}
	s.logger.Info("export ingested",
		zap.String("source", sourceFile),
		zap.Int("accepted", len(res.Transactions)),
		zap.Int("rejected", len(res.Skipped)),
	)
	return res, nil
}

// Reconcile verifies a statement-derived transaction set against the rows
// stored for the company and period.
func (s *Statement) Reconcile(ctx context.Context, statement []models.BankTransaction, companyID string, periodID uuid.UUID) (*models.DiscrepancyReport, error) {
	stored, err := s.repo.FindByCompanyAndPeriod(ctx, companyID, periodID)
	if err != nil {
		return nil, err
	}
	report, err := s.engine.Verify(statement, stored)
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.RecordReconciliation(report.IsValid)
	}
	s.logger.Info("reconciliation complete",
		zap.String("company_id", companyID),
		zap.Bool("valid", report.IsValid),
		zap.Int("missing", len(report.MissingTransactions)),
		zap.Int("extra", len(report.ExtraTransactions)),
	)
	return report, nil
}

// TrialBalanceReport aggregates the stored transactions for a company and
// period into per-account totals and the trial-balance check.
func (s *Statement) TrialBalanceReport(ctx context.Context, companyID string, periodID uuid.UUID) (models.LedgerTotals, models.TrialBalance, error) {
	stored, err := s.repo.FindByCompanyAndPeriod(ctx, companyID, periodID)
	if err != nil {
		return nil, models.TrialBalance{}, err
	}
	totals := ledger.Aggregate(stored, "")
	tb := ledger.TrialBalance(stored)
	if !tb.Balanced {
		s.logger.Warn("trial balance out of balance", zap.String("warning", tb.Warning))
	}
	return totals, tb, nil
}

// Transactions returns the stored rows for a company and period.
func (s *Statement) Transactions(ctx context.Context, companyID string, periodID uuid.UUID) ([]models.BankTransaction, error) {
	return s.repo.FindByCompanyAndPeriod(ctx, companyID, periodID)
}

// PeriodRegistrar is the optional write side of the fiscal period catalog.
type PeriodRegistrar interface {
	AddPeriod(p models.FiscalPeriod)
}

// SetPeriodRegistrar enables RegisterPeriod on catalogs that support it.
func (s *Statement) SetPeriodRegistrar(r PeriodRegistrar) {
	s.registrar = r
}

// RegisterPeriod adds a fiscal period to the catalog.
func (s *Statement) RegisterPeriod(p models.FiscalPeriod) error {
	if s.registrar == nil {
		return &models.ErrContract{Op: "RegisterPeriod", Reason: "catalog is read-only"}
	}
	if p.CompanyID == "" || p.Name == "" {
		return &models.ErrValidation{Field: "period", Message: "companyId and name are required"}
	}
	s.registrar.AddPeriod(p)
	return nil
}

// Periods lists the company's fiscal periods.
func (s *Statement) Periods(ctx context.Context, companyID string) ([]models.FiscalPeriod, error) {
	return s.catalog.ListPeriods(ctx, companyID)
}

// statementDateFromPeriod derives a fallback date for dateless lines from
// the extracted statement period, preferring the period end.
func statementDateFromPeriod(period string) time.Time {
	if period == "" {
		return time.Time{}
	}
	layouts := []string{"02/01/2006", "2/1/2006", "2 Jan 2006", "02 Jan 2006", "2006-01-02"}
	var dates []time.Time
	for _, f := range splitPeriod(period) {
		for _, layout := range layouts {
			if t, err := time.Parse(layout, f); err == nil {
				dates = append(dates, t)
				break
			}
		}
	}
	if len(dates) == 0 {
		return time.Time{}
	}
	return dates[len(dates)-1]
}

func splitPeriod(period string) []string {
	var parts []string
	for _, p := range []string{" to ", " - "} {
		if idx := indexOf(period, p); idx >= 0 {
			parts = append(parts, period[:idx], period[idx+len(p):])
			return parts
		}
	}
	return []string{period}
}

func indexOf(s, substr string) int {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return i
		}
	}
	return -1
}
