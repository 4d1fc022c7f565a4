package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ledgerline/statement-recon/internal/ingest"
	"github.com/ledgerline/statement-recon/internal/models"
	"github.com/ledgerline/statement-recon/internal/service"
	"github.com/ledgerline/statement-recon/internal/store"
)

// period flags shared by the import/reconcile/trial-balance commands.
var (
	companyID   string
	periodName  string
	periodStart string
	periodEnd   string
)

func addScopeFlags(c *cobra.Command) {
	c.Flags().StringVar(&companyID, "company", "default", "company identifier")
	c.Flags().StringVar(&periodName, "period-name", "ALL", "fiscal period name")
	c.Flags().StringVar(&periodStart, "period-start", "1900-01-01", "fiscal period start (YYYY-MM-DD)")
	c.Flags().StringVar(&periodEnd, "period-end", "2100-12-31", "fiscal period end (YYYY-MM-DD)")
}

// buildScope creates an in-process store seeded with the period from the
// flags. CLI runs are self-contained: each invocation ingests its inputs,
// computes, prints, and exits.
func buildScope(logger *zap.Logger) (*service.Statement, models.FiscalPeriod, error) {
	start, err := time.Parse("2006-01-02", periodStart)
	if err != nil {
		return nil, models.FiscalPeriod{}, fmt.Errorf("invalid --period-start: %w", err)
	}
	end, err := time.Parse("2006-01-02", periodEnd)
	if err != nil {
		return nil, models.FiscalPeriod{}, fmt.Errorf("invalid --period-end: %w", err)
	}

	mem := store.NewMemory()
	period := models.FiscalPeriod{
		ID:        uuid.New(),
		CompanyID: companyID,
		Name:      periodName,
		StartDate: start,
		EndDate:   end,
	}
	mem.AddPeriod(period)

	svc := service.NewStatement(mem, mem, nil, nil, logger)
	svc.SetPeriodRegistrar(mem)
	return svc, period, nil
}

// ingestExportFile reads a CSV or XLSX export from disk and persists the
// accepted rows through the service.
func ingestExportFile(ctx context.Context, svc *service.Statement, path, company string) (ingest.Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return ingest.Result{}, err
	}
	defer f.Close()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		return svc.ImportCSVExport(ctx, f, company, filepath.Base(path))
	case ".xlsx":
		return svc.ImportXLSXExport(ctx, f, company, filepath.Base(path))
	default:
		return ingest.Result{}, fmt.Errorf("unsupported export type %q; expected .csv or .xlsx", ext)
	}
}
