package cmd

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	reconcileStatement string
	reconcileExport    string
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Verify a parsed statement against a ledger export",
	Long: `Parses the statement document, ingests the ledger export (.csv or
.xlsx), and compares the two transaction sets. Data mismatches are
reported in the discrepancy output; the command only errors when an
input cannot be read at all.`,
	RunE: runReconcile,
}

func init() {
	addScopeFlags(reconcileCmd)
	reconcileCmd.Flags().StringVar(&reconcileStatement, "statement", "", "statement document (.pdf or text)")
	reconcileCmd.Flags().StringVar(&reconcileExport, "export", "", "ledger export (.csv or .xlsx)")
	reconcileCmd.MarkFlagRequired("statement")
	reconcileCmd.MarkFlagRequired("export")
	rootCmd.AddCommand(reconcileCmd)
}

func runReconcile(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)
	defer logger.Sync()

	ctx := context.Background()

	// The export rows become the stored side.
	svc, period, err := buildScope(logger)
	if err != nil {
		return err
	}
	if tol, err := decimal.NewFromString(cfg.Tolerance); err == nil {
		svc.SetTolerance(tol)
	}
	ingested, err := ingestExportFile(ctx, svc, reconcileExport, companyID)
	if err != nil {
		return err
	}
	for _, rej := range ingested.Skipped {
		fmt.Printf("export row %d rejected: %s\n", rej.Row, rej.Reason)
	}

	// The statement parses into its own scratch store so its rows do not
	// pollute the stored side of the comparison.
	stmtSvc, _, err := buildScope(logger)
	if err != nil {
		return err
	}
	res, err := stmtSvc.ImportFile(ctx, reconcileStatement, companyID, period.ID)
	if err != nil {
		return err
	}

	report, err := svc.Reconcile(ctx, res.Transactions, companyID, period.ID)
	if err != nil {
		return err
	}

	fmt.Printf("statement: %d transactions, export: %d rows\n",
		len(res.Transactions), len(ingested.Transactions))
	fmt.Printf("debits:  %s\n", report.TotalDebits.StringFixed(2))
	fmt.Printf("credits: %s\n", report.TotalCredits.StringFixed(2))
	fmt.Printf("final balance: %s\n", report.FinalBalance.StringFixed(2))
	if report.IsValid {
		fmt.Println("result: clean")
		return nil
	}
	fmt.Println("result: discrepancies found")
	for _, d := range report.Discrepancies {
		fmt.Printf("  %s\n", d)
	}
	for _, t := range report.MissingTransactions {
		fmt.Printf("  missing from export: %s %s %s\n",
			t.TransactionDate.Format("2006-01-02"), t.SignedAmount().StringFixed(2), t.Details)
	}
	for _, t := range report.ExtraTransactions {
		fmt.Printf("  only in export: %s %s %s\n",
			t.TransactionDate.Format("2006-01-02"), t.SignedAmount().StringFixed(2), t.Details)
	}
	return nil
}
