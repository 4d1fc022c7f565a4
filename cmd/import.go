package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	importConcurrency int
	importVerbose     bool
)

var importCmd = &cobra.Command{
	Use:   "import [files...]",
	Short: "Parse bank statement documents into transactions",
	Long: `Extracts text from the given statement documents (.pdf or plain
text), parses the transaction lines, and prints a per-document summary.
Lines that look like transactions but match no parser are reported as
skipped rather than silently dropped.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runImport,
}

func init() {
	addScopeFlags(importCmd)
	importCmd.Flags().IntVar(&importConcurrency, "concurrency", 0, "max documents parsed in parallel (0 = config default)")
	importCmd.Flags().BoolVarP(&importVerbose, "verbose", "v", false, "print every parsed transaction")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)
	defer logger.Sync()

	svc, period, err := buildScope(logger)
	if err != nil {
		return err
	}

	conc := importConcurrency
	if conc <= 0 {
		conc = cfg.MaxConcurrency
	}

	results, err := svc.ImportBatch(context.Background(), args, companyID, period.ID, conc)
	if err != nil {
		return err
	}

	for _, res := range results {
		fmt.Printf("%s\n", res.SourceFile)
		if res.AccountNumber != "" {
			fmt.Printf("  account:    %s\n", res.AccountNumber)
		}
		if res.StatementPeriod != "" {
			fmt.Printf("  period:     %s\n", res.StatementPeriod)
		}
		fmt.Printf("  candidates: %d\n", res.Candidates)
		fmt.Printf("  parsed:     %d\n", res.Parsed)
		fmt.Printf("  saved:      %d\n", res.Saved)
		fmt.Printf("  skipped:    %d\n", len(res.Skipped))
		for _, sk := range res.Skipped {
			fmt.Printf("    page %d line %d: %s (%s)\n", sk.Page, sk.Line, sk.Text, sk.Reason)
		}
		if importVerbose {
			for _, t := range res.Transactions {
				fmt.Printf("    %s  %12s  %s\n",
					t.TransactionDate.Format("2006-01-02"), t.SignedAmount().StringFixed(2), t.Details)
			}
		}
	}
	return nil
}
