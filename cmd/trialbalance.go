package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

var trialBalanceCmd = &cobra.Command{
	Use:     "trial-balance [files...]",
	Aliases: []string{"tb"},
	Short:   "Aggregate per-account totals and check the trial balance",
	Long: `Loads statement documents and ledger exports into one transaction
set, then prints debit and credit totals per classification account.
An out-of-balance ledger is reported as a warning, not an error.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTrialBalance,
}

func init() {
	addScopeFlags(trialBalanceCmd)
	rootCmd.AddCommand(trialBalanceCmd)
}

func runTrialBalance(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)
	defer logger.Sync()

	ctx := context.Background()
	svc, period, err := buildScope(logger)
	if err != nil {
		return err
	}

	for _, path := range args {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".csv", ".xlsx":
			if _, err := ingestExportFile(ctx, svc, path, companyID); err != nil {
				return err
			}
		default:
			if _, err := svc.ImportFile(ctx, path, companyID, period.ID); err != nil {
				return err
			}
		}
	}

	totals, tb, err := svc.TrialBalanceReport(ctx, companyID, period.ID)
	if err != nil {
		return err
	}

	accounts := make([]string, 0, len(totals))
	for acct := range totals {
		accounts = append(accounts, acct)
	}
	sort.Strings(accounts)

	fmt.Printf("%-24s %14s %14s\n", "ACCOUNT", "DEBIT", "CREDIT")
	for _, acct := range accounts {
		t := totals[acct]
		fmt.Printf("%-24s %14s %14s\n", acct, t.DebitTotal.StringFixed(2), t.CreditTotal.StringFixed(2))
	}
	fmt.Printf("%-24s %14s %14s\n", "TOTAL", tb.TotalDebits.StringFixed(2), tb.TotalCredits.StringFixed(2))
	if tb.Balanced {
		fmt.Println("trial balance: balanced")
	} else {
		fmt.Printf("trial balance: %s\n", tb.Warning)
	}
	return nil
}
