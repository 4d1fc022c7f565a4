// Package cmd defines the statement-recon CLI.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ledgerline/statement-recon/internal/config"
	"github.com/ledgerline/statement-recon/internal/observability"
)

var (
	cfgFile  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "statement-recon",
	Short: "Bank statement extraction, parsing and reconciliation",
	Long: `statement-recon turns raw bank statement documents into validated,
classified accounting transactions, and verifies that independently
derived transaction sets agree.

Examples:
  # Parse statements and print the import summary
  statement-recon import --company acme jan.pdf feb.pdf

  # Compare a statement against a ledger export
  statement-recon reconcile --company acme --statement jan.pdf --export ledger.csv

  # Run the HTTP API
  statement-recon serve`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
}

// loadConfig reads the config file and applies the --log-level override.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) *zap.Logger {
	return observability.NewLogger(cfg.LogLevel)
}
