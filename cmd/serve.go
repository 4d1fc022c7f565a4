package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ledgerline/statement-recon/internal/api"
	"github.com/ledgerline/statement-recon/internal/observability"
	"github.com/ledgerline/statement-recon/internal/service"
	"github.com/ledgerline/statement-recon/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the statement-recon HTTP API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "listen port (0 = config default)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)
	defer logger.Sync()

	port := servePort
	if port <= 0 {
		port = cfg.Port
	}

	mem := store.NewMemory()
	metrics := observability.NewMetrics()
	svc := service.NewStatement(mem, mem, nil, metrics, logger)
	svc.SetPeriodRegistrar(mem)
	if tol, err := decimal.NewFromString(cfg.Tolerance); err == nil {
		svc.SetTolerance(tol)
	}

	h := api.NewHandler(svc, metrics, logger)
	app := api.NewApp(h, cfg.UploadLimitMB)

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(fmt.Sprintf(":%d", port))
	}()
	logger.Info("server started", zap.Int("port", port))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	}

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Error("shutdown failed", zap.Error(err))
		return err
	}
	logger.Info("server stopped")
	return nil
}
