// Package api exposes the statement pipeline over HTTP.
package api

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ledgerline/statement-recon/internal/extractor"
	"github.com/ledgerline/statement-recon/internal/models"
	"github.com/ledgerline/statement-recon/internal/observability"
	"github.com/ledgerline/statement-recon/internal/service"
)

const version = "1.0.0"

// Handler holds the HTTP handlers for the reconciliation API.
type Handler struct {
	svc     *service.Statement
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewHandler wires the service into the HTTP layer.
func NewHandler(svc *service.Statement, metrics *observability.Metrics, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{svc: svc, metrics: metrics, logger: logger}
}

// NewApp builds the fiber application with all routes registered.
func NewApp(h *Handler, uploadLimitMB int) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:   "statement-recon",
		BodyLimit: uploadLimitMB << 20,
	})
	app.Use(recover.New())
	app.Use(requestLogger(h.logger))

	app.Get("/api/health", h.HandleHealth)
	app.Post("/api/import", h.HandleImport)
	app.Post("/api/export", h.HandleExportIngest)
	app.Post("/api/reconcile", h.HandleReconcile)
	app.Get("/api/trial-balance", h.HandleTrialBalance)
	app.Get("/api/transactions", h.HandleTransactions)
	app.Post("/api/periods", h.HandleRegisterPeriod)
	app.Get("/api/periods", h.HandleListPeriods)

	if h.metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(
			promhttp.HandlerFor(h.metrics.Registry, promhttp.HandlerOpts{})))
	}
	return app
}

// requestLogger logs each request with zap: Warn for 4xx, Error for 5xx.
func requestLogger(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		fields := []zap.Field{
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
		}
		switch {
		case status >= 500:
			logger.Error("http request", fields...)
		case status >= 400:
			logger.Warn("http request", fields...)
		default:
			logger.Info("http request", fields...)
		}
		return err
	}
}

// HandleHealth reports service liveness.
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"version": version,
	})
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func writeError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(errorResponse{Success: false, Error: msg})
}

func scope(c *fiber.Ctx, companyID, periodID string) (string, uuid.UUID, error) {
	if companyID == "" {
		return "", uuid.Nil, fmt.Errorf("companyId is required")
	}
	pid, err := uuid.Parse(periodID)
	if err != nil {
		return "", uuid.Nil, fmt.Errorf("invalid periodId: %v", err)
	}
	return companyID, pid, nil
}

// HandleImport accepts a statement upload (PDF or plain text) or
// pre-extracted text, parses it, and persists the resulting transactions.
func (h *Handler) HandleImport(c *fiber.Ctx) error {
	companyID, periodID, err := scope(c, c.FormValue("companyId"), c.FormValue("periodId"))
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, err.Error())
	}

	var pages []string
	sourceFile := "upload"

	if extracted := c.FormValue("extractedText"); extracted != "" {
		pages = extractor.SplitTextPages(extracted)
	} else {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "no file uploaded; use form field 'file' or 'extractedText'")
		}
		sourceFile = fh.Filename

		ext := strings.ToLower(filepath.Ext(fh.Filename))
		if ext != ".pdf" && ext != ".txt" {
			return writeError(c, fiber.StatusBadRequest, fmt.Sprintf("unsupported statement type %q; expected .pdf or .txt", ext))
		}

		tmp, err := os.CreateTemp("", "statement-*"+ext)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "failed to create temp file")
		}
		tmpPath := tmp.Name()
		tmp.Close()
		defer os.Remove(tmpPath)

		if err := c.SaveFile(fh, tmpPath); err != nil {
			return writeError(c, fiber.StatusInternalServerError, "failed to save uploaded file")
		}

		pages, err = extractor.ExtractDocument(tmpPath)
		if err != nil {
			return writeError(c, fiber.StatusUnprocessableEntity, fmt.Sprintf("text extraction failed: %v", err))
		}
	}

	res, err := h.svc.ImportPages(c.Context(), pages, sourceFile, companyID, periodID)
	if err != nil {
		return writeError(c, statusFor(err), err.Error())
	}
	return c.JSON(fiber.Map{"success": true, "result": res})
}

// HandleExportIngest accepts an externally supplied CSV or XLSX export and
// persists the accepted rows; rejected rows come back as diagnostics.
func (h *Handler) HandleExportIngest(c *fiber.Ctx) error {
	companyID := c.FormValue("companyId")
	if companyID == "" {
		return writeError(c, fiber.StatusBadRequest, "companyId is required")
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "no file uploaded; use form field 'file'")
	}
	f, err := fh.Open()
	if err != nil {
		return writeError(c, fiber.StatusInternalServerError, "failed to open uploaded file")
	}
	defer f.Close()

	var res interface{}
	switch ext := strings.ToLower(filepath.Ext(fh.Filename)); ext {
	case ".csv":
		res, err = h.svc.ImportCSVExport(c.Context(), f, companyID, fh.Filename)
	case ".xlsx":
		res, err = h.svc.ImportXLSXExport(c.Context(), f, companyID, fh.Filename)
	default:
		return writeError(c, fiber.StatusBadRequest, fmt.Sprintf("unsupported export type %q; expected .csv or .xlsx", ext))
	}
	if err != nil {
		return writeError(c, statusFor(err), err.Error())
	}
	return c.JSON(fiber.Map{"success": true, "result": res})
}

type reconcileRequest struct {
	CompanyID string                   `json:"companyId"`
	PeriodID  string                   `json:"periodId"`
	Statement []models.BankTransaction `json:"statement"`
}

// HandleReconcile verifies a statement-derived transaction set against
// the stored rows and returns the full discrepancy report. Discrepancies
// are a 200 response; only malformed input fails.
func (h *Handler) HandleReconcile(c *fiber.Ctx) error {
	var req reconcileRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
	}
	companyID, periodID, err := scope(c, req.CompanyID, req.PeriodID)
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, err.Error())
	}
	if req.Statement == nil {
		return writeError(c, fiber.StatusBadRequest, "statement transaction set is required")
	}

	report, err := h.svc.Reconcile(c.Context(), req.Statement, companyID, periodID)
	if err != nil {
		return writeError(c, statusFor(err), err.Error())
	}
	return c.JSON(report)
}

// HandleTrialBalance returns per-account totals and the trial-balance
// check for a company and period.
func (h *Handler) HandleTrialBalance(c *fiber.Ctx) error {
	companyID, periodID, err := scope(c, c.Query("companyId"), c.Query("periodId"))
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, err.Error())
	}
	totals, tb, err := h.svc.TrialBalanceReport(c.Context(), companyID, periodID)
	if err != nil {
		return writeError(c, statusFor(err), err.Error())
	}
	return c.JSON(fiber.Map{
		"accounts":     totals,
		"trialBalance": tb,
	})
}

// HandleTransactions lists the stored rows for a company and period.
func (h *Handler) HandleTransactions(c *fiber.Ctx) error {
	companyID, periodID, err := scope(c, c.Query("companyId"), c.Query("periodId"))
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, err.Error())
	}
	txns, err := h.svc.Transactions(c.Context(), companyID, periodID)
	if err != nil {
		return writeError(c, statusFor(err), err.Error())
	}
	if txns == nil {
		txns = []models.BankTransaction{}
	}
	return c.JSON(fiber.Map{"transactions": txns, "count": len(txns)})
}

type periodRequest struct {
	CompanyID string `json:"companyId"`
	Name      string `json:"name"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// HandleRegisterPeriod adds a fiscal period to the company's calendar.
func (h *Handler) HandleRegisterPeriod(c *fiber.Ctx) error {
	var req periodRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
	}
	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, fmt.Sprintf("invalid startDate: %v", err))
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, fmt.Sprintf("invalid endDate: %v", err))
	}

	p := models.FiscalPeriod{
		ID:        uuid.New(),
		CompanyID: req.CompanyID,
		Name:      req.Name,
		StartDate: start,
		EndDate:   end,
	}
	if err := h.svc.RegisterPeriod(p); err != nil {
		return writeError(c, statusFor(err), err.Error())
	}
	return c.Status(fiber.StatusCreated).JSON(p)
}

// HandleListPeriods lists a company's fiscal periods.
func (h *Handler) HandleListPeriods(c *fiber.Ctx) error {
	companyID := c.Query("companyId")
	if companyID == "" {
		return writeError(c, fiber.StatusBadRequest, "companyId is required")
	}
	periods, err := h.svc.Periods(c.Context(), companyID)
	if err != nil {
		return writeError(c, statusFor(err), err.Error())
	}
	return c.JSON(fiber.Map{"periods": periods})
}

func statusFor(err error) int {
	switch err.(type) {
	case *models.ErrContract, *models.ErrValidation:
		return fiber.StatusBadRequest
	case *models.ErrNotFound:
		return fiber.StatusNotFound
	case *models.ErrPersistence:
		return fiber.StatusInternalServerError
	default:
		return fiber.StatusUnprocessableEntity
	}
}
