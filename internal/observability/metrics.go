package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics for the reconciliation pipeline.
type Metrics struct {
	// Registry owns these metrics; the /metrics endpoint serves it.
	Registry *prometheus.Registry

	linesParsed     *prometheus.CounterVec
	linesSkipped    *prometheus.CounterVec
	documents       *prometheus.CounterVec
	reconciliations *prometheus.CounterVec
	importDuration  prometheus.Histogram
}

// NewMetrics registers all metrics in a private registry. A private
// registry avoids duplicate-collector panics when NewMetrics runs more
// than once, e.g. in tests.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		linesParsed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "recon_lines_parsed_total",
				Help: "Statement lines successfully parsed, by strategy kind.",
			},
			[]string{"kind"},
		),
		linesSkipped: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "recon_lines_skipped_total",
				Help: "Transaction-candidate lines dropped, by reason.",
			},
			[]string{"reason"},
		),
		documents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "recon_documents_total",
				Help: "Statement documents processed, by outcome.",
			},
			[]string{"status"},
		),
		reconciliations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "recon_reconciliations_total",
				Help: "Reconciliation runs, by verdict.",
			},
			[]string{"verdict"},
		),
		importDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "recon_import_duration_seconds",
				Help:    "Duration of a full document import.",
				Buckets: prometheus.DefBuckets,
			},
		),
	}
}

// RecordParsedLine counts one parsed line for the given transaction kind.
func (m *Metrics) RecordParsedLine(kind string) {
	m.linesParsed.WithLabelValues(kind).Inc()
}

// RecordSkippedLine counts one dropped candidate line.
func (m *Metrics) RecordSkippedLine(reason string) {
	m.linesSkipped.WithLabelValues(reason).Inc()
}

// RecordDocument counts one processed document with its outcome.
func (m *Metrics) RecordDocument(status string) {
	m.documents.WithLabelValues(status).Inc()
}

// RecordReconciliation counts one reconciliation run with its verdict.
func (m *Metrics) RecordReconciliation(valid bool) {
	verdict := "discrepant"
	if valid {
		verdict = "clean"
	}
	m.reconciliations.WithLabelValues(verdict).Inc()
}

// RecordImportDuration observes the duration of one document import.
func (m *Metrics) RecordImportDuration(d time.Duration) {
	m.importDuration.Observe(d.Seconds())
}
