package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Flows a decision can be made for.
const (
	FlowEligibility = "eligibility"
	FlowCreation    = "creation"
)

// Metrics provides observability for credit decisions and bulk ingestion.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	// Decision outcomes by flow and outcome (approved, corrected, rejected)
	DecisionOutcome *prometheus.CounterVec

	// Time spent deciding, including the customer lock wait on creation
	DecisionLatency *prometheus.HistogramVec

	// Ingested rows by entity (customer, loan) and result (succeeded, skipped, failed)
	IngestRows *prometheus.CounterVec

	// Ingestion jobs by final state
	IngestJobs *prometheus.CounterVec
}

// New registers all metrics on reg. Tests pass a fresh prometheus.NewRegistry().
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		DecisionOutcome: f.NewCounterVec(prometheus.CounterOpts{
			Name: "credit_decision_outcomes_total",
			Help: "Total credit decisions by flow and outcome",
		}, []string{"flow", "outcome"}),

		DecisionLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "credit_decision_duration_seconds",
			Help:    "Duration of credit decisions by flow",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"flow"}),

		IngestRows: f.NewCounterVec(prometheus.CounterOpts{
			Name: "credit_ingest_rows_total",
			Help: "Spreadsheet rows processed by entity and result",
		}, []string{"entity", "result"}),

		IngestJobs: f.NewCounterVec(prometheus.CounterOpts{
			Name: "credit_ingest_jobs_total",
			Help: "Background ingestion jobs by final state",
		}, []string{"state"}),
	}
}

func (m *Metrics) IncrementOutcome(flow, outcome string) {
	if m != nil {
		m.DecisionOutcome.WithLabelValues(flow, outcome).Inc()
	}
}

func (m *Metrics) ObserveDecisionLatency(flow string, d time.Duration) {
	if m != nil {
		m.DecisionLatency.WithLabelValues(flow).Observe(d.Seconds())
	}
}

func (m *Metrics) AddIngestRows(entity, result string, n int) {
	if m != nil && n > 0 {
		m.IngestRows.WithLabelValues(entity, result).Add(float64(n))
	}
}

func (m *Metrics) IncrementIngestJob(state string) {
	if m != nil {
		m.IngestJobs.WithLabelValues(state).Inc()
	}
}
