package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jonathan/site-analyzer/internal/types"
)

// OutcomeOK labels a successful analysis.
const OutcomeOK = "ok"

// Enhancement results recorded by RecordEnhancement.
const (
	EnhancementEnhanced  = "enhanced"
	EnhancementUnchanged = "unchanged"
	EnhancementFailed    = "failed"
	EnhancementSkipped   = "skipped"
)

// Metrics holds the Prometheus collectors for the analysis pipeline.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	AnalysesTotal     *prometheus.CounterVec
	FetchDuration     prometheus.Histogram
	EnhancementsTotal *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		AnalysesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "site_analyzer_analyses_total",
			Help: "Total number of analyses by outcome.",
		}, []string{"outcome"}), // ok, or an error kind such as timeout
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "site_analyzer_fetch_duration_seconds",
			Help:    "Duration of page fetches, failed ones included.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		EnhancementsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "site_analyzer_enhancements_total",
			Help: "Total number of description enhancement attempts by result.",
		}, []string{"result"}),
	}
	if reg != nil {
		reg.MustRegister(m.AnalysesTotal, m.FetchDuration, m.EnhancementsTotal)
	}
	return m
}

// RecordAnalysis counts one finished analysis. err is nil on success.
func (m *Metrics) RecordAnalysis(err error) {
	if m == nil {
		return
	}
	outcome := OutcomeOK
	if err != nil {
		outcome = types.KindOf(err).String()
	}
	m.AnalysesTotal.WithLabelValues(outcome).Inc()
}

// ObserveFetch records how long a fetch took.
func (m *Metrics) ObserveFetch(elapsed time.Duration) {
	if m == nil {
		return
	}
	m.FetchDuration.Observe(elapsed.Seconds())
}

// RecordEnhancement counts one enhancement decision.
func (m *Metrics) RecordEnhancement(result string) {
	if m == nil {
		return
	}
	m.EnhancementsTotal.WithLabelValues(result).Inc()
}
