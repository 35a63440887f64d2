package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusRecorder forwards generation metrics to a Prometheus registry.
// Used by watch mode, where a long-lived process has something to scrape.
type PrometheusRecorder struct {
	definitionDuration *prometheus.HistogramVec
	runDuration        prometheus.Histogram
	outcomes           *prometheus.CounterVec
	warnings           *prometheus.CounterVec
}

// NewPrometheusRecorder registers the generator collectors on reg.
func NewPrometheusRecorder(reg prometheus.Registerer) *PrometheusRecorder {
	factory := promauto.With(reg)
	return &PrometheusRecorder{
		definitionDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "dockergen",
			Name:      "definition_duration_seconds",
			Help:      "Time spent generating one definition.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"definition"}),
		runDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "dockergen",
			Name:      "run_duration_seconds",
			Help:      "Time spent on one full generator run.",
			Buckets:   prometheus.DefBuckets,
		}),
		outcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dockergen",
			Name:      "definitions_total",
			Help:      "Definitions processed, by outcome.",
		}, []string{"outcome"}),
		warnings: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dockergen",
			Name:      "warnings_total",
			Help:      "Advisory warnings recorded during generation, by kind.",
		}, []string{"kind"}),
	}
}

func (r *PrometheusRecorder) ObserveDefinitionDuration(definition string, d time.Duration) {
	r.definitionDuration.WithLabelValues(definition).Observe(d.Seconds())
}

func (r *PrometheusRecorder) IncDefinitionOutcome(outcome string) {
	r.outcomes.WithLabelValues(outcome).Inc()
}

func (r *PrometheusRecorder) IncWarning(kind WarningKind) {
	r.warnings.WithLabelValues(string(kind)).Inc()
}

func (r *PrometheusRecorder) ObserveRunDuration(d time.Duration) {
	r.runDuration.Observe(d.Seconds())
}
