package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors exposed by the service.
type Metrics struct {
	QualifyRuns        prometheus.Counter
	QualifyDuration    prometheus.Histogram
	TickersQualified   prometheus.Counter
	TickersDisqualified prometheus.Counter
	ProviderErrors     *prometheus.CounterVec
}

// New registers and returns the service metrics.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		QualifyRuns: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "underwriter",
			Name:      "qualify_runs_total",
			Help:      "Number of qualify orchestration runs.",
		}),
		QualifyDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "underwriter",
			Name:      "qualify_run_duration_seconds",
			Help:      "Wall time of qualify orchestration runs.",
			Buckets:   prometheus.ExponentialBuckets(0.5, 2, 10),
		}),
		TickersQualified: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "underwriter",
			Name:      "tickers_qualified_total",
			Help:      "Tickers that produced a trade candidate.",
		}),
		TickersDisqualified: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "underwriter",
			Name:      "tickers_disqualified_total",
			Help:      "Tickers disqualified during a qualify run.",
		}),
		ProviderErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "underwriter",
			Name:      "provider_errors_total",
			Help:      "Provider call failures by provider name.",
		}, []string{"provider"}),
	}
}

// NewDefault registers the metrics on the default registry.
func NewDefault() *Metrics {
	return New(prometheus.DefaultRegisterer)
}
