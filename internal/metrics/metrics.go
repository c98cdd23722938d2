package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	// AnalysesTotal counts finished analyses by provider and outcome.
	AnalysesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "skin_analyzer",
		Name:      "analyses_total",
		Help:      "Total number of skin analyses handled, labeled by provider and result.",
	}, []string{"provider", "result"})

	// AnalysisDurationSeconds is end-to-end time per analysis including the provider call.
	AnalysisDurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "skin_analyzer",
		Name:      "analysis_duration_seconds",
		Help:      "Time to produce an analysis result, labeled by provider and result.",
		Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 60, 90},
	}, []string{"provider", "result"})

	// InFlight is the number of analyses currently waiting on a provider.
	InFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "skin_analyzer",
		Name:      "in_flight",
		Help:      "Current number of analyses in progress.",
	})
)

// Register registers the collectors with the default Prometheus registry.
// Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(AnalysesTotal, AnalysisDurationSeconds, InFlight)
	})
}
