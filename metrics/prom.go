package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// SessionsTotal counts finished sessions by mode and outcome
	// (success/failed/cancelled).
	SessionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dicton_sessions_total",
			Help: "Total number of dictation sessions by mode and outcome",
		},
		[]string{"mode", "outcome"},
	)

	// StageDuration observes per-stage latencies.
	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dicton_stage_duration_seconds",
			Help:    "Dictation stage duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"stage"},
	)

	// ProviderFallbacksTotal counts call-time provider substitutions.
	ProviderFallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dicton_provider_fallbacks_total",
			Help: "Total number of call-time STT provider fallbacks",
		},
		[]string{"from", "to"},
	)
)

func observeStage(name string, d time.Duration) {
	StageDuration.WithLabelValues(name).Observe(d.Seconds())
}

// RecordSession records the outcome of a finished session.
func RecordSession(mode string, success, cancelled bool) {
	outcome := "failed"
	switch {
	case cancelled:
		outcome = "cancelled"
	case success:
		outcome = "success"
	}
	SessionsTotal.WithLabelValues(mode, outcome).Inc()
}

// RecordFallback records a call-time provider substitution.
func RecordFallback(from, to string) {
	ProviderFallbacksTotal.WithLabelValues(from, to).Inc()
}

// Serve exposes /metrics on addr. It blocks, so callers run it in a
// goroutine.
func Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return http.ListenAndServe(addr, mux)
}
