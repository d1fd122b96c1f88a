package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RecomputeMetrics records metadata for vendor metric recomputations.
type RecomputeMetrics struct {
	duration *prometheus.HistogramVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
}

// NewRecomputeMetrics registers the recomputation metrics on the provided
// registerer. A nil registerer yields a no-op recorder.
func NewRecomputeMetrics(reg prometheus.Registerer) *RecomputeMetrics {
	if reg == nil {
		return &RecomputeMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "vendor_metrics_recompute_duration_seconds",
		Help:    "Duration of vendor metric recomputations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"trigger"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "vendor_metrics_recompute_success",
		Help: "Successful vendor metric recomputations.",
	}, []string{"trigger"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "vendor_metrics_recompute_failure",
		Help: "Failed vendor metric recomputations.",
	}, []string{"trigger"})
	reg.MustRegister(duration, success, failure)
	return &RecomputeMetrics{
		duration: duration,
		success:  success,
		failure:  failure,
	}
}

// ObserveDuration records the duration for the named trigger.
func (r *RecomputeMetrics) ObserveDuration(trigger string, duration time.Duration) {
	if r == nil || r.duration == nil {
		return
	}
	r.duration.WithLabelValues(normalizeLabel(trigger)).Observe(duration.Seconds())
}

// IncSuccess increments the success counter for the named trigger.
func (r *RecomputeMetrics) IncSuccess(trigger string) {
	if r == nil || r.success == nil {
		return
	}
	r.success.WithLabelValues(normalizeLabel(trigger)).Inc()
}

// IncFailure increments the failure counter for the named trigger.
func (r *RecomputeMetrics) IncFailure(trigger string) {
	if r == nil || r.failure == nil {
		return
	}
	r.failure.WithLabelValues(normalizeLabel(trigger)).Inc()
}

func normalizeLabel(trigger string) string {
	if trigger == "" {
		return "unknown"
	}
	return trigger
}
