package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CartMetrics records stock reservation outcomes for cart mutations.
type CartMetrics struct {
	duration            *prometheus.HistogramVec
	reservations        *prometheus.CounterVec
	compensationFailure *prometheus.CounterVec
}

// NewCartMetrics registers the cart metrics on the provided registerer.
func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	if reg == nil {
		return &CartMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cart_operation_duration_seconds",
		Help:    "Duration of cart mutations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	reservations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_stock_reservations",
		Help: "Stock reservation attempts by operation and outcome.",
	}, []string{"operation", "outcome"})
	compensationFailure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_compensation_failure",
		Help: "Stock releases that failed after a cart write error.",
	}, []string{"operation"})
	reg.MustRegister(duration, reservations, compensationFailure)
	return &CartMetrics{
		duration:            duration,
		reservations:        reservations,
		compensationFailure: compensationFailure,
	}
}

// ObserveDuration records the duration for the named cart operation.
func (c *CartMetrics) ObserveDuration(operation string, duration time.Duration) {
	if c == nil || c.duration == nil {
		return
	}
	c.duration.WithLabelValues(normalizeLabel(operation)).Observe(duration.Seconds())
}

// IncReservation increments the reservation counter for the operation/outcome pair.
func (c *CartMetrics) IncReservation(operation, outcome string) {
	if c == nil || c.reservations == nil {
		return
	}
	c.reservations.WithLabelValues(normalizeLabel(operation), normalizeLabel(outcome)).Inc()
}

// IncCompensationFailure increments the failed-release counter for the operation.
func (c *CartMetrics) IncCompensationFailure(operation string) {
	if c == nil || c.compensationFailure == nil {
		return
	}
	c.compensationFailure.WithLabelValues(normalizeLabel(operation)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
