package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// DeliveryMetrics tracks the credential delivery workflow.
type DeliveryMetrics struct {
	duration      *prometheus.HistogramVec
	deliveries    *prometheus.CounterVec
	emailFailures prometheus.Counter
}

// NewDeliveryMetrics registers the delivery metrics on the provided registerer.
func NewDeliveryMetrics(reg prometheus.Registerer) *DeliveryMetrics {
	if reg == nil {
		return &DeliveryMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "delivery_duration_seconds",
		Help:    "Duration of credential delivery operations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	deliveries := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "deliveries_total",
		Help: "Credential deliveries by outcome.",
	}, []string{"outcome"})
	emailFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "delivery_email_failures_total",
		Help: "Delivery emails that the provider rejected.",
	})
	reg.MustRegister(duration, deliveries, emailFailures)
	return &DeliveryMetrics{
		duration:      duration,
		deliveries:    deliveries,
		emailFailures: emailFailures,
	}
}

// ObserveDelivery records one delivery attempt with its outcome label.
func (d *DeliveryMetrics) ObserveDelivery(outcome string, duration time.Duration) {
	if d == nil || d.duration == nil {
		return
	}
	d.duration.WithLabelValues(outcome).Observe(duration.Seconds())
	d.deliveries.WithLabelValues(outcome).Inc()
}

// IncEmailFailure counts a failed delivery email.
func (d *DeliveryMetrics) IncEmailFailure() {
	if d == nil || d.emailFailures == nil {
		return
	}
	d.emailFailures.Inc()
}
