package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type CheckoutMetrics struct {
	Outcomes          *prometheus.CounterVec
	LatencyMS         *prometheus.HistogramVec
	Reconciled        prometheus.Counter
	ReconcileFailures prometheus.Counter
}

func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "neonstore",
		Subsystem: "checkout",
		Name:      "submissions_total",
		Help:      "Checkout submissions by payment method and outcome.",
	}, []string{"payment_method", "outcome"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "neonstore",
		Subsystem: "checkout",
		Name:      "submission_duration_ms",
		Help:      "Checkout submission latency in milliseconds, payment window included.",
		Buckets:   []float64{10, 50, 100, 250, 1000, 5000, 30000, 120000, 600000},
	}, []string{"payment_method"})
	reconciled := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "neonstore",
		Subsystem: "reconciler",
		Name:      "repaired_total",
		Help:      "Half-written checkouts completed by the reconciler.",
	})
	failures := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "neonstore",
		Subsystem: "reconciler",
		Name:      "failures_total",
		Help:      "Reconciler replays that failed.",
	})

	reg.MustRegister(outcomes, latency, reconciled, failures)
	return &CheckoutMetrics{Outcomes: outcomes, LatencyMS: latency, Reconciled: reconciled, ReconcileFailures: failures}
}

func Handler() http.Handler {
	return promhttp.Handler()
}
