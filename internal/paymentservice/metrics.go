package paymentservice

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	paymentsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "payments_total",
		Help: "Total payments processed",
	})

	successfulPayments = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "successful_payments",
		Help: "Successful payments count",
	})

	paymentLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "payment_latency_seconds",
		Help:    "Payment latency",
		Buckets: []float64{0.1, 0.5, 1, 2, 5},
	})
)
