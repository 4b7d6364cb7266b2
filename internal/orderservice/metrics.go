package orderservice

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ordersCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Total orders created",
	})

	ordersFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_failed_total",
		Help: "Total orders failed",
	}, []string{"reason"})

	ordersInSystem = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "orders_in_system",
		Help: "Active orders",
	})

	orderDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "order_processing_seconds",
		Help:    "Order creation time",
		Buckets: []float64{0.1, 0.5, 1, 2, 5},
	})

	orderSummary = promauto.NewSummary(prometheus.SummaryOpts{
		Name:       "order_response_summary",
		Help:       "Summary of order response times",
		Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
	})
)
