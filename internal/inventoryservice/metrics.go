package inventoryservice

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	stockGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "inventory_stock",
		Help: "Stock levels",
	}, []string{"item"})

	updateCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_updates_total",
		Help: "Number of inventory updates",
	}, []string{"operation"})

	updateDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "inventory_update_duration_seconds",
		Help:    "Inventory update time",
		Buckets: []float64{0.1, 0.5, 1, 2, 5},
	})
)
