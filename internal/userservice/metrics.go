package userservice

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	usersCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "users_created_total",
		Help: "Total users created",
	})

	activeUsers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "active_users",
		Help: "Current active users",
	})

	requestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "user_request_duration_seconds",
		Help:    "Duration of user requests",
		Buckets: []float64{0.1, 0.5, 1, 2, 5},
	})
)
