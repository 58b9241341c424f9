// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wealth_http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "route", "status"})

	HTTPLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "wealth_http_request_duration_seconds",
		Help:    "Request latency",
		Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1},
	}, []string{"method", "route"})

	// TxRetries counts units of work re-run after a serialization failure
	// or a default-account constraint conflict.
	TxRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wealth_tx_retries_total",
		Help: "Transactions retried after a conflict",
	})

	Revalidations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wealth_view_revalidations_total",
		Help: "View paths marked stale",
	}, []string{"path"})

	UsersProvisioned = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wealth_users_provisioned_total",
		Help: "Users created on first sight of an identity",
	})
)
