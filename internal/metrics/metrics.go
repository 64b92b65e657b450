// Package metrics expõe métricas Prometheus do console (HTTP + record store).
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "myusers_admin"

var (
	// HTTPRequestTotal conta requisições por método, rota e status.
	HTTPRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by method, route, and status.",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDurationSeconds é a latência por rota.
	HTTPRequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2.5, 10),
		},
		[]string{"method", "route"},
	)

	// StoreOperationsTotal conta chamadas ao record store por driver, operação e resultado.
	StoreOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_operations_total",
			Help:      "Total number of record store operations by driver, operation, and result.",
		},
		[]string{"driver", "op", "result"},
	)

	// StoreOperationDurationSeconds é a latência das chamadas ao record store.
	StoreOperationDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "store_operation_duration_seconds",
			Help:      "Record store operation duration in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		},
		[]string{"driver", "op"},
	)

	// AdminAttemptsTotal conta tentativas de abrir o gate de admin.
	AdminAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "admin_gate_attempts_total",
			Help:      "Admin gate password submissions by result.",
		},
		[]string{"result"},
	)

	// PagesActive é o número de páginas vivas no registry.
	PagesActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pages_active",
			Help:      "Number of live console pages.",
		},
	)
)
