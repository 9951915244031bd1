// Package metrics holds the Prometheus collectors shared by the storefront modules.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "storefront"

// Outcome label values.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeSkipped = "skipped"
)

var (
	// StoreRetries counts retried store operations by operation name.
	StoreRetries = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "catalog",
		Name:      "store_retries_total",
		Help:      "Store operations retried after a transient failure.",
	}, []string{"operation"})

	// StoreFailures counts store operations that exhausted their retries.
	StoreFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "catalog",
		Name:      "store_unavailable_total",
		Help:      "Store operations that failed after all retry attempts.",
	}, []string{"operation"})

	// OrdersPlaced counts accepted orders by kind.
	OrdersPlaced = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "orders",
		Name:      "placed_total",
		Help:      "Orders accepted by the storefront.",
	}, []string{"kind"})

	// Notifications counts bot dispatches by message type and outcome.
	Notifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "notify",
		Name:      "dispatches_total",
		Help:      "Messages dispatched to the notification bot.",
	}, []string{"type", "outcome"})

	// Uploads counts asset host uploads by outcome.
	Uploads = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "assets",
		Name:      "uploads_total",
		Help:      "Images forwarded to the asset host.",
	}, []string{"outcome"})
)
