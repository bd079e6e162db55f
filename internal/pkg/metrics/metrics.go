// Package metrics exposes Prometheus collectors for the generation cascade and the sync reconciler.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "resomate"
)

var (
	// GenerationTierTotal counts tier outcomes (success, failed, skipped)
	GenerationTierTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "generation",
			Name:      "tier_total",
			Help:      "Generation tier outcomes by document kind",
		},
		[]string{"kind", "tier", "outcome"},
	)

	// GenerationAttemptsTotal counts single calls to the generation service
	GenerationAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "generation",
			Name:      "attempts_total",
			Help:      "Calls made to the generation service by tier",
		},
		[]string{"kind", "tier"},
	)

	// SyncPushTotal counts push outcomes per entity kind
	SyncPushTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "push_total",
			Help:      "Push attempts to the remote store by outcome",
		},
		[]string{"kind", "outcome"},
	)

	// SyncPending reports the number of unsynced records after the last sweep
	SyncPending = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "pending_records",
			Help:      "Local records waiting for a confirmed push",
		},
	)

	// DocumentOperationsTotal counts remote store operations served by the API
	DocumentOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "documents",
			Name:      "operations_total",
			Help:      "Remote store operations by kind and operation",
		},
		[]string{"kind", "operation", "status"},
	)
)
