// Package metrics holds the custom Prometheus collectors of the points
// ledger. Collectors register with the default registry on import, and the
// /metrics route exposes them next to the echoprometheus HTTP metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "points"

// ── Bot metrics ───────────────────────────────────────────────────────────────

// CommandsTotal counts handled chat commands.
// Labels:
//   - command: "start", "victory", "minus", "besthunters", "mypoints", "help"
//   - result: "ok", "denied", "invalid", "not_found", "error", "ignored"
var CommandsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "commands_total",
		Help:      "Total number of chat commands handled, by command and result.",
	},
	[]string{"command", "result"},
)

// AdjustmentsTotal counts balance adjustments that reached storage.
// Label:
//   - direction: "credit" or "debit"
var AdjustmentsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "adjustments_total",
		Help:      "Total number of applied balance adjustments.",
	},
	[]string{"direction"},
)

// ── Telegram metrics ──────────────────────────────────────────────────────────

// UpdatesTotal counts inbound Telegram updates.
// Labels:
//   - source: "polling" or "webhook"
//   - result: "accepted", "duplicate", "rejected"
var UpdatesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "updates_total",
		Help:      "Total number of Telegram updates received.",
	},
	[]string{"source", "result"},
)

// QueueDepth tracks updates waiting in each dispatcher worker channel.
var QueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "updates_queue_depth",
		Help:      "Current number of updates pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// UpdateProcessingDuration measures dequeue-to-reply time of one update.
var UpdateProcessingDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "update_processing_duration_seconds",
		Help:      "Duration of update handling from dequeue to reply.",
		Buckets:   prometheus.DefBuckets,
	},
)

// ── Store metrics ─────────────────────────────────────────────────────────────

// StoreOperationDuration measures ledger store calls.
// Labels:
//   - driver: configured store driver
//   - op: "load" or "save"
var StoreOperationDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "store_operation_duration_seconds",
		Help:      "Duration of ledger store operations.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"driver", "op"},
)

// StoreErrorsTotal counts failed ledger store calls before any retry.
var StoreErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "store_errors_total",
		Help:      "Total number of failed ledger store operations.",
	},
	[]string{"driver", "op"},
)

// Profiles reports the number of profiles seen by the last successful load.
var Profiles = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "profiles",
		Help:      "Number of profiles in the ledger at the last load.",
	},
)
