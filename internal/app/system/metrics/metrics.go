// internal/app/system/metrics/metrics.go

// Package metrics holds the Prometheus collectors for the assistant.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Turns counts handled turns by selected intent and transport.
	Turns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vhhtbot_turns_total",
			Help: "Chat turns handled, by intent and transport",
		},
		[]string{"intent", "transport"},
	)

	// Placeholders counts fields rendered as a placeholder because a
	// referenced record was missing or malformed.
	Placeholders = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vhhtbot_context_placeholders_total",
			Help: "Fields degraded to a placeholder during context assembly",
		},
		[]string{"field"},
	)

	// StoreErrors counts data-store failures recovered into a reply.
	StoreErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vhhtbot_store_errors_total",
			Help: "Data-store failures recovered into a reply, by operation",
		},
		[]string{"operation"},
	)

	// CompletionErrors counts failed completion calls by provider.
	CompletionErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vhhtbot_completion_errors_total",
			Help: "Failed completion requests, by provider",
		},
		[]string{"provider"},
	)

	// CompletionLatency observes completion round-trip time.
	CompletionLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vhhtbot_completion_latency_seconds",
			Help:    "Completion request latency in seconds",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 8),
		},
		[]string{"provider"},
	)

	// RegistrationOutcomes counts registration calls by outcome.
	RegistrationOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vhhtbot_registration_outcomes_total",
			Help: "Campaign registration attempts, by outcome",
		},
		[]string{"outcome"},
	)

	// PurgedConversations counts stale conversations removed by the purge job.
	PurgedConversations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vhhtbot_purged_conversations_total",
			Help: "Stale conversations removed by the purge job",
		},
	)
)
