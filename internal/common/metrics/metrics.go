// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TurnsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_turns_completed_total",
			Help: "Total number of chat turns completed",
		},
		[]string{"outcome"},
	)

	TurnDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "chat_turn_duration_seconds",
			Help: "Duration of a full chat turn in seconds",
		},
		[]string{"outcome"},
	)

	ProviderTierUsed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_provider_tier_used_total",
			Help: "Which chain tier produced the reply",
		},
		[]string{"provider_id"},
	)

	ProviderAttemptsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_provider_attempts_failed_total",
			Help: "Provider attempts that failed and advanced the chain",
		},
		[]string{"provider_id", "reason"},
	)

	CrisisDetected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_crisis_detected_total",
			Help: "Turns with a detected crisis, by level",
		},
		[]string{"level"},
	)

	FallbackTriggered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chat_fallback_triggered_total",
			Help: "Turns answered by the static fallback responder",
		},
	)

	ContextStoreFallback = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chat_context_store_fallback_total",
			Help: "Context store operations served by the in-memory fallback",
		},
	)
)
