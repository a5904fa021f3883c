// internal/pipeline/telemetry/sink.go
package telemetry

import (
	"context"
	"time"

	"mindline-backend/internal/common/metrics"
	"mindline-backend/internal/models"
)

// Event types emitted by the orchestrator.
const (
	EventProviderTierUsed = "provider_tier_used"
	EventCrisisDetected   = "crisis_detected"
	EventFallbackUsed     = "fallback_triggered"
	EventTurnDegraded     = "turn_degraded"
)

// Event is one pipeline observation. Fields carry event-specific data;
// no message content is ever included.
type Event struct {
	Type   string                 `json:"type"`
	TurnID string                 `json:"turnId"`
	UserID string                 `json:"userId"`
	Fields map[string]interface{} `json:"fields,omitempty"`
	At     time.Time              `json:"at"`
}

// Sink receives pipeline events. Emit must never block the turn and
// never propagate errors to the caller.
type Sink interface {
	Emit(ctx context.Context, event Event)
}

// Nop discards everything.
type Nop struct{}

func (Nop) Emit(context.Context, Event) {}

// Multi fans out to several sinks in order.
type Multi []Sink

func (m Multi) Emit(ctx context.Context, event Event) {
	for _, sink := range m {
		sink.Emit(ctx, event)
	}
}

// PrometheusSink mirrors events onto the process-local counters so
// deployments without a document store still get aggregates.
type PrometheusSink struct{}

func (PrometheusSink) Emit(_ context.Context, event Event) {
	switch event.Type {
	case EventProviderTierUsed:
		// Counted at the chain; nothing extra here.
	case EventCrisisDetected:
		level, _ := event.Fields["level"].(models.CrisisLevel)
		metrics.CrisisDetected.WithLabelValues(string(level)).Inc()
	case EventFallbackUsed, EventTurnDegraded:
		// Counted at the chain and the turn recorder respectively.
	}
}
