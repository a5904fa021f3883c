// internal/pipeline/telemetry/sink_test.go
package telemetry

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type captureSink struct {
	mu     sync.Mutex
	events []Event
}

func (c *captureSink) Emit(_ context.Context, event Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
}

func (c *captureSink) Events() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Event, len(c.events))
	copy(out, c.events)
	return out
}

func TestMultiFansOut(t *testing.T) {
	first := &captureSink{}
	second := &captureSink{}
	multi := Multi{first, second}

	event := Event{Type: EventCrisisDetected, TurnID: "turn-1", At: time.Now().UTC()}
	multi.Emit(context.Background(), event)

	assert.Len(t, first.Events(), 1)
	assert.Len(t, second.Events(), 1)
	assert.Equal(t, EventCrisisDetected, first.Events()[0].Type)
}

func TestNopDiscards(t *testing.T) {
	var sink Sink = Nop{}
	sink.Emit(context.Background(), Event{Type: EventTurnDegraded})
}

func TestPrometheusSinkAcceptsAllEventTypes(t *testing.T) {
	var sink Sink = PrometheusSink{}

	for _, eventType := range []string{
		EventProviderTierUsed, EventCrisisDetected, EventFallbackUsed, EventTurnDegraded,
	} {
		sink.Emit(context.Background(), Event{Type: eventType})
	}
}
