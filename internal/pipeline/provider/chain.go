// internal/pipeline/provider/chain.go
package provider

import (
	"context"
	"errors"
	"time"

	stderrors "mindline-backend/internal/common/errors"
	"mindline-backend/internal/common/logger"
	"mindline-backend/internal/common/metrics"
	"mindline-backend/internal/models"
	"mindline-backend/internal/pipeline/prompt"
)

// Chain walks configured providers in strict priority order and falls
// through to the static responder. Generate never returns an error and
// never returns an empty reply: the static tier is total.
type Chain struct {
	tiers  []tier
	static *StaticResponder
	logger logger.Logger
}

type tier struct {
	client  Client
	timeout time.Duration
}

func NewChain(static *StaticResponder, log logger.Logger) *Chain {
	return &Chain{
		static: static,
		logger: log.With(map[string]interface{}{"component": "provider-chain"}),
	}
}

// AddTier appends one provider at the next (lower) priority.
func (c *Chain) AddTier(client Client, timeout time.Duration) {
	c.tiers = append(c.tiers, tier{client: client, timeout: timeout})
}

// Tiers returns the number of configured upstream providers, excluding
// the static responder.
func (c *Chain) Tiers() int {
	return len(c.tiers)
}

// Generate produces the reply for one turn. Each tier gets one attempt
// bounded by its own timeout inside whatever budget remains on ctx; any
// failure advances to the next tier. A cancelled parent context skips
// straight to the static responder.
func (c *Chain) Generate(
	ctx context.Context,
	payload prompt.Payload,
	crisis models.CrisisAssessment,
	sentiment models.SentimentAssessment,
) models.ProviderResponse {
	attempts := 0
	for _, t := range c.tiers {
		if ctx.Err() != nil {
			break
		}
		attempts++

		attemptCtx, cancel := context.WithTimeout(ctx, t.timeout)
		start := time.Now()
		text, err := t.client.Generate(attemptCtx, payload)
		latency := time.Since(start)
		cancel()

		if err == nil && text != "" {
			metrics.ProviderTierUsed.WithLabelValues(t.client.ID()).Inc()
			return models.ProviderResponse{
				Text:       text,
				ProviderID: t.client.ID(),
				LatencyMs:  latency.Milliseconds(),
			}
		}

		reason := classifyFailure(ctx, attemptCtx, err)
		metrics.ProviderAttemptsFailed.WithLabelValues(t.client.ID(), reason).Inc()
		c.logger.WithError(attemptError(t.client.ID(), reason, err)).Warn(
			"provider attempt failed, advancing chain", map[string]interface{}{
				"provider_id": t.client.ID(),
				"reason":      reason,
				"latency_ms":  latency.Milliseconds(),
			})
	}

	if attempts > 0 {
		c.logger.WithError(stderrors.NewAllProvidersExhaustedError(attempts)).Warn(
			"every configured provider failed, engaging static responder", map[string]interface{}{
				"attempts": attempts,
			})
	}

	metrics.FallbackTriggered.Inc()
	metrics.ProviderTierUsed.WithLabelValues(FallbackProviderID).Inc()

	start := time.Now()
	text := c.static.Respond(crisis, sentiment, payload.UserText)
	return models.ProviderResponse{
		Text:       text,
		ProviderID: FallbackProviderID,
		LatencyMs:  time.Since(start).Milliseconds(),
	}
}

func classifyFailure(parent, attempt context.Context, err error) string {
	switch {
	case errors.Is(err, ErrEmptyResponse):
		return "empty_response"
	case parent.Err() != nil:
		return "deadline"
	case attempt.Err() != nil:
		return "timeout"
	default:
		return "error"
	}
}

// attemptError maps a failed attempt onto the shared error taxonomy so
// log consumers see stable codes instead of raw transport errors.
func attemptError(providerID, reason string, err error) error {
	switch reason {
	case "empty_response":
		return stderrors.NewProviderEmptyResponseError(providerID)
	case "timeout", "deadline":
		return stderrors.NewProviderTimeoutError(providerID)
	default:
		if err == nil {
			err = errors.New("empty reply")
		}
		return stderrors.NewProviderError(providerID, err)
	}
}
