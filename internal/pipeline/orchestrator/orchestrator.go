// internal/pipeline/orchestrator/orchestrator.go
package orchestrator

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"mindline-backend/internal/alerts"
	stderrors "mindline-backend/internal/common/errors"
	"mindline-backend/internal/common/logger"
	"mindline-backend/internal/common/metrics"
	"mindline-backend/internal/common/observability"
	"mindline-backend/internal/common/validation"
	"mindline-backend/internal/models"
	"mindline-backend/internal/pipeline/contextstore"
	"mindline-backend/internal/pipeline/history"
	"mindline-backend/internal/pipeline/prompt"
	"mindline-backend/internal/pipeline/provider"
	"mindline-backend/internal/pipeline/recommend"
	"mindline-backend/internal/pipeline/risk"
	"mindline-backend/internal/pipeline/sentiment"
	"mindline-backend/internal/pipeline/telemetry"
)

// Orchestrator runs the full per-turn pipeline: validate, assess risk
// and sentiment in parallel, fetch context, compose the prompt, walk the
// provider chain, persist the exchange, then attach recommendations and
// resources. Every stage except input validation degrades instead of
// failing: a valid utterance always produces a complete result.
type Orchestrator struct {
	validator   *validation.UtteranceValidator
	risk        *risk.Aggregator
	sentiment   *sentiment.Analyzer
	store       *contextstore.Manager
	composer    *prompt.Composer
	chain       *provider.Chain
	recommender *recommend.Engine
	history     history.RiskHistory
	notifier    *alerts.Notifier
	sink        telemetry.Sink
	obs         *observability.Observability
	deadline    time.Duration
	logger      logger.Logger
}

// Deps collects the orchestrator's collaborators. History, Notifier,
// Sink, and Obs are optional.
type Deps struct {
	Validator   *validation.UtteranceValidator
	Risk        *risk.Aggregator
	Sentiment   *sentiment.Analyzer
	Store       *contextstore.Manager
	Composer    *prompt.Composer
	Chain       *provider.Chain
	Recommender *recommend.Engine
	History     history.RiskHistory
	Notifier    *alerts.Notifier
	Sink        telemetry.Sink
	Obs         *observability.Observability
	Deadline    time.Duration
	Logger      logger.Logger
}

func New(deps Deps) *Orchestrator {
	hist := deps.History
	if hist == nil {
		hist = history.Nop{}
	}
	sink := deps.Sink
	if sink == nil {
		sink = telemetry.Nop{}
	}
	return &Orchestrator{
		validator:   deps.Validator,
		risk:        deps.Risk,
		sentiment:   deps.Sentiment,
		store:       deps.Store,
		composer:    deps.Composer,
		chain:       deps.Chain,
		recommender: deps.Recommender,
		history:     hist,
		notifier:    deps.Notifier,
		sink:        sink,
		obs:         deps.Obs,
		deadline:    deps.Deadline,
		logger:      deps.Logger.With(map[string]interface{}{"component": "orchestrator"}),
	}
}

// HandleTurn processes one utterance end to end. The only error it can
// return is an input-contract violation; everything downstream resolves
// to a degraded-but-complete result within the turn deadline.
func (o *Orchestrator) HandleTurn(ctx context.Context, u models.Utterance) (*models.ChatTurnResult, error) {
	if err := o.validator.Validate(u); err != nil {
		return nil, err
	}

	turnID := uuid.New().String()
	started := time.Now()

	turnCtx, cancel := context.WithTimeout(ctx, o.deadline)
	defer cancel()

	log := o.logger.With(map[string]interface{}{
		"turn_id": turnID,
		"user_id": u.UserID,
	})

	// Risk and sentiment are independent reads of the same utterance.
	var (
		crisis     models.CrisisAssessment
		sentimentA models.SentimentAssessment
		wg         sync.WaitGroup
	)
	assessStart := time.Now()
	wg.Add(2)
	go func() {
		defer wg.Done()
		crisis = o.risk.Assess(turnCtx, u.Text, u.UserID)
	}()
	go func() {
		defer wg.Done()
		sentimentA = o.sentiment.Assess(u.Text)
	}()
	wg.Wait()
	o.recordStage(turnCtx, "assess", time.Since(assessStart))

	key := contextstore.Key{UserID: u.UserID, SessionID: u.SessionID}
	window, err := o.store.Get(turnCtx, key)
	if err != nil {
		log.WithError(err).Warn("context window unavailable, composing without history", nil)
		window = nil
	}

	payload := o.composer.Compose(u.Text, window, crisis, sentimentA)

	generateStart := time.Now()
	reply := o.chain.Generate(turnCtx, payload, crisis, sentimentA)
	o.recordStage(turnCtx, "generate", time.Since(generateStart))

	degraded := turnCtx.Err() != nil && ctx.Err() == nil
	if degraded {
		log.WithError(stderrors.NewDeadlineExceededError(o.deadline)).Warn(
			"turn deadline exhausted, serving degraded result", nil)
	}

	// Persisting the exchange is skipped once the deadline has passed;
	// the window stays consistent rather than half-written.
	if turnCtx.Err() == nil {
		now := time.Now().UTC()
		if err := o.store.Append(turnCtx, key, models.ConversationTurn{Role: models.RoleUser, Text: u.Text, At: now}); err != nil {
			log.WithError(err).Warn("failed to append user turn", nil)
		}
		if err := o.store.Append(turnCtx, key, models.ConversationTurn{Role: models.RoleAssistant, Text: reply.Text, At: now}); err != nil {
			log.WithError(err).Warn("failed to append assistant turn", nil)
		}
	}

	if crisis.Detected {
		o.recordCrisis(turnID, u.UserID, crisis, log)
	}

	result := &models.ChatTurnResult{
		TurnID:             turnID,
		Reply:              reply.Text,
		ProviderID:         reply.ProviderID,
		Crisis:             crisis,
		Sentiment:          sentimentA,
		Recommendations:    o.recommender.Recommend(crisis, sentimentA),
		EmergencyResources: o.recommender.Resources(crisis),
		Degraded:           degraded,
		CompletedAt:        time.Now().UTC(),
	}

	o.emitTelemetry(turnID, u.UserID, crisis, reply, degraded)
	o.recordOutcome(turnCtx, degraded, time.Since(started))

	log.Info("turn completed", map[string]interface{}{
		"provider_id": reply.ProviderID,
		"crisis":      string(crisis.Level),
		"sentiment":   string(sentimentA.Label),
		"degraded":    degraded,
		"duration_ms": time.Since(started).Milliseconds(),
	})
	return result, nil
}

// recordCrisis persists the event and fires counselor alerts off the
// turn's critical path. Both are best-effort.
func (o *Orchestrator) recordCrisis(turnID, userID string, crisis models.CrisisAssessment, log logger.Logger) {
	go func() {
		bg, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := o.history.RecordCrisis(bg, userID, crisis.Level); err != nil {
			log.WithError(err).Warn("failed to record crisis event", nil)
		}
		if o.notifier != nil {
			o.notifier.NotifyHighRisk(bg, turnID, userID, crisis)
		}
	}()
}

func (o *Orchestrator) emitTelemetry(turnID, userID string, crisis models.CrisisAssessment, reply models.ProviderResponse, degraded bool) {
	bg := context.Background()

	o.sink.Emit(bg, telemetry.Event{
		Type:   telemetry.EventProviderTierUsed,
		TurnID: turnID,
		UserID: userID,
		Fields: map[string]interface{}{
			"provider_id": reply.ProviderID,
			"latency_ms":  reply.LatencyMs,
		},
		At: time.Now().UTC(),
	})

	if crisis.Detected {
		o.sink.Emit(bg, telemetry.Event{
			Type:   telemetry.EventCrisisDetected,
			TurnID: turnID,
			UserID: userID,
			Fields: map[string]interface{}{
				"level":      crisis.Level,
				"confidence": crisis.Confidence,
			},
			At: time.Now().UTC(),
		})
	}

	if reply.ProviderID == provider.FallbackProviderID {
		o.sink.Emit(bg, telemetry.Event{
			Type:   telemetry.EventFallbackUsed,
			TurnID: turnID,
			UserID: userID,
			At:     time.Now().UTC(),
		})
	}

	if degraded {
		o.sink.Emit(bg, telemetry.Event{
			Type:   telemetry.EventTurnDegraded,
			TurnID: turnID,
			UserID: userID,
			At:     time.Now().UTC(),
		})
	}
}

func (o *Orchestrator) recordOutcome(ctx context.Context, degraded bool, duration time.Duration) {
	outcome := "ok"
	if degraded {
		outcome = "degraded"
	}
	metrics.TurnsCompleted.WithLabelValues(outcome).Inc()
	metrics.TurnDuration.WithLabelValues(outcome).Observe(duration.Seconds())
	if o.obs != nil {
		o.obs.RecordTurn(ctx, outcome)
	}
}

func (o *Orchestrator) recordStage(ctx context.Context, stage string, duration time.Duration) {
	if o.obs != nil {
		o.obs.RecordStageDuration(ctx, stage, duration)
	}
}
