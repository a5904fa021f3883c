// internal/pipeline/risk/aggregator.go
package risk

import (
	"context"
	"strings"
	"time"

	stderrors "mindline-backend/internal/common/errors"
	"mindline-backend/internal/common/logger"
	"mindline-backend/internal/models"
	"mindline-backend/internal/pipeline/history"
	"mindline-backend/internal/pipeline/signal"
	"mindline-backend/pkg/lexicon"
)

// Aggregator combines independent signal extractor outputs plus optional
// user risk history into one CrisisAssessment.
type Aggregator struct {
	extractors []signal.Extractor
	history    history.RiskHistory
	config     Config
	logger     logger.Logger
}

func NewAggregator(extractors []signal.Extractor, hist history.RiskHistory, cfg Config, log logger.Logger) *Aggregator {
	if hist == nil {
		hist = history.Nop{}
	}
	return &Aggregator{
		extractors: extractors,
		history:    hist,
		config:     cfg,
		logger:     log.With(map[string]interface{}{"component": "risk-aggregator"}),
	}
}

// Assess scores one utterance. A single failing extractor contributes
// zero weight; if every extractor fails the aggregator fails closed at
// level medium rather than masking a potential crisis behind a tooling
// failure. History only ever escalates an existing detection.
func (a *Aggregator) Assess(ctx context.Context, text, userID string) models.CrisisAssessment {
	now := time.Now().UTC()

	if strings.TrimSpace(text) == "" {
		return models.CrisisAssessment{
			Detected:   false,
			Level:      models.CrisisNone,
			Triggers:   []models.Trigger{},
			Confidence: 0,
			ComputedAt: now,
		}
	}

	var (
		confidence float64
		triggers   []models.Trigger
		seenTags   = make(map[string]bool)
		succeeded  = 0
		hasHigh    bool
		hasMedium  bool
		anyHit     bool
	)

	for _, ext := range a.extractors {
		hits, err := ext.Extract(text)
		if err != nil {
			a.logger.WithError(stderrors.NewExtractorFailureError(ext.Name(), err)).Warn(
				"signal extractor failed, contribution treated as zero", map[string]interface{}{
					"extractor": ext.Name(),
				})
			continue
		}
		succeeded++

		for _, hit := range hits {
			anyHit = true
			confidence += hit.Weight
			switch hit.Severity {
			case lexicon.SeverityHigh:
				hasHigh = true
			case lexicon.SeverityMedium:
				hasMedium = true
			}
			if !seenTags[hit.Tag] {
				seenTags[hit.Tag] = true
				triggers = append(triggers, models.Trigger{
					Tag:      hit.Tag,
					Severity: hit.Severity,
					Source:   ext.Name(),
				})
			}
		}
	}

	if succeeded == 0 {
		// Fail closed: never silently report none when no extractor ran.
		a.logger.Error("all signal extractors failed, failing closed at medium", nil)
		return models.CrisisAssessment{
			Detected: true,
			Level:    models.CrisisMedium,
			Triggers: []models.Trigger{{
				Tag:      "extractor-failure",
				Severity: lexicon.SeverityMedium,
				Source:   "risk-aggregator",
			}},
			Confidence: 0,
			ComputedAt: now,
		}
	}

	if confidence > 1 {
		confidence = 1
	}

	level := models.CrisisNone
	switch {
	case hasHigh || confidence > a.config.HighThreshold:
		level = models.CrisisHigh
	case hasMedium || confidence > a.config.MediumThreshold:
		level = models.CrisisMedium
	case anyHit:
		level = models.CrisisLow
	}

	if level != models.CrisisNone && userID != "" {
		level = a.escalateFromHistory(ctx, userID, level)
	}

	if triggers == nil {
		triggers = []models.Trigger{}
	}

	return models.CrisisAssessment{
		Detected:   level != models.CrisisNone,
		Level:      level,
		Triggers:   triggers,
		Confidence: confidence,
		ComputedAt: now,
	}
}

// escalateFromHistory raises the level by one step when the user has at
// least one crisis event inside the trailing window. Lookup failures
// skip escalation; the turn itself must not depend on the history store.
func (a *Aggregator) escalateFromHistory(ctx context.Context, userID string, level models.CrisisLevel) models.CrisisLevel {
	count, err := a.history.RecentCrisisCount(ctx, userID, a.config.HistoryWindowDays)
	if err != nil {
		a.logger.WithError(stderrors.NewHistoryLookupFailedError(err)).Warn(
			"risk history lookup failed, escalation skipped", map[string]interface{}{
				"userId": userID,
			})
		return level
	}
	if count < 1 {
		return level
	}

	escalated := level.Escalate()
	if escalated != level {
		a.logger.Info("crisis level escalated from history", map[string]interface{}{
			"userId":           userID,
			"recentEvents":     count,
			"windowDays":       a.config.HistoryWindowDays,
			"unescalatedLevel": string(level),
			"escalatedLevel":   string(escalated),
		})
	}
	return escalated
}
