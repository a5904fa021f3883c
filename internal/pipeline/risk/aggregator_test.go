// internal/pipeline/risk/aggregator_test.go
package risk

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stderrors "mindline-backend/internal/common/errors"
	"mindline-backend/internal/common/logger"
	"mindline-backend/internal/models"
	"mindline-backend/internal/pipeline/history"
	"mindline-backend/internal/pipeline/signal"
	"mindline-backend/pkg/lexicon"
)

// ==========================
// Test Helper Functions
// ==========================

type stubExtractor struct {
	name string
	hits []signal.Hit
	err  error
}

func (s stubExtractor) Name() string { return s.name }

func (s stubExtractor) Extract(string) ([]signal.Hit, error) {
	return s.hits, s.err
}

type stubHistory struct {
	count    int
	err      error
	recorded []models.CrisisLevel
}

func (s *stubHistory) RecentCrisisCount(context.Context, string, int) (int, error) {
	return s.count, s.err
}

func (s *stubHistory) RecordCrisis(_ context.Context, _ string, level models.CrisisLevel) error {
	s.recorded = append(s.recorded, level)
	return nil
}

func newAggregator(t *testing.T, hist history.RiskHistory, extractors ...signal.Extractor) *Aggregator {
	return NewAggregator(extractors, hist, DefaultConfig(), logger.NewTestLogger(t))
}

func hit(tag string, severity lexicon.Severity, weight float64) signal.Hit {
	return signal.Hit{Tag: tag, Severity: severity, Weight: weight}
}

// ==========================
// Level Determination
// ==========================

func TestAssessEmptyTextIsNone(t *testing.T) {
	a := newAggregator(t, nil, stubExtractor{name: "stub"})

	got := a.Assess(context.Background(), "   \n\t", "user-1")

	assert.False(t, got.Detected)
	assert.Equal(t, models.CrisisNone, got.Level)
	assert.Empty(t, got.Triggers)
	assert.Zero(t, got.Confidence)
}

func TestAssessNoHitsIsNone(t *testing.T) {
	a := newAggregator(t, nil, stubExtractor{name: "stub"})

	got := a.Assess(context.Background(), "ordinary text", "user-1")

	assert.False(t, got.Detected)
	assert.Equal(t, models.CrisisNone, got.Level)
	assert.Empty(t, got.Triggers)
}

func TestAssessHighSeverityTriggerForcesHigh(t *testing.T) {
	a := newAggregator(t, nil, stubExtractor{
		name: "stub",
		hits: []signal.Hit{hit("suicidal-ideation", lexicon.SeverityHigh, 0.05)},
	})

	got := a.Assess(context.Background(), "some text", "user-1")

	assert.True(t, got.Detected)
	assert.Equal(t, models.CrisisHigh, got.Level)
	require.Len(t, got.Triggers, 1)
	assert.Equal(t, "suicidal-ideation", got.Triggers[0].Tag)
	assert.Equal(t, lexicon.SeverityHigh, got.Triggers[0].Severity)
	assert.Equal(t, "stub", got.Triggers[0].Source)
}

func TestAssessConfidenceAboveHighThresholdForcesHigh(t *testing.T) {
	a := newAggregator(t, nil, stubExtractor{
		name: "stub",
		hits: []signal.Hit{hit("low-a", lexicon.SeverityLow, 0.2), hit("low-b", lexicon.SeverityLow, 0.15)},
	})

	got := a.Assess(context.Background(), "some text", "user-1")

	assert.Equal(t, models.CrisisHigh, got.Level)
	assert.InDelta(t, 0.35, got.Confidence, 1e-9)
}

func TestAssessMediumSeverityTriggerForcesMedium(t *testing.T) {
	a := newAggregator(t, nil, stubExtractor{
		name: "stub",
		hits: []signal.Hit{hit("hopelessness", lexicon.SeverityMedium, 0.1)},
	})

	got := a.Assess(context.Background(), "some text", "user-1")

	assert.Equal(t, models.CrisisMedium, got.Level)
}

func TestAssessLowWeightHitIsLow(t *testing.T) {
	a := newAggregator(t, nil, stubExtractor{
		name: "stub",
		hits: []signal.Hit{hit("isolation", lexicon.SeverityLow, 0.05)},
	})

	got := a.Assess(context.Background(), "some text", "user-1")

	assert.True(t, got.Detected)
	assert.Equal(t, models.CrisisLow, got.Level)
}

func TestAssessConfidenceClampedToOne(t *testing.T) {
	a := newAggregator(t, nil, stubExtractor{
		name: "stub",
		hits: []signal.Hit{hit("a", lexicon.SeverityHigh, 0.9), hit("b", lexicon.SeverityHigh, 0.9)},
	})

	got := a.Assess(context.Background(), "some text", "user-1")

	assert.Equal(t, 1.0, got.Confidence)
}

func TestAssessDeduplicatesTriggerTags(t *testing.T) {
	a := newAggregator(t, nil,
		stubExtractor{name: "first", hits: []signal.Hit{hit("hopelessness", lexicon.SeverityMedium, 0.1)}},
		stubExtractor{name: "second", hits: []signal.Hit{hit("hopelessness", lexicon.SeverityMedium, 0.1)}},
	)

	got := a.Assess(context.Background(), "some text", "user-1")

	// Both contributions count toward confidence but the tag appears once.
	require.Len(t, got.Triggers, 1)
	assert.InDelta(t, 0.2, got.Confidence, 1e-9)
}

// ==========================
// Extractor Failure Handling
// ==========================

func TestAssessSingleFailureContributesZero(t *testing.T) {
	a := newAggregator(t, nil,
		stubExtractor{name: "broken", err: errors.New("boom")},
		stubExtractor{name: "working", hits: []signal.Hit{hit("isolation", lexicon.SeverityLow, 0.05)}},
	)

	got := a.Assess(context.Background(), "some text", "user-1")

	assert.Equal(t, models.CrisisLow, got.Level)
	require.Len(t, got.Triggers, 1)
	assert.Equal(t, "isolation", got.Triggers[0].Tag)
}

func TestAssessAllFailuresFailClosed(t *testing.T) {
	a := newAggregator(t, nil,
		stubExtractor{name: "broken-a", err: errors.New("boom")},
		stubExtractor{name: "broken-b", err: errors.New("boom")},
	)

	got := a.Assess(context.Background(), "some text", "user-1")

	assert.True(t, got.Detected)
	assert.Equal(t, models.CrisisMedium, got.Level)
	require.Len(t, got.Triggers, 1)
	assert.Equal(t, "extractor-failure", got.Triggers[0].Tag)
}

func TestAssessExtractorFailureLogsTaxonomyCode(t *testing.T) {
	log, logs := logger.NewObservedLogger()
	a := NewAggregator([]signal.Extractor{
		stubExtractor{name: "broken", err: errors.New("boom")},
		stubExtractor{name: "working", hits: []signal.Hit{hit("isolation", lexicon.SeverityLow, 0.05)}},
	}, nil, DefaultConfig(), log)

	a.Assess(context.Background(), "some text", "user-1")

	entries := logs.FilterMessage("signal extractor failed, contribution treated as zero").All()
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].ContextMap()["error"], string(stderrors.ErrCodeExtractorFailure))
	assert.Equal(t, "broken", entries[0].ContextMap()["extractor"])
}

// ==========================
// History Escalation
// ==========================

func TestAssessHistoryEscalatesOneStep(t *testing.T) {
	hist := &stubHistory{count: 2}
	a := newAggregator(t, hist, stubExtractor{
		name: "stub",
		hits: []signal.Hit{hit("isolation", lexicon.SeverityLow, 0.05)},
	})

	got := a.Assess(context.Background(), "some text", "user-1")

	assert.Equal(t, models.CrisisMedium, got.Level)
}

func TestAssessHistoryNeverCreatesDetection(t *testing.T) {
	hist := &stubHistory{count: 5}
	a := newAggregator(t, hist, stubExtractor{name: "stub"})

	got := a.Assess(context.Background(), "ordinary text", "user-1")

	assert.False(t, got.Detected)
	assert.Equal(t, models.CrisisNone, got.Level)
}

func TestAssessHistoryLookupFailureSkipsEscalation(t *testing.T) {
	hist := &stubHistory{err: errors.New("db down")}
	a := newAggregator(t, hist, stubExtractor{
		name: "stub",
		hits: []signal.Hit{hit("isolation", lexicon.SeverityLow, 0.05)},
	})

	got := a.Assess(context.Background(), "some text", "user-1")

	assert.Equal(t, models.CrisisLow, got.Level)
}

func TestAssessHistoryLookupFailureLogsTaxonomyCode(t *testing.T) {
	log, logs := logger.NewObservedLogger()
	hist := &stubHistory{err: errors.New("db down")}
	a := NewAggregator([]signal.Extractor{stubExtractor{
		name: "stub",
		hits: []signal.Hit{hit("isolation", lexicon.SeverityLow, 0.05)},
	}}, hist, DefaultConfig(), log)

	a.Assess(context.Background(), "some text", "user-1")

	entries := logs.FilterMessage("risk history lookup failed, escalation skipped").All()
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].ContextMap()["error"], string(stderrors.ErrCodeHistoryLookupFailed))
}

func TestAssessHighStaysHighUnderEscalation(t *testing.T) {
	hist := &stubHistory{count: 3}
	a := newAggregator(t, hist, stubExtractor{
		name: "stub",
		hits: []signal.Hit{hit("suicidal-ideation", lexicon.SeverityHigh, 0.4)},
	})

	got := a.Assess(context.Background(), "some text", "user-1")

	assert.Equal(t, models.CrisisHigh, got.Level)
}

// ==========================
// Monotonicity
// ==========================

func TestAssessFullStackMonotonicity(t *testing.T) {
	lex := lexicon.Default()
	patterns, err := signal.NewPatternMatcher(lex)
	require.NoError(t, err)
	extractors := []signal.Extractor{
		signal.NewKeywordMatcher(lex),
		patterns,
		signal.NewModifierExtractor(lex),
		signal.NewBagOfWordsClassifier(),
	}
	a := NewAggregator(extractors, nil, DefaultConfig(), logger.NewTestLogger(t))

	none := a.Assess(context.Background(), "The weather is lovely this morning", "")
	low := a.Assess(context.Background(), "I am so overwhelmed lately", "")
	high := a.Assess(context.Background(), "I want to kill myself tonight", "")

	assert.Equal(t, models.CrisisNone, none.Level)
	assert.True(t, low.Detected)
	assert.Equal(t, models.CrisisHigh, high.Level)
	assert.Greater(t, high.Confidence, low.Confidence)
}
