// internal/pipeline/sentiment/analyzer_test.go
package sentiment

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"mindline-backend/internal/models"
)

func TestAssessBuckets(t *testing.T) {
	a := NewAnalyzer()

	tests := []struct {
		name  string
		text  string
		label models.SentimentLabel
	}{
		{"empty text is neutral", "", models.SentimentNeutral},
		{"no polarity words is neutral", "I went to the store this morning", models.SentimentNeutral},
		{"single positive", "today was a good day", models.SentimentPositive},
		{"strong positive", "I had a great day, feeling awesome!", models.SentimentVeryPositive},
		{"mild negative", "I am sad and tired", models.SentimentNegative},
		{"strong negative", "I feel sad, tired and so lonely", models.SentimentVeryNegative},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := a.Assess(tt.text)
			assert.Equal(t, tt.label, got.Label, "score was %v", got.Score)
		})
	}
}

func TestAssessIsDeterministic(t *testing.T) {
	a := NewAnalyzer()

	text := "I had a great day, feeling awesome!"
	first := a.Assess(text)
	second := a.Assess(text)

	assert.Equal(t, first, second)
}

func TestAssessRecordsIndicators(t *testing.T) {
	a := NewAnalyzer()

	got := a.Assess("I feel anxious and overwhelmed")
	assert.True(t, got.HasIndicator(models.IndicatorAnxiety))
	assert.True(t, got.IsNegative())

	got = a.Assess("feeling energized and motivated")
	assert.True(t, got.HasIndicator(models.IndicatorPositiveAffect))
	assert.True(t, got.IsPositive())
}

func TestExclamationAmplifiesButNeverCreates(t *testing.T) {
	a := NewAnalyzer()

	// A neutral sentence stays neutral no matter the punctuation.
	neutral := a.Assess("hello there!!!")
	assert.Equal(t, models.SentimentNeutral, neutral.Label)
	assert.Zero(t, neutral.Score)

	plain := a.Assess("today was a good day")
	excited := a.Assess("today was a good day!")
	assert.Greater(t, excited.Score, plain.Score)

	down := a.Assess("today was a bad day")
	worse := a.Assess("today was a bad day!")
	assert.Less(t, worse.Score, down.Score)
}
