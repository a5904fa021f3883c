// internal/pipeline/sentiment/analyzer.go
package sentiment

import (
	"strings"
	"unicode"

	"mindline-backend/internal/models"
)

// Analyzer scores emotional polarity. It combines a general token-level
// polarity scorer with domain indicator lists that adjust the raw score
// by fixed deltas. Pure function of the input text: no I/O, no state,
// never fails.
type Analyzer struct{}

func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Assess scores one utterance. An empty string buckets to neutral.
func (a *Analyzer) Assess(text string) models.SentimentAssessment {
	tokens := tokenize(text)

	score := 0.0
	indicators := []models.Indicator{}

	for _, tok := range tokens {
		if positiveWords[tok] {
			score++
		}
		if negativeWords[tok] {
			score--
		}
		if positiveAffectWords[tok] {
			score += positiveAffectDelta
			indicators = append(indicators, models.Indicator{Type: models.IndicatorPositiveAffect, Token: tok})
		}
		if anxietyWords[tok] {
			score += anxietyDelta
			indicators = append(indicators, models.Indicator{Type: models.IndicatorAnxiety, Token: tok})
		}
	}

	// Exclamation marks amplify whichever direction the text already
	// leans; they never move a neutral score.
	if exclamations := strings.Count(text, "!"); exclamations > 0 {
		switch {
		case score > 0:
			score += 0.5 * float64(exclamations)
		case score < 0:
			score -= 0.5 * float64(exclamations)
		}
	}

	return models.SentimentAssessment{
		Score:      score,
		Label:      bucket(score),
		Indicators: indicators,
	}
}

// bucket maps a raw score onto its deterministic label.
func bucket(score float64) models.SentimentLabel {
	switch {
	case score > 2:
		return models.SentimentVeryPositive
	case score > 0:
		return models.SentimentPositive
	case score == 0:
		return models.SentimentNeutral
	case score >= -2:
		return models.SentimentNegative
	default:
		return models.SentimentVeryNegative
	}
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r) && r != '\''
	})
}
