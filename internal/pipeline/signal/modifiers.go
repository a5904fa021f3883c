// internal/pipeline/signal/modifiers.go
package signal

import (
	"strings"

	"mindline-backend/pkg/lexicon"
)

const (
	TagAbsolutist = "absolutist-language"
	TagImmediacy  = "immediacy-language"
)

// ModifierExtractor detects escalation modifiers: absolutist language
// ("always", "nobody") and immediacy language ("tonight", "right now").
// Each modifier class adds a small additive weight and its own trigger
// tag; on their own they never push an utterance past low.
type ModifierExtractor struct {
	lex *lexicon.Lexicon
}

func NewModifierExtractor(lex *lexicon.Lexicon) *ModifierExtractor {
	return &ModifierExtractor{lex: lex}
}

func (m *ModifierExtractor) Name() string {
	return "modifier-extractor"
}

func (m *ModifierExtractor) Extract(text string) ([]Hit, error) {
	normalized := strings.ToLower(text)
	if strings.TrimSpace(normalized) == "" {
		return nil, nil
	}

	var hits []Hit
	if count := countTerms(normalized, m.lex.Absolutist); count > 0 {
		hits = append(hits, Hit{
			Tag:      TagAbsolutist,
			Severity: lexicon.SeverityLow,
			Weight:   float64(count) * m.lex.ModifierWeight,
		})
	}
	if count := countTerms(normalized, m.lex.Immediacy); count > 0 {
		hits = append(hits, Hit{
			Tag:      TagImmediacy,
			Severity: lexicon.SeverityLow,
			Weight:   float64(count) * m.lex.ModifierWeight,
		})
	}
	return hits, nil
}

func countTerms(normalized string, terms []string) int {
	count := 0
	for _, term := range terms {
		if term == "" {
			continue
		}
		if strings.Contains(normalized, term) {
			count++
		}
	}
	return count
}
