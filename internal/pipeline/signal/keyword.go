// internal/pipeline/signal/keyword.go
package signal

import (
	"strings"

	"mindline-backend/pkg/lexicon"
)

// KeywordMatcher matches lexicon keywords by case-insensitive substring.
// Each matched keyword contributes the category's keyword weight; the
// category tag fires at most once per utterance.
type KeywordMatcher struct {
	lex *lexicon.Lexicon
}

func NewKeywordMatcher(lex *lexicon.Lexicon) *KeywordMatcher {
	return &KeywordMatcher{lex: lex}
}

func (m *KeywordMatcher) Name() string {
	return "keyword-matcher"
}

func (m *KeywordMatcher) Extract(text string) ([]Hit, error) {
	normalized := strings.ToLower(text)
	if strings.TrimSpace(normalized) == "" {
		return nil, nil
	}

	var hits []Hit
	for _, cat := range m.lex.Categories {
		matched := 0
		for _, kw := range cat.Keywords {
			if kw == "" {
				continue
			}
			if strings.Contains(normalized, kw) {
				matched++
			}
		}
		if matched > 0 {
			hits = append(hits, Hit{
				Tag:      cat.Tag,
				Severity: cat.Severity,
				Weight:   float64(matched) * cat.KeywordWeight,
			})
		}
	}
	return hits, nil
}
