// internal/pipeline/signal/pattern.go
package signal

import (
	"fmt"
	"regexp"
	"strings"

	"mindline-backend/pkg/lexicon"
)

// PatternMatcher matches structured phrases from the lexicon as
// case-insensitive regular expressions. Phrase hits carry more weight
// than bare keywords since they have a lower false-positive rate.
type PatternMatcher struct {
	patterns []compiledPattern
}

type compiledPattern struct {
	tag      string
	severity lexicon.Severity
	weight   float64
	re       *regexp.Regexp
}

// NewPatternMatcher compiles every phrase in the lexicon up front so
// extraction stays a single pass per pattern.
func NewPatternMatcher(lex *lexicon.Lexicon) (*PatternMatcher, error) {
	var patterns []compiledPattern
	for _, cat := range lex.Categories {
		for _, phrase := range cat.Phrases {
			re, err := regexp.Compile("(?i)" + phrase)
			if err != nil {
				return nil, fmt.Errorf("category %s: compile phrase %q: %w", cat.Tag, phrase, err)
			}
			patterns = append(patterns, compiledPattern{
				tag:      cat.Tag,
				severity: cat.Severity,
				weight:   cat.PhraseWeight,
				re:       re,
			})
		}
	}
	return &PatternMatcher{patterns: patterns}, nil
}

func (m *PatternMatcher) Name() string {
	return "pattern-matcher"
}

func (m *PatternMatcher) Extract(text string) ([]Hit, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	// One hit per category tag regardless of how many phrases match.
	seen := make(map[string]bool)
	var hits []Hit
	for _, p := range m.patterns {
		if seen[p.tag] {
			continue
		}
		if p.re.MatchString(text) {
			seen[p.tag] = true
			hits = append(hits, Hit{Tag: p.tag, Severity: p.severity, Weight: p.weight})
		}
	}
	return hits, nil
}
