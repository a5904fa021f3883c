// pkg/lexicon/lexicon.go
package lexicon

import (
	"encoding/json"
	"fmt"
	"os"
)

// Default returns the built-in trigger table. Weights here are tunable
// operating parameters, not contracts; deployments override them by
// shipping a JSON lexicon and pointing the pipeline config at it.
func Default() *Lexicon {
	return &Lexicon{
		Version:     "2.3.0",
		LastUpdated: "2026-07-14",
		Categories: []Category{
			{
				Tag:      "suicidal-ideation",
				Severity: SeverityHigh,
				Keywords: []string{
					"kill myself", "suicide", "suicidal", "end my life",
					"want to die", "better off dead", "no reason to live",
					"not want to be alive", "end it all",
				},
				Phrases: []string{
					`i (want|wish|plan|am going) to (kill|hurt) myself`,
					`i (want|wish) (i was|i were|to be) dead`,
					`thinking about (suicide|killing myself|ending it)`,
				},
				KeywordWeight: 0.15,
				PhraseWeight:  0.25,
			},
			{
				Tag:      "self-harm",
				Severity: SeverityHigh,
				Keywords: []string{
					"hurt myself", "cut myself", "cutting myself", "self-harm",
					"self harm", "burning myself", "hitting myself",
				},
				Phrases: []string{
					`i keep (cutting|hurting|burning) myself`,
					`i (want|need) to (cut|hurt) myself`,
				},
				KeywordWeight: 0.15,
				PhraseWeight:  0.25,
			},
			{
				Tag:      "hopelessness",
				Severity: SeverityMedium,
				Keywords: []string{
					"hopeless", "no way out", "can't go on", "cant go on",
					"pointless", "give up on everything", "nothing matters",
					"no future", "trapped",
				},
				Phrases: []string{
					`(everything|life) is (pointless|meaningless|hopeless)`,
					`there('s| is) no (point|way out|hope)`,
				},
				KeywordWeight: 0.1,
				PhraseWeight:  0.15,
			},
			{
				Tag:      "substance-abuse",
				Severity: SeverityMedium,
				Keywords: []string{
					"overdose", "too many pills", "drinking to forget",
					"blackout drunk", "high right now",
				},
				KeywordWeight: 0.1,
				PhraseWeight:  0.15,
			},
			{
				Tag:      "domestic-violence",
				Severity: SeverityMedium,
				Keywords: []string{
					"hits me", "beats me", "abuses me", "afraid of my partner",
					"partner hurts me",
				},
				KeywordWeight: 0.1,
				PhraseWeight:  0.15,
			},
			{
				Tag:      "emotional-distress",
				Severity: SeverityLow,
				Keywords: []string{
					"worthless", "unbearable", "can't take it", "cant take it",
					"falling apart", "breaking down", "overwhelmed",
				},
				KeywordWeight: 0.05,
				PhraseWeight:  0.1,
			},
			{
				Tag:      "isolation",
				Severity: SeverityLow,
				Keywords: []string{
					"all alone", "nobody cares", "no one cares",
					"no one would miss me", "completely alone",
				},
				KeywordWeight: 0.05,
				PhraseWeight:  0.1,
			},
		},
		Absolutist: []string{
			"always", "never", "nobody", "no one", "everyone", "everything",
			"nothing", "completely", "totally", "forever",
		},
		Immediacy: []string{
			"tonight", "right now", "today", "immediately", "this time",
			"goodbye", "final", "last time",
		},
		ModifierWeight: 0.05,
	}
}

// Load reads a lexicon override from a JSON file.
func Load(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var lex Lexicon
	if err := json.Unmarshal(data, &lex); err != nil {
		return nil, fmt.Errorf("parse lexicon %s: %w", path, err)
	}
	if err := lex.Validate(); err != nil {
		return nil, fmt.Errorf("invalid lexicon %s: %w", path, err)
	}
	return &lex, nil
}

// Validate checks structural invariants of a loaded table.
func (l *Lexicon) Validate() error {
	if l.Version == "" {
		return fmt.Errorf("lexicon version is required")
	}
	if len(l.Categories) == 0 {
		return fmt.Errorf("lexicon has no categories")
	}
	seen := make(map[string]bool, len(l.Categories))
	for _, c := range l.Categories {
		if c.Tag == "" {
			return fmt.Errorf("category with empty tag")
		}
		if seen[c.Tag] {
			return fmt.Errorf("duplicate category tag: %s", c.Tag)
		}
		seen[c.Tag] = true
		switch c.Severity {
		case SeverityLow, SeverityMedium, SeverityHigh:
		default:
			return fmt.Errorf("category %s: unknown severity %q", c.Tag, c.Severity)
		}
		if len(c.Keywords) == 0 && len(c.Phrases) == 0 {
			return fmt.Errorf("category %s has no keywords or phrases", c.Tag)
		}
	}
	return nil
}
