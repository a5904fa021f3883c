// pkg/lexicon/schema.go
package lexicon

// Severity classifies how strong a trigger category is on its own.
// It is attached to every hit at creation time so downstream consumers
// never have to inspect tag names.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Category groups the evidence for one trigger tag: plain keywords matched
// by substring and phrase patterns matched as regular expressions.
type Category struct {
	Tag           string   `json:"tag"`
	Severity      Severity `json:"severity"`
	Keywords      []string `json:"keywords"`
	Phrases       []string `json:"phrases,omitempty"`
	KeywordWeight float64  `json:"keywordWeight"`
	PhraseWeight  float64  `json:"phraseWeight"`
}

// Lexicon is the canonical trigger table consumed by every signal
// extractor. One versioned table avoids divergent risk classification
// between matchers.
type Lexicon struct {
	Version     string     `json:"version"`
	LastUpdated string     `json:"lastUpdated"`
	Categories  []Category `json:"categories"`

	// Escalation modifiers: absolutist and immediacy language add small
	// additive weight on top of category hits.
	Absolutist     []string `json:"absolutist"`
	Immediacy      []string `json:"immediacy"`
	ModifierWeight float64  `json:"modifierWeight"`
}

// Category returns the category for a tag, or nil if unknown.
func (l *Lexicon) Category(tag string) *Category {
	for i := range l.Categories {
		if l.Categories[i].Tag == tag {
			return &l.Categories[i]
		}
	}
	return nil
}
