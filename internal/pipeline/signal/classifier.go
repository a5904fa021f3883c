// internal/pipeline/signal/classifier.go
package signal

import (
	"strings"
	"unicode"

	"mindline-backend/pkg/lexicon"
)

// BagOfWordsClassifier is a simple statistical risk-bucket scorer: it
// tokenizes the utterance once and scores normalized unigram frequency
// against per-severity vocabularies. It is deliberately a pluggable
// Extractor like the matchers, not a trained model.
type BagOfWordsClassifier struct {
	vocab     map[lexicon.Severity]map[string]bool
	weights   map[lexicon.Severity]float64
	weightCap float64
}

// NewBagOfWordsClassifier builds the classifier with its built-in
// vocabularies.
func NewBagOfWordsClassifier() *BagOfWordsClassifier {
	return &BagOfWordsClassifier{
		vocab: map[lexicon.Severity]map[string]bool{
			lexicon.SeverityHigh: toSet([]string{
				"suicide", "suicidal", "die", "dying", "dead", "kill",
				"overdose", "goodbye",
			}),
			lexicon.SeverityMedium: toSet([]string{
				"hopeless", "trapped", "worthless", "unbearable", "numb",
				"burden", "pain", "empty",
			}),
			lexicon.SeverityLow: toSet([]string{
				"sad", "tired", "alone", "lonely", "stressed", "anxious",
				"scared", "crying",
			}),
		},
		weights: map[lexicon.Severity]float64{
			lexicon.SeverityHigh:   0.12,
			lexicon.SeverityMedium: 0.06,
			lexicon.SeverityLow:    0.03,
		},
		weightCap: 0.3,
	}
}

func (c *BagOfWordsClassifier) Name() string {
	return "bow-classifier"
}

func (c *BagOfWordsClassifier) Extract(text string) ([]Hit, error) {
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return nil, nil
	}

	counts := map[lexicon.Severity]int{}
	for _, tok := range tokens {
		for severity, vocab := range c.vocab {
			if vocab[tok] {
				counts[severity]++
			}
		}
	}

	var hits []Hit
	for _, severity := range []lexicon.Severity{lexicon.SeverityHigh, lexicon.SeverityMedium, lexicon.SeverityLow} {
		count := counts[severity]
		if count == 0 {
			continue
		}
		weight := float64(count) * c.weights[severity]
		if weight > c.weightCap {
			weight = c.weightCap
		}
		hits = append(hits, Hit{
			Tag:      "classifier-" + string(severity) + "-risk",
			Severity: severity,
			Weight:   weight,
		})
	}
	return hits, nil
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r) && r != '\''
	})
}

func toSet(words []string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}
