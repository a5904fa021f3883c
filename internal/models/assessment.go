// internal/models/assessment.go
package models

import (
	"time"

	"mindline-backend/pkg/lexicon"
)

// CrisisLevel is the ordinal risk classification driving response tone
// and resource disclosure: none < low < medium < high.
type CrisisLevel string

const (
	CrisisNone   CrisisLevel = "none"
	CrisisLow    CrisisLevel = "low"
	CrisisMedium CrisisLevel = "medium"
	CrisisHigh   CrisisLevel = "high"
)

var crisisRank = map[CrisisLevel]int{
	CrisisNone:   0,
	CrisisLow:    1,
	CrisisMedium: 2,
	CrisisHigh:   3,
}

// Rank returns the ordinal position of the level.
func (l CrisisLevel) Rank() int {
	return crisisRank[l]
}

// AtLeast reports whether l is the same or a higher level than other.
func (l CrisisLevel) AtLeast(other CrisisLevel) bool {
	return crisisRank[l] >= crisisRank[other]
}

// Escalate raises the level by exactly one step. high stays high and
// none stays none: escalation never creates a detection.
func (l CrisisLevel) Escalate() CrisisLevel {
	switch l {
	case CrisisLow:
		return CrisisMedium
	case CrisisMedium:
		return CrisisHigh
	default:
		return l
	}
}

// Trigger is one piece of risk evidence. Severity is attached when the
// trigger fires so nothing downstream matches on tag strings.
type Trigger struct {
	Tag      string           `json:"tag"`
	Severity lexicon.Severity `json:"severity"`
	Source   string           `json:"source"`
}

// CrisisAssessment is the aggregated risk verdict for one utterance.
// Invariant: Detected == false implies Level == none and Triggers empty.
type CrisisAssessment struct {
	Detected   bool        `json:"detected"`
	Level      CrisisLevel `json:"level"`
	Triggers   []Trigger   `json:"triggers"`
	Confidence float64     `json:"confidence"`
	ComputedAt time.Time   `json:"computedAt"`
}

// SentimentLabel is the deterministic bucketing of the sentiment score.
type SentimentLabel string

const (
	SentimentVeryNegative SentimentLabel = "very_negative"
	SentimentNegative     SentimentLabel = "negative"
	SentimentNeutral      SentimentLabel = "neutral"
	SentimentPositive     SentimentLabel = "positive"
	SentimentVeryPositive SentimentLabel = "very_positive"
)

// Indicator types recognized by the sentiment analyzer.
const (
	IndicatorPositiveAffect = "positive_affect"
	IndicatorAnxiety        = "anxiety"
)

// Indicator records a domain-specific token that adjusted the raw score.
type Indicator struct {
	Type  string `json:"type"`
	Token string `json:"token"`
}

// SentimentAssessment is the emotional polarity verdict for one utterance.
type SentimentAssessment struct {
	Score      float64        `json:"score"`
	Label      SentimentLabel `json:"label"`
	Indicators []Indicator    `json:"indicators"`
}

// HasIndicator reports whether any indicator of the given type fired.
func (s SentimentAssessment) HasIndicator(indicatorType string) bool {
	for _, ind := range s.Indicators {
		if ind.Type == indicatorType {
			return true
		}
	}
	return false
}

// IsNegative reports whether the label sits in the negative half.
func (s SentimentAssessment) IsNegative() bool {
	return s.Label == SentimentNegative || s.Label == SentimentVeryNegative
}

// IsPositive reports whether the label sits in the positive half.
func (s SentimentAssessment) IsPositive() bool {
	return s.Label == SentimentPositive || s.Label == SentimentVeryPositive
}
