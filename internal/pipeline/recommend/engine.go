// internal/pipeline/recommend/engine.go
package recommend

import (
	"sort"

	"mindline-backend/internal/models"
)

// Engine derives user-facing recommendations from the turn's
// assessments. Every applicable rule contributes; output is ordered by
// priority, highest first, with rule order breaking ties. Pure and
// deterministic.
type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

var priorityRank = map[models.RecommendationPriority]int{
	models.PriorityHigh:   3,
	models.PriorityMedium: 2,
	models.PriorityLow:    1,
}

// Recommend evaluates the rule set against one turn's assessments.
func (e *Engine) Recommend(crisis models.CrisisAssessment, sentiment models.SentimentAssessment) []models.Recommendation {
	recs := []models.Recommendation{}

	if crisis.Detected {
		recs = append(recs, models.Recommendation{
			Type:     "immediate_action",
			Priority: models.PriorityHigh,
			Message:  "Please consider reaching out to a crisis counselor right away.",
			Suggestions: []string{
				"Call or text 988 to talk to someone now",
				"Reach out to a trusted friend or family member",
				"If you are in immediate danger, call 911",
			},
		})
	}

	if sentiment.IsNegative() {
		recs = append(recs, models.Recommendation{
			Type:     "coping_strategies",
			Priority: models.PriorityMedium,
			Message:  "Some small steps can help when things feel heavy.",
			Suggestions: []string{
				"Take a short walk outside, even five minutes helps",
				"Write down what you're feeling without editing yourself",
				"Reach out to one person you trust today",
			},
		})
	}

	if sentiment.HasIndicator(models.IndicatorAnxiety) {
		recs = append(recs, models.Recommendation{
			Type:     "anxiety_management",
			Priority: models.PriorityMedium,
			Message:  "Grounding techniques can take the edge off anxious moments.",
			Suggestions: []string{
				"Try box breathing: in for 4, hold for 4, out for 4, hold for 4",
				"Name 5 things you can see, 4 you can touch, 3 you can hear",
				"Limit caffeine for the rest of the day",
			},
		})
	}

	if sentiment.IsPositive() {
		recs = append(recs, models.Recommendation{
			Type:     "positive_reinforcement",
			Priority: models.PriorityLow,
			Message:  "It's great that things are looking up. Keep building on it.",
			Suggestions: []string{
				"Note what went well today so you can come back to it",
				"Share the good news with someone close to you",
			},
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return priorityRank[recs[i].Priority] > priorityRank[recs[j].Priority]
	})
	return recs
}

// Resources returns the emergency bundle when and only when a crisis is
// detected, nil otherwise.
func (e *Engine) Resources(crisis models.CrisisAssessment) *models.EmergencyResources {
	if !crisis.Detected {
		return nil
	}
	return DefaultResources()
}
