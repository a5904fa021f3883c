// internal/pipeline/provider/static.go
package provider

import (
	"strings"

	"mindline-backend/internal/models"
)

// StaticResponder is the terminal tier of the chain. It never fails and
// never returns an empty reply: selection walks a fixed rule table and
// the final rule matches everything. When a crisis is detected the
// emergency script is appended verbatim to whichever reply was chosen.
type StaticResponder struct {
	emergencyScript string
	rules           []staticRule
}

type staticRule struct {
	matches func(crisis models.CrisisAssessment, sentiment models.SentimentAssessment, text string) bool
	reply   string
}

func NewStaticResponder(emergencyScript string) *StaticResponder {
	return &StaticResponder{
		emergencyScript: emergencyScript,
		rules:           defaultRules(),
	}
}

// Respond picks the first matching rule. Deterministic for a given
// input.
func (s *StaticResponder) Respond(crisis models.CrisisAssessment, sentiment models.SentimentAssessment, text string) string {
	lower := strings.ToLower(text)

	reply := ""
	for _, rule := range s.rules {
		if rule.matches(crisis, sentiment, lower) {
			reply = rule.reply
			break
		}
	}

	if crisis.Detected {
		reply = reply + "\n\n" + s.emergencyScript
	}
	return reply
}

func defaultRules() []staticRule {
	return []staticRule{
		{
			matches: func(crisis models.CrisisAssessment, _ models.SentimentAssessment, _ string) bool {
				return crisis.Detected && crisis.Level == models.CrisisHigh
			},
			reply: "I hear how much pain you're in right now, and I'm really glad you told me. " +
				"You don't have to face this alone. Please reach out to someone who can help you right away.",
		},
		{
			matches: func(crisis models.CrisisAssessment, _ models.SentimentAssessment, _ string) bool {
				return crisis.Detected
			},
			reply: "Thank you for sharing something so difficult. What you're feeling matters, " +
				"and support is available. Talking to a counselor or someone you trust can really help.",
		},
		{
			matches: func(_ models.CrisisAssessment, _ models.SentimentAssessment, text string) bool {
				return containsAny(text, "sleep", "insomnia", "tired", "exhausted")
			},
			reply: "It sounds like rest has been hard to come by. Poor sleep makes everything feel heavier. " +
				"A wind-down routine away from screens can help, and it's worth mentioning to a doctor if it persists.",
		},
		{
			matches: func(_ models.CrisisAssessment, _ models.SentimentAssessment, text string) bool {
				return containsAny(text, "work", "job", "boss", "school", "exam")
			},
			reply: "Pressure like that builds up fast. It can help to name the one thing weighing on you most " +
				"and deal with just that first. What feels most urgent right now?",
		},
		{
			matches: func(_ models.CrisisAssessment, _ models.SentimentAssessment, text string) bool {
				return containsAny(text, "alone", "lonely", "isolated", "nobody")
			},
			reply: "Feeling disconnected from people is genuinely hard. Even one small moment of contact, " +
				"a message to someone you used to talk to, can start to change that. I'm here to listen too.",
		},
		{
			matches: func(_ models.CrisisAssessment, sentiment models.SentimentAssessment, _ string) bool {
				return sentiment.HasIndicator(models.IndicatorAnxiety)
			},
			reply: "That anxious, racing feeling is exhausting to carry. Try slowing your breathing: " +
				"in for four counts, hold for four, out for four. It won't fix everything, but it can quiet the spike.",
		},
		{
			matches: func(_ models.CrisisAssessment, sentiment models.SentimentAssessment, _ string) bool {
				return sentiment.IsNegative()
			},
			reply: "It sounds like things have been rough. Whatever you're carrying, you don't have to " +
				"sort it all out at once. Want to tell me a bit more about what's been going on?",
		},
		{
			matches: func(_ models.CrisisAssessment, sentiment models.SentimentAssessment, _ string) bool {
				return sentiment.IsPositive()
			},
			reply: "That's really good to hear. Moments like this are worth holding onto. " +
				"What do you think made the difference today?",
		},
		{
			matches: func(models.CrisisAssessment, models.SentimentAssessment, string) bool {
				return true
			},
			reply: "I'm here with you. Tell me more about what's on your mind, " +
				"I'm listening.",
		},
	}
}

func containsAny(text string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}
