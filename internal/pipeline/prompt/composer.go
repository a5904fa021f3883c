// internal/pipeline/prompt/composer.go
package prompt

import (
	"fmt"
	"strings"

	"mindline-backend/internal/models"
)

// Payload is the provider-agnostic prompt assembled for one turn. Every
// tier of the fallback chain receives the same payload.
type Payload struct {
	System   string
	Turns    []models.ConversationTurn
	UserText string
}

// Chars returns the total character size of the payload, used against
// the composition budget.
func (p Payload) Chars() int {
	total := len(p.System) + len(p.UserText)
	for _, t := range p.Turns {
		total += len(t.Text)
	}
	return total
}

const persona = `You are a compassionate mental-health support companion. ` +
	`Listen actively, validate feelings, and respond with warmth. ` +
	`Never diagnose, never prescribe, and never dismiss what the user shares. ` +
	`Keep replies concise and grounded in what the user actually said.`

const crisisDirective = `HIGH PRIORITY SAFETY DIRECTIVE: the user may be in crisis ` +
	`(indicators: %s). Acknowledge their pain directly, encourage them to reach ` +
	`immediate professional help, and include crisis hotline information. ` +
	`Do not minimize, do not change the subject.`

const noCrisisNotice = `No crisis indicators were detected in this message.`

// Composer builds deterministic prompt payloads. The same assessments
// and window always produce the same payload.
type Composer struct {
	maxTurns    int
	budgetChars int
}

func NewComposer(maxTurns, budgetChars int) *Composer {
	return &Composer{maxTurns: maxTurns, budgetChars: budgetChars}
}

// Compose assembles the payload for one turn. The safety directive and
// the user utterance are never trimmed; when the payload exceeds the
// character budget, history turns are dropped oldest first.
func (c *Composer) Compose(
	text string,
	window []models.ConversationTurn,
	crisis models.CrisisAssessment,
	sentiment models.SentimentAssessment,
) Payload {
	var system strings.Builder
	system.WriteString(persona)
	system.WriteString("\n\n")

	if crisis.Detected {
		tags := make([]string, 0, len(crisis.Triggers))
		for _, trigger := range crisis.Triggers {
			tags = append(tags, trigger.Tag)
		}
		system.WriteString(fmt.Sprintf(crisisDirective, strings.Join(tags, ", ")))
	} else {
		system.WriteString(noCrisisNotice)
	}

	system.WriteString("\n\n")
	system.WriteString(fmt.Sprintf("User sentiment: %s (score %.1f).", sentiment.Label, sentiment.Score))
	if len(sentiment.Indicators) > 0 {
		pairs := make([]string, 0, len(sentiment.Indicators))
		for _, ind := range sentiment.Indicators {
			pairs = append(pairs, fmt.Sprintf("%s:%q", ind.Type, ind.Token))
		}
		system.WriteString(fmt.Sprintf(" Indicators: %s.", strings.Join(pairs, ", ")))
	}

	turns := recentTurns(window, c.maxTurns)

	payload := Payload{
		System:   system.String(),
		Turns:    turns,
		UserText: text,
	}

	// Trim history oldest-first until the payload fits the budget.
	for payload.Chars() > c.budgetChars && len(payload.Turns) > 0 {
		payload.Turns = payload.Turns[1:]
	}
	return payload
}

func recentTurns(window []models.ConversationTurn, max int) []models.ConversationTurn {
	if max <= 0 || len(window) == 0 {
		return nil
	}
	if len(window) > max {
		window = window[len(window)-max:]
	}
	out := make([]models.ConversationTurn, len(window))
	copy(out, window)
	return out
}
