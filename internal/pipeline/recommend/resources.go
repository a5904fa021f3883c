// internal/pipeline/recommend/resources.go
package recommend

import "mindline-backend/internal/models"

// DefaultResources returns the fixed emergency resource bundle disclosed
// when a crisis is detected. Contents are static; presence is the signal.
func DefaultResources() *models.EmergencyResources {
	return &models.EmergencyResources{
		CrisisLines: []models.CrisisLine{
			{Name: "988 Suicide & Crisis Lifeline", Number: "988", Available: "24/7"},
			{Name: "Crisis Text Line", Number: "Text HOME to 741741", Available: "24/7"},
			{Name: "SAMHSA National Helpline", Number: "1-800-662-4357", Available: "24/7"},
			{Name: "Emergency Services", Number: "911", Available: "24/7"},
		},
		ImmediateActions: []string{
			"If you are in immediate danger, call 911 or go to the nearest emergency room",
			"Call or text 988 to reach a trained crisis counselor",
			"Stay with someone you trust, or ask someone to stay with you",
			"Remove access to anything you could use to hurt yourself",
		},
		Message: "You are not alone. Trained counselors are available right now and want to help.",
	}
}

// EmergencyScript is the fixed safety text appended verbatim to static
// fallback replies when a crisis is detected.
func EmergencyScript() string {
	return "If you are thinking about harming yourself, please reach out right now: " +
		"call or text 988 (Suicide & Crisis Lifeline, 24/7), text HOME to 741741 " +
		"(Crisis Text Line), or call 911 if you are in immediate danger. " +
		"You matter, and help is available."
}
