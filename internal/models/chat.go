// internal/models/chat.go
package models

import "time"

// Utterance is one inbound user message. Immutable once received.
type Utterance struct {
	Text      string `json:"text"`
	UserID    string `json:"userId"`
	SessionID string `json:"sessionId,omitempty"`
}

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ConversationTurn is one entry in a bounded conversation window.
type ConversationTurn struct {
	Role Role      `json:"role"`
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

// ProviderResponse carries the reply produced by one tier of the
// fallback chain. Text is never empty: an empty upstream body is a
// provider failure, not a success.
type ProviderResponse struct {
	Text       string `json:"text"`
	ProviderID string `json:"providerId"`
	LatencyMs  int64  `json:"latencyMs"`
}

// RecommendationPriority orders recommendations for the caller.
type RecommendationPriority string

const (
	PriorityHigh   RecommendationPriority = "high"
	PriorityMedium RecommendationPriority = "medium"
	PriorityLow    RecommendationPriority = "low"
)

// Recommendation is one user-facing suggestion derived from the
// assessments.
type Recommendation struct {
	Type        string                 `json:"type"`
	Priority    RecommendationPriority `json:"priority"`
	Message     string                 `json:"message"`
	Suggestions []string               `json:"suggestions,omitempty"`
}

// CrisisLine is one emergency contact entry.
type CrisisLine struct {
	Name      string `json:"name"`
	Number    string `json:"number"`
	Available string `json:"available"`
}

// EmergencyResources is the fixed resource bundle disclosed only when a
// crisis is detected. Callers must key on its presence, not its shape.
type EmergencyResources struct {
	CrisisLines      []CrisisLine `json:"crisisLines"`
	ImmediateActions []string     `json:"immediateActions"`
	Message          string       `json:"message"`
}

// ChatTurnResult is the sole observable output of the pipeline for one
// turn.
type ChatTurnResult struct {
	TurnID             string              `json:"turnId"`
	Reply              string              `json:"reply"`
	ProviderID         string              `json:"providerId"`
	Crisis             CrisisAssessment    `json:"crisis"`
	Sentiment          SentimentAssessment `json:"sentiment"`
	Recommendations    []Recommendation    `json:"recommendations"`
	EmergencyResources *EmergencyResources `json:"emergencyResources,omitempty"`
	Degraded           bool                `json:"degraded"`
	CompletedAt        time.Time           `json:"completedAt"`
}
