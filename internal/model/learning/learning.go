package learning

import "time"

// Type classifies what a learning record captured.
type Type string

const (
	TypeInteractionPattern Type = "INTERACTION_PATTERN"
	TypeUserFeedback       Type = "USER_FEEDBACK"
	TypeAnalyticalInsight  Type = "ANALYTICAL_INSIGHT"
)

// Source tags where a record came from.
type Source string

const (
	SourceUserInteraction   Source = "USER_INTERACTION"
	SourceObserverInterface Source = "OBSERVER_INTERFACE"
	SourceObserverAnalysis  Source = "OBSERVER_ANALYSIS"
)

// Record is a stored summary of one past interaction's outcome, fed back
// into future response prompts as learned knowledge.
type Record struct {
	ID              string    `json:"id"`
	EntityID        string    `json:"entityId"`
	EntityName      string    `json:"entityName"`
	LearningType    Type      `json:"learningType"`
	Content         string    `json:"content"`
	Context         string    `json:"context"`
	Source          Source    `json:"source"`
	ConfidenceScore float64   `json:"confidenceScore"`
	UsageCount      int       `json:"usageCount"`
	SuccessRate     float64   `json:"successRate"`
	IsActive        bool      `json:"isActive"`
	CreatedAt       time.Time `json:"createdAt,omitempty"`
}
