package learning

import (
	"context"
	"log"

	"github.com/va9226-stack/SENTIENT-NEXUS/internal/model/learning"
)

// MockRecorder is the offline recorder: writes are acknowledged and
// dropped, reads always return the same two canned records. Used when no
// database is configured and throughout the tests.
type MockRecorder struct{}

// NewMockRecorder returns the canned recorder.
func NewMockRecorder() *MockRecorder {
	return &MockRecorder{}
}

// Record logs and discards the record.
func (m *MockRecorder) Record(_ context.Context, record learning.Record) error {
	log.Printf("[learning] mock recorder dropping %s record for entity %s", record.LearningType, record.EntityID)
	return nil
}

// List returns two fixed records attributed to the requested entity.
func (m *MockRecorder) List(_ context.Context, entityID string, _ bool, limit int) ([]learning.Record, error) {
	records := []learning.Record{
		{
			ID:              "learn-1",
			EntityID:        entityID,
			EntityName:      "OBSERVER",
			LearningType:    learning.TypeAnalyticalInsight,
			Content:         `Analyzed: "market trends"`,
			Context:         "Projected a 15% increase in sector growth.",
			Source:          learning.SourceObserverAnalysis,
			ConfidenceScore: 0.92,
			UsageCount:      5,
			SuccessRate:     0.9,
			IsActive:        true,
		},
		{
			ID:              "learn-2",
			EntityID:        entityID,
			EntityName:      "OBSERVER",
			LearningType:    learning.TypeUserFeedback,
			Content:         "Received POSITIVE feedback on response",
			Context:         "What is the capital of France?",
			Source:          learning.SourceObserverInterface,
			ConfidenceScore: 0.9,
			UsageCount:      12,
			SuccessRate:     1,
			IsActive:        true,
		},
	}
	if limit > 0 && limit < len(records) {
		records = records[:limit]
	}
	return records, nil
}
