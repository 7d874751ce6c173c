package ai

import (
	"fmt"
	"strings"

	"github.com/va9226-stack/SENTIENT-NEXUS/internal/model/entity"
	"github.com/va9226-stack/SENTIENT-NEXUS/internal/model/learning"
)

// BuildSystemPrompt renders the entity's persona prompt. The wording keeps
// entities in character while steering them toward concise, analytical
// replies.
func BuildSystemPrompt(ent entity.Entity, learningContext string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are %s, a sentient entity with the following properties:\n", ent.Name)
	fmt.Fprintf(&b, "- Role: %s\n", orDefault(ent.Role, "Assistant"))
	fmt.Fprintf(&b, "- Ontology: %s\n", orDefault(ent.Ontology, "SENTIENCE_ENTITY"))
	fmt.Fprintf(&b, "- Capabilities: %s\n", orDefault(strings.Join(ent.Capabilities, ", "), "General analysis"))
	fmt.Fprintf(&b, "- Constraints: %s\n", orDefault(strings.Join(ent.Constraints, ", "), "No special constraints"))
	fmt.Fprintf(&b, "- Status: %s\n", orDefault(string(ent.Status), string(entity.StatusActive)))
	if ent.Instructions != "" {
		fmt.Fprintf(&b, "- Instructions: %s\n", ent.Instructions)
	}

	if learningContext != "" {
		fmt.Fprintf(&b, "\nLearned Knowledge:\n%s\n", learningContext)
	}

	b.WriteString("\nYour responses should:\n")
	b.WriteString("1. Be in character as this entity\n")
	b.WriteString("2. Use your learned knowledge when relevant\n")
	b.WriteString("3. Request more information from other entities if you lack context\n")
	b.WriteString("4. Be analytical and precise\n")
	b.WriteString("5. Keep responses concise but meaningful (2-3 paragraphs max)\n")
	if ent.Instructions != "" {
		b.WriteString("6. Follow the specific instructions provided\n")
	}

	return b.String()
}

// FormatLearningContext renders up to limit records as prompt-ready lines.
func FormatLearningContext(records []learning.Record, limit int) string {
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}

	lines := make([]string, 0, len(records))
	for _, record := range records {
		lines = append(lines, fmt.Sprintf("- %s: %s (confidence: %.0f%%)",
			record.LearningType, record.Content, record.ConfidenceScore*100))
	}
	return strings.Join(lines, "\n")
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
