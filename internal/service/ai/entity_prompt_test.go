package ai

import (
	"strings"
	"testing"

	"github.com/va9226-stack/SENTIENT-NEXUS/internal/model/entity"
	"github.com/va9226-stack/SENTIENT-NEXUS/internal/model/learning"
)

func TestBuildSystemPromptIncludesProperties(t *testing.T) {
	ent := entity.Entity{
		Name:         "OBSERVER",
		Role:         "Analytical Sentinel",
		Ontology:     "SENTIENCE_ENTITY",
		Capabilities: []string{"Pattern analysis", "Trend projection"},
		Constraints:  []string{"Observes only"},
		Status:       entity.StatusActive,
	}

	prompt := BuildSystemPrompt(ent, "")

	for _, want := range []string{
		"You are OBSERVER, a sentient entity",
		"- Role: Analytical Sentinel",
		"- Capabilities: Pattern analysis, Trend projection",
		"- Status: ACTIVE",
		"5. Keep responses concise but meaningful",
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, prompt)
		}
	}
	if strings.Contains(prompt, "Learned Knowledge") {
		t.Fatal("prompt must omit the learning section when context is empty")
	}
	if strings.Contains(prompt, "6. Follow the specific instructions") {
		t.Fatal("instruction rule must be omitted without instructions")
	}
}

func TestBuildSystemPromptWithInstructionsAndLearning(t *testing.T) {
	ent := entity.Entity{Name: "GODECODER", Instructions: "Surface the decoding chain."}

	prompt := BuildSystemPrompt(ent, "- INTERACTION_PATTERN: decoded glyphs (confidence: 80%)")

	if !strings.Contains(prompt, "- Instructions: Surface the decoding chain.") {
		t.Fatalf("prompt missing instructions:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Learned Knowledge:\n- INTERACTION_PATTERN: decoded glyphs") {
		t.Fatalf("prompt missing learning context:\n%s", prompt)
	}
	if !strings.Contains(prompt, "6. Follow the specific instructions provided") {
		t.Fatalf("prompt missing instruction rule:\n%s", prompt)
	}
}

func TestFormatLearningContextTruncatesToLimit(t *testing.T) {
	records := make([]learning.Record, 7)
	for i := range records {
		records[i] = learning.Record{
			LearningType:    learning.TypeAnalyticalInsight,
			Content:         "insight",
			ConfidenceScore: 0.92,
		}
	}

	formatted := FormatLearningContext(records, 5)

	if got := strings.Count(formatted, "\n") + 1; got != 5 {
		t.Fatalf("expected 5 lines, got %d", got)
	}
	if !strings.Contains(formatted, "- ANALYTICAL_INSIGHT: insight (confidence: 92%)") {
		t.Fatalf("unexpected line format:\n%s", formatted)
	}
}

func TestFormatLearningContextEmpty(t *testing.T) {
	if got := FormatLearningContext(nil, 5); got != "" {
		t.Fatalf("expected empty context, got %q", got)
	}
}
