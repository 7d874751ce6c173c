package interaction

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"unicode/utf8"

	"github.com/va9226-stack/SENTIENT-NEXUS/internal/analysis/sentiment"
	"github.com/va9226-stack/SENTIENT-NEXUS/internal/model/chat"
	"github.com/va9226-stack/SENTIENT-NEXUS/internal/model/entity"
	learningmodel "github.com/va9226-stack/SENTIENT-NEXUS/internal/model/learning"
	"github.com/va9226-stack/SENTIENT-NEXUS/internal/service/ai"
	learningsvc "github.com/va9226-stack/SENTIENT-NEXUS/internal/service/learning"
	"github.com/va9226-stack/SENTIENT-NEXUS/internal/service/nexus"
)

var ErrRequestInFlight = errors.New("a request is already in flight for this session")

const (
	// Up to this many learning records are embedded into the prompt.
	learningContextLimit = 5
	// Responses longer than this are considered substantive enough to
	// produce a learning record.
	substantiveResponseLen = 50
)

// Generator produces an in-character reply for an entity. Satisfied by the
// ai service; stubbed in tests.
type Generator interface {
	GenerateResponse(ctx context.Context, ent entity.Entity, learningContext, userInput string) (string, error)
}

// Result is the outcome of one user submission.
type Result struct {
	UserMessage chat.Message `json:"userMessage"`
	Reply       chat.Message `json:"reply"`
	Suppressed  bool         `json:"suppressed"`
}

// Service orchestrates one user submission per session at a time: append
// the user message, roll availability, consult learnings, generate, append
// the reply, record the outcome.
type Service struct {
	sessions  *nexus.Service
	generator Generator
	recorder  learningsvc.Recorder
	draw      func() float64

	mu       sync.Mutex
	inflight map[string]struct{}
}

// NewService wires the orchestrator. A nil draw defaults to the global
// random source; tests inject a fixed one.
func NewService(sessions *nexus.Service, generator Generator, recorder learningsvc.Recorder, draw func() float64) *Service {
	if draw == nil {
		draw = rand.Float64
	}
	return &Service{
		sessions:  sessions,
		generator: generator,
		recorder:  recorder,
		draw:      draw,
		inflight:  make(map[string]struct{}),
	}
}

// Acquire reserves the single in-flight slot for a session.
func (s *Service) Acquire(entityID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inflight[entityID]; busy {
		return ErrRequestInFlight
	}
	s.inflight[entityID] = struct{}{}
	return nil
}

// Release frees the in-flight slot for a session.
func (s *Service) Release(entityID string) {
	s.mu.Lock()
	delete(s.inflight, entityID)
	s.mu.Unlock()
}

// Respond runs the full interaction flow for one user submission.
func (s *Service) Respond(ctx context.Context, ent entity.Entity, userInput string) (Result, error) {
	if err := s.Acquire(ent.ID); err != nil {
		return Result{}, err
	}
	defer s.Release(ent.ID)

	userMessage, err := s.sessions.AppendMessage(ctx, ent.ID, chat.Message{Role: chat.RoleUser, Content: userInput})
	if err != nil {
		return Result{}, err
	}

	if notice, suppressed := s.availabilityNotice(ent); suppressed {
		appended, err := s.sessions.AppendMessage(ctx, ent.ID, notice)
		if err != nil {
			return Result{}, err
		}
		return Result{UserMessage: userMessage, Reply: appended, Suppressed: true}, nil
	}

	learningContext := s.LearningContext(ctx, ent)

	text, err := s.generator.GenerateResponse(ctx, ent, learningContext, userInput)
	if err != nil {
		notice := chat.Message{
			Role:    chat.RoleSystem,
			Content: fmt.Sprintf("[SYSTEM: Analysis failed. Error: %v]", err),
		}
		if _, appendErr := s.sessions.AppendMessage(ctx, ent.ID, notice); appendErr != nil {
			log.Printf("[interaction] failed to append failure notice for %s: %v", ent.ID, appendErr)
		}
		return Result{}, fmt.Errorf("response generation failed for %s: %w", ent.ID, err)
	}

	reply, err := s.sessions.AppendMessage(ctx, ent.ID, chat.Message{Role: chat.RoleEntity, Content: text})
	if err != nil {
		return Result{}, err
	}

	s.RecordOutcome(ctx, ent, userInput, text)

	return Result{UserMessage: userMessage, Reply: reply}, nil
}

// LearningContext fetches prior learnings for the prompt. Read failures
// degrade to an empty context.
func (s *Service) LearningContext(ctx context.Context, ent entity.Entity) string {
	records, err := s.recorder.List(ctx, ent.ID, true, learningContextLimit)
	if err != nil {
		log.Printf("[interaction] learning read failed for %s, continuing without context: %v", ent.ID, err)
		return ""
	}
	return ai.FormatLearningContext(records, learningContextLimit)
}

// RecordOutcome writes an interaction-pattern learning when the response
// was substantive. Write failures are swallowed.
func (s *Service) RecordOutcome(ctx context.Context, ent entity.Entity, userInput, response string) {
	if len(response) <= substantiveResponseLen {
		return
	}

	successful := sentiment.Successful(userInput)
	confidence, successRate := 0.5, 0.5
	if successful {
		confidence, successRate = 0.8, 1.0
	}

	record := learningmodel.Record{
		EntityID:        ent.ID,
		EntityName:      ent.Name,
		LearningType:    learningmodel.TypeInteractionPattern,
		Content:         fmt.Sprintf("When asked %q, responded with insights about %s", truncate(userInput, 100), ent.Role),
		Context:         userInput,
		Source:          learningmodel.SourceUserInteraction,
		ConfidenceScore: confidence,
		UsageCount:      1,
		SuccessRate:     successRate,
		IsActive:        true,
	}
	if err := s.recorder.Record(ctx, record); err != nil {
		log.Printf("[interaction] learning write failed for %s: %v", ent.ID, err)
	}
}

// AvailabilityNotice rolls the response draw for the entity and, when the
// draw suppresses the response, returns the system notice to append.
func (s *Service) AvailabilityNotice(ent entity.Entity) (chat.Message, bool) {
	return s.availabilityNotice(ent)
}

func (s *Service) availabilityNotice(ent entity.Entity) (chat.Message, bool) {
	// draw < chance responds; with draw in [0,1) this makes ACTIVE always
	// respond and DORMANT never respond.
	chance := ent.Status.ResponseChance()
	if s.draw() < chance {
		return chat.Message{}, false
	}
	notice := chat.Message{
		Role: chat.RoleSystem,
		Content: fmt.Sprintf("[SYSTEM: %s did not respond - Status: %s, Response probability: %.0f%%]",
			ent.Name, ent.Status, chance*100),
	}
	return notice, true
}

// truncate cuts s to at most max bytes without splitting a rune.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
