package ai

import (
	"context"
	"fmt"
	"log"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/va9226-stack/SENTIENT-NEXUS/internal/config"
	"github.com/va9226-stack/SENTIENT-NEXUS/internal/model/entity"
)

// Service runs the entity response and contextual-analysis chains.
type Service struct {
	chatModel model.ChatModel
	cfg       config.AIConfig
	chain     compose.Runnable[map[string]any, *schema.Message]
}

// NewService compiles the prompt chain against the configured chat model.
func NewService(ctx context.Context, cfg config.AIConfig) (*Service, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}

	return &Service{
		chatModel: chatModel,
		cfg:       cfg,
		chain:     runnable,
	}, nil
}

// StreamingEnabled reports whether SSE streaming is configured.
func (s *Service) StreamingEnabled() bool {
	return s.cfg.StreamResponse
}

// GenerateResponse produces an in-character reply for the entity.
func (s *Service) GenerateResponse(ctx context.Context, ent entity.Entity, learningContext, userInput string) (string, error) {
	response, err := s.chain.Invoke(ctx, s.buildResponseInput(ent, learningContext, userInput))
	if err != nil {
		return "", fmt.Errorf("failed to run response chain: %w", err)
	}

	log.Printf("[ai] generated response for entity=%s, length=%d", ent.ID, len(response.Content))
	return response.Content, nil
}

// StreamResponse streams reply chunks for the SSE endpoint.
func (s *Service) StreamResponse(ctx context.Context, ent entity.Entity, learningContext, userInput string) (*schema.StreamReader[*schema.Message], error) {
	if !s.StreamingEnabled() {
		return nil, fmt.Errorf("streaming disabled in configuration")
	}

	stream, err := s.chain.Stream(ctx, s.buildResponseInput(ent, learningContext, userInput))
	if err != nil {
		return nil, fmt.Errorf("failed to stream response chain: %w", err)
	}
	return stream, nil
}

// AnalyzeContext produces a free-text analysis of the user's intent given
// the entity's properties and learned knowledge.
func (s *Service) AnalyzeContext(ctx context.Context, ent entity.Entity, learningContext, userInput string) (string, error) {
	system := "You are an AI assistant designed to provide contextual analysis of user input. " +
		"You will analyze the user input in the context of the entity properties and learned knowledge " +
		"to provide a contextual analysis that can be used to generate more relevant and accurate responses."

	query := fmt.Sprintf(
		"User Input: %s\nEntity Properties: %s\nLearned Knowledge: %s\n\n"+
			"Provide a detailed contextual analysis of the user input. Focus on identifying the intent of "+
			"the user and determine the scope of the user's question. Also consider the user input in the "+
			"context of the available entity properties and learned knowledge.",
		userInput, describeEntity(ent), orDefault(learningContext, "none"))

	response, err := s.chain.Invoke(ctx, map[string]any{"system": system, "query": query})
	if err != nil {
		return "", fmt.Errorf("failed to run analysis chain: %w", err)
	}
	return response.Content, nil
}

func (s *Service) buildResponseInput(ent entity.Entity, learningContext, userInput string) map[string]any {
	return map[string]any{
		"system": BuildSystemPrompt(ent, learningContext),
		"query":  fmt.Sprintf("User observation/query: %s\n\nRespond as %s:", userInput, ent.Name),
	}
}

func describeEntity(ent entity.Entity) string {
	return fmt.Sprintf("name=%s role=%s ontology=%s status=%s", ent.Name, ent.Role, ent.Ontology, ent.Status)
}
