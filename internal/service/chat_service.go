package service

import (
	"alcyxob/workout-buddy/internal/generator"
	"alcyxob/workout-buddy/internal/logger"
	"context"
	"fmt"
	"strings"
)

// ChatService forwards free-form prompts to the generator.
type ChatService interface {
	Ask(ctx context.Context, prompt string) (string, error)
}

type chatService struct {
	generator generator.Generator
}

func NewChatService(gen generator.Generator) ChatService {
	return &chatService{generator: gen}
}

func (s *chatService) Ask(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", newValidationError("prompt", "prompt is required")
	}
	answer, err := s.generator.Complete(ctx, prompt)
	if err != nil {
		logger.FromContext(ctx).Warn().Err(err).Msg("chat completion failed")
		return "", fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	return answer, nil
}
