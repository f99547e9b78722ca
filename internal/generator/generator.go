// Package generator talks to the chat-completion API that writes workout plans.
package generator

import (
	"context"
	"errors"
)

//go:generate mockgen -source=generator.go -destination=../mock/generator_mock.go -package=mock

var (
	ErrMissingAPIKey     = errors.New("llm api key is not configured")
	ErrUpstreamStatus    = errors.New("llm api returned an error status")
	ErrMalformedResponse = errors.New("llm api response has no message content")
)

// Generator turns a prompt into completion text.
type Generator interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
