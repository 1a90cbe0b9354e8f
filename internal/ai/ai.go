// Package ai picks the model client named by scoring.provider.
package ai

import (
	"context"
	"fmt"
	"strings"

	"jobradar/internal/ai/gemini"
	"jobradar/internal/ai/openai"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Generator matches rank.Generator.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
	Model() string
}

func New(ctx context.Context, provider, model, apiKey string) (Generator, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case ProviderGemini:
		return gemini.NewGenerator(ctx, apiKey, model)
	case ProviderOpenAI, "":
		return openai.NewGenerator(apiKey, model)
	default:
		return nil, fmt.Errorf("unknown ai provider %q", provider)
	}
}
