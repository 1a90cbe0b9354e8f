package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	lcopenai "github.com/tmc/langchaingo/llms/openai"
)

const (
	defaultModel = "gpt-4o-mini"
	temperature  = 0.2
)

// Generator sends single prompts to an OpenAI chat model through langchaingo.
type Generator struct {
	llm       llms.Model
	modelName string
}

// Option customizes the underlying client (tests point BaseURL at a stub).
type Option func(*[]lcopenai.Option)

func WithBaseURL(url string) Option {
	return func(opts *[]lcopenai.Option) {
		*opts = append(*opts, lcopenai.WithBaseURL(url))
	}
}

func NewGenerator(apiKey, model string, options ...Option) (*Generator, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("openai api key is required")
	}
	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}

	opts := []lcopenai.Option{
		lcopenai.WithToken(apiKey),
		lcopenai.WithModel(model),
	}
	for _, o := range options {
		o(&opts)
	}

	llm, err := lcopenai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create openai client: %w", err)
	}
	return &Generator{llm: llm, modelName: model}, nil
}

func (g *Generator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	if g == nil || g.llm == nil {
		return "", errors.New("openai generator is not initialized")
	}

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("prompt must not be empty")
	}

	out, err := llms.GenerateFromSinglePrompt(ctx, g.llm, prompt, llms.WithTemperature(temperature))
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	out = strings.TrimSpace(out)
	if out == "" {
		return "", errors.New("openai api returned empty response")
	}
	return out, nil
}

func (g *Generator) Model() string {
	if g == nil {
		return ""
	}
	return g.modelName
}
