// Package llm generates schedules directly against an OpenAI compatible
// model instead of the planner backend.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sandeepkv93/sched/internal/planner"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

const (
	defaultModel = "gpt-4o-mini"
	temperature  = 0.4
)

var ErrNoAPIKey = errors.New("llm: api key is required")

// Completer sends one prompt and returns the model's text.
type Completer func(ctx context.Context, prompt string) (string, error)

type Generator struct {
	complete Completer
}

var _ planner.Generator = (*Generator)(nil)

type Options struct {
	APIKey  string
	Model   string
	BaseURL string
}

func New(opts Options) (*Generator, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, ErrNoAPIKey
	}
	modelName := strings.TrimSpace(opts.Model)
	if modelName == "" {
		modelName = defaultModel
	}
	clientOpts := []openai.Option{
		openai.WithToken(opts.APIKey),
		openai.WithModel(modelName),
	}
	if base := strings.TrimSpace(opts.BaseURL); base != "" {
		clientOpts = append(clientOpts, openai.WithBaseURL(base))
	}
	model, err := openai.New(clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("llm: create client: %w", err)
	}
	return NewWithCompleter(func(ctx context.Context, prompt string) (string, error) {
		return llms.GenerateFromSinglePrompt(ctx, model, prompt, llms.WithTemperature(temperature))
	}), nil
}

func NewWithCompleter(c Completer) *Generator {
	return &Generator{complete: c}
}

func (g *Generator) GenerateSchedule(ctx context.Context, req planner.GenerateRequest) (string, error) {
	out, err := g.complete(ctx, BuildPrompt(req))
	if err != nil {
		return "", fmt.Errorf("llm: generate schedule: %w", err)
	}
	return strings.TrimSpace(out), nil
}
