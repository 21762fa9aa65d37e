// Package llm provides single-prompt completion clients for the
// model providers the chains invoke.
package llm

import (
	"context"

	"github.com/m4xw311/chainsight/errors"
	"github.com/m4xw311/chainsight/schema"
)

// Model is the interface for invoking a large language model with a
// single formatted prompt.
type Model interface {
	// Name identifies the underlying model, e.g. "gemini-pro".
	Name() string
	Generate(ctx context.Context, prompt string) (*schema.LLMResult, error)
}

// New builds a Model from a provider name. An empty provider yields
// the mock model so demos run without credentials.
func New(ctx context.Context, provider, modelName string) (Model, error) {
	switch provider {
	case "gemini":
		return NewGemini(ctx, modelName)
	case "openai":
		return NewOpenAI(ctx, modelName)
	case "anthropic":
		return NewAnthropic(ctx, modelName)
	case "bedrock":
		return NewBedrock(ctx, modelName)
	case "mock", "":
		return &Mock{}, nil
	default:
		return nil, errors.New("unknown llm provider '%s'", provider)
	}
}

// singleGeneration wraps one text completion in the result shape.
func singleGeneration(text string) *schema.LLMResult {
	return &schema.LLMResult{
		Generations: [][]schema.Generation{{{Text: text}}},
	}
}
