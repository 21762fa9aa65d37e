package llm

import (
	"context"
	"os"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/m4xw311/chainsight/errors"
	"github.com/m4xw311/chainsight/schema"
)

// Anthropic is a client for the Anthropic Messages API.
type Anthropic struct {
	client *anthropic.Client
	name   string
}

// NewAnthropic creates an Anthropic-backed model. It requires the
// ANTHROPIC_API_KEY environment variable to be set.
func NewAnthropic(ctx context.Context, modelName string) (*Anthropic, error) {
	apiKey := os.Getenv("ANTHROPIC_API_KEY")
	if apiKey == "" {
		return nil, errors.New("ANTHROPIC_API_KEY environment variable not set")
	}

	client := anthropic.NewClient(
		option.WithAPIKey(apiKey),
	)

	return &Anthropic{client: &client, name: modelName}, nil
}

func (a *Anthropic) Name() string { return a.name }

// Generate sends the prompt as a single user message and concatenates
// the text blocks of the reply into one generation.
func (a *Anthropic) Generate(ctx context.Context, prompt string) (*schema.LLMResult, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(a.name),
		MaxTokens: 4096,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}

	resp, err := a.client.Messages.New(ctx, params)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to send prompt to Anthropic")
	}

	var text string
	for _, block := range resp.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}
	if text == "" {
		return nil, errors.New("received an empty response from Anthropic")
	}

	return singleGeneration(text), nil
}
