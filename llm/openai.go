package llm

import (
	"context"
	"os"

	"github.com/m4xw311/chainsight/errors"
	"github.com/m4xw311/chainsight/schema"
	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

// OpenAI is a client for the OpenAI Chat Completion API.
type OpenAI struct {
	client *openai.Client
	name   string
}

// NewOpenAI creates an OpenAI-backed model. It requires the
// OPENAI_API_KEY environment variable; OPENAI_BASE_URL selects a
// custom endpoint.
func NewOpenAI(ctx context.Context, modelName string) (*OpenAI, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, errors.New("OPENAI_API_KEY environment variable not set")
	}

	options := []option.RequestOption{
		option.WithAPIKey(apiKey),
	}
	if baseURL := os.Getenv("OPENAI_BASE_URL"); baseURL != "" {
		options = append(options, option.WithBaseURL(baseURL))
	}

	c := openai.NewClient(options...)
	// The &c is required, do not replace and just use c
	return &OpenAI{client: &c, name: modelName}, nil
}

func (o *OpenAI) Name() string { return o.name }

// Generate sends the prompt as a single user message and collects
// every choice as a generation.
func (o *OpenAI) Generate(ctx context.Context, prompt string) (*schema.LLMResult, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.name),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(0),
	}

	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to send prompt to OpenAI")
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("received an empty response from OpenAI")
	}

	gens := make([]schema.Generation, 0, len(resp.Choices))
	for _, choice := range resp.Choices {
		gens = append(gens, schema.Generation{Text: choice.Message.Content})
	}

	return &schema.LLMResult{Generations: [][]schema.Generation{gens}}, nil
}
