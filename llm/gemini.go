package llm

import (
	"context"
	"os"

	"github.com/google/generative-ai-go/genai"
	"github.com/m4xw311/chainsight/errors"
	"github.com/m4xw311/chainsight/schema"
	"google.golang.org/api/option"
)

// Gemini is a client for the Google Gemini API.
type Gemini struct {
	model *genai.GenerativeModel
	name  string
}

// NewGemini creates a Gemini-backed model. It requires the
// GEMINI_API_KEY environment variable to be set. Temperature is
// pinned to zero so transcripts are reproducible.
func NewGemini(ctx context.Context, modelName string) (*Gemini, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, errors.New("GEMINI_API_KEY environment variable not set")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create genai client")
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(0)

	return &Gemini{model: model, name: modelName}, nil
}

func (g *Gemini) Name() string { return g.name }

// Generate sends the prompt to Gemini and collects every candidate as
// a generation for the single prompt.
func (g *Gemini) Generate(ctx context.Context, prompt string) (*schema.LLMResult, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to send prompt to Gemini")
	}
	if len(resp.Candidates) == 0 {
		return nil, errors.New("received an empty response from Gemini")
	}

	var gens []schema.Generation
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		var text string
		for _, part := range cand.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				text += string(t)
			}
		}
		gens = append(gens, schema.Generation{Text: text})
	}
	if len(gens) == 0 {
		return nil, errors.New("received an empty response from Gemini")
	}

	return &schema.LLMResult{Generations: [][]schema.Generation{gens}}, nil
}
