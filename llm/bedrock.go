package llm

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/m4xw311/chainsight/errors"
	"github.com/m4xw311/chainsight/schema"
)

// Bedrock is a client for Anthropic models hosted on AWS Bedrock.
type Bedrock struct {
	client *bedrockruntime.Client
	name   string
}

// NewBedrock creates a Bedrock-backed model. AWS credentials and the
// region come from the default config chain.
func NewBedrock(ctx context.Context, modelID string) (*Bedrock, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load AWS config")
	}

	return &Bedrock{
		client: bedrockruntime.NewFromConfig(cfg),
		name:   modelID,
	}, nil
}

func (b *Bedrock) Name() string { return b.name }

// Generate invokes the model with a Claude messages body and parses
// the text blocks of the reply into one generation.
func (b *Bedrock) Generate(ctx context.Context, prompt string) (*schema.LLMResult, error) {
	body, err := createClaudeRequest(prompt)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create Claude request")
	}

	resp, err := b.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(b.name),
		ContentType: aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to invoke Bedrock model")
	}

	text, err := parseClaudeResponse(resp.Body)
	if err != nil {
		return nil, err
	}
	return singleGeneration(text), nil
}

// createClaudeRequest builds the request body for Anthropic models on
// Bedrock.
func createClaudeRequest(prompt string) ([]byte, error) {
	request := map[string]interface{}{
		"anthropic_version": "bedrock-2023-05-31",
		"max_tokens":        4096,
		"temperature":       0,
		"messages": []map[string]interface{}{
			{
				"role": "user",
				"content": []map[string]interface{}{
					{"type": "text", "text": prompt},
				},
			},
		},
	}
	return json.Marshal(request)
}

// parseClaudeResponse extracts the concatenated text blocks from a
// Bedrock invoke response body.
func parseClaudeResponse(body []byte) (string, error) {
	var response map[string]interface{}
	if err := json.Unmarshal(body, &response); err != nil {
		return "", errors.Wrapf(err, "failed to unmarshal Bedrock response")
	}

	if errMsg, ok := response["error"]; ok {
		return "", errors.New("Bedrock API error: %v", errMsg)
	}

	content, ok := response["content"].([]interface{})
	if !ok {
		return "", errors.New("unexpected content format in Bedrock response")
	}

	var text string
	for _, item := range content {
		itemMap, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		if itemMap["type"] != "text" {
			continue
		}
		if t, ok := itemMap["text"].(string); ok {
			text += t
		}
	}
	return text, nil
}
