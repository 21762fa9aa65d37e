package llm

import (
	"context"
	"fmt"

	"github.com/m4xw311/chainsight/schema"
)

// Mock is a canned-response model for tests and offline demos.
// Responses are consumed in order; when exhausted (or empty) it
// parrots the prompt back.
type Mock struct {
	Responses []string
	Err       error

	calls int
}

func (m *Mock) Name() string { return "mock" }

func (m *Mock) Generate(ctx context.Context, prompt string) (*schema.LLMResult, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.calls < len(m.Responses) {
		text := m.Responses[m.calls]
		m.calls++
		return singleGeneration(text), nil
	}
	return singleGeneration(fmt.Sprintf("mock response to: %s", prompt)), nil
}
