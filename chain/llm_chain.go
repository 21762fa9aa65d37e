package chain

import (
	"context"

	"github.com/m4xw311/chainsight/errors"
	"github.com/m4xw311/chainsight/llm"
	"github.com/m4xw311/chainsight/prompt"
)

// DefaultOutputKey is the output map key LLMChain writes its text to.
const DefaultOutputKey = "text"

// LLMChain formats a prompt template and sends it to a model. The
// surrounding events are: text (the formatted prompt), llm-start,
// then llm-end or llm-error.
type LLMChain struct {
	Prompt    *prompt.Template
	Model     llm.Model
	OutputKey string
}

// NewLLMChain builds an LLMChain with the default output key.
func NewLLMChain(model llm.Model, tmpl *prompt.Template) *LLMChain {
	return &LLMChain{Prompt: tmpl, Model: model, OutputKey: DefaultOutputKey}
}

func (c *LLMChain) Name() string { return "LLMChain" }

func (c *LLMChain) InputKeys() []string { return c.Prompt.Variables() }

func (c *LLMChain) Call(ctx context.Context, inputs map[string]any, run *Run) (map[string]any, error) {
	text, err := c.Prompt.Format(inputs)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to format prompt")
	}

	h := run.Handler()
	h.HandleText(ctx, run.Info, text)

	llmRun := run.Child()
	h.HandleLLMStart(ctx, llmRun.Info, c.Model.Name(), []string{text})

	result, err := c.Model.Generate(ctx, text)
	if err != nil {
		h.HandleLLMError(ctx, llmRun.Info, err)
		return nil, errors.Wrapf(err, "model '%s' call failed", c.Model.Name())
	}
	h.HandleLLMEnd(ctx, llmRun.Info, result)

	key := c.OutputKey
	if key == "" {
		key = DefaultOutputKey
	}
	return map[string]any{key: result.FirstText()}, nil
}
