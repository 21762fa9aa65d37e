// Package callbacks defines the lifecycle-event contract emitted
// during chain execution, and a console handler that renders those
// events as a color-coded transcript.
package callbacks

import (
	"context"

	"github.com/google/uuid"
	"github.com/m4xw311/chainsight/schema"
)

// Run identifies one execution of a pipeline step. ParentID is
// uuid.Nil for top-level runs.
type Run struct {
	ID       uuid.UUID
	ParentID uuid.UUID
	Tags     []string
}

// NewRun returns a top-level run with a fresh identifier.
func NewRun(tags ...string) Run {
	return Run{ID: uuid.New(), Tags: tags}
}

// Child returns a new run whose parent is r.
func (r Run) Child() Run {
	return Run{ID: uuid.New(), ParentID: r.ID, Tags: r.Tags}
}

// Handler receives lifecycle events from an executing pipeline.
// Handlers are terminal sinks: return values are ignored, and a
// handler must not fail the pipeline it observes.
type Handler interface {
	// HandleText fires when a chain prepares text for a model call.
	HandleText(ctx context.Context, run Run, text string)

	HandleChainStart(ctx context.Context, run Run, name string, inputs map[string]any)
	HandleChainEnd(ctx context.Context, run Run, outputs map[string]any)
	HandleChainError(ctx context.Context, run Run, err error)

	HandleLLMStart(ctx context.Context, run Run, model string, prompts []string)
	HandleLLMEnd(ctx context.Context, run Run, result *schema.LLMResult)
	HandleLLMError(ctx context.Context, run Run, err error)

	HandleToolStart(ctx context.Context, run Run, tool string, input string)
	HandleToolEnd(ctx context.Context, run Run, tool string, output string)
	HandleToolError(ctx context.Context, run Run, err error)

	HandleAgentAction(ctx context.Context, run Run, action schema.AgentAction)
	HandleAgentFinish(ctx context.Context, run Run, finish schema.AgentFinish)

	HandleRetrieverStart(ctx context.Context, run Run, name string, query string)
	HandleRetrieverEnd(ctx context.Context, run Run, docs []schema.Document)
}

// NoopHandler implements Handler with empty hooks. Embed it to
// implement only the hooks you care about.
type NoopHandler struct{}

func (NoopHandler) HandleText(context.Context, Run, string) {}

func (NoopHandler) HandleChainStart(context.Context, Run, string, map[string]any) {}

func (NoopHandler) HandleChainEnd(context.Context, Run, map[string]any) {}

func (NoopHandler) HandleChainError(context.Context, Run, error) {}

func (NoopHandler) HandleLLMStart(context.Context, Run, string, []string) {}

func (NoopHandler) HandleLLMEnd(context.Context, Run, *schema.LLMResult) {}

func (NoopHandler) HandleLLMError(context.Context, Run, error) {}

func (NoopHandler) HandleToolStart(context.Context, Run, string, string) {}

func (NoopHandler) HandleToolEnd(context.Context, Run, string, string) {}

func (NoopHandler) HandleToolError(context.Context, Run, error) {}

func (NoopHandler) HandleAgentAction(context.Context, Run, schema.AgentAction) {}

func (NoopHandler) HandleAgentFinish(context.Context, Run, schema.AgentFinish) {}

func (NoopHandler) HandleRetrieverStart(context.Context, Run, string, string) {}

func (NoopHandler) HandleRetrieverEnd(context.Context, Run, []schema.Document) {}

// Handlers fans events out to every handler in order.
type Handlers []Handler

func (hs Handlers) HandleText(ctx context.Context, run Run, text string) {
	for _, h := range hs {
		h.HandleText(ctx, run, text)
	}
}

func (hs Handlers) HandleChainStart(ctx context.Context, run Run, name string, inputs map[string]any) {
	for _, h := range hs {
		h.HandleChainStart(ctx, run, name, inputs)
	}
}

func (hs Handlers) HandleChainEnd(ctx context.Context, run Run, outputs map[string]any) {
	for _, h := range hs {
		h.HandleChainEnd(ctx, run, outputs)
	}
}

func (hs Handlers) HandleChainError(ctx context.Context, run Run, err error) {
	for _, h := range hs {
		h.HandleChainError(ctx, run, err)
	}
}

func (hs Handlers) HandleLLMStart(ctx context.Context, run Run, model string, prompts []string) {
	for _, h := range hs {
		h.HandleLLMStart(ctx, run, model, prompts)
	}
}

func (hs Handlers) HandleLLMEnd(ctx context.Context, run Run, result *schema.LLMResult) {
	for _, h := range hs {
		h.HandleLLMEnd(ctx, run, result)
	}
}

func (hs Handlers) HandleLLMError(ctx context.Context, run Run, err error) {
	for _, h := range hs {
		h.HandleLLMError(ctx, run, err)
	}
}

func (hs Handlers) HandleToolStart(ctx context.Context, run Run, tool string, input string) {
	for _, h := range hs {
		h.HandleToolStart(ctx, run, tool, input)
	}
}

func (hs Handlers) HandleToolEnd(ctx context.Context, run Run, tool string, output string) {
	for _, h := range hs {
		h.HandleToolEnd(ctx, run, tool, output)
	}
}

func (hs Handlers) HandleToolError(ctx context.Context, run Run, err error) {
	for _, h := range hs {
		h.HandleToolError(ctx, run, err)
	}
}

func (hs Handlers) HandleAgentAction(ctx context.Context, run Run, action schema.AgentAction) {
	for _, h := range hs {
		h.HandleAgentAction(ctx, run, action)
	}
}

func (hs Handlers) HandleAgentFinish(ctx context.Context, run Run, finish schema.AgentFinish) {
	for _, h := range hs {
		h.HandleAgentFinish(ctx, run, finish)
	}
}

func (hs Handlers) HandleRetrieverStart(ctx context.Context, run Run, name string, query string) {
	for _, h := range hs {
		h.HandleRetrieverStart(ctx, run, name, query)
	}
}

func (hs Handlers) HandleRetrieverEnd(ctx context.Context, run Run, docs []schema.Document) {
	for _, h := range hs {
		h.HandleRetrieverEnd(ctx, run, docs)
	}
}
