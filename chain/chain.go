// Package chain runs prompt pipelines and threads lifecycle events to
// registered callback handlers. Handlers observe; they never steer
// execution, and their return values are ignored.
package chain

import (
	"context"

	"github.com/m4xw311/chainsight/callbacks"
	"github.com/m4xw311/chainsight/errors"
)

// Chain is a single runnable pipeline step.
type Chain interface {
	// Name identifies the chain kind in chain-start events.
	Name() string
	// InputKeys lists the keys Call expects in its input map.
	InputKeys() []string
	Call(ctx context.Context, inputs map[string]any, run *Run) (map[string]any, error)
}

// Run threads run identifiers and handlers through one execution.
// Every chain, model call, tool use and retriever query gets its own
// identifier; children carry their parent's.
type Run struct {
	Info    callbacks.Run
	handler callbacks.Handler
}

func newRun(h callbacks.Handler) *Run {
	if h == nil {
		h = callbacks.NoopHandler{}
	}
	return &Run{Info: callbacks.NewRun(), handler: h}
}

// Child returns a run for a nested step.
func (r *Run) Child() *Run {
	return &Run{Info: r.Info.Child(), handler: r.handler}
}

// Handler returns the event sink for this run; never nil.
func (r *Run) Handler() callbacks.Handler {
	if r.handler == nil {
		return callbacks.NoopHandler{}
	}
	return r.handler
}

// Execute runs c as a top-level chain, surrounding it with
// chain-start and chain-end (or chain-error) events.
func Execute(ctx context.Context, c Chain, inputs map[string]any, handlers ...callbacks.Handler) (map[string]any, error) {
	return runChain(ctx, c, inputs, newRun(callbacks.Handlers(handlers)))
}

// Call runs c as a subchain of parent.
func Call(ctx context.Context, c Chain, inputs map[string]any, parent *Run) (map[string]any, error) {
	return runChain(ctx, c, inputs, parent.Child())
}

func runChain(ctx context.Context, c Chain, inputs map[string]any, run *Run) (map[string]any, error) {
	h := run.Handler()
	h.HandleChainStart(ctx, run.Info, c.Name(), inputs)

	outputs, err := c.Call(ctx, inputs, run)
	if err != nil {
		h.HandleChainError(ctx, run.Info, err)
		return nil, err
	}

	h.HandleChainEnd(ctx, run.Info, outputs)
	return outputs, nil
}

// Predict is a convenience for chains with a single input: it wraps
// the value in the chain's input key, executes, and returns the first
// string output.
func Predict(ctx context.Context, c Chain, input any, handlers ...callbacks.Handler) (string, error) {
	keys := c.InputKeys()
	if len(keys) != 1 {
		return "", errors.New("Predict requires a single-input chain, '%s' has %d inputs", c.Name(), len(keys))
	}

	outputs, err := Execute(ctx, c, map[string]any{keys[0]: input}, handlers...)
	if err != nil {
		return "", err
	}
	for _, v := range outputs {
		if s, ok := v.(string); ok {
			return s, nil
		}
	}
	return "", errors.New("chain '%s' produced no string output", c.Name())
}
