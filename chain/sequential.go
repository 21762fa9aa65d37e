package chain

import (
	"context"

	"github.com/m4xw311/chainsight/errors"
)

// SimpleSequential pipes the single text output of each chain into
// the single input of the next. Each step runs as a subchain, so the
// transcript shows nested chain events with parent run identifiers.
type SimpleSequential struct {
	Chains []Chain
}

func (c *SimpleSequential) Name() string { return "SimpleSequentialChain" }

func (c *SimpleSequential) InputKeys() []string { return []string{"input"} }

func (c *SimpleSequential) Call(ctx context.Context, inputs map[string]any, run *Run) (map[string]any, error) {
	if len(c.Chains) == 0 {
		return nil, errors.New("sequential chain has no steps")
	}

	value, ok := inputs["input"]
	if !ok {
		return nil, errors.New("missing 'input' key in sequential chain inputs")
	}

	for _, step := range c.Chains {
		keys := step.InputKeys()
		if len(keys) != 1 {
			return nil, errors.New("sequential step '%s' must take a single input, has %d", step.Name(), len(keys))
		}

		outputs, err := Call(ctx, step, map[string]any{keys[0]: value}, run)
		if err != nil {
			return nil, err
		}

		value = firstValue(outputs)
		if value == nil {
			return nil, errors.New("sequential step '%s' produced no output", step.Name())
		}
	}

	return map[string]any{"output": value}, nil
}

func firstValue(m map[string]any) any {
	for _, v := range m {
		return v
	}
	return nil
}
