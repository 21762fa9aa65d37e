// Package agent runs a tool-using model loop: the model proposes an
// action, the executor runs the tool, and the observation feeds the
// next model call until the model produces a final answer.
package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/m4xw311/chainsight/chain"
	"github.com/m4xw311/chainsight/errors"
	"github.com/m4xw311/chainsight/llm"
	"github.com/m4xw311/chainsight/prompt"
	"github.com/m4xw311/chainsight/tools"
)

const defaultMaxSteps = 8

const agentTemplate = `Answer the following question as best you can. You have access to the following tools:

{tools}

Use the following format:

Question: the question to answer
Thought: reason about what to do next
Action: the tool to use, one of [{tool_names}]
Action Input: the input to the tool
Observation: the tool result
... (Thought/Action/Action Input/Observation can repeat)
Thought: I now know the final answer
Final Answer: the answer to the original question

Question: {input}
{agent_scratchpad}`

// Executor drives the action loop. It implements chain.Chain, so the
// transcript shows it as a chain with nested model and tool events.
type Executor struct {
	Model    llm.Model
	Tools    []tools.Tool
	MaxSteps int

	inner *chain.LLMChain
}

// NewExecutor builds an executor over the given model and tools.
func NewExecutor(model llm.Model, ts []tools.Tool) *Executor {
	return &Executor{
		Model:    model,
		Tools:    ts,
		MaxSteps: defaultMaxSteps,
		inner:    chain.NewLLMChain(model, prompt.New(agentTemplate)),
	}
}

func (e *Executor) Name() string { return "AgentExecutor" }

func (e *Executor) InputKeys() []string { return []string{"input"} }

func (e *Executor) Call(ctx context.Context, inputs map[string]any, run *chain.Run) (map[string]any, error) {
	question, ok := inputs["input"].(string)
	if !ok {
		return nil, errors.New("missing 'input' key in agent inputs")
	}

	maxSteps := e.MaxSteps
	if maxSteps <= 0 {
		maxSteps = defaultMaxSteps
	}
	if e.inner == nil {
		e.inner = chain.NewLLMChain(e.Model, prompt.New(agentTemplate))
	}

	h := run.Handler()
	var scratchpad strings.Builder

	for step := 0; step < maxSteps; step++ {
		outputs, err := chain.Call(ctx, e.inner, map[string]any{
			"tools":            e.toolDescriptions(),
			"tool_names":       e.toolNames(),
			"input":            question,
			"agent_scratchpad": scratchpad.String(),
			// Sampling hint, not a template variable; the console
			// handler filters it out of the printed inputs.
			"stop": "\nObservation:",
		}, run)
		if err != nil {
			return nil, err
		}

		text, _ := outputs[chain.DefaultOutputKey].(string)
		action, finish := parseOutput(text)

		if finish != nil {
			h.HandleAgentFinish(ctx, run.Info, *finish)
			return map[string]any{"output": finish.ReturnValues["output"]}, nil
		}

		h.HandleAgentAction(ctx, run.Info, *action)
		observation := e.runTool(ctx, run, action.Tool, action.ToolInput)

		fmt.Fprintf(&scratchpad, "%s\nObservation: %s\nThought: ", strings.TrimSpace(action.Log), observation)
	}

	return nil, errors.New("agent exceeded %d steps without a final answer", maxSteps)
}

// runTool executes one tool call and returns the observation text.
// Tool failures become observations, not errors: the model gets to
// see what went wrong and try something else.
func (e *Executor) runTool(ctx context.Context, run *chain.Run, name, input string) string {
	toolRun := run.Child()
	h := run.Handler()
	h.HandleToolStart(ctx, toolRun.Info, name, input)

	tool := e.findTool(name)
	if tool == nil {
		err := errors.New("tool '%s' is not available", name)
		h.HandleToolError(ctx, toolRun.Info, err)
		return fmt.Sprintf("error: %v", err)
	}

	output, err := tool.Execute(ctx, input)
	if err != nil {
		h.HandleToolError(ctx, toolRun.Info, err)
		return fmt.Sprintf("error: %v", err)
	}

	h.HandleToolEnd(ctx, toolRun.Info, name, output)
	return output
}

func (e *Executor) findTool(name string) tools.Tool {
	for _, t := range e.Tools {
		if t.Name() == name {
			return t
		}
	}
	return nil
}

func (e *Executor) toolNames() string {
	names := make([]string, 0, len(e.Tools))
	for _, t := range e.Tools {
		names = append(names, t.Name())
	}
	return strings.Join(names, ", ")
}

func (e *Executor) toolDescriptions() string {
	var b strings.Builder
	for _, t := range e.Tools {
		fmt.Fprintf(&b, "%s: %s\n", t.Name(), strings.TrimSpace(t.Description()))
	}
	return strings.TrimSuffix(b.String(), "\n")
}
