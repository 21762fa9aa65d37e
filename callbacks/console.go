package callbacks

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/m4xw311/chainsight/schema"
)

// Keys that carry mostly noise in chain inputs; never printed.
var suppressedInputKeys = map[string]bool{
	"stop":             true,
	"agent_scratchpad": true,
}

// ConsoleHandler renders every lifecycle event as a color-coded
// console transcript. It is a terminal sink: it never mutates or
// forwards events, holds no mutable state, and never fails the
// pipeline it observes.
//
// Verbose enables the debug register and activates the anomaly
// inspector. Verbose and suspension are deliberately decoupled: a
// handler with Verbose set but no inspector logs extra detail without
// ever blocking.
type ConsoleHandler struct {
	NoopHandler

	verbose bool
	out     *Formatter
	inspect InspectFunc
}

// ConsoleOption configures a ConsoleHandler at construction time.
type ConsoleOption func(*ConsoleHandler)

// WithVerbose enables debug output and anomaly inspection.
func WithVerbose(v bool) ConsoleOption {
	return func(h *ConsoleHandler) { h.verbose = v }
}

// WithFormatter replaces the default stdout formatter.
func WithFormatter(f *Formatter) ConsoleOption {
	return func(h *ConsoleHandler) { h.out = f }
}

// WithInspector sets the anomaly hook invoked in verbose mode.
func WithInspector(fn InspectFunc) ConsoleOption {
	return func(h *ConsoleHandler) { h.inspect = fn }
}

// NewConsoleHandler returns a handler printing to stdout unless a
// formatter option says otherwise.
func NewConsoleHandler(opts ...ConsoleOption) *ConsoleHandler {
	h := &ConsoleHandler{out: NewFormatter(nil)}
	for _, opt := range opts {
		opt(h)
	}
	if h.out == nil {
		h.out = NewFormatter(nil)
	}
	return h
}

// anomaly reports an unexpected payload shape and, in verbose mode,
// hands control to the inspector.
func (h *ConsoleHandler) anomaly(hook, detail string) {
	if h.verbose && h.inspect != nil {
		h.inspect(Anomaly{Hook: hook, Detail: detail})
	}
}

// keyRunInfo prints the run identifier pair in the key register.
func (h *ConsoleHandler) keyRunInfo(run Run) {
	h.out.KeyInfoLabeled("Chain ID", run.ID.String(), false)
	h.out.KeyInfoLabeled("Parent chain ID", parentLabel(run), false)
}

// debugRunInfo prints the run identifier pair in the debug register.
func (h *ConsoleHandler) debugRunInfo(run Run) {
	h.out.DebugInfoLabeled("Chain ID", run.ID.String(), false)
	h.out.DebugInfoLabeled("Parent chain ID", parentLabel(run), false)
}

func parentLabel(run Run) string {
	if run.ParentID == uuid.Nil {
		return "none"
	}
	return run.ParentID.String()
}

// HandleText fires when a chain prepares text for a model call. Only
// rendered in verbose mode: the same text shows up again in the
// llm-start event, which is the easier place to read it.
func (h *ConsoleHandler) HandleText(ctx context.Context, run Run, text string) {
	if !h.verbose {
		return
	}
	h.out.Heading("\n\n> Preparing text.")
	h.debugRunInfo(run)
	h.out.Raw(text)
}

func (h *ConsoleHandler) HandleChainStart(ctx context.Context, run Run, name string, inputs map[string]any) {
	h.out.Heading("\n\n> Starting new chain.")
	h.keyRunInfo(run)

	if name == "" {
		h.out.DebugError("Missing chain class name.")
		name = "Unknown -- chain class name is missing"
		h.anomaly("chain-start", "missing chain class name")
	}
	h.out.KeyInfoLabeled("Chain class", name, false)

	if len(inputs) == 0 {
		h.out.DebugError("Chain inputs is empty.")
		h.anomaly("chain-start", "chain inputs is empty")
	} else {
		h.out.KeyInfo("Iterating through keys/values of chain inputs:")
		for _, key := range sortedKeys(inputs) {
			if suppressedInputKeys[key] {
				continue
			}
			h.out.KeyInfoLabeled("   "+key, fmt.Sprintf("%v", inputs[key]), false)
		}
	}

	if h.verbose {
		h.out.DebugInfoLabeled("inputs", formatMap(inputs), false)
		h.out.DebugInfoLabeled("tags", strings.Join(run.Tags, ", "), false)
	}
}

func (h *ConsoleHandler) HandleChainEnd(ctx context.Context, run Run, outputs map[string]any) {
	h.out.Heading("\n\n> Ending chain.")
	h.keyRunInfo(run)

	if len(outputs) == 0 {
		h.out.DebugError("No chain outputs.")
		h.anomaly("chain-end", "no chain outputs")
	} else {
		for _, key := range sortedKeys(outputs) {
			h.out.KeyInfoLabeled("Output "+key, fmt.Sprintf("%v", outputs[key]), true)
		}
	}

	if h.verbose {
		h.out.DebugInfoLabeled("outputs", formatMap(outputs), false)
	}
}

func (h *ConsoleHandler) HandleChainError(ctx context.Context, run Run, err error) {
	h.out.DebugError("Chain Error")
	h.out.DebugInfoLabeled("Error object", fmt.Sprintf("%v", err), false)
	h.anomaly("chain-error", fmt.Sprintf("%v", err))
}

func (h *ConsoleHandler) HandleLLMStart(ctx context.Context, run Run, model string, prompts []string) {
	h.out.Heading("\n\n> Sending text to the LLM.")
	h.keyRunInfo(run)

	if len(prompts) > 1 {
		h.out.DebugError("prompts has multiple items.")
		h.out.DebugError("Only outputting first item in prompts.")
		if h.verbose {
			h.out.DebugInfoLabeled("Prompts", strings.Join(prompts, "\n"), true)
		}
		h.anomaly("llm-start", fmt.Sprintf("%d prompts where one was expected", len(prompts)))
	}

	if len(prompts) == 0 {
		h.out.DebugError("prompts is empty.")
		h.anomaly("llm-start", "prompts is empty")
		return
	}

	h.out.KeyInfo("Text sent to LLM:")
	h.out.LLMCall(prompts[0])

	if h.verbose {
		h.out.DebugInfoLabeled("Model", model, false)
	}
}

func (h *ConsoleHandler) HandleLLMEnd(ctx context.Context, run Run, result *schema.LLMResult) {
	h.out.Heading("\n\n> Received response from LLM.")
	h.keyRunInfo(run)

	if result == nil || len(result.Generations) == 0 {
		h.out.DebugError("response has no generations.")
		h.anomaly("llm-end", "response has no generations")
		return
	}

	if len(result.Generations) > 1 {
		h.out.DebugError("response object has multiple generations.")
		h.out.DebugError("Only outputting first generation in response.")
		if h.verbose {
			h.out.DebugInfoLabeled("response", formatGenerations(result), true)
		}
		h.anomaly("llm-end", fmt.Sprintf("%d generations where one was expected", len(result.Generations)))
	}

	h.out.KeyInfo("Text received from LLM:")
	h.out.LLMOutput(result.FirstText())
}

func (h *ConsoleHandler) HandleLLMError(ctx context.Context, run Run, err error) {
	h.out.DebugError("LLM Error")
	h.out.DebugInfoLabeled("Error object", fmt.Sprintf("%v", err), false)
	h.anomaly("llm-error", fmt.Sprintf("%v", err))
}

func (h *ConsoleHandler) HandleToolStart(ctx context.Context, run Run, tool string, input string) {
	h.out.Heading("\n\n> Using tool.")
	h.keyRunInfo(run)

	if tool == "" {
		h.out.DebugError("Missing tool name.")
		tool = "Unknown -- tool name is missing"
		h.anomaly("tool-start", "missing tool name")
	}
	h.out.KeyInfoLabeled("Tool name", tool, false)
	h.out.KeyInfo("Query sent to tool:")
	h.out.ToolCall(input)
}

func (h *ConsoleHandler) HandleToolEnd(ctx context.Context, run Run, tool string, output string) {
	h.out.Heading("\n\n> Received tool output.")
	h.keyRunInfo(run)
	h.out.KeyInfoLabeled("Tool name", tool, false)

	if output == "" {
		h.out.DebugError("No tool output.")
		h.anomaly("tool-end", "no tool output")
		return
	}
	h.out.KeyInfo("Response from tool:")
	h.out.ToolOutput(output)
}

func (h *ConsoleHandler) HandleToolError(ctx context.Context, run Run, err error) {
	h.out.DebugError("Tool Error")
	h.out.DebugInfoLabeled("Error object", fmt.Sprintf("%v", err), false)
	h.anomaly("tool-error", fmt.Sprintf("%v", err))
}

func (h *ConsoleHandler) HandleAgentAction(ctx context.Context, run Run, action schema.AgentAction) {
	h.out.Heading("\n\n> Agent taking an action.")
	h.keyRunInfo(run)

	if action.Log == "" {
		h.out.DebugError("No log in action.")
		h.anomaly("agent-action", "no log in action")
	} else {
		h.out.KeyInfoLabeled("Action log", action.Log, true)
	}

	if h.verbose {
		h.out.DebugInfoLabeled("Tool", action.Tool, false)
		h.out.DebugInfoLabeled("Tool input", action.ToolInput, false)
	}
}

func (h *ConsoleHandler) HandleAgentFinish(ctx context.Context, run Run, finish schema.AgentFinish) {
	h.out.Heading("\n\n> Agent has finished.")
	h.keyRunInfo(run)

	if finish.Log == "" {
		h.out.DebugError("No log in action finish.")
		h.anomaly("agent-finish", "no log in action finish")
	} else {
		h.out.KeyInfoLabeled("Action finish log", finish.Log, true)
	}

	if h.verbose {
		h.out.DebugInfoLabeled("Return values", formatMap(finish.ReturnValues), false)
	}
}

func (h *ConsoleHandler) HandleRetrieverStart(ctx context.Context, run Run, name string, query string) {
	h.out.Heading("\n\n> Querying retriever.")
	h.keyRunInfo(run)
	h.out.KeyInfoLabeled("Tags", strings.Join(run.Tags, ", "), false)

	if name == "" {
		h.out.DebugError("Missing retriever class name.")
		name = "Unknown -- retriever class name is missing"
		h.anomaly("retriever-start", "missing retriever class name")
	}
	h.out.KeyInfoLabeled("Retriever class", name, false)

	h.out.KeyInfo("Query sent to retriever:")
	h.out.ToolCall(query)
}

func (h *ConsoleHandler) HandleRetrieverEnd(ctx context.Context, run Run, docs []schema.Document) {
	h.out.Heading("\n\n> Retriever finished.")
	h.keyRunInfo(run)
	h.out.KeyInfo(fmt.Sprintf("Found %d documents.", len(docs)))

	if len(docs) == 0 {
		h.out.DebugError("No documents found.")
		h.anomaly("retriever-end", "no documents found")
		return
	}

	for i, doc := range docs {
		h.out.KeyInfo("---------------------------------------------------")
		h.out.KeyInfo(fmt.Sprintf("Document number %d of %d", i, len(docs)))
		h.out.KeyInfoLabeled("Metadata", formatMap(doc.Metadata), false)
		h.out.KeyInfo("Document contents:")
		h.out.ToolOutput(doc.PageContent)
	}
}

// sortedKeys returns map keys in sorted order so the transcript is
// deterministic for identical payloads.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func formatMap(m map[string]any) string {
	if len(m) == 0 {
		return "{}"
	}
	parts := make([]string, 0, len(m))
	for _, k := range sortedKeys(m) {
		parts = append(parts, fmt.Sprintf("%s: %v", k, m[k]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func formatGenerations(r *schema.LLMResult) string {
	var b strings.Builder
	for i, gens := range r.Generations {
		for j, g := range gens {
			fmt.Fprintf(&b, "[%d][%d] %s\n", i, j, g.Text)
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}
