// Package schema holds the transient payload types that flow between
// chains, models, tools, retrievers and callback handlers. Values are
// created at a pipeline step boundary, handed to handlers once, and
// discarded; nothing here is persisted.
package schema

// Generation is a single piece of text produced by a model.
type Generation struct {
	Text string
}

// LLMResult is the full output of a model call. Most models return a
// single generation per prompt, but the shape allows several per
// prompt and several prompts per call.
type LLMResult struct {
	// Generations[i][j] is the j-th candidate for the i-th prompt.
	Generations [][]Generation
}

// FirstText returns the text of the first generation of the first
// prompt, or the empty string when the result is empty.
func (r *LLMResult) FirstText() string {
	if r == nil || len(r.Generations) == 0 || len(r.Generations[0]) == 0 {
		return ""
	}
	return r.Generations[0][0].Text
}

// AgentAction describes one tool invocation an agent decided on.
type AgentAction struct {
	Tool      string
	ToolInput string
	// Log is the raw model text the action was parsed from.
	Log string
}

// AgentFinish is the agent's terminal decision.
type AgentFinish struct {
	ReturnValues map[string]any
	Log          string
}

// Document is a unit of retrieved content.
type Document struct {
	PageContent string
	Metadata    map[string]any
}
