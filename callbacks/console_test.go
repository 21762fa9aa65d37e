package callbacks

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/m4xw311/chainsight/errors"
	"github.com/m4xw311/chainsight/schema"
)

var ansiRe = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string {
	return ansiRe.ReplaceAllString(s, "")
}

func newTestHandler(opts ...ConsoleOption) (*ConsoleHandler, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	opts = append([]ConsoleOption{WithFormatter(NewFormatter(buf))}, opts...)
	return NewConsoleHandler(opts...), buf
}

// assertOrder checks that the wanted substrings appear in the output
// in the given order.
func assertOrder(t *testing.T, output string, wanted ...string) {
	t.Helper()
	pos := 0
	for _, w := range wanted {
		i := strings.Index(output[pos:], w)
		if i < 0 {
			t.Fatalf("Expected %q after position %d in output:\n%s", w, pos, output)
		}
		pos += i + len(w)
	}
}

func TestChainStartOrdering(t *testing.T) {
	h, buf := newTestHandler()
	run := NewRun()

	h.HandleChainStart(context.Background(), run, "LLMChain", map[string]any{"food": "chocolate"})

	out := stripANSI(buf.String())
	assertOrder(t, out,
		"> Starting new chain.",
		"Chain ID: "+run.ID.String(),
		"Parent chain ID: none",
		"Chain class: LLMChain",
		"Iterating through keys/values of chain inputs:",
		"   food: chocolate",
	)
}

func TestChainStartSuppressedKeys(t *testing.T) {
	h, buf := newTestHandler()

	h.HandleChainStart(context.Background(), NewRun(), "AgentExecutor", map[string]any{
		"input":            "list files",
		"stop":             "\nObservation:",
		"agent_scratchpad": "Thought: something",
	})

	out := stripANSI(buf.String())
	if !strings.Contains(out, "   input: list files") {
		t.Errorf("Expected input key in output, got:\n%s", out)
	}
	if strings.Contains(out, "Observation:") {
		t.Errorf("Expected 'stop' value to be suppressed, got:\n%s", out)
	}
	if strings.Contains(out, "agent_scratchpad") {
		t.Errorf("Expected 'agent_scratchpad' key to be suppressed, got:\n%s", out)
	}
}

func TestChainStartMissingName(t *testing.T) {
	h, buf := newTestHandler()

	h.HandleChainStart(context.Background(), NewRun(), "", map[string]any{"input": "x"})

	out := stripANSI(buf.String())
	assertOrder(t, out,
		"Missing chain class name.",
		"Chain class: Unknown -- chain class name is missing",
	)
}

func TestChainStartEmptyInputs(t *testing.T) {
	h, buf := newTestHandler()

	h.HandleChainStart(context.Background(), NewRun(), "LLMChain", nil)

	out := stripANSI(buf.String())
	if !strings.Contains(out, "Chain inputs is empty.") {
		t.Errorf("Expected empty-inputs warning, got:\n%s", out)
	}
	if strings.Contains(out, "Iterating through keys/values") {
		t.Errorf("Expected no key iteration for empty inputs, got:\n%s", out)
	}
}

func TestChainEnd(t *testing.T) {
	h, buf := newTestHandler()
	parent := NewRun()
	run := parent.Child()

	h.HandleChainEnd(context.Background(), run, map[string]any{"text": "port wine"})

	out := stripANSI(buf.String())
	assertOrder(t, out,
		"> Ending chain.",
		"Chain ID: "+run.ID.String(),
		"Parent chain ID: "+parent.ID.String(),
		"Output text: port wine",
	)
}

func TestChainEndEmptyOutputs(t *testing.T) {
	h, buf := newTestHandler()

	h.HandleChainEnd(context.Background(), NewRun(), map[string]any{})

	if !strings.Contains(stripANSI(buf.String()), "No chain outputs.") {
		t.Errorf("Expected no-outputs warning, got:\n%s", buf.String())
	}
}

func TestLLMStartSinglePrompt(t *testing.T) {
	h, buf := newTestHandler()
	run := NewRun()

	h.HandleLLMStart(context.Background(), run, "gemini-pro", []string{"What food pairs well with chocolate?"})

	out := stripANSI(buf.String())
	assertOrder(t, out,
		"> Sending text to the LLM.",
		"Chain ID: "+run.ID.String(),
		"Text sent to LLM:",
		"What food pairs well with chocolate?",
	)
	if strings.Contains(out, "multiple items") {
		t.Errorf("Expected no multi-prompt warning for one prompt, got:\n%s", out)
	}
}

func TestLLMStartMultiplePrompts(t *testing.T) {
	h, buf := newTestHandler()

	h.HandleLLMStart(context.Background(), NewRun(), "gemini-pro", []string{"first", "second"})

	out := stripANSI(buf.String())
	assertOrder(t, out,
		"prompts has multiple items.",
		"Only outputting first item in prompts.",
		"Text sent to LLM:",
		"first",
	)
	if strings.Contains(out, "second") {
		t.Errorf("Expected only the first prompt to be printed, got:\n%s", out)
	}
}

func TestLLMStartEmptyPrompts(t *testing.T) {
	h, buf := newTestHandler()

	h.HandleLLMStart(context.Background(), NewRun(), "gemini-pro", nil)

	out := stripANSI(buf.String())
	if !strings.Contains(out, "prompts is empty.") {
		t.Errorf("Expected empty-prompts warning, got:\n%s", out)
	}
	if strings.Contains(out, "Text sent to LLM:") {
		t.Errorf("Expected no prompt section for empty prompts, got:\n%s", out)
	}
}

func TestLLMEnd(t *testing.T) {
	h, buf := newTestHandler()
	run := NewRun()

	h.HandleLLMEnd(context.Background(), run, &schema.LLMResult{
		Generations: [][]schema.Generation{{{Text: "Port wine pairs well."}}},
	})

	out := stripANSI(buf.String())
	assertOrder(t, out,
		"> Received response from LLM.",
		"Chain ID: "+run.ID.String(),
		"Text received from LLM:",
		"Port wine pairs well.",
	)
}

func TestLLMEndMultipleGenerations(t *testing.T) {
	h, buf := newTestHandler()

	h.HandleLLMEnd(context.Background(), NewRun(), &schema.LLMResult{
		Generations: [][]schema.Generation{
			{{Text: "first answer"}},
			{{Text: "second answer"}},
		},
	})

	out := stripANSI(buf.String())
	assertOrder(t, out,
		"response object has multiple generations.",
		"Only outputting first generation in response.",
		"first answer",
	)
	if strings.Contains(out, "second answer") {
		t.Errorf("Expected only the first generation to be printed, got:\n%s", out)
	}
}

func TestLLMEndNilResult(t *testing.T) {
	h, buf := newTestHandler()

	h.HandleLLMEnd(context.Background(), NewRun(), nil)

	if !strings.Contains(stripANSI(buf.String()), "response has no generations.") {
		t.Errorf("Expected no-generations warning, got:\n%s", buf.String())
	}
}

func TestErrorHooks(t *testing.T) {
	cases := []struct {
		heading string
		fire    func(h *ConsoleHandler, run Run, err error)
	}{
		{"LLM Error", func(h *ConsoleHandler, run Run, err error) {
			h.HandleLLMError(context.Background(), run, err)
		}},
		{"Chain Error", func(h *ConsoleHandler, run Run, err error) {
			h.HandleChainError(context.Background(), run, err)
		}},
		{"Tool Error", func(h *ConsoleHandler, run Run, err error) {
			h.HandleToolError(context.Background(), run, err)
		}},
	}

	for _, tc := range cases {
		h, buf := newTestHandler()
		tc.fire(h, NewRun(), errors.New("upstream exploded"))

		out := stripANSI(buf.String())
		if !strings.Contains(out, tc.heading) {
			t.Errorf("Expected heading %q, got:\n%s", tc.heading, out)
		}
		if !strings.Contains(out, "Error object: ") || !strings.Contains(out, "upstream exploded") {
			t.Errorf("Expected error object line for %q, got:\n%s", tc.heading, out)
		}
	}
}

func TestErrorHookNilError(t *testing.T) {
	h, buf := newTestHandler()

	h.HandleLLMError(context.Background(), NewRun(), nil)

	if !strings.Contains(stripANSI(buf.String()), "Error object: <nil>") {
		t.Errorf("Expected nil error to render as <nil>, got:\n%s", buf.String())
	}
}

func TestToolStartAndEnd(t *testing.T) {
	h, buf := newTestHandler()
	run := NewRun()

	h.HandleToolStart(context.Background(), run, "read_file", "notes.txt")
	h.HandleToolEnd(context.Background(), run, "read_file", "file contents here")

	out := stripANSI(buf.String())
	assertOrder(t, out,
		"> Using tool.",
		"Tool name: read_file",
		"Query sent to tool:",
		"notes.txt",
		"> Received tool output.",
		"Tool name: read_file",
		"Response from tool:",
		"file contents here",
	)
}

func TestToolStartMissingName(t *testing.T) {
	h, buf := newTestHandler()

	h.HandleToolStart(context.Background(), NewRun(), "", "query")

	out := stripANSI(buf.String())
	assertOrder(t, out,
		"Missing tool name.",
		"Tool name: Unknown -- tool name is missing",
	)
}

func TestToolEndEmptyOutput(t *testing.T) {
	h, buf := newTestHandler()

	h.HandleToolEnd(context.Background(), NewRun(), "read_file", "")

	out := stripANSI(buf.String())
	if !strings.Contains(out, "No tool output.") {
		t.Errorf("Expected no-output warning, got:\n%s", out)
	}
	if strings.Contains(out, "Response from tool:") {
		t.Errorf("Expected no response section for empty output, got:\n%s", out)
	}
}

func TestAgentHooks(t *testing.T) {
	h, buf := newTestHandler()
	run := NewRun()

	h.HandleAgentAction(context.Background(), run, schema.AgentAction{
		Tool:      "execute_command",
		ToolInput: "ls",
		Log:       "Thought: list the files\nAction: execute_command\nAction Input: ls",
	})
	h.HandleAgentFinish(context.Background(), run, schema.AgentFinish{
		ReturnValues: map[string]any{"output": "done"},
		Log:          "Final Answer: done",
	})

	out := stripANSI(buf.String())
	assertOrder(t, out,
		"> Agent taking an action.",
		"Action log: ",
		"Action: execute_command",
		"> Agent has finished.",
		"Action finish log: Final Answer: done",
	)
}

func TestAgentHooksMissingLog(t *testing.T) {
	h, buf := newTestHandler()

	h.HandleAgentAction(context.Background(), NewRun(), schema.AgentAction{Tool: "x"})
	h.HandleAgentFinish(context.Background(), NewRun(), schema.AgentFinish{})

	out := stripANSI(buf.String())
	if !strings.Contains(out, "No log in action.") {
		t.Errorf("Expected missing-log warning for action, got:\n%s", out)
	}
	if !strings.Contains(out, "No log in action finish.") {
		t.Errorf("Expected missing-log warning for finish, got:\n%s", out)
	}
}

func TestRetrieverEnd(t *testing.T) {
	h, buf := newTestHandler()

	docs := []schema.Document{
		{PageContent: "gouda pairs with stout", Metadata: map[string]any{"page": 1}},
		{PageContent: "blue cheese with honey", Metadata: map[string]any{"page": 2}},
	}
	h.HandleRetrieverEnd(context.Background(), NewRun(), docs)

	out := stripANSI(buf.String())
	assertOrder(t, out,
		"> Retriever finished.",
		"Found 2 documents.",
		"---------------------------------------------------",
		"Document number 0 of 2",
		"Metadata: {page: 1}",
		"Document contents:",
		"gouda pairs with stout",
		"---------------------------------------------------",
		"Document number 1 of 2",
		"Metadata: {page: 2}",
		"blue cheese with honey",
	)
}

func TestRetrieverEndNoDocuments(t *testing.T) {
	h, buf := newTestHandler()

	h.HandleRetrieverEnd(context.Background(), NewRun(), nil)

	out := stripANSI(buf.String())
	assertOrder(t, out, "Found 0 documents.", "No documents found.")
	if strings.Contains(out, "Document number") {
		t.Errorf("Expected no document sections, got:\n%s", out)
	}
}

func TestRetrieverStart(t *testing.T) {
	h, buf := newTestHandler()
	run := NewRun("demo")

	h.HandleRetrieverStart(context.Background(), run, "KeywordRetriever", "gouda pairings")

	out := stripANSI(buf.String())
	assertOrder(t, out,
		"> Querying retriever.",
		"Tags: demo",
		"Retriever class: KeywordRetriever",
		"Query sent to retriever:",
		"gouda pairings",
	)
}

func TestTextOnlyInVerbose(t *testing.T) {
	h, buf := newTestHandler()
	h.HandleText(context.Background(), NewRun(), "formatted prompt")
	if buf.Len() != 0 {
		t.Errorf("Expected no output for text event without verbose, got:\n%s", buf.String())
	}

	hv, bufv := newTestHandler(WithVerbose(true))
	hv.HandleText(context.Background(), NewRun(), "formatted prompt")
	out := stripANSI(bufv.String())
	assertOrder(t, out, "> Preparing text.", "formatted prompt")
}

func TestInspectorOnlyFiresInVerbose(t *testing.T) {
	var seen []Anomaly
	record := func(a Anomaly) { seen = append(seen, a) }

	h, _ := newTestHandler(WithInspector(record))
	h.HandleLLMStart(context.Background(), NewRun(), "m", []string{"a", "b"})
	if len(seen) != 0 {
		t.Errorf("Expected no inspection without verbose, got %d", len(seen))
	}

	hv, _ := newTestHandler(WithVerbose(true), WithInspector(record))
	hv.HandleLLMStart(context.Background(), NewRun(), "m", []string{"a", "b"})
	if len(seen) != 1 {
		t.Fatalf("Expected 1 inspection in verbose mode, got %d", len(seen))
	}
	if seen[0].Hook != "llm-start" {
		t.Errorf("Expected hook 'llm-start', got '%s'", seen[0].Hook)
	}
}

func TestVerboseWithoutInspectorDoesNotPanic(t *testing.T) {
	h, buf := newTestHandler(WithVerbose(true))

	h.HandleLLMStart(context.Background(), NewRun(), "m", []string{"a", "b"})

	out := stripANSI(buf.String())
	if !strings.Contains(out, "prompts has multiple items.") {
		t.Errorf("Expected warning output, got:\n%s", out)
	}
	// Verbose mode shows every prompt in the debug register.
	if !strings.Contains(out, "  a\n") || !strings.Contains(out, "  b\n") {
		t.Errorf("Expected both prompts in verbose output, got:\n%s", out)
	}
}

func TestDeterministicOutput(t *testing.T) {
	inputs := map[string]any{"b": 2, "a": 1, "c": 3}
	run := NewRun()

	var outputs []string
	for i := 0; i < 3; i++ {
		h, buf := newTestHandler()
		h.HandleChainStart(context.Background(), run, "LLMChain", inputs)
		outputs = append(outputs, buf.String())
	}

	for i := 1; i < len(outputs); i++ {
		if outputs[i] != outputs[0] {
			t.Fatalf("Expected identical output for identical payloads, run %d differs", i)
		}
	}
	assertOrder(t, stripANSI(outputs[0]), "   a: 1", "   b: 2", "   c: 3")
}

func TestParentLabel(t *testing.T) {
	top := NewRun()
	if got := parentLabel(top); got != "none" {
		t.Errorf("Expected 'none' for top-level run, got '%s'", got)
	}

	child := top.Child()
	if got := parentLabel(child); got != top.ID.String() {
		t.Errorf("Expected parent '%s', got '%s'", top.ID, got)
	}
	if child.ParentID == uuid.Nil {
		t.Error("Expected child run to carry a parent identifier")
	}
}

func TestFormatMap(t *testing.T) {
	if got := formatMap(nil); got != "{}" {
		t.Errorf("Expected '{}' for empty map, got '%s'", got)
	}
	got := formatMap(map[string]any{"b": "y", "a": "x"})
	if got != "{a: x, b: y}" {
		t.Errorf("Expected sorted map rendering, got '%s'", got)
	}
}

func TestHandlersFanOut(t *testing.T) {
	h1, buf1 := newTestHandler()
	h2, buf2 := newTestHandler()
	hs := Handlers{h1, h2}

	hs.HandleChainStart(context.Background(), NewRun(), "LLMChain", map[string]any{"input": "x"})

	for i, buf := range []*bytes.Buffer{buf1, buf2} {
		if !strings.Contains(stripANSI(buf.String()), "> Starting new chain.") {
			t.Errorf("Expected handler %d to receive the event", i)
		}
	}
}

func TestStdinInspector(t *testing.T) {
	in := strings.NewReader("\n")
	out := &bytes.Buffer{}

	inspect := StdinInspector(in, out)
	inspect(Anomaly{Hook: "llm-start", Detail: "prompts is empty"})

	got := out.String()
	if !strings.Contains(got, "llm-start") || !strings.Contains(got, "prompts is empty") {
		t.Errorf("Expected anomaly description in prompt, got: %s", got)
	}
	if !strings.Contains(got, "Press Enter to continue.") {
		t.Errorf("Expected continue prompt, got: %s", got)
	}
}

func TestKeyInfoUsesBoldRegister(t *testing.T) {
	h, buf := newTestHandler()

	h.HandleChainStart(context.Background(), NewRun(), "LLMChain", map[string]any{"input": "x"})

	raw := buf.String()
	if !strings.Contains(raw, colorBold) || !strings.Contains(raw, colorDarkCyan) {
		t.Error("Expected key information to carry the bold teal register")
	}
	if strings.Contains(raw, fmt.Sprintf("%sinputs", colorBlue)) {
		t.Error("Expected no debug register output without verbose")
	}
}

func TestVerboseAddsDebugRegister(t *testing.T) {
	h, buf := newTestHandler(WithVerbose(true))

	h.HandleChainStart(context.Background(), NewRun(), "LLMChain", map[string]any{"input": "x"})

	out := stripANSI(buf.String())
	if !strings.Contains(out, "inputs: {input: x}") {
		t.Errorf("Expected debug inputs line in verbose mode, got:\n%s", out)
	}
}
