// Command agentdemo runs a tool-using agent and a retrieval chain
// with the console callback handler attached, so the full range of
// lifecycle events shows up in one transcript: chains, model calls,
// agent actions, tool runs and retriever queries.
//
// With no configuration it uses the mock model and scripted replies,
// so the demo runs offline.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/m4xw311/chainsight/agent"
	"github.com/m4xw311/chainsight/callbacks"
	"github.com/m4xw311/chainsight/chain"
	"github.com/m4xw311/chainsight/config"
	"github.com/m4xw311/chainsight/llm"
	"github.com/m4xw311/chainsight/retriever"
	"github.com/m4xw311/chainsight/schema"
	"github.com/m4xw311/chainsight/tools"
	"github.com/m4xw311/chainsight/tools/mcp"
)

func main() {
	questionFlag := flag.String("question", "What files are in the current directory?", "Question for the agent")
	providerFlag := flag.String("provider", "", "LLM provider: gemini, openai, anthropic, bedrock or mock")
	modelFlag := flag.String("model", "", "Model name (env: MODEL_NAME)")
	toolsetFlag := flag.String("toolset", "", "Toolset name from the configuration")
	verboseFlag := flag.Bool("verbose", false, "Print debug information for each event")
	inspectFlag := flag.Bool("inspect", false, "Pause on anomalous events")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %+v\n", err)
		os.Exit(1)
	}

	provider := *providerFlag
	if provider == "" {
		provider = cfg.Provider
	}
	modelName := *modelFlag
	if modelName == "" {
		modelName = cfg.Model
	}

	ctx := context.Background()
	model, err := buildModel(ctx, provider, modelName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing %s client: %+v\n", provider, err)
		os.Exit(1)
	}

	opts := []callbacks.ConsoleOption{
		callbacks.WithVerbose(*verboseFlag || cfg.Verbose),
	}
	if *inspectFlag {
		opts = append(opts, callbacks.WithInspector(callbacks.StdinInspector(nil, nil)))
	}
	handler := callbacks.NewConsoleHandler(opts...)

	active, err := buildTools(cfg, *toolsetFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building tools: %+v\n", err)
		os.Exit(1)
	}

	for _, server := range cfg.MCPServers {
		client, err := mcp.NewClient(server.Name, server.Command, server.Args)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error starting MCP server '%s': %+v\n", server.Name, err)
			os.Exit(1)
		}
		defer client.Stop()
		for _, t := range client.Tools() {
			active = append(active, t)
		}
	}

	executor := agent.NewExecutor(model, active)
	outputs, err := chain.Execute(ctx, executor, map[string]any{"input": *questionFlag}, handler)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Agent failed: %+v\n", err)
		os.Exit(1)
	}
	fmt.Println(outputs["output"])

	if err := runRetrievalDemo(ctx, handler); err != nil {
		fmt.Fprintf(os.Stderr, "Retrieval chain failed: %+v\n", err)
		os.Exit(1)
	}
}

// buildModel falls back to the mock model with a scripted action loop
// when no provider is configured.
func buildModel(ctx context.Context, provider, modelName string) (llm.Model, error) {
	if provider == "" || provider == "mock" {
		return &llm.Mock{Responses: []string{
			"Thought: I should list the directory.\nAction: execute_command\nAction Input: ls",
			"Thought: I now know the final answer\nFinal Answer: the directory listing is shown above",
		}}, nil
	}
	return llm.New(ctx, provider, modelName)
}

// buildTools resolves the configured toolset, or falls back to every
// built-in tool when the configuration defines none.
func buildTools(cfg *config.Config, toolset string) ([]tools.Tool, error) {
	registry := tools.NewRegistry(cfg)
	if len(cfg.Toolsets) == 0 {
		return registry.Active(&config.Toolset{
			Name:  "default",
			Tools: []string{"read_file", "execute_command"},
		})
	}
	ts, err := cfg.GetToolset(toolset)
	if err != nil {
		return nil, err
	}
	return registry.Active(ts)
}

// runRetrievalDemo asks a question over a small built-in corpus so the
// retriever events appear in the transcript.
func runRetrievalDemo(ctx context.Context, handler callbacks.Handler) error {
	corpus := []schema.Document{
		{
			PageContent: "Gouda is a mild Dutch cheese that pairs well with dark chocolate and stout beer.",
			Metadata:    map[string]any{"source": "cheese-notes", "page": 1},
		},
		{
			PageContent: "Blue cheese has a sharp flavor and is often served with honey, pears or walnuts.",
			Metadata:    map[string]any{"source": "cheese-notes", "page": 2},
		},
		{
			PageContent: "Sourdough bread develops its flavor from a fermented starter culture.",
			Metadata:    map[string]any{"source": "baking-notes", "page": 5},
		},
	}

	model := &llm.Mock{Responses: []string{
		"Dark chocolate and stout beer pair well with gouda.",
	}}
	rc := chain.NewRetrieval(&retriever.Keyword{Corpus: corpus, TopK: 2}, model)

	outputs, err := chain.Execute(ctx, rc, map[string]any{"question": "What pairs well with gouda cheese?"}, handler)
	if err != nil {
		return err
	}
	fmt.Println(outputs["result"])
	return nil
}
