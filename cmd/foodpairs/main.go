// Command foodpairs runs the food-pairing prompt through an LLM chain
// with the console callback handler attached, printing every
// lifecycle event as the chain executes.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/m4xw311/chainsight/callbacks"
	"github.com/m4xw311/chainsight/chain"
	"github.com/m4xw311/chainsight/config"
	"github.com/m4xw311/chainsight/llm"
	"github.com/m4xw311/chainsight/prompt"
)

func main() {
	foodFlag := flag.String("food", "chocolate", "Food to find pairings for")
	providerFlag := flag.String("provider", "", "LLM provider: gemini, openai, anthropic, bedrock or mock")
	modelFlag := flag.String("model", "", "Model name (env: MODEL_NAME)")
	verboseFlag := flag.Bool("verbose", false, "Print debug information for each event")
	inspectFlag := flag.Bool("inspect", false, "Pause on anomalous events (implies operator at a terminal)")
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
	if provider == "" {
		provider = "gemini"
	}
	modelName := *modelFlag
	if modelName == "" {
		modelName = cfg.Model
	}
	if modelName == "" {
		modelName = "gemini-pro"
	}

	ctx := context.Background()
	model, err := llm.New(ctx, provider, modelName)
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

	pairing := chain.NewLLMChain(model, prompt.New("What food pairs well with {food}?"))
	if _, err := chain.Predict(ctx, pairing, *foodFlag, handler); err != nil {
		fmt.Fprintf(os.Stderr, "Chain failed: %+v\n", err)
		os.Exit(1)
	}
}
