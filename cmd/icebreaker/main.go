// Command icebreaker summarizes a person's profile text into a short
// bio and two interesting facts, printing the chain transcript along
// the way.
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

const information = `Sir Ridley Scott (born 30 November 1937) is an English filmmaker.
He is best known for directing films in the science fiction, crime and
historical drama genres. His work is known for its atmospheric and
highly concentrated visual style. He has received many accolades,
including the BAFTA Fellowship for lifetime achievement in 2018, two
Primetime Emmy Awards and a Golden Globe Award. In 2003, he was
knighted by Queen Elizabeth II.`

const summaryTemplate = `Given the information {information} about a person, create:
1. a short summary
2. two interesting facts about them`

func main() {
	providerFlag := flag.String("provider", "", "LLM provider: gemini, openai, anthropic, bedrock or mock")
	modelFlag := flag.String("model", "", "Model name (env: MODEL_NAME)")
	verboseFlag := flag.Bool("verbose", false, "Print debug information for each event")
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
		provider = "openai"
	}
	modelName := *modelFlag
	if modelName == "" {
		modelName = cfg.Model
	}
	if modelName == "" {
		modelName = "gpt-3.5-turbo"
	}

	ctx := context.Background()
	model, err := llm.New(ctx, provider, modelName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing %s client: %+v\n", provider, err)
		os.Exit(1)
	}

	handler := callbacks.NewConsoleHandler(callbacks.WithVerbose(*verboseFlag || cfg.Verbose))

	summary := chain.NewLLMChain(model, prompt.New(summaryTemplate))
	result, err := chain.Predict(ctx, summary, information, handler)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Chain failed: %+v\n", err)
		os.Exit(1)
	}
	fmt.Println(result)
}
