package chain

import (
	"context"
	"strings"

	"github.com/m4xw311/chainsight/errors"
	"github.com/m4xw311/chainsight/llm"
	"github.com/m4xw311/chainsight/prompt"
	"github.com/m4xw311/chainsight/retriever"
)

const retrievalTemplate = `Use the following context to answer the question.

Context:
{context}

Question: {question}
Answer:`

// Retrieval answers a question with documents fetched from a
// retriever. It emits retriever-start and retriever-end around the
// query, then delegates to an inner LLMChain as a subchain.
type Retrieval struct {
	Retriever retriever.Retriever
	Combine   *LLMChain
}

// NewRetrieval builds a retrieval chain with the default
// stuff-documents prompt.
func NewRetrieval(r retriever.Retriever, model llm.Model) *Retrieval {
	return &Retrieval{
		Retriever: r,
		Combine:   NewLLMChain(model, prompt.New(retrievalTemplate)),
	}
}

func (c *Retrieval) Name() string { return "RetrievalChain" }

func (c *Retrieval) InputKeys() []string { return []string{"question"} }

func (c *Retrieval) Call(ctx context.Context, inputs map[string]any, run *Run) (map[string]any, error) {
	question, ok := inputs["question"].(string)
	if !ok {
		return nil, errors.New("missing 'question' key in retrieval chain inputs")
	}

	h := run.Handler()
	retRun := run.Child()
	h.HandleRetrieverStart(ctx, retRun.Info, c.Retriever.Name(), question)

	docs, err := c.Retriever.GetRelevantDocuments(ctx, question)
	if err != nil {
		return nil, errors.Wrapf(err, "retriever '%s' failed", c.Retriever.Name())
	}
	h.HandleRetrieverEnd(ctx, retRun.Info, docs)

	contents := make([]string, 0, len(docs))
	for _, doc := range docs {
		contents = append(contents, doc.PageContent)
	}

	outputs, err := Call(ctx, c.Combine, map[string]any{
		"context":  strings.Join(contents, "\n\n"),
		"question": question,
	}, run)
	if err != nil {
		return nil, err
	}

	key := c.Combine.OutputKey
	if key == "" {
		key = DefaultOutputKey
	}
	return map[string]any{"result": outputs[key]}, nil
}
