package chain

import (
	"context"
	"strings"
	"testing"

	"github.com/m4xw311/chainsight/errors"
	"github.com/m4xw311/chainsight/llm"
	"github.com/m4xw311/chainsight/retriever"
	"github.com/m4xw311/chainsight/schema"
)

type stubRetriever struct {
	docs []schema.Document
	err  error

	lastQuery string
}

func (s *stubRetriever) Name() string { return "StubRetriever" }

func (s *stubRetriever) GetRelevantDocuments(ctx context.Context, query string) ([]schema.Document, error) {
	s.lastQuery = query
	return s.docs, s.err
}

func TestRetrievalChain(t *testing.T) {
	rec := &recorder{}
	ret := &stubRetriever{docs: []schema.Document{
		{PageContent: "gouda pairs with stout"},
		{PageContent: "blue cheese with honey"},
	}}
	model := &llm.Mock{Responses: []string{"stout beer"}}

	c := NewRetrieval(ret, model)
	outputs, err := Execute(context.Background(), c, map[string]any{"question": "what pairs with gouda?"}, rec)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if outputs["result"] != "stout beer" {
		t.Errorf("Expected result 'stout beer', got %v", outputs["result"])
	}
	if ret.lastQuery != "what pairs with gouda?" {
		t.Errorf("Expected question forwarded to retriever, got %q", ret.lastQuery)
	}

	assertKinds(t, rec.kinds(), []string{
		"chain-start",
		"retriever-start", "retriever-end",
		"chain-start", "text", "llm-start", "llm-end", "chain-end",
		"chain-end",
	})

	outer := rec.events[0].run
	retRun := rec.events[1].run
	if retRun.ParentID != outer.ID {
		t.Error("Expected retriever run to be a child of the chain run")
	}
	if rec.events[2].run.ID != retRun.ID {
		t.Error("Expected retriever start and end to share a run")
	}
}

func TestRetrievalChainStuffsDocuments(t *testing.T) {
	ret := &stubRetriever{docs: []schema.Document{
		{PageContent: "doc one"},
		{PageContent: "doc two"},
	}}
	model := &llm.Mock{}

	c := NewRetrieval(ret, model)
	outputs, err := Execute(context.Background(), c, map[string]any{"question": "q"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// The mock parrots the prompt, so the result shows what the model saw.
	result, _ := outputs["result"].(string)
	if !strings.Contains(result, "doc one\n\ndoc two") {
		t.Errorf("Expected documents joined into the prompt context, got: %q", result)
	}
	if !strings.Contains(result, "Question: q") {
		t.Errorf("Expected question in the prompt, got: %q", result)
	}
}

func TestRetrievalChainRetrieverError(t *testing.T) {
	rec := &recorder{}
	ret := &stubRetriever{err: errors.New("index offline")}

	c := NewRetrieval(ret, &llm.Mock{})
	_, err := Execute(context.Background(), c, map[string]any{"question": "q"}, rec)
	if err == nil {
		t.Fatal("Expected error from failing retriever")
	}
	if !strings.Contains(err.Error(), "index offline") {
		t.Errorf("Expected wrapped retriever error, got: %v", err)
	}

	assertKinds(t, rec.kinds(), []string{"chain-start", "retriever-start", "chain-error"})
}

func TestRetrievalChainWithKeywordRetriever(t *testing.T) {
	corpus := []schema.Document{
		{PageContent: "Gouda is a mild Dutch cheese."},
		{PageContent: "Sourdough bread uses a starter culture."},
	}

	c := NewRetrieval(&retriever.Keyword{Corpus: corpus, TopK: 1}, &llm.Mock{})
	outputs, err := Execute(context.Background(), c, map[string]any{"question": "tell me about gouda cheese"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	result, _ := outputs["result"].(string)
	if !strings.Contains(result, "Gouda is a mild Dutch cheese.") {
		t.Errorf("Expected the matching document in the context, got: %q", result)
	}
	if strings.Contains(result, "Sourdough") {
		t.Errorf("Expected only the top document in the context, got: %q", result)
	}
}
