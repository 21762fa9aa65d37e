package retriever

import (
	"context"
	"sort"
	"strings"

	"github.com/m4xw311/chainsight/schema"
)

// Keyword retrieves from an in-memory corpus by term overlap: a
// document scores one point per distinct query term it contains.
// Ties keep corpus order, so results are deterministic.
type Keyword struct {
	Corpus []schema.Document
	// TopK caps the number of results; zero means all matches.
	TopK int
}

func (k *Keyword) Name() string { return "KeywordRetriever" }

func (k *Keyword) GetRelevantDocuments(ctx context.Context, query string) ([]schema.Document, error) {
	terms := queryTerms(query)

	type scored struct {
		doc   schema.Document
		score int
		pos   int
	}
	var matches []scored
	for i, doc := range k.Corpus {
		content := strings.ToLower(doc.PageContent)
		score := 0
		for term := range terms {
			if strings.Contains(content, term) {
				score++
			}
		}
		if score > 0 {
			matches = append(matches, scored{doc: doc, score: score, pos: i})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].score != matches[j].score {
			return matches[i].score > matches[j].score
		}
		return matches[i].pos < matches[j].pos
	})

	if k.TopK > 0 && len(matches) > k.TopK {
		matches = matches[:k.TopK]
	}

	docs := make([]schema.Document, 0, len(matches))
	for _, m := range matches {
		docs = append(docs, m.doc)
	}
	return docs, nil
}

// queryTerms lowercases and splits the query, dropping single-letter
// fragments that would match almost anything.
func queryTerms(query string) map[string]bool {
	terms := map[string]bool{}
	for _, f := range strings.Fields(strings.ToLower(query)) {
		f = strings.Trim(f, ".,;:!?\"'")
		if len(f) > 1 {
			terms[f] = true
		}
	}
	return terms
}
