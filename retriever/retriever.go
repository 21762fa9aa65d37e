// Package retriever fetches documents relevant to a query.
package retriever

import (
	"context"

	"github.com/m4xw311/chainsight/schema"
)

// Retriever returns documents relevant to a query, most relevant
// first.
type Retriever interface {
	// Name identifies the retriever kind in retriever-start events.
	Name() string
	GetRelevantDocuments(ctx context.Context, query string) ([]schema.Document, error)
}
