package query

import (
	"context"
	"fmt"

	"github.com/quarryhq/quarry/core"
	"github.com/quarryhq/quarry/vectorstore"
)

// DefaultTopK is the number of records retrieved per question.
const DefaultTopK = 20

// Retriever attaches similarity-search context to a question.
type Retriever struct {
	store vectorstore.Store
	topK  int
}

// NewRetriever creates a retriever over the store. topK < 1 selects
// DefaultTopK.
func NewRetriever(store vectorstore.Store, topK int) (*Retriever, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if topK < 1 {
		topK = DefaultTopK
	}
	return &Retriever{store: store, topK: topK}, nil
}

// Retrieve runs the similarity search with the question's embedding and
// attaches the scored hits. The embedding transform must have run first.
func (r *Retriever) Retrieve(ctx context.Context, q *core.Question) error {
	if len(q.Embedding) == 0 {
		return ErrNoQueryEmbedding
	}
	hits, err := r.store.Search(ctx, q.Embedding, r.topK)
	if err != nil {
		return fmt.Errorf("retrieving context: %w", err)
	}
	q.Hits = hits
	return q.Advance(core.StateRetrieved)
}
