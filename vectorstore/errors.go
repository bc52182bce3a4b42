package vectorstore

import "errors"

var (
	// ErrMissingVector is returned when a record arrives at the store
	// without an embedding.
	ErrMissingVector = errors.New("record has no embedding vector")

	// ErrInvalidTopK is returned when a search requests a non-positive
	// number of results.
	ErrInvalidTopK = errors.New("topK must be positive")
)
