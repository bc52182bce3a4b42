package query

import "errors"

var (
	// ErrCompleterRequired is returned when a stage needing a completion
	// model is created without one.
	ErrCompleterRequired = errors.New("completer required")

	// ErrEmbedderRequired is returned when the embedding transform is
	// created without an embedder.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrStoreRequired is returned when a retriever is created without
	// a vector store.
	ErrStoreRequired = errors.New("vector store required")

	// ErrRetrieverRequired is returned when a pipeline runs without a
	// retrieval stage.
	ErrRetrieverRequired = errors.New("retriever required")

	// ErrAnswererRequired is returned when a pipeline runs without an
	// answer stage.
	ErrAnswererRequired = errors.New("answerer required")

	// ErrNoQueryEmbedding is returned when retrieval runs before the
	// embedding transform attached a query vector.
	ErrNoQueryEmbedding = errors.New("question has no embedding, add the embed transform before retrieval")

	// ErrEmptyQuestion is returned for a blank question.
	ErrEmptyQuestion = errors.New("empty question")
)
