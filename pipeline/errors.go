package pipeline

import "errors"

var (
	// ErrRootRequired is returned when a file source is created without
	// a root directory.
	ErrRootRequired = errors.New("source root required")

	// ErrExtensionsRequired is returned when a file source is created
	// with an empty extension filter.
	ErrExtensionsRequired = errors.New("at least one extension required")

	// ErrSourceRequired is returned when a pipeline is built without a
	// document source.
	ErrSourceRequired = errors.New("source required")

	// ErrUnreadableFile tags a document that could not be read. The unit
	// travels the pipeline as an error result instead of vanishing.
	ErrUnreadableFile = errors.New("unreadable file")

	// ErrBatchCardinality is returned when an embedding call yields a
	// different number of vectors than texts submitted.
	ErrBatchCardinality = errors.New("embedding batch cardinality mismatch")

	// ErrInvalidBatchSize is returned when a batch stage is configured
	// with a non-positive batch size.
	ErrInvalidBatchSize = errors.New("batch size must be positive")

	// ErrInvalidConcurrency is returned when the in-flight ceiling is
	// not positive.
	ErrInvalidConcurrency = errors.New("concurrency must be positive")
)
