package enrich

import "errors"

var (
	// ErrCompleterRequired is returned when a QA enricher is created
	// without a completion model.
	ErrCompleterRequired = errors.New("completer required")

	// ErrInvalidPairCount is returned when the requested number of
	// question/answer pairs is not positive.
	ErrInvalidPairCount = errors.New("invalid pair count")
)
