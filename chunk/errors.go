package chunk

import "errors"

var (
	// ErrMinSizeTooSmall is returned when the configured minimum chunk size is below 1.
	ErrMinSizeTooSmall = errors.New("minimum chunk size must be at least 1")

	// ErrInvalidSizeRange is returned when the maximum chunk size is below the minimum.
	ErrInvalidSizeRange = errors.New("maximum chunk size must not be below the minimum")

	// ErrUnknownLanguage is returned when a language name cannot be resolved.
	ErrUnknownLanguage = errors.New("unknown language")
)
