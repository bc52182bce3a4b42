// Package mock provides test doubles for the ai interfaces.
//
// The mocks default to deterministic behavior (hash-derived embeddings,
// echo completions) and allow behavior injection via function fields.
// Constructors return concrete types so tests can assert call counts.
package mock
