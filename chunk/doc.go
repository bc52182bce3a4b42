// Package chunk splits documents into bounded-size, content-coherent
// fragments for embedding and storage.
//
// Two chunkers share one contract: Markdown is block-aware (goldmark
// AST), Code is syntax-aware (top-level declaration boundaries). Both
// guarantee that emitted chunks are non-overlapping, cover the source
// in order, and respect the configured size range; sub-minimum
// trailing content is dropped rather than merged.
package chunk
