// Package pipeline is the typed ingestion engine: a fluent builder over
// a channel graph that turns raw files into enriched, embedded records
// in a vector store.
//
// Streams are typed (DocStream carries documents, ChunkStream carries
// chunks; ThenChunk is the crossing point) so stage compatibility is
// checked at compile time. Units flow as Result values: a failure is
// tagged with its origin path and travels the stream instead of
// aborting the run. Nothing executes until Run, which drives every
// unit to a terminal state and reports RunStats.
package pipeline
