package pipeline

import "sync/atomic"

// RunStats counts what happened during one ingestion run. All counters
// are updated atomically; read them after Run returns.
type RunStats struct {
	loaded     atomic.Int64
	duplicates atomic.Int64
	chunks     atomic.Int64
	enriched   atomic.Int64
	embedded   atomic.Int64
	stored     atomic.Int64
	failed     atomic.Int64
}

// Loaded is the number of documents read successfully from the source.
func (s *RunStats) Loaded() int64 { return s.loaded.Load() }

// Duplicates is the number of documents skipped by the dedup cache.
func (s *RunStats) Duplicates() int64 { return s.duplicates.Load() }

// Chunks is the number of chunks emitted by the chunking stages.
func (s *RunStats) Chunks() int64 { return s.chunks.Load() }

// Enriched is the number of chunks that received generated metadata.
func (s *RunStats) Enriched() int64 { return s.enriched.Load() }

// Embedded is the number of chunks that received an embedding vector.
func (s *RunStats) Embedded() int64 { return s.embedded.Load() }

// Stored is the number of records upserted into the vector store.
func (s *RunStats) Stored() int64 { return s.stored.Load() }

// Failed is the number of units that reached a terminal error.
func (s *RunStats) Failed() int64 { return s.failed.Load() }
