// Copyright 2026 Quarry Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/quarryhq/quarry/ai"
	"github.com/quarryhq/quarry/cache"
	"github.com/quarryhq/quarry/chunk"
	"github.com/quarryhq/quarry/core"
	"github.com/quarryhq/quarry/enrich"
	"github.com/quarryhq/quarry/vectorstore"
)

const (
	// DefaultConcurrency is the ceiling on in-flight units at the
	// network-bound stages.
	DefaultConcurrency = 50

	// DefaultBatchSize is the number of chunks embedded per request.
	DefaultBatchSize = 50
)

// builder carries the configuration shared by every stream handle of
// one pipeline graph. Construction errors accumulate here and surface
// from Run, keeping the fluent chain unbroken.
type builder struct {
	source      Source
	concurrency int
	cache       cache.Cache
	logger      *slog.Logger
	errs        []error
}

func (b *builder) fail(err error) {
	b.errs = append(b.errs, err)
}

type docRun func(ctx context.Context, rc *runContext) <-chan Result[*core.Document]
type chunkRun func(ctx context.Context, rc *runContext) <-chan Result[*core.Chunk]

// DocStream is the document-typed half of the pipeline builder. Methods
// that consume documents live here; ThenChunk crosses into ChunkStream.
type DocStream struct {
	b   *builder
	run docRun
}

// ChunkStream is the chunk-typed half of the pipeline builder.
type ChunkStream struct {
	b   *builder
	run chunkRun
}

// FromSource starts a pipeline over the documents a source enumerates.
// Nothing runs until the terminal Run call.
func FromSource(src Source) *DocStream {
	b := &builder{
		source:      src,
		concurrency: DefaultConcurrency,
		cache:       cache.Noop{},
		logger:      slog.Default().With("component", "pipeline"),
	}
	if src == nil {
		b.fail(ErrSourceRequired)
	}

	run := func(ctx context.Context, rc *runContext) <-chan Result[*core.Document] {
		out := make(chan Result[*core.Document])
		rc.spawn(func() {
			defer close(out)
			inner := make(chan Result[*core.Document])
			rc.spawn(func() {
				defer close(inner)
				if err := src.Stream(ctx, inner); err != nil {
					rc.setFatal(err)
				}
			})
			for r := range inner {
				if !r.Failed() {
					rc.stats.loaded.Add(1)
					rc.trackDoc(r.Value.Path, r.Value.Fingerprint)
				}
				out <- r
			}
		})
		return out
	}
	return &DocStream{b: b, run: run}
}

// WithConcurrency sets the ceiling on in-flight units at the
// network-bound stages. Default is DefaultConcurrency.
func (d *DocStream) WithConcurrency(n int) *DocStream {
	if n < 1 {
		d.b.fail(fmt.Errorf("%w: %d", ErrInvalidConcurrency, n))
		return d
	}
	d.b.concurrency = n
	return d
}

// WithLogger sets a custom logger for the run.
func (d *DocStream) WithLogger(logger *slog.Logger) *DocStream {
	if logger != nil {
		d.b.logger = logger
	}
	return d
}

// FilterCached drops documents whose fingerprint the dedup cache
// already holds. The cache is fail-open: lookup trouble means the
// document is treated as unseen. Fingerprints of documents that later
// reach terminal storage are recorded into the same cache after the
// run drains.
func (d *DocStream) FilterCached(dedup cache.Cache) *DocStream {
	if dedup == nil {
		dedup = cache.Noop{}
	}
	d.b.cache = dedup

	prev := d.run
	run := func(ctx context.Context, rc *runContext) <-chan Result[*core.Document] {
		stage := StageFunc[*core.Document, *core.Document]{
			StageName: "filter_cached",
			Func: func(ctx context.Context, in <-chan Result[*core.Document], out chan<- Result[*core.Document]) error {
				for r := range in {
					if !r.Failed() && dedup.Contains(ctx, r.Value.Fingerprint) {
						rc.stats.duplicates.Add(1)
						rc.logger.Debug("skipping already indexed document", "path", r.Path)
						continue
					}
					out <- r
				}
				return nil
			},
		}
		return apply(ctx, rc, stage, prev(ctx, rc))
	}
	return &DocStream{b: d.b, run: run}
}

// SplitBy partitions the stream into two handles sharing this upstream:
// the first receives documents matching the predicate, the second the
// rest. Every unit goes to exactly one branch. Load failures are forced
// onto the first branch so they stay observable downstream. Both
// branches must be merged back before Run.
func (d *DocStream) SplitBy(pred func(*core.Document) bool) (*DocStream, *DocStream) {
	prev := d.run
	var once sync.Once
	matched := make(chan Result[*core.Document])
	rest := make(chan Result[*core.Document])

	start := func(ctx context.Context, rc *runContext) {
		once.Do(func() {
			in := prev(ctx, rc)
			rc.spawn(func() {
				defer close(matched)
				defer close(rest)
				for r := range in {
					if r.Failed() || pred(r.Value) {
						matched <- r
					} else {
						rest <- r
					}
				}
			})
		})
	}

	left := &DocStream{b: d.b, run: func(ctx context.Context, rc *runContext) <-chan Result[*core.Document] {
		start(ctx, rc)
		return matched
	}}
	right := &DocStream{b: d.b, run: func(ctx context.Context, rc *runContext) <-chan Result[*core.Document] {
		start(ctx, rc)
		return rest
	}}
	return left, right
}

// ThenChunk splits each document into chunks, crossing the stream from
// document-typed to chunk-typed. A chunking failure tags the document's
// unit; a document below the minimum chunk size simply yields nothing.
func (d *DocStream) ThenChunk(chunker chunk.Chunker) *ChunkStream {
	if chunker == nil {
		d.b.fail(errors.New("chunker required"))
		return &ChunkStream{b: d.b, run: emptyChunkRun}
	}

	prev := d.run
	run := func(ctx context.Context, rc *runContext) <-chan Result[*core.Chunk] {
		stage := StageFunc[*core.Document, *core.Chunk]{
			StageName: "chunk_" + chunker.Name(),
			Func: func(ctx context.Context, in <-chan Result[*core.Document], out chan<- Result[*core.Chunk]) error {
				for r := range in {
					if r.Failed() {
						out <- Fail[*core.Chunk](r.Path, r.Err)
						continue
					}
					chunks, err := chunker.Chunk(r.Value)
					if err != nil {
						out <- Fail[*core.Chunk](r.Path, fmt.Errorf("chunking %s: %w", r.Path, err))
						continue
					}
					rc.stats.chunks.Add(int64(len(chunks)))
					for _, c := range chunks {
						out <- Ok(r.Path, c)
					}
				}
				return nil
			},
		}
		return apply(ctx, rc, stage, prev(ctx, rc))
	}
	return &ChunkStream{b: d.b, run: run}
}

func emptyChunkRun(ctx context.Context, rc *runContext) <-chan Result[*core.Chunk] {
	out := make(chan Result[*core.Chunk])
	close(out)
	return out
}

// Then enriches each chunk on the shared worker pool. One generation
// call per chunk makes this the dominant cost of ingestion, so it is
// the stage the concurrency ceiling exists for. Output order matches
// input order within the branch; an enrichment failure tags the chunk
// and does not abort the run.
func (c *ChunkStream) Then(enricher enrich.Enricher) *ChunkStream {
	if enricher == nil {
		c.b.fail(errors.New("enricher required"))
		return c
	}

	prev := c.run
	run := func(ctx context.Context, rc *runContext) <-chan Result[*core.Chunk] {
		in := prev(ctx, rc)
		out := make(chan Result[*core.Chunk])

		// Slots are queued in arrival order and filled concurrently by
		// the pool, so results come out in order while up to pool-cap
		// generation calls are in flight.
		pending := make(chan chan Result[*core.Chunk], rc.pool.Cap())

		rc.spawn(func() {
			defer close(pending)
			for r := range in {
				slot := make(chan Result[*core.Chunk], 1)
				pending <- slot
				if r.Failed() {
					slot <- r
					continue
				}
				r := r
				if err := rc.pool.Submit(func() {
					enriched, err := enricher.Enrich(ctx, r.Value)
					if err != nil {
						slot <- Fail[*core.Chunk](r.Path, err)
						return
					}
					rc.stats.enriched.Add(1)
					slot <- Ok(r.Path, enriched)
				}); err != nil {
					slot <- Fail[*core.Chunk](r.Path, fmt.Errorf("submitting enrichment: %w", err))
				}
			}
		})
		rc.spawn(func() {
			defer close(out)
			for slot := range pending {
				out <- <-slot
			}
		})
		return out
	}
	return &ChunkStream{b: c.b, run: run}
}

// Merge fans this stream and another into one. Content is the union of
// both branches with nothing duplicated or dropped; order across
// branches is arrival order only.
func (c *ChunkStream) Merge(other *ChunkStream) *ChunkStream {
	prev := c.run
	otherRun := other.run

	run := func(ctx context.Context, rc *runContext) <-chan Result[*core.Chunk] {
		a := prev(ctx, rc)
		b := otherRun(ctx, rc)
		out := make(chan Result[*core.Chunk])

		var wg sync.WaitGroup
		forward := func(in <-chan Result[*core.Chunk]) {
			defer wg.Done()
			for r := range in {
				out <- r
			}
		}
		wg.Add(2)
		rc.spawn(func() { forward(a) })
		rc.spawn(func() { forward(b) })
		rc.spawn(func() {
			wg.Wait()
			close(out)
		})
		return out
	}
	return &ChunkStream{b: c.b, run: run}
}

// ThenInBatch buffers chunks up to size and issues one embedding call
// per batch over each chunk's embedding text. The call returns one
// vector per chunk in input order; a failed call fails every chunk in
// that batch. The final short batch flushes at stream end; there is no
// flush timeout.
func (c *ChunkStream) ThenInBatch(size int, embedder ai.Embedder) *ChunkStream {
	if size < 1 {
		c.b.fail(fmt.Errorf("%w: %d", ErrInvalidBatchSize, size))
		return c
	}
	if embedder == nil {
		c.b.fail(errors.New("embedder required"))
		return c
	}

	prev := c.run
	run := func(ctx context.Context, rc *runContext) <-chan Result[*core.Chunk] {
		stage := StageFunc[*core.Chunk, *core.Chunk]{
			StageName: "embed_batch",
			Func: func(ctx context.Context, in <-chan Result[*core.Chunk], out chan<- Result[*core.Chunk]) error {
				batch := make([]*core.Chunk, 0, size)

				flush := func() {
					if len(batch) == 0 {
						return
					}
					texts := make([]string, len(batch))
					for i, ch := range batch {
						texts[i] = ch.EmbeddingText()
					}
					vectors, err := embedder.EmbedTexts(ctx, texts)
					if err == nil && len(vectors) != len(batch) {
						err = fmt.Errorf("%w: %d texts, %d vectors", ErrBatchCardinality, len(batch), len(vectors))
					}
					if err != nil {
						for _, ch := range batch {
							out <- Fail[*core.Chunk](ch.Path, fmt.Errorf("embedding batch: %w", err))
						}
						batch = batch[:0]
						return
					}
					for i, ch := range batch {
						ch.Vector = vectors[i]
						rc.stats.embedded.Add(1)
						out <- Ok(ch.Path, ch)
					}
					batch = batch[:0]
				}

				for r := range in {
					if r.Failed() {
						out <- r
						continue
					}
					batch = append(batch, r.Value)
					if len(batch) == size {
						flush()
					}
				}
				flush()
				return nil
			},
		}
		return apply(ctx, rc, stage, prev(ctx, rc))
	}
	return &ChunkStream{b: c.b, run: run}
}

// LogErrors emits one warning per failed unit and passes everything
// through unchanged.
func (c *ChunkStream) LogErrors() *ChunkStream {
	prev := c.run
	run := func(ctx context.Context, rc *runContext) <-chan Result[*core.Chunk] {
		stage := StageFunc[*core.Chunk, *core.Chunk]{
			StageName: "log_errors",
			Func: func(ctx context.Context, in <-chan Result[*core.Chunk], out chan<- Result[*core.Chunk]) error {
				for r := range in {
					if r.Failed() {
						rc.logger.Warn("unit failed", "path", r.Path, "err", r.Err)
					}
					out <- r
				}
				return nil
			},
		}
		return apply(ctx, rc, stage, prev(ctx, rc))
	}
	return &ChunkStream{b: c.b, run: run}
}

// FilterErrors drops failed units so they never reach storage. Dropped
// units are terminal: they are counted as failed and poison their
// document's dedup record, so the next run retries the file.
func (c *ChunkStream) FilterErrors() *ChunkStream {
	prev := c.run
	run := func(ctx context.Context, rc *runContext) <-chan Result[*core.Chunk] {
		stage := StageFunc[*core.Chunk, *core.Chunk]{
			StageName: "filter_errors",
			Func: func(ctx context.Context, in <-chan Result[*core.Chunk], out chan<- Result[*core.Chunk]) error {
				for r := range in {
					if r.Failed() {
						rc.stats.failed.Add(1)
						rc.markFailed(r.Path)
						continue
					}
					out <- r
				}
				return nil
			},
		}
		return apply(ctx, rc, stage, prev(ctx, rc))
	}
	return &ChunkStream{b: c.b, run: run}
}

// ThenStore upserts one record per embedded chunk. Identifiers derive
// from path and offset, so re-running over unchanged files overwrites
// instead of duplicating. A failed upsert tags only its own unit.
func (c *ChunkStream) ThenStore(store vectorstore.Store) *ChunkStream {
	if store == nil {
		c.b.fail(errors.New("store required"))
		return c
	}

	prev := c.run
	run := func(ctx context.Context, rc *runContext) <-chan Result[*core.Chunk] {
		stage := StageFunc[*core.Chunk, *core.Chunk]{
			StageName: "store",
			Func: func(ctx context.Context, in <-chan Result[*core.Chunk], out chan<- Result[*core.Chunk]) error {
				for r := range in {
					if r.Failed() {
						out <- r
						continue
					}
					if err := store.Upsert(ctx, []*core.StoredRecord{r.Value.Record()}); err != nil {
						out <- Fail[*core.Chunk](r.Path, fmt.Errorf("storing %s: %w", r.Value.ID(), err))
						continue
					}
					rc.stats.stored.Add(1)
					rc.trackStored(r.Path)
					out <- r
				}
				return nil
			},
		}
		return apply(ctx, rc, stage, prev(ctx, rc))
	}
	return &ChunkStream{b: c.b, run: run}
}

// Run executes the pipeline graph to completion: every document reaches
// a terminal state (stored, duplicate, failed or dropped as undersized)
// before Run returns. Fingerprints of fully stored documents are then
// recorded into the dedup cache. The returned error reflects
// construction mistakes or an unrecoverable failure such as source
// enumeration; per-unit errors only show up in the stats.
func (c *ChunkStream) Run(ctx context.Context) (*RunStats, error) {
	if len(c.b.errs) > 0 {
		return nil, errors.Join(c.b.errs...)
	}

	pool, err := ants.NewPool(c.b.concurrency)
	if err != nil {
		return nil, fmt.Errorf("creating worker pool: %w", err)
	}
	defer pool.Release()

	rc := newRunContext(pool, c.b.cache, c.b.logger)

	out := c.run(ctx, rc)
	for r := range out {
		if r.Failed() {
			rc.stats.failed.Add(1)
			rc.markFailed(r.Path)
			rc.logger.Warn("unit reached end of pipeline with error", "path", r.Path, "err", r.Err)
		}
	}
	rc.wg.Wait()

	rc.recordFingerprints(ctx)

	rc.logger.Info("run complete",
		"loaded", rc.stats.Loaded(),
		"duplicates", rc.stats.Duplicates(),
		"chunks", rc.stats.Chunks(),
		"stored", rc.stats.Stored(),
		"failed", rc.stats.Failed())
	return rc.stats, rc.fatalErr()
}
