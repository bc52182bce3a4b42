package pipeline

import (
	"context"
	"log/slog"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/quarryhq/quarry/cache"
	"github.com/quarryhq/quarry/core"
)

// Stage is a typed transform over a stream of results. In and Out fix
// the unit types at compile time, so composing incompatible stages does
// not build. A stage consumes in until it closes and sends downstream
// units on out; it must not close out (the composer owns channel
// lifecycle). A returned error is fatal to the whole run.
type Stage[In, Out any] interface {
	Run(ctx context.Context, in <-chan Result[In], out chan<- Result[Out]) error
	Name() string
}

// StageFunc adapts a function to the Stage interface.
type StageFunc[In, Out any] struct {
	Func      func(ctx context.Context, in <-chan Result[In], out chan<- Result[Out]) error
	StageName string
}

func (s StageFunc[In, Out]) Run(ctx context.Context, in <-chan Result[In], out chan<- Result[Out]) error {
	return s.Func(ctx, in, out)
}

func (s StageFunc[In, Out]) Name() string { return s.StageName }

// apply connects a stage to its upstream channel and returns its output
// channel. The stage body runs on its own goroutine tracked by the run
// context; the output is closed when the stage returns.
func apply[In, Out any](ctx context.Context, rc *runContext, stage Stage[In, Out], in <-chan Result[In]) <-chan Result[Out] {
	out := make(chan Result[Out])
	rc.spawn(func() {
		defer close(out)
		if err := stage.Run(ctx, in, out); err != nil {
			rc.logger.Error("stage failed", "stage", stage.Name(), "err", err)
			rc.setFatal(err)
		}
	})
	return out
}

// docProgress tracks one document's fate across the run so its
// fingerprint is recorded only after terminal storage succeeded.
type docProgress struct {
	fingerprint core.Fingerprint
	stored      int
	failed      bool
}

// runContext is the explicit per-run state shared by every stage: the
// worker pool bounding in-flight network calls, the stat counters, the
// dedup bookkeeping, and the fatal-error slot. It is created by Run and
// captured by each stage closure; there is no ambient global state.
type runContext struct {
	pool   *ants.Pool
	stats  *RunStats
	cache  cache.Cache
	logger *slog.Logger

	wg sync.WaitGroup

	mu      sync.Mutex
	fatal   error
	tracked map[string]*docProgress
}

func newRunContext(pool *ants.Pool, dedup cache.Cache, logger *slog.Logger) *runContext {
	return &runContext{
		pool:    pool,
		stats:   &RunStats{},
		cache:   dedup,
		logger:  logger,
		tracked: make(map[string]*docProgress),
	}
}

// spawn runs fn on a tracked goroutine. Run waits for all of them
// before returning.
func (rc *runContext) spawn(fn func()) {
	rc.wg.Add(1)
	go func() {
		defer rc.wg.Done()
		fn()
	}()
}

// setFatal records an unrecoverable run failure. The first one wins.
func (rc *runContext) setFatal(err error) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	if rc.fatal == nil {
		rc.fatal = err
	}
}

func (rc *runContext) fatalErr() error {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return rc.fatal
}

// trackDoc registers a loaded document for dedup recording.
func (rc *runContext) trackDoc(path string, fp core.Fingerprint) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.tracked[path] = &docProgress{fingerprint: fp}
}

// trackStored counts one stored chunk against the document.
func (rc *runContext) trackStored(path string) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	if p, ok := rc.tracked[path]; ok {
		p.stored++
	}
}

// markFailed poisons the document: its fingerprint will not be recorded,
// so the next run retries it.
func (rc *runContext) markFailed(path string) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	if p, ok := rc.tracked[path]; ok {
		p.failed = true
	}
}

// recordFingerprints inserts the fingerprint of every document whose
// chunks all reached storage (at least one stored, none failed). Called
// once, after the stream has drained.
func (rc *runContext) recordFingerprints(ctx context.Context) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	for path, p := range rc.tracked {
		if p.failed || p.stored == 0 {
			continue
		}
		if err := rc.cache.Insert(ctx, p.fingerprint, cache.NewEntry(path, p.stored)); err != nil {
			rc.logger.Warn("failed to record fingerprint", "path", path, "err", err)
		}
	}
}
