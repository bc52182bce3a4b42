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


package cache

import (
	"context"
	"log/slog"

	"github.com/quarryhq/quarry/core"
)

// Cache is the dedup cache contract used by the ingestion pipeline.
// Implementations must be thread-safe and support concurrent access.
type Cache interface {
	// Contains reports whether the fingerprint was recorded by a prior
	// run. Lookup failures degrade to false (fail-open) and are logged,
	// never returned.
	Contains(ctx context.Context, fp core.Fingerprint) bool

	// Insert records a fingerprint together with its entry metadata.
	Insert(ctx context.Context, fp core.Fingerprint, entry Entry) error

	// Close closes the backing store and releases resources.
	Close() error
}

// Noop is a Cache that remembers nothing: every document is unseen and
// inserts are discarded. Used when no cache is configured or the
// configured store cannot be opened.
type Noop struct{}

var _ Cache = Noop{}

// Contains always returns false.
func (Noop) Contains(context.Context, core.Fingerprint) bool { return false }

// Insert discards the entry.
func (Noop) Insert(context.Context, core.Fingerprint, Entry) error { return nil }

// Close is a no-op.
func (Noop) Close() error { return nil }

// Open opens the badger-backed cache at path, failing open: when the
// store cannot be opened the error is logged as a warning and a Noop
// cache is returned, so the run proceeds treating every document as
// unseen. An empty path yields a Noop cache silently.
func Open(path string, logger *slog.Logger) Cache {
	if logger == nil {
		logger = slog.Default()
	}
	if path == "" {
		return Noop{}
	}

	c, err := OpenBadger(path, false)
	if err != nil {
		logger.Warn("dedup cache unavailable, treating every document as unseen", "path", path, "err", err)
		return Noop{}
	}
	return c
}
