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


package chunk

import (
	"github.com/quarryhq/quarry/core"
)

// Chunker splits a document's content into bounded-size chunks.
type Chunker interface {
	// Chunk splits the document into zero or more chunks. Every emitted
	// chunk satisfies Config.MinSize <= len(Text) <= Config.MaxSize;
	// content shorter than MinSize yields zero chunks. Chunks are
	// non-overlapping, in source order, and cover the content gaplessly
	// except for dropped sub-minimum trailing remainders.
	Chunk(doc *core.Document) ([]*core.Chunk, error)

	// Name returns the chunker's name for logging.
	Name() string
}

// Config holds the size range shared by all chunkers.
type Config struct {
	MinSize int // chunks shorter than this are dropped, never emitted
	MaxSize int // hard upper bound per chunk
}

// DefaultConfig returns the default 50..1024 byte chunk range.
func DefaultConfig() Config {
	return Config{MinSize: 50, MaxSize: 1024}
}

// Validate checks that the range is usable.
func (c Config) Validate() error {
	if c.MinSize < 1 {
		return ErrMinSizeTooSmall
	}
	if c.MaxSize < c.MinSize {
		return ErrInvalidSizeRange
	}
	return nil
}
