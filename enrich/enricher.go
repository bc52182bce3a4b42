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


package enrich

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/quarryhq/quarry/ai"
	"github.com/quarryhq/quarry/core"
)

// MetadataKey is the chunk metadata key the generated question/answer
// pairs are stored under. Embedding text includes metadata, so enriched
// chunks become retrievable by the questions users would actually ask.
const MetadataKey = "questions_and_answers"

// DefaultPairs is the number of question/answer pairs generated per chunk.
const DefaultPairs = 5

// Enricher augments a chunk with derived metadata. Implementations must
// never alter the chunk text; only the metadata map may change.
type Enricher interface {
	Enrich(ctx context.Context, chunk *core.Chunk) (*core.Chunk, error)
	Name() string
}

// QA generates question/answer pairs for a chunk with a single completion
// call and attaches them as metadata. Use NewCodeQA for source code
// chunks and NewTextQA for prose.
type QA struct {
	completer ai.Completer
	pairs     int
	buildFunc func(pairs int, text string) string
	name      string
	logger    *slog.Logger
}

var _ Enricher = (*QA)(nil)

// Option configures a QA enricher.
type Option func(*QA) error

// WithPairs sets how many question/answer pairs are requested per chunk.
// Default is DefaultPairs.
func WithPairs(n int) Option {
	return func(q *QA) error {
		if n < 1 {
			return fmt.Errorf("%w: pairs must be at least 1, got %d", ErrInvalidPairCount, n)
		}
		q.pairs = n
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(q *QA) error {
		if logger == nil {
			logger = slog.Default()
		}
		q.logger = logger.With("enricher", q.name)
		return nil
	}
}

// NewCodeQA creates an enricher that generates Q/A pairs for code chunks.
func NewCodeQA(completer ai.Completer, opts ...Option) (*QA, error) {
	return newQA(completer, "code_qa", buildCodeQAPrompt, opts)
}

// NewTextQA creates an enricher that generates Q/A pairs for prose chunks.
func NewTextQA(completer ai.Completer, opts ...Option) (*QA, error) {
	return newQA(completer, "text_qa", buildTextQAPrompt, opts)
}

func newQA(completer ai.Completer, name string, build func(int, string) string, opts []Option) (*QA, error) {
	if completer == nil {
		return nil, ErrCompleterRequired
	}

	q := &QA{
		completer: completer,
		pairs:     DefaultPairs,
		buildFunc: build,
		name:      name,
		logger:    slog.Default().With("enricher", name),
	}
	for _, opt := range opts {
		if err := opt(q); err != nil {
			return nil, err
		}
	}
	return q, nil
}

// Name returns the enricher name.
func (q *QA) Name() string { return q.name }

// Enrich issues one completion for the chunk and stores the resulting
// pairs under MetadataKey. The chunk text is returned unmodified; an
// empty completion leaves the metadata untouched.
func (q *QA) Enrich(ctx context.Context, chunk *core.Chunk) (*core.Chunk, error) {
	prompt := q.buildFunc(q.pairs, chunk.Text)

	answer, err := q.completer.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generating %s for %s: %w", MetadataKey, chunk.ID(), err)
	}

	answer = strings.TrimSpace(answer)
	if answer == "" {
		q.logger.Warn("empty completion, chunk left unenriched", "path", chunk.Path, "offset", chunk.Offset)
		return chunk, nil
	}

	chunk.SetMeta(MetadataKey, answer)
	q.logger.Debug("enriched chunk", "path", chunk.Path, "offset", chunk.Offset)
	return chunk, nil
}
