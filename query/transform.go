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


package query

import (
	"context"
	"fmt"
	"strings"

	"github.com/quarryhq/quarry/ai"
	"github.com/quarryhq/quarry/core"
)

// DefaultSubquestions is how many sub-questions the expansion transform
// asks for.
const DefaultSubquestions = 5

// Transformer mutates a question before retrieval. Transformers run
// strictly in registration order; each may depend on the previous one's
// output. The Original text is never modified.
type Transformer interface {
	Transform(ctx context.Context, q *core.Question) error
	Name() string
}

// Subquestions expands the question with generated sub-questions to
// improve retrieval recall. The expansion is appended to the working
// text; the original question stays untouched for answering.
type Subquestions struct {
	completer ai.Completer
	count     int
}

var _ Transformer = (*Subquestions)(nil)

// NewSubquestions creates the sub-question expansion transform.
func NewSubquestions(completer ai.Completer) (*Subquestions, error) {
	if completer == nil {
		return nil, ErrCompleterRequired
	}
	return &Subquestions{completer: completer, count: DefaultSubquestions}, nil
}

// Name returns the transformer name.
func (s *Subquestions) Name() string { return "subquestions" }

// Transform appends generated sub-questions to the question text.
func (s *Subquestions) Transform(ctx context.Context, q *core.Question) error {
	expansion, err := s.completer.Complete(ctx, buildSubquestionsPrompt(s.count, q.Original))
	if err != nil {
		return fmt.Errorf("generating subquestions: %w", err)
	}
	if expansion = strings.TrimSpace(expansion); expansion != "" {
		q.Text = q.Text + "\n" + expansion
	}
	return q.Advance(core.StateTransformed)
}

// Embed attaches the query embedding, computed over the transformed
// question text so earlier expansions affect retrieval.
type Embed struct {
	embedder ai.Embedder
}

var _ Transformer = (*Embed)(nil)

// NewEmbed creates the query embedding transform.
func NewEmbed(embedder ai.Embedder) (*Embed, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	return &Embed{embedder: embedder}, nil
}

// Name returns the transformer name.
func (e *Embed) Name() string { return "embed" }

// Transform computes and attaches the query vector.
func (e *Embed) Transform(ctx context.Context, q *core.Question) error {
	vector, err := e.embedder.EmbedText(ctx, q.Text)
	if err != nil {
		return fmt.Errorf("embedding query: %w", err)
	}
	q.Embedding = vector
	return q.Advance(core.StateTransformed)
}
