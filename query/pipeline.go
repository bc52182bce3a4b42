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
	"log/slog"

	"github.com/quarryhq/quarry/core"
)

// Pipeline drives a question through transform, retrieve and answer,
// with an evaluator tapping every state it completes. Build it fluently;
// the stage order is fixed, only the transform chain varies.
type Pipeline struct {
	transformers []Transformer
	retriever    *Retriever
	answerer     *Answerer
	evaluator    Evaluator
	logger       *slog.Logger
}

// New creates an empty query pipeline with a Noop evaluator.
func New() *Pipeline {
	return &Pipeline{
		evaluator: Noop{},
		logger:    slog.Default().With("component", "query"),
	}
}

// EvaluateWith installs the evaluator tap.
func (p *Pipeline) EvaluateWith(ev Evaluator) *Pipeline {
	if ev != nil {
		p.evaluator = ev
	}
	return p
}

// ThenTransform appends a transformer. Registration order is execution
// order.
func (p *Pipeline) ThenTransform(t Transformer) *Pipeline {
	if t != nil {
		p.transformers = append(p.transformers, t)
	}
	return p
}

// ThenRetrieve sets the retrieval stage.
func (p *Pipeline) ThenRetrieve(r *Retriever) *Pipeline {
	p.retriever = r
	return p
}

// ThenAnswer sets the answer stage.
func (p *Pipeline) ThenAnswer(a *Answerer) *Pipeline {
	p.answerer = a
	return p
}

// Query runs one question to its terminal state. A failure at any
// transition is the question's terminal error: the question is marked
// failed, the evaluator is notified, and the error is returned. There
// are no retries at this layer.
func (p *Pipeline) Query(ctx context.Context, text string) (*core.Question, error) {
	q := core.NewQuestion(text)

	if text == "" {
		return p.failed(q, ErrEmptyQuestion)
	}
	if p.retriever == nil {
		return p.failed(q, ErrRetrieverRequired)
	}
	if p.answerer == nil {
		return p.failed(q, ErrAnswererRequired)
	}

	p.evaluator.QueryStarted(q)

	for _, t := range p.transformers {
		if err := t.Transform(ctx, q); err != nil {
			return p.failed(q, err)
		}
		p.evaluator.QueryTransformed(q)
	}

	if err := p.retriever.Retrieve(ctx, q); err != nil {
		return p.failed(q, err)
	}
	p.evaluator.ContextRetrieved(q)

	if err := p.answerer.Answer(ctx, q); err != nil {
		return p.failed(q, err)
	}
	p.evaluator.QueryAnswered(q)

	p.logger.Debug("question answered", "question", q.Original, "hits", len(q.Hits))
	return q, nil
}

func (p *Pipeline) failed(q *core.Question, err error) (*core.Question, error) {
	q.Fail(err)
	p.evaluator.QueryFailed(q, err)
	p.logger.Warn("question failed", "question", q.Original, "err", err)
	return q, err
}

// QueryAll runs every question, isolating failures: one question's
// error never stops its siblings. The returned slice has one entry per
// input question in order; inspect Question.Err for per-question
// failures. Context cancellation aborts the batch.
func (p *Pipeline) QueryAll(ctx context.Context, questions []string) ([]*core.Question, error) {
	out := make([]*core.Question, 0, len(questions))
	for _, text := range questions {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		q, err := p.Query(ctx, text)
		if err != nil {
			p.logger.Warn("skipping failed question", "question", text, "err", err)
		}
		out = append(out, q)
	}
	return out, nil
}
