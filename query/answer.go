package query

import (
	"context"
	"fmt"
	"strings"

	"github.com/quarryhq/quarry/ai"
	"github.com/quarryhq/quarry/core"
)

// Answerer produces the grounded answer. The prompt is built from
// exactly the retrieved context plus the original question text, and
// instructs the model not to use outside knowledge.
type Answerer struct {
	completer ai.Completer
}

// NewAnswerer creates an answerer over the completion model.
func NewAnswerer(completer ai.Completer) (*Answerer, error) {
	if completer == nil {
		return nil, ErrCompleterRequired
	}
	return &Answerer{completer: completer}, nil
}

// Answer attaches the completion for the grounding prompt.
func (a *Answerer) Answer(ctx context.Context, q *core.Question) error {
	answer, err := a.completer.Complete(ctx, buildAnswerPrompt(q.Context(), q.Original))
	if err != nil {
		return fmt.Errorf("answering question: %w", err)
	}
	q.Answer = strings.TrimSpace(answer)
	return q.Advance(core.StateAnswered)
}
