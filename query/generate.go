package query

import (
	"context"
	"fmt"
	"strings"

	"github.com/quarryhq/quarry/ai"
)

// GenerateQuestions produces n corpus-grounded evaluation questions.
// It first queries the pipeline for a project description so the
// questions are grounded in what is actually indexed, then asks the
// completion model for the question list, one per line.
func GenerateQuestions(ctx context.Context, p *Pipeline, completer ai.Completer, n int, subject string) ([]string, error) {
	if completer == nil {
		return nil, ErrCompleterRequired
	}
	if n < 1 {
		return nil, fmt.Errorf("question count must be positive, got %d", n)
	}

	described, err := p.Query(ctx, fmt.Sprintf(
		"What is the %s project about? Provide an elaborate answer with examples.", subject))
	if err != nil {
		return nil, fmt.Errorf("describing project: %w", err)
	}

	raw, err := completer.Complete(ctx, buildGenerateQuestionsPrompt(n, described.Answer))
	if err != nil {
		return nil, fmt.Errorf("generating questions: %w", err)
	}

	var questions []string
	for _, line := range strings.Split(raw, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			questions = append(questions, line)
		}
	}
	if len(questions) > n {
		questions = questions[:n]
	}
	return questions, nil
}
