package mock

import (
	"context"
	"strings"
	"sync"
)

// Completer is a test double for ai.Completer.
// It allows custom behavior injection via function fields.
type Completer struct {
	// CompleteFunc is called by Complete if set.
	// If nil, responses are served from Responses or echo the prompt.
	CompleteFunc func(ctx context.Context, prompt string) (string, error)

	// Responses maps a prompt substring to a canned response. The first
	// matching entry wins; iteration order is unspecified, so keep the
	// substrings disjoint in tests.
	Responses map[string]string

	mu        sync.Mutex
	callCount int
	prompts   []string
}

// NewCompleter creates a mock completer.
// Note: returns the concrete type to allow test assertions.
func NewCompleter() *Completer {
	return &Completer{Responses: make(map[string]string)}
}

// Complete returns an injected, canned or echoed response.
func (m *Completer) Complete(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.callCount++
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()

	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, prompt)
	}

	for substr, response := range m.Responses {
		if substr != "" && strings.Contains(prompt, substr) {
			return response, nil
		}
	}

	return "mock completion", nil
}

// CallCount returns the number of Complete calls.
func (m *Completer) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Prompts returns every prompt passed to Complete, in call order.
func (m *Completer) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.prompts))
	copy(out, m.prompts)
	return out
}

// Reset clears recorded calls and injected behavior.
func (m *Completer) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.prompts = nil
	m.CompleteFunc = nil
	m.Responses = make(map[string]string)
}
