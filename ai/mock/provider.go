package mock

import (
	"github.com/quarryhq/quarry/ai"
)

// Provider is a test double for ai.Provider aggregating the mock
// embedder and completer.
type Provider struct {
	embedder  *Embedder
	completer *Completer
}

// NewProvider creates a provider backed by fresh mocks.
func NewProvider() *Provider {
	return &Provider{
		embedder:  NewEmbedder(),
		completer: NewCompleter(),
	}
}

// Embedder returns the embedding service as the ai interface.
func (p *Provider) Embedder() ai.Embedder {
	return p.embedder
}

// Completer returns the completion service as the ai interface.
func (p *Provider) Completer() ai.Completer {
	return p.completer
}

// MockEmbedder returns the concrete mock for test assertions.
func (p *Provider) MockEmbedder() *Embedder {
	return p.embedder
}

// MockCompleter returns the concrete mock for test assertions.
func (p *Provider) MockCompleter() *Completer {
	return p.completer
}

// Close is a no-op.
func (p *Provider) Close() error {
	return nil
}
