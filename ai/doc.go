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


// Package ai provides abstractions for the AI services used in Quarry.
//
// This package defines interfaces for text embeddings and text
// completions. The pipeline, enrichment and query packages depend on
// these abstractions rather than concrete implementations.
//
// The package is designed around three key interfaces:
//
//   - Embedder: generates vector embeddings from text
//   - Completer: generates a text completion for a prompt
//   - Provider: aggregates both for convenient initialization
//
// # Implementation Packages
//
//   - ai/openai: production implementation using OpenAI-compatible APIs
//   - ai/mock: test doubles for unit testing without external services
//
// Public constructors (openai.NewProvider, openai.NewEmbedder, ...)
// return interface types to enforce abstraction; mock constructors
// return concrete types so tests can inject behavior and assert call
// counts.
//
// # Usage Example
//
//	cfg, err := ai.ConfigFromEnv()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	provider, err := openai.NewProvider(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	vectors, err := provider.Embedder().EmbedTexts(ctx, texts)
//	answer, err := provider.Completer().Complete(ctx, prompt)
package ai
