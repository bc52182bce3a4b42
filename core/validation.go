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


package core

import "fmt"

// ValidateChunk validates a Chunk against the configured size range.
//
// Validation rules:
//   - Path must not be empty
//   - Text must not be empty
//   - minSize <= len(Text) <= maxSize
//
// NOT validated (populated by later stages):
//   - Vector (empty until the batch embedder runs)
//   - Metadata (empty until enrichment runs)
func ValidateChunk(chunk *Chunk, minSize, maxSize int) error {
	if chunk == nil {
		return fmt.Errorf("%w: chunk is nil", ErrInvalidChunk)
	}

	if chunk.Path == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyPath)
	}

	if chunk.Text == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyContent)
	}

	if len(chunk.Text) < minSize {
		return fmt.Errorf("%w: %w: %d < %d", ErrInvalidChunk, ErrChunkTooSmall, len(chunk.Text), minSize)
	}

	if maxSize > 0 && len(chunk.Text) > maxSize {
		return fmt.Errorf("%w: %w: %d > %d", ErrInvalidChunk, ErrChunkTooLarge, len(chunk.Text), maxSize)
	}

	return nil
}
