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

import "errors"

// Domain validation errors
var (
	// ErrInvalidChunk indicates a Chunk failed validation.
	ErrInvalidChunk = errors.New("invalid chunk")

	// ErrEmptyContent indicates the Text field is empty.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrEmptyPath indicates the Path field is empty.
	ErrEmptyPath = errors.New("path cannot be empty")

	// ErrChunkTooSmall indicates a chunk below the configured minimum size.
	ErrChunkTooSmall = errors.New("chunk below minimum size")

	// ErrChunkTooLarge indicates a chunk above the configured maximum size.
	ErrChunkTooLarge = errors.New("chunk above maximum size")

	// ErrStateRegression indicates an attempt to move a question to an
	// earlier lifecycle state.
	ErrStateRegression = errors.New("question state cannot move backwards")
)
