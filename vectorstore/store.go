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


package vectorstore

import (
	"context"

	"github.com/quarryhq/quarry/core"
)

// Store persists embedded records and serves similarity search.
//
// Upsert is idempotent: records are keyed by their ID, and re-indexing
// the same content overwrites rather than duplicates. DeleteCollection
// on a collection that does not exist is a no-op.
type Store interface {
	// Upsert writes records, overwriting any existing record with the
	// same ID.
	Upsert(ctx context.Context, records []*core.StoredRecord) error

	// Search returns up to topK records most similar to the query
	// vector, best first.
	Search(ctx context.Context, vector []float32, topK int) ([]*core.SearchHit, error)

	// Count returns the number of stored records.
	Count() int

	// DeleteCollection drops the collection and all its records.
	DeleteCollection(ctx context.Context) error

	// Close releases the underlying storage.
	Close() error
}
