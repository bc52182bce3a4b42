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


package chromem

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/philippgille/chromem-go"
	"github.com/quarryhq/quarry/core"
	"github.com/quarryhq/quarry/vectorstore"
)

// Store is an embedded vector store backed by chromem-go. With a path it
// persists collections to disk; with an empty path it is in-memory only.
type Store struct {
	db         *chromem.DB
	collection *chromem.Collection
	name       string
	logger     *slog.Logger
}

var _ vectorstore.Store = (*Store)(nil)

// Open opens (or creates) a collection. An empty path selects an
// in-memory database, which is what the tests use.
func Open(path, collection string) (*Store, error) {
	var db *chromem.DB
	var err error

	if path == "" {
		db = chromem.NewDB()
	} else {
		db, err = chromem.NewPersistentDB(path, false)
		if err != nil {
			return nil, fmt.Errorf("opening vector database at %s: %w", path, err)
		}
	}

	s := &Store{
		db:     db,
		name:   collection,
		logger: slog.Default().With("component", "vectorstore", "collection", collection),
	}
	if err := s.ensureCollection(); err != nil {
		return nil, err
	}
	return s, nil
}

// ensureCollection creates the collection if it is missing and caches
// the handle.
func (s *Store) ensureCollection() error {
	coll, err := s.db.GetOrCreateCollection(s.name, nil, rejectEmbedding)
	if err != nil {
		return fmt.Errorf("creating collection %s: %w", s.name, err)
	}
	s.collection = coll
	return nil
}

// rejectEmbedding is installed as the collection's embedding function.
// Every record carries its vector from the embedding stage, so chromem
// must never be asked to embed; reaching this is a wiring bug upstream.
func rejectEmbedding(_ context.Context, _ string) ([]float32, error) {
	return nil, vectorstore.ErrMissingVector
}

// Upsert writes records keyed by ID. chromem overwrites documents with
// an existing ID, which makes re-indexing unchanged paths idempotent.
func (s *Store) Upsert(ctx context.Context, records []*core.StoredRecord) error {
	if len(records) == 0 {
		return nil
	}

	docs := make([]chromem.Document, 0, len(records))
	for _, r := range records {
		if len(r.Vector) == 0 {
			return fmt.Errorf("%w: %s", vectorstore.ErrMissingVector, r.ID)
		}
		docs = append(docs, chromem.Document{
			ID:        r.ID,
			Metadata:  r.Metadata,
			Embedding: r.Vector,
			Content:   r.Text,
		})
	}

	if err := s.collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return fmt.Errorf("upserting %d records: %w", len(docs), err)
	}
	s.logger.Debug("upserted records", "count", len(docs))
	return nil
}

// Search returns the topK nearest records by cosine similarity. topK is
// clamped to the collection size; an empty collection yields no hits.
func (s *Store) Search(ctx context.Context, vector []float32, topK int) ([]*core.SearchHit, error) {
	if topK < 1 {
		return nil, vectorstore.ErrInvalidTopK
	}

	count := s.collection.Count()
	if count == 0 {
		return nil, nil
	}
	if topK > count {
		topK = count
	}

	results, err := s.collection.QueryEmbedding(ctx, vector, topK, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("querying collection %s: %w", s.name, err)
	}

	hits := make([]*core.SearchHit, len(results))
	for i, res := range results {
		hits[i] = &core.SearchHit{
			Record: &core.StoredRecord{
				ID:       res.ID,
				Text:     res.Content,
				Metadata: res.Metadata,
				Vector:   res.Embedding,
			},
			Score: res.Similarity,
		}
	}
	return hits, nil
}

// Count returns the number of stored records.
func (s *Store) Count() int {
	return s.collection.Count()
}

// DeleteCollection drops every record and recreates the empty
// collection so the handle stays usable. Deleting a collection that was
// never written is a no-op.
func (s *Store) DeleteCollection(_ context.Context) error {
	if err := s.db.DeleteCollection(s.name); err != nil {
		return fmt.Errorf("deleting collection %s: %w", s.name, err)
	}
	s.logger.Info("collection deleted", "collection", s.name)
	return s.ensureCollection()
}

// Close releases the store. chromem persists on every mutation, so
// there is nothing to flush.
func (s *Store) Close() error {
	s.collection = nil
	s.db = nil
	return nil
}
