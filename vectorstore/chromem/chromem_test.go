package chromem

import (
	"context"
	"testing"

	"github.com/quarryhq/quarry/core"
	"github.com/quarryhq/quarry/vectorstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(id string, vector []float32, text string) *core.StoredRecord {
	return &core.StoredRecord{
		ID:       id,
		Text:     text,
		Metadata: map[string]string{"path": "docs/" + id + ".md"},
		Vector:   vector,
	}
}

func setupStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open("", "quarry-test")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_UpsertAndSearch(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	err := store.Upsert(ctx, []*core.StoredRecord{
		record("a", []float32{1, 0, 0}, "about apples"),
		record("b", []float32{0, 1, 0}, "about bananas"),
		record("c", []float32{0, 0, 1}, "about cherries"),
	})
	require.NoError(t, err)
	assert.Equal(t, 3, store.Count())

	hits, err := store.Search(ctx, []float32{0.9, 0.1, 0}, 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "a", hits[0].Record.ID, "nearest vector must rank first")
	assert.Equal(t, "about apples", hits[0].Record.Text)
	assert.Equal(t, "docs/a.md", hits[0].Record.Metadata["path"])
	assert.GreaterOrEqual(t, hits[0].Score, hits[1].Score)
}

func TestStore_UpsertOverwritesByID(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, []*core.StoredRecord{
		record("a", []float32{1, 0, 0}, "first version"),
	}))
	require.NoError(t, store.Upsert(ctx, []*core.StoredRecord{
		record("a", []float32{1, 0, 0}, "second version"),
	}))

	assert.Equal(t, 1, store.Count(), "same ID must not duplicate")

	hits, err := store.Search(ctx, []float32{1, 0, 0}, 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "second version", hits[0].Record.Text)
}

func TestStore_UpsertRejectsMissingVector(t *testing.T) {
	store := setupStore(t)

	err := store.Upsert(context.Background(), []*core.StoredRecord{
		{ID: "bad", Text: "no vector"},
	})
	assert.ErrorIs(t, err, vectorstore.ErrMissingVector)
}

func TestStore_SearchClampsTopK(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, []*core.StoredRecord{
		record("a", []float32{1, 0, 0}, "only one"),
	}))

	hits, err := store.Search(ctx, []float32{1, 0, 0}, 20)
	require.NoError(t, err)
	assert.Len(t, hits, 1)
}

func TestStore_SearchEmptyCollection(t *testing.T) {
	store := setupStore(t)

	hits, err := store.Search(context.Background(), []float32{1, 0, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, hits)

	_, err = store.Search(context.Background(), []float32{1, 0, 0}, 0)
	assert.ErrorIs(t, err, vectorstore.ErrInvalidTopK)
}

func TestStore_DeleteCollection(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, []*core.StoredRecord{
		record("a", []float32{1, 0, 0}, "doomed"),
	}))
	require.Equal(t, 1, store.Count())

	require.NoError(t, store.DeleteCollection(ctx))
	assert.Equal(t, 0, store.Count())

	// Deleting again (collection now empty, freshly recreated) is a no-op.
	require.NoError(t, store.DeleteCollection(ctx))

	// The store stays usable after a delete.
	require.NoError(t, store.Upsert(ctx, []*core.StoredRecord{
		record("b", []float32{0, 1, 0}, "reborn"),
	}))
	assert.Equal(t, 1, store.Count())
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := Open(dir, "persisted")
	require.NoError(t, err)
	require.NoError(t, store.Upsert(ctx, []*core.StoredRecord{
		record("a", []float32{1, 0, 0}, "durable"),
	}))
	require.NoError(t, store.Close())

	reopened, err := Open(dir, "persisted")
	require.NoError(t, err)
	defer reopened.Close()

	assert.Equal(t, 1, reopened.Count())
	hits, err := reopened.Search(ctx, []float32{1, 0, 0}, 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "durable", hits[0].Record.Text)
}
