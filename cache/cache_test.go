package cache

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/quarryhq/quarry/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCache(t *testing.T) *Badger {
	t.Helper()

	c, err := OpenBadger(t.TempDir(), false)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })

	return c
}

func TestBadger_ContainsInsert(t *testing.T) {
	ctx := context.Background()
	c := setupCache(t)

	fp := core.FingerprintOf("src/main.go", "package main")
	assert.False(t, c.Contains(ctx, fp), "fresh cache must not contain anything")

	require.NoError(t, c.Insert(ctx, fp, NewEntry("src/main.go", 3)))
	assert.True(t, c.Contains(ctx, fp))

	// A different fingerprint is still unseen.
	other := core.FingerprintOf("src/main.go", "package main // edited")
	assert.False(t, c.Contains(ctx, other))
}

func TestBadger_Get(t *testing.T) {
	ctx := context.Background()
	c := setupCache(t)

	fp := core.FingerprintOf("docs/readme.md", "# readme")

	_, err := c.Get(ctx, fp)
	assert.ErrorIs(t, err, ErrEntryNotFound)

	entry := Entry{Path: "docs/readme.md", IndexedAt: time.Now().UTC().Truncate(time.Microsecond), Chunks: 2}
	require.NoError(t, c.Insert(ctx, fp, entry))

	got, err := c.Get(ctx, fp)
	require.NoError(t, err)
	assert.Equal(t, entry.Path, got.Path)
	assert.Equal(t, entry.Chunks, got.Chunks)
	assert.True(t, entry.IndexedAt.Equal(got.IndexedAt))
}

func TestBadger_InsertOverwrites(t *testing.T) {
	ctx := context.Background()
	c := setupCache(t)

	fp := core.FingerprintOf("a.md", "content")
	require.NoError(t, c.Insert(ctx, fp, NewEntry("a.md", 1)))
	require.NoError(t, c.Insert(ctx, fp, NewEntry("a.md", 5)))

	got, err := c.Get(ctx, fp)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Chunks)
}

func TestBadger_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	c, err := OpenBadger(dir, false)
	require.NoError(t, err)

	fp := core.FingerprintOf("b.py", "def f(): pass")
	require.NoError(t, c.Insert(ctx, fp, NewEntry("b.py", 1)))
	require.NoError(t, c.Close())

	reopened, err := OpenBadger(dir, false)
	require.NoError(t, err)
	defer reopened.Close()

	assert.True(t, reopened.Contains(ctx, fp), "entries must survive process restarts")
}

func TestNoop(t *testing.T) {
	ctx := context.Background()
	c := Noop{}

	fp := core.FingerprintOf("x", "y")
	require.NoError(t, c.Insert(ctx, fp, NewEntry("x", 1)))
	assert.False(t, c.Contains(ctx, fp), "noop cache must not remember inserts")
	assert.NoError(t, c.Close())
}

func TestOpen_FailsOpen(t *testing.T) {
	// A file (not a directory) cannot back a badger store.
	dir := t.TempDir()
	file := filepath.Join(dir, "occupied")
	require.NoError(t, os.WriteFile(file, []byte("not a directory"), 0644))

	c := Open(file, slog.Default())
	defer c.Close()

	_, isNoop := c.(Noop)
	assert.True(t, isNoop, "unopenable cache must degrade to Noop")
}

func TestOpen_EmptyPath(t *testing.T) {
	c := Open("", nil)
	_, isNoop := c.(Noop)
	assert.True(t, isNoop)
}
