package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/quarryhq/quarry/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, src Source) ([]Result[*core.Document], error) {
	t.Helper()
	out := make(chan Result[*core.Document])
	var results []Result[*core.Document]
	done := make(chan struct{})
	go func() {
		defer close(done)
		for r := range out {
			results = append(results, r)
		}
	}()
	err := src.Stream(context.Background(), out)
	close(out)
	<-done
	return results, err
}

func TestFileSource_FiltersByExtension(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "keep.go"), []byte("package keep"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "keep.md"), []byte("# keep"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "skip.txt"), []byte("skip"), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "nested.go"), []byte("package sub"), 0644))

	// Extensions with and without the dot are both accepted.
	src, err := NewFileSource(dir, []string{"go", ".md"})
	require.NoError(t, err)

	results, err := collect(t, src)
	require.NoError(t, err)
	require.Len(t, results, 3)

	paths := make(map[string]bool)
	for _, r := range results {
		require.False(t, r.Failed())
		paths[filepath.Base(r.Value.Path)] = true
		assert.NotZero(t, r.Value.Fingerprint)
	}
	assert.True(t, paths["keep.go"])
	assert.True(t, paths["keep.md"])
	assert.True(t, paths["nested.go"])
}

func TestFileSource_UnreadableFileBecomesErrorResult(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("permission bits do not bind as root")
	}
	dir := t.TempDir()
	locked := filepath.Join(dir, "locked.go")
	require.NoError(t, os.WriteFile(locked, []byte("secret"), 0000))

	src, err := NewFileSource(dir, []string{".go"})
	require.NoError(t, err)

	results, err := collect(t, src)
	require.NoError(t, err, "an unreadable file must not abort enumeration")
	require.Len(t, results, 1)
	assert.True(t, results[0].Failed())
	assert.Equal(t, locked, results[0].Path)
	assert.ErrorIs(t, results[0].Err, ErrUnreadableFile)
}

func TestFileSource_MissingRootFailsEnumeration(t *testing.T) {
	src, err := NewFileSource(filepath.Join(t.TempDir(), "absent"), []string{".go"})
	require.NoError(t, err)

	_, err = collect(t, src)
	assert.Error(t, err)
}

func TestFileSource_ConstructorValidation(t *testing.T) {
	_, err := NewFileSource("", []string{".go"})
	assert.ErrorIs(t, err, ErrRootRequired)

	_, err = NewFileSource(t.TempDir(), nil)
	assert.ErrorIs(t, err, ErrExtensionsRequired)
}
