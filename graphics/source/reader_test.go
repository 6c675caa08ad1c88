package source_test

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/passagegfx/passage/graphics/source"
)

func TestFileReader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "basic.vert")
	require.NoError(t, os.WriteFile(path, []byte("void main() {}"), 0o644))

	src, err := source.FileReader{}.Read(path)
	require.NoError(t, err)
	assert.Equal(t, "void main() {}", src)
}

func TestFileReaderMissing(t *testing.T) {
	_, err := source.FileReader{}.Read(filepath.Join(t.TempDir(), "nope.vert"))

	var rerr *source.ReadError
	require.ErrorAs(t, err, &rerr)
	assert.ErrorIs(t, err, fs.ErrNotExist, "the OS error stays reachable through Unwrap")
	assert.Contains(t, err.Error(), "nope.vert")
}

func TestMapReaderCountsReads(t *testing.T) {
	r := source.NewMapReader(map[string]string{"a.vert": "src"})

	src, err := r.Read("a.vert")
	require.NoError(t, err)
	assert.Equal(t, "src", src)

	_, _ = r.Read("a.vert")
	_, err = r.Read("missing")
	assert.Error(t, err)

	assert.Equal(t, 2, r.Reads["a.vert"])
	assert.Equal(t, 1, r.Reads["missing"], "misses count too")
}

func TestCachingReaderReadsThroughOnce(t *testing.T) {
	inner := source.NewMapReader(map[string]string{"a.vert": "src"})
	c := source.NewCachingReader(inner)

	assert.False(t, c.Cached("a.vert"))
	for i := 0; i < 3; i++ {
		src, err := c.Read("a.vert")
		require.NoError(t, err)
		assert.Equal(t, "src", src)
	}

	assert.Equal(t, 1, inner.Reads["a.vert"])
	assert.True(t, c.Cached("a.vert"))
	assert.Equal(t, 1, c.Len())
}

func TestCachingReaderDoesNotCacheFailures(t *testing.T) {
	inner := source.NewMapReader(nil)
	c := source.NewCachingReader(inner)

	_, err := c.Read("missing")
	assert.Error(t, err)
	assert.False(t, c.Cached("missing"))

	_, _ = c.Read("missing")
	assert.Equal(t, 2, inner.Reads["missing"], "failed reads retry")
}

func TestPrefetcherWarmsCache(t *testing.T) {
	inner := source.NewMapReader(map[string]string{
		"a.vert": "a",
		"b.frag": "b",
		"c.comp": "c",
	})
	cache := source.NewCachingReader(inner)
	p := source.NewPrefetcher(cache, source.WithWorkers(2))

	require.NoError(t, p.Prefetch("a.vert", "b.frag", "c.comp"))
	assert.Equal(t, 3, cache.Len())
	assert.Equal(t, 2, p.Workers())

	// Reads after the warm-up never hit the inner reader again.
	_, err := cache.Read("b.frag")
	require.NoError(t, err)
	assert.Equal(t, 1, inner.Reads["b.frag"])
}

func TestPrefetcherReportsFirstErrorAndContinues(t *testing.T) {
	inner := source.NewMapReader(map[string]string{"a.vert": "a", "c.comp": "c"})
	cache := source.NewCachingReader(inner)
	p := source.NewPrefetcher(cache, source.WithWorkers(1))

	err := p.Prefetch("a.vert", "b.frag", "c.comp")
	var rerr *source.ReadError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "b.frag", rerr.Path)

	assert.True(t, cache.Cached("a.vert"), "paths after the failure are still fetched")
	assert.True(t, cache.Cached("c.comp"))
}

func TestNewPrefetcherNilCachePanics(t *testing.T) {
	assert.Panics(t, func() { source.NewPrefetcher(nil) })
}
