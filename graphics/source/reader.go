// Package source is the filesystem collaborator for shader source code: a
// small Reader interface with a disk implementation, an in-memory
// implementation for tests and embedded sources, a read-once cache, and a
// worker-pool batch prefetcher.
package source

import (
	"fmt"
	"os"
	"sync"
)

// ReadError reports that a shader source could not be read. It wraps the
// underlying error so errors.Is(err, fs.ErrNotExist) keeps working.
type ReadError struct {
	// Path is the source path that failed to read.
	Path string

	// Err is the underlying error.
	Err error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("source: read %q: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// Reader supplies shader source text for a path. The shader's stage type is
// always supplied explicitly by the caller; readers never infer it from
// file naming.
type Reader interface {
	// Read returns the source text at path, or a *ReadError.
	Read(path string) (string, error)
}

// FileReader reads shader source from the filesystem.
type FileReader struct{}

// Read returns the contents of the file at path.
func (FileReader) Read(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", &ReadError{Path: path, Err: err}
	}
	return string(data), nil
}

// MapReader serves shader source from an in-memory map. It records per-path
// read counts, which tests use to assert read-once semantics.
type MapReader struct {
	// Sources maps path to source text.
	Sources map[string]string

	// Reads counts Read calls per path, including misses.
	Reads map[string]int
}

// NewMapReader creates a MapReader over the given sources.
func NewMapReader(sources map[string]string) *MapReader {
	return &MapReader{
		Sources: sources,
		Reads:   make(map[string]int),
	}
}

// Read returns the mapped source for path.
func (m *MapReader) Read(path string) (string, error) {
	if m.Reads == nil {
		m.Reads = make(map[string]int)
	}
	m.Reads[path]++
	src, ok := m.Sources[path]
	if !ok {
		return "", &ReadError{Path: path, Err: os.ErrNotExist}
	}
	return src, nil
}

// CachingReader wraps another Reader and serves each path from memory after
// the first successful read. Failed reads are not cached. Safe for
// concurrent use, so a Prefetcher can warm it from worker goroutines.
type CachingReader struct {
	inner Reader

	mu    sync.RWMutex
	cache map[string]string
}

// NewCachingReader creates a read-once cache over inner.
func NewCachingReader(inner Reader) *CachingReader {
	return &CachingReader{
		inner: inner,
		cache: make(map[string]string),
	}
}

// Read returns the cached source for path, reading through on first access.
func (c *CachingReader) Read(path string) (string, error) {
	c.mu.RLock()
	src, ok := c.cache[path]
	c.mu.RUnlock()
	if ok {
		return src, nil
	}

	src, err := c.inner.Read(path)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	c.cache[path] = src
	c.mu.Unlock()
	return src, nil
}

// Cached reports whether path is already in the cache.
func (c *CachingReader) Cached(path string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.cache[path]
	return ok
}

// Len returns the number of cached sources.
func (c *CachingReader) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}
