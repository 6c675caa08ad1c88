package source

import (
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"

	"github.com/passagegfx/passage/common"
)

// Prefetcher warms a CachingReader for a batch of shader paths before any
// GPU work starts. Reads are pure filesystem access, so they are safe to
// fan out across a bounded worker pool even though the resource lifecycle
// itself is single-threaded. Workers persist across Prefetch calls,
// avoiding per-batch goroutine spawn/teardown overhead.
type Prefetcher struct {
	cache   *CachingReader
	pool    worker.DynamicWorkerPool
	workers int
}

// PrefetcherOption configures a Prefetcher.
type PrefetcherOption func(*Prefetcher)

// WithWorkers overrides the worker count (default: NumCPU-1, minimum 1).
// The count is clamped to the pool's queue capacity.
func WithWorkers(n int) PrefetcherOption {
	return func(p *Prefetcher) {
		if n > 0 {
			p.workers = common.Clamp(n, 1, prefetchQueueSize)
		}
	}
}

// NewPrefetcher creates a Prefetcher that warms cache.
//
// Parameters:
//   - cache: the read-once cache to warm (must not be nil)
//   - options: functional options to further configure the prefetcher
//
// Returns:
//   - *Prefetcher: the configured prefetcher
func NewPrefetcher(cache *CachingReader, options ...PrefetcherOption) *Prefetcher {
	if cache == nil {
		panic("source: NewPrefetcher requires a non-nil CachingReader")
	}
	p := &Prefetcher{
		cache:   cache,
		workers: max(runtime.NumCPU()-1, 1),
	}
	for _, option := range options {
		option(p)
	}
	p.pool = worker.NewDynamicWorkerPool(p.workers, prefetchQueueSize, 1*time.Second)
	return p
}

// prefetchQueueSize accommodates typical shader set sizes with headroom.
const prefetchQueueSize = 256

// Workers returns the configured worker count.
func (p *Prefetcher) Workers() int { return p.workers }

// Prefetch reads every path into the cache and blocks until the batch
// completes. The first read error is returned; remaining paths are still
// attempted so one missing file does not leave the rest of the batch cold.
func (p *Prefetcher) Prefetch(paths ...string) error {
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	for i, path := range paths {
		wg.Add(1)
		pth := path
		p.pool.SubmitTask(worker.Task{
			ID: i,
			Do: func() (any, error) {
				defer wg.Done()
				_, err := p.cache.Read(pth)
				if err != nil {
					mu.Lock()
					firstErr = common.Coalesce(firstErr, err)
					mu.Unlock()
				}
				return nil, err
			},
		})
	}
	wg.Wait()
	return firstErr
}
