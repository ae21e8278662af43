// Package parallel splits flat element ranges across goroutines.
package parallel

import (
	"runtime"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Config controls parallel execution behavior.
type Config struct {
	Enabled      bool // Whether parallel execution is enabled.
	NumWorkers   int  // Upper bound on concurrently running chunks.
	MinChunkSize int  // Minimum elements per chunk.
}

// DefaultConfig returns defaults based on GOMAXPROCS. Chunks are large
// because the per-element work of a copy is a few loads and a store.
func DefaultConfig() Config {
	n := runtime.GOMAXPROCS(0)
	return Config{
		Enabled:      n > 1,
		NumWorkers:   n,
		MinChunkSize: 1 << 14,
	}
}

// Chunks returns the half-open ranges For hands to its body for n elements.
func Chunks(n int, cfg Config) [][2]int {
	if n <= 0 {
		return nil
	}
	size := n
	if cfg.Enabled && cfg.NumWorkers > 1 && n >= 2*cfg.MinChunkSize {
		size = max((n+cfg.NumWorkers-1)/cfg.NumWorkers, cfg.MinChunkSize, 1)
	}
	out := make([][2]int, 0, (n+size-1)/size)
	for start := 0; start < n; start += size {
		out = append(out, [2]int{start, min(start+size, n)})
	}
	return out
}

// For calls body once per chunk of [0, n). A single chunk runs on the
// calling goroutine. Chunks never overlap, so body may write to disjoint
// parts of a shared slice without locking. A panic in any chunk is re-raised
// on the calling goroutine after the other chunks finish.
func For(n int, cfg Config, body func(start, end int)) {
	chunks := Chunks(n, cfg)
	if len(chunks) <= 1 {
		for _, c := range chunks {
			body(c[0], c[1])
		}
		return
	}

	var (
		mu        sync.Mutex
		recovered any
	)
	var g errgroup.Group
	g.SetLimit(cfg.NumWorkers)
	for _, c := range chunks {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					mu.Lock()
					if recovered == nil {
						recovered = r
					}
					mu.Unlock()
					err = errChunkPanicked
				}
			}()
			body(c[0], c[1])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		panic(recovered)
	}
}

var errChunkPanicked = errors.New("parallel: chunk panicked")
