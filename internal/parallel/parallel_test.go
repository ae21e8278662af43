package parallel

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFor(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 4, MinChunkSize: 8}

	n := 1000
	seen := make([]int32, n)
	var calls atomic.Int64
	For(n, cfg, func(start, end int) {
		calls.Add(1)
		for i := start; i < end; i++ {
			atomic.AddInt32(&seen[i], 1)
		}
	})

	for i, v := range seen {
		require.Equal(t, int32(1), v, "element %d", i)
	}
	assert.Equal(t, int64(4), calls.Load())
}

func TestFor_Sequential(t *testing.T) {
	cfg := Config{Enabled: false, NumWorkers: 8, MinChunkSize: 1}

	var ranges [][2]int
	For(100, cfg, func(start, end int) {
		ranges = append(ranges, [2]int{start, end})
	})
	assert.Equal(t, [][2]int{{0, 100}}, ranges)
}

func TestFor_SmallInput(t *testing.T) {
	// Below two chunks' worth the work stays on one goroutine.
	cfg := Config{Enabled: true, NumWorkers: 8, MinChunkSize: 64}
	assert.Equal(t, [][2]int{{0, 127}}, Chunks(127, cfg))
	assert.Len(t, Chunks(128, cfg), 2)
}

func TestFor_Empty(t *testing.T) {
	called := false
	For(0, DefaultConfig(), func(_, _ int) { called = true })
	assert.False(t, called)
	assert.Empty(t, Chunks(-3, DefaultConfig()))
}

func TestFor_PanicReachesCaller(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 4, MinChunkSize: 10}

	var finished atomic.Int64
	assert.PanicsWithValue(t, "bad chunk", func() {
		For(100, cfg, func(start, _ int) {
			if start == 50 {
				panic("bad chunk")
			}
			finished.Add(1)
		})
	})
	assert.Equal(t, int64(3), finished.Load())
}

func TestChunks(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 3, MinChunkSize: 2}

	chunks := Chunks(10, cfg)
	assert.Equal(t, [][2]int{{0, 4}, {4, 8}, {8, 10}}, chunks)

	cfg.MinChunkSize = 5
	assert.Equal(t, [][2]int{{0, 5}, {5, 10}}, Chunks(10, cfg))
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Positive(t, cfg.NumWorkers)
	assert.Equal(t, cfg.NumWorkers > 1, cfg.Enabled)
	assert.Equal(t, 1<<14, cfg.MinChunkSize)
}

func BenchmarkFor(b *testing.B) {
	cfg := DefaultConfig()
	n := 1 << 20
	dst := make([]float64, n)

	b.Run("parallel", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			For(n, cfg, func(start, end int) {
				for j := start; j < end; j++ {
					dst[j] = float64(j)
				}
			})
		}
	})

	b.Run("sequential", func(b *testing.B) {
		cfgSeq := cfg
		cfgSeq.Enabled = false
		for i := 0; i < b.N; i++ {
			For(n, cfgSeq, func(start, end int) {
				for j := start; j < end; j++ {
					dst[j] = float64(j)
				}
			})
		}
	})
}
