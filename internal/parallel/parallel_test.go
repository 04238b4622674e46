package parallel

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFor(t *testing.T) {
	cfg := DefaultConfig()

	var counter int64
	n := 1000

	For(n, func(_ int) {
		atomic.AddInt64(&counter, 1)
	}, cfg)

	assert.Equal(t, int64(n), counter)
}

func TestFor_Sequential(t *testing.T) {
	cfg := Config{Enabled: false}

	var counter int64
	For(100, func(_ int) {
		atomic.AddInt64(&counter, 1)
	}, cfg)

	assert.Equal(t, int64(100), counter)
}

func TestFor_SmallChunk(t *testing.T) {
	// Small work units fall back to sequential.
	cfg := DefaultConfig()

	var counter int64
	n := cfg.MinChunkSize - 1

	For(n, func(_ int) {
		atomic.AddInt64(&counter, 1)
	}, cfg)

	assert.Equal(t, int64(n), counter)
}

func TestDefaultConfigEnv(t *testing.T) {
	t.Setenv(EnvNumWorkers, "3")
	cfg := DefaultConfig()
	assert.Equal(t, 3, cfg.NumWorkers)
	assert.Equal(t, 3, cfg.Workers())
	assert.Positive(t, cfg.L2())

	t.Setenv(EnvNumWorkers, "1")
	assert.Equal(t, 1, DefaultConfig().Workers())
	assert.Equal(t, 1, Sequential().Workers())
}

func TestRun(t *testing.T) {
	for _, cfg := range []Config{Sequential(), {Enabled: true, NumWorkers: 4}} {
		var counter int64
		tasks := make([]func() error, 50)
		for i := range tasks {
			tasks[i] = func() error {
				atomic.AddInt64(&counter, int64(i))
				return nil
			}
		}
		require.NoError(t, Run(context.Background(), cfg, tasks))
		assert.Equal(t, int64(49*50/2), counter)
	}
}

func TestRun_Failure(t *testing.T) {
	boom := errors.New("boom")
	for _, cfg := range []Config{Sequential(), {Enabled: true, NumWorkers: 4}} {
		tasks := []func() error{
			func() error { return nil },
			func() error { return boom },
			func() error { return nil },
		}
		err := Run(context.Background(), cfg, tasks)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrWorkerFailed))
		assert.Contains(t, err.Error(), "boom")
	}
}

func TestRun_Panic(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 2}
	tasks := []func() error{
		func() error { panic("index out of range") },
		func() error { return nil },
	}
	err := Run(context.Background(), cfg, tasks)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrWorkerFailed))
	assert.Contains(t, err.Error(), "panicked")
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var ran int64
	task := func() error {
		atomic.AddInt64(&ran, 1)
		return nil
	}
	err := Run(ctx, Config{Enabled: true, NumWorkers: 2}, []func() error{task, task, task})
	assert.True(t, errors.Is(err, ErrWorkerFailed))
	assert.Equal(t, int64(0), ran)
}

func BenchmarkFor(b *testing.B) {
	cfg := DefaultConfig()
	n := 10000

	b.Run("parallel", func(b *testing.B) {
		for b.Loop() {
			var sum int64
			For(n, func(i int) {
				atomic.AddInt64(&sum, int64(i))
			}, cfg)
		}
	})

	b.Run("sequential", func(b *testing.B) {
		seqCfg := Config{Enabled: false}
		for b.Loop() {
			var sum int64
			For(n, func(i int) {
				atomic.AddInt64(&sum, int64(i))
			}, seqCfg)
		}
	})
}
