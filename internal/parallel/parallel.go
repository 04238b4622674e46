// Package parallel provides the worker pool shared by blocked copies,
// matrix multiplication and axis reductions.
package parallel

import (
	"context"
	"log/slog"
	"os"
	"runtime"
	"strconv"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/born-ml/strided/internal/cpuinfo"
)

// EnvNumWorkers overrides the default worker count.
const EnvNumWorkers = "STRIDED_NUM_WORKERS"

// ErrWorkerFailed marks a task that returned an error or panicked. The
// operation that spawned it is aborted and its output is unspecified.
var ErrWorkerFailed = errors.New("worker failed")

// Config controls parallel execution behavior.
type Config struct {
	Enabled      bool // Whether parallel execution is enabled.
	NumWorkers   int  // Number of worker goroutines to use.
	MinChunkSize int  // Minimum items per goroutine to avoid overhead.
	L2CacheSize  int  // Per-core L2 cache size in bytes, used for blocking.
}

// DefaultConfig returns sensible defaults based on CPU count and the
// detected cache geometry.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	if v, err := strconv.Atoi(os.Getenv(EnvNumWorkers)); err == nil && v > 0 {
		n = v
	}
	return Config{
		Enabled:      n > 1,
		NumWorkers:   n,
		MinChunkSize: 64, // Typical cache line aware chunk.
		L2CacheSize:  cpuinfo.L2CacheSize(),
	}
}

// Sequential returns a config that runs everything on the calling goroutine.
func Sequential() Config {
	cfg := DefaultConfig()
	cfg.Enabled = false
	cfg.NumWorkers = 1
	return cfg
}

// Workers returns the effective number of workers (1 when disabled).
func (c Config) Workers() int {
	if !c.Enabled || c.NumWorkers < 1 {
		return 1
	}
	return c.NumWorkers
}

// L2 returns the cache size used for blocking, falling back to the
// detected one.
func (c Config) L2() int {
	if c.L2CacheSize > 0 {
		return c.L2CacheSize
	}
	return cpuinfo.L2CacheSize()
}

// For executes f(i) for i in [0, n) with optional parallelism.
// Falls back to sequential execution if parallelism is disabled or n is too small.
func For(n int, f func(i int), cfg Config) {
	if cfg.Workers() == 1 || n < cfg.MinChunkSize {
		for i := range n {
			f(i)
		}
		return
	}

	var wg sync.WaitGroup
	chunkSize := max((n+cfg.NumWorkers-1)/cfg.NumWorkers, cfg.MinChunkSize)

	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			for i := s; i < e; i++ {
				f(i)
			}
		}(start, end)
	}
	wg.Wait()
}

// Run executes tasks on at most cfg.Workers() goroutines and waits for all
// of them. The first failure cancels ctx for the remaining tasks, which are
// then skipped; the returned error wraps ErrWorkerFailed. A panicking task
// counts as a failure.
func Run(ctx context.Context, cfg Config, tasks []func() error) error {
	if len(tasks) == 0 {
		return nil
	}
	if cfg.Workers() == 1 || len(tasks) == 1 {
		for i, task := range tasks {
			if err := ctx.Err(); err != nil {
				return errors.Wrap(ErrWorkerFailed, err.Error())
			}
			if err := guard(i, task); err != nil {
				return err
			}
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers())
	for i, task := range tasks {
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			return guard(i, task)
		})
	}
	if err := g.Wait(); err != nil {
		slog.Debug("parallel: run aborted", "tasks", len(tasks), "err", err)
		return err
	}
	if err := ctx.Err(); err != nil {
		return errors.Wrap(ErrWorkerFailed, err.Error())
	}
	return nil
}

func guard(i int, task func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Wrapf(ErrWorkerFailed, "task %d panicked: %v", i, r)
		}
	}()
	if terr := task(); terr != nil {
		return errors.Wrapf(ErrWorkerFailed, "task %d: %v", i, terr)
	}
	return nil
}
