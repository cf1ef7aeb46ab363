// Package render owns the CPU-bound side of the viewer: a dedicated worker
// pool and the rasterizer that turns layer snapshots into map tiles. The
// pool is kept strictly separate from the network I/O concurrency so long
// rasterization never stalls event ingestion.
package render

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Pool executes rasterization tasks on a fixed set of worker goroutines.
// Tasks must be pure CPU work over data the submitter no longer mutates;
// anything waiting on network or disk does not belong here.
type Pool struct {
	tasks     chan func()
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewPool starts a pool with the given worker count; zero or negative means
// one worker per available CPU core.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	p := &Pool{tasks: make(chan func(), workers*4)}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
	log.Debug().Int("workers", workers).Msg("Render pool started")
	return p
}

func (p *Pool) worker(i int) {
	defer p.wg.Done()
	logger := log.With().Str("worker", fmt.Sprintf("render-%d", i)).Logger()
	for task := range p.tasks {
		runTask(&logger, task)
	}
}

// A panicking task must not take the worker down with it.
func runTask(logger *zerolog.Logger, task func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error().Interface("panic", r).Msg("Render task panicked")
		}
	}()
	task()
}

// Submit queues a task. It blocks only while the CPU queue is full, never on
// I/O. Submitting to a closed pool panics, matching send-on-closed-channel;
// the pool lives until process exit so that never happens in practice.
func (p *Pool) Submit(task func()) {
	p.tasks <- task
}

// Close stops intake and waits for outstanding tasks to finish.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		close(p.tasks)
	})
	p.wg.Wait()
}

var (
	defaultOnce sync.Once
	defaultPool *Pool
)

// Default returns the process-wide pool, created exactly once on first use
// and sized to the available CPU cores. It is torn down only at process
// exit.
func Default() *Pool {
	defaultOnce.Do(func() {
		defaultPool = NewPool(0)
	})
	return defaultPool
}
