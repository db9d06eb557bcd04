// File: internal/infra/worker/pool.go
package worker

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/rs/zerolog"
)

var (
	ErrNilTask = errors.New("nil task")
	ErrStopped = errors.New("worker pool stopped")
)

type Task func(ctx context.Context) error

// Pool runs tasks on a fixed set of workers. Each worker owns a queue and
// tasks submitted with the same key always land on the same worker, so
// updates of one chat are handled in arrival order.
type Pool struct {
	wg       sync.WaitGroup
	queues   []chan Task
	quit     chan struct{}
	stopOnce sync.Once
	log      *zerolog.Logger
}

func NewPool(workers, queue int, logger *zerolog.Logger) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if queue <= 0 {
		queue = workers * 4
	}
	per := queue / workers
	if per < 1 {
		per = 1
	}
	queues := make([]chan Task, workers)
	for i := range queues {
		queues[i] = make(chan Task, per)
	}
	return &Pool{queues: queues, quit: make(chan struct{}), log: logger}
}

func (p *Pool) Start(ctx context.Context) {
	for i, q := range p.queues {
		p.wg.Add(1)
		go func(id int, jobs <-chan Task) {
			defer p.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case <-p.quit:
					return
				case task := <-jobs:
					if err := p.run(ctx, task); err != nil {
						p.log.Error().Err(err).Int("worker", id).Msg("task failed")
					}
				}
			}
		}(i, q)
	}
}

func (p *Pool) run(ctx context.Context, task Task) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("task panic: %v", rec)
		}
	}()
	return task(ctx)
}

// Stop signals the workers and waits for running tasks. Queued tasks are dropped.
func (p *Pool) Stop() {
	p.stopOnce.Do(func() { close(p.quit) })
	p.wg.Wait()
}

// Submit queues task on the worker owning key, blocking while that queue is full.
func (p *Pool) Submit(ctx context.Context, key int64, task Task) error {
	if task == nil {
		return ErrNilTask
	}
	q := p.queues[uint64(key)%uint64(len(p.queues))]
	select {
	case <-p.quit:
		return ErrStopped
	default:
	}
	select {
	case q <- task:
		return nil
	case <-p.quit:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}
