package engine

import (
	"context"
	"sync"
)

// workerPool is a fixed-size goroutine pool with a bounded input queue.
// Schedule computations are CPU-bound, so the pool size caps how many run
// at once while the queue absorbs bursts.
type workerPool struct {
	queue chan func(context.Context)
	wg    sync.WaitGroup
}

// newWorkerPool creates and starts a pool with n goroutines and queue
// capacity capacity.
func newWorkerPool(ctx context.Context, n, capacity int) *workerPool {
	p := &workerPool{queue: make(chan func(context.Context), capacity)}
	for i := 0; i < n; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for {
				select {
				case fn, ok := <-p.queue:
					if !ok {
						return
					}
					fn(ctx)
				case <-ctx.Done():
					return
				}
			}
		}()
	}
	return p
}

// Submit enqueues work without blocking (returns false if full).
func (p *workerPool) Submit(fn func(context.Context)) bool {
	select {
	case p.queue <- fn:
		return true
	default:
		return false
	}
}

// Drain closes the queue and waits for all workers to finish.
func (p *workerPool) Drain() {
	close(p.queue)
	p.wg.Wait()
}

// QueueLen returns how many jobs are currently queued.
func (p *workerPool) QueueLen() int {
	return len(p.queue)
}

// QueueCap returns the total queue capacity.
func (p *workerPool) QueueCap() int {
	return cap(p.queue)
}
