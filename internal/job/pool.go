package job

import "sync"

// WorkerPool executes submitted functions with a fixed number of worker
// goroutines. It is pure mechanism: no job semantics, no ordering guarantee
// between tasks, each submitted function started exactly once. A task that
// fails does so through its own reporting path; nothing a task returns can
// fault the pool.
type WorkerPool struct {
	tasks chan func()
	wg    sync.WaitGroup
}

// NewWorkerPool starts workers goroutines draining a queue of queueCap
// pending tasks. Submit blocks once the queue is full, so callers that must
// never block size queueCap to their total task count.
func NewWorkerPool(workers, queueCap int) *WorkerPool {
	if workers < 1 {
		workers = 1
	}
	if queueCap < 0 {
		queueCap = 0
	}
	p := &WorkerPool{tasks: make(chan func(), queueCap)}
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer p.wg.Done()
			for fn := range p.tasks {
				fn()
			}
		}()
	}
	return p
}

// Submit enqueues fn for execution. Must not be called after Close.
func (p *WorkerPool) Submit(fn func()) {
	p.tasks <- fn
}

// Close stops intake. Tasks already queued still run.
func (p *WorkerPool) Close() {
	close(p.tasks)
}

// Wait blocks until all workers have exited. Only valid after Close.
func (p *WorkerPool) Wait() {
	p.wg.Wait()
}
