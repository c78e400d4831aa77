package extractor

import (
	"runtime"
	"sync"
)

// WorkerPool fans row-strip jobs out across a fixed set of goroutines.
// The pool itself only executes; completion tracking belongs to a Batch,
// so callers sharing one pool never share a WaitGroup.
type WorkerPool struct {
	workers  int
	jobQueue chan func()
	once     sync.Once
}

// NewWorkerPool creates a pool with the given worker count; values <= 0
// fall back to runtime.NumCPU().
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &WorkerPool{
		workers:  workers,
		jobQueue: make(chan func(), workers*2),
	}
}

// Start launches the workers. Safe to call more than once.
func (wp *WorkerPool) Start() {
	wp.once.Do(func() {
		for i := 0; i < wp.workers; i++ {
			go wp.worker()
		}
	})
}

func (wp *WorkerPool) worker() {
	for job := range wp.jobQueue {
		job()
	}
}

// Close shuts the pool down. No Submit may follow.
func (wp *WorkerPool) Close() {
	close(wp.jobQueue)
}

// Batch groups the jobs of one caller. Each batch carries its own
// WaitGroup: Add happens before enqueue and Wait is called by the one
// goroutine that submitted, so concurrent batches on a shared pool
// cannot trip WaitGroup reuse.
type Batch struct {
	pool *WorkerPool
	wg   sync.WaitGroup
}

// NewBatch creates an empty batch on this pool.
func (wp *WorkerPool) NewBatch() *Batch {
	return &Batch{pool: wp}
}

// Submit queues a job belonging to this batch.
func (b *Batch) Submit(job func()) {
	b.wg.Add(1)
	b.pool.jobQueue <- func() {
		defer b.wg.Done()
		job()
	}
}

// Wait blocks until every job submitted to this batch has run.
func (b *Batch) Wait() {
	b.wg.Wait()
}
