/*
Package parallel runs batches of jobs on a bounded number of goroutines.

A Pool does not live beyond a call: ExecuteAll starts its workers, hands
them the jobs, waits for all of them to finish and returns. Nothing is left
running in the background.
*/
package parallel

import (
	"sync"
)

// DefaultWorkers is the worker cap used if none is given.
const DefaultWorkers = 15

// Pool is a bounded worker pool.
//
// Thread safety: Pool is safe for concurrent use; concurrent calls to
// ExecuteAll each start their own set of workers.
type Pool struct {
	workers int
}

// NewPool creates a pool running at most workers jobs at a time.
// If workers is 0 or negative, DefaultWorkers is used.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Pool{workers: workers}
}

// Workers returns the pool's cap.
func (p *Pool) Workers() int {
	return p.workers
}

// ExecuteAll runs all work items and waits for them to complete.
// At most Workers() items run concurrently. Items may complete in any order.
func (p *Pool) ExecuteAll(work []func()) {
	if len(work) == 0 {
		return
	}
	n := min(p.workers, len(work)) // sized once per call
	queue := make(chan func())
	var wg sync.WaitGroup
	wg.Add(n)
	for range n {
		go func() {
			defer wg.Done()
			for job := range queue {
				job()
			}
		}()
	}
	for _, job := range work {
		if job != nil {
			queue <- job
		}
	}
	close(queue)
	wg.Wait()
}

// ForEach calls fn for every index in [0,n) on the pool and waits for all
// calls to return.
func (p *Pool) ForEach(n int, fn func(i int)) {
	work := make([]func(), n)
	for i := range work {
		work[i] = func() { fn(i) }
	}
	p.ExecuteAll(work)
}
