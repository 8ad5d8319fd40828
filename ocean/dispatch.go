package ocean

import (
	"runtime"
	"sync"
)

// parallelThreshold is the minimum item count to fan out to workers.
// Below this, running inline beats the channel round trips.
const parallelThreshold = 16

// workChunk is a range of items for one worker, plus the barrier it reports to.
type workChunk struct {
	start, end int
	fn         func(start, end int)
	done       *sync.WaitGroup
}

// Pool is a persistent set of worker goroutines standing in for a
// data-parallel device. Every Dispatch is a full barrier: it returns only
// after every chunk has been written, so the next dispatch always observes
// the complete output of the previous one. Dispatch may be called from
// several goroutines at once; each call waits only for its own chunks.
type Pool struct {
	numWorkers int

	workChan chan workChunk
	stopChan chan struct{}
	wg       sync.WaitGroup
	once     sync.Once
}

// NewPool starts a pool with the given number of workers.
// workers <= 0 uses GOMAXPROCS.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	p := &Pool{
		numWorkers: workers,
		workChan:   make(chan workChunk, workers),
		stopChan:   make(chan struct{}),
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

// Workers returns the number of worker goroutines.
func (p *Pool) Workers() int {
	return p.numWorkers
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.stopChan:
			return
		case chunk := <-p.workChan:
			chunk.fn(chunk.start, chunk.end)
			chunk.done.Done()
		}
	}
}

// Dispatch runs fn over [0, n) split into contiguous chunks, one per worker,
// and blocks until all of them finish. fn must only write items inside its
// own range.
func (p *Pool) Dispatch(n int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	if n < parallelThreshold || p.numWorkers == 1 {
		fn(0, n)
		return
	}

	chunkSize := (n + p.numWorkers - 1) / p.numWorkers
	var done sync.WaitGroup
	for w := 0; w < p.numWorkers; w++ {
		start := w * chunkSize
		end := min(start+chunkSize, n)
		if start >= end {
			continue
		}
		done.Add(1)
		p.workChan <- workChunk{start: start, end: end, fn: fn, done: &done}
	}
	done.Wait()
}

// Close stops the workers. Dispatch must not be called afterwards.
func (p *Pool) Close() {
	p.once.Do(func() {
		close(p.stopChan)
		p.wg.Wait()
	})
}
