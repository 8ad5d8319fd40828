package ocean

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestPoolCoversEveryItemOnce(t *testing.T) {
	tests := []struct {
		name    string
		workers int
		n       int
	}{
		{"inline small", 4, 8},
		{"single worker", 1, 1000},
		{"even split", 4, 1024},
		{"uneven split", 3, 1000},
		{"more workers than items", 64, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool := NewPool(tt.workers)
			defer pool.Close()

			hits := make([]int32, tt.n)
			pool.Dispatch(tt.n, func(start, end int) {
				for i := start; i < end; i++ {
					atomic.AddInt32(&hits[i], 1)
				}
			})
			for i, h := range hits {
				if h != 1 {
					t.Fatalf("item %d visited %d times", i, h)
				}
			}
		})
	}
}

func TestPoolDispatchIsBarrier(t *testing.T) {
	pool := NewPool(4)
	defer pool.Close()

	n := 512
	a := make([]int, n)
	b := make([]int, n)
	for stage := 0; stage < 10; stage++ {
		// Every item reads a neighbour written by some other chunk.
		pool.Dispatch(n, func(start, end int) {
			for i := start; i < end; i++ {
				b[i] = a[(i+n/2)%n] + 1
			}
		})
		a, b = b, a
	}
	for i, v := range a {
		if v != 10 {
			t.Fatalf("item %d = %d after 10 stages, want 10", i, v)
		}
	}
}

func TestPoolConcurrentDispatch(t *testing.T) {
	pool := NewPool(4)
	defer pool.Close()

	var wg sync.WaitGroup
	var total atomic.Int64
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pool.Dispatch(1000, func(start, end int) {
				total.Add(int64(end - start))
			})
		}()
	}
	wg.Wait()
	if got := total.Load(); got != 8000 {
		t.Errorf("total items = %d, want 8000", got)
	}
}

func TestPoolCloseIdempotent(t *testing.T) {
	pool := NewPool(2)
	pool.Close()
	pool.Close()
}

func TestPoolDefaultWorkers(t *testing.T) {
	pool := NewPool(0)
	defer pool.Close()
	if pool.Workers() < 1 {
		t.Errorf("Workers() = %d, want >= 1", pool.Workers())
	}
}
