package ocean

import "math/cmplx"

// Sample is the working precision of a transform. complex64 is enough for
// real-time use; complex128 is used for verification.
type Sample interface {
	complex64 | complex128
}

// Precision names a working precision in configuration.
type Precision string

const (
	PrecisionFloat32 Precision = "float32"
	PrecisionFloat64 Precision = "float64"
)

// transformer is an N*N inverse 2D FFT that reads and writes a complex128
// grid in place. The CPU engine and the OpenCL backend both implement it.
type transformer interface {
	inverse(work []complex128) error
	Close() error
}

// Engine runs 2D FFTs as a horizontal then a vertical pass of log2(N)
// butterfly stages each. Every stage reads one buffer and writes the other,
// with a pool barrier in between, so no stage ever sees a partially updated
// predecessor. An Engine owns its buffers and is not safe for concurrent use.
type Engine[T Sample] struct {
	n     int
	table *ButterflyTable
	pool  *Pool

	forwardTw []T // per-entry twiddles, stage-major like table.Entries
	inverseTw []T

	ping, pong []T
}

// NewEngine builds an engine for table.N x table.N grids.
func NewEngine[T Sample](table *ButterflyTable, pool *Pool) *Engine[T] {
	n := table.N
	e := &Engine[T]{
		n:         n,
		table:     table,
		pool:      pool,
		forwardTw: make([]T, len(table.Entries)),
		inverseTw: make([]T, len(table.Entries)),
		ping:      make([]T, n*n),
		pong:      make([]T, n*n),
	}
	for i, b := range table.Entries {
		e.forwardTw[i] = T(b.Twiddle)
		e.inverseTw[i] = T(cmplx.Conj(b.Twiddle))
	}
	return e
}

// Size returns the grid side length.
func (e *Engine[T]) Size() int {
	return e.n
}

// Inverse2D replaces work with its unnormalized inverse DFT:
// out[x,y] = sum over (i,j) of work[i,j] * e^{+2pi i (ix + jy)/N}.
// No sign correction is applied; see SignCorrect.
func (e *Engine[T]) Inverse2D(work []complex128) {
	e.transform(work, e.inverseTw)
}

// Forward2D replaces work with its unnormalized forward DFT.
func (e *Engine[T]) Forward2D(work []complex128) {
	e.transform(work, e.forwardTw)
}

func (e *Engine[T]) inverse(work []complex128) error {
	e.Inverse2D(work)
	return nil
}

// Close is a no-op for the CPU engine; the pool belongs to the caller.
func (e *Engine[T]) Close() error {
	return nil
}

func (e *Engine[T]) transform(work []complex128, twiddles []T) {
	mustMatchSize("transform grid", len(work), e.n*e.n)
	mustMatchSize("butterfly table", e.table.N, e.n)

	for i, v := range work {
		e.ping[i] = T(v)
	}
	src, dst := e.ping, e.pong
	for s := 0; s < e.table.Stages; s++ {
		e.horizontalStage(s, src, dst, twiddles)
		src, dst = dst, src
	}
	for s := 0; s < e.table.Stages; s++ {
		e.verticalStage(s, src, dst, twiddles)
		src, dst = dst, src
	}
	for i, v := range src {
		work[i] = complex128(v)
	}
}

// horizontalStage applies stage s along every row.
func (e *Engine[T]) horizontalStage(s int, src, dst, twiddles []T) {
	n := e.n
	entries := e.table.Stage(s)
	tw := twiddles[s*n : (s+1)*n]
	e.pool.Dispatch(n, func(j0, j1 int) {
		for j := j0; j < j1; j++ {
			row := j * n
			in := src[row : row+n]
			out := dst[row : row+n]
			for x, b := range entries {
				out[x] = in[b.A] + tw[x]*in[b.B]
			}
		}
	})
}

// verticalStage applies stage s along every column. Output rows are split
// across workers; each output row combines two whole input rows.
func (e *Engine[T]) verticalStage(s int, src, dst, twiddles []T) {
	n := e.n
	entries := e.table.Stage(s)
	tw := twiddles[s*n : (s+1)*n]
	e.pool.Dispatch(n, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			b := entries[y]
			w := tw[y]
			rowA := src[int(b.A)*n : int(b.A)*n+n]
			rowB := src[int(b.B)*n : int(b.B)*n+n]
			out := dst[y*n : y*n+n]
			for x := range out {
				out[x] = rowA[x] + w*rowB[x]
			}
		}
	})
}

// SignCorrect multiplies every sample by (-1)^(x+y). With the zero frequency
// stored at (N/2, N/2), this turns a plain inverse DFT into the sum over the
// centred wave vectors.
func SignCorrect(work []complex128, n int) {
	mustMatchSize("sign correction grid", len(work), n*n)
	for y := 0; y < n; y++ {
		row := work[y*n : y*n+n]
		for x := (y + 1) & 1; x < n; x += 2 {
			row[x] = -row[x]
		}
	}
}

// checkerSign returns (-1)^(x+y) as a float.
func checkerSign(x, y int) float64 {
	if (x+y)&1 == 1 {
		return -1
	}
	return 1
}
