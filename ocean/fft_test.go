package ocean

import (
	"math"
	"math/cmplx"
	"math/rand/v2"
	"strconv"
	"testing"

	"gonum.org/v1/gonum/dsp/fourier"
)

func newTestEngine[T Sample](t testing.TB, n int, pool *Pool) *Engine[T] {
	t.Helper()
	table, err := NewButterflyTable(n)
	if err != nil {
		t.Fatal(err)
	}
	return NewEngine[T](table, pool)
}

func randomGrid(n int, seed uint64) []complex128 {
	rng := rand.New(rand.NewPCG(seed, seed+1))
	g := make([]complex128, n*n)
	for i := range g {
		g[i] = complex(rng.NormFloat64(), rng.NormFloat64())
	}
	return g
}

// reference2D computes the unnormalized 2D DFT with gonum, rows then columns.
func reference2D(in []complex128, n int, inverse bool) []complex128 {
	fft := fourier.NewCmplxFFT(n)
	out := append([]complex128(nil), in...)
	line := make([]complex128, n)
	apply := func(buf []complex128) {
		copy(line, buf)
		if inverse {
			fft.Sequence(buf, line)
		} else {
			fft.Coefficients(buf, line)
		}
	}
	for y := 0; y < n; y++ {
		apply(out[y*n : y*n+n])
	}
	col := make([]complex128, n)
	for x := 0; x < n; x++ {
		for y := 0; y < n; y++ {
			col[y] = out[y*n+x]
		}
		apply(col)
		for y := 0; y < n; y++ {
			out[y*n+x] = col[y]
		}
	}
	return out
}

func maxAbsDiff(a, b []complex128) float64 {
	var worst float64
	for i := range a {
		worst = math.Max(worst, cmplx.Abs(a[i]-b[i]))
	}
	return worst
}

func TestEngineMatchesGonum(t *testing.T) {
	pool := NewPool(4)
	defer pool.Close()

	for _, n := range []int{64, 128} {
		in := randomGrid(n, uint64(n))
		e := newTestEngine[complex128](t, n, pool)

		for _, inverse := range []bool{false, true} {
			got := append([]complex128(nil), in...)
			if inverse {
				e.Inverse2D(got)
			} else {
				e.Forward2D(got)
			}
			want := reference2D(in, n, inverse)
			if d := maxAbsDiff(got, want); d > 1e-8 {
				t.Errorf("N=%d inverse=%v: max diff %g", n, inverse, d)
			}
		}
	}
}

func TestEngineFloat32Accuracy(t *testing.T) {
	pool := NewPool(0)
	defer pool.Close()

	n := 256
	in := randomGrid(n, 3)
	single := append([]complex128(nil), in...)
	double := append([]complex128(nil), in...)

	newTestEngine[complex64](t, n, pool).Inverse2D(single)
	newTestEngine[complex128](t, n, pool).Inverse2D(double)

	// Output magnitudes are around N; float32 keeps ~7 digits.
	if d := maxAbsDiff(single, double); d > 1e-2 {
		t.Errorf("float32 vs float64 max diff %g", d)
	}
}

func TestEngineRoundTrip(t *testing.T) {
	pool := NewPool(2)
	defer pool.Close()

	n := 64
	in := randomGrid(n, 9)
	work := append([]complex128(nil), in...)
	e := newTestEngine[complex128](t, n, pool)
	e.Forward2D(work)
	e.Inverse2D(work)

	scale := complex(1/float64(n*n), 0)
	for i := range work {
		work[i] *= scale
	}
	if d := maxAbsDiff(work, in); d > 1e-10 {
		t.Errorf("round trip max diff %g", d)
	}
}

// Property: a single frequency-domain impulse becomes a closed-form sinusoid.
func TestImpulseMatchesSinusoid(t *testing.T) {
	pool := NewPool(0)
	defer pool.Close()

	tests := []struct {
		n     int
		i, j  int
		value complex128
	}{
		{64, 64/2 + 3, 64/2 - 5, 1},
		{64, 64/2 - 1, 64 / 2, complex(0.5, -2)},
		{256, 256/2 + 17, 256/2 + 40, complex(-1.5, 0.25)},
		{256, 0, 256 / 2, 1},
	}

	for _, tt := range tests {
		e := newTestEngine[complex128](t, tt.n, pool)
		work := make([]complex128, tt.n*tt.n)
		work[tt.j*tt.n+tt.i] = tt.value
		e.Inverse2D(work)
		SignCorrect(work, tt.n)

		// Integer wave numbers relative to the centred zero frequency.
		u := float64(tt.i - tt.n/2)
		v := float64(tt.j - tt.n/2)
		var worst float64
		for y := 0; y < tt.n; y++ {
			for x := 0; x < tt.n; x++ {
				phase := 2 * math.Pi * (u*float64(x) + v*float64(y)) / float64(tt.n)
				want := tt.value * cmplx.Rect(1, phase)
				worst = math.Max(worst, cmplx.Abs(work[y*tt.n+x]-want))
			}
		}
		if worst > 1e-9 {
			t.Errorf("N=%d impulse at (%d,%d): max deviation %g", tt.n, tt.i, tt.j, worst)
		}
	}
}

func TestSignCorrect(t *testing.T) {
	n := 4
	work := make([]complex128, n*n)
	for i := range work {
		work[i] = 1
	}
	SignCorrect(work, n)
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			want := complex(checkerSign(x, y), 0)
			if work[y*n+x] != want {
				t.Errorf("(%d,%d) = %v, want %v", x, y, work[y*n+x], want)
			}
		}
	}
	if work[0] != 1 {
		t.Errorf("origin flipped: %v", work[0])
	}
}

func TestEngineSizeMismatchPanics(t *testing.T) {
	pool := NewPool(1)
	defer pool.Close()
	e := newTestEngine[complex64](t, 64, pool)
	defer func() {
		if recover() == nil {
			t.Error("expected panic for mismatched grid")
		}
	}()
	e.Inverse2D(make([]complex128, 128*128))
}

func BenchmarkInverse2D(b *testing.B) {
	for _, n := range []int{256, 512} {
		pool := NewPool(0)
		in := randomGrid(n, 1)
		work := make([]complex128, len(in))
		b.Run("complex64/"+strconv.Itoa(n), func(b *testing.B) {
			e := newTestEngine[complex64](b, n, pool)
			for i := 0; i < b.N; i++ {
				copy(work, in)
				e.Inverse2D(work)
			}
		})
		b.Run("complex128/"+strconv.Itoa(n), func(b *testing.B) {
			e := newTestEngine[complex128](b, n, pool)
			for i := 0; i < b.N; i++ {
				copy(work, in)
				e.Inverse2D(work)
			}
		})
		pool.Close()
	}
}

func BenchmarkGonumReference256(b *testing.B) {
	work := randomGrid(256, 1)
	for i := 0; i < b.N; i++ {
		reference2D(work, 256, true)
	}
}

func TestEngineTransformerInverse(t *testing.T) {
	pool := NewPool(2)
	defer pool.Close()

	n := 32
	in := randomGrid(n, 11)
	e := newTestEngine[complex128](t, n, pool)

	var tr transformer = e
	got := append([]complex128(nil), in...)
	if err := tr.inverse(got); err != nil {
		t.Fatal(err)
	}
	want := reference2D(in, n, true)
	if d := maxAbsDiff(got, want); d > 1e-9 {
		t.Errorf("transformer inverse: max diff %g", d)
	}
	if err := tr.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}
