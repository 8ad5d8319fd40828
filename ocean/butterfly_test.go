package ocean

import (
	"errors"
	"math"
	"math/cmplx"
	"math/rand/v2"
	"testing"
)

func TestButterflyTableRejects(t *testing.T) {
	for _, n := range []int{-4, 0, 1, 3, 12, 100} {
		if _, err := NewButterflyTable(n); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("NewButterflyTable(%d) error = %v, want ErrInvalidConfig", n, err)
		}
	}
}

func TestButterflyTableShape(t *testing.T) {
	tests := []struct {
		n      int
		stages int
	}{
		{2, 1},
		{8, 3},
		{64, 6},
		{1024, 10},
	}
	for _, tt := range tests {
		table, err := NewButterflyTable(tt.n)
		if err != nil {
			t.Fatal(err)
		}
		if table.Stages != tt.stages {
			t.Errorf("N=%d: stages = %d, want %d", tt.n, table.Stages, tt.stages)
		}
		if len(table.Entries) != tt.n*tt.stages {
			t.Errorf("N=%d: entries = %d, want %d", tt.n, len(table.Entries), tt.n*tt.stages)
		}
		for i, b := range table.Entries {
			if b.A < 0 || int(b.A) >= tt.n || b.B < 0 || int(b.B) >= tt.n {
				t.Fatalf("N=%d entry %d: source pair (%d, %d) out of range", tt.n, i, b.A, b.B)
			}
			if math.Abs(cmplx.Abs(b.Twiddle)-1) > 1e-12 {
				t.Fatalf("N=%d entry %d: |twiddle| = %v", tt.n, i, cmplx.Abs(b.Twiddle))
			}
		}
	}
}

func TestButterflyTableFirstStageBitReversed(t *testing.T) {
	table, err := NewButterflyTable(8)
	if err != nil {
		t.Fatal(err)
	}
	// Bit reversal of 0..7 over three bits.
	rev := []int32{0, 4, 2, 6, 1, 5, 3, 7}
	for x := 0; x < 8; x += 2 {
		top, bottom := table.At(0, x), table.At(0, x+1)
		if top.A != rev[x] || top.B != rev[x+1] {
			t.Errorf("stage 0 pos %d: (%d, %d), want (%d, %d)", x, top.A, top.B, rev[x], rev[x+1])
		}
		if bottom.A != rev[x] || bottom.B != rev[x+1] {
			t.Errorf("stage 0 pos %d: (%d, %d), want (%d, %d)", x+1, bottom.A, bottom.B, rev[x], rev[x+1])
		}
		if top.Twiddle != 1 {
			t.Errorf("stage 0 pos %d: twiddle %v, want 1", x, top.Twiddle)
		}
		if cmplx.Abs(bottom.Twiddle+1) > 1e-15 {
			t.Errorf("stage 0 pos %d: twiddle %v, want -1", x+1, bottom.Twiddle)
		}
	}
}

// applyTable runs a 1D transform using the table alone.
func applyTable(table *ButterflyTable, in []complex128, inverse bool) []complex128 {
	src := append([]complex128(nil), in...)
	dst := make([]complex128, len(in))
	for s := 0; s < table.Stages; s++ {
		for x, b := range table.Stage(s) {
			w := b.Twiddle
			if inverse {
				w = cmplx.Conj(w)
			}
			dst[x] = src[b.A] + w*src[b.B]
		}
		src, dst = dst, src
	}
	return src
}

func naiveDFT(in []complex128, sign float64) []complex128 {
	n := len(in)
	out := make([]complex128, n)
	for k := range out {
		var sum complex128
		for x, v := range in {
			sum += v * cmplx.Rect(1, sign*2*math.Pi*float64(k*x)/float64(n))
		}
		out[k] = sum
	}
	return out
}

func TestButterflyTableMatchesDFT(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	for _, n := range []int{2, 4, 8, 16, 64} {
		table, err := NewButterflyTable(n)
		if err != nil {
			t.Fatal(err)
		}
		in := make([]complex128, n)
		for i := range in {
			in[i] = complex(rng.NormFloat64(), rng.NormFloat64())
		}

		for _, inverse := range []bool{false, true} {
			sign := -1.0
			if inverse {
				sign = 1
			}
			got := applyTable(table, in, inverse)
			want := naiveDFT(in, sign)
			for k := range want {
				if cmplx.Abs(got[k]-want[k]) > 1e-9 {
					t.Errorf("N=%d inverse=%v bin %d: got %v, want %v", n, inverse, k, got[k], want[k])
				}
			}
		}
	}
}
