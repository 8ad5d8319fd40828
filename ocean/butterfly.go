package ocean

import (
	"fmt"
	"math"
	"math/bits"
)

// Butterfly is one entry of the stage table: the output at a position is
// in[A] + w*in[B], where w is Twiddle for a forward transform and its
// conjugate for an inverse one.
type Butterfly struct {
	A, B    int32
	Twiddle complex128
}

// ButterflyTable precomputes, for an N-point radix-2 FFT, every stage's
// source pairs and twiddle factors. Stage 0 reads bit-reversed positions, so
// inputs and outputs are both in natural order. The table depends on N only
// and is shared read-only by every transform of that size.
type ButterflyTable struct {
	N      int
	Stages int
	// Entries is stage-major: Entries[s*N+x].
	Entries []Butterfly
}

// NewButterflyTable builds the table for an n-point transform.
func NewButterflyTable(n int) (*ButterflyTable, error) {
	if n < 2 || !isPowerOfTwo(n) {
		return nil, fmt.Errorf("butterfly table: size %d is not a power of two >= 2: %w", n, ErrInvalidConfig)
	}
	stages := log2(n)
	t := &ButterflyTable{
		N:       n,
		Stages:  stages,
		Entries: make([]Butterfly, stages*n),
	}

	for s := 0; s < stages; s++ {
		span := 1 << s
		group := span << 1
		stride := n / group
		for x := 0; x < n; x++ {
			j := x % group
			sin, cos := math.Sincos(-twoPi * float64(j*stride) / float64(n))

			var a, b int
			top := j < span
			switch {
			case s == 0 && top:
				a, b = bitReverse(x, stages), bitReverse(x+1, stages)
			case s == 0:
				a, b = bitReverse(x-1, stages), bitReverse(x, stages)
			case top:
				a, b = x, x+span
			default:
				a, b = x-span, x
			}
			t.Entries[s*n+x] = Butterfly{A: int32(a), B: int32(b), Twiddle: complex(cos, sin)}
		}
	}
	return t, nil
}

// At returns the entry for position pos of stage s.
func (t *ButterflyTable) At(s, pos int) Butterfly {
	return t.Entries[s*t.N+pos]
}

// Stage returns the N entries of stage s.
func (t *ButterflyTable) Stage(s int) []Butterfly {
	return t.Entries[s*t.N : (s+1)*t.N]
}

// bitReverse reverses the low width bits of x.
func bitReverse(x, width int) int {
	return int(bits.Reverse(uint(x)) >> (bits.UintSize - width))
}
