package ocean

import "math/cmplx"

// PackConjugate fills dst[i,j] = conj(h0[(N-i) mod N, (N-j) mod N]) for every
// cell, including the wrap-around at index 0. Both slices are row-major N*N.
func PackConjugate(dst, h0 []complex128, n int) {
	mustMatchSize("conjugate destination", len(dst), n*n)
	mustMatchSize("base spectrum", len(h0), n*n)
	for j := 0; j < n; j++ {
		mj := mirror(j, n)
		for i := 0; i < n; i++ {
			dst[j*n+i] = cmplx.Conj(h0[mj*n+mirror(i, n)])
		}
	}
}

// mirror returns the index holding -k for index i.
func mirror(i, n int) int {
	return (n - i) % n
}
