package ocean

import (
	"math"
)

// Spectral derivatives of h(k,t). Each of these is Hermitian whenever h is,
// except on the Nyquist line where -k folds back onto k: there an odd
// derivative would break the symmetry, so that bin is dropped.
//
//	displacement  D~ = i * (k/|k|) * h~
//	slope         S~ = i *  k      * h~
//
// With this sign a positive choppiness pulls points towards the crests.

// packedSpectra fills the frequency-domain inputs for one frame.
// Two real fields share one complex transform as X + iY; the inverse of a
// Hermitian X is real and the inverse of iY is purely imaginary, so the two
// separate cleanly afterwards.
//
// Layout:
//
//	work[0] = h + i*Dx
//	work[1] = Dz + i*Sx   (spectral normals) | Dz (finite-difference normals)
//	work[2] = Sz          (spectral normals only)
func (s *Simulation) packedSpectra(h []complex128, j0, j1 int) {
	n := s.params.N
	spectral := s.params.Normals == NormalsSpectral
	for j := j0; j < j1; j++ {
		for i := 0; i < n; i++ {
			idx := j*n + i
			hk := h[idx]
			kx, kz := s.params.WaveVector(i, j)
			k := math.Hypot(kx, kz)

			ih := mulI(hk)
			var dx, dz complex128
			if k > 0 {
				dx = ih * complex(kx/k, 0)
				dz = ih * complex(kz/k, 0)
			}
			sx := ih * complex(kx, 0)
			sz := ih * complex(kz, 0)
			if i == 0 {
				dx, sx = 0, 0
			}
			if j == 0 {
				dz, sz = 0, 0
			}

			s.work[0][idx] = hk + mulI(dx)
			if spectral {
				s.work[1][idx] = dz + mulI(sx)
				s.work[2][idx] = sz
			} else {
				s.work[1][idx] = dz
			}
		}
	}
}

// unpack writes the sign-corrected spatial fields for rows [y0, y1).
func (s *Simulation) unpack(y0, y1 int) {
	n := s.params.N
	f := &s.fields
	spectral := s.params.Normals == NormalsSpectral
	for y := y0; y < y1; y++ {
		for x := 0; x < n; x++ {
			idx := y*n + x
			sign := checkerSign(x, y)

			a := s.work[0][idx]
			b := s.work[1][idx]
			f.Height[idx] = float32(sign * real(a))
			f.Displacement[2*idx] = float32(sign * imag(a))
			f.Displacement[2*idx+1] = float32(sign * real(b))

			if spectral {
				slopeX := sign * imag(b)
				slopeZ := sign * real(s.work[2][idx])
				setNormal(f.Normal[3*idx:3*idx+3], slopeX, slopeZ)
			}
		}
	}
}

// finiteDifferenceNormals derives normals for rows [y0, y1) from central
// differences of the height field. Neighbour lookups wrap toroidally.
func (s *Simulation) finiteDifferenceNormals(y0, y1 int) {
	n := s.params.N
	f := &s.fields
	inv := 1 / (2 * s.params.CellSize())
	for y := y0; y < y1; y++ {
		up := wrapIndex(y-1, n) * n
		down := wrapIndex(y+1, n) * n
		row := y * n
		for x := 0; x < n; x++ {
			left := wrapIndex(x-1, n)
			right := wrapIndex(x+1, n)
			slopeX := float64(f.Height[row+right]-f.Height[row+left]) * inv
			slopeZ := float64(f.Height[down+x]-f.Height[up+x]) * inv
			setNormal(f.Normal[3*(row+x):3*(row+x)+3], slopeX, slopeZ)
		}
	}
}

// residual returns the largest imaginary magnitude in the transforms that
// carry a single real field. For a Hermitian input it stays at rounding level.
func (s *Simulation) residual() float64 {
	last := s.work[1]
	if s.params.Normals == NormalsSpectral {
		last = s.work[2]
	}
	var worst float64
	for _, v := range last {
		worst = math.Max(worst, math.Abs(imag(v)))
	}
	return worst
}

// setNormal writes the unit normal (-sx, 1, -sz)/len into dst.
func setNormal(dst []float32, slopeX, slopeZ float64) {
	inv := 1 / math.Sqrt(slopeX*slopeX+1+slopeZ*slopeZ)
	dst[0] = float32(-slopeX * inv)
	dst[1] = float32(inv)
	dst[2] = float32(-slopeZ * inv)
}

func mulI(c complex128) complex128 {
	return complex(-imag(c), real(c))
}

// wrapIndex maps i into [0, n).
func wrapIndex(i, n int) int {
	return ((i % n) + n) % n
}
