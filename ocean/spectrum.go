package ocean

import (
	"math"
)

const twoPi = 2 * math.Pi

// Phillips returns the Phillips spectrum P(k) for wave vector (kx, kz):
//
//	P(k) = A * exp(-1/(k*L)^2) / k^4 * (k^ . w^)^2 * exp(-k^2 * l^2)
//
// with L = V^2/g. The DC term is excluded: P(0) == 0.
func Phillips(kx, kz float64, p Params) float64 {
	k2 := kx*kx + kz*kz
	if k2 == 0 {
		return 0
	}
	k := math.Sqrt(k2)
	wind := p.WindUnit()
	lw := p.WindLength()

	cosine := (kx*wind.X + kz*wind.Y) / k
	damping := math.Exp(-k2 * p.SmallWaveCutoff * p.SmallWaveCutoff)
	return p.Amplitude * math.Exp(-1/(k2*lw*lw)) / (k2 * k2) * cosine * cosine * damping
}

// ExpectedVariance returns the ensemble mean of the spatial height
// variance for p. Each cell contributes |h0(k)|^2 + |h0(-k)|^2, whose
// expectation is 2 P(k) since P is even in k.
func ExpectedVariance(p Params) float64 {
	var sum float64
	for j := 0; j < p.N; j++ {
		for i := 0; i < p.N; i++ {
			kx, kz := p.WaveVector(i, j)
			sum += Phillips(kx, kz, p)
		}
	}
	return 2 * sum
}

// ExpectedHs returns the significant wave height 4 * sqrt(ExpectedVariance).
func ExpectedHs(p Params) float64 {
	return 4 * math.Sqrt(ExpectedVariance(p))
}

// Dispersion returns the deep-water angular frequency w(k) = sqrt(g*|k|).
func Dispersion(kx, kz, gravity float64) float64 {
	return math.Sqrt(gravity * math.Hypot(kx, kz))
}

// Spectrum holds the immutable base spectrum h0 and its conjugate-packed
// companion for one set of grid and wind parameters. It is safe for
// concurrent reads once returned by NewSpectrum.
type Spectrum struct {
	N      int
	Params Params

	H0     []complex128 // h0(k), row-major, DC at (N/2, N/2)
	H0Conj []complex128 // conj(h0(-k))
	Omega  []float64    // w(k) per cell
}

// NewSpectrum samples the Phillips spectrum for p and packs its conjugate
// companion. The conjugate pass only starts once every h0 cell is written.
func NewSpectrum(p Params) (*Spectrum, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	n := p.N
	s := &Spectrum{
		N:      n,
		Params: p,
		H0:     make([]complex128, n*n),
		H0Conj: make([]complex128, n*n),
		Omega:  make([]float64, n*n),
	}

	src := newGaussianSource(p.Seed)
	half := n / 2
	for j := 0; j < n; j++ {
		row := j * n
		for i := 0; i < n; i++ {
			kx, kz := p.WaveVector(i, j)
			s.Omega[row+i] = Dispersion(kx, kz, p.Gravity)

			pk := Phillips(kx, kz, p)
			if pk == 0 {
				continue
			}
			xr, xi := src.pair(i-half, j-half)
			amp := math.Sqrt(pk / 2)
			s.H0[row+i] = complex(xr*amp, xi*amp)
		}
	}

	PackConjugate(s.H0Conj, s.H0, n)
	return s, nil
}

// Evolve writes h(k, t) = h0(k) e^{iwt} + h0conj(k) e^{-iwt} for every cell
// into dst. Repeated calls with the same t give identical results.
func (s *Spectrum) Evolve(dst []complex128, t float64) {
	s.evolveRows(dst, t, 0, s.N)
}

// evolveRows evolves rows [j0, j1). Rows are independent, so the driver
// splits this across workers.
func (s *Spectrum) evolveRows(dst []complex128, t float64, j0, j1 int) {
	mustMatchSize("evolve destination", len(dst), s.N*s.N)
	n := s.N
	dc := (n/2)*n + n/2
	for j := j0; j < j1; j++ {
		for idx := j * n; idx < (j+1)*n; idx++ {
			if idx == dc {
				dst[idx] = 0
				continue
			}
			phase := math.Mod(s.Omega[idx]*t, twoPi)
			sin, cos := math.Sincos(phase)
			e := complex(cos, sin)
			eConj := complex(cos, -sin)
			dst[idx] = s.H0[idx]*e + s.H0Conj[idx]*eConj
		}
	}
}
