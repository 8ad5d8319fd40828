package telemetry

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
)

// SpectrumBin is one annulus of the radially averaged height spectrum.
type SpectrumBin struct {
	K      float64 // bin centre in rad/m
	Energy float64 // summed |H(k)|^2, normalized so all bins add up to mean(h^2)
	Count  int     // wave vectors that fell in the bin
}

// SpectrumRow is the CSV form of a SpectrumBin.
type SpectrumRow struct {
	Frame  int32   `csv:"frame"`
	K      float64 `csv:"k"`
	Energy float64 `csv:"energy"`
	Count  int     `csv:"count"`
}

// SpectrumAnalyzer measures the spectrum actually present in a height
// field, independently of the simulation's own transform.
type SpectrumAnalyzer struct {
	n         int
	patchSize float64
	bins      int
	kMax      float64

	fft  *fourier.CmplxFFT
	grid []complex128
	line []complex128
	out  []complex128
}

// NewSpectrumAnalyzer creates an analyzer for n x n height fields over a
// patch of the given side length. Bins cover |k| up to the Nyquist
// wavenumber pi*n/patchSize; the diagonal wave vectors beyond it are
// counted in the last bin.
func NewSpectrumAnalyzer(n int, patchSize float64, bins int) *SpectrumAnalyzer {
	if bins < 1 {
		bins = 1
	}
	return &SpectrumAnalyzer{
		n:         n,
		patchSize: patchSize,
		bins:      bins,
		kMax:      math.Pi * float64(n) / patchSize,
		fft:       fourier.NewCmplxFFT(n),
		grid:      make([]complex128, n*n),
		line:      make([]complex128, n),
		out:       make([]complex128, n),
	}
}

// Radial returns the energy spectrum of height, binned by |k|.
func (sa *SpectrumAnalyzer) Radial(height []float32) []SpectrumBin {
	n := sa.n
	for i, h := range height[:n*n] {
		sa.grid[i] = complex(float64(h), 0)
	}

	for z := 0; z < n; z++ {
		row := sa.grid[z*n : (z+1)*n]
		sa.fft.Coefficients(sa.out, row)
		copy(row, sa.out)
	}
	for x := 0; x < n; x++ {
		for z := 0; z < n; z++ {
			sa.line[z] = sa.grid[z*n+x]
		}
		sa.fft.Coefficients(sa.out, sa.line)
		for z := 0; z < n; z++ {
			sa.grid[z*n+x] = sa.out[z]
		}
	}

	out := make([]SpectrumBin, sa.bins)
	width := sa.kMax / float64(sa.bins)
	for i := range out {
		out[i].K = (float64(i) + 0.5) * width
	}

	norm := 1 / (float64(n) * float64(n))
	norm *= norm
	for z := 0; z < n; z++ {
		for x := 0; x < n; x++ {
			k := sa.wavenumber(x, z)
			b := min(int(k/width), sa.bins-1)
			c := sa.grid[z*n+x]
			out[b].Energy += (real(c)*real(c) + imag(c)*imag(c)) * norm
			out[b].Count++
		}
	}
	return out
}

// wavenumber returns |k| for DFT output index (x, z).
func (sa *SpectrumAnalyzer) wavenumber(x, z int) float64 {
	fx, fz := signedFrequency(x, sa.n), signedFrequency(z, sa.n)
	return 2 * math.Pi / sa.patchSize * math.Hypot(float64(fx), float64(fz))
}

func signedFrequency(i, n int) int {
	if i >= n/2 {
		return i - n
	}
	return i
}

// RadialSpectrum is a one-shot SpectrumAnalyzer.Radial.
func RadialSpectrum(height []float32, n int, patchSize float64, bins int) []SpectrumBin {
	return NewSpectrumAnalyzer(n, patchSize, bins).Radial(height)
}

// PeakK returns the centre of the most energetic bin, or 0 for no bins.
func PeakK(bins []SpectrumBin) float64 {
	var peak SpectrumBin
	for _, b := range bins {
		if b.Energy > peak.Energy {
			peak = b
		}
	}
	return peak.K
}
