package telemetry

import (
	"math"
	"testing"

	"github.com/pthm-cable/swell/ocean"
)

func TestRadialSpectrumSinusoid(t *testing.T) {
	const n = 64
	// Four wavelengths across a 64 m patch: k = 2*pi*4/64.
	height := make([]float32, n*n)
	for z := 0; z < n; z++ {
		for x := 0; x < n; x++ {
			height[z*n+x] = float32(math.Cos(2 * math.Pi * 4 * float64(x) / n))
		}
	}

	bins := RadialSpectrum(height, n, n, 20)
	wantK := 2 * math.Pi * 4 / n
	if got := PeakK(bins); math.Abs(got-wantK) > 1e-9 {
		t.Errorf("PeakK = %v, want %v", got, wantK)
	}

	var total float64
	count := 0
	for _, b := range bins {
		total += b.Energy
		count += b.Count
	}
	// Parseval: energy equals mean(h^2) = 1/2.
	if math.Abs(total-0.5) > 1e-5 {
		t.Errorf("total energy = %v, want 0.5", total)
	}
	if count != n*n {
		t.Errorf("binned %d wave vectors, want %d", count, n*n)
	}
}

func TestRadialSpectrumOcean(t *testing.T) {
	p := ocean.DefaultParams()
	p.N = 64
	p.PatchSize = 64
	sim, err := ocean.Initialize(p, ocean.WithLogger(quietLogger))
	if err != nil {
		t.Fatal(err)
	}
	defer sim.Close()
	f, err := sim.StepFrame(4)
	if err != nil {
		t.Fatal(err)
	}

	bins := RadialSpectrum(f.Height, f.N, p.PatchSize, 20)
	// A 15 m/s wind puts the spectral peak below the patch fundamental,
	// so energy concentrates in the lowest bins.
	if peak := PeakK(bins); peak > 0.3 {
		t.Errorf("PeakK = %v, want < 0.3", peak)
	}

	var total, meanSq float64
	for _, b := range bins {
		total += b.Energy
	}
	for _, h := range f.Height {
		meanSq += float64(h) * float64(h)
	}
	meanSq /= float64(len(f.Height))
	if math.Abs(total-meanSq) > 1e-6*meanSq {
		t.Errorf("binned energy %v, want ~mean(h^2) %v", total, meanSq)
	}
}

func TestRadialSpectrumCornerEnergy(t *testing.T) {
	const n = 64
	// A diagonal wave at (31, 31) cycles per patch lies outside the
	// Nyquist circle.
	height := make([]float32, n*n)
	for z := 0; z < n; z++ {
		for x := 0; x < n; x++ {
			height[z*n+x] = float32(math.Cos(2 * math.Pi * 31 * float64(x+z) / n))
		}
	}

	bins := RadialSpectrum(height, n, n, 16)
	last := bins[len(bins)-1]
	if math.Abs(last.Energy-0.5) > 1e-5 {
		t.Errorf("last bin energy = %v, want 0.5", last.Energy)
	}
	var total float64
	for _, b := range bins {
		total += b.Energy
	}
	if math.Abs(total-0.5) > 1e-5 {
		t.Errorf("total energy = %v, want 0.5", total)
	}
}

func TestPeakKEmpty(t *testing.T) {
	if got := PeakK(nil); got != 0 {
		t.Errorf("PeakK(nil) = %v, want 0", got)
	}
}

func BenchmarkRadialSpectrum(b *testing.B) {
	const n = 256
	height := make([]float32, n*n)
	for i := range height {
		height[i] = float32(math.Sin(float64(i)))
	}
	sa := NewSpectrumAnalyzer(n, n, 64)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		sa.Radial(height)
	}
}
