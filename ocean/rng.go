package ocean

import "math/rand/v2"

// gaussianSource draws the per-cell Gaussian pairs for the base spectrum.
// The stream is keyed by wave vector rather than by visit order, so the same
// seed gives the same amplitude for a given k at every grid size and in any
// traversal order.
type gaussianSource struct {
	seed uint64
	pcg  *rand.PCG
	rng  *rand.Rand
}

func newGaussianSource(seed uint64) *gaussianSource {
	pcg := rand.NewPCG(seed, 0)
	return &gaussianSource{
		seed: seed,
		pcg:  pcg,
		rng:  rand.New(pcg),
	}
}

// pair returns two independent standard normal draws for the wave vector
// with integer offsets (dx, dz) from the zero frequency.
func (g *gaussianSource) pair(dx, dz int) (float64, float64) {
	key := uint64(uint32(int32(dx)))<<32 | uint64(uint32(int32(dz)))
	g.pcg.Seed(splitmix64(g.seed), splitmix64(key^0x9e3779b97f4a7c15))
	return g.rng.NormFloat64(), g.rng.NormFloat64()
}

// splitmix64 scrambles neighbouring keys into unrelated PCG states.
func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}
