package ocean

// Fields is the output of one frame. All grids are row-major N*N with
// x along rows and z down columns; cell (x, z) sits at world position
// (x, z) * PatchSize / N and the patch tiles seamlessly.
type Fields struct {
	N    int
	Time float64

	// Height is the vertical offset per cell.
	Height []float32
	// Displacement holds the horizontal (dx, dz) offset per cell,
	// already scaled by choppiness.
	Displacement []float32
	// Normal holds a unit (nx, ny, nz) per cell with ny > 0.
	Normal []float32

	// Residual is the largest imaginary magnitude left in an inverse
	// transform whose input should have been Hermitian. Values far above
	// float rounding indicate a broken spectrum.
	Residual float64
}

func newFields(n int) Fields {
	return Fields{
		N:            n,
		Height:       make([]float32, n*n),
		Displacement: make([]float32, 2*n*n),
		Normal:       make([]float32, 3*n*n),
	}
}

// HeightAt returns the height at cell (x, z). Indices wrap.
func (f *Fields) HeightAt(x, z int) float32 {
	return f.Height[f.index(x, z)]
}

// DisplacementAt returns the horizontal displacement at cell (x, z).
func (f *Fields) DisplacementAt(x, z int) (dx, dz float32) {
	i := 2 * f.index(x, z)
	return f.Displacement[i], f.Displacement[i+1]
}

// NormalAt returns the unit normal at cell (x, z).
func (f *Fields) NormalAt(x, z int) (nx, ny, nz float32) {
	i := 3 * f.index(x, z)
	return f.Normal[i], f.Normal[i+1], f.Normal[i+2]
}

func (f *Fields) index(x, z int) int {
	return wrapIndex(z, f.N)*f.N + wrapIndex(x, f.N)
}

// Clone returns a deep copy.
func (f *Fields) Clone() *Fields {
	c := *f
	c.Height = append([]float32(nil), f.Height...)
	c.Displacement = append([]float32(nil), f.Displacement...)
	c.Normal = append([]float32(nil), f.Normal...)
	return &c
}
