package ocean

import (
	"fmt"
	"log/slog"
	"math"
	"sync"

	"gonum.org/v1/gonum/blas/blas32"
)

// Backend selects where the FFT stages run.
type Backend string

const (
	BackendCPU    Backend = "cpu"
	BackendOpenCL Backend = "opencl"
)

// Phase names reported to a PhaseTimer during StepFrame.
const (
	PhaseEvolve = "evolve"
	PhaseFFT    = "fft"
	PhaseDerive = "derive"
)

// PhaseTimer receives a call at the start of each frame phase.
// telemetry.PerfCollector satisfies it.
type PhaseTimer interface {
	StartPhase(phase string)
}

type options struct {
	pool      *Pool
	workers   int
	precision Precision
	backend   Backend
	timer     PhaseTimer
	logger    *slog.Logger
}

// Option configures Initialize.
type Option func(*options)

// WithPool runs the simulation on an existing pool. The caller keeps
// ownership and must close it after the simulation.
func WithPool(p *Pool) Option {
	return func(o *options) { o.pool = p }
}

// WithWorkers sets the size of the simulation's own pool.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// WithPrecision selects the CPU engine's working precision.
func WithPrecision(p Precision) Option {
	return func(o *options) { o.precision = p }
}

// WithBackend selects the FFT backend.
func WithBackend(b Backend) Option {
	return func(o *options) { o.backend = b }
}

// WithPhaseTimer reports frame phases to t.
func WithPhaseTimer(t PhaseTimer) Option {
	return func(o *options) { o.timer = t }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// Simulation is the state built once by Initialize and advanced by
// StepFrame. The base spectrum and butterfly table are never rewritten;
// only the evolved spectrum, transform buffers and output fields change
// per frame. A Simulation is not safe for concurrent use.
type Simulation struct {
	params   Params
	spectrum *Spectrum
	table    *ButterflyTable
	pool     *Pool
	ownsPool bool
	fft      transformer
	backend  Backend
	timer    PhaseTimer
	logger   *slog.Logger

	h      []complex128   // h(k, t)
	work   [][]complex128 // packed transforms, see packedSpectra
	fields Fields

	closed    bool
	closeOnce sync.Once
	closeErr  error
}

// Initialize validates p and builds everything a frame needs: the base
// spectrum, its conjugate companion, the butterfly table and the transform
// buffers. Any change to p requires a new Simulation.
func Initialize(p Params, opts ...Option) (*Simulation, error) {
	o := options{
		precision: PrecisionFloat32,
		backend:   BackendCPU,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	spectrum, err := NewSpectrum(p)
	if err != nil {
		return nil, err
	}
	table, err := NewButterflyTable(p.N)
	if err != nil {
		return nil, err
	}

	s := &Simulation{
		params:   p,
		spectrum: spectrum,
		table:    table,
		pool:     o.pool,
		backend:  o.backend,
		timer:    o.timer,
		logger:   o.logger,
		h:        make([]complex128, p.N*p.N),
		fields:   newFields(p.N),
	}
	if s.pool == nil {
		s.pool = NewPool(o.workers)
		s.ownsPool = true
	}

	s.fft, err = newTransformer(o.backend, o.precision, table, s.pool)
	if err != nil {
		if s.ownsPool {
			s.pool.Close()
		}
		return nil, err
	}

	transforms := 2
	if p.Normals == NormalsSpectral {
		transforms = 3
	}
	s.work = make([][]complex128, transforms)
	for i := range s.work {
		s.work[i] = make([]complex128, p.N*p.N)
	}

	s.logger.Info("ocean initialized",
		"n", p.N,
		"patch_size", p.PatchSize,
		"wind_speed", p.WindSpeed,
		"amplitude", p.Amplitude,
		"normals", string(p.Normals),
		"backend", string(o.backend),
		"precision", string(o.precision),
		"workers", s.pool.Workers(),
	)
	return s, nil
}

func newTransformer(b Backend, prec Precision, table *ButterflyTable, pool *Pool) (transformer, error) {
	switch b {
	case BackendCPU, "":
		switch prec {
		case PrecisionFloat32, "":
			return NewEngine[complex64](table, pool), nil
		case PrecisionFloat64:
			return NewEngine[complex128](table, pool), nil
		default:
			return nil, configErr("precision", prec, "must be float32 or float64")
		}
	case BackendOpenCL:
		return newOpenCLTransformer(table)
	default:
		return nil, configErr("backend", b, "must be cpu or opencl")
	}
}

// StepFrame computes the fields at time t seconds. The result is the same
// for the same t however many times or in whatever order frames are stepped.
// The returned Fields are owned by the simulation and overwritten by the next
// call; use Clone to keep them.
func (s *Simulation) StepFrame(t float64) (*Fields, error) {
	if s.closed {
		panic("ocean: StepFrame called after Close")
	}
	if math.IsNaN(t) || math.IsInf(t, 0) {
		return nil, fmt.Errorf("step frame: time %v is not finite: %w", t, ErrInvalidConfig)
	}
	n := s.params.N

	s.startPhase(PhaseEvolve)
	s.pool.Dispatch(n, func(j0, j1 int) {
		s.spectrum.evolveRows(s.h, t, j0, j1)
		s.packedSpectra(s.h, j0, j1)
	})

	s.startPhase(PhaseFFT)
	for i, w := range s.work {
		if err := s.fft.inverse(w); err != nil {
			return nil, fmt.Errorf("inverse transform %d: %w", i, err)
		}
	}

	s.startPhase(PhaseDerive)
	s.fields.Residual = s.residual()
	s.pool.Dispatch(n, s.unpack)
	if s.params.Normals == NormalsFiniteDifference {
		s.pool.Dispatch(n, s.finiteDifferenceNormals)
	}
	if s.params.Choppiness != 1 {
		blas32.Scal(float32(s.params.Choppiness), blas32.Vector{
			N:    len(s.fields.Displacement),
			Inc:  1,
			Data: s.fields.Displacement,
		})
	}
	s.fields.Time = t
	return &s.fields, nil
}

func (s *Simulation) startPhase(name string) {
	if s.timer != nil {
		s.timer.StartPhase(name)
	}
}

// Params returns the parameters the simulation was built with.
func (s *Simulation) Params() Params {
	return s.params
}

// Spectrum returns the base spectrum. It must not be modified.
func (s *Simulation) Spectrum() *Spectrum {
	return s.spectrum
}

// Table returns the butterfly table. It must not be modified.
func (s *Simulation) Table() *ButterflyTable {
	return s.table
}

// Backend returns the FFT backend in use.
func (s *Simulation) Backend() Backend {
	return s.backend
}

// Close releases the transform backend and, if the simulation created it,
// the worker pool. Calling Close more than once is safe.
func (s *Simulation) Close() error {
	s.closeOnce.Do(func() {
		s.closed = true
		s.closeErr = s.fft.Close()
		if s.ownsPool {
			s.pool.Close()
		}
		s.logger.Debug("ocean closed", "n", s.params.N)
	})
	return s.closeErr
}
