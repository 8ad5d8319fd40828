package main

import (
	"math"
	"sync"

	"github.com/pthm-cable/swell/config"
	"github.com/pthm-cable/swell/ocean"
	"github.com/pthm-cable/swell/telemetry"
)

// Targets are the sea-state statistics the calibration aims for.
type Targets struct {
	Hs       float64 // significant wave height (m)
	MaxSlope float64 // mean over frames of the steepest |grad h|
}

// Measurement is what one parameter vector produced, averaged over seeds
// and frames.
type Measurement struct {
	Hs       float64
	MaxSlope float64
}

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params     *ParamVector
	targets    Targets
	frames     int
	frameDT    float64
	seeds      []uint64
	baseConfig *config.Config
	pool       *ocean.Pool

	mu          sync.Mutex
	bestFitness float64
	best        []float64
	last        Measurement
}

// NewFitnessEvaluator creates a new evaluator. All seeds share pool.
func NewFitnessEvaluator(params *ParamVector, targets Targets, frames int, seeds []uint64, baseCfg *config.Config, pool *ocean.Pool) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		targets:     targets,
		frames:      frames,
		frameDT:     1.7, // incommensurate with typical wave periods
		seeds:       seeds,
		baseConfig:  baseCfg,
		pool:        pool,
		bestFitness: math.Inf(1),
	}
}

// Best returns the best raw parameter vector seen so far.
func (fe *FitnessEvaluator) Best() (x []float64, fitness float64) {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.best, fe.bestFitness
}

// Last returns the measurement from the most recent Evaluate call.
func (fe *FitnessEvaluator) Last() Measurement {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.last
}

// Evaluate computes fitness for a raw parameter vector (lower = better):
// the summed squared relative error against each target.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	m, err := fe.Measure(x)
	if err != nil {
		return math.Inf(1)
	}
	fitness := relErr2(m.Hs, fe.targets.Hs) + relErr2(m.MaxSlope, fe.targets.MaxSlope)

	fe.mu.Lock()
	fe.last = m
	if fitness < fe.bestFitness {
		fe.bestFitness = fitness
		fe.best = fe.params.Clamp(x)
	}
	fe.mu.Unlock()

	return fitness
}

func relErr2(got, want float64) float64 {
	if want == 0 {
		return 0
	}
	r := got/want - 1
	return r * r
}

// Measure runs every seed in parallel and averages the results.
func (fe *FitnessEvaluator) Measure(x []float64) (Measurement, error) {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)
	p := cfg.OceanParams()

	results := make([]Measurement, len(fe.seeds))
	errs := make([]error, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s uint64) {
			defer wg.Done()
			sp := p
			sp.Seed = s
			results[idx], errs[idx] = fe.runSimulation(cfg, sp)
		}(i, seed)
	}
	wg.Wait()

	var m Measurement
	for i, r := range results {
		if errs[i] != nil {
			return Measurement{}, errs[i]
		}
		m.Hs += r.Hs
		m.MaxSlope += r.MaxSlope
	}
	n := float64(len(results))
	m.Hs /= n
	m.MaxSlope /= n
	return m, nil
}

// runSimulation samples one seed at evenly spaced times.
func (fe *FitnessEvaluator) runSimulation(cfg *config.Config, p ocean.Params) (Measurement, error) {
	opts := append(cfg.OceanOptions(), ocean.WithPool(fe.pool))
	sim, err := ocean.Initialize(p, opts...)
	if err != nil {
		return Measurement{}, err
	}
	defer sim.Close()

	analyzer := telemetry.NewAnalyzer(p.N)
	var m Measurement
	for i := 0; i < fe.frames; i++ {
		f, err := sim.StepFrame(float64(i) * fe.frameDT)
		if err != nil {
			return Measurement{}, err
		}
		fs := analyzer.Field(f)
		m.Hs += fs.Hs
		m.MaxSlope += fs.MaxSlope
	}
	m.Hs /= float64(fe.frames)
	m.MaxSlope /= float64(fe.frames)
	return m, nil
}

// copyConfig returns an independent copy of the base config.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	return &cfg
}
