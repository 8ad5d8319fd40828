package main

import (
	"math"
	"testing"

	"github.com/pthm-cable/swell/config"
	"github.com/pthm-cable/swell/ocean"
)

func smallConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	p := cfg.OceanParams()
	p.N = 64
	p.PatchSize = 128
	cfg.SetOceanParams(p)
	return cfg
}

func TestParamVectorRoundTrip(t *testing.T) {
	pv := NewParamVector()
	cfg := smallConfig(t)

	x := []float64{-6, 0.5}
	pv.ApplyToConfig(cfg, x)
	got := pv.ExtractFromConfig(cfg)
	for i := range x {
		if math.Abs(got[i]-x[i]) > 1e-12 {
			t.Errorf("%s = %v, want %v", pv.Specs[i].Name, got[i], x[i])
		}
	}

	// Out of range values are clamped before they reach the config.
	pv.ApplyToConfig(cfg, []float64{0, -3})
	if cfg.Ocean.Amplitude != 1e-4 || cfg.Ocean.SmallWaveCutoff != 0.01 {
		t.Errorf("clamped config = A %v, l %v", cfg.Ocean.Amplitude, cfg.Ocean.SmallWaveCutoff)
	}
	if err := cfg.OceanParams().Validate(); err != nil {
		t.Errorf("clamped params invalid: %v", err)
	}
}

func TestFitnessZeroAtOwnMeasurement(t *testing.T) {
	cfg := smallConfig(t)
	pool := ocean.NewPool(2)
	defer pool.Close()

	pv := NewParamVector()
	x := pv.ExtractFromConfig(cfg)
	probe := NewFitnessEvaluator(pv, Targets{}, 3, []uint64{1, 2}, cfg, pool)
	m, err := probe.Measure(x)
	if err != nil {
		t.Fatal(err)
	}
	if m.Hs <= 0 || m.MaxSlope <= 0 {
		t.Fatalf("measurement = %+v", m)
	}

	fe := NewFitnessEvaluator(pv, Targets{Hs: m.Hs, MaxSlope: m.MaxSlope}, 3, []uint64{1, 2}, cfg, pool)
	if f := fe.Evaluate(x); f != 0 {
		t.Errorf("fitness at the measured point = %v, want 0", f)
	}

	// Hs scales with sqrt(A): a hundredfold amplitude gives 10x Hs.
	louder := []float64{x[0] + 2, x[1]}
	if f := fe.Evaluate(louder); f < 50 {
		t.Errorf("fitness for 10x Hs = %v, want ~81", f)
	}
	if best, f := fe.Best(); f != 0 || best[0] != x[0] {
		t.Errorf("Best = %v (%v), want the measured point", best, f)
	}
}
