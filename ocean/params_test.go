package ocean

import (
	"errors"
	"math"
	"testing"
)

func TestDefaultParamsValid(t *testing.T) {
	if err := DefaultParams().Validate(); err != nil {
		t.Fatalf("default params rejected: %v", err)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Params)
		field  string
	}{
		{"n too small", func(p *Params) { p.N = 32 }, "n"},
		{"n too large", func(p *Params) { p.N = 2048 }, "n"},
		{"n not power of two", func(p *Params) { p.N = 96 }, "n"},
		{"zero patch", func(p *Params) { p.PatchSize = 0 }, "patch_size"},
		{"infinite patch", func(p *Params) { p.PatchSize = math.Inf(1) }, "patch_size"},
		{"zero wind speed", func(p *Params) { p.WindSpeed = 0 }, "wind_speed"},
		{"negative wind speed", func(p *Params) { p.WindSpeed = -3 }, "wind_speed"},
		{"zero wind direction", func(p *Params) { p.WindDirection = Vec2{} }, "wind_direction"},
		{"nan wind direction", func(p *Params) { p.WindDirection = Vec2{X: math.NaN(), Y: 1} }, "wind_direction"},
		{"negative amplitude", func(p *Params) { p.Amplitude = -1 }, "amplitude"},
		{"negative cutoff", func(p *Params) { p.SmallWaveCutoff = -0.1 }, "small_wave_cutoff"},
		{"zero gravity", func(p *Params) { p.Gravity = 0 }, "gravity"},
		{"nan choppiness", func(p *Params) { p.Choppiness = math.NaN() }, "choppiness"},
		{"unknown normals", func(p *Params) { p.Normals = "bump" }, "normals"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.mutate(&p)
			err := p.Validate()
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("errors.Is(err, ErrInvalidConfig) = false for %v", err)
			}
			var ce *ConfigError
			if !errors.As(err, &ce) {
				t.Fatalf("expected *ConfigError, got %T", err)
			}
			if ce.Field != tt.field {
				t.Errorf("field = %q, want %q", ce.Field, tt.field)
			}
		})
	}
}

func TestValidateAcceptsGridBounds(t *testing.T) {
	for _, n := range []int{64, 128, 256, 512, 1024} {
		p := DefaultParams()
		p.N = n
		if err := p.Validate(); err != nil {
			t.Errorf("N=%d rejected: %v", n, err)
		}
	}
}

func TestWindUnit(t *testing.T) {
	p := DefaultParams()
	p.WindDirection = Vec2{X: 3, Y: 4}
	w := p.WindUnit()
	if math.Abs(w.X-0.6) > 1e-12 || math.Abs(w.Y-0.8) > 1e-12 {
		t.Errorf("WindUnit = %+v, want {0.6 0.8}", w)
	}
}

func TestWaveVectorCentred(t *testing.T) {
	p := DefaultParams()
	kx, kz := p.WaveVector(p.N/2, p.N/2)
	if kx != 0 || kz != 0 {
		t.Errorf("k at centre = (%v, %v), want (0, 0)", kx, kz)
	}

	kx, kz = p.WaveVector(p.N/2+1, p.N/2-2)
	step := 2 * math.Pi / p.PatchSize
	if math.Abs(kx-step) > 1e-12 || math.Abs(kz+2*step) > 1e-12 {
		t.Errorf("k = (%v, %v), want (%v, %v)", kx, kz, step, -2*step)
	}
}
