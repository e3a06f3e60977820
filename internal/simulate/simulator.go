// Package simulate generates synthetic lit/shadow colour samples under the
// bi-illuminant dichromatic reflection model I = R_B ⊙ (A + γD).
package simulate

import (
	"fmt"
	"math"
	"math/rand/v2"

	"bidr-analyzer/internal/mathutil"

	"gonum.org/v1/gonum/stat/distuv"
)

// Config controls the γ sweep and the noise model.
type Config struct {
	// NoiseStd is the standard deviation of additive Gaussian noise per
	// channel. Zero disables noise.
	NoiseStd float64
	// ReflectanceJitter perturbs R_B per sample (surface texture) in Scatter.
	ReflectanceJitter float64
	// GammaMin and GammaMax bound the shadow→lit sweep.
	GammaMin float64
	GammaMax float64
	// Steps is the number of γ values in a sweep.
	Steps int
	// Seed makes noisy runs reproducible.
	Seed uint64
}

// DefaultConfig returns a noiseless 50-step sweep over γ ∈ [0.01, 1].
func DefaultConfig() Config {
	return Config{
		GammaMin: 0.01,
		GammaMax: 1.0,
		Steps:    50,
		Seed:     1,
	}
}

// Validate checks the sweep bounds and noise levels.
func (c Config) Validate() error {
	if c.Steps < 2 {
		return fmt.Errorf("simulate: steps must be at least 2, got %d", c.Steps)
	}
	if c.GammaMin < 0 || c.GammaMax <= c.GammaMin {
		return fmt.Errorf("simulate: invalid gamma range [%g, %g]", c.GammaMin, c.GammaMax)
	}
	if c.NoiseStd < 0 || c.ReflectanceJitter < 0 {
		return fmt.Errorf("simulate: noise must be non-negative (noise_std=%g, jitter=%g)", c.NoiseStd, c.ReflectanceJitter)
	}
	return nil
}

// Gammas returns the configured sweep.
func (c Config) Gammas() []float64 {
	return Linspace(c.GammaMin, c.GammaMax, c.Steps)
}

// Linspace returns n evenly spaced values over [a, b], both inclusive.
func Linspace(a, b float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{a}
	}
	out := make([]float64, n)
	step := (b - a) / float64(n-1)
	for i := range out {
		out[i] = a + float64(i)*step
	}
	out[n-1] = b
	return out
}

// Simulator draws samples. Its random source is owned by the simulator, so a
// Simulator must not be shared between goroutines.
type Simulator struct {
	cfg Config
	src rand.Source
}

// New validates cfg and returns a seeded Simulator.
func New(cfg Config) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Simulator{
		cfg: cfg,
		src: rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15),
	}, nil
}

// Config returns the simulator configuration.
func (s *Simulator) Config() Config {
	return s.cfg
}

// Sweep produces one sample per γ: R_B ⊙ (A + γD), plus noise when enabled.
// Noisy channels are clamped at zero so every sample stays a legal colour.
func (s *Simulator) Sweep(m Material, il Illuminant, gammas []float64) []mathutil.Vec3 {
	noise := s.normal(s.cfg.NoiseStd)
	out := make([]mathutil.Vec3, len(gammas))
	for i, g := range gammas {
		c := m.Reflectance.Mul(il.Irradiance(g))
		if noise != nil {
			c = clampNonNegative(c.Add(mathutil.Vec3{noise.Rand(), noise.Rand(), noise.Rand()}))
		}
		out[i] = c
	}
	return out
}

// SweepScenario sweeps every material of s over the configured γ range.
func (s *Simulator) SweepScenario(sc Scenario) (map[string][]mathutil.Vec3, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	gammas := s.cfg.Gammas()
	out := make(map[string][]mathutil.Vec3, len(sc.Materials))
	for _, m := range sc.Materials {
		out[m.Name] = s.Sweep(m, sc.Illuminant, gammas)
	}
	return out, nil
}

// Scatter draws n samples with γ ~ U(0, 1) and R_B jittered per sample, the
// textured-surface cloud of the chromaticity-plane view.
func (s *Simulator) Scatter(m Material, il Illuminant, n int) []mathutil.Vec3 {
	uni := distuv.Uniform{Min: 0, Max: 1, Src: s.src}
	jitter := s.normal(s.cfg.ReflectanceJitter)
	noise := s.normal(s.cfg.NoiseStd)

	out := make([]mathutil.Vec3, n)
	for i := range out {
		g := uni.Rand()
		r := m.Reflectance
		if jitter != nil {
			r = r.Add(mathutil.Vec3{jitter.Rand(), jitter.Rand(), jitter.Rand()})
		}
		c := r.Mul(il.Irradiance(g))
		if noise != nil {
			c = c.Add(mathutil.Vec3{noise.Rand(), noise.Rand(), noise.Rand()})
		}
		out[i] = clampNonNegative(c)
	}
	return out
}

// Pairs returns, for each material of sc, the fully lit (γ = GammaMax) and
// deepest-shadow (γ = GammaMin) samples as two index-aligned slices.
func (s *Simulator) Pairs(sc Scenario) (lit, shadow []mathutil.Vec3, err error) {
	if err := sc.Validate(); err != nil {
		return nil, nil, err
	}
	for _, m := range sc.Materials {
		lit = append(lit, s.Sweep(m, sc.Illuminant, []float64{s.cfg.GammaMax})...)
		shadow = append(shadow, s.Sweep(m, sc.Illuminant, []float64{s.cfg.GammaMin})...)
	}
	return lit, shadow, nil
}

// LitShadowPairs derives shadow samples from lit ones by a per-channel ratio.
func LitShadowPairs(lit []mathutil.Vec3, ratio mathutil.Vec3) []mathutil.Vec3 {
	shadow := make([]mathutil.Vec3, len(lit))
	for i, c := range lit {
		shadow[i] = c.Mul(ratio)
	}
	return shadow
}

func (s *Simulator) normal(std float64) *distuv.Normal {
	if std <= 0 {
		return nil
	}
	return &distuv.Normal{Mu: 0, Sigma: std, Src: s.src}
}

func clampNonNegative(v mathutil.Vec3) mathutil.Vec3 {
	return mathutil.Vec3{math.Max(0, v[0]), math.Max(0, v[1]), math.Max(0, v[2])}
}
