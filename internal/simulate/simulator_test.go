package simulate

import (
	"math"
	"testing"

	"bidr-analyzer/internal/mathutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinspace(t *testing.T) {
	g := Linspace(0.01, 1.0, 50)
	require.Len(t, g, 50)
	assert.Equal(t, 0.01, g[0])
	assert.Equal(t, 1.0, g[49])
	for i := 1; i < len(g); i++ {
		assert.InDelta(t, 0.99/49, g[i]-g[i-1], 1e-12)
	}
	assert.Equal(t, []float64{3}, Linspace(3, 5, 1))
	assert.Nil(t, Linspace(0, 1, 0))
}

func TestSweepFollowsModel(t *testing.T) {
	sim, err := New(DefaultConfig())
	require.NoError(t, err)

	gammas := []float64{0, 0.5, 1}
	out := sim.Sweep(Brick, Daylight, gammas)
	require.Len(t, out, 3)
	for i, g := range gammas {
		want := Brick.Reflectance.Mul(Daylight.Ambient.Add(Daylight.Direct.Scale(g)))
		assert.Equal(t, want, out[i])
	}
	assert.InDelta(t, 0.6*(0.1+0.9), out[2][0], 1e-12)
}

func TestSweepScenarioSharesIlluminant(t *testing.T) {
	sim, err := New(DefaultConfig())
	require.NoError(t, err)

	sc := DefaultScenarios()[0]
	out, err := sim.SweepScenario(sc)
	require.NoError(t, err)
	assert.Len(t, out, len(sc.Materials))
	for _, m := range sc.Materials {
		require.Len(t, out[m.Name], 50)
		// The ratio between two materials is illumination independent.
		ratio0 := out[m.Name][0][0] / out[sc.Materials[0].Name][0][0]
		ratioN := out[m.Name][49][0] / out[sc.Materials[0].Name][49][0]
		assert.InDelta(t, ratio0, ratioN, 1e-12)
	}
}

func TestNoiseIsSeededAndBounded(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NoiseStd = 0.01
	cfg.Seed = 42

	a, err := New(cfg)
	require.NoError(t, err)
	b, err := New(cfg)
	require.NoError(t, err)

	sa := a.Sweep(Brick, Daylight, cfg.Gammas())
	sb := b.Sweep(Brick, Daylight, cfg.Gammas())
	assert.Equal(t, sa, sb)

	clean, _ := New(DefaultConfig())
	ref := clean.Sweep(Brick, Daylight, cfg.Gammas())
	var sumSq float64
	n := 0
	for i := range sa {
		for k := 0; k < 3; k++ {
			assert.GreaterOrEqual(t, sa[i][k], 0.0)
			d := sa[i][k] - ref[i][k]
			sumSq += d * d
			n++
		}
	}
	std := math.Sqrt(sumSq / float64(n))
	assert.InDelta(t, 0.01, std, 0.004)
}

func TestScatter(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ReflectanceJitter = 0.02
	cfg.NoiseStd = 0.002
	sim, err := New(cfg)
	require.NoError(t, err)

	pts := sim.Scatter(Asphalt, Skylight, 500)
	require.Len(t, pts, 500)
	lo := Asphalt.Reflectance.Mul(Skylight.Ambient)
	hi := Asphalt.Reflectance.Mul(Skylight.Irradiance(1))
	for _, p := range pts {
		for k := 0; k < 3; k++ {
			assert.GreaterOrEqual(t, p[k], 0.0)
			assert.Less(t, p[k], hi[k]*1.3)
			assert.Greater(t, p[k], lo[k]*0.7)
		}
	}
}

func TestPairs(t *testing.T) {
	sim, err := New(DefaultConfig())
	require.NoError(t, err)
	sc := DefaultScenarios()[1]
	lit, shadow, err := sim.Pairs(sc)
	require.NoError(t, err)
	require.Len(t, lit, len(sc.Materials))
	require.Len(t, shadow, len(sc.Materials))
	for i, m := range sc.Materials {
		assert.Equal(t, m.Reflectance.Mul(sc.Illuminant.Irradiance(1.0)), lit[i])
		assert.Equal(t, m.Reflectance.Mul(sc.Illuminant.Irradiance(0.01)), shadow[i])
	}
}

func TestLitShadowPairs(t *testing.T) {
	shadow := LitShadowPairs(CylinderLit, ShadowRatio)
	require.Len(t, shadow, 3)
	assert.InDelta(t, 0.45, shadow[0][0], 1e-12)
	assert.InDelta(t, 0.42, shadow[0][1], 1e-12)
	assert.InDelta(t, 0.54, shadow[0][2], 1e-12)
}

func TestValidation(t *testing.T) {
	_, err := New(Config{GammaMin: 0, GammaMax: 1, Steps: 1})
	assert.Error(t, err)
	_, err = New(Config{GammaMin: 1, GammaMax: 1, Steps: 10})
	assert.Error(t, err)
	_, err = New(Config{GammaMin: 0, GammaMax: 1, Steps: 10, NoiseStd: -1})
	assert.Error(t, err)

	sim, _ := New(DefaultConfig())
	bad := Scenario{
		Illuminant: Illuminant{Name: "bad", Ambient: mathutil.Vec3{-0.1, 0, 0}},
		Materials:  []Material{Brick},
	}
	_, err = sim.SweepScenario(bad)
	assert.Error(t, err)

	dup := Scenario{Illuminant: Daylight, Materials: []Material{Brick, Brick}}
	_, err = sim.SweepScenario(dup)
	assert.Error(t, err)

	empty := Scenario{Illuminant: Daylight}
	_, _, err = sim.Pairs(empty)
	assert.Error(t, err)
}
