package isd

import (
	"errors"
	"math"
	"testing"

	"bidr-analyzer/internal/colorspace"
	"bidr-analyzer/internal/mathutil"
	"bidr-analyzer/internal/simulate"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func logAll(t *testing.T, tr colorspace.Transform, cs []mathutil.Vec3) []mathutil.Vec3 {
	t.Helper()
	ls, err := tr.ToLogAll(cs)
	require.NoError(t, err)
	return ls
}

func TestEstimateIsUnit(t *testing.T) {
	tr := colorspace.Default()
	lit := simulate.CylinderLit
	shadow := simulate.LitShadowPairs(lit, simulate.ShadowRatio)

	v, err := Estimate(logAll(t, tr, lit), logAll(t, tr, shadow))
	require.NoError(t, err)
	assert.InDelta(t, 1, v.Len(), 1e-12)

	// With a pure ratio the direction is -log(ratio) up to epsilon effects.
	want := mathutil.Vec3{-math.Log(0.5), -math.Log(0.6), -math.Log(0.9)}.Normalize()
	assert.Less(t, mathutil.AngleBetween(want, v), 0.01)
}

func TestEndToEndScenario(t *testing.T) {
	tr := colorspace.Default()
	rb := mathutil.Vec3{0.6, 0.4, 0.2}
	il := simulate.Illuminant{
		Name:    "test",
		Ambient: mathutil.Vec3{0.1, 0.1, 0.15},
		Direct:  mathutil.Vec3{0.9, 0.85, 0.8},
	}
	sim, err := simulate.New(simulate.DefaultConfig())
	require.NoError(t, err)

	gammas := simulate.Linspace(0.01, 1.0, 50)
	sweep := logAll(t, tr, sim.Sweep(simulate.Material{Name: "m", Reflectance: rb}, il, gammas))
	lit, shadow := SweepEndpoints(sweep)

	v, err := Estimate(lit, shadow)
	require.NoError(t, err)

	hi, _ := tr.ToLog(rb.Mul(il.Ambient.Add(il.Direct)))
	lo, _ := tr.ToLog(rb.Mul(il.Ambient.Add(il.Direct.Scale(0.01))))
	want := hi.Sub(lo).Normalize()
	assert.Less(t, mathutil.AngleBetween(want, v), 1e-6)
}

func TestDegenerate(t *testing.T) {
	same := []mathutil.Vec3{{0.1, 0.2, 0.3}, {0.4, 0.5, 0.6}}
	_, err := Estimate(same, same)
	var de *DegenerateInputError
	require.True(t, errors.As(err, &de))
	assert.Less(t, de.Norm, DegenerateNorm)

	// Opposing differences cancel out.
	lit := []mathutil.Vec3{{1, 1, 1}, {0, 0, 0}}
	shadow := []mathutil.Vec3{{0, 0, 0}, {1, 1, 1}}
	_, err = Estimate(lit, shadow)
	assert.True(t, errors.As(err, &de))
}

func TestMismatched(t *testing.T) {
	_, err := Estimate(nil, nil)
	assert.ErrorIs(t, err, ErrMismatchedPairs)
	_, err = Estimate([]mathutil.Vec3{{1, 1, 1}}, nil)
	assert.ErrorIs(t, err, ErrMismatchedPairs)
}

func TestEstimateGroupsIndependent(t *testing.T) {
	a := Group{
		Lit:    []mathutil.Vec3{{1, 0, 0}, {2, 0, 0}},
		Shadow: []mathutil.Vec3{{0, 0, 0}, {1, 0, 0}},
	}
	b := Group{
		Lit:    []mathutil.Vec3{{0, 5, 0}},
		Shadow: []mathutil.Vec3{{0, 1, 0}},
	}
	out, err := EstimateGroups(map[string]Group{"a": a, "b": b})
	require.NoError(t, err)
	assert.Equal(t, mathutil.Vec3{1, 0, 0}, out["a"])
	assert.Equal(t, mathutil.Vec3{0, 1, 0}, out["b"])

	// A degenerate group is reported by name, not averaged away.
	c := Group{Lit: []mathutil.Vec3{{1, 1, 1}}, Shadow: []mathutil.Vec3{{1, 1, 1}}}
	_, err = EstimateGroups(map[string]Group{"a": a, "c": c})
	var de *DegenerateInputError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "c", de.Group)
}

func TestFromIlluminant(t *testing.T) {
	tr := colorspace.Default()
	v, err := FromIlluminant(tr, simulate.Skylight)
	require.NoError(t, err)
	assert.InDelta(t, 1, v.Len(), 1e-12)

	// The analytic direction matches the estimate from any material.
	sim, _ := simulate.New(simulate.Config{GammaMin: 0, GammaMax: 1, Steps: 2})
	sweep := logAll(t, tr, sim.Sweep(simulate.Asphalt, simulate.Skylight, []float64{0, 1}))
	est, err := Estimate(sweep[1:], sweep[:1])
	require.NoError(t, err)
	assert.Less(t, mathutil.AngleBetween(v, est), 0.01)

	_, err = FromIlluminant(tr, simulate.Illuminant{Name: "dark", Ambient: mathutil.Vec3{0.1, 0.1, 0.1}})
	var de *DegenerateInputError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "dark", de.Group)
}
