package mathutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVec3Ops(t *testing.T) {
	a := Vec3{1, 2, 3}
	b := Vec3{-1, 0.5, 2}

	assert.Equal(t, Vec3{0, 2.5, 5}, a.Add(b))
	assert.Equal(t, Vec3{2, 1.5, 1}, a.Sub(b))
	assert.Equal(t, Vec3{-1, 1, 6}, a.Mul(b))
	assert.Equal(t, 6.0, a.Dot(b))
	assert.Equal(t, Vec3{2.5, -5, 2.5}, a.Cross(b))
	assert.InDelta(t, math.Sqrt(14), a.Len(), 1e-12)
	assert.InDelta(t, 1, a.Normalize().Len(), 1e-12)
	assert.Equal(t, Vec3{}, Vec3{}.Normalize())
	assert.False(t, Vec3{math.NaN(), 0, 0}.IsFinite())
	assert.True(t, a.IsFinite())
	assert.Equal(t, Vec3{0, 1.25, 2.5}, Mean([]Vec3{a, b}))
}

func TestCovarianceLine(t *testing.T) {
	dir := Vec3{1, 2, 2}.Normalize()
	var pts []Vec3
	for i := 0; i < 10; i++ {
		pts = append(pts, dir.Scale(float64(i)))
	}
	c, mean := Covariance(pts)
	assert.InDelta(t, 4.5, mean.Dot(dir), 1e-12)

	// All variance lies along dir.
	assert.InDelta(t, c.Trace(), c.QuadForm(dir), 1e-9)
	assert.InDelta(t, c.At(0, 1), c.At(1, 0), 1e-15)
}

func TestEigenSym3Diagonal(t *testing.T) {
	vals, vecs, ok := EigenSym3(Mat3Diag(1, 5, 3))
	require.True(t, ok)
	assert.Equal(t, [3]float64{5, 3, 1}, vals)
	assert.InDelta(t, 1, math.Abs(vecs[0][1]), 1e-12)
	assert.InDelta(t, 1, math.Abs(vecs[1][2]), 1e-12)
	assert.InDelta(t, 1, math.Abs(vecs[2][0]), 1e-12)
}

func TestEigenSym3Reconstructs(t *testing.T) {
	m := Mat3{
		4, 1, 0.5,
		1, 3, -0.25,
		0.5, -0.25, 2,
	}
	vals, vecs, ok := EigenSym3(m)
	require.True(t, ok)
	assert.True(t, vals[0] >= vals[1] && vals[1] >= vals[2])
	assert.InDelta(t, m.Trace(), vals[0]+vals[1]+vals[2], 1e-10)

	for i := 0; i < 3; i++ {
		mv := m.MulVec3(vecs[i])
		lv := vecs[i].Scale(vals[i])
		for k := 0; k < 3; k++ {
			assert.InDelta(t, lv[k], mv[k], 1e-10)
		}
		assert.InDelta(t, 1, vecs[i].Len(), 1e-12)
		for j := i + 1; j < 3; j++ {
			assert.InDelta(t, 0, vecs[i].Dot(vecs[j]), 1e-10)
		}
	}
}

func TestEigenSym3Zero(t *testing.T) {
	vals, _, ok := EigenSym3(Mat3{})
	assert.True(t, ok)
	assert.Equal(t, [3]float64{}, vals)
}

func TestEigen2x2Sym(t *testing.T) {
	e1, e2, v1, _ := Eigen2x2Sym(2, 1, 2)
	assert.InDelta(t, 3, e1, 1e-12)
	assert.InDelta(t, 1, e2, 1e-12)
	assert.InDelta(t, math.Sqrt2/2, math.Abs(v1[0]), 1e-12)
	assert.InDelta(t, math.Sqrt2/2, math.Abs(v1[1]), 1e-12)
}

func TestAngles(t *testing.T) {
	x := Vec3{1, 0, 0}
	assert.InDelta(t, 90, AngleBetween(x, Vec3{0, 1, 0}), 1e-12)
	assert.InDelta(t, 180, AngleBetween(x, x.Scale(-2)), 1e-12)
	assert.InDelta(t, 0, AxisAngle(x, x.Scale(-2)), 1e-12)
	assert.Equal(t, 0.0, AngleBetween(x, Vec3{}))
}

func TestRotationsOrthonormal(t *testing.T) {
	for _, r := range []Mat3{RotX(Deg2Rad(30)), RotZ(Deg2Rad(-60))} {
		p := Mat3Mul(r, r.Transpose())
		id := Mat3Identity()
		for i := range p {
			assert.InDelta(t, id[i], p[i], 1e-12)
		}
	}
	assert.InDelta(t, 45, Rad2Deg(Deg2Rad(45)), 1e-12)
}

func TestAxisRotationIsRightHanded(t *testing.T) {
	q := math.Pi / 2
	for _, tc := range []struct {
		axis     int
		from, to Vec3
	}{
		{0, Vec3{0, 1, 0}, Vec3{0, 0, 1}},
		{1, Vec3{0, 0, 1}, Vec3{1, 0, 0}},
		{2, Vec3{1, 0, 0}, Vec3{0, 1, 0}},
	} {
		got := AxisRotation(tc.axis, q).MulVec3(tc.from)
		assert.InDeltaSlice(t, tc.to[:], got[:], 1e-12, "axis %d", tc.axis)
	}
}
