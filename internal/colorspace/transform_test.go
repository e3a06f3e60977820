package colorspace

import (
	"errors"
	"math"
	"testing"

	"bidr-analyzer/internal/mathutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	tr := Default()
	samples := []mathutil.Vec3{
		{0, 0, 0},
		{0.6, 0.4, 0.2},
		{1, 1, 1},
		{255, 128, 3},
		{1e-4, 0.5, 0.999},
	}
	for _, s := range samples {
		l, err := tr.ToLog(s)
		require.NoError(t, err)
		back := tr.FromLog(l)
		for k := 0; k < 3; k++ {
			assert.InDelta(t, s[k], back[k], 1e-9*math.Max(1, s[k]))
		}
	}
}

func TestToLogValues(t *testing.T) {
	tr := Transform{Epsilon: 1e-3}
	l, err := tr.ToLog(mathutil.Vec3{0, 1, math.E - 1e-3})
	require.NoError(t, err)
	assert.InDelta(t, math.Log(1e-3), l[0], 1e-12)
	assert.InDelta(t, math.Log(1+1e-3), l[1], 1e-12)
	assert.InDelta(t, 1, l[2], 1e-12)

	x, err := tr.ToLogScalar(0.5)
	require.NoError(t, err)
	assert.InDelta(t, math.Log(0.501), x, 1e-12)
	assert.InDelta(t, 0.5, tr.FromLogScalar(x), 1e-12)
}

func TestNegativeChannelIsDomainError(t *testing.T) {
	tr := Default()
	_, err := tr.ToLog(mathutil.Vec3{0.1, -0.2, 0.3})
	var de *DomainError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, 1, de.Channel)
	assert.Equal(t, -0.2, de.Value)

	_, err = tr.ToLogAll([]mathutil.Vec3{{0.1, 0.1, 0.1}, {0.1, 0.1, math.NaN()}})
	require.True(t, errors.As(err, &de))
	assert.Equal(t, 1, de.Index)
	assert.Equal(t, 2, de.Channel)

	_, err = tr.ToLogScalar(-1)
	assert.True(t, errors.As(err, &de))
}

func TestFromLogClamps(t *testing.T) {
	tr := Transform{Epsilon: 0.1}
	out := tr.FromLog(mathutil.Vec3{math.Log(0.05), 0, -100})
	assert.Equal(t, 0.0, out[0])
	assert.InDelta(t, 0.9, out[1], 1e-12)
	assert.Equal(t, 0.0, out[2])
}

func TestNewRejectsBadEpsilon(t *testing.T) {
	for _, eps := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		_, err := New(eps)
		assert.Error(t, err, "eps=%g", eps)
	}
	tr, err := New(1e-8)
	require.NoError(t, err)
	assert.Equal(t, 1e-8, tr.Epsilon)
}

func TestBatchConsistency(t *testing.T) {
	tr := Default()
	in := []mathutil.Vec3{{0.2, 0.3, 0.4}, {0.5, 0.6, 0.7}}
	ls, err := tr.ToLogPixels(in)
	require.NoError(t, err)
	require.Len(t, ls, 2)
	for i, c := range in {
		single, _ := tr.ToLog(c)
		assert.Equal(t, single, ls[i])
	}
	back := tr.FromLogAll(ls)
	for i := range in {
		for k := 0; k < 3; k++ {
			assert.InDelta(t, in[i][k], back[i][k], 1e-12)
		}
	}
}
