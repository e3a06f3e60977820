// Package colorspace converts RGB intensities to and from logarithmic
// colour space. In log space the BIDR model I = R ⊙ (A + γD) becomes
// additive: log I = log R + log(A + γD).
package colorspace

import (
	"fmt"
	"math"

	"bidr-analyzer/internal/mathutil"
)

// DefaultEpsilon is the offset added before taking logarithms so that a
// zero channel maps to a finite value. It is fixed for a whole run.
const DefaultEpsilon = 1e-6

// DomainError reports a channel value that cannot be log-transformed.
type DomainError struct {
	Index   int // sample index within a batch, -1 for a single value
	Channel int
	Value   float64
}

func (e *DomainError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("colorspace: sample %d channel %d: illegal value %g", e.Index, e.Channel, e.Value)
	}
	return fmt.Sprintf("colorspace: channel %d: illegal value %g", e.Channel, e.Value)
}

// Transform maps linear intensities to log space with a fixed epsilon.
type Transform struct {
	Epsilon float64
}

// Default returns a Transform using DefaultEpsilon.
func Default() Transform {
	return Transform{Epsilon: DefaultEpsilon}
}

// New returns a Transform with the given epsilon, which must be positive.
func New(eps float64) (Transform, error) {
	if !(eps > 0) || math.IsInf(eps, 0) {
		return Transform{}, fmt.Errorf("colorspace: epsilon must be positive and finite, got %g", eps)
	}
	return Transform{Epsilon: eps}, nil
}

// ToLogScalar returns log(x + ε).
func (t Transform) ToLogScalar(x float64) (float64, error) {
	if x < 0 || math.IsNaN(x) || math.IsInf(x, 0) {
		return 0, &DomainError{Index: -1, Value: x}
	}
	return math.Log(x + t.Epsilon), nil
}

// FromLogScalar returns exp(l) - ε clamped to zero.
func (t Transform) FromLogScalar(l float64) float64 {
	return math.Max(0, math.Exp(l)-t.Epsilon)
}

// ToLog returns the element-wise log(c + ε).
func (t Transform) ToLog(c mathutil.Vec3) (mathutil.Vec3, error) {
	var out mathutil.Vec3
	for k, x := range c {
		if x < 0 || math.IsNaN(x) || math.IsInf(x, 0) {
			return mathutil.Vec3{}, &DomainError{Index: -1, Channel: k, Value: x}
		}
		out[k] = math.Log(x + t.Epsilon)
	}
	return out, nil
}

// FromLog inverts ToLog: exp(l) - ε, clamped to non-negative.
func (t Transform) FromLog(l mathutil.Vec3) mathutil.Vec3 {
	return mathutil.Vec3{
		t.FromLogScalar(l[0]),
		t.FromLogScalar(l[1]),
		t.FromLogScalar(l[2]),
	}
}

// ToLogAll transforms a batch of samples. The first illegal sample aborts
// the whole batch.
func (t Transform) ToLogAll(cs []mathutil.Vec3) ([]mathutil.Vec3, error) {
	out := make([]mathutil.Vec3, len(cs))
	for i, c := range cs {
		l, err := t.ToLog(c)
		if err != nil {
			de := err.(*DomainError)
			de.Index = i
			return nil, de
		}
		out[i] = l
	}
	return out, nil
}

// FromLogAll inverts ToLogAll.
func (t Transform) FromLogAll(ls []mathutil.Vec3) []mathutil.Vec3 {
	out := make([]mathutil.Vec3, len(ls))
	for i, l := range ls {
		out[i] = t.FromLog(l)
	}
	return out
}

// ToLogPixels transforms an H×W×3 image stored row-major as one Vec3 per
// pixel. It is ToLogAll under a name that reads better at image call sites.
func (t Transform) ToLogPixels(pix []mathutil.Vec3) ([]mathutil.Vec3, error) {
	return t.ToLogAll(pix)
}
