// Package thickness quantifies how thin a material's log-RGB "cylinder" is:
// the variance of its samples along the ISD versus across it.
package thickness

import (
	"fmt"
	"math"

	"bidr-analyzer/internal/chroma"
	"bidr-analyzer/internal/mathutil"
)

// MinSamples is the smallest cluster for which a 3-D covariance is defined.
const MinSamples = 3

// InsufficientSamplesError reports a cluster too small to analyze.
type InsufficientSamplesError struct {
	Got  int
	Need int
}

func (e *InsufficientSamplesError) Error() string {
	return fmt.Sprintf("thickness: need at least %d samples, got %d", e.Need, e.Got)
}

// Component is one principal axis of the cluster.
type Component struct {
	Vector       mathutil.Vec3
	Variance     float64
	Explained    float64 // Variance / total variance
	ISDAlignment float64 // |Vector · isd|, 1 means parallel to the ISD
}

// CrossSection is the principal breakdown of the variance left in the plane
// orthogonal to the ISD, in (U1, U2) coordinates.
type CrossSection struct {
	Major   chroma.Point2
	Minor   chroma.Point2
	SDMajor float64
	SDMinor float64
}

// Report is the thickness analysis of one cluster.
type Report struct {
	Decomposer    string
	Samples       int
	Mean          mathutil.Vec3
	ISD           mathutil.Vec3
	Components    [3]Component
	TotalVariance float64
	AlongISD      float64 // isdᵀ Σ isd
	AcrossISD     float64 // total − along
	Thickness     float64 // sqrt(AcrossISD)
	CrossSection  CrossSection
}

// DominantAlignment returns |v₁ · isd| for the leading component.
func (r Report) DominantAlignment() float64 {
	return r.Components[0].ISDAlignment
}

// AcrossFraction returns the share of total variance orthogonal to the ISD.
func (r Report) AcrossFraction() float64 {
	if r.TotalVariance <= 0 {
		return 0
	}
	return r.AcrossISD / r.TotalVariance
}

// Analyzer runs thickness analysis with a chosen decomposition strategy.
type Analyzer struct {
	Decomposer Decomposer
}

// NewAnalyzer returns an Analyzer for the named strategy.
func NewAnalyzer(strategy string) (*Analyzer, error) {
	d, err := Select(strategy)
	if err != nil {
		return nil, err
	}
	return &Analyzer{Decomposer: d}, nil
}

// Analyze decomposes points (log-RGB samples) and splits their variance into
// the part along isd and the residual thickness across it.
func (a *Analyzer) Analyze(points []mathutil.Vec3, isd mathutil.Vec3) (Report, error) {
	if len(points) < MinSamples {
		return Report{}, &InsufficientSamplesError{Got: len(points), Need: MinSamples}
	}
	basis, err := chroma.BuildBasis(isd)
	if err != nil {
		return Report{}, fmt.Errorf("thickness: %w", err)
	}

	dec, err := a.Decomposer.Decompose(points)
	if err != nil {
		return Report{}, err
	}

	r := Report{
		Decomposer: a.Decomposer.Name(),
		Samples:    len(points),
		Mean:       dec.Mean,
		ISD:        basis.ISD,
	}
	for _, v := range dec.Values {
		r.TotalVariance += math.Max(0, v)
	}
	for i := range dec.Values {
		vec := canonicalSign(dec.Vectors[i])
		variance := math.Max(0, dec.Values[i])
		c := Component{
			Vector:       vec,
			Variance:     variance,
			ISDAlignment: math.Abs(vec.Dot(basis.ISD)),
		}
		if r.TotalVariance > 0 {
			c.Explained = variance / r.TotalVariance
		}
		r.Components[i] = c
	}

	cov := dec.Covariance
	r.AlongISD = math.Max(0, cov.QuadForm(basis.ISD))
	r.AcrossISD = math.Max(0, cov.Trace()-r.AlongISD)
	r.Thickness = math.Sqrt(r.AcrossISD)

	// Covariance restricted to the ISD-orthogonal plane.
	a11 := cov.QuadForm(basis.U1)
	a22 := cov.QuadForm(basis.U2)
	a12 := basis.U1.Dot(cov.MulVec3(basis.U2))
	e1, e2, v1, v2 := mathutil.Eigen2x2Sym(a11, a12, a22)
	r.CrossSection = CrossSection{
		Major:   chroma.Point2(v1),
		Minor:   chroma.Point2(v2),
		SDMajor: math.Sqrt(math.Max(0, e1)),
		SDMinor: math.Sqrt(math.Max(0, e2)),
	}
	return r, nil
}

// canonicalSign flips v so its largest-magnitude component is positive.
func canonicalSign(v mathutil.Vec3) mathutil.Vec3 {
	k := 0
	for i := 1; i < 3; i++ {
		if math.Abs(v[i]) > math.Abs(v[k]) {
			k = i
		}
	}
	if v[k] < 0 {
		return v.Scale(-1)
	}
	return v
}
