package thickness

import (
	"errors"
	"fmt"
	"math"

	"bidr-analyzer/internal/mathutil"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Decomposition is the principal-component breakdown of a 3-D point cloud.
type Decomposition struct {
	Mean       mathutil.Vec3
	Covariance mathutil.Mat3
	Values     [3]float64       // variances, descending
	Vectors    [3]mathutil.Vec3 // unit principal directions, Vectors[i] ↔ Values[i]
}

// Decomposer computes a Decomposition. Implementations must agree up to
// eigenvector sign.
type Decomposer interface {
	Name() string
	Decompose(points []mathutil.Vec3) (Decomposition, error)
}

// Strategy names accepted by Select.
const (
	StrategyAuto   = "auto"
	StrategyGonum  = "gonum"
	StrategyJacobi = "jacobi"
)

// GonumDecomposer runs gonum's PCA (SVD of the centred data matrix).
type GonumDecomposer struct{}

func (GonumDecomposer) Name() string { return StrategyGonum }

func (GonumDecomposer) Decompose(points []mathutil.Vec3) (Decomposition, error) {
	n := len(points)
	if n < MinSamples {
		return Decomposition{}, &InsufficientSamplesError{Got: n, Need: MinSamples}
	}
	data := mat.NewDense(n, 3, nil)
	for i, p := range points {
		data.SetRow(i, p[:])
	}

	var d Decomposition
	for k := 0; k < 3; k++ {
		d.Mean[k] = stat.Mean(mat.Col(nil, k, data), nil)
	}

	var cov mat.SymDense
	stat.CovarianceMatrix(&cov, data, nil)
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			d.Covariance[r*3+c] = cov.At(r, c)
		}
	}

	var pc stat.PC
	if ok := pc.PrincipalComponents(data, nil); !ok {
		return Decomposition{}, errors.New("thickness: gonum PCA factorization failed")
	}
	vars := pc.VarsTo(nil)
	var vecs mat.Dense
	pc.VectorsTo(&vecs)
	if len(vars) < 3 {
		return Decomposition{}, fmt.Errorf("thickness: gonum PCA returned %d components", len(vars))
	}
	for i := 0; i < 3; i++ {
		d.Values[i] = vars[i]
		d.Vectors[i] = mathutil.Vec3{vecs.At(0, i), vecs.At(1, i), vecs.At(2, i)}.Normalize()
	}
	return d, nil
}

// JacobiDecomposer builds the sample covariance directly and diagonalizes it
// with cyclic Jacobi rotations. It has no dependencies beyond mathutil.
type JacobiDecomposer struct{}

func (JacobiDecomposer) Name() string { return StrategyJacobi }

func (JacobiDecomposer) Decompose(points []mathutil.Vec3) (Decomposition, error) {
	if len(points) < MinSamples {
		return Decomposition{}, &InsufficientSamplesError{Got: len(points), Need: MinSamples}
	}
	cov, mean := mathutil.Covariance(points)
	vals, vecs, ok := mathutil.EigenSym3(cov)
	if !ok {
		return Decomposition{}, errors.New("thickness: jacobi eigen solver did not converge")
	}
	return Decomposition{Mean: mean, Covariance: cov, Values: vals, Vectors: vecs}, nil
}

// Select returns the decomposer registered under name. "auto" (or "")
// probes for the gonum strategy and falls back to Jacobi.
func Select(name string) (Decomposer, error) {
	switch name {
	case StrategyAuto, "":
		return Probe(), nil
	case StrategyGonum:
		return GonumDecomposer{}, nil
	case StrategyJacobi:
		return JacobiDecomposer{}, nil
	default:
		return nil, fmt.Errorf("thickness: unknown decomposer %q (want auto, gonum or jacobi)", name)
	}
}

// probeCloud has sample variances 16/7, 4/7 and 0 along x, y and z.
var probeCloud = []mathutil.Vec3{
	{2, 0, 0}, {-2, 0, 0}, {0, 1, 0}, {0, -1, 0},
	{2, 0, 0}, {-2, 0, 0}, {0, 1, 0}, {0, -1, 0},
}

// Probe runs the gonum strategy on a reference cloud and returns it when the
// result is sane; otherwise it returns the Jacobi strategy.
func Probe() Decomposer {
	d, err := GonumDecomposer{}.Decompose(probeCloud)
	if err != nil {
		return JacobiDecomposer{}
	}
	want := [3]float64{16.0 / 7, 4.0 / 7, 0}
	for i := range want {
		if math.Abs(d.Values[i]-want[i]) > 1e-9 {
			return JacobiDecomposer{}
		}
	}
	return GonumDecomposer{}
}
