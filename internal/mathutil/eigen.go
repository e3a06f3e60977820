package mathutil

import (
	"math"
	"sort"
)

// Eigen2x2Sym computes eigenvalues and eigenvectors of a 2×2 symmetric matrix:
//
//	| a  b |
//	| b  d |
//
// Returns (eval1, eval2, evec1, evec2) where eval1 >= eval2.
// evec1 is the principal eigenvector (largest eigenvalue).
func Eigen2x2Sym(a, b, d float64) (float64, float64, [2]float64, [2]float64) {
	trace := a + d
	det := a*d - b*b
	disc := trace*trace/4 - det
	if disc < 0 {
		disc = 0
	}
	sqrtDisc := math.Sqrt(disc)

	eval1 := trace/2 + sqrtDisc
	eval2 := trace/2 - sqrtDisc

	var evec1, evec2 [2]float64

	if math.Abs(b) > 1e-12 {
		evec1 = normalize2(eval1-d, b)
		evec2 = normalize2(eval2-d, b)
	} else if a >= d {
		evec1 = [2]float64{1, 0}
		evec2 = [2]float64{0, 1}
	} else {
		evec1 = [2]float64{0, 1}
		evec2 = [2]float64{1, 0}
	}

	return eval1, eval2, evec1, evec2
}

func normalize2(x, y float64) [2]float64 {
	l := math.Sqrt(x*x + y*y)
	if l < 1e-12 {
		return [2]float64{1, 0}
	}
	return [2]float64{x / l, y / l}
}

// jacobiMaxSweeps bounds the cyclic Jacobi iteration. A 3×3 symmetric
// matrix converges to machine precision in well under ten sweeps.
const jacobiMaxSweeps = 50

// EigenSym3 computes the eigen decomposition of a 3×3 symmetric matrix with
// cyclic Jacobi rotations. Eigenvalues are returned in descending order,
// vecs[i] is the unit eigenvector for vals[i]. converged is false if the
// off-diagonal mass did not vanish within jacobiMaxSweeps.
func EigenSym3(m Mat3) (vals [3]float64, vecs [3]Vec3, converged bool) {
	a := m
	v := Mat3Identity()

	scale := 0.0
	for _, x := range a {
		scale = math.Max(scale, math.Abs(x))
	}
	tol := 1e-30 * math.Max(scale*scale, 1e-300)

	for sweep := 0; sweep < jacobiMaxSweeps; sweep++ {
		off := a[1]*a[1] + a[2]*a[2] + a[5]*a[5]
		if off <= tol {
			converged = true
			break
		}
		for _, pq := range [3][2]int{{0, 1}, {0, 2}, {1, 2}} {
			p, q := pq[0], pq[1]
			apq := a.At(p, q)
			if apq == 0 {
				continue
			}
			theta := (a.At(q, q) - a.At(p, p)) / (2 * apq)
			var t float64
			if math.Abs(theta) > 1e150 {
				t = 1 / (2 * theta)
			} else {
				t = 1 / (math.Abs(theta) + math.Sqrt(theta*theta+1))
				if theta < 0 {
					t = -t
				}
			}
			c := 1 / math.Sqrt(t*t+1)
			s := t * c

			rot := Mat3Identity()
			rot[p*3+p] = c
			rot[q*3+q] = c
			rot[p*3+q] = s
			rot[q*3+p] = -s

			a = Mat3Mul(Mat3Mul(rot.Transpose(), a), rot)
			v = Mat3Mul(v, rot)
		}
	}
	if !converged {
		off := a[1]*a[1] + a[2]*a[2] + a[5]*a[5]
		converged = off <= tol
	}

	order := []int{0, 1, 2}
	diag := [3]float64{a[0], a[4], a[8]}
	sort.SliceStable(order, func(i, j int) bool { return diag[order[i]] > diag[order[j]] })
	for i, k := range order {
		vals[i] = diag[k]
		vecs[i] = v.Col(k).Normalize()
	}
	return vals, vecs, converged
}
