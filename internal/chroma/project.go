package chroma

import (
	"math"

	"bidr-analyzer/internal/mathutil"
)

// Point2 is a 2-D chromaticity coordinate (along U1, along U2).
type Point2 [2]float64

// Project returns (p·U1, p·U2) for every log-space sample.
func Project(points []mathutil.Vec3, b Basis) []Point2 {
	out := make([]Point2, len(points))
	for i, p := range points {
		out[i] = Point2{p.Dot(b.U1), p.Dot(b.U2)}
	}
	return out
}

// ProjectOntoPlane orthogonally projects points onto the plane through origin
// spanned by U1 and U2. It returns the projected 3-D points and their 2-D
// coordinates relative to origin.
func ProjectOntoPlane(points []mathutil.Vec3, origin mathutil.Vec3, b Basis) ([]mathutil.Vec3, []Point2) {
	proj := make([]mathutil.Vec3, len(points))
	coords := make([]Point2, len(points))
	for i, p := range points {
		d := p.Sub(origin)
		a, c := d.Dot(b.U1), d.Dot(b.U2)
		proj[i] = origin.Add(b.U1.Scale(a)).Add(b.U2.Scale(c))
		coords[i] = Point2{a, c}
	}
	return proj, coords
}

// Centroid returns the mean of points; the default plane origin.
func Centroid(points []mathutil.Vec3) mathutil.Vec3 {
	return mathutil.Mean(points)
}

// Spread describes the principal axes of a 2-D chromaticity cluster.
type Spread struct {
	Center  Point2
	Major   Point2 // unit direction of largest variance
	Minor   Point2
	SDMajor float64
	SDMinor float64
}

// ClusterSpread returns the centre and principal axes of pts. A cluster of
// fewer than two points has zero spread.
func ClusterSpread(pts []Point2) Spread {
	var s Spread
	if len(pts) == 0 {
		return s
	}
	n := float64(len(pts))
	for _, p := range pts {
		s.Center[0] += p[0]
		s.Center[1] += p[1]
	}
	s.Center[0] /= n
	s.Center[1] /= n
	if len(pts) < 2 {
		s.Major, s.Minor = Point2{1, 0}, Point2{0, 1}
		return s
	}

	var cxx, cxy, cyy float64
	for _, p := range pts {
		dx, dy := p[0]-s.Center[0], p[1]-s.Center[1]
		cxx += dx * dx
		cxy += dx * dy
		cyy += dy * dy
	}
	cxx /= n - 1
	cxy /= n - 1
	cyy /= n - 1

	e1, e2, v1, v2 := mathutil.Eigen2x2Sym(cxx, cxy, cyy)
	s.Major, s.Minor = Point2(v1), Point2(v2)
	s.SDMajor = math.Sqrt(math.Max(0, e1))
	s.SDMinor = math.Sqrt(math.Max(0, e2))
	return s
}

// Distance returns the Euclidean distance between two points.
func Distance(a, b Point2) float64 {
	return math.Hypot(a[0]-b[0], a[1]-b[1])
}
