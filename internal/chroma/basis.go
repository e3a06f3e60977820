// Package chroma builds the plane orthogonal to an ISD and projects log-RGB
// samples onto it, giving illumination-invariant 2-D chromaticity.
package chroma

import (
	"errors"
	"math"

	"bidr-analyzer/internal/mathutil"
)

// ErrZeroDirection is returned when a basis is requested for a zero vector.
var ErrZeroDirection = errors.New("chroma: direction vector has zero length")

// Basis is an orthonormal frame {ISD, U1, U2} of log-RGB space.
type Basis struct {
	ISD mathutil.Vec3
	U1  mathutil.Vec3
	U2  mathutil.Vec3
}

var axes = [3]mathutil.Vec3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}

// BuildBasis returns two unit vectors spanning the plane orthogonal to isd.
// The helper axis is the standard axis least aligned with isd (ties go to the
// lowest index), so the same isd always yields the same signs.
func BuildBasis(isd mathutil.Vec3) (Basis, error) {
	if !isd.IsFinite() {
		return Basis{}, ErrZeroDirection
	}
	v := isd.Normalize()
	if v == (mathutil.Vec3{}) {
		return Basis{}, ErrZeroDirection
	}

	helper := axes[0]
	best := math.Abs(v[0])
	for k := 1; k < 3; k++ {
		if d := math.Abs(v[k]); d < best {
			best = d
			helper = axes[k]
		}
	}

	u1 := helper.Sub(v.Scale(helper.Dot(v))).Normalize()
	u2 := v.Cross(u1).Normalize()
	return Basis{ISD: v, U1: u1, U2: u2}, nil
}

// Matrix returns the rotation whose rows are U1, U2, ISD; it maps log-RGB
// coordinates into the (chromaticity, chromaticity, illumination) frame.
func (b Basis) Matrix() mathutil.Mat3 {
	return mathutil.Mat3{
		b.U1[0], b.U1[1], b.U1[2],
		b.U2[0], b.U2[1], b.U2[2],
		b.ISD[0], b.ISD[1], b.ISD[2],
	}
}
