package mathutil

import "math"

// AngleBetween returns the angle between a and b in degrees (0–180).
// Returns 0 if either vector is zero.
func AngleBetween(a, b Vec3) float64 {
	la, lb := a.Len(), b.Len()
	if la < 1e-12 || lb < 1e-12 {
		return 0
	}
	c := a.Dot(b) / (la * lb)
	c = math.Max(-1, math.Min(1, c))
	return Rad2Deg(math.Acos(c))
}

// AxisAngle returns the angle between the lines spanned by a and b in
// degrees (0–90), ignoring sign.
func AxisAngle(a, b Vec3) float64 {
	d := AngleBetween(a, b)
	if d > 90 {
		return 180 - d
	}
	return d
}
