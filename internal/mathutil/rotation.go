package mathutil

import "math"

// AxisRotation returns the right-handed rotation by a radians about standard
// axis k (0 = x, 1 = y, 2 = z).
func AxisRotation(k int, a float64) Mat3 {
	c, s := math.Cos(a), math.Sin(a)
	i, j := (k+1)%3, (k+2)%3
	m := Mat3Identity()
	m[3*i+i], m[3*j+j] = c, c
	m[3*i+j], m[3*j+i] = -s, s
	return m
}

// RotX rotates about the x axis; used to tilt a view toward the horizon.
func RotX(a float64) Mat3 { return AxisRotation(0, a) }

// RotZ rotates about the z axis; used to spin a view in azimuth.
func RotZ(a float64) Mat3 { return AxisRotation(2, a) }

func Deg2Rad(d float64) float64 { return d * math.Pi / 180 }

func Rad2Deg(r float64) float64 { return r * 180 / math.Pi }
