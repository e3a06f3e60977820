// Package isd estimates the Illuminant Spectral Direction: the unit vector in
// log-RGB space along which a surface moves between shadow and full light.
package isd

import (
	"errors"
	"fmt"
	"sort"

	"bidr-analyzer/internal/colorspace"
	"bidr-analyzer/internal/mathutil"
	"bidr-analyzer/internal/simulate"
)

// DegenerateNorm is the smallest mean lit−shadow difference norm for which
// a direction is considered defined.
const DegenerateNorm = 1e-9

// DegenerateInputError reports a lit/shadow difference too small to define
// a direction.
type DegenerateInputError struct {
	Group string
	Norm  float64
}

func (e *DegenerateInputError) Error() string {
	if e.Group != "" {
		return fmt.Sprintf("isd: group %q: mean lit-shadow difference has near-zero norm %g", e.Group, e.Norm)
	}
	return fmt.Sprintf("isd: mean lit-shadow difference has near-zero norm %g", e.Norm)
}

// ErrMismatchedPairs is returned when lit and shadow sequences differ in
// length or are empty.
var ErrMismatchedPairs = errors.New("isd: lit and shadow samples must be non-empty and equal length")

// Estimate returns the normalized mean of lit[i] − shadow[i]. Both inputs are
// log-space samples; index i of each is the same material point.
func Estimate(lit, shadow []mathutil.Vec3) (mathutil.Vec3, error) {
	if len(lit) == 0 || len(lit) != len(shadow) {
		return mathutil.Vec3{}, fmt.Errorf("%w (lit=%d, shadow=%d)", ErrMismatchedPairs, len(lit), len(shadow))
	}
	var sum mathutil.Vec3
	for i := range lit {
		sum = sum.Add(lit[i].Sub(shadow[i]))
	}
	mean := sum.Scale(1 / float64(len(lit)))
	n := mean.Len()
	if n < DegenerateNorm || !mean.IsFinite() {
		return mathutil.Vec3{}, &DegenerateInputError{Norm: n}
	}
	return mean.Scale(1 / n), nil
}

// Group is the lit/shadow sample set of one illuminant.
type Group struct {
	Lit    []mathutil.Vec3
	Shadow []mathutil.Vec3
}

// EstimateGroups estimates one ISD per illuminant, each only from its own
// group. The first failing group (in name order) aborts the call.
func EstimateGroups(groups map[string]Group) (map[string]mathutil.Vec3, error) {
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make(map[string]mathutil.Vec3, len(groups))
	for _, name := range names {
		g := groups[name]
		v, err := Estimate(g.Lit, g.Shadow)
		if err != nil {
			var de *DegenerateInputError
			if errors.As(err, &de) {
				de.Group = name
				return nil, de
			}
			return nil, fmt.Errorf("isd: group %q: %w", name, err)
		}
		out[name] = v
	}
	return out, nil
}

// FromIlluminant returns the analytic ISD log(A + D) − log(A), normalized.
func FromIlluminant(tr colorspace.Transform, il simulate.Illuminant) (mathutil.Vec3, error) {
	lit, err := tr.ToLog(il.Irradiance(1))
	if err != nil {
		return mathutil.Vec3{}, fmt.Errorf("isd: illuminant %q: %w", il.Name, err)
	}
	amb, err := tr.ToLog(il.Ambient)
	if err != nil {
		return mathutil.Vec3{}, fmt.Errorf("isd: illuminant %q: %w", il.Name, err)
	}
	v, err := Estimate([]mathutil.Vec3{lit}, []mathutil.Vec3{amb})
	if err != nil {
		var de *DegenerateInputError
		if errors.As(err, &de) {
			de.Group = il.Name
		}
		return mathutil.Vec3{}, err
	}
	return v, nil
}

// SweepEndpoints splits a log-space sweep into (last, first) pairs so a
// sweep ordered shadow→lit can feed Estimate directly.
func SweepEndpoints(sweeps ...[]mathutil.Vec3) (lit, shadow []mathutil.Vec3) {
	for _, s := range sweeps {
		if len(s) < 2 {
			continue
		}
		lit = append(lit, s[len(s)-1])
		shadow = append(shadow, s[0])
	}
	return lit, shadow
}
