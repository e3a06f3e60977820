// Package compose runs the simulate → log → ISD → basis → projection
// pipeline independently for several illuminants.
package compose

import (
	"fmt"
	"sort"

	"bidr-analyzer/internal/chroma"
	"bidr-analyzer/internal/colorspace"
	"bidr-analyzer/internal/isd"
	"bidr-analyzer/internal/mathutil"
	"bidr-analyzer/internal/simulate"
)

// Result is everything computed for one illuminant.
type Result struct {
	Scenario   simulate.Scenario
	Samples    map[string][]mathutil.Vec3 // linear RGB per material
	LogSamples map[string][]mathutil.Vec3 // log RGB per material
	ISD        mathutil.Vec3
	Basis      chroma.Basis
	Chroma     map[string][]chroma.Point2
}

// Materials returns the material names in scenario order.
func (r Result) Materials() []string {
	names := make([]string, len(r.Scenario.Materials))
	for i, m := range r.Scenario.Materials {
		names[i] = m.Name
	}
	return names
}

// AllLog returns every log sample of the illuminant in material order.
func (r Result) AllLog() []mathutil.Vec3 {
	var out []mathutil.Vec3
	for _, name := range r.Materials() {
		out = append(out, r.LogSamples[name]...)
	}
	return out
}

// AllChroma returns every chromaticity point of the illuminant in material order.
func (r Result) AllChroma() []chroma.Point2 {
	var out []chroma.Point2
	for _, name := range r.Materials() {
		out = append(out, r.Chroma[name]...)
	}
	return out
}

// Compose sweeps each scenario, estimates its ISD from its own shadow/lit
// endpoints only, and projects its samples onto its own basis.
func Compose(tr colorspace.Transform, sim *simulate.Simulator, scenarios []simulate.Scenario) (map[string]Result, error) {
	out := make(map[string]Result, len(scenarios))
	for _, sc := range scenarios {
		name := sc.Illuminant.Name
		if _, dup := out[name]; dup {
			return nil, fmt.Errorf("compose: duplicate illuminant %q", name)
		}
		r, err := composeOne(tr, sim, sc)
		if err != nil {
			return nil, fmt.Errorf("compose: illuminant %q: %w", name, err)
		}
		out[name] = r
	}
	return out, nil
}

func composeOne(tr colorspace.Transform, sim *simulate.Simulator, sc simulate.Scenario) (Result, error) {
	samples, err := sim.SweepScenario(sc)
	if err != nil {
		return Result{}, err
	}

	r := Result{
		Scenario:   sc,
		Samples:    samples,
		LogSamples: make(map[string][]mathutil.Vec3, len(samples)),
		Chroma:     make(map[string][]chroma.Point2, len(samples)),
	}
	var sweeps [][]mathutil.Vec3
	for _, m := range sc.Materials {
		ls, err := tr.ToLogAll(samples[m.Name])
		if err != nil {
			return Result{}, fmt.Errorf("material %q: %w", m.Name, err)
		}
		r.LogSamples[m.Name] = ls
		sweeps = append(sweeps, ls)
	}

	lit, shadow := isd.SweepEndpoints(sweeps...)
	r.ISD, err = isd.Estimate(lit, shadow)
	if err != nil {
		return Result{}, err
	}
	r.Basis, err = chroma.BuildBasis(r.ISD)
	if err != nil {
		return Result{}, err
	}
	for _, m := range sc.Materials {
		r.Chroma[m.Name] = chroma.Project(r.LogSamples[m.Name], r.Basis)
	}
	return r, nil
}

// Names returns the illuminant names of results in sorted order.
func Names(results map[string]Result) []string {
	names := make([]string, 0, len(results))
	for name := range results {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Separation returns the angle in degrees between the lines spanned by two
// ISDs.
func Separation(a, b mathutil.Vec3) float64 {
	return mathutil.AxisAngle(a, b)
}
