package render

import (
	"fmt"
	"image"
	"image/color"
	"sort"

	"bidr-analyzer/internal/chroma"
	"bidr-analyzer/internal/mathutil"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

var logRGBAxes = [3]string{"log R", "log G", "log B"}

// Series3D is a named cloud of log-RGB points.
type Series3D struct {
	Name   string
	Points []mathutil.Vec3
	// Axis, when non-zero, is drawn as an arrow of length ArrowLen from the
	// series mean.
	Axis mathutil.Vec3
}

// ArrowLen is the drawn length of direction arrows in log units.
const ArrowLen = 1.0

func (s *scene) scatter(name string, pts []mathutil.Vec3, c color.Color, radius vg.Length) error {
	if len(pts) == 0 {
		return nil
	}
	s.extend(pts)
	sc, err := plotter.NewScatter(s.view.Project(pts))
	if err != nil {
		return fmt.Errorf("render: %s: %w", name, err)
	}
	sc.GlyphStyle.Color = c
	sc.GlyphStyle.Radius = radius
	sc.GlyphStyle.Shape = draw.CircleGlyph{}
	s.plot.Add(sc)
	if name != "" {
		s.plot.Legend.Add(name, sc)
	}
	return nil
}

func (s *scene) line(name string, pts []mathutil.Vec3, c color.Color, width vg.Length) error {
	s.extend(pts)
	l, err := plotter.NewLine(s.view.Project(pts))
	if err != nil {
		return fmt.Errorf("render: %s: %w", name, err)
	}
	l.LineStyle.Color = c
	l.LineStyle.Width = width
	s.plot.Add(l)
	if name != "" {
		s.plot.Legend.Add(name, l)
	}
	return nil
}

// CylinderFigure draws lit and shadow log-RGB samples with the BIDR line
// joining their means.
func CylinderFigure(lit, shadow, line []mathutil.Vec3, view View, o Options) (image.Image, error) {
	s := newScene("Bi-illumination Dichromatic Reflection (BIDR) Model\nCylinder in Log RGB Space", view)
	if err := s.line("BIDR Cylinder", line, Red, vg.Points(2)); err != nil {
		return nil, err
	}
	if err := s.scatter("Lit Samples", lit, Orange, vg.Points(4)); err != nil {
		return nil, err
	}
	if err := s.scatter("Shadow Samples", shadow, Blue, vg.Points(4)); err != nil {
		return nil, err
	}
	if err := s.axes(logRGBAxes); err != nil {
		return nil, err
	}
	return Rasterize(s.plot, o)
}

// PlaneFigure draws a log-RGB cloud, its projection onto the ISD-orthogonal
// plane through origin, a patch of that plane and the ISD arrow. coords are
// the plane coordinates of the projected points.
func PlaneFigure(points, projected []mathutil.Vec3, coords []chroma.Point2, origin mathutil.Vec3, basis chroma.Basis, view View, o Options) (image.Image, error) {
	s := newScene("ISD-orthogonal plane (illumination-invariant chromaticity)", view)

	patch := planePatch(coords, origin, basis)
	if len(patch) > 0 {
		s.extend(patch)
		poly, err := plotter.NewPolygon(s.view.Project(patch))
		if err != nil {
			return nil, fmt.Errorf("render: plane patch: %w", err)
		}
		poly.Color = withAlpha(Blue, 0.25)
		poly.LineStyle.Width = 0
		s.plot.Add(poly)
	}

	arrow := []mathutil.Vec3{origin, origin.Add(basis.ISD.Scale(ArrowLen))}
	if err := s.line("ISD vector", arrow, Red, vg.Points(3)); err != nil {
		return nil, err
	}
	if err := s.scatter("Log-RGB points", points, withAlpha(Grey, 0.35), vg.Points(1.5)); err != nil {
		return nil, err
	}
	if err := s.scatter("Projected onto plane", projected, withAlpha(Orange, 0.8), vg.Points(1.2)); err != nil {
		return nil, err
	}
	if err := s.axes(logRGBAxes); err != nil {
		return nil, err
	}
	return Rasterize(s.plot, o)
}

// planePatch returns the corners of the plane region covering the 2nd–98th
// percentile of coords, padded by 15% on each side.
func planePatch(coords []chroma.Point2, origin mathutil.Vec3, basis chroma.Basis) []mathutil.Vec3 {
	if len(coords) == 0 {
		return nil
	}
	as := make([]float64, len(coords))
	bs := make([]float64, len(coords))
	for i, c := range coords {
		as[i], bs[i] = c[0], c[1]
	}
	sort.Float64s(as)
	sort.Float64s(bs)
	amin, amax := stat.Quantile(0.02, stat.LinInterp, as, nil), stat.Quantile(0.98, stat.LinInterp, as, nil)
	bmin, bmax := stat.Quantile(0.02, stat.LinInterp, bs, nil), stat.Quantile(0.98, stat.LinInterp, bs, nil)
	padA := 0.15 * (amax - amin + 1e-12)
	padB := 0.15 * (bmax - bmin + 1e-12)
	amin, amax = amin-padA, amax+padA
	bmin, bmax = bmin-padB, bmax+padB

	at := func(a, b float64) mathutil.Vec3 {
		return origin.Add(basis.U1.Scale(a)).Add(basis.U2.Scale(b))
	}
	return []mathutil.Vec3{at(amin, bmin), at(amax, bmin), at(amax, bmax), at(amin, bmax)}
}

// TubesFigure draws one log-RGB cloud per series, each with its own ISD arrow.
func TubesFigure(series []Series3D, view View, o Options) (image.Image, error) {
	s := newScene("Per-illuminant BIDR tubes in Log RGB Space", view)
	colors := Palette(len(series))
	for i, sr := range series {
		if err := s.scatter(sr.Name, sr.Points, withAlpha(colors[i], 0.6), vg.Points(1.5)); err != nil {
			return nil, err
		}
		if sr.Axis == (mathutil.Vec3{}) || len(sr.Points) == 0 {
			continue
		}
		m := mathutil.Mean(sr.Points)
		arrow := []mathutil.Vec3{m, m.Add(sr.Axis.Normalize().Scale(ArrowLen))}
		if err := s.line("", arrow, colors[i], vg.Points(2.5)); err != nil {
			return nil, err
		}
	}
	if err := s.axes(logRGBAxes); err != nil {
		return nil, err
	}
	return Rasterize(s.plot, o)
}
