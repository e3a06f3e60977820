package render

import (
	"math"

	"bidr-analyzer/internal/mathutil"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// View is a camera orientation for pseudo-3-D plots, in degrees.
type View struct {
	Elev float64
	Azim float64
}

// DefaultView looks down 30° from the horizon at azimuth −60°.
func DefaultView() View {
	return View{Elev: 30, Azim: -60}
}

// Matrix rotates world coordinates so that screen x and y are the first two
// rows and the third row is depth toward the viewer.
func (v View) Matrix() mathutil.Mat3 {
	spin := mathutil.RotZ(mathutil.Deg2Rad(-v.Azim))
	tilt := mathutil.RotX(mathutil.Deg2Rad(v.Elev - 90))
	return mathutil.Mat3Mul(tilt, spin)
}

// Project maps points to screen coordinates.
func (v View) Project(points []mathutil.Vec3) plotter.XYs {
	m := v.Matrix()
	out := make(plotter.XYs, len(points))
	for i, p := range points {
		q := m.MulVec3(p)
		out[i] = plotter.XY{X: q[0], Y: q[1]}
	}
	return out
}

// scene collects 3-D geometry and remembers its bounding box so axes can be
// drawn around it.
type scene struct {
	plot *plot.Plot
	view View
	lo   mathutil.Vec3
	hi   mathutil.Vec3
	seen bool
}

func newScene(title string, view View) *scene {
	p := plot.New()
	p.Title.Text = title
	p.HideAxes()
	p.Legend.Top = true
	return &scene{
		plot: p,
		view: view,
		lo:   mathutil.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)},
		hi:   mathutil.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)},
	}
}

func (s *scene) extend(points []mathutil.Vec3) {
	for _, p := range points {
		for k := 0; k < 3; k++ {
			s.lo[k] = math.Min(s.lo[k], p[k])
			s.hi[k] = math.Max(s.hi[k], p[k])
		}
		s.seen = true
	}
}

// axes draws the three edges of the bounding box that meet at its minimum
// corner, labelled with names.
func (s *scene) axes(names [3]string) error {
	if !s.seen {
		return nil
	}
	var ends [3]mathutil.Vec3
	for k := 0; k < 3; k++ {
		ends[k] = s.lo
		ends[k][k] = s.hi[k]
		if ends[k][k] == s.lo[k] {
			ends[k][k] += 1e-3
		}
	}
	for k := 0; k < 3; k++ {
		l, err := plotter.NewLine(s.view.Project([]mathutil.Vec3{s.lo, ends[k]}))
		if err != nil {
			return err
		}
		l.LineStyle.Color = Grey
		l.LineStyle.Width = vg.Points(0.75)
		s.plot.Add(l)
	}
	lbl, err := plotter.NewLabels(plotter.XYLabels{
		XYs:    s.view.Project(ends[:]),
		Labels: names[:],
	})
	if err != nil {
		return err
	}
	s.plot.Add(lbl)
	return nil
}
