package render

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"bidr-analyzer/internal/chroma"
	"bidr-analyzer/internal/imagestats"
	"bidr-analyzer/internal/mathutil"
	"bidr-analyzer/internal/thickness"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Series2D is a named set of plane coordinates.
type Series2D struct {
	Name   string
	Points []chroma.Point2
}

func xys(pts []chroma.Point2) plotter.XYs {
	out := make(plotter.XYs, len(pts))
	for i, p := range pts {
		out[i] = plotter.XY{X: p[0], Y: p[1]}
	}
	return out
}

func series(ys []float64) plotter.XYs {
	out := make(plotter.XYs, len(ys))
	for i, y := range ys {
		out[i] = plotter.XY{X: float64(i), Y: y}
	}
	return out
}

func newPlot(title, xlabel, ylabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xlabel
	p.Y.Label.Text = ylabel
	p.Legend.Top = true
	return p
}

func addLine(p *plot.Plot, name string, pts plotter.XYs, c color.Color) error {
	l, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("render: %s: %w", name, err)
	}
	l.LineStyle.Color = c
	l.LineStyle.Width = vg.Points(1.5)
	p.Add(l)
	if name != "" {
		p.Legend.Add(name, l)
	}
	return nil
}

func addScatter(p *plot.Plot, name string, pts plotter.XYs, c color.Color, radius vg.Length) error {
	if len(pts) == 0 {
		return nil
	}
	sc, err := plotter.NewScatter(pts)
	if err != nil {
		return fmt.Errorf("render: %s: %w", name, err)
	}
	sc.GlyphStyle.Color = c
	sc.GlyphStyle.Radius = radius
	sc.GlyphStyle.Shape = draw.CircleGlyph{}
	p.Add(sc)
	if name != "" {
		p.Legend.Add(name, sc)
	}
	return nil
}

// ChromaticityFigure scatters plane coordinates, one colour per series.
func ChromaticityFigure(groups []Series2D, o Options) (image.Image, error) {
	p := newPlot("Illumination-invariant chromaticity (2-D plane coordinates)",
		"u1 (ISD-orthogonal axis 1)", "u2 (ISD-orthogonal axis 2)")
	colors := Palette(len(groups))
	for i, g := range groups {
		if err := addScatter(p, g.Name, xys(g.Points), withAlpha(colors[i], 0.6), vg.Points(2)); err != nil {
			return nil, err
		}
	}
	return Rasterize(p, o)
}

// ThicknessFigure shows the explained variance of each principal component
// next to the cluster's cross-section in the ISD-orthogonal plane with its
// 2σ ellipse.
func ThicknessFigure(points []mathutil.Vec3, rep thickness.Report, basis chroma.Basis, o Options) (image.Image, error) {
	bars := newPlot(fmt.Sprintf("Explained variance (%s)", rep.Decomposer), "", "fraction of total variance")
	vals := make(plotter.Values, len(rep.Components))
	for i, c := range rep.Components {
		vals[i] = c.Explained
	}
	bc, err := plotter.NewBarChart(vals, vg.Points(40))
	if err != nil {
		return nil, fmt.Errorf("render: explained variance: %w", err)
	}
	bc.Color = Blue
	bars.Add(bc)
	bars.NominalX("PC1", "PC2", "PC3")
	bars.Y.Min, bars.Y.Max = 0, 1

	cross := newPlot(fmt.Sprintf("Cross-section across ISD (thickness %.4f)", rep.Thickness), "u1", "u2")
	_, coords := chroma.ProjectOntoPlane(points, rep.Mean, basis)
	if err := addScatter(cross, "samples", xys(coords), withAlpha(Orange, 0.6), vg.Points(2)); err != nil {
		return nil, err
	}
	if err := addLine(cross, "2σ", ellipse(rep.CrossSection, 2, 100), Red); err != nil {
		return nil, err
	}
	return panels(o, bars, cross)
}

// ellipse samples the k-sigma outline of a cross-section centred at the origin.
func ellipse(cs thickness.CrossSection, k float64, n int) plotter.XYs {
	out := make(plotter.XYs, n+1)
	for i := 0; i <= n; i++ {
		t := 2 * math.Pi * float64(i) / float64(n)
		a, b := k*cs.SDMajor*math.Cos(t), k*cs.SDMinor*math.Sin(t)
		out[i] = plotter.XY{
			X: a*cs.Major[0] + b*cs.Minor[0],
			Y: a*cs.Major[1] + b*cs.Minor[1],
		}
	}
	return out
}

// ImagesFigure shows the linear and log images side by side.
func ImagesFigure(c imagestats.Comparison, o Options) (image.Image, error) {
	left := imagePlot(c.Linear.ToNRGBA(), "Linear RGB (Radiance Proportional)")
	right := imagePlot(c.Log.ToNRGBA(), "Log-RGB (Enhanced Shadows, Compressed Highlights)")
	return panels(o, left, right)
}

func imagePlot(img image.Image, title string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.HideAxes()
	b := img.Bounds()
	p.Add(plotter.NewImage(img, 0, 0, float64(b.Dx()), float64(b.Dy())))
	return p
}

// ProfileFigure plots the linear and log intensity along the sampled line.
func ProfileFigure(c imagestats.Comparison, o Options) (image.Image, error) {
	xlabel := "Pixel Index (horizontal)"
	if c.Axis == imagestats.Column {
		xlabel = "Pixel Index (vertical)"
	}
	p := newPlot("Intensity Profile Across Midline", xlabel, "Normalized Intensity")
	if err := addLine(p, "Linear RGB Intensity", series(c.LinearProfile), Orange); err != nil {
		return nil, err
	}
	if err := addLine(p, "Log-RGB Intensity", series(c.LogProfile), Blue); err != nil {
		return nil, err
	}
	return Rasterize(p, o)
}

// CurveFigure plots the identity and normalized log mappings.
func CurveFigure(cv imagestats.Curves, o Options) (image.Image, error) {
	p := newPlot("Linear vs Log Mapping Curve", "Input Intensity", "Output (Display Intensity)")
	lin := make(plotter.XYs, len(cv.X))
	lg := make(plotter.XYs, len(cv.X))
	for i, x := range cv.X {
		lin[i] = plotter.XY{X: x, Y: cv.Linear[i]}
		lg[i] = plotter.XY{X: x, Y: cv.Log[i]}
	}
	if err := addLine(p, "Linear", lin, Blue); err != nil {
		return nil, err
	}
	if err := addLine(p, "Log (normalized)", lg, Orange); err != nil {
		return nil, err
	}
	return Rasterize(p, o)
}

// HistogramFigure overlays the linear and log intensity histograms.
func HistogramFigure(c imagestats.Comparison, o Options) (image.Image, error) {
	p := newPlot("Histogram Comparison: Linear vs Log-RGB", "Normalized Intensity", "Pixel Count")
	for _, h := range []struct {
		name string
		hist imagestats.Histogram
		col  color.Color
	}{
		{"Linear RGB", c.LinearHist, Orange},
		{"Log-RGB", c.LogHist, Blue},
	} {
		ph := histogram(h.hist, withAlpha(h.col, 0.6))
		p.Add(ph)
		p.Legend.Add(h.name, ph)
	}
	return Rasterize(p, o)
}

func histogram(h imagestats.Histogram, fill color.Color) *plotter.Histogram {
	bins := make([]plotter.HistogramBin, len(h.Counts))
	for i, n := range h.Counts {
		lo, hi := h.BinRange(i)
		bins[i] = plotter.HistogramBin{Min: lo, Max: hi, Weight: float64(n)}
	}
	return &plotter.Histogram{
		Bins:      bins,
		Width:     h.BinWidth(),
		FillColor: fill,
		LineStyle: draw.LineStyle{Color: fill, Width: vg.Points(0.5)},
	}
}
