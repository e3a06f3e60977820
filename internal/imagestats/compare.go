// Package imagestats compares an image in linear and logarithmic
// representations: midline intensity profiles, intensity histograms and the
// two mapping curves.
package imagestats

import (
	"fmt"
	"math"

	"bidr-analyzer/internal/colorspace"
	"bidr-analyzer/internal/mathutil"
)

// LumaWeights are the Rec. 601 luma coefficients, rescaled to sum to one so
// a neutral grey v has intensity v.
var LumaWeights = func() mathutil.Vec3 {
	w := mathutil.Vec3{0.2989, 0.5870, 0.1140}
	return w.Scale(1 / (w[0] + w[1] + w[2]))
}()

// Axis selects the direction of the intensity profile.
type Axis int

const (
	// Row samples along a horizontal line.
	Row Axis = iota
	// Column samples along a vertical line.
	Column
)

// Options controls Compare.
type Options struct {
	Axis Axis
	// Line is the row or column index; negative selects the midline.
	Line int
	// Bins is the histogram bin count.
	Bins int
	// CurveSamples is the number of points on the mapping curves.
	CurveSamples int
	// Normalize rescales both representations to [0, 1] before measuring,
	// as a display pipeline would.
	Normalize bool
}

// DefaultOptions samples the middle row with 100 histogram bins and
// 1000-point mapping curves on raw values.
func DefaultOptions() Options {
	return Options{Axis: Row, Line: -1, Bins: 100, CurveSamples: 1000}
}

// Histogram counts values in Bins equal-width bins over [Min, Max].
type Histogram struct {
	Min    float64
	Max    float64
	Counts []int
}

// BinWidth returns the width of one bin.
func (h Histogram) BinWidth() float64 {
	if len(h.Counts) == 0 {
		return 0
	}
	return (h.Max - h.Min) / float64(len(h.Counts))
}

// BinRange returns the [lo, hi) interval of bin i.
func (h Histogram) BinRange(i int) (float64, float64) {
	w := h.BinWidth()
	return h.Min + float64(i)*w, h.Min + float64(i+1)*w
}

// NonEmpty returns the indices of bins with a non-zero count.
func (h Histogram) NonEmpty() []int {
	var idx []int
	for i, c := range h.Counts {
		if c > 0 {
			idx = append(idx, i)
		}
	}
	return idx
}

// Curves are the identity and normalized-log intensity mappings over [0, 1].
type Curves struct {
	X      []float64
	Linear []float64
	Log    []float64
}

// Comparison is the linear-vs-log breakdown of one image.
type Comparison struct {
	Linear        *Image // linear representation (normalized if requested)
	Log           *Image // log representation (normalized if requested)
	LinearGray    []float64
	LogGray       []float64
	Axis          Axis
	Line          int
	LinearProfile []float64
	LogProfile    []float64
	LinearHist    Histogram
	LogHist       Histogram
	Curves        Curves
}

// Compare computes profiles, histograms and mapping curves for img in linear
// and log representations using tr for the log transform.
func Compare(img *Image, tr colorspace.Transform, opts Options) (Comparison, error) {
	if err := img.Validate(); err != nil {
		return Comparison{}, err
	}
	if opts.Bins <= 0 {
		return Comparison{}, fmt.Errorf("imagestats: bins must be positive, got %d", opts.Bins)
	}

	linear := img
	if opts.Normalize {
		linear = normalize01(img)
	}
	logPix, err := tr.ToLogPixels(linear.Pix)
	if err != nil {
		return Comparison{}, fmt.Errorf("imagestats: %w", err)
	}
	logImg := &Image{Width: img.Width, Height: img.Height, Pix: logPix}
	if opts.Normalize {
		logImg = normalize01(logImg)
	}

	c := Comparison{
		Linear:     linear,
		Log:        logImg,
		LinearGray: Gray(linear),
		LogGray:    Gray(logImg),
		Axis:       opts.Axis,
	}
	c.Line, err = resolveLine(img, opts)
	if err != nil {
		return Comparison{}, err
	}
	c.LinearProfile = Profile(c.LinearGray, img.Width, img.Height, opts.Axis, c.Line)
	c.LogProfile = Profile(c.LogGray, img.Width, img.Height, opts.Axis, c.Line)
	c.LinearHist = NewHistogram(c.LinearGray, opts.Bins)
	c.LogHist = NewHistogram(c.LogGray, opts.Bins)
	c.Curves = MappingCurves(opts.CurveSamples, tr.Epsilon)
	return c, nil
}

func resolveLine(img *Image, opts Options) (int, error) {
	limit := img.Height
	if opts.Axis == Column {
		limit = img.Width
	}
	if opts.Line < 0 {
		return limit / 2, nil
	}
	if opts.Line >= limit {
		return 0, fmt.Errorf("imagestats: line %d out of range [0, %d)", opts.Line, limit)
	}
	return opts.Line, nil
}

// Gray returns the per-pixel intensity (LumaWeights · pixel), row-major.
func Gray(img *Image) []float64 {
	out := make([]float64, len(img.Pix))
	for i, p := range img.Pix {
		out[i] = LumaWeights.Dot(p)
	}
	return out
}

// Profile extracts one row (Axis Row) or column (Axis Column) of a w×h
// row-major intensity buffer.
func Profile(gray []float64, w, h int, axis Axis, line int) []float64 {
	if axis == Column {
		out := make([]float64, h)
		for y := 0; y < h; y++ {
			out[y] = gray[y*w+line]
		}
		return out
	}
	out := make([]float64, w)
	copy(out, gray[line*w:(line+1)*w])
	return out
}

// NewHistogram bins values over their own range. A constant input gets the
// range [v−0.5, v+0.5] so the spike sits in the middle.
func NewHistogram(values []float64, bins int) Histogram {
	h := Histogram{Counts: make([]int, bins)}
	if len(values) == 0 {
		h.Max = 1
		return h
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	h.Min, h.Max = lo, hi
	w := h.BinWidth()
	for _, v := range values {
		i := int((v - lo) / w)
		if i >= bins {
			i = bins - 1
		}
		if i < 0 {
			i = 0
		}
		h.Counts[i]++
	}
	return h
}

// MappingCurves samples the identity and the normalized log mapping
// (log(x+ε) − log ε) / (log(1+ε) − log ε) on n points over [0, 1].
func MappingCurves(n int, eps float64) Curves {
	if n < 2 {
		n = 2
	}
	c := Curves{
		X:      make([]float64, n),
		Linear: make([]float64, n),
		Log:    make([]float64, n),
	}
	den := math.Log(1+eps) - math.Log(eps)
	for i := 0; i < n; i++ {
		x := float64(i) / float64(n-1)
		c.X[i] = x
		c.Linear[i] = x
		c.Log[i] = (math.Log(x+eps) - math.Log(eps)) / den
	}
	return c
}

// normalize01 rescales all channels jointly to [0, 1].
func normalize01(img *Image) *Image {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, p := range img.Pix {
		for _, v := range p {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	scale := 1 / (hi - lo + 1e-8)
	out := NewImage(img.Width, img.Height)
	for i, p := range img.Pix {
		out.Pix[i] = mathutil.Vec3{(p[0] - lo) * scale, (p[1] - lo) * scale, (p[2] - lo) * scale}
	}
	return out
}
