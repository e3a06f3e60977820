package render

import (
	"image"
	"image/color"
	"math"
	"testing"

	"bidr-analyzer/internal/chroma"
	"bidr-analyzer/internal/colorspace"
	"bidr-analyzer/internal/imagestats"
	"bidr-analyzer/internal/mathutil"
	"bidr-analyzer/internal/thickness"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot"
)

func small() Options {
	return Options{Width: 480, Height: 360, Supersample: 2}
}

func assertSize(t *testing.T, img image.Image, w, h int) {
	t.Helper()
	require.NotNil(t, img)
	assert.Equal(t, w, img.Bounds().Dx())
	assert.Equal(t, h, img.Bounds().Dy())
}

func TestOptionsValidate(t *testing.T) {
	assert.NoError(t, DefaultOptions().Validate())
	assert.Error(t, Options{Width: 0, Height: 10, Supersample: 1}.Validate())
	assert.Error(t, Options{Width: 10, Height: 10, Supersample: 0}.Validate())

	_, err := Rasterize(plot.New(), Options{Width: -1, Height: 5, Supersample: 1})
	assert.Error(t, err)
}

func TestRasterizeSize(t *testing.T) {
	img, err := Rasterize(plot.New(), small())
	require.NoError(t, err)
	assertSize(t, img, 480, 360)

	// Background is white.
	r, g, b, _ := img.At(2, 2).RGBA()
	assert.Equal(t, [3]uint32{0xffff, 0xffff, 0xffff}, [3]uint32{r, g, b})
}

func TestViewMatrix(t *testing.T) {
	top := View{Elev: 90, Azim: 0}.Project([]mathutil.Vec3{{1, 2, 3}})
	assert.InDelta(t, 1, top[0].X, 1e-12)
	assert.InDelta(t, 2, top[0].Y, 1e-12)

	side := View{Elev: 0, Azim: 0}.Project([]mathutil.Vec3{{1, 2, 3}})
	assert.InDelta(t, 1, side[0].X, 1e-12)
	assert.InDelta(t, 3, side[0].Y, 1e-12)

	// Rotations preserve length.
	m := DefaultView().Matrix()
	v := mathutil.Vec3{0.3, -1.2, 2.5}
	assert.InDelta(t, v.Len(), m.MulVec3(v).Len(), 1e-12)
}

func TestPalette(t *testing.T) {
	p := Palette(4)
	require.Len(t, p, 4)
	seen := map[color.RGBA]bool{}
	for _, c := range p {
		seen[color.RGBAModel.Convert(c).(color.RGBA)] = true
	}
	assert.Len(t, seen, 4)
	assert.Empty(t, Palette(0))

	mid := color.NRGBAModel.Convert(Ramp(Orange, Blue, 0)).(color.NRGBA)
	want := color.NRGBAModel.Convert(Orange).(color.NRGBA)
	assert.InDelta(t, float64(want.R), float64(mid.R), 1)
	assert.Equal(t, uint8(128), withAlpha(Red, 0.5).A)
}

func TestPlanePatchLiesInPlane(t *testing.T) {
	b, err := chroma.BuildBasis(mathutil.Vec3{1, 1, 2})
	require.NoError(t, err)
	origin := mathutil.Vec3{-1, -0.5, -0.2}
	var coords []chroma.Point2
	for i := 0; i < 100; i++ {
		coords = append(coords, chroma.Point2{float64(i) / 100, float64(i%7) / 7})
	}
	patch := planePatch(coords, origin, b)
	require.Len(t, patch, 4)
	for _, c := range patch {
		assert.InDelta(t, 0, c.Sub(origin).Dot(b.ISD), 1e-12)
	}
	assert.Nil(t, planePatch(nil, origin, b))
}

func TestEllipse(t *testing.T) {
	cs := thickness.CrossSection{
		Major:   chroma.Point2{1, 0},
		Minor:   chroma.Point2{0, 1},
		SDMajor: 2,
		SDMinor: 0.5,
	}
	pts := ellipse(cs, 2, 40)
	require.Len(t, pts, 41)
	assert.InDelta(t, 4, pts[0].X, 1e-12)
	assert.InDelta(t, 0, pts[0].Y, 1e-12)
	assert.InDelta(t, 1, pts[10].Y, 1e-12)
	assert.InDelta(t, pts[0].X, pts[40].X, 1e-12)
}

func cloud() []mathutil.Vec3 {
	var pts []mathutil.Vec3
	for i := 0; i < 30; i++ {
		g := float64(i) / 29
		pts = append(pts, mathutil.Vec3{
			math.Log(0.55*(0.25+g) + 1e-6),
			math.Log(0.55*(0.35+0.95*g) + 1e-6),
			math.Log(0.55*(0.95+0.8*g) + 1e-6 + 0.001*float64(i%3)),
		})
	}
	return pts
}

func TestFigures(t *testing.T) {
	o := small()
	pts := cloud()
	isd := pts[len(pts)-1].Sub(pts[0])
	b, err := chroma.BuildBasis(isd)
	require.NoError(t, err)
	origin := mathutil.Mean(pts)
	proj, coords := chroma.ProjectOntoPlane(pts, origin, b)

	img, err := CylinderFigure(pts[20:], pts[:10], []mathutil.Vec3{pts[0], pts[29]}, DefaultView(), o)
	require.NoError(t, err)
	assertSize(t, img, 480, 360)

	img, err = PlaneFigure(pts, proj, coords, origin, b, DefaultView(), o)
	require.NoError(t, err)
	assertSize(t, img, 480, 360)

	img, err = TubesFigure([]Series3D{{Name: "a", Points: pts, Axis: isd}, {Name: "b", Points: proj}}, DefaultView(), o)
	require.NoError(t, err)
	assertSize(t, img, 480, 360)

	img, err = ChromaticityFigure([]Series2D{{Name: "a", Points: coords}}, o)
	require.NoError(t, err)
	assertSize(t, img, 480, 360)

	an, err := thickness.NewAnalyzer(thickness.StrategyJacobi)
	require.NoError(t, err)
	rep, err := an.Analyze(pts, isd)
	require.NoError(t, err)
	img, err = ThicknessFigure(pts, rep, b, o)
	require.NoError(t, err)
	assertSize(t, img, 480, 360)
}

func TestComparisonFigures(t *testing.T) {
	im := imagestats.NewImage(6, 4)
	for i := range im.Pix {
		g := float64(i) / float64(len(im.Pix))
		im.Pix[i] = mathutil.Vec3{g, g * 0.5, 1 - g}
	}
	opts := imagestats.DefaultOptions()
	opts.Normalize = true
	c, err := imagestats.Compare(im, colorspace.Default(), opts)
	require.NoError(t, err)

	o := small()
	for _, fn := range []func(imagestats.Comparison, Options) (image.Image, error){
		ImagesFigure, ProfileFigure, HistogramFigure,
	} {
		img, err := fn(c, o)
		require.NoError(t, err)
		assertSize(t, img, 480, 360)
	}
	img, err := CurveFigure(c.Curves, o)
	require.NoError(t, err)
	assertSize(t, img, 480, 360)
}
