package render

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// Named series colours.
var (
	Orange = colorful.Color{R: 1, G: 0.55, B: 0}
	Blue   = colorful.Color{R: 0.12, G: 0.35, B: 0.85}
	Red    = colorful.Color{R: 0.85, G: 0.1, B: 0.1}
	Grey   = colorful.Color{R: 0.5, G: 0.5, B: 0.5}
)

// Palette returns n perceptually even colours at fixed chroma and lightness.
func Palette(n int) []color.Color {
	out := make([]color.Color, n)
	for i := range out {
		h := 30 + 360*float64(i)/float64(max(n, 1))
		out[i] = colorful.Hcl(h, 0.6, 0.55).Clamped()
	}
	return out
}

// Ramp blends from a to b in Lab space; t is clamped to [0, 1].
func Ramp(a, b colorful.Color, t float64) color.Color {
	t = min(max(t, 0), 1)
	return a.BlendLab(b, t).Clamped()
}

// withAlpha returns c with straight alpha a in [0, 1].
func withAlpha(c color.Color, a float64) color.NRGBA {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = uint8(min(max(a, 0), 1)*255 + 0.5)
	return n
}
