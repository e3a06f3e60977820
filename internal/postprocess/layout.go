// Package postprocess resamples and arranges rendered figure panels.
package postprocess

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// SideBySide places panels left to right on a white canvas, separated by
// gap pixels and vertically centred.
func SideBySide(gap int, panels ...image.Image) *image.NRGBA {
	w, h := 0, 0
	for i, p := range panels {
		b := p.Bounds()
		w += b.Dx()
		if i > 0 {
			w += gap
		}
		if b.Dy() > h {
			h = b.Dy()
		}
	}
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	x := 0
	for _, p := range panels {
		b := p.Bounds()
		y := (h - b.Dy()) / 2
		r := image.Rect(x, y, x+b.Dx(), y+b.Dy())
		draw.Draw(dst, r, p, b.Min, draw.Over)
		x += b.Dx() + gap
	}
	return dst
}

// FitWidth scales img to width w keeping its aspect ratio.
func FitWidth(img image.Image, w int) *image.NRGBA {
	b := img.Bounds()
	if b.Dx() == w || b.Dx() == 0 {
		return toNRGBA(img)
	}
	h := b.Dy() * w / b.Dx()
	if h < 1 {
		h = 1
	}
	if b.Dx() > w {
		return Downsample(img, w, h)
	}
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
