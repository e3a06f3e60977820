// Package render draws the analysis figures. Plots are built with gonum/plot,
// rasterized at a multiple of the requested size and downsampled.
package render

import (
	"fmt"
	"image"

	"bidr-analyzer/internal/postprocess"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// baseDPI maps one output pixel to one canvas dot at Supersample 1.
const baseDPI = 96

// Options sets the output size of a figure in pixels.
type Options struct {
	Width       int
	Height      int
	Supersample int
}

// DefaultOptions returns a 900×700 figure rendered at 2× supersampling.
func DefaultOptions() Options {
	return Options{Width: 900, Height: 700, Supersample: 2}
}

// Validate rejects non-positive sizes.
func (o Options) Validate() error {
	if o.Width <= 0 || o.Height <= 0 {
		return fmt.Errorf("render: figure size must be positive, got %dx%d", o.Width, o.Height)
	}
	if o.Supersample < 1 {
		return fmt.Errorf("render: supersample must be >= 1, got %d", o.Supersample)
	}
	return nil
}

// WithSize returns a copy of o with a different pixel size.
func (o Options) WithSize(w, h int) Options {
	o.Width, o.Height = w, h
	return o
}

// Rasterize draws p at o.Supersample× and downsamples to o.Width×o.Height.
func Rasterize(p *plot.Plot, o Options) (image.Image, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	w := vg.Length(o.Width) * vg.Inch / baseDPI
	h := vg.Length(o.Height) * vg.Inch / baseDPI
	c := vgimg.NewWith(vgimg.UseWH(w, h), vgimg.UseDPI(baseDPI*o.Supersample))
	p.Draw(draw.New(c))
	return postprocess.Downsample(c.Image(), o.Width, o.Height), nil
}

// panels rasterizes plots at equal width and places them left to right.
func panels(o Options, plots ...*plot.Plot) (image.Image, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	pw := o.Width / len(plots)
	imgs := make([]image.Image, len(plots))
	for i, p := range plots {
		img, err := Rasterize(p, o.WithSize(pw, o.Height))
		if err != nil {
			return nil, err
		}
		imgs[i] = img
	}
	return postprocess.SideBySide(0, imgs...), nil
}
