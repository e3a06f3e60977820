// Command linlog compares an image in linear and log-RGB: side-by-side views,
// a midline intensity profile, the two mapping curves and intensity
// histograms.
package main

import (
	"image"
	"io"
	"os"

	"bidr-analyzer/internal/batch"
	"bidr-analyzer/internal/cli"
	"bidr-analyzer/internal/imagestats"
	"bidr-analyzer/internal/render"
)

func main() {
	cli.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) error {
	env, err := cli.Setup("linlog", args, stdout, stderr, true)
	if err != nil {
		return err
	}
	cfg := env.Config

	img, err := imagestats.Load(cfg.InputImage)
	if err != nil {
		return err
	}
	env.Logger.Info("image loaded", "path", cfg.InputImage, "width", img.Width, "height", img.Height)

	opts := imagestats.DefaultOptions()
	opts.Bins = cfg.HistogramBins
	opts.Normalize = true
	cmp, err := imagestats.Compare(img, env.Transform, opts)
	if err != nil {
		return err
	}

	fig := cfg.Figure()
	figures := []struct {
		name string
		draw func() (image.Image, error)
	}{
		{"figure1_linear_vs_log", func() (image.Image, error) { return render.ImagesFigure(cmp, fig) }},
		{"figure2_intensity_profile", func() (image.Image, error) { return render.ProfileFigure(cmp, fig) }},
		{"figure3_linear_vs_log_curve", func() (image.Image, error) { return render.CurveFigure(cmp.Curves, fig) }},
		{"figure4_histogram_comparison", func() (image.Image, error) { return render.HistogramFigure(cmp, fig) }},
	}
	var out []batch.Figure
	for _, f := range figures {
		im, err := f.draw()
		if err != nil {
			return err
		}
		out = append(out, batch.Figure{Name: f.name, Image: im})
	}
	out = append(out,
		batch.Figure{Name: "linear_rgb_image", Image: cmp.Linear.ToNRGBA()},
		batch.Figure{Name: "log_rgb_image", Image: cmp.Log.ToNRGBA()},
	)

	env.Printf("Input: %s (%dx%d), profile row %d\n", cfg.InputImage, img.Width, img.Height, cmp.Line)
	return env.Write(out)
}
