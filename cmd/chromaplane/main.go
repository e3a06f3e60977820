// Command chromaplane projects a textured, noisy log-RGB cloud onto the plane
// orthogonal to the analytic ISD and draws it in 3-D and in plane coordinates.
package main

import (
	"io"
	"os"

	"bidr-analyzer/internal/batch"
	"bidr-analyzer/internal/chroma"
	"bidr-analyzer/internal/cli"
	"bidr-analyzer/internal/config"
	"bidr-analyzer/internal/isd"
	"bidr-analyzer/internal/mathutil"
	"bidr-analyzer/internal/render"
	"bidr-analyzer/internal/simulate"
)

func main() {
	cli.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) error {
	env, err := cli.Setup("chromaplane", args, stdout, stderr, false)
	if err != nil {
		return err
	}
	cfg := env.Config
	tr := env.Transform
	il, mat := scene(cfg)

	sim, err := env.Simulator()
	if err != nil {
		return err
	}
	points, err := tr.ToLogAll(sim.Scatter(mat, il, cfg.ScatterSamples))
	if err != nil {
		return err
	}

	dir, err := isd.FromIlluminant(tr, il)
	if err != nil {
		return err
	}
	basis, err := chroma.BuildBasis(dir)
	if err != nil {
		return err
	}
	origin := mathutil.Mean(points)
	projected, coords := chroma.ProjectOntoPlane(points, origin, basis)

	spread := chroma.ClusterSpread(coords)
	env.Logger.Info("cloud projected",
		"illuminant", il.Name,
		"material", mat.Name,
		"samples", len(points),
		"sd_major", spread.SDMajor,
		"sd_minor", spread.SDMinor)

	fig := cfg.Figure()
	img3d, err := render.PlaneFigure(points, projected, coords, origin, basis, render.DefaultView(), fig)
	if err != nil {
		return err
	}
	img2d, err := render.ChromaticityFigure([]render.Series2D{{Name: mat.Name, Points: coords}}, fig)
	if err != nil {
		return err
	}

	env.Printf("ISD (%s): [%.4f %.4f %.4f]\n", il.Name, dir[0], dir[1], dir[2])
	env.Printf("u1: [%.4f %.4f %.4f]\n", basis.U1[0], basis.U1[1], basis.U1[2])
	env.Printf("u2: [%.4f %.4f %.4f]\n", basis.U2[0], basis.U2[1], basis.U2[2])
	return env.Write([]batch.Figure{
		{Name: "chromaticity_plane_3d", Image: img3d},
		{Name: "chromaticity_plane_2d", Image: img2d},
	})
}

// scene picks the illuminant and surface: the first configured override of
// each, else skylight over asphalt.
func scene(cfg config.Config) (simulate.Illuminant, simulate.Material) {
	il, mat := simulate.Skylight, simulate.Asphalt
	if len(cfg.Illuminants) > 0 {
		il = cfg.Illuminants[0]
	}
	if len(cfg.Materials) > 0 {
		mat = cfg.Materials[0]
	}
	return il, mat
}
