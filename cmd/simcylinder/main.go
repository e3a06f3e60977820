// Command simcylinder draws the BIDR line between lit and shadow samples of
// one material in log-RGB space.
package main

import (
	"io"
	"os"

	"bidr-analyzer/internal/batch"
	"bidr-analyzer/internal/cli"
	"bidr-analyzer/internal/isd"
	"bidr-analyzer/internal/mathutil"
	"bidr-analyzer/internal/render"
	"bidr-analyzer/internal/simulate"
)

const figureName = "BIDR_cylinder_simulation_log_RGB"

func main() {
	cli.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) error {
	env, err := cli.Setup("simcylinder", args, stdout, stderr, false)
	if err != nil {
		return err
	}
	tr := env.Transform

	lit := simulate.CylinderLit
	shadow := simulate.LitShadowPairs(lit, simulate.ShadowRatio)
	litLog, err := tr.ToLogAll(lit)
	if err != nil {
		return err
	}
	shadowLog, err := tr.ToLogAll(shadow)
	if err != nil {
		return err
	}

	dir, err := isd.Estimate(litLog, shadowLog)
	if err != nil {
		return err
	}
	env.Logger.Info("isd estimated", "isd", dir, "pairs", len(lit))

	line := cylinderAxis(mathutil.Mean(shadowLog), mathutil.Mean(litLog), env.Config.Steps)

	img, err := render.CylinderFigure(litLog, shadowLog, line, render.DefaultView(), env.Config.Figure())
	if err != nil {
		return err
	}

	env.Printf("ISD: [%.4f %.4f %.4f]\n", dir[0], dir[1], dir[2])
	return env.Write([]batch.Figure{{Name: figureName, Image: img}})
}

// cylinderAxis samples the segment from the mean shadow point to the mean lit
// point at n evenly spaced positions.
func cylinderAxis(from, to mathutil.Vec3, n int) []mathutil.Vec3 {
	ts := simulate.Linspace(0, 1, n)
	out := make([]mathutil.Vec3, len(ts))
	d := to.Sub(from)
	for i, t := range ts {
		out[i] = from.Add(d.Scale(t))
	}
	return out
}
