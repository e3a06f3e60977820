// Command analyze runs the comprehensive BIDR analysis: the per-material
// cylinder, PCA thickness of a noisy cluster, the illumination-invariant
// chromaticity plane and per-illuminant tubes.
package main

import (
	"fmt"
	"io"
	"os"

	"bidr-analyzer/internal/batch"
	"bidr-analyzer/internal/chroma"
	"bidr-analyzer/internal/cli"
	"bidr-analyzer/internal/compose"
	"bidr-analyzer/internal/render"
	"bidr-analyzer/internal/thickness"
)

func main() {
	cli.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) error {
	env, err := cli.Setup("analyze", args, stdout, stderr, false)
	if err != nil {
		return err
	}
	cfg := env.Config
	tr := env.Transform
	fig := cfg.Figure()

	sim, err := env.Simulator()
	if err != nil {
		return err
	}
	scenarios := cfg.Scenarios()
	results, err := compose.Compose(tr, sim, scenarios)
	if err != nil {
		return err
	}
	primary := results[scenarios[0].Illuminant.Name]
	for _, name := range compose.Names(results) {
		env.Logger.Info("isd estimated", "illuminant", name, "isd", results[name].ISD)
	}

	// Cylinder: lit and shadow endpoints of every material, with the first
	// material's sweep as the axis.
	lit, shadow, err := sim.Pairs(primary.Scenario)
	if err != nil {
		return err
	}
	litLog, err := tr.ToLogAll(lit)
	if err != nil {
		return err
	}
	shadowLog, err := tr.ToLogAll(shadow)
	if err != nil {
		return err
	}
	axis := primary.LogSamples[primary.Materials()[0]]
	cylinder, err := render.CylinderFigure(litLog, shadowLog, axis, render.DefaultView(), fig)
	if err != nil {
		return err
	}

	// Thickness of a textured, noisy cluster of the first material.
	mat := primary.Scenario.Materials[0]
	cloud, err := tr.ToLogAll(sim.Scatter(mat, primary.Scenario.Illuminant, cfg.ScatterSamples))
	if err != nil {
		return err
	}
	an, err := thickness.NewAnalyzer(cfg.Decomposer)
	if err != nil {
		return err
	}
	rep, err := an.Analyze(cloud, primary.ISD)
	if err != nil {
		return err
	}
	env.Logger.Info("thickness analysed",
		"material", mat.Name,
		"decomposer", rep.Decomposer,
		"samples", rep.Samples,
		"alignment", rep.DominantAlignment(),
		"across_fraction", rep.AcrossFraction())
	thick, err := render.ThicknessFigure(cloud, rep, primary.Basis, fig)
	if err != nil {
		return err
	}

	// Chromaticity of every material under the primary illuminant.
	var groups []render.Series2D
	for _, name := range primary.Materials() {
		groups = append(groups, render.Series2D{Name: name, Points: primary.Chroma[name]})
	}
	plane, err := render.ChromaticityFigure(groups, fig)
	if err != nil {
		return err
	}

	// One tube per illuminant, each with its own ISD.
	var tubes []render.Series3D
	for _, sc := range scenarios {
		r := results[sc.Illuminant.Name]
		tubes = append(tubes, render.Series3D{Name: sc.Illuminant.Name, Points: r.AllLog(), Axis: r.ISD})
	}
	tubesImg, err := render.TubesFigure(tubes, render.DefaultView(), fig)
	if err != nil {
		return err
	}

	printSummary(env, results, primary, rep)

	return env.Write([]batch.Figure{
		{Name: "cylinder", Image: cylinder},
		{Name: "thickness_pca", Image: thick},
		{Name: "chromaticity_plane", Image: plane},
		{Name: "multi_illuminant_tubes", Image: tubesImg},
	})
}

func printSummary(env *cli.Env, results map[string]compose.Result, primary compose.Result, rep thickness.Report) {
	names := compose.Names(results)
	env.Printf("Illuminant ISDs:\n")
	for _, name := range names {
		d := results[name].ISD
		env.Printf("  %-12s [%.4f %.4f %.4f]\n", name, d[0], d[1], d[2])
	}
	env.Printf("Pairwise ISD separation:\n")
	for i := range names {
		for j := i + 1; j < len(names); j++ {
			sep := compose.Separation(results[names[i]].ISD, results[names[j]].ISD)
			env.Printf("  %s vs %s: %.2f°\n", names[i], names[j], sep)
		}
	}

	env.Printf("Thickness (%s, %d samples, %s):\n", primary.Scenario.Materials[0].Name, rep.Samples, rep.Decomposer)
	for i, c := range rep.Components {
		env.Printf("  PC%d explained %.4f, |v·isd| %.4f\n", i+1, c.Explained, c.ISDAlignment)
	}
	env.Printf("  across-ISD variance %.3g of %.3g (%.2f%%)\n", rep.AcrossISD, rep.TotalVariance, 100*rep.AcrossFraction())

	env.Printf("Chromaticity centres (%s basis):\n", primary.Scenario.Illuminant.Name)
	for _, name := range primary.Materials() {
		s := chroma.ClusterSpread(primary.Chroma[name])
		env.Printf("  %-12s %s\n", name, formatSpread(s))
	}
}

func formatSpread(s chroma.Spread) string {
	return fmt.Sprintf("(%.4f, %.4f) sd %.4f/%.4f", s.Center[0], s.Center[1], s.SDMajor, s.SDMinor)
}
