// Package cli holds the flag handling and artifact output shared by the
// command-line tools.
package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"bidr-analyzer/internal/batch"
	"bidr-analyzer/internal/colorspace"
	"bidr-analyzer/internal/config"
	"bidr-analyzer/internal/logging"
	"bidr-analyzer/internal/simulate"
)

// Env is the resolved environment of one tool invocation.
type Env struct {
	Tool      string
	Config    config.Config
	Transform colorspace.Transform
	Logger    *slog.Logger
	Stdout    io.Writer
}

// Setup parses args, loads the optional config file, applies flag overrides
// and validates the result. withInput adds the -input flag.
func Setup(tool string, args []string, stdout, stderr io.Writer, withInput bool) (*Env, error) {
	fs := flag.NewFlagSet(tool, flag.ContinueOnError)
	fs.SetOutput(stderr)

	configFile := fs.String("config", "", "Path to a .json, .toml or .yaml config file")
	outputDir := fs.String("output", "", "Output directory (default: output)")
	format := fs.String("format", "", "Figure format: png or webp (default: png)")
	seed := fs.Uint64("seed", 0, "Random seed (default: 7)")
	noise := fs.Float64("noise", config.UnsetNoise, "Gaussian noise std per channel (default: 0.002)")
	decomposer := fs.String("decomposer", "", "PCA strategy: auto, gonum or jacobi (default: auto)")
	logLevel := fs.String("log-level", "", "Log level: debug, info, warn or error (default: info)")
	workers := fs.Int("workers", 0, "Number of encoder goroutines (default: NumCPU)")
	input := new(string)
	if withInput {
		input = fs.String("input", "", "Input image (default: outdoor_shadow.png)")
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			return nil, err
		}
	}

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		OutputDir:  *outputDir,
		Format:     *format,
		Seed:       *seed,
		Noise:      *noise,
		Decomposer: *decomposer,
		LogLevel:   *logLevel,
		Input:      *input,
		Workers:    *workers,
	})
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, err := logging.New(stderr, tool, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, err
	}
	tr, err := cfg.Transform()
	if err != nil {
		return nil, err
	}
	return &Env{Tool: tool, Config: cfg, Transform: tr, Logger: logger, Stdout: stdout}, nil
}

// Simulator returns a simulator seeded from the config.
func (e *Env) Simulator() (*simulate.Simulator, error) {
	return simulate.New(e.Config.Simulation())
}

// Printf writes a human-readable summary line to stdout.
func (e *Env) Printf(format string, args ...any) {
	fmt.Fprintf(e.Stdout, format, args...)
}

// Write encodes and writes figs to the output directory, then prints where
// each artifact went.
func (e *Env) Write(figs []batch.Figure) error {
	start := time.Now()
	results, err := batch.Run(batch.Config{
		OutputDir: e.Config.OutputDir,
		Format:    e.Config.Format,
		Workers:   e.Config.Workers,
		Tool:      e.Tool,
		Logger:    e.Logger,
	}, figs)
	if err != nil {
		return err
	}
	e.Logger.Info("artifacts written", "count", len(results), "dir", e.Config.OutputDir, "elapsed", time.Since(start).Round(time.Millisecond))

	e.Printf("Saved to %s:\n", e.Config.OutputDir)
	for _, r := range results {
		e.Printf("  - %s (%dx%d)\n", r.File, r.Width, r.Height)
	}
	return nil
}

// Exit reports err on stderr and exits non-zero. A help request exits
// cleanly.
func Exit(err error) {
	if err == nil {
		return
	}
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
