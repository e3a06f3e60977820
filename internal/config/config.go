package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"bidr-analyzer/internal/batch"
	"bidr-analyzer/internal/colorspace"
	"bidr-analyzer/internal/render"
	"bidr-analyzer/internal/simulate"
	"bidr-analyzer/internal/thickness"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds the simulation, analysis and output settings shared by the
// command-line tools.
type Config struct {
	// Model
	Epsilon           float64  `json:"epsilon" toml:"epsilon" yaml:"epsilon"`
	NoiseStd          *float64 `json:"noise_std,omitempty" toml:"noise_std,omitempty" yaml:"noise_std,omitempty"`
	ReflectanceJitter *float64 `json:"reflectance_jitter,omitempty" toml:"reflectance_jitter,omitempty" yaml:"reflectance_jitter,omitempty"`
	GammaMin          float64  `json:"gamma_min" toml:"gamma_min" yaml:"gamma_min"`
	GammaMax          float64  `json:"gamma_max" toml:"gamma_max" yaml:"gamma_max"`
	Steps             int      `json:"steps" toml:"steps" yaml:"steps"`
	ScatterSamples    int      `json:"scatter_samples" toml:"scatter_samples" yaml:"scatter_samples"`
	Seed              uint64   `json:"seed" toml:"seed" yaml:"seed"`
	Decomposer        string   `json:"decomposer" toml:"decomposer" yaml:"decomposer"`

	// Scene overrides; empty means the built-in scenarios.
	Illuminants []simulate.Illuminant `json:"illuminants,omitempty" toml:"illuminants,omitempty" yaml:"illuminants,omitempty"`
	Materials   []simulate.Material   `json:"materials,omitempty" toml:"materials,omitempty" yaml:"materials,omitempty"`

	// Image comparison
	InputImage    string `json:"input_image" toml:"input_image" yaml:"input_image"`
	HistogramBins int    `json:"histogram_bins" toml:"histogram_bins" yaml:"histogram_bins"`

	// Output
	OutputDir    string `json:"output_dir" toml:"output_dir" yaml:"output_dir"`
	Format       string `json:"format" toml:"format" yaml:"format"`
	FigureWidth  int    `json:"figure_width" toml:"figure_width" yaml:"figure_width"`
	FigureHeight int    `json:"figure_height" toml:"figure_height" yaml:"figure_height"`
	Supersample  int    `json:"supersample" toml:"supersample" yaml:"supersample"`
	Workers      int    `json:"workers" toml:"workers" yaml:"workers"`

	// Logging
	LogLevel  string `json:"log_level" toml:"log_level" yaml:"log_level"`
	LogFormat string `json:"log_format" toml:"log_format" yaml:"log_format"`
}

// Defaults applied by Resolve to unset fields.
const (
	DefaultNoiseStd          = 0.002
	DefaultReflectanceJitter = 0.02
	DefaultScatterSamples    = 2000
	DefaultSeed              = 7
	DefaultOutputDir         = "output"
	DefaultInputImage        = "outdoor_shadow.png"
)

// Load reads a config file. The format follows the extension: .json, .toml,
// .yaml or .yml. Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&cfg)
	case ".toml":
		err = toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields().Decode(&cfg)
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(&cfg)
	default:
		return Config{}, fmt.Errorf("config: %s: unsupported extension %q", path, ext)
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings. Zero
// values and negative noise mean "not set".
type Flags struct {
	OutputDir  string
	Format     string
	Seed       uint64
	Noise      float64
	Decomposer string
	LogLevel   string
	Input      string
	Workers    int
}

// UnsetNoise is the flag default meaning the noise level was not given.
const UnsetNoise = -1

// Resolve applies flag overrides, then fills any empty fields with defaults.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Format != "" {
		c.Format = flags.Format
	}
	if flags.Seed != 0 {
		c.Seed = flags.Seed
	}
	if flags.Noise >= 0 {
		n := flags.Noise
		c.NoiseStd = &n
	}
	if flags.Decomposer != "" {
		c.Decomposer = flags.Decomposer
	}
	if flags.LogLevel != "" {
		c.LogLevel = flags.LogLevel
	}
	if flags.Input != "" {
		c.InputImage = flags.Input
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}

	sim := simulate.DefaultConfig()
	fig := render.DefaultOptions()

	if c.Epsilon == 0 {
		c.Epsilon = colorspace.DefaultEpsilon
	}
	if c.NoiseStd == nil {
		n := DefaultNoiseStd
		c.NoiseStd = &n
	}
	if c.ReflectanceJitter == nil {
		j := DefaultReflectanceJitter
		c.ReflectanceJitter = &j
	}
	if c.GammaMin == 0 && c.GammaMax == 0 {
		c.GammaMin, c.GammaMax = sim.GammaMin, sim.GammaMax
	}
	if c.Steps <= 0 {
		c.Steps = sim.Steps
	}
	if c.ScatterSamples <= 0 {
		c.ScatterSamples = DefaultScatterSamples
	}
	if c.Seed == 0 {
		c.Seed = DefaultSeed
	}
	if c.Decomposer == "" {
		c.Decomposer = thickness.StrategyAuto
	}
	if c.InputImage == "" {
		c.InputImage = DefaultInputImage
	}
	if c.HistogramBins <= 0 {
		c.HistogramBins = 100
	}
	if c.OutputDir == "" {
		c.OutputDir = DefaultOutputDir
	}
	if c.Format == "" {
		c.Format = batch.FormatPNG
	}
	if c.FigureWidth <= 0 {
		c.FigureWidth = fig.Width
	}
	if c.FigureHeight <= 0 {
		c.FigureHeight = fig.Height
	}
	if c.Supersample <= 0 {
		c.Supersample = fig.Supersample
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogFormat == "" {
		c.LogFormat = "text"
	}
}

// Validate checks a resolved config.
func (c Config) Validate() error {
	if _, err := c.Transform(); err != nil {
		return err
	}
	if err := c.Simulation().Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := thickness.Select(c.Decomposer); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, _, err := batch.EncoderFor(c.Format); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := c.Figure().Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	for _, sc := range c.Scenarios() {
		if err := sc.Validate(); err != nil {
			return fmt.Errorf("config: scenario %q: %w", sc.Illuminant.Name, err)
		}
	}
	return nil
}

// Transform returns the log transform for the configured epsilon.
func (c Config) Transform() (colorspace.Transform, error) {
	tr, err := colorspace.New(c.Epsilon)
	if err != nil {
		return colorspace.Transform{}, fmt.Errorf("config: %w", err)
	}
	return tr, nil
}

// Simulation returns the simulator settings.
func (c Config) Simulation() simulate.Config {
	s := simulate.Config{
		GammaMin: c.GammaMin,
		GammaMax: c.GammaMax,
		Steps:    c.Steps,
		Seed:     c.Seed,
	}
	if c.NoiseStd != nil {
		s.NoiseStd = *c.NoiseStd
	}
	if c.ReflectanceJitter != nil {
		s.ReflectanceJitter = *c.ReflectanceJitter
	}
	return s
}

// Figure returns the figure size settings.
func (c Config) Figure() render.Options {
	return render.Options{Width: c.FigureWidth, Height: c.FigureHeight, Supersample: c.Supersample}
}

// Scenarios returns every configured illuminant paired with the configured
// materials, falling back to the built-in set for whichever list is empty.
func (c Config) Scenarios() []simulate.Scenario {
	defaults := simulate.DefaultScenarios()
	ils := c.Illuminants
	if len(ils) == 0 {
		for _, sc := range defaults {
			ils = append(ils, sc.Illuminant)
		}
	}
	mats := c.Materials
	if len(mats) == 0 {
		mats = defaults[0].Materials
	}
	out := make([]simulate.Scenario, len(ils))
	for i, il := range ils {
		out[i] = simulate.Scenario{Illuminant: il, Materials: mats}
	}
	return out
}
