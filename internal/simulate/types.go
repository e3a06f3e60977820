package simulate

import (
	"fmt"

	"bidr-analyzer/internal/mathutil"
)

// Material is a named body reflectance R_B.
type Material struct {
	Name        string        `json:"name" toml:"name" yaml:"name"`
	Reflectance mathutil.Vec3 `json:"reflectance" toml:"reflectance" yaml:"reflectance"`
}

// Illuminant is one lighting condition: ambient A plus direct D.
type Illuminant struct {
	Name    string        `json:"name" toml:"name" yaml:"name"`
	Ambient mathutil.Vec3 `json:"ambient" toml:"ambient" yaml:"ambient"`
	Direct  mathutil.Vec3 `json:"direct" toml:"direct" yaml:"direct"`
}

// Scenario is several materials under one illuminant, hence one ISD.
type Scenario struct {
	Illuminant Illuminant `json:"illuminant" toml:"illuminant" yaml:"illuminant"`
	Materials  []Material `json:"materials" toml:"materials" yaml:"materials"`
}

// Irradiance returns A + γD.
func (il Illuminant) Irradiance(gamma float64) mathutil.Vec3 {
	return il.Ambient.Add(il.Direct.Scale(gamma))
}

// Validate rejects negative channels.
func (il Illuminant) Validate() error {
	if err := nonNegative(il.Ambient); err != nil {
		return fmt.Errorf("simulate: illuminant %q ambient: %w", il.Name, err)
	}
	if err := nonNegative(il.Direct); err != nil {
		return fmt.Errorf("simulate: illuminant %q direct: %w", il.Name, err)
	}
	return nil
}

// Validate rejects negative reflectance.
func (m Material) Validate() error {
	if err := nonNegative(m.Reflectance); err != nil {
		return fmt.Errorf("simulate: material %q reflectance: %w", m.Name, err)
	}
	return nil
}

// Validate checks the illuminant and every material, and that material
// names are unique.
func (s Scenario) Validate() error {
	if err := s.Illuminant.Validate(); err != nil {
		return err
	}
	if len(s.Materials) == 0 {
		return fmt.Errorf("simulate: illuminant %q has no materials", s.Illuminant.Name)
	}
	seen := make(map[string]bool, len(s.Materials))
	for _, m := range s.Materials {
		if seen[m.Name] {
			return fmt.Errorf("simulate: duplicate material %q under illuminant %q", m.Name, s.Illuminant.Name)
		}
		seen[m.Name] = true
		if err := m.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func nonNegative(v mathutil.Vec3) error {
	if !v.IsFinite() {
		return fmt.Errorf("non-finite value %v", v)
	}
	for k, c := range v {
		if c < 0 {
			return fmt.Errorf("channel %d is negative (%g)", k, c)
		}
	}
	return nil
}

// Default scenario parameters used by the analysis tools.
var (
	// Asphalt is the grey reference surface of the chromaticity-plane view.
	Asphalt = Material{Name: "asphalt", Reflectance: mathutil.Vec3{0.55, 0.55, 0.55}}

	// Coloured surfaces spanning a spread of hues.
	Brick   = Material{Name: "brick", Reflectance: mathutil.Vec3{0.6, 0.4, 0.2}}
	Foliage = Material{Name: "foliage", Reflectance: mathutil.Vec3{0.2, 0.5, 0.15}}
	Slate   = Material{Name: "slate", Reflectance: mathutil.Vec3{0.25, 0.3, 0.45}}

	// Daylight pairs a bluish sky ambient with warm sunlight.
	Daylight = Illuminant{
		Name:    "daylight",
		Ambient: mathutil.Vec3{0.1, 0.1, 0.15},
		Direct:  mathutil.Vec3{0.9, 0.85, 0.8},
	}

	// Skylight has a strongly blue ambient and yellowish direct light.
	Skylight = Illuminant{
		Name:    "skylight",
		Ambient: mathutil.Vec3{0.25, 0.35, 0.95},
		Direct:  mathutil.Vec3{1.00, 0.95, 0.80},
	}

	// Tungsten is an indoor scene: neutral fill with orange direct light.
	Tungsten = Illuminant{
		Name:    "tungsten",
		Ambient: mathutil.Vec3{0.2, 0.2, 0.2},
		Direct:  mathutil.Vec3{1.0, 0.6, 0.25},
	}

	// ShadowRatio is the per-channel shadow/lit ratio of the cylinder demo;
	// blue drops least, mimicking bluish ambient light.
	ShadowRatio = mathutil.Vec3{0.5, 0.6, 0.9}

	// CylinderLit are lit samples of one material at three locations.
	CylinderLit = []mathutil.Vec3{
		{0.9, 0.7, 0.6},
		{0.85, 0.65, 0.55},
		{0.8, 0.6, 0.5},
	}
)

// DefaultScenarios returns the illuminant scenarios of the comprehensive
// analysis: three materials under each of three illuminants.
func DefaultScenarios() []Scenario {
	mats := []Material{Brick, Foliage, Slate}
	return []Scenario{
		{Illuminant: Daylight, Materials: mats},
		{Illuminant: Skylight, Materials: mats},
		{Illuminant: Tungsten, Materials: mats},
	}
}
