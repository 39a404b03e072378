// Package scenes loads the YAML scene descriptions played by the viewer.
package scenes

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"
)

var (
	// ErrNoActors is returned for scenes without any actor.
	ErrNoActors = errors.New("scene has no actors")
	// ErrNoEntity is returned for actors without an entity name.
	ErrNoEntity = errors.New("actor has no entity")
)

// SceneSpec describes what the viewer shows: an animation file and the
// actors playing it.
type SceneSpec struct {
	Name string `yaml:"name"`
	// File is the SCML path; empty uses the embedded sample.
	File       string      `yaml:"file"`
	Background YAMLColor   `yaml:"background"`
	Debug      bool        `yaml:"debug"`
	Actors     []ActorSpec `yaml:"actors"`
}

// ActorSpec places one player in the scene.
type ActorSpec struct {
	Entity    string  `yaml:"entity"`
	Animation string  `yaml:"animation"`
	X         float64 `yaml:"x"`
	Y         float64 `yaml:"y"`
	Scale     float64 `yaml:"scale"`
	// Speed defaults to 1; 0 starts paused.
	Speed *float64 `yaml:"speed"`
	// Loop overrides the authored loop flag when set.
	Loop *bool `yaml:"loop"`
	// Time seeks to a position after the animation started.
	Time float64 `yaml:"time"`
	// Script names a tengo sequencing script in scripts/.
	Script string `yaml:"script"`
}

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("scenes: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("scenes: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// LoadScene loads and validates the scene called name, with or without the
// .yaml extension.
func LoadScene(name string) (*SceneSpec, error) {
	if !isSpecFile(name) {
		name += ".yaml"
	}
	spec, err := LoadSpec[SceneSpec](name)
	if err != nil {
		return nil, err
	}
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("scenes: %s: %w", name, err)
	}
	spec.applyDefaults()
	return &spec, nil
}

// Validate checks the scene for missing required values.
func (s *SceneSpec) Validate() error {
	if len(s.Actors) == 0 {
		return ErrNoActors
	}
	for i, a := range s.Actors {
		if strings.TrimSpace(a.Entity) == "" {
			return fmt.Errorf("actor %d: %w", i, ErrNoEntity)
		}
	}
	return nil
}

func (s *SceneSpec) applyDefaults() {
	if s.Background.Color == nil {
		s.Background.Color = colornames.Black
	}
	for i := range s.Actors {
		if s.Actors[i].Scale == 0 {
			s.Actors[i].Scale = 1
		}
	}
}

// SpeedOrDefault returns the configured speed or 1.
func (a ActorSpec) SpeedOrDefault() float64 {
	if a.Speed == nil {
		return 1
	}
	return *a.Speed
}

// YAMLColor accepts an SVG color name or a #rrggbb / #rrggbbaa hex string.
type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}
	col, err := ParseColor(value.Value)
	if err != nil {
		return err
	}
	c.Color = col
	return nil
}

// ParseColor parses an SVG color name or a hex color.
func ParseColor(s string) (color.Color, error) {
	s = strings.TrimSpace(s)
	if named, ok := colornames.Map[strings.ToLower(s)]; ok {
		return named, nil
	}

	hex := strings.TrimPrefix(s, "#")
	alpha := uint8(255)
	if len(hex) == 8 {
		a, err := strconv.ParseUint(hex[6:], 16, 8)
		if err != nil {
			return nil, fmt.Errorf("invalid color format: %s", s)
		}
		alpha = uint8(a)
		hex = hex[:6]
	}
	if len(hex) != 6 {
		return nil, fmt.Errorf("invalid color format: %s", s)
	}
	col, err := colorful.Hex("#" + hex)
	if err != nil {
		return nil, fmt.Errorf("invalid color format: %s", s)
	}
	r, g, b := col.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alpha}, nil
}
