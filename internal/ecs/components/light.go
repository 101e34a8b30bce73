package components

import "forgecore/internal/ecs"

// LightKind distinguishes the light models the renderer needs to build
// light-space matrices for.
type LightKind string

const (
	LightKindPoint       LightKind = "point"
	LightKindDirectional LightKind = "directional"
	LightKindSpot        LightKind = "spot"
)

// Light carries the parameters of one light source. A Frame's lights
// list (see internal/pipeline) is built by gathering every entity's
// Light component each tick.
type Light struct {
	Kind        LightKind `yaml:"kind"`
	ColorR      float64   `yaml:"color_r"`
	ColorG      float64   `yaml:"color_g"`
	ColorB      float64   `yaml:"color_b"`
	Intensity   float64   `yaml:"intensity"`
	Range       float64   `yaml:"range"`
	CastsShadow bool      `yaml:"casts_shadow"`
}

// NewLight returns a white light of the given kind at default intensity.
func NewLight(kind LightKind) Light {
	return Light{
		Kind:      kind,
		ColorR:    1, ColorG: 1, ColorB: 1,
		Intensity: 1,
		Range:     10,
	}
}

// Name is Light's stable wire identifier.
func (Light) Name() string { return "light" }

// Clone returns an independent copy.
func (l Light) Clone() ecs.Component { return l }
