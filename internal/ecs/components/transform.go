// Package components holds the concrete Component value types the
// engine ships: Transform, Visual, Light, Script, Health and Audio. Each
// is a plain, serializable struct satisfying ecs.Component, grounded on
// totodo713-vamplite's internal/core/ecs/components package (one file per
// component, a constructor with sane defaults, yaml-friendly field
// tags) but scoped to this engine's own component catalogue.
package components

import (
	"forgecore/internal/ecs"
	"forgecore/internal/mathutil"
)

// Transform is position, rotation and scale in world space.
type Transform struct {
	Position mathutil.Vec3 `yaml:"position"`
	Rotation mathutil.Quat `yaml:"rotation"`
	Scale    mathutil.Vec3 `yaml:"scale"`
}

// NewTransform returns the identity transform at the origin.
func NewTransform() Transform {
	return Transform{
		Position: mathutil.Vec3{},
		Rotation: mathutil.IdentityQuat,
		Scale:    mathutil.Vec3{X: 1, Y: 1, Z: 1},
	}
}

// Name is Transform's stable wire identifier.
func (Transform) Name() string { return "transform" }

// Clone returns an independent copy (Transform has no reference fields,
// so this is a plain value copy).
func (t Transform) Clone() ecs.Component { return t }
