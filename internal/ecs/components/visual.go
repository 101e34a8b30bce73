package components

import "forgecore/internal/ecs"

// Visual is the render-relevant descriptor of an entity: which mesh and
// shader handles the graphics backend should draw it with (see
// internal/platform for the handle-table contract), a tint, and a
// visibility flag. The render proxy built from this component each tick
// is what internal/pipeline.Frame actually carries; Visual itself never
// leaves the ECS side.
type Visual struct {
	MeshHandle   string  `yaml:"mesh_handle"`
	ShaderHandle string  `yaml:"shader_handle"`
	TintR        float64 `yaml:"tint_r"`
	TintG        float64 `yaml:"tint_g"`
	TintB        float64 `yaml:"tint_b"`
	TintA        float64 `yaml:"tint_a"`
	Visible      bool    `yaml:"visible"`
	CastsShadow  bool    `yaml:"casts_shadow"`
}

// NewVisual returns an opaque white, visible descriptor for the given
// mesh and shader handle names.
func NewVisual(mesh, shader string) Visual {
	return Visual{
		MeshHandle:   mesh,
		ShaderHandle: shader,
		TintR:        1, TintG: 1, TintB: 1, TintA: 1,
		Visible: true,
	}
}

// Name is Visual's stable wire identifier.
func (Visual) Name() string { return "visual" }

// Clone returns an independent copy.
func (v Visual) Clone() ecs.Component { return v }
