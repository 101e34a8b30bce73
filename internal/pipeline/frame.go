// Package pipeline implements the fixed-timestep orchestrator: a logic
// loop that advances the ECS on a real-time accumulator, a render loop
// that pulls the two most recently published frames and interpolates
// between them, and the FrameBuffer that hands frames from one to the
// other. Grounded on
// original_source/engine/modules/Pipeline/src/pipeline.cpp (the
// render-stage function shapes) and .../Pipeline/src/logic_pipelines.cpp
// (runECS's parallel-group-then-serial-step composition, superseded here
// by internal/scheduler's general layering).
package pipeline

import (
	"forgecore/internal/ecs"
	"forgecore/internal/mathutil"
)

// RenderProxy is the render-relevant snapshot of one entity for a single
// frame: handles into the graphics backend's tables (see
// internal/platform), the transform used to rebuild uModel, and the
// flags a render stage needs without touching the ECS.
type RenderProxy struct {
	MeshHandle   string
	ShaderHandle string

	Position mathutil.Vec3
	Rotation mathutil.Quat
	Scale    mathutil.Vec3

	TintR, TintG, TintB, TintA float64
	Visible                    bool
	CastsShadow                bool
}

// UModel rebuilds the proxy's model matrix from its current
// position/rotation/scale.
func (p RenderProxy) UModel() mathutil.Mat4 {
	return mathutil.ComposeTRS(p.Position, p.Rotation, p.Scale)
}

// GPULight is the render-relevant snapshot of one light source.
type GPULight struct {
	Position               mathutil.Vec3
	ColorR, ColorG, ColorB float64
	Intensity              float64
	Range                  float64
	CastsShadow            bool
}

// Frame is everything the logic side hands to the render side for one
// tick: camera state, the render proxies and lights gathered from the
// registry, and the shadow bookkeeping the render stages need.
type Frame struct {
	TSim float64

	CameraPosition mathutil.Vec3
	ViewMatrix     mathutil.Mat4
	ProjMatrix     mathutil.Mat4

	RenderProxies map[ecs.EntityID]RenderProxy
	Lights        []GPULight

	LightSpaceMatrices []mathutil.Mat4
	ShadowCastersCount int
}

// NewFrame returns an empty frame with identity camera matrices, ready
// for logic stages to populate.
func NewFrame() Frame {
	return Frame{
		ViewMatrix:    mathutil.IdentityMat4,
		ProjMatrix:    mathutil.IdentityMat4,
		RenderProxies: make(map[ecs.EntityID]RenderProxy),
	}
}

// Interpolate builds the frame the render stages should draw from,
// given the two most recently published frames and a blend factor in
// [0,1]: camera and matrices are lerped, proxies are taken from curr with
// uModel rebuilt by lerping position/scale and slerping rotation against
// the matching id in prev (a proxy only present in curr is used as-is),
// lights and light-space matrices are paired positionally over the
// shorter of the two lists, and shadow_casters_count holds at prev's
// value for the duration of the tick.
func Interpolate(prev, curr Frame, alpha float64) Frame {
	out := Frame{
		TSim:               mathutil.Lerp(prev.TSim, curr.TSim, alpha),
		CameraPosition:     mathutil.LerpVec3(prev.CameraPosition, curr.CameraPosition, alpha),
		ViewMatrix:         mathutil.LerpMat4(prev.ViewMatrix, curr.ViewMatrix, alpha),
		ProjMatrix:         mathutil.LerpMat4(prev.ProjMatrix, curr.ProjMatrix, alpha),
		RenderProxies:      make(map[ecs.EntityID]RenderProxy, len(curr.RenderProxies)),
		ShadowCastersCount: prev.ShadowCastersCount,
	}

	for id, cp := range curr.RenderProxies {
		proxy := cp
		if pp, ok := prev.RenderProxies[id]; ok {
			proxy.Position = mathutil.LerpVec3(pp.Position, cp.Position, alpha)
			proxy.Rotation = mathutil.Slerp(pp.Rotation, cp.Rotation, alpha)
			proxy.Scale = mathutil.LerpVec3(pp.Scale, cp.Scale, alpha)
		}
		out.RenderProxies[id] = proxy
	}

	lightCount := len(prev.Lights)
	if len(curr.Lights) < lightCount {
		lightCount = len(curr.Lights)
	}
	out.Lights = make([]GPULight, lightCount)
	for i := 0; i < lightCount; i++ {
		out.Lights[i] = lerpLight(prev.Lights[i], curr.Lights[i], alpha)
	}

	matCount := len(prev.LightSpaceMatrices)
	if len(curr.LightSpaceMatrices) < matCount {
		matCount = len(curr.LightSpaceMatrices)
	}
	out.LightSpaceMatrices = make([]mathutil.Mat4, matCount)
	for i := 0; i < matCount; i++ {
		out.LightSpaceMatrices[i] = mathutil.LerpMat4(prev.LightSpaceMatrices[i], curr.LightSpaceMatrices[i], alpha)
	}

	return out
}

func lerpLight(a, b GPULight, t float64) GPULight {
	return GPULight{
		Position:    mathutil.LerpVec3(a.Position, b.Position, t),
		ColorR:      mathutil.Lerp(a.ColorR, b.ColorR, t),
		ColorG:      mathutil.Lerp(a.ColorG, b.ColorG, t),
		ColorB:      mathutil.Lerp(a.ColorB, b.ColorB, t),
		Intensity:   mathutil.Lerp(a.Intensity, b.Intensity, t),
		Range:       mathutil.Lerp(a.Range, b.Range, t),
		CastsShadow: b.CastsShadow,
	}
}
