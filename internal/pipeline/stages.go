package pipeline

import (
	"context"

	"forgecore/internal/async"
	"forgecore/internal/ecs"
	"forgecore/internal/ecs/components"
	"forgecore/internal/mathutil"
	"forgecore/internal/scheduler"
	"forgecore/internal/world"
)

// StreamWorld returns a logic stage that updates streamer's loaded-chunk
// set around focus() each tick, the §7-of-the-caller-code "world" half
// of the first parallel group the original runs alongside input.
func StreamWorld(streamer *world.Streamer, focus func() (x, y, z float64)) LogicStageFunc {
	return func(ctx context.Context, token *async.LifecycleToken, dt float64, frameOut *Frame, state *LogicState) error {
		if token.StopRequested() {
			return nil
		}
		x, y, z := focus()
		streamer.UpdateLoadPosition(ctx, x, y, z)
		return nil
	}
}

// RunSystems returns a logic stage that runs one pass of sched's layered
// systems over state.Registry.
func RunSystems(sched *scheduler.Scheduler) LogicStageFunc {
	return func(ctx context.Context, token *async.LifecycleToken, dt float64, frameOut *Frame, state *LogicState) error {
		if token.StopRequested() {
			return nil
		}
		return sched.Run(ctx, dt, state.Registry)
	}
}

// SetCamera returns a logic stage that stamps frameOut's camera fields
// from the given accessors, evaluated fresh each tick.
func SetCamera(position func() mathutil.Vec3, view, proj func() mathutil.Mat4) LogicStageFunc {
	return func(ctx context.Context, token *async.LifecycleToken, dt float64, frameOut *Frame, state *LogicState) error {
		frameOut.CameraPosition = position()
		frameOut.ViewMatrix = view()
		frameOut.ProjMatrix = proj()
		return nil
	}
}

// GatherRenderData returns a logic stage that populates frameOut's
// render_proxies and lights from every entity carrying Transform+Visual
// or Transform+Light, and sets shadow_casters_count to the number of
// visible proxies that cast a shadow. This is the Go stand-in for the
// original's visual+light system pair, flattened into one pass since the
// scheduler already guarantees Transform is stable by the time this
// stage runs (it reads, never writes).
func GatherRenderData() LogicStageFunc {
	return func(ctx context.Context, token *async.LifecycleToken, dt float64, frameOut *Frame, state *LogicState) error {
		if token.StopRequested() {
			return nil
		}

		ecs.ForEach2[components.Transform, components.Visual](state.Registry, func(id ecs.EntityID, t *components.Transform, v *components.Visual) {
			if !v.Visible {
				return
			}
			proxy := RenderProxy{
				MeshHandle:   v.MeshHandle,
				ShaderHandle: v.ShaderHandle,
				Position:     t.Position,
				Rotation:     t.Rotation,
				Scale:        t.Scale,
				TintR:        v.TintR,
				TintG:        v.TintG,
				TintB:        v.TintB,
				TintA:        v.TintA,
				Visible:      v.Visible,
				CastsShadow:  v.CastsShadow,
			}
			frameOut.RenderProxies[id] = proxy
			if v.CastsShadow {
				frameOut.ShadowCastersCount++
			}
		})

		ecs.ForEach2[components.Transform, components.Light](state.Registry, func(id ecs.EntityID, t *components.Transform, l *components.Light) {
			frameOut.Lights = append(frameOut.Lights, GPULight{
				Position:    t.Position,
				ColorR:      l.ColorR,
				ColorG:      l.ColorG,
				ColorB:      l.ColorB,
				Intensity:   l.Intensity,
				Range:       l.Range,
				CastsShadow: l.CastsShadow,
			})
		})

		return nil
	}
}
