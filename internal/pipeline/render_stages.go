package pipeline

import (
	"context"

	"forgecore/internal/async"
	"forgecore/internal/platform"
)

// DrawProxies returns a render stage that interpolates prev/curr and issues
// one Draw per visible render proxy against backend, then one per light's
// shadow pass is left to a dedicated shadow stage (not modeled here — the
// spec scopes shadow mapping to the light-space-matrices data, not to a
// concrete shadow stage implementation). onError, if non-nil, is called
// with every GPU call failure: such failures are logged and the draw is
// skipped, never fatal.
func DrawProxies(backend platform.GraphicsBackend, target platform.Handle, onError func(error)) RenderStageFunc {
	report := onError
	if report == nil {
		report = func(error) {}
	}

	return func(ctx context.Context, token *async.LifecycleToken, alpha float64, prev, curr *Frame) error {
		if token.StopRequested() {
			return nil
		}
		frame := Interpolate(*prev, *curr, alpha)

		if err := backend.Clear(target, 0, 0, 0, 1); err != nil {
			report(err)
			return nil
		}

		for _, proxy := range frame.RenderProxies {
			if !proxy.Visible {
				continue
			}
			meshHandle, ok := backend.Get(proxy.MeshHandle)
			if !ok {
				continue
			}
			shaderHandle, ok := backend.Get(proxy.ShaderHandle)
			if !ok {
				continue
			}
			model := proxy.UModel()
			if err := backend.Draw(meshHandle, shaderHandle, platform.DrawOptions{
				Target: target,
				Uniforms: map[string]float64{
					"uModel00": model[0], "uModel01": model[1], "uModel02": model[2], "uModel03": model[3],
					"uModel10": model[4], "uModel11": model[5], "uModel12": model[6], "uModel13": model[7],
					"uModel20": model[8], "uModel21": model[9], "uModel22": model[10], "uModel23": model[11],
					"tintR": proxy.TintR, "tintG": proxy.TintG, "tintB": proxy.TintB, "tintA": proxy.TintA,
				},
			}); err != nil {
				report(err)
			}
		}
		return nil
	}
}

// Present returns the sync/present stage every RenderLoop runs last.
func Present(backend platform.GraphicsBackend) RenderStageFunc {
	return func(ctx context.Context, token *async.LifecycleToken, alpha float64, prev, curr *Frame) error {
		return backend.Present()
	}
}
