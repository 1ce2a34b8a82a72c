package renderer

import (
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/rs/zerolog"
)

// RendererBuilderOption is a functional option applied to a renderer during construction via NewRenderer.
type RendererBuilderOption func(*renderer)

// WithPresentMode sets the surface present mode which controls how frames are delivered to the display.
//
// Parameters:
//   - mode: the PresentMode to use (VSync or Uncapped)
//
// Returns:
//   - RendererBuilderOption: a function that applies the present mode option to a renderer
func WithPresentMode(mode PresentMode) RendererBuilderOption {
	return func(r *renderer) {
		r.presentMode = mode
	}
}

// WithMSAA sets the multisample anti-aliasing sample count for the renderer.
// When not specified, the default is MSAA4x. Use MSAAOff to disable MSAA entirely.
//
// Parameters:
//   - count: the MSAASampleCount to use
//
// Returns:
//   - RendererBuilderOption: a function that applies the MSAA option to a renderer
func WithMSAA(count MSAASampleCount) RendererBuilderOption {
	return func(r *renderer) {
		if count == MSAAOff || count == MSAA4x {
			r.sampleCount = count
		}
	}
}

// WithForceSoftwareRenderer forces WGPU to use a CPU/software fallback adapter instead of
// hardware GPU acceleration. This requires a software Vulkan ICD to be installed on the system
// (e.g. SwiftShader or lavapipe).
//
// Parameters:
//   - force: true to force the software fallback adapter, false to use hardware (default)
//
// Returns:
//   - RendererBuilderOption: a function that applies the force software renderer option to a renderer
func WithForceSoftwareRenderer(force bool) RendererBuilderOption {
	return func(r *renderer) {
		r.forceFallbackAdapter = force
	}
}

// WithClearColor sets the background color.
//
// Parameters:
//   - red, green, blue: linear color components in [0, 1]
//
// Returns:
//   - RendererBuilderOption: a function that applies the clear color to a renderer
func WithClearColor(red, green, blue float64) RendererBuilderOption {
	return func(r *renderer) {
		r.clearColor = wgpu.Color{R: red, G: green, B: blue, A: 1.0}
	}
}

// WithLogger sets the renderer logger.
//
// Parameters:
//   - logger: the logger to use
//
// Returns:
//   - RendererBuilderOption: a function that applies the logger to a renderer
func WithLogger(logger zerolog.Logger) RendererBuilderOption {
	return func(r *renderer) {
		r.logger = logger
	}
}
