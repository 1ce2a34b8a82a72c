package renderer

import (
	"errors"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/pneumostabsim/pneumostabsim/engine/camera"
	"github.com/rs/zerolog"
)

// Renderer draws the camera's view of the frame wireframe to a window surface.
type Renderer interface {
	// Resize reconfigures the surface for a new framebuffer size.
	// Zero-sized framebuffers (minimized windows) are skipped until a real size arrives.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	//
	// Returns:
	//   - error: an error if the surface could not be configured
	Resize(width, height int) error

	// Aspect returns the width/height ratio of the configured surface.
	//
	// Returns:
	//   - float64: the aspect ratio, 1 before the first configuration
	Aspect() float64

	// SetPresentMode sets the surface present mode and reconfigures the surface.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// SetLines replaces the line list drawn each frame.
	//
	// Parameters:
	//   - vertices: the line list, one vertex pair per segment
	//
	// Returns:
	//   - error: an error if the vertex buffer could not be created
	SetLines(vertices []LineVertex) error

	// Render uploads the camera uniform, draws the line list and presents the frame.
	//
	// Parameters:
	//   - uniform: the camera uniform for this frame
	//
	// Returns:
	//   - error: an error if the frame could not be acquired or submitted
	Render(uniform camera.GPUCameraUniform) error

	// Release frees all GPU resources.
	Release()
}

type renderer struct {
	backend rendererBackend
	logger  zerolog.Logger

	width  int
	height int

	forceFallbackAdapter bool
	presentMode          PresentMode
	sampleCount          MSAASampleCount
	clearColor           wgpu.Color
}

var _ Renderer = &renderer{}

// NewRenderer creates a WebGPU renderer for the given surface and configures it at the given size.
// The surface descriptor is platform-specific and is typically obtained from Window.SurfaceDescriptor().
//
// Parameters:
//   - surfaceDescriptor: the platform-specific surface descriptor
//   - width: initial framebuffer width in pixels
//   - height: initial framebuffer height in pixels
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: the configured renderer
//   - error: an error if no adapter, device or pipeline could be created
func NewRenderer(surfaceDescriptor *wgpu.SurfaceDescriptor, width, height int, options ...RendererBuilderOption) (Renderer, error) {
	if surfaceDescriptor == nil {
		return nil, errors.New("renderer requires a surface descriptor")
	}

	r := newRenderer(options...)
	backend, err := newWGPURendererBackend(surfaceDescriptor, r.forceFallbackAdapter, r.sampleCount, r.clearColor)
	if err != nil {
		return nil, fmt.Errorf("failed to create wgpu backend: %w", err)
	}
	r.backend = backend
	r.backend.SetPresentMode(r.presentMode)

	if err := r.Resize(width, height); err != nil {
		r.backend.Release()
		return nil, err
	}
	return r, nil
}

func newRenderer(options ...RendererBuilderOption) *renderer {
	r := &renderer{
		logger:      zerolog.Nop(),
		presentMode: PresentModeVSync,
		sampleCount: MSAA4x,
		clearColor:  wgpu.Color{R: 0.1, G: 0.1, B: 0.1, A: 1.0},
	}
	// Apply options first so config flags (e.g. forceFallbackAdapter) are
	// available before the backend requests a GPU adapter.
	for _, opt := range options {
		opt(r)
	}
	return r
}

func (r *renderer) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		r.logger.Debug().Int("width", width).Int("height", height).Msg("skipping surface configure for empty framebuffer")
		return nil
	}
	if err := r.backend.ConfigureSurface(width, height); err != nil {
		return fmt.Errorf("failed to configure surface %dx%d: %w", width, height, err)
	}
	r.width, r.height = width, height
	return nil
}

func (r *renderer) Aspect() float64 {
	if r.width <= 0 || r.height <= 0 {
		return 1
	}
	return float64(r.width) / float64(r.height)
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.presentMode = mode
	r.backend.SetPresentMode(mode)
	if err := r.Resize(r.width, r.height); err != nil {
		r.logger.Warn().Err(err).Msg("present mode change")
	}
}

func (r *renderer) SetLines(vertices []LineVertex) error {
	return r.backend.UploadLines(MarshalLines(vertices), uint32(len(vertices)))
}

func (r *renderer) Render(uniform camera.GPUCameraUniform) error {
	if r.width <= 0 || r.height <= 0 {
		return nil
	}
	r.backend.WriteCamera(uniform.Marshal())
	return r.backend.DrawFrame()
}

func (r *renderer) Release() {
	if r.backend != nil {
		r.backend.Release()
	}
}
