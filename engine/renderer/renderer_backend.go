package renderer

import "github.com/cogentcore/webgpu/wgpu"

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// wgpuPresentMode maps a PresentMode to the WebGPU present mode.
func (m PresentMode) wgpuPresentMode() wgpu.PresentMode {
	if m == PresentModeUncapped {
		return wgpu.PresentModeImmediate
	}
	return wgpu.PresentModeFifo
}

// MSAASampleCount controls the number of samples used for multisample anti-aliasing (MSAA).
// WebGPU guarantees support for 1 (off) and 4.
type MSAASampleCount uint32

const (
	// MSAAOff disables multisample anti-aliasing (sample count 1).
	MSAAOff MSAASampleCount = 1

	// MSAA4x enables 4x multisample anti-aliasing. This is the default.
	MSAA4x MSAASampleCount = 4
)

// rendererBackend is the GPU API the Renderer drives.
type rendererBackend interface {
	ConfigureSurface(width, height int) error
	SetPresentMode(mode PresentMode)
	UploadLines(data []byte, vertexCount uint32) error
	WriteCamera(data []byte)
	DrawFrame() error
	Release()
}
