package renderer

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/pneumostabsim/pneumostabsim/engine/camera"
)

// wgpuRendererBackend owns the WebGPU device, the surface and the single
// line-list pipeline. All calls happen on the window thread.
type wgpuRendererBackend struct {
	instance *wgpu.Instance
	surface  *wgpu.Surface
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue

	surfaceFormat wgpu.TextureFormat
	presentMode   wgpu.PresentMode
	sampleCount   MSAASampleCount
	clearColor    wgpu.Color

	msaaTexture     *wgpu.Texture
	msaaTextureView *wgpu.TextureView

	pipeline        *wgpu.RenderPipeline
	bindGroupLayout *wgpu.BindGroupLayout
	cameraBuffer    *wgpu.Buffer
	cameraBindGroup *wgpu.BindGroup

	vertexBuffer *wgpu.Buffer
	vertexCount  uint32
}

var _ rendererBackend = &wgpuRendererBackend{}

func newWGPURendererBackend(surfaceDescriptor *wgpu.SurfaceDescriptor, forceFallbackAdapter bool, sampleCount MSAASampleCount, clearColor wgpu.Color) (*wgpuRendererBackend, error) {
	runtime.LockOSThread()
	b := &wgpuRendererBackend{
		instance:    wgpu.CreateInstance(nil),
		presentMode: wgpu.PresentModeFifo,
		sampleCount: sampleCount,
		clearColor:  clearColor,
	}
	b.surface = b.instance.CreateSurface(surfaceDescriptor)

	a, err := b.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallbackAdapter,
		CompatibleSurface:    b.surface,
	})
	if err != nil {
		b.Release()
		return nil, fmt.Errorf("failed to request adapter: %w", err)
	}
	b.adapter = a

	limits := wgpu.DefaultLimits()
	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Main Device",
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: limits,
		},
	})
	if err != nil {
		b.Release()
		return nil, fmt.Errorf("failed to request device: %w", err)
	}
	b.device = d
	b.queue = d.GetQueue()

	capabilities := b.surface.GetCapabilities(b.adapter)
	if len(capabilities.Formats) == 0 {
		b.Release()
		return nil, errors.New("surface reports no supported formats")
	}
	b.surfaceFormat = capabilities.Formats[0]

	if err := b.createPipeline(); err != nil {
		b.Release()
		return nil, err
	}
	return b, nil
}

// createPipeline builds the camera uniform buffer, its bind group and the line-list pipeline.
func (b *wgpuRendererBackend) createPipeline() error {
	module, err := b.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: "Line Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: lineShaderSource,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create line shader: %w", err)
	}
	defer module.Release()

	var uniform camera.GPUCameraUniform
	uniformSize := uint64(uniform.Size())

	b.bindGroupLayout, err = b.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Camera Bind Group Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: uniformSize,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create camera bind group layout: %w", err)
	}

	b.cameraBuffer, err = b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Camera Uniform Buffer",
		Size:  uniformSize,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("failed to create camera buffer: %w", err)
	}

	b.cameraBindGroup, err = b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Camera Bind Group",
		Layout: b.bindGroupLayout,
		Entries: []wgpu.BindGroupEntry{
			{
				Binding: 0,
				Buffer:  b.cameraBuffer,
				Offset:  0,
				Size:    wgpu.WholeSize,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create camera bind group: %w", err)
	}

	pipelineLayout, err := b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "Line Pipeline Layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{b.bindGroupLayout},
	})
	if err != nil {
		return fmt.Errorf("failed to create line pipeline layout: %w", err)
	}
	defer pipelineLayout.Release()

	b.pipeline, err = b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "Line Render Pipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{
				{
					ArrayStride: lineVertexSize,
					StepMode:    wgpu.VertexStepModeVertex,
					Attributes: []wgpu.VertexAttribute{
						{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
						{Format: wgpu.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1},
					},
				},
			},
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format:    b.surfaceFormat,
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology: wgpu.PrimitiveTopologyLineList,
		},
		Multisample: wgpu.MultisampleState{
			Count: uint32(b.sampleCount),
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create line pipeline: %w", err)
	}
	return nil
}

func (b *wgpuRendererBackend) ConfigureSurface(width, height int) error {
	capabilities := b.surface.GetCapabilities(b.adapter)
	alphaMode := wgpu.CompositeAlphaModeAuto
	if len(capabilities.AlphaModes) > 0 {
		alphaMode = capabilities.AlphaModes[0]
	}

	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      b.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: b.presentMode,
		AlphaMode:   alphaMode,
	})

	b.releaseMSAA()
	if b.sampleCount <= 1 {
		return nil
	}

	// The pass draws into the MSAA texture and resolves into the swapchain view.
	tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "MSAA Texture",
		Size: wgpu.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   uint32(b.sampleCount),
		Dimension:     wgpu.TextureDimension2D,
		Format:        b.surfaceFormat,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		return err
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return err
	}
	b.msaaTexture, b.msaaTextureView = tex, view
	return nil
}

func (b *wgpuRendererBackend) SetPresentMode(mode PresentMode) {
	b.presentMode = mode.wgpuPresentMode()
}

func (b *wgpuRendererBackend) UploadLines(data []byte, vertexCount uint32) error {
	if b.vertexBuffer != nil {
		b.vertexBuffer.Release()
		b.vertexBuffer = nil
		b.vertexCount = 0
	}
	if len(data) == 0 {
		return nil
	}

	buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label:            "Line Vertex Buffer",
		Size:             uint64(len(data)),
		Usage:            wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
		MappedAtCreation: false,
	})
	if err != nil {
		return fmt.Errorf("failed to create line vertex buffer: %w", err)
	}
	b.queue.WriteBuffer(buf, 0, data)
	b.vertexBuffer = buf
	b.vertexCount = vertexCount
	return nil
}

func (b *wgpuRendererBackend) WriteCamera(data []byte) {
	b.queue.WriteBuffer(b.cameraBuffer, 0, data)
}

func (b *wgpuRendererBackend) DrawFrame() error {
	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		return err
	}
	defer surfaceTexture.Release()

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		return err
	}
	defer view.Release()

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		return err
	}
	defer encoder.Release()

	attachment := wgpu.RenderPassColorAttachment{
		View:       view,
		LoadOp:     wgpu.LoadOpClear,
		StoreOp:    wgpu.StoreOpStore,
		ClearValue: b.clearColor,
	}
	if b.msaaTextureView != nil {
		attachment.View = b.msaaTextureView
		attachment.ResolveTarget = view
		attachment.StoreOp = wgpu.StoreOpDiscard
	}

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{attachment},
	})
	if b.vertexBuffer != nil && b.vertexCount > 0 {
		pass.SetPipeline(b.pipeline)
		pass.SetBindGroup(0, b.cameraBindGroup, nil)
		pass.SetVertexBuffer(0, b.vertexBuffer, 0, wgpu.WholeSize)
		pass.Draw(b.vertexCount, 1, 0, 0)
	}
	pass.End()
	pass.Release()

	commandBuffer, err := encoder.Finish(nil)
	if err != nil {
		return err
	}
	defer commandBuffer.Release()

	b.queue.Submit(commandBuffer)
	b.surface.Present()
	return nil
}

func (b *wgpuRendererBackend) releaseMSAA() {
	if b.msaaTextureView != nil {
		b.msaaTextureView.Release()
		b.msaaTextureView = nil
	}
	if b.msaaTexture != nil {
		b.msaaTexture.Release()
		b.msaaTexture = nil
	}
}

// Release frees GPU objects in reverse creation order. Safe on a partially constructed backend.
func (b *wgpuRendererBackend) Release() {
	b.releaseMSAA()
	if b.vertexBuffer != nil {
		b.vertexBuffer.Release()
		b.vertexBuffer = nil
	}
	if b.pipeline != nil {
		b.pipeline.Release()
		b.pipeline = nil
	}
	if b.cameraBindGroup != nil {
		b.cameraBindGroup.Release()
		b.cameraBindGroup = nil
	}
	if b.cameraBuffer != nil {
		b.cameraBuffer.Release()
		b.cameraBuffer = nil
	}
	if b.bindGroupLayout != nil {
		b.bindGroupLayout.Release()
		b.bindGroupLayout = nil
	}
	if b.queue != nil {
		b.queue.Release()
		b.queue = nil
	}
	if b.device != nil {
		b.device.Release()
		b.device = nil
	}
	if b.adapter != nil {
		b.adapter.Release()
		b.adapter = nil
	}
	if b.surface != nil {
		b.surface.Release()
		b.surface = nil
	}
	if b.instance != nil {
		b.instance.Release()
		b.instance = nil
	}
}
