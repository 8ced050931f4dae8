package gpu

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/march"
)

// paramsSize is the byte size of the camera/lighting uniform: six vec4f.
const paramsSize = 96

// gpuTimeout bounds every fence wait. Marching a full frame is bounded
// by step count, so a longer wait means the device is gone.
const gpuTimeout = 5 * time.Second

// pipeline is the plumbing shared by the frame and pick passes: one
// render pipeline drawing a full-screen triangle into an offscreen
// RGBA8 texture, with a staging buffer for readback. The passes differ
// only in fragment entry point and in how much of the texture they read
// back.
type pipeline struct {
	device hal.Device
	queue  hal.Queue

	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	render     hal.RenderPipeline

	tex  hal.Texture
	view hal.TextureView

	width, height uint32
	label         string
	entry         string
}

func newPipeline(dev *Device, label, entry string) *pipeline {
	device, queue := dev.Hal()
	return &pipeline{device: device, queue: queue, label: label, entry: entry}
}

// ensureReady creates the pipeline and (re)creates the target texture
// when the requested size changes.
func (p *pipeline) ensureReady(w, h uint32) error {
	if p.render == nil {
		if err := p.createPipeline(); err != nil {
			return fmt.Errorf("%s: create pipeline: %w", p.label, err)
		}
	}
	if err := p.ensureTexture(w, h); err != nil {
		return fmt.Errorf("%s: ensure texture: %w", p.label, err)
	}
	return nil
}

func (p *pipeline) createPipeline() error {
	shader, err := compileShaderModule(p.device, p.label+"_shader")
	if err != nil {
		return err
	}
	p.shader = shader

	bindLayout, err := p.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: p.label + "_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create bind layout: %w", err)
	}
	p.bindLayout = bindLayout

	pipeLayout, err := p.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            p.label + "_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("create pipeline layout: %w", err)
	}
	p.pipeLayout = pipeLayout

	render, err := p.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  p.label + "_pipeline",
		Layout: p.pipeLayout,
		Vertex: hal.VertexState{
			Module:     p.shader,
			EntryPoint: "vs_main",
		},
		Fragment: &hal.FragmentState{
			Module:     p.shader,
			EntryPoint: p.entry,
			Targets: []gputypes.ColorTargetState{
				{
					Format:    gputypes.TextureFormatRGBA8Unorm,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("create render pipeline: %w", err)
	}
	p.render = render
	return nil
}

func (p *pipeline) ensureTexture(w, h uint32) error {
	if p.width == w && p.height == h && p.tex != nil {
		return nil
	}
	p.destroyTexture()

	tex, err := p.device.CreateTexture(&hal.TextureDescriptor{
		Label:         p.label + "_target",
		Size:          hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("create target texture: %w", err)
	}
	p.tex = tex

	view, err := p.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         p.label + "_target_view",
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		p.destroyTexture()
		return fmt.Errorf("create target view: %w", err)
	}
	p.view = view

	p.width = w
	p.height = h
	return nil
}

// encode runs one full-screen pass and copies the given texture region
// into a staging buffer, then submits, waits, and reads the bytes back.
func (p *pipeline) encode(sceneBuf, paramsBuf hal.Buffer, copyX, copyY, copyW, copyH, bytesPerRow uint32) ([]byte, error) {
	bindGroup, err := p.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  p.label + "_bind",
		Layout: p.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: sceneBuf.NativeHandle(), Offset: 0, Size: march.SceneBufferSize,
			}},
			{Binding: 1, Resource: gputypes.BufferBinding{
				Buffer: paramsBuf.NativeHandle(), Offset: 0, Size: paramsSize,
			}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create bind group: %w", err)
	}
	defer p.device.DestroyBindGroup(bindGroup)

	encoder, err := p.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: p.label + "_encoder",
	})
	if err != nil {
		return nil, fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding(p.label); err != nil {
		return nil, fmt.Errorf("begin encoding: %w", err)
	}

	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: p.label + "_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{
			{
				View:       p.view,
				LoadOp:     gputypes.LoadOpClear,
				StoreOp:    gputypes.StoreOpStore,
				ClearValue: gputypes.Color{R: 0, G: 0, B: 0, A: 1},
			},
		},
	})
	rp.SetPipeline(p.render)
	rp.SetBindGroup(0, bindGroup, nil)
	rp.Draw(3, 1, 0, 0)
	rp.End()

	// The render pass leaves the target in attachment layout; the copy
	// needs transfer-src. No-op on backends without explicit layouts.
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: p.tex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})

	stagingSize := uint64(bytesPerRow) * uint64(copyH)
	staging, err := p.device.CreateBuffer(&hal.BufferDescriptor{
		Label: p.label + "_staging",
		Size:  stagingSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		encoder.DiscardEncoding()
		return nil, fmt.Errorf("create staging buffer: %w", err)
	}
	defer p.device.DestroyBuffer(staging)

	encoder.CopyTextureToBuffer(p.tex, staging, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: bytesPerRow, RowsPerImage: copyH},
		TextureBase: hal.ImageCopyTexture{
			Texture:  p.tex,
			MipLevel: 0,
			Origin:   hal.Origin3D{X: copyX, Y: copyY},
		},
		Size: hal.Extent3D{Width: copyW, Height: copyH, DepthOrArrayLayers: 1},
	}})

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return nil, fmt.Errorf("end encoding: %w", err)
	}
	defer p.device.FreeCommandBuffer(cmdBuf)

	fence, err := p.device.CreateFence()
	if err != nil {
		return nil, fmt.Errorf("create fence: %w", err)
	}
	defer p.device.DestroyFence(fence)

	if err := p.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return nil, fmt.Errorf("submit: %w", err)
	}
	fenceOK, err := p.device.Wait(fence, 1, gpuTimeout)
	if err != nil || !fenceOK {
		return nil, fmt.Errorf("wait for GPU: ok=%v err=%w", fenceOK, err)
	}

	readback := make([]byte, stagingSize)
	if err := p.queue.ReadBuffer(staging, 0, readback); err != nil {
		return nil, fmt.Errorf("readback: %w", err)
	}
	return readback, nil
}

// uploadUniform creates a uniform buffer and writes data into it.
func (p *pipeline) uploadUniform(label string, data []byte) (hal.Buffer, error) {
	buf, err := p.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	p.queue.WriteBuffer(buf, 0, data)
	return buf, nil
}

func (p *pipeline) destroyTexture() {
	if p.view != nil {
		p.device.DestroyTextureView(p.view)
		p.view = nil
	}
	if p.tex != nil {
		p.device.DestroyTexture(p.tex)
		p.tex = nil
	}
	p.width = 0
	p.height = 0
}

func (p *pipeline) destroy() {
	p.destroyTexture()
	if p.render != nil {
		p.device.DestroyRenderPipeline(p.render)
		p.render = nil
	}
	if p.pipeLayout != nil {
		p.device.DestroyPipelineLayout(p.pipeLayout)
		p.pipeLayout = nil
	}
	if p.bindLayout != nil {
		p.device.DestroyBindGroupLayout(p.bindLayout)
		p.bindLayout = nil
	}
	if p.shader != nil {
		p.device.DestroyShaderModule(p.shader)
		p.shader = nil
	}
}

// Shading carries the lighting and fog parameters uploaded with each
// frame. Zero values fall back to the package defaults.
type Shading struct {
	LightPos     march.Vec3
	FogDensity   float64
	ShadowFactor float64
	Ambient      float64
}

// DefaultShading mirrors the CPU shader defaults.
func DefaultShading() Shading {
	return Shading{
		LightPos:     march.Vec3{X: 4, Y: 5, Z: -3},
		FogDensity:   0.02,
		ShadowFactor: 0.3,
		Ambient:      0.1,
	}
}

// ShadingFromConfig overlays the config's light and fog sections on the
// defaults, matching march.NewShaderFromConfig on the CPU side.
func ShadingFromConfig(cfg *march.Config) Shading {
	sh := DefaultShading()
	sh.LightPos = cfg.LightPos()
	sh.FogDensity = cfg.Fog.Density
	return sh
}

// packParams serializes the camera basis and shading parameters into
// the params uniform layout the shader expects.
func packParams(cam *march.Camera, sh Shading, w, h uint32) []byte {
	buf := make([]byte, paramsSize)

	fov := cam.FOV
	if fov == 0 {
		fov = march.DefaultFOV
	}
	tanHalf := math.Tan(fov / 2)
	aspect := float64(w) / float64(h)

	forward := cam.Forward()
	right := cam.Right()
	up := forward.Cross(right).Normalize()
	pos := cam.Position()

	putParamVec4(buf[0:], pos, tanHalf)
	putParamVec4(buf[16:], right, aspect)
	putParamVec4(buf[32:], up, sh.FogDensity)
	putParamVec4(buf[48:], forward, sh.ShadowFactor)
	putParamVec4(buf[64:], sh.LightPos, sh.Ambient)
	putParamVec4(buf[80:], march.Vec3{X: float64(w), Y: float64(h)}, 0)
	return buf
}

func putParamVec4(b []byte, v march.Vec3, w float64) {
	le := binary.LittleEndian
	le.PutUint32(b[0:], math.Float32bits(float32(v.X)))
	le.PutUint32(b[4:], math.Float32bits(float32(v.Y)))
	le.PutUint32(b[8:], math.Float32bits(float32(v.Z)))
	le.PutUint32(b[12:], math.Float32bits(float32(w)))
}
