package gpu

import (
	"fmt"

	"github.com/gogpu/march"
)

// FramePipeline renders the shaded frame on the GPU and reads it back
// into a Pixmap. The fragment stage runs the full marching and shading
// path; the host only packs uniforms and decodes pixels.
type FramePipeline struct {
	pipe *pipeline

	// Shading is uploaded with every frame and may be adjusted between
	// frames.
	Shading Shading
}

// NewFramePipeline creates the visible-frame pipeline on dev.
func NewFramePipeline(dev *Device) *FramePipeline {
	return &FramePipeline{
		pipe:    newPipeline(dev, "march_frame", "fs_shade"),
		Shading: DefaultShading(),
	}
}

// Render draws one frame of the snapshot into target. The snapshot is
// immutable, so scene edits made while the submission is in flight
// apply to the next frame.
func (f *FramePipeline) Render(target *march.Pixmap, snap *march.Snapshot, cam *march.Camera) error {
	w, h := uint32(target.Width()), uint32(target.Height())
	if w == 0 || h == 0 {
		return fmt.Errorf("march_frame: empty target")
	}
	if err := f.pipe.ensureReady(w, h); err != nil {
		return err
	}

	sceneBuf, err := f.pipe.uploadUniform("march_frame_scene", march.EncodeScene(snap))
	if err != nil {
		return err
	}
	defer f.pipe.device.DestroyBuffer(sceneBuf)

	paramsBuf, err := f.pipe.uploadUniform("march_frame_params", packParams(cam, f.Shading, w, h))
	if err != nil {
		return err
	}
	defer f.pipe.device.DestroyBuffer(paramsBuf)

	pixels, err := f.pipe.encode(sceneBuf, paramsBuf, 0, 0, w, h, w*4)
	if err != nil {
		return err
	}
	copy(target.Data(), pixels[:len(target.Data())])
	return nil
}

// Destroy releases the pipeline's GPU resources.
func (f *FramePipeline) Destroy() {
	f.pipe.destroy()
}
