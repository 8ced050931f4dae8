package gpu

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
)

//go:embed shaders/march.wgsl
var marchShaderSource string

// ValidateShaders compiles the embedded WGSL through naga without a
// device. A failure is fatal to rendering and carries the full compiler
// diagnostic so the caller can surface it instead of drawing stale
// frames.
func ValidateShaders() error {
	if marchShaderSource == "" {
		return fmt.Errorf("gpu: march shader source is empty")
	}
	if _, err := naga.Compile(marchShaderSource); err != nil {
		return fmt.Errorf("gpu: march shader rejected: %w", err)
	}
	return nil
}

// compileShaderModule compiles the march WGSL to SPIR-V and wraps it in
// a hal shader module. SPIR-V is little-endian 32-bit words.
func compileShaderModule(device hal.Device, label string) (hal.ShaderModule, error) {
	spirvBytes, err := naga.Compile(marchShaderSource)
	if err != nil {
		return nil, fmt.Errorf("gpu: compile %s: %w", label, err)
	}
	spirv := make([]uint32, len(spirvBytes)/4)
	for i := range spirv {
		spirv[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  label,
		Source: hal.ShaderSource{SPIRV: spirv},
	})
}
