package march

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Config is the editor's tunable state, loadable from YAML. Zero or
// missing fields fall back to the defaults from DefaultConfig.
type Config struct {
	Viewport ViewportConfig `yaml:"viewport"`
	Camera   CameraConfig   `yaml:"camera"`
	Light    LightConfig    `yaml:"light"`
	Fog      FogConfig      `yaml:"fog"`
	Input    InputConfig    `yaml:"input"`
}

// ViewportConfig sets the render target size.
type ViewportConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// CameraConfig sets the initial orbit camera pose.
type CameraConfig struct {
	Yaw      float64 `yaml:"yaw"`
	Pitch    float64 `yaml:"pitch"`
	Distance float64 `yaml:"distance"`
	FOVDeg   float64 `yaml:"fov_deg"`
}

// LightConfig positions the single point light.
type LightConfig struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

// FogConfig controls distance fog.
type FogConfig struct {
	Density float64 `yaml:"density"`
}

// InputConfig tunes pointer handling.
type InputConfig struct {
	DragSensitivity float64 `yaml:"drag_sensitivity"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Viewport: ViewportConfig{Width: 800, Height: 600},
		Camera: CameraConfig{
			Yaw:      0,
			Pitch:    -0.3,
			Distance: 6,
			FOVDeg:   60,
		},
		Light: LightConfig{X: 4, Y: 5, Z: -3},
		Fog:   FogConfig{Density: defaultFogDensity},
		Input: InputConfig{DragSensitivity: DefaultDragSensitivity},
	}
}

// LoadConfig reads a YAML config file, overlaying it on the defaults.
// A missing file is not an error: the defaults are returned as-is.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("march: read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("march: parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config back out as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("march: serialize config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("march: write config: %w", err)
	}
	return nil
}

// Validate rejects values the render and pick stages cannot work with.
func (c *Config) Validate() error {
	if c.Viewport.Width <= 0 || c.Viewport.Height <= 0 {
		return fmt.Errorf("march: config: viewport %dx%d must be positive", c.Viewport.Width, c.Viewport.Height)
	}
	if c.Camera.Distance <= 0 {
		return fmt.Errorf("march: config: camera distance %g must be positive", c.Camera.Distance)
	}
	if c.Camera.FOVDeg <= 0 || c.Camera.FOVDeg >= 180 {
		return fmt.Errorf("march: config: fov %g deg out of range (0, 180)", c.Camera.FOVDeg)
	}
	if c.Fog.Density < 0 {
		return fmt.Errorf("march: config: fog density %g must be non-negative", c.Fog.Density)
	}
	if c.Input.DragSensitivity <= 0 {
		return fmt.Errorf("march: config: drag sensitivity %g must be positive", c.Input.DragSensitivity)
	}
	return nil
}

// NewCameraFromConfig builds an orbit camera from the config pose.
func NewCameraFromConfig(cfg *Config) *Camera {
	cam := NewCamera(cfg.Camera.Distance)
	cam.Yaw = cfg.Camera.Yaw
	cam.Pitch = cfg.Camera.Pitch
	cam.FOV = cfg.Camera.FOVDeg * degToRad
	return cam
}

// LightPos returns the configured light position as a vector.
func (c *Config) LightPos() Vec3 {
	return Vec3{X: c.Light.X, Y: c.Light.Y, Z: c.Light.Z}
}

// NewShaderFromConfig builds a shader over field with the config's light
// position and fog density in place of the package defaults.
func NewShaderFromConfig(field *Field, cfg *Config) *Shader {
	sh := NewShader(field)
	sh.LightPos = cfg.LightPos()
	sh.FogDensity = cfg.Fog.Density
	return sh
}

// NewRendererFromConfig builds a CPU renderer whose shading follows the
// config's light and fog sections.
func NewRendererFromConfig(scene *Scene, camera *Camera, cfg *Config) *Renderer {
	r := NewRenderer(scene, camera)
	r.LightPos = cfg.LightPos()
	r.FogDensity = cfg.Fog.Density
	return r
}
