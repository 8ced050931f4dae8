package march

import "math"

// Shading defaults.
const (
	// NormalEps is the central-difference offset for normal estimation.
	NormalEps = 0.001

	// shadowBias lifts the shadow ray origin off the surface so the
	// secondary march does not immediately re-hit the surface it left.
	shadowBias = 0.02

	// defaultFogDensity is the exponential distance fog coefficient.
	defaultFogDensity = 0.02

	// defaultShadowFactor is the ambient-only light level inside shadows.
	defaultShadowFactor = 0.3

	// defaultAmbient is the base light level added to every lit surface.
	defaultAmbient = 0.1

	// gammaExponent is the display gamma applied before output.
	gammaExponent = 2.2
)

// Shading colors.
var (
	skyTop      = RGB{R: 0.35, G: 0.55, B: 0.85}
	skyBottom   = RGB{R: 0.75, G: 0.85, B: 0.95}
	checkerDark = RGB{R: 0.35, G: 0.35, B: 0.35}
	checkerLite = RGB{R: 0.65, G: 0.65, B: 0.65}
)

// defaultLightPos is the fixed point light shared by all shading.
var defaultLightPos = Vec3{X: 4, Y: 5, Z: -3}

// Shader turns marching hits into shaded pixel colors: normal estimation,
// Lambert diffuse against a fixed point light, a shadow ray, checkerboard
// ground, distance fog, and gamma correction.
type Shader struct {
	field *Field

	LightPos     Vec3
	FogDensity   float64
	ShadowFactor float64
	Ambient      float64
}

// NewShader creates a shader over the given field with default lighting.
func NewShader(field *Field) *Shader {
	return &Shader{
		field:        field,
		LightPos:     defaultLightPos,
		FogDensity:   defaultFogDensity,
		ShadowFactor: defaultShadowFactor,
		Ambient:      defaultAmbient,
	}
}

// Sky returns the background gradient for a ray direction: a vertical
// blend between the horizon and zenith colors.
func (sh *Shader) Sky(dir Vec3) RGB {
	t := clamp(0.5*(dir.Y+1), 0, 1)
	return skyBottom.Lerp(skyTop, t)
}

// Shade computes the final color for one primary ray. A miss returns the
// sky gradient. A hit is lit, shadowed, fogged, and gamma corrected.
func (sh *Shader) Shade(hit HitResult, origin, dir Vec3) RGB {
	if !hit.Hit() {
		return sh.Sky(dir)
	}

	p := origin.Add(dir.Mul(hit.T))
	n := sh.Normal(p)
	albedo := sh.albedo(p, hit.Tag)

	toLight := sh.LightPos.Sub(p)
	lightDist := toLight.Length()
	lightDir := toLight.Normalize()

	diffuse := math.Max(n.Dot(lightDir), 0)
	light := sh.Ambient + diffuse*sh.shadow(p, n, lightDir, lightDist)

	color := albedo.Mul(light)

	// Exponential distance fog toward the sky color.
	fog := math.Exp(-hit.T * sh.FogDensity)
	color = sh.Sky(dir).Lerp(color, fog)

	return color.Gamma(gammaExponent)
}

// Normal estimates the surface normal at p with a six-tap central
// difference over the field. A degenerate (zero-length) gradient falls
// back to the world up axis rather than propagating NaN.
func (sh *Shader) Normal(p Vec3) Vec3 {
	e := NormalEps
	g := Vec3{
		X: sh.field.Evaluate(Vec3{X: p.X + e, Y: p.Y, Z: p.Z}).Dist -
			sh.field.Evaluate(Vec3{X: p.X - e, Y: p.Y, Z: p.Z}).Dist,
		Y: sh.field.Evaluate(Vec3{X: p.X, Y: p.Y + e, Z: p.Z}).Dist -
			sh.field.Evaluate(Vec3{X: p.X, Y: p.Y - e, Z: p.Z}).Dist,
		Z: sh.field.Evaluate(Vec3{X: p.X, Y: p.Y, Z: p.Z + e}).Dist -
			sh.field.Evaluate(Vec3{X: p.X, Y: p.Y, Z: p.Z - e}).Dist,
	}
	if g.LengthSq() == 0 {
		return WorldUp
	}
	return g.Normalize()
}

// shadow casts a secondary ray from the hit point toward the light and
// returns the light attenuation: 1 when the light is reached, the ambient
// shadow factor when geometry blocks it first.
func (sh *Shader) shadow(p, n, lightDir Vec3, lightDist float64) float64 {
	m := NewMarcher(sh.field)
	hit := m.March(p.Add(n.Mul(shadowBias)), lightDir)
	if hit.T < lightDist {
		return sh.ShadowFactor
	}
	return 1.0
}

// albedo resolves the surface color under a tag. The ground plane gets the
// procedural checkerboard; primitives take the field's blended color at
// the hit point, which equals the stored color outside smooth blend
// regions and the distance-weighted mix inside them.
func (sh *Shader) albedo(p Vec3, tag MaterialTag) RGB {
	if tag.IsPlane() {
		if (int(math.Floor(p.X))+int(math.Floor(p.Z)))%2 == 0 {
			return checkerLite
		}
		return checkerDark
	}
	return sh.field.Evaluate(p).Color
}
