package march

// Marching defaults. The pick pass only needs a coarse identifier, so it
// runs with a smaller step budget than the shaded frame.
const (
	// MaxSteps bounds the sphere-tracing loop for the shaded frame.
	MaxSteps = 256

	// PickSteps bounds the sphere-tracing loop for the identifier pass.
	PickSteps = 128

	// SurfDist is the hit tolerance: a sample closer than this to a
	// surface terminates the march.
	SurfDist = 0.001

	// MaxDist is the miss horizon: a ray that travels this far without a
	// hit is treated as hitting nothing.
	MaxDist = 100.0
)

// HitResult is the outcome of marching one ray.
//
// Tag is only meaningful when the march converged; the zero-value check is
// Hit(). A miss still carries the last sampled tag, which callers must not
// interpret.
type HitResult struct {
	T   float64
	Tag MaterialTag
}

// Hit reports whether the march found a surface before the miss horizon.
func (h HitResult) Hit() bool {
	return h.T < MaxDist
}

// Marcher sphere-traces rays through a distance field.
type Marcher struct {
	field *Field
	steps int
}

// NewMarcher creates a marcher with the shading step budget.
func NewMarcher(field *Field) *Marcher {
	return &Marcher{field: field, steps: MaxSteps}
}

// NewPickMarcher creates a marcher with the reduced pick step budget.
func NewPickMarcher(field *Field) *Marcher {
	return &Marcher{field: field, steps: PickSteps}
}

// March traces a ray from origin along dir until it crosses a surface or
// exceeds the miss horizon. dir must be unit length; behavior for other
// directions is undefined.
//
// The loop advances by the sampled distance each step (sphere tracing), so
// non-convergence near a surface is bounded by the step budget rather than
// looping forever. Exhausting the budget without reaching SurfDist reports
// a miss.
func (m *Marcher) March(origin, dir Vec3) HitResult {
	t := 0.0
	tag := TagNone
	for i := 0; i < m.steps; i++ {
		p := origin.Add(dir.Mul(t))
		s := m.field.Evaluate(p)
		tag = s.Tag
		if s.Dist < SurfDist {
			return HitResult{T: t, Tag: tag}
		}
		t += s.Dist
		if t > MaxDist {
			break
		}
	}
	return HitResult{T: MaxDist, Tag: tag}
}
