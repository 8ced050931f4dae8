package march

import "math"

// BlendMode selects how a primitive's distance field is combined with the
// field accumulated from the primitives before it in storage order.
type BlendMode int

const (
	// BlendUnion takes the plain minimum of the two fields.
	BlendUnion BlendMode = iota

	// BlendSmoothUnion joins the fields with a polynomial smooth minimum
	// parameterized by the primitive's blend strength K.
	BlendSmoothUnion

	// BlendSubtract carves the primitive out of the accumulated field.
	BlendSubtract

	// BlendIntersect keeps only the overlap of the two fields.
	BlendIntersect

	// BlendXOR keeps only the non-overlapping regions of the two fields.
	BlendXOR
)

// String returns the display name of the blend mode.
func (m BlendMode) String() string {
	switch m {
	case BlendUnion:
		return "Union"
	case BlendSmoothUnion:
		return "SmoothUnion"
	case BlendSubtract:
		return "Subtract"
	case BlendIntersect:
		return "Intersect"
	case BlendXOR:
		return "XOR"
	}
	return "Unknown"
}

// minBlendK is the floor applied to blend strength during evaluation.
// The polynomial smooth minimum divides by K, so a zero or negative K
// would be numerically unstable. Invalid values are rejected at the scene
// mutation boundary; the floor is a second line of defense.
const minBlendK = 1e-4

// Sphere is a sphere primitive: a center and a radius.
type Sphere struct {
	Center Vec3
	Radius float64
	Color  RGB
	Blend  BlendMode
	K      float64 // blend strength for BlendSmoothUnion
}

// Distance returns the signed distance from p to the sphere surface.
func (s *Sphere) Distance(p Vec3) float64 {
	return p.Sub(s.Center).Length() - s.Radius
}

// Box is an axis-aligned box primitive: a center and half-extents.
type Box struct {
	Center Vec3
	Half   Vec3
	Color  RGB
	Blend  BlendMode
	K      float64
}

// Distance returns the signed distance from p to the box surface,
// using the standard exterior/interior split: the exterior term is the
// length of the positive per-axis overshoot, the interior term is the
// (negative) largest per-axis distance to a face.
func (b *Box) Distance(p Vec3) float64 {
	q := p.Sub(b.Center).Abs().Sub(b.Half)
	exterior := q.Max(0).Length()
	interior := math.Min(q.MaxComponent(), 0)
	return exterior + interior
}

// Torus is a torus primitive lying in the XZ plane around its center:
// MajorR is the ring radius, MinorR the tube radius.
type Torus struct {
	Center Vec3
	MajorR float64
	MinorR float64
	Color  RGB
	Blend  BlendMode
	K      float64
}

// Distance returns the signed distance from p to the torus surface.
// The point is reduced to the ring's 2D cross-section: distance from the
// ring circle in the XZ plane paired with the Y offset, minus the tube
// radius.
func (t *Torus) Distance(p Vec3) float64 {
	q := p.Sub(t.Center)
	ringDist := math.Hypot(q.X, q.Z) - t.MajorR
	return math.Hypot(ringDist, q.Y) - t.MinorR
}

// smoothMin is the polynomial smooth minimum of two distances with blend
// radius k. It also returns the interpolation factor h in [0, 1]: h=1 means
// a fully dominates, h=0 means b fully dominates. The factor is reused for
// distance-weighted color blending so that color stays continuous across
// the blend region.
func smoothMin(a, b, k float64) (d, h float64) {
	if k < minBlendK {
		k = minBlendK
	}
	h = clamp(0.5+0.5*(b-a)/k, 0, 1)
	return mix(b, a, h) - k*h*(1-h), h
}
