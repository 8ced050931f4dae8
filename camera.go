package march

import "math"

// DefaultFOV is the vertical field of view in radians.
const DefaultFOV = 60.0 * degToRad

const degToRad = math.Pi / 180.0

// Camera is an orbit camera described by yaw/pitch angles (radians), a
// distance from the target, and the target position. It is owned by the
// host's input glue; the core only reads it, once per frame.
type Camera struct {
	Yaw      float64
	Pitch    float64
	Distance float64
	Target   Vec3
	FOV      float64
}

// NewCamera creates a camera orbiting the origin at the given distance.
func NewCamera(distance float64) *Camera {
	return &Camera{Distance: distance, FOV: DefaultFOV}
}

// Forward returns the unit view direction from the camera toward the target.
func (c *Camera) Forward() Vec3 {
	cp := math.Cos(c.Pitch)
	return Vec3{
		X: cp * math.Sin(c.Yaw),
		Y: math.Sin(c.Pitch),
		Z: cp * math.Cos(c.Yaw),
	}.Normalize()
}

// Position returns the camera's world position: the target backed off
// along the view direction by the orbit distance.
func (c *Camera) Position() Vec3 {
	return c.Target.Sub(c.Forward().Mul(c.Distance))
}

// Right returns the camera's unit right vector, perpendicular to the view
// direction and the world up axis.
func (c *Camera) Right() Vec3 {
	return WorldUp.Cross(c.Forward()).Normalize()
}

// Up returns the camera's unit up vector.
func (c *Camera) Up() Vec3 {
	return c.Forward().Cross(c.Right()).Normalize()
}

// FlatRight returns the camera's right vector flattened to the horizontal
// plane and renormalized. Dragging projects horizontal pointer motion along
// this vector so objects slide parallel to the ground regardless of pitch.
// Falls back to the world X axis if the camera looks straight down or up.
func (c *Camera) FlatRight() Vec3 {
	r := c.Right()
	r.Y = 0
	if r.LengthSq() == 0 {
		// Looking straight down or up: the right vector itself is
		// degenerate, so anchor the drag axis to world X.
		return Vec3{X: 1}
	}
	return r.Normalize()
}

// Ray returns the unit direction of the primary ray through pixel (x, y)
// of a width x height viewport. Pixel coordinates follow the usual raster
// convention: origin top-left, y increasing downward.
func (c *Camera) Ray(x, y float64, width, height int) Vec3 {
	fov := c.FOV
	if fov == 0 {
		fov = DefaultFOV
	}
	ndcX := 2.0*x/float64(width) - 1.0
	ndcY := 1.0 - 2.0*y/float64(height)
	aspect := float64(width) / float64(height)
	tanHalf := math.Tan(fov / 2)

	forward := c.Forward()
	right := c.Right()
	up := forward.Cross(right).Normalize()
	return forward.
		Add(right.Mul(ndcX * tanHalf * aspect)).
		Add(up.Mul(ndcY * tanHalf)).
		Normalize()
}
