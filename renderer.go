package march

import (
	"runtime"
	"sync"
)

// IDMap is a per-pixel object identifier buffer: the CPU-side equivalent
// of the offscreen identifier pass.
type IDMap struct {
	width  int
	height int
	ids    []ObjectID
}

// NewIDMap creates an identifier buffer with the given dimensions.
func NewIDMap(width, height int) *IDMap {
	return &IDMap{width: width, height: height, ids: make([]ObjectID, width*height)}
}

// Width returns the buffer width in pixels.
func (m *IDMap) Width() int { return m.width }

// Height returns the buffer height in pixels.
func (m *IDMap) Height() int { return m.height }

// At returns the identifier under the given pixel. Coordinates are
// clamped into bounds rather than erroring, matching the readback policy
// of the GPU pass.
func (m *IDMap) At(x, y int) ObjectID {
	x = clampInt(x, 0, m.width-1)
	y = clampInt(y, 0, m.height-1)
	return m.ids[y*m.width+x]
}

func (m *IDMap) set(x, y int, id ObjectID) {
	m.ids[y*m.width+x] = id
}

func clampInt(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Renderer renders shaded frames and identifier frames on the CPU. It is
// the reference implementation of the marching and shading pipeline and
// the fallback when no GPU adapter is available.
//
// Pixels have no ordering dependency, so rows are split into bands and
// rendered on one goroutine per CPU.
type Renderer struct {
	scene  *Scene
	camera *Camera

	// LightPos and FogDensity are copied onto the per-band shaders each
	// frame, so they may be adjusted between frames.
	LightPos   Vec3
	FogDensity float64
}

// NewRenderer creates a renderer over the given scene and camera with the
// default shading parameters.
func NewRenderer(scene *Scene, camera *Camera) *Renderer {
	return &Renderer{
		scene:      scene,
		camera:     camera,
		LightPos:   defaultLightPos,
		FogDensity: defaultFogDensity,
	}
}

// Render marches and shades every pixel of the viewport into target.
// The scene is snapshotted once at the start: edits applied while the
// frame is in flight take effect next frame.
func (r *Renderer) Render(target *Pixmap) {
	snap := r.scene.Snapshot()
	origin := r.camera.Position()
	w, h := target.Width(), target.Height()

	parallelRows(h, func(y0, y1 int) {
		field := NewField(snap)
		shader := NewShader(field)
		shader.LightPos = r.LightPos
		shader.FogDensity = r.FogDensity
		marcher := NewMarcher(field)
		for y := y0; y < y1; y++ {
			for x := 0; x < w; x++ {
				dir := r.camera.Ray(float64(x)+0.5, float64(y)+0.5, w, h)
				hit := marcher.March(origin, dir)
				target.SetRGB(x, y, shader.Shade(hit, origin, dir))
			}
		}
	})
}

// RenderIDs marches every pixel with the reduced step budget and records
// the flat object identifier instead of a shaded color. The ground plane
// and misses record NoObject.
func (r *Renderer) RenderIDs(target *IDMap) {
	snap := r.scene.Snapshot()
	origin := r.camera.Position()
	w, h := target.Width(), target.Height()

	parallelRows(h, func(y0, y1 int) {
		field := NewField(snap)
		marcher := NewPickMarcher(field)
		for y := y0; y < y1; y++ {
			for x := 0; x < w; x++ {
				dir := r.camera.Ray(float64(x)+0.5, float64(y)+0.5, w, h)
				hit := marcher.March(origin, dir)
				target.set(x, y, idForHit(hit))
			}
		}
	})
}

// idForHit flattens a hit into the identifier band scheme.
func idForHit(hit HitResult) ObjectID {
	if !hit.Hit() {
		return NoObject
	}
	kind, slot, ok := hit.Tag.Primitive()
	if !ok {
		return NoObject // plane is never pickable
	}
	return EncodeID(kind, slot)
}

// parallelRows splits height rows into one band per CPU and runs fn on
// each band concurrently.
func parallelRows(height int, fn func(y0, y1 int)) {
	bands := runtime.NumCPU()
	if bands > height {
		bands = height
	}
	if bands < 1 {
		bands = 1
	}
	rowsPer := height / bands

	var wg sync.WaitGroup
	for b := 0; b < bands; b++ {
		y0 := b * rowsPer
		y1 := y0 + rowsPer
		if b == bands-1 {
			y1 = height
		}
		wg.Add(1)
		go func(y0, y1 int) {
			defer wg.Done()
			fn(y0, y1)
		}(y0, y1)
	}
	wg.Wait()
}
