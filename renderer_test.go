package march

import (
	"math"
	"testing"
)

func rendererFixture(t *testing.T) (*Scene, *Camera) {
	t.Helper()
	sc := NewScene()
	// A sphere dead ahead of the default camera pose.
	cam := NewCamera(5)
	cam.Yaw = math.Pi
	cam.Pitch = 0
	if _, err := sc.AddSphere(sphereAt(0, 0, -1, 1, RGB{R: 1})); err != nil {
		t.Fatalf("AddSphere() = %v", err)
	}
	return sc, cam
}

func TestRenderer_CenterPixelHitsSphere(t *testing.T) {
	sc, cam := rendererFixture(t)
	r := NewRenderer(sc, cam)

	pm := NewPixmap(64, 48)
	r.Render(pm)

	// The sphere is red-lit; the sky behind it is blue-dominant.
	center := pm.At(32, 24)
	if center.R <= center.B {
		t.Errorf("center pixel %+v not red-dominant, sphere missed", center)
	}
	corner := pm.At(0, 0)
	if corner.B <= corner.R {
		t.Errorf("corner pixel %+v not sky", corner)
	}
}

func TestRenderer_FogDensityApplied(t *testing.T) {
	// With overwhelming fog the red sphere at the center sinks into the
	// sky gradient instead of staying red dominant.
	sc, cam := rendererFixture(t)

	clear := NewRenderer(sc, cam)
	pm := NewPixmap(32, 24)
	clear.Render(pm)
	if c := pm.At(16, 12); c.R <= c.B {
		t.Fatalf("default fog: center %+v not red-dominant", c)
	}

	cfg := DefaultConfig()
	cfg.Fog.Density = 5
	foggy := NewRendererFromConfig(sc, cam, cfg)
	foggy.Render(pm)
	if c := pm.At(16, 12); c.R > c.B {
		t.Errorf("heavy fog: center %+v still red-dominant", c)
	}
}

func TestRenderer_RenderIDs(t *testing.T) {
	sc, cam := rendererFixture(t)
	r := NewRenderer(sc, cam)

	ids := NewIDMap(64, 48)
	r.RenderIDs(ids)

	if got, want := ids.At(32, 24), EncodeID(KindSphere, 0); got != want {
		t.Errorf("center id = %d, want %d", got, want)
	}
	if got := ids.At(0, 0); got != NoObject {
		t.Errorf("corner id = %d, want no object", got)
	}

	// The ground plane renders but carries no identifier. The bottom
	// edge looks steeply down and lands on the plane.
	if got := ids.At(32, 47); got != NoObject {
		t.Errorf("plane id = %d, want no object", got)
	}
}

func TestIDMap_Clamping(t *testing.T) {
	m := NewIDMap(4, 3)
	m.set(0, 0, 7)
	m.set(3, 2, 9)

	tests := []struct {
		name string
		x, y int
		want ObjectID
	}{
		{"in bounds", 0, 0, 7},
		{"negative clamps to origin", -5, -5, 7},
		{"overflow clamps to far corner", 100, 100, 9},
		{"x only out of range", 100, 2, 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.At(tt.x, tt.y); got != tt.want {
				t.Errorf("At(%d, %d) = %d, want %d", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestIDMap_IDAtNeverFails(t *testing.T) {
	m := NewIDMap(2, 2)
	id, err := m.IDAt(-1, 10)
	if err != nil {
		t.Fatalf("IDAt() = %v", err)
	}
	if id != NoObject {
		t.Errorf("IDAt() = %d on an empty map", id)
	}
}

func TestRenderer_MatchesSingleRay(t *testing.T) {
	// The parallel row renderer must agree with shading a ray directly.
	sc, cam := rendererFixture(t)
	r := NewRenderer(sc, cam)

	pm := NewPixmap(16, 16)
	r.Render(pm)

	snap := sc.Snapshot()
	field := NewField(snap)
	sh := NewShader(field)
	m := NewMarcher(field)

	x, y := 7, 7
	origin := cam.Position()
	dir := cam.Ray(float64(x)+0.5, float64(y)+0.5, 16, 16)
	hit := m.March(origin, dir)
	want := sh.Shade(hit, origin, dir)

	got := pm.At(x, y)
	// Pixmap storage quantizes to 8 bits.
	if !approx(got.R, clamp(want.R, 0, 1), 1.0/255) ||
		!approx(got.G, clamp(want.G, 0, 1), 1.0/255) ||
		!approx(got.B, clamp(want.B, 0, 1), 1.0/255) {
		t.Errorf("pixel (%d,%d) = %+v, want %+v", x, y, got, want)
	}
}
