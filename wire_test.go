package march

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

func TestSceneBufferSize(t *testing.T) {
	// 16-byte header plus a 64-byte record per slot for each kind.
	if want := 16 + 3*MaxSlots*64; SceneBufferSize != want {
		t.Errorf("SceneBufferSize = %d, want %d", SceneBufferSize, want)
	}
}

func wireSnapshot() *Snapshot {
	return &Snapshot{
		Spheres: []Sphere{
			{Center: V3(1, 2, 3), Radius: 0.5, Color: RGB{R: 1}, Blend: BlendSmoothUnion, K: 0.25},
			{Center: V3(-1, 0, 4), Radius: 1.5, Color: RGB{G: 0.5, B: 0.5}, Blend: BlendUnion},
		},
		Boxes: []Box{
			{Center: V3(0, 1, 6), Half: V3(0.5, 0.25, 0.75), Color: RGB{B: 1}, Blend: BlendSubtract, K: 0.1},
		},
		Tori: []Torus{
			{Center: V3(2, 0, 5), MajorR: 1, MinorR: 0.25, Color: RGB{R: 0.2, G: 0.8}, Blend: BlendIntersect, K: 0.5},
		},
		Propagation: PropagateNeighbors,
	}
}

func TestEncodeScene_Header(t *testing.T) {
	buf := EncodeScene(wireSnapshot())
	if len(buf) != SceneBufferSize {
		t.Fatalf("len(EncodeScene()) = %d, want %d", len(buf), SceneBufferSize)
	}
	le := binary.LittleEndian
	if got := le.Uint32(buf[0:]); got != 2 {
		t.Errorf("sphere count = %d, want 2", got)
	}
	if got := le.Uint32(buf[4:]); got != 1 {
		t.Errorf("box count = %d, want 1", got)
	}
	if got := le.Uint32(buf[8:]); got != 1 {
		t.Errorf("torus count = %d, want 1", got)
	}
	if got := le.Uint32(buf[12:]); got != uint32(PropagateNeighbors) {
		t.Errorf("propagation flag = %d, want %d", got, PropagateNeighbors)
	}
}

func TestEncodeScene_Deterministic(t *testing.T) {
	// Unused slots are zeroed, so two encodes of the same snapshot must
	// be byte-identical.
	a := EncodeScene(wireSnapshot())
	b := EncodeScene(wireSnapshot())
	if !bytes.Equal(a, b) {
		t.Error("EncodeScene() not deterministic for identical snapshots")
	}
}

func TestEncodeDecodeScene_RoundTrip(t *testing.T) {
	snap := wireSnapshot()
	got, err := DecodeScene(EncodeScene(snap))
	if err != nil {
		t.Fatalf("DecodeScene() = %v", err)
	}
	if got.Propagation != snap.Propagation {
		t.Errorf("Propagation = %v, want %v", got.Propagation, snap.Propagation)
	}
	if len(got.Spheres) != 2 || len(got.Boxes) != 1 || len(got.Tori) != 1 {
		t.Fatalf("counts = %d/%d/%d, want 2/1/1", len(got.Spheres), len(got.Boxes), len(got.Tori))
	}

	// Values survive the float32 narrowing exactly for these inputs.
	sp := got.Spheres[0]
	if !vecApprox(sp.Center, V3(1, 2, 3), 0) || sp.Radius != 0.5 {
		t.Errorf("sphere 0 = %+v", sp)
	}
	if sp.Blend != BlendSmoothUnion || sp.K != 0.25 || sp.Color.R != 1 {
		t.Errorf("sphere 0 blend/color = %+v", sp)
	}
	bx := got.Boxes[0]
	if !vecApprox(bx.Half, V3(0.5, 0.25, 0.75), 0) || bx.Blend != BlendSubtract {
		t.Errorf("box 0 = %+v", bx)
	}
	to := got.Tori[0]
	if to.MajorR != 1 || to.MinorR != 0.25 || to.Blend != BlendIntersect || to.K != 0.5 {
		t.Errorf("torus 0 = %+v", to)
	}
}

func TestDecodeScene_BadLength(t *testing.T) {
	for _, n := range []int{0, SceneBufferSize - 1, SceneBufferSize + 1} {
		if _, err := DecodeScene(make([]byte, n)); !errors.Is(err, ErrBadSceneBuffer) {
			t.Errorf("DecodeScene(len %d) = %v, want ErrBadSceneBuffer", n, err)
		}
	}
}

func TestDecodeScene_BadCounts(t *testing.T) {
	buf := EncodeScene(&Snapshot{})
	binary.LittleEndian.PutUint32(buf[0:], MaxSlots+1)
	if _, err := DecodeScene(buf); !errors.Is(err, ErrBadSceneBuffer) {
		t.Errorf("DecodeScene(oversized count) = %v, want ErrBadSceneBuffer", err)
	}
}

func TestEncodeScene_LiveSceneBytes(t *testing.T) {
	// A scene built through the mutation API encodes the same bytes as
	// its snapshot encoded directly.
	sc := NewScene()
	if _, err := sc.AddSphere(sphereAt(1, 2, 3, 0.5, RGB{R: 1})); err != nil {
		t.Fatalf("AddSphere() = %v", err)
	}
	snap := sc.Snapshot()
	if !bytes.Equal(EncodeScene(snap), EncodeScene(sc.Snapshot())) {
		t.Error("successive snapshots of an unchanged scene encode differently")
	}
}
