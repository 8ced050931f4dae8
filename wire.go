package march

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Packed scene layout, shared with the WGSL shaders. The buffer is a
// 16-byte header of u32 counts followed by a fixed record per slot,
// spheres first, then boxes, then tori. Every record is four vec4f
// (64 bytes) so the std140 rules cannot introduce padding surprises:
//
//	v0: center.xyz, param0 (sphere radius / torus major radius)
//	v1: extra.xyz  (box half extents; torus minor radius in .x), 0
//	v2: color.rgb, blend mode
//	v3: blend strength k, 0, 0, 0
const (
	sceneHeaderSize = 16
	sceneRecordSize = 64

	// SceneBufferSize is the total byte length of a packed scene.
	SceneBufferSize = sceneHeaderSize + 3*MaxSlots*sceneRecordSize
)

// ErrBadSceneBuffer reports a packed scene that cannot be decoded.
var ErrBadSceneBuffer = fmt.Errorf("march: malformed scene buffer")

// EncodeScene packs a snapshot into the byte layout the shaders read.
// Unused slots are zeroed, so encoding is a pure function of the
// snapshot and byte-for-byte reproducible.
func EncodeScene(snap *Snapshot) []byte {
	buf := make([]byte, SceneBufferSize)
	le := binary.LittleEndian

	le.PutUint32(buf[0:], uint32(len(snap.Spheres)))
	le.PutUint32(buf[4:], uint32(len(snap.Boxes)))
	le.PutUint32(buf[8:], uint32(len(snap.Tori)))
	le.PutUint32(buf[12:], uint32(snap.Propagation))

	rec := func(kind, slot int) []byte {
		off := sceneHeaderSize + (kind*MaxSlots+slot)*sceneRecordSize
		return buf[off : off+sceneRecordSize]
	}

	for i, sp := range snap.Spheres {
		b := rec(0, i)
		putVec4(b[0:], sp.Center.X, sp.Center.Y, sp.Center.Z, sp.Radius)
		putVec4(b[16:], 0, 0, 0, 0)
		putVec4(b[32:], sp.Color.R, sp.Color.G, sp.Color.B, float64(sp.Blend))
		putVec4(b[48:], sp.K, 0, 0, 0)
	}
	for i, bx := range snap.Boxes {
		b := rec(1, i)
		putVec4(b[0:], bx.Center.X, bx.Center.Y, bx.Center.Z, 0)
		putVec4(b[16:], bx.Half.X, bx.Half.Y, bx.Half.Z, 0)
		putVec4(b[32:], bx.Color.R, bx.Color.G, bx.Color.B, float64(bx.Blend))
		putVec4(b[48:], bx.K, 0, 0, 0)
	}
	for i, to := range snap.Tori {
		b := rec(2, i)
		putVec4(b[0:], to.Center.X, to.Center.Y, to.Center.Z, to.MajorR)
		putVec4(b[16:], to.MinorR, 0, 0, 0)
		putVec4(b[32:], to.Color.R, to.Color.G, to.Color.B, float64(to.Blend))
		putVec4(b[48:], to.K, 0, 0, 0)
	}
	return buf
}

// DecodeScene unpacks a scene buffer back into a snapshot. Used by
// tests and debug tooling; the shaders consume the bytes directly.
func DecodeScene(buf []byte) (*Snapshot, error) {
	if len(buf) != SceneBufferSize {
		return nil, fmt.Errorf("%w: length %d, want %d", ErrBadSceneBuffer, len(buf), SceneBufferSize)
	}
	le := binary.LittleEndian

	ns := int(le.Uint32(buf[0:]))
	nb := int(le.Uint32(buf[4:]))
	nt := int(le.Uint32(buf[8:]))
	if ns > MaxSlots || nb > MaxSlots || nt > MaxSlots {
		return nil, fmt.Errorf("%w: counts %d/%d/%d exceed capacity %d", ErrBadSceneBuffer, ns, nb, nt, MaxSlots)
	}
	snap := &Snapshot{Propagation: SmoothPropagation(le.Uint32(buf[12:]))}

	rec := func(kind, slot int) []byte {
		off := sceneHeaderSize + (kind*MaxSlots+slot)*sceneRecordSize
		return buf[off : off+sceneRecordSize]
	}

	for i := 0; i < ns; i++ {
		b := rec(0, i)
		cx, cy, cz, radius := getVec4(b[0:])
		r, g, bl, mode := getVec4(b[32:])
		k, _, _, _ := getVec4(b[48:])
		snap.Spheres = append(snap.Spheres, Sphere{
			Center: Vec3{X: cx, Y: cy, Z: cz},
			Radius: radius,
			Color:  RGB{R: r, G: g, B: bl},
			Blend:  BlendMode(math.Round(mode)),
			K:      k,
		})
	}
	for i := 0; i < nb; i++ {
		b := rec(1, i)
		cx, cy, cz, _ := getVec4(b[0:])
		hx, hy, hz, _ := getVec4(b[16:])
		r, g, bl, mode := getVec4(b[32:])
		k, _, _, _ := getVec4(b[48:])
		snap.Boxes = append(snap.Boxes, Box{
			Center: Vec3{X: cx, Y: cy, Z: cz},
			Half:   Vec3{X: hx, Y: hy, Z: hz},
			Color:  RGB{R: r, G: g, B: bl},
			Blend:  BlendMode(math.Round(mode)),
			K:      k,
		})
	}
	for i := 0; i < nt; i++ {
		b := rec(2, i)
		cx, cy, cz, major := getVec4(b[0:])
		minor, _, _, _ := getVec4(b[16:])
		r, g, bl, mode := getVec4(b[32:])
		k, _, _, _ := getVec4(b[48:])
		snap.Tori = append(snap.Tori, Torus{
			Center: Vec3{X: cx, Y: cy, Z: cz},
			MajorR: major,
			MinorR: minor,
			Color:  RGB{R: r, G: g, B: bl},
			Blend:  BlendMode(math.Round(mode)),
			K:      k,
		})
	}
	return snap, nil
}

func putVec4(b []byte, x, y, z, w float64) {
	le := binary.LittleEndian
	le.PutUint32(b[0:], math.Float32bits(float32(x)))
	le.PutUint32(b[4:], math.Float32bits(float32(y)))
	le.PutUint32(b[8:], math.Float32bits(float32(z)))
	le.PutUint32(b[12:], math.Float32bits(float32(w)))
}

func getVec4(b []byte) (x, y, z, w float64) {
	le := binary.LittleEndian
	x = float64(math.Float32frombits(le.Uint32(b[0:])))
	y = float64(math.Float32frombits(le.Uint32(b[4:])))
	z = float64(math.Float32frombits(le.Uint32(b[8:])))
	w = float64(math.Float32frombits(le.Uint32(b[12:])))
	return
}
