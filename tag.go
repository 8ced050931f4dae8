package march

import "math"

// PrimitiveKind identifies one of the three primitive types.
type PrimitiveKind int

const (
	KindSphere PrimitiveKind = iota
	KindBox
	KindTorus
)

// String returns the display name of the primitive kind.
func (k PrimitiveKind) String() string {
	switch k {
	case KindSphere:
		return "Sphere"
	case KindBox:
		return "Box"
	case KindTorus:
		return "Torus"
	}
	return "Unknown"
}

// MaterialTag identifies what a distance field sample belongs to: nothing,
// the ground plane, or a primitive slot. It is a proper sum type on the CPU
// side; the scalar banding used by the fixed-function GPU stage is available
// through Scalar and TagFromScalar.
type MaterialTag struct {
	kind tagKind
	prim PrimitiveKind
	slot int
}

type tagKind int

const (
	tagNone tagKind = iota
	tagPlane
	tagPrimitive
)

// TagNone is the tag of a miss: no surface at all.
var TagNone = MaterialTag{kind: tagNone}

// TagPlane is the tag of the hardcoded, non-selectable ground plane.
var TagPlane = MaterialTag{kind: tagPlane}

// TagPrimitive returns the tag for the given primitive slot.
func TagPrimitive(kind PrimitiveKind, slot int) MaterialTag {
	return MaterialTag{kind: tagPrimitive, prim: kind, slot: slot}
}

// IsNone reports whether the tag is the miss sentinel.
func (t MaterialTag) IsNone() bool { return t.kind == tagNone }

// IsPlane reports whether the tag is the ground plane.
func (t MaterialTag) IsPlane() bool { return t.kind == tagPlane }

// Primitive returns the (kind, slot) pair for a primitive tag.
// The second return is false for the none and plane tags.
func (t MaterialTag) Primitive() (PrimitiveKind, int, bool) {
	if t.kind != tagPrimitive {
		return 0, 0, false
	}
	return t.prim, t.slot, true
}

// Scalar material tag bands. The GPU shading stage returns a single float
// per sample, so each primitive type owns a contiguous numeric band wide
// enough for MaxSlots slots; the slot index is recovered by rounding.
// -1 is a miss and 0 is the ground plane, matching the HitResult sentinel.
const (
	tagScalarNone   = -1.0
	tagScalarPlane  = 0.0
	tagScalarSphere = 10.0
	tagScalarBox    = 20.0
	tagScalarTorus  = 30.0
)

// Scalar encodes the tag into the GPU band scheme.
func (t MaterialTag) Scalar() float64 {
	switch t.kind {
	case tagPlane:
		return tagScalarPlane
	case tagPrimitive:
		switch t.prim {
		case KindSphere:
			return tagScalarSphere + float64(t.slot)
		case KindBox:
			return tagScalarBox + float64(t.slot)
		case KindTorus:
			return tagScalarTorus + float64(t.slot)
		}
	}
	return tagScalarNone
}

// TagFromScalar decodes a scalar band value back into a tag, rounding to
// recover the slot index. Values outside every band decode to TagNone.
func TagFromScalar(v float64) MaterialTag {
	s := math.Round(v)
	switch {
	case s == tagScalarPlane:
		return TagPlane
	case s >= tagScalarSphere && s < tagScalarSphere+MaxSlots:
		return TagPrimitive(KindSphere, int(s-tagScalarSphere))
	case s >= tagScalarBox && s < tagScalarBox+MaxSlots:
		return TagPrimitive(KindBox, int(s-tagScalarBox))
	case s >= tagScalarTorus && s < tagScalarTorus+MaxSlots:
		return TagPrimitive(KindTorus, int(s-tagScalarTorus))
	}
	return TagNone
}

// ObjectID is the per-object identifier written by the picking pass.
// Zero is reserved for "no object / ground plane"; spheres occupy the band
// immediately above zero, then boxes, then tori, one value per slot
// regardless of how many slots are currently active.
type ObjectID uint8

// NoObject is the ObjectID of the background and the ground plane.
const NoObject ObjectID = 0

// EncodeID maps a (kind, slot) pair into its ObjectID band.
// The encoding is bijective over slot in [0, MaxSlots).
func EncodeID(kind PrimitiveKind, slot int) ObjectID {
	switch kind {
	case KindSphere:
		return ObjectID(1 + slot)
	case KindBox:
		return ObjectID(1 + MaxSlots + slot)
	case KindTorus:
		return ObjectID(1 + 2*MaxSlots + slot)
	}
	return NoObject
}

// DecodeID inverts EncodeID. The third return is false for NoObject and
// any value beyond the torus band.
func DecodeID(id ObjectID) (PrimitiveKind, int, bool) {
	switch {
	case id == NoObject || id > 3*MaxSlots:
		return 0, 0, false
	case id <= MaxSlots:
		return KindSphere, int(id - 1), true
	case id <= 2*MaxSlots:
		return KindBox, int(id - 1 - MaxSlots), true
	default:
		return KindTorus, int(id - 1 - 2*MaxSlots), true
	}
}

// DecodeIDChannel decodes an 8-bit color channel from the identifier pass.
// The pass stores id/255 in the channel; rounding (not flooring) avoids
// off-by-one misclassification from float quantization.
func DecodeIDChannel(channel float64) ObjectID {
	return ObjectID(math.Round(clamp(channel, 0, 1) * 255))
}
