package march

import "testing"

func TestEncodeDecodeID_RoundTrip(t *testing.T) {
	for _, kind := range []PrimitiveKind{KindSphere, KindBox, KindTorus} {
		for slot := 0; slot < MaxSlots; slot++ {
			id := EncodeID(kind, slot)
			if id == NoObject {
				t.Fatalf("EncodeID(%v, %d) = NoObject", kind, slot)
			}
			gk, gs, ok := DecodeID(id)
			if !ok || gk != kind || gs != slot {
				t.Errorf("DecodeID(EncodeID(%v, %d)) = (%v, %d, %v)", kind, slot, gk, gs, ok)
			}
		}
	}
}

func TestDecodeID_Sentinels(t *testing.T) {
	if _, _, ok := DecodeID(NoObject); ok {
		t.Error("DecodeID(NoObject) should not decode")
	}
	if _, _, ok := DecodeID(ObjectID(3*MaxSlots + 1)); ok {
		t.Error("DecodeID beyond the torus band should not decode")
	}
}

func TestEncodeID_SphereSlotZeroIsOne(t *testing.T) {
	// The first sphere must encode as index+1 so that 0 stays reserved.
	if got := EncodeID(KindSphere, 0); got != 1 {
		t.Errorf("EncodeID(KindSphere, 0) = %d, want 1", got)
	}
}

func TestMaterialTag_ScalarRoundTrip(t *testing.T) {
	tags := []MaterialTag{TagNone, TagPlane}
	for _, kind := range []PrimitiveKind{KindSphere, KindBox, KindTorus} {
		for slot := 0; slot < MaxSlots; slot++ {
			tags = append(tags, TagPrimitive(kind, slot))
		}
	}
	for _, tag := range tags {
		if got := TagFromScalar(tag.Scalar()); got != tag {
			t.Errorf("TagFromScalar(%v.Scalar()) = %v", tag, got)
		}
	}
}

func TestTagFromScalar_Noise(t *testing.T) {
	// Slightly perturbed values must still land in the right slot.
	tag := TagFromScalar(tagScalarBox + 3 + 0.3)
	kind, slot, ok := tag.Primitive()
	if !ok || kind != KindBox || slot != 3 {
		t.Errorf("TagFromScalar(23.3) = (%v, %d, %v), want box slot 3", kind, slot, ok)
	}
	// Out-of-band values decode to none.
	if !TagFromScalar(55).IsNone() {
		t.Error("TagFromScalar(55) should be TagNone")
	}
	if !TagFromScalar(-1).IsNone() {
		t.Error("TagFromScalar(-1) should be TagNone")
	}
}

func TestDecodeIDChannel(t *testing.T) {
	tests := []struct {
		channel float64
		want    ObjectID
	}{
		{0, NoObject},
		{1.0 / 255.0, 1},
		{10.0 / 255.0, 10},
		{10.4 / 255.0, 10}, // quantization noise rounds, not floors
		{-0.5, NoObject},   // clamped
		{2.0, 255},         // clamped
	}
	for _, tt := range tests {
		if got := DecodeIDChannel(tt.channel); got != tt.want {
			t.Errorf("DecodeIDChannel(%v) = %d, want %d", tt.channel, got, tt.want)
		}
	}
}
