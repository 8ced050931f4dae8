package march

import (
	"math"
	"testing"
)

func approx(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func vecApprox(a, b Vec3, eps float64) bool {
	return approx(a.X, b.X, eps) && approx(a.Y, b.Y, eps) && approx(a.Z, b.Z, eps)
}

func TestVec3_Arithmetic(t *testing.T) {
	tests := []struct {
		name string
		got  Vec3
		want Vec3
	}{
		{"add", V3(1, 2, 3).Add(V3(4, 5, 6)), V3(5, 7, 9)},
		{"sub", V3(4, 5, 6).Sub(V3(1, 2, 3)), V3(3, 3, 3)},
		{"mul", V3(1, -2, 3).Mul(2), V3(2, -4, 6)},
		{"neg", V3(1, -2, 3).Neg(), V3(-1, 2, -3)},
		{"abs", V3(-1, 2, -3).Abs(), V3(1, 2, 3)},
		{"max", V3(-1, 2, -3).Max(0), V3(0, 2, 0)},
		{"cross", V3(1, 0, 0).Cross(V3(0, 1, 0)), V3(0, 0, 1)},
		{"lerp", V3(0, 0, 0).Lerp(V3(2, 4, 6), 0.5), V3(1, 2, 3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !vecApprox(tt.got, tt.want, 1e-12) {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}

func TestVec3_DotLength(t *testing.T) {
	v := V3(3, 4, 0)
	if got := v.Length(); !approx(got, 5, 1e-12) {
		t.Errorf("Length() = %v, want 5", got)
	}
	if got := v.LengthSq(); !approx(got, 25, 1e-12) {
		t.Errorf("LengthSq() = %v, want 25", got)
	}
	if got := v.Dot(V3(1, 0, 0)); !approx(got, 3, 1e-12) {
		t.Errorf("Dot() = %v, want 3", got)
	}
}

func TestVec3_Normalize(t *testing.T) {
	n := V3(0, 0, 7).Normalize()
	if !vecApprox(n, V3(0, 0, 1), 1e-12) {
		t.Errorf("Normalize() = %v, want (0,0,1)", n)
	}
	// A zero vector must not produce NaN.
	z := V3(0, 0, 0).Normalize()
	if math.IsNaN(z.X) || math.IsNaN(z.Y) || math.IsNaN(z.Z) {
		t.Errorf("Normalize() of zero vector = %v, want finite", z)
	}
}

func TestVec3_MaxComponent(t *testing.T) {
	tests := []struct {
		v    Vec3
		want float64
	}{
		{V3(1, 2, 3), 3},
		{V3(5, -2, 3), 5},
		{V3(-5, -2, -3), -2},
	}
	for _, tt := range tests {
		if got := tt.v.MaxComponent(); got != tt.want {
			t.Errorf("%v.MaxComponent() = %v, want %v", tt.v, got, tt.want)
		}
	}
}

func TestClampMix(t *testing.T) {
	if got := clamp(1.5, 0, 1); got != 1 {
		t.Errorf("clamp(1.5, 0, 1) = %v, want 1", got)
	}
	if got := clamp(-0.5, 0, 1); got != 0 {
		t.Errorf("clamp(-0.5, 0, 1) = %v, want 0", got)
	}
	if got := mix(2, 4, 0.5); got != 3 {
		t.Errorf("mix(2, 4, 0.5) = %v, want 3", got)
	}
}
