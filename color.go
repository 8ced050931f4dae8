package march

import "math"

// RGB represents an opaque color with red, green, and blue components.
// Each component is in the range [0, 1]. Shading math may transiently
// produce values outside that range; they are clamped at pixel write time.
type RGB struct {
	R, G, B float64
}

// NewRGB creates a color from RGB components.
func NewRGB(r, g, b float64) RGB {
	return RGB{R: r, G: g, B: b}
}

// Add returns the component-wise sum of two colors.
func (c RGB) Add(d RGB) RGB {
	return RGB{R: c.R + d.R, G: c.G + d.G, B: c.B + d.B}
}

// Mul returns the color scaled by a scalar.
func (c RGB) Mul(s float64) RGB {
	return RGB{R: c.R * s, G: c.G * s, B: c.B * s}
}

// Lerp performs linear interpolation between two colors.
// t=0 returns c, t=1 returns d.
func (c RGB) Lerp(d RGB, t float64) RGB {
	return RGB{
		R: c.R + (d.R-c.R)*t,
		G: c.G + (d.G-c.G)*t,
		B: c.B + (d.B-c.B)*t,
	}
}

// Gamma applies gamma correction with the given exponent denominator:
// each channel becomes channel^(1/g). Channels are clamped to [0, 1] first
// so negative shading artifacts cannot produce NaN.
func (c RGB) Gamma(g float64) RGB {
	inv := 1.0 / g
	return RGB{
		R: math.Pow(clamp(c.R, 0, 1), inv),
		G: math.Pow(clamp(c.G, 0, 1), inv),
		B: math.Pow(clamp(c.B, 0, 1), inv),
	}
}

// clamp255 restricts a byte-scale channel value to [0, 255].
func clamp255(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}
