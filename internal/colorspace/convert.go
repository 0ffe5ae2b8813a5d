package colorspace

import "math"

// D65 reference white used to normalize CIEXYZ before the Lab transform.
const (
	whiteX = 0.95047
	whiteY = 1.00000
	whiteZ = 1.08883
)

// RGBToLAB converts an sRGB color to CIELAB under the D65 white point.
//
// The pipeline is:
//  1. Normalize each channel to [0,1]
//  2. Expand the sRGB gamma curve (linear segment up to 0.04045)
//  3. Apply the sRGB to CIEXYZ matrix and divide by the D65 white point
//  4. Apply the CIE cube-root curve (linear segment up to 0.008856)
//  5. L = 116y - 16, a = 500(x - y), b = 200(y - z)
//
// The result is fully deterministic: white maps to (100,0,0) and black to
// (0,0,0) up to floating point rounding.
func RGBToLAB(c RGB) LAB {
	r, g, b := c.toColorful().LinearRgb()

	x := (r*0.4124 + g*0.3576 + b*0.1805) / whiteX
	y := (r*0.2126 + g*0.7152 + b*0.0722) / whiteY
	z := (r*0.0193 + g*0.1192 + b*0.9505) / whiteZ

	x, y, z = labCurve(x), labCurve(y), labCurve(z)

	return LAB{
		L: 116*y - 16,
		A: 500 * (x - y),
		B: 200 * (y - z),
	}
}

func labCurve(t float64) float64 {
	if t > 0.008856 {
		return math.Cbrt(t)
	}
	return 7.787*t + 16.0/116.0
}

// RGBToHSV converts c to HSV with hue normalized to [0,1).
//
// Achromatic colors report a hue of 0. Saturation is chroma divided by the
// maximum component, or 0 for black.
func RGBToHSV(c RGB) HSV {
	h, s, v := c.toColorful().Hsv()
	return HSV{H: h / 360.0, S: s, V: v}
}

// Delta-E weighting constants.
const (
	deltaEK1 = 0.045
	deltaEK2 = 0.015
)

// DeltaE returns the weighted perceptual distance between two Lab colors.
//
// The metric combines lightness, chroma and hue differences. Lightness and
// chroma weights are corrected for dark (L < 16) and low-chroma (C < 16)
// reference colors; the hue weight grows with the hue difference itself.
// The reference color is lab1, so the function is not symmetric.
func DeltaE(lab1, lab2 LAB) float64 {
	c1 := math.Hypot(lab1.A, lab1.B)
	c2 := math.Hypot(lab2.A, lab2.B)
	dC := c1 - c2
	dL := lab1.L - lab2.L
	da := lab1.A - lab2.A
	db := lab1.B - lab2.B

	// Rounding can push the radicand slightly below zero for near-identical
	// hues.
	dH := math.Sqrt(math.Max(0, da*da+db*db-dC*dC))

	sl, kc, kh := 1.0, 1.0, 1.0
	if lab1.L < 16 {
		sl = deltaEK1 * (lab1.L - 16) * (lab1.L - 16) / 100
	}
	if c1 < 16 {
		kc = deltaEK1*c1*c1/100 + 1
	}
	if dH < 180 {
		kh = deltaEK2*dH*dH/100 + 1
	}

	l := dL / (sl * deltaEK1)
	ch := dC / (kc * kc)
	hu := dH / (kh * kh)
	return math.Sqrt(l*l + ch*ch + hu*hu)
}
