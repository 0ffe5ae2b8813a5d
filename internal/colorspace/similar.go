package colorspace

import (
	"math"
	"strings"
)

// Algorithm selects how IsSimilar measures the distance between two colors.
type Algorithm string

const (
	// AlgorithmDiff sums the absolute channel differences.
	AlgorithmDiff Algorithm = "diff"
	// AlgorithmRGB is the Euclidean distance in RGB space.
	AlgorithmRGB Algorithm = "rgb"
	// AlgorithmRGBWeighted is DeltaE over CIELAB.
	AlgorithmRGBWeighted Algorithm = "rgb_weighted"
	// AlgorithmHS is the Euclidean distance over normalized hue and saturation.
	AlgorithmHS Algorithm = "hs"
	// AlgorithmCIEDE2000 is the CIEDE2000 distance in conventional Lab units.
	AlgorithmCIEDE2000 Algorithm = "ciede2000"
)

// ParseAlgorithm normalizes an algorithm tag. The legacy spelling "rgb+" is
// accepted for AlgorithmRGBWeighted. Unknown tags are returned unchanged so
// that IsSimilar can reject them.
func ParseAlgorithm(s string) Algorithm {
	switch t := strings.ToLower(strings.TrimSpace(s)); t {
	case "rgb+", "rgb_weighted", "rgbweighted":
		return AlgorithmRGBWeighted
	case "":
		return AlgorithmDiff
	default:
		return Algorithm(t)
	}
}

// Distance returns the distance between c1 and c2 under algorithm. The
// second result is false for an unknown algorithm.
func Distance(c1, c2 RGB, algorithm Algorithm) (float64, bool) {
	switch algorithm {
	case AlgorithmDiff:
		return float64(absDiff(c1.R, c2.R) + absDiff(c1.G, c2.G) + absDiff(c1.B, c2.B)), true
	case AlgorithmRGB:
		dr := float64(absDiff(c1.R, c2.R))
		dg := float64(absDiff(c1.G, c2.G))
		db := float64(absDiff(c1.B, c2.B))
		return math.Sqrt(dr*dr + dg*dg + db*db), true
	case AlgorithmRGBWeighted:
		return DeltaE(RGBToLAB(c1), RGBToLAB(c2)), true
	case AlgorithmHS:
		hsv1, hsv2 := RGBToHSV(c1), RGBToHSV(c2)
		return math.Hypot(hsv1.H-hsv2.H, hsv1.S-hsv2.S), true
	case AlgorithmCIEDE2000:
		return c1.toColorful().DistanceCIEDE2000(c2.toColorful()) * 100, true
	default:
		return 0, false
	}
}

// IsSimilar reports whether the distance between c1 and c2 under algorithm
// is at most threshold. An unknown algorithm is never similar.
func IsSimilar(c1, c2 RGB, threshold float64, algorithm Algorithm) bool {
	d, ok := Distance(c1, c2, algorithm)
	if !ok {
		return false
	}
	return d <= threshold
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
