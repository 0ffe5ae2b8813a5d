package colorspace

import (
	"math/rand"
	"testing"
)

var allAlgorithms = []Algorithm{
	AlgorithmDiff,
	AlgorithmRGB,
	AlgorithmRGBWeighted,
	AlgorithmHS,
	AlgorithmCIEDE2000,
}

func TestIsSimilar_Identity(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	colors := []RGB{{0, 0, 0}, {255, 255, 255}, {255, 0, 0}, {1, 2, 3}}
	for i := 0; i < 200; i++ {
		colors = append(colors, RGB{uint8(rng.Intn(256)), uint8(rng.Intn(256)), uint8(rng.Intn(256))})
	}

	for _, algo := range allAlgorithms {
		for _, c := range colors {
			for _, threshold := range []float64{0, 0.5, 4, 100} {
				if !IsSimilar(c, c, threshold, algo) {
					t.Fatalf("IsSimilar(%v, %v, %v, %s) = false", c, c, threshold, algo)
				}
			}
		}
	}
}

func TestIsSimilar_Diff(t *testing.T) {
	a := RGB{100, 100, 100}
	b := RGB{101, 102, 103} // L1 distance 6

	if !IsSimilar(a, b, 6, AlgorithmDiff) {
		t.Error("distance 6 should match at threshold 6")
	}
	if IsSimilar(a, b, 5, AlgorithmDiff) {
		t.Error("distance 6 should not match at threshold 5")
	}
}

func TestIsSimilar_RGB(t *testing.T) {
	a := RGB{0, 0, 0}
	b := RGB{3, 4, 0} // Euclidean distance 5

	if !IsSimilar(a, b, 5, AlgorithmRGB) {
		t.Error("distance 5 should match at threshold 5")
	}
	if IsSimilar(a, b, 4.99, AlgorithmRGB) {
		t.Error("distance 5 should not match at threshold 4.99")
	}
}

func TestIsSimilar_HSIgnoresValue(t *testing.T) {
	bright := RGB{200, 100, 50}
	dark := RGB{100, 50, 25} // same hue and saturation, half the value

	if !IsSimilar(bright, dark, 1e-9, AlgorithmHS) {
		t.Error("hs should ignore brightness")
	}
	if IsSimilar(bright, dark, 4, AlgorithmDiff) {
		t.Error("diff should see the brightness change")
	}
}

func TestIsSimilar_UnknownAlgorithm(t *testing.T) {
	c := RGB{10, 20, 30}
	if IsSimilar(c, c, 1000, Algorithm("lab")) {
		t.Error("unknown algorithm should never match")
	}
}

func TestParseAlgorithm(t *testing.T) {
	tests := []struct {
		input string
		want  Algorithm
	}{
		{"diff", AlgorithmDiff},
		{"", AlgorithmDiff},
		{"RGB", AlgorithmRGB},
		{"rgb+", AlgorithmRGBWeighted},
		{"rgb_weighted", AlgorithmRGBWeighted},
		{" hs ", AlgorithmHS},
		{"ciede2000", AlgorithmCIEDE2000},
		{"nope", Algorithm("nope")},
	}
	for _, tt := range tests {
		if got := ParseAlgorithm(tt.input); got != tt.want {
			t.Errorf("ParseAlgorithm(%q): got %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestDistance_CIEDE2000Scale(t *testing.T) {
	d, ok := Distance(RGB{0, 0, 0}, RGB{255, 255, 255}, AlgorithmCIEDE2000)
	if !ok {
		t.Fatal("ciede2000 should be a known algorithm")
	}
	// Black to white is 100 units in CIEDE2000.
	if d < 99 || d > 101 {
		t.Errorf("black/white CIEDE2000 distance: got %v, want ~100", d)
	}
}
