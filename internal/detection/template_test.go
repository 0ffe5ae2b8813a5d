package detection

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"math/rand"
	"testing"

	"github.com/ironsheep/visual-match/internal/imaging"
)

// noiseImage creates an opaque image of random colors.
func noiseImage(width, height int, seed int64) *image.RGBA {
	rng := rand.New(rand.NewSource(seed))
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, color.RGBA{uint8(rng.Intn(256)), uint8(rng.Intn(256)), uint8(rng.Intn(256)), 255})
		}
	}
	return img
}

// embed copies src into dst with its top-left corner at (x, y).
func embed(dst *image.RGBA, src image.Image, x, y int) {
	b := src.Bounds()
	draw.Draw(dst, image.Rect(x, y, x+b.Dx(), y+b.Dy()), src, b.Min, draw.Src)
}

// upscale2x doubles an image by repeating every pixel as a 2x2 block.
func upscale2x(src image.Image) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*2, b.Dy()*2))
	for y := 0; y < b.Dy()*2; y++ {
		for x := 0; x < b.Dx()*2; x++ {
			dst.Set(x, y, src.At(b.Min.X+x/2, b.Min.Y+y/2))
		}
	}
	return dst
}

func intPtr(v int) *int { return &v }

func TestSelectPyramidLevel(t *testing.T) {
	tests := []struct {
		name           string
		sw, sh, tw, th int
		want           int
	}{
		{"small template", 800, 600, 20, 20, 0},
		{"just under 32", 800, 600, 31, 100, 0},
		{"exactly 32", 800, 600, 32, 32, 1},
		{"48 rounds down", 800, 600, 48, 64, 1},
		{"64", 800, 600, 64, 64, 2},
		{"region limits", 40, 600, 200, 200, 1},
		{"capped", 8192, 8192, 4096, 4096, MaxPyramidLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SelectPyramidLevel(tt.sw, tt.sh, tt.tw, tt.th); got != tt.want {
				t.Errorf("SelectPyramidLevel: got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMatchBest_EmbeddedTemplate(t *testing.T) {
	canvas := noiseImage(120, 100, 1)
	tmpl := noiseImage(40, 30, 2)
	embed(canvas, tmpl, 37, 21)

	m, ok, err := MatchBest(canvas, tmpl, MatchOptions{Threshold: 0.9})
	if err != nil {
		t.Fatalf("MatchBest failed: %v", err)
	}
	if !ok {
		t.Fatal("MatchBest found no match")
	}
	if m.Rect != (imaging.Rect{X: 37, Y: 21, W: 40, H: 30}) {
		t.Errorf("Rect: got %v, want (37,21 40x30)", m.Rect)
	}
	if m.Score < 0.99 {
		t.Errorf("Score: got %v, want ~1", m.Score)
	}
}

func TestMatchBest_ScaledWithExtraLevel(t *testing.T) {
	canvas := noiseImage(120, 100, 3)
	tmpl := noiseImage(40, 30, 4)
	embed(canvas, tmpl, 37, 21)

	m, ok, err := MatchBest(canvas, tmpl, MatchOptions{Threshold: 0.9, Level: intPtr(0)})
	if err != nil || !ok {
		t.Fatalf("MatchBest at 1x: ok=%v err=%v", ok, err)
	}

	m2, ok, err := MatchBest(upscale2x(canvas), upscale2x(tmpl), MatchOptions{Threshold: 0.9, Level: intPtr(1)})
	if err != nil || !ok {
		t.Fatalf("MatchBest at 2x: ok=%v err=%v", ok, err)
	}

	if m2.Rect.X != m.Rect.X*2 || m2.Rect.Y != m.Rect.Y*2 {
		t.Errorf("2x location: got (%d,%d), want (%d,%d)", m2.Rect.X, m2.Rect.Y, m.Rect.X*2, m.Rect.Y*2)
	}
}

func TestMatchBest_EarlyStopAtCoarseLevel(t *testing.T) {
	canvas := noiseImage(200, 160, 5)
	tmpl := noiseImage(64, 48, 6)
	embed(canvas, tmpl, 52, 36)

	m, ok, err := MatchBest(canvas, tmpl, MatchOptions{Threshold: 0.9})
	if err != nil || !ok {
		t.Fatalf("MatchBest: ok=%v err=%v", ok, err)
	}
	if m.Level != 1 {
		t.Errorf("Level: got %d, want 1 (first qualifying coarse level)", m.Level)
	}
	if m.Rect.X != 52 || m.Rect.Y != 36 {
		t.Errorf("location: got (%d,%d), want (52,36)", m.Rect.X, m.Rect.Y)
	}
}

func TestMatchBest_Strategies(t *testing.T) {
	canvas := noiseImage(200, 160, 7)
	tmpl := noiseImage(64, 48, 8)
	// Odd offset: the coarse level is misaligned and only level 0 qualifies.
	embed(canvas, tmpl, 53, 37)

	for _, s := range []Strategy{StrategyEarlyStop, StrategyBestLevel} {
		t.Run(s.String(), func(t *testing.T) {
			m, ok, err := MatchBest(canvas, tmpl, MatchOptions{Threshold: 0.9, Strategy: s})
			if err != nil || !ok {
				t.Fatalf("MatchBest: ok=%v err=%v", ok, err)
			}
			if m.Rect.X != 53 || m.Rect.Y != 37 {
				t.Errorf("location: got (%d,%d), want (53,37)", m.Rect.X, m.Rect.Y)
			}
		})
	}
}

func TestMatchBest_NilRegionEqualsFullRegion(t *testing.T) {
	canvas := noiseImage(90, 70, 9)
	tmpl := noiseImage(20, 15, 10)
	embed(canvas, tmpl, 11, 44)

	a, okA, errA := MatchBest(canvas, tmpl, MatchOptions{Threshold: 0.9})
	full := imaging.RectOf(canvas)
	b, okB, errB := MatchBest(canvas, tmpl, MatchOptions{Threshold: 0.9, Region: &full})

	if errA != nil || errB != nil {
		t.Fatalf("errors: %v, %v", errA, errB)
	}
	if okA != okB || a != b {
		t.Errorf("nil region %+v (ok=%v) differs from full region %+v (ok=%v)", a, okA, b, okB)
	}
}

func TestMatchBest_Region(t *testing.T) {
	canvas := noiseImage(120, 100, 11)
	tmpl := noiseImage(20, 20, 12)
	embed(canvas, tmpl, 70, 50)

	m, ok, err := MatchBest(canvas, tmpl, MatchOptions{Threshold: 0.9, Region: &imaging.Rect{X: 60, Y: 40, W: 40, H: 40}})
	if err != nil || !ok {
		t.Fatalf("MatchBest in region: ok=%v err=%v", ok, err)
	}
	if m.Rect.X != 70 || m.Rect.Y != 50 {
		t.Errorf("location: got (%d,%d), want image coordinates (70,50)", m.Rect.X, m.Rect.Y)
	}

	_, ok, err = MatchBest(canvas, tmpl, MatchOptions{Threshold: 0.9, Region: &imaging.Rect{X: 0, Y: 0, W: 50, H: 50}})
	if err != nil {
		t.Fatalf("MatchBest outside target: %v", err)
	}
	if ok {
		t.Error("MatchBest found the template in a region that does not contain it")
	}
}

func TestMatchBest_Errors(t *testing.T) {
	canvas := noiseImage(50, 50, 13)
	tmpl := noiseImage(10, 10, 14)

	_, _, err := MatchBest(canvas, tmpl, MatchOptions{Region: &imaging.Rect{X: 45, Y: 0, W: 10, H: 10}})
	if !errors.Is(err, imaging.ErrOutOfBounds) {
		t.Errorf("region outside image: got %v, want ErrOutOfBounds", err)
	}

	_, _, err = MatchBest(image.NewGray(image.Rect(0, 0, 50, 50)), tmpl, MatchOptions{})
	if !errors.Is(err, imaging.ErrUnsupportedFormat) {
		t.Errorf("gray search image: got %v, want ErrUnsupportedFormat", err)
	}

	_, _, err = MatchBest(canvas, tmpl, MatchOptions{Level: intPtr(7)})
	if !errors.Is(err, ErrInvalidLevel) {
		t.Errorf("level 7: got %v, want ErrInvalidLevel", err)
	}
}

func TestMatchBest_TemplateLargerThanRegion(t *testing.T) {
	canvas := noiseImage(30, 30, 15)
	tmpl := noiseImage(40, 10, 16)

	_, ok, err := MatchBest(canvas, tmpl, MatchOptions{Threshold: 0.5})
	if err != nil {
		t.Fatalf("oversized template should not be an error: %v", err)
	}
	if ok {
		t.Error("oversized template should not match")
	}
}

func TestMatchBest_MaskedTemplate(t *testing.T) {
	canvas := noiseImage(100, 80, 17)
	inner := noiseImage(24, 18, 18)
	embed(canvas, inner, 40, 30)

	// Template: the inner patch surrounded by a transparent 4px frame of
	// garbage that must not take part in the correlation.
	tmpl := image.NewNRGBA(image.Rect(0, 0, 32, 26))
	for y := 0; y < 26; y++ {
		for x := 0; x < 32; x++ {
			tmpl.Set(x, y, color.NRGBA{255, 255, 255, 0})
		}
	}
	for y := 0; y < 18; y++ {
		for x := 0; x < 24; x++ {
			c := inner.RGBAAt(x, y)
			tmpl.Set(x+4, y+4, color.NRGBA{c.R, c.G, c.B, 255})
		}
	}

	m, ok, err := MatchBest(canvas, tmpl, MatchOptions{Threshold: 0.9, Level: intPtr(0)})
	if err != nil || !ok {
		t.Fatalf("MatchBest masked: ok=%v err=%v", ok, err)
	}
	if m.Rect.X != 36 || m.Rect.Y != 26 {
		t.Errorf("location: got (%d,%d), want (36,26)", m.Rect.X, m.Rect.Y)
	}
}

func TestMatchBest_FlatTemplate(t *testing.T) {
	canvas := noiseImage(60, 60, 19)
	gray := color.RGBA{128, 128, 128, 255}
	draw.Draw(canvas, image.Rect(20, 25, 32, 37), &image.Uniform{gray}, image.Point{}, draw.Src)

	tmpl := image.NewRGBA(image.Rect(0, 0, 10, 10))
	draw.Draw(tmpl, tmpl.Bounds(), &image.Uniform{gray}, image.Point{}, draw.Src)

	m, ok, err := MatchBest(canvas, tmpl, MatchOptions{Threshold: 0.9})
	if err != nil || !ok {
		t.Fatalf("MatchBest flat: ok=%v err=%v", ok, err)
	}
	if m.Rect.X != 20 || m.Rect.Y != 25 {
		t.Errorf("location: got (%d,%d), want first flat window (20,25)", m.Rect.X, m.Rect.Y)
	}
}

func TestMatchAll(t *testing.T) {
	canvas := noiseImage(100, 80, 21)
	tmpl := noiseImage(16, 12, 22)
	embed(canvas, tmpl, 60, 10)
	embed(canvas, tmpl, 5, 50)

	matches, err := MatchAll(canvas, tmpl, nil, 0.95, 0)
	if err != nil {
		t.Fatalf("MatchAll failed: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("count: got %d, want 2 (%+v)", len(matches), matches)
	}
	if matches[0].Rect.Min() != (imaging.Point{X: 60, Y: 10}) || matches[1].Rect.Min() != (imaging.Point{X: 5, Y: 50}) {
		t.Errorf("locations not in row-major order: %+v", matches)
	}

	capped, err := MatchAll(canvas, tmpl, nil, 0.95, 1)
	if err != nil {
		t.Fatalf("MatchAll capped failed: %v", err)
	}
	if len(capped) != 1 || capped[0].Rect.Min() != (imaging.Point{X: 60, Y: 10}) {
		t.Errorf("capped result: got %+v", capped)
	}
}

func TestMatchAll_RegionAndOversize(t *testing.T) {
	canvas := noiseImage(100, 80, 23)
	tmpl := noiseImage(16, 12, 24)
	embed(canvas, tmpl, 60, 10)
	embed(canvas, tmpl, 5, 50)

	matches, err := MatchAll(canvas, tmpl, &imaging.Rect{X: 0, Y: 40, W: 50, H: 40}, 0.95, 5)
	if err != nil {
		t.Fatalf("MatchAll in region failed: %v", err)
	}
	if len(matches) != 1 || matches[0].Rect.Min() != (imaging.Point{X: 5, Y: 50}) {
		t.Errorf("region matches: got %+v, want only (5,50)", matches)
	}

	matches, err = MatchAll(canvas, noiseImage(120, 10, 25), nil, 0.5, 5)
	if err != nil || len(matches) != 0 {
		t.Errorf("oversized template: got %v matches, err %v", len(matches), err)
	}
}

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		in      string
		want    Strategy
		wantErr bool
	}{
		{"", StrategyEarlyStop, false},
		{"early_stop", StrategyEarlyStop, false},
		{"BEST_LEVEL", StrategyBestLevel, false},
		{"fastest", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseStrategy(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseStrategy(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseStrategy(%q): got %v, want %v", tt.in, got, tt.want)
		}
	}
}
