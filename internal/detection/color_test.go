package detection

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/ironsheep/visual-match/internal/colorspace"
	"github.com/ironsheep/visual-match/internal/imaging"
)

// solidImage creates an opaque image filled with c.
func solidImage(width, height int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{c}, image.Point{}, draw.Src)
	return img
}

func TestFindAllColor_SinglePixel(t *testing.T) {
	img := solidImage(50, 50, color.RGBA{0, 0, 0, 255})
	img.SetRGBA(17, 33, color.RGBA{200, 100, 50, 255})

	points, err := FindAllColor(img, colorspace.RGB{R: 200, G: 100, B: 50}, nil, DefaultColorTolerance)
	if err != nil {
		t.Fatalf("FindAllColor failed: %v", err)
	}
	if len(points) != 1 || points[0] != (imaging.Point{X: 17, Y: 33}) {
		t.Errorf("points: got %v, want [(17,33)]", points)
	}
}

func TestFindAllColor_ToleranceBand(t *testing.T) {
	tests := []struct {
		name   string
		pixel  color.RGBA
		target colorspace.RGB
		tol    int
		want   bool
	}{
		{"exact", color.RGBA{10, 20, 30, 255}, colorspace.RGB{R: 10, G: 20, B: 30}, 0, true},
		{"upper edge inclusive", color.RGBA{14, 20, 30, 255}, colorspace.RGB{R: 10, G: 20, B: 30}, 4, true},
		{"lower edge inclusive", color.RGBA{10, 16, 30, 255}, colorspace.RGB{R: 10, G: 20, B: 30}, 4, true},
		{"one past band", color.RGBA{10, 20, 35, 255}, colorspace.RGB{R: 10, G: 20, B: 30}, 4, false},
		{"clamped low", color.RGBA{0, 255, 0, 255}, colorspace.RGB{R: 2, G: 253, B: 0}, 4, true},
		{"every channel must fit", color.RGBA{10, 20, 90, 255}, colorspace.RGB{R: 10, G: 20, B: 30}, 50, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := solidImage(3, 3, tt.pixel)
			points, err := FindAllColor(img, tt.target, nil, tt.tol)
			if err != nil {
				t.Fatalf("FindAllColor failed: %v", err)
			}
			if got := len(points) == 9; got != tt.want {
				t.Errorf("match: got %v (%d points), want %v", got, len(points), tt.want)
			}
		})
	}
}

func TestFindAllColor_RowMajorAndRegion(t *testing.T) {
	red := color.RGBA{255, 0, 0, 255}
	img := solidImage(20, 10, color.RGBA{255, 255, 255, 255})
	img.SetRGBA(5, 1, red)
	img.SetRGBA(2, 3, red)
	img.SetRGBA(8, 1, red)
	target := colorspace.RGB{R: 255}

	points, err := FindAllColor(img, target, nil, 0)
	if err != nil {
		t.Fatalf("FindAllColor failed: %v", err)
	}
	want := []imaging.Point{{X: 5, Y: 1}, {X: 8, Y: 1}, {X: 2, Y: 3}}
	if len(points) != len(want) {
		t.Fatalf("points: got %v, want %v", points, want)
	}
	for i := range want {
		if points[i] != want[i] {
			t.Errorf("points[%d]: got %v, want %v", i, points[i], want[i])
		}
	}

	first, ok, err := FindColor(img, target, nil, 0)
	if err != nil || !ok || first != want[0] {
		t.Errorf("FindColor: got %v ok=%v err=%v, want %v", first, ok, err, want[0])
	}

	inRegion, err := FindAllColor(img, target, &imaging.Rect{X: 6, Y: 0, W: 10, H: 10}, 0)
	if err != nil {
		t.Fatalf("FindAllColor in region failed: %v", err)
	}
	if len(inRegion) != 1 || inRegion[0] != (imaging.Point{X: 8, Y: 1}) {
		t.Errorf("region points: got %v, want [(8,1)] in image coordinates", inRegion)
	}
}

func TestFindAllColor_NilRegionEqualsFullRegion(t *testing.T) {
	img := noiseImage(30, 20, 31)
	target := colorspace.FromColor(img.At(7, 7))

	a, errA := FindAllColor(img, target, nil, 10)
	full := imaging.RectOf(img)
	b, errB := FindAllColor(img, target, &full, 10)
	if errA != nil || errB != nil {
		t.Fatalf("errors: %v, %v", errA, errB)
	}
	if len(a) != len(b) {
		t.Fatalf("nil region found %d points, full region %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("point %d: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestFindColor_NotFound(t *testing.T) {
	img := solidImage(10, 10, color.RGBA{0, 0, 0, 255})

	_, ok, err := FindColor(img, colorspace.RGB{R: 255, G: 255, B: 255}, nil, DefaultColorTolerance)
	if err != nil {
		t.Fatalf("FindColor failed: %v", err)
	}
	if ok {
		t.Error("FindColor reported a match on a black image")
	}

	points, err := FindAllColor(img, colorspace.RGB{R: 255, G: 255, B: 255}, nil, DefaultColorTolerance)
	if err != nil || len(points) != 0 {
		t.Errorf("FindAllColor: got %v err=%v, want empty", points, err)
	}
}

func TestFindColor_RegionOutOfBounds(t *testing.T) {
	img := solidImage(10, 10, color.RGBA{0, 0, 0, 255})

	_, _, err := FindColor(img, colorspace.RGB{}, &imaging.Rect{X: 5, Y: 5, W: 10, H: 10}, 0)
	if !errors.Is(err, imaging.ErrOutOfBounds) {
		t.Errorf("got %v, want ErrOutOfBounds", err)
	}
}
