package detection

import (
	"image"

	"github.com/ironsheep/visual-match/internal/colorspace"
	"github.com/ironsheep/visual-match/internal/imaging"
)

// DefaultColorTolerance is the per-channel tolerance used when a color
// search is not given one.
const DefaultColorTolerance = 4

// colorBand is an inclusive per-channel range.
type colorBand struct {
	lo, hi colorspace.RGB
}

// newColorBand builds [c-tol, c+tol] per channel, clamped to [0, 255].
// Negative tolerances are treated as 0.
func newColorBand(c colorspace.RGB, tol int) colorBand {
	tol = max(tol, 0)
	lo := func(v uint8) uint8 { return uint8(max(int(v)-tol, 0)) }
	hi := func(v uint8) uint8 { return uint8(min(int(v)+tol, 255)) }
	return colorBand{
		lo: colorspace.RGB{R: lo(c.R), G: lo(c.G), B: lo(c.B)},
		hi: colorspace.RGB{R: hi(c.R), G: hi(c.G), B: hi(c.B)},
	}
}

func (b colorBand) contains(c colorspace.RGB) bool {
	return b.lo.R <= c.R && c.R <= b.hi.R &&
		b.lo.G <= c.G && c.G <= b.hi.G &&
		b.lo.B <= c.B && c.B <= b.hi.B
}

// scanColor visits every pixel of region in row-major order whose color is
// inside band, until visit returns false.
func scanColor(img image.Image, region imaging.Rect, band colorBand, visit func(p imaging.Point) bool) {
	for y := region.Y; y < region.Y+region.H; y++ {
		for x := region.X; x < region.X+region.W; x++ {
			if band.contains(imaging.SamplePixel(img, x, y)) && !visit(imaging.Point{X: x, Y: y}) {
				return
			}
		}
	}
}

// FindAllColor returns every pixel in region whose R, G and B each lie
// within tolerance of c, in row-major order and image coordinates.
//
// A nil region searches the whole image. A region outside the image fails
// with an error wrapping imaging.ErrOutOfBounds.
func FindAllColor(img image.Image, c colorspace.RGB, region *imaging.Rect, tolerance int) ([]imaging.Point, error) {
	r, err := imaging.ResolveRegion(img, region)
	if err != nil {
		return nil, err
	}

	points := make([]imaging.Point, 0)
	scanColor(img, r, newColorBand(c, tolerance), func(p imaging.Point) bool {
		points = append(points, p)
		return true
	})
	return points, nil
}

// FindColor returns the first pixel in row-major order that FindAllColor
// would report.
func FindColor(img image.Image, c colorspace.RGB, region *imaging.Rect, tolerance int) (imaging.Point, bool, error) {
	r, err := imaging.ResolveRegion(img, region)
	if err != nil {
		return imaging.Point{}, false, err
	}

	var found imaging.Point
	ok := false
	scanColor(img, r, newColorBand(c, tolerance), func(p imaging.Point) bool {
		found, ok = p, true
		return false
	})
	return found, ok, nil
}
