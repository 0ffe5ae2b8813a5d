package detection

import (
	"image"

	"github.com/rs/zerolog/log"

	"github.com/ironsheep/visual-match/internal/colorspace"
	"github.com/ironsheep/visual-match/internal/imaging"
)

// ColorOffset is one check of a color chain: the pixel at (anchor.X+DX,
// anchor.Y+DY) must be similar to Color.
type ColorOffset struct {
	DX    int            `json:"dx"`
	DY    int            `json:"dy"`
	Color colorspace.RGB `json:"color"`
}

// FindMultiColors finds the first anchor pixel whose color chain matches.
//
// Candidates are the pixels FindAllColor reports for anchor, visited in
// row-major order. Each candidate is checked against offsets in order using
// the diff algorithm at tolerance; the first failing check rejects the
// candidate. A check that lands outside the image rejects the candidate as
// well, without an error, so anchors near the edge are simply skipped.
//
// Returns ok == false when no candidate passes every check.
func FindMultiColors(img image.Image, anchor colorspace.RGB, offsets []ColorOffset,
	region *imaging.Rect, tolerance int) (imaging.Point, bool, error) {
	r, err := imaging.ResolveRegion(img, region)
	if err != nil {
		return imaging.Point{}, false, err
	}

	bounds := imaging.RectOf(img)
	threshold := float64(tolerance)
	candidates := 0

	var found imaging.Point
	ok := false
	scanColor(img, r, newColorBand(anchor, tolerance), func(p imaging.Point) bool {
		candidates++
		for _, off := range offsets {
			x, y := p.X+off.DX, p.Y+off.DY
			if x < 0 || y < 0 || x >= bounds.W || y >= bounds.H {
				return true
			}
			if !colorspace.IsSimilar(imaging.SamplePixel(img, x, y), off.Color, threshold, colorspace.AlgorithmDiff) {
				return true
			}
		}
		found, ok = p, true
		return false
	})

	log.Debug().
		Int("candidates", candidates).
		Int("checks", len(offsets)).
		Bool("found", ok).
		Msg("Color chain searched")
	return found, ok, nil
}
