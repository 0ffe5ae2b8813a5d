package imaging

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/anthonynsimon/bild/clone"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ironsheep/visual-match/internal/colorspace"
)

// Mark is something to highlight on an annotated frame: a matched region,
// or a point when Rect has zero size.
type Mark struct {
	Rect  Rect
	Color colorspace.RGB
	Label string // drawn above the mark when not empty
}

// DefaultMarkColor is used for marks whose color is left zero.
var DefaultMarkColor = colorspace.RGB{R: 255, G: 0, B: 0}

var (
	labelFace = basicfont.Face7x13
	labelFG   = image.NewUniform(color.RGBA{255, 255, 255, 255})
	labelBG   = image.NewUniform(color.RGBA{0, 0, 0, 255})
)

// Annotate returns a copy of img with each mark drawn on top.
//
// Regions are outlined with a 1px border; zero-size marks are drawn as a
// 9px crosshair. Labels sit on a black box above the mark, or below it when
// the mark touches the top edge. Parts of a mark outside the image are
// clipped.
func Annotate(img image.Image, marks []Mark) *image.RGBA {
	result := clone.AsRGBA(img)
	// Marks are relative to the bounds origin.
	result.Rect = image.Rect(0, 0, result.Rect.Dx(), result.Rect.Dy())

	for _, m := range marks {
		c := m.Color
		if c == (colorspace.RGB{}) {
			c = DefaultMarkColor
		}
		markColor := color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}

		r := m.Rect
		if r.Empty() {
			for d := -4; d <= 4; d++ {
				setClipped(result, r.X+d, r.Y, markColor)
				setClipped(result, r.X, r.Y+d, markColor)
			}
		} else {
			for x := r.X; x < r.X+r.W; x++ {
				setClipped(result, x, r.Y, markColor)
				setClipped(result, x, r.Y+r.H-1, markColor)
			}
			for y := r.Y; y < r.Y+r.H; y++ {
				setClipped(result, r.X, y, markColor)
				setClipped(result, r.X+r.W-1, y, markColor)
			}
		}

		if m.Label != "" {
			drawLabel(result, r, m.Label)
		}
	}

	return result
}

func setClipped(img *image.RGBA, x, y int, c color.RGBA) {
	if image.Pt(x, y).In(img.Rect) {
		img.SetRGBA(x, y, c)
	}
}

// labelBox returns where the label for mark r goes: directly above it, or
// below it when there is no room above. Crosshairs get a wider gap.
func labelBox(r Rect, text string) image.Rectangle {
	w := font.MeasureString(labelFace, text).Ceil() + 2
	h := labelFace.Metrics().Height.Ceil()
	gap := 1
	if r.Empty() {
		gap = 5
	}
	if bottom := r.Y - gap; bottom-h >= 0 {
		return image.Rect(r.X, bottom-h, r.X+w, bottom)
	}
	top := r.Y + r.H + gap
	return image.Rect(r.X, top, r.X+w, top+h)
}

func drawLabel(img *image.RGBA, r Rect, text string) {
	box := labelBox(r, text)
	draw.Draw(img, box.Intersect(img.Rect), labelBG, image.Point{}, draw.Src)

	d := font.Drawer{
		Dst:  img,
		Src:  labelFG,
		Face: labelFace,
		Dot:  fixed.P(box.Min.X+1, box.Min.Y+labelFace.Metrics().Ascent.Ceil()),
	}
	d.DrawString(text)
}
