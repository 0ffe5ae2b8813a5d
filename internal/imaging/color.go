package imaging

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/visual-match/internal/colorspace"
)

// DefaultAlphaThreshold is the alpha level above which a template pixel
// takes part in masked matching.
const DefaultAlphaThreshold = 127

// ColorResult contains a color value in multiple representations.
type ColorResult struct {
	Hex   string         `json:"hex"`   // Lowercase "#rrggbb" (no alpha)
	Int   uint32         `json:"int"`   // Packed r<<16 | g<<8 | b
	RGB   colorspace.RGB `json:"rgb"`   // 8-bit components
	Alpha uint8          `json:"alpha"` // Opacity (0 = transparent)
	HSV   colorspace.HSV `json:"hsv"`   // Normalized hue, saturation, value
	LAB   colorspace.LAB `json:"lab"`   // CIELAB under D65
}

// SampleColor extracts the color at a pixel coordinate with bounds checking.
//
// Parameters:
//   - img: The source image to sample from.
//   - x: X coordinate (0-based, relative to the bounds origin).
//   - y: Y coordinate (0-based, relative to the bounds origin).
//
// Returns:
//   - *ColorResult: The color at (x, y) in multiple formats.
//   - error: Non-nil (wrapping ErrOutOfBounds) if the coordinate is outside
//     the image.
func SampleColor(img image.Image, x, y int) (*ColorResult, error) {
	b := img.Bounds()
	if x < 0 || y < 0 || x >= b.Dx() || y >= b.Dy() {
		return nil, fmt.Errorf("%w: coordinates (%d,%d) outside image %dx%d", ErrOutOfBounds, x, y, b.Dx(), b.Dy())
	}

	_, _, _, a := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
	c := SamplePixel(img, x, y)
	return &ColorResult{
		Hex:   colorspace.RGBToString(c),
		Int:   colorspace.RGBToInt(c),
		RGB:   c,
		Alpha: uint8(a >> 8),
		HSV:   colorspace.RGBToHSV(c),
		LAB:   colorspace.RGBToLAB(c),
	}, nil
}

// SamplePixel returns the RGB color at (x, y) relative to the bounds origin.
//
// The caller must have validated the coordinate; out-of-range access panics
// for the common concrete image types.
func SamplePixel(img image.Image, x, y int) colorspace.RGB {
	switch m := img.(type) {
	case *image.NRGBA:
		i := m.PixOffset(m.Rect.Min.X+x, m.Rect.Min.Y+y)
		return colorspace.RGB{R: m.Pix[i], G: m.Pix[i+1], B: m.Pix[i+2]}
	case *image.RGBA:
		i := m.PixOffset(m.Rect.Min.X+x, m.Rect.Min.Y+y)
		return colorspace.RGB{R: m.Pix[i], G: m.Pix[i+1], B: m.Pix[i+2]}
	}
	b := img.Bounds()
	return colorspace.FromColor(img.At(b.Min.X+x, b.Min.Y+y))
}

// Channels reports the channel layout of img: 1 for single-channel models,
// 4 for alpha-capable images that contain at least one translucent pixel,
// and 3 otherwise.
func Channels(img image.Image) int {
	switch img.ColorModel() {
	case color.GrayModel, color.Gray16Model, color.AlphaModel, color.Alpha16Model:
		return 1
	}
	if o, ok := img.(interface{ Opaque() bool }); ok && !o.Opaque() {
		return 4
	}
	return 3
}

// Grayscale converts img to luminance using the 0.299/0.587/0.114 weights.
//
// The result keeps the source alpha, with R=G=B holding the luma, so masks
// can still be derived after resampling. Images that are not 3- or
// 4-channel fail with ErrUnsupportedFormat.
func Grayscale(img image.Image) (*image.NRGBA, error) {
	if ch := Channels(img); ch != 3 && ch != 4 {
		return nil, fmt.Errorf("%w: grayscale needs 3 or 4 channels, got %d", ErrUnsupportedFormat, ch)
	}
	return imaging.Grayscale(img), nil
}

// AlphaToMask extracts a binary mask from the alpha channel of img.
//
// The mask is row-major with one byte per pixel: 1 where alpha > threshold,
// 0 elsewhere. Images without translucent pixels fail with
// ErrUnsupportedFormat.
func AlphaToMask(img image.Image, threshold uint8) ([]uint8, error) {
	if ch := Channels(img); ch != 4 {
		return nil, fmt.Errorf("%w: alpha mask needs 4 channels, got %d", ErrUnsupportedFormat, ch)
	}
	return alphaMask(img, threshold), nil
}

// alphaMask thresholds the alpha channel without checking the layout.
func alphaMask(img image.Image, threshold uint8) []uint8 {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	mask := make([]uint8, w*h)

	if m, ok := img.(*image.NRGBA); ok {
		for y := 0; y < h; y++ {
			row := m.Pix[y*m.Stride : y*m.Stride+w*4]
			for x := 0; x < w; x++ {
				if row[x*4+3] > threshold {
					mask[y*w+x] = 1
				}
			}
		}
		return mask
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			_, _, _, a := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			if uint8(a>>8) > threshold {
				mask[y*w+x] = 1
			}
		}
	}
	return mask
}
