package imaging

import (
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

var (
	// ErrOutOfBounds is returned when a region or point lies outside an image.
	ErrOutOfBounds = errors.New("out of bounds")

	// ErrUnsupportedFormat is returned when an image has the wrong channel
	// layout for the requested operation.
	ErrUnsupportedFormat = errors.New("unsupported image format")
)

// Clip extracts region from img.
//
// The region must lie entirely inside Rect{0, 0, width, height}; otherwise
// an error wrapping ErrOutOfBounds is returned. The result is a copy whose
// bounds start at (0,0), so callers add region.X/Y back to translate
// coordinates into the source image.
func Clip(img image.Image, region Rect) (*image.NRGBA, error) {
	full := RectOf(img)
	if !full.ContainsRect(region) {
		return nil, fmt.Errorf("%w: region %s not inside image %s", ErrOutOfBounds, region, full)
	}
	return imaging.Crop(img, region.ImageRect(img.Bounds().Min)), nil
}

// ResolveRegion returns region, or the whole image when region is nil, after
// checking that it fits inside img.
func ResolveRegion(img image.Image, region *Rect) (Rect, error) {
	full := RectOf(img)
	if region == nil {
		return full, nil
	}
	if !full.ContainsRect(*region) {
		return Rect{}, fmt.Errorf("%w: region %s not inside image %s", ErrOutOfBounds, *region, full)
	}
	return *region, nil
}
