// Package imaging provides the raster operations the matching engine is built on.
//
// This package implements region clipping, grayscale conversion, alpha mask
// extraction, pixel sampling, pyramid downsampling and template image loading.
// All operations work with standard Go image.Image types and use a coordinate
// system where (0,0) is the top-left corner of the image bounds, X increases
// rightward, and Y increases downward.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based and relative to
// img.Bounds().Min, so sub-images and decoded files behave the same:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - Regions are Rect{X, Y, W, H}; the far edges are exclusive for pixels
//
// # Channel Layout
//
// The engine reasons about images as 1-, 3- or 4-channel rasters. Channels
// derives the layout from the color model and, for alpha-capable models, from
// whether any pixel is actually translucent. Grayscale requires 3 or 4
// channels and AlphaToMask requires 4; both fail with ErrUnsupportedFormat
// otherwise.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use and decodes each path at
// most once. Individual image operations are stateless and can be called
// concurrently on different images. Callers must not mutate an image while
// an operation on it is in flight.
//
// # Error Handling
//
// Functions return errors wrapping ErrOutOfBounds for regions outside the
// image and ErrUnsupportedFormat for channel layouts an operation cannot
// handle. File I/O and decode failures are wrapped as-is.
package imaging
