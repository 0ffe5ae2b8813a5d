// Package detection locates templates, colors and color constellations
// inside a raster image.
//
// It provides three searches that the matcher package builds its templates
// on:
//
//   - MatchBest / MatchAll: normalized cross-correlation template matching,
//     coarse-to-fine over an image pyramid, with optional transparency masks
//   - FindColor / FindAllColor: per-channel tolerance band pixel search
//   - FindMultiColors: an anchor color plus ordered offset color checks
//
// # Template Matching Overview
//
// MatchBest works on luminance only:
//
//  1. Clip the search image to the region (the whole image when nil)
//  2. Convert search image and template to grayscale
//  3. Pick a pyramid depth from the smallest dimension of either image
//  4. Downsample both images level by level; a template with translucent
//     pixels gets a binary mask thresholded independently at every level
//  5. Correlate from the coarsest level down, stopping at the first level
//     whose best score exceeds the threshold
//
// The early stop trades a little accuracy for speed: a coarse level that
// already clears the threshold is trusted without refining. StrategyBestLevel
// evaluates every level and keeps the highest score instead.
//
// # Coordinate System
//
// All coordinates are 0-based and relative to the image bounds origin. Search
// regions are imaging.Rect values and every reported location is in the
// coordinates of the full image, not the region.
//
// # Scores
//
// Correlation scores follow the normalized correlation coefficient and lie
// in [-1, 1]:
//   - 1.0 = identical up to brightness and contrast
//   - 0.0 = uncorrelated, or a flat window against a textured template
//   - negative values indicate inverted patterns
//
// A flat template is only meaningful against an equally flat window, which
// scores 1.
//
// # Absence
//
// Not finding anything is never an error: searches report ok == false or an
// empty slice. Errors are reserved for invalid regions (ErrOutOfBounds) and
// unsupported channel layouts (ErrUnsupportedFormat).
package detection
