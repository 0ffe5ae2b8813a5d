package matcher

import (
	"errors"

	"github.com/ironsheep/visual-match/internal/colorspace"
	"github.com/ironsheep/visual-match/internal/imaging"
)

// ErrConfig is returned when a template's parameters or description are
// invalid.
var ErrConfig = errors.New("invalid template configuration")

// Errors surfaced from the lower layers, re-exported so callers can match
// every engine failure against this package alone.
var (
	ErrFormat            = colorspace.ErrFormat
	ErrOutOfBounds       = imaging.ErrOutOfBounds
	ErrUnsupportedFormat = imaging.ErrUnsupportedFormat
)
