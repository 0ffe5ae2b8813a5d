// Package capture provides frames for the matcher: grabs of a local display
// and images read from disk.
package capture

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/kbinani/screenshot"
	"github.com/rs/zerolog/log"

	"github.com/ironsheep/visual-match/internal/imaging"
)

// ErrNoDisplay is returned when the requested display does not exist.
var ErrNoDisplay = errors.New("no such display")

// Source produces frames on demand.
type Source interface {
	Frame(ctx context.Context) (image.Image, error)
}

// Screen grabs a whole display. Display 0 is the primary one.
type Screen struct {
	Display int
}

// Frame implements Source.
func (s Screen) Frame(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	n := screenshot.NumActiveDisplays()
	if s.Display < 0 || s.Display >= n {
		return nil, fmt.Errorf("%w: %d (%d active)", ErrNoDisplay, s.Display, n)
	}
	img, err := screenshot.CaptureDisplay(s.Display)
	if err != nil {
		return nil, fmt.Errorf("capture display %d: %w", s.Display, err)
	}
	// Display bounds can start away from the origin on multi-monitor setups;
	// frames always start at (0, 0).
	img.Rect = image.Rect(0, 0, img.Rect.Dx(), img.Rect.Dy())
	log.Debug().Int("display", s.Display).Int("width", img.Rect.Dx()).Int("height", img.Rect.Dy()).Msg("Screen captured")
	return img, nil
}

// File reads each frame from an image on disk. The file is decoded on every
// call, so an external capture tool can keep rewriting it.
type File struct {
	Path string
}

// Frame implements Source.
func (f File) Frame(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	img, err := imaging.DecodeFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("frame %s: %w", f.Path, err)
	}
	return img, nil
}

// DisplayOrigin returns the top-left corner of display in global screen
// coordinates. Frames from Screen start at (0, 0), so a point found in a frame
// is pressed at the point plus this origin.
func DisplayOrigin(display int) (imaging.Point, error) {
	n := screenshot.NumActiveDisplays()
	if display < 0 || display >= n {
		return imaging.Point{}, fmt.Errorf("%w: %d (%d active)", ErrNoDisplay, display, n)
	}
	o := screenshot.GetDisplayBounds(display).Min
	return imaging.Point{X: o.X, Y: o.Y}, nil
}

// Displays lists the bounds of the active displays.
func Displays() []image.Rectangle {
	n := screenshot.NumActiveDisplays()
	out := make([]image.Rectangle, n)
	for i := range out {
		out[i] = screenshot.GetDisplayBounds(i)
	}
	return out
}
