package actuator

import (
	"context"
	"fmt"
	"time"

	"github.com/go-vgo/robotgo"
	"github.com/rs/zerolog/log"

	"github.com/ironsheep/visual-match/internal/imaging"
)

// Desktop drives the local mouse. Coordinates are frame pixels of a
// capture.Screen grab; Origin moves them onto the virtual desktop.
type Desktop struct {
	// Button is "left" (the default), "right" or "center".
	Button string

	// Origin is the top-left corner of the captured display in global
	// screen coordinates (see capture.DisplayOrigin).
	Origin imaging.Point
}

func (d Desktop) screen(p imaging.Point) imaging.Point {
	return p.Add(d.Origin)
}

func (d Desktop) button() string {
	if d.Button == "" {
		return "left"
	}
	return d.Button
}

// Press moves to (x, y), holds the button for dur and releases it.
func (d Desktop) Press(ctx context.Context, x, y int, dur time.Duration) error {
	p := d.screen(imaging.Point{X: x, Y: y})
	robotgo.Move(p.X, p.Y)
	if err := robotgo.Toggle(d.button()); err != nil {
		return fmt.Errorf("button down: %w", err)
	}
	werr := wait(ctx, dur)
	if err := robotgo.Toggle(d.button(), "up"); err != nil {
		return fmt.Errorf("button up: %w", err)
	}
	log.Debug().Int("x", p.X).Int("y", p.Y).Dur("duration", dur).Msg("Desktop press")
	return werr
}

// Swipe holds the button down while moving through path, spreading dur
// evenly over the segments.
func (d Desktop) Swipe(ctx context.Context, path []imaging.Point, dur time.Duration) error {
	if len(path) < 2 {
		return ErrShortPath
	}
	step := dur / time.Duration(len(path)-1)

	start := d.screen(path[0])
	robotgo.Move(start.X, start.Y)
	if err := robotgo.Toggle(d.button()); err != nil {
		return fmt.Errorf("button down: %w", err)
	}
	var werr error
	for _, p := range path[1:] {
		if werr = wait(ctx, step); werr != nil {
			break
		}
		p = d.screen(p)
		robotgo.MoveSmooth(p.X, p.Y)
	}
	if err := robotgo.Toggle(d.button(), "up"); err != nil {
		return fmt.Errorf("button up: %w", err)
	}
	log.Debug().Int("points", len(path)).Dur("duration", dur).Msg("Desktop swipe")
	return werr
}

// wait sleeps for d or until ctx is done.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
