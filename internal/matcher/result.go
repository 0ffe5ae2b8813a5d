package matcher

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ironsheep/visual-match/internal/imaging"
)

// DefaultPressDuration is used when Act is given a non-positive duration.
const DefaultPressDuration = 100 * time.Millisecond

// Actuator delivers input to the device the frames come from.
type Actuator interface {
	// Press touches or clicks (x, y) and holds for d.
	Press(ctx context.Context, x, y int, d time.Duration) error

	// Swipe drags through path over d.
	Swipe(ctx context.Context, path []imaging.Point, d time.Duration) error
}

// Result is the outcome of Template.Match.
type Result interface {
	// Empty reports whether nothing was found.
	Empty() bool

	// Act presses the point g picks for the result, holding for d. A nil g
	// selects the result's default policy and d <= 0 selects
	// DefaultPressDuration. It returns false without error for EmptyMatch.
	Act(ctx context.Context, a Actuator, d time.Duration, g PointGenerator) (bool, error)

	String() string
}

// RectMatch is a found region, reported by image and text templates.
type RectMatch struct {
	Rect  imaging.Rect `json:"rect"`
	Score float64      `json:"score"`
}

// Get returns the matched region.
func (m RectMatch) Get() imaging.Rect { return m.Rect }

// Empty implements Result.
func (m RectMatch) Empty() bool { return false }

// Act implements Result. The default policy is NormalInRegion.
func (m RectMatch) Act(ctx context.Context, a Actuator, d time.Duration, g PointGenerator) (bool, error) {
	if g == nil {
		g = NormalInRegion{}
	}
	return press(ctx, a, g.Generate(m.Rect), d)
}

func (m RectMatch) String() string {
	return fmt.Sprintf("RectMatch%s score=%.3f", m.Rect, m.Score)
}

// PointMatch is a found pixel, reported by color templates.
type PointMatch struct {
	Point imaging.Point `json:"point"`
}

// Get returns the matched point.
func (m PointMatch) Get() imaging.Point { return m.Point }

// Empty implements Result.
func (m PointMatch) Empty() bool { return false }

// Act implements Result. The default policy is IdentityOffset.
func (m PointMatch) Act(ctx context.Context, a Actuator, d time.Duration, g PointGenerator) (bool, error) {
	if g == nil {
		g = IdentityOffset{}
	}
	return press(ctx, a, g.Generate(imaging.Rect{X: m.Point.X, Y: m.Point.Y}), d)
}

func (m PointMatch) String() string {
	return "PointMatch" + m.Point.String()
}

// EmptyMatch means the template was not found.
type EmptyMatch struct{}

// Empty implements Result.
func (EmptyMatch) Empty() bool { return true }

// Act implements Result and never touches the actuator.
func (EmptyMatch) Act(context.Context, Actuator, time.Duration, PointGenerator) (bool, error) {
	return false, nil
}

func (EmptyMatch) String() string { return "EmptyMatch" }

func press(ctx context.Context, a Actuator, p imaging.Point, d time.Duration) (bool, error) {
	if d <= 0 {
		d = DefaultPressDuration
	}
	log.Debug().Int("x", p.X).Int("y", p.Y).Dur("duration", d).Msg("Pressing match")
	if err := a.Press(ctx, p.X, p.Y, d); err != nil {
		return false, fmt.Errorf("press at %s: %w", p, err)
	}
	return true, nil
}
