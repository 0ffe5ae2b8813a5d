package actuator

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ironsheep/visual-match/internal/imaging"
)

// Action is one recorded call.
type Action struct {
	Kind     string          `json:"kind"` // "press" or "swipe"
	Path     []imaging.Point `json:"path"`
	Duration time.Duration   `json:"duration"`
}

// Recorder records actions instead of performing them.
//
// Recorder is safe for concurrent use.
type Recorder struct {
	mu      sync.Mutex
	actions []Action
}

// Press implements matcher.Actuator.
func (r *Recorder) Press(ctx context.Context, x, y int, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	log.Info().Int("x", x).Int("y", y).Dur("duration", d).Msg("Press (dry run)")
	r.record(Action{Kind: "press", Path: []imaging.Point{{X: x, Y: y}}, Duration: d})
	return nil
}

// Swipe implements matcher.Actuator.
func (r *Recorder) Swipe(ctx context.Context, path []imaging.Point, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(path) < 2 {
		return ErrShortPath
	}
	log.Info().Int("points", len(path)).Dur("duration", d).Msg("Swipe (dry run)")
	r.record(Action{Kind: "swipe", Path: append([]imaging.Point(nil), path...), Duration: d})
	return nil
}

// Actions returns a copy of everything recorded so far.
func (r *Recorder) Actions() []Action {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Action(nil), r.actions...)
}

// Reset forgets recorded actions.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.actions = nil
	r.mu.Unlock()
}

func (r *Recorder) record(a Action) {
	r.mu.Lock()
	r.actions = append(r.actions, a)
	r.mu.Unlock()
}
