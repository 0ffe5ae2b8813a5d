package detection

import (
	"errors"
	"fmt"
	"image"
	"math"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/ironsheep/visual-match/internal/imaging"
)

const (
	// MaxPyramidLevel is the deepest pyramid level MatchBest will search.
	MaxPyramidLevel = 6

	// DefaultMaxResults caps MatchAll when maxResults is not positive.
	DefaultMaxResults = 5
)

// ErrInvalidLevel is returned for an explicit pyramid level outside
// [0, MaxPyramidLevel].
var ErrInvalidLevel = errors.New("invalid pyramid level")

// Strategy selects how MatchBest walks the pyramid.
type Strategy int

const (
	// StrategyEarlyStop reports the first (coarsest) level whose best score
	// exceeds the threshold.
	StrategyEarlyStop Strategy = iota

	// StrategyBestLevel searches every level and reports the highest score
	// that exceeds the threshold.
	StrategyBestLevel
)

func (s Strategy) String() string {
	switch s {
	case StrategyEarlyStop:
		return "early_stop"
	case StrategyBestLevel:
		return "best_level"
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// ParseStrategy maps "early_stop" (or "") and "best_level" to a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "early_stop":
		return StrategyEarlyStop, nil
	case "best_level":
		return StrategyBestLevel, nil
	}
	return 0, fmt.Errorf("unknown match strategy %q", s)
}

// MatchOptions configures MatchBest.
type MatchOptions struct {
	// Region limits the search; nil searches the whole image.
	Region *imaging.Rect

	// Threshold is the score a level's best location must exceed.
	Threshold float64

	// Level forces the pyramid depth; nil derives it with SelectPyramidLevel.
	Level *int

	Strategy Strategy
}

// Match is a template location in full-image coordinates.
type Match struct {
	// Rect has the template's size and sits at the matched location.
	Rect imaging.Rect `json:"rect"`

	// Score is the correlation at that location.
	Score float64 `json:"score"`

	// Level is the pyramid level the match was accepted at.
	Level int `json:"level"`
}

// SelectPyramidLevel derives the pyramid depth from the smallest dimension
// of the search region and the template: 0 below 32 pixels, otherwise
// floor(log2(minDim/16)) capped at MaxPyramidLevel.
func SelectPyramidLevel(searchW, searchH, tmplW, tmplH int) int {
	minDim := min(searchW, searchH, tmplW, tmplH)
	if minDim < 32 {
		return 0
	}
	level := int(math.Floor(math.Log2(float64(minDim / 16))))
	return min(MaxPyramidLevel, level)
}

// MatchBest searches img for tmpl and returns the accepted location.
//
// Parameters:
//   - img: The image to search.
//   - tmpl: The template; translucent pixels are masked out of the
//     correlation.
//   - opts: Region, threshold, pyramid level and strategy.
//
// Returns:
//   - Match: The accepted location, valid only when ok is true.
//   - ok: False when no level scored above the threshold or the template is
//     larger than the region.
//   - error: Non-nil for a region outside the image (ErrOutOfBounds), an
//     unsupported channel layout (ErrUnsupportedFormat) or a bad level.
func MatchBest(img, tmpl image.Image, opts MatchOptions) (Match, bool, error) {
	region, search, err := prepareSearch(img, tmpl, opts.Region)
	if err != nil {
		return Match{}, false, err
	}

	tb := tmpl.Bounds()
	tw, th := tb.Dx(), tb.Dy()
	if tw > region.W || th > region.H || tw == 0 || th == 0 {
		return Match{}, false, nil
	}

	var level int
	if opts.Level != nil {
		level = *opts.Level
		if level < 0 || level > MaxPyramidLevel {
			return Match{}, false, fmt.Errorf("%w: %d", ErrInvalidLevel, level)
		}
	} else {
		level = SelectPyramidLevel(region.W, region.H, tw, th)
	}

	masked := imaging.Channels(tmpl) == 4
	searchPyr, err := imaging.GrayPyramid(search, level, false)
	if err != nil {
		return Match{}, false, err
	}
	tmplPyr, err := imaging.GrayPyramid(tmpl, level, masked)
	if err != nil {
		return Match{}, false, err
	}

	var best Match
	found := false
	for lvl := level; lvl >= 0; lvl-- {
		sp, tp := searchPyr[lvl], tmplPyr[lvl]
		if tp.W > sp.W || tp.H > sp.H {
			continue
		}

		x, y, score := correlate(sp, tp).best()
		log.Debug().
			Int("level", lvl).
			Int("x", x).
			Int("y", y).
			Float64("score", score).
			Msg("Pyramid level searched")

		if score <= opts.Threshold {
			continue
		}
		if found && score <= best.Score {
			continue
		}

		scale := 1 << lvl
		best = Match{
			Rect:  imaging.Rect{X: region.X + x*scale, Y: region.Y + y*scale, W: tw, H: th},
			Score: score,
			Level: lvl,
		}
		found = true
		if opts.Strategy == StrategyEarlyStop {
			break
		}
	}

	return best, found, nil
}

// MatchAll correlates tmpl at full resolution and returns every location
// scoring at least threshold, in row-major order, up to maxResults
// (DefaultMaxResults when maxResults <= 0).
//
// A template larger than the region yields no matches and no error.
func MatchAll(img, tmpl image.Image, region *imaging.Rect, threshold float64, maxResults int) ([]Match, error) {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	r, search, err := prepareSearch(img, tmpl, region)
	if err != nil {
		return nil, err
	}

	tb := tmpl.Bounds()
	tw, th := tb.Dx(), tb.Dy()
	if tw > r.W || th > r.H || tw == 0 || th == 0 {
		return nil, nil
	}

	masked := imaging.Channels(tmpl) == 4
	searchPyr, err := imaging.GrayPyramid(search, 0, false)
	if err != nil {
		return nil, err
	}
	tmplPyr, err := imaging.GrayPyramid(tmpl, 0, masked)
	if err != nil {
		return nil, err
	}

	// Placements are distinct integer pixels, so a row-major walk of the
	// score map yields each location once, already ordered.
	scores := correlate(searchPyr[0], tmplPyr[0])
	matches := make([]Match, 0)
	for i, s := range scores.Scores {
		if s < threshold {
			continue
		}
		matches = append(matches, Match{
			Rect:  imaging.Rect{X: r.X + i%scores.W, Y: r.Y + i/scores.W, W: tw, H: th},
			Score: s,
		})
		if len(matches) == maxResults {
			break
		}
	}

	log.Debug().Int("count", len(matches)).Float64("threshold", threshold).Msg("Full-resolution matches collected")
	return matches, nil
}

// prepareSearch resolves the region, checks both channel layouts and clips
// the search image.
func prepareSearch(img, tmpl image.Image, region *imaging.Rect) (imaging.Rect, image.Image, error) {
	r, err := imaging.ResolveRegion(img, region)
	if err != nil {
		return imaging.Rect{}, nil, err
	}
	for _, m := range []image.Image{img, tmpl} {
		if ch := imaging.Channels(m); ch != 3 && ch != 4 {
			return imaging.Rect{}, nil, fmt.Errorf("%w: template matching needs 3 or 4 channels, got %d",
				imaging.ErrUnsupportedFormat, ch)
		}
	}
	if region == nil {
		return r, img, nil
	}
	clipped, err := imaging.Clip(img, r)
	if err != nil {
		return imaging.Rect{}, nil, err
	}
	return r, clipped, nil
}
