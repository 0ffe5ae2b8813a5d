package matcher

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/ironsheep/visual-match/internal/imaging"
)

// maxNormalDraws bounds the resampling in NormalInRegion.
const maxNormalDraws = 64

// PointGenerator picks the coordinate to actuate for a matched region. A
// point match is passed as a zero-size rect at the point.
type PointGenerator interface {
	Generate(r imaging.Rect) imaging.Point
}

// CenterOfRegion picks the region center, rounding toward the top-left.
type CenterOfRegion struct{}

// Generate implements PointGenerator.
func (CenterOfRegion) Generate(r imaging.Rect) imaging.Point {
	return r.Center()
}

// IdentityOffset picks the region origin, i.e. the point itself for a point
// match.
type IdentityOffset struct{}

// Generate implements PointGenerator.
func (IdentityOffset) Generate(r imaging.Rect) imaging.Point {
	return r.Min()
}

// NormalInRegion draws from a 2D Gaussian centered on the region center with
// a standard deviation of a sixth of the width and height, redrawing until
// the point lands inside the region (far edges included). After 64 misses it
// returns the center.
//
// The zero value uses a shared, time-seeded random source.
type NormalInRegion struct {
	Rand *LockedRand
}

// Generate implements PointGenerator.
func (g NormalInRegion) Generate(r imaging.Rect) imaging.Point {
	rng := g.Rand
	if rng == nil {
		rng = defaultRand
	}

	center := r.Center()
	sx, sy := float64(r.W)/6, float64(r.H)/6
	for i := 0; i < maxNormalDraws; i++ {
		dx, dy := rng.NormPair()
		p := imaging.Point{
			X: int(math.Round(float64(center.X) + dx*sx)),
			Y: int(math.Round(float64(center.Y) + dy*sy)),
		}
		if r.ContainsPoint(p) {
			return p
		}
	}
	return center
}

// LockedRand is a *rand.Rand that is safe for concurrent use.
type LockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewLockedRand creates a random source with a fixed seed.
func NewLockedRand(seed int64) *LockedRand {
	return &LockedRand{r: rand.New(rand.NewSource(seed))}
}

// NormPair returns two independent standard normal samples.
func (l *LockedRand) NormPair() (float64, float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.NormFloat64(), l.r.NormFloat64()
}

var defaultRand = NewLockedRand(time.Now().UnixNano())

// ParsePointGenerator maps "center", "normal" and "identity" to a policy.
// The empty string returns nil, which lets each result pick its default.
func ParsePointGenerator(name string) (PointGenerator, bool) {
	switch name {
	case "":
		return nil, true
	case "center":
		return CenterOfRegion{}, true
	case "normal":
		return NormalInRegion{}, true
	case "identity":
		return IdentityOffset{}, true
	}
	return nil, false
}
