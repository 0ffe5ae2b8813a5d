package matcher

import (
	"context"
	"fmt"
	"image"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/ironsheep/visual-match/internal/colorspace"
	"github.com/ironsheep/visual-match/internal/detection"
	"github.com/ironsheep/visual-match/internal/imaging"
	"github.com/ironsheep/visual-match/internal/ocr"
)

const (
	// DefaultImageThreshold is the correlation an image template must exceed.
	DefaultImageThreshold = 0.95

	// DefaultTextThreshold is the OCR confidence a text template must exceed.
	DefaultTextThreshold = 0.6

	// MaxColorTolerance is the largest meaningful color tolerance: the L1
	// distance between black and white.
	MaxColorTolerance = 3 * 255
)

// Template is something to look for in a frame.
type Template interface {
	// Match searches img. Absence is an EmptyMatch, not an error.
	Match(ctx context.Context, img image.Image) (Result, error)

	String() string
}

// ImageOptions configures an ImageTemplate. Zero values select defaults.
type ImageOptions struct {
	// Region limits the search; nil searches the whole frame.
	Region *imaging.Rect

	// Threshold in [0,1]; 0 selects DefaultImageThreshold.
	Threshold float64

	// Level forces the pyramid depth (0 to detection.MaxPyramidLevel).
	Level *int

	Strategy detection.Strategy

	// Cache shares decoded template files; nil uses imaging.DefaultImageCache.
	Cache *imaging.ImageCache
}

// ImageTemplate finds a template image by pyramid correlation.
type ImageTemplate struct {
	path  string
	img   image.Image
	opts  ImageOptions
	cache *imaging.ImageCache
}

// NewImageTemplate creates a template for the image file at path. The file
// must exist; it is decoded on first Match through the cache.
func NewImageTemplate(path string, opts ImageOptions) (*ImageTemplate, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: template image %q: %v", ErrConfig, path, err)
	}
	t := &ImageTemplate{path: path}
	if err := t.setOptions(opts); err != nil {
		return nil, err
	}
	return t, nil
}

// NewImageTemplateFromImage creates a template for an image already in
// memory. name is only used in String.
func NewImageTemplateFromImage(name string, img image.Image, opts ImageOptions) (*ImageTemplate, error) {
	t := &ImageTemplate{path: name, img: img}
	if err := t.setOptions(opts); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *ImageTemplate) setOptions(opts ImageOptions) error {
	if opts.Threshold == 0 {
		opts.Threshold = DefaultImageThreshold
	}
	if opts.Threshold < 0 || opts.Threshold > 1 {
		return fmt.Errorf("%w: image threshold %v outside [0,1]", ErrConfig, opts.Threshold)
	}
	if opts.Level != nil && (*opts.Level < 0 || *opts.Level > detection.MaxPyramidLevel) {
		return fmt.Errorf("%w: level %d outside [0,%d]", ErrConfig, *opts.Level, detection.MaxPyramidLevel)
	}
	if err := checkRegion(opts.Region); err != nil {
		return err
	}
	t.cache = opts.Cache
	if t.cache == nil {
		t.cache = imaging.DefaultImageCache
	}
	t.opts = opts
	return nil
}

// Match implements Template.
func (t *ImageTemplate) Match(_ context.Context, img image.Image) (Result, error) {
	tmpl := t.img
	if tmpl == nil {
		var err error
		if tmpl, err = t.cache.Load(t.path); err != nil {
			return nil, err
		}
	}

	m, ok, err := detection.MatchBest(img, tmpl, detection.MatchOptions{
		Region:    t.opts.Region,
		Threshold: t.opts.Threshold,
		Level:     t.opts.Level,
		Strategy:  t.opts.Strategy,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", t, err)
	}
	if !ok {
		log.Debug().Str("template", t.String()).Msg("No match")
		return EmptyMatch{}, nil
	}
	log.Debug().Str("template", t.String()).Str("rect", m.Rect.String()).Float64("score", m.Score).Int("level", m.Level).Msg("Matched")
	return RectMatch{Rect: m.Rect, Score: m.Score}, nil
}

func (t *ImageTemplate) String() string {
	return fmt.Sprintf("ImageTemplate(path=%s, region=%s, threshold=%v)", t.path, regionString(t.opts.Region), t.opts.Threshold)
}

// ColorChainTemplate finds an anchor color whose offset pixels match a
// chain of expected colors.
type ColorChainTemplate struct {
	anchor    colorspace.RGB
	offsets   []detection.ColorOffset
	region    *imaging.Rect
	tolerance int
}

// NewColorChainTemplate creates a color chain template. tolerance must be in
// [0, MaxColorTolerance].
func NewColorChainTemplate(anchor colorspace.RGB, offsets []detection.ColorOffset, region *imaging.Rect, tolerance int) (*ColorChainTemplate, error) {
	if err := checkTolerance(tolerance); err != nil {
		return nil, err
	}
	if err := checkRegion(region); err != nil {
		return nil, err
	}
	return &ColorChainTemplate{
		anchor:    anchor,
		offsets:   append([]detection.ColorOffset(nil), offsets...),
		region:    region,
		tolerance: tolerance,
	}, nil
}

// Match implements Template.
func (t *ColorChainTemplate) Match(_ context.Context, img image.Image) (Result, error) {
	p, ok, err := detection.FindMultiColors(img, t.anchor, t.offsets, t.region, t.tolerance)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", t, err)
	}
	if !ok {
		return EmptyMatch{}, nil
	}
	return PointMatch{Point: p}, nil
}

func (t *ColorChainTemplate) String() string {
	return fmt.Sprintf("ColorChainTemplate(anchor=%s, checks=%d, region=%s, tolerance=%d)",
		t.anchor, len(t.offsets), regionString(t.region), t.tolerance)
}

// ColorTemplate finds the first pixel of a color.
type ColorTemplate struct {
	color     colorspace.RGB
	region    *imaging.Rect
	tolerance int
}

// NewColorTemplate creates a single color template. tolerance must be in
// [0, MaxColorTolerance].
func NewColorTemplate(c colorspace.RGB, region *imaging.Rect, tolerance int) (*ColorTemplate, error) {
	if err := checkTolerance(tolerance); err != nil {
		return nil, err
	}
	if err := checkRegion(region); err != nil {
		return nil, err
	}
	return &ColorTemplate{color: c, region: region, tolerance: tolerance}, nil
}

// Match implements Template.
func (t *ColorTemplate) Match(_ context.Context, img image.Image) (Result, error) {
	p, ok, err := detection.FindColor(img, t.color, t.region, t.tolerance)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", t, err)
	}
	if !ok {
		return EmptyMatch{}, nil
	}
	return PointMatch{Point: p}, nil
}

func (t *ColorTemplate) String() string {
	return fmt.Sprintf("ColorTemplate(color=%s, region=%s, tolerance=%d)", t.color, regionString(t.region), t.tolerance)
}

// TextOptions configures a TextTemplate. Zero values select defaults.
type TextOptions struct {
	Region *imaging.Rect

	// Threshold in [0,1]; 0 selects DefaultTextThreshold.
	Threshold float64

	// Provider names the recognizer; empty picks the registry's first one.
	Provider string

	// Registry to resolve Provider in; nil uses ocr.DefaultRegistry.
	Registry *ocr.Registry
}

// TextTemplate finds a string through an OCR provider.
type TextTemplate struct {
	text       string
	region     *imaging.Rect
	threshold  float64
	recognizer ocr.Recognizer
}

// NewTextTemplate creates a text template. The provider is resolved now, so
// a missing provider fails construction rather than the first Match.
func NewTextTemplate(text string, opts TextOptions) (*TextTemplate, error) {
	if text == "" {
		return nil, fmt.Errorf("%w: text template needs non-empty text", ErrConfig)
	}
	if opts.Threshold == 0 {
		opts.Threshold = DefaultTextThreshold
	}
	if opts.Threshold < 0 || opts.Threshold > 1 {
		return nil, fmt.Errorf("%w: text threshold %v outside [0,1]", ErrConfig, opts.Threshold)
	}
	if err := checkRegion(opts.Region); err != nil {
		return nil, err
	}
	reg := opts.Registry
	if reg == nil {
		reg = ocr.DefaultRegistry
	}
	r, err := reg.Get(opts.Provider)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfig, err)
	}
	return &TextTemplate{text: text, region: opts.Region, threshold: opts.Threshold, recognizer: r}, nil
}

// Match implements Template. The first recognized region whose text equals
// the template text exactly with confidence above the threshold wins.
func (t *TextTemplate) Match(ctx context.Context, img image.Image) (Result, error) {
	regions, err := ocr.RecognizeRegion(ctx, t.recognizer, img, t.region)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", t, err)
	}
	for _, r := range regions {
		if r.Text == t.text && r.Confidence > t.threshold {
			return RectMatch{Rect: r.Rect, Score: r.Confidence}, nil
		}
	}
	return EmptyMatch{}, nil
}

func (t *TextTemplate) String() string {
	return fmt.Sprintf("TextTemplate(text=%q, region=%s, threshold=%v, provider=%s)",
		t.text, regionString(t.region), t.threshold, t.recognizer.Name())
}

func checkTolerance(tol int) error {
	if tol < 0 || tol > MaxColorTolerance {
		return fmt.Errorf("%w: color tolerance %d outside [0,%d]", ErrConfig, tol, MaxColorTolerance)
	}
	return nil
}

func checkRegion(r *imaging.Rect) error {
	if r != nil && !r.Valid() {
		return fmt.Errorf("%w: region %s has negative size", ErrConfig, *r)
	}
	return nil
}

func regionString(r *imaging.Rect) string {
	if r == nil {
		return "full"
	}
	return r.String()
}
