package matcher

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"

	"github.com/spf13/cast"

	"github.com/ironsheep/visual-match/internal/colorspace"
	"github.com/ironsheep/visual-match/internal/detection"
	"github.com/ironsheep/visual-match/internal/imaging"
	"github.com/ironsheep/visual-match/internal/ocr"
)

// Template kinds accepted in the "type" key of a description.
const (
	KindImage      = "image"
	KindColorChain = "color_chain"
	KindColor      = "color"
	KindText       = "text"
)

// Deps carries the shared services descriptions are built against.
type Deps struct {
	// Cache for image templates; nil uses imaging.DefaultImageCache.
	Cache *imaging.ImageCache

	// OCR registry for text templates; nil uses ocr.DefaultRegistry.
	OCR *ocr.Registry

	// BaseDir resolves relative template paths; empty means the working
	// directory.
	BaseDir string
}

var allowedKeys = map[string][]string{
	KindImage:      {"type", "path", "region", "threshold", "level", "strategy"},
	KindColorChain: {"type", "anchor", "first_color", "colors", "region", "threshold", "tolerance"},
	KindColor:      {"type", "color", "region", "threshold", "tolerance"},
	KindText:       {"type", "text", "region", "threshold", "provider"},
}

// FromDescription builds a Template from a loosely typed description, such
// as a map decoded from YAML or JSON.
//
// Recognized keys by type:
//   - image: path (required), region, threshold [0,1], level [0,6], strategy
//   - color_chain: anchor or first_color (required), colors (required, a list
//     of [dx, dy, color] triples), region, threshold or tolerance
//     [0,765]
//   - color: color (required), region, threshold or tolerance [0,765]
//   - text: text (required), region, threshold [0,1], provider
//
// A region is absent or a list of four integers [x, y, w, h]. Colors are
// "#rrggbb" strings or packed integers. Unknown keys are rejected. Every
// failure wraps ErrConfig and names the offending key.
func FromDescription(desc map[string]any, deps Deps) (Template, error) {
	kind, err := stringKey(desc, "type", true)
	if err != nil {
		return nil, err
	}
	allowed, ok := allowedKeys[kind]
	if !ok {
		return nil, fmt.Errorf("%w: key \"type\": unknown template type %q", ErrConfig, kind)
	}
	if err := checkKeys(desc, allowed); err != nil {
		return nil, err
	}

	region, err := regionKey(desc)
	if err != nil {
		return nil, err
	}

	switch kind {
	case KindImage:
		return imageFromDescription(desc, region, deps)
	case KindColorChain:
		return colorChainFromDescription(desc, region)
	case KindColor:
		return colorFromDescription(desc, region)
	default:
		return textFromDescription(desc, region, deps)
	}
}

func imageFromDescription(desc map[string]any, region *imaging.Rect, deps Deps) (Template, error) {
	path, err := stringKey(desc, "path", true)
	if err != nil {
		return nil, err
	}
	if !filepath.IsAbs(path) && deps.BaseDir != "" {
		path = filepath.Join(deps.BaseDir, path)
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: key \"path\": template image %q does not exist", ErrConfig, path)
	}

	opts := ImageOptions{Region: region, Threshold: DefaultImageThreshold, Cache: deps.Cache}
	if v, ok := desc["threshold"]; ok {
		if opts.Threshold, err = unitKey("threshold", v); err != nil {
			return nil, err
		}
	}
	if v, ok := desc["level"]; ok {
		level, err := intValue(v)
		if err != nil || level < 0 || level > detection.MaxPyramidLevel {
			return nil, fmt.Errorf("%w: key \"level\": want an integer in [0,%d], got %v", ErrConfig, detection.MaxPyramidLevel, v)
		}
		opts.Level = &level
	}
	if s, err := stringKey(desc, "strategy", false); err != nil {
		return nil, err
	} else if opts.Strategy, err = detection.ParseStrategy(s); err != nil {
		return nil, fmt.Errorf("%w: key \"strategy\": %v", ErrConfig, err)
	}

	if opts.Threshold == 0 {
		// A literal zero would otherwise read as "use the default".
		opts.Threshold = math.SmallestNonzeroFloat64
	}
	return NewImageTemplate(path, opts)
}

func colorChainFromDescription(desc map[string]any, region *imaging.Rect) (Template, error) {
	anchorKey := "anchor"
	if _, ok := desc[anchorKey]; !ok {
		anchorKey = "first_color"
	}
	v, ok := desc[anchorKey]
	if !ok {
		return nil, fmt.Errorf("%w: key \"anchor\": required", ErrConfig)
	}
	anchor, err := colorValue(anchorKey, v)
	if err != nil {
		return nil, err
	}

	raw, ok := desc["colors"]
	if !ok {
		return nil, fmt.Errorf("%w: key \"colors\": required", ErrConfig)
	}
	items, ok := toSlice(raw)
	if !ok {
		return nil, fmt.Errorf("%w: key \"colors\": want a list of [dx, dy, color] triples", ErrConfig)
	}
	offsets := make([]detection.ColorOffset, 0, len(items))
	for i, item := range items {
		triple, ok := toSlice(item)
		if !ok || len(triple) != 3 {
			return nil, fmt.Errorf("%w: key \"colors\"[%d]: want [dx, dy, color], got %v", ErrConfig, i, item)
		}
		dx, errX := intValue(triple[0])
		dy, errY := intValue(triple[1])
		if errX != nil || errY != nil {
			return nil, fmt.Errorf("%w: key \"colors\"[%d]: offsets must be integers, got %v", ErrConfig, i, item)
		}
		c, err := colorValue(fmt.Sprintf("colors[%d]", i), triple[2])
		if err != nil {
			return nil, err
		}
		offsets = append(offsets, detection.ColorOffset{DX: dx, DY: dy, Color: c})
	}

	tol, err := toleranceKey(desc)
	if err != nil {
		return nil, err
	}
	return NewColorChainTemplate(anchor, offsets, region, tol)
}

func colorFromDescription(desc map[string]any, region *imaging.Rect) (Template, error) {
	v, ok := desc["color"]
	if !ok {
		return nil, fmt.Errorf("%w: key \"color\": required", ErrConfig)
	}
	c, err := colorValue("color", v)
	if err != nil {
		return nil, err
	}
	tol, err := toleranceKey(desc)
	if err != nil {
		return nil, err
	}
	return NewColorTemplate(c, region, tol)
}

func textFromDescription(desc map[string]any, region *imaging.Rect, deps Deps) (Template, error) {
	text, err := stringKey(desc, "text", true)
	if err != nil {
		return nil, err
	}
	provider, err := stringKey(desc, "provider", false)
	if err != nil {
		return nil, err
	}
	opts := TextOptions{Region: region, Threshold: DefaultTextThreshold, Provider: provider, Registry: deps.OCR}
	if v, ok := desc["threshold"]; ok {
		if opts.Threshold, err = unitKey("threshold", v); err != nil {
			return nil, err
		}
		if opts.Threshold == 0 {
			opts.Threshold = math.SmallestNonzeroFloat64
		}
	}
	return NewTextTemplate(text, opts)
}

func checkKeys(desc map[string]any, allowed []string) error {
	var unknown []string
	for k := range desc {
		found := false
		for _, a := range allowed {
			if k == a {
				found = true
				break
			}
		}
		if !found {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return fmt.Errorf("%w: unknown keys %s", ErrConfig, strings.Join(unknown, ", "))
	}
	return nil
}

func stringKey(desc map[string]any, key string, required bool) (string, error) {
	v, ok := desc[key]
	if !ok {
		if required {
			return "", fmt.Errorf("%w: key %q: required", ErrConfig, key)
		}
		return "", nil
	}
	s, isString := v.(string)
	if !isString {
		return "", fmt.Errorf("%w: key %q: want a string, got %T", ErrConfig, key, v)
	}
	if required && s == "" {
		return "", fmt.Errorf("%w: key %q: must not be empty", ErrConfig, key)
	}
	return s, nil
}

func regionKey(desc map[string]any) (*imaging.Rect, error) {
	v, ok := desc["region"]
	if !ok || v == nil {
		return nil, nil
	}
	items, ok := toSlice(v)
	if !ok || len(items) != 4 {
		return nil, fmt.Errorf("%w: key \"region\": want [x, y, w, h], got %v", ErrConfig, v)
	}
	var n [4]int
	for i, item := range items {
		var err error
		if n[i], err = intValue(item); err != nil {
			return nil, fmt.Errorf("%w: key \"region\": want four integers, got %v", ErrConfig, v)
		}
	}
	r := imaging.Rect{X: n[0], Y: n[1], W: n[2], H: n[3]}
	if !r.Valid() {
		return nil, fmt.Errorf("%w: key \"region\": negative size in %s", ErrConfig, r)
	}
	return &r, nil
}

func unitKey(key string, v any) (float64, error) {
	f, err := floatValue(v)
	if err != nil || f < 0 || f > 1 {
		return 0, fmt.Errorf("%w: key %q: want a number in [0,1], got %v", ErrConfig, key, v)
	}
	return f, nil
}

func toleranceKey(desc map[string]any) (int, error) {
	key := "tolerance"
	v, ok := desc[key]
	if !ok {
		key = "threshold"
		if v, ok = desc[key]; !ok {
			return detection.DefaultColorTolerance, nil
		}
	}
	tol, err := intValue(v)
	if err != nil || tol < 0 || tol > MaxColorTolerance {
		return 0, fmt.Errorf("%w: key %q: want an integer in [0,%d], got %v", ErrConfig, key, MaxColorTolerance, v)
	}
	return tol, nil
}

func colorValue(key string, v any) (colorspace.RGB, error) {
	c, err := colorspace.ToRGB(v)
	if err != nil {
		return colorspace.RGB{}, fmt.Errorf("%w: key %q: %w", ErrConfig, key, err)
	}
	return c, nil
}

// intValue accepts integers of any width and floats without a fractional
// part, which is how JSON decoders deliver integers.
func intValue(v any) (int, error) {
	switch n := v.(type) {
	case bool, nil:
		return 0, fmt.Errorf("not an integer: %v", v)
	case float32, float64:
		f := cast.ToFloat64(n)
		if f != math.Trunc(f) {
			return 0, fmt.Errorf("not an integer: %v", v)
		}
	}
	return cast.ToIntE(v)
}

func floatValue(v any) (float64, error) {
	if _, ok := v.(bool); ok {
		return 0, fmt.Errorf("not a number: %v", v)
	}
	return cast.ToFloat64E(v)
}

// toSlice converts any slice or array to []any.
func toSlice(v any) ([]any, bool) {
	if s, ok := v.([]any); ok {
		return s, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}
