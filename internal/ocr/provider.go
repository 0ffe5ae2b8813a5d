package ocr

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/ironsheep/visual-match/internal/imaging"
)

var (
	// ErrNoProvider is returned when a registry has no recognizers.
	ErrNoProvider = errors.New("no OCR provider registered")

	// ErrUnknownProvider is returned when a named recognizer is not registered.
	ErrUnknownProvider = errors.New("unknown OCR provider")
)

// TextRegion is a piece of recognized text and where it was found.
type TextRegion struct {
	// Text is the recognized text content.
	Text string `json:"text"`

	// Confidence is the recognizer's confidence score (0.0 to 1.0).
	Confidence float64 `json:"confidence"`

	// Rect is the bounding box around this text in the recognized image.
	Rect imaging.Rect `json:"rect"`
}

// Recognizer turns an image into positioned text.
type Recognizer interface {
	// Name identifies the provider in a Registry.
	Name() string

	// Recognize returns the text regions found in img, with coordinates
	// relative to img's bounds origin.
	Recognize(ctx context.Context, img image.Image) ([]TextRegion, error)
}

// Registry holds recognizers in registration order.
//
// Registry is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	providers []Recognizer
}

// DefaultRegistry is the process-wide registry used by text templates that
// are not given one.
var DefaultRegistry = NewRegistry()

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Add registers r. A recognizer with the same name replaces the earlier one
// in place, keeping its position.
func (reg *Registry) Add(r Recognizer) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	for i, p := range reg.providers {
		if p.Name() == r.Name() {
			reg.providers[i] = r
			return
		}
	}
	reg.providers = append(reg.providers, r)
}

// Get returns the recognizer called name, or the first registered one when
// name is empty.
func (reg *Registry) Get(name string) (Recognizer, error) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	if len(reg.providers) == 0 {
		return nil, ErrNoProvider
	}
	if name == "" {
		return reg.providers[0], nil
	}
	for _, p := range reg.providers {
		if p.Name() == name {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, name)
}

// Names lists the registered providers in order.
func (reg *Registry) Names() []string {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	names := make([]string, len(reg.providers))
	for i, p := range reg.providers {
		names[i] = p.Name()
	}
	return names
}

// RecognizeRegion runs r on region of img (the whole image when region is
// nil) and returns the results in img's coordinates.
//
// # Coordinate Adjustment
//
// If the region starts at (100, 50) and a word is detected at (10, 20)
// within the clipped region, the returned rect starts at (110, 70).
func RecognizeRegion(ctx context.Context, r Recognizer, img image.Image, region *imaging.Rect) ([]TextRegion, error) {
	target := img
	var origin imaging.Point
	if region != nil {
		clipped, err := imaging.Clip(img, *region)
		if err != nil {
			return nil, err
		}
		target = clipped
		origin = region.Min()
	}

	results, err := r.Recognize(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", r.Name(), err)
	}
	for i := range results {
		results[i].Rect = results[i].Rect.Offset(origin)
	}
	return results, nil
}
