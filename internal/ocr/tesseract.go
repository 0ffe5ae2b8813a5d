package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/ironsheep/visual-match/internal/imaging"
)

// TesseractName is the registry name of the Tesseract provider.
const TesseractName = "tesseract"

// Tesseract recognizes text with the Tesseract engine.
//
// Each call opens its own gosseract client, so a single Tesseract value can
// be shared between goroutines.
type Tesseract struct {
	// Language is a Tesseract language code such as "eng" or "chi_sim".
	// Empty means "eng".
	Language string

	// Lines reports whole text lines instead of single words.
	Lines bool
}

// NewTesseract creates a word-level Tesseract provider for language.
func NewTesseract(language string) *Tesseract {
	return &Tesseract{Language: language}
}

// Name implements Recognizer.
func (t *Tesseract) Name() string {
	return TesseractName
}

// Recognize implements Recognizer.
//
// The image is handed to Tesseract as an in-memory PNG. Empty words are
// dropped and confidences are scaled from Tesseract's 0-100 to 0-1.
func (t *Tesseract) Recognize(ctx context.Context, img image.Image) ([]TextRegion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	client := gosseract.NewClient()
	defer client.Close()

	language := t.Language
	if language == "" {
		language = "eng"
	}
	if err := client.SetLanguage(language); err != nil {
		return nil, fmt.Errorf("failed to set language: %w", err)
	}
	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	level := gosseract.RIL_WORD
	if t.Lines {
		level = gosseract.RIL_TEXTLINE
	}
	boxes, err := client.GetBoundingBoxes(level)
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}

	// The PNG starts at (0,0), which is img's bounds origin.
	regions := make([]TextRegion, 0, len(boxes))
	for _, box := range boxes {
		text := strings.TrimSpace(box.Word)
		if text == "" {
			continue
		}
		r := box.Box
		regions = append(regions, TextRegion{
			Text:       text,
			Confidence: float64(box.Confidence) / 100.0,
			Rect:       imaging.Rect{X: r.Min.X, Y: r.Min.Y, W: r.Dx(), H: r.Dy()},
		})
	}
	return regions, nil
}

// Version reports the linked Tesseract library version.
func (t *Tesseract) Version() string {
	client := gosseract.NewClient()
	defer client.Close()
	return client.Version()
}
