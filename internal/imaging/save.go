package imaging

import (
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"github.com/anthonynsimon/bild/imgio"
)

// Save writes img to path, choosing the encoder from the extension: .png,
// .jpg/.jpeg (quality 95) or .bmp.
func Save(path string, img image.Image) error {
	var enc imgio.Encoder
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		enc = imgio.PNGEncoder()
	case ".jpg", ".jpeg":
		enc = imgio.JPEGEncoder(95)
	case ".bmp":
		enc = imgio.BMPEncoder()
	default:
		return fmt.Errorf("%w: cannot save %s", ErrUnsupportedFormat, path)
	}
	if err := imgio.Save(path, img, enc); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}
