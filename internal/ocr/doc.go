// Package ocr connects the matching engine to text recognizers.
//
// The engine does not recognize text itself. It talks to a Recognizer, a
// provider that turns pixels into positioned strings, and looks providers up
// by name in a Registry. Text templates in the matcher package use the
// registry's first provider unless they name one explicitly.
//
// # Providers
//
// Tesseract (via gosseract/v2) is the bundled provider. It needs the
// Tesseract library and language data installed on the system:
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-eng
//   - macOS: brew install tesseract
//   - Windows: Download from https://github.com/UB-Mannheim/tesseract/wiki
//
// Any other engine can be plugged in by implementing Recognizer and adding
// it to a Registry.
//
// # Coordinates
//
// Recognizers report regions relative to the image they were given.
// RecognizeRegion clips a frame first and translates the results back into
// frame coordinates, so callers never deal with crop offsets.
//
// # Error Handling
//
// Functions return errors for:
//   - Unknown provider names (ErrUnknownProvider) or an empty registry
//     (ErrNoProvider)
//   - Regions outside the image (imaging.ErrOutOfBounds)
//   - Unsupported language codes and Tesseract initialization failures
package ocr
