package colorspace

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ErrFormat is returned when a color string or layout cannot be parsed.
var ErrFormat = errors.New("malformed color")

// RGB represents a color with 8-bit red, green and blue components.
type RGB struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// LAB is a CIELAB coordinate. L is in [0,100]; A and B are unbounded but
// stay within roughly [-128,128] for sRGB input.
type LAB struct {
	L float64 `json:"l"`
	A float64 `json:"a"`
	B float64 `json:"b"`
}

// HSV is a hue/saturation/value coordinate with every component in [0,1].
// Note that H is normalized, not expressed in degrees.
type HSV struct {
	H float64 `json:"h"`
	S float64 `json:"s"`
	V float64 `json:"v"`
}

// RGBA implements color.Color so RGB values can be drawn directly.
func (c RGB) RGBA() (r, g, b, a uint32) {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff}.RGBA()
}

// String returns the "#rrggbb" form of c.
func (c RGB) String() string {
	return RGBToString(c)
}

// FromColor converts any color.Color to RGB, dropping alpha. Premultiplied
// components are used as-is, which matches what a screen capture shows.
func FromColor(c color.Color) RGB {
	r, g, b, _ := c.RGBA()
	return RGB{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8)}
}

// RGBToInt packs c into a 24-bit integer as r<<16 | g<<8 | b.
func RGBToInt(c RGB) uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// IntToRGB unpacks a 24-bit integer produced by RGBToInt. Bits above the low
// 24 are ignored, so ARGB values decode to their color part.
func IntToRGB(v uint32) RGB {
	return RGB{
		R: uint8(v >> 16 & 0xff),
		G: uint8(v >> 8 & 0xff),
		B: uint8(v & 0xff),
	}
}

// RGBToString formats c as a lowercase "#rrggbb" string.
func RGBToString(c RGB) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// ParseRGB parses a color string of the form "#rrggbb" or "rrggbb".
//
// Hex digits may be in either case. Any other input, including the 3-digit
// shorthand, fails with an error wrapping ErrFormat.
func ParseRGB(s string) (RGB, error) {
	digits := strings.TrimPrefix(s, "#")
	if len(digits) != 6 {
		return RGB{}, fmt.Errorf("%w: %q must be 6 hex digits", ErrFormat, s)
	}
	for _, ch := range digits {
		if !isHexDigit(ch) {
			return RGB{}, fmt.Errorf("%w: %q contains non-hex character %q", ErrFormat, s, ch)
		}
	}

	c, err := colorful.Hex("#" + strings.ToLower(digits))
	if err != nil {
		return RGB{}, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	r, g, b := c.RGB255()
	return RGB{R: r, G: g, B: b}, nil
}

// ToRGB converts the loosely typed color forms accepted in template
// descriptions: RGB, color.Color, a "#rrggbb" string or a packed integer.
func ToRGB(v interface{}) (RGB, error) {
	switch c := v.(type) {
	case RGB:
		return c, nil
	case string:
		return ParseRGB(c)
	case int:
		return packedToRGB(int64(c))
	case int64:
		return packedToRGB(c)
	case uint32:
		return packedToRGB(int64(c))
	case float64:
		if c != math.Trunc(c) || math.IsInf(c, 0) {
			return RGB{}, fmt.Errorf("%w: %v is not a packed color", ErrFormat, c)
		}
		if c < 0 || c > maxPacked {
			return RGB{}, fmt.Errorf("%w: packed color %v outside [0, 0xffffff]", ErrFormat, c)
		}
		return IntToRGB(uint32(c)), nil
	case color.Color:
		return FromColor(c), nil
	default:
		return RGB{}, fmt.Errorf("%w: unsupported color type %T", ErrFormat, v)
	}
}

const maxPacked = 0xffffff

func packedToRGB(v int64) (RGB, error) {
	if v < 0 || v > maxPacked {
		return RGB{}, fmt.Errorf("%w: packed color %#x outside [0, 0xffffff]", ErrFormat, v)
	}
	return IntToRGB(uint32(v)), nil
}

func isHexDigit(ch rune) bool {
	return ('0' <= ch && ch <= '9') || ('a' <= ch && ch <= 'f') || ('A' <= ch && ch <= 'F')
}

func (c RGB) toColorful() colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}
}
