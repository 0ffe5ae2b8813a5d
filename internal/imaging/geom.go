package imaging

import (
	"fmt"
	"image"
)

// Point is an integer pixel coordinate.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Rect is an integer region anchored at its top-left corner.
//
// W and H are never negative for a valid Rect. The far edges (X+W, Y+H) are
// exclusive for pixel iteration but count as inside for containment checks,
// so a W×H rect placed flush against the right or bottom image edge is
// still contained by the image rect.
type Rect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// RectOf returns the rect covering img, relative to its bounds origin.
func RectOf(img image.Image) Rect {
	b := img.Bounds()
	return Rect{X: 0, Y: 0, W: b.Dx(), H: b.Dy()}
}

func (r Rect) String() string {
	return fmt.Sprintf("(%d,%d %dx%d)", r.X, r.Y, r.W, r.H)
}

// Valid reports whether the rect has non-negative dimensions.
func (r Rect) Valid() bool {
	return r.W >= 0 && r.H >= 0
}

// Empty reports whether the rect covers no pixels.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Min returns the top-left corner.
func (r Rect) Min() Point {
	return Point{X: r.X, Y: r.Y}
}

// Center returns the integer center, rounding toward the top-left.
func (r Rect) Center() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// ContainsPoint reports whether p lies inside r, far edges included.
func (r Rect) ContainsPoint(p Point) bool {
	return r.X <= p.X && p.X <= r.X+r.W && r.Y <= p.Y && p.Y <= r.Y+r.H
}

// ContainsRect reports whether both corners of inner lie inside r.
func (r Rect) ContainsRect(inner Rect) bool {
	if !inner.Valid() {
		return false
	}
	return r.ContainsPoint(inner.Min()) &&
		r.ContainsPoint(Point{X: inner.X + inner.W, Y: inner.Y + inner.H})
}

// Offset returns r translated by p.
func (r Rect) Offset(p Point) Rect {
	return Rect{X: r.X + p.X, Y: r.Y + p.Y, W: r.W, H: r.H}
}

// ImageRect converts r to an image.Rectangle relative to origin.
func (r Rect) ImageRect(origin image.Point) image.Rectangle {
	return image.Rect(origin.X+r.X, origin.Y+r.Y, origin.X+r.X+r.W, origin.Y+r.Y+r.H)
}
