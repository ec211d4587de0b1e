package quadtree

import (
	"fmt"
	"image"
)

// Point is an integer pixel coordinate.
type Point struct {
	X, Y int
}

// Rect is the half-open pixel region [Min.X, Max.X) x [Min.Y, Max.Y).
type Rect struct {
	Min, Max Point
}

// R is shorthand for Rect{Point{x0, y0}, Point{x1, y1}}.
func R(x0, y0, x1, y1 int) Rect {
	return Rect{Min: Point{x0, y0}, Max: Point{x1, y1}}
}

// Dx returns the width.
func (r Rect) Dx() int { return r.Max.X - r.Min.X }

// Dy returns the height.
func (r Rect) Dy() int { return r.Max.Y - r.Min.Y }

// Area returns the number of pixels covered.
func (r Rect) Area() int {
	if r.Empty() {
		return 0
	}
	return r.Dx() * r.Dy()
}

// Empty reports whether the region contains no pixels.
func (r Rect) Empty() bool {
	return r.Min.X >= r.Max.X || r.Min.Y >= r.Max.Y
}

// Contains reports whether p lies inside r.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X && p.X < r.Max.X && p.Y >= r.Min.Y && p.Y < r.Max.Y
}

// In reports whether every pixel of r lies inside s.
func (r Rect) In(s Rect) bool {
	return r.Min.X >= s.Min.X && r.Min.Y >= s.Min.Y && r.Max.X <= s.Max.X && r.Max.Y <= s.Max.Y
}

// Overlaps reports whether r and s share at least one pixel.
func (r Rect) Overlaps(s Rect) bool {
	return !r.Empty() && !s.Empty() &&
		r.Min.X < s.Max.X && s.Min.X < r.Max.X &&
		r.Min.Y < s.Max.Y && s.Min.Y < r.Max.Y
}

// Mid returns the floor midpoint of the two corners.
func (r Rect) Mid() Point {
	return Point{X: floorMid(r.Min.X, r.Max.X), Y: floorMid(r.Min.Y, r.Max.Y)}
}

// Splittable reports whether all four quadrants of r are non-empty.
func (r Rect) Splittable() bool {
	return r.Dx() >= 2 && r.Dy() >= 2
}

// Quadrants splits r at its midpoint into top-left, top-right, bottom-left
// and bottom-right, in that order. The result partitions r exactly.
func (r Rect) Quadrants() [4]Rect {
	m := r.Mid()
	return [4]Rect{
		R(r.Min.X, r.Min.Y, m.X, m.Y),
		R(m.X, r.Min.Y, r.Max.X, m.Y),
		R(r.Min.X, m.Y, m.X, r.Max.Y),
		R(m.X, m.Y, r.Max.X, r.Max.Y),
	}
}

// Image converts to an image.Rectangle.
func (r Rect) Image() image.Rectangle {
	return image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Max.Y)
}

// String implements fmt.Stringer.
func (r Rect) String() string {
	return fmt.Sprintf("(%d,%d)-(%d,%d)", r.Min.X, r.Min.Y, r.Max.X, r.Max.Y)
}

func floorMid(a, b int) int {
	s := a + b
	if s < 0 && s%2 != 0 {
		return s/2 - 1
	}
	return s / 2
}
