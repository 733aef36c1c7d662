package mdl

import (
	"fmt"
	"image"
)

type Point struct {
	X int
	Y int
}

func Pt(x, y int) Point { return Point{x, y} }

func PtPt(p image.Point) Point { return Point{p.X, p.Y} }

func (p Point) Add(pt Point) Point { return Point{p.X + pt.X, p.Y + pt.Y} }
func (p Point) Sub(pt Point) Point { return Point{p.X - pt.X, p.Y - pt.Y} }
func (p Point) Mul(k int) Point    { return Point{p.X * k, p.Y * k} }
func (p Point) Eq(pt Point) bool   { return p.X == pt.X && p.Y == pt.Y }

func (p Point) In(r Rect) bool {
	return r.X <= p.X && p.X < r.X+r.W && r.Y <= p.Y && p.Y < r.Y+r.H
}

func (p Point) Image() image.Point {
	return image.Point{X: p.X, Y: p.Y}
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// A Rect is an axis aligned rectangle defined by its origin and extent. The
// type itself puts no constraint on the signs of W and H; operations that
// need a non-empty rectangle document it.
//
type Rect struct {
	X, Y, W, H int
}

// RectOf converts a well-formed image.Rectangle.
//
func RectOf(r image.Rectangle) Rect {
	return Rect{X: r.Min.X, Y: r.Min.Y, W: r.Dx(), H: r.Dy()}
}

// Bounds returns r as an image.Rectangle.
//
func (r Rect) Bounds() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.W, r.Y+r.H)
}

func (r Rect) Empty() bool    { return r.W <= 0 || r.H <= 0 }
func (r Rect) Size() Point    { return Point{r.W, r.H} }
func (r Rect) Pos() Point     { return Point{r.X, r.Y} }
func (r Rect) Eq(s Rect) bool { return r == s }

func (r Rect) Add(p Point) Rect { return Rect{r.X + p.X, r.Y + p.Y, r.W, r.H} }
func (r Rect) Sub(p Point) Rect { return Rect{r.X - p.X, r.Y - p.Y, r.W, r.H} }

func (r Rect) Contains(p Point) bool {
	return p.In(r)
}

// Intersect returns the largest rectangle contained by both r and s. If the
// two rectangles do not overlap, an empty rectangle at the origin is
// returned.
//
func (r Rect) Intersect(s Rect) Rect {
	x0, y0 := max(r.X, s.X), max(r.Y, s.Y)
	x1, y1 := min(r.X+r.W, s.X+s.W), min(r.Y+r.H, s.Y+s.H)
	if x0 < x1 && y0 < y1 {
		return Rect{x0, y0, x1 - x0, y1 - y0}
	}
	return Rect{}
}

func (r Rect) Overlaps(s Rect) bool {
	return !r.Empty() && !s.Empty() &&
		r.X < s.X+s.W && s.X < r.X+r.W &&
		r.Y < s.Y+s.H && s.Y < r.Y+r.H
}

func (r Rect) String() string {
	return fmt.Sprintf("(%d,%d %dx%d)", r.X, r.Y, r.W, r.H)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
