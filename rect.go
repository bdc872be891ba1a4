package quadtree

import (
	"strconv"

	"golang.org/x/exp/constraints"
)

// Number is the coordinate domain of a tree. A tree is instantiated with a
// single Number type, so every region, item and query in it shares the domain.
type Number interface {
	constraints.Integer | constraints.Float
}

// Rect is an axis-aligned rectangle with its origin at the top-left corner.
type Rect[T Number] struct {
	X T
	Y T
	W T
	H T
}

// NewRect returns the rectangle at (x, y) with width w and height h.
func NewRect[T Number](x, y, w, h T) Rect[T] {
	return Rect[T]{X: x, Y: y, W: w, H: h}
}

// Intersects reports whether r and other share any point, edges included.
// The quadtree only returns candidates; this is the exact test callers run on them.
func (r Rect[T]) Intersects(other Rect[T]) bool {
	return r.X <= other.X+other.W &&
		r.X+r.W >= other.X &&
		r.Y <= other.Y+other.H &&
		r.Y+r.H >= other.Y
}

// outside reports whether r lies entirely outside the query's expanded bound,
// the query grown by its own extent on every side. The bound is computed in
// float64 so it may go below zero for unsigned domains.
func (r Rect[T]) outside(query Rect[T]) bool {
	x, y := float64(r.X), float64(r.Y)
	qx, qy := float64(query.X), float64(query.Y)
	qw, qh := float64(query.W), float64(query.H)
	return x > qx+qw ||
		x+float64(r.W) < qx-qw ||
		y > qy+qh ||
		y+float64(r.H) < qy-qh
}

func (r Rect[T]) String() string {
	return "[" + format(r.X) + "," + format(r.Y) + " " + format(r.W) + "x" + format(r.H) + "]"
}

func format[T Number](v T) string {
	return strconv.FormatFloat(float64(v), 'f', -1, 64)
}

// integral reports whether T is an integer type.
func integral[T Number]() bool {
	var one T = 1
	return one/2 == 0
}

// halve returns v/2. Integer domains round half up, toward positive
// infinity, so 5 halves to 3 and -5 to -2. Float domains halve exactly.
func halve[T Number](v T) T {
	h := v / 2
	if integral[T]() && v-2*h == 1 {
		h++
	}
	return h
}
