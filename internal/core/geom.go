// Package core holds the value types shared by the engine, the game and the
// terminal platform: rectangles, the cell screen, colors and the per-frame
// input snapshot. It imports nothing outside the standard library so the
// simulation stays testable without a terminal.
package core

// Rect is an axis-aligned box in screen cells. X and Y are the top-left
// corner; the right and bottom edges are exclusive.
type Rect struct {
	X, Y int
	W, H int
}

// NewRect creates a rectangle.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the exclusive right edge.
func (r Rect) Right() int { return r.X + r.W }

// Bottom returns the exclusive bottom edge.
func (r Rect) Bottom() int { return r.Y + r.H }

// Empty reports whether the rectangle covers no cells.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Intersects reports whether r and o share at least one cell.
// Touching edges do not overlap.
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.Right() && o.X < r.Right() &&
		r.Y < o.Bottom() && o.Y < r.Bottom()
}

// Intersect returns the shared area, or the zero Rect when r and o do not overlap.
func (r Rect) Intersect(o Rect) Rect {
	if !r.Intersects(o) {
		return Rect{}
	}
	x, y := max(r.X, o.X), max(r.Y, o.Y)
	return Rect{
		X: x,
		Y: y,
		W: min(r.Right(), o.Right()) - x,
		H: min(r.Bottom(), o.Bottom()) - y,
	}
}

// Center returns the centre cell. Integer halves round towards the top-left,
// so a 5x5 box at the origin has its centre at (2, 2).
func (r Rect) Center() (int, int) {
	return r.X + r.W/2, r.Y + r.H/2
}

// ShorterSide returns min(W, H).
func (r Rect) ShorterSide() int {
	return min(r.W, r.H)
}

// Grow returns r extended by n cells on every side. Negative n shrinks it.
func (r Rect) Grow(n int) Rect {
	return Rect{X: r.X - n, Y: r.Y - n, W: r.W + 2*n, H: r.H + 2*n}
}

// Centered returns a w x h rectangle centred inside r.
func (r Rect) Centered(w, h int) Rect {
	return Rect{X: r.X + (r.W-w)/2, Y: r.Y + (r.H-h)/2, W: w, H: h}
}
