package core

import "strings"

// Cell is one character position: a rune with its colors.
type Cell struct {
	Rune rune
	Fg   Color
	Bg   Color
}

// Screen is the cell surface scenes draw on. The platform turns it into
// terminal output; nothing here knows about ANSI. Writes outside the
// surface are clipped.
type Screen struct {
	w, h  int
	bg    Color
	cells []Cell // row-major, w*h
}

// NewScreen creates a blank w x h surface.
func NewScreen(w, h int) *Screen {
	s := &Screen{}
	s.Resize(w, h)
	return s
}

// Width returns the width in cells.
func (s *Screen) Width() int { return s.w }

// Height returns the height in cells.
func (s *Screen) Height() int { return s.h }

// Bounds returns the surface as a rectangle at the origin.
func (s *Screen) Bounds() Rect { return NewRect(0, 0, s.w, s.h) }

// index maps (x, y) into cells; ok is false outside the surface.
func (s *Screen) index(x, y int) (int, bool) {
	if x < 0 || y < 0 || x >= s.w || y >= s.h {
		return 0, false
	}
	return y*s.w + x, true
}

// Resize changes the size. The overlapping top-left area keeps its content.
func (s *Screen) Resize(w, h int) {
	w, h = max(w, 0), max(h, 0)
	if s.cells != nil && w == s.w && h == s.h {
		return
	}
	old, oldW, oldH := s.cells, s.w, s.h
	s.w, s.h = w, h
	s.cells = make([]Cell, w*h)
	s.Clear()
	for y := 0; y < min(oldH, h); y++ {
		copy(s.cells[y*w:y*w+min(oldW, w)], old[y*oldW:])
	}
}

// Clear blanks every cell on the current background.
func (s *Screen) Clear() {
	for i := range s.cells {
		s.cells[i] = Cell{Rune: ' ', Bg: s.bg}
	}
}

// ClearTo sets the background and blanks the surface with it.
func (s *Screen) ClearTo(bg Color) {
	s.bg = bg
	s.Clear()
}

// Set writes r with the default foreground.
func (s *Screen) Set(x, y int, r rune) {
	s.SetColor(x, y, r, ColorDefault)
}

// SetColor writes r in fg, keeping the cell background.
func (s *Screen) SetColor(x, y int, r rune, fg Color) {
	if i, ok := s.index(x, y); ok {
		s.cells[i].Rune = r
		s.cells[i].Fg = fg
	}
}

// Get returns the rune at (x, y), a space outside the surface.
func (s *Screen) Get(x, y int) rune {
	return s.GetCell(x, y).Rune
}

// GetCell returns the cell at (x, y), a blank cell outside the surface.
func (s *Screen) GetCell(x, y int) Cell {
	if i, ok := s.index(x, y); ok {
		return s.cells[i]
	}
	return Cell{Rune: ' '}
}

// DrawText writes text left to right from (x, y).
func (s *Screen) DrawText(x, y int, text string) {
	s.DrawTextColor(x, y, text, ColorDefault)
}

// DrawTextColor writes text in fg left to right from (x, y), one cell per rune.
func (s *Screen) DrawTextColor(x, y int, text string, fg Color) {
	for _, r := range text {
		s.SetColor(x, y, r, fg)
		x++
	}
}

// FillRect fills the clipped area of r with fill.
func (s *Screen) FillRect(r Rect, fill rune, fg Color) {
	area := r.Intersect(s.Bounds())
	for y := area.Y; y < area.Bottom(); y++ {
		for x := area.X; x < area.Right(); x++ {
			s.SetColor(x, y, fill, fg)
		}
	}
}

// DrawBox outlines r with box-drawing characters.
func (s *Screen) DrawBox(r Rect, fg Color) {
	if r.W < 2 || r.H < 2 {
		return
	}
	right, bottom := r.Right()-1, r.Bottom()-1
	for x := r.X + 1; x < right; x++ {
		s.SetColor(x, r.Y, '─', fg)
		s.SetColor(x, bottom, '─', fg)
	}
	for y := r.Y + 1; y < bottom; y++ {
		s.SetColor(r.X, y, '│', fg)
		s.SetColor(right, y, '│', fg)
	}
	s.SetColor(r.X, r.Y, '┌', fg)
	s.SetColor(right, r.Y, '┐', fg)
	s.SetColor(r.X, bottom, '└', fg)
	s.SetColor(right, bottom, '┘', fg)
}

// Row returns row y as plain text; rows outside the surface are blank.
func (s *Screen) Row(y int) string {
	if y < 0 || y >= s.h {
		return strings.Repeat(" ", s.w)
	}
	var sb strings.Builder
	for _, c := range s.cells[y*s.w : (y+1)*s.w] {
		sb.WriteRune(c.Rune)
	}
	return sb.String()
}

// String returns the surface as plain text, rows separated by newlines.
func (s *Screen) String() string {
	rows := make([]string, s.h)
	for y := range rows {
		rows[y] = s.Row(y)
	}
	return strings.Join(rows, "\n")
}
