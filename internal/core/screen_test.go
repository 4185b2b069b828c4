package core

import (
	"strings"
	"testing"
)

func TestNewScreenIsBlank(t *testing.T) {
	s := NewScreen(4, 2)
	if s.Width() != 4 || s.Height() != 2 {
		t.Fatalf("size = %dx%d, expected 4x2", s.Width(), s.Height())
	}
	if got := s.String(); got != "    \n    " {
		t.Errorf("String() = %q, expected two blank rows", got)
	}
	if s.Bounds() != NewRect(0, 0, 4, 2) {
		t.Errorf("Bounds() = %+v", s.Bounds())
	}
}

func TestScreenClipsWrites(t *testing.T) {
	s := NewScreen(3, 2)
	s.Set(-1, 0, 'x')
	s.Set(3, 0, 'x')
	s.Set(0, 2, 'x')
	s.DrawText(1, 1, "abcdef")

	if got := s.String(); got != "   \n ab" {
		t.Errorf("String() = %q, expected clipped text", got)
	}
	if s.Get(10, 10) != ' ' {
		t.Errorf("Get() outside = %q, expected space", s.Get(10, 10))
	}
}

func TestScreenColors(t *testing.T) {
	s := NewScreen(3, 1)
	s.ClearTo(ColorBlue)
	s.SetColor(1, 0, '#', ColorRed)

	c := s.GetCell(1, 0)
	if c.Rune != '#' || c.Fg != ColorRed || c.Bg != ColorBlue {
		t.Errorf("cell = %+v, expected red # on blue", c)
	}
	if s.GetCell(0, 0).Bg != ColorBlue {
		t.Error("ClearTo did not set the background")
	}
}

func TestScreenFillRect(t *testing.T) {
	s := NewScreen(4, 3)
	s.FillRect(NewRect(2, 1, 5, 5), '*', ColorGreen)

	want := []string{"    ", "  **", "  **"}
	for y, row := range want {
		if got := s.Row(y); got != row {
			t.Errorf("Row(%d) = %q, expected %q", y, got, row)
		}
	}
	if s.GetCell(3, 2).Fg != ColorGreen {
		t.Error("FillRect did not apply the color")
	}
}

func TestScreenDrawBox(t *testing.T) {
	s := NewScreen(5, 4)
	s.DrawBox(s.Bounds(), ColorWhite)

	want := "┌───┐\n│   │\n│   │\n└───┘"
	if got := s.String(); got != want {
		t.Errorf("DrawBox:\n%s\nexpected:\n%s", got, want)
	}

	s = NewScreen(3, 3)
	s.DrawBox(NewRect(0, 0, 1, 3), ColorWhite)
	if strings.TrimSpace(s.String()) != "" {
		t.Error("a box narrower than two cells should draw nothing")
	}
}

func TestScreenResizeKeepsContent(t *testing.T) {
	s := NewScreen(3, 2)
	s.DrawText(0, 0, "abc")
	s.DrawText(0, 1, "def")

	s.Resize(2, 3)
	if got := s.String(); got != "ab\nde\n  " {
		t.Errorf("after shrinking width: %q", got)
	}

	s.Resize(4, 1)
	if got := s.String(); got != "ab  " {
		t.Errorf("after growing width: %q", got)
	}

	s.Resize(-1, 5)
	if s.Width() != 0 || s.Height() != 5 {
		t.Errorf("negative width gave %dx%d", s.Width(), s.Height())
	}
}

func TestScreenRowOutside(t *testing.T) {
	s := NewScreen(3, 1)
	if got := s.Row(4); got != "   " {
		t.Errorf("Row(4) = %q, expected blanks", got)
	}
}
