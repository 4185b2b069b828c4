package engine

import (
	"image"
	"strings"

	"github.com/vovakirdan/tui-tetris/internal/core"
)

// Texture is a rectangular alpha mask. Alpha(x, y) is zero for a transparent cell.
// Coordinates are texture-local; out-of-range lookups return zero.
type Texture interface {
	Width() int
	Height() int
	Alpha(x, y int) uint8
}

// Glyphs is implemented by textures that know how to render their cells.
type Glyphs interface {
	Glyph(x, y int) (r rune, fg core.Color, ok bool)
}

// MaskTexture is a texture built from rows of runes. Spaces are transparent.
type MaskTexture struct {
	rows  [][]rune
	w, h  int
	color core.Color
}

// NewMaskTexture builds a texture from text rows. Short rows are padded with
// transparent cells to the widest row.
func NewMaskTexture(rows []string, color core.Color) *MaskTexture {
	t := &MaskTexture{color: color, h: len(rows)}
	t.rows = make([][]rune, len(rows))
	for i, row := range rows {
		t.rows[i] = []rune(row)
		if n := len(t.rows[i]); n > t.w {
			t.w = n
		}
	}
	return t
}

// NewTextTexture builds a single-row texture from s.
func NewTextTexture(s string, color core.Color) *MaskTexture {
	return NewMaskTexture(strings.Split(s, "\n"), color)
}

// NewSolidTexture builds a fully opaque w×h texture filled with r.
func NewSolidTexture(w, h int, r rune, color core.Color) *MaskTexture {
	rows := make([]string, h)
	for i := range rows {
		rows[i] = strings.Repeat(string(r), w)
	}
	return NewMaskTexture(rows, color)
}

func (t *MaskTexture) Width() int  { return t.w }
func (t *MaskTexture) Height() int { return t.h }

// Color returns the foreground used for every glyph.
func (t *MaskTexture) Color() core.Color { return t.color }

func (t *MaskTexture) Alpha(x, y int) uint8 {
	r := t.at(x, y)
	if r == 0 || r == ' ' {
		return 0
	}
	return 0xff
}

func (t *MaskTexture) Glyph(x, y int) (rune, core.Color, bool) {
	r := t.at(x, y)
	if r == 0 || r == ' ' {
		return 0, core.ColorDefault, false
	}
	return r, t.color, true
}

func (t *MaskTexture) at(x, y int) rune {
	if y < 0 || y >= len(t.rows) || x < 0 || x >= len(t.rows[y]) {
		return 0
	}
	return t.rows[y][x]
}

// ImageTexture adapts an image.Image, one pixel per cell.
type ImageTexture struct {
	img image.Image
}

// NewImageTexture wraps img.
func NewImageTexture(img image.Image) *ImageTexture {
	return &ImageTexture{img: img}
}

func (t *ImageTexture) Width() int  { return t.img.Bounds().Dx() }
func (t *ImageTexture) Height() int { return t.img.Bounds().Dy() }

func (t *ImageTexture) Alpha(x, y int) uint8 {
	b := t.img.Bounds()
	if x < 0 || y < 0 || x >= b.Dx() || y >= b.Dy() {
		return 0
	}
	_, _, _, a := t.img.At(b.Min.X+x, b.Min.Y+y).RGBA()
	return uint8(a >> 8)
}

func (t *ImageTexture) Glyph(x, y int) (rune, core.Color, bool) {
	if t.Alpha(x, y) == 0 {
		return 0, core.ColorDefault, false
	}
	return '█', core.ColorWhite, true
}

// Blit draws tex with its top-left corner at (x, y). Transparent cells are
// skipped. Textures without glyphs render opaque cells as full blocks.
func Blit(dst *core.Screen, tex Texture, x, y int) {
	glyphs, _ := tex.(Glyphs)
	for ty := 0; ty < tex.Height(); ty++ {
		for tx := 0; tx < tex.Width(); tx++ {
			if glyphs != nil {
				if r, fg, ok := glyphs.Glyph(tx, ty); ok {
					dst.SetColor(x+tx, y+ty, r, fg)
				}
				continue
			}
			if tex.Alpha(tx, ty) != 0 {
				dst.Set(x+tx, y+ty, '█')
			}
		}
	}
}
