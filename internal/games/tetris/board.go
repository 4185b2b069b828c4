// Package tetris implements the falling-block puzzle on top of the engine:
// the board, block definitions, the falling block and the game scenes.
package tetris

import (
	"fmt"
	"strings"
)

// Board is the fixed-size occupancy grid. Cells are 0 (empty) or 1 (filled).
// It is mutated only through Merge and CleanupFilledRows.
type Board struct {
	width  int
	height int
	cells  [][]uint8 // cells[y][x]
}

// NewBoard creates an empty board.
func NewBoard(width, height int) *Board {
	b := &Board{width: width, height: height}
	b.cells = make([][]uint8, height)
	for y := range b.cells {
		b.cells[y] = make([]uint8, width)
	}
	return b
}

// Width returns the number of columns.
func (b *Board) Width() int { return b.width }

// Height returns the number of rows.
func (b *Board) Height() int { return b.height }

// Filled reports whether the cell at (x, y) is occupied.
// Coordinates outside the board are a programming error and panic.
func (b *Board) Filled(x, y int) bool {
	b.mustContain(x, y)
	return b.cells[y][x] == 1
}

func (b *Board) mustContain(x, y int) {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		panic(fmt.Sprintf("tetris: cell (%d, %d) outside %dx%d board", x, y, b.width, b.height))
	}
}

// Merge fills every cell covered by a filled cell of rot placed at (x, y)
// and then calls onMerged, if set. Filled board cells are never touched.
func (b *Board) Merge(rot *Rotation, x, y int, onMerged func()) {
	for ty := 0; ty < rot.Height(); ty++ {
		for tx := 0; tx < rot.Width(); tx++ {
			b.mustContain(x+tx, y+ty)
			if rot.Filled(tx, ty) && b.cells[y+ty][x+tx] == 0 {
				b.cells[y+ty][x+tx] = 1
			}
		}
	}
	if onMerged != nil {
		onMerged()
	}
}

// CleanupFilledRows removes full rows and returns how many were removed.
//
// Rows are scanned top to bottom. For each full row y, beforeRemove is called
// with y, then rows y-1 down to 1 are copied one row down. Row 0 is never
// copied, so after a removal row 1 keeps its previous content.
func (b *Board) CleanupFilledRows(beforeRemove func(row int)) int {
	rows := 0
	for y := 0; y < b.height; y++ {
		if !b.rowFull(y) {
			continue
		}
		if beforeRemove != nil {
			beforeRemove(y)
		}
		for my := y - 1; my > 0; my-- {
			copy(b.cells[my+1], b.cells[my])
		}
		rows++
	}
	return rows
}

func (b *Board) rowFull(y int) bool {
	for _, c := range b.cells[y] {
		if c == 0 {
			return false
		}
	}
	return true
}

// Rows returns a copy of the grid, indexed [y][x].
func (b *Board) Rows() [][]uint8 {
	out := make([][]uint8, b.height)
	for y, row := range b.cells {
		out[y] = append([]uint8(nil), row...)
	}
	return out
}

// String renders the board as rows of 0 and 1.
func (b *Board) String() string {
	var sb strings.Builder
	for y, row := range b.cells {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for _, c := range row {
			sb.WriteByte('0' + c)
		}
	}
	return sb.String()
}
