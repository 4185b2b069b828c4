package tetris

import (
	"math/rand"

	"github.com/vovakirdan/tui-tetris/internal/core"
	"github.com/vovakirdan/tui-tetris/internal/engine"
)

// Block is a falling piece: a definition, the current rotation index and
// an integer position on the board grid.
type Block struct {
	*engine.Visual

	def      *Definition
	board    *Board
	rotation int
	x, y     int

	color  core.Color
	tile   int
	origin core.Rect // board area on screen
}

// NewBlock creates a block at the spawn position: horizontally centred on
// the board, on the top row.
func NewBlock(def *Definition, board *Board, color core.Color) *Block {
	x := (board.Width() - def.Rotations[0].Width()) / 2
	return NewBlockAt(def, board, x, 0, color)
}

// NewBlockAt creates a block at grid position (x, y).
func NewBlockAt(def *Definition, board *Board, x, y int, color core.Color) *Block {
	b := &Block{
		Visual: engine.NewVisual(nil, 0, 0),
		def:    def,
		board:  board,
		x:      x,
		y:      y,
		color:  color,
		tile:   1,
	}
	b.SetCollidable(false)
	b.SetLayer(layerBlocks)
	b.sync()
	return b
}

// Definition returns the block shape.
func (b *Block) Definition() *Definition { return b.def }

// X returns the grid column of the top-left corner.
func (b *Block) X() int { return b.x }

// Y returns the grid row of the top-left corner.
func (b *Block) Y() int { return b.y }

// RotationIndex returns the index of the current rotation.
func (b *Block) RotationIndex() int { return b.rotation }

// Current returns the current rotation.
func (b *Block) Current() *Rotation {
	return b.def.Rotations[b.rotation]
}

func (b *Block) nextRotation() *Rotation {
	return b.def.Rotations[(b.rotation+1)%len(b.def.Rotations)]
}

// CanMoveLeft reports whether the block can shift one column left. Only the
// leftmost column of the current rotation is checked.
func (b *Block) CanMoveLeft() bool {
	if b.x == 0 {
		return false
	}
	rot := b.Current()
	for ty := 0; ty < rot.Height(); ty++ {
		if rot.Filled(0, ty) && b.board.Filled(b.x-1, b.y+ty) {
			return false
		}
	}
	return true
}

// CanMoveRight reports whether the block can shift one column right. Only
// the rightmost column of the current rotation is checked.
func (b *Block) CanMoveRight() bool {
	rot := b.Current()
	if b.x == b.board.Width()-rot.Width() {
		return false
	}
	for ty := 0; ty < rot.Height(); ty++ {
		if rot.Filled(rot.Width()-1, ty) && b.board.Filled(b.x+rot.Width(), b.y+ty) {
			return false
		}
	}
	return true
}

// clamp keeps rot inside the board when placed at (x, y). Each axis is
// clamped on its own.
func (b *Block) clamp(rot *Rotation, x, y int) (int, int) {
	if x+rot.Width() > b.board.Width() {
		x = b.board.Width() - rot.Width()
	}
	if y+rot.Height() > b.board.Height() {
		y = b.board.Height() - rot.Height()
	}
	return x, y
}

// CanRotate reports whether the next rotation, clamped into the board,
// overlaps no filled cell.
func (b *Block) CanRotate() bool {
	next := b.nextRotation()
	x, y := b.clamp(next, b.x, b.y)
	for ty := 0; ty < next.Height(); ty++ {
		for tx := 0; tx < next.Width(); tx++ {
			if next.Filled(tx, ty) && b.board.Filled(x+tx, y+ty) {
				return false
			}
		}
	}
	return true
}

// Rotate advances to the next rotation when CanRotate allows it.
func (b *Block) Rotate() {
	if !b.CanRotate() {
		return
	}
	b.rotation = (b.rotation + 1) % len(b.def.Rotations)
	b.x, b.y = b.clamp(b.Current(), b.x, b.y)
	b.sync()
}

// CollisionsWithBoard reports whether the block can no longer fall.
func (b *Block) CollisionsWithBoard() bool {
	return b.CollidesWith(b.Current())
}

// CollidesWith reports whether rot at the block position rests on the board
// floor or on a filled cell.
func (b *Block) CollidesWith(rot *Rotation) bool {
	for _, c := range rot.BottomEdge() {
		px, py := b.x+c.X, b.y+c.Y
		if py+1 >= b.board.Height() || b.board.Filled(px, py+1) {
			return true
		}
	}
	return false
}

// MoveLeft shifts the block one column left without checks.
func (b *Block) MoveLeft() { b.x--; b.sync() }

// MoveRight shifts the block one column right without checks.
func (b *Block) MoveRight() { b.x++; b.sync() }

// Fall moves the block one row down without checks.
func (b *Block) Fall() { b.y++; b.sync() }

// MergeInto fills the board with the current rotation.
func (b *Block) MergeInto(onMerged func()) {
	b.board.Merge(b.Current(), b.x, b.y, onMerged)
}

// place sets where the board is drawn and how wide a cell is.
func (b *Block) place(origin core.Rect, tile int) {
	b.origin = origin
	b.tile = tile
	b.sync()
}

// sync mirrors the grid position into the visual position and size.
func (b *Block) sync() {
	rot := b.Current()
	b.SetPosition(float64(b.origin.X+b.x*b.tile), float64(b.origin.Y+b.y))
	b.SetTexture(tileTexture(rot, b.tile, b.color))
}

func (b *Block) Update(engine.Frame) error { return nil }

func (b *Block) Draw(_ engine.Frame, dst *core.Screen) {
	b.DrawTexture(dst)
}

// tileTexture renders a rotation with each cell tile columns wide.
func tileTexture(rot *Rotation, tile int, color core.Color) *engine.MaskTexture {
	rows := make([]string, rot.Height())
	for y := range rows {
		row := make([]rune, 0, rot.Width()*tile)
		for x := 0; x < rot.Width(); x++ {
			r := ' '
			if rot.Filled(x, y) {
				r = '█'
			}
			for i := 0; i < tile; i++ {
				row = append(row, r)
			}
		}
		rows[y] = string(row)
	}
	return engine.NewMaskTexture(rows, color)
}

// palette colors blocks by their index in the definitions file.
var palette = []core.Color{
	core.ColorBrightCyan,
	core.ColorBrightYellow,
	core.ColorBrightMagenta,
	core.ColorBrightGreen,
	core.ColorBrightRed,
	core.ColorBrightBlue,
	core.ColorOrange,
}

func colorFor(index int) core.Color {
	return palette[index%len(palette)]
}

// Bag hands out block indexes. Like a one-item lookahead queue, the next
// block is always known in advance so it can be previewed.
type Bag struct {
	rng   *rand.Rand
	size  int
	queue []int
}

// NewBag creates a bag over size definitions.
func NewBag(rng *rand.Rand, size int) *Bag {
	bag := &Bag{rng: rng, size: size}
	bag.queue = []int{bag.roll(), bag.roll()}
	return bag
}

func (g *Bag) roll() int { return g.rng.Intn(g.size) }

// Next dequeues the upcoming block and draws a new one.
func (g *Bag) Next() int {
	idx := g.queue[0]
	g.queue = append(g.queue[1:], g.roll())
	return idx
}

// Peek returns the block that Next will return.
func (g *Bag) Peek() int {
	return g.queue[0]
}
