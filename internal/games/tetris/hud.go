package tetris

import (
	"fmt"

	"github.com/vovakirdan/tui-tetris/internal/core"
	"github.com/vovakirdan/tui-tetris/internal/engine"
)

// Draw layers, lowest first.
const (
	layerBoard = iota
	layerBlocks
	layerHud
	layerBanner
)

// Side panel footprint: widest label plus its value, last row used.
const (
	hudWidth  = 20
	hudHeight = 15
)

// boardView draws the well frame and the merged cells.
type boardView struct {
	*engine.Visual
	game *GameScene
}

func newBoardView(g *GameScene) *boardView {
	v := &boardView{Visual: engine.NewVisual(nil, 0, 0), game: g}
	v.SetCollidable(false)
	v.SetLayer(layerBoard)
	return v
}

func (v *boardView) Update(engine.Frame) error { return nil }

func (v *boardView) Draw(_ engine.Frame, dst *core.Screen) {
	area, tile := v.game.layout()
	dst.DrawBox(area.Grow(1), core.ColorDefault)

	rows := v.game.board.Rows()
	for y, row := range rows {
		for x, c := range row {
			r, fg := '·', core.ColorGray
			if c == 1 {
				r, fg = '▓', core.ColorWhite
			}
			for i := 0; i < tile; i++ {
				if c == 0 && i > 0 {
					break
				}
				dst.SetColor(area.X+x*tile+i, area.Y+y, r, fg)
			}
		}
	}
}

// hud is the side panel: labels, counters and the state line.
type hud struct {
	next   *engine.Text
	rows   *engine.Text
	score  *engine.Text
	level  *engine.Text
	fps    *engine.Text
	status *engine.Text
}

func newHud() *hud {
	mk := func(value string) *engine.Text {
		t := engine.NewText(value, core.ColorBrightYellow, 0, 0)
		t.SetLayer(layerHud)
		return t
	}
	return &hud{
		next:   mk("Next block:"),
		rows:   mk(""),
		score:  mk(""),
		level:  mk(""),
		fps:    mk("FPS: -"),
		status: mk(""),
	}
}

func (h *hud) entities() []engine.Entity {
	return []engine.Entity{h.next, h.rows, h.score, h.level, h.fps, h.status}
}

// place lays the panel out starting at column x.
func (h *hud) place(x int) {
	h.next.SetPosition(float64(x), 1)
	h.rows.SetPosition(float64(x), 8)
	h.score.SetPosition(float64(x), 9)
	h.level.SetPosition(float64(x), 10)
	h.fps.SetPosition(float64(x), 12)
	h.status.SetPosition(float64(x), 14)
}

func (h *hud) refresh(s Stats) {
	h.rows.SetValue(fmt.Sprintf("Rows removed: %d", s.Rows))
	h.score.SetValue(fmt.Sprintf("Total score: %d", s.Score))
	h.level.SetValue(fmt.Sprintf("Level: %d", s.Level))

	switch {
	case s.GameOver:
		h.status.SetColor(core.ColorBrightRed)
		h.status.SetValue("GAME OVER")
	case s.Paused:
		h.status.SetColor(core.ColorBrightCyan)
		h.status.SetValue("PAUSED")
	default:
		h.status.SetValue("")
	}
}

func (h *hud) showFPS(fps float64) {
	h.fps.SetValue(fmt.Sprintf("FPS: %.1f", fps))
}
