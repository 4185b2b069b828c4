package tetris

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/tui-tetris/internal/config"
	"github.com/vovakirdan/tui-tetris/internal/core"
	"github.com/vovakirdan/tui-tetris/internal/engine"
	"github.com/vovakirdan/tui-tetris/internal/registry"
)

// recordingSounds remembers every effect played.
type recordingSounds struct {
	engine.Silent
	played []engine.Sound
}

func (r *recordingSounds) Play(s engine.Sound) { r.played = append(r.played, s) }

func (r *recordingSounds) count(s engine.Sound) int {
	n := 0
	for _, p := range r.played {
		if p == s {
			n++
		}
	}
	return n
}

func newTestGame(t *testing.T, width, height int, blocks []*Definition, tweak func(*config.TetrisConfig)) (*GameScene, *recordingSounds) {
	t.Helper()
	cfg := config.DefaultTetrisConfig()
	cfg.Board.Width, cfg.Board.Height = width, height
	cfg.Board.TileWidth = 1
	if tweak != nil {
		tweak(&cfg)
	}

	bus := engine.NewBus(nil)
	t.Cleanup(bus.Wait)

	sounds := &recordingSounds{}
	g := NewGameScene(registry.Deps{
		Bus:     bus,
		Sounds:  sounds,
		Config:  cfg,
		Runtime: core.RuntimeConfig{Seed: 1},
	})
	g.UseDefinitions(&Definitions{Blocks: blocks})
	if err := g.Load(); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	g.Enter()
	return g, sounds
}

func frame(d time.Duration, actions ...core.Action) engine.Frame {
	in := core.NewInputFrame()
	for _, a := range actions {
		in.Set(a)
	}
	return engine.Frame{Delta: d, Input: in}
}

func TestEnterStartsGame(t *testing.T) {
	g, _ := newTestGame(t, 12, 24, []*Definition{defO}, nil)

	if g.State() != engine.StateActive {
		t.Errorf("State() = %v, expected %v", g.State(), engine.StateActive)
	}
	if s := g.Stats(); s != (Stats{Level: 1}) {
		t.Errorf("Stats() = %+v, expected level 1 and zero counters", s)
	}
	if g.Current() == nil || g.Current().X() != 5 || g.Current().Y() != 0 {
		t.Errorf("current block not at spawn (5, 0)")
	}
	if p := g.Preview(); p == nil || p.X() != 13 || p.Y() != 2 {
		t.Errorf("preview not at (13, 2)")
	}
	if g.FallInterval() != time.Second {
		t.Errorf("FallInterval() = %v, expected 1s", g.FallInterval())
	}
	if g.Next() != SceneTitle {
		t.Errorf("Next() = %q, expected %q", g.Next(), SceneTitle)
	}
}

func TestLoadRejectsOversizedBlocks(t *testing.T) {
	cfg := config.DefaultTetrisConfig()
	cfg.Board.Width, cfg.Board.Height = 4, 4
	g := NewGameScene(registry.Deps{Bus: engine.NewBus(nil), Config: cfg})
	g.UseDefinitions(&Definitions{Blocks: []*Definition{mkDef("long", "11111")}})

	if err := g.Load(); err == nil {
		t.Error("Load() succeeded with a block wider than the board")
	}
}

func TestBlockFallsAndSettles(t *testing.T) {
	g, sounds := newTestGame(t, 12, 24, []*Definition{defO}, nil)
	first := g.Current()

	for i := 0; i < 22; i++ {
		if err := g.Update(frame(g.FallInterval())); err != nil {
			t.Fatalf("Update() error: %v", err)
		}
	}
	if first.Y() != 22 || g.Current() != first {
		t.Fatalf("after 22 steps block at y=%d, expected 22 and still falling", first.Y())
	}

	if err := g.Update(frame(g.FallInterval())); err != nil {
		t.Fatalf("Update() error: %v", err)
	}

	for _, c := range [][2]int{{5, 22}, {6, 22}, {5, 23}, {6, 23}} {
		if !g.Board().Filled(c[0], c[1]) {
			t.Errorf("cell (%d, %d) not filled after settling", c[0], c[1])
		}
	}
	if g.Contains(first) {
		t.Error("settled block still in scene")
	}
	if g.Current() == first || g.Current().Y() != 0 {
		t.Error("no new block spawned at the top")
	}
	if sounds.count(engine.SoundMerge) != 1 {
		t.Errorf("merge sound played %d times, expected 1", sounds.count(engine.SoundMerge))
	}
}

func TestFallTimerWaitsForInterval(t *testing.T) {
	g, _ := newTestGame(t, 12, 24, []*Definition{defO}, nil)

	_ = g.Update(frame(g.FallInterval() / 2))
	if g.Current().Y() != 0 {
		t.Fatalf("block fell before the interval elapsed")
	}
	_ = g.Update(frame(g.FallInterval() / 2))
	if g.Current().Y() != 1 {
		t.Errorf("block y = %d after one interval, expected 1", g.Current().Y())
	}
}

func TestScoring(t *testing.T) {
	vertical := mkDef("I", "1 1 1 1")
	tests := []struct {
		rows  int
		score int
	}{
		{0, 0},
		{1, 10},
		{2, 20},
		{3, 50},
		{4, 100},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d rows", tt.rows), func(t *testing.T) {
			g, sounds := newTestGame(t, 4, 8, []*Definition{vertical}, nil)
			board := g.Board()
			for y := 8 - tt.rows; y < 8; y++ {
				for x := 1; x < 4; x++ {
					board.cells[y][x] = 1
				}
			}
			g.Remove(g.Current())
			g.block = NewBlockAt(vertical, board, 0, 4, core.ColorWhite)
			g.Add(g.block)

			g.step()

			s := g.Stats()
			if s.Rows != tt.rows || s.Score != tt.score {
				t.Errorf("%d rows: Stats() = %+v, expected rows %d score %d", tt.rows, s, tt.rows, tt.score)
			}
			if got := sounds.count(engine.SoundRowRemoved); got != tt.rows {
				t.Errorf("row sound played %d times, expected %d", got, tt.rows)
			}
		})
	}
}

func TestLevelUp(t *testing.T) {
	vertical := mkDef("I", "1 1 1 1")
	g, sounds := newTestGame(t, 4, 8, []*Definition{vertical}, func(c *config.TetrisConfig) {
		c.Scoring.RowsPerLevel = 2
	})
	board := g.Board()
	for y := 6; y < 8; y++ {
		for x := 1; x < 4; x++ {
			board.cells[y][x] = 1
		}
	}
	g.Remove(g.Current())
	g.block = NewBlockAt(vertical, board, 0, 4, core.ColorWhite)
	g.Add(g.block)

	g.step()

	if g.Stats().Level != 2 {
		t.Errorf("Level = %d, expected 2", g.Stats().Level)
	}
	if g.FallInterval() != 950*time.Millisecond {
		t.Errorf("FallInterval() = %v, expected 950ms", g.FallInterval())
	}
	if sounds.count(engine.SoundLevelUp) != 1 {
		t.Errorf("level up sound played %d times, expected 1", sounds.count(engine.SoundLevelUp))
	}
}

func TestKeyMovesAreThrottled(t *testing.T) {
	g, _ := newTestGame(t, 12, 24, []*Definition{defO}, nil)
	delay := g.cfg.Timing.KeyDelay()

	_ = g.Update(frame(delay+time.Millisecond, core.ActionLeft))
	if g.Current().X() != 4 {
		t.Fatalf("x = %d after first left, expected 4", g.Current().X())
	}
	_ = g.Update(frame(time.Millisecond, core.ActionLeft))
	if g.Current().X() != 4 {
		t.Errorf("x = %d, second left inside key delay should be ignored", g.Current().X())
	}
	_ = g.Update(frame(delay, core.ActionRight))
	if g.Current().X() != 5 {
		t.Errorf("x = %d after right, expected 5", g.Current().X())
	}
}

func TestRotateKey(t *testing.T) {
	g, _ := newTestGame(t, 12, 24, []*Definition{defT}, nil)
	_ = g.Update(frame(time.Second/10, core.ActionRotate))
	if g.Current().RotationIndex() != 1 {
		t.Errorf("RotationIndex() = %d, expected 1", g.Current().RotationIndex())
	}
}

func TestDownKeyDropsOneRow(t *testing.T) {
	g, _ := newTestGame(t, 12, 24, []*Definition{defO}, nil)
	_ = g.Update(frame(time.Second/10, core.ActionDown))
	if g.Current().Y() != 1 {
		t.Errorf("y = %d after down, expected 1", g.Current().Y())
	}
}

func TestPause(t *testing.T) {
	g, _ := newTestGame(t, 12, 24, []*Definition{defO}, nil)

	_ = g.Update(frame(0, core.ActionPause))
	if !g.Stats().Paused {
		t.Fatal("game not paused")
	}
	_ = g.Update(frame(10 * time.Second))
	if g.Current().Y() != 0 {
		t.Errorf("block moved while paused")
	}
	_ = g.Update(frame(0, core.ActionPause))
	if g.Stats().Paused {
		t.Error("game still paused")
	}
}

func TestGameOverAndRestart(t *testing.T) {
	g, sounds := newTestGame(t, 4, 4, []*Definition{defO}, nil)
	g.Board().cells[2][1] = 1
	g.spawn()

	if !g.Stats().GameOver {
		t.Fatal("spawning onto a filled cell did not end the game")
	}
	if sounds.count(engine.SoundGameOver) != 1 {
		t.Errorf("game over sound played %d times, expected 1", sounds.count(engine.SoundGameOver))
	}

	before := g.Current().Y()
	_ = g.Update(frame(10 * time.Second))
	if g.Current().Y() != before {
		t.Error("block moved after game over")
	}

	_ = g.Update(frame(0, core.ActionRestart))
	if g.Stats().GameOver {
		t.Fatal("restart did not start a new game")
	}
	if g.Board().Filled(1, 2) {
		t.Error("restart kept the old board")
	}
}

func TestGameOverConfirmReturnsToTitle(t *testing.T) {
	g, _ := newTestGame(t, 4, 4, []*Definition{defO}, nil)
	g.Board().cells[2][1] = 1
	g.spawn()

	_ = g.Update(frame(0, core.ActionConfirm))
	if !g.Ended() {
		t.Fatalf("State() = %v, expected ended", g.State())
	}
	if g.Next() != SceneTitle {
		t.Errorf("Next() = %q, expected %q", g.Next(), SceneTitle)
	}
}

func TestQuitEndsWithoutNext(t *testing.T) {
	g, _ := newTestGame(t, 12, 24, []*Definition{defO}, nil)
	_ = g.Update(frame(0, core.ActionQuit))
	if !g.Ended() || g.Next() != "" {
		t.Errorf("after quit State() = %v Next() = %q, expected ended with no next", g.State(), g.Next())
	}
}

func TestDrawShowsBoardAndHud(t *testing.T) {
	g, _ := newTestGame(t, 4, 4, []*Definition{defO}, nil)
	g.Board().cells[3][0] = 1

	screen := core.NewScreen(40, 20)
	g.Draw(engine.Frame{Viewport: screen.Bounds()}, screen)

	if got := screen.Get(0, 0); got != '┌' {
		t.Errorf("frame corner = %q, expected '┌'", got)
	}
	if got := screen.Get(1, 4); got != '▓' {
		t.Errorf("filled cell = %q, expected '▓'", got)
	}
	if got := screen.Get(2, 1); got != '█' {
		t.Errorf("falling block cell = %q, expected '█'", got)
	}
	if row := screen.Row(1); !strings.Contains(row, "Next block:") {
		t.Errorf("row 1 = %q, expected the preview label", row)
	}
}
