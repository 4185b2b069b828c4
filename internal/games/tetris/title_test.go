package tetris

import (
	"testing"
	"time"

	"github.com/vovakirdan/tui-tetris/internal/config"
	"github.com/vovakirdan/tui-tetris/internal/core"
	"github.com/vovakirdan/tui-tetris/internal/engine"
	"github.com/vovakirdan/tui-tetris/internal/registry"
)

var titleViewport = core.NewRect(0, 0, 80, 24)

func newTestTitle(t *testing.T) (*TitleScene, *engine.Bus) {
	t.Helper()
	bus := engine.NewBus(nil)
	t.Cleanup(bus.Wait)

	ts := NewTitleScene(registry.Deps{
		Bus:     bus,
		Config:  config.DefaultTetrisConfig(),
		Runtime: core.RuntimeConfig{Seed: 3},
	})
	ts.UseDefinitions(&Definitions{Blocks: []*Definition{defO, defT}})
	if err := ts.Load(); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	ts.Enter()
	return ts, bus
}

func titleFrame(d time.Duration, actions ...core.Action) engine.Frame {
	f := frame(d, actions...)
	f.Viewport = titleViewport
	return f
}

func TestTitleRainsPieces(t *testing.T) {
	ts, _ := newTestTitle(t)

	_ = ts.Update(titleFrame(rainEvery / 2))
	if ts.Pieces() != 0 {
		t.Fatalf("Pieces() = %d before the rain interval, expected 0", ts.Pieces())
	}
	_ = ts.Update(titleFrame(rainEvery / 2))
	if ts.Pieces() != 1 {
		t.Errorf("Pieces() = %d after the rain interval, expected 1", ts.Pieces())
	}
}

func TestTitlePieceDroppedAtBottom(t *testing.T) {
	ts, bus := newTestTitle(t)

	_ = ts.Update(titleFrame(rainEvery))
	var first *engine.Sprite
	for p := range ts.pieces {
		first = p
	}
	if first == nil {
		t.Fatal("no piece spawned")
	}

	// Ten seconds at rain speed carries the piece past the bottom edge.
	_ = ts.Update(titleFrame(10 * time.Second))
	bus.Wait()

	if first.Active() {
		t.Error("piece that reached the bottom is still active")
	}
	_ = ts.Update(titleFrame(time.Millisecond))
	if ts.Contains(first) {
		t.Error("dropped piece still in scene")
	}
}

func TestTitlePieceDroppedOnLogo(t *testing.T) {
	ts, bus := newTestTitle(t)
	_ = ts.Update(titleFrame(time.Millisecond))

	lx, ly := ts.logo.Position()
	piece := engine.NewSprite(ts.Scene, tileTexture(defO.Rotations[0], 1, core.ColorRed), lx, ly)
	ts.mu.Lock()
	ts.pieces[piece] = true
	ts.mu.Unlock()
	ts.Add(piece)

	_ = ts.Update(titleFrame(time.Millisecond))
	bus.Wait()

	if piece.Active() {
		t.Error("piece overlapping the logo is still active")
	}
	if !ts.logo.Active() {
		t.Error("logo was deactivated")
	}
}

func TestTitleConfirmStartsGame(t *testing.T) {
	ts, _ := newTestTitle(t)
	_ = ts.Update(titleFrame(time.Millisecond, core.ActionConfirm))

	if !ts.Ended() {
		t.Fatalf("State() = %v, expected ended", ts.State())
	}
	if ts.Next() != SceneGame {
		t.Errorf("Next() = %q, expected %q", ts.Next(), SceneGame)
	}
}

func TestTitleQuit(t *testing.T) {
	ts, _ := newTestTitle(t)
	_ = ts.Update(titleFrame(time.Millisecond, core.ActionQuit))

	if !ts.Ended() || ts.Next() != "" {
		t.Errorf("after quit State() = %v Next() = %q, expected ended with no next", ts.State(), ts.Next())
	}
}

func TestTitleDrawsLogo(t *testing.T) {
	ts, _ := newTestTitle(t)
	_ = ts.Update(titleFrame(time.Millisecond))

	screen := core.NewScreen(titleViewport.W, titleViewport.H)
	ts.Draw(titleFrame(0), screen)

	lx, ly := ts.logo.Position()
	if got := screen.Get(int(lx), int(ly)); got != '█' {
		t.Errorf("logo corner = %q, expected '█'", got)
	}
}

func TestRegisteredScenes(t *testing.T) {
	for _, name := range []string{SceneTitle, SceneGame} {
		if !registry.Exists(name) {
			t.Errorf("scene %q not registered", name)
		}
	}

	var entry string
	for _, info := range registry.List() {
		if info.Entry {
			entry = info.Name
		}
	}
	if entry != SceneTitle {
		t.Errorf("entry scene = %q, expected %q", entry, SceneTitle)
	}
}

func TestHostRunsTitleThenGame(t *testing.T) {
	bus := engine.NewBus(nil)
	host := engine.NewHost(bus, nil)
	t.Cleanup(host.Close)

	deps := registry.Deps{Bus: bus, Config: config.DefaultTetrisConfig(), Runtime: core.RuntimeConfig{Seed: 5}}
	if err := registry.Populate(host, deps); err != nil {
		t.Fatalf("Populate() error: %v", err)
	}
	if err := host.Start(); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	if host.Active().Core().Name() != SceneTitle {
		t.Fatalf("active scene = %q, expected %q", host.Active().Core().Name(), SceneTitle)
	}

	if err := host.Update(titleFrame(time.Millisecond, core.ActionConfirm)); err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	bus.Wait()

	if host.Active().Core().Name() != SceneGame {
		t.Errorf("active scene = %q, expected %q", host.Active().Core().Name(), SceneGame)
	}
}

func TestMinScreenSize(t *testing.T) {
	cfg := config.DefaultTetrisConfig()
	w, h := MinScreenSize(cfg)
	if w != 1+12*2+3+hudWidth || h != 26 {
		t.Errorf("MinScreenSize() = %dx%d, expected %dx26", w, h, 1+12*2+3+hudWidth)
	}

	cfg.Board.Height = 4
	if _, h := MinScreenSize(cfg); h != hudHeight {
		t.Errorf("short board height = %d, expected the panel height %d", h, hudHeight)
	}
}
