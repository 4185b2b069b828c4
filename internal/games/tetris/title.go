package tetris

import (
	"math/rand"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/vovakirdan/tui-tetris/internal/config"
	"github.com/vovakirdan/tui-tetris/internal/core"
	"github.com/vovakirdan/tui-tetris/internal/engine"
	"github.com/vovakirdan/tui-tetris/internal/registry"
)

var logoRows = []string{
	"████ ████ ████ ███  █  ███",
	" █   █     █   █  █ █ █   ",
	" █   ███   █   ███  █  ██ ",
	" █   █     █   █ █  █    █",
	" █   ████  █   █  █ █ ███ ",
}

var logoColors = []core.Color{
	core.ColorBrightCyan,
	core.ColorBrightMagenta,
	core.ColorBrightYellow,
	core.ColorBrightGreen,
}

const (
	rainEvery = 600 * time.Millisecond
	rainSpeed = 6.0 // cells per second
)

// TitleScene shows the logo with pieces raining onto it. Pieces vanish when
// they hit the logo or the bottom of the screen.
type TitleScene struct {
	*engine.Scene

	cfg        config.TetrisConfig
	sounds     engine.SoundBoard
	logger     *log.Logger
	blocksPath string
	seed       int64

	defs   *Definitions
	rng    *rand.Rand
	logo   *engine.Sprite
	prompt *engine.AnimatedSprite
	hint   *engine.Text

	mu        sync.Mutex
	colorIdx  int
	rainTimer time.Duration
	pieces    map[*engine.Sprite]bool
}

// NewTitleScene creates the title scene.
func NewTitleScene(d registry.Deps, opts ...engine.SceneOption) *TitleScene {
	opts = append([]engine.SceneOption{engine.WithNext(SceneGame), engine.WithLogger(d.Logger)}, opts...)
	t := &TitleScene{
		Scene:      engine.NewScene(SceneTitle, d.Bus, opts...),
		cfg:        d.Config,
		sounds:     d.Sounds,
		logger:     d.Logger,
		blocksPath: d.BlocksPath,
		seed:       d.Runtime.Seed,
	}
	if t.sounds == nil {
		t.sounds = engine.Silent{}
	}
	if t.logger == nil {
		t.logger = t.Scene.Logger()
	}
	return t
}

// UseDefinitions sets the block definitions instead of reading them in Load.
func (t *TitleScene) UseDefinitions(defs *Definitions) {
	t.defs = defs
}

func (t *TitleScene) Load() error {
	if t.defs == nil {
		defs, err := loadDefinitions(t.blocksPath, t.cfg, t.logger)
		if err != nil {
			return err
		}
		t.defs = defs
	}

	seed := t.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	t.rng = rand.New(rand.NewSource(seed))

	t.logo = engine.NewSprite(t.Scene, engine.NewMaskTexture(logoRows, logoColors[0]), 0, 0)
	t.logo.SetLayer(layerHud)

	frames := []engine.Texture{
		engine.NewTextTexture("PRESS ENTER TO PLAY", core.ColorBrightWhite),
		engine.NewTextTexture("", core.ColorBrightWhite),
	}
	t.prompt = engine.NewAnimatedSprite(t.Scene, frames, 500*time.Millisecond, 0, 0)
	t.prompt.SetCollidable(false)
	t.prompt.SetLayer(layerHud)

	t.hint = engine.NewText("Q to quit", core.ColorGray, 0, 0)
	t.hint.SetLayer(layerHud)

	engine.Subscribe(t.Bus(), t.onCollision)
	engine.Subscribe(t.Bus(), t.onBoundary)
	engine.Subscribe(t.Bus(), t.onAnimationCompleted)
	return nil
}

func (t *TitleScene) Enter() {
	t.Scene.Enter()
	t.SetNext(SceneGame)

	t.mu.Lock()
	t.pieces = make(map[*engine.Sprite]bool)
	t.rainTimer = 0
	t.mu.Unlock()

	t.Clear()
	t.Add(engine.NewCollisionService(t.Scene))
	t.Add(t.logo)
	t.Add(t.prompt)
	t.Add(t.hint)
	t.prompt.Restart()
}

func (t *TitleScene) Update(f engine.Frame) error {
	if err := t.Scene.Update(f); err != nil {
		return err
	}
	if t.State() != engine.StateActive {
		return nil
	}

	switch {
	case f.Input.Has(core.ActionQuit):
		t.EndTo("")
		return nil
	case f.Input.Has(core.ActionConfirm):
		t.sounds.Play(engine.SoundSelect)
		t.EndTo(SceneGame)
		return nil
	}

	t.layout(f.Viewport)

	t.mu.Lock()
	t.rainTimer += f.Delta
	spawn := t.rainTimer >= rainEvery
	if spawn {
		t.rainTimer = 0
	}
	t.mu.Unlock()

	if spawn && !f.Viewport.Empty() {
		t.rain(f.Viewport)
	}
	return nil
}

// layout centres the logo and the prompt in the viewport.
func (t *TitleScene) layout(vp core.Rect) {
	if vp.Empty() {
		return
	}
	lw, lh := t.logo.Width(), t.logo.Height()
	lx := vp.X + (vp.W-lw)/2
	ly := vp.Y + vp.H/2 - lh
	t.logo.SetPosition(float64(lx), float64(ly))

	pw := len("PRESS ENTER TO PLAY")
	t.prompt.SetPosition(float64(vp.X+(vp.W-pw)/2), float64(ly+lh+2))
	t.hint.SetPosition(float64(vp.X+(vp.W-t.hint.Width())/2), float64(ly+lh+4))
}

// rain drops a random piece from the top of the viewport.
func (t *TitleScene) rain(vp core.Rect) {
	idx := t.rng.Intn(len(t.defs.Blocks))
	def := t.defs.Blocks[idx]
	rot := def.Rotations[t.rng.Intn(len(def.Rotations))]
	tex := tileTexture(rot, max(t.cfg.Board.TileWidth, 1), colorFor(idx))

	maxX := vp.W - tex.Width() - 1
	if maxX < 1 {
		return
	}
	x := vp.X + 1 + t.rng.Intn(maxX)

	piece := engine.NewSprite(t.Scene, tex, float64(x), float64(vp.Y+1))
	piece.SetVelocity(0, rainSpeed)
	piece.SetLayer(layerBlocks)

	t.mu.Lock()
	t.pieces[piece] = true
	t.mu.Unlock()
	t.Add(piece)
}

func (t *TitleScene) isPiece(e any) (*engine.Sprite, bool) {
	s, ok := e.(*engine.Sprite)
	if !ok {
		return nil, false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return s, t.pieces[s]
}

func (t *TitleScene) drop(s *engine.Sprite) {
	s.Deactivate()
	t.mu.Lock()
	delete(t.pieces, s)
	t.mu.Unlock()
}

// onCollision removes pieces that hit the logo.
func (t *TitleScene) onCollision(_ any, msg engine.CollisionDetected) {
	if _, hit := msg.Involves(t.logo); !hit {
		return
	}
	for _, e := range []engine.Collidable{msg.A, msg.B} {
		if p, ok := t.isPiece(e); ok {
			t.drop(p)
		}
	}
}

// onBoundary removes pieces that reached the bottom edge.
func (t *TitleScene) onBoundary(sender any, msg engine.BoundaryReached) {
	if !msg.Boundary.Has(engine.BoundaryBottom) {
		return
	}
	if p, ok := t.isPiece(sender); ok {
		t.drop(p)
	}
}

// onAnimationCompleted cycles the logo color on every prompt blink.
func (t *TitleScene) onAnimationCompleted(_ any, msg engine.AnimationCompleted) {
	if msg.Sprite != t.prompt {
		return
	}
	t.mu.Lock()
	t.colorIdx = (t.colorIdx + 1) % len(logoColors)
	c := logoColors[t.colorIdx]
	t.mu.Unlock()
	t.logo.SetTexture(engine.NewMaskTexture(logoRows, c))
}

// Pieces returns how many rain pieces are alive.
func (t *TitleScene) Pieces() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.pieces)
}
