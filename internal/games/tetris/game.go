package tetris

import (
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/vovakirdan/tui-tetris/internal/config"
	"github.com/vovakirdan/tui-tetris/internal/core"
	"github.com/vovakirdan/tui-tetris/internal/engine"
	"github.com/vovakirdan/tui-tetris/internal/registry"
)

// Scene names.
const (
	SceneTitle = "title"
	SceneGame  = "main"
)

// bannerBlinks is how many times the game over banner blinks before it stays on.
const bannerBlinks = 3

// Stats is a snapshot of the game progress.
type Stats struct {
	Score    int
	Rows     int
	Level    int
	GameOver bool
	Paused   bool
}

// GameScene runs one game: the falling block, the board, scoring and the HUD.
type GameScene struct {
	*engine.Scene

	cfg        config.TetrisConfig
	levels     *config.LevelManager
	sounds     engine.SoundBoard
	logger     *log.Logger
	blocksPath string
	seed       int64

	defs *Definitions
	rng  *rand.Rand
	bag  *Bag

	board *Board
	block *Block
	next  *Block

	view   *boardView
	hud    *hud
	fps    *engine.FpsService
	banner *engine.AnimatedSprite
	blinks atomic.Int32

	fallInterval time.Duration
	fallTimer    time.Duration
	keyTimer     time.Duration

	score    int
	rows     int
	level    int
	gameOver bool
	paused   bool
}

// NewGameScene creates the game scene. Block definitions are read in Load
// unless UseDefinitions was called before.
func NewGameScene(d registry.Deps, opts ...engine.SceneOption) *GameScene {
	logger := d.Logger
	opts = append([]engine.SceneOption{engine.WithNext(SceneTitle), engine.WithLogger(logger)}, opts...)
	g := &GameScene{
		Scene:      engine.NewScene(SceneGame, d.Bus, opts...),
		cfg:        d.Config,
		levels:     config.NewLevelManager(d.Config),
		sounds:     d.Sounds,
		logger:     logger,
		blocksPath: d.BlocksPath,
		seed:       d.Runtime.Seed,
	}
	if g.sounds == nil {
		g.sounds = engine.Silent{}
	}
	if g.logger == nil {
		g.logger = g.Scene.Logger()
	}
	return g
}

// UseDefinitions sets the block definitions instead of reading them in Load.
func (g *GameScene) UseDefinitions(defs *Definitions) {
	g.defs = defs
}

// Load reads and validates block definitions and builds the HUD.
func (g *GameScene) Load() error {
	if g.defs == nil {
		defs, err := loadDefinitions(g.blocksPath, g.cfg, g.logger)
		if err != nil {
			return err
		}
		g.defs = defs
	} else if err := g.defs.Validate(g.cfg.Board.Width, g.cfg.Board.Height); err != nil {
		return err
	}

	seed := g.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	g.rng = rand.New(rand.NewSource(seed))

	g.view = newBoardView(g)
	g.hud = newHud()
	g.fps = engine.NewFpsService(g.Scene, g.cfg.Timing.FpsSample())
	g.banner = newBanner(g.Scene)

	engine.Subscribe(g.Bus(), g.onFpsSample)
	engine.Subscribe(g.Bus(), g.onAnimationCompleted)
	return nil
}

func newBanner(pub engine.Publisher) *engine.AnimatedSprite {
	frames := []engine.Texture{
		engine.NewTextTexture(" GAME OVER ", core.ColorBrightRed),
		engine.NewTextTexture("           ", core.ColorBrightRed),
	}
	b := engine.NewAnimatedSprite(pub, frames, 400*time.Millisecond, 0, 0)
	b.SetCollidable(false)
	b.SetLayer(layerBanner)
	return b
}

func (g *GameScene) onFpsSample(sender any, msg engine.FpsSample) {
	if sender != any(g.fps) {
		return
	}
	g.hud.showFPS(msg.FPS)
}

func (g *GameScene) onAnimationCompleted(_ any, msg engine.AnimationCompleted) {
	if msg.Sprite != g.banner {
		return
	}
	if g.blinks.Add(1) >= bannerBlinks {
		g.banner.Stop()
	}
}

// Enter starts a new game.
func (g *GameScene) Enter() {
	g.Scene.Enter()
	g.SetNext(SceneTitle)
	g.reset()
}

// Leave stops the music.
func (g *GameScene) Leave() {
	g.sounds.StopMusic()
	g.Scene.Leave()
}

// reset clears the board and the counters and spawns the first block.
func (g *GameScene) reset() {
	g.Clear()
	g.board = NewBoard(g.cfg.Board.Width, g.cfg.Board.Height)
	g.bag = NewBag(g.rng, len(g.defs.Blocks))
	g.block, g.next = nil, nil

	g.score, g.rows = 0, 0
	g.level = g.levels.StartLevel()
	g.fallInterval = g.levels.FallInterval(g.level)
	g.fallTimer, g.keyTimer = 0, 0
	g.gameOver, g.paused = false, false

	g.banner.SetVisible(false)
	g.banner.Stop()

	area, _ := g.layout()
	g.hud.place(area.Right() + 3)

	g.Add(g.fps)
	g.Add(g.view)
	for _, e := range g.hud.entities() {
		g.Add(e)
	}
	g.Add(g.banner)

	g.sounds.PlayMusic()
	g.spawn()
	g.hud.refresh(g.Stats())
}

// layout returns the board area on screen and the cell width.
func (g *GameScene) layout() (core.Rect, int) {
	tile := max(g.cfg.Board.TileWidth, 1)
	return core.NewRect(1, 1, g.cfg.Board.Width*tile, g.cfg.Board.Height), tile
}

// spawn takes the next block from the bag and refreshes the preview.
// A block that cannot fall right after spawning ends the game.
func (g *GameScene) spawn() {
	if g.next != nil {
		g.Remove(g.next)
	}
	area, tile := g.layout()

	idx := g.bag.Next()
	g.block = NewBlock(g.defs.Blocks[idx], g.board, colorFor(idx))
	g.block.place(area, tile)
	g.Add(g.block)

	nextIdx := g.bag.Peek()
	g.next = NewBlockAt(g.defs.Blocks[nextIdx], g.board, g.board.Width()+1, 2, colorFor(nextIdx))
	g.next.place(area, tile)
	g.Add(g.next)

	if g.block.CollisionsWithBoard() {
		g.setGameOver()
	}
}

func (g *GameScene) setGameOver() {
	g.gameOver = true
	g.sounds.StopMusic()
	g.sounds.Play(engine.SoundGameOver)

	area, _ := g.layout()
	g.blinks.Store(0)
	g.banner.Restart()
	g.banner.SetPosition(float64(area.X+(area.W-g.banner.Width())/2), float64(area.Y+area.H/2))
	g.banner.SetVisible(true)
	g.hud.refresh(g.Stats())
	g.logger.Info("game over", "score", g.score, "rows", g.rows, "level", g.level)
}

// Update advances the scene and then the game: input, then the fall timer.
func (g *GameScene) Update(f engine.Frame) error {
	if err := g.Scene.Update(f); err != nil {
		return err
	}
	if g.State() != engine.StateActive {
		return nil
	}

	in := f.Input
	if in.Has(core.ActionQuit) {
		g.EndTo("")
		return nil
	}

	if g.gameOver {
		switch {
		case in.Has(core.ActionRestart):
			g.reset()
		case in.Has(core.ActionConfirm):
			g.EndTo(SceneTitle)
		}
		return nil
	}

	if in.Has(core.ActionPause) {
		g.togglePause()
	}
	if g.paused {
		g.hud.refresh(g.Stats())
		return nil
	}

	g.fallTimer += f.Delta
	if g.fallTimer >= g.fallInterval {
		g.step()
		g.fallTimer = 0
	}

	g.keyTimer += f.Delta
	if !g.gameOver && g.keyTimer > g.cfg.Timing.KeyDelay() && g.handleKeys(in) {
		g.keyTimer = 0
	}

	g.hud.refresh(g.Stats())
	return nil
}

// handleKeys applies at most one movement and reports whether one was pressed.
func (g *GameScene) handleKeys(in core.InputFrame) bool {
	switch {
	case in.Has(core.ActionLeft):
		if g.block.CanMoveLeft() {
			g.block.MoveLeft()
		}
	case in.Has(core.ActionRight):
		if g.block.CanMoveRight() {
			g.block.MoveRight()
		}
	case in.Has(core.ActionDown):
		g.step()
	case in.Has(core.ActionRotate):
		g.block.Rotate()
	default:
		return false
	}
	return true
}

func (g *GameScene) togglePause() {
	g.paused = !g.paused
	if g.paused {
		g.sounds.PauseMusic()
	} else {
		g.sounds.ResumeMusic()
	}
}

// step moves the block one row down, or settles it when it cannot fall.
func (g *GameScene) step() {
	if g.block.CollisionsWithBoard() {
		g.settle()
		return
	}
	g.block.Fall()
}

// settle merges the block, clears rows, updates score and level and spawns
// the next block.
func (g *GameScene) settle() {
	g.block.MergeInto(func() { g.sounds.Play(engine.SoundMerge) })
	cleared := g.board.CleanupFilledRows(func(int) { g.sounds.Play(engine.SoundRowRemoved) })

	g.rows += cleared
	g.score += g.levels.Score(cleared)

	if lvl := g.levels.Level(g.rows); lvl > g.level {
		g.level = lvl
		g.fallInterval = g.levels.FallInterval(lvl)
		g.sounds.PauseMusic()
		g.sounds.Play(engine.SoundLevelUp)
		g.logger.Info("level up", "level", lvl, "fall_interval", g.fallInterval)
	}

	g.block.Deactivate()
	g.Remove(g.block)
	g.spawn()
}

// Stats returns the current progress.
func (g *GameScene) Stats() Stats {
	return Stats{
		Score:    g.score,
		Rows:     g.rows,
		Level:    g.level,
		GameOver: g.gameOver,
		Paused:   g.paused,
	}
}

// Board returns the current board.
func (g *GameScene) Board() *Board { return g.board }

// Current returns the falling block.
func (g *GameScene) Current() *Block { return g.block }

// Preview returns the next-block preview.
func (g *GameScene) Preview() *Block { return g.next }

// FallInterval returns the current automatic descent period.
func (g *GameScene) FallInterval() time.Duration { return g.fallInterval }
