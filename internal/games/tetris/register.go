package tetris

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/vovakirdan/tui-tetris/internal/config"
	"github.com/vovakirdan/tui-tetris/internal/engine"
	"github.com/vovakirdan/tui-tetris/internal/registry"
)

// readyDelay is how long the READY caption stays before play starts.
const readyDelay = 800 * time.Millisecond

func init() {
	registry.Register(registry.SceneInfo{Name: SceneTitle, Title: "Title screen", Entry: true}, func(d registry.Deps) engine.Stage {
		return NewTitleScene(d)
	})
	registry.Register(registry.SceneInfo{Name: SceneGame, Title: "Tetris"}, func(d registry.Deps) engine.Stage {
		return NewGameScene(d,
			engine.WithEntry(engine.NewDelayTransition(readyDelay, "READY")),
			engine.WithExit(engine.NewDelayTransition(d.Config.Timing.EndDelay(), "Thanks for playing")),
		)
	})
}

// LoadDefinitions reads, parses and validates the block definitions for cfg's board.
func LoadDefinitions(customPath string, cfg config.TetrisConfig) (*Definitions, config.Source, error) {
	data, src, err := config.ReadBlocks(customPath)
	if err != nil {
		return nil, "", err
	}
	defs, err := ParseDefinitions(data)
	if err != nil {
		return nil, src, err
	}
	if err := defs.Validate(cfg.Board.Width, cfg.Board.Height); err != nil {
		return nil, src, err
	}
	return defs, src, nil
}

// MinScreenSize returns the smallest screen that fits the board and the side panel.
func MinScreenSize(cfg config.TetrisConfig) (w, h int) {
	tile := max(cfg.Board.TileWidth, 1)
	w = 1 + cfg.Board.Width*tile + 3 + hudWidth
	h = max(cfg.Board.Height+2, hudHeight)
	return w, h
}

func loadDefinitions(customPath string, cfg config.TetrisConfig, logger *log.Logger) (*Definitions, error) {
	defs, src, err := LoadDefinitions(customPath, cfg)
	if err != nil {
		return nil, err
	}
	logger.Debug("blocks loaded", "source", src, "count", len(defs.Blocks))
	return defs, nil
}
