package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-tetris/internal/config"
	"github.com/vovakirdan/tui-tetris/internal/core"
	"github.com/vovakirdan/tui-tetris/internal/engine"
	"github.com/vovakirdan/tui-tetris/internal/games/tetris"
	"github.com/vovakirdan/tui-tetris/internal/platform/audio"
	"github.com/vovakirdan/tui-tetris/internal/platform/tui"
	"github.com/vovakirdan/tui-tetris/internal/registry"
)

var (
	flagDifficulty string
	flagNoSound    bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play the game",
	Long: `Start the title screen, then play.

Controls:
  Left/A, Right/D  - Move
  Up/W/J           - Rotate
  Down/S           - Drop one row
  Enter            - Start / back to title after game over
  P/Esc            - Pause
  R                - Restart
  Q                - Quit
  Ctrl+S           - Screenshot
  ?                - Toggle help
  Ctrl+C           - Force quit

Difficulty options:
  easy   - Start at level 1, progresses
  normal - Start at level 4, progresses
  hard   - Start at level 10, progresses
  fixed  - Level 1, no progression

Examples:
  tetris play
  tetris play --difficulty hard
  tetris play --no-sound --seed 42
  tetris play --config ./my-tetris.yaml --log-file /tmp/tetris.log`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	addPlayFlags(playCmd)
}

func addPlayFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	cmd.Flags().BoolVar(&flagNoSound, "no-sound", false, "Disable music and sound effects")
}

func runPlay(cmd *cobra.Command, args []string) {
	if err := play(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// play runs the game until the host stops. It returns instead of exiting so
// the deferred cleanups release the speaker, drain the bus and close the log.
func play() error {
	cfg, src, err := loadConfig()
	if err != nil {
		return err
	}

	// Fail before the alternate screen hides the message.
	if _, _, err := tetris.LoadDefinitions(flagBlocks, cfg); err != nil {
		return fmt.Errorf("%w\nRun 'tetris blocks check' for details", err)
	}

	logger, closeLog, err := openGameLogger(flagLogFile, flagLogLevel)
	if err != nil {
		return err
	}
	defer closeLog()
	logger.Info("config loaded", "source", src, "board", fmt.Sprintf("%dx%d", cfg.Board.Width, cfg.Board.Height))

	// Get terminal size
	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	// Create runtime config
	rt := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}

	sounds, closeSounds := openSounds(cfg, logger)
	defer closeSounds()

	bus := engine.NewBus(logger)
	host := engine.NewHost(bus, logger)
	defer host.Close()

	deps := registry.Deps{
		Bus:        bus,
		Logger:     logger,
		Sounds:     sounds,
		Runtime:    rt,
		Config:     cfg,
		BlocksPath: flagBlocks,
	}
	if err := registry.Populate(host, deps); err != nil {
		return fmt.Errorf("creating scenes: %w", err)
	}
	if err := host.Start(); err != nil {
		return fmt.Errorf("starting: %w", err)
	}

	minW, minH := tetris.MinScreenSize(cfg)
	if err := tui.Run(host, rt, tui.WithMinSize(minW, minH), tui.WithLogger(logger)); err != nil {
		logger.Error("game stopped", "err", err)
		return err
	}
	logger.Info("bye")
	return nil
}

// loadConfig loads the game config and applies the difficulty preset.
func loadConfig() (config.TetrisConfig, config.Source, error) {
	cfg, src, err := config.LoadTetris(flagConfig)
	if err != nil {
		return cfg, src, err
	}
	preset, err := config.ParsePreset(flagDifficulty)
	if err != nil {
		return cfg, src, err
	}
	config.ApplyPreset(&cfg, preset)
	return cfg, src, nil
}

// openSounds starts the speaker when audio is enabled. Any failure falls
// back to silence so the game still runs.
func openSounds(cfg config.TetrisConfig, logger *log.Logger) (engine.SoundBoard, func()) {
	if flagNoSound || !cfg.Audio.Enabled {
		return engine.Silent{}, func() {}
	}

	board := audio.New(cfg.Audio.MusicVolume, cfg.Audio.EffectVolume, logger)
	if err := board.Init(); err != nil {
		logger.Warn("audio disabled", "err", err)
		return engine.Silent{}, func() {}
	}
	return board, board.Close
}
