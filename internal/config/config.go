// Package config provides YAML-based game configuration loading and
// level management for the tetris game.
package config

import (
	"errors"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// TetrisConfig contains all configuration for the game.
type TetrisConfig struct {
	Board      BoardConfig      `yaml:"board"`
	Timing     TimingConfig     `yaml:"timing"`
	Scoring    ScoringConfig    `yaml:"scoring"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
	Audio      AudioConfig      `yaml:"audio"`
}

// BoardConfig defines the playing field.
type BoardConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TileWidth int `yaml:"tile_width"` // Terminal columns per board cell
}

// TimingConfig defines the game cadence. All values are milliseconds except
// the FPS sample period.
type TimingConfig struct {
	FallIntervalMs    int `yaml:"fall_interval_ms"`
	FallDecrementMs   int `yaml:"fall_decrement_ms"`
	MinFallIntervalMs int `yaml:"min_fall_interval_ms"`
	KeyDelayMs        int `yaml:"key_delay_ms"`
	EndDelayMs        int `yaml:"end_delay_ms"`
	FpsSampleSeconds  int `yaml:"fps_sample_seconds"`
}

// ScoringConfig defines the score table and level progression.
type ScoringConfig struct {
	RowsPerLevel int         `yaml:"rows_per_level"`
	RowScores    map[int]int `yaml:"row_scores"` // Rows cleared in one merge -> points
}

// UnmarshalYAML replaces RowScores as a whole when the document sets
// row_scores. Rows missing from the new table score nothing.
func (s *ScoringConfig) UnmarshalYAML(node *yaml.Node) error {
	type plain ScoringConfig
	p := plain(*s)
	p.RowScores = nil
	if err := node.Decode(&p); err != nil {
		return err
	}
	if p.RowScores == nil {
		p.RowScores = s.RowScores
	}
	*s = ScoringConfig(p)
	return nil
}

// DifficultyConfig defines the starting level and whether it rises.
type DifficultyConfig struct {
	StartLevel  int  `yaml:"start_level"`
	Progression bool `yaml:"progression"`
}

// AudioConfig defines sound output.
type AudioConfig struct {
	Enabled      bool    `yaml:"enabled"`
	MusicVolume  float64 `yaml:"music_volume"`  // 0.0 - 1.0
	EffectVolume float64 `yaml:"effect_volume"` // 0.0 - 1.0
}

// FallInterval returns the base fall interval.
func (t TimingConfig) FallInterval() time.Duration {
	return time.Duration(t.FallIntervalMs) * time.Millisecond
}

// KeyDelay returns the minimum time between two processed key presses.
func (t TimingConfig) KeyDelay() time.Duration {
	return time.Duration(t.KeyDelayMs) * time.Millisecond
}

// EndDelay returns how long the exit transition lasts.
func (t TimingConfig) EndDelay() time.Duration {
	return time.Duration(t.EndDelayMs) * time.Millisecond
}

// FpsSample returns the FPS sampling period.
func (t TimingConfig) FpsSample() time.Duration {
	return time.Duration(t.FpsSampleSeconds) * time.Second
}

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid config")

// Validate rejects values the game cannot run with.
func (c TetrisConfig) Validate() error {
	switch {
	case c.Board.Width < 4 || c.Board.Height < 4:
		return fmt.Errorf("%w: board must be at least 4x4, got %dx%d", ErrInvalidConfig, c.Board.Width, c.Board.Height)
	case c.Board.TileWidth < 1:
		return fmt.Errorf("%w: tile_width must be positive", ErrInvalidConfig)
	case c.Timing.FallIntervalMs <= 0 || c.Timing.MinFallIntervalMs <= 0:
		return fmt.Errorf("%w: fall intervals must be positive", ErrInvalidConfig)
	case c.Timing.FallDecrementMs < 0 || c.Timing.KeyDelayMs < 0 || c.Timing.EndDelayMs < 0:
		return fmt.Errorf("%w: timings must not be negative", ErrInvalidConfig)
	case c.Scoring.RowsPerLevel <= 0:
		return fmt.Errorf("%w: rows_per_level must be positive", ErrInvalidConfig)
	case c.Difficulty.StartLevel < 1:
		return fmt.Errorf("%w: start_level must be at least 1", ErrInvalidConfig)
	case c.Audio.MusicVolume < 0 || c.Audio.MusicVolume > 1 || c.Audio.EffectVolume < 0 || c.Audio.EffectVolume > 1:
		return fmt.Errorf("%w: volumes must be within [0, 1]", ErrInvalidConfig)
	}
	for rows, points := range c.Scoring.RowScores {
		if rows < 1 || points < 0 {
			return fmt.Errorf("%w: row_scores entry %d: %d", ErrInvalidConfig, rows, points)
		}
	}
	return nil
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// StartLevelForPreset returns the starting level for a difficulty preset.
func StartLevelForPreset(preset DifficultyPreset) int {
	switch preset {
	case DifficultyNormal:
		return 4
	case DifficultyHard:
		return 10
	default:
		return 1
	}
}

// ParsePreset validates a preset name. The empty string means no preset.
func ParsePreset(s string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(s); p {
	case "", DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, nil
	default:
		return "", fmt.Errorf("config: unknown difficulty %q (easy, normal, hard, fixed)", s)
	}
}

// ApplyPreset modifies the config based on a difficulty preset.
func ApplyPreset(cfg *TetrisConfig, preset DifficultyPreset) {
	if preset == "" {
		return
	}
	cfg.Difficulty.Progression = preset != DifficultyFixed
	cfg.Difficulty.StartLevel = StartLevelForPreset(preset)
}
