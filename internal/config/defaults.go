package config

import (
	_ "embed"
)

//go:embed defaults/tetris.yaml
var defaultTetrisYAML []byte

//go:embed defaults/blocks.yaml
var defaultBlocksYAML []byte

// DefaultTetrisConfig returns the default game configuration.
func DefaultTetrisConfig() TetrisConfig {
	return TetrisConfig{
		Board: BoardConfig{
			Width:     12,
			Height:    24,
			TileWidth: 2,
		},
		Timing: TimingConfig{
			FallIntervalMs:    1000,
			FallDecrementMs:   50,
			MinFallIntervalMs: 50,
			KeyDelayMs:        80,
			EndDelayMs:        1500,
			FpsSampleSeconds:  5,
		},
		Scoring: ScoringConfig{
			RowsPerLevel: 30,
			RowScores: map[int]int{
				1: 10,
				2: 20,
				3: 50,
				4: 100,
			},
		},
		Difficulty: DifficultyConfig{
			StartLevel:  1,
			Progression: true,
		},
		Audio: AudioConfig{
			Enabled:      true,
			MusicVolume:  0.2,
			EffectVolume: 0.1,
		},
	}
}

// GetDefaultYAML returns the embedded default YAML for a file name.
func GetDefaultYAML(name string) []byte {
	switch name {
	case configFile, "tetris":
		return defaultTetrisYAML
	case blocksFile, "blocks":
		return defaultBlocksYAML
	default:
		return nil
	}
}
