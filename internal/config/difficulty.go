package config

import "time"

// LevelManager derives score, level and fall speed from cleared rows.
type LevelManager struct {
	scoring    ScoringConfig
	timing     TimingConfig
	difficulty DifficultyConfig
}

// NewLevelManager creates a new level manager.
func NewLevelManager(cfg TetrisConfig) *LevelManager {
	return &LevelManager{
		scoring:    cfg.Scoring,
		timing:     cfg.Timing,
		difficulty: cfg.Difficulty,
	}
}

// StartLevel returns the level of a fresh game.
func (l *LevelManager) StartLevel() int {
	return max(l.difficulty.StartLevel, 1)
}

// IsEnabled returns whether the level rises with cleared rows.
func (l *LevelManager) IsEnabled() bool {
	return l.difficulty.Progression
}

// Score returns the points for clearing rows in a single merge.
// Counts missing from the table score nothing.
func (l *LevelManager) Score(rows int) int {
	return l.scoring.RowScores[rows]
}

// Level returns the level reached after clearing totalRows.
func (l *LevelManager) Level(totalRows int) int {
	if !l.IsEnabled() || l.scoring.RowsPerLevel <= 0 {
		return l.StartLevel()
	}
	return l.StartLevel() + totalRows/l.scoring.RowsPerLevel
}

// FallInterval returns the automatic descent period at level, shrinking by
// the decrement per level down to the configured floor.
func (l *LevelManager) FallInterval(level int) time.Duration {
	ms := l.timing.FallIntervalMs - (level-1)*l.timing.FallDecrementMs
	ms = max(ms, l.timing.MinFallIntervalMs)
	return time.Duration(ms) * time.Millisecond
}
