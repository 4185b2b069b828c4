package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	configFile = "tetris.yaml"
	blocksFile = "blocks.yaml"
)

// Source describes where a configuration file came from.
type Source string

// SourceEmbedded marks the built-in defaults.
const SourceEmbedded Source = "embedded"

// LoadTetris loads the game configuration.
// Search order: customPath -> ~/.tetris/configs/tetris.yaml -> ./configs/tetris.yaml -> embedded default
func LoadTetris(customPath string) (TetrisConfig, Source, error) {
	data, src, err := find(customPath, configFile, defaultTetrisYAML)
	if err != nil {
		return TetrisConfig{}, "", err
	}

	// Unset keys keep their default values. A row_scores table replaces the
	// default one instead of merging into it.
	cfg := DefaultTetrisConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		if src == SourceEmbedded {
			return DefaultTetrisConfig(), src, nil // Fallback to hardcoded if embed fails
		}
		return TetrisConfig{}, "", fmt.Errorf("config: parse %s: %w", src, err)
	}
	if err := cfg.Validate(); err != nil {
		return TetrisConfig{}, "", fmt.Errorf("config: %s: %w", src, err)
	}
	return cfg, src, nil
}

// ReadBlocks returns the raw block definitions file.
// Search order: customPath -> ~/.tetris/configs/blocks.yaml -> ./configs/blocks.yaml -> embedded default
func ReadBlocks(customPath string) ([]byte, Source, error) {
	return find(customPath, blocksFile, defaultBlocksYAML)
}

// find walks the search order for filename. A custom path that cannot be
// read is an error; the other locations are optional.
func find(customPath, filename string, embedded []byte) ([]byte, Source, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return nil, "", fmt.Errorf("config: read %s: %w", customPath, err)
		}
		return data, Source(customPath), nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath(filename); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			return data, Source(userCfgPath), nil
		}
	}

	// Try local configs directory
	local := filepath.Join("configs", filename)
	if data, err := os.ReadFile(local); err == nil {
		return data, Source(local), nil
	}

	return embedded, SourceEmbedded, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".tetris", "configs", filename)
}
