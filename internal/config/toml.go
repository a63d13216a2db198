// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Data    DataConfig    `toml:"data"`
	Ripley  RipleyConfig  `toml:"ripley"`
	JIndex  JIndexConfig  `toml:"jindex"`
	Quadrat QuadratConfig `toml:"quadrat"`
	Voronoi VoronoiConfig `toml:"voronoi"`
}

// DataConfig maps input and grouping settings.
type DataConfig struct {
	Path            *string  `toml:"path"`
	Table           *string  `toml:"table"`
	Models          []string `toml:"models"`
	MinLevel        *int     `toml:"min-level"`
	Workers         *int     `toml:"workers"`
	SessionColumn   *int     `toml:"session-column"`
	LevelColumn     *int     `toml:"level-column"`
	RoundsColumn    *int     `toml:"rounds-column"`
	ConditionColumn *int     `toml:"condition-column"`
}

// RipleyConfig maps Ripley's K/L settings.
type RipleyConfig struct {
	Radii     *string `toml:"radii"`
	Deviation *bool   `toml:"deviation"`
}

// JIndexConfig maps J-function settings.
type JIndexConfig struct {
	Radii    *string  `toml:"radii"`
	GridStep *float64 `toml:"grid-step"`
}

// QuadratConfig maps quadrat analysis settings.
type QuadratConfig struct {
	MaxRes *int `toml:"max-res"`
}

// VoronoiConfig maps Voronoi settings.
type VoronoiConfig struct {
	GridStep *float64 `toml:"grid-step"`
	Metric   *string  `toml:"metric"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
