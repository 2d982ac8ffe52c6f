// Package config loads the run harness configuration: how many games to
// play, with how many seats, and which observers to attach.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds the experiment-loop settings. The rules constants of the
// engine itself are not configured here; they are part of the game.
type Config struct {
	// Games is the number of independent games to simulate.
	Games int `mapstructure:"games"`
	// Players is the number of seats per game.
	Players int `mapstructure:"players"`
	// Seed is the base random seed; game i runs with Seed+i. Zero picks
	// a time-based seed.
	Seed int64 `mapstructure:"seed"`
	// Workers bounds how many games run concurrently.
	Workers int `mapstructure:"workers"`
	// TurnCap overrides the full-round draw cap when positive.
	TurnCap int `mapstructure:"turn_cap"`
	// DatabasePath enables sqlite result persistence when non-empty.
	DatabasePath string `mapstructure:"database_path"`
	// SpectatorAddr enables the websocket spectator feed when non-empty,
	// e.g. ":8080".
	SpectatorAddr string `mapstructure:"spectator_addr"`
	// LogLevel is the zap level for harness and engine logging.
	LogLevel string `mapstructure:"log_level"`
}

// Load reads configuration with defaults, an optional YAML file and
// SIM_-prefixed environment overrides.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("games", 1000)
	v.SetDefault("players", 2)
	v.SetDefault("seed", 0)
	v.SetDefault("workers", 4)
	v.SetDefault("turn_cap", 0)
	v.SetDefault("database_path", "")
	v.SetDefault("spectator_addr", "")
	v.SetDefault("log_level", "info")

	v.SetEnvPrefix("SIM")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if cfg.Games < 1 {
		return nil, fmt.Errorf("config: games must be positive, got %d", cfg.Games)
	}
	if cfg.Players < 2 {
		return nil, fmt.Errorf("config: need at least 2 players, got %d", cfg.Players)
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return &cfg, nil
}
