// Package config loads the editor server configuration from a YAML file.
package config

import (
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Config is the top-level server configuration.
type Config struct {
	// Addr is the HTTP listen address for the editor API.
	Addr string `mapstructure:"addr"`

	// HistoryLimit bounds the undo history depth.
	HistoryLimit int `mapstructure:"history_limit"`

	Store StoreConfig `mapstructure:"store"`
}

// StoreConfig selects and configures the graph persistence backend.
type StoreConfig struct {
	// Backend is one of "file", "redis" or "memory".
	Backend string `mapstructure:"backend"`

	// Path is the graph directory for the file backend.
	Path string `mapstructure:"path"`

	Redis RedisConfig `mapstructure:"redis"`
}

// RedisConfig configures the redis backend.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// Default returns the configuration used when no file is provided.
func Default() Config {
	return Config{
		Addr:         ":8080",
		HistoryLimit: 100,
		Store: StoreConfig{
			Backend: "file",
			Path:    ".bramble/graphs",
		},
	}
}

// Load reads a YAML config file on top of the defaults. The file is decoded
// into a generic map first and then mapped onto the struct with weak
// typing, so quoted numbers and similar YAML looseness don't fail the load.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return cfg, fmt.Errorf("build config decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Store.Backend {
	case "file", "redis", "memory":
	default:
		return fmt.Errorf("config: unknown store backend %q", c.Store.Backend)
	}
	if c.HistoryLimit <= 0 {
		return fmt.Errorf("config: history_limit must be positive, got %d", c.HistoryLimit)
	}
	return nil
}
