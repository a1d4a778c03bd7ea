// Package config loads runtime settings from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds everything the CLI and services need at startup. Values
// come from PENFOLD_* environment variables; the API key falls back to
// the provider's own variable (OPENAI_API_KEY, ANTHROPIC_API_KEY) when
// unset, courtesy of the LLM layer.
type Config struct {
	// DataDir is the base directory holding per-user project
	// workspaces.
	DataDir string `env:"PENFOLD_DATA_DIR" envDefault:"data"`

	// Provider selects the LLM backend, e.g. "openai" or "anthropic".
	Provider string `env:"PENFOLD_PROVIDER" envDefault:"openai"`

	// Model overrides the provider's default model when non-empty.
	Model string `env:"PENFOLD_MODEL"`

	APIKey      string  `env:"PENFOLD_API_KEY"`
	Temperature float64 `env:"PENFOLD_TEMPERATURE" envDefault:"0.7"`
	MaxTokens   int     `env:"PENFOLD_MAX_TOKENS" envDefault:"4096"`
}

// Load parses the environment into a Config.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if cfg.Temperature < 0 || cfg.Temperature > 2 {
		return nil, fmt.Errorf("temperature %v out of range [0, 2]", cfg.Temperature)
	}
	if cfg.MaxTokens <= 0 {
		return nil, fmt.Errorf("max tokens must be positive, got %d", cfg.MaxTokens)
	}
	return &cfg, nil
}
