// Package config provides centralized configuration management.
// Precedence, lowest to highest: hardcoded defaults, an optional YAML
// file, environment variables. All other parts of the codebase should
// reference these values instead of reading the environment directly.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/1toe/zen-zen/internal/sim"
	"github.com/1toe/zen-zen/internal/sim/field"
)

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port      int    `yaml:"port"`
	DebugPort int    `yaml:"debug_port"`
	TickRate  int    `yaml:"tick_rate"` // simulation ticks per second
	EventLog  string `yaml:"event_log"` // NDJSON sink path, empty disables
}

// DefaultServer returns the default server configuration.
func DefaultServer() ServerConfig {
	return ServerConfig{
		Port:      3000,
		DebugPort: 6060,
		TickRate:  30,
	}
}

// StoreConfig holds persistence settings.
type StoreConfig struct {
	Path string `yaml:"path"` // sqlite file, empty disables persistence
}

// DefaultStore returns the default store configuration.
func DefaultStore() StoreConfig {
	return StoreConfig{Path: "zen.db"}
}

// AppConfig holds the complete application configuration.
type AppConfig struct {
	Server ServerConfig `yaml:"server"`
	Sim    sim.Config   `yaml:"sim"`
	Field  field.Config `yaml:"field"`
	Store  StoreConfig  `yaml:"store"`
}

// Defaults returns the built-in configuration. Sim and Field carry
// their own zero-means-default semantics, so the zero values here are
// already complete.
func Defaults() AppConfig {
	return AppConfig{
		Server: DefaultServer(),
		Sim:    sim.Default(),
		Field:  field.DefaultConfig(),
		Store:  DefaultStore(),
	}
}

// Load builds the configuration. Search order for the YAML file:
// customPath -> $ZEN_CONFIG -> ~/.zen-zen/config.yaml -> ./zen.yaml.
// A missing file is fine; a present but unparsable file is an error.
// Environment variables are applied last.
func Load(customPath string) (AppConfig, error) {
	cfg := Defaults()

	path := configPath(customPath)
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		case customPath != "":
			// Only an explicitly requested file is required to exist.
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

// configPath resolves which YAML file to try.
func configPath(customPath string) string {
	if customPath != "" {
		return customPath
	}
	if p := os.Getenv("ZEN_CONFIG"); p != "" {
		return p
	}
	if home, err := os.UserHomeDir(); err == nil {
		p := filepath.Join(home, ".zen-zen", "config.yaml")
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	if _, err := os.Stat("zen.yaml"); err == nil {
		return "zen.yaml"
	}
	return ""
}

// applyEnv overlays environment variables on top of file values.
func applyEnv(cfg *AppConfig) {
	if p := getEnvInt("PORT", 0); p > 0 {
		cfg.Server.Port = p
	}
	if p := getEnvInt("DEBUG_PORT", 0); p > 0 {
		cfg.Server.DebugPort = p
	}
	if tr := getEnvInt("TICK_RATE", 0); tr > 0 {
		cfg.Server.TickRate = tr
	}
	if el := os.Getenv("EVENT_LOG"); el != "" {
		cfg.Server.EventLog = el
	}
	if db := os.Getenv("ZEN_DB_PATH"); db != "" {
		cfg.Store.Path = db
	}
	if s := getEnvInt64("ZEN_SEED", 0); s != 0 {
		cfg.Sim.Seed = s
	}
	if f := getEnvFloat("DECAY_RATE", 0); f > 0 {
		cfg.Sim.DecayRate = f
	}
	if h := getEnvInt("VICTORY_HARMONY", 0); h > 0 {
		cfg.Sim.VictoryHarmony = h
	}
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvInt64(key string, defaultVal int64) int64 {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}
