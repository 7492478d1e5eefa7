// Package config provides configuration loading for repodeck.
//
// Configuration precedence (highest to lowest):
//  1. Environment variables (REPODECK_SCAN_MAX_DEPTH, REPODECK_LOG_LEVEL, ...)
//  2. YAML config file (~/.config/repodeck/config.yaml by default)
//  3. Hardcoded defaults
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Config holds the complete repodeck configuration.
type Config struct {
	Scan   ScanConfig   `koanf:"scan"`
	Cache  CacheConfig  `koanf:"cache"`
	Server ServerConfig `koanf:"server"`
	Log    LogConfig    `koanf:"log"`
}

// ScanConfig controls the directory scanner.
type ScanConfig struct {
	// MaxDepth limits how deep below a scan root candidate directories
	// are collected.
	MaxDepth int `koanf:"max_depth"`

	// SizeDepth limits the walk used for directory size calculation.
	SizeDepth int `koanf:"size_depth"`

	// SkipDirs replaces the built-in skip list when non-empty.
	SkipDirs []string `koanf:"skip_dirs"`
}

// CacheConfig controls the on-disk repository cache.
type CacheConfig struct {
	// Dir is the cache directory. Empty means
	// <user cache dir>/repodeck.
	Dir string `koanf:"dir"`

	// MaxHistory is how many timestamped cache backups to keep.
	MaxHistory int `koanf:"max_history"`
}

// ServerConfig holds the serve-mode HTTP listener settings.
type ServerConfig struct {
	Host string `koanf:"host"`
	Port int    `koanf:"port"`
}

// LogConfig controls zap construction.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `koanf:"level"`

	// Format is "console" or "json".
	Format string `koanf:"format"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Scan: ScanConfig{
			MaxDepth:  3,
			SizeDepth: 2,
		},
		Cache: CacheConfig{
			MaxHistory: 10,
		},
		Server: ServerConfig{
			Host: "localhost",
			Port: 9480,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	if c.Scan.MaxDepth < 1 {
		return fmt.Errorf("scan.max_depth must be at least 1, got %d", c.Scan.MaxDepth)
	}
	if c.Scan.SizeDepth < 1 {
		return fmt.Errorf("scan.size_depth must be at least 1, got %d", c.Scan.SizeDepth)
	}
	if c.Cache.MaxHistory < 1 {
		return fmt.Errorf("cache.max_history must be at least 1, got %d", c.Cache.MaxHistory)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535, got %d", c.Server.Port)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("log.format must be console or json, got %q", c.Log.Format)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error, got %q", c.Log.Level)
	}
	return nil
}

// CacheDir resolves the effective cache directory.
func (c *Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("resolving user cache directory: %w", err)
	}
	return filepath.Join(base, "repodeck"), nil
}
