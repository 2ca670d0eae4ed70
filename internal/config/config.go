// Package config loads the server configuration from a YAML file with
// environment overrides.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ironsheep/image-edit-mcp/internal/history"
	"github.com/ironsheep/image-edit-mcp/internal/raster"
)

// EnvLogLevel overrides log_level when set.
const EnvLogLevel = "IMAGE_EDIT_LOG_LEVEL"

// Config is the image-edit-mcp configuration.
type Config struct {
	LogLevel       string `yaml:"log_level"`        // debug | info | warn | error
	NoiseSeed      uint64 `yaml:"noise_seed"`       // seed for noise adjustments
	HistoryDepth   int    `yaml:"history_depth"`    // entries per undo/redo stack
	PreviewMaxSize int    `yaml:"preview_max_size"` // longest edge of returned frames
	JPEGQuality    int    `yaml:"jpeg_quality"`
	PNGCompression string `yaml:"png_compression"` // default | none | speed | best
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// LoadFile reads a YAML configuration file. Missing keys take their default
// values.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// Load returns the configuration at path, or the defaults when path is
// empty, with environment overrides applied and validated.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		var err error
		if cfg, err = LoadFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.NoiseSeed == 0 {
		c.NoiseSeed = 1
	}
	if c.HistoryDepth <= 0 {
		c.HistoryDepth = history.DefaultDepth
	}
	if c.PreviewMaxSize <= 0 {
		c.PreviewMaxSize = 1024
	}
	if c.JPEGQuality <= 0 {
		c.JPEGQuality = 95
	}
	if c.PNGCompression == "" {
		c.PNGCompression = "default"
	}
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
}

// Validate checks that values are in range.
func (c *Config) Validate() error {
	if _, err := c.Level(); err != nil {
		return err
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		return fmt.Errorf("jpeg_quality must be between 1 and 100, got %d", c.JPEGQuality)
	}
	if c.HistoryDepth < 1 || c.HistoryDepth > history.DefaultDepth {
		return fmt.Errorf("history_depth must be between 1 and %d, got %d", history.DefaultDepth, c.HistoryDepth)
	}
	if c.PreviewMaxSize < 16 {
		return fmt.Errorf("preview_max_size must be at least 16, got %d", c.PreviewMaxSize)
	}
	if _, err := raster.ParsePNGCompression(c.PNGCompression); err != nil {
		return fmt.Errorf("png_compression: %w", err)
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("log_level: %w", err)
	}
	return level, nil
}

// EncodeOptions returns the encoder settings for Save.
func (c *Config) EncodeOptions() raster.EncodeOptions {
	level, _ := raster.ParsePNGCompression(c.PNGCompression)
	return raster.EncodeOptions{JPEGQuality: c.JPEGQuality, PNGCompression: level}
}
