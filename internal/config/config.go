// Package config loads wincrop-demo's runtime settings from a YAML file
// via viper, with flags and environment variables overriding file values.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/kirides/wincrop/capture"
	"github.com/kirides/wincrop/internal/logger"
)

// Config is the on-disk / flag-driven configuration for wincrop-demo.
type Config struct {
	LogLevel   string `mapstructure:"log_level" yaml:"log_level"`
	ListenAddr string `mapstructure:"listen_addr" yaml:"listen_addr"`
	FPS        int    `mapstructure:"fps" yaml:"fps"`
	JPEGQuality int   `mapstructure:"jpeg_quality" yaml:"jpeg_quality"`

	AllowUWPWindowCapture bool `mapstructure:"allow_uwp_window_capture" yaml:"allow_uwp_window_capture"`
	DetectUpdatedRegion   bool `mapstructure:"detect_updated_region" yaml:"detect_updated_region"`

	// UseDXGIScreenCapture swaps the ScreenGrab (BitBlt) backend for
	// graphicsgrab's DXGI Desktop Duplication backend wherever the
	// coordinator would otherwise pick BackendScreen. Off by default:
	// BitBlt needs no device/duplication setup and degrades gracefully
	// on remote desktop sessions where duplication is unavailable.
	UseDXGIScreenCapture bool `mapstructure:"use_dxgi_screen_capture" yaml:"use_dxgi_screen_capture"`
}

// Defaults returns the baseline configuration applied before the config
// file and flags are layered on top.
func Defaults() Config {
	opts := capture.DefaultOptions()
	return Config{
		LogLevel:              "info",
		ListenAddr:            "127.0.0.1:8023",
		FPS:                   30,
		JPEGQuality:           80,
		AllowUWPWindowCapture: opts.AllowUWPWindowCapture,
		DetectUpdatedRegion:   opts.DetectUpdatedRegion,
		UseDXGIScreenCapture:  false,
	}
}

// CaptureOptions maps Config onto capture.Options.
func (c Config) CaptureOptions() capture.Options {
	opts := capture.DefaultOptions()
	opts.AllowUWPWindowCapture = c.AllowUWPWindowCapture
	opts.DetectUpdatedRegion = c.DetectUpdatedRegion
	return opts
}

// Load reads configuration from path (if it exists), then lets
// environment variables prefixed WINCROP_ override file values. Viper
// binding of individual flags is the CLI layer's responsibility
// (commands/root.go), mirroring the teacher's flag/file/env
// precedence.
func Load(path string) (Config, error) {
	cfg := Defaults()

	v := viper.New()
	v.SetEnvPrefix("WINCROP")
	v.AutomaticEnv()
	for key, value := range map[string]interface{}{
		"log_level":                 cfg.LogLevel,
		"listen_addr":               cfg.ListenAddr,
		"fps":                       cfg.FPS,
		"jpeg_quality":              cfg.JPEGQuality,
		"allow_uwp_window_capture":  cfg.AllowUWPWindowCapture,
		"detect_updated_region":     cfg.DetectUpdatedRegion,
		"use_dxgi_screen_capture":   cfg.UseDXGIScreenCapture,
	} {
		v.SetDefault(key, value)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if !os.IsNotExist(err) {
				return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
			}
			logger.WithComponent("config").Info().Str("path", path).Msg("config file not found, using defaults")
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

// DefaultPath returns the conventional config file location under the
// user's config directory.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "wincrop.yaml"
	}
	return filepath.Join(dir, "wincrop", "wincrop.yaml")
}
