// Package config loads the optional TOML configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds everything tunable from the config file.
type Config struct {
	// ListenAddr is where host mode binds the store service.
	ListenAddr string
	// StoreAddr is the store to join ("host:port"). Empty means discover
	// one over mDNS.
	StoreAddr string
	// DBPath is the SQLite file backing a hosted board. Empty keeps the
	// board in memory.
	DBPath string
	// FlushInterval is the cadence of partial pushes while drawing.
	FlushInterval time.Duration
	// PenColor and PenThickness are the starting pen preferences.
	PenColor     string
	PenThickness float64
}

const (
	defaultConfigPath    = "~/.config/real-time-notes/config.toml"
	defaultListenAddr    = ":8787"
	defaultFlushInterval = 100 * time.Millisecond
	defaultPenColor      = "#000000"
	defaultPenThickness  = 4
)

// Load parses the config file at path (or the default location when path is
// empty), falling back to defaults for anything missing. A missing file is
// not an error.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		ListenAddr:    defaultListenAddr,
		FlushInterval: defaultFlushInterval,
		PenColor:      defaultPenColor,
		PenThickness:  defaultPenThickness,
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		ListenAddr      string  `toml:"listen_addr"`
		StoreAddr       string  `toml:"store_addr"`
		DBPath          string  `toml:"db_path"`
		FlushIntervalMS int     `toml:"flush_interval_ms"`
		PenColor        string  `toml:"pen_color"`
		PenThickness    float64 `toml:"pen_thickness"`
	}
	if err := toml.Unmarshal(data, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.ListenAddr); v != "" {
		cfg.ListenAddr = v
	}
	cfg.StoreAddr = strings.TrimSpace(raw.StoreAddr)
	cfg.DBPath = strings.TrimSpace(raw.DBPath)
	if raw.FlushIntervalMS > 0 {
		cfg.FlushInterval = time.Duration(raw.FlushIntervalMS) * time.Millisecond
	}
	if v := strings.TrimSpace(raw.PenColor); v != "" {
		cfg.PenColor = v
	}
	if raw.PenThickness >= 1 && raw.PenThickness <= 20 {
		cfg.PenThickness = raw.PenThickness
	}

	return cfg, nil
}

func resolvePath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		trimmed = defaultConfigPath
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
