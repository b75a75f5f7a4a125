package main

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Theme           string  `toml:"theme"`
	FontSize        float64 `toml:"font_size"`
	ExportScale     float64 `toml:"export_scale"`
	DebounceMS      int     `toml:"debounce_ms"`
	ExportDirectory string  `toml:"export_directory"`
}

func defaultConfig() *Config {
	return &Config{
		Theme:       "auto",
		FontSize:    12,
		ExportScale: 1.0,
		DebounceMS:  300,
	}
}

// loadConfig reads the TOML config, falling back to defaults when the
// file is missing or unreadable. A broken config never blocks launch.
func loadConfig() *Config {
	config := defaultConfig()

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return config
	}

	candidates := []string{
		filepath.Join(homeDir, ".config", "strukt", "strukt.toml"),
		filepath.Join(homeDir, ".struktrc"),
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if _, err := toml.DecodeFile(path, config); err != nil {
			return defaultConfig()
		}
		break
	}

	if config.FontSize <= 0 {
		config.FontSize = 12
	}
	if config.ExportScale <= 0 {
		config.ExportScale = 1.0
	}
	if config.DebounceMS <= 0 {
		config.DebounceMS = 300
	}
	return config
}

func (c *Config) Debounce() time.Duration {
	return time.Duration(c.DebounceMS) * time.Millisecond
}

func (c *Config) ExportPath(filename string) string {
	if c.ExportDirectory == "" {
		return filename
	}
	os.MkdirAll(c.ExportDirectory, 0755)
	return filepath.Join(c.ExportDirectory, filename)
}
