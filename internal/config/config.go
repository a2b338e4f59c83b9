package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dusk-sh/dusk/internal/scanner"
)

type Config struct {
	// DBPath overrides the scan history location (default ~/.dusk/dusk.db)
	DBPath string `yaml:"db_path,omitempty"`
	Scan   Scan   `yaml:"scan"`
}

type Scan struct {
	Depth         int `yaml:"depth"`
	TopDirs       int `yaml:"top_dirs"`
	TopFiles      int `yaml:"top_files"`
	MinFileSizeMB int `yaml:"min_file_size_mb"`

	// Per-probe timeouts in seconds; zero means the built-in default
	EnrichTimeoutSec   int `yaml:"enrich_timeout_sec,omitempty"`
	DirScanTimeoutSec  int `yaml:"dir_scan_timeout_sec,omitempty"`
	FastFindTimeoutSec int `yaml:"fast_find_timeout_sec,omitempty"`
	SlowFindTimeoutSec int `yaml:"slow_find_timeout_sec,omitempty"`
}

var defaultConfig = Config{
	Scan: Scan{
		Depth:         1,
		TopDirs:       20,
		TopFiles:      10,
		MinFileSizeMB: 100,
	},
}

func Load(path string) (*Config, error) {
	explicit := path != ""
	if path == "" {
		// Try default locations
		candidates := []string{
			filepath.Join(os.Getenv("HOME"), ".config/dusk/config.yaml"),
			filepath.Join(os.Getenv("HOME"), ".dusk/config.yaml"),
			"config.yaml",
		}
		for _, c := range candidates {
			if _, err := os.Stat(c); err == nil {
				path = c
				break
			}
		}
	}

	var cfg Config
	if path == "" {
		// No config file found - run on defaults
		cfg = defaultConfig
	} else {
		data, err := os.ReadFile(path)
		if err != nil {
			// A path the user asked for must exist; only discovered
			// candidates may silently fall back to defaults.
			if explicit {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
			cfg = defaultConfig
		} else {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, err
			}
		}
	}

	// Apply defaults for missing scan bounds
	if cfg.Scan.Depth == 0 {
		cfg.Scan.Depth = defaultConfig.Scan.Depth
	}
	if cfg.Scan.TopDirs == 0 {
		cfg.Scan.TopDirs = defaultConfig.Scan.TopDirs
	}
	if cfg.Scan.TopFiles == 0 {
		cfg.Scan.TopFiles = defaultConfig.Scan.TopFiles
	}
	if cfg.Scan.MinFileSizeMB == 0 {
		cfg.Scan.MinFileSizeMB = defaultConfig.Scan.MinFileSizeMB
	}

	return &cfg, nil
}

// ScanOptions translates the config into scanner bounds. Unset timeouts
// stay zero so the scanner applies its own defaults.
func (c *Config) ScanOptions() scanner.Options {
	return scanner.Options{
		Depth:           c.Scan.Depth,
		TopDirs:         c.Scan.TopDirs,
		TopFiles:        c.Scan.TopFiles,
		MinFileSizeMB:   c.Scan.MinFileSizeMB,
		EnrichTimeout:   time.Duration(c.Scan.EnrichTimeoutSec) * time.Second,
		DirScanTimeout:  time.Duration(c.Scan.DirScanTimeoutSec) * time.Second,
		FastFindTimeout: time.Duration(c.Scan.FastFindTimeoutSec) * time.Second,
		SlowFindTimeout: time.Duration(c.Scan.SlowFindTimeoutSec) * time.Second,
	}
}
