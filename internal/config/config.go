package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	ScanPaths []string `toml:"scan_paths"`
	Exclude   Exclude  `toml:"exclude"`
	Rule      Rule     `toml:"rule"`
	Watch     Watch    `toml:"watch"`
	Output    Output   `toml:"output"`
	History   History  `toml:"history"`
	Metrics   Metrics  `toml:"metrics"`
	Alerts    Alerts   `toml:"alerts"`
}

type Exclude struct {
	Dirs  []string `toml:"dirs"`
	Files []string `toml:"files"`
}

type Rule struct {
	// Marker interfaces identifying persistent entities; defaults to the
	// GORM entity marker when empty.
	MarkerInterfaces []string `toml:"marker_interfaces"`
	// Extra method names added to the built-in operation tables.
	ExtraInstanceMethods []string `toml:"extra_instance_methods"`
	ExtraStaticMethods   []string `toml:"extra_static_methods"`
}

type Watch struct {
	Debounce time.Duration `toml:"debounce"`
	// Token-bucket bound on rescan frequency; 0 disables the limiter.
	MaxRescansPerSecond float64 `toml:"max_rescans_per_second"`
}

type Output struct {
	SARIF    string `toml:"sarif"`
	Markdown string `toml:"markdown"`
}

type History struct {
	Path       string `toml:"path"`
	ProjectKey string `toml:"project_key"`
}

type Metrics struct {
	Enabled bool   `toml:"enabled"`
	Addr    string `toml:"addr"`
}

type Alerts struct {
	Beep     bool `toml:"beep"`
	Terminal bool `toml:"terminal"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, err
	}

	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 500 * time.Millisecond
	}

	if len(cfg.ScanPaths) == 0 {
		cfg.ScanPaths = []string{"."}
	}

	if cfg.Metrics.Enabled && cfg.Metrics.Addr == "" {
		cfg.Metrics.Addr = "127.0.0.1:9465"
	}

	if cfg.History.ProjectKey == "" {
		cfg.History.ProjectKey = "default"
	}

	return &cfg, nil
}
