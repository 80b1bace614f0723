// Package config holds the tunable settings for the game: pure data, no
// game logic. Defaults live in code; an optional YAML file overrides them.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the full settings tree. Field names map 1:1 onto the YAML file.
type Config struct {
	Window   Window   `yaml:"window"`
	Terminal Terminal `yaml:"terminal"`
	Gameplay Gameplay `yaml:"gameplay"`
	Saves    Saves    `yaml:"saves"`
}

// Window controls the display.
type Window struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
	Scale  int    `yaml:"scale"`
}

// Terminal controls the in-game terminal surface.
type Terminal struct {
	Cols     int     `yaml:"cols"`
	Rows     int     `yaml:"rows"`
	FontSize float64 `yaml:"font_size"`
}

// Gameplay holds starting resources and site tuning.
type Gameplay struct {
	StartPower  float64 `yaml:"start_power"`
	StartMemory float64 `yaml:"start_memory"`
	StartEnergy float64 `yaml:"start_energy"`
	EnergyDrain float64 `yaml:"energy_drain"`
	Seed        int64   `yaml:"seed"` // 0 means pick one at startup
	SiteProfile string  `yaml:"site_profile"`
}

// Saves controls run-stats persistence.
type Saves struct {
	Dir     string `yaml:"dir"`
	Enabled bool   `yaml:"enabled"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Window: Window{
			Width:  1280,
			Height: 720,
			Title:  "DIG.EXCAVATION",
			Scale:  1,
		},
		Terminal: Terminal{
			Cols:     80,
			Rows:     40,
			FontSize: 14,
		},
		Gameplay: Gameplay{
			StartPower:  100,
			StartMemory: 50,
			StartEnergy: 80,
			EnergyDrain: 1,
			SiteProfile: "corporate",
		},
		Saves: Saves{
			Dir:     "saves",
			Enabled: true,
		},
	}
}

// Load merges the YAML file at path over the defaults. A missing file is
// not an error — defaults are returned as-is.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}
