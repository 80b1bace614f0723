// Package save persists per-run statistics as YAML files under the
// configured saves directory. Best effort: a failed save never interrupts
// the game.
package save

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// RunStats summarises one dig-site run.
type RunStats struct {
	Site               string    `yaml:"site"`
	Seed               int64     `yaml:"seed"`
	Turns              int       `yaml:"turns"`
	ArtifactsRecovered int       `yaml:"artifacts_recovered"`
	ArtifactsSold      int       `yaml:"artifacts_sold"`
	CreditsEarned      float64   `yaml:"credits_earned"`
	EndedAt            time.Time `yaml:"ended_at"`
}

// Write stores stats under dir, creating the directory if needed. The file
// name embeds the end timestamp so runs never overwrite each other.
func Write(dir string, stats RunStats) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating saves dir: %w", err)
	}
	if stats.EndedAt.IsZero() {
		stats.EndedAt = time.Now()
	}

	data, err := yaml.Marshal(stats)
	if err != nil {
		return "", fmt.Errorf("encoding run stats: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("run_%s.yaml", stats.EndedAt.Format("20060102_150405")))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing run stats: %w", err)
	}
	return path, nil
}

// Read loads a single stats file.
func Read(path string) (RunStats, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RunStats{}, fmt.Errorf("reading run stats: %w", err)
	}
	var stats RunStats
	if err := yaml.Unmarshal(data, &stats); err != nil {
		return RunStats{}, fmt.Errorf("parsing run stats %s: %w", path, err)
	}
	return stats, nil
}

// List returns every saved run under dir, oldest first. A missing directory
// yields an empty list.
func List(dir string) ([]RunStats, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("listing saves: %w", err)
	}

	var out []RunStats
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".yaml" {
			continue
		}
		stats, err := Read(filepath.Join(dir, e.Name()))
		if err != nil {
			continue // skip corrupt files, keep the rest
		}
		out = append(out, stats)
	}
	return out, nil
}
