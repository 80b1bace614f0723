package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 1280, cfg.Window.Width)
	assert.Equal(t, "DIG.EXCAVATION", cfg.Window.Title)
	assert.Equal(t, 80, cfg.Terminal.Cols)
	assert.Equal(t, 100.0, cfg.Gameplay.StartPower)
	assert.True(t, cfg.Saves.Enabled)
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesOnlyPresentKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dig.yaml")
	data := `window:
  width: 1920
  height: 1080
gameplay:
  seed: 42
saves:
  enabled: false
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1920, cfg.Window.Width)
	assert.Equal(t, int64(42), cfg.Gameplay.Seed)
	assert.False(t, cfg.Saves.Enabled)
	// Untouched keys keep their defaults.
	assert.Equal(t, "DIG.EXCAVATION", cfg.Window.Title)
	assert.Equal(t, 80, cfg.Terminal.Cols)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("window: [not a map"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
