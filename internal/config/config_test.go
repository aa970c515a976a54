package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "grokicad.hcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
proximity {
  base_radius = 25.0
  weights = {
    "capacitor/ic" = 2.5
  }
}

focus {
  max_connected = 30
  min_score     = 0.1
}
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	pcfg := cfg.ProximityConfig()
	require.Equal(t, 25.0, pcfg.BaseRadius)
	require.Equal(t, 1.5, pcfg.DecouplingRadiusScale) // untouched default
	require.Equal(t, 2.5, pcfg.Weights["capacitor/ic"])
	require.Equal(t, 1.2, pcfg.Weights["capacitor/other"]) // untouched default

	opts := cfg.FocusOptions()
	require.Equal(t, 30, opts.MaxConnected)
	require.Equal(t, 10, opts.MaxNearby) // untouched default
	require.Equal(t, 0.1, opts.MinScore)
}

func TestLoadEmptyFileKeepsDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	require.Equal(t, 20.0, cfg.ProximityConfig().BaseRadius)
	require.Equal(t, 20, cfg.FocusOptions().MaxConnected)
}

func TestLoadRejectsBadSyntax(t *testing.T) {
	_, err := Load(writeConfig(t, `proximity { base_radius = `))
	require.Error(t, err)
}

func TestNilConfigYieldsDefaults(t *testing.T) {
	var cfg *Config
	require.Equal(t, 20.0, cfg.ProximityConfig().BaseRadius)
	require.Equal(t, 0.2, cfg.FocusOptions().MinScore)
}
