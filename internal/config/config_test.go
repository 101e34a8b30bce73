package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forgecore/internal/config"
)

func TestLoadFallsBackToDefaultsWithNoConfigFileOrFlags(t *testing.T) {
	dir := t.TempDir()

	cfg, err := config.Load(dir, nil)
	require.NoError(t, err)
	assert.Equal(t, config.Defaults(), cfg)
}

func TestLoadMergesConfigFileOverDefaults(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "engine.yaml"), []byte("tick_rate: 30\nload_radius: 3\n"), 0o644))

	cfg, err := config.Load(dir, nil)
	require.NoError(t, err)
	assert.Equal(t, 30.0, cfg.TickRate)
	assert.Equal(t, int32(3), cfg.LoadRadius)
	assert.Equal(t, config.Defaults().ChunkSize, cfg.ChunkSize, "unset keys keep their default")
}

func TestLoadFlagOverridesConfigFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "engine.yaml"), []byte("tick_rate: 30\n"), 0o644))

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	config.Flags(fs)
	require.NoError(t, fs.Parse([]string{"--tick-rate=144"}))

	cfg, err := config.Load(dir, fs)
	require.NoError(t, err)
	assert.Equal(t, 144.0, cfg.TickRate)
}

func TestLoadRejectsMalformedConfigFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "engine.yaml"), []byte(": not: valid: yaml: ["), 0o644))

	_, err := config.Load(dir, nil)
	assert.Error(t, err)
}

func TestTickDurationMatchesTickRate(t *testing.T) {
	cfg := config.EngineConfig{TickRate: 50}
	assert.Equal(t, 20_000_000.0, float64(cfg.TickDuration().Nanoseconds()))
}
