package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigCreatesDefaultFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestLoadConfigReadsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg := DefaultConfig()
	cfg.Game.PlayerName = "Alex"
	cfg.Save.Slots = 3
	require.NoError(t, SaveConfig(cfg, path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "Alex", loaded.Game.PlayerName)
	assert.Equal(t, 3, loaded.Save.Slots)
	assert.Equal(t, "loveMysterySaves", loaded.Save.Key)
}

func TestLoadConfigRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("MEMORY_BEACON_STORAGE_DRIVER", "sqlite")
	t.Setenv("MEMORY_BEACON_SERVER_PORT", "9090")
	t.Setenv("MEMORY_BEACON_GAME_TICK_RATE", "30")

	cfg := DefaultConfig()
	require.NoError(t, ApplyEnv(&cfg))

	assert.Equal(t, "sqlite", cfg.Storage.Driver)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 30, cfg.Game.TickRate)
	// untouched values keep their defaults
	assert.Equal(t, "./data", cfg.Storage.Dir)
}

func TestApplyEnvRejectsBadNumber(t *testing.T) {
	t.Setenv("MEMORY_BEACON_SAVE_SLOTS", "many")

	cfg := DefaultConfig()
	assert.Error(t, ApplyEnv(&cfg))
}

func TestSaveSectionRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg := DefaultConfig()
	cfg.Save = SavesConfig{Key: "custom", Slots: 2, AutosaveInterval: 0}
	require.NoError(t, SaveConfig(cfg, path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Save, loaded.Save)
}
