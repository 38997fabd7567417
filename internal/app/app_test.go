package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/memory-beacon/config"
	"github.com/user/memory-beacon/internal/game"
	"github.com/user/memory-beacon/internal/types"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestBuild(t *testing.T) {
	// Setup
	cfg := config.DefaultConfig()
	cfg.Storage.Driver = "memory"
	cfg.Game.Seed = 3

	// Test case 1: the default configuration builds a playable session
	session, closer, err := Build(cfg, zap.NewNop(), nil)
	require.NoError(t, err)
	defer closer.Close()

	session.NewGame()
	assert.Equal(t, "scene1", session.Status().Scene)
	assert.Equal(t, 5, session.Saves().SlotCount())

	// Test case 2: an unknown start scene is rejected
	cfg.Game.StartScene = "attic"
	_, _, err = Build(cfg, zap.NewNop(), nil)
	assert.Error(t, err)

	// Test case 3: an unknown driver is rejected
	cfg = config.DefaultConfig()
	cfg.Storage.Driver = "etcd"
	_, _, err = Build(cfg, zap.NewNop(), nil)
	assert.Error(t, err)

	// Test case 4: a missing content directory is rejected
	cfg = config.DefaultConfig()
	cfg.Storage.Driver = "memory"
	cfg.Game.ContentDir = t.TempDir()
	_, _, err = Build(cfg, zap.NewNop(), nil)
	assert.Error(t, err)
}

func TestBuildReopensSaves(t *testing.T) {
	// Setup
	cfg := config.DefaultConfig()
	cfg.Storage.Dir = t.TempDir()

	session, closer, err := Build(cfg, zap.NewNop(), nil)
	require.NoError(t, err)
	session.NewGame()
	session.MoveTo(types.Vec3{X: 3, Z: -2})
	require.NoError(t, session.Save(1, "before closing"))
	session.Saves().Wait()
	session.Tick(0, game.Input{})
	require.NoError(t, closer.Close())

	// Test case 1: a second build sees the slot written by the first
	reopened, closer, err := Build(cfg, zap.NewNop(), nil)
	require.NoError(t, err)
	defer closer.Close()

	slots := reopened.Saves().Slots()
	require.True(t, slots[1].Exists)
	assert.Equal(t, "before closing", slots[1].Description)

	require.NoError(t, reopened.Load(1))
	assert.Equal(t, 3.0, reopened.Player().Position.X)
}

func TestLogEffects(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	fx := NewLogEffects(zap.New(core))

	fx.PlaySound("collect")
	fx.PlayAmbient("scene1")
	fx.SetDistortionIntensity(0.5)
	fx.SpawnMemoryEffect(types.Vec3{X: 1}, "meeting")

	require.Equal(t, 4, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "Play sound", entry.Message)
	assert.Equal(t, "effects", entry.LoggerName)
	assert.Equal(t, "collect", entry.ContextMap()["sound"])
}
