// Package app assembles a session from configuration
package app

import (
	"fmt"
	"io"

	"github.com/user/memory-beacon/config"
	"github.com/user/memory-beacon/internal/content"
	"github.com/user/memory-beacon/internal/game"
	"github.com/user/memory-beacon/internal/interfaces"
	"github.com/user/memory-beacon/internal/storage"
	"github.com/user/memory-beacon/internal/world"
	"go.uber.org/zap"
)

// Build wires content, world, storage and effects into a session. The
// returned closer releases the storage backend.
func Build(cfg config.Config, logger *zap.Logger, fx interfaces.Effects) (*game.Session, io.Closer, error) {
	pack, err := content.NewDataLoader(cfg.Game.ContentDir).Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load content: %w", err)
	}
	logger.Info("Loaded content",
		zap.Int("photos", len(pack.Photos)),
		zap.Int("puzzles", len(pack.Puzzles)),
		zap.Int("scenes", len(pack.Scenes)))

	w := world.New(pack)
	w.Logger = logger.Named("world")

	store, closer, err := storage.Open(cfg.Storage)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open storage: %w", err)
	}

	env := game.NewEnv().WithLogger(logger)
	env.Dice = game.NewDiceRoller(cfg.Game.Seed)
	if fx != nil {
		env.WithEffects(fx)
	}

	session, err := game.NewSession(env, pack, w, store, game.Options{
		Identity: game.Identity{
			PlayerName:   cfg.Game.PlayerName,
			PartnerName:  cfg.Game.PartnerName,
			MeetingDate:  cfg.Game.MeetingDate,
			TogetherDate: cfg.Game.TogetherDate,
		},
		StartScene: cfg.Game.StartScene,
		SaveKey:    cfg.Save.Key,
		SaveSlots:  cfg.Save.Slots,
	})
	if err != nil {
		closer.Close()
		return nil, nil, fmt.Errorf("failed to create session: %w", err)
	}
	return session, closer, nil
}
