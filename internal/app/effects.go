package app

import (
	"github.com/user/memory-beacon/internal/interfaces"
	"github.com/user/memory-beacon/internal/types"
	"go.uber.org/zap"
)

// LogEffects writes presentation requests to the log for headless hosts
type LogEffects struct {
	logger *zap.Logger
}

var _ interfaces.Effects = (*LogEffects)(nil)

// NewLogEffects creates a log-backed effects sink
func NewLogEffects(logger *zap.Logger) *LogEffects {
	return &LogEffects{logger: logger.Named("effects")}
}

func (l *LogEffects) PlaySound(name string) {
	l.logger.Debug("Play sound", zap.String("sound", name))
}

func (l *LogEffects) PlayAmbient(name string) {
	l.logger.Debug("Play ambient", zap.String("ambient", name))
}

func (l *LogEffects) SetDistortionIntensity(x float64) {
	l.logger.Debug("Distortion", zap.Float64("intensity", x))
}

func (l *LogEffects) SpawnMemoryEffect(position types.Vec3, memoryType string) {
	l.logger.Debug("Memory effect",
		zap.String("memory", memoryType),
		zap.Float64("x", position.X),
		zap.Float64("y", position.Y),
		zap.Float64("z", position.Z))
}
