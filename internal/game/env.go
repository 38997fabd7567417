package game

import (
	"math/rand"
	"time"

	"github.com/user/memory-beacon/internal/interfaces"
	"github.com/user/memory-beacon/internal/types"
	"go.uber.org/zap"
)

// Env is the shared context handed to every component constructor
type Env struct {
	Logger  *zap.Logger
	Events  *EventBus
	Effects *SafeEffects
	Dice    *DiceRoller
	Clock   func() time.Time
}

// NewEnv creates an environment with a no-op logger and effects sink
func NewEnv() *Env {
	logger := zap.NewNop()
	return &Env{
		Logger:  logger,
		Events:  NewEventBus(),
		Effects: NewSafeEffects(nil, logger),
		Dice:    NewDiceRoller(0),
		Clock:   func() time.Time { return time.Now().UTC().Round(0) },
	}
}

// WithLogger replaces the logger used by the env and its effects guard
func (e *Env) WithLogger(logger *zap.Logger) *Env {
	e.Logger = logger
	e.Effects.logger = logger
	return e
}

// WithEffects routes presentation requests to fx
func (e *Env) WithEffects(fx interfaces.Effects) *Env {
	e.Effects.fx = fx
	return e
}

// Now returns the current time from the env clock
func (e *Env) Now() time.Time {
	return e.Clock()
}

// SafeEffects forwards to an Effects collaborator and swallows its failures
type SafeEffects struct {
	fx     interfaces.Effects
	logger *zap.Logger
}

// NewSafeEffects wraps fx; a nil fx drops every request
func NewSafeEffects(fx interfaces.Effects, logger *zap.Logger) *SafeEffects {
	return &SafeEffects{fx: fx, logger: logger}
}

func (s *SafeEffects) call(op string, fn func(interfaces.Effects)) {
	if s.fx == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			s.logger.Warn("Effects collaborator failed",
				zap.String("op", op),
				zap.Any("panic", r))
		}
	}()
	fn(s.fx)
}

func (s *SafeEffects) PlaySound(name string) {
	s.call("play_sound", func(fx interfaces.Effects) { fx.PlaySound(name) })
}

func (s *SafeEffects) PlayAmbient(name string) {
	s.call("play_ambient", func(fx interfaces.Effects) { fx.PlayAmbient(name) })
}

func (s *SafeEffects) SetDistortionIntensity(x float64) {
	s.call("set_distortion", func(fx interfaces.Effects) { fx.SetDistortionIntensity(x) })
}

func (s *SafeEffects) SpawnMemoryEffect(position types.Vec3, memoryType string) {
	s.call("spawn_memory_effect", func(fx interfaces.Effects) { fx.SpawnMemoryEffect(position, memoryType) })
}

var _ interfaces.Effects = (*SafeEffects)(nil)

// DiceRoller handles random draws for the game
type DiceRoller struct {
	rng *rand.Rand
}

// NewDiceRoller creates a dice roller; a zero seed is taken from the clock
func NewDiceRoller(seed int64) *DiceRoller {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &DiceRoller{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// Roll rolls a dice with the specified number of sides
func (dr *DiceRoller) Roll(sides int) int {
	return dr.rng.Intn(sides) + 1
}

// Chance reports true with probability p
func (dr *DiceRoller) Chance(p float64) bool {
	if p <= 0 {
		return false
	}
	return dr.rng.Float64() < p
}

// Shuffle returns a shuffled copy of values
func (dr *DiceRoller) Shuffle(values []string) []string {
	out := append([]string(nil), values...)
	dr.rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}
