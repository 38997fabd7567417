package game

import (
	"go.uber.org/zap"
)

// SanityTrigger names a game event that costs or restores sanity
type SanityTrigger int

const (
	TriggerPuzzleSolved SanityTrigger = iota + 1
	TriggerPuzzleLockout
	TriggerHint
	TriggerDeviceWrong
	TriggerMirror
	TriggerPhotoFrame
	TriggerPhotoView
)

// sanityDeltas maps triggers to signed sanity changes
var sanityDeltas = map[SanityTrigger]float64{
	TriggerPuzzleSolved:  RewardPuzzleSolved,
	TriggerPuzzleLockout: -PenaltyLockout,
	TriggerHint:          -PenaltyHint,
	TriggerDeviceWrong:   -PenaltyDeviceWrong,
	TriggerMirror:        -PenaltyMirror,
	TriggerPhotoFrame:    -PenaltyPhotoFrame,
	TriggerPhotoView:     -PenaltyPhotoView,
}

// Disturbance is a random low-sanity presentation effect
type Disturbance string

const (
	DisturbanceFlinch  Disturbance = "flinch"
	DisturbanceWhisper Disturbance = "whisper"
)

// DeriveEffectIntensity maps sanity to a distortion intensity in [0,1]:
// zero at or above LowSanityThreshold, rising linearly to 1 at zero sanity.
func DeriveEffectIntensity(sanity float64) float64 {
	if sanity >= LowSanityThreshold {
		return 0
	}
	if sanity <= 0 {
		return 1
	}
	return (LowSanityThreshold - sanity) / LowSanityThreshold
}

// DisturbanceProbability is the per-frame trigger probability
func DisturbanceProbability(intensity, baseRate float64) float64 {
	return intensity * baseRate
}

// SanityController turns sanity into presentation parameters and applies
// event-driven sanity changes
type SanityController struct {
	env       *Env
	state     *State
	baseRates []disturbanceRate
}

type disturbanceRate struct {
	kind Disturbance
	rate float64
}

// NewSanityController creates a controller over state
func NewSanityController(env *Env, state *State) *SanityController {
	return &SanityController{
		env:   env,
		state: state,
		baseRates: []disturbanceRate{
			{kind: DisturbanceFlinch, rate: FlinchBaseRate},
			{kind: DisturbanceWhisper, rate: WhisperBaseRate},
		},
	}
}

// Apply changes sanity by the amount assigned to trigger
func (c *SanityController) Apply(trigger SanityTrigger) {
	delta, ok := sanityDeltas[trigger]
	if !ok {
		return
	}
	c.env.Logger.Debug("Sanity trigger",
		zap.Int("trigger", int(trigger)),
		zap.Float64("delta", delta))
	if delta > 0 {
		c.state.RestoreSanity(delta)
	} else {
		c.state.ReduceSanity(-delta)
	}
}

// Intensity returns the current distortion intensity
func (c *SanityController) Intensity() float64 {
	return DeriveEffectIntensity(c.state.Sanity())
}

// Probability returns the per-frame probability of a disturbance
func (c *SanityController) Probability(kind Disturbance) float64 {
	for _, r := range c.baseRates {
		if r.kind == kind {
			return DisturbanceProbability(c.Intensity(), r.rate)
		}
	}
	return 0
}

// Sample draws which disturbances fire this frame
func (c *SanityController) Sample() []Disturbance {
	intensity := c.Intensity()
	if intensity == 0 {
		return nil
	}
	var fired []Disturbance
	for _, r := range c.baseRates {
		if c.env.Dice.Chance(DisturbanceProbability(intensity, r.rate)) {
			fired = append(fired, r.kind)
		}
	}
	return fired
}

// Update publishes the intensity and plays any sampled disturbances
func (c *SanityController) Update() []Disturbance {
	c.env.Effects.SetDistortionIntensity(c.Intensity())
	fired := c.Sample()
	for _, d := range fired {
		c.env.Effects.PlaySound(string(d))
	}
	return fired
}
