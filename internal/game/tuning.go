package game

import "time"

// Sanity
const (
	MaxSanity          = 100.0
	PassiveRecovery    = 0.01 // per tick while below MaxSanity
	LowSanityThreshold = 30.0

	FlinchBaseRate  = 0.1
	WhisperBaseRate = 0.01
)

// Sanity costs and rewards by trigger
const (
	PenaltyLockout     = 10.0
	PenaltyHint        = 2.0
	PenaltyDeviceWrong = 15.0
	PenaltyMirror      = 10.0
	PenaltyPhotoFrame  = 5.0
	PenaltyPhotoView   = 2.0
	RewardPuzzleSolved = 15.0
)

// Interaction
const (
	DefaultInteractionRadius = 1.5
	MaxEngagementDistance    = 2.0
)

// Inventory and collection
const (
	InventoryCapacity = 12
	TotalPhotos       = 7
)

// Persistence
const (
	SaveVersion          = "1.0.0"
	PuzzleStateVersion   = "1.0"
	GameID               = "LoveMystery"
	GameVersion          = "1.0.0"
	DefaultSaveKey       = "loveMysterySaves"
	DefaultSlotCount     = 5
	DefaultAutosaveEvery = 5 * time.Minute
)

// Scenes reached through narrative branches
const (
	SceneNightmare = "nightmare"
	SceneFinal     = "final"
)
