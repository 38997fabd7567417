package game

import (
	"math"
	"slices"

	"github.com/user/memory-beacon/internal/types"
	"go.uber.org/zap"
)

// Identity holds the fields a new game keeps
type Identity struct {
	PlayerName   string
	PartnerName  string
	MeetingDate  string
	TogetherDate string
}

// State owns the authoritative GameState record
type State struct {
	env        *Env
	data       types.GameState
	startScene string
}

// NewState creates a state with defaults; the game is not started yet
func NewState(env *Env, id Identity, startScene string) *State {
	s := &State{env: env, startScene: startScene}
	s.data = s.defaults(id)
	return s
}

func (s *State) defaults(id Identity) types.GameState {
	return types.GameState{
		PlayerName:      id.PlayerName,
		PartnerName:     id.PartnerName,
		MeetingDate:     id.MeetingDate,
		TogetherDate:    id.TogetherDate,
		Sanity:          MaxSanity,
		SanityLowest:    MaxSanity,
		CollectedItems:  []string{},
		TotalPhotos:     TotalPhotos,
		CurrentScene:    s.startScene,
		DiscoveredAreas: []string{},
		EndingsReached:  []string{},
	}
}

// Data returns a copy of the current record
func (s *State) Data() types.GameState {
	return cloneGameState(s.data)
}

func (s *State) Sanity() float64   { return s.data.Sanity }
func (s *State) Started() bool     { return s.data.GameStarted }
func (s *State) Scene() string     { return s.data.CurrentScene }
func (s *State) Note() string      { return s.data.CurrentNote }
func (s *State) PlayTime() float64 { return s.data.PlayTime }

// ReduceSanity lowers sanity, clamped at zero. Crossing from above zero
// to zero emits SanityBroken once.
func (s *State) ReduceSanity(amount float64) {
	if amount <= 0 {
		return
	}
	before := s.data.Sanity
	s.data.Sanity = math.Max(0, before-amount)
	if s.data.Sanity < s.data.SanityLowest {
		s.data.SanityLowest = s.data.Sanity
	}
	s.env.Events.Emit(Event{Kind: EventSanityChanged, Value: s.data.Sanity})

	if before > 0 && s.data.Sanity == 0 {
		s.data.Deaths++
		s.env.Logger.Info("Sanity broken", zap.Float64("amount", amount))
		s.env.Events.Emit(Event{Kind: EventSanityBroken})
	}
}

// RestoreSanity raises sanity, capped at MaxSanity
func (s *State) RestoreSanity(amount float64) {
	if amount <= 0 {
		return
	}
	s.data.Sanity = math.Min(MaxSanity, s.data.Sanity+amount)
	s.env.Events.Emit(Event{Kind: EventSanityChanged, Value: s.data.Sanity})
}

// Tick applies passive recovery and accumulates play time
func (s *State) Tick(dt float64) {
	if dt > 0 {
		s.data.PlayTime += dt
	}
	if s.data.Sanity < MaxSanity {
		s.data.Sanity = math.Min(MaxSanity, s.data.Sanity+PassiveRecovery)
	}
}

// StartNewGame resets progress but keeps identity fields
func (s *State) StartNewGame() {
	id := Identity{
		PlayerName:   s.data.PlayerName,
		PartnerName:  s.data.PartnerName,
		MeetingDate:  s.data.MeetingDate,
		TogetherDate: s.data.TogetherDate,
	}
	s.data = s.defaults(id)
	s.data.GameStarted = true
	s.Discover(s.startScene)
}

// Collect records an item id; it reports false if already collected
func (s *State) Collect(itemID string) bool {
	if slices.Contains(s.data.CollectedItems, itemID) {
		return false
	}
	s.data.CollectedItems = append(s.data.CollectedItems, itemID)
	return true
}

// HasCollected reports whether itemID was collected
func (s *State) HasCollected(itemID string) bool {
	return slices.Contains(s.data.CollectedItems, itemID)
}

// SetProgress updates the cached counters
func (s *State) SetProgress(photosFound, puzzlesSolved int) {
	s.data.PhotosFound = photosFound
	s.data.PuzzlesSolved = puzzlesSolved
}

// CountItemCollected increments the lifetime pickup counter
func (s *State) CountItemCollected() {
	s.data.ItemsCollected++
}

// SetScene changes the active location
func (s *State) SetScene(sceneID string) {
	s.data.CurrentScene = sceneID
	s.Discover(sceneID)
}

// Discover records a visited area
func (s *State) Discover(area string) {
	if area != "" && !slices.Contains(s.data.DiscoveredAreas, area) {
		s.data.DiscoveredAreas = append(s.data.DiscoveredAreas, area)
	}
}

// SetNote replaces the player scratchpad
func (s *State) SetNote(text string) {
	s.data.CurrentNote = text
}

// ReachEnding records an ending; it reports false if already reached
func (s *State) ReachEnding(endingID string) bool {
	if slices.Contains(s.data.EndingsReached, endingID) {
		return false
	}
	s.data.EndingsReached = append(s.data.EndingsReached, endingID)
	return true
}

// LoadFrom replaces the whole record, or fails leaving it untouched
func (s *State) LoadFrom(gs *types.GameState) error {
	if err := validateGameState(gs); err != nil {
		return err
	}
	s.data = cloneGameState(*gs)
	if s.data.CollectedItems == nil {
		s.data.CollectedItems = []string{}
	}
	if s.data.DiscoveredAreas == nil {
		s.data.DiscoveredAreas = []string{}
	}
	if s.data.EndingsReached == nil {
		s.data.EndingsReached = []string{}
	}
	return nil
}

// Snapshot returns a copy for persistence
func (s *State) Snapshot() *types.GameState {
	gs := cloneGameState(s.data)
	return &gs
}

func validateGameState(gs *types.GameState) error {
	if gs == nil {
		return newError(CodeDeserialization, "missing game state")
	}
	if math.IsNaN(gs.Sanity) || gs.Sanity < 0 || gs.Sanity > MaxSanity {
		return newError(CodeDeserialization, "sanity %v out of range", gs.Sanity)
	}
	if gs.PhotosFound < 0 || gs.PhotosFound > TotalPhotos {
		return newError(CodeDeserialization, "photos found %d out of range", gs.PhotosFound)
	}
	if gs.PuzzlesSolved < 0 {
		return newError(CodeDeserialization, "negative puzzles solved")
	}
	if gs.CurrentScene == "" {
		return newError(CodeDeserialization, "missing current scene")
	}
	return nil
}

func cloneGameState(gs types.GameState) types.GameState {
	gs.CollectedItems = slices.Clone(gs.CollectedItems)
	gs.DiscoveredAreas = slices.Clone(gs.DiscoveredAreas)
	gs.EndingsReached = slices.Clone(gs.EndingsReached)
	return gs
}
