package game

import (
	"slices"

	"github.com/user/memory-beacon/internal/types"
)

// Status is a read-only summary for presentation layers
type Status struct {
	Started       bool                  `json:"started"`
	Scene         string                `json:"scene"`
	Sanity        float64               `json:"sanity"`
	Intensity     float64               `json:"intensity"`
	PhotosFound   int                   `json:"photos_found"`
	TotalPhotos   int                   `json:"total_photos"`
	PuzzlesSolved int                   `json:"puzzles_solved"`
	PuzzleCount   int                   `json:"puzzle_count"`
	Note          string                `json:"note"`
	Target        string                `json:"target,omitempty"`
	Hint          string                `json:"hint,omitempty"`
	ActivePuzzle  string                `json:"active_puzzle,omitempty"`
	Device        string                `json:"device,omitempty"`
	Player        types.Transform       `json:"player"`
	Inventory     []types.InventoryItem `json:"inventory"`
	Photos        []string              `json:"photos"`
	Slot          int                   `json:"slot"`
	SaveInFlight  bool                  `json:"save_in_flight"`
	PlayTime      float64               `json:"play_time"`
}

// Status returns the current summary
func (s *Session) Status() Status {
	gs := s.state.Data()
	st := Status{
		Started:       gs.GameStarted,
		Scene:         gs.CurrentScene,
		Sanity:        gs.Sanity,
		Intensity:     s.sanity.Intensity(),
		PhotosFound:   gs.PhotosFound,
		TotalPhotos:   gs.TotalPhotos,
		PuzzlesSolved: gs.PuzzlesSolved,
		PuzzleCount:   s.puzzles.Count(),
		Note:          gs.CurrentNote,
		Device:        s.device,
		Player:        s.player,
		Inventory:     s.inventory.Items(),
		Photos:        s.photos.UnlockedIDs(),
		Slot:          s.slot,
		SaveInFlight:  s.saves.InFlight(),
		PlayTime:      gs.PlayTime,
	}
	if target, ok := s.detector.Target(); ok {
		st.Target = target.ID
		st.Hint = target.Hint
	}
	if active, ok := s.puzzles.Active(); ok {
		st.ActivePuzzle = active
	}
	return st
}

// Notifications returns the most recent player notifications
func (s *Session) Notifications() []string {
	return slices.Clone(s.notifications)
}

// Env returns the session environment
func (s *Session) Env() *Env { return s.env }

// State returns the game state component
func (s *Session) State() *State { return s.state }

// Inventory returns the inventory component
func (s *Session) Inventory() *Inventory { return s.inventory }

// Photos returns the photo registry
func (s *Session) Photos() *PhotoRegistry { return s.photos }

// Puzzles returns the puzzle engine
func (s *Session) Puzzles() *PuzzleEngine { return s.puzzles }

// Saves returns the save manager
func (s *Session) Saves() *SaveManager { return s.saves }

// Sanity returns the sanity effect controller
func (s *Session) Sanity() *SanityController { return s.sanity }

// Player returns the player transform
func (s *Session) Player() types.Transform { return s.player }

// GalleryEntry is one photo as the album shows it; locked photos stay masked
type GalleryEntry struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Date     string `json:"date,omitempty"`
	Clue     string `json:"clue,omitempty"`
	Unlocked bool   `json:"unlocked"`
	Notes    int    `json:"notes"`
}

// Gallery lists every photo in definition order
func (s *Session) Gallery() []GalleryEntry {
	entries := s.photos.Entries()
	out := make([]GalleryEntry, 0, len(entries))
	for _, e := range entries {
		g := GalleryEntry{ID: e.ID, Name: "???", Unlocked: e.Unlocked, Notes: len(e.Notes)}
		if e.Unlocked {
			g.Name, g.Date, g.Clue = e.Name, e.Date, e.Clue
		}
		out = append(out, g)
	}
	return out
}
