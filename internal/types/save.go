package types

import "time"

// SaveFile is the whole persisted save record
type SaveFile struct {
	Version      string        `json:"version"`
	Game         string        `json:"game"`
	CreatedAt    time.Time     `json:"created_at"`
	LastModified time.Time     `json:"last_modified"`
	Slots        []SaveSlot    `json:"slots"`
	Settings     Settings      `json:"settings"`
	Statistics   Statistics    `json:"statistics"`
	Achievements []Achievement `json:"achievements"`
}

// SaveSlot is one named snapshot
type SaveSlot struct {
	Slot        int        `json:"slot"`
	Exists      bool       `json:"exists"`
	Description string     `json:"description"`
	Timestamp   *time.Time `json:"timestamp"`
	PlayTime    float64    `json:"play_time"`
	Scene       string     `json:"scene"`
	Preview     string     `json:"preview"`
	Data        *Snapshot  `json:"data"`
}

// Snapshot is the complete versioned serialization of a session
type Snapshot struct {
	Version      string          `json:"version"`
	GameState    *GameState      `json:"game_state"`
	Inventory    []InventoryItem `json:"inventory"`
	Photos       []PhotoEntry    `json:"photos"`
	Puzzles      *PuzzleRecord   `json:"puzzles"`
	Player       PlayerState     `json:"player"`
	World        WorldState      `json:"world"`
	Quests       QuestState      `json:"quests"`
	Collectibles Collectibles    `json:"collectibles"`
	Metadata     SaveMetadata    `json:"metadata"`
}

// PlayerState is the player transform and vitals
type PlayerState struct {
	Position Vec3    `json:"position"`
	Rotation Vec3    `json:"rotation"`
	Sanity   float64 `json:"sanity"`
	Health   float64 `json:"health"`
}

// WorldState describes where the player is
type WorldState struct {
	CurrentScene    string   `json:"current_scene"`
	Time            float64  `json:"time"`
	Weather         string   `json:"weather"`
	DiscoveredAreas []string `json:"discovered_areas"`
}

// QuestState tracks narrative progress
type QuestState struct {
	Main      string   `json:"main"`
	Side      []string `json:"side"`
	Completed []string `json:"completed"`
}

// Collectibles summarizes collection progress
type Collectibles struct {
	PhotosFound    int `json:"photos_found"`
	TotalPhotos    int `json:"total_photos"`
	ItemsCollected int `json:"items_collected"`
}

// SaveMetadata records who wrote a snapshot
type SaveMetadata struct {
	SaveVersion string    `json:"save_version"`
	GameVersion string    `json:"game_version"`
	Platform    string    `json:"platform"`
	Created     time.Time `json:"created"`
}

// Settings are player preferences stored alongside the slots
type Settings struct {
	Volume     float64 `json:"volume"`
	Muted      bool    `json:"muted"`
	Resolution string  `json:"resolution"`
	Fullscreen bool    `json:"fullscreen"`
	Language   string  `json:"language"`
	Subtitles  bool    `json:"subtitles"`
}

// Statistics are lifetime counters across all slots
type Statistics struct {
	TotalPlayTime   float64  `json:"total_play_time"`
	Deaths          int      `json:"deaths"`
	PuzzlesSolved   int      `json:"puzzles_solved"`
	PhotosFound     int      `json:"photos_found"`
	ItemsCollected  int      `json:"items_collected"`
	SanityLowest    float64  `json:"sanity_lowest"`
	EndingsUnlocked []string `json:"endings_unlocked"`
}

// Achievement is a one-time unlock
type Achievement struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	UnlockedAt  time.Time `json:"unlocked_at"`
}

// SlotSummary is the listing view of a slot without its data
type SlotSummary struct {
	Slot        int        `json:"slot"`
	Exists      bool       `json:"exists"`
	Description string     `json:"description"`
	Timestamp   *time.Time `json:"timestamp"`
	PlayTime    float64    `json:"play_time"`
	Scene       string     `json:"scene"`
	Preview     string     `json:"preview"`
}
