package types

import (
	"math"
	"time"
)

// Vec3 is a point or direction in world space
type Vec3 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

// Add returns the component-wise sum
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

// DistanceTo returns the euclidean distance between two points
func (v Vec3) DistanceTo(o Vec3) float64 {
	dx, dy, dz := v.X-o.X, v.Y-o.Y, v.Z-o.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// Transform is the player's position and orientation
type Transform struct {
	Position Vec3 `json:"position" yaml:"position"`
	Rotation Vec3 `json:"rotation" yaml:"rotation"`
}

// GameState is the authoritative record of progress
type GameState struct {
	PlayerName   string `json:"player_name"`
	PartnerName  string `json:"partner_name"`
	MeetingDate  string `json:"meeting_date"`
	TogetherDate string `json:"together_date"`

	Sanity         float64  `json:"sanity"`
	SanityLowest   float64  `json:"sanity_lowest"`
	CollectedItems []string `json:"collected_items"`
	PhotosFound    int      `json:"photos_found"`
	TotalPhotos    int      `json:"total_photos"`
	PuzzlesSolved  int      `json:"puzzles_solved"`
	ItemsCollected int      `json:"items_collected"`
	CurrentScene   string   `json:"current_scene"`
	CurrentNote    string   `json:"current_note"`
	GameStarted    bool     `json:"game_started"`
	PlayTime       float64  `json:"play_time"`
	Deaths         int      `json:"deaths"`

	DiscoveredAreas []string `json:"discovered_areas"`
	EndingsReached  []string `json:"endings_reached"`
}

// ItemType classifies inventory items
type ItemType string

const (
	ItemPhotoFragment ItemType = "photo_fragment"
	ItemKey           ItemType = "key_item"
	ItemNote          ItemType = "note"
	ItemTool          ItemType = "tool"
)

// Valid reports whether the type is one of the known item types
func (t ItemType) Valid() bool {
	switch t {
	case ItemPhotoFragment, ItemKey, ItemNote, ItemTool:
		return true
	}
	return false
}

// ItemSpec describes an item to be added to the inventory
type ItemSpec struct {
	Type        ItemType          `json:"type" yaml:"type"`
	Name        string            `json:"name" yaml:"name"`
	Description string            `json:"description" yaml:"description"`
	Icon        string            `json:"icon" yaml:"icon"`
	Data        map[string]string `json:"data,omitempty" yaml:"data"`
	Quantity    int               `json:"quantity" yaml:"quantity"`
	Stackable   bool              `json:"stackable" yaml:"stackable"`
	Usable      bool              `json:"usable" yaml:"usable"`
	Consumable  bool              `json:"consumable" yaml:"consumable"`
}

// InventoryItem is an item held in an inventory slot
type InventoryItem struct {
	ID          string            `json:"id"`
	Type        ItemType          `json:"type"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Icon        string            `json:"icon"`
	Data        map[string]string `json:"data,omitempty"`
	Quantity    int               `json:"quantity"`
	Stackable   bool              `json:"stackable"`
	Usable      bool              `json:"usable"`
	Consumable  bool              `json:"consumable"`
	Slot        int               `json:"slot"`
}

// PhotoNote is a player note attached to a photo
type PhotoNote struct {
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
	Tags      []string  `json:"tags"`
}

// PhotoEntry is one memory fragment with its unlock status
type PhotoEntry struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	Date          string      `json:"date"`
	Description   string      `json:"description"`
	Clue          string      `json:"clue"`
	Location      string      `json:"location"`
	Unlocked      bool        `json:"unlocked"`
	FoundTime     *time.Time  `json:"found_time"`
	FoundLocation *string     `json:"found_location"`
	Notes         []PhotoNote `json:"notes"`
}

// PuzzleAttempt is one recorded answer submission
type PuzzleAttempt struct {
	PuzzleID  string    `json:"puzzle_id"`
	Input     string    `json:"input"`
	Timestamp time.Time `json:"timestamp"`
	Correct   bool      `json:"correct"`
}

// PuzzleState is the mutable runtime state of one puzzle
type PuzzleState struct {
	ID          string     `json:"id"`
	Attempts    int        `json:"attempts"`
	Solved      bool       `json:"solved"`
	Locked      bool       `json:"locked"`
	HintsUsed   int        `json:"hints_used"`
	LastAttempt *time.Time `json:"last_attempt"`
	SolvedAt    *time.Time `json:"solved_at"`
}

// PuzzleRecord is the persisted puzzle engine state
type PuzzleRecord struct {
	Version string          `json:"version"`
	Puzzles []PuzzleState   `json:"puzzles"`
	History []PuzzleAttempt `json:"history"`
}

// WorldObject is an interactive object placed in a scene
type WorldObject struct {
	ID       string            `json:"id" yaml:"id"`
	Position Vec3              `json:"position" yaml:"position"`
	Radius   float64           `json:"radius" yaml:"radius"`
	Hint     string            `json:"hint" yaml:"hint"`
	Action   string            `json:"action" yaml:"action"`
	Data     map[string]string `json:"data,omitempty" yaml:"data"`
}
