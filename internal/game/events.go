package game

import "github.com/user/memory-beacon/internal/types"

// EventKind enumerates everything the core announces to observers
type EventKind int

const (
	EventSanityChanged EventKind = iota + 1
	EventSanityBroken
	EventPhotoUnlocked
	EventAllPhotosCollected
	EventPuzzleActivated
	EventPuzzleSolved
	EventPuzzleLocked
	EventAllPuzzlesSolved
	EventEndingTriggered
	EventItemAdded
	EventItemRemoved
	EventTargetAcquired
	EventTargetLost
	EventSceneChanged
	EventNoteSaved
	EventSaveCompleted
	EventSaveFailed
	EventAchievementUnlocked
	EventNotification
)

var eventNames = map[EventKind]string{
	EventSanityChanged:       "sanity_changed",
	EventSanityBroken:        "sanity_broken",
	EventPhotoUnlocked:       "photo_unlocked",
	EventAllPhotosCollected:  "all_photos_collected",
	EventPuzzleActivated:     "puzzle_activated",
	EventPuzzleSolved:        "puzzle_solved",
	EventPuzzleLocked:        "puzzle_locked",
	EventAllPuzzlesSolved:    "all_puzzles_solved",
	EventEndingTriggered:     "ending_triggered",
	EventItemAdded:           "item_added",
	EventItemRemoved:         "item_removed",
	EventTargetAcquired:      "target_acquired",
	EventTargetLost:          "target_lost",
	EventSceneChanged:        "scene_changed",
	EventNoteSaved:           "note_saved",
	EventSaveCompleted:       "save_completed",
	EventSaveFailed:          "save_failed",
	EventAchievementUnlocked: "achievement_unlocked",
	EventNotification:        "notification",
}

func (k EventKind) String() string {
	if name, ok := eventNames[k]; ok {
		return name
	}
	return "unknown"
}

// Event is one announcement. Only the fields relevant to Kind are set.
type Event struct {
	Kind    EventKind
	ID      string
	Message string
	Value   float64
	Object  *types.WorldObject
}

// Observer receives events synchronously
type Observer func(Event)

// EventBus dispatches events to observers in registration order,
// on the caller's goroutine
type EventBus struct {
	observers []Observer
}

// NewEventBus creates an empty bus
func NewEventBus() *EventBus {
	return &EventBus{}
}

// Subscribe registers an observer
func (b *EventBus) Subscribe(o Observer) {
	b.observers = append(b.observers, o)
}

// Emit delivers e to every observer
func (b *EventBus) Emit(e Event) {
	for _, o := range b.observers {
		o(e)
	}
}

// Notify emits a player-facing notification
func (b *EventBus) Notify(message string) {
	b.Emit(Event{Kind: EventNotification, Message: message})
}
