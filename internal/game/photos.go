package game

import (
	"slices"

	"github.com/user/memory-beacon/internal/content"
	"github.com/user/memory-beacon/internal/types"
	"go.uber.org/zap"
)

// PhotoRegistry tracks the unlock status of every memory fragment
type PhotoRegistry struct {
	env     *Env
	order   []string
	entries map[string]*types.PhotoEntry
}

// NewPhotoRegistry creates a registry with every photo locked
func NewPhotoRegistry(env *Env, defs []content.Photo) *PhotoRegistry {
	r := &PhotoRegistry{
		env:     env,
		order:   make([]string, 0, len(defs)),
		entries: make(map[string]*types.PhotoEntry, len(defs)),
	}
	for _, def := range defs {
		r.order = append(r.order, def.ID)
		r.entries[def.ID] = &types.PhotoEntry{
			ID:          def.ID,
			Name:        def.Name,
			Date:        def.Date,
			Description: def.Description,
			Clue:        def.Clue,
			Location:    def.Location,
			Notes:       []types.PhotoNote{},
		}
	}
	return r
}

// Unlock marks a photo found. It reports false without mutating when the
// photo is already unlocked.
func (r *PhotoRegistry) Unlock(photoID, location string) (bool, error) {
	entry, ok := r.entries[photoID]
	if !ok {
		r.env.Logger.Warn("Unknown photo", zap.String("photo_id", photoID))
		return false, newError(CodeNotFound, "no photo %q", photoID)
	}
	if entry.Unlocked {
		return false, nil
	}

	now := r.env.Now()
	entry.Unlocked = true
	entry.FoundTime = &now
	entry.FoundLocation = &location

	count := r.UnlockedCount()
	r.env.Logger.Info("Photo unlocked",
		zap.String("photo_id", photoID),
		zap.String("location", location),
		zap.Int("unlocked", count))

	r.env.Events.Emit(Event{Kind: EventPhotoUnlocked, ID: photoID, Message: entry.Name, Value: float64(count)})
	if count == r.TotalCount() {
		r.env.Events.Emit(Event{Kind: EventAllPhotosCollected})
	}
	return true, nil
}

// Get returns a copy of the entry for photoID
func (r *PhotoRegistry) Get(photoID string) (types.PhotoEntry, bool) {
	entry, ok := r.entries[photoID]
	if !ok {
		return types.PhotoEntry{}, false
	}
	return clonePhoto(*entry), true
}

// UnlockedCount returns the number of unlocked photos
func (r *PhotoRegistry) UnlockedCount() int {
	n := 0
	for _, entry := range r.entries {
		if entry.Unlocked {
			n++
		}
	}
	return n
}

// TotalCount returns the number of defined photos
func (r *PhotoRegistry) TotalCount() int {
	return len(r.order)
}

// IsUnlocked reports whether photoID has been found
func (r *PhotoRegistry) IsUnlocked(photoID string) bool {
	entry, ok := r.entries[photoID]
	return ok && entry.Unlocked
}

// AddNote attaches a player note to a photo
func (r *PhotoRegistry) AddNote(photoID, text string, tags []string) error {
	entry, ok := r.entries[photoID]
	if !ok {
		return newError(CodeNotFound, "no photo %q", photoID)
	}
	if text == "" {
		return newError(CodeInvalidInput, "note is empty")
	}
	if tags == nil {
		tags = []string{}
	}
	entry.Notes = append(entry.Notes, types.PhotoNote{
		Text:      text,
		Timestamp: r.env.Now(),
		Tags:      slices.Clone(tags),
	})
	r.env.Events.Emit(Event{Kind: EventNoteSaved, ID: photoID})
	return nil
}

// UnlockedIDs returns unlocked photo ids in definition order
func (r *PhotoRegistry) UnlockedIDs() []string {
	ids := make([]string, 0, len(r.order))
	for _, id := range r.order {
		if r.entries[id].Unlocked {
			ids = append(ids, id)
		}
	}
	return ids
}

// Next returns the unlocked photo after current, wrapping around
func (r *PhotoRegistry) Next(current string) (string, bool) {
	return r.step(current, 1)
}

// Previous returns the unlocked photo before current, wrapping around
func (r *PhotoRegistry) Previous(current string) (string, bool) {
	return r.step(current, -1)
}

func (r *PhotoRegistry) step(current string, dir int) (string, bool) {
	ids := r.UnlockedIDs()
	if len(ids) == 0 {
		return "", false
	}
	i := slices.Index(ids, current)
	if i < 0 {
		return ids[0], true
	}
	return ids[(i+dir+len(ids))%len(ids)], true
}

// Entries returns every photo in definition order
func (r *PhotoRegistry) Entries() []types.PhotoEntry {
	out := make([]types.PhotoEntry, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, clonePhoto(*r.entries[id]))
	}
	return out
}

// Reset locks every photo and drops notes
func (r *PhotoRegistry) Reset() {
	for _, entry := range r.entries {
		entry.Unlocked = false
		entry.FoundTime = nil
		entry.FoundLocation = nil
		entry.Notes = []types.PhotoNote{}
	}
}

// Snapshot returns every entry for persistence
func (r *PhotoRegistry) Snapshot() []types.PhotoEntry {
	return r.Entries()
}

// LoadFrom applies saved unlock state onto the definitions, or fails
// leaving the registry untouched
func (r *PhotoRegistry) LoadFrom(saved []types.PhotoEntry) error {
	if err := r.validate(saved); err != nil {
		return err
	}
	r.Reset()
	for _, s := range saved {
		entry := r.entries[s.ID]
		entry.Unlocked = s.Unlocked
		entry.FoundTime = s.FoundTime
		entry.FoundLocation = s.FoundLocation
		if s.Notes != nil {
			entry.Notes = slices.Clone(s.Notes)
		}
	}
	return nil
}

func (r *PhotoRegistry) validate(saved []types.PhotoEntry) error {
	for _, s := range saved {
		if _, ok := r.entries[s.ID]; !ok {
			return newError(CodeDeserialization, "unknown photo %q", s.ID)
		}
		if s.Unlocked && s.FoundTime == nil {
			return newError(CodeDeserialization, "photo %q unlocked without a found time", s.ID)
		}
	}
	return nil
}

func clonePhoto(p types.PhotoEntry) types.PhotoEntry {
	p.Notes = slices.Clone(p.Notes)
	return p
}
