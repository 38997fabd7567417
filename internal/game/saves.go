package game

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"sync/atomic"
	"time"

	"github.com/user/memory-beacon/internal/interfaces"
	"github.com/user/memory-beacon/internal/types"
	"go.uber.org/zap"
)

// achievementDefs lists every achievement in award order
var achievementDefs = []types.Achievement{
	{ID: "first_game", Name: "First Step", Description: "Save a game for the first time"},
	{ID: "photo_collector", Name: "Memory Keeper", Description: "Find every memory fragment"},
	{ID: "puzzle_master", Name: "Puzzle Master", Description: "Solve every puzzle"},
	{ID: "sanity_keeper", Name: "Clear Mind", Description: "Reach an ending without sanity dropping to 70"},
}

// ExportRecord is the portable form of one slot
type ExportRecord struct {
	ExportVersion string          `json:"export_version"`
	ExportDate    time.Time       `json:"export_date"`
	Game          string          `json:"game"`
	Description   string          `json:"description"`
	PlayTime      float64         `json:"play_time"`
	Scene         string          `json:"scene"`
	Data          *types.Snapshot `json:"data"`
}

type saveOutcome struct {
	file         types.SaveFile
	op           string
	slot         int
	achievements []types.Achievement
	err          error
}

// SaveManager keeps the save file in memory and writes it through a
// BlobStore. At most one write is in flight; its result is applied when
// the frame loop polls, and a failed write leaves the committed file as
// it was.
type SaveManager struct {
	env       *Env
	store     interfaces.BlobStore
	key       string
	slotCount int
	puzzles   int

	file     types.SaveFile
	inFlight atomic.Bool
	done     chan saveOutcome
}

// SaveOptions configures a SaveManager
type SaveOptions struct {
	Key         string
	Slots       int
	PuzzleCount int
}

// NewSaveManager creates a manager with an empty in-memory file. Call
// Open to read the stored one.
func NewSaveManager(env *Env, store interfaces.BlobStore, opts SaveOptions) *SaveManager {
	if opts.Key == "" {
		opts.Key = DefaultSaveKey
	}
	if opts.Slots <= 0 {
		opts.Slots = DefaultSlotCount
	}
	m := &SaveManager{
		env:       env,
		store:     store,
		key:       opts.Key,
		slotCount: opts.Slots,
		puzzles:   opts.PuzzleCount,
		done:      make(chan saveOutcome, 1),
	}
	m.file = m.emptyFile()
	return m
}

func (m *SaveManager) emptyFile() types.SaveFile {
	now := m.env.Now()
	f := types.SaveFile{
		Version:      SaveVersion,
		Game:         GameID,
		CreatedAt:    now,
		LastModified: now,
		Slots:        make([]types.SaveSlot, m.slotCount),
		Settings: types.Settings{
			Volume:     0.7,
			Resolution: "1920x1080",
			Language:   "en",
			Subtitles:  true,
		},
		Statistics: types.Statistics{
			SanityLowest:    MaxSanity,
			EndingsUnlocked: []string{},
		},
		Achievements: []types.Achievement{},
	}
	for i := range f.Slots {
		f.Slots[i] = types.SaveSlot{Slot: i}
	}
	return f
}

// Open reads the stored save file. A missing file keeps the empty one.
func (m *SaveManager) Open() error {
	blob, ok, err := m.store.Read(m.key)
	if err != nil {
		return wrapError(CodeStorage, err, "failed to read saves")
	}
	if !ok {
		m.env.Logger.Info("No save file found, starting fresh", zap.String("key", m.key))
		return nil
	}

	var f types.SaveFile
	if err := json.Unmarshal(blob, &f); err != nil {
		return wrapError(CodeDeserialization, err, "failed to parse saves")
	}
	if !compatibleVersion(f.Version) {
		return newError(CodeIncompatibleVersion, "save file version %q is not supported", f.Version).
			with("version", f.Version)
	}

	// Ensure the slot table has the configured size
	slots := make([]types.SaveSlot, m.slotCount)
	for i := range slots {
		slots[i] = types.SaveSlot{Slot: i}
	}
	for _, s := range f.Slots {
		if s.Slot >= 0 && s.Slot < m.slotCount {
			slots[s.Slot] = s
		}
	}
	f.Slots = slots
	if f.Achievements == nil {
		f.Achievements = []types.Achievement{}
	}
	if f.Statistics.EndingsUnlocked == nil {
		f.Statistics.EndingsUnlocked = []string{}
	}

	m.file = f
	m.env.Logger.Info("Save file loaded", zap.String("key", m.key), zap.Int("slots", len(f.Slots)))
	return nil
}

// SlotCount returns the number of slots
func (m *SaveManager) SlotCount() int {
	return m.slotCount
}

// InFlight reports whether a write is pending
func (m *SaveManager) InFlight() bool {
	return m.inFlight.Load()
}

func (m *SaveManager) checkSlot(slot int) error {
	if slot < 0 || slot >= m.slotCount {
		return newError(CodeInvalidSlot, "slot %d out of range", slot).with("slot", fmt.Sprint(slot))
	}
	return nil
}

// Save writes snap into slot and folds it into the statistics
func (m *SaveManager) Save(slot int, description string, snap *types.Snapshot) error {
	if err := m.checkSlot(slot); err != nil {
		return err
	}
	if snap == nil || snap.GameState == nil {
		return newError(CodeInvalidInput, "nothing to save")
	}

	now := m.env.Now()
	candidate := m.cloneFile()
	candidate.Slots[slot] = types.SaveSlot{
		Slot:        slot,
		Exists:      true,
		Description: description,
		Timestamp:   &now,
		PlayTime:    snap.GameState.PlayTime,
		Scene:       snap.World.CurrentScene,
		Preview:     preview(snap),
		Data:        snap,
	}
	updateStatistics(&candidate.Statistics, snap.GameState)
	earned := m.awardAchievements(&candidate, now)

	return m.commit(candidate, "save", slot, earned)
}

// Load returns the snapshot stored in slot
func (m *SaveManager) Load(slot int) (*types.Snapshot, error) {
	if err := m.checkSlot(slot); err != nil {
		return nil, err
	}
	s := m.file.Slots[slot]
	if !s.Exists || s.Data == nil {
		return nil, newError(CodeEmptySlot, "slot %d is empty", slot)
	}
	if !compatibleVersion(s.Data.Version) {
		return nil, newError(CodeIncompatibleVersion, "save version %q is not supported", s.Data.Version).
			with("version", s.Data.Version)
	}
	return s.Data, nil
}

// Delete clears slot
func (m *SaveManager) Delete(slot int) error {
	if err := m.checkSlot(slot); err != nil {
		return err
	}
	candidate := m.cloneFile()
	candidate.Slots[slot] = types.SaveSlot{Slot: slot}
	return m.commit(candidate, "delete", slot, nil)
}

// Export encodes slot as a portable blob
func (m *SaveManager) Export(slot int) ([]byte, error) {
	snap, err := m.Load(slot)
	if err != nil {
		return nil, err
	}
	s := m.file.Slots[slot]
	rec := ExportRecord{
		ExportVersion: SaveVersion,
		ExportDate:    m.env.Now(),
		Game:          GameID,
		Description:   s.Description,
		PlayTime:      s.PlayTime,
		Scene:         s.Scene,
		Data:          snap,
	}
	blob, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return nil, wrapError(CodeStorage, err, "failed to encode export")
	}
	return blob, nil
}

// Import decodes an exported blob into slot
func (m *SaveManager) Import(blob []byte, slot int) error {
	if err := m.checkSlot(slot); err != nil {
		return err
	}
	var rec ExportRecord
	if err := json.Unmarshal(blob, &rec); err != nil {
		return wrapError(CodeDeserialization, err, "failed to parse import")
	}
	if rec.Data == nil || rec.Data.GameState == nil || rec.Data.Version == "" {
		return newError(CodeDeserialization, "import is missing game data")
	}
	if !compatibleVersion(rec.Data.Version) {
		return newError(CodeIncompatibleVersion, "import version %q is not supported", rec.Data.Version).
			with("version", rec.Data.Version)
	}

	now := m.env.Now()
	description := rec.Description
	if description == "" {
		description = "imported"
	}
	candidate := m.cloneFile()
	candidate.Slots[slot] = types.SaveSlot{
		Slot:        slot,
		Exists:      true,
		Description: description,
		Timestamp:   &now,
		PlayTime:    rec.Data.GameState.PlayTime,
		Scene:       rec.Data.World.CurrentScene,
		Preview:     preview(rec.Data),
		Data:        rec.Data,
	}
	return m.commit(candidate, "import", slot, nil)
}

// SaveSettings stores player preferences
func (m *SaveManager) SaveSettings(settings types.Settings) error {
	candidate := m.cloneFile()
	candidate.Settings = settings
	return m.commit(candidate, "settings", -1, nil)
}

// Settings returns the committed preferences
func (m *SaveManager) Settings() types.Settings {
	return m.file.Settings
}

// Statistics returns the committed lifetime counters
func (m *SaveManager) Statistics() types.Statistics {
	stats := m.file.Statistics
	stats.EndingsUnlocked = slices.Clone(stats.EndingsUnlocked)
	return stats
}

// Achievements returns the unlocked achievements
func (m *SaveManager) Achievements() []types.Achievement {
	return slices.Clone(m.file.Achievements)
}

// Slots lists every slot without its data
func (m *SaveManager) Slots() []types.SlotSummary {
	out := make([]types.SlotSummary, len(m.file.Slots))
	for i, s := range m.file.Slots {
		out[i] = types.SlotSummary{
			Slot:        s.Slot,
			Exists:      s.Exists,
			Description: s.Description,
			Timestamp:   s.Timestamp,
			PlayTime:    s.PlayTime,
			Scene:       s.Scene,
			Preview:     s.Preview,
		}
	}
	return out
}

// Latest returns the most recently written slot
func (m *SaveManager) Latest() (int, bool) {
	best := -1
	var bestTime time.Time
	for _, s := range m.file.Slots {
		if s.Exists && s.Timestamp != nil && (best < 0 || s.Timestamp.After(bestTime)) {
			best, bestTime = s.Slot, *s.Timestamp
		}
	}
	return best, best >= 0
}

// commit serializes candidate and hands it to the writer goroutine
func (m *SaveManager) commit(candidate types.SaveFile, op string, slot int, earned []types.Achievement) error {
	if !m.inFlight.CompareAndSwap(false, true) {
		return newError(CodeSaveInFlight, "a save is already in progress")
	}
	candidate.LastModified = m.env.Now()

	blob, err := json.Marshal(candidate)
	if err != nil {
		m.inFlight.Store(false)
		return wrapError(CodeStorage, err, "failed to encode saves")
	}

	go func() {
		outcome := saveOutcome{file: candidate, op: op, slot: slot, achievements: earned}
		if err := m.store.Write(m.key, blob); err != nil {
			outcome.err = wrapError(CodeStorage, err, "failed to write saves")
		}
		m.done <- outcome
	}()
	return nil
}

// Poll applies a finished write, if any. It never blocks.
func (m *SaveManager) Poll() bool {
	select {
	case outcome := <-m.done:
		m.settle(outcome)
		return true
	default:
		return false
	}
}

// Wait blocks until the in-flight write, if any, has settled
func (m *SaveManager) Wait() {
	if !m.inFlight.Load() {
		return
	}
	m.settle(<-m.done)
}

func (m *SaveManager) settle(outcome saveOutcome) {
	defer m.inFlight.Store(false)

	if outcome.err != nil {
		m.env.Logger.Error("Save failed",
			zap.String("op", outcome.op),
			zap.Int("slot", outcome.slot),
			zap.Error(outcome.err))
		m.env.Events.Emit(Event{Kind: EventSaveFailed, ID: outcome.op, Value: float64(outcome.slot), Message: outcome.err.Error()})
		m.env.Events.Notify("Could not save the game")
		return
	}

	m.file = outcome.file
	m.env.Logger.Info("Save committed",
		zap.String("op", outcome.op),
		zap.Int("slot", outcome.slot))
	m.env.Events.Emit(Event{Kind: EventSaveCompleted, ID: outcome.op, Value: float64(outcome.slot)})
	for _, a := range outcome.achievements {
		m.env.Effects.PlaySound("achievement")
		m.env.Events.Emit(Event{Kind: EventAchievementUnlocked, ID: a.ID, Message: a.Name})
	}
}

func (m *SaveManager) cloneFile() types.SaveFile {
	f := m.file
	f.Slots = slices.Clone(m.file.Slots)
	f.Achievements = slices.Clone(m.file.Achievements)
	f.Statistics.EndingsUnlocked = slices.Clone(m.file.Statistics.EndingsUnlocked)
	return f
}

func (m *SaveManager) awardAchievements(f *types.SaveFile, now time.Time) []types.Achievement {
	stats := f.Statistics
	earned := map[string]bool{
		"first_game":      true,
		"photo_collector": stats.PhotosFound >= TotalPhotos,
		"puzzle_master":   m.puzzles > 0 && stats.PuzzlesSolved >= m.puzzles,
		"sanity_keeper":   len(stats.EndingsUnlocked) > 0 && stats.SanityLowest > 70,
	}

	var fresh []types.Achievement
	for _, def := range achievementDefs {
		if !earned[def.ID] || slices.ContainsFunc(f.Achievements, func(a types.Achievement) bool { return a.ID == def.ID }) {
			continue
		}
		a := def
		a.UnlockedAt = now
		f.Achievements = append(f.Achievements, a)
		fresh = append(fresh, a)
	}
	return fresh
}

// updateStatistics folds a session into lifetime counters. Counters keep
// their best value across sessions.
func updateStatistics(stats *types.Statistics, gs *types.GameState) {
	stats.TotalPlayTime = max(stats.TotalPlayTime, gs.PlayTime)
	stats.Deaths = max(stats.Deaths, gs.Deaths)
	stats.PuzzlesSolved = max(stats.PuzzlesSolved, gs.PuzzlesSolved)
	stats.PhotosFound = max(stats.PhotosFound, gs.PhotosFound)
	stats.ItemsCollected = max(stats.ItemsCollected, gs.ItemsCollected)
	stats.SanityLowest = min(stats.SanityLowest, gs.SanityLowest)
	for _, e := range gs.EndingsReached {
		if !slices.Contains(stats.EndingsUnlocked, e) {
			stats.EndingsUnlocked = append(stats.EndingsUnlocked, e)
		}
	}
}

func preview(snap *types.Snapshot) string {
	return fmt.Sprintf("%s | %d/%d memories | sanity %.0f",
		snap.World.CurrentScene,
		snap.Collectibles.PhotosFound,
		snap.Collectibles.TotalPhotos,
		snap.Player.Sanity)
}

// compatibleVersion reports whether v shares the major version of SaveVersion
func compatibleVersion(v string) bool {
	major, _, _ := strings.Cut(v, ".")
	want, _, _ := strings.Cut(SaveVersion, ".")
	return major != "" && major == want
}
