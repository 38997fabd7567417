package game

import (
	"errors"
	"fmt"
	"runtime"
	"slices"

	"github.com/user/memory-beacon/internal/content"
	"github.com/user/memory-beacon/internal/interfaces"
	"github.com/user/memory-beacon/internal/types"
	"go.uber.org/zap"
)

const notificationLogSize = 50

// Input carries the intents collected for one frame
type Input struct {
	Move    types.Vec3 `json:"move"`
	Look    types.Vec3 `json:"look"`
	Confirm bool       `json:"confirm"`
	Cancel  bool       `json:"cancel"`
}

// Options configures a Session
type Options struct {
	Identity   Identity
	StartScene string
	SaveKey    string
	SaveSlots  int
}

type pendingTransition struct {
	scene        string
	keepPosition bool
}

// Session composes the core components and drives the frame loop. It is
// not safe for concurrent use; Runner serializes access to it.
type Session struct {
	env        *Env
	pack       *content.Pack
	world      interfaces.World
	startScene string

	state      *State
	inventory  *Inventory
	photos     *PhotoRegistry
	puzzles    *PuzzleEngine
	sanity     *SanityController
	detector   *Detector
	dispatcher *Dispatcher
	saves      *SaveManager

	player        types.Transform
	slot          int
	device        string
	pending       *pendingTransition
	saveRequest   string
	dropped       map[string]types.InventoryItem
	notifications []string
}

// NewSession builds every component from pack and opens the save file
func NewSession(env *Env, pack *content.Pack, world interfaces.World, store interfaces.BlobStore, opts Options) (*Session, error) {
	defs := make([]Definition, 0, len(pack.Puzzles))
	for _, p := range pack.Puzzles {
		def, err := BuildDefinition(p)
		if err != nil {
			return nil, fmt.Errorf("failed to build puzzles: %w", err)
		}
		defs = append(defs, def)
	}
	if opts.StartScene == "" {
		opts.StartScene = "scene1"
	}
	if _, ok := pack.Scene(opts.StartScene); !ok {
		return nil, fmt.Errorf("unknown start scene %q", opts.StartScene)
	}

	s := &Session{
		env:        env,
		pack:       pack,
		world:      world,
		startScene: opts.StartScene,
		dropped:    make(map[string]types.InventoryItem),
	}
	s.state = NewState(env, opts.Identity, opts.StartScene)
	s.photos = NewPhotoRegistry(env, pack.Photos)
	s.sanity = NewSanityController(env, s.state)
	s.puzzles = NewPuzzleEngine(env, s.sanity, defs, s.photos.UnlockedCount)
	s.inventory = NewInventory(env, InventoryCapacity)
	s.detector = NewDetector(env, MaxEngagementDistance)
	s.saves = NewSaveManager(env, store, SaveOptions{
		Key:         opts.SaveKey,
		Slots:       opts.SaveSlots,
		PuzzleCount: len(defs),
	})
	s.dispatcher = NewDispatcher(env, map[ActionKind]ActionHandler{
		ActionDiary:           s.onDiary,
		ActionViewPhoto:       s.onViewPhoto,
		ActionStartPuzzle:     s.onStartPuzzle,
		ActionPuzzleDevice:    s.onPuzzleDevice,
		ActionMirror:          s.onMirror,
		ActionCollectFragment: s.onCollectFragment,
		ActionPickupItem:      s.onPickupItem,
		ActionDoor:            s.onDoor,
	})

	s.puzzles.SetRewardHandlers(RewardHandlers{
		Photo:  s.rewardPhoto,
		Item:   s.rewardItem,
		Ending: s.TriggerEnding,
	})
	s.inventory.SetHandler(types.ItemPhotoFragment, s.useFragment)
	s.inventory.SetHandler(types.ItemKey, s.useKey)
	s.inventory.SetHandler(types.ItemNote, s.useNote)
	s.inventory.SetHandler(types.ItemTool, s.useTool)

	env.Events.Subscribe(s.observe)

	if err := s.saves.Open(); err != nil {
		return nil, err
	}
	if start, ok := world.PlayerStart(opts.StartScene); ok {
		s.player = start
	}
	return s, nil
}

// observe reacts to core events inside the tick that raised them
func (s *Session) observe(e Event) {
	switch e.Kind {
	case EventPhotoUnlocked:
		s.syncProgress()
		s.env.Effects.PlaySound("collect")
		s.env.Effects.SpawnMemoryEffect(s.player.Position, e.ID)
		s.env.Events.Notify("Memory recovered: " + e.Message)
		s.requestSave("milestone")
	case EventAllPhotosCollected:
		s.env.Effects.PlaySound("achievement")
		s.env.Events.Notify("Every memory is back")
		s.requestTransition(SceneFinal, false)
	case EventPuzzleSolved:
		s.syncProgress()
		s.env.Events.Notify("Solved: " + e.Message)
		s.requestSave("milestone")
	case EventPuzzleLocked:
		s.env.Events.Notify("The mechanism seizes up")
	case EventAllPuzzlesSolved:
		s.env.Events.Notify("Nothing left to solve")
	case EventSanityBroken:
		s.env.Effects.PlaySound("sanity_broken")
		s.env.Events.Notify("Your mind gives way")
		s.requestTransition(SceneNightmare, false)
	case EventNoteSaved:
		s.requestSave("milestone")
	case EventNotification:
		s.notifications = append(s.notifications, e.Message)
		if len(s.notifications) > notificationLogSize {
			s.notifications = s.notifications[len(s.notifications)-notificationLogSize:]
		}
	}
}

func (s *Session) syncProgress() {
	s.state.SetProgress(s.photos.UnlockedCount(), s.puzzles.SolvedCount())
}

// requestSave queues a save for the end of the tick; the first request
// of a tick names it
func (s *Session) requestSave(description string) {
	if s.state.Started() && s.saveRequest == "" {
		s.saveRequest = description
	}
}

func (s *Session) requestTransition(sceneID string, keepPosition bool) {
	s.pending = &pendingTransition{scene: sceneID, keepPosition: keepPosition}
}

// applyTransition switches scenes once no save is in flight
func (s *Session) applyTransition() {
	if s.pending == nil || s.saves.InFlight() {
		return
	}
	t := *s.pending
	s.pending = nil

	if err := s.world.TransitionTo(t.scene); err != nil {
		s.env.Logger.Error("Scene transition failed", zap.String("scene", t.scene), zap.Error(err))
		s.env.Events.Notify("The way is blocked")
		return
	}
	s.state.SetScene(t.scene)
	if !t.keepPosition {
		if start, ok := s.world.PlayerStart(t.scene); ok {
			s.player = start
		}
	}
	s.detector.Clear()
	s.puzzles.Close()
	s.device = ""

	if scene, ok := s.pack.Scene(t.scene); ok && scene.Ambient != "" {
		s.env.Effects.PlayAmbient(scene.Ambient)
	}
	s.env.Logger.Info("Scene changed", zap.String("scene", t.scene))
	s.env.Events.Emit(Event{Kind: EventSceneChanged, ID: t.scene})
}

// NewGame resets progress and enters the start scene
func (s *Session) NewGame() {
	s.state.StartNewGame()
	s.inventory.Clear()
	s.photos.Reset()
	s.puzzles.Reset()
	s.syncProgress()
	s.device = ""
	s.saveRequest = ""
	s.slot = 0
	clear(s.dropped)
	s.world.Reset()
	s.detector.Clear()
	s.puzzles.Close()

	s.env.Logger.Info("New game started", zap.String("scene", s.startScene))
	s.requestTransition(s.startScene, false)
	s.applyTransition()
	s.env.Events.Notify("Where am I?")
}

// Load restores the snapshot in slot
func (s *Session) Load(slot int) error {
	snap, err := s.saves.Load(slot)
	if err != nil {
		s.env.Logger.Warn("Load failed", zap.Int("slot", slot), zap.Error(err))
		return err
	}
	if err := s.Restore(snap); err != nil {
		s.env.Logger.Warn("Load failed", zap.Int("slot", slot), zap.Error(err))
		return err
	}
	s.slot = slot
	s.env.Logger.Info("Game loaded", zap.Int("slot", slot))
	return nil
}

// Restore replaces the whole session from snap. Every part is validated
// before anything is applied, so a failure leaves the session untouched.
func (s *Session) Restore(snap *types.Snapshot) error {
	if err := s.validateSnapshot(snap); err != nil {
		return err
	}

	gs := *snap.GameState
	gs.GameStarted = true
	if err := s.state.LoadFrom(&gs); err != nil {
		return err
	}
	// validated above, so these cannot fail
	_ = s.inventory.LoadFrom(snap.Inventory)
	_ = s.photos.LoadFrom(snap.Photos)
	_ = s.puzzles.LoadFrom(snap.Puzzles)

	s.player = types.Transform{Position: snap.Player.Position, Rotation: snap.Player.Rotation}
	s.detector.Clear()
	s.puzzles.Close()
	s.device = ""
	s.saveRequest = ""
	clear(s.dropped)
	s.world.Reset()
	for _, id := range gs.CollectedItems {
		s.world.Remove(id)
	}
	s.syncProgress()

	s.requestTransition(gs.CurrentScene, true)
	s.applyTransition()
	return nil
}

func (s *Session) validateSnapshot(snap *types.Snapshot) error {
	if snap == nil {
		return newError(CodeDeserialization, "missing snapshot")
	}
	if !compatibleVersion(snap.Version) {
		return newError(CodeIncompatibleVersion, "save version %q is not supported", snap.Version).
			with("version", snap.Version)
	}
	if err := validateGameState(snap.GameState); err != nil {
		return err
	}
	if _, ok := s.pack.Scene(snap.GameState.CurrentScene); !ok {
		return newError(CodeDeserialization, "unknown scene %q", snap.GameState.CurrentScene)
	}
	if err := validateInventory(snap.Inventory, s.inventory.Capacity()); err != nil {
		return err
	}
	if err := s.photos.validate(snap.Photos); err != nil {
		return err
	}
	if err := s.puzzles.validate(snap.Puzzles); err != nil {
		return err
	}

	unlocked := 0
	for _, p := range snap.Photos {
		if p.Unlocked {
			unlocked++
		}
	}
	if unlocked != snap.GameState.PhotosFound {
		return newError(CodeDeserialization, "photos found %d but %d unlocked", snap.GameState.PhotosFound, unlocked)
	}
	solved := 0
	for _, p := range snap.Puzzles.Puzzles {
		if p.Solved {
			solved++
		}
	}
	if solved != snap.GameState.PuzzlesSolved {
		return newError(CodeDeserialization, "puzzles solved %d but %d marked solved", snap.GameState.PuzzlesSolved, solved)
	}
	return nil
}

// Snapshot captures the complete session for persistence
func (s *Session) Snapshot() *types.Snapshot {
	gs := s.state.Snapshot()
	puzzles := s.puzzles.Snapshot()

	completed := []string{}
	for _, p := range puzzles.Puzzles {
		if p.Solved {
			completed = append(completed, p.ID)
		}
	}

	return &types.Snapshot{
		Version:   SaveVersion,
		GameState: gs,
		Inventory: s.inventory.Snapshot(),
		Photos:    s.photos.Snapshot(),
		Puzzles:   puzzles,
		Player: types.PlayerState{
			Position: s.player.Position,
			Rotation: s.player.Rotation,
			Sanity:   gs.Sanity,
			Health:   100,
		},
		World: types.WorldState{
			CurrentScene:    gs.CurrentScene,
			Time:            gs.PlayTime,
			Weather:         "rain",
			DiscoveredAreas: slices.Clone(gs.DiscoveredAreas),
		},
		Quests: types.QuestState{
			Main:      s.mainQuest(gs),
			Side:      []string{},
			Completed: completed,
		},
		Collectibles: types.Collectibles{
			PhotosFound:    gs.PhotosFound,
			TotalPhotos:    gs.TotalPhotos,
			ItemsCollected: gs.ItemsCollected,
		},
		Metadata: types.SaveMetadata{
			SaveVersion: SaveVersion,
			GameVersion: GameVersion,
			Platform:    runtime.GOOS,
			Created:     s.env.Now(),
		},
	}
}

func (s *Session) mainQuest(gs *types.GameState) string {
	switch {
	case len(gs.EndingsReached) > 0:
		return "complete"
	case gs.PhotosFound >= gs.TotalPhotos:
		return "final_puzzle"
	default:
		return "find_memories"
	}
}

// Save writes the session into slot. The write completes on a later tick.
func (s *Session) Save(slot int, description string) error {
	if !s.state.Started() {
		return newError(CodeGameNotStarted, "start or load a game first")
	}
	if description == "" {
		description = fmt.Sprintf("Slot %d", slot+1)
	}
	if err := s.saves.Save(slot, description, s.Snapshot()); err != nil {
		s.env.Logger.Warn("Save rejected", zap.Int("slot", slot), zap.Error(err))
		return err
	}
	s.slot = slot
	return nil
}

// RequestAutosave asks for a save into the current slot on the next tick
func (s *Session) RequestAutosave() {
	s.requestSave("autosave")
}

func (s *Session) processSaveRequest() {
	if s.saveRequest == "" || s.saves.InFlight() || !s.state.Started() {
		return
	}
	description := s.saveRequest
	s.saveRequest = ""
	if err := s.saves.Save(s.slot, description, s.Snapshot()); err != nil {
		s.env.Logger.Warn("Autosave rejected", zap.String("description", description), zap.Error(err))
	}
}

// Tick advances one frame: input, detection, dispatch, sanity, saves
func (s *Session) Tick(dt float64, in Input) {
	s.saves.Poll()
	s.applyTransition()
	if !s.state.Started() {
		return
	}

	s.player.Position = s.player.Position.Add(in.Move)
	s.player.Rotation = s.player.Rotation.Add(in.Look)
	s.detect()

	if in.Confirm {
		// failures are already reported to the player
		_ = s.Interact()
	}
	if in.Cancel {
		s.ClosePuzzle()
	}

	s.state.Tick(dt)
	s.sanity.Update()
	s.processSaveRequest()
}

// detect refreshes the interaction target. While a scene change is
// pending the world still holds the old scene, so nothing is targeted.
func (s *Session) detect() {
	if s.pending != nil {
		s.detector.Clear()
		return
	}
	s.detector.Update(s.player, s.world.Objects())
}

// Interact performs the action of the current target, if any. It does
// nothing while a scene change is pending.
func (s *Session) Interact() error {
	if !s.state.Started() {
		return newError(CodeGameNotStarted, "start or load a game first")
	}
	if s.pending != nil {
		return nil
	}
	target, ok := s.detector.Target()
	if !ok {
		return nil
	}
	if err := s.dispatcher.Dispatch(target); err != nil {
		s.env.Events.Notify(userMessage(err))
		return err
	}
	return nil
}

// MoveTo places the player
func (s *Session) MoveTo(position types.Vec3) {
	s.player.Position = position
	s.detect()
}

// ActivatePuzzle opens a puzzle
func (s *Session) ActivatePuzzle(puzzleID string) (PuzzleView, error) {
	if !s.state.Started() {
		return PuzzleView{}, newError(CodeGameNotStarted, "start or load a game first")
	}
	view, err := s.puzzles.Activate(puzzleID)
	if err != nil {
		s.env.Events.Notify(userMessage(err))
		return PuzzleView{}, err
	}
	return view, nil
}

// ClosePuzzle closes the open puzzle and disarms any device
func (s *Session) ClosePuzzle() {
	s.puzzles.Close()
	s.device = ""
}

// SubmitPuzzleAnswer validates input against a puzzle
func (s *Session) SubmitPuzzleAnswer(puzzleID string, input Answer) (Result, error) {
	if !s.state.Started() {
		return Result{}, newError(CodeGameNotStarted, "start or load a game first")
	}
	res, err := s.puzzles.SubmitAnswer(puzzleID, input)
	if err != nil {
		s.env.Events.Notify(userMessage(err))
		return Result{}, err
	}
	s.reportResult(res)
	return res, nil
}

// AnswerDevice submits input to the puzzle armed by a device. Wrong
// answers here cost PenaltyDeviceWrong on top of any lockout penalty.
func (s *Session) AnswerDevice(input Answer) (Result, error) {
	if !s.state.Started() {
		return Result{}, newError(CodeGameNotStarted, "start or load a game first")
	}
	if s.device == "" {
		return Result{}, newError(CodePreconditionUnmet, "no device is active")
	}
	puzzleID := s.device
	before, _ := s.puzzles.State(puzzleID)
	res, err := s.puzzles.SubmitAnswer(puzzleID, input)
	if err != nil {
		s.env.Events.Notify(userMessage(err))
		return Result{}, err
	}
	after, _ := s.puzzles.State(puzzleID)
	// a puzzle that was already locked ignores the answer and costs nothing
	if res.Outcome != OutcomeCorrect && after.Attempts > before.Attempts {
		s.env.Effects.PlaySound("error")
		s.sanity.Apply(TriggerDeviceWrong)
	}
	if res.Outcome != OutcomeIncorrect {
		s.device = ""
	}
	s.reportResult(res)
	return res, nil
}

// SubmitPuzzleText parses raw text for the puzzle's type and submits it
func (s *Session) SubmitPuzzleText(puzzleID, raw string) (Result, error) {
	def, ok := s.puzzles.Definition(puzzleID)
	if !ok {
		return Result{}, newError(CodeNotFound, "no puzzle %q", puzzleID)
	}
	input, err := ParseAnswer(def.Type, raw)
	if err != nil {
		return Result{}, err
	}
	return s.SubmitPuzzleAnswer(puzzleID, input)
}

// AnswerDeviceText parses raw text for the armed device's puzzle
func (s *Session) AnswerDeviceText(raw string) (Result, error) {
	if s.device == "" {
		return Result{}, newError(CodePreconditionUnmet, "no device is active")
	}
	def, _ := s.puzzles.Definition(s.device)
	input, err := ParseAnswer(def.Type, raw)
	if err != nil {
		return Result{}, err
	}
	return s.AnswerDevice(input)
}

func (s *Session) reportResult(res Result) {
	switch res.Outcome {
	case OutcomeIncorrect:
		s.env.Events.Notify(fmt.Sprintf("Not quite. %d attempts left", res.Remaining))
	case OutcomeLocked:
		s.env.Events.Notify("Locked")
	}
}

// RequestHint returns the next hint for a puzzle
func (s *Session) RequestHint(puzzleID string) (string, error) {
	if !s.state.Started() {
		return "", newError(CodeGameNotStarted, "start or load a game first")
	}
	hint, err := s.puzzles.RequestHint(puzzleID)
	if err != nil {
		s.env.Events.Notify(userMessage(err))
		return "", err
	}
	if hint != "" {
		s.env.Events.Notify("Hint: " + hint)
	}
	return hint, nil
}

// UseItem uses the item in slot
func (s *Session) UseItem(slot int) error {
	if !s.state.Started() {
		return newError(CodeGameNotStarted, "start or load a game first")
	}
	if err := s.inventory.Use(slot); err != nil {
		s.env.Events.Notify(userMessage(err))
		return err
	}
	return nil
}

// DropItem removes the item in slot and leaves it in the world
func (s *Session) DropItem(slot int) error {
	if !s.state.Started() {
		return newError(CodeGameNotStarted, "start or load a game first")
	}
	item, ok := s.inventory.RemoveItem(slot)
	if !ok {
		return newError(CodeInvalidSlot, "slot %d is empty", slot)
	}
	obj := types.WorldObject{
		ID:       "dropped_" + item.ID,
		Position: s.player.Position,
		Radius:   DefaultInteractionRadius,
		Hint:     item.Name,
		Action:   "pickup_item",
	}
	s.dropped[obj.ID] = item
	s.world.Spawn(obj)
	s.env.Events.Notify("Dropped " + item.Name)
	return nil
}

// SetNote replaces the player's scratchpad
func (s *Session) SetNote(text string) error {
	if !s.state.Started() {
		return newError(CodeGameNotStarted, "start or load a game first")
	}
	s.state.SetNote(text)
	s.env.Events.Emit(Event{Kind: EventNoteSaved})
	return nil
}

// AddPhotoNote attaches a note to an unlocked photo
func (s *Session) AddPhotoNote(photoID, text string, tags []string) error {
	if !s.photos.IsUnlocked(photoID) {
		return newError(CodePreconditionUnmet, "memory %q has not been found", photoID)
	}
	return s.photos.AddNote(photoID, text, tags)
}

// ViewPhoto shows a photo. Looking at a found memory costs sanity; a
// locked one shows only its outline.
func (s *Session) ViewPhoto(photoID string) (types.PhotoEntry, error) {
	entry, ok := s.photos.Get(photoID)
	if !ok {
		return types.PhotoEntry{}, newError(CodeNotFound, "no photo %q", photoID)
	}
	if !entry.Unlocked {
		s.env.Events.Notify("The picture is too faded to make out")
		return types.PhotoEntry{ID: entry.ID, Name: "???", Unlocked: false}, nil
	}
	s.sanity.Apply(TriggerPhotoView)
	s.env.Events.Notify(entry.Name + ": " + entry.Description)
	return entry, nil
}

// TriggerEnding records an ending and saves
func (s *Session) TriggerEnding(endingID string) {
	if !s.state.ReachEnding(endingID) {
		return
	}
	s.env.Logger.Info("Ending reached", zap.String("ending", endingID))
	s.env.Effects.PlaySound("ending")
	s.env.Events.Emit(Event{Kind: EventEndingTriggered, ID: endingID})
	s.env.Events.Notify("The end: " + endingID)
	s.requestSave("ending")
}

// rewards

func (s *Session) rewardPhoto(photoID string) error {
	_, err := s.photos.Unlock(photoID, s.state.Scene())
	return err
}

func (s *Session) rewardItem(spec types.ItemSpec) error {
	if _, err := s.inventory.AddItem(spec); err != nil {
		return err
	}
	s.state.CountItemCollected()
	s.env.Events.Notify("Received " + spec.Name)
	return nil
}

// item handlers

func (s *Session) useFragment(item types.InventoryItem) error {
	_, err := s.ViewPhoto(item.Data["photo"])
	return err
}

func (s *Session) useKey(item types.InventoryItem) error {
	s.env.Effects.PlaySound("unlock")
	s.env.Events.Notify("You turn the " + item.Name + " over in your hands")
	return nil
}

func (s *Session) useNote(item types.InventoryItem) error {
	text := item.Data["text"]
	if text == "" {
		text = item.Description
	}
	s.env.Events.Notify(text)
	return nil
}

func (s *Session) useTool(item types.InventoryItem) error {
	s.env.Logger.Debug("Tool used", zap.String("item", item.Name))
	return nil
}

// action handlers

func (s *Session) onDiary(obj types.WorldObject) error {
	text := obj.Data["text"]
	if text == "" {
		gs := s.state.Data()
		text = fmt.Sprintf("%s. %s.", gs.MeetingDate, gs.TogetherDate)
	}
	s.env.Events.Notify(text)
	return nil
}

func (s *Session) onViewPhoto(obj types.WorldObject) error {
	s.sanity.Apply(TriggerPhotoFrame)
	entry, ok := s.photos.Get(obj.Data["photo"])
	if !ok || !entry.Unlocked {
		s.env.Events.Notify("The frame is empty")
		return nil
	}
	s.env.Effects.SpawnMemoryEffect(obj.Position, entry.ID)
	s.env.Events.Notify(entry.Name + ": " + entry.Description)
	return nil
}

func (s *Session) onStartPuzzle(obj types.WorldObject) error {
	view, err := s.puzzles.Activate(obj.Data["puzzle"])
	if err != nil {
		return err
	}
	s.env.Events.Notify(view.Name + ": " + view.Description)
	return nil
}

func (s *Session) onPuzzleDevice(obj types.WorldObject) error {
	puzzleID := obj.Data["puzzle"]
	if state, ok := s.puzzles.State(puzzleID); ok && state.Locked {
		return newError(CodePreconditionUnmet, "the mechanism will not move").with("puzzle", puzzleID)
	}
	view, err := s.puzzles.Activate(puzzleID)
	if err != nil {
		return err
	}
	s.device = view.ID
	s.env.Events.Notify(view.Description)
	return nil
}

func (s *Session) onMirror(types.WorldObject) error {
	s.env.Effects.PlaySound("mirror")
	s.sanity.Apply(TriggerMirror)
	s.env.Events.Notify("Something in the mirror is not you")
	return nil
}

func (s *Session) onCollectFragment(obj types.WorldObject) error {
	photoID := obj.Data["photo"]
	entry, ok := s.photos.Get(photoID)
	if !ok {
		return newError(CodeNotFound, "no photo %q", photoID)
	}
	if !s.state.Collect(obj.ID) {
		return nil
	}
	s.state.CountItemCollected()
	s.world.Remove(obj.ID)
	s.detector.Clear()

	if _, err := s.photos.Unlock(photoID, entry.Location); err != nil {
		return err
	}
	_, err := s.inventory.AddItem(types.ItemSpec{
		Type:        types.ItemPhotoFragment,
		Name:        entry.Name,
		Description: entry.Clue,
		Icon:        "photo",
		Data:        map[string]string{"photo": photoID},
		Usable:      true,
	})
	if err != nil {
		s.env.Events.Notify("Your pockets are full, but the memory stays with you")
	}
	return nil
}

func (s *Session) onPickupItem(obj types.WorldObject) error {
	item, ok := s.dropped[obj.ID]
	if !ok {
		return newError(CodeNotFound, "nothing to pick up")
	}
	_, err := s.inventory.AddItem(types.ItemSpec{
		Type:        item.Type,
		Name:        item.Name,
		Description: item.Description,
		Icon:        item.Icon,
		Data:        item.Data,
		Quantity:    item.Quantity,
		Stackable:   item.Stackable,
		Usable:      item.Usable,
		Consumable:  item.Consumable,
	})
	if err != nil {
		return err
	}
	delete(s.dropped, obj.ID)
	s.world.Remove(obj.ID)
	s.detector.Clear()
	s.env.Effects.PlaySound("collect")
	return nil
}

func (s *Session) onDoor(obj types.WorldObject) error {
	if required := obj.Data["requires"]; required != "" && !s.inventory.HasItem(types.ItemType(required)) {
		return newError(CodePreconditionUnmet, "the door is locked").with("requires", required)
	}
	s.env.Effects.PlaySound("door")
	s.requestTransition(obj.Data["scene"], false)
	return nil
}

func userMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "Something went wrong"
}
