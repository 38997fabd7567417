package game

import (
	"slices"
	"strconv"
	"time"

	"github.com/user/memory-beacon/internal/types"
	"go.uber.org/zap"
)

// Outcome is the result of an answer submission
type Outcome int

const (
	OutcomeCorrect Outcome = iota + 1
	OutcomeIncorrect
	OutcomeLocked
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCorrect:
		return "correct"
	case OutcomeIncorrect:
		return "incorrect"
	case OutcomeLocked:
		return "locked"
	}
	return "unknown"
}

// Result reports an answer submission; Remaining is set for Incorrect
type Result struct {
	Outcome   Outcome `json:"-"`
	Status    string  `json:"status"`
	Remaining int     `json:"remaining"`
}

func newResult(o Outcome, remaining int) Result {
	return Result{Outcome: o, Status: o.String(), Remaining: remaining}
}

// PuzzleView is what a presentation layer needs to show a puzzle
type PuzzleView struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Hint        string     `json:"hint,omitempty"`
	Type        PuzzleType `json:"type"`
	Options     []string   `json:"options,omitempty"`
	Attempts    int        `json:"attempts"`
	MaxAttempts int        `json:"max_attempts"`
	HintsUsed   int        `json:"hints_used"`
	Solved      bool       `json:"solved"`
	Locked      bool       `json:"locked"`
}

// RewardHandlers receive solved-puzzle rewards by kind
type RewardHandlers struct {
	Photo  func(photoID string) error
	Item   func(spec types.ItemSpec) error
	Ending func(endingID string)
}

// PuzzleEngine holds puzzle definitions and their runtime state
type PuzzleEngine struct {
	env      *Env
	sanity   *SanityController
	defs     []Definition
	states   map[string]*types.PuzzleState
	history  []types.PuzzleAttempt
	active   string
	rewards  RewardHandlers
	unlocked func() int
}

// NewPuzzleEngine creates an engine with every puzzle unsolved.
// unlockedPhotos reports the current photo count for activation checks.
func NewPuzzleEngine(env *Env, sanity *SanityController, defs []Definition, unlockedPhotos func() int) *PuzzleEngine {
	e := &PuzzleEngine{
		env:      env,
		sanity:   sanity,
		defs:     defs,
		states:   make(map[string]*types.PuzzleState, len(defs)),
		unlocked: unlockedPhotos,
	}
	e.Reset()
	return e
}

// SetRewardHandlers wires the reward pipeline
func (e *PuzzleEngine) SetRewardHandlers(h RewardHandlers) {
	e.rewards = h
}

func (e *PuzzleEngine) lookup(puzzleID string) (*Definition, *types.PuzzleState, error) {
	for i := range e.defs {
		if e.defs[i].ID == puzzleID {
			return &e.defs[i], e.states[puzzleID], nil
		}
	}
	e.env.Logger.Warn("Unknown puzzle", zap.String("puzzle_id", puzzleID))
	return nil, nil, newError(CodeNotFound, "no puzzle %q", puzzleID)
}

// Definition returns the definition for puzzleID
func (e *PuzzleEngine) Definition(puzzleID string) (Definition, bool) {
	def, _, err := e.lookup(puzzleID)
	if err != nil {
		return Definition{}, false
	}
	return *def, true
}

func (e *PuzzleEngine) checkPrecondition(def *Definition) error {
	if def.RequiredPhotos <= 0 || e.unlocked == nil {
		return nil
	}
	have := e.unlocked()
	if have >= def.RequiredPhotos {
		return nil
	}
	return newError(CodePreconditionUnmet, "%d of %d memories found", have, def.RequiredPhotos).
		with("required_photos", strconv.Itoa(def.RequiredPhotos)).
		with("unlocked_photos", strconv.Itoa(have))
}

// Activate makes puzzleID the active puzzle
func (e *PuzzleEngine) Activate(puzzleID string) (PuzzleView, error) {
	def, state, err := e.lookup(puzzleID)
	if err != nil {
		return PuzzleView{}, err
	}
	if state.Solved {
		return PuzzleView{}, newError(CodeAlreadySolved, "%s is already solved", def.Name)
	}
	if err := e.checkPrecondition(def); err != nil {
		return PuzzleView{}, err
	}

	e.active = puzzleID
	e.env.Events.Emit(Event{Kind: EventPuzzleActivated, ID: puzzleID})
	return e.view(def, state, true), nil
}

// Active returns the active puzzle id
func (e *PuzzleEngine) Active() (string, bool) {
	return e.active, e.active != ""
}

// Close deactivates the active puzzle
func (e *PuzzleEngine) Close() {
	e.active = ""
}

// ResetPuzzle clears presentation state for puzzleID. Attempts and the
// solved and locked flags are kept.
func (e *PuzzleEngine) ResetPuzzle(puzzleID string) (PuzzleView, error) {
	def, state, err := e.lookup(puzzleID)
	if err != nil {
		return PuzzleView{}, err
	}
	if e.active == puzzleID {
		e.active = ""
	}
	return e.view(def, state, true), nil
}

// View returns the current view of puzzleID
func (e *PuzzleEngine) View(puzzleID string) (PuzzleView, error) {
	def, state, err := e.lookup(puzzleID)
	if err != nil {
		return PuzzleView{}, err
	}
	return e.view(def, state, false), nil
}

func (e *PuzzleEngine) view(def *Definition, state *types.PuzzleState, shuffle bool) PuzzleView {
	options := slices.Clone(def.Options)
	if shuffle && def.Type == PuzzleSequence {
		options = e.env.Dice.Shuffle(options)
	}
	return PuzzleView{
		ID:          def.ID,
		Name:        def.Name,
		Description: def.Description,
		Hint:        def.Hint,
		Type:        def.Type,
		Options:     options,
		Attempts:    state.Attempts,
		MaxAttempts: def.MaxAttempts,
		HintsUsed:   state.HintsUsed,
		Solved:      state.Solved,
		Locked:      state.Locked,
	}
}

// SubmitAnswer validates input against puzzleID. Malformed input is
// rejected without consuming an attempt. A solved puzzle rejects further
// answers and a locked one reports Locked without counting them.
func (e *PuzzleEngine) SubmitAnswer(puzzleID string, input Answer) (Result, error) {
	def, state, err := e.lookup(puzzleID)
	if err != nil {
		return Result{}, err
	}
	if state.Solved {
		return Result{}, newError(CodeAlreadySolved, "%s is already solved", def.Name)
	}
	if state.Locked {
		return newResult(OutcomeLocked, 0), nil
	}
	if err := e.checkPrecondition(def); err != nil {
		return Result{}, err
	}
	if input == nil {
		return Result{}, newError(CodeInvalidInput, "no answer")
	}

	correct, err := def.Solution.Check(input)
	if err != nil {
		e.env.Logger.Warn("Rejected puzzle input",
			zap.String("puzzle_id", puzzleID),
			zap.Error(err))
		return Result{}, err
	}

	now := e.env.Now()
	state.Attempts++
	state.LastAttempt = &now
	e.history = append(e.history, types.PuzzleAttempt{
		PuzzleID:  puzzleID,
		Input:     input.String(),
		Timestamp: now,
		Correct:   correct,
	})

	if correct {
		e.solve(def, state, now)
		return newResult(OutcomeCorrect, 0), nil
	}

	if state.Attempts >= def.MaxAttempts {
		state.Locked = true
		if e.active == puzzleID {
			e.active = ""
		}
		e.env.Logger.Info("Puzzle locked",
			zap.String("puzzle_id", puzzleID),
			zap.Int("attempts", state.Attempts))
		e.sanity.Apply(TriggerPuzzleLockout)
		e.env.Events.Emit(Event{Kind: EventPuzzleLocked, ID: puzzleID})
		return newResult(OutcomeLocked, 0), nil
	}

	return newResult(OutcomeIncorrect, def.MaxAttempts-state.Attempts), nil
}

func (e *PuzzleEngine) solve(def *Definition, state *types.PuzzleState, now time.Time) {
	state.Solved = true
	state.SolvedAt = &now
	if e.active == def.ID {
		e.active = ""
	}
	e.env.Logger.Info("Puzzle solved",
		zap.String("puzzle_id", def.ID),
		zap.Int("attempts", state.Attempts))

	e.grant(def)
	e.sanity.Apply(TriggerPuzzleSolved)

	e.env.Events.Emit(Event{Kind: EventPuzzleSolved, ID: def.ID, Message: def.Name})
	if e.SolvedCount() == len(e.defs) {
		e.env.Events.Emit(Event{Kind: EventAllPuzzlesSolved})
	}
}

// grant dispatches the reward by kind. Reward failures are reported to the
// player but do not undo the solve.
func (e *PuzzleEngine) grant(def *Definition) {
	var err error
	switch r := def.Reward.(type) {
	case PhotoReward:
		if e.rewards.Photo != nil {
			err = e.rewards.Photo(r.PhotoID)
		}
	case ItemReward:
		if e.rewards.Item != nil {
			err = e.rewards.Item(r.Item)
		}
	case EndingReward:
		if e.rewards.Ending != nil {
			e.rewards.Ending(r.EndingID)
		}
	}
	if err != nil {
		e.env.Logger.Warn("Failed to grant reward",
			zap.String("puzzle_id", def.ID),
			zap.Error(err))
		e.env.Events.Notify("The reward slipped away: " + err.Error())
	}
}

// RequestHint returns the next additional hint and costs a little sanity.
// Once the list is exhausted the last hint repeats; a puzzle without
// additional hints repeats its primary hint.
func (e *PuzzleEngine) RequestHint(puzzleID string) (string, error) {
	def, state, err := e.lookup(puzzleID)
	if err != nil {
		return "", err
	}
	state.HintsUsed++
	e.sanity.Apply(TriggerHint)

	if len(def.Hints) == 0 {
		return def.Hint, nil
	}
	i := min(state.HintsUsed-1, len(def.Hints)-1)
	return def.Hints[i], nil
}

// SolvedCount returns the number of solved puzzles
func (e *PuzzleEngine) SolvedCount() int {
	n := 0
	for _, s := range e.states {
		if s.Solved {
			n++
		}
	}
	return n
}

// Count returns the number of defined puzzles
func (e *PuzzleEngine) Count() int {
	return len(e.defs)
}

// State returns a copy of the runtime state of puzzleID
func (e *PuzzleEngine) State(puzzleID string) (types.PuzzleState, bool) {
	s, ok := e.states[puzzleID]
	if !ok {
		return types.PuzzleState{}, false
	}
	return *s, true
}

// History returns every recorded submission
func (e *PuzzleEngine) History() []types.PuzzleAttempt {
	return slices.Clone(e.history)
}

// Reset returns every puzzle to unsolved with no attempts
func (e *PuzzleEngine) Reset() {
	for _, def := range e.defs {
		e.states[def.ID] = &types.PuzzleState{ID: def.ID}
	}
	e.history = []types.PuzzleAttempt{}
	e.active = ""
}

// Snapshot returns the runtime state for persistence
func (e *PuzzleEngine) Snapshot() *types.PuzzleRecord {
	rec := &types.PuzzleRecord{
		Version: PuzzleStateVersion,
		Puzzles: make([]types.PuzzleState, 0, len(e.defs)),
		History: slices.Clone(e.history),
	}
	for _, def := range e.defs {
		rec.Puzzles = append(rec.Puzzles, *e.states[def.ID])
	}
	return rec
}

// LoadFrom replaces runtime state, or fails leaving it untouched
func (e *PuzzleEngine) LoadFrom(rec *types.PuzzleRecord) error {
	if err := e.validate(rec); err != nil {
		return err
	}
	e.Reset()
	for _, s := range rec.Puzzles {
		copied := s
		e.states[s.ID] = &copied
	}
	if rec.History != nil {
		e.history = slices.Clone(rec.History)
	}
	return nil
}

func (e *PuzzleEngine) validate(rec *types.PuzzleRecord) error {
	if rec == nil {
		return newError(CodeDeserialization, "missing puzzle state")
	}
	if rec.Version != PuzzleStateVersion {
		return newError(CodeDeserialization, "puzzle state version %q", rec.Version)
	}
	for _, s := range rec.Puzzles {
		if _, ok := e.states[s.ID]; !ok {
			return newError(CodeDeserialization, "unknown puzzle %q", s.ID)
		}
		if s.Solved && s.Locked {
			return newError(CodeDeserialization, "puzzle %q is both solved and locked", s.ID)
		}
		if s.Attempts < 0 || s.HintsUsed < 0 {
			return newError(CodeDeserialization, "puzzle %q has negative counters", s.ID)
		}
	}
	return nil
}
