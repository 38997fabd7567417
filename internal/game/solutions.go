package game

import (
	"fmt"
	"slices"
	"strings"

	"github.com/user/memory-beacon/internal/content"
	"github.com/user/memory-beacon/internal/types"
)

// PuzzleType selects how answers are validated
type PuzzleType string

const (
	PuzzleNumber   PuzzleType = "number"
	PuzzleSequence PuzzleType = "sequence"
	PuzzlePattern  PuzzleType = "pattern"
	PuzzleLogic    PuzzleType = "logic"
	PuzzleMemory   PuzzleType = "memory"
)

// MaxAttempts returns the attempt budget for the type
func (t PuzzleType) MaxAttempts() int {
	switch t {
	case PuzzleNumber, PuzzleLogic:
		return 3
	case PuzzleSequence:
		return 5
	case PuzzlePattern:
		return 4
	case PuzzleMemory:
		return 2
	}
	return 0
}

// Answer is a submitted puzzle input
type Answer interface {
	isAnswer()
	String() string
}

// TextAnswer is a typed-in answer
type TextAnswer string

// SequenceAnswer is an ordered arrangement of option ids
type SequenceAnswer []string

// PatternAnswer is a grid of toggled cells
type PatternAnswer [][]bool

// SelectionAnswer is an unordered pick of option ids
type SelectionAnswer []string

func (TextAnswer) isAnswer()      {}
func (SequenceAnswer) isAnswer()  {}
func (PatternAnswer) isAnswer()   {}
func (SelectionAnswer) isAnswer() {}

func (a TextAnswer) String() string      { return string(a) }
func (a SequenceAnswer) String() string  { return strings.Join(a, ",") }
func (a SelectionAnswer) String() string { return strings.Join(a, ",") }

func (a PatternAnswer) String() string {
	rows := make([]string, len(a))
	for i, row := range a {
		var b strings.Builder
		for _, cell := range row {
			if cell {
				b.WriteByte('1')
			} else {
				b.WriteByte('0')
			}
		}
		rows[i] = b.String()
	}
	return strings.Join(rows, "/")
}

// ParseAnswer turns raw text from a text harness into the answer shape
// the puzzle type expects. Sequences and selections are comma separated,
// pattern rows are separated by '/' and written as 0 and 1.
func ParseAnswer(t PuzzleType, raw string) (Answer, error) {
	raw = strings.TrimSpace(raw)
	switch t {
	case PuzzleNumber, PuzzleLogic:
		return TextAnswer(raw), nil
	case PuzzleSequence:
		return SequenceAnswer(splitList(raw)), nil
	case PuzzleMemory:
		if strings.Contains(raw, ",") {
			return SelectionAnswer(splitList(raw)), nil
		}
		return TextAnswer(raw), nil
	case PuzzlePattern:
		if raw == "" {
			return PatternAnswer(nil), nil
		}
		var grid PatternAnswer
		for _, row := range strings.Split(raw, "/") {
			cells := make([]bool, 0, len(row))
			for _, c := range strings.TrimSpace(row) {
				switch c {
				case '1':
					cells = append(cells, true)
				case '0':
					cells = append(cells, false)
				default:
					return nil, newError(CodeInvalidInput, "pattern cell %q is not 0 or 1", c)
				}
			}
			grid = append(grid, cells)
		}
		return grid, nil
	}
	return nil, newError(CodeInvalidInput, "unknown puzzle type %q", t)
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Solution validates answers for one puzzle type
type Solution interface {
	Type() PuzzleType
	// Check reports whether a is correct. A malformed or empty answer is
	// an invalid_input error and does not count as an attempt.
	Check(a Answer) (bool, error)
}

// NumberSolution accepts exactly one literal
type NumberSolution struct {
	Value string
}

// SequenceSolution requires the exact ordering
type SequenceSolution struct {
	Order []string
}

// PatternSolution requires the exact grid
type PatternSolution struct {
	Grid [][]bool
}

// LogicSolution accepts exactly one option
type LogicSolution struct {
	Option string
}

// MemorySolution accepts a selection containing every required id, or
// the phrase in any letter case
type MemorySolution struct {
	Required []string
	Phrase   string
}

func (NumberSolution) Type() PuzzleType   { return PuzzleNumber }
func (SequenceSolution) Type() PuzzleType { return PuzzleSequence }
func (PatternSolution) Type() PuzzleType  { return PuzzlePattern }
func (LogicSolution) Type() PuzzleType    { return PuzzleLogic }
func (MemorySolution) Type() PuzzleType   { return PuzzleMemory }

func (s NumberSolution) Check(a Answer) (bool, error) {
	text, ok := a.(TextAnswer)
	if !ok {
		return false, shapeError(PuzzleNumber, a)
	}
	if strings.TrimSpace(string(text)) == "" {
		return false, newError(CodeInvalidInput, "answer is empty")
	}
	return string(text) == s.Value, nil
}

func (s SequenceSolution) Check(a Answer) (bool, error) {
	seq, ok := a.(SequenceAnswer)
	if !ok {
		return false, shapeError(PuzzleSequence, a)
	}
	if len(seq) == 0 {
		return false, newError(CodeInvalidInput, "sequence is empty")
	}
	return slices.Equal([]string(seq), s.Order), nil
}

func (s PatternSolution) Check(a Answer) (bool, error) {
	grid, ok := a.(PatternAnswer)
	if !ok {
		return false, shapeError(PuzzlePattern, a)
	}
	if len(grid) == 0 {
		return false, newError(CodeInvalidInput, "pattern is empty")
	}
	if len(grid) != len(s.Grid) {
		return false, nil
	}
	for i := range grid {
		if !slices.Equal(grid[i], s.Grid[i]) {
			return false, nil
		}
	}
	return true, nil
}

func (s LogicSolution) Check(a Answer) (bool, error) {
	text, ok := a.(TextAnswer)
	if !ok {
		return false, shapeError(PuzzleLogic, a)
	}
	if strings.TrimSpace(string(text)) == "" {
		return false, newError(CodeInvalidInput, "no option selected")
	}
	return string(text) == s.Option, nil
}

func (s MemorySolution) Check(a Answer) (bool, error) {
	switch v := a.(type) {
	case SelectionAnswer:
		if len(v) == 0 {
			return false, newError(CodeInvalidInput, "nothing selected")
		}
		required := s.Required
		if len(required) == 0 {
			required = []string{s.Phrase}
		}
		for _, id := range required {
			if !slices.Contains(v, id) {
				return false, nil
			}
		}
		return true, nil
	case TextAnswer:
		if strings.TrimSpace(string(v)) == "" {
			return false, newError(CodeInvalidInput, "answer is empty")
		}
		return strings.EqualFold(string(v), s.Phrase), nil
	}
	return false, shapeError(PuzzleMemory, a)
}

func shapeError(t PuzzleType, a Answer) *Error {
	return newError(CodeInvalidInput, "%T is not a %s answer", a, t).with("puzzle_type", string(t))
}

// Reward is granted when a puzzle is solved
type Reward interface {
	isReward()
}

// PhotoReward unlocks a memory fragment
type PhotoReward struct {
	PhotoID string
}

// ItemReward adds an inventory item
type ItemReward struct {
	Item types.ItemSpec
}

// EndingReward triggers a narrative ending
type EndingReward struct {
	EndingID string
}

func (PhotoReward) isReward()  {}
func (ItemReward) isReward()   {}
func (EndingReward) isReward() {}

// Definition is the immutable description of a puzzle
type Definition struct {
	ID             string
	Name           string
	Description    string
	Type           PuzzleType
	Scene          string
	Solution       Solution
	Reward         Reward
	Hint           string
	Hints          []string
	Options        []string
	RequiredPhotos int
	MaxAttempts    int
}

// BuildDefinition converts a raw definition into its typed form
func BuildDefinition(p content.Puzzle) (Definition, error) {
	def := Definition{
		ID:             p.ID,
		Name:           p.Name,
		Description:    p.Description,
		Type:           PuzzleType(p.Type),
		Scene:          p.Scene,
		Hint:           p.Hint,
		Hints:          slices.Clone(p.AdditionalHints),
		Options:        slices.Clone(p.Options),
		RequiredPhotos: p.RequiredPhotos,
		MaxAttempts:    p.MaxAttempts,
	}
	switch def.Type {
	case PuzzleNumber:
		def.Solution = NumberSolution{Value: p.Answer}
	case PuzzleLogic:
		def.Solution = LogicSolution{Option: p.Answer}
	case PuzzleSequence:
		def.Solution = SequenceSolution{Order: slices.Clone(p.Sequence)}
	case PuzzlePattern:
		grid := make([][]bool, len(p.Pattern))
		for i, row := range p.Pattern {
			grid[i] = make([]bool, len(row))
			for j, cell := range row {
				grid[i][j] = cell != 0
			}
		}
		def.Solution = PatternSolution{Grid: grid}
	case PuzzleMemory:
		def.Solution = MemorySolution{Required: slices.Clone(p.Required), Phrase: p.Answer}
	default:
		return Definition{}, fmt.Errorf("puzzle %q: unknown type %q", p.ID, p.Type)
	}
	if def.MaxAttempts <= 0 {
		def.MaxAttempts = def.Type.MaxAttempts()
	}

	switch p.Reward.Type {
	case "photo_fragment":
		def.Reward = PhotoReward{PhotoID: p.Reward.ID}
	case "item":
		if p.Reward.Item == nil {
			return Definition{}, fmt.Errorf("puzzle %q: item reward without item", p.ID)
		}
		def.Reward = ItemReward{Item: *p.Reward.Item}
	case "ending":
		def.Reward = EndingReward{EndingID: p.Reward.ID}
	default:
		return Definition{}, fmt.Errorf("puzzle %q: unknown reward type %q", p.ID, p.Reward.Type)
	}

	return def, nil
}
