package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/memory-beacon/internal/content"
)

func TestParseAnswer(t *testing.T) {
	tests := []struct {
		name   string
		kind   PuzzleType
		raw    string
		want   Answer
		hasErr bool
	}{
		{"number", PuzzleNumber, " 420 ", TextAnswer("420"), false},
		{"logic", PuzzleLogic, "umbrella", TextAnswer("umbrella"), false},
		{"sequence", PuzzleSequence, "a, b ,c", SequenceAnswer{"a", "b", "c"}, false},
		{"memory phrase", PuzzleMemory, "love", TextAnswer("love"), false},
		{"memory selection", PuzzleMemory, "meeting,dating", SelectionAnswer{"meeting", "dating"}, false},
		{"pattern", PuzzlePattern, "101/010", PatternAnswer{{true, false, true}, {false, true, false}}, false},
		{"bad pattern cell", PuzzlePattern, "1x1", nil, true},
		{"unknown type", PuzzleType("riddle"), "x", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAnswer(tt.kind, tt.raw)
			if tt.hasErr {
				assert.ErrorIs(t, err, ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPatternAnswerString(t *testing.T) {
	a := PatternAnswer{{true, false}, {false, true}}
	assert.Equal(t, "10/01", a.String())

	parsed, err := ParseAnswer(PuzzlePattern, a.String())
	require.NoError(t, err)
	assert.Equal(t, a, parsed)
}

func TestSolutionChecks(t *testing.T) {
	memory := MemorySolution{Required: []string{"a", "b"}, Phrase: "love"}

	ok, err := memory.Check(SelectionAnswer{"b", "c", "a"})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = memory.Check(SelectionAnswer{"a"})
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = memory.Check(TextAnswer("Love"))
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = memory.Check(SelectionAnswer{})
	assert.ErrorIs(t, err, ErrInvalidInput)

	pattern := PatternSolution{Grid: [][]bool{{true}, {false}}}
	ok, err = pattern.Check(PatternAnswer{{true}})
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = LogicSolution{Option: "x"}.Check(SelectionAnswer{"x"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	ok, err = SequenceSolution{Order: []string{"a", "b"}}.Check(SequenceAnswer{"b", "a"})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMaxAttemptsByType(t *testing.T) {
	assert.Equal(t, 3, PuzzleNumber.MaxAttempts())
	assert.Equal(t, 3, PuzzleLogic.MaxAttempts())
	assert.Equal(t, 5, PuzzleSequence.MaxAttempts())
	assert.Equal(t, 4, PuzzlePattern.MaxAttempts())
	assert.Equal(t, 2, PuzzleMemory.MaxAttempts())
}

func TestBuildDefinition(t *testing.T) {
	def, err := BuildDefinition(content.Puzzle{
		ID:              "p",
		Type:            "pattern",
		Hint:            "first",
		AdditionalHints: []string{"second"},
		Pattern:         [][]int{{1, 0}, {0, 1}},
		Reward:          content.Reward{Type: "ending", ID: "e"},
	})
	require.NoError(t, err)
	assert.Equal(t, 4, def.MaxAttempts)
	assert.Equal(t, "first", def.Hint)
	assert.Equal(t, []string{"second"}, def.Hints)
	assert.Equal(t, EndingReward{EndingID: "e"}, def.Reward)
	assert.Equal(t, PatternSolution{Grid: [][]bool{{true, false}, {false, true}}}, def.Solution)

	_, err = BuildDefinition(content.Puzzle{ID: "p", Type: "riddle", Reward: content.Reward{Type: "ending"}})
	assert.Error(t, err)
	_, err = BuildDefinition(content.Puzzle{ID: "p", Type: "number", Reward: content.Reward{Type: "item"}})
	assert.Error(t, err)
	_, err = BuildDefinition(content.Puzzle{ID: "p", Type: "number", Reward: content.Reward{Type: "gold"}})
	assert.Error(t, err)
}
