package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/memory-beacon/internal/types"
)

func TestSanityClamping(t *testing.T) {
	// Setup
	env := newTestEnv()
	events := recordEvents(env)
	state := NewState(env, Identity{PlayerName: "You"}, "scene1")

	// Test case 1: reduction clamps at zero and breaks once
	state.ReduceSanity(60)
	assert.Equal(t, 40.0, state.Sanity())
	state.ReduceSanity(1000)
	assert.Equal(t, 0.0, state.Sanity())
	assert.Equal(t, 1, events.count(EventSanityBroken))
	assert.Equal(t, 1, state.Data().Deaths)

	// Test case 2: already at zero does not break again
	state.ReduceSanity(5)
	assert.Equal(t, 1, events.count(EventSanityBroken))

	// Test case 3: restoration caps at the maximum
	state.RestoreSanity(500)
	assert.Equal(t, MaxSanity, state.Sanity())
	assert.Equal(t, 0.0, state.Data().SanityLowest)

	// Test case 4: non-positive amounts are ignored
	events.reset()
	state.ReduceSanity(-3)
	state.RestoreSanity(0)
	assert.Empty(t, events.events)
}

func TestTickRecoversSanity(t *testing.T) {
	state := NewState(newTestEnv(), Identity{}, "scene1")
	state.ReduceSanity(10)

	for range 100 {
		state.Tick(0.5)
	}
	assert.InDelta(t, 91.0, state.Sanity(), 1e-9)
	assert.InDelta(t, 50.0, state.PlayTime(), 1e-9)

	for range 2000 {
		state.Tick(0)
	}
	assert.Equal(t, MaxSanity, state.Sanity())
}

func TestStartNewGameKeepsIdentity(t *testing.T) {
	id := Identity{PlayerName: "You", PartnerName: "Her", MeetingDate: "4/20", TogetherDate: "6/20"}
	state := NewState(newTestEnv(), id, "scene1")
	assert.False(t, state.Started())

	state.ReduceSanity(50)
	state.Collect("fragment_meeting")
	state.SetNote("the cafe")
	state.StartNewGame()

	gs := state.Data()
	assert.True(t, gs.GameStarted)
	assert.Equal(t, MaxSanity, gs.Sanity)
	assert.Empty(t, gs.CollectedItems)
	assert.Empty(t, gs.CurrentNote)
	assert.Equal(t, "You", gs.PlayerName)
	assert.Equal(t, "6/20", gs.TogetherDate)
	assert.Equal(t, []string{"scene1"}, gs.DiscoveredAreas)
}

func TestCollectAndEndings(t *testing.T) {
	state := NewState(newTestEnv(), Identity{}, "scene1")

	assert.True(t, state.Collect("a"))
	assert.False(t, state.Collect("a"))
	assert.True(t, state.HasCollected("a"))

	assert.True(t, state.ReachEnding("true_ending"))
	assert.False(t, state.ReachEnding("true_ending"))

	state.SetScene("scene2")
	state.SetScene("scene2")
	assert.Equal(t, "scene2", state.Scene())
	assert.Equal(t, []string{"scene2"}, state.Data().DiscoveredAreas)
}

func TestLoadFromRejectsInvalid(t *testing.T) {
	state := NewState(newTestEnv(), Identity{PlayerName: "You"}, "scene1")
	state.StartNewGame()
	before := state.Data()

	bad := []*types.GameState{
		nil,
		{Sanity: 120, CurrentScene: "scene1"},
		{Sanity: -1, CurrentScene: "scene1"},
		{Sanity: 50, PhotosFound: 9, CurrentScene: "scene1"},
		{Sanity: 50},
	}
	for _, gs := range bad {
		err := state.LoadFrom(gs)
		assert.ErrorIs(t, err, ErrDeserialization)
		assert.Equal(t, before, state.Data())
	}

	require.NoError(t, state.LoadFrom(&types.GameState{Sanity: 42, CurrentScene: "scene2"}))
	assert.Equal(t, 42.0, state.Sanity())
	assert.NotNil(t, state.Data().CollectedItems)
}

func TestDataIsACopy(t *testing.T) {
	state := NewState(newTestEnv(), Identity{}, "scene1")
	state.Collect("a")

	gs := state.Data()
	gs.CollectedItems[0] = "changed"
	assert.True(t, state.HasCollected("a"))
}
