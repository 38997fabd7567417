package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/memory-beacon/internal/content"
	"github.com/user/memory-beacon/internal/types"
)

func testPack() *content.Pack {
	return &content.Pack{
		Scenes: []content.Scene{
			{
				ID:    "a",
				Start: types.Transform{Position: types.Vec3{Y: 1.6}},
				Objects: []types.WorldObject{
					{ID: "a1", Action: "diary"},
					{ID: "a2", Action: "mirror"},
				},
			},
			{
				ID:      "b",
				Objects: []types.WorldObject{{ID: "b1", Action: "door"}},
			},
		},
	}
}

func TestTransitionAndObjects(t *testing.T) {
	w := New(testPack())
	assert.Empty(t, w.Objects())

	require.NoError(t, w.TransitionTo("a"))
	assert.Equal(t, "a", w.Scene())
	assert.Len(t, w.Objects(), 2)

	assert.Error(t, w.TransitionTo("missing"))
	assert.Equal(t, "a", w.Scene())

	start, ok := w.PlayerStart("a")
	require.True(t, ok)
	assert.Equal(t, 1.6, start.Position.Y)
	_, ok = w.PlayerStart("missing")
	assert.False(t, ok)
}

func TestSpawnRemoveReset(t *testing.T) {
	w := New(testPack())
	require.NoError(t, w.TransitionTo("a"))

	w.Spawn(types.WorldObject{ID: "dropped", Action: "pickup_item"})
	assert.Len(t, w.Objects(), 3)

	// removal works for objects outside the active scene too
	w.Remove("b1")
	w.Remove("a1")
	assert.Len(t, w.Objects(), 2)
	require.NoError(t, w.TransitionTo("b"))
	assert.Empty(t, w.Objects())

	w.Reset()
	assert.Len(t, w.Objects(), 1)
	require.NoError(t, w.TransitionTo("a"))
	assert.Len(t, w.Objects(), 2)
}

func TestObjectsReturnsCopy(t *testing.T) {
	w := New(testPack())
	require.NoError(t, w.TransitionTo("a"))

	objs := w.Objects()
	objs[0].ID = "changed"
	assert.Equal(t, "a1", w.Objects()[0].ID)
}
