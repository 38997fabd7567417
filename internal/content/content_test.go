package content

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPack(t *testing.T) {
	pack, err := Default()
	require.NoError(t, err)

	assert.Len(t, pack.Photos, 7)
	assert.Equal(t, "meeting", pack.Photos[0].ID)
	assert.Equal(t, "future", pack.Photos[6].ID)

	require.NotEmpty(t, pack.Puzzles)
	first := pack.Puzzles[0]
	assert.Equal(t, "puzzle_01", first.ID)
	assert.Equal(t, "number", first.Type)
	assert.Equal(t, "420", first.Answer)
	assert.Equal(t, "meeting", first.Reward.ID)

	scene, ok := pack.Scene("scene1")
	require.True(t, ok)
	assert.NotEmpty(t, scene.Objects)
	assert.Equal(t, 1.6, scene.Start.Position.Y)

	_, ok = pack.Scene("missing")
	assert.False(t, ok)
}

func TestDataLoaderFromDirectory(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0644))
	}
	write("photos.yaml", "- id: a\n  name: A\n")
	write("puzzles.yaml", "- id: p\n  type: number\n  answer: \"1\"\n  reward: {type: photo_fragment, id: a}\n")
	write("scenes.yaml", "- id: s\n  objects:\n    - {id: o, action: diary}\n")

	pack, err := NewDataLoader(dir).Load()
	require.NoError(t, err)
	assert.Len(t, pack.Photos, 1)
	assert.Len(t, pack.Puzzles, 1)
	assert.Len(t, pack.Scenes, 1)
}

func TestDataLoaderMissingFile(t *testing.T) {
	_, err := NewDataLoader(t.TempDir()).Load()
	assert.Error(t, err)
}

func TestValidateRejectsDanglingReferences(t *testing.T) {
	pack := &Pack{
		Photos:  []Photo{{ID: "a"}},
		Puzzles: []Puzzle{{ID: "p", Reward: Reward{Type: "photo_fragment", ID: "b"}}},
	}
	assert.Error(t, pack.Validate())

	pack = &Pack{
		Photos: []Photo{{ID: "a"}, {ID: "a"}},
	}
	assert.Error(t, pack.Validate())
}
