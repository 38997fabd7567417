package world

import (
	"fmt"
	"slices"

	"github.com/user/memory-beacon/internal/content"
	"github.com/user/memory-beacon/internal/interfaces"
	"github.com/user/memory-beacon/internal/types"
	"go.uber.org/zap"
)

// World is a data-only scene graph: each scene is a list of interactive
// objects. Removed and spawned objects persist per scene until restart.
type World struct {
	scenes  map[string]content.Scene
	objects map[string][]types.WorldObject
	current string
	Logger  *zap.Logger
}

var _ interfaces.World = (*World)(nil)

// New builds a world from scene definitions
func New(pack *content.Pack) *World {
	w := &World{
		scenes:  make(map[string]content.Scene, len(pack.Scenes)),
		objects: make(map[string][]types.WorldObject, len(pack.Scenes)),
		Logger:  zap.NewNop(),
	}
	for _, scene := range pack.Scenes {
		w.scenes[scene.ID] = scene
		w.objects[scene.ID] = slices.Clone(scene.Objects)
	}
	return w
}

// Scene returns the active scene id
func (w *World) Scene() string {
	return w.current
}

// Objects returns the interactive objects of the active scene
func (w *World) Objects() []types.WorldObject {
	return slices.Clone(w.objects[w.current])
}

// PlayerStart returns the spawn transform of a scene
func (w *World) PlayerStart(sceneID string) (types.Transform, bool) {
	scene, ok := w.scenes[sceneID]
	if !ok {
		return types.Transform{}, false
	}
	return scene.Start, true
}

// TransitionTo makes sceneID active
func (w *World) TransitionTo(sceneID string) error {
	if _, ok := w.scenes[sceneID]; !ok {
		return fmt.Errorf("unknown scene %q", sceneID)
	}
	w.Logger.Debug("Entering scene", zap.String("scene", sceneID))
	w.current = sceneID
	return nil
}

// Spawn adds an object to the active scene
func (w *World) Spawn(obj types.WorldObject) {
	w.objects[w.current] = append(w.objects[w.current], obj)
}

// Remove deletes an object from whichever scene holds it
func (w *World) Remove(objectID string) {
	for id, objs := range w.objects {
		w.objects[id] = slices.DeleteFunc(objs, func(o types.WorldObject) bool {
			return o.ID == objectID
		})
	}
}

// Reset restores every scene to its definition
func (w *World) Reset() {
	for id, scene := range w.scenes {
		w.objects[id] = slices.Clone(scene.Objects)
	}
}
