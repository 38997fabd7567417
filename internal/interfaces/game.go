package interfaces

import "github.com/user/memory-beacon/internal/types"

// Effects receives fire-and-forget presentation requests from the core
type Effects interface {
	PlaySound(name string)
	PlayAmbient(name string)
	SetDistortionIntensity(x float64)
	SpawnMemoryEffect(position types.Vec3, memoryType string)
}

// World supplies the interactive objects of the active scene
type World interface {
	Scene() string
	Objects() []types.WorldObject
	PlayerStart(sceneID string) (types.Transform, bool)
	TransitionTo(sceneID string) error
	Spawn(obj types.WorldObject)
	Remove(objectID string)
	Reset()
}

// BlobStore persists opaque blobs by key
type BlobStore interface {
	Write(key string, blob []byte) error
	Read(key string) ([]byte, bool, error)
}
