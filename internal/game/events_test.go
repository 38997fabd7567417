package game

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventBusOrder(t *testing.T) {
	bus := NewEventBus()
	var seen []string
	bus.Subscribe(func(e Event) { seen = append(seen, "first:"+e.Kind.String()) })
	bus.Subscribe(func(e Event) { seen = append(seen, "second:"+e.Kind.String()) })

	bus.Emit(Event{Kind: EventPhotoUnlocked})
	bus.Notify("hello")

	assert.Equal(t, []string{
		"first:photo_unlocked",
		"second:photo_unlocked",
		"first:notification",
		"second:notification",
	}, seen)
	assert.Equal(t, "unknown", EventKind(0).String())
}

func TestErrorMatchesByCode(t *testing.T) {
	err := newError(CodeInventoryFull, "no room").with("capacity", "12")
	wrapped := fmt.Errorf("pickup: %w", err)

	assert.ErrorIs(t, wrapped, ErrInventoryFull)
	assert.NotErrorIs(t, wrapped, ErrNotFound)
	assert.Equal(t, "no room", err.Error())

	cause := errors.New("disk full")
	storageErr := wrapError(CodeStorage, cause, "failed to write saves")
	assert.ErrorIs(t, storageErr, cause)
	assert.ErrorIs(t, storageErr, ErrStorage)
	assert.Equal(t, "failed to write saves: disk full", storageErr.Error())
}
