package game

import (
	"github.com/user/memory-beacon/internal/types"
	"go.uber.org/zap"
)

// Detector tracks the single world object the player can interact with
type Detector struct {
	env         *Env
	maxDistance float64
	current     *types.WorldObject
}

// NewDetector creates a detector with the given engagement distance
func NewDetector(env *Env, maxDistance float64) *Detector {
	if maxDistance <= 0 {
		maxDistance = MaxEngagementDistance
	}
	return &Detector{env: env, maxDistance: maxDistance}
}

// Update recomputes the target from the player transform. The closest
// object within both its own radius and the engagement distance wins;
// exact ties keep the first in iteration order.
func (d *Detector) Update(player types.Transform, objects []types.WorldObject) (types.WorldObject, bool) {
	var best *types.WorldObject
	bestDist := 0.0
	for i := range objects {
		obj := &objects[i]
		radius := obj.Radius
		if radius <= 0 {
			radius = DefaultInteractionRadius
		}
		dist := player.Position.DistanceTo(obj.Position)
		if dist >= radius || dist >= d.maxDistance {
			continue
		}
		if best == nil || dist < bestDist {
			best, bestDist = obj, dist
		}
	}

	switch {
	case best == nil && d.current != nil:
		lost := d.current.ID
		d.current = nil
		d.env.Logger.Debug("Target lost", zap.String("object_id", lost))
		d.env.Events.Emit(Event{Kind: EventTargetLost, ID: lost})
	case best != nil && (d.current == nil || d.current.ID != best.ID):
		target := *best
		d.current = &target
		d.env.Logger.Debug("Target acquired",
			zap.String("object_id", target.ID),
			zap.Float64("distance", bestDist))
		d.env.Events.Emit(Event{Kind: EventTargetAcquired, ID: target.ID, Message: target.Hint, Object: &target})
	case best != nil:
		// same object; refresh its descriptor without re-announcing
		target := *best
		d.current = &target
	}

	return d.Target()
}

// Target returns the current target
func (d *Detector) Target() (types.WorldObject, bool) {
	if d.current == nil {
		return types.WorldObject{}, false
	}
	return *d.current, true
}

// Clear drops the target, announcing the loss if there was one
func (d *Detector) Clear() {
	if d.current == nil {
		return
	}
	lost := d.current.ID
	d.current = nil
	d.env.Events.Emit(Event{Kind: EventTargetLost, ID: lost})
}

// ActionKind is the closed set of interaction actions
type ActionKind int

const (
	ActionDiary ActionKind = iota + 1
	ActionViewPhoto
	ActionStartPuzzle
	ActionPuzzleDevice
	ActionMirror
	ActionCollectFragment
	ActionPickupItem
	ActionDoor
)

var actionNames = map[string]ActionKind{
	"diary":            ActionDiary,
	"view_photo":       ActionViewPhoto,
	"start_puzzle":     ActionStartPuzzle,
	"puzzle_device":    ActionPuzzleDevice,
	"mirror":           ActionMirror,
	"collect_fragment": ActionCollectFragment,
	"pickup_item":      ActionPickupItem,
	"door":             ActionDoor,
}

func (k ActionKind) String() string {
	for name, kind := range actionNames {
		if kind == k {
			return name
		}
	}
	return "unknown"
}

// ParseAction resolves an action name from scene data
func ParseAction(name string) (ActionKind, error) {
	kind, ok := actionNames[name]
	if !ok {
		return 0, newError(CodeUnknownAction, "unknown action %q", name).with("action", name)
	}
	return kind, nil
}

// ActionHandler performs one action against a target
type ActionHandler func(target types.WorldObject) error

// Dispatcher maps action kinds to handlers
type Dispatcher struct {
	env      *Env
	handlers map[ActionKind]ActionHandler
}

// NewDispatcher creates a dispatcher from a handler table
func NewDispatcher(env *Env, handlers map[ActionKind]ActionHandler) *Dispatcher {
	return &Dispatcher{env: env, handlers: handlers}
}

// Dispatch runs the handler for target's action. Unknown actions are
// logged and returned as unknown_action without touching any state.
func (d *Dispatcher) Dispatch(target types.WorldObject) error {
	kind, err := ParseAction(target.Action)
	if err != nil {
		d.env.Logger.Warn("Unknown interaction",
			zap.String("object_id", target.ID),
			zap.String("action", target.Action))
		return err
	}
	h, ok := d.handlers[kind]
	if !ok {
		d.env.Logger.Warn("No handler for action",
			zap.String("object_id", target.ID),
			zap.String("action", target.Action))
		return newError(CodeUnknownAction, "no handler for %q", target.Action).with("action", target.Action)
	}

	d.env.Effects.PlaySound("interact")
	d.env.Logger.Debug("Dispatching interaction",
		zap.String("object_id", target.ID),
		zap.String("action", kind.String()))
	return h(target)
}
