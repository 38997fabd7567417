package game

import (
	"strconv"

	"github.com/google/uuid"
	"github.com/user/memory-beacon/internal/types"
	"go.uber.org/zap"
)

// UseHandler reacts to using an item of one type
type UseHandler func(item types.InventoryItem) error

// Inventory is a fixed-capacity slot table
type Inventory struct {
	env      *Env
	slots    []*types.InventoryItem
	handlers map[types.ItemType]UseHandler
	newID    func() string
}

// NewInventory creates an empty inventory with the given number of slots
func NewInventory(env *Env, capacity int) *Inventory {
	if capacity <= 0 {
		capacity = InventoryCapacity
	}
	return &Inventory{
		env:      env,
		slots:    make([]*types.InventoryItem, capacity),
		handlers: make(map[types.ItemType]UseHandler),
		newID:    func() string { return "item_" + uuid.New().String() },
	}
}

// SetHandler registers the use handler for an item type
func (inv *Inventory) SetHandler(t types.ItemType, h UseHandler) {
	inv.handlers[t] = h
}

// Capacity returns the number of slots
func (inv *Inventory) Capacity() int {
	return len(inv.slots)
}

// AddItem stores an item. Stackable items merge into an existing stack of
// the same type; otherwise the lowest free slot is used.
func (inv *Inventory) AddItem(spec types.ItemSpec) (string, error) {
	if !spec.Type.Valid() {
		return "", newError(CodeInvalidInput, "unknown item type %q", spec.Type)
	}
	quantity := spec.Quantity
	if quantity < 1 {
		quantity = 1
	}

	if spec.Stackable {
		for _, item := range inv.slots {
			if item != nil && item.Stackable && item.Type == spec.Type {
				item.Quantity += quantity
				inv.env.Events.Emit(Event{Kind: EventItemAdded, ID: item.ID, Value: float64(item.Quantity)})
				return item.ID, nil
			}
		}
	}

	slot := inv.freeSlot()
	if slot < 0 {
		inv.env.Logger.Warn("Inventory full", zap.String("item", spec.Name))
		return "", newError(CodeInventoryFull, "inventory is full").
			with("capacity", strconv.Itoa(len(inv.slots)))
	}

	item := &types.InventoryItem{
		ID:          inv.newID(),
		Type:        spec.Type,
		Name:        spec.Name,
		Description: spec.Description,
		Icon:        spec.Icon,
		Data:        cloneData(spec.Data),
		Quantity:    quantity,
		Stackable:   spec.Stackable,
		Usable:      spec.Usable,
		Consumable:  spec.Consumable,
		Slot:        slot,
	}
	inv.slots[slot] = item

	inv.env.Logger.Debug("Item added",
		zap.String("item_id", item.ID),
		zap.String("type", string(item.Type)),
		zap.Int("slot", slot))
	inv.env.Events.Emit(Event{Kind: EventItemAdded, ID: item.ID, Value: float64(item.Quantity)})
	return item.ID, nil
}

func (inv *Inventory) freeSlot() int {
	for i, item := range inv.slots {
		if item == nil {
			return i
		}
	}
	return -1
}

// RemoveItem empties a slot and returns what was in it
func (inv *Inventory) RemoveItem(slot int) (types.InventoryItem, bool) {
	if slot < 0 || slot >= len(inv.slots) || inv.slots[slot] == nil {
		return types.InventoryItem{}, false
	}
	item := *inv.slots[slot]
	inv.slots[slot] = nil
	inv.env.Events.Emit(Event{Kind: EventItemRemoved, ID: item.ID})
	return item, true
}

// Get returns the item in a slot
func (inv *Inventory) Get(slot int) (types.InventoryItem, bool) {
	if slot < 0 || slot >= len(inv.slots) || inv.slots[slot] == nil {
		return types.InventoryItem{}, false
	}
	return *inv.slots[slot], true
}

// FindByType returns the first item of type t by slot order
func (inv *Inventory) FindByType(t types.ItemType) (types.InventoryItem, bool) {
	for _, item := range inv.slots {
		if item != nil && item.Type == t {
			return *item, true
		}
	}
	return types.InventoryItem{}, false
}

// HasItem reports whether any item of type t is held
func (inv *Inventory) HasItem(t types.ItemType) bool {
	_, ok := inv.FindByType(t)
	return ok
}

// Use runs the type handler for the item in slot. Empty slots and
// unusable items are ignored. Consumable items lose one unit per use.
func (inv *Inventory) Use(slot int) error {
	if slot < 0 || slot >= len(inv.slots) {
		return newError(CodeInvalidSlot, "slot %d out of range", slot)
	}
	item := inv.slots[slot]
	if item == nil || !item.Usable {
		return nil
	}

	if h, ok := inv.handlers[item.Type]; ok {
		if err := h(*item); err != nil {
			return err
		}
	} else {
		inv.env.Logger.Debug("No handler for item type", zap.String("type", string(item.Type)))
	}

	if item.Consumable {
		item.Quantity--
		if item.Quantity <= 0 {
			inv.RemoveItem(slot)
		}
	}
	return nil
}

// Count returns the number of occupied slots
func (inv *Inventory) Count() int {
	n := 0
	for _, item := range inv.slots {
		if item != nil {
			n++
		}
	}
	return n
}

// Items returns the held items in slot order
func (inv *Inventory) Items() []types.InventoryItem {
	items := make([]types.InventoryItem, 0, len(inv.slots))
	for _, item := range inv.slots {
		if item != nil {
			copied := *item
			copied.Data = cloneData(item.Data)
			items = append(items, copied)
		}
	}
	return items
}

// Clear empties every slot
func (inv *Inventory) Clear() {
	for i := range inv.slots {
		inv.slots[i] = nil
	}
}

// Snapshot returns the held items for persistence
func (inv *Inventory) Snapshot() []types.InventoryItem {
	return inv.Items()
}

// LoadFrom replaces the contents, or fails leaving them untouched
func (inv *Inventory) LoadFrom(items []types.InventoryItem) error {
	if err := validateInventory(items, len(inv.slots)); err != nil {
		return err
	}
	slots := make([]*types.InventoryItem, len(inv.slots))
	for _, item := range items {
		copied := item
		copied.Data = cloneData(item.Data)
		slots[item.Slot] = &copied
	}
	inv.slots = slots
	return nil
}

func validateInventory(items []types.InventoryItem, capacity int) error {
	seen := make(map[int]bool, len(items))
	for _, item := range items {
		if item.Slot < 0 || item.Slot >= capacity {
			return newError(CodeDeserialization, "item %q in slot %d out of range", item.ID, item.Slot)
		}
		if seen[item.Slot] {
			return newError(CodeDeserialization, "slot %d holds two items", item.Slot)
		}
		if item.Quantity < 1 {
			return newError(CodeDeserialization, "item %q has quantity %d", item.ID, item.Quantity)
		}
		if !item.Type.Valid() {
			return newError(CodeDeserialization, "item %q has unknown type %q", item.ID, item.Type)
		}
		seen[item.Slot] = true
	}
	return nil
}

func cloneData(data map[string]string) map[string]string {
	if data == nil {
		return nil
	}
	out := make(map[string]string, len(data))
	for k, v := range data {
		out[k] = v
	}
	return out
}
