package system

import (
	"fmt"

	"github.com/babago/babago/internal/core/ecs"
)

// Base keeps the set of entities whose component mask covers a fixed
// requirement. Systems embed it to get Add/Remove/NotifyUpdated.
type Base struct {
	required ecs.Mask
	tracked  map[ecs.EntityID]struct{}
}

func NewBase(required ecs.Mask) Base {
	return Base{
		required: required,
		tracked:  make(map[ecs.EntityID]struct{}, 64),
	}
}

// Add tracks id iff mask satisfies the requirement.
func (b *Base) Add(id ecs.EntityID, mask ecs.Mask) bool {
	if !mask.Covers(b.required) {
		return false
	}
	b.tracked[id] = struct{}{}
	return true
}

func (b *Base) Remove(id ecs.EntityID) {
	delete(b.tracked, id)
}

// NotifyUpdated re-evaluates membership after id's mask changed.
func (b *Base) NotifyUpdated(id ecs.EntityID, mask ecs.Mask) {
	if mask.Covers(b.required) {
		b.tracked[id] = struct{}{}
		return
	}
	delete(b.tracked, id)
}

func (b *Base) Has(id ecs.EntityID) bool {
	_, ok := b.tracked[id]
	return ok
}

// Tracked returns tracked ids in ascending order.
func (b *Base) Tracked() []ecs.EntityID {
	ids := make([]ecs.EntityID, 0, len(b.tracked))
	for id := range b.tracked {
		ids = append(ids, id)
	}
	ecs.SortIDs(ids)
	return ids
}

func (b *Base) Len() int { return len(b.tracked) }

// Clear drops every tracked entity.
func (b *Base) Clear() {
	clear(b.tracked)
}

// MustTrack panics when id is not tracked. Mutating an entity outside the
// interest set is a programmer error.
func (b *Base) MustTrack(id ecs.EntityID) {
	if !b.Has(id) {
		panic(fmt.Sprintf("system: entity %d is not tracked (required mask %b)", id, b.required))
	}
}
