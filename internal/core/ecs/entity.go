package ecs

import "sort"

// EntityID identifies an entity inside a World. IDs are handed out in
// increasing order and never reused, so a stale ID can't alias a newer entity.
type EntityID uint64

// EntityPool manages entity allocation and liveness.
type EntityPool struct {
	alive  map[EntityID]struct{}
	nextID EntityID
}

func NewEntityPool() *EntityPool {
	return &EntityPool{
		alive:  make(map[EntityID]struct{}, 256),
		nextID: 1,
	}
}

func (p *EntityPool) Create() EntityID {
	id := p.nextID
	p.nextID++
	p.alive[id] = struct{}{}
	return id
}

func (p *EntityPool) Alive(id EntityID) bool {
	_, ok := p.alive[id]
	return ok
}

func (p *EntityPool) Destroy(id EntityID) {
	delete(p.alive, id) // no-op for stale references
}

func (p *EntityPool) Len() int {
	return len(p.alive)
}

// IDs returns all live entity IDs in ascending order.
func (p *EntityPool) IDs() []EntityID {
	ids := make([]EntityID, 0, len(p.alive))
	for id := range p.alive {
		ids = append(ids, id)
	}
	SortIDs(ids)
	return ids
}

// SortIDs sorts ids ascending in place.
func SortIDs(ids []EntityID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
