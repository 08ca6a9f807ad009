package ecs

// World is the top-level ECS container. It owns the entity pool, the
// per-entity component masks, every registered component store and a
// deferred destruction queue.
type World struct {
	pool         *EntityPool
	masks        *Masks
	stores       []Removable
	destroyQueue []EntityID
}

func NewWorld() *World {
	return &World{
		pool:         NewEntityPool(),
		masks:        NewMasks(),
		stores:       make([]Removable, 0, 8),
		destroyQueue: make([]EntityID, 0, 16),
	}
}

func (w *World) Pool() *EntityPool { return w.pool }
func (w *World) Masks() *Masks     { return w.masks }

// Register adds a component store so Destroy can clear it.
func (w *World) Register(store Removable) {
	w.stores = append(w.stores, store)
}

func (w *World) CreateEntity() EntityID {
	return w.pool.Create()
}

func (w *World) Alive(id EntityID) bool {
	return w.pool.Alive(id)
}

func (w *World) Mask(id EntityID) Mask {
	return w.masks.Get(id)
}

// Entities returns all live entities in ascending order.
func (w *World) Entities() []EntityID {
	return w.pool.IDs()
}

// Destroy removes the entity from every store and releases its ID.
func (w *World) Destroy(id EntityID) {
	for _, s := range w.stores {
		s.Remove(id)
	}
	w.pool.Destroy(id)
}

// MarkForDestruction queues an entity for end-of-phase cleanup.
// Duplicates are ignored.
func (w *World) MarkForDestruction(id EntityID) {
	for _, q := range w.destroyQueue {
		if q == id {
			return
		}
	}
	w.destroyQueue = append(w.destroyQueue, id)
}

// Pending reports how many entities are queued for destruction.
func (w *World) Pending() int {
	return len(w.destroyQueue)
}

// FlushDestroyQueue hands every queued live entity to fn and clears the queue.
// fn is responsible for calling Destroy (callers usually need to release
// grid cells first).
func (w *World) FlushDestroyQueue(fn func(EntityID)) {
	queue := w.destroyQueue
	w.destroyQueue = make([]EntityID, 0, cap(queue))
	for _, id := range queue {
		if w.pool.Alive(id) {
			fn(id)
		}
	}
}
