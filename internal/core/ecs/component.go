package ecs

// Removable is implemented by all component stores so the World can
// bulk-remove an entity's data from every store on destroy.
type Removable interface {
	Remove(id EntityID)
}

// PtrComponentStore is a generic typed map store for one component kind.
// Every Set/Remove is mirrored into the shared Masks so systems can test
// interest without touching the stores.
type PtrComponentStore[T any] struct {
	kind  Kind
	masks *Masks
	data  map[EntityID]*T
}

func NewPtrComponentStore[T any](kind Kind, masks *Masks) *PtrComponentStore[T] {
	return &PtrComponentStore[T]{
		kind:  kind,
		masks: masks,
		data:  make(map[EntityID]*T, 256),
	}
}

func (s *PtrComponentStore[T]) Kind() Kind { return s.kind }

func (s *PtrComponentStore[T]) Set(id EntityID, c *T) {
	s.data[id] = c
	s.masks.add(id, s.kind)
}

func (s *PtrComponentStore[T]) Get(id EntityID) (*T, bool) {
	c, ok := s.data[id]
	return c, ok
}

func (s *PtrComponentStore[T]) Remove(id EntityID) {
	if _, ok := s.data[id]; !ok {
		return
	}
	delete(s.data, id)
	s.masks.clear(id, s.kind)
}

func (s *PtrComponentStore[T]) Has(id EntityID) bool {
	_, ok := s.data[id]
	return ok
}

func (s *PtrComponentStore[T]) Len() int {
	return len(s.data)
}

// IDs returns the owners of this component in ascending order.
func (s *PtrComponentStore[T]) IDs() []EntityID {
	ids := make([]EntityID, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	SortIDs(ids)
	return ids
}

// Each visits every component in ascending entity order.
func (s *PtrComponentStore[T]) Each(fn func(EntityID, *T)) {
	for _, id := range s.IDs() {
		fn(id, s.data[id])
	}
}
