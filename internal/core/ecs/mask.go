package ecs

// Kind names one component type. The set of kinds is closed and each kind
// occupies one bit of a Mask.
type Kind uint8

// Mask is a bitset of component kinds. System interest is a Covers test.
type Mask uint32

func MaskOf(kinds ...Kind) Mask {
	var m Mask
	for _, k := range kinds {
		m |= 1 << k
	}
	return m
}

func (m Mask) Has(k Kind) bool { return m&(1<<k) != 0 }

func (m Mask) With(k Kind) Mask { return m | 1<<k }

func (m Mask) Without(k Kind) Mask { return m &^ (1 << k) }

func (m Mask) Covers(required Mask) bool { return m&required == required }

// Masks tracks the component mask of every entity that owns at least one
// component. Stores keep it current on Set/Remove.
type Masks struct {
	data map[EntityID]Mask
}

func NewMasks() *Masks {
	return &Masks{data: make(map[EntityID]Mask, 256)}
}

func (m *Masks) Get(id EntityID) Mask {
	return m.data[id]
}

func (m *Masks) add(id EntityID, k Kind) {
	m.data[id] = m.data[id].With(k)
}

func (m *Masks) clear(id EntityID, k Kind) {
	v := m.data[id].Without(k)
	if v == 0 {
		delete(m.data, id)
		return
	}
	m.data[id] = v
}
