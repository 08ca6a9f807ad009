package world

import (
	"github.com/babago/babago/internal/component"
	"github.com/babago/babago/internal/core/ecs"
	"github.com/babago/babago/internal/grid"
)

// Classifier reports whether a grid label is a word tile and of what kind.
type Classifier func(label string) (component.Word, bool)

// State binds the ECS world to the label grid. Every position change goes
// through Relocate so the grid and the occupancy index never disagree.
// Accessed only from the tick goroutine, no locks.
type State struct {
	World      *ecs.World
	Positions  *ecs.PtrComponentStore[component.Position]
	Identities *ecs.PtrComponentStore[component.Identity]
	Words      *ecs.PtrComponentStore[component.Word]
	Movables   *ecs.PtrComponentStore[component.Movable]
	Controls   *ecs.PtrComponentStore[component.ControlIntent]
	Properties *ecs.PtrComponentStore[component.PropertySet]

	classify Classifier
	grid     *grid.Grid
	occ      *Occupancy

	won   bool
	wonAt component.Position
}

func NewState(classify Classifier) *State {
	w := ecs.NewWorld()
	m := w.Masks()
	s := &State{
		World:      w,
		Positions:  ecs.NewPtrComponentStore[component.Position](component.KindPosition, m),
		Identities: ecs.NewPtrComponentStore[component.Identity](component.KindIdentity, m),
		Words:      ecs.NewPtrComponentStore[component.Word](component.KindWord, m),
		Movables:   ecs.NewPtrComponentStore[component.Movable](component.KindMovable, m),
		Controls:   ecs.NewPtrComponentStore[component.ControlIntent](component.KindControl, m),
		Properties: ecs.NewPtrComponentStore[component.PropertySet](component.KindProperty, m),
		classify:   classify,
		occ:        NewOccupancy(),
	}
	w.Register(s.Positions)
	w.Register(s.Identities)
	w.Register(s.Words)
	w.Register(s.Movables)
	w.Register(s.Controls)
	w.Register(s.Properties)
	return s
}

// Load destroys every entity and spawns one per non-empty cell of g, in
// row-major order. The grid is copied. A nil grid leaves the state empty.
// The win latch is cleared.
func (s *State) Load(g *grid.Grid) {
	for _, id := range s.World.Entities() {
		s.World.Destroy(id)
	}
	s.occ.Reset()
	s.won = false
	s.wonAt = component.Position{}
	if g == nil {
		s.grid = nil
		return
	}
	s.grid = g.Clone()
	s.grid.Each(func(x, y int, label string) {
		if label != "" {
			s.Spawn(x, y, label)
		}
	})
}

// Empty reports whether no grid is loaded.
func (s *State) Empty() bool { return s.grid == nil }

// Grid returns the live grid. Callers must not keep it across ticks.
func (s *State) Grid() *grid.Grid { return s.grid }

// Spawn creates an entity named name on (x,y). Word tiles also get their
// Word component and an idle Movable.
func (s *State) Spawn(x, y int, name string) ecs.EntityID {
	id := s.World.CreateEntity()
	s.Positions.Set(id, &component.Position{X: x, Y: y})
	s.Identities.Set(id, &component.Identity{Name: name})
	if s.classify != nil {
		if w, ok := s.classify(name); ok {
			s.Words.Set(id, &w)
			s.Movables.Set(id, &component.Movable{})
		}
	}
	s.occ.Add(id, x, y)
	s.grid.Set(x, y, name)
	return id
}

// Relocate moves id to p and refreshes the labels of both cells.
func (s *State) Relocate(id ecs.EntityID, p component.Position) {
	pos, ok := s.Positions.Get(id)
	if !ok || *pos == p {
		return
	}
	old := *pos
	*pos = p
	s.occ.Move(id, old.X, old.Y, p.X, p.Y)
	s.refresh(old.X, old.Y)
	s.refresh(p.X, p.Y)
}

// Rename changes id's identity and the grid label when id owns its cell.
func (s *State) Rename(id ecs.EntityID, name string) {
	ident, ok := s.Identities.Get(id)
	if !ok {
		return
	}
	ident.Name = name
	if pos, ok := s.Positions.Get(id); ok {
		s.refresh(pos.X, pos.Y)
	}
}

// Destroy removes id from the grid and from every store.
func (s *State) Destroy(id ecs.EntityID) {
	if pos, ok := s.Positions.Get(id); ok {
		s.occ.Remove(id, pos.X, pos.Y)
		s.refresh(pos.X, pos.Y)
	}
	s.World.Destroy(id)
}

func (s *State) refresh(x, y int) {
	top := s.occ.Top(x, y)
	if top == 0 {
		s.grid.Set(x, y, "")
		return
	}
	if ident, ok := s.Identities.Get(top); ok {
		s.grid.Set(x, y, ident.Name)
	}
}

// At returns the entities on (x,y) in ascending order.
func (s *State) At(x, y int) []ecs.EntityID {
	return s.occ.At(x, y)
}

// AtPos is At for a Position.
func (s *State) AtPos(p component.Position) []ecs.EntityID {
	return s.occ.At(p.X, p.Y)
}

// Name returns id's identity name, or "" when it has none.
func (s *State) Name(id ecs.EntityID) string {
	if ident, ok := s.Identities.Get(id); ok {
		return ident.Name
	}
	return ""
}

// PositionOf returns id's cell.
func (s *State) PositionOf(id ecs.EntityID) (component.Position, bool) {
	if p, ok := s.Positions.Get(id); ok {
		return *p, true
	}
	return component.Position{}, false
}

// Flags returns the derived property flags of id.
func (s *State) Flags(id ecs.EntityID) component.Flag {
	if ps, ok := s.Properties.Get(id); ok {
		return ps.Flags
	}
	return 0
}

// HasFlag reports whether id currently holds f.
func (s *State) HasFlag(id ecs.EntityID, f component.Flag) bool {
	return s.Flags(id)&f != 0
}

// RaiseWon sets the win latch. Returns true only the first time per load.
func (s *State) RaiseWon(p component.Position) bool {
	if s.won {
		return false
	}
	s.won = true
	s.wonAt = p
	return true
}

func (s *State) Won() bool { return s.won }

// WonAt is the cell where the latch was raised.
func (s *State) WonAt() component.Position { return s.wonAt }
