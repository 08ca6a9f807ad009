package system

import (
	"time"

	"go.uber.org/zap"

	"github.com/babago/babago/internal/component"
	"github.com/babago/babago/internal/core/ecs"
	"github.com/babago/babago/internal/core/event"
	coresys "github.com/babago/babago/internal/core/system"
	"github.com/babago/babago/internal/grid"
	"github.com/babago/babago/internal/world"
)

// Outcome is how a single mover's step ended.
type Outcome uint8

const (
	Moved   Outcome = iota // entered the target cell
	Blocked                // never left, or was forced back after the retry cap
	Bounced                // entered, was blocked, stepped back to its origin
)

func (o Outcome) String() string {
	switch o {
	case Moved:
		return "moved"
	case Blocked:
		return "blocked"
	case Bounced:
		return "bounced"
	}
	return "unknown"
}

// MoveResult records one mover's step during the last tick.
type MoveResult struct {
	ID      ecs.EntityID
	From    component.Position
	To      component.Position
	Outcome Outcome
	Pushed  []ecs.EntityID
}

// MovementSystem steps every controlled entity one cell in its pending
// direction, resolving push chains, STOP bounces, sinking, WIN and hazards.
// Phase 1 (Movement).
type MovementSystem struct {
	coresys.Base
	state       *world.State
	bus         *event.Bus
	log         *zap.Logger
	maxAttempts int

	results []MoveResult
	pre     *grid.Grid
	updates []coresys.Update
}

func NewMovementSystem(state *world.State, bus *event.Bus, maxAttempts int, log *zap.Logger) *MovementSystem {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &MovementSystem{
		Base:        coresys.NewBase(controlledMask),
		state:       state,
		bus:         bus,
		log:         log,
		maxAttempts: maxAttempts,
	}
}

func (s *MovementSystem) Phase() coresys.Phase { return coresys.PhaseMovement }

// Results returns the per-mover outcomes of the last tick.
func (s *MovementSystem) Results() []MoveResult { return s.results }

// Moved reports whether any mover entered a new cell on the last tick.
func (s *MovementSystem) Moved() bool {
	for _, r := range s.results {
		if r.Outcome == Moved {
			return true
		}
	}
	return false
}

// PreMove returns the grid as it was before the last tick's movement.
func (s *MovementSystem) PreMove() *grid.Grid { return s.pre }

func (s *MovementSystem) Update(_ time.Duration) []coresys.Update {
	s.results = s.results[:0]
	s.updates = nil
	s.pre = s.state.Grid().Clone()

	for _, id := range s.Tracked() {
		if !s.state.World.Alive(id) {
			continue // sunk earlier this tick
		}
		mov, ok := s.state.Movables.Get(id)
		if !ok || mov.Direction == component.DirNone {
			continue
		}
		dir := mov.Direction
		mov.Direction = component.DirNone
		s.results = append(s.results, s.step(id, dir))
	}
	return s.updates
}

// interior reports whether p lies inside the outer ring of the grid.
func (s *MovementSystem) interior(p component.Position) bool {
	rows, cols := s.state.Grid().Dimensions()
	return p.X >= 1 && p.X <= cols-2 && p.Y >= 1 && p.Y <= rows-2
}

func (s *MovementSystem) step(id ecs.EntityID, dir component.Direction) MoveResult {
	s.MustTrack(id)
	origin, _ := s.state.PositionOf(id)
	res := MoveResult{ID: id, From: origin, To: origin, Outcome: Blocked}

	cur := dir
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		from, _ := s.state.PositionOf(id)
		to := from.Step(cur)
		if !s.interior(to) {
			s.log.Debug("move blocked by boundary",
				zap.Uint64("entity", uint64(id)), zap.Stringer("dir", cur))
			break
		}
		s.state.Relocate(id, to)
		pushed, blocked := s.resolve(id, to, cur)
		if !blocked {
			res.To = to
			res.Pushed = pushed
			if to == origin {
				res.Outcome = Bounced
			} else {
				res.Outcome = Moved
			}
			s.touch(id)
			return res
		}
		cur = cur.Reverse()
	}

	// Retry cap reached or boundary hit: the mover ends where it started.
	s.state.Relocate(id, origin)
	return res
}

// resolve handles what the mover finds on cell at. Returns the entities it
// pushed and whether the mover must bounce.
func (s *MovementSystem) resolve(mover ecs.EntityID, at component.Position, dir component.Direction) ([]ecs.EntityID, bool) {
	for _, o := range s.state.AtPos(at) {
		if o != mover && s.state.HasFlag(o, component.FlagStop) {
			return nil, true
		}
	}

	var pushed []ecs.EntityID
	if len(s.pushables(at, mover)) > 0 {
		var ok bool
		pushed, ok = s.push(at, dir, mover)
		if !ok {
			return nil, true
		}
	}

	for _, o := range s.state.AtPos(at) {
		if o == mover {
			continue
		}
		flags := s.state.Flags(o)
		if flags&component.FlagWin != 0 && s.state.RaiseWon(at) {
			s.log.Info("level won", zap.Int("x", at.X), zap.Int("y", at.Y))
			event.Emit(s.bus, event.Won{X: at.X, Y: at.Y})
		}
		if flags&component.FlagDefeat != 0 {
			event.Emit(s.bus, event.Hazard{EntityID: mover, Cause: "defeat", X: at.X, Y: at.Y})
		}
		if flags&component.FlagSink != 0 {
			event.Emit(s.bus, event.Hazard{EntityID: mover, Cause: "sink", X: at.X, Y: at.Y})
			event.Emit(s.bus, event.Hazard{EntityID: o, Cause: "sink", X: at.X, Y: at.Y})
		}
	}
	return pushed, false
}

// pushables returns the entities on p that a push moves. Entities that are
// about to take their own step this tick are left alone.
func (s *MovementSystem) pushables(p component.Position, mover ecs.EntityID) []ecs.EntityID {
	var out []ecs.EntityID
	for _, o := range s.state.AtPos(p) {
		if o == mover {
			continue
		}
		mov, ok := s.state.Movables.Get(o)
		if !ok {
			continue
		}
		if s.state.Controls.Has(o) && mov.Direction != component.DirNone {
			continue
		}
		out = append(out, o)
	}
	return out
}

// push walks the chain of pushable cells starting at start and shifts it one
// cell along dir. Returns false when the chain cannot move.
func (s *MovementSystem) push(start component.Position, dir component.Direction, mover ecs.EntityID) ([]ecs.EntityID, bool) {
	var chain [][]ecs.EntityID
	cell := start
	for {
		if !s.interior(cell) {
			return nil, false
		}
		if cell != start && s.hasFlagAt(cell, component.FlagStop) {
			return nil, false
		}
		group := s.pushables(cell, mover)
		if len(group) == 0 {
			break
		}
		chain = append(chain, group)
		cell = cell.Step(dir)
	}
	beyond := cell

	var sinks []ecs.EntityID
	for _, o := range s.state.AtPos(beyond) {
		if s.state.HasFlag(o, component.FlagSink) {
			sinks = append(sinks, o)
		}
	}

	// Farthest first so no entity steps onto a cell its follower still
	// has to leave.
	var pushed []ecs.EntityID
	for i := len(chain) - 1; i >= 0; i-- {
		for _, e := range chain[i] {
			p, _ := s.state.PositionOf(e)
			s.state.Relocate(e, p.Step(dir))
			pushed = append(pushed, e)
			s.touch(e)
		}
	}

	if len(sinks) > 0 {
		for _, e := range chain[len(chain)-1] {
			s.remove(e)
		}
		for _, e := range sinks {
			s.remove(e)
		}
		s.log.Debug("pushed into sink",
			zap.Int("x", beyond.X), zap.Int("y", beyond.Y), zap.Int("sunk", len(sinks)))
	}
	return pushed, true
}

func (s *MovementSystem) hasFlagAt(p component.Position, f component.Flag) bool {
	for _, o := range s.state.AtPos(p) {
		if s.state.HasFlag(o, f) {
			return true
		}
	}
	return false
}

func (s *MovementSystem) touch(id ecs.EntityID) {
	s.updates = append(s.updates, coresys.Update{ID: id})
}

// remove takes id off the grid now so later movers this tick don't see it,
// and reports it for removal from every system.
func (s *MovementSystem) remove(id ecs.EntityID) {
	s.state.Destroy(id)
	s.updates = append(s.updates, coresys.Update{ID: id, Remove: true})
}
