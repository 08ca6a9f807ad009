package system

import (
	"time"

	"github.com/babago/babago/internal/component"
	"github.com/babago/babago/internal/core/ecs"
	coresys "github.com/babago/babago/internal/core/system"
	"github.com/babago/babago/internal/world"
)

// Intent is the external control request for one tick. Direction wins over
// Key; Key is resolved through each entity's keymap.
type Intent struct {
	Direction component.Direction
	Key       string
}

// InputSystem copies the tick's intent into the Movable of every controlled
// entity. Phase 0 (Input).
type InputSystem struct {
	coresys.Base
	state   *world.State
	pending Intent
}

func NewInputSystem(state *world.State) *InputSystem {
	return &InputSystem{
		Base:  coresys.NewBase(controlledMask),
		state: state,
	}
}

func (s *InputSystem) Phase() coresys.Phase { return coresys.PhaseInput }

// SetIntent queues the intent consumed by the next Update.
func (s *InputSystem) SetIntent(in Intent) {
	s.pending = in
}

func (s *InputSystem) Update(_ time.Duration) []coresys.Update {
	in := s.pending
	s.pending = Intent{}
	ecs.Each2(s.state.Movables, s.state.Controls, func(id ecs.EntityID, mov *component.Movable, ctl *component.ControlIntent) {
		if !s.Has(id) {
			return
		}
		dir := in.Direction
		if dir == component.DirNone && in.Key != "" {
			dir = ctl.Resolve(in.Key)
		}
		mov.Direction = dir
	})
	return nil
}
