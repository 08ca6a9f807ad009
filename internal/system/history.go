package system

import (
	"time"

	coresys "github.com/babago/babago/internal/core/system"
	"github.com/babago/babago/internal/world"
)

// HistorySystem records the pre-move grid after every tick in which
// something moved. Phase 2 (History).
type HistorySystem struct {
	history  *world.History
	movement *MovementSystem
}

func NewHistorySystem(history *world.History, movement *MovementSystem) *HistorySystem {
	return &HistorySystem{history: history, movement: movement}
}

func (s *HistorySystem) Phase() coresys.Phase { return coresys.PhaseHistory }

func (s *HistorySystem) Update(_ time.Duration) []coresys.Update {
	if s.movement.Moved() {
		s.history.Push(s.movement.PreMove())
	}
	return nil
}
