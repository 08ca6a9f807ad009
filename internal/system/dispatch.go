package system

import (
	"time"

	"go.uber.org/zap"

	"github.com/babago/babago/internal/core/event"
	coresys "github.com/babago/babago/internal/core/system"
)

// DispatchSystem delivers the tick's buffered effects to subscribers.
// Phase 4 (Output).
type DispatchSystem struct {
	bus *event.Bus
	log *zap.Logger
}

func NewDispatchSystem(bus *event.Bus, log *zap.Logger) *DispatchSystem {
	return &DispatchSystem{bus: bus, log: log}
}

func (s *DispatchSystem) Phase() coresys.Phase { return coresys.PhaseOutput }

func (s *DispatchSystem) Update(_ time.Duration) []coresys.Update {
	if n := s.bus.Dispatch(); n > 0 {
		s.log.Debug("effects dispatched", zap.Int("count", n))
	}
	return nil
}
