package system

import (
	"time"

	"go.uber.org/zap"

	"github.com/babago/babago/internal/core/ecs"
	"github.com/babago/babago/internal/core/event"
	coresys "github.com/babago/babago/internal/core/system"
	"github.com/babago/babago/internal/world"
)

// CleanupSystem destroys entities queued for elimination at tick end. When
// eliminate is set it queues every Hazard victim itself. Phase 5 (Cleanup).
type CleanupSystem struct {
	state     *world.State
	eliminate bool
	log       *zap.Logger
}

func NewCleanupSystem(state *world.State, bus *event.Bus, eliminate bool, log *zap.Logger) *CleanupSystem {
	s := &CleanupSystem{state: state, eliminate: eliminate, log: log}
	event.Subscribe(bus, s.onHazard)
	return s
}

func (s *CleanupSystem) Phase() coresys.Phase { return coresys.PhaseCleanup }

func (s *CleanupSystem) onHazard(ev event.Hazard) {
	if s.eliminate {
		s.state.World.MarkForDestruction(ev.EntityID)
	}
}

func (s *CleanupSystem) Update(_ time.Duration) []coresys.Update {
	var updates []coresys.Update
	s.state.World.FlushDestroyQueue(func(id ecs.EntityID) {
		s.log.Debug("entity eliminated",
			zap.Uint64("entity", uint64(id)), zap.String("name", s.state.Name(id)))
		s.state.Destroy(id)
		updates = append(updates, coresys.Update{ID: id, Remove: true})
	})
	return updates
}
