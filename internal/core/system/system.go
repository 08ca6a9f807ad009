package system

import (
	"time"

	"github.com/babago/babago/internal/core/ecs"
)

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseInput    Phase = iota // 0: copy control intent into Movable
	PhaseMovement              // 1: moves, push chains, sinking
	PhaseHistory               // 2: record pre-move grid
	PhaseRules                 // 3: rule derivation, win, hazards
	PhaseOutput                // 4: dispatch effects
	PhaseCleanup               // 5: destroy queued entities
)

func (p Phase) String() string {
	switch p {
	case PhaseInput:
		return "input"
	case PhaseMovement:
		return "movement"
	case PhaseHistory:
		return "history"
	case PhaseRules:
		return "rules"
	case PhaseOutput:
		return "output"
	case PhaseCleanup:
		return "cleanup"
	}
	return "unknown"
}

// Update reports an entity a system mutated during its step. Remove marks
// the entity for immediate destruction.
type Update struct {
	ID     ecs.EntityID
	Remove bool
}

// System is the interface every ECS system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration) []Update
}

// Tracker is implemented by systems that keep an interest set.
type Tracker interface {
	Add(id ecs.EntityID, mask ecs.Mask) bool
	Remove(id ecs.EntityID)
	NotifyUpdated(id ecs.EntityID, mask ecs.Mask)
}

// Applier applies one system's updates across the whole world before the
// next system runs.
type Applier interface {
	Apply(updates []Update)
}
