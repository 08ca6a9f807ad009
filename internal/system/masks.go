package system

import (
	"github.com/babago/babago/internal/component"
	"github.com/babago/babago/internal/core/ecs"
)

var (
	// controlledMask selects player-controlled entities.
	controlledMask = ecs.MaskOf(component.KindPosition, component.KindMovable, component.KindControl)
	// placedMask selects every entity on the grid.
	placedMask = ecs.MaskOf(component.KindPosition, component.KindIdentity)
)
