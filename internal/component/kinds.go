package component

import "github.com/babago/babago/internal/core/ecs"

// Component kinds. Each is one bit of an entity's ecs.Mask.
const (
	KindPosition ecs.Kind = iota
	KindIdentity
	KindWord
	KindMovable
	KindControl
	KindProperty
)
