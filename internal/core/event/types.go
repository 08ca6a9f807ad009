package event

import "github.com/babago/babago/internal/core/ecs"

// PropertyGained is emitted when an entity picks up a property flag it did
// not hold on the previous tick.
type PropertyGained struct {
	EntityID ecs.EntityID
	Property string
	X, Y     int
}

// Transformed is emitted when a noun rule renames an entity.
type Transformed struct {
	EntityID ecs.EntityID
	NewName  string
	X, Y     int
}

// Won is emitted once per level, at the cell where YOU met WIN.
type Won struct {
	X, Y int
}

// Hazard marks an entity that touched a DEFEAT or SINK cell. Cause is the
// property keyword ("defeat" or "sink").
type Hazard struct {
	EntityID ecs.EntityID
	Cause    string
	X, Y     int
}
