package world

import "github.com/babago/babago/internal/core/ecs"

// Occupancy indexes which entities stand on which cell.
// Accessed only from the tick goroutine, no locks.

type cellKey struct {
	x, y int
}

type cell struct {
	members map[ecs.EntityID]struct{}
	top     ecs.EntityID // occupant whose name is shown on the grid
}

// Occupancy tracks the entities on every cell and which of them owns the
// cell's label. The last arrival owns the label; when the owner leaves, the
// lowest remaining id takes over.
type Occupancy struct {
	cells map[cellKey]*cell
}

func NewOccupancy() *Occupancy {
	return &Occupancy{cells: make(map[cellKey]*cell)}
}

// Add places id on (x,y) and makes it the label owner.
func (o *Occupancy) Add(id ecs.EntityID, x, y int) {
	k := cellKey{x, y}
	c := o.cells[k]
	if c == nil {
		c = &cell{members: make(map[ecs.EntityID]struct{}, 2)}
		o.cells[k] = c
	}
	c.members[id] = struct{}{}
	c.top = id
}

// Remove takes id off (x,y).
func (o *Occupancy) Remove(id ecs.EntityID, x, y int) {
	k := cellKey{x, y}
	c := o.cells[k]
	if c == nil {
		return
	}
	delete(c.members, id)
	if len(c.members) == 0 {
		delete(o.cells, k)
		return
	}
	if c.top == id {
		c.top = 0
		for m := range c.members {
			if c.top == 0 || m < c.top {
				c.top = m
			}
		}
	}
}

// Move shifts id between cells.
func (o *Occupancy) Move(id ecs.EntityID, oldX, oldY, newX, newY int) {
	if oldX == newX && oldY == newY {
		return
	}
	o.Remove(id, oldX, oldY)
	o.Add(id, newX, newY)
}

// At returns the entities on (x,y) in ascending order.
func (o *Occupancy) At(x, y int) []ecs.EntityID {
	c := o.cells[cellKey{x, y}]
	if c == nil {
		return nil
	}
	ids := make([]ecs.EntityID, 0, len(c.members))
	for id := range c.members {
		ids = append(ids, id)
	}
	ecs.SortIDs(ids)
	return ids
}

// Top returns the label owner of (x,y), or 0 when the cell is empty.
func (o *Occupancy) Top(x, y int) ecs.EntityID {
	if c := o.cells[cellKey{x, y}]; c != nil {
		return c.top
	}
	return 0
}

func (o *Occupancy) Count(x, y int) int {
	if c := o.cells[cellKey{x, y}]; c != nil {
		return len(c.members)
	}
	return 0
}

func (o *Occupancy) Reset() {
	clear(o.cells)
}
