package component

// Position is the cell an entity occupies. X is the column, Y the row.
type Position struct {
	X int
	Y int
}

// Step returns the neighbouring position in direction d.
func (p Position) Step(d Direction) Position {
	dx, dy := d.Delta()
	return Position{X: p.X + dx, Y: p.Y + dy}
}
