package component

// Direction is a single-cell step on the grid.
type Direction uint8

const (
	DirNone Direction = iota
	DirUp
	DirDown
	DirLeft
	DirRight
)

// Delta returns the column and row offsets of one step.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case DirUp:
		return 0, -1
	case DirDown:
		return 0, 1
	case DirLeft:
		return -1, 0
	case DirRight:
		return 1, 0
	}
	return 0, 0
}

func (d Direction) Reverse() Direction {
	switch d {
	case DirUp:
		return DirDown
	case DirDown:
		return DirUp
	case DirLeft:
		return DirRight
	case DirRight:
		return DirLeft
	}
	return DirNone
}

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	}
	return "none"
}

// ParseDirection accepts "up", "down", "left", "right" and their first
// letters in either case.
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "up", "u", "U":
		return DirUp, true
	case "down", "d", "D":
		return DirDown, true
	case "left", "l", "L":
		return DirLeft, true
	case "right", "r", "R":
		return DirRight, true
	}
	return DirNone, false
}

// Movable holds the pending step for an entity. DirNone means idle.
type Movable struct {
	Direction Direction
}
