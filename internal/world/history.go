package world

import "github.com/babago/babago/internal/grid"

// History keeps the level's initial grid plus one snapshot per moving tick.
// Every stored and returned grid is a private deep copy.
type History struct {
	initial *grid.Grid
	stack   []*grid.Grid
}

func NewHistory(initial *grid.Grid) *History {
	h := &History{}
	if initial != nil {
		h.initial = initial.Clone()
	}
	return h
}

// Push records the grid as it was before a moving tick.
func (h *History) Push(pre *grid.Grid) {
	h.stack = append(h.stack, pre.Clone())
}

// Undo pops the most recent pre-move snapshot. Returns false when there is
// nothing to undo.
func (h *History) Undo() (*grid.Grid, bool) {
	n := len(h.stack)
	if n == 0 {
		return nil, false
	}
	top := h.stack[n-1]
	h.stack[n-1] = nil
	h.stack = h.stack[:n-1]
	return top, true
}

// Reset clears the stack and returns a copy of the initial grid.
func (h *History) Reset() *grid.Grid {
	clear(h.stack)
	h.stack = h.stack[:0]
	if h.initial == nil {
		return nil
	}
	return h.initial.Clone()
}

// Depth is the number of undoable steps.
func (h *History) Depth() int {
	return len(h.stack)
}

// Restart replaces the initial grid and clears the stack.
func (h *History) Restart(initial *grid.Grid) {
	clear(h.stack)
	h.stack = h.stack[:0]
	h.initial = nil
	if initial != nil {
		h.initial = initial.Clone()
	}
}
