package world

import (
	"testing"

	"github.com/babago/babago/internal/grid"
)

func TestHistoryUndoBounds(t *testing.T) {
	initial := grid.FromRows([][]string{{"a", ""}})
	h := NewHistory(initial)

	if _, ok := h.Undo(); ok {
		t.Fatalf("Undo on empty history should be a no-op")
	}

	states := []*grid.Grid{initial.Clone()}
	cur := initial.Clone()
	for i, label := range []string{"b", "c", "d"} {
		h.Push(cur)
		cur = cur.Clone()
		cur.Set(1, 0, label)
		states = append(states, cur.Clone())
		if h.Depth() != i+1 {
			t.Fatalf("depth = %d, want %d", h.Depth(), i+1)
		}
	}

	// K undos return to the state K steps back.
	for k := 1; k <= 3; k++ {
		g, ok := h.Undo()
		if !ok {
			t.Fatalf("undo %d failed", k)
		}
		if want := states[3-k]; !g.Equal(want) {
			t.Errorf("undo %d restored\n%s\nwant\n%s", k, g, want)
		}
	}
	if _, ok := h.Undo(); ok {
		t.Errorf("undo past the initial state should be a no-op")
	}
}

func TestHistorySnapshotsAreCopies(t *testing.T) {
	initial := grid.FromRows([][]string{{"a"}})
	h := NewHistory(initial)
	initial.Set(0, 0, "z")
	if got := h.Reset().Get(0, 0); got != "a" {
		t.Fatalf("initial snapshot aliased caller grid: %q", got)
	}

	pre := grid.FromRows([][]string{{"b"}})
	h.Push(pre)
	pre.Set(0, 0, "z")
	g, _ := h.Undo()
	if g.Get(0, 0) != "b" {
		t.Errorf("pushed snapshot aliased caller grid")
	}
}

func TestHistoryReset(t *testing.T) {
	h := NewHistory(grid.FromRows([][]string{{"a"}}))
	h.Push(grid.FromRows([][]string{{"b"}}))
	h.Push(grid.FromRows([][]string{{"c"}}))
	g := h.Reset()
	if g.Get(0, 0) != "a" || h.Depth() != 0 {
		t.Errorf("Reset returned %q with depth %d", g.Get(0, 0), h.Depth())
	}
}
