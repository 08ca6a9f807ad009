package system

import (
	"testing"

	"github.com/babago/babago/internal/component"
	"github.com/babago/babago/internal/core/event"
)

func TestMoveIntoEmptyCell(t *testing.T) {
	f := newFixture(t,
		"wwwwwww",
		"wBIY..w",
		"w.....w",
		"w.....w",
		"w..b..w",
		"wwwwwww",
	)
	baba := f.find("BigBlue")
	f.step(component.DirUp)

	if got := f.pos(baba); got != (component.Position{X: 3, Y: 3}) {
		t.Fatalf("baba at %+v, want (3,3)", got)
	}
	if f.label(3, 4) != "" || f.label(3, 3) != "BigBlue" {
		t.Errorf("grid out of sync:\n%s", f.state.Grid())
	}
	res := f.move.Results()
	if len(res) != 1 || res[0].Outcome != Moved {
		t.Fatalf("results = %+v", res)
	}
	if !f.move.Moved() || f.history.Depth() != 1 {
		t.Errorf("moving tick should record history, depth = %d", f.history.Depth())
	}
	mov, _ := f.state.Movables.Get(baba)
	if mov.Direction != component.DirNone {
		t.Errorf("direction not consumed")
	}
}

func TestMoveBlockedAtBoundary(t *testing.T) {
	f := newFixture(t,
		"wwwwwww",
		"wBIY..w",
		"w.....w",
		"w..b..w",
		"wwwwwww",
	)
	baba := f.find("BigBlue")
	before := f.state.Grid().Clone()
	f.step(component.DirDown)

	if got := f.pos(baba); got != (component.Position{X: 3, Y: 3}) {
		t.Errorf("baba left the interior: %+v", got)
	}
	if res := f.move.Results(); res[0].Outcome != Blocked {
		t.Errorf("outcome = %v, want blocked", res[0].Outcome)
	}
	if !f.state.Grid().Equal(before) || f.history.Depth() != 0 {
		t.Errorf("blocked move changed the grid or history")
	}
}

func TestMoveIntoStopBounces(t *testing.T) {
	f := newFixture(t,
		"wwwwwww",
		"wBIY..w",
		"wWIS..w",
		"w.bw..w",
		"wwwwwww",
	)
	baba := f.find("BigBlue")
	before := f.state.Grid().Clone()
	f.step(component.DirRight)

	if got := f.pos(baba); got != (component.Position{X: 2, Y: 3}) {
		t.Fatalf("baba at %+v, want origin (2,3)", got)
	}
	if res := f.move.Results(); res[0].Outcome != Bounced {
		t.Errorf("outcome = %v, want bounced", res[0].Outcome)
	}
	if !f.state.Grid().Equal(before) {
		t.Errorf("bounce changed the grid:\n%s", f.state.Grid())
	}
}

func TestRetryCapForcesOrigin(t *testing.T) {
	f := newFixture(t,
		"wwwwwww",
		"wBIY..w",
		"wWIS..w",
		"w.bw..w",
		"wwwwwww",
	)
	f.move.maxAttempts = 1
	baba := f.find("BigBlue")
	f.step(component.DirRight)
	if got := f.pos(baba); got != (component.Position{X: 2, Y: 3}) {
		t.Fatalf("baba at %+v, want origin", got)
	}
	if res := f.move.Results(); res[0].Outcome != Blocked {
		t.Errorf("outcome = %v, want blocked once the cap is hit", res[0].Outcome)
	}
}

func TestPushChain(t *testing.T) {
	f := newFixture(t,
		"wwwwwwww",
		"wBIY...w",
		"wRIP...w",
		"w.brr..w",
		"wwwwwwww",
	)
	baba := f.find("BigBlue")
	rocks := f.all("rock")
	f.step(component.DirRight)

	if got := f.pos(baba); got != (component.Position{X: 3, Y: 3}) {
		t.Fatalf("baba at %+v, want (3,3)", got)
	}
	want := []component.Position{{X: 4, Y: 3}, {X: 5, Y: 3}}
	for i, id := range rocks {
		if got := f.pos(id); got != want[i] {
			t.Errorf("rock %d at %+v, want %+v", i, got, want[i])
		}
	}
	res := f.move.Results()
	if res[0].Outcome != Moved || len(res[0].Pushed) != 2 {
		t.Errorf("result = %+v", res[0])
	}
	// Chain integrity: contiguous and in order, no cell skipped.
	if f.label(2, 3) != "" || f.label(3, 3) != "BigBlue" || f.label(4, 3) != "rock" || f.label(5, 3) != "rock" {
		t.Errorf("grid after push:\n%s", f.state.Grid())
	}
}

func TestPushIntoStopWall(t *testing.T) {
	f := newFixture(t,
		"wwwwwww",
		"wWIS..w",
		"wBIY..w",
		"wRIP..w",
		"w.brw.w",
		"wwwwwww",
	)
	baba := f.find("BigBlue")
	rock := f.find("rock")
	before := f.state.Grid().Clone()
	f.step(component.DirRight)

	if f.pos(baba) != (component.Position{X: 2, Y: 4}) || f.pos(rock) != (component.Position{X: 3, Y: 4}) {
		t.Fatalf("chain moved into STOP: baba %+v rock %+v", f.pos(baba), f.pos(rock))
	}
	if !f.state.Grid().Equal(before) {
		t.Errorf("grid changed:\n%s", f.state.Grid())
	}
	if f.move.Moved() || f.history.Depth() != 0 {
		t.Errorf("bounced tick recorded as a move")
	}
}

func TestPushIntoBoundary(t *testing.T) {
	f := newFixture(t,
		"wwwwwww",
		"wBIY..w",
		"wRIP..w",
		"w...brw",
		"wwwwwww",
	)
	rock := f.find("rock")
	f.step(component.DirRight)
	if got := f.pos(rock); got != (component.Position{X: 5, Y: 3}) {
		t.Errorf("rock pushed out of the interior: %+v", got)
	}
}

func TestPushWordTile(t *testing.T) {
	f := newFixture(t,
		"wwwwwww",
		"wBIY..w",
		"w.....w",
		"w.bW..w",
		"wwwwwww",
	)
	word := f.find("wallname")
	f.step(component.DirRight)
	if got := f.pos(word); got != (component.Position{X: 4, Y: 3}) {
		t.Errorf("word tile at %+v, want (4,3)", got)
	}
}

func TestPushIntoSink(t *testing.T) {
	f := newFixture(t,
		"wwwwwww",
		"wBIY..w",
		"wRIP..w",
		"wAIN..w",
		"w.bra.w",
		"wwwwwww",
	)
	rock := f.find("rock")
	water := f.find("water")
	effects := f.step(component.DirRight)

	if f.state.World.Alive(rock) || f.state.World.Alive(water) {
		t.Fatalf("rock and water should both sink")
	}
	if f.label(4, 4) != "" {
		t.Errorf("sink cell label = %q, want empty", f.label(4, 4))
	}
	if got := f.pos(f.find("BigBlue")); got != (component.Position{X: 3, Y: 4}) {
		t.Errorf("baba at %+v", got)
	}
	if f.move.Has(rock) || f.rules.Has(rock) || f.rules.Has(water) {
		t.Errorf("sunk entities still tracked")
	}
	if countEffects[event.Hazard](effects) != 0 {
		t.Errorf("pushing into sink is not a hazard for the mover")
	}
}

func TestWalkOntoSink(t *testing.T) {
	f := newFixture(t,
		"wwwwwww",
		"wBIY..w",
		"wAIN..w",
		"w.ba..w",
		"wwwwwww",
	)
	baba := f.find("BigBlue")
	water := f.find("water")
	effects := f.step(component.DirRight)

	var victims []uint64
	for _, ev := range effects {
		if h, ok := ev.(event.Hazard); ok && h.Cause == "sink" {
			victims = append(victims, uint64(h.EntityID))
		}
	}
	if len(victims) != 2 || victims[0] != uint64(baba) || victims[1] != uint64(water) {
		t.Errorf("sink victims = %v, want [%d %d]", victims, baba, water)
	}
}

func TestWinTriggersOnce(t *testing.T) {
	f := newFixture(t,
		"wwwwwwww",
		"wBIY...w",
		"wFIX...w",
		"w.bf...w",
		"wwwwwwww",
	)
	total := countEffects[event.Won](f.step(component.DirRight))
	if !f.state.Won() {
		t.Fatalf("stepping onto the flag should win")
	}
	if f.state.WonAt() != (component.Position{X: 3, Y: 3}) {
		t.Errorf("won at %+v", f.state.WonAt())
	}
	total += countEffects[event.Won](f.step(component.DirLeft))
	total += countEffects[event.Won](f.step(component.DirRight))
	if total != 1 {
		t.Errorf("Won emitted %d times, want 1", total)
	}
}

func TestTwoYouEntitiesMoveTogether(t *testing.T) {
	f := newFixture(t,
		"wwwwwwww",
		"wBIY...w",
		"w......w",
		"w.bb...w",
		"wwwwwwww",
	)
	babas := f.all("BigBlue")
	f.step(component.DirRight)
	want := []component.Position{{X: 3, Y: 3}, {X: 4, Y: 3}}
	for i, id := range babas {
		if got := f.pos(id); got != want[i] {
			t.Errorf("baba %d at %+v, want %+v", i, got, want[i])
		}
	}
}

func TestKeyResolvedThroughKeymap(t *testing.T) {
	f := newFixture(t,
		"wwwwwww",
		"wBIY..w",
		"w.....w",
		"w..b..w",
		"wwwwwww",
	)
	baba := f.find("BigBlue")
	f.input.SetIntent(Intent{Key: "Left"})
	f.runner.Tick(0)
	if got := f.pos(baba); got != (component.Position{X: 2, Y: 3}) {
		t.Errorf("baba at %+v, want (2,3)", got)
	}
	f.input.SetIntent(Intent{Key: "F5"})
	f.runner.Tick(0)
	if len(f.move.Results()) != 0 {
		t.Errorf("unbound key produced a move")
	}
}

func TestStepUntrackedEntityPanics(t *testing.T) {
	f := newFixture(t,
		"wwwwwww",
		"wBIY..w",
		"w.....w",
		"w..r..w",
		"wwwwwww",
	)
	rock := f.find("rock")
	defer func() {
		if recover() == nil {
			t.Errorf("stepping an untracked entity should panic")
		}
	}()
	f.move.step(rock, component.DirUp)
}

func TestInputSkipsUntrackedEntities(t *testing.T) {
	f := newFixture(t,
		"wwwwwww",
		"wBIY..w",
		"w.....w",
		"w..b..w",
		"wwwwwww",
	)
	baba := f.find("BigBlue")
	f.input.Remove(baba)
	f.input.SetIntent(Intent{Direction: component.DirUp})
	f.input.Update(0)

	mov, _ := f.state.Movables.Get(baba)
	if mov.Direction != component.DirNone {
		t.Errorf("untracked entity received direction %v", mov.Direction)
	}
}
