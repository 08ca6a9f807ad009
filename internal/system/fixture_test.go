package system

import (
	"testing"

	"go.uber.org/zap"

	"github.com/babago/babago/internal/component"
	"github.com/babago/babago/internal/core/ecs"
	"github.com/babago/babago/internal/core/event"
	coresys "github.com/babago/babago/internal/core/system"
	"github.com/babago/babago/internal/data"
	"github.com/babago/babago/internal/grid"
	"github.com/babago/babago/internal/world"
)

// fixture wires the tick systems the way the game session does, without
// undo/reset handling.
type fixture struct {
	t       *testing.T
	tiles   *data.TileTable
	state   *world.State
	bus     *event.Bus
	history *world.History
	input   *InputSystem
	move    *MovementSystem
	rules   *RuleSystem
	runner  *coresys.Runner
	effects []any
}

var testKeymap = map[string]component.Direction{
	"Up": component.DirUp, "Down": component.DirDown,
	"Left": component.DirLeft, "Right": component.DirRight,
}

// gridFromChars decodes rows written in level characters; '.' is empty.
func gridFromChars(tiles *data.TileTable, rows []string) *grid.Grid {
	labels := make([][]string, len(rows))
	for y, row := range rows {
		for _, ch := range row {
			label, layer := tiles.Decode(ch)
			if layer != data.LayerObject {
				label = ""
			}
			labels[y] = append(labels[y], label)
		}
	}
	return grid.FromRows(labels)
}

func newFixture(t *testing.T, rows ...string) *fixture {
	t.Helper()
	tiles := data.DefaultTileTable()
	lex := tiles.Lexicon()
	g := gridFromChars(tiles, rows)

	f := &fixture{t: t, tiles: tiles}
	f.state = world.NewState(lex.Classify)
	f.state.Load(g)
	f.bus = event.NewBus()
	f.bus.SubscribeAll(func(ev any) { f.effects = append(f.effects, ev) })
	f.history = world.NewHistory(g)

	log := zap.NewNop()
	f.input = NewInputSystem(f.state)
	f.move = NewMovementSystem(f.state, f.bus, 2, log)
	f.rules = NewRuleSystem(f.state, f.bus, lex, testKeymap, log)

	f.runner = coresys.NewRunner(f)
	f.runner.Register(f.rules)
	f.runner.Register(NewDispatchSystem(f.bus, log))
	f.runner.Register(NewHistorySystem(f.history, f.move))
	f.runner.Register(f.move)
	f.runner.Register(f.input)

	for _, id := range f.state.World.Entities() {
		mask := f.state.World.Mask(id)
		for _, tr := range f.trackers() {
			tr.Add(id, mask)
		}
	}
	f.runner.TickPhase(coresys.PhaseRules, 0)
	f.runner.TickPhase(coresys.PhaseOutput, 0)
	return f
}

func (f *fixture) trackers() []coresys.Tracker {
	return []coresys.Tracker{f.input, f.move, f.rules}
}

func (f *fixture) Apply(updates []coresys.Update) {
	for _, u := range updates {
		if u.Remove {
			f.state.Destroy(u.ID)
			for _, tr := range f.trackers() {
				tr.Remove(u.ID)
			}
			continue
		}
		if !f.state.World.Alive(u.ID) {
			continue
		}
		mask := f.state.World.Mask(u.ID)
		for _, tr := range f.trackers() {
			tr.NotifyUpdated(u.ID, mask)
		}
	}
}

// step runs one full tick in direction d and returns the effects it produced.
func (f *fixture) step(d component.Direction) []any {
	f.effects = nil
	f.input.SetIntent(Intent{Direction: d})
	f.runner.Tick(0)
	return f.effects
}

// find returns the lowest-id live entity named name.
func (f *fixture) find(name string) ecs.EntityID {
	f.t.Helper()
	for _, id := range f.state.World.Entities() {
		if f.state.Name(id) == name {
			return id
		}
	}
	f.t.Fatalf("no entity named %q", name)
	return 0
}

func (f *fixture) all(name string) []ecs.EntityID {
	var out []ecs.EntityID
	for _, id := range f.state.World.Entities() {
		if f.state.Name(id) == name {
			out = append(out, id)
		}
	}
	return out
}

func (f *fixture) pos(id ecs.EntityID) component.Position {
	f.t.Helper()
	p, ok := f.state.PositionOf(id)
	if !ok {
		f.t.Fatalf("entity %d has no position", id)
	}
	return p
}

func (f *fixture) label(x, y int) string {
	return f.state.Grid().Get(x, y)
}

func countEffects[T any](effects []any) int {
	n := 0
	for _, ev := range effects {
		if _, ok := ev.(T); ok {
			n++
		}
	}
	return n
}
