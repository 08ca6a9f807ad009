package scripting

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/babago/babago/internal/core/event"
)

const hooks = `
hazards = 0
function on_hazard(ev)
  hazards = hazards + 1
  return "ouch: " .. ev.cause .. " at " .. ev.x .. "," .. ev.y
end
function on_won(ev)
  return "won"
end
function on_transformed(ev)
  error("boom")
end
`

func TestHooksReceiveEffects(t *testing.T) {
	e, err := NewEngineFromSource(hooks, zap.NewNop())
	if err != nil {
		t.Fatalf("NewEngineFromSource: %v", err)
	}
	defer e.Close()

	bus := event.NewBus()
	e.Attach(bus)
	event.Emit(bus, event.Hazard{EntityID: 9, Cause: "defeat", X: 3, Y: 4})
	event.Emit(bus, event.Transformed{EntityID: 2, NewName: "flag"})
	event.Emit(bus, event.Won{X: 1, Y: 1})
	event.Emit(bus, event.PropertyGained{EntityID: 2, Property: "you"})
	bus.Dispatch()

	msgs := e.Messages()
	want := []string{"ouch: defeat at 3,4", "won"}
	if len(msgs) != len(want) {
		t.Fatalf("messages = %q, want %q", msgs, want)
	}
	for i := range want {
		if msgs[i] != want[i] {
			t.Errorf("message %d = %q, want %q", i, msgs[i], want[i])
		}
	}
	if len(e.Messages()) != 0 {
		t.Errorf("Messages should drain")
	}
	if !e.Has(HookHazard) || e.Has(HookPropertyGained) {
		t.Errorf("Has reports wrong hooks")
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.lua"), []byte(`function on_won(ev) return "a" end`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not lua"), 0o644); err != nil {
		t.Fatal(err)
	}
	e, err := NewEngine(dir, zap.NewNop())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	defer e.Close()
	if !e.Has(HookWon) {
		t.Errorf("script not loaded")
	}

	missing, err := NewEngine(filepath.Join(dir, "nope"), zap.NewNop())
	if err != nil {
		t.Fatalf("missing dir should load nothing: %v", err)
	}
	missing.Close()

	if err := os.WriteFile(filepath.Join(dir, "bad.lua"), []byte("function ("), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewEngine(dir, zap.NewNop()); err == nil {
		t.Errorf("syntax error should fail the load")
	}
}
