package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/babago/babago/internal/core/event"
)

// Hook names a script may define. Each receives one table describing the
// effect and may return a status message string.
const (
	HookPropertyGained = "on_property_gained"
	HookTransformed    = "on_transformed"
	HookWon            = "on_won"
	HookHazard         = "on_hazard"
)

// Engine wraps a single gopher-lua VM that reacts to simulation effects.
// Single-goroutine access only (tick loop).
type Engine struct {
	vm       *lua.LState
	log      *zap.Logger
	messages []string
}

// NewEngine creates a Lua engine and loads every .lua file in scriptsDir.
// A missing directory loads nothing.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	e := newEngine(log)
	if err := e.loadDir(scriptsDir); err != nil {
		e.vm.Close()
		return nil, fmt.Errorf("load scripts: %w", err)
	}
	return e, nil
}

// NewEngineFromSource builds an engine from a single chunk of Lua.
func NewEngineFromSource(src string, log *zap.Logger) (*Engine, error) {
	e := newEngine(log)
	if err := e.vm.DoString(src); err != nil {
		e.vm.Close()
		return nil, fmt.Errorf("load script: %w", err)
	}
	return e, nil
}

func newEngine(log *zap.Logger) *Engine {
	vm := lua.NewState(lua.Options{SkipOpenLibs: false})
	vm.SetGlobal("API_VERSION", lua.LNumber(1))
	e := &Engine{vm: vm, log: log}
	vm.SetGlobal("log", vm.NewFunction(e.luaLog))
	return e
}

// luaLog lets scripts write to the engine's logger: log("text").
func (e *Engine) luaLog(L *lua.LState) int {
	e.log.Info("lua", zap.String("msg", L.CheckString(1)))
	return 0
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// Attach subscribes the script hooks to the effect bus.
func (e *Engine) Attach(bus *event.Bus) {
	event.Subscribe(bus, func(ev event.PropertyGained) {
		t := e.cell(ev.X, ev.Y)
		t.RawSetString("entity", lua.LNumber(ev.EntityID))
		t.RawSetString("property", lua.LString(ev.Property))
		e.call(HookPropertyGained, t)
	})
	event.Subscribe(bus, func(ev event.Transformed) {
		t := e.cell(ev.X, ev.Y)
		t.RawSetString("entity", lua.LNumber(ev.EntityID))
		t.RawSetString("name", lua.LString(ev.NewName))
		e.call(HookTransformed, t)
	})
	event.Subscribe(bus, func(ev event.Won) {
		e.call(HookWon, e.cell(ev.X, ev.Y))
	})
	event.Subscribe(bus, func(ev event.Hazard) {
		t := e.cell(ev.X, ev.Y)
		t.RawSetString("entity", lua.LNumber(ev.EntityID))
		t.RawSetString("cause", lua.LString(ev.Cause))
		e.call(HookHazard, t)
	})
}

func (e *Engine) cell(x, y int) *lua.LTable {
	t := e.vm.NewTable()
	t.RawSetString("x", lua.LNumber(x))
	t.RawSetString("y", lua.LNumber(y))
	return t
}

// Has reports whether the loaded scripts define hook.
func (e *Engine) Has(hook string) bool {
	_, ok := e.vm.GetGlobal(hook).(*lua.LFunction)
	return ok
}

// call runs a hook if defined. A string result is queued as a message.
func (e *Engine) call(name string, arg *lua.LTable) {
	fn, ok := e.vm.GetGlobal(name).(*lua.LFunction)
	if !ok {
		return
	}
	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, arg); err != nil {
		e.log.Error("lua hook error", zap.String("hook", name), zap.Error(err))
		return
	}
	result := e.vm.Get(-1)
	e.vm.Pop(1)
	if s, ok := result.(lua.LString); ok && s != "" {
		e.messages = append(e.messages, string(s))
	}
}

// Messages returns and clears the messages hooks produced.
func (e *Engine) Messages() []string {
	out := e.messages
	e.messages = nil
	return out
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
