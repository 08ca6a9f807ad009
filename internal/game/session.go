// Package game owns one puzzle session: the ECS state, the systems that run
// each tick, the undo history and the effect bus.
package game

import (
	"go.uber.org/zap"

	"github.com/babago/babago/internal/component"
	"github.com/babago/babago/internal/config"
	"github.com/babago/babago/internal/core/event"
	coresys "github.com/babago/babago/internal/core/system"
	"github.com/babago/babago/internal/data"
	"github.com/babago/babago/internal/grid"
	"github.com/babago/babago/internal/system"
	"github.com/babago/babago/internal/world"
)

// Action is a session-level request outside normal movement.
type Action uint8

const (
	ActionNone Action = iota
	ActionUndo
	ActionResetLevel
)

// Input is the external intent for one tick.
type Input struct {
	Direction component.Direction
	Key       string
	Action    Action
}

// Options configures a Session.
type Options struct {
	MaxMoveAttempts   int
	EliminateOnHazard bool
	Keymap            map[string]component.Direction // movement keys
	UndoKey           string
	ResetKey          string
	Lexicon           *data.Lexicon
	Logger            *zap.Logger
}

// OptionsFromConfig maps the [engine] and [keys] sections onto Options.
func OptionsFromConfig(cfg *config.Config, lex *data.Lexicon, log *zap.Logger) Options {
	keymap := make(map[string]component.Direction, 4)
	for key, name := range cfg.Keys.Keymap() {
		if d, ok := component.ParseDirection(name); ok && key != "" {
			keymap[key] = d
		}
	}
	return Options{
		MaxMoveAttempts:   cfg.Engine.MaxMoveAttempts,
		EliminateOnHazard: cfg.Engine.EliminateOnHazard,
		Keymap:            keymap,
		UndoKey:           cfg.Keys.Undo,
		ResetKey:          cfg.Keys.Reset,
		Lexicon:           lex,
		Logger:            log,
	}
}

// Report summarises one tick.
type Report struct {
	Results []system.MoveResult
	Moved   bool
	Undone  bool
	Reset   bool
	Won     bool
}

// Session drives one level. Not safe for concurrent use.
type Session struct {
	opts    Options
	log     *zap.Logger
	bus     *event.Bus
	state   *world.State
	history *world.History
	runner  *coresys.Runner

	input    *system.InputSystem
	movement *system.MovementSystem
	rules    *system.RuleSystem
	trackers []coresys.Tracker

	level *data.Level
	moves int
}

func NewSession(opts Options) *Session {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Lexicon == nil {
		opts.Lexicon = data.DefaultTileTable().Lexicon()
	}
	if opts.MaxMoveAttempts < 1 {
		opts.MaxMoveAttempts = 2
	}

	s := &Session{
		opts:    opts,
		log:     opts.Logger,
		bus:     event.NewBus(),
		state:   world.NewState(opts.Lexicon.Classify),
		history: world.NewHistory(nil),
	}
	s.runner = coresys.NewRunner(s)

	s.input = system.NewInputSystem(s.state)
	s.movement = system.NewMovementSystem(s.state, s.bus, opts.MaxMoveAttempts, s.log.Named("movement"))
	s.rules = system.NewRuleSystem(s.state, s.bus, opts.Lexicon, opts.Keymap, s.log.Named("rules"))
	s.trackers = []coresys.Tracker{s.input, s.movement, s.rules}

	// Phase 0-5: input, movement, history, rules, output, cleanup.
	s.runner.Register(s.input)
	s.runner.Register(s.movement)
	s.runner.Register(system.NewHistorySystem(s.history, s.movement))
	s.runner.Register(s.rules)
	s.runner.Register(system.NewDispatchSystem(s.bus, s.log))
	s.runner.Register(system.NewCleanupSystem(s.state, s.bus, opts.EliminateOnHazard, s.log))
	return s
}

// Load replaces the current level. A nil level, or one without a grid,
// leaves the session empty and every tick a no-op.
func (s *Session) Load(level *data.Level) {
	s.level = level
	s.moves = 0
	var g *grid.Grid
	if level != nil && level.Grid != nil {
		g = level.Grid
		s.log.Info("level loaded", zap.String("level", level.Name))
	}
	s.history.Restart(g)
	s.rebuild(g)
}

// Tick runs one full simulation step.
func (s *Session) Tick(in Input) Report {
	if s.state.Empty() {
		return Report{}
	}
	switch {
	case in.Action == ActionUndo || (in.Key != "" && in.Key == s.opts.UndoKey):
		return Report{Undone: s.Undo(), Won: s.Won()}
	case in.Action == ActionResetLevel || (in.Key != "" && in.Key == s.opts.ResetKey):
		s.Reset()
		return Report{Reset: true}
	}
	if s.Won() {
		return Report{Won: true}
	}

	s.input.SetIntent(system.Intent{Direction: in.Direction, Key: in.Key})
	s.runner.Tick(0)

	moved := s.movement.Moved()
	if moved {
		s.moves++
	}
	return Report{
		Results: s.movement.Results(),
		Moved:   moved,
		Won:     s.Won(),
	}
}

// Undo restores the grid from before the last moving tick. Returns false
// when there is nothing to undo.
func (s *Session) Undo() bool {
	if s.state.Empty() {
		return false
	}
	g, ok := s.history.Undo()
	if !ok {
		return false
	}
	if s.moves > 0 {
		s.moves--
	}
	s.rebuild(g)
	return true
}

// Reset restores the level's initial grid and clears the history.
func (s *Session) Reset() {
	if s.state.Empty() {
		return
	}
	s.moves = 0
	s.rebuild(s.history.Reset())
}

// rebuild recreates every entity from g and runs a full rule pass so the
// next tick starts with derived properties in place.
func (s *Session) rebuild(g *grid.Grid) {
	s.bus.Discard()
	s.state.Load(g)
	for _, t := range s.trackers {
		if c, ok := t.(interface{ Clear() }); ok {
			c.Clear()
		}
	}
	if g == nil {
		return
	}
	for _, id := range s.state.World.Entities() {
		mask := s.state.World.Mask(id)
		for _, t := range s.trackers {
			t.Add(id, mask)
		}
	}
	s.runner.TickPhase(coresys.PhaseRules, 0)
	s.runner.TickPhase(coresys.PhaseOutput, 0)
	s.runner.TickPhase(coresys.PhaseCleanup, 0)
}

// Apply implements coresys.Applier. Removals leave the grid and every
// system; other updates re-evaluate system membership.
func (s *Session) Apply(updates []coresys.Update) {
	for _, u := range updates {
		if u.Remove {
			s.state.Destroy(u.ID)
			for _, t := range s.trackers {
				t.Remove(u.ID)
			}
			continue
		}
		if !s.state.World.Alive(u.ID) {
			continue
		}
		mask := s.state.World.Mask(u.ID)
		for _, t := range s.trackers {
			t.NotifyUpdated(u.ID, mask)
		}
	}
}

func (s *Session) Empty() bool { return s.state.Empty() }

func (s *Session) Won() bool { return s.state.Won() }

// Grid returns a copy of the current grid, or nil when empty.
func (s *Session) Grid() *grid.Grid {
	if g := s.state.Grid(); g != nil {
		return g.Clone()
	}
	return nil
}

func (s *Session) State() *world.State { return s.state }

func (s *Session) Bus() *event.Bus { return s.bus }

func (s *Session) Level() *data.Level { return s.level }

// Moves is the number of moving ticks since load or reset, less undos.
func (s *Session) Moves() int { return s.moves }

// UndoDepth is the number of steps Undo can still take.
func (s *Session) UndoDepth() int { return s.history.Depth() }

// Rules returns the rules derived on the last pass.
func (s *Session) Rules() []system.Rule { return s.rules.Rules() }

// Controlled returns the entities currently marked YOU.
func (s *Session) Controlled() int { return s.input.Len() }
