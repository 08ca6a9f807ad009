package system

import (
	"time"

	"go.uber.org/zap"

	"github.com/babago/babago/internal/component"
	"github.com/babago/babago/internal/core/ecs"
	"github.com/babago/babago/internal/core/event"
	coresys "github.com/babago/babago/internal/core/system"
	"github.com/babago/babago/internal/data"
	"github.com/babago/babago/internal/world"
)

const verbIs = "is"

// Orientation is the axis a rule was read along.
type Orientation uint8

const (
	Horizontal Orientation = iota
	Vertical
)

func (o Orientation) String() string {
	if o == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// Rule is one accepted "<target> is <rule>" triplet. X,Y is the verb cell.
type Rule struct {
	Target      string
	Rule        string
	Orientation Orientation
	X, Y        int
}

func (r Rule) String() string {
	return r.Target + " " + verbIs + " " + r.Rule
}

// RuleSystem re-derives every entity's properties from the word triplets on
// the grid, then checks win and hazard contacts. Phase 3 (Rules).
type RuleSystem struct {
	coresys.Base
	state  *world.State
	bus    *event.Bus
	lex    *data.Lexicon
	keymap map[string]component.Direction
	log    *zap.Logger

	rules    []Rule
	rejected int
	before   map[ecs.EntityID]snapshot
}

type snapshot struct {
	flags component.Flag
	mask  ecs.Mask
	name  string
}

// NewRuleSystem builds the rule engine. keymap is copied into every
// ControlIntent the engine attaches.
func NewRuleSystem(state *world.State, bus *event.Bus, lex *data.Lexicon, keymap map[string]component.Direction, log *zap.Logger) *RuleSystem {
	return &RuleSystem{
		Base:   coresys.NewBase(placedMask),
		state:  state,
		bus:    bus,
		lex:    lex,
		keymap: keymap,
		log:    log,
		before: make(map[ecs.EntityID]snapshot, 64),
	}
}

func (s *RuleSystem) Phase() coresys.Phase { return coresys.PhaseRules }

// Rules returns the triplets accepted on the last scan.
func (s *RuleSystem) Rules() []Rule { return s.rules }

// Rejected returns how many triplets the last scan discarded as nonsense.
func (s *RuleSystem) Rejected() int { return s.rejected }

func (s *RuleSystem) Update(_ time.Duration) []coresys.Update {
	tracked := s.Tracked()
	s.reset(tracked)
	s.scan()

	var transforms []Rule
	for _, r := range s.rules {
		if _, ok := component.FlagForKeyword(r.Rule); ok {
			s.applyProperty(tracked, r)
			continue
		}
		if _, ok := s.lex.ObjectFor(r.Rule); ok {
			transforms = append(transforms, r)
		}
	}
	for _, r := range transforms {
		s.applyTransform(tracked, r)
	}

	s.checkWin(tracked)
	s.checkHazards(tracked)

	var updates []coresys.Update
	for _, id := range tracked {
		prev := s.before[id]
		if s.state.World.Mask(id) != prev.mask || s.state.Name(id) != prev.name {
			updates = append(updates, coresys.Update{ID: id})
		}
	}
	return updates
}

// reset strips the derived components. Word tiles keep an idle Movable.
func (s *RuleSystem) reset(tracked []ecs.EntityID) {
	clear(s.before)
	for _, id := range tracked {
		s.before[id] = snapshot{
			flags: s.state.Flags(id),
			mask:  s.state.World.Mask(id),
			name:  s.state.Name(id),
		}
		s.state.Properties.Remove(id)
		s.state.Movables.Remove(id)
		s.state.Controls.Remove(id)
		if s.state.Words.Has(id) {
			s.state.Movables.Set(id, &component.Movable{})
		}
	}
}

// scan collects every horizontal and vertical triplet centred on "is".
func (s *RuleSystem) scan() {
	s.rules = s.rules[:0]
	s.rejected = 0
	g := s.state.Grid()
	rows, cols := g.Dimensions()
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			if g.Get(x, y) != verbIs {
				continue
			}
			if y-1 >= 0 && y+1 < rows {
				s.consider(Rule{Target: g.Get(x, y-1), Rule: g.Get(x, y+1), Orientation: Vertical, X: x, Y: y})
			}
			if x-1 >= 0 && x+1 < cols {
				s.consider(Rule{Target: g.Get(x-1, y), Rule: g.Get(x+1, y), Orientation: Horizontal, X: x, Y: y})
			}
		}
	}
}

func (s *RuleSystem) consider(r Rule) {
	if r.Target == "" || r.Rule == "" {
		return
	}
	if s.nonsense(r) {
		s.rejected++
		s.log.Debug("rule rejected",
			zap.Stringer("rule", r), zap.Int("x", r.X), zap.Int("y", r.Y))
		return
	}
	s.rules = append(s.rules, r)
}

// nonsense rejects triplets that use the verb as an operand or pair two
// keywords. A noun keyword may still be YOU.
func (s *RuleSystem) nonsense(r Rule) bool {
	if r.Target == verbIs || r.Rule == verbIs {
		return true
	}
	if s.lex.IsKeyword(r.Target) && s.lex.IsKeyword(r.Rule) {
		w, _ := s.lex.Classify(r.Target)
		allowed := w.Kind == component.Noun && r.Rule == "you" && r.Target != r.Rule
		return !allowed
	}
	return false
}

func (s *RuleSystem) applyProperty(tracked []ecs.EntityID, r Rule) {
	flag, _ := component.FlagForKeyword(r.Rule)
	for _, id := range tracked {
		name := s.state.Name(id)
		if !s.lex.Matches(r.Target, name) {
			continue
		}
		if flag == component.FlagWin && name != "flag" {
			continue
		}
		if (flag == component.FlagDefeat || flag == component.FlagSink) && name == r.Target {
			continue
		}

		ps, ok := s.state.Properties.Get(id)
		if !ok {
			ps = &component.PropertySet{}
			s.state.Properties.Set(id, ps)
		}
		if component.Contradicts(ps.Flags, flag) {
			ps.Ignored |= flag
			s.log.Debug("contradictory property ignored",
				zap.Uint64("entity", uint64(id)), zap.String("name", name),
				zap.Stringer("held", ps.Flags), zap.Stringer("flag", flag))
			continue
		}
		ps.Flags |= flag

		if flag == component.FlagPush || flag == component.FlagYou {
			if !s.state.Movables.Has(id) {
				s.state.Movables.Set(id, &component.Movable{})
			}
		}
		if flag == component.FlagYou && !s.state.Controls.Has(id) {
			s.state.Controls.Set(id, &component.ControlIntent{Keymap: s.keymap})
		}

		if s.before[id].flags&flag == 0 {
			pos, _ := s.state.PositionOf(id)
			event.Emit(s.bus, event.PropertyGained{EntityID: id, Property: flag.String(), X: pos.X, Y: pos.Y})
		}
	}
}

func (s *RuleSystem) applyTransform(tracked []ecs.EntityID, r Rule) {
	newName, _ := s.lex.ObjectFor(r.Rule)
	for _, id := range tracked {
		name := s.state.Name(id)
		if name == newName || !s.lex.Matches(r.Target, name) {
			continue
		}
		s.state.Rename(id, newName)
		pos, _ := s.state.PositionOf(id)
		s.log.Debug("entity transformed",
			zap.Uint64("entity", uint64(id)), zap.String("from", name), zap.String("to", newName))
		event.Emit(s.bus, event.Transformed{EntityID: id, NewName: newName, X: pos.X, Y: pos.Y})
	}
}

func (s *RuleSystem) checkWin(tracked []ecs.EntityID) {
	for _, id := range tracked {
		if !s.state.HasFlag(id, component.FlagYou) {
			continue
		}
		pos, _ := s.state.PositionOf(id)
		for _, o := range s.state.AtPos(pos) {
			if !s.state.HasFlag(o, component.FlagWin) {
				continue
			}
			if s.state.RaiseWon(pos) {
				s.log.Info("level won", zap.Int("x", pos.X), zap.Int("y", pos.Y))
				event.Emit(s.bus, event.Won{X: pos.X, Y: pos.Y})
			}
			return
		}
	}
}

func (s *RuleSystem) checkHazards(tracked []ecs.EntityID) {
	for _, id := range tracked {
		if !s.state.HasFlag(id, component.FlagYou) {
			continue
		}
		pos, _ := s.state.PositionOf(id)
		for _, o := range s.state.AtPos(pos) {
			if o == id {
				continue
			}
			flags := s.state.Flags(o)
			if flags&component.FlagDefeat != 0 {
				event.Emit(s.bus, event.Hazard{EntityID: id, Cause: "defeat", X: pos.X, Y: pos.Y})
			}
			if flags&component.FlagSink != 0 {
				event.Emit(s.bus, event.Hazard{EntityID: id, Cause: "sink", X: pos.X, Y: pos.Y})
				event.Emit(s.bus, event.Hazard{EntityID: o, Cause: "sink", X: pos.X, Y: pos.Y})
			}
		}
	}
}
