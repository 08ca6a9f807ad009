package component

import "strings"

// Flag is one derived property bit.
type Flag uint8

const (
	FlagYou Flag = 1 << iota
	FlagWin
	FlagStop
	FlagPush
	FlagDefeat
	FlagSink
)

var flagOrder = []Flag{FlagYou, FlagWin, FlagStop, FlagPush, FlagDefeat, FlagSink}

func (f Flag) String() string {
	switch f {
	case FlagYou:
		return "you"
	case FlagWin:
		return "win"
	case FlagStop:
		return "stop"
	case FlagPush:
		return "push"
	case FlagDefeat:
		return "defeat"
	case FlagSink:
		return "sink"
	}
	var parts []string
	for _, bit := range flagOrder {
		if f&bit != 0 {
			parts = append(parts, bit.String())
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// FlagForKeyword maps a rule property word to its flag. "kill" sets DEFEAT.
func FlagForKeyword(word string) (Flag, bool) {
	switch word {
	case "you":
		return FlagYou, true
	case "win":
		return FlagWin, true
	case "stop":
		return FlagStop, true
	case "push":
		return FlagPush, true
	case "kill":
		return FlagDefeat, true
	case "sink":
		return FlagSink, true
	}
	return 0, false
}

// contradictions lists flag pairs that cannot be held together.
var contradictions = map[Flag]Flag{
	FlagYou:    FlagDefeat | FlagSink,
	FlagWin:    FlagDefeat | FlagSink,
	FlagStop:   FlagPush,
	FlagPush:   FlagStop,
	FlagDefeat: FlagYou | FlagWin,
	FlagSink:   FlagYou | FlagWin,
}

// Contradicts reports whether adding f to held would create a forbidden pair.
func Contradicts(held, f Flag) bool {
	return held&contradictions[f] != 0
}

// PropertySet is the per-tick cache of derived flags. Ignored collects flags
// that were requested but rejected as contradictory.
type PropertySet struct {
	Flags   Flag
	Ignored Flag
}

func (p *PropertySet) Has(f Flag) bool {
	return p != nil && p.Flags&f != 0
}
