package term

import "github.com/gdamore/tcell/v2"

// KeyName turns a key event into the name used by the [keys] config
// section: "Up", "Esc", "Enter" for special keys, the character itself
// for printable keys. Returns "" for keys without a name.
func KeyName(ev *tcell.EventKey) string {
	if ev.Key() == tcell.KeyRune {
		return string(ev.Rune())
	}
	if name, ok := tcell.KeyNames[ev.Key()]; ok {
		return name
	}
	return ""
}
