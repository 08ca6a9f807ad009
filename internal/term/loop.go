package term

import (
	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/babago/babago/internal/game"
)

// Loop polls the screen for key events and ticks the session once per
// key press.
type Loop struct {
	Screen   tcell.Screen
	Renderer *Renderer
	Session  *game.Session
	QuitKey  string
	Log      *zap.Logger

	// OnTick runs after every tick, before the next frame is drawn.
	OnTick func(game.Report)
	// Messages supplies extra status lines, e.g. script output.
	Messages func() []string
}

// Run draws the session and blocks until the quit key, Ctrl+C, or the
// screen is finalised.
func (l *Loop) Run() {
	log := l.Log
	if log == nil {
		log = zap.NewNop()
	}
	var status []string
	for {
		l.Renderer.Draw(l.Session, status)

		switch ev := l.Screen.PollEvent().(type) {
		case nil:
			return
		case *tcell.EventResize:
			l.Screen.Sync()
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyCtrlC {
				return
			}
			name := KeyName(ev)
			if name == "" {
				continue
			}
			if name == l.QuitKey {
				return
			}
			rep := l.Session.Tick(game.Input{Key: name})
			log.Debug("tick", zap.String("key", name), zap.Bool("moved", rep.Moved), zap.Bool("won", rep.Won))
			if l.OnTick != nil {
				l.OnTick(rep)
			}
			status = status[:0]
			if l.Messages != nil {
				status = append(status, l.Messages()...)
			}
		}
	}
}
