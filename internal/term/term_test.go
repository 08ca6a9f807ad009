package term

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/babago/babago/internal/component"
	"github.com/babago/babago/internal/config"
	"github.com/babago/babago/internal/data"
	"github.com/babago/babago/internal/game"
)

const pack = `Level-1
5 x 7
lllllll
lllllll
lllllll
lllllll
lllllll
wwwwwww
wBIY  w
wFIX  w
w b  fw
wwwwwww
`

func newScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("init screen: %v", err)
	}
	screen.SetSize(80, 24)
	return screen
}

func newSession(t *testing.T) *game.Session {
	t.Helper()
	tiles := data.DefaultTileTable()
	p, err := data.ParsePack(strings.NewReader(pack), tiles)
	if err != nil {
		t.Fatalf("ParsePack: %v", err)
	}
	lvl, err := p.Level("Level-1")
	if err != nil {
		t.Fatalf("Level: %v", err)
	}
	s := game.NewSession(game.OptionsFromConfig(config.Defaults(), tiles.Lexicon(), nil))
	s.Load(lvl)
	return s
}

func line(screen tcell.SimulationScreen, y int) string {
	w, _ := screen.Size()
	var b strings.Builder
	for x := 0; x < w; x++ {
		ch, _, _, _ := screen.GetContent(x, y)
		b.WriteRune(ch)
	}
	return strings.TrimRight(b.String(), " ")
}

func TestKeyName(t *testing.T) {
	tests := []struct {
		name string
		ev   *tcell.EventKey
		want string
	}{
		{"arrow", tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone), "Up"},
		{"escape", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), "Esc"},
		{"rune", tcell.NewEventKey(tcell.KeyRune, 'z', tcell.ModNone), "z"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KeyName(tt.ev); got != tt.want {
				t.Errorf("KeyName = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDrawBoardAndStatus(t *testing.T) {
	screen := newScreen(t)
	defer screen.Fini()
	s := newSession(t)

	NewRenderer(screen, nil).Draw(s, []string{"hello"})

	if got := line(screen, originY+3); got != " w b  fw" {
		t.Errorf("board row = %q", got)
	}
	ch, _, style, _ := screen.GetContent(originX+1, originY+1)
	if ch != 'B' {
		t.Errorf("word tile glyph = %q, want B", ch)
	}
	if style != wordStyles[component.Noun] {
		t.Errorf("noun tile not drawn with the word style")
	}
	_, _, floor, _ := screen.GetContent(originX+4, originY+2)
	if floor != backgroundStyles["floor"] {
		t.Errorf("empty cell missing the floor background")
	}

	status := originY + 5 + 1
	if got := line(screen, status); !strings.HasPrefix(got, " Level-1  moves 0") {
		t.Errorf("status = %q", got)
	}
	if got := line(screen, status+1); got != " baba is you, flagname is win" {
		t.Errorf("rules line = %q", got)
	}
	if got := line(screen, status+2); got != " hello" {
		t.Errorf("message line = %q", got)
	}
}

func TestDrawEmptySession(t *testing.T) {
	screen := newScreen(t)
	defer screen.Fini()
	s := game.NewSession(game.Options{})

	NewRenderer(screen, nil).Draw(s, nil)
	if got := line(screen, originY); got != " no level loaded" {
		t.Errorf("got %q", got)
	}
}

func TestLoopPlaysToWin(t *testing.T) {
	screen := newScreen(t)
	defer screen.Fini()
	s := newSession(t)

	var reports []game.Report
	loop := &Loop{
		Screen:   screen,
		Renderer: NewRenderer(screen, nil),
		Session:  s,
		QuitKey:  "Esc",
		OnTick:   func(r game.Report) { reports = append(reports, r) },
		Messages: func() []string { return []string{"tick"} },
	}

	for i := 0; i < 3; i++ {
		screen.InjectKey(tcell.KeyRight, 0, tcell.ModNone)
	}
	screen.InjectKey(tcell.KeyEscape, 0, tcell.ModNone)
	loop.Run()

	if len(reports) != 3 {
		t.Fatalf("ticks = %d, want 3", len(reports))
	}
	if !s.Won() || !reports[2].Won {
		t.Errorf("expected the walk right to reach the flag:\n%s", s.Grid())
	}
	if got := line(screen, originY+5+3); got != " level complete" {
		t.Errorf("win line = %q", got)
	}
}
