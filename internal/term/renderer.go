// Package term is the terminal front-end: it draws a session with tcell
// and feeds key presses back into it.
package term

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/babago/babago/internal/component"
	"github.com/babago/babago/internal/data"
	"github.com/babago/babago/internal/game"
)

// Board origin on screen; the status block starts one row under the board.
const (
	originX = 1
	originY = 1
)

var (
	styleDefault = tcell.StyleDefault
	styleStatus  = tcell.StyleDefault.Foreground(tcell.ColorSilver)
	styleWon     = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleMessage = tcell.StyleDefault.Foreground(tcell.ColorAqua)
)

// objectStyles colours object tiles by name. Unlisted objects use the default.
var objectStyles = map[string]tcell.Style{
	"BigBlue": tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true),
	"wall":    tcell.StyleDefault.Foreground(tcell.ColorGray),
	"rock":    tcell.StyleDefault.Foreground(tcell.ColorOlive),
	"flag":    tcell.StyleDefault.Foreground(tcell.ColorYellow),
	"water":   tcell.StyleDefault.Foreground(tcell.ColorBlue),
	"lava":    tcell.StyleDefault.Foreground(tcell.ColorRed),
}

// backgroundStyles tints empty cells that carry a decoration.
var backgroundStyles = map[string]tcell.Style{
	"floor": tcell.StyleDefault.Background(tcell.NewRGBColor(28, 28, 28)),
	"grass": tcell.StyleDefault.Background(tcell.NewRGBColor(20, 48, 20)),
	"hedge": tcell.StyleDefault.Background(tcell.NewRGBColor(10, 70, 30)),
}

var wordStyles = map[component.WordKind]tcell.Style{
	component.Noun:     tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorFuchsia),
	component.Verb:     tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorWhite),
	component.Property: tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorTeal),
}

// Renderer draws a session onto a tcell screen using the level legend for
// glyphs.
type Renderer struct {
	screen tcell.Screen
	tiles  *data.TileTable
}

func NewRenderer(screen tcell.Screen, tiles *data.TileTable) *Renderer {
	if tiles == nil {
		tiles = data.DefaultTileTable()
	}
	return &Renderer{screen: screen, tiles: tiles}
}

// Draw clears the screen, paints the board and the status block, then
// shows the frame.
func (r *Renderer) Draw(s *game.Session, messages []string) {
	r.screen.Clear()
	g := s.Grid()
	if g == nil {
		r.text(originX, originY, styleStatus, "no level loaded")
		r.screen.Show()
		return
	}

	var bg func(x, y int) string
	if lvl := s.Level(); lvl != nil && lvl.Background != nil {
		bg = lvl.Background.Get
	}
	g.Each(func(x, y int, label string) {
		ch, style := r.cell(label)
		if label == "" && bg != nil {
			if st, ok := backgroundStyles[bg(x, y)]; ok {
				style = st
			}
		}
		r.screen.SetContent(originX+x, originY+y, ch, nil, style)
	})

	rows, _ := g.Dimensions()
	y := originY + rows + 1
	name := "?"
	if lvl := s.Level(); lvl != nil {
		name = lvl.Name
	}
	r.text(originX, y, styleStatus, fmt.Sprintf("%s  moves %d  undo %d", name, s.Moves(), s.UndoDepth()))
	y++

	rules := make([]string, 0, len(s.Rules()))
	for _, rule := range s.Rules() {
		rules = append(rules, rule.String())
	}
	r.text(originX, y, styleStatus, strings.Join(rules, ", "))
	y++

	if s.Won() {
		r.text(originX, y, styleWon, "level complete")
		y++
	}
	for _, m := range messages {
		r.text(originX, y, styleMessage, m)
		y++
	}
	r.screen.Show()
}

// cell picks the glyph and style for one grid label.
func (r *Renderer) cell(label string) (rune, tcell.Style) {
	if label == "" {
		return ' ', styleDefault
	}
	ch, ok := r.tiles.Encode(label)
	if !ok {
		ch = '?'
	}
	if w, ok := r.tiles.Lexicon().Classify(label); ok {
		return ch, wordStyles[w.Kind]
	}
	if st, ok := objectStyles[label]; ok {
		return ch, st
	}
	return ch, styleDefault
}

func (r *Renderer) text(x, y int, style tcell.Style, s string) {
	for i, ch := range []rune(s) {
		r.screen.SetContent(x+i, y, ch, nil, style)
	}
}
