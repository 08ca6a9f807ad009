package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/urfave/cli/v3"

	"github.com/babago/babago/internal/component"
	"github.com/babago/babago/internal/data"
	"github.com/babago/babago/internal/game"
	"github.com/babago/babago/internal/persist"
	"github.com/babago/babago/internal/term"
)

var levelFlag = &cli.StringFlag{
	Name:    "level",
	Aliases: []string{"l"},
	Usage:   "level name or name fragment (default levels.first)",
}

func playCommand() *cli.Command {
	return &cli.Command{
		Name:  "play",
		Usage: "play a level in the terminal",
		Flags: []cli.Flag{levelFlag},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			e, err := setup(cmd, true)
			if err != nil {
				return err
			}
			defer e.log.Sync()

			lvl, err := e.level(cmd.String("level"))
			if err != nil {
				return err
			}
			rt, err := e.start(ctx, lvl, true)
			if err != nil {
				return err
			}
			defer rt.close()

			screen, err := tcell.NewScreen()
			if err != nil {
				return fmt.Errorf("open terminal: %w", err)
			}
			if err := screen.Init(); err != nil {
				return fmt.Errorf("init terminal: %w", err)
			}
			defer screen.Fini()

			loop := &term.Loop{
				Screen:   screen,
				Renderer: term.NewRenderer(screen, e.tiles),
				Session:  rt.session,
				QuitKey:  e.cfg.Keys.Quit,
				Log:      e.log,
				Messages: rt.messages,
			}
			won := rt.session.Won()
			loop.OnTick = func(rep game.Report) {
				rt.after(ctx, rep, won)
				won = rt.session.Won()
			}
			loop.Run()
			return nil
		},
	}
}

func runCommand() *cli.Command {
	return &cli.Command{
		Name:      "run",
		Usage:     "replay a move string headlessly and print the result",
		ArgsUsage: "MOVES (U D L R, z undo, r reset)",
		Flags: []cli.Flag{
			levelFlag,
			&cli.BoolFlag{Name: "record", Usage: "record the attempt in the progress database"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			inputs, err := parseMoves(strings.Join(cmd.Args().Slice(), ""))
			if err != nil {
				return err
			}
			e, err := setup(cmd, false)
			if err != nil {
				return err
			}
			defer e.log.Sync()

			lvl, err := e.level(cmd.String("level"))
			if err != nil {
				return err
			}
			rt, err := e.start(ctx, lvl, cmd.Bool("record"))
			if err != nil {
				return err
			}
			defer rt.close()

			replay(ctx, rt, inputs)
			return printOutcome(os.Stdout, rt.session, e.tiles, rt.messages())
		},
	}
}

func rulesCommand() *cli.Command {
	return &cli.Command{
		Name:  "rules",
		Usage: "print the rules a level starts with",
		Flags: []cli.Flag{levelFlag},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			e, err := setup(cmd, false)
			if err != nil {
				return err
			}
			defer e.log.Sync()

			lvl, err := e.level(cmd.String("level"))
			if err != nil {
				return err
			}
			s := game.NewSession(game.OptionsFromConfig(e.cfg, e.tiles.Lexicon(), e.log))
			s.Load(lvl)
			for _, r := range s.Rules() {
				fmt.Printf("%-24s %s (%d,%d)\n", r.String(), r.Orientation, r.X, r.Y)
			}
			return nil
		},
	}
}

func levelsCommand() *cli.Command {
	return &cli.Command{
		Name:  "levels",
		Usage: "list the levels in the pack",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			e, err := setup(cmd, false)
			if err != nil {
				return err
			}
			defer e.log.Sync()

			for i, name := range e.pack.Names() {
				lvl, _ := e.pack.Index(i)
				rows, cols := lvl.Grid.Dimensions()
				fmt.Printf("%3d  %-20s %dx%d\n", i+1, name, rows, cols)
			}
			return nil
		},
	}
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "apply progress database migrations",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			e, err := setup(cmd, false)
			if err != nil {
				return err
			}
			defer e.log.Sync()
			if e.cfg.Database.DSN == "" {
				return errors.New("database.dsn is not set")
			}

			p, err := openProgress(ctx, e)
			if err != nil {
				return err
			}
			defer p.db.Close()
			v, err := persist.MigrationVersion(ctx, p.db.Pool)
			if err != nil {
				return err
			}
			fmt.Printf("progress schema at version %d\n", v)
			return nil
		},
	}
}

// parseMoves reads U D L R as directions, z as undo and r as
// reset. Whitespace is ignored.
func parseMoves(s string) ([]game.Input, error) {
	var out []game.Input
	for i, ch := range s {
		var in game.Input
		switch ch {
		case 'U':
			in.Direction = component.DirUp
		case 'D':
			in.Direction = component.DirDown
		case 'L':
			in.Direction = component.DirLeft
		case 'R':
			in.Direction = component.DirRight
		case 'z':
			in.Action = game.ActionUndo
		case 'r':
			in.Action = game.ActionResetLevel
		case ' ', '\t', '\n', ',':
			continue
		default:
			return nil, fmt.Errorf("move %d: unknown move %q", i+1, ch)
		}
		out = append(out, in)
	}
	return out, nil
}

func replay(ctx context.Context, rt *runtime, inputs []game.Input) {
	for _, in := range inputs {
		won := rt.session.Won()
		rt.after(ctx, rt.session.Tick(in), won)
	}
}

func printOutcome(w io.Writer, s *game.Session, tiles *data.TileTable, messages []string) error {
	lvl := &data.Level{Name: "?", Grid: s.Grid()}
	if l := s.Level(); l != nil {
		lvl.Name = l.Name
		lvl.Background = l.Background
	}
	if lvl.Grid == nil {
		_, err := fmt.Fprintln(w, "no level loaded")
		return err
	}
	if err := data.WriteLevel(w, lvl, tiles); err != nil {
		return err
	}
	for _, r := range s.Rules() {
		fmt.Fprintf(w, "rule: %s\n", r)
	}
	for _, m := range messages {
		fmt.Fprintf(w, "script: %s\n", m)
	}
	outcome := "unsolved"
	if s.Won() {
		outcome = "won"
	}
	_, err := fmt.Fprintf(w, "moves: %d\noutcome: %s\n", s.Moves(), outcome)
	return err
}
