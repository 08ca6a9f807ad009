package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/babago/babago/internal/data"
	"github.com/babago/babago/internal/game"
	"github.com/babago/babago/internal/persist"
	"github.com/babago/babago/internal/scripting"
)

// runtime is one session plus its optional scripting and progress hooks.
type runtime struct {
	session  *game.Session
	scripts  *scripting.Engine
	progress *progress
}

func (e *env) level(name string) (*data.Level, error) {
	if name == "" {
		name = e.cfg.Levels.First
	}
	lvl, err := e.pack.Level(name)
	if err != nil {
		return nil, fmt.Errorf("level %q: %w", name, err)
	}
	return lvl, nil
}

// start builds a session for lvl and attaches Lua hooks and progress
// recording when they are enabled.
func (e *env) start(ctx context.Context, lvl *data.Level, record bool) (*runtime, error) {
	s := game.NewSession(game.OptionsFromConfig(e.cfg, e.tiles.Lexicon(), e.log))
	rt := &runtime{session: s}

	if e.cfg.Scripting.Enabled {
		eng, err := scripting.NewEngine(e.cfg.Scripting.Dir, e.log.Named("lua"))
		if err != nil {
			return nil, err
		}
		eng.Attach(s.Bus())
		rt.scripts = eng
	}

	if record && e.cfg.Database.DSN != "" {
		p, err := openProgress(ctx, e)
		if err != nil {
			rt.close()
			return nil, err
		}
		rt.progress = p
	}

	s.Load(lvl)
	rt.progress.attempt(ctx, lvl.Name)
	return rt, nil
}

// after records a solve the first time a tick reports the win.
func (rt *runtime) after(ctx context.Context, rep game.Report, wasWon bool) {
	if rep.Won && !wasWon {
		rt.progress.solve(ctx, rt.session)
	}
}

func (rt *runtime) messages() []string {
	if rt.scripts == nil {
		return nil
	}
	return rt.scripts.Messages()
}

func (rt *runtime) close() {
	if rt.scripts != nil {
		rt.scripts.Close()
	}
	if rt.progress != nil {
		rt.progress.db.Close()
	}
}

// progress writes level outcomes to PostgreSQL. A nil *progress records
// nothing.
type progress struct {
	db   *persist.DB
	repo *persist.ProgressRepo
	log  *zap.Logger
}

func openProgress(ctx context.Context, e *env) (*progress, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	db, err := persist.NewDB(ctx, e.cfg.Database, e.log)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}
	if err := persist.RunMigrations(ctx, db.Pool); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}
	return &progress{db: db, repo: persist.NewProgressRepo(db), log: e.log}, nil
}

func (p *progress) attempt(ctx context.Context, level string) {
	if p == nil {
		return
	}
	if err := p.repo.RecordAttempt(ctx, level); err != nil {
		p.log.Warn("record attempt", zap.String("level", level), zap.Error(err))
	}
}

func (p *progress) solve(ctx context.Context, s *game.Session) {
	if p == nil || s.Level() == nil {
		return
	}
	name := s.Level().Name
	if err := p.repo.RecordSolve(ctx, name, s.Moves(), s.Grid().Digest()); err != nil {
		p.log.Warn("record solve", zap.String("level", name), zap.Error(err))
	}
}
