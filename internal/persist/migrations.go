package persist

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

// withGoose points goose at the embedded progress schema and hands fn a
// database/sql view of pool.
func withGoose(pool *pgxpool.Pool, fn func(*sql.DB) error) error {
	goose.SetLogger(goose.NopLogger())
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()
	return fn(db)
}

// RunMigrations brings the progress schema up to date.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	return withGoose(pool, func(db *sql.DB) error {
		if err := goose.UpContext(ctx, db, "migrations"); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
		return nil
	})
}

// MigrationVersion reports the newest applied migration.
func MigrationVersion(ctx context.Context, pool *pgxpool.Pool) (int64, error) {
	var v int64
	err := withGoose(pool, func(db *sql.DB) error {
		var err error
		if v, err = goose.GetDBVersionContext(ctx, db); err != nil {
			return fmt.Errorf("read migration version: %w", err)
		}
		return nil
	})
	return v, err
}
