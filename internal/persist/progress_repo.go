package persist

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
)

// ProgressRow is the per-level record of a player's results. It never holds
// simulation state, only the outcome.
type ProgressRow struct {
	Level        string
	Attempts     int
	BestMoves    *int
	SolvedDigest string
	SolvedAt     *time.Time
	UpdatedAt    time.Time
}

func (r *ProgressRow) Solved() bool { return r.SolvedAt != nil }

type ProgressRepo struct {
	db *DB
}

func NewProgressRepo(db *DB) *ProgressRepo {
	return &ProgressRepo{db: db}
}

// Load returns the record for level, or nil when none exists.
func (r *ProgressRepo) Load(ctx context.Context, level string) (*ProgressRow, error) {
	row := &ProgressRow{}
	err := r.db.Pool.QueryRow(ctx,
		`SELECT level, attempts, best_moves, COALESCE(solved_digest,''), solved_at, updated_at
		 FROM level_progress WHERE level = $1`, level,
	).Scan(&row.Level, &row.Attempts, &row.BestMoves, &row.SolvedDigest, &row.SolvedAt, &row.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return row, nil
}

// RecordAttempt counts one start of level.
func (r *ProgressRepo) RecordAttempt(ctx context.Context, level string) error {
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO level_progress (level, attempts) VALUES ($1, 1)
		 ON CONFLICT (level) DO UPDATE
		 SET attempts = level_progress.attempts + 1, updated_at = now()`, level)
	return err
}

// RecordSolve stores a win. best_moves only ever decreases; the digest of
// the winning grid follows the best solve.
func (r *ProgressRepo) RecordSolve(ctx context.Context, level string, moves int, digest string) error {
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO level_progress (level, attempts, best_moves, solved_digest, solved_at)
		 VALUES ($1, 1, $2, $3, now())
		 ON CONFLICT (level) DO UPDATE SET
		   best_moves    = LEAST(COALESCE(level_progress.best_moves, $2), $2),
		   solved_digest = CASE WHEN level_progress.best_moves IS NULL OR $2 < level_progress.best_moves
		                        THEN $3 ELSE level_progress.solved_digest END,
		   solved_at     = COALESCE(level_progress.solved_at, now()),
		   updated_at    = now()`,
		level, moves, digest)
	return err
}

// List returns every record ordered by level name.
func (r *ProgressRepo) List(ctx context.Context) ([]ProgressRow, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT level, attempts, best_moves, COALESCE(solved_digest,''), solved_at, updated_at
		 FROM level_progress ORDER BY level`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ProgressRow
	for rows.Next() {
		var row ProgressRow
		if err := rows.Scan(&row.Level, &row.Attempts, &row.BestMoves, &row.SolvedDigest, &row.SolvedAt, &row.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// Reset deletes the record for level.
func (r *ProgressRepo) Reset(ctx context.Context, level string) error {
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM level_progress WHERE level = $1`, level)
	return err
}
