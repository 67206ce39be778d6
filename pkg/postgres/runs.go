package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jakechorley/workshop/pkg/db"
)

const runColumns = `id, strategy, input_fingerprint, group_count, preference_cost, accounting_cost, total_cost, created_at`

func scanRun(row pgx.Row) (db.Run, error) {
	var r db.Run
	var id uuid.UUID
	err := row.Scan(&id, &r.Strategy, &r.InputFingerprint, &r.GroupCount,
		&r.PreferenceCost, &r.AccountingCost, &r.TotalCost, &r.CreatedAt)
	if err != nil {
		return r, err
	}
	r.ID = id.String()
	r.CreatedAt = r.CreatedAt.UTC()
	return r, nil
}

// GetRuns retrieves all runs, newest first
func (d *DB) GetRuns(ctx context.Context) ([]db.Run, error) {
	rows, err := d.pool.Query(ctx, `SELECT `+runColumns+` FROM run ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []db.Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}

	return runs, nil
}

// GetRun retrieves a single run by id
func (d *DB) GetRun(ctx context.Context, runID string) (*db.Run, error) {
	id, err := uuid.Parse(runID)
	if err != nil {
		return nil, fmt.Errorf("invalid run id %q: %w", runID, db.ErrRunNotFound)
	}

	r, err := scanRun(d.pool.QueryRow(ctx, `SELECT `+runColumns+` FROM run WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("run %s: %w", runID, db.ErrRunNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	return &r, nil
}

// InsertRun inserts the run row and copies its assignments in one transaction
func (d *DB) InsertRun(ctx context.Context, run *db.Run, assignments []db.Assignment) error {
	id, err := uuid.Parse(run.ID)
	if err != nil {
		return fmt.Errorf("invalid run id %q: %w", run.ID, err)
	}

	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO run (`+runColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, id, run.Strategy, run.InputFingerprint, run.GroupCount,
		run.PreferenceCost, run.AccountingCost, run.TotalCost, run.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"assignment"},
		[]string{"run_id", "position", "family_id", "people", "day", "wish_rank"},
		pgx.CopyFromSlice(len(assignments), func(i int) ([]any, error) {
			a := assignments[i]
			return []any{id, i, a.FamilyID, a.People, a.Day, a.Rank}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to insert assignments: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetAssignments retrieves a run's assignments in insertion order
func (d *DB) GetAssignments(ctx context.Context, runID string) ([]db.Assignment, error) {
	id, err := uuid.Parse(runID)
	if err != nil {
		return nil, fmt.Errorf("invalid run id %q: %w", runID, db.ErrRunNotFound)
	}

	rows, err := d.pool.Query(ctx, `
		SELECT family_id, people, day, wish_rank
		FROM assignment
		WHERE run_id = $1
		ORDER BY position
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query assignments: %w", err)
	}
	defer rows.Close()

	var assignments []db.Assignment
	for rows.Next() {
		a := db.Assignment{RunID: runID}
		if err := rows.Scan(&a.FamilyID, &a.People, &a.Day, &a.Rank); err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		assignments = append(assignments, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating assignments: %w", err)
	}

	return assignments, nil
}
