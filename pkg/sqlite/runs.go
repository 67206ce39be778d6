package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jakechorley/workshop/pkg/db"
)

const runColumns = `id, strategy, input_fingerprint, group_count, preference_cost, accounting_cost, total_cost, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (db.Run, error) {
	var r db.Run
	var createdAt int64
	err := row.Scan(&r.ID, &r.Strategy, &r.InputFingerprint, &r.GroupCount,
		&r.PreferenceCost, &r.AccountingCost, &r.TotalCost, &createdAt)
	if err != nil {
		return r, err
	}
	r.CreatedAt = fromMillis(createdAt)
	return r, nil
}

// GetRuns retrieves all runs, newest first
func (d *DB) GetRuns(ctx context.Context) ([]db.Run, error) {
	rows, err := d.sqlDB.QueryContext(ctx, `SELECT `+runColumns+` FROM run ORDER BY created_at DESC, id`)
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
	r, err := scanRun(d.sqlDB.QueryRowContext(ctx, `SELECT `+runColumns+` FROM run WHERE id = ?`, runID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %s: %w", runID, db.ErrRunNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	return &r, nil
}

// InsertRun inserts the run row and its assignments in one transaction
func (d *DB) InsertRun(ctx context.Context, run *db.Run, assignments []db.Assignment) error {
	return d.inTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO run (`+runColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, run.ID, run.Strategy, run.InputFingerprint, run.GroupCount,
			run.PreferenceCost, run.AccountingCost, run.TotalCost, toMillis(run.CreatedAt))
		if err != nil {
			return fmt.Errorf("failed to insert run: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO assignment (run_id, position, family_id, people, day, wish_rank)
			VALUES (?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare assignment insert: %w", err)
		}
		defer stmt.Close()

		for i, a := range assignments {
			if _, err := stmt.ExecContext(ctx, run.ID, i, a.FamilyID, a.People, a.Day, a.Rank); err != nil {
				return fmt.Errorf("failed to insert assignment for family %d: %w", a.FamilyID, err)
			}
		}

		return nil
	})
}

// GetAssignments retrieves a run's assignments in insertion order
func (d *DB) GetAssignments(ctx context.Context, runID string) ([]db.Assignment, error) {
	rows, err := d.sqlDB.QueryContext(ctx, `
		SELECT family_id, people, day, wish_rank
		FROM assignment
		WHERE run_id = ?
		ORDER BY position
	`, runID)
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
