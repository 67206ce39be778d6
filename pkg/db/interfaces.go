package db

import (
	"context"
	"errors"
)

// ErrRunNotFound is returned when a run id has no stored record
var ErrRunNotFound = errors.New("run not found")

// RunStore defines the interface for scheduling run database operations
type RunStore interface {
	GetRuns(ctx context.Context) ([]Run, error)
	GetRun(ctx context.Context, runID string) (*Run, error)

	// InsertRun stores the run and its assignments atomically.
	// Assignments are read back in the order they were inserted.
	InsertRun(ctx context.Context, run *Run, assignments []Assignment) error
	GetAssignments(ctx context.Context, runID string) ([]Assignment, error)
}

// Database defines the interface for all database operations.
// Both sqlite.DB and postgres.DB implement this interface.
type Database interface {
	RunStore
	Close() error
}
