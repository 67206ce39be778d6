package services

import (
	"context"
	"fmt"

	"github.com/jakechorley/workshop/pkg/db"
)

// RunLister lists stored runs
type RunLister interface {
	GetRuns(ctx context.Context) ([]db.Run, error)
}

// ListRuns returns every stored run, newest first
func ListRuns(ctx context.Context, store RunLister) ([]db.Run, error) {
	runs, err := store.GetRuns(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch runs: %w", err)
	}
	return runs, nil
}
