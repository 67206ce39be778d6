package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jakechorley/workshop/pkg/core/booking"
	"github.com/jakechorley/workshop/pkg/db"
	"github.com/jakechorley/workshop/pkg/familydata"
	"github.com/jakechorley/workshop/pkg/metrics"
)

// ScheduleStore persists completed runs
type ScheduleStore interface {
	InsertRun(ctx context.Context, run *db.Run, assignments []db.Assignment) error
}

// ScheduleResult represents a stored, complete scheduling run
type ScheduleResult struct {
	Run     *db.Run
	Outcome *booking.Outcome

	// Submission lists every family's day in assignment order
	Submission []booking.Assignment
}

// Schedule runs the named strategy over the families and stores the run.
// The families are copied first so the caller's groups stay unassigned.
// An incomplete assignment fails with booking.IncompleteAssignmentError and
// nothing is stored.
func Schedule(
	ctx context.Context,
	store ScheduleStore,
	recorder metrics.Recorder,
	logger *zap.Logger,
	families []*booking.Group,
	strategyName string,
	calendar booking.Calendar,
) (*ScheduleResult, error) {
	strategy, err := booking.StrategyByName(strategyName)
	if err != nil {
		return nil, err
	}
	if recorder == nil {
		recorder = metrics.NewNop()
	}

	logger.Info("Scheduling families",
		zap.String("strategy", strategy.Name()),
		zap.Int("families", len(families)),
		zap.Int("days", calendar.Days))

	started := time.Now()
	outcome, err := booking.Run(strategy, booking.CloneGroups(families), calendar, logger)
	if err != nil {
		return nil, err
	}
	duration := time.Since(started)

	ledger := outcome.Ledger
	metrics.RecordLedger(recorder, strategy.Name(), ledger)
	recorder.RecordRun(metrics.RunSummary{
		Strategy:       strategy.Name(),
		Complete:       outcome.Complete,
		Unassigned:     len(outcome.Unassigned),
		PreferenceCost: ledger.PreferenceCost(),
		AccountingCost: ledger.AccountingCost(),
		Duration:       duration,
	})

	for _, violation := range outcome.ValidationErrors {
		logger.Debug("Day outside occupancy bounds",
			zap.Int("day", violation.Day),
			zap.Int("occupancy", violation.Occupancy),
			zap.String("description", violation.Description))
	}

	submission, err := ledger.Submission()
	if err != nil {
		logger.Warn("Strategy left the assignment incomplete",
			zap.String("strategy", strategy.Name()),
			zap.Int("unassigned", len(outcome.Unassigned)),
			zap.Int("violated_days", len(outcome.ValidationErrors)))
		return nil, fmt.Errorf("failed to build submission for %s: %w", strategy.Name(), err)
	}

	run := &db.Run{
		ID:               uuid.New().String(),
		Strategy:         strategy.Name(),
		InputFingerprint: familydata.Fingerprint(families),
		GroupCount:       len(families),
		PreferenceCost:   ledger.PreferenceCost(),
		AccountingCost:   ledger.AccountingCost(),
		TotalCost:        ledger.TotalCost(),
		CreatedAt:        time.Now().UTC(),
	}

	if err := store.InsertRun(ctx, run, runAssignments(run.ID, ledger)); err != nil {
		return nil, fmt.Errorf("failed to store run: %w", err)
	}

	logger.Info("Schedule complete",
		zap.String("run_id", run.ID),
		zap.String("strategy", run.Strategy),
		zap.Float64("total_cost", run.TotalCost),
		zap.Duration("duration", duration))

	return &ScheduleResult{
		Run:        run,
		Outcome:    outcome,
		Submission: submission,
	}, nil
}

// runAssignments converts the ledger's settled groups into stored assignments
func runAssignments(runID string, ledger *booking.Ledger) []db.Assignment {
	settled := ledger.Settled()
	assignments := make([]db.Assignment, 0, len(settled))
	for _, group := range settled {
		placement, _ := ledger.Placement(group)
		assignments = append(assignments, db.Assignment{
			RunID:    runID,
			FamilyID: group.ID,
			People:   group.Size,
			Day:      placement.Day,
			Rank:     placement.Rank,
		})
	}
	return assignments
}
