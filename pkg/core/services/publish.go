package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/workshop/pkg/calendar"
	"github.com/jakechorley/workshop/pkg/clients/sheetsclient"
	"github.com/jakechorley/workshop/pkg/core/booking"
	"github.com/jakechorley/workshop/pkg/db"
)

// PublishStore reads a stored run back
type PublishStore interface {
	GetRun(ctx context.Context, runID string) (*db.Run, error)
	GetAssignments(ctx context.Context, runID string) ([]db.Assignment, error)
}

// Publisher writes a submission to a spreadsheet tab
type Publisher interface {
	PublishSubmission(ctx context.Context, spreadsheetID, tab string, submission *sheetsclient.PublishedSubmission) error
}

// PublishRun publishes a stored run with a per-day occupancy summary.
// Dates are left blank when dates is nil.
func PublishRun(
	ctx context.Context,
	store PublishStore,
	publisher Publisher,
	logger *zap.Logger,
	cal booking.Calendar,
	dates *calendar.VisitDates,
	runID string,
	spreadsheetID string,
	tab string,
) (*sheetsclient.PublishedSubmission, error) {
	run, err := store.GetRun(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch run: %w", err)
	}

	assignments, err := store.GetAssignments(ctx, run.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch assignments: %w", err)
	}

	logger.Debug("Publishing run",
		zap.String("run_id", run.ID),
		zap.String("strategy", run.Strategy),
		zap.Int("assignments", len(assignments)))

	submission, err := buildPublishedSubmission(run, assignments, cal, dates)
	if err != nil {
		return nil, err
	}

	if err := publisher.PublishSubmission(ctx, spreadsheetID, tab, submission); err != nil {
		return nil, fmt.Errorf("failed to publish run: %w", err)
	}

	logger.Info("Run published",
		zap.String("run_id", run.ID),
		zap.String("spreadsheet_id", spreadsheetID),
		zap.String("tab", tab))

	return submission, nil
}

func buildPublishedSubmission(
	run *db.Run,
	assignments []db.Assignment,
	cal booking.Calendar,
	dates *calendar.VisitDates,
) (*sheetsclient.PublishedSubmission, error) {
	occupancy := booking.NewOccupancy(cal.Days)
	rows := make([]sheetsclient.PublishedAssignmentRow, 0, len(assignments))

	for _, a := range assignments {
		if !cal.IsValidDay(a.Day) {
			return nil, fmt.Errorf("run %s assigns family %d to day %d outside 1..%d",
				run.ID, a.FamilyID, a.Day, cal.Days)
		}
		occupancy[a.Day] += a.People

		rows = append(rows, sheetsclient.PublishedAssignmentRow{
			FamilyID: a.FamilyID,
			People:   a.People,
			Day:      a.Day,
			Date:     dates.Label(a.Day),
			Rank:     a.Rank,
		})
	}

	days := make([]sheetsclient.PublishedDayRow, 0, cal.Days)
	for day := 1; day <= cal.Days; day++ {
		days = append(days, sheetsclient.PublishedDayRow{
			Day:       day,
			Date:      dates.Label(day),
			Occupancy: occupancy[day],
		})
	}

	return &sheetsclient.PublishedSubmission{
		RunID:     run.ID,
		Strategy:  run.Strategy,
		TotalCost: run.TotalCost,
		Rows:      rows,
		Days:      days,
	}, nil
}
