package sheetsclient

import (
	"context"
	"fmt"
)

// PublishedAssignmentRow represents a single family row in the published submission
type PublishedAssignmentRow struct {
	FamilyID int
	People   int
	Day      int
	Date     string // Format: "Mon Jan 02 2006", blank without a visit calendar

	// Rank is the wishlist position of Day, negative when the day was forced
	Rank int
}

// PublishedDayRow is the occupancy summary of one day
type PublishedDayRow struct {
	Day       int
	Date      string
	Occupancy int
}

// PublishedSubmission represents the complete published run
type PublishedSubmission struct {
	RunID     string
	Strategy  string
	TotalCost float64
	Rows      []PublishedAssignmentRow
	Days      []PublishedDayRow
}

// PublishSubmission writes the submission to the tab, creating the tab when it
// doesn't exist and replacing its contents when it does
func (c *Client) PublishSubmission(ctx context.Context, spreadsheetID, tab string, submission *PublishedSubmission) error {
	exists, err := c.HasSheet(ctx, spreadsheetID, tab)
	if err != nil {
		return err
	}

	if !exists {
		if _, err := c.CreateSheet(ctx, spreadsheetID, tab); err != nil {
			return fmt.Errorf("failed to create tab: %w", err)
		}
	}

	if err := c.ReplaceValues(ctx, spreadsheetID, tab, submissionValues(submission)); err != nil {
		return fmt.Errorf("failed to publish submission: %w", err)
	}

	return nil
}

// submissionValues lays out the run as a title row, a blank row, then the
// assignment table with the day summary alongside it
func submissionValues(submission *PublishedSubmission) [][]interface{} {
	title := []interface{}{
		fmt.Sprintf("Run %s", submission.RunID),
		submission.Strategy,
		fmt.Sprintf("Total cost %.2f", submission.TotalCost),
	}
	header := []interface{}{"Family", "People", "Day", "Date", "Choice", "", "Day", "Date", "Visitors"}

	rowCount := max(len(submission.Rows), len(submission.Days))
	values := make([][]interface{}, 0, rowCount+3)
	values = append(values, title, []interface{}{}, header)

	for i := 0; i < rowCount; i++ {
		row := make([]interface{}, 0, len(header))
		if i < len(submission.Rows) {
			r := submission.Rows[i]
			row = append(row, r.FamilyID, r.People, r.Day, r.Date, choiceLabel(r.Rank))
		} else {
			row = append(row, "", "", "", "", "")
		}

		if i < len(submission.Days) {
			d := submission.Days[i]
			row = append(row, "", d.Day, d.Date, d.Occupancy)
		}
		values = append(values, row)
	}

	return values
}

func choiceLabel(rank int) string {
	if rank < 0 {
		return "forced"
	}
	return fmt.Sprintf("choice %d", rank)
}
