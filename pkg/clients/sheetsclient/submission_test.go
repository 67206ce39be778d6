package sheetsclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmissionValues_Layout(t *testing.T) {
	submission := &PublishedSubmission{
		RunID:     "run-1",
		Strategy:  "greedy",
		TotalCost: 1234.5,
		Rows: []PublishedAssignmentRow{
			{FamilyID: 4, People: 3, Day: 1, Date: "Mon Sep 16 2019", Rank: 0},
			{FamilyID: 9, People: 2, Day: 2, Date: "Tue Sep 17 2019", Rank: -1},
			{FamilyID: 1, People: 5, Day: 1, Date: "Mon Sep 16 2019", Rank: 2},
		},
		Days: []PublishedDayRow{
			{Day: 1, Date: "Mon Sep 16 2019", Occupancy: 8},
			{Day: 2, Date: "Tue Sep 17 2019", Occupancy: 2},
		},
	}

	values := submissionValues(submission)

	require.Len(t, values, 6)
	assert.Equal(t, []interface{}{"Run run-1", "greedy", "Total cost 1234.50"}, values[0])
	assert.Empty(t, values[1])
	assert.Equal(t, "Family", values[2][0])
	assert.Equal(t, []interface{}{4, 3, 1, "Mon Sep 16 2019", "choice 0", "", 1, "Mon Sep 16 2019", 8}, values[3])
	assert.Equal(t, "forced", values[4][4])

	// Rows past the day summary have no summary columns
	assert.Equal(t, []interface{}{1, 5, 1, "Mon Sep 16 2019", "choice 2"}, values[5])
}

func TestSubmissionValues_MoreDaysThanFamilies(t *testing.T) {
	submission := &PublishedSubmission{
		RunID: "run-2",
		Rows:  []PublishedAssignmentRow{{FamilyID: 1, People: 2, Day: 1, Rank: 0}},
		Days: []PublishedDayRow{
			{Day: 1, Occupancy: 2},
			{Day: 2, Occupancy: 0},
		},
	}

	values := submissionValues(submission)

	require.Len(t, values, 5)
	assert.Equal(t, []interface{}{"", "", "", "", "", "", 2, "", 0}, values[4])
}
