package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/workshop/pkg/core/booking"
	"github.com/jakechorley/workshop/pkg/db"
	"github.com/jakechorley/workshop/pkg/metrics"
)

// mockRunStore implements the run store interfaces for testing
type mockRunStore struct {
	runs        []db.Run
	assignments map[string][]db.Assignment

	getRunsErr     error
	insertRunErr   error
	getAssignments error
}

func newMockRunStore() *mockRunStore {
	return &mockRunStore{assignments: make(map[string][]db.Assignment)}
}

func (m *mockRunStore) GetRuns(ctx context.Context) ([]db.Run, error) {
	if m.getRunsErr != nil {
		return nil, m.getRunsErr
	}
	return m.runs, nil
}

func (m *mockRunStore) GetRun(ctx context.Context, runID string) (*db.Run, error) {
	for i := range m.runs {
		if m.runs[i].ID == runID {
			return &m.runs[i], nil
		}
	}
	return nil, db.ErrRunNotFound
}

func (m *mockRunStore) InsertRun(ctx context.Context, run *db.Run, assignments []db.Assignment) error {
	if m.insertRunErr != nil {
		return m.insertRunErr
	}
	m.runs = append(m.runs, *run)
	m.assignments[run.ID] = assignments
	return nil
}

func (m *mockRunStore) GetAssignments(ctx context.Context, runID string) ([]db.Assignment, error) {
	if m.getAssignments != nil {
		return nil, m.getAssignments
	}
	return m.assignments[runID], nil
}

// mockRecorder keeps the run summaries it receives
type mockRecorder struct {
	placements int
	runs       []metrics.RunSummary
}

func (m *mockRecorder) RecordPlacement(string, booking.Placement, int) {
	m.placements++
}

func (m *mockRecorder) RecordRun(summary metrics.RunSummary) {
	m.runs = append(m.runs, summary)
}

// forcingCalendar and forcingFamilies make greedy force family 2 onto day 2
var forcingCalendar = booking.Calendar{Days: 2, MinOccupancy: 2, MaxOccupancy: 10}

func forcingFamilies() []*booking.Group {
	return []*booking.Group{
		booking.NewGroup(1, []int{1}, 6),
		booking.NewGroup(2, []int{1}, 6),
		booking.NewGroup(3, []int{2}, 3),
	}
}

// strandedFamilies leave baseline with family 2 unplaced
func strandedFamilies() []*booking.Group {
	return []*booking.Group{
		booking.NewGroup(0, []int{1}, 6),
		booking.NewGroup(1, []int{2}, 6),
		booking.NewGroup(2, []int{1}, 6),
	}
}

var strandedCalendar = booking.Calendar{Days: 2, MinOccupancy: 5, MaxOccupancy: 10}

func TestSchedule_StoresCompleteRun(t *testing.T) {
	store := newMockRunStore()
	recorder := &mockRecorder{}
	families := forcingFamilies()

	result, err := Schedule(context.Background(), store, recorder, zap.NewNop(), families, booking.StrategyGreedy, forcingCalendar)
	require.NoError(t, err)

	assert.Equal(t, []booking.Assignment{
		{FamilyID: 3, AssignedDay: 2},
		{FamilyID: 1, AssignedDay: 1},
		{FamilyID: 2, AssignedDay: 2},
	}, result.Submission)

	require.Len(t, store.runs, 1)
	run := store.runs[0]
	assert.Equal(t, result.Run.ID, run.ID)
	assert.Equal(t, booking.StrategyGreedy, run.Strategy)
	assert.Equal(t, 3, run.GroupCount)
	assert.Len(t, run.InputFingerprint, 16)
	assert.InDelta(t, result.Outcome.Ledger.TotalCost(), run.TotalCost, 1e-9)

	stored := store.assignments[run.ID]
	require.Len(t, stored, 3)
	assert.Equal(t, db.Assignment{RunID: run.ID, FamilyID: 3, People: 3, Day: 2, Rank: 0}, stored[0])
	assert.Equal(t, db.Assignment{RunID: run.ID, FamilyID: 2, People: 6, Day: 2, Rank: booking.OffWishlist}, stored[2])

	assert.Equal(t, 3, recorder.placements)
	require.Len(t, recorder.runs, 1)
	assert.True(t, recorder.runs[0].Complete)

	// The caller's families are untouched
	for _, family := range families {
		assert.False(t, family.IsAssigned())
	}
}

func TestSchedule_IncompleteRunIsNotStored(t *testing.T) {
	store := newMockRunStore()
	recorder := &mockRecorder{}

	_, err := Schedule(context.Background(), store, recorder, zap.NewNop(), strandedFamilies(), booking.StrategyBaseline, strandedCalendar)
	require.Error(t, err)

	var incomplete *booking.IncompleteAssignmentError
	require.True(t, errors.As(err, &incomplete))
	assert.Equal(t, 1, incomplete.Pending)
	assert.Empty(t, store.runs)

	// Metrics still describe the failed run
	require.Len(t, recorder.runs, 1)
	assert.False(t, recorder.runs[0].Complete)
	assert.Equal(t, 1, recorder.runs[0].Unassigned)
}

func TestSchedule_UnknownStrategy(t *testing.T) {
	_, err := Schedule(context.Background(), newMockRunStore(), nil, zap.NewNop(), forcingFamilies(), "annealing", forcingCalendar)

	assert.ErrorIs(t, err, booking.ErrUnknownStrategy)
}

func TestSchedule_StoreError(t *testing.T) {
	store := newMockRunStore()
	store.insertRunErr = errors.New("database unavailable")

	_, err := Schedule(context.Background(), store, nil, zap.NewNop(), forcingFamilies(), booking.StrategyGreedy, forcingCalendar)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to store run")
}

func TestScoreSubmission_MatchesSchedule(t *testing.T) {
	families := forcingFamilies()
	result, err := Schedule(context.Background(), newMockRunStore(), nil, zap.NewNop(), families, booking.StrategyGreedy, forcingCalendar)
	require.NoError(t, err)

	score, err := ScoreSubmission(families, result.Submission, forcingCalendar)
	require.NoError(t, err)

	assert.True(t, score.Complete)
	assert.Empty(t, score.Missing)
	assert.Empty(t, score.ValidationErrors)
	assert.InDelta(t, result.Run.TotalCost, score.TotalCost, 1e-9)
	assert.Equal(t, map[int]int{0: 2, booking.OffWishlist: 1}, score.ChoiceCounts)
}

func TestScoreSubmission_MissingFamiliesCostOffWishlist(t *testing.T) {
	families := forcingFamilies()

	score, err := ScoreSubmission(families, []booking.Assignment{{FamilyID: 1, AssignedDay: 1}}, forcingCalendar)
	require.NoError(t, err)

	assert.False(t, score.Complete)
	assert.Equal(t, []int{2, 3}, score.Missing)
	expected := booking.PreferenceCost(booking.OffWishlist, 6) + booking.PreferenceCost(booking.OffWishlist, 3)
	assert.Equal(t, expected, score.PreferenceCost)
	assert.InDelta(t, score.AccountingCost+float64(expected), score.TotalCost, 1e-9)
}

func TestScoreSubmission_UnknownFamily(t *testing.T) {
	_, err := ScoreSubmission(forcingFamilies(), []booking.Assignment{{FamilyID: 99, AssignedDay: 1}}, forcingCalendar)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown family 99")
}

func TestScoreSubmission_DuplicateFamily(t *testing.T) {
	assignments := []booking.Assignment{
		{FamilyID: 1, AssignedDay: 1},
		{FamilyID: 1, AssignedDay: 2},
	}

	_, err := ScoreSubmission(forcingFamilies(), assignments, forcingCalendar)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "appears more than once")
}

func TestScoreSubmission_DayOutOfRange(t *testing.T) {
	_, err := ScoreSubmission(forcingFamilies(), []booking.Assignment{{FamilyID: 1, AssignedDay: 3}}, forcingCalendar)

	assert.ErrorIs(t, err, booking.ErrDayOutOfRange)
}

func TestCompareStrategies(t *testing.T) {
	families := strandedFamilies()

	comparisons, err := CompareStrategies(families, strandedCalendar, zap.NewNop())
	require.NoError(t, err)

	require.Len(t, comparisons, len(booking.Strategies()))
	for i, name := range booking.StrategyNames() {
		assert.Equal(t, name, comparisons[i].Strategy)
	}

	baseline := comparisons[0]
	assert.False(t, baseline.Complete)
	assert.Equal(t, 1, baseline.Unassigned)

	// Round robin ignores the maximum so everyone gets a day
	roundRobin := comparisons[1]
	assert.Equal(t, 0, roundRobin.Unassigned)

	for _, family := range families {
		assert.False(t, family.IsAssigned())
	}
}

func TestListRuns(t *testing.T) {
	store := newMockRunStore()
	store.runs = []db.Run{{ID: "run-1"}, {ID: "run-2"}}

	runs, err := ListRuns(context.Background(), store)
	require.NoError(t, err)
	assert.Len(t, runs, 2)

	store.getRunsErr = errors.New("boom")
	_, err = ListRuns(context.Background(), store)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch runs")
}
