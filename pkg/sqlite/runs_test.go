package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/workshop/pkg/db"
)

func openTestDB(t *testing.T) (*DB, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "workshop.db")
	d, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, d.Close())
	})
	return d, path
}

func TestOpen_RequiresPath(t *testing.T) {
	_, err := Open(" ")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "storage path is required")
}

func TestOpen_MigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "workshop.db")
	d, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, d.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	var count int
	err = reopened.sqlDB.QueryRow(`SELECT COUNT(*) FROM schema_migrations`).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestInsertRun_RoundTrip(t *testing.T) {
	d, _ := openTestDB(t)
	ctx := context.Background()

	run := &db.Run{
		ID:               "3f1b0c2e-8f7a-4c55-9d52-2f0c1e6b7a10",
		Strategy:         "baseline",
		InputFingerprint: "00000000deadbeef",
		GroupCount:       3,
		PreferenceCost:   150,
		AccountingCost:   12.5,
		TotalCost:        162.5,
		CreatedAt:        time.Date(2019, 12, 1, 10, 30, 0, 0, time.UTC),
	}
	assignments := []db.Assignment{
		{FamilyID: 2, People: 4, Day: 5, Rank: 0},
		{FamilyID: 0, People: 2, Day: 1, Rank: 3},
		{FamilyID: 1, People: 7, Day: 9, Rank: -1},
	}

	require.NoError(t, d.InsertRun(ctx, run, assignments))

	got, err := d.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, *run, *got)

	stored, err := d.GetAssignments(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, stored, 3)
	for i, a := range assignments {
		assert.Equal(t, run.ID, stored[i].RunID)
		assert.Equal(t, a.FamilyID, stored[i].FamilyID)
		assert.Equal(t, a.People, stored[i].People)
		assert.Equal(t, a.Day, stored[i].Day)
		assert.Equal(t, a.Rank, stored[i].Rank)
	}
}

func TestInsertRun_RollsBackOnFailure(t *testing.T) {
	d, _ := openTestDB(t)
	ctx := context.Background()

	run := &db.Run{ID: "run-1", Strategy: "baseline", CreatedAt: time.Now()}
	// Duplicate family ids violate the primary key
	assignments := []db.Assignment{
		{FamilyID: 1, Day: 1},
		{FamilyID: 1, Day: 2},
	}

	err := d.InsertRun(ctx, run, assignments)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to insert assignment for family 1")

	_, err = d.GetRun(ctx, "run-1")
	assert.ErrorIs(t, err, db.ErrRunNotFound)
}

func TestGetRuns_NewestFirst(t *testing.T) {
	d, _ := openTestDB(t)
	ctx := context.Background()

	older := &db.Run{ID: "run-old", Strategy: "baseline", CreatedAt: time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)}
	newer := &db.Run{ID: "run-new", Strategy: "greedy", CreatedAt: time.Date(2019, 6, 1, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, d.InsertRun(ctx, older, nil))
	require.NoError(t, d.InsertRun(ctx, newer, nil))

	runs, err := d.GetRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-new", runs[0].ID)
	assert.Equal(t, "run-old", runs[1].ID)
}

func TestGetRuns_Empty(t *testing.T) {
	d, _ := openTestDB(t)

	runs, err := d.GetRuns(context.Background())
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestGetAssignments_UnknownRun(t *testing.T) {
	d, _ := openTestDB(t)

	assignments, err := d.GetAssignments(context.Background(), "missing")
	require.NoError(t, err)
	assert.Empty(t, assignments)
}
