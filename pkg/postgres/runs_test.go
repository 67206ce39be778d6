package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/workshop/pkg/db"
)

// openTestDB connects to the database named by WORKSHOP_POSTGRES_DSN, skipping
// the test when it is unset
func openTestDB(t *testing.T) *DB {
	t.Helper()
	dsn := os.Getenv("WORKSHOP_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("WORKSHOP_POSTGRES_DSN not set")
	}

	d, err := Open(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	return d
}

func TestPendingMigrations(t *testing.T) {
	pending, err := pendingMigrations(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"001_init.sql"}, pending)

	pending, err = pendingMigrations([]string{"001_init.sql"})
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestInsertRun_RoundTrip(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()

	run := &db.Run{
		ID:               uuid.New().String(),
		Strategy:         "greedy",
		InputFingerprint: "00000000deadbeef",
		GroupCount:       3,
		PreferenceCost:   150,
		AccountingCost:   12.5,
		TotalCost:        162.5,
		CreatedAt:        time.Now().UTC().Truncate(time.Microsecond),
	}
	assignments := []db.Assignment{
		{FamilyID: 2, People: 4, Day: 5, Rank: 0},
		{FamilyID: 0, People: 2, Day: 1, Rank: 3},
		{FamilyID: 1, People: 7, Day: 9, Rank: -1},
	}

	require.NoError(t, d.InsertRun(ctx, run, assignments))
	t.Cleanup(func() {
		d.pool.Exec(context.Background(), `DELETE FROM run WHERE id = $1`, run.ID)
	})

	got, err := d.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, *run, *got)

	stored, err := d.GetAssignments(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, stored, 3)
	assert.Equal(t, 2, stored[0].FamilyID)
	assert.Equal(t, 1, stored[2].FamilyID)
	assert.Equal(t, -1, stored[2].Rank)
	assert.Equal(t, run.ID, stored[0].RunID)
}

func TestGetRun_NotFound(t *testing.T) {
	d := openTestDB(t)

	_, err := d.GetRun(context.Background(), uuid.New().String())
	assert.ErrorIs(t, err, db.ErrRunNotFound)

	_, err = d.GetRun(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, db.ErrRunNotFound)
}
