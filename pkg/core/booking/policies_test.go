package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBestDayAmong_Empty(t *testing.T) {
	group := NewGroup(1, []int{5}, 4)
	ledger := NewLedger([]*Group{group}, tinyCalendar)

	day, ok := BestDayAmong(ledger, group, nil)

	assert.False(t, ok)
	assert.Equal(t, NoDay, day)
}

func TestBestDayAmong_PrefersCheapestDay(t *testing.T) {
	group := NewGroup(1, []int{5, 3}, 4)
	ledger := NewLedger([]*Group{group}, tinyCalendar)

	day, ok := BestDayAmong(ledger, group, []int{3, 7, 5})

	assert.True(t, ok)
	assert.Equal(t, 5, day)
}

func TestBestDayAmong_TiesKeepFirstCandidate(t *testing.T) {
	// Interior days of an empty calendar cost the same for an off-wishlist group
	group := NewGroup(1, []int{}, 4)
	ledger := NewLedger([]*Group{group}, tinyCalendar)
	require.Equal(t, ledger.Evaluate(group, 4), ledger.Evaluate(group, 6))

	day, _ := BestDayAmong(ledger, group, []int{6, 4})
	assert.Equal(t, 6, day)

	day, _ = BestDayAmong(ledger, group, []int{4, 6})
	assert.Equal(t, 4, day)
}

func TestBestWishDay_AllWishDaysFull(t *testing.T) {
	filler5 := NewGroup(1, []int{5}, 250)
	filler3 := NewGroup(2, []int{3}, 250)
	group := NewGroup(3, []int{5, 3}, 60)
	ledger := NewLedger([]*Group{filler5, filler3, group}, tinyCalendar)
	require.NoError(t, ledger.Assign(filler5, 5))
	require.NoError(t, ledger.Assign(filler3, 3))

	day, ok := BestWishDay(ledger, group)

	assert.False(t, ok, "Every wishlist day would exceed the max")
	assert.Equal(t, NoDay, day)

	forced, ok := ForcedDay(ledger, group)
	require.True(t, ok)
	assert.NotContains(t, group.Wishlist, forced)
}

func TestForcedDay_RelaxedMax(t *testing.T) {
	relaxed := Calendar{Days: 10, MinOccupancy: 125, MaxOccupancy: 1000}
	group := NewGroup(1, []int{1, 2, 3, 4, 5, 6, 7, 8, 9}, 400)
	ledger := NewLedger([]*Group{group}, relaxed)

	day, ok := ForcedDay(ledger, group)

	require.True(t, ok)
	assert.Equal(t, 10, day, "Day 10 is the only day outside the wishlist")
}

func TestForcedDay_NoRoomAnywhere(t *testing.T) {
	group := NewGroup(1, []int{1}, 301)
	ledger := NewLedger([]*Group{group}, tinyCalendar)

	_, ok := ForcedDay(ledger, group)

	assert.False(t, ok)
}

func TestBestWishDay_SkipsFullDays(t *testing.T) {
	filler := NewGroup(1, []int{5}, 295)
	group := NewGroup(2, []int{5, 3}, 10)
	ledger := NewLedger([]*Group{filler, group}, tinyCalendar)
	require.NoError(t, ledger.Assign(filler, 5))

	day, ok := BestWishDay(ledger, group)

	require.True(t, ok)
	assert.Equal(t, 3, day)
}

func TestOptimiseDay_FallsBackToForced(t *testing.T) {
	filler := NewGroup(1, []int{5}, 295)
	group := NewGroup(2, []int{5}, 10)
	ledger := NewLedger([]*Group{filler, group}, tinyCalendar)
	require.NoError(t, ledger.Assign(filler, 5))

	day, ok := OptimiseDay(ledger, group)

	require.True(t, ok)
	assert.NotEqual(t, 5, day)
}

func TestDemandRanking(t *testing.T) {
	pending := []*Group{
		NewGroup(1, []int{2, 1}, 5),
		NewGroup(2, []int{2, 3}, 4),
		NewGroup(3, []int{3, 2}, 6),
	}

	// First choice demand: day1=0, day2=9, day3=6, day4=0
	assert.Equal(t, []int{1, 4, 3, 2}, DemandRanking(pending, 4, 0, true))
	assert.Equal(t, []int{2, 3, 1, 4}, DemandRanking(pending, 4, 0, false))

	// Second choice demand: day1=5, day2=6, day3=4, day4=0
	assert.Equal(t, []int{4, 3, 1, 2}, DemandRanking(pending, 4, 1, true))
}

func TestDemandRanking_ShortWishlists(t *testing.T) {
	pending := []*Group{NewGroup(1, []int{2}, 5)}

	assert.Equal(t, []int{1, 2, 3}, DemandRanking(pending, 3, 4, true))
}

func TestFillDay_StopsAboveMinimum(t *testing.T) {
	cal := Calendar{Days: 3, MinOccupancy: 5, MaxOccupancy: 10}
	groups := []*Group{
		NewGroup(1, []int{1}, 3),
		NewGroup(2, []int{2, 1}, 3),
		NewGroup(3, []int{1}, 3),
		NewGroup(4, []int{3}, 3),
	}
	ledger := NewLedger(groups, cal)

	assigned, err := FillDay(ledger, 1)

	require.NoError(t, err)
	assert.Equal(t, 2, assigned)
	assert.Equal(t, 6, ledger.DayOccupancy(1))
	assert.False(t, ledger.IsPending(groups[0]))
	assert.False(t, ledger.IsPending(groups[2]), "First choice beats second choice")
	assert.True(t, ledger.IsPending(groups[1]))
	assert.True(t, ledger.IsPending(groups[3]), "Groups that do not wish the day are never used")
}

func TestFillDay_SkipsGroupsOverMax(t *testing.T) {
	cal := Calendar{Days: 2, MinOccupancy: 5, MaxOccupancy: 10}
	groups := []*Group{
		NewGroup(1, []int{1}, 11),
		NewGroup(2, []int{1}, 6),
	}
	ledger := NewLedger(groups, cal)

	assigned, err := FillDay(ledger, 1)

	require.NoError(t, err)
	assert.Equal(t, 1, assigned)
	assert.True(t, ledger.IsPending(groups[0]))
}
