package booking

import (
	"math"
	"sort"
)

// NoDay is returned by the day selection policies when no candidate day is valid
const NoDay = 0

// BestDayAmong returns the candidate day with the lowest evaluated cost for the group.
// Ties keep the first candidate encountered. Returns NoDay, false if days is empty.
func BestDayAmong(ledger *Ledger, group *Group, days []int) (int, bool) {
	bestDay := NoDay
	bestCost := math.Inf(1)

	for _, day := range days {
		cost := ledger.Evaluate(group, day)
		if bestDay == NoDay || cost < bestCost {
			bestCost = cost
			bestDay = day
		}
	}

	return bestDay, bestDay != NoDay
}

// BestWishDay returns the cheapest wishlist day that still fits the group under the maximum
func BestWishDay(ledger *Ledger, group *Group) (int, bool) {
	var candidates []int
	for _, day := range group.Wishlist {
		if !ledger.calendar.IsValidDay(day) {
			continue
		}
		if ledger.Fits(group, day) {
			candidates = append(candidates, day)
		}
	}

	return BestDayAmong(ledger, group, candidates)
}

// ForcedDay returns the cheapest day outside the wishlist that still fits the group under
// the maximum. It is meant for groups whose wishlist days are all full.
func ForcedDay(ledger *Ledger, group *Group) (int, bool) {
	var candidates []int
	for day := 1; day <= ledger.calendar.Days; day++ {
		// Skip wishlist days
		if group.Wishes(day) {
			continue
		}

		if ledger.Fits(group, day) {
			candidates = append(candidates, day)
		}
	}

	return BestDayAmong(ledger, group, candidates)
}

// OptimiseDay returns the best wishlist day for the group, falling back to the best
// forced day when no wishlist day fits
func OptimiseDay(ledger *Ledger, group *Group) (int, bool) {
	if day, ok := BestWishDay(ledger, group); ok {
		return day, true
	}
	return ForcedDay(ledger, group)
}

// DemandRanking sums the size of pending groups whose choice at rank falls on each day,
// then returns the days sorted by that demand. Days with equal demand are ordered by
// day number.
func DemandRanking(pending []*Group, days, rank int, ascending bool) []int {
	demand := make([]int, days+1)
	for _, group := range pending {
		if rank < 0 || rank >= len(group.Wishlist) {
			continue
		}
		day := group.Wishlist[rank]
		if day < 1 || day > days {
			continue
		}
		demand[day] += group.Size
	}

	ranking := make([]int, 0, days)
	for day := 1; day <= days; day++ {
		ranking = append(ranking, day)
	}

	sort.SliceStable(ranking, func(i, j int) bool {
		if ascending {
			return demand[ranking[i]] < demand[ranking[j]]
		}
		return demand[ranking[i]] > demand[ranking[j]]
	})

	return ranking
}

// FillDay assigns pending groups that wish day, cheapest first, until the day exceeds
// the minimum occupancy. Groups that would push the day over the maximum are skipped.
// Returns the number of groups assigned.
func FillDay(ledger *Ledger, day int) (int, error) {
	if ledger.DayOccupancy(day) > ledger.calendar.MinOccupancy {
		return 0, nil
	}

	scores := ledger.evaluatePending(day, func(group *Group) bool {
		return group.Wishes(day)
	})

	assigned := 0
	for _, score := range scores {
		if !ledger.Fits(score.Group, day) {
			continue
		}

		if err := ledger.Assign(score.Group, day); err != nil {
			return assigned, err
		}
		assigned++

		if ledger.DayOccupancy(day) > ledger.calendar.MinOccupancy {
			break
		}
	}

	return assigned, nil
}
