package booking

import "math"

// OffWishlist is the rank used for days that are not in a group's wishlist
const OffWishlist = -1

// accountingBaseline is the occupancy around which the accounting penalty pivots.
// It is part of the cost formula and does not follow the configured minimum.
const accountingBaseline = 125

// rankCost is the preference cost for a rank: base + perPerson*size
type rankCost struct {
	base      int
	perPerson int
}

// preferenceCosts is indexed by wishlist rank; the last entry covers every rank
// past the wishlist as well as off-wishlist days
var preferenceCosts = [...]rankCost{
	{base: 0, perPerson: 0},
	{base: 50, perPerson: 0},
	{base: 50, perPerson: 9},
	{base: 100, perPerson: 9},
	{base: 200, perPerson: 9},
	{base: 200, perPerson: 18},
	{base: 300, perPerson: 18},
	{base: 300, perPerson: 36},
	{base: 400, perPerson: 36},
	{base: 500, perPerson: 36 + 199},
	{base: 500, perPerson: 36 + 398},
}

// offWishlistBucket is the index of the off-wishlist entry in preferenceCosts
const offWishlistBucket = len(preferenceCosts) - 1

// PreferenceCost computes the cost of giving a group of size people the day at rank
func PreferenceCost(rank, size int) int {
	bucket := rank
	if rank < 0 || rank > offWishlistBucket {
		bucket = offWishlistBucket
	}
	cost := preferenceCosts[bucket]
	return cost.base + cost.perPerson*size
}

// AccountingCost computes the accounting penalty for an occupancy vector.
// The day after the last day mirrors the last day.
func AccountingCost(occ Occupancy) float64 {
	days := occ.Days()
	total := 0.0
	for day := 1; day <= days; day++ {
		next := occ[days]
		if day < days {
			next = occ[day+1]
		}
		total += dayAccountingCost(occ[day], next)
	}
	return total
}

func dayAccountingCost(count, next int) float64 {
	exponent := 0.5 + math.Abs(float64(count-next))/50
	return (float64(count-accountingBaseline) / 400) * math.Pow(float64(count), exponent)
}
