package services

import (
	"errors"
	"fmt"

	"github.com/jakechorley/workshop/pkg/core/booking"
)

// ScoreResult is the cost breakdown of a submission
type ScoreResult struct {
	PreferenceCost int
	AccountingCost float64
	TotalCost      float64

	// Complete indicates every family has a day and every day is within bounds
	Complete bool

	// Missing lists the family ids the submission leaves out, in input order
	Missing []int

	// ChoiceCounts counts families by the wishlist rank they got, OffWishlist for forced days
	ChoiceCounts map[int]int

	ValidationErrors []booking.DayValidationError
}

// ScoreSubmission replays a submission against the families and scores it.
// Families missing from the submission are costed as off-wishlist.
func ScoreSubmission(families []*booking.Group, assignments []booking.Assignment, calendar booking.Calendar) (*ScoreResult, error) {
	groups := booking.CloneGroups(families)
	byID := make(map[int]*booking.Group, len(groups))
	for _, group := range groups {
		byID[group.ID] = group
	}

	ledger := booking.NewLedger(groups, calendar)
	for _, a := range assignments {
		group, ok := byID[a.FamilyID]
		if !ok {
			return nil, fmt.Errorf("submission assigns unknown family %d", a.FamilyID)
		}

		if err := ledger.Assign(group, a.AssignedDay); err != nil {
			var notFound *booking.NotFoundError
			if errors.As(err, &notFound) {
				return nil, fmt.Errorf("family %d appears more than once in the submission", a.FamilyID)
			}
			return nil, fmt.Errorf("failed to replay family %d: %w", a.FamilyID, err)
		}
	}

	result := &ScoreResult{
		PreferenceCost:   ledger.PreferenceCost(),
		AccountingCost:   ledger.AccountingCost(),
		Complete:         ledger.CheckComplete(),
		ChoiceCounts:     make(map[int]int),
		ValidationErrors: ledger.Validate(),
	}

	for _, group := range ledger.Pending() {
		result.Missing = append(result.Missing, group.ID)
		result.PreferenceCost += group.PreferenceCost()
	}
	result.TotalCost = result.AccountingCost + float64(result.PreferenceCost)

	for _, group := range ledger.Settled() {
		placement, _ := ledger.Placement(group)
		result.ChoiceCounts[placement.Rank]++
	}

	return result, nil
}
