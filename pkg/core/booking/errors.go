package booking

import (
	"errors"
	"fmt"
)

var (
	// ErrAlreadyAssigned is returned when a group is assigned a second, different day
	ErrAlreadyAssigned = errors.New("group already assigned to a different day")

	// ErrDayOutOfRange is returned when a day falls outside the calendar
	ErrDayOutOfRange = errors.New("day out of range")

	// ErrUnknownStrategy is returned when a strategy name is not registered
	ErrUnknownStrategy = errors.New("unknown strategy")
)

// NotFoundError is returned when an assignment targets a group that is not pending
type NotFoundError struct {
	GroupID int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("group %d is not pending", e.GroupID)
}

// IncompleteAssignmentError is returned when a submission is requested before every
// group is assigned within the calendar bounds
type IncompleteAssignmentError struct {
	// Pending is the number of groups without a day
	Pending int

	// ViolatedDays lists days whose occupancy is outside the bounds
	ViolatedDays []int
}

func (e *IncompleteAssignmentError) Error() string {
	return fmt.Sprintf("incomplete assignment: %d groups pending, %d days outside bounds",
		e.Pending, len(e.ViolatedDays))
}
