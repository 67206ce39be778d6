package booking

import "fmt"

// DayValidationError represents a bound violation on a specific day
type DayValidationError struct {
	Day         int
	Occupancy   int
	Description string
}

// Validate checks the ledger's calendar against the occupancy bounds.
// Returns one error per violating day; an empty slice means every day is within bounds.
func (l *Ledger) Validate() []DayValidationError {
	errors := []DayValidationError{}

	for day := 1; day <= l.calendar.Days; day++ {
		count := l.occupancy[day]

		if count < l.calendar.MinOccupancy {
			errors = append(errors, DayValidationError{
				Day:       day,
				Occupancy: count,
				Description: fmt.Sprintf("day %d has %d visitors but min is %d",
					day, count, l.calendar.MinOccupancy),
			})
		}

		if count > l.calendar.MaxOccupancy {
			errors = append(errors, DayValidationError{
				Day:       day,
				Occupancy: count,
				Description: fmt.Sprintf("day %d has %d visitors but max is %d",
					day, count, l.calendar.MaxOccupancy),
			})
		}
	}

	return errors
}
