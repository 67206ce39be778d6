package calendar

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"
)

// dateLayout is the display format for visit dates
const dateLayout = "Mon Jan 02 2006"

// VisitDates maps day numbers onto real dates generated from a recurrence rule.
// Day 1 is the first occurrence of the rule.
type VisitDates struct {
	dates []time.Time
}

// FromRRule expands the rule into the first days occurrences
func FromRRule(rule string, days int) (*VisitDates, error) {
	if days <= 0 {
		return nil, fmt.Errorf("days must be positive, got %d", days)
	}

	r, err := rrule.StrToRRule(rule)
	if err != nil {
		return nil, fmt.Errorf("invalid rrule: %w", err)
	}

	dates := make([]time.Time, 0, days)
	next := r.Iterator()
	for len(dates) < days {
		date, ok := next()
		if !ok {
			return nil, fmt.Errorf("rrule yields %d dates but the calendar has %d days", len(dates), days)
		}
		dates = append(dates, date)
	}

	return &VisitDates{dates: dates}, nil
}

// Days returns the number of days covered
func (v *VisitDates) Days() int {
	if v == nil {
		return 0
	}
	return len(v.dates)
}

// Date returns the date of a day number
func (v *VisitDates) Date(day int) (time.Time, bool) {
	if v == nil || day < 1 || day > len(v.dates) {
		return time.Time{}, false
	}
	return v.dates[day-1], true
}

// Label returns the display date of a day number, or an empty string when the
// day has no date
func (v *VisitDates) Label(day int) string {
	date, ok := v.Date(day)
	if !ok {
		return ""
	}
	return date.Format(dateLayout)
}
