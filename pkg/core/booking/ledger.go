package booking

import (
	"fmt"
	"sort"

	"go.uber.org/zap"
)

// Ledger owns the evolving assignment state: which groups are pending, which are
// settled (in assignment order), and how many people are booked per day.
// Every mutation goes through Assign so the three never drift apart.
type Ledger struct {
	calendar Calendar
	logger   *zap.Logger

	// groups holds every group in input order
	groups []*Group

	// pending tracks unassigned groups by identity
	pending map[*Group]bool

	// settled holds assigned groups in assignment order
	settled []*Group

	placements map[*Group]Placement
	occupancy  Occupancy
}

// Score pairs a pending group with its evaluated cost for a candidate day
type Score struct {
	Group *Group
	Cost  float64
}

// LedgerOption configures a Ledger
type LedgerOption func(*Ledger)

// WithLogger logs every assignment at debug level
func WithLogger(logger *zap.Logger) LedgerOption {
	return func(l *Ledger) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLedger creates a ledger with every group pending and an empty calendar
func NewLedger(groups []*Group, calendar Calendar, opts ...LedgerOption) *Ledger {
	l := &Ledger{
		calendar:   calendar,
		logger:     zap.NewNop(),
		groups:     groups,
		pending:    make(map[*Group]bool, len(groups)),
		settled:    make([]*Group, 0, len(groups)),
		placements: make(map[*Group]Placement, len(groups)),
		occupancy:  NewOccupancy(calendar.Days),
	}
	for _, opt := range opts {
		opt(l)
	}

	for _, group := range groups {
		l.pending[group] = true
	}

	return l
}

// Calendar returns the calendar the ledger books against
func (l *Ledger) Calendar() Calendar {
	return l.calendar
}

// Groups returns every group in input order
func (l *Ledger) Groups() []*Group {
	return l.groups
}

// IsPending returns true if the group has not been assigned yet
func (l *Ledger) IsPending(group *Group) bool {
	return l.pending[group]
}

// PendingCount returns the number of unassigned groups
func (l *Ledger) PendingCount() int {
	return len(l.pending)
}

// Pending returns the unassigned groups in input order
func (l *Ledger) Pending() []*Group {
	pending := make([]*Group, 0, len(l.pending))
	for _, group := range l.groups {
		if l.pending[group] {
			pending = append(pending, group)
		}
	}
	return pending
}

// Settled returns the assigned groups in assignment order
func (l *Ledger) Settled() []*Group {
	return l.settled
}

// Occupancy returns a copy of the people booked per day
func (l *Ledger) Occupancy() Occupancy {
	return l.occupancy.Clone()
}

// DayOccupancy returns the people booked on day
func (l *Ledger) DayOccupancy(day int) int {
	return l.occupancy[day]
}

// Fits returns true if adding the group to day keeps it within the maximum
func (l *Ledger) Fits(group *Group, day int) bool {
	return l.occupancy[day]+group.Size <= l.calendar.MaxOccupancy
}

// Placement returns how a settled group was placed
func (l *Ledger) Placement(group *Group) (Placement, bool) {
	placement, ok := l.placements[group]
	return placement, ok
}

// Assign books the group on day, moving it from pending to settled
func (l *Ledger) Assign(group *Group, day int) error {
	if !l.pending[group] {
		return &NotFoundError{GroupID: group.ID}
	}
	if !l.calendar.IsValidDay(day) {
		return fmt.Errorf("failed to assign group %d to day %d: %w", group.ID, day, ErrDayOutOfRange)
	}

	if err := group.Assign(day); err != nil {
		return fmt.Errorf("failed to assign group %d to day %d: %w", group.ID, day, err)
	}

	delete(l.pending, group)
	l.settled = append(l.settled, group)
	l.placements[group] = placementFor(group, day)
	l.occupancy[day] += group.Size

	l.logger.Debug("Assigned group",
		zap.Int("group_id", group.ID),
		zap.Int("day", day),
		zap.Int("size", group.Size),
		zap.Stringer("placement", l.placements[group].Kind),
		zap.Int("occupancy", l.occupancy[day]))

	return nil
}

// Evaluate returns the accounting cost of the calendar with the group added to day,
// plus the group's preference cost for that day. The ledger is not modified.
func (l *Ledger) Evaluate(group *Group, day int) float64 {
	updated := l.occupancy.Clone()
	updated[day] += group.Size
	return AccountingCost(updated) + float64(group.EvaluateDay(day))
}

// EvaluateAllPending scores every pending group against day, cheapest first.
// Groups with equal scores keep their input order.
func (l *Ledger) EvaluateAllPending(day int) []Score {
	return l.evaluatePending(day, func(*Group) bool { return true })
}

func (l *Ledger) evaluatePending(day int, include func(*Group) bool) []Score {
	scores := make([]Score, 0, len(l.pending))
	for _, group := range l.Pending() {
		if !include(group) {
			continue
		}
		scores = append(scores, Score{Group: group, Cost: l.Evaluate(group, day)})
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Cost < scores[j].Cost
	})

	return scores
}

// CheckBounds returns true if every day is within the occupancy bounds
func (l *Ledger) CheckBounds() bool {
	for day := 1; day <= l.calendar.Days; day++ {
		if !l.dayWithinBounds(day) {
			return false
		}
	}
	return true
}

// CheckComplete returns true if the bounds hold and no group is pending
func (l *Ledger) CheckComplete() bool {
	return l.CheckBounds() && len(l.pending) == 0
}

func (l *Ledger) dayWithinBounds(day int) bool {
	count := l.occupancy[day]
	return count >= l.calendar.MinOccupancy && count <= l.calendar.MaxOccupancy
}

// AccountingCost returns the accounting penalty of the current calendar
func (l *Ledger) AccountingCost() float64 {
	return AccountingCost(l.occupancy)
}

// PreferenceCost returns the summed preference cost of the settled groups
func (l *Ledger) PreferenceCost() int {
	total := 0
	for _, group := range l.settled {
		total += group.PreferenceCost()
	}
	return total
}

// TotalCost returns the accounting cost plus the preference cost of the settled groups
func (l *Ledger) TotalCost() float64 {
	return l.AccountingCost() + float64(l.PreferenceCost())
}

// Submission returns one record per group, in assignment order.
// It fails with IncompleteAssignmentError unless the ledger is complete.
func (l *Ledger) Submission() ([]Assignment, error) {
	if !l.CheckComplete() {
		return nil, &IncompleteAssignmentError{
			Pending:      len(l.pending),
			ViolatedDays: l.violatedDays(),
		}
	}

	assignments := make([]Assignment, 0, len(l.settled))
	for _, group := range l.settled {
		assignments = append(assignments, Assignment{
			FamilyID:    group.ID,
			AssignedDay: group.assignedDay,
		})
	}
	return assignments, nil
}

func (l *Ledger) violatedDays() []int {
	var days []int
	for day := 1; day <= l.calendar.Days; day++ {
		if !l.dayWithinBounds(day) {
			days = append(days, day)
		}
	}
	return days
}
