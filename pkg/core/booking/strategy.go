package booking

import (
	"fmt"
	"sort"

	"go.uber.org/zap"
)

// Strategy names
const (
	StrategyBaseline   = "baseline"
	StrategyRandomPick = "random_pick"
	StrategyGreedy     = "greedy"
)

// Strategy turns a ledger of pending groups into an assignment
type Strategy interface {
	// Name returns the identifier used in config and on the command line
	Name() string

	// Run assigns groups through the ledger. Groups it cannot place stay pending.
	Run(ledger *Ledger) error
}

// Strategies returns every registered strategy
func Strategies() []Strategy {
	return []Strategy{RankFill{}, RoundRobin{}, Greedy{}}
}

// StrategyNames returns the names of every registered strategy
func StrategyNames() []string {
	var names []string
	for _, strategy := range Strategies() {
		names = append(names, strategy.Name())
	}
	return names
}

// StrategyByName looks up a registered strategy
func StrategyByName(name string) (Strategy, error) {
	for _, strategy := range Strategies() {
		if strategy.Name() == name {
			return strategy, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
}

// Outcome represents the result of running a strategy
type Outcome struct {
	// Strategy is the name of the strategy that produced the outcome
	Strategy string

	// Ledger is the final assignment state
	Ledger *Ledger

	// Complete indicates every group is assigned and every day is within bounds
	Complete bool

	// Unassigned contains the groups the strategy could not place
	Unassigned []*Group

	// ValidationErrors contains the days outside the occupancy bounds
	ValidationErrors []DayValidationError
}

// Run builds a ledger for the groups and runs the strategy against it
func Run(strategy Strategy, groups []*Group, calendar Calendar, logger *zap.Logger) (*Outcome, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	ledger := NewLedger(groups, calendar, WithLogger(logger))

	logger.Debug("Running strategy",
		zap.String("strategy", strategy.Name()),
		zap.Int("groups", len(groups)),
		zap.Int("days", calendar.Days))

	if err := strategy.Run(ledger); err != nil {
		return nil, fmt.Errorf("failed to run strategy %s: %w", strategy.Name(), err)
	}

	outcome := &Outcome{
		Strategy:         strategy.Name(),
		Ledger:           ledger,
		Complete:         ledger.CheckComplete(),
		Unassigned:       ledger.Pending(),
		ValidationErrors: ledger.Validate(),
	}

	logger.Debug("Strategy finished",
		zap.String("strategy", strategy.Name()),
		zap.Bool("complete", outcome.Complete),
		zap.Int("unassigned", len(outcome.Unassigned)),
		zap.Int("violated_days", len(outcome.ValidationErrors)),
		zap.Float64("total_cost", ledger.TotalCost()))

	return outcome, nil
}

// RankFill fills the least wanted days up to the minimum with groups that wish them,
// then gives every remaining group its first wishlist day with room left.
// Groups with no such day are left pending.
type RankFill struct{}

func (RankFill) Name() string { return StrategyBaseline }

func (RankFill) Run(ledger *Ledger) error {
	cal := ledger.Calendar()
	groups := ledger.Groups()

	// Potential demand: everyone who lists the day anywhere in their wishlist
	potentials := make([]int, cal.Days+1)
	for _, group := range groups {
		for _, day := range group.Wishlist {
			if cal.IsValidDay(day) {
				potentials[day] += group.Size
			}
		}
	}

	days := make([]int, 0, cal.Days)
	for day := 1; day <= cal.Days; day++ {
		days = append(days, day)
	}
	sort.SliceStable(days, func(i, j int) bool {
		return potentials[days[i]] < potentials[days[j]]
	})

	// Fill each day to the minimum, least wanted days first
	for _, day := range days {
		for _, group := range groups {
			if !group.Wishes(day) {
				continue
			}
			if ledger.IsPending(group) {
				if err := ledger.Assign(group, day); err != nil {
					return err
				}
			}
			if ledger.DayOccupancy(day) > cal.MinOccupancy {
				break
			}
		}
	}

	// Remaining groups take their most wanted day that still has room
	for _, group := range ledger.Pending() {
		for _, day := range group.Wishlist {
			if !cal.IsValidDay(day) || !ledger.Fits(group, day) {
				continue
			}
			if err := ledger.Assign(group, day); err != nil {
				return err
			}
			break
		}
	}

	return nil
}

// RoundRobin ignores wishlists. It fills days in order until the last day exceeds the
// minimum, then spreads the remaining groups over every day in turn.
// It does not enforce the maximum.
type RoundRobin struct{}

func (RoundRobin) Name() string { return StrategyRandomPick }

func (RoundRobin) Run(ledger *Ledger) error {
	cal := ledger.Calendar()
	day := 1
	minSatisfied := false

	for _, group := range ledger.Pending() {
		if !minSatisfied {
			if err := ledger.Assign(group, day); err != nil {
				return err
			}
			if ledger.DayOccupancy(day) > cal.MinOccupancy {
				day++
			}
			// The flag follows the last day, whichever day is being filled
			if ledger.DayOccupancy(cal.Days) > cal.MinOccupancy {
				minSatisfied = true
			}
			continue
		}

		day = day % cal.Days
		if day == 0 {
			day = cal.Days
		}
		if err := ledger.Assign(group, day); err != nil {
			return err
		}
		day++
	}

	return nil
}

// Greedy fills days to the minimum in order of ascending first-choice demand, picking
// the cheapest wishing groups for each day, then places every remaining group on its
// cheapest wishlist day, or its cheapest forced day when no wishlist day has room.
type Greedy struct{}

func (Greedy) Name() string { return StrategyGreedy }

func (Greedy) Run(ledger *Ledger) error {
	cal := ledger.Calendar()

	for _, day := range DemandRanking(ledger.Pending(), cal.Days, 0, true) {
		if _, err := FillDay(ledger, day); err != nil {
			return err
		}
	}

	for _, group := range ledger.Pending() {
		day, ok := OptimiseDay(ledger, group)
		if !ok {
			continue
		}
		if err := ledger.Assign(group, day); err != nil {
			return err
		}
	}

	return nil
}
