package services

import (
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/workshop/pkg/core/booking"
)

// StrategyComparison summarises one strategy's run over the same families
type StrategyComparison struct {
	Strategy       string
	Complete       bool
	Unassigned     int
	ViolatedDays   int
	PreferenceCost int
	AccountingCost float64
	TotalCost      float64
	Duration       time.Duration
}

// CompareStrategies runs every registered strategy on its own copy of the
// families, returning the results in registration order. Nothing is stored.
func CompareStrategies(families []*booking.Group, calendar booking.Calendar, logger *zap.Logger) ([]StrategyComparison, error) {
	strategies := booking.Strategies()
	comparisons := make([]StrategyComparison, 0, len(strategies))

	for _, strategy := range strategies {
		started := time.Now()
		outcome, err := booking.Run(strategy, booking.CloneGroups(families), calendar, logger)
		if err != nil {
			return nil, err
		}

		ledger := outcome.Ledger
		comparison := StrategyComparison{
			Strategy:       strategy.Name(),
			Complete:       outcome.Complete,
			Unassigned:     len(outcome.Unassigned),
			ViolatedDays:   len(outcome.ValidationErrors),
			PreferenceCost: ledger.PreferenceCost(),
			AccountingCost: ledger.AccountingCost(),
			TotalCost:      ledger.TotalCost(),
			Duration:       time.Since(started),
		}

		logger.Debug("Strategy compared",
			zap.String("strategy", comparison.Strategy),
			zap.Bool("complete", comparison.Complete),
			zap.Float64("total_cost", comparison.TotalCost))

		comparisons = append(comparisons, comparison)
	}

	return comparisons, nil
}
