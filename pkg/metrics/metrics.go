// Package metrics records scheduling outcomes.
package metrics

import (
	"time"

	"github.com/jakechorley/workshop/pkg/core/booking"
)

// RunSummary is the outcome of one strategy run
type RunSummary struct {
	Strategy       string
	Complete       bool
	Unassigned     int
	PreferenceCost int
	AccountingCost float64
	Duration       time.Duration
}

// Recorder receives scheduling measurements
type Recorder interface {
	// RecordPlacement is called once per settled family
	RecordPlacement(strategy string, placement booking.Placement, size int)
	RecordRun(summary RunSummary)
}

// NopRecorder discards every measurement
type NopRecorder struct{}

var _ Recorder = NopRecorder{}

// NewNop creates a recorder that discards everything
func NewNop() NopRecorder {
	return NopRecorder{}
}

func (NopRecorder) RecordPlacement(string, booking.Placement, int) {}

func (NopRecorder) RecordRun(RunSummary) {}

// RecordLedger reports every placement in the ledger's settled order
func RecordLedger(recorder Recorder, strategy string, ledger *booking.Ledger) {
	for _, group := range ledger.Settled() {
		placement, ok := ledger.Placement(group)
		if !ok {
			continue
		}
		recorder.RecordPlacement(strategy, placement, group.Size)
	}
}
