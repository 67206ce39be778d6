package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jakechorley/workshop/pkg/core/booking"
)

// PrometheusRecorder implements Recorder backed by Prometheus
type PrometheusRecorder struct {
	registry *prometheus.Registry

	placements   *prometheus.CounterVec
	visitors     *prometheus.CounterVec
	wishRank     *prometheus.HistogramVec
	runs         *prometheus.CounterVec
	unassigned   *prometheus.GaugeVec
	cost         *prometheus.GaugeVec
	runDurations *prometheus.HistogramVec
}

var _ Recorder = (*PrometheusRecorder)(nil)

// NewPrometheus creates a recorder registering its collectors on registry.
// A fresh registry is used when registry is nil; namespace defaults to "workshop".
func NewPrometheus(registry *prometheus.Registry, namespace string) (*PrometheusRecorder, error) {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if namespace == "" {
		namespace = "workshop"
	}

	p := &PrometheusRecorder{
		registry: registry,
		placements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "schedule",
			Name:      "placements_total",
			Help:      "Families placed, by strategy and placement kind (wish, forced).",
		}, []string{"strategy", "kind"}),
		visitors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "schedule",
			Name:      "visitors_total",
			Help:      "People placed, by strategy and placement kind.",
		}, []string{"strategy", "kind"}),
		wishRank: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "schedule",
			Name:      "wish_rank",
			Help:      "Wishlist rank of each wish placement.",
			Buckets:   prometheus.LinearBuckets(0, 1, 10),
		}, []string{"strategy"}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "schedule",
			Name:      "runs_total",
			Help:      "Strategy runs, by strategy and whether the assignment was complete.",
		}, []string{"strategy", "complete"}),
		unassigned: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "schedule",
			Name:      "unassigned_families",
			Help:      "Families left pending by the latest run of each strategy.",
		}, []string{"strategy"}),
		cost: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "schedule",
			Name:      "cost",
			Help:      "Cost of the latest run of each strategy, by component (preference, accounting, total).",
		}, []string{"strategy", "component"}),
		runDurations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "schedule",
			Name:      "run_duration_seconds",
			Help:      "Wall time of strategy runs in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms .. ~2s
		}, []string{"strategy"}),
	}

	collectors := []prometheus.Collector{
		p.placements, p.visitors, p.wishRank, p.runs, p.unassigned, p.cost, p.runDurations,
	}
	for _, c := range collectors {
		if err := registry.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register collector: %w", err)
		}
	}

	return p, nil
}

// RecordPlacement counts the family and its people, observing the rank of wish placements
func (p *PrometheusRecorder) RecordPlacement(strategy string, placement booking.Placement, size int) {
	kind := placement.Kind.String()
	p.placements.WithLabelValues(strategy, kind).Inc()
	p.visitors.WithLabelValues(strategy, kind).Add(float64(size))
	if placement.Kind == booking.PlacementWish {
		p.wishRank.WithLabelValues(strategy).Observe(float64(placement.Rank))
	}
}

// RecordRun records the run count, its costs and duration
func (p *PrometheusRecorder) RecordRun(summary RunSummary) {
	p.runs.WithLabelValues(summary.Strategy, strconv.FormatBool(summary.Complete)).Inc()
	p.unassigned.WithLabelValues(summary.Strategy).Set(float64(summary.Unassigned))
	p.cost.WithLabelValues(summary.Strategy, "preference").Set(float64(summary.PreferenceCost))
	p.cost.WithLabelValues(summary.Strategy, "accounting").Set(summary.AccountingCost)
	p.cost.WithLabelValues(summary.Strategy, "total").Set(float64(summary.PreferenceCost) + summary.AccountingCost)
	p.runDurations.WithLabelValues(summary.Strategy).Observe(summary.Duration.Seconds())
}

// Registry returns the registry the collectors are registered on
func (p *PrometheusRecorder) Registry() *prometheus.Registry {
	return p.registry
}

// WriteTextfile writes the current metrics in the node exporter textfile format
func (p *PrometheusRecorder) WriteTextfile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, p.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
