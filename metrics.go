package kdego

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems.
type MetricsCollector interface {
	// RecordBuild is called after an engine construction.
	// units is the number of hash units built (0 for the exact engine),
	// duration is the total time taken, err is nil on success.
	RecordBuild(units int, duration time.Duration, err error)

	// RecordQuery is called after each query operation.
	// points is the number of query points, duration is the time taken,
	// err is nil on success.
	RecordQuery(points int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordBuild(int, time.Duration, error) {}
func (NoopMetricsCollector) RecordQuery(int, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	BuildCount      atomic.Int64
	BuildErrors     atomic.Int64
	BuildUnits      atomic.Int64
	BuildTotalNanos atomic.Int64
	QueryCount      atomic.Int64
	QueryErrors     atomic.Int64
	QueryPoints     atomic.Int64
	QueryTotalNanos atomic.Int64
}

// RecordBuild implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBuild(units int, duration time.Duration, err error) {
	b.BuildCount.Add(1)
	b.BuildUnits.Add(int64(units))
	b.BuildTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.BuildErrors.Add(1)
	}
}

// RecordQuery implements MetricsCollector.
func (b *BasicMetricsCollector) RecordQuery(points int, duration time.Duration, err error) {
	b.QueryCount.Add(1)
	b.QueryPoints.Add(int64(points))
	b.QueryTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.QueryErrors.Add(1)
	}
}

// BasicMetricsStats is a snapshot of a BasicMetricsCollector.
type BasicMetricsStats struct {
	BuildCount     int64
	BuildErrors    int64
	BuildUnits     int64
	BuildAvgNanos  int64
	QueryCount     int64
	QueryErrors    int64
	QueryPoints    int64
	QueryAvgNanos  int64
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	stats := BasicMetricsStats{
		BuildCount:  b.BuildCount.Load(),
		BuildErrors: b.BuildErrors.Load(),
		BuildUnits:  b.BuildUnits.Load(),
		QueryCount:  b.QueryCount.Load(),
		QueryErrors: b.QueryErrors.Load(),
		QueryPoints: b.QueryPoints.Load(),
	}
	if stats.BuildCount > 0 {
		stats.BuildAvgNanos = b.BuildTotalNanos.Load() / stats.BuildCount
	}
	if stats.QueryCount > 0 {
		stats.QueryAvgNanos = b.QueryTotalNanos.Load() / stats.QueryCount
	}
	return stats
}
