package mmapscan

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting scan metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// RecordBlock is called from every scanning goroutine and must be safe for
// concurrent use.
type MetricsCollector interface {
	// RecordBlock is called after the prefetch action of each block.
	// prefetch is the time the action took, err is nil if it succeeded.
	RecordBlock(bytes int, prefetch time.Duration, err error)

	// RecordScan is called once per run after the scan finished.
	// elapsed is the measured scan time, err is nil if the run succeeded.
	RecordScan(mode string, bytes int, elapsed time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordBlock(int, time.Duration, error)        {}
func (NoopMetricsCollector) RecordScan(string, int, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	BlockCount         atomic.Int64
	BlockBytes         atomic.Int64
	PrefetchErrors     atomic.Int64
	PrefetchTotalNanos atomic.Int64
	PrefetchMaxNanos   atomic.Int64
	ScanCount          atomic.Int64
	ScanErrors         atomic.Int64
	ScanBytes          atomic.Int64
	ScanTotalNanos     atomic.Int64
}

// RecordBlock implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBlock(bytes int, prefetch time.Duration, err error) {
	b.BlockCount.Add(1)
	b.BlockBytes.Add(int64(bytes))
	nanos := prefetch.Nanoseconds()
	b.PrefetchTotalNanos.Add(nanos)
	for {
		cur := b.PrefetchMaxNanos.Load()
		if nanos <= cur || b.PrefetchMaxNanos.CompareAndSwap(cur, nanos) {
			break
		}
	}
	if err != nil {
		b.PrefetchErrors.Add(1)
	}
}

// RecordScan implements MetricsCollector.
func (b *BasicMetricsCollector) RecordScan(_ string, bytes int, elapsed time.Duration, err error) {
	b.ScanCount.Add(1)
	if err != nil {
		b.ScanErrors.Add(1)
		return
	}
	b.ScanBytes.Add(int64(bytes))
	b.ScanTotalNanos.Add(elapsed.Nanoseconds())
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		BlockCount:       b.BlockCount.Load(),
		BlockBytes:       b.BlockBytes.Load(),
		PrefetchErrors:   b.PrefetchErrors.Load(),
		PrefetchAvgNanos: b.getAvgPrefetchNanos(),
		PrefetchMaxNanos: b.PrefetchMaxNanos.Load(),
		ScanCount:        b.ScanCount.Load(),
		ScanErrors:       b.ScanErrors.Load(),
		ScanBytes:        b.ScanBytes.Load(),
		ScanTotalNanos:   b.ScanTotalNanos.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgPrefetchNanos() int64 {
	count := b.BlockCount.Load()
	if count == 0 {
		return 0
	}
	return b.PrefetchTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	BlockCount       int64
	BlockBytes       int64
	PrefetchErrors   int64
	PrefetchAvgNanos int64
	PrefetchMaxNanos int64
	ScanCount        int64
	ScanErrors       int64
	ScanBytes        int64
	ScanTotalNanos   int64
}
