package mmapscan

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hupe1980/mmapscan/internal/mmap"
	"github.com/hupe1980/mmapscan/internal/scan"
)

// Run maps cfg.Path, scans it once as configured and unmaps it again.
//
// Only the scan itself is timed. Mapping, the cfg.Access hint, unmapping and any sampling
// requested through options happen outside the measured interval. The
// mapping is released on every return path.
//
// Failures are reported as ErrMapFailure (the file could not be mapped),
// ErrInvalidArgument (cfg is malformed) or ErrResourceExhaustion (the worker
// bound is too large). Prefetch failures during the scan are returned as is.
func Run(ctx context.Context, cfg Config, opts ...Option) (report *Report, err error) {
	o := applyOptions(opts)
	logger := o.logger.WithPath(cfg.Path).WithConfig(cfg)
	defer func() {
		logger.LogRun(ctx, report, err)
	}()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var mopts []mmap.OpenOption
	if cfg.EarlyAdvise {
		mopts = append(mopts, mmap.WithEarlyAdvise())
	}

	m, err := mmap.Open(cfg.Path, mopts...)
	if err != nil {
		return nil, &MapError{Path: cfg.Path, cause: err}
	}
	defer func() {
		if closeErr := m.Close(); closeErr != nil && err == nil {
			report, err = nil, fmt.Errorf("unmap %s: %w", cfg.Path, closeErr)
		}
	}()
	logger.LogMapped(ctx, m.Size())

	if cfg.Access != AccessNormal {
		if err := m.Advise(cfg.Access); err != nil {
			return nil, fmt.Errorf("advise %s %s: %w", cfg.Access, cfg.Path, translateError(err))
		}
	}

	report = &Report{
		Mode:      cfg.Mode(),
		Path:      cfg.Path,
		Policy:    cfg.Policy,
		BlockSize: cfg.BlockSize,
	}

	var residency *Residency
	if o.residency {
		residency = sampleResidency(ctx, logger, m)
	}

	var (
		faults      *faultSampler
		faultsStart faultSample
	)
	if o.faults {
		faults, faultsStart = startFaults(ctx, logger)
	}

	sopts := scan.Options{
		BlockSize:        cfg.BlockSize,
		Policy:           cfg.Policy,
		MaxWorkers:       cfg.MaxWorkers,
		Logger:           logger.Logger,
		ProgressInterval: o.progressInterval,
	}
	if _, noop := o.metricsCollector.(NoopMetricsCollector); !noop {
		sopts.Observer = o.metricsCollector
	}
	if o.coverage {
		sopts.Coverage = scan.NewCoverage()
	}

	scanFn := scan.Serial
	if cfg.Parallel {
		scanFn = scan.Parallel
	}

	start := time.Now()
	res, err := scanFn(ctx, m, sopts)
	elapsed := time.Since(start)

	o.metricsCollector.RecordScan(report.Mode, res.Bytes, elapsed, err)
	if err != nil {
		return nil, translateError(err)
	}

	if faults != nil {
		if end, err := faults.sample(); err == nil {
			report.Faults = faultsStart.delta(end)
		} else {
			logger.WarnContext(ctx, "sampling page faults failed", "error", err)
		}
	}
	if residency != nil {
		if after := sampleResidency(ctx, logger, m); after != nil {
			residency.After = after.Before
			report.Residency = residency
		}
	}

	if err := sopts.Coverage.Verify(res.Blocks); err != nil {
		return nil, err
	}

	report.Elapsed = elapsed
	report.Sum = res.Sum
	report.Bytes = res.Bytes
	report.Blocks = res.Blocks
	report.Workers = res.Workers
	return report, nil
}

// sampleResidency returns the current residency in Before, or nil if it
// cannot be determined on this platform.
func sampleResidency(ctx context.Context, logger *Logger, m *mmap.Mapping) *Residency {
	resident, pages, err := m.Residency()
	if err != nil {
		if errors.Is(err, errors.ErrUnsupported) {
			logger.DebugContext(ctx, "page residency not supported on this platform")
		} else {
			logger.WarnContext(ctx, "sampling page residency failed", "error", err)
		}
		return nil
	}
	return &Residency{Before: resident, Pages: pages}
}

func startFaults(ctx context.Context, logger *Logger) (*faultSampler, faultSample) {
	s, err := newFaultSampler()
	if err == nil {
		var start faultSample
		if start, err = s.sample(); err == nil {
			return s, start
		}
	}
	logger.WarnContext(ctx, "page fault counters unavailable", "error", err)
	return nil, faultSample{}
}
