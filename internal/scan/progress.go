package scan

import (
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// progress logs the number of finished blocks at most once per interval.
type progress struct {
	logger *slog.Logger
	total  int
	done   atomic.Int64
	every  rate.Sometimes
}

func newProgress(logger *slog.Logger, interval time.Duration, total int) *progress {
	if logger == nil || interval <= 0 {
		return nil
	}
	return &progress{
		logger: logger,
		total:  total,
		every:  rate.Sometimes{Interval: interval},
	}
}

func (p *progress) step() {
	if p == nil {
		return
	}
	n := p.done.Add(1)
	p.every.Do(func() {
		p.logger.Info("scan progress",
			"blocks_done", n,
			"blocks_total", p.total,
		)
	})
}
