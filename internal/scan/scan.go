package scan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/mmapscan/internal/blocks"
)

const (
	// DefaultMaxWorkers is the worker bound used when none is configured.
	DefaultMaxWorkers = 64

	// MaxWorkersLimit is the largest worker bound Parallel accepts.
	MaxWorkersLimit = 4096
)

var (
	// ErrInvalidBlockSize is returned when the block size is not positive.
	ErrInvalidBlockSize = errors.New("scan: block size must be positive")
	// ErrInvalidWorkers is returned when the worker bound is not positive.
	ErrInvalidWorkers = errors.New("scan: max workers must be positive")
	// ErrTooManyWorkers is returned when the worker bound exceeds MaxWorkersLimit.
	ErrTooManyWorkers = errors.New("scan: too many workers")
	// ErrUnknownPolicy is returned for a prefetch policy outside the declared set.
	ErrUnknownPolicy = errors.New("scan: unknown prefetch policy")
)

// Region is the mapped memory a scan reads.
type Region interface {
	// Bytes returns the mapped bytes. They must stay readable for the whole scan.
	Bytes() []byte
	// AdvisePopulate synchronously populates the pages behind [off, off+n).
	AdvisePopulate(off, n int) error
	// ShadowPopulate populates the pages behind [off, off+n) through a
	// temporary mapping that is released before it returns.
	ShadowPopulate(off, n int) error
}

// Observer receives per-block measurements.
type Observer interface {
	// RecordBlock is called after the prefetch action of each block.
	// prefetch is the time the action took, err its error.
	RecordBlock(bytes int, prefetch time.Duration, err error)
}

// Options configures a scan.
type Options struct {
	// BlockSize is the number of bytes per block. Must be positive.
	BlockSize int

	// Policy is the prefetch action issued before each block.
	Policy Policy

	// MaxWorkers bounds the number of workers used by Parallel.
	// Serial ignores it.
	MaxWorkers int

	// Observer, if set, receives per-block prefetch timings.
	Observer Observer

	// Coverage, if set, records every processed block index.
	Coverage *Coverage

	// Logger and ProgressInterval enable progress logging at most once per
	// interval. Both must be set.
	Logger           *slog.Logger
	ProgressInterval time.Duration
}

// Result is the outcome of a completed scan.
type Result struct {
	// Sum is the byte sum of the region, truncated to 64 bits.
	Sum uint64
	// Bytes is the number of bytes read.
	Bytes int
	// Blocks is the number of blocks processed.
	Blocks int
	// Workers is the number of goroutines that processed blocks.
	Workers int
}

// Serial scans r block by block on the calling goroutine.
func Serial(ctx context.Context, r Region, opts Options) (Result, error) {
	s, err := newScanner(r, opts)
	if err != nil {
		return Result{}, err
	}

	done := ctx.Done()
	var sum uint64
	for i, b := range s.part.All() {
		select {
		case <-done:
			return Result{}, ctx.Err()
		default:
		}

		partial, err := s.block(i, b)
		if err != nil {
			return Result{}, err
		}
		sum += partial
	}

	return Result{
		Sum:     sum,
		Bytes:   s.part.Len(),
		Blocks:  s.part.Count(),
		Workers: 1,
	}, nil
}

// Parallel scans r with up to opts.MaxWorkers goroutines. Workers claim
// blocks one at a time, so a slow block delays only the worker holding it.
// The first failing block cancels the remaining work and its error is
// returned.
func Parallel(ctx context.Context, r Region, opts Options) (Result, error) {
	if opts.MaxWorkers <= 0 {
		return Result{}, fmt.Errorf("%w: %d", ErrInvalidWorkers, opts.MaxWorkers)
	}
	if opts.MaxWorkers > MaxWorkersLimit {
		return Result{}, fmt.Errorf("%w: %d exceeds limit %d", ErrTooManyWorkers, opts.MaxWorkers, MaxWorkersLimit)
	}

	s, err := newScanner(r, opts)
	if err != nil {
		return Result{}, err
	}

	count := s.part.Count()
	if count == 0 {
		return Result{}, nil
	}
	workers := min(opts.MaxWorkers, count)

	var (
		next  atomic.Int64
		total atomic.Uint64
	)

	g, gctx := errgroup.WithContext(ctx)
	for range workers {
		g.Go(func() error {
			for {
				if err := gctx.Err(); err != nil {
					return err
				}
				i := int(next.Add(1) - 1)
				if i >= count {
					return nil
				}
				partial, err := s.block(i, s.part.At(i))
				if err != nil {
					return err
				}
				total.Add(partial)
			}
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	return Result{
		Sum:     total.Load(),
		Bytes:   s.part.Len(),
		Blocks:  count,
		Workers: workers,
	}, nil
}

// Sum returns the byte sum of data.
func Sum(data []byte) uint64 {
	var a0, a1, a2, a3 uint64
	i := 0
	for ; i+4 <= len(data); i += 4 {
		a0 += uint64(data[i])
		a1 += uint64(data[i+1])
		a2 += uint64(data[i+2])
		a3 += uint64(data[i+3])
	}
	for ; i < len(data); i++ {
		a0 += uint64(data[i])
	}
	return a0 + a1 + a2 + a3
}

type scanner struct {
	region   Region
	data     []byte
	part     blocks.Partition
	policy   Policy
	observer Observer
	coverage *Coverage
	progress *progress
}

func newScanner(r Region, opts Options) (*scanner, error) {
	if opts.BlockSize <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBlockSize, opts.BlockSize)
	}
	if !opts.Policy.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownPolicy, uint8(opts.Policy))
	}

	data := r.Bytes()
	part, err := blocks.New(len(data), opts.BlockSize)
	if err != nil {
		return nil, err
	}

	return &scanner{
		region:   r,
		data:     data,
		part:     part,
		policy:   opts.Policy,
		observer: opts.Observer,
		coverage: opts.Coverage,
		progress: newProgress(opts.Logger, opts.ProgressInterval, part.Count()),
	}, nil
}

// block prefetches and sums block i.
func (s *scanner) block(i int, b blocks.Block) (uint64, error) {
	var err error
	if s.observer != nil {
		start := time.Now()
		err = s.policy.prefetch(s.region, b.Start, b.Len())
		s.observer.RecordBlock(b.Len(), time.Since(start), err)
	} else {
		err = s.policy.prefetch(s.region, b.Start, b.Len())
	}
	if err != nil {
		return 0, fmt.Errorf("scan: %s prefetch of block %d %s: %w", s.policy, i, b, err)
	}

	sum := Sum(s.data[b.Start:b.End])
	s.coverage.Mark(i)
	s.progress.step()
	return sum, nil
}
