package mmapscan

import (
	"fmt"

	"github.com/hupe1980/mmapscan/internal/mmap"
	"github.com/hupe1980/mmapscan/internal/scan"
)

// PrefetchPolicy selects the prefetch action issued before each block is read.
type PrefetchPolicy = scan.Policy

const (
	// PolicyNone issues no prefetch action.
	PolicyNone = scan.PolicyNone
	// PolicyAdvise populates each block with madvise(MADV_POPULATE_READ).
	PolicyAdvise = scan.PolicyAdvise
	// PolicyShadowMap populates each block through a short-lived private mapping.
	PolicyShadowMap = scan.PolicyShadowMap
)

// AccessPattern is the madvise hint applied to the whole mapping before the scan.
type AccessPattern = mmap.AccessPattern

const (
	// AccessNormal leaves the kernel's default readahead in place.
	AccessNormal = mmap.AccessDefault
	// AccessSequential advises MADV_SEQUENTIAL.
	AccessSequential = mmap.AccessSequential
	// AccessRandom advises MADV_RANDOM.
	AccessRandom = mmap.AccessRandom
)

const (
	// DefaultBlockSize is the block size used by DefaultConfig.
	DefaultBlockSize = 4096

	// DefaultMaxWorkers is the worker bound used by DefaultConfig.
	DefaultMaxWorkers = scan.DefaultMaxWorkers

	// MaxWorkersLimit is the largest accepted worker bound.
	MaxWorkersLimit = scan.MaxWorkersLimit
)

// Mode names reported for serial and parallel runs.
const (
	ModeSerial   = "byteSum"
	ModeParallel = "byteSumParallel"
)

// ParsePolicy parses a policy name (none, advise, shadow) or its numeric form (0, 1, 2).
func ParsePolicy(s string) (PrefetchPolicy, error) {
	p, err := scan.ParsePolicy(s)
	return p, translateError(err)
}

// ParseAccessPattern parses normal, sequential or random.
func ParseAccessPattern(s string) (AccessPattern, error) {
	p, err := mmap.ParseAccessPattern(s)
	return p, translateError(err)
}

// Config describes a single experimental run. It is not modified by Run.
type Config struct {
	// Path is the file to scan.
	Path string

	// Parallel selects the worker pool instead of the calling goroutine.
	Parallel bool

	// EarlyAdvise issues MADV_WILLNEED over the whole file right after mapping it.
	EarlyAdvise bool

	// Access is the hint applied to the whole mapping before the scan starts.
	Access AccessPattern

	// BlockSize is the scan and scheduling granularity in bytes.
	BlockSize int

	// Policy is the per-block prefetch action.
	Policy PrefetchPolicy

	// MaxWorkers bounds the number of workers of a parallel run.
	MaxWorkers int
}

// DefaultConfig returns a serial, no-prefetch configuration for path with
// 4 KiB blocks and up to 64 workers.
func DefaultConfig(path string) Config {
	return Config{
		Path:       path,
		BlockSize:  DefaultBlockSize,
		Policy:     PolicyNone,
		Access:     AccessNormal,
		MaxWorkers: DefaultMaxWorkers,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.Path == "" {
		return fmt.Errorf("%w: empty path", ErrInvalidArgument)
	}
	if c.BlockSize <= 0 {
		return fmt.Errorf("%w: block size must be positive, got %d", ErrInvalidArgument, c.BlockSize)
	}
	if !c.Policy.Valid() {
		return fmt.Errorf("%w: unknown prefetch policy %d", ErrInvalidArgument, uint8(c.Policy))
	}
	if !c.Access.Valid() {
		return fmt.Errorf("%w: unknown access pattern %d", ErrInvalidArgument, int(c.Access))
	}
	if c.Parallel {
		if c.MaxWorkers <= 0 {
			return fmt.Errorf("%w: max workers must be positive, got %d", ErrInvalidArgument, c.MaxWorkers)
		}
		if c.MaxWorkers > MaxWorkersLimit {
			return fmt.Errorf("%w: %d workers exceeds limit %d", ErrResourceExhaustion, c.MaxWorkers, MaxWorkersLimit)
		}
	}
	return nil
}

// Mode returns the name reported for this configuration.
func (c Config) Mode() string {
	if c.Parallel {
		return ModeParallel
	}
	return ModeSerial
}
