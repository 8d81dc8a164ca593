package mmapscan

import (
	"errors"
	"fmt"

	"github.com/hupe1980/mmapscan/internal/blocks"
	"github.com/hupe1980/mmapscan/internal/mmap"
	"github.com/hupe1980/mmapscan/internal/scan"
)

var (
	// ErrInvalidArgument is returned for a malformed Config, e.g. a zero block size.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrMapFailure is returned when the file cannot be opened, stat-ed or mapped.
	// The scan never starts in that case.
	ErrMapFailure = errors.New("map failure")

	// ErrResourceExhaustion is returned when the worker pool cannot be sized as requested.
	ErrResourceExhaustion = errors.New("resource exhaustion")
)

// MapError reports a failure to map the file at Path.
//
// It matches ErrMapFailure with errors.Is. The original underlying error
// can be accessed via errors.Unwrap.
type MapError struct {
	Path  string
	cause error
}

func (e *MapError) Error() string {
	return fmt.Sprintf("map %s: %v", e.Path, e.cause)
}

func (e *MapError) Unwrap() error { return e.cause }

// Is reports whether target is ErrMapFailure.
func (e *MapError) Is(target error) bool { return target == ErrMapFailure }

func translateError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, ErrInvalidArgument),
		errors.Is(err, ErrResourceExhaustion),
		errors.Is(err, ErrMapFailure):
		return err
	case errors.Is(err, scan.ErrInvalidBlockSize),
		errors.Is(err, scan.ErrInvalidWorkers),
		errors.Is(err, scan.ErrUnknownPolicy),
		errors.Is(err, mmap.ErrUnknownAccessPattern),
		errors.Is(err, blocks.ErrInvalidSize):
		return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	case errors.Is(err, scan.ErrTooManyWorkers):
		return fmt.Errorf("%w: %w", ErrResourceExhaustion, err)
	}

	return err
}
