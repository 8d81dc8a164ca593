package mmap

import (
	"errors"
	"fmt"
	"strings"
)

// AccessPattern provides hints to the kernel about how the data will be accessed.
type AccessPattern int

const (
	// AccessDefault is the default access pattern (no specific advice).
	AccessDefault AccessPattern = iota
	// AccessSequential expects data to be accessed sequentially.
	AccessSequential
	// AccessRandom expects data to be accessed randomly.
	AccessRandom
	// AccessWillNeed expects data to be accessed in the near future.
	AccessWillNeed
)

// String returns the name accepted by ParseAccessPattern.
func (p AccessPattern) String() string {
	switch p {
	case AccessDefault:
		return "normal"
	case AccessSequential:
		return "sequential"
	case AccessRandom:
		return "random"
	case AccessWillNeed:
		return "willneed"
	default:
		return fmt.Sprintf("AccessPattern(%d)", int(p))
	}
}

// Valid reports whether p is one of the declared patterns.
func (p AccessPattern) Valid() bool {
	return p >= AccessDefault && p <= AccessWillNeed
}

// ParseAccessPattern parses normal, sequential, random or willneed.
func ParseAccessPattern(s string) (AccessPattern, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "normal", "default", "":
		return AccessDefault, nil
	case "sequential":
		return AccessSequential, nil
	case "random":
		return AccessRandom, nil
	case "willneed":
		return AccessWillNeed, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownAccessPattern, s)
	}
}

var (
	// ErrClosed is returned when attempting to access a closed mapping.
	ErrClosed = errors.New("mmap: mapping is closed")
	// ErrInvalidSize is returned when the file size is invalid (e.g. negative or too large).
	ErrInvalidSize = errors.New("mmap: invalid file size")
	// ErrOutOfBounds is returned when attempting to access a region outside the mapping.
	ErrOutOfBounds = errors.New("mmap: out of bounds")
	// ErrUnknownAccessPattern is returned for an access pattern outside the declared set.
	ErrUnknownAccessPattern = errors.New("mmap: unknown access pattern")
)

// OpenOption configures Open.
type OpenOption func(*openOptions)

type openOptions struct {
	earlyAdvise bool
}

// WithEarlyAdvise issues MADV_WILLNEED over the whole file right after it is mapped.
func WithEarlyAdvise() OpenOption {
	return func(o *openOptions) {
		o.earlyAdvise = true
	}
}
