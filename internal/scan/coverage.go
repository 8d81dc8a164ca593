package scan

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"
)

// ErrCoverage is returned by Coverage.Verify when some block was skipped or
// processed more than once.
var ErrCoverage = errors.New("scan: block coverage mismatch")

// Coverage records the indices of processed blocks. It is safe for
// concurrent use. A nil *Coverage ignores every call.
type Coverage struct {
	mu       sync.Mutex
	seen     *roaring.Bitmap
	repeated *roaring.Bitmap
	overflow bool
}

// NewCoverage returns an empty Coverage.
func NewCoverage() *Coverage {
	return &Coverage{
		seen:     roaring.New(),
		repeated: roaring.New(),
	}
}

// Mark records that block i was processed.
func (c *Coverage) Mark(i int) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if i < 0 || uint64(i) > math.MaxUint32 {
		c.overflow = true
		return
	}
	if !c.seen.CheckedAdd(uint32(i)) {
		c.repeated.Add(uint32(i))
	}
}

// Processed returns the number of distinct blocks marked so far.
func (c *Coverage) Processed() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return int(c.seen.GetCardinality())
}

// Verify checks that blocks 0..count-1 were each marked exactly once and no
// other index was marked.
func (c *Coverage) Verify(count int) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.overflow || count < 0 || uint64(count) > math.MaxUint32+1 {
		return fmt.Errorf("%w: block index outside the trackable range", ErrCoverage)
	}

	expected := roaring.New()
	expected.AddRange(0, uint64(count))

	missing := roaring.AndNot(expected, c.seen)
	extra := roaring.AndNot(c.seen, expected)
	if missing.IsEmpty() && extra.IsEmpty() && c.repeated.IsEmpty() {
		return nil
	}
	return fmt.Errorf("%w: %d missing (first %v), %d unexpected, %d repeated (first %v)",
		ErrCoverage,
		missing.GetCardinality(), first(missing),
		extra.GetCardinality(),
		c.repeated.GetCardinality(), first(c.repeated))
}

func first(b *roaring.Bitmap) []uint32 {
	const limit = 8
	out := make([]uint32, 0, limit)
	it := b.Iterator()
	for it.HasNext() && len(out) < limit {
		out = append(out, it.Next())
	}
	return out
}
