// Package blocks partitions a byte range into fixed-size blocks.
//
// A partition of [0, n) with block size s consists of ceil(n/s) half-open
// ranges. All ranges are exactly s bytes long except possibly the last one.
// Together they cover [0, n) without gaps or overlap.
package blocks

import (
	"errors"
	"fmt"
	"iter"
)

// ErrInvalidSize is returned for a block size that is not positive or a negative length.
var ErrInvalidSize = errors.New("blocks: invalid size")

// Block is the half-open byte range [Start, End).
type Block struct {
	Start int
	End   int
}

// Len returns the number of bytes in the block.
func (b Block) Len() int { return b.End - b.Start }

func (b Block) String() string {
	return fmt.Sprintf("[%d, %d)", b.Start, b.End)
}

// Partition describes the blocks of [0, n) for one block size.
// The zero value is an empty partition.
type Partition struct {
	n    int
	size int
}

// New validates n and size and returns the partition of [0, n).
func New(n, size int) (Partition, error) {
	if size <= 0 {
		return Partition{}, fmt.Errorf("%w: block size %d", ErrInvalidSize, size)
	}
	if n < 0 {
		return Partition{}, fmt.Errorf("%w: length %d", ErrInvalidSize, n)
	}
	return Partition{n: n, size: size}, nil
}

// Len returns the length of the partitioned range.
func (p Partition) Len() int { return p.n }

// Count returns the number of blocks.
func (p Partition) Count() int {
	if p.n == 0 {
		return 0
	}
	return (p.n-1)/p.size + 1
}

// At returns block i. It panics if i is out of range.
func (p Partition) At(i int) Block {
	if i < 0 || i >= p.Count() {
		panic(fmt.Sprintf("blocks: index %d out of range [0, %d)", i, p.Count()))
	}
	start := i * p.size
	return Block{Start: start, End: start + min(p.size, p.n-start)}
}

// All yields every block in ascending order together with its index.
func (p Partition) All() iter.Seq2[int, Block] {
	return func(yield func(int, Block) bool) {
		for i, start := 0, 0; start < p.n; i, start = i+1, start+p.size {
			if !yield(i, Block{Start: start, End: start + min(p.size, p.n-start)}) {
				return
			}
		}
	}
}
