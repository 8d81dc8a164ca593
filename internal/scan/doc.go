// Package scan implements the block-scanning engine.
//
// A scan reads every byte of a mapped [Region] block by block and returns the
// byte sum as a uint64 checksum (wrapping on overflow). Before a block is
// read, the configured [Policy] decides whether the pages behind it are left
// alone, populated with madvise, or populated through a throwaway shadow
// mapping.
//
// [Serial] walks the blocks on the calling goroutine. [Parallel] hands the
// same blocks out one at a time to a bounded set of workers, which claim
// the next unprocessed block from a shared cursor as soon as they finish the
// previous one. Per-block sums are folded into an atomic total, so both
// entry points return the same checksum for the same inputs.
//
// # Optional instrumentation
//
//   - [Observer] receives per-block prefetch latencies.
//   - [Coverage] records which block indices were processed and verifies that
//     every block was processed exactly once.
//   - A logger plus interval enables throttled progress logging.
//
// All of them are off by default and cost nothing when unset.
package scan
