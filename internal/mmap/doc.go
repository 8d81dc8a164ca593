// Package mmap provides read-only memory-mapped file access with per-range
// page population controls.
//
// # Overview
//
// A [Mapping] owns the whole file mapping and the open file descriptor behind
// it. The descriptor stays open for the lifetime of the mapping because the
// shadow-map prefetch needs to map the same file range a second time.
//
// # Usage
//
//	m, err := mmap.Open("data.bin", mmap.WithEarlyAdvise())
//	if err != nil { ... }
//	defer m.Close()
//
//	data := m.Bytes()
//
//	// Synchronously fault in the pages backing data[off:off+n].
//	_ = m.AdvisePopulate(off, n)
//
//	// Fault the same range in through a throwaway private mapping.
//	_ = m.ShadowPopulate(off, n)
//
// # Page Alignment
//
// madvise(2) and mmap(2) need page-aligned addresses and offsets. Range
// operations round the start of the range down to a page boundary and keep
// the end where it is, so the affected pages always cover the requested bytes.
//
// # Platform Support
//
//   - Linux: MAP_NORESERVE for the main mapping, MADV_POPULATE_READ (5.14+,
//     falling back to MADV_WILLNEED) and MAP_POPULATE for shadow mappings,
//     mincore(2) for residency.
//   - Other unix: plain mmap; population is done by touching one byte per
//     page, residency is unsupported.
//
// # Thread Safety
//
// Range operations and Bytes are safe for concurrent use. Close is idempotent
// and protected by an atomic flag, but callers must ensure no goroutine still
// reads Bytes() after Close returns.
package mmap
