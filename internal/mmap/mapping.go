package mmap

import (
	"fmt"
	"os"
	"sync/atomic"
)

// Mapping represents a read-only memory-mapped file.
// It owns the mapped byte slice and the file descriptor behind it and
// releases both exactly once.
type Mapping struct {
	data   []byte
	size   int
	f      *os.File
	fd     int
	closed atomic.Bool
}

// Open maps the file at path into memory.
// The file is mapped as read-only and private.
func Open(path string, opts ...OpenOption) (*Mapping, error) {
	var o openOptions
	for _, opt := range opts {
		opt(&o)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}

	size := fi.Size()
	if size < 0 || int64(int(size)) != size {
		f.Close()
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}

	m := &Mapping{
		size: int(size),
		f:    f,
		fd:   int(f.Fd()),
	}
	if size == 0 {
		return m, nil
	}

	data, err := osMap(m.fd, m.size)
	if err != nil {
		f.Close()
		return nil, err
	}
	m.data = data

	if o.earlyAdvise {
		if err := osAdvise(m.data, AccessWillNeed); err != nil {
			m.Close()
			return nil, err
		}
	}

	return m, nil
}

// Close unmaps the memory and closes the file. It is idempotent.
func (m *Mapping) Close() error {
	if m == nil || m.closed.Swap(true) {
		return nil
	}
	var err error
	if m.data != nil {
		err = osUnmap(m.data)
	}
	if m.f != nil {
		if closeErr := m.f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}
	return err
}

// Bytes returns the underlying byte slice.
// Warning: The slice is valid only until Close() is called.
// Accessing the slice after Close() results in undefined behavior (likely a crash).
func (m *Mapping) Bytes() []byte {
	if m.closed.Load() {
		return nil
	}
	return m.data
}

// Size returns the size of the mapping in bytes.
func (m *Mapping) Size() int {
	return m.size
}

// Advise provides hints to the kernel about how the memory will be accessed.
func (m *Mapping) Advise(pattern AccessPattern) error {
	if m.closed.Load() {
		return ErrClosed
	}
	if !pattern.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownAccessPattern, int(pattern))
	}
	if m.data == nil {
		return nil
	}
	return osAdvise(m.data, pattern)
}

// AdvisePopulate synchronously faults in the pages backing [off, off+n).
// Kernels without MADV_POPULATE_READ get a MADV_WILLNEED hint instead.
func (m *Mapping) AdvisePopulate(off, n int) error {
	start, end, err := m.pageRange(off, n)
	if err != nil || start == end {
		return err
	}
	return osPopulate(m.data[start:end])
}

// ShadowPopulate maps the file range [off, off+n) a second time with
// population forced, then unmaps it again before returning. The pages end up
// resident in the shared page cache that also backs m.
func (m *Mapping) ShadowPopulate(off, n int) error {
	start, end, err := m.pageRange(off, n)
	if err != nil || start == end {
		return err
	}
	return osShadow(m.fd, int64(start), end-start)
}

// Residency reports how many pages of the mapping are resident in memory.
// It returns errors.ErrUnsupported on platforms without mincore(2).
func (m *Mapping) Residency() (resident, total int, err error) {
	if m.closed.Load() {
		return 0, 0, ErrClosed
	}
	if len(m.data) == 0 {
		return 0, 0, nil
	}
	return osResidency(m.data)
}

// pageRange validates [off, off+n) and widens its start down to a page boundary.
func (m *Mapping) pageRange(off, n int) (start, end int, err error) {
	if m.closed.Load() {
		return 0, 0, ErrClosed
	}
	if off < 0 || n < 0 || off > m.size-n {
		return 0, 0, ErrOutOfBounds
	}
	if n == 0 {
		return off, off, nil
	}
	return alignDown(off, pageSize), off + n, nil
}

func alignDown(off, page int) int {
	return off &^ (page - 1)
}
