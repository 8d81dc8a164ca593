//go:build linux

package mmap

import (
	"errors"
	"unsafe"

	"golang.org/x/sys/unix"
)

const mapNoReserve = unix.MAP_NORESERVE

// MADV_POPULATE_READ was added in Linux 5.14.
// On older kernels, madvise returns EINVAL.
func osPopulate(data []byte) error {
	err := unix.Madvise(data, unix.MADV_POPULATE_READ)
	if errors.Is(err, unix.EINVAL) {
		// Pre-5.14 kernel.
		return osAdvise(data, AccessWillNeed)
	}
	return err
}

func osShadow(fd int, off int64, length int) (err error) {
	shadow, err := unix.Mmap(fd, off, length, unix.PROT_READ, unix.MAP_PRIVATE|unix.MAP_POPULATE)
	if err != nil {
		return err
	}
	defer func() {
		if unmapErr := unix.Munmap(shadow); unmapErr != nil && err == nil {
			err = unmapErr
		}
	}()
	return nil
}

func osResidency(data []byte) (resident, total int, err error) {
	total = (len(data) + pageSize - 1) / pageSize
	vec := make([]byte, total)
	if err := mincore(data, vec); err != nil {
		return 0, 0, err
	}
	for _, v := range vec {
		if v&1 != 0 {
			resident++
		}
	}
	return resident, total, nil
}

// x/sys does not wrap mincore(2) on Linux.
func mincore(data, vec []byte) error {
	_, _, errno := unix.Syscall(unix.SYS_MINCORE,
		uintptr(unsafe.Pointer(&data[0])),
		uintptr(len(data)),
		uintptr(unsafe.Pointer(&vec[0])))
	if errno != 0 {
		return errno
	}
	return nil
}
