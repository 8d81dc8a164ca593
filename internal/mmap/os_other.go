//go:build unix && !linux

package mmap

import (
	"errors"

	"golang.org/x/sys/unix"
)

const mapNoReserve = 0

func osPopulate(data []byte) error {
	if err := osAdvise(data, AccessWillNeed); err != nil {
		return err
	}
	touch(data)
	return nil
}

func osShadow(fd int, off int64, length int) (err error) {
	shadow, err := unix.Mmap(fd, off, length, unix.PROT_READ, unix.MAP_PRIVATE)
	if err != nil {
		return err
	}
	defer func() {
		if unmapErr := unix.Munmap(shadow); unmapErr != nil && err == nil {
			err = unmapErr
		}
	}()
	touch(shadow)
	return nil
}

func osResidency([]byte) (int, int, error) {
	return 0, 0, errors.ErrUnsupported
}

// touch reads one byte per page so every page of data is faulted in.
func touch(data []byte) {
	var sink byte
	for i := 0; i < len(data); i += pageSize {
		sink += data[i]
	}
	touchSink = sink
}

var touchSink byte
