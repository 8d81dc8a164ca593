//go:build linux

package mmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestMincore(t *testing.T) {
	data, err := unix.Mmap(-1, 0, 4*pageSize, unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_PRIVATE|unix.MAP_ANONYMOUS|unix.MAP_POPULATE)
	require.NoError(t, err)
	defer unix.Munmap(data)

	vec := make([]byte, 4)
	require.NoError(t, mincore(data, vec))
	for i, v := range vec {
		assert.Equal(t, byte(1), v&1, "page %d", i)
	}

	// The start address must be page aligned.
	assert.ErrorIs(t, mincore(data[1:], vec), unix.EINVAL)
}

func TestOsResidency_PartialPage(t *testing.T) {
	m, err := Open(writeTemp(t, make([]byte, 2*pageSize+1)))
	require.NoError(t, err)
	defer m.Close()

	require.NoError(t, m.AdvisePopulate(0, m.Size()))
	resident, total, err := osResidency(m.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Equal(t, 3, resident)
}
