package testutil

import (
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

// RNG wraps a seeded random number generator. It is thread-safe.
type RNG struct {
	rand *rand.Rand
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
	}
}

// Bytes returns n pseudo-random bytes.
func (r *RNG) Bytes(n int) []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	b := make([]byte, n)
	_, _ = r.rand.Read(b)
	return b
}

// Sequence returns n bytes counting 0, 1, ..., 255, 0, 1, ...
func Sequence(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i)
	}
	return b
}

// Filled returns n bytes all set to v.
func Filled(n int, v byte) []byte {
	b := make([]byte, n)
	if v != 0 {
		for i := range b {
			b[i] = v
		}
	}
	return b
}

// ExpectedSum is the reference byte sum used to check scan results.
func ExpectedSum(data []byte) uint64 {
	var sum uint64
	for _, v := range data {
		sum += uint64(v)
	}
	return sum
}

// WriteFile writes data to a new file in a per-test temporary directory and
// returns its path. The file is removed when the test ends.
func WriteFile(tb testing.TB, data []byte) string {
	tb.Helper()
	path := filepath.Join(tb.TempDir(), "scan.bin")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		tb.Fatalf("write fixture: %v", err)
	}
	return path
}
