// Package testutil provides testing utilities for mmapscan.
//
// This package is intended for use in tests and benchmarks only.
// It provides seeded random data, byte patterns with known sums and helpers
// that write fixtures to temporary files.
//
// # Random Data
//
//	rng := testutil.NewRNG(seed)
//	data := rng.Bytes(1 << 20)
//
// # Fixtures
//
//	path := testutil.WriteFile(t, testutil.Sequence(256))
//	want := testutil.ExpectedSum(data)
package testutil
