package mmapscan

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/mmapscan/testutil"
)

func TestRun_AllZeroFile(t *testing.T) {
	cfg := DefaultConfig(testutil.WriteFile(t, testutil.Filled(10000, 0)))

	report, err := Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), report.Sum)
	assert.Equal(t, ModeSerial, report.Mode)
	assert.Equal(t, 10000, report.Bytes)
	assert.Equal(t, 3, report.Blocks)
	assert.Equal(t, 1, report.Workers)
}

func TestRun_SequenceSerial(t *testing.T) {
	cfg := DefaultConfig(testutil.WriteFile(t, testutil.Sequence(256)))
	cfg.BlockSize = 64

	report, err := Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, uint64(32640), report.Sum)
	assert.Equal(t, 4, report.Blocks)
}

func TestRun_SequenceParallelAdvise(t *testing.T) {
	cfg := DefaultConfig(testutil.WriteFile(t, testutil.Sequence(256)))
	cfg.BlockSize = 64
	cfg.Parallel = true
	cfg.MaxWorkers = 8
	cfg.Policy = PolicyAdvise

	report, err := Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, uint64(32640), report.Sum)
	assert.Equal(t, ModeParallel, report.Mode)
	assert.LessOrEqual(t, report.Workers, 8)
}

func TestRun_AccessPatterns(t *testing.T) {
	data := testutil.NewRNG(11).Bytes(3*4096 + 77)
	path := testutil.WriteFile(t, data)

	for _, access := range []AccessPattern{AccessNormal, AccessSequential, AccessRandom} {
		t.Run(access.String(), func(t *testing.T) {
			cfg := DefaultConfig(path)
			cfg.Access = access
			cfg.Parallel = true
			cfg.MaxWorkers = 4

			report, err := Run(context.Background(), cfg)
			require.NoError(t, err)
			assert.Equal(t, testutil.ExpectedSum(data), report.Sum)
		})
	}
}

func TestRun_ZeroBlockSize(t *testing.T) {
	cfg := DefaultConfig(testutil.WriteFile(t, testutil.Sequence(256)))
	cfg.BlockSize = 0

	_, err := Run(context.Background(), cfg)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestRun_MapFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.bin")

	report, err := Run(context.Background(), DefaultConfig(path))
	require.Error(t, err)
	assert.Nil(t, report)
	assert.ErrorIs(t, err, ErrMapFailure)

	var mapErr *MapError
	require.True(t, errors.As(err, &mapErr))
	assert.Equal(t, path, mapErr.Path)
	assert.NotNil(t, errors.Unwrap(err))
}

func TestRun_TooManyWorkers(t *testing.T) {
	cfg := DefaultConfig(testutil.WriteFile(t, testutil.Sequence(256)))
	cfg.Parallel = true
	cfg.MaxWorkers = MaxWorkersLimit + 1

	_, err := Run(context.Background(), cfg)
	assert.ErrorIs(t, err, ErrResourceExhaustion)
}

func TestRun_EmptyFile(t *testing.T) {
	for _, parallel := range []bool{false, true} {
		for _, policy := range []PrefetchPolicy{PolicyNone, PolicyAdvise, PolicyShadowMap} {
			cfg := DefaultConfig(testutil.WriteFile(t, nil))
			cfg.Parallel = parallel
			cfg.Policy = policy

			report, err := Run(context.Background(), cfg)
			require.NoError(t, err)
			assert.Equal(t, uint64(0), report.Sum)
			assert.Zero(t, report.Blocks)
		}
	}
}

func TestRun_SerialMatchesParallel(t *testing.T) {
	data := testutil.NewRNG(42).Bytes(3<<20 + 5)
	path := testutil.WriteFile(t, data)
	want := testutil.ExpectedSum(data)

	for _, policy := range []PrefetchPolicy{PolicyNone, PolicyAdvise, PolicyShadowMap} {
		for _, early := range []bool{false, true} {
			cfg := DefaultConfig(path)
			cfg.Policy = policy
			cfg.EarlyAdvise = early
			cfg.BlockSize = 64 << 10

			serial, err := Run(context.Background(), cfg)
			require.NoError(t, err)

			cfg.Parallel = true
			parallel, err := Run(context.Background(), cfg, WithCoverageCheck())
			require.NoError(t, err)

			assert.Equal(t, want, serial.Sum, "policy=%s early=%v", policy, early)
			assert.Equal(t, serial.Sum, parallel.Sum, "policy=%s early=%v", policy, early)
		}
	}
}

func TestRun_Metrics(t *testing.T) {
	cfg := DefaultConfig(testutil.WriteFile(t, testutil.Sequence(10_000)))
	cfg.BlockSize = 1000
	cfg.Parallel = true
	cfg.Policy = PolicyAdvise

	metrics := &BasicMetricsCollector{}
	report, err := Run(context.Background(), cfg, WithMetricsCollector(metrics))
	require.NoError(t, err)

	stats := metrics.GetStats()
	assert.Equal(t, int64(10), stats.BlockCount)
	assert.Equal(t, int64(10_000), stats.BlockBytes)
	assert.Zero(t, stats.PrefetchErrors)
	assert.Equal(t, int64(1), stats.ScanCount)
	assert.Equal(t, int64(report.Bytes), stats.ScanBytes)
	assert.Equal(t, report.Elapsed.Nanoseconds(), stats.ScanTotalNanos)
}

func TestRun_InstrumentationOptions(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	cfg := DefaultConfig(testutil.WriteFile(t, testutil.Sequence(1<<16)))
	cfg.Policy = PolicyShadowMap

	report, err := Run(context.Background(), cfg,
		WithLogger(logger),
		WithFaultCounters(),
		WithResidency(),
		WithCoverageCheck(),
		WithProgress(1),
		nil,
	)
	require.NoError(t, err)
	assert.Equal(t, testutil.ExpectedSum(testutil.Sequence(1<<16)), report.Sum)

	out := buf.String()
	assert.Contains(t, out, "scan completed")
	assert.Contains(t, out, "scan progress")
	assert.Contains(t, out, "policy=shadow")
}

func TestRun_LogsFailure(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(slog.NewTextHandler(&buf, nil))

	_, err := Run(context.Background(), DefaultConfig(filepath.Join(t.TempDir(), "nope")), WithLogger(logger))
	require.Error(t, err)
	assert.Contains(t, buf.String(), "scan failed")
}

func TestRun_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := DefaultConfig(testutil.WriteFile(t, testutil.Sequence(1<<16)))
	_, err := Run(ctx, cfg)
	assert.ErrorIs(t, err, context.Canceled)
}
