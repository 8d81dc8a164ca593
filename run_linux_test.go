//go:build linux

package mmapscan

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/procfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/mmapscan/testutil"
)

// mappedBytes returns how many bytes of path are mapped into this process.
func mappedBytes(path string) (int, error) {
	p, err := procfs.Self()
	if err != nil {
		return 0, err
	}
	maps, err := p.ProcMaps()
	if err != nil {
		return 0, err
	}

	total := 0
	for _, m := range maps {
		if m.Pathname == path {
			total += int(m.EndAddr - m.StartAddr)
		}
	}
	return total, nil
}

// addressSpaceProbe records the largest mapping footprint of a file observed
// after each block's prefetch action.
type addressSpaceProbe struct {
	NoopMetricsCollector
	path string

	mu  sync.Mutex
	max int
	err error
}

func (p *addressSpaceProbe) RecordBlock(int, time.Duration, error) {
	n, err := mappedBytes(p.path)
	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil && p.err == nil {
		p.err = err
	}
	p.max = max(p.max, n)
}

func TestRun_ShadowMapReleasesMappings(t *testing.T) {
	const size = 1 << 20
	path, err := filepath.EvalSymlinks(testutil.WriteFile(t, testutil.NewRNG(5).Bytes(size)))
	require.NoError(t, err)

	page := os.Getpagesize()
	for _, parallel := range []bool{false, true} {
		cfg := DefaultConfig(path)
		cfg.Policy = PolicyShadowMap
		cfg.Parallel = parallel
		cfg.MaxWorkers = 8

		probe := &addressSpaceProbe{path: path}
		report, err := Run(context.Background(), cfg, WithMetricsCollector(probe))
		require.NoError(t, err)
		require.NoError(t, probe.err)
		assert.Equal(t, size/cfg.BlockSize, report.Blocks)

		// The main mapping plus at most one in-flight shadow mapping per worker.
		bound := size + report.Workers*(cfg.BlockSize+page)
		assert.Greater(t, probe.max, 0)
		assert.LessOrEqual(t, probe.max, bound, "parallel=%v", parallel)

		after, err := mappedBytes(path)
		require.NoError(t, err)
		assert.Zero(t, after, "everything must be unmapped after Run")
	}
}

func TestRun_FaultsAndResidency(t *testing.T) {
	cfg := DefaultConfig(testutil.WriteFile(t, testutil.Sequence(1<<20)))
	cfg.Policy = PolicyAdvise

	report, err := Run(context.Background(), cfg, WithFaultCounters(), WithResidency())
	require.NoError(t, err)

	require.NotNil(t, report.Faults)
	require.NotNil(t, report.Residency)
	assert.Equal(t, (1<<20)/os.Getpagesize(), report.Residency.Pages)
	assert.Equal(t, report.Residency.Pages, report.Residency.After)
}
