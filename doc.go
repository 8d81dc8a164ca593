// Package mmapscan measures how memory-mapping and page-prefetch strategies
// affect the time it takes to read every byte of a file.
//
// A run maps a file read-only, sums all of its bytes block by block and
// reports how long the scan took. The mapping and unmapping are not part of
// the measured time.
//
// # Quick Start
//
//	cfg := mmapscan.DefaultConfig("data.bin")
//	cfg.Parallel = true
//	cfg.Policy = mmapscan.PolicyAdvise
//
//	report, err := mmapscan.Run(ctx, cfg)
//	if err != nil { ... }
//	fmt.Println(report) // {0000012.3ms} byteSumParallel
//
// # Prefetch Policies
//
// The policy decides what happens before each block is read:
//
//   - PolicyNone: nothing; pages fault in on first touch.
//   - PolicyAdvise: madvise(MADV_POPULATE_READ) over the block, which blocks
//     until the pages are resident.
//   - PolicyShadowMap: a second private MAP_POPULATE mapping of the same file
//     range is created and released immediately. Its only effect is that the
//     pages become resident in the shared page cache.
//
// # Serial and Parallel Scans
//
// A serial scan walks the blocks on the calling goroutine. A parallel scan
// hands blocks out one at a time to at most Config.MaxWorkers workers, so a
// block stuck on disk I/O only stalls the worker that claimed it. Both return
// the same checksum for the same file and block size.
//
// # Instrumentation
//
// Options add measurements around the scan without changing what is timed:
//
//	report, err := mmapscan.Run(ctx, cfg,
//	    mmapscan.WithLogger(mmapscan.NewTextLogger(slog.LevelInfo)),
//	    mmapscan.WithFaultCounters(), // minor/major page faults via /proc
//	    mmapscan.WithResidency(),     // mincore(2) before and after
//	    mmapscan.WithCoverageCheck(), // every block exactly once
//	)
package mmapscan
