package mmapscan

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

// Residency is the page-cache residency of the mapped file around a scan.
type Residency struct {
	Before int
	After  int
	Pages  int
}

// Report is the outcome of a run.
type Report struct {
	// Mode is ModeSerial or ModeParallel.
	Mode string

	Path      string
	Policy    PrefetchPolicy
	BlockSize int

	// Elapsed is the wall-clock time of the scan alone.
	Elapsed time.Duration

	// Sum is the byte sum of the file, truncated to 64 bits.
	Sum uint64

	Bytes   int
	Blocks  int
	Workers int

	// Faults is set when fault counters were sampled.
	Faults *FaultDelta

	// Residency is set when residency was sampled.
	Residency *Residency
}

// Milliseconds returns Elapsed in fractional milliseconds.
func (r *Report) Milliseconds() float64 {
	return float64(r.Elapsed) / float64(time.Millisecond)
}

// Throughput returns the scan rate in bytes per second.
func (r *Report) Throughput() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Bytes) / r.Elapsed.Seconds()
}

// String renders the timing line, e.g. "{0000012.3ms} byteSum".
func (r *Report) String() string {
	return fmt.Sprintf("{%09.1fms} %s", r.Milliseconds(), r.Mode)
}

// Summary renders a one-line human-readable description of the run.
func (r *Report) Summary() string {
	s := fmt.Sprintf("%s: %s in %d blocks of %s, policy=%s, workers=%d, %s/s, sum=%d",
		r.Mode,
		humanize.IBytes(uint64(r.Bytes)),
		r.Blocks,
		humanize.IBytes(uint64(r.BlockSize)),
		r.Policy,
		r.Workers,
		humanize.IBytes(uint64(r.Throughput())),
		r.Sum,
	)
	if r.Faults != nil {
		s += fmt.Sprintf(", faults=%s minor/%s major",
			humanize.Comma(int64(r.Faults.Minor)),
			humanize.Comma(int64(r.Faults.Major)))
	}
	if r.Residency != nil && r.Residency.Pages > 0 {
		s += fmt.Sprintf(", resident %d%% -> %d%%",
			100*r.Residency.Before/r.Residency.Pages,
			100*r.Residency.After/r.Residency.Pages)
	}
	return s
}
