package mmapscan

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReport_String(t *testing.T) {
	r := &Report{Mode: ModeSerial, Elapsed: 12345 * time.Microsecond}
	assert.Equal(t, "{0000012.3ms} byteSum", r.String())

	r = &Report{Mode: ModeParallel, Elapsed: 1500 * time.Millisecond}
	assert.Equal(t, "{0001500.0ms} byteSumParallel", r.String())
}

func TestReport_Throughput(t *testing.T) {
	r := &Report{Bytes: 1 << 20, Elapsed: time.Second}
	assert.InDelta(t, float64(1<<20), r.Throughput(), 1e-9)

	assert.Zero(t, (&Report{Bytes: 10}).Throughput())
}

func TestReport_Summary(t *testing.T) {
	r := &Report{
		Mode:      ModeParallel,
		Policy:    PolicyAdvise,
		BlockSize: 4096,
		Elapsed:   time.Second,
		Sum:       32640,
		Bytes:     1 << 20,
		Blocks:    256,
		Workers:   8,
		Faults:    &FaultDelta{Minor: 1234, Major: 5},
		Residency: &Residency{Before: 0, After: 256, Pages: 256},
	}
	assert.Equal(t,
		"byteSumParallel: 1.0 MiB in 256 blocks of 4.0 KiB, policy=advise, workers=8, 1.0 MiB/s, sum=32640, faults=1,234 minor/5 major, resident 0% -> 100%",
		r.Summary())
}
