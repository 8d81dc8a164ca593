package mmapscan

import (
	"github.com/prometheus/procfs"
)

// FaultDelta is the number of page faults the process took during a scan.
type FaultDelta struct {
	Minor uint64
	Major uint64
}

type faultSample struct {
	minor uint64
	major uint64
}

// faultSampler reads the fault counters of the current process from /proc.
type faultSampler struct {
	proc procfs.Proc
}

func newFaultSampler() (*faultSampler, error) {
	p, err := procfs.Self()
	if err != nil {
		return nil, err
	}
	return &faultSampler{proc: p}, nil
}

func (s *faultSampler) sample() (faultSample, error) {
	st, err := s.proc.Stat()
	if err != nil {
		return faultSample{}, err
	}
	return faultSample{minor: uint64(st.MinFlt), major: uint64(st.MajFlt)}, nil
}

func (a faultSample) delta(b faultSample) *FaultDelta {
	return &FaultDelta{
		Minor: b.minor - a.minor,
		Major: b.major - a.major,
	}
}
