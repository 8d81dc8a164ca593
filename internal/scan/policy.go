package scan

import (
	"fmt"
	"strings"
)

// Policy selects the prefetch action issued before each block is read.
type Policy uint8

const (
	// PolicyNone issues no prefetch action.
	PolicyNone Policy = iota
	// PolicyAdvise synchronously populates the block's pages with madvise.
	PolicyAdvise
	// PolicyShadowMap populates the block's pages through a short-lived
	// private mapping of the same file range.
	PolicyShadowMap
)

// Policies lists every policy in declaration order.
var Policies = []Policy{PolicyNone, PolicyAdvise, PolicyShadowMap}

func (p Policy) String() string {
	switch p {
	case PolicyNone:
		return "none"
	case PolicyAdvise:
		return "advise"
	case PolicyShadowMap:
		return "shadow"
	default:
		return fmt.Sprintf("Policy(%d)", uint8(p))
	}
}

// Valid reports whether p is one of the declared policies.
func (p Policy) Valid() bool {
	return p <= PolicyShadowMap
}

// ParsePolicy parses a policy name. The numeric forms 0, 1 and 2 are accepted
// for none, advise and shadow.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "0":
		return PolicyNone, nil
	case "advise", "madvise", "1":
		return PolicyAdvise, nil
	case "shadow", "mmap", "2":
		return PolicyShadowMap, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (p Policy) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownPolicy, uint8(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Policy) UnmarshalText(text []byte) error {
	v, err := ParsePolicy(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// prefetch applies the policy to block [off, off+n) of r.
func (p Policy) prefetch(r Region, off, n int) error {
	switch p {
	case PolicyNone:
		return nil
	case PolicyAdvise:
		return r.AdvisePopulate(off, n)
	case PolicyShadowMap:
		return r.ShadowPopulate(off, n)
	default:
		return fmt.Errorf("%w: %d", ErrUnknownPolicy, uint8(p))
	}
}
