package query

import (
	"fmt"
	"strings"
)

// Policy decides which settlements are applied when submissions overlap.
type Policy int

const (
	// PolicySupersede applies only the settlement of the newest
	// submission. Older ones still settle their futures and backfill
	// their history entry, but leave Results, Error and IsLoading alone.
	PolicySupersede Policy = iota

	// PolicyLastWriteWins applies every settlement as it lands, so the
	// displayed result is whichever query finished last.
	PolicyLastWriteWins
)

// String returns the config name of the policy.
func (p Policy) String() string {
	switch p {
	case PolicySupersede:
		return "supersede"
	case PolicyLastWriteWins:
		return "last-write-wins"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// ParsePolicy converts a config name to a Policy. Empty means supersede.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "supersede":
		return PolicySupersede, nil
	case "last-write-wins", "lww":
		return PolicyLastWriteWins, nil
	default:
		return 0, fmt.Errorf("unknown policy %q (expected supersede or last-write-wins)", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (p Policy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler so config decoding can
// read policy names directly.
func (p *Policy) UnmarshalText(text []byte) error {
	parsed, err := ParsePolicy(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
