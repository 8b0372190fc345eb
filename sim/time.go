package sim

import (
	"fmt"
	"strconv"
	"strings"
)

// VTime is the time in the simulated world, counted in picoseconds.
type VTime uint64

// Time units.
const (
	PS  VTime = 1
	NS  VTime = 1000 * PS
	US  VTime = 1000 * NS
	MS  VTime = 1000 * US
	Sec VTime = 1000 * MS
)

var timeUnits = []struct {
	suffix string
	unit   VTime
}{
	{"s", Sec},
	{"ms", MS},
	{"us", US},
	{"ns", NS},
	{"ps", PS},
}

// String renders the time in the largest unit that represents it exactly.
func (t VTime) String() string {
	if t == 0 {
		return "0s"
	}

	for _, u := range timeUnits {
		if t%u.unit == 0 {
			return strconv.FormatUint(uint64(t/u.unit), 10) + u.suffix
		}
	}

	panic("never")
}

// InSec converts the time to seconds.
func (t VTime) InSec() float64 {
	return float64(t) / float64(Sec)
}

// ParseVTime parses strings like "50ns" or "1us". A bare number is taken as
// picoseconds.
func ParseVTime(s string) (VTime, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty time value")
	}

	numEnd := 0
	for numEnd < len(s) && s[numEnd] >= '0' && s[numEnd] <= '9' {
		numEnd++
	}

	if numEnd == 0 {
		return 0, fmt.Errorf("invalid time value %q", s)
	}

	n, err := strconv.ParseUint(s[:numEnd], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid time value %q: %w", s, err)
	}

	suffix := strings.TrimSpace(s[numEnd:])
	if suffix == "" {
		return VTime(n), nil
	}

	for _, u := range timeUnits {
		if suffix == u.suffix {
			return VTime(n) * u.unit, nil
		}
	}

	return 0, fmt.Errorf("unknown time unit %q in %q", suffix, s)
}
