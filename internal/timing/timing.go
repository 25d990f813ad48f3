// Package timing parses the ISO-8601 timestamps written to event logs and
// derives durations between them.
package timing

import (
	"math"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

// ErrBadTimestamp is returned for strings in no supported layout.
var ErrBadTimestamp = errors.New("unrecognised timestamp")

var zonedLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02 15:04:05.999999999Z07:00",
}

var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTimestamp accepts ISO-8601 timestamps with or without a zone. A
// trailing Z means UTC; timestamps without a zone are read as local time.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.Wrap(ErrBadTimestamp, "empty")
	}

	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}

	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}

	return time.Time{}, errors.Wrapf(ErrBadTimestamp, "%q", s)
}

// Duration is the elapsed time between two log timestamps.
type Duration struct {
	Seconds float64
	Minutes float64
	Elapsed time.Duration
}

// Between computes end minus start. It returns false when either timestamp
// does not parse.
func Between(start, end string) (Duration, bool) {
	startAt, err := ParseTimestamp(start)
	if err != nil {
		return Duration{}, false
	}

	endAt, err := ParseTimestamp(end)
	if err != nil {
		return Duration{}, false
	}

	elapsed := endAt.Sub(startAt)
	seconds := Round2(elapsed.Seconds())

	return Duration{
		Seconds: seconds,
		Minutes: Round2(seconds / 60),
		Elapsed: elapsed,
	}, true
}

// Round2 rounds half away from zero to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
