// Package biztime provides utilities for school-local time calculations.
// All storage and transport use UTC. The school timezone is only used for
// calendar dates (work session dates, daily report boundaries).
package biztime

import (
	"fmt"
	"sync"
	"time"
)

const (
	// DefaultTimezone is the default school timezone.
	DefaultTimezone = "Asia/Jerusalem"

	// DateLayout is the layout of calendar dates stored on work sessions.
	DateLayout = "2006-01-02"
)

var (
	bizLocation     *time.Location
	bizLocationOnce sync.Once
	initErr         error
)

// Clock returns the current instant. Commands capture it once per
// transaction so every timestamp a single command writes is identical.
type Clock func() time.Time

// Init initializes the school timezone. Should be called once at startup.
// If tz is empty, defaults to DefaultTimezone.
func Init(tz string) error {
	bizLocationOnce.Do(func() {
		if tz == "" {
			tz = DefaultTimezone
		}
		bizLocation, initErr = time.LoadLocation(tz)
	})
	return initErr
}

// MustInit initializes the school timezone and panics on error.
func MustInit(tz string) {
	if err := Init(tz); err != nil {
		panic(fmt.Sprintf("failed to initialize school timezone %q: %v", tz, err))
	}
}

// Location returns the school timezone, initializing it with the default
// when Init was never called.
func Location() *time.Location {
	if bizLocation == nil {
		if err := Init(""); err != nil {
			return time.UTC
		}
	}
	if bizLocation == nil {
		return time.UTC
	}
	return bizLocation
}

// NowUTC returns current time in UTC truncated to milliseconds, the
// resolution timestamps are stored with.
func NowUTC() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// DateString formats t as a school-local calendar date.
func DateString(t time.Time) string {
	return t.In(Location()).Format(DateLayout)
}

// StartOfDayUTC returns local midnight of t's school-local day, in UTC.
func StartOfDayUTC(t time.Time) time.Time {
	local := t.In(Location())
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, Location()).UTC()
}

// ParseDate parses a school-local calendar date and returns its start in UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t.UTC(), nil
}

// ToMillis converts t to epoch milliseconds. The zero time maps to 0.
func ToMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

// FromMillis is the inverse of ToMillis.
func FromMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}

// MillisPtr converts an optional instant for nullable columns.
func MillisPtr(t *time.Time) *int64 {
	if t == nil {
		return nil
	}
	ms := t.UnixMilli()
	return &ms
}

// TimePtr is the inverse of MillisPtr.
func TimePtr(ms *int64) *time.Time {
	if ms == nil {
		return nil
	}
	t := time.UnixMilli(*ms).UTC()
	return &t
}
