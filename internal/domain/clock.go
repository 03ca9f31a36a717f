package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the canonical calendar-date format used in storage and on the wire.
const DateLayout = "2006-01-02"

// MinutesPerDay bounds a Clock; 24:00 is accepted as an end-of-day marker.
const MinutesPerDay = 24 * 60

var (
	// ErrMalformedTime indicates a time-of-day string that is not HH:MM.
	ErrMalformedTime = errors.New("malformed time of day")

	// ErrMalformedDate indicates a date string that is not YYYY-MM-DD.
	ErrMalformedDate = errors.New("malformed date")
)

// Clock is a time of day with minute resolution, stored as minutes since midnight.
type Clock int

// NewClock builds a Clock from hour and minute components without validation.
func NewClock(hour, minute int) Clock {
	return Clock(hour*60 + minute)
}

// ParseClock parses an "HH:MM" string. Hours run 00-23, plus the literal 24:00.
func ParseClock(s string) (Clock, error) {
	s = strings.TrimSpace(s)
	hh, mm, ok := strings.Cut(s, ":")
	if !ok || len(mm) != 2 || len(hh) == 0 || len(hh) > 2 || !allDigits(hh) || !allDigits(mm) {
		return 0, fmt.Errorf("%q (expected HH:MM): %w", s, ErrMalformedTime)
	}
	h, err := strconv.Atoi(hh)
	if err != nil {
		return 0, fmt.Errorf("%q (expected HH:MM): %w", s, ErrMalformedTime)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m > 59 {
		return 0, fmt.Errorf("%q (expected HH:MM): %w", s, ErrMalformedTime)
	}
	c := NewClock(h, m)
	if c > MinutesPerDay {
		return 0, fmt.Errorf("%q is past end of day: %w", s, ErrMalformedTime)
	}
	return c, nil
}

// allDigits reports whether s is made only of ASCII digits. Atoi alone would
// let signs through.
func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// MustParseClock is ParseClock for literals; it panics on malformed input.
func MustParseClock(s string) Clock {
	c, err := ParseClock(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Hour returns the hour component.
func (c Clock) Hour() int { return int(c) / 60 }

// Minute returns the minute component.
func (c Clock) Minute() int { return int(c) % 60 }

// Minutes returns minutes since midnight.
func (c Clock) Minutes() int { return int(c) }

// String renders the clock as zero-padded HH:MM.
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

// ParseDate parses a YYYY-MM-DD date into a UTC midnight time.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%q (expected YYYY-MM-DD): %w", s, ErrMalformedDate)
	}
	return d, nil
}

// TruncateDate drops the time-of-day part, keeping the calendar date of t in
// its own location, and returns it as UTC midnight.
func TruncateDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DateKey formats a date in DateLayout.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}
