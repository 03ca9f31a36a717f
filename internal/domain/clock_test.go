package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock_Valid(t *testing.T) {
	cases := map[string]int{
		"00:00": 0,
		"09:00": 540,
		"9:05":  545,
		"12:30": 750,
		"23:59": 1439,
		"24:00": 1440,
	}
	for in, want := range cases {
		c, err := ParseClock(in)
		require.NoError(t, err, "should accept %q", in)
		assert.Equal(t, want, c.Minutes(), "minutes for %q", in)
	}
}

func TestParseClock_Malformed(t *testing.T) {
	cases := []string{"", "9", "09:5", "09-00", "ab:cd", "25:00", "24:01", "12:60", "-1:00", "123:00",
		"+9:00", "9:+5", "-0:00", "+0:+0", "09: 5", " 9:00x"}
	for _, in := range cases {
		_, err := ParseClock(in)
		require.Error(t, err, "should reject %q", in)
		assert.ErrorIs(t, err, ErrMalformedTime)
	}
}

func TestClock_StringRoundTrip(t *testing.T) {
	for m := 0; m <= MinutesPerDay; m += 7 {
		c := Clock(m)
		parsed, err := ParseClock(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, parsed)
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-05-02")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseDate("02/05/2024")
	assert.ErrorIs(t, err, ErrMalformedDate)
}

func TestTimeEntry_DurationAndRange(t *testing.T) {
	e := TimeEntry{Start: MustParseClock("09:15"), End: MustParseClock("10:45")}
	assert.Equal(t, 90, e.DurationMin())
	assert.Equal(t, "09:15-10:45", e.Range())

	backwards := TimeEntry{Start: MustParseClock("10:00"), End: MustParseClock("09:00")}
	assert.Equal(t, -60, backwards.DurationMin())
}

func TestTimeEntry_SameDay(t *testing.T) {
	loc := time.FixedZone("KST", 9*60*60)
	a := TimeEntry{Date: TruncateDate(time.Date(2024, 5, 2, 23, 30, 0, 0, loc))}
	b := TimeEntry{Date: time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)}
	c := TimeEntry{Date: time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC)}
	assert.True(t, a.SameDay(b))
	assert.False(t, a.SameDay(c))
}
