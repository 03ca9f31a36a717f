package domain

import "time"

// TimeEntry is one logged work segment for a user on a single day.
type TimeEntry struct {
	ID     string
	UserID string
	Date   time.Time // UTC midnight
	Start  Clock
	End    Clock

	// Category, carried through untouched by validation.
	BizType string
	BizCode string

	Description string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DurationMin returns End - Start in minutes. Negative for mis-ordered entries.
func (e TimeEntry) DurationMin() int {
	return e.End.Minutes() - e.Start.Minutes()
}

// DateKey returns the entry's date as YYYY-MM-DD.
func (e TimeEntry) DateKey() string {
	return DateKey(e.Date)
}

// SameDay reports whether both entries fall on the same calendar date.
func (e TimeEntry) SameDay(other TimeEntry) bool {
	return e.DateKey() == other.DateKey()
}

// Range renders the entry's interval as "HH:MM-HH:MM".
func (e TimeEntry) Range() string {
	return e.Start.String() + "-" + e.End.String()
}

// DaySummary is a user's bucket of entries for one date.
type DaySummary struct {
	UserID       string
	Date         time.Time
	Entries      []*TimeEntry
	TotalMin     int
	CapMin       int
	RemainingMin int
}
