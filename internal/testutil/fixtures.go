package testutil

import (
	"time"

	"github.com/alexanderramin/timesheet/internal/domain"
	"github.com/google/uuid"
)

// TestDate is a fixed working day used across fixtures.
var TestDate = time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)

// Entry options
type EntryOption func(*domain.TimeEntry)

func WithDate(d time.Time) EntryOption {
	return func(e *domain.TimeEntry) {
		e.Date = domain.TruncateDate(d)
	}
}

func WithCategory(bizType, bizCode string) EntryOption {
	return func(e *domain.TimeEntry) {
		e.BizType = bizType
		e.BizCode = bizCode
	}
}

func WithDescription(s string) EntryOption {
	return func(e *domain.TimeEntry) {
		e.Description = s
	}
}

func WithID(id string) EntryOption {
	return func(e *domain.TimeEntry) {
		e.ID = id
	}
}

// NewTestEntry builds a persisted-looking entry on TestDate. start and end
// are "HH:MM" literals.
func NewTestEntry(userID, start, end string, opts ...EntryOption) *domain.TimeEntry {
	now := time.Now().UTC().Truncate(time.Second)
	e := &domain.TimeEntry{
		ID:          uuid.New().String(),
		UserID:      userID,
		Date:        TestDate,
		Start:       domain.MustParseClock(start),
		End:         domain.MustParseClock(end),
		BizType:     "DEV",
		BizCode:     "D01",
		Description: "test work",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewCandidate is NewTestEntry without an id, as a not-yet-persisted submission.
func NewCandidate(userID, start, end string, opts ...EntryOption) *domain.TimeEntry {
	e := NewTestEntry(userID, start, end, opts...)
	e.ID = ""
	return e
}
