package service

import (
	"context"
	"time"

	"github.com/alexanderramin/timesheet/internal/domain"
)

// EntryService records and reviews time entries. Every write runs the
// work-time rules against the (user, date) buckets it touches.
type EntryService interface {
	Create(ctx context.Context, e *domain.TimeEntry) error
	// CreateBatch inserts all entries for userID or none of them.
	CreateBatch(ctx context.Context, userID string, entries []*domain.TimeEntry) error
	Update(ctx context.Context, e *domain.TimeEntry) error
	// SaveBatch updates entries that carry an id and inserts those that do
	// not, all in one transaction.
	SaveBatch(ctx context.Context, userID string, entries []*domain.TimeEntry) (*BatchResult, error)
	GetByID(ctx context.Context, userID, id string) (*domain.TimeEntry, error)
	ListRange(ctx context.Context, userID string, from, to time.Time) ([]*domain.TimeEntry, error)
	Day(ctx context.Context, userID string, date time.Time) (*domain.DaySummary, error)
	// DayOf returns the day summary for the date of the given entry.
	DayOf(ctx context.Context, userID, id string) (*domain.DaySummary, error)
	Delete(ctx context.Context, userID, id string) error
	DeleteDay(ctx context.Context, userID string, date time.Time) (int64, error)
}

type WorkTypeService interface {
	List(ctx context.Context) ([]domain.WorkType, error)
	Create(ctx context.Context, wt domain.WorkType) error
}

// BatchResult counts the rows written by SaveBatch.
type BatchResult struct {
	Created int
	Updated int
}
