package repository

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/timesheet/internal/domain"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert collides with an existing key.
var ErrDuplicate = errors.New("already exists")

type EntryRepo interface {
	Create(ctx context.Context, e *domain.TimeEntry) error
	GetByID(ctx context.Context, userID, id string) (*domain.TimeEntry, error)
	// ListForUserDay returns the (user, date) bucket ordered by start time,
	// leaving out any entry whose id is in excludeIDs.
	ListForUserDay(ctx context.Context, userID string, date time.Time, excludeIDs ...string) ([]*domain.TimeEntry, error)
	// ListByRange returns entries with from <= date <= to, newest date first.
	ListByRange(ctx context.Context, userID string, from, to time.Time) ([]*domain.TimeEntry, error)
	Update(ctx context.Context, e *domain.TimeEntry) error
	Delete(ctx context.Context, userID, id string) error
	DeleteByDate(ctx context.Context, userID string, date time.Time) (int64, error)
}

type WorkTypeRepo interface {
	List(ctx context.Context) ([]domain.WorkType, error)
	Get(ctx context.Context, bizType, bizCode string) (*domain.WorkType, error)
	Create(ctx context.Context, wt domain.WorkType) error
}
