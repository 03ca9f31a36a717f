package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/alexanderramin/timesheet/internal/db"
	"github.com/alexanderramin/timesheet/internal/domain"
	"github.com/alexanderramin/timesheet/internal/repository"
	"github.com/alexanderramin/timesheet/internal/worktime"
	"github.com/google/uuid"
)

type entryService struct {
	entries   repository.EntryRepo
	uow       db.UnitOfWork
	dialect   db.Dialect
	validator *worktime.Validator
	locks     *DayLocker
	observer  UseCaseObserver
	now       func() time.Time
}

func NewEntryService(
	entries repository.EntryRepo,
	uow db.UnitOfWork,
	dialect db.Dialect,
	validator *worktime.Validator,
	observers ...UseCaseObserver,
) EntryService {
	if validator == nil {
		validator = worktime.New(worktime.DefaultCapMinutes)
	}
	return &entryService{
		entries:   entries,
		uow:       uow,
		dialect:   dialect,
		validator: validator,
		locks:     NewDayLocker(),
		observer:  useCaseObserverOrNoop(observers),
		now:       func() time.Time { return time.Now().UTC().Truncate(time.Second) },
	}
}

func (s *entryService) Create(ctx context.Context, e *domain.TimeEntry) (err error) {
	if e == nil {
		return fmt.Errorf("%w: entry is required", ErrInvalidInput)
	}
	defer s.observe(ctx, "create-entry", e.UserID, time.Now(), map[string]any{"date": e.DateKey()}, &err)

	if e.ID != "" {
		return fmt.Errorf("%w: new entry must not carry an id", ErrInvalidInput)
	}
	_, err = s.save(ctx, e.UserID, []*domain.TimeEntry{e})
	return err
}

func (s *entryService) CreateBatch(ctx context.Context, userID string, entries []*domain.TimeEntry) (err error) {
	defer s.observe(ctx, "create-batch", userID, time.Now(), map[string]any{"count": len(entries)}, &err)

	for i, e := range entries {
		if e != nil && e.ID != "" {
			return fmt.Errorf("%w: entry %d: new entry must not carry an id", ErrInvalidInput, i+1)
		}
	}
	_, err = s.save(ctx, userID, entries)
	return err
}

func (s *entryService) Update(ctx context.Context, e *domain.TimeEntry) (err error) {
	if e == nil {
		return fmt.Errorf("%w: entry is required", ErrInvalidInput)
	}
	defer s.observe(ctx, "update-entry", e.UserID, time.Now(), map[string]any{"id": e.ID, "date": e.DateKey()}, &err)

	if e.ID == "" {
		return fmt.Errorf("%w: entry id is required", ErrInvalidInput)
	}
	_, err = s.save(ctx, e.UserID, []*domain.TimeEntry{e})
	return err
}

func (s *entryService) SaveBatch(ctx context.Context, userID string, entries []*domain.TimeEntry) (res *BatchResult, err error) {
	fields := map[string]any{"count": len(entries)}
	defer s.observe(ctx, "save-batch", userID, time.Now(), fields, &err)

	res, err = s.save(ctx, userID, entries)
	if res != nil {
		fields["created"] = res.Created
		fields["updated"] = res.Updated
	}
	return res, err
}

// save is the shared write path. Candidates are checked against each other
// first, then, under the day locks and inside one transaction, each against
// the persisted entries of its date plus the siblings accepted before it.
// Nothing is written unless every candidate passes.
func (s *entryService) save(ctx context.Context, userID string, entries []*domain.TimeEntry) (*BatchResult, error) {
	if err := normalizeBatch(userID, entries); err != nil {
		return nil, err
	}

	candidates := make([]domain.TimeEntry, len(entries))
	for i, e := range entries {
		candidates[i] = *e
	}
	if r := s.validator.ValidateSubmission(candidates); !r.Valid() {
		return nil, rejected(r)
	}

	var updateIDs []string
	for _, e := range entries {
		if e.ID != "" {
			updateIDs = append(updateIDs, e.ID)
		}
	}

	// Moving an entry off a date only shrinks that date, so only the target
	// dates need to be held.
	keys := make([]string, len(entries))
	for i, e := range entries {
		keys[i] = DayKey(userID, e.Date)
	}
	unlock := s.locks.Lock(keys...)
	defer unlock()

	res := &BatchResult{}
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txEntries := repository.NewSQLEntryRepo(tx, s.dialect)

		created := make(map[string]time.Time, len(updateIDs))
		for _, id := range updateIDs {
			current, err := txEntries.GetByID(ctx, userID, id)
			if err != nil {
				return fmt.Errorf("loading entry %s: %w", id, err)
			}
			created[id] = current.CreatedAt
		}

		for _, day := range worktime.GroupByDate(entries) {
			persisted, err := txEntries.ListForUserDay(ctx, userID, day.Entries[0].Date, updateIDs...)
			if err != nil {
				return err
			}
			existing := make([]domain.TimeEntry, 0, len(persisted)+len(day.Entries))
			for _, p := range persisted {
				existing = append(existing, *p)
			}
			for _, e := range day.Entries {
				if r := s.validator.ValidateEntry(existing, e.Start, e.End); !r.Valid() {
					return rejected(r)
				}
				existing = append(existing, *e)
			}
		}

		now := s.now()
		for _, e := range entries {
			if e.ID == "" {
				e.ID = uuid.New().String()
				e.CreatedAt = now
				e.UpdatedAt = now
				if err := txEntries.Create(ctx, e); err != nil {
					return err
				}
				res.Created++
				continue
			}
			e.CreatedAt = created[e.ID]
			e.UpdatedAt = now
			if err := txEntries.Update(ctx, e); err != nil {
				return err
			}
			res.Updated++
		}
		return nil
	})
	if err != nil {
		// Inserts keep their caller-supplied shape when nothing was written.
		for _, e := range entries {
			if !slices.Contains(updateIDs, e.ID) {
				e.ID = ""
			}
		}
		return nil, err
	}
	return res, nil
}

func (s *entryService) GetByID(ctx context.Context, userID, id string) (*domain.TimeEntry, error) {
	return s.entries.GetByID(ctx, userID, id)
}

func (s *entryService) ListRange(ctx context.Context, userID string, from, to time.Time) ([]*domain.TimeEntry, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	from, to = domain.TruncateDate(from), domain.TruncateDate(to)
	if to.Before(from) {
		return nil, fmt.Errorf("%w: range end %s is before start %s", ErrInvalidInput, domain.DateKey(to), domain.DateKey(from))
	}
	return s.entries.ListByRange(ctx, userID, from, to)
}

func (s *entryService) Day(ctx context.Context, userID string, date time.Time) (*domain.DaySummary, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	date = domain.TruncateDate(date)
	list, err := s.entries.ListForUserDay(ctx, userID, date)
	if err != nil {
		return nil, err
	}
	values := make([]domain.TimeEntry, len(list))
	for i, e := range list {
		values[i] = *e
	}
	return &domain.DaySummary{
		UserID:       userID,
		Date:         date,
		Entries:      list,
		TotalMin:     worktime.TotalMinutes(values),
		CapMin:       s.validator.CapMinutes(),
		RemainingMin: s.validator.Remaining(values),
	}, nil
}

func (s *entryService) DayOf(ctx context.Context, userID, id string) (*domain.DaySummary, error) {
	e, err := s.entries.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return s.Day(ctx, userID, e.Date)
}

func (s *entryService) Delete(ctx context.Context, userID, id string) (err error) {
	defer s.observe(ctx, "delete-entry", userID, time.Now(), map[string]any{"id": id}, &err)
	return s.entries.Delete(ctx, userID, id)
}

func (s *entryService) DeleteDay(ctx context.Context, userID string, date time.Time) (n int64, err error) {
	fields := map[string]any{"date": domain.DateKey(date)}
	defer s.observe(ctx, "delete-day", userID, time.Now(), fields, &err)

	if userID == "" {
		return 0, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	n, err = s.entries.DeleteByDate(ctx, userID, domain.TruncateDate(date))
	if err != nil {
		return 0, err
	}
	fields["deleted"] = n
	if n == 0 {
		return 0, fmt.Errorf("no entries on %s: %w", domain.DateKey(date), repository.ErrNotFound)
	}
	return n, nil
}

func (s *entryService) observe(ctx context.Context, name, userID string, startedAt time.Time, fields map[string]any, errp *error) {
	err := *errp
	s.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      name,
		UserID:    userID,
		StartedAt: startedAt,
		Duration:  time.Since(startedAt),
		Success:   err == nil,
		Err:       err,
		Fields:    fields,
	})
}

// normalizeBatch stamps the owner on every entry and rejects shapes the
// storage layer cannot hold.
func normalizeBatch(userID string, entries []*domain.TimeEntry) error {
	if userID == "" {
		return fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if len(entries) == 0 {
		return fmt.Errorf("%w: no entries submitted", ErrInvalidInput)
	}
	seen := make(map[string]bool, len(entries))
	for i, e := range entries {
		if e == nil {
			return fmt.Errorf("%w: entry %d is empty", ErrInvalidInput, i+1)
		}
		if e.UserID != "" && e.UserID != userID {
			return fmt.Errorf("%w: entry %d belongs to another user", ErrInvalidInput, i+1)
		}
		if e.Date.IsZero() {
			return fmt.Errorf("%w: entry %d has no date", ErrInvalidInput, i+1)
		}
		if e.Start < 0 || e.End < 0 || e.Start > domain.MinutesPerDay || e.End > domain.MinutesPerDay {
			return fmt.Errorf("%w: entry %d: %w", ErrInvalidInput, i+1, domain.ErrMalformedTime)
		}
		if e.ID != "" {
			if seen[e.ID] {
				return fmt.Errorf("%w: entry %s submitted twice", ErrInvalidInput, e.ID)
			}
			seen[e.ID] = true
		}
		e.UserID = userID
		e.Date = domain.TruncateDate(e.Date)
	}
	return nil
}

// IsNotFound reports whether err means the requested entry or day is absent.
func IsNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}
