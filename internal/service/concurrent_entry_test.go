package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/alexanderramin/timesheet/internal/db"
	"github.com/alexanderramin/timesheet/internal/domain"
	"github.com/alexanderramin/timesheet/internal/repository"
	"github.com/alexanderramin/timesheet/internal/testutil"
	"github.com/alexanderramin/timesheet/internal/worktime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupConcurrentEntryService(t *testing.T) (EntryService, *repository.SQLEntryRepo) {
	t.Helper()
	database := testutil.NewFileTestDB(t)
	repo := repository.NewSQLEntryRepo(database, db.DialectSQLite)
	return NewEntryService(repo, testutil.NewTestUoW(database), db.DialectSQLite, worktime.New(0)), repo
}

// TestConcurrentCreate_CapHolds fires twelve disjoint one-hour submissions at
// the same day. Exactly nine fit under a nine-hour cap no matter how they
// interleave.
func TestConcurrentCreate_CapHolds(t *testing.T) {
	svc, repo := setupConcurrentEntryService(t)
	ctx := context.Background()

	var accepted, capped atomic.Int32
	var wg sync.WaitGroup
	for h := 6; h < 18; h++ {
		wg.Add(1)
		go func(hour int) {
			defer wg.Done()
			start := domain.NewClock(hour, 0)
			e := testutil.NewCandidate("kim", start.String(), (start + 60).String())
			err := svc.Create(ctx, e)
			var verr *ValidationError
			switch {
			case err == nil:
				accepted.Add(1)
			case errors.As(err, &verr) && verr.Kind() == worktime.KindDailyCapExceeded:
				capped.Add(1)
			default:
				t.Errorf("hour %d: unexpected error: %v", hour, err)
			}
		}(h)
	}
	wg.Wait()

	assert.EqualValues(t, 9, accepted.Load())
	assert.EqualValues(t, 3, capped.Load())

	summary, err := svc.Day(ctx, "kim", testutil.TestDate)
	require.NoError(t, err)
	assert.Equal(t, 540, summary.TotalMin)
	assert.Equal(t, 0, summary.RemainingMin)

	list, err := repo.ListForUserDay(ctx, "kim", testutil.TestDate)
	require.NoError(t, err)
	assert.Len(t, list, 9)
}

// TestConcurrentCreate_SameSlotOnce submits the same interval from several
// goroutines; only one may win.
func TestConcurrentCreate_SameSlotOnce(t *testing.T) {
	svc, repo := setupConcurrentEntryService(t)
	ctx := context.Background()

	var accepted, overlapped atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := svc.Create(ctx, testutil.NewCandidate("kim", "09:00", "10:00"))
			var verr *ValidationError
			switch {
			case err == nil:
				accepted.Add(1)
			case errors.As(err, &verr) && verr.Kind() == worktime.KindOverlapDetected:
				overlapped.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, accepted.Load())
	assert.EqualValues(t, 7, overlapped.Load())

	list, err := repo.ListForUserDay(ctx, "kim", testutil.TestDate)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

// TestConcurrentCreate_DifferentUsersDoNotBlock checks that buckets of
// different users fill independently.
func TestConcurrentCreate_DifferentUsersDoNotBlock(t *testing.T) {
	svc, _ := setupConcurrentEntryService(t)
	ctx := context.Background()

	users := []string{"kim", "lee", "park"}
	var wg sync.WaitGroup
	for _, user := range users {
		for h := 9; h < 12; h++ {
			wg.Add(1)
			go func(user string, hour int) {
				defer wg.Done()
				start := domain.NewClock(hour, 0)
				if err := svc.Create(ctx, testutil.NewCandidate(user, start.String(), (start + 60).String())); err != nil {
					t.Errorf("%s at %d: %v", user, hour, err)
				}
			}(user, h)
		}
	}
	wg.Wait()

	for _, user := range users {
		summary, err := svc.Day(ctx, user, testutil.TestDate)
		require.NoError(t, err)
		assert.Equal(t, 180, summary.TotalMin, user)
	}
}
