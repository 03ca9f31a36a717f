package service

import (
	"slices"
	"sync"
	"time"

	"github.com/alexanderramin/timesheet/internal/domain"
)

// DayLocker hands out one mutex per (user, date) key. Entries are reference
// counted and dropped once nobody holds or waits on them.
type DayLocker struct {
	mu    sync.Mutex
	locks map[string]*dayLock
}

type dayLock struct {
	mu   sync.Mutex
	refs int
}

func NewDayLocker() *DayLocker {
	return &DayLocker{locks: make(map[string]*dayLock)}
}

// DayKey identifies a user's bucket for one date.
func DayKey(userID string, date time.Time) string {
	return userID + "|" + domain.DateKey(date)
}

// Lock acquires every key, in sorted order so that two callers locking
// overlapping sets cannot deadlock. The returned func releases them all.
func (l *DayLocker) Lock(keys ...string) (unlock func()) {
	sorted := slices.Clone(keys)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	held := make([]*dayLock, 0, len(sorted))
	for _, key := range sorted {
		dl := l.acquire(key)
		dl.mu.Lock()
		held = append(held, dl)
	}

	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].mu.Unlock()
			l.release(sorted[i])
		}
	}
}

// Held reports how many keys currently have holders or waiters.
func (l *DayLocker) Held() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}

func (l *DayLocker) acquire(key string) *dayLock {
	l.mu.Lock()
	defer l.mu.Unlock()
	dl, ok := l.locks[key]
	if !ok {
		dl = &dayLock{}
		l.locks[key] = dl
	}
	dl.refs++
	return dl
}

func (l *DayLocker) release(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	dl := l.locks[key]
	dl.refs--
	if dl.refs == 0 {
		delete(l.locks, key)
	}
}
