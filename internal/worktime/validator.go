// Package worktime holds the rules that decide whether a user's time entries
// for a day are acceptable: start/end ordering, no overlapping intervals, and a
// cap on the day's total minutes. Everything here is pure; callers load the
// existing entries for a (user, date) bucket and persist on success.
package worktime

import (
	"fmt"

	"github.com/alexanderramin/timesheet/internal/domain"
)

// DefaultCapMinutes is the daily cap applied when none is configured (9 hours).
const DefaultCapMinutes = 9 * 60

// ValidateOrdering fails when start is after end. Equal times are accepted as
// a zero-length entry.
func ValidateOrdering(start, end domain.Clock) Result {
	if start > end {
		return fail(KindInvalidOrdering,
			fmt.Sprintf("end time %s is before start time %s", end, start))
	}
	return ok()
}

// TotalMinutes sums End - Start over entries.
func TotalMinutes(entries []domain.TimeEntry) int {
	total := 0
	for _, e := range entries {
		total += e.DurationMin()
	}
	return total
}

// ValidateDailyCap checks that existing plus the candidate interval stays
// within capMinutes. existing must already exclude the entry being edited.
func ValidateDailyCap(existing []domain.TimeEntry, start, end domain.Clock, capMinutes int) Result {
	existingMin := TotalMinutes(existing)
	candidateMin := end.Minutes() - start.Minutes()
	total := existingMin + candidateMin
	if total > capMinutes {
		return fail(KindDailyCapExceeded, fmt.Sprintf(
			"total work time would be %sh, exceeding the daily limit of %sh (existing %sh + new %sh)",
			FormatMinutesAsHours(total),
			FormatMinutesAsHours(capMinutes),
			FormatMinutesAsHours(existingMin),
			FormatMinutesAsHours(candidateMin),
		))
	}
	return ok()
}

// IntervalsOverlap reports whether [aStart, aEnd) and [bStart, bEnd) intersect.
// Touching intervals (one ends where the other begins) do not overlap.
func IntervalsOverlap(aStart, aEnd, bStart, bEnd domain.Clock) bool {
	return aStart < bEnd && aEnd > bStart
}

// ValidateNoOverlap scans existing in order and reports the first entry whose
// interval intersects the candidate.
func ValidateNoOverlap(existing []domain.TimeEntry, start, end domain.Clock) Result {
	for _, e := range existing {
		if IntervalsOverlap(start, end, e.Start, e.End) {
			return fail(KindOverlapDetected, fmt.Sprintf(
				"time range %s-%s overlaps existing entry %s",
				start, end, e.Range(),
			))
		}
	}
	return ok()
}

// ValidateBatch checks not-yet-persisted candidates against each other. Pairs
// are visited by increasing i, then increasing j, and only pairs sharing a date
// are compared. The daily cap is not checked here.
func ValidateBatch(candidates []domain.TimeEntry) Result {
	for i := 0; i < len(candidates); i++ {
		a := candidates[i]
		for j := i + 1; j < len(candidates); j++ {
			b := candidates[j]
			if !a.SameDay(b) {
				continue
			}
			if IntervalsOverlap(a.Start, a.End, b.Start, b.End) {
				return fail(KindOverlapDetected, fmt.Sprintf(
					"time range %s overlaps %s on %s",
					a.Range(), b.Range(), a.DateKey(),
				))
			}
		}
	}
	return ok()
}

// Validator applies the composite protocols with a configured daily cap.
// The zero value is not usable; construct with New.
type Validator struct {
	capMinutes int
}

// New returns a Validator with the given cap. Non-positive caps fall back to
// DefaultCapMinutes.
func New(capMinutes int) *Validator {
	if capMinutes <= 0 {
		capMinutes = DefaultCapMinutes
	}
	return &Validator{capMinutes: capMinutes}
}

// CapMinutes returns the configured daily cap.
func (v *Validator) CapMinutes() int {
	return v.capMinutes
}

// DailyCap runs ValidateDailyCap with the configured cap.
func (v *Validator) DailyCap(existing []domain.TimeEntry, start, end domain.Clock) Result {
	return ValidateDailyCap(existing, start, end, v.capMinutes)
}

// ValidateEntry checks one new or edited entry against the persisted entries
// of its (user, date) bucket: ordering, then overlap, then the daily cap.
// Overlap goes before the cap since overlapping minutes would be counted twice.
func (v *Validator) ValidateEntry(existing []domain.TimeEntry, start, end domain.Clock) Result {
	if r := ValidateOrdering(start, end); !r.Valid() {
		return r
	}
	if r := ValidateNoOverlap(existing, start, end); !r.Valid() {
		return r
	}
	return v.DailyCap(existing, start, end)
}

// ValidateSubmission checks a batch submitted together before persistence:
// per-entry ordering, pairwise overlap within the batch, then each date's
// batch total against the cap. The first failure rejects the whole batch.
func (v *Validator) ValidateSubmission(candidates []domain.TimeEntry) Result {
	for _, c := range candidates {
		if r := ValidateOrdering(c.Start, c.End); !r.Valid() {
			return r
		}
	}
	if r := ValidateBatch(candidates); !r.Valid() {
		return r
	}
	for _, day := range GroupByDate(candidates) {
		total := TotalMinutes(day.Entries)
		if total > v.capMinutes {
			return fail(KindDailyCapExceeded, fmt.Sprintf(
				"entries for %s total %sh, exceeding the daily limit of %sh",
				day.Key, FormatMinutesAsHours(total), FormatMinutesAsHours(v.capMinutes),
			))
		}
	}
	return ok()
}

// Remaining returns how many minutes are still available under the cap given
// the existing entries. Never negative.
func (v *Validator) Remaining(existing []domain.TimeEntry) int {
	left := v.capMinutes - TotalMinutes(existing)
	if left < 0 {
		return 0
	}
	return left
}

// DateGroup is the subset of a batch falling on one date.
type DateGroup[E Dated] struct {
	Key     string
	Entries []E
}

// Dated is anything that knows its calendar date; domain.TimeEntry and
// *domain.TimeEntry both qualify.
type Dated interface {
	DateKey() string
}

// GroupByDate splits entries by date, keeping first-seen date order and the
// original order within each date.
func GroupByDate[E Dated](entries []E) []DateGroup[E] {
	var groups []DateGroup[E]
	index := make(map[string]int)
	for _, e := range entries {
		key := e.DateKey()
		i, seen := index[key]
		if !seen {
			i = len(groups)
			index[key] = i
			groups = append(groups, DateGroup[E]{Key: key})
		}
		groups[i].Entries = append(groups[i].Entries, e)
	}
	return groups
}
