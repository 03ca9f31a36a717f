package httpapi

import (
	"fmt"

	"github.com/alexanderramin/timesheet/internal/domain"
)

// workLogJSON is the wire shape of a time entry.
type workLogJSON struct {
	ID          string `json:"id,omitempty"`
	UserID      string `json:"userId,omitempty"`
	Date        string `json:"date"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	BizType     string `json:"bizType,omitempty"`
	BizCode     string `json:"bizCode,omitempty"`
	Description string `json:"description"`
	DurationMin int    `json:"durationMin"`
}

type batchRequest struct {
	UserID   string        `json:"userId"`
	WorkLogs []workLogJSON `json:"workLogs"`
}

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type workLogResponse struct {
	envelope
	WorkLog workLogJSON `json:"workLog"`
}

type workLogsResponse struct {
	envelope
	WorkLogs []workLogJSON `json:"workLogs"`
	TotalMin int           `json:"totalMin"`
}

type dayResponse struct {
	envelope
	Date         string        `json:"date"`
	WorkLogs     []workLogJSON `json:"workLogs"`
	TotalMin     int           `json:"totalMin"`
	CapMin       int           `json:"capMin"`
	RemainingMin int           `json:"remainingMin"`
}

type batchResponse struct {
	envelope
	Created  int           `json:"created"`
	Updated  int           `json:"updated"`
	WorkLogs []workLogJSON `json:"workLogs"`
}

type deleteDayResponse struct {
	envelope
	Deleted int64 `json:"deleted"`
}

type workTypeJSON struct {
	BizType string `json:"bizType"`
	BizCode string `json:"bizCode"`
	BizName string `json:"bizName"`
}

type workTypesResponse struct {
	envelope
	WorkTypes []workTypeJSON `json:"workTypes"`
}

func toWorkLogJSON(e *domain.TimeEntry) workLogJSON {
	return workLogJSON{
		ID:          e.ID,
		UserID:      e.UserID,
		Date:        e.DateKey(),
		StartTime:   e.Start.String(),
		EndTime:     e.End.String(),
		BizType:     e.BizType,
		BizCode:     e.BizCode,
		Description: e.Description,
		DurationMin: e.DurationMin(),
	}
}

func toWorkLogsJSON(entries []*domain.TimeEntry) []workLogJSON {
	out := make([]workLogJSON, len(entries))
	for i, e := range entries {
		out[i] = toWorkLogJSON(e)
	}
	return out
}

// toEntry parses the wire form. Malformed dates and times surface as
// domain.ErrMalformedDate / domain.ErrMalformedTime.
func (w workLogJSON) toEntry(userID string) (*domain.TimeEntry, error) {
	date, err := domain.ParseDate(w.Date)
	if err != nil {
		return nil, fmt.Errorf("date: %w", err)
	}
	start, err := domain.ParseClock(w.StartTime)
	if err != nil {
		return nil, fmt.Errorf("start_time: %w", err)
	}
	end, err := domain.ParseClock(w.EndTime)
	if err != nil {
		return nil, fmt.Errorf("end_time: %w", err)
	}
	return &domain.TimeEntry{
		ID:          w.ID,
		UserID:      userID,
		Date:        date,
		Start:       start,
		End:         end,
		BizType:     w.BizType,
		BizCode:     w.BizCode,
		Description: w.Description,
	}, nil
}

func (b batchRequest) toEntries() ([]*domain.TimeEntry, error) {
	entries := make([]*domain.TimeEntry, len(b.WorkLogs))
	for i, w := range b.WorkLogs {
		e, err := w.toEntry(b.UserID)
		if err != nil {
			return nil, fmt.Errorf("work log %d: %w", i+1, err)
		}
		entries[i] = e
	}
	return entries, nil
}
