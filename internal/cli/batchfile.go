package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/alexanderramin/timesheet/internal/domain"
	"gopkg.in/yaml.v3"
)

// batchFile is the YAML layout read by `submit` and `check`:
//
//	user: kim
//	entries:
//	  - date: "2024-05-02"
//	    start: "09:00"
//	    end: "12:00"
//	    type: DEV
//	    code: D01
//	    desc: planning
//
// Entries carrying an id update that entry; the rest are inserted.
type batchFile struct {
	User    string           `yaml:"user"`
	Entries []batchFileEntry `yaml:"entries"`
}

type batchFileEntry struct {
	ID    string `yaml:"id"`
	Date  string `yaml:"date"`
	Start string `yaml:"start"`
	End   string `yaml:"end"`
	Type  string `yaml:"type"`
	Code  string `yaml:"code"`
	Desc  string `yaml:"desc"`
}

// readBatch loads a batch from path, or from stdin when path is "-".
// The file's user wins over fallbackUser.
func readBatch(path string, stdin io.Reader, fallbackUser string) (string, []*domain.TimeEntry, error) {
	var r io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return "", nil, fmt.Errorf("opening batch file: %w", err)
		}
		defer f.Close()
		r = f
	}

	var bf batchFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&bf); err != nil && !errors.Is(err, io.EOF) {
		return "", nil, fmt.Errorf("parsing batch file %s: %w", path, err)
	}

	userID := bf.User
	if userID == "" {
		userID = fallbackUser
	}
	entries := make([]*domain.TimeEntry, 0, len(bf.Entries))
	for i, raw := range bf.Entries {
		e, err := raw.toEntry(userID)
		if err != nil {
			return "", nil, fmt.Errorf("entry %d: %w", i+1, err)
		}
		entries = append(entries, e)
	}
	return userID, entries, nil
}

func (b batchFileEntry) toEntry(userID string) (*domain.TimeEntry, error) {
	date, err := domain.ParseDate(b.Date)
	if err != nil {
		return nil, fmt.Errorf("date: %w", err)
	}
	start, err := domain.ParseClock(b.Start)
	if err != nil {
		return nil, fmt.Errorf("start: %w", err)
	}
	end, err := domain.ParseClock(b.End)
	if err != nil {
		return nil, fmt.Errorf("end: %w", err)
	}
	return &domain.TimeEntry{
		ID:          b.ID,
		UserID:      userID,
		Date:        date,
		Start:       start,
		End:         end,
		BizType:     b.Type,
		BizCode:     b.Code,
		Description: b.Desc,
	}, nil
}
