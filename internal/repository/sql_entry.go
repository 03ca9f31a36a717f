package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/timesheet/internal/db"
	"github.com/alexanderramin/timesheet/internal/domain"
)

const entryColumns = `id, user_id, work_date, start_min, end_min, biz_type, biz_code, description, created_at, updated_at`

// SQLEntryRepo implements EntryRepo on database/sql. Queries are portable
// across the sqlite and mysql dialects.
type SQLEntryRepo struct {
	db      db.DBTX
	dialect db.Dialect
}

// NewSQLEntryRepo creates a new SQLEntryRepo.
func NewSQLEntryRepo(conn db.DBTX, dialect db.Dialect) *SQLEntryRepo {
	return &SQLEntryRepo{db: conn, dialect: dialect}
}

func (r *SQLEntryRepo) Create(ctx context.Context, e *domain.TimeEntry) error {
	query := `INSERT INTO time_entries (` + entryColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		e.ID,
		e.UserID,
		e.DateKey(),
		e.Start.Minutes(),
		e.End.Minutes(),
		e.BizType,
		e.BizCode,
		e.Description,
		formatTime(e.CreatedAt),
		formatTime(e.UpdatedAt),
	)
	if err != nil {
		if isDuplicateKey(err) {
			return fmt.Errorf("time entry %s: %w", e.ID, ErrDuplicate)
		}
		return fmt.Errorf("inserting time entry: %w", err)
	}
	return nil
}

func (r *SQLEntryRepo) GetByID(ctx context.Context, userID, id string) (*domain.TimeEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM time_entries WHERE id = ? AND user_id = ?`
	row := r.db.QueryRowContext(ctx, query, id, userID)
	return r.scanEntry(row)
}

func (r *SQLEntryRepo) ListForUserDay(ctx context.Context, userID string, date time.Time, excludeIDs ...string) ([]*domain.TimeEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM time_entries WHERE user_id = ? AND work_date = ?`
	args := []any{userID, domain.DateKey(date)}
	if len(excludeIDs) > 0 {
		query += ` AND id NOT IN (` + placeholders(len(excludeIDs)) + `)`
		for _, id := range excludeIDs {
			args = append(args, id)
		}
	}
	query += ` ORDER BY start_min, end_min, id` + lockingSuffix(r.dialect)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing entries for user day: %w", err)
	}
	defer rows.Close()
	return r.scanEntries(rows)
}

func (r *SQLEntryRepo) ListByRange(ctx context.Context, userID string, from, to time.Time) ([]*domain.TimeEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM time_entries
		WHERE user_id = ? AND work_date BETWEEN ? AND ?
		ORDER BY work_date DESC, start_min ASC, id`
	rows, err := r.db.QueryContext(ctx, query, userID, domain.DateKey(from), domain.DateKey(to))
	if err != nil {
		return nil, fmt.Errorf("listing entries by range: %w", err)
	}
	defer rows.Close()
	return r.scanEntries(rows)
}

func (r *SQLEntryRepo) Update(ctx context.Context, e *domain.TimeEntry) error {
	query := `UPDATE time_entries
		SET work_date = ?, start_min = ?, end_min = ?, biz_type = ?, biz_code = ?,
		    description = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`
	_, err := r.db.ExecContext(ctx, query,
		e.DateKey(),
		e.Start.Minutes(),
		e.End.Minutes(),
		e.BizType,
		e.BizCode,
		e.Description,
		formatTime(e.UpdatedAt),
		e.ID,
		e.UserID,
	)
	if err != nil {
		return fmt.Errorf("updating time entry: %w", err)
	}
	return nil
}

func (r *SQLEntryRepo) Delete(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM time_entries WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("deleting time entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting time entry: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("time entry %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *SQLEntryRepo) DeleteByDate(ctx context.Context, userID string, date time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM time_entries WHERE user_id = ? AND work_date = ?`, userID, domain.DateKey(date))
	if err != nil {
		return 0, fmt.Errorf("deleting entries by date: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("deleting entries by date: %w", err)
	}
	return n, nil
}

type entryRow struct {
	e                    domain.TimeEntry
	date                 string
	startMin, endMin     int
	createdAt, updatedAt string
}

func (row *entryRow) dest() []any {
	return []any{
		&row.e.ID, &row.e.UserID, &row.date, &row.startMin, &row.endMin,
		&row.e.BizType, &row.e.BizCode, &row.e.Description, &row.createdAt, &row.updatedAt,
	}
}

// scanEntry scans a single entry from a *sql.Row.
func (r *SQLEntryRepo) scanEntry(row *sql.Row) (*domain.TimeEntry, error) {
	var raw entryRow
	if err := row.Scan(raw.dest()...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("time entry: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning time entry: %w", err)
	}
	return r.populateEntry(&raw)
}

// scanEntries scans multiple entries from *sql.Rows.
func (r *SQLEntryRepo) scanEntries(rows *sql.Rows) ([]*domain.TimeEntry, error) {
	var entries []*domain.TimeEntry
	for rows.Next() {
		var raw entryRow
		if err := rows.Scan(raw.dest()...); err != nil {
			return nil, fmt.Errorf("scanning time entry row: %w", err)
		}
		e, err := r.populateEntry(&raw)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating time entries: %w", err)
	}
	return entries, nil
}

// populateEntry fills in parsed fields after scanning raw column values.
func (r *SQLEntryRepo) populateEntry(raw *entryRow) (*domain.TimeEntry, error) {
	e := raw.e
	var err error
	e.Date, err = domain.ParseDate(raw.date)
	if err != nil {
		return nil, fmt.Errorf("parsing work_date: %w", err)
	}
	e.Start = domain.Clock(raw.startMin)
	e.End = domain.Clock(raw.endMin)
	e.CreatedAt, err = time.Parse(time.RFC3339, raw.createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	e.UpdatedAt, err = time.Parse(time.RFC3339, raw.updatedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &e, nil
}
