package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/timesheet/internal/db"
	"github.com/alexanderramin/timesheet/internal/domain"
)

// SQLWorkTypeRepo implements WorkTypeRepo on database/sql.
type SQLWorkTypeRepo struct {
	db db.DBTX
}

// NewSQLWorkTypeRepo creates a new SQLWorkTypeRepo.
func NewSQLWorkTypeRepo(conn db.DBTX) *SQLWorkTypeRepo {
	return &SQLWorkTypeRepo{db: conn}
}

func (r *SQLWorkTypeRepo) List(ctx context.Context) ([]domain.WorkType, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT biz_type, biz_code, biz_name FROM work_types ORDER BY biz_type, biz_code`)
	if err != nil {
		return nil, fmt.Errorf("listing work types: %w", err)
	}
	defer rows.Close()

	var types []domain.WorkType
	for rows.Next() {
		var wt domain.WorkType
		if err := rows.Scan(&wt.BizType, &wt.BizCode, &wt.BizName); err != nil {
			return nil, fmt.Errorf("scanning work type row: %w", err)
		}
		types = append(types, wt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating work types: %w", err)
	}
	return types, nil
}

func (r *SQLWorkTypeRepo) Get(ctx context.Context, bizType, bizCode string) (*domain.WorkType, error) {
	var wt domain.WorkType
	err := r.db.QueryRowContext(ctx,
		`SELECT biz_type, biz_code, biz_name FROM work_types WHERE biz_type = ? AND biz_code = ?`,
		bizType, bizCode,
	).Scan(&wt.BizType, &wt.BizCode, &wt.BizName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("work type %s/%s: %w", bizType, bizCode, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning work type: %w", err)
	}
	return &wt, nil
}

func (r *SQLWorkTypeRepo) Create(ctx context.Context, wt domain.WorkType) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO work_types (biz_type, biz_code, biz_name) VALUES (?, ?, ?)`,
		wt.BizType, wt.BizCode, wt.BizName)
	if err != nil {
		if isDuplicateKey(err) {
			return fmt.Errorf("work type %s/%s: %w", wt.BizType, wt.BizCode, ErrDuplicate)
		}
		return fmt.Errorf("inserting work type: %w", err)
	}
	return nil
}
