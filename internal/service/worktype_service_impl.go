package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/timesheet/internal/domain"
	"github.com/alexanderramin/timesheet/internal/repository"
)

// maxWorkTypeCode matches the width of the biz_type and biz_code columns.
const maxWorkTypeCode = 32

type workTypeService struct {
	types repository.WorkTypeRepo
}

func NewWorkTypeService(types repository.WorkTypeRepo) WorkTypeService {
	return &workTypeService{types: types}
}

func (s *workTypeService) List(ctx context.Context) ([]domain.WorkType, error) {
	return s.types.List(ctx)
}

func (s *workTypeService) Create(ctx context.Context, wt domain.WorkType) error {
	wt.BizType = strings.ToUpper(strings.TrimSpace(wt.BizType))
	wt.BizCode = strings.ToUpper(strings.TrimSpace(wt.BizCode))
	wt.BizName = strings.TrimSpace(wt.BizName)

	switch {
	case wt.BizType == "" || wt.BizCode == "" || wt.BizName == "":
		return fmt.Errorf("%w: type, code and name are required", ErrInvalidInput)
	case len(wt.BizType) > maxWorkTypeCode || len(wt.BizCode) > maxWorkTypeCode:
		return fmt.Errorf("%w: type and code are at most %d characters", ErrInvalidInput, maxWorkTypeCode)
	}
	return s.types.Create(ctx, wt)
}
