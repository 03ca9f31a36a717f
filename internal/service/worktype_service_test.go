package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/alexanderramin/timesheet/internal/domain"
	"github.com/alexanderramin/timesheet/internal/repository"
	"github.com/alexanderramin/timesheet/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupWorkTypeService(t *testing.T) WorkTypeService {
	t.Helper()
	return NewWorkTypeService(repository.NewSQLWorkTypeRepo(testutil.NewTestDB(t)))
}

func TestWorkTypeService_CreateNormalizes(t *testing.T) {
	svc := setupWorkTypeService(t)
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, domain.WorkType{BizType: " edu ", BizCode: "e01", BizName: " Training "}))

	types, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, types, domain.WorkType{BizType: "EDU", BizCode: "E01", BizName: "Training"})
}

func TestWorkTypeService_CreateRejectsBadInput(t *testing.T) {
	svc := setupWorkTypeService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		wt   domain.WorkType
	}{
		{"missing name", domain.WorkType{BizType: "EDU", BizCode: "E01"}},
		{"blank type", domain.WorkType{BizType: "  ", BizCode: "E01", BizName: "Training"}},
		{"code too long", domain.WorkType{BizType: "EDU", BizCode: strings.Repeat("X", maxWorkTypeCode+1), BizName: "Training"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Create(ctx, tt.wt)
			assert.True(t, errors.Is(err, ErrInvalidInput), "got %v", err)
		})
	}
}

func TestWorkTypeService_Duplicate(t *testing.T) {
	svc := setupWorkTypeService(t)
	ctx := context.Background()

	err := svc.Create(ctx, domain.WorkType{BizType: "adm", BizCode: "a01", BizName: "Again"})
	assert.True(t, errors.Is(err, repository.ErrDuplicate))
}
