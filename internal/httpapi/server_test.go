package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alexanderramin/timesheet/internal/db"
	"github.com/alexanderramin/timesheet/internal/repository"
	"github.com/alexanderramin/timesheet/internal/service"
	"github.com/alexanderramin/timesheet/internal/testutil"
	"github.com/alexanderramin/timesheet/internal/worktime"
	"github.com/prometheus/client_golang/prometheus/testutil/promlint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiFixture struct {
	handler http.Handler
	repo    *repository.SQLEntryRepo
	metrics *Metrics
}

func setupAPI(t *testing.T) *apiFixture {
	t.Helper()
	database := testutil.NewTestDB(t)
	repo := repository.NewSQLEntryRepo(database, db.DialectSQLite)
	metrics := NewMetrics()
	entries := service.NewEntryService(repo, testutil.NewTestUoW(database), db.DialectSQLite, worktime.New(0), metrics)
	types := service.NewWorkTypeService(repository.NewSQLWorkTypeRepo(database))
	srv := NewServer(entries, types, nil, metrics)
	return &apiFixture{handler: srv.Handler(), repo: repo, metrics: metrics}
}

func (f *apiFixture) do(t *testing.T, method, target string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	var decoded map[string]any
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	}
	return rec, decoded
}

func workLog(date, start, end string) map[string]any {
	return map[string]any{
		"date":        date,
		"start_time":  start,
		"end_time":    end,
		"bizType":     "DEV",
		"bizCode":     "D01",
		"description": "work",
	}
}

func TestHealthz(t *testing.T) {
	f := setupAPI(t)
	rec, _ := f.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestCreateBatch_AndListRange(t *testing.T) {
	f := setupAPI(t)

	rec, body := f.do(t, http.MethodPost, "/api/work-logs", map[string]any{
		"userId": "kim",
		"workLogs": []any{
			workLog("2024-05-02", "09:00", "12:00"),
			workLog("2024-05-02", "13:00", "17:30"),
			workLog("2024-05-03", "09:00", "10:00"),
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, true, body["success"])
	assert.EqualValues(t, 3, body["created"])

	rec, body = f.do(t, http.MethodGet, "/api/work-logs?userId=kim&startDate=2024-05-01&endDate=2024-05-31", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	logs := body["workLogs"].([]any)
	require.Len(t, logs, 3)
	first := logs[0].(map[string]any)
	assert.Equal(t, "2024-05-03", first["date"], "newest date first")
	second := logs[1].(map[string]any)
	assert.Equal(t, "09:00", second["start_time"])
	assert.EqualValues(t, 180+270+60, body["totalMin"])
}

func TestCreateBatch_OverlapRejectedVerbatim(t *testing.T) {
	f := setupAPI(t)

	rec, body := f.do(t, http.MethodPost, "/api/work-logs", map[string]any{
		"userId": "kim",
		"workLogs": []any{
			workLog("2024-05-02", "09:00", "10:00"),
			workLog("2024-05-02", "09:30", "10:30"),
		},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "time range 09:00-10:00 overlaps 09:30-10:30 on 2024-05-02", body["message"])
}

func TestCreateBatch_CapAgainstPersisted(t *testing.T) {
	f := setupAPI(t)
	require.NoError(t, f.repo.Create(context.Background(), testutil.NewTestEntry("kim", "09:00", "13:00")))
	require.NoError(t, f.repo.Create(context.Background(), testutil.NewTestEntry("kim", "14:00", "18:00")))

	rec, body := f.do(t, http.MethodPost, "/api/work-logs", map[string]any{
		"userId":   "kim",
		"workLogs": []any{workLog("2024-05-02", "18:00", "19:01")},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, body["message"], "exceeding the daily limit of 9.0h")
}

func TestCreateBatch_MalformedInput(t *testing.T) {
	f := setupAPI(t)

	tests := []struct {
		name    string
		body    any
		wantMsg string
	}{
		{"bad json", "{", "invalid request body"},
		{"no user", map[string]any{"workLogs": []any{workLog("2024-05-02", "09:00", "10:00")}}, "userId is required"},
		{"bad time", map[string]any{"userId": "kim", "workLogs": []any{workLog("2024-05-02", "9am", "10:00")}}, "start_time"},
		{"signed time", map[string]any{"userId": "kim", "workLogs": []any{workLog("2024-05-02", "+9:00", "10:00")}}, "start_time"},
		{"signed minutes", map[string]any{"userId": "kim", "workLogs": []any{workLog("2024-05-02", "09:00", "10:+5")}}, "end_time"},
		{"bad date", map[string]any{"userId": "kim", "workLogs": []any{workLog("02/05/2024", "09:00", "10:00")}}, "date"},
		{"empty batch", map[string]any{"userId": "kim", "workLogs": []any{}}, "no entries submitted"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := f.do(t, http.MethodPost, "/api/work-logs", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, body["message"], tt.wantMsg)
		})
	}
}

func TestGetUpdateDelete(t *testing.T) {
	f := setupAPI(t)
	e := testutil.NewTestEntry("kim", "09:00", "12:00")
	other := testutil.NewTestEntry("kim", "14:00", "19:00")
	require.NoError(t, f.repo.Create(context.Background(), e))
	require.NoError(t, f.repo.Create(context.Background(), other))

	rec, body := f.do(t, http.MethodGet, "/api/work-logs/"+e.ID+"?userId=kim", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "12:00", body["workLog"].(map[string]any)["end_time"])

	rec, _ = f.do(t, http.MethodGet, "/api/work-logs/"+e.ID+"?userId=lee", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// 4h edited + 5h other = 9h exactly, self excluded.
	update := workLog("2024-05-02", "09:00", "13:00")
	update["userId"] = "kim"
	rec, body = f.do(t, http.MethodPut, "/api/work-logs/"+e.ID, update)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.EqualValues(t, 240, body["workLog"].(map[string]any)["durationMin"])

	update = workLog("2024-05-02", "09:00", "13:01")
	update["userId"] = "kim"
	rec, body = f.do(t, http.MethodPut, "/api/work-logs/"+e.ID, update)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, body["message"], "daily limit")

	rec, _ = f.do(t, http.MethodDelete, "/api/work-logs/"+e.ID+"?userId=kim", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec, _ = f.do(t, http.MethodDelete, "/api/work-logs/"+e.ID+"?userId=kim", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSaveBatch_Mixed(t *testing.T) {
	f := setupAPI(t)
	e := testutil.NewTestEntry("kim", "09:00", "12:00")
	require.NoError(t, f.repo.Create(context.Background(), e))

	edited := workLog("2024-05-02", "09:00", "10:00")
	edited["id"] = e.ID
	rec, body := f.do(t, http.MethodPut, "/api/work-logs", map[string]any{
		"userId":   "kim",
		"workLogs": []any{edited, workLog("2024-05-02", "10:00", "11:30")},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.EqualValues(t, 1, body["created"])
	assert.EqualValues(t, 1, body["updated"])
}

func TestDayView(t *testing.T) {
	f := setupAPI(t)
	e := testutil.NewTestEntry("kim", "09:00", "12:00")
	require.NoError(t, f.repo.Create(context.Background(), e))
	require.NoError(t, f.repo.Create(context.Background(), testutil.NewTestEntry("kim", "13:00", "14:30")))

	rec, body := f.do(t, http.MethodGet, "/api/work-logs/"+e.ID+"/day?userId=kim", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2024-05-02", body["date"])
	assert.Len(t, body["workLogs"], 2)
	assert.EqualValues(t, 270, body["totalMin"])
	assert.EqualValues(t, 540, body["capMin"])
	assert.EqualValues(t, 270, body["remainingMin"])
}

func TestDeleteDay(t *testing.T) {
	f := setupAPI(t)
	require.NoError(t, f.repo.Create(context.Background(), testutil.NewTestEntry("kim", "09:00", "12:00")))

	rec, body := f.do(t, http.MethodDelete, "/api/work-logs/date?userId=kim&date=2024-05-02", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, body["deleted"])

	rec, _ = f.do(t, http.MethodDelete, "/api/work-logs/date?userId=kim&date=2024-05-02", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = f.do(t, http.MethodDelete, "/api/work-logs/date?userId=kim&date=tomorrow", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWorkTypes(t *testing.T) {
	f := setupAPI(t)
	rec, body := f.do(t, http.MethodGet, "/api/work-types", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	types := body["workTypes"].([]any)
	require.Len(t, types, 5)
	assert.Equal(t, "ADM", types[0].(map[string]any)["bizType"])
}

func TestMetrics_CountRejectionsAndRequests(t *testing.T) {
	f := setupAPI(t)
	f.do(t, http.MethodPost, "/api/work-logs", map[string]any{
		"userId":   "kim",
		"workLogs": []any{workLog("2024-05-02", "12:00", "09:00")},
	})

	rec, _ := f.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	out := rec.Body.String()
	assert.Contains(t, out, `timesheet_validation_rejections_total{kind="invalid_ordering"} 1`)
	assert.Contains(t, out, `timesheet_use_cases_total{outcome="rejected",use_case="create-batch"} 1`)
	assert.Contains(t, out, `timesheet_http_requests_total{code="400",route="POST /api/work-logs"} 1`)

	families, err := f.metrics.Registry().Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, mf := range families {
		names = append(names, mf.GetName())
	}
	assert.Contains(t, names, "timesheet_use_cases_total")
	assert.Contains(t, names, "go_goroutines")

	problems, err := promlint.New(strings.NewReader(out)).Lint()
	require.NoError(t, err)
	for _, p := range problems {
		if strings.HasPrefix(p.Metric, "timesheet_") {
			t.Errorf("lint %s: %s", p.Metric, p.Text)
		}
	}
}
