// Package httpapi exposes the time-entry services over JSON HTTP.
//
// Routes:
//
//	GET    /api/work-logs?userId=&startDate=&endDate=
//	POST   /api/work-logs                  batch create
//	PUT    /api/work-logs                  batch save (id = update, no id = insert)
//	GET    /api/work-logs/{id}?userId=
//	PUT    /api/work-logs/{id}
//	DELETE /api/work-logs/{id}?userId=
//	GET    /api/work-logs/{id}/day?userId=
//	DELETE /api/work-logs/date?userId=&date=
//	GET    /api/work-types
//	GET    /healthz
//	GET    /metrics
package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/alexanderramin/timesheet/internal/domain"
	"github.com/alexanderramin/timesheet/internal/repository"
	"github.com/alexanderramin/timesheet/internal/service"
)

const maxRequestBodySize = 1 << 20

// Server routes HTTP requests to the entry and work-type services.
type Server struct {
	entries service.EntryService
	types   service.WorkTypeService
	log     *slog.Logger
	metrics *Metrics
}

// NewServer builds a Server. A nil logger discards logs; nil metrics
// disables /metrics and request counting.
func NewServer(entries service.EntryService, types service.WorkTypeService, logger *slog.Logger, metrics *Metrics) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{entries: entries, types: types, log: logger, metrics: metrics}
}

// Handler returns the routed handler wrapped in request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics.Handler())
	}

	mux.HandleFunc("GET /api/work-logs", s.handleListRange)
	mux.HandleFunc("POST /api/work-logs", s.handleCreateBatch)
	mux.HandleFunc("PUT /api/work-logs", s.handleSaveBatch)
	mux.HandleFunc("DELETE /api/work-logs/date", s.handleDeleteDay)
	mux.HandleFunc("GET /api/work-logs/{id}", s.handleGet)
	mux.HandleFunc("PUT /api/work-logs/{id}", s.handleUpdate)
	mux.HandleFunc("DELETE /api/work-logs/{id}", s.handleDelete)
	mux.HandleFunc("GET /api/work-logs/{id}/day", s.handleDay)
	mux.HandleFunc("GET /api/work-types", s.handleWorkTypes)

	return s.loggingMiddleware(mux)
}

// HTTPServer returns a configured http.Server. Call ListenAndServe on it in a
// goroutine and Shutdown it on exit.
func (s *Server) HTTPServer(addr string) *http.Server {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.log.Info("http server configured", slog.String("addr", addr))
	return srv
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		dur := time.Since(start)

		// The mux records the matched pattern on r.
		if s.metrics != nil {
			s.metrics.observeRequest(r.Pattern, rec.status, dur)
		}
		s.log.Info("http request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", rec.status),
			slog.String("remote", r.RemoteAddr),
			slog.Duration("dur", dur),
		)
	})
}

func (s *Server) handleListRange(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	userID, ok := requireUser(w, q.Get("userId"))
	if !ok {
		return
	}
	from, err := domain.ParseDate(q.Get("startDate"))
	if err != nil {
		writeFailure(w, http.StatusBadRequest, "startDate: "+err.Error())
		return
	}
	to, err := domain.ParseDate(q.Get("endDate"))
	if err != nil {
		writeFailure(w, http.StatusBadRequest, "endDate: "+err.Error())
		return
	}

	list, err := s.entries.ListRange(r.Context(), userID, from, to)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	resp := workLogsResponse{envelope: envelope{Success: true}, WorkLogs: toWorkLogsJSON(list)}
	for _, e := range list {
		resp.TotalMin += e.DurationMin()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateBatch(w http.ResponseWriter, r *http.Request) {
	req, entries, ok := decodeBatch(w, r)
	if !ok {
		return
	}
	if err := s.entries.CreateBatch(r.Context(), req.UserID, entries); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, batchResponse{
		envelope: envelope{Success: true},
		Created:  len(entries),
		WorkLogs: toWorkLogsJSON(entries),
	})
}

func (s *Server) handleSaveBatch(w http.ResponseWriter, r *http.Request) {
	req, entries, ok := decodeBatch(w, r)
	if !ok {
		return
	}
	res, err := s.entries.SaveBatch(r.Context(), req.UserID, entries)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, batchResponse{
		envelope: envelope{Success: true},
		Created:  res.Created,
		Updated:  res.Updated,
		WorkLogs: toWorkLogsJSON(entries),
	})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r.URL.Query().Get("userId"))
	if !ok {
		return
	}
	e, err := s.entries.GetByID(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, workLogResponse{envelope: envelope{Success: true}, WorkLog: toWorkLogJSON(e)})
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var body workLogJSON
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeFailure(w, http.StatusBadRequest, "invalid request body")
		return
	}
	userID, ok := requireUser(w, body.UserID)
	if !ok {
		return
	}
	body.ID = r.PathValue("id")
	e, err := body.toEntry(userID)
	if err != nil {
		writeFailure(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.entries.Update(r.Context(), e); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, workLogResponse{envelope: envelope{Success: true}, WorkLog: toWorkLogJSON(e)})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r.URL.Query().Get("userId"))
	if !ok {
		return
	}
	if err := s.entries.Delete(r.Context(), userID, r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true})
}

func (s *Server) handleDay(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r.URL.Query().Get("userId"))
	if !ok {
		return
	}
	day, err := s.entries.DayOf(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dayResponse{
		envelope:     envelope{Success: true},
		Date:         domain.DateKey(day.Date),
		WorkLogs:     toWorkLogsJSON(day.Entries),
		TotalMin:     day.TotalMin,
		CapMin:       day.CapMin,
		RemainingMin: day.RemainingMin,
	})
}

func (s *Server) handleDeleteDay(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	userID, ok := requireUser(w, q.Get("userId"))
	if !ok {
		return
	}
	date, err := domain.ParseDate(q.Get("date"))
	if err != nil {
		writeFailure(w, http.StatusBadRequest, "date: "+err.Error())
		return
	}
	n, err := s.entries.DeleteDay(r.Context(), userID, date)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, deleteDayResponse{envelope: envelope{Success: true}, Deleted: n})
}

func (s *Server) handleWorkTypes(w http.ResponseWriter, r *http.Request) {
	types, err := s.types.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := make([]workTypeJSON, len(types))
	for i, t := range types {
		out[i] = workTypeJSON{BizType: t.BizType, BizCode: t.BizCode, BizName: t.BizName}
	}
	writeJSON(w, http.StatusOK, workTypesResponse{envelope: envelope{Success: true}, WorkTypes: out})
}

func decodeBatch(w http.ResponseWriter, r *http.Request) (batchRequest, []*domain.TimeEntry, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, "invalid request body")
		return req, nil, false
	}
	if _, ok := requireUser(w, req.UserID); !ok {
		return req, nil, false
	}
	entries, err := req.toEntries()
	if err != nil {
		writeFailure(w, http.StatusBadRequest, err.Error())
		return req, nil, false
	}
	return req, entries, true
}

func requireUser(w http.ResponseWriter, userID string) (string, bool) {
	if userID == "" {
		writeFailure(w, http.StatusBadRequest, "userId is required")
		return "", false
	}
	return userID, true
}

// writeError maps service errors onto status codes. Rule rejections carry
// the validator message verbatim.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		s.log.Info("work log rejected",
			slog.String("path", r.URL.Path),
			slog.String("kind", string(verr.Kind())),
			slog.String("reason", verr.Error()),
		)
		writeFailure(w, http.StatusBadRequest, verr.Error())
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, domain.ErrMalformedTime),
		errors.Is(err, domain.ErrMalformedDate):
		writeFailure(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, repository.ErrNotFound):
		writeFailure(w, http.StatusNotFound, "work log not found")
	case errors.Is(err, repository.ErrDuplicate):
		writeFailure(w, http.StatusConflict, err.Error())
	default:
		s.log.Error("request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		writeFailure(w, http.StatusInternalServerError, "server error")
	}
}

func writeFailure(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{Success: false, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
