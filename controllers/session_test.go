package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"agenda-backend/models"
	"agenda-backend/services"

	"github.com/gin-gonic/gin"
)

type stubSessionManager struct {
	listResult   []models.Session
	getResult    *models.Session
	createResult []models.Session
	updateResult *services.UpdateResult
	deleted      int64
	available    bool
	err          error

	lastFilter  services.SessionFilter
	lastCreate  services.CreateSessionInput
	lastUpdate  services.UpdateSessionInput
	lastID      uint
	lastAll     bool
	lastExclude uint
}

func (s *stubSessionManager) List(_ context.Context, filter services.SessionFilter) ([]models.Session, error) {
	s.lastFilter = filter
	return s.listResult, s.err
}

func (s *stubSessionManager) Get(_ context.Context, id uint) (*models.Session, error) {
	s.lastID = id
	return s.getResult, s.err
}

func (s *stubSessionManager) Create(_ context.Context, input services.CreateSessionInput) ([]models.Session, error) {
	s.lastCreate = input
	return s.createResult, s.err
}

func (s *stubSessionManager) Update(_ context.Context, id uint, input services.UpdateSessionInput) (*services.UpdateResult, error) {
	s.lastID = id
	s.lastUpdate = input
	return s.updateResult, s.err
}

func (s *stubSessionManager) Delete(_ context.Context, id uint, all bool) (int64, error) {
	s.lastID = id
	s.lastAll = all
	return s.deleted, s.err
}

func (s *stubSessionManager) CheckAvailability(_ context.Context, _, _ string, excludeID uint) (bool, error) {
	s.lastExclude = excludeID
	return s.available, s.err
}

func newSessionRouter(stub *stubSessionManager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	sc := NewSessionController(stub)
	r := gin.New()
	r.GET("/sessions", sc.GetSessions)
	r.GET("/sessions/availability", sc.CheckAvailability)
	r.GET("/sessions/:id", sc.GetSession)
	r.POST("/sessions", sc.CreateSession)
	r.PUT("/sessions/:id", sc.UpdateSession)
	r.DELETE("/sessions/:id", sc.DeleteSession)
	return r
}

func perform(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestCreateSessionReturnsCreatedOccurrences(t *testing.T) {
	group := "group-1"
	stub := &stubSessionManager{createResult: []models.Session{
		{ID: 1, Date: "2025-01-06", RecurrenceID: &group},
		{ID: 2, Date: "2025-01-13", RecurrenceID: &group},
	}}
	r := newSessionRouter(stub)

	rec := perform(r, http.MethodPost, "/sessions",
		`{"clientId":3,"date":"2025-01-06","time":"09:00","attendanceType":"individual","frequency":"weekly","value":120}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Session  models.Session   `json:"session"`
		Sessions []models.Session `json:"sessions"`
		Count    int              `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Count != 2 || body.Session.ID != 1 {
		t.Fatalf("unexpected body %+v", body)
	}
	if stub.lastCreate.ClientID != 3 || stub.lastCreate.Value == nil || *stub.lastCreate.Value != 120 {
		t.Fatalf("input not forwarded: %+v", stub.lastCreate)
	}
}

func TestCreateSessionDefaultsToSingle(t *testing.T) {
	stub := &stubSessionManager{createResult: []models.Session{{ID: 1}}}
	r := newSessionRouter(stub)

	rec := perform(r, http.MethodPost, "/sessions", `{"clientId":3,"date":"2025-01-06","time":"09:00","attendanceType":"individual"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if stub.lastCreate.Frequency != services.FrequencySingle {
		t.Fatalf("expected single frequency, got %q", stub.lastCreate.Frequency)
	}
}

func TestCreateSessionRejectsMissingFields(t *testing.T) {
	r := newSessionRouter(&stubSessionManager{})
	rec := perform(r, http.MethodPost, "/sessions", `{"date":"2025-01-06"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestSessionErrorsMapToStatuses(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"conflict", &services.ConflictError{Axis: services.AxisFrequency, Date: "2025-01-20", Time: "09:00"}, http.StatusConflict},
		{"slot taken", services.ErrSlotTaken, http.StatusConflict},
		{"invalid", services.ErrInvalidInput, http.StatusBadRequest},
		{"not found", services.ErrNotFound, http.StatusNotFound},
		{"unexpected", context.DeadlineExceeded, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newSessionRouter(&stubSessionManager{err: tc.err})
			rec := perform(r, http.MethodPut, "/sessions/7", `{"time":"10:00","updateFutureDateTime":true}`)
			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d: %s", tc.want, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestConflictMessageNamesAxis(t *testing.T) {
	r := newSessionRouter(&stubSessionManager{err: &services.ConflictError{Axis: services.AxisTime, Date: "2025-01-27", Time: "14:00"}})
	rec := perform(r, http.MethodPut, "/sessions/7", `{"time":"14:00"}`)

	var body map[string]string
	json.Unmarshal(rec.Body.Bytes(), &body)
	if !strings.Contains(body["error"], "new time") || !strings.Contains(body["error"], "2025-01-27") {
		t.Fatalf("unexpected message %q", body["error"])
	}
}

func TestUpdateSessionForwardsFlags(t *testing.T) {
	stub := &stubSessionManager{updateResult: &services.UpdateResult{Session: &models.Session{ID: 7}, Propagated: 3}}
	r := newSessionRouter(stub)

	rec := perform(r, http.MethodPut, "/sessions/7",
		`{"frequency":"biweekly","value":90,"updateFutureFrequency":true,"updateFutureValues":true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if stub.lastID != 7 || !stub.lastUpdate.UpdateFutureFrequency || !stub.lastUpdate.UpdateFutureValues || stub.lastUpdate.UpdateFutureDateTime {
		t.Fatalf("flags not forwarded: %+v", stub.lastUpdate)
	}
	if stub.lastUpdate.Frequency == nil || *stub.lastUpdate.Frequency != "biweekly" || stub.lastUpdate.Time != nil {
		t.Fatalf("fields not forwarded: %+v", stub.lastUpdate)
	}
	if !strings.Contains(rec.Body.String(), `"propagated":3`) {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}

func TestDeleteSessionAll(t *testing.T) {
	stub := &stubSessionManager{deleted: 3}
	r := newSessionRouter(stub)

	rec := perform(r, http.MethodDelete, "/sessions/9?all=true", "")
	if rec.Code != http.StatusOK || !stub.lastAll || stub.lastID != 9 {
		t.Fatalf("unexpected delete: code=%d all=%v id=%d", rec.Code, stub.lastAll, stub.lastID)
	}

	rec = perform(r, http.MethodDelete, "/sessions/abc", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a bad id, got %d", rec.Code)
	}

	stub.lastID = 0
	rec = perform(r, http.MethodDelete, "/sessions/10?all=yes", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a malformed all flag, got %d", rec.Code)
	}
	if stub.lastID != 0 {
		t.Fatalf("expected no delete for a malformed all flag, got id %d", stub.lastID)
	}
}

func TestListSessionsFilters(t *testing.T) {
	stub := &stubSessionManager{listResult: []models.Session{}}
	r := newSessionRouter(stub)

	rec := perform(r, http.MethodGet, "/sessions?clientId=4&from=2025-01-01&to=2025-01-31", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if stub.lastFilter.ClientID != 4 || stub.lastFilter.From != "2025-01-01" || stub.lastFilter.To != "2025-01-31" {
		t.Fatalf("unexpected filter %+v", stub.lastFilter)
	}

	rec = perform(r, http.MethodGet, "/sessions?clientId=x", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCheckAvailabilityHandler(t *testing.T) {
	stub := &stubSessionManager{available: true}
	r := newSessionRouter(stub)

	rec := perform(r, http.MethodGet, "/sessions/availability?date=2025-01-06&time=09:00&excludeId=5", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"available":true`) || stub.lastExclude != 5 {
		t.Fatalf("unexpected response %d %s", rec.Code, rec.Body.String())
	}

	rec = perform(r, http.MethodGet, "/sessions/availability?date=2025-01-06", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without time, got %d", rec.Code)
	}
}

func getWithToken(r http.Handler, path, token string) int {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec.Code
}
